package offerletter

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // screenshot decoder
	"math"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// cssPixelsPerInch maps layout widths to CSS pixels.
const cssPixelsPerInch = 96

// printableWidthPx is the CSS width of the page content box.
func printableWidthPx(page *PageSettings) int {
	w, _ := page.pageInches()
	return int(math.Round((w - 2*page.Margin) * cssPixelsPerInch))
}

// rasterDocument is a paginated screenshot.
type rasterDocument struct {
	pdf   []byte
	pages int
}

// paginate slices a letter screenshot into page-height strips and places
// each strip, JPEG encoded, on its own PDF page inside the margins. The
// screenshot width spans the content box.
func paginate(ctx context.Context, shot []byte, page *PageSettings, rs RasterSettings, title string) (*rasterDocument, error) {
	img, _, err := image.Decode(bytes.NewReader(shot))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding screenshot: %v", ErrPDFGeneration, err)
	}
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, fmt.Errorf("%w: empty screenshot", ErrPDFGeneration)
	}
	sub, ok := img.(interface {
		SubImage(r image.Rectangle) image.Image
	})
	if !ok {
		return nil, fmt.Errorf("%w: screenshot cannot be sliced", ErrPDFGeneration)
	}

	pageW, pageH := page.pageInches()
	contentW := pageW - 2*page.Margin
	contentH := pageH - 2*page.Margin
	pxPerInch := float64(bounds.Dx()) / contentW
	stripPx := int(math.Floor(contentH * pxPerInch))
	if stripPx < 1 {
		stripPx = 1
	}

	orientation := "P"
	if page.Landscape() {
		orientation = "L"
	}
	pdf := gofpdf.New(orientation, "in", gofpdfSize(page.Size), "")
	pdf.SetMargins(page.Margin, page.Margin, page.Margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("go-offerletter", true)
	if title != "" {
		pdf.SetTitle(title, true)
	}

	pages := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y += stripPx {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		bottom := y + stripPx
		if bottom > bounds.Max.Y {
			bottom = bounds.Max.Y
		}
		strip := sub.SubImage(image.Rect(bounds.Min.X, y, bounds.Max.X, bottom))

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, strip, &jpeg.Options{Quality: rs.JPEGQuality}); err != nil {
			return nil, fmt.Errorf("%w: encoding page %d: %v", ErrPDFGeneration, pages+1, err)
		}

		name := fmt.Sprintf("page-%d", pages+1)
		opts := gofpdf.ImageOptions{ImageType: "JPG"}
		pdf.RegisterImageOptionsReader(name, opts, &buf)
		pdf.AddPage()
		heightIn := float64(bottom-y) / pxPerInch
		pdf.ImageOptions(name, page.Margin, page.Margin, contentW, heightIn, false, opts, 0, "")
		pages++
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	return &rasterDocument{pdf: out.Bytes(), pages: pages}, nil
}

func gofpdfSize(size string) string {
	switch strings.ToLower(size) {
	case PageSizeA4:
		return "A4"
	case PageSizeLegal:
		return "Legal"
	default:
		return "Letter"
	}
}

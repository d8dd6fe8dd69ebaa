// Package docx converts a self-contained HTML document into a
// WordprocessingML package (.docx).
//
// The converter reads the document's <style> sheets with douceur, resolves
// a small cascade (simple, descendant, child and sibling selectors plus
// custom properties), and walks the body with golang.org/x/net/html,
// mapping block elements to paragraphs, inline elements to styled runs,
// tables to grid tables and data URI images to embedded media. PNG, JPEG
// and GIF are embedded as is, WebP is re-encoded as PNG, and SVG is kept
// as an svgBlip with a rasterized PNG fallback. Remote images are skipped
// with a warning; callers inline them first.
//
// Properties read: color, background and background-color (shading),
// font-family, font-size, font-weight, font-style, text-decoration,
// text-transform, text-align, display (block or inline), margin-bottom,
// border and border-top/bottom, content of ::before and ::after, and
// width, height, max-width and max-height on images. var() references
// resolve against custom properties.
//
// Not supported: flex and grid layout, position, float, transform,
// box-shadow, border-radius, background-image and gradients, padding and
// left margins, letter-spacing, line-height, opacity, @media, @font-face
// and percentage lengths. Content keeps document order.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/net/html"
)

// MIMEType is the media type of the produced package.
const MIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Sentinel errors.
var (
	ErrConvert     = errors.New("docx conversion failed")
	ErrInvalidPage = errors.New("invalid page setup")
)

// Page sizes in twips (1/1440 inch).
var pageSizes = map[string][2]int{
	"letter": {12240, 15840},
	"a4":     {11906, 16838},
	"legal":  {12240, 20160},
}

// PageSetup describes the section geometry.
type PageSetup struct {
	Size         string // letter, a4 or legal; empty means letter
	Landscape    bool
	MarginInches float64
}

// Options controls package generation.
type Options struct {
	// TableRowCantSplit keeps every table row on a single page.
	TableRowCantSplit bool
	// Footer adds a footer part; FooterText is written in it when set.
	Footer     bool
	FooterText string
	// PageNumber adds a PAGE field to the footer.
	PageNumber bool
	Page       PageSetup
	// Title sets the package core title property.
	Title string
	// Logger receives per-image warnings. Nil means slog.Default().
	Logger *slog.Logger
}

// geometry returns page width, height and margin in twips.
func (p PageSetup) geometry() (width, height, margin int, err error) {
	size := strings.ToLower(strings.TrimSpace(p.Size))
	if size == "" {
		size = "letter"
	}
	dims, ok := pageSizes[size]
	if !ok {
		return 0, 0, 0, fmt.Errorf("%w: unknown size %q", ErrInvalidPage, p.Size)
	}
	if p.MarginInches < 0 || p.MarginInches > 3 {
		return 0, 0, 0, fmt.Errorf("%w: margin %.2f out of range", ErrInvalidPage, p.MarginInches)
	}
	width, height = dims[0], dims[1]
	if p.Landscape {
		width, height = height, width
	}
	margin = int(p.MarginInches*1440 + 0.5)
	if 2*margin >= width || 2*margin >= height {
		return 0, 0, 0, fmt.Errorf("%w: margins exceed page", ErrInvalidPage)
	}
	return width, height, margin, nil
}

// Converter produces .docx packages from HTML. It holds no state and is
// safe for concurrent use.
type Converter struct{}

// NewConverter returns a Converter.
func NewConverter() *Converter {
	return &Converter{}
}

// Convert renders htmlDoc into a .docx package.
func (c *Converter) Convert(ctx context.Context, htmlDoc string, opts Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	width, height, margin, err := opts.Page.geometry()
	if err != nil {
		return nil, err
	}

	root, err := html.Parse(strings.NewReader(htmlDoc))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConvert, err)
	}

	sheet := parseSheet(collectStyles(root))
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	b := newBuilder(ctx, log, sheet, width-2*margin)
	if err := b.build(root); err != nil {
		return nil, err
	}

	pkg := &packageParts{
		body:      b.body(),
		media:     b.media,
		links:     b.links,
		opts:      opts,
		pageW:     width,
		pageH:     height,
		margin:    margin,
		baseFont:  b.baseFont,
		baseSize:  b.baseSize,
		baseColor: b.baseColor,
	}

	var buf bytes.Buffer
	if err := pkg.write(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConvert, err)
	}
	return buf.Bytes(), nil
}

// zipEntry writes one part into the archive.
func zipEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

package docx

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/webp"
)

// SVG fallback rendering bounds.
const (
	svgDefaultW   = 300 // CSS default replaced-element size
	svgDefaultH   = 150
	svgFallbackDP = 2 // fallback pixels per CSS pixel
	svgMaxPx      = 2048
)

var errUnsupportedImage = errors.New("unsupported image type")

// contentTypes maps media part extensions to package content types.
var contentTypes = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"svg":  "image/svg+xml",
}

// nativeExt lists the raster types Word reads as is.
var nativeExt = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpeg",
	"image/jpg":  "jpeg",
	"image/gif":  "gif",
}

// embeddedImage is a decoded image ready to become media parts. svg is set
// for vector sources, and data then holds the PNG fallback.
type embeddedImage struct {
	ext  string
	data []byte
	svg  []byte
	w, h int
}

// prepareImage turns a data URI payload into parts Word can display.
// Native rasters are kept byte for byte; other rasters (WebP) are
// re-encoded as PNG; SVG keeps its source with a PNG fallback.
func prepareImage(mimeType string, data []byte) (*embeddedImage, error) {
	if ext, ok := nativeExt[mimeType]; ok {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		if cfg.Width == 0 || cfg.Height == 0 {
			return nil, fmt.Errorf("empty image %dx%d", cfg.Width, cfg.Height)
		}
		return &embeddedImage{ext: ext, data: data, w: cfg.Width, h: cfg.Height}, nil
	}

	switch mimeType {
	case "image/svg+xml":
		return rasterizeSVG(data)
	case "image/webp":
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		out, err := encodePNG(img)
		if err != nil {
			return nil, err
		}
		b := img.Bounds()
		return &embeddedImage{ext: "png", data: out, w: b.Dx(), h: b.Dy()}, nil
	}
	return nil, fmt.Errorf("%w: %s", errUnsupportedImage, mimeType)
}

// rasterizeSVG renders the icon at its view box size for the PNG
// fallback. The intrinsic size is the view box, or 300x150 without one.
func rasterizeSVG(data []byte) (*embeddedImage, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("parsing svg: %w", err)
	}
	w, h := icon.ViewBox.W, icon.ViewBox.H
	if w <= 0 || h <= 0 {
		w, h = svgDefaultW, svgDefaultH
	}

	scale := float64(svgFallbackDP)
	if longest := math.Max(w, h) * scale; longest > svgMaxPx {
		scale = svgMaxPx / math.Max(w, h)
	}
	pw := max(1, int(math.Round(w*scale)))
	ph := max(1, int(math.Round(h*scale)))

	icon.SetTarget(0, 0, float64(pw), float64(ph))
	img := image.NewRGBA(image.Rect(0, 0, pw, ph))
	scanner := rasterx.NewScannerGV(pw, ph, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(pw, ph, scanner), 1)

	fallback, err := encodePNG(img)
	if err != nil {
		return nil, err
	}
	return &embeddedImage{
		ext:  "png",
		data: fallback,
		svg:  data,
		w:    int(math.Round(w)),
		h:    int(math.Round(h)),
	}, nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}

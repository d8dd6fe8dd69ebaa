package offerletter

import (
	"fmt"
	"strings"
)

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.0
	MaxMargin     = 3.0
	DefaultMargin = 0.5
)

// PDF modes.
const (
	// PDFModeRaster screenshots the letter and paginates the image.
	PDFModeRaster = "raster"
	// PDFModeVector prints the page through the browser's PDF backend.
	PDFModeVector = "vector"
)

// Raster defaults.
const (
	DefaultScale       = 2.0
	DefaultJPEGQuality = 98
)

// Output MIME types.
const (
	MIMETypePDF  = "application/pdf"
	MIMETypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// PageSettings configures exported page geometry.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
}

// DefaultPageSettings returns page settings with default values.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeLetter,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	if !isValidPageSize(p.Size) {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	if !isValidOrientation(p.Orientation) {
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}

	return nil
}

// Landscape reports whether the page is turned sideways.
func (p *PageSettings) Landscape() bool {
	return p != nil && strings.EqualFold(p.Orientation, OrientationLandscape)
}

// pageInches returns the paper width and height in inches after
// orientation.
func (p *PageSettings) pageInches() (w, h float64) {
	switch strings.ToLower(p.Size) {
	case PageSizeA4:
		w, h = 8.27, 11.69
	case PageSizeLegal:
		w, h = 8.5, 14
	default:
		w, h = 8.5, 11
	}
	if p.Landscape() {
		w, h = h, w
	}
	return w, h
}

// isValidPageSize checks if size is a known page size (case-insensitive).
func isValidPageSize(size string) bool {
	switch strings.ToLower(size) {
	case PageSizeLetter, PageSizeA4, PageSizeLegal:
		return true
	}
	return false
}

// isValidOrientation checks if orientation is valid (case-insensitive).
func isValidOrientation(orientation string) bool {
	switch strings.ToLower(orientation) {
	case OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}

// RasterSettings configures raster-mode PDF output.
type RasterSettings struct {
	Scale       float64 // device scale factor of the screenshot
	JPEGQuality int     // 1-100
}

// Validate checks the scale and quality bounds.
func (r RasterSettings) Validate() error {
	if r.Scale < 1 || r.Scale > 4 {
		return fmt.Errorf("%w: scale %.2f (must be between 1 and 4)", ErrInvalidRasterSettings, r.Scale)
	}
	if r.JPEGQuality < 1 || r.JPEGQuality > 100 {
		return fmt.Errorf("%w: jpeg quality %d (must be between 1 and 100)", ErrInvalidRasterSettings, r.JPEGQuality)
	}
	return nil
}

func isValidPDFMode(mode string) bool {
	return mode == PDFModeRaster || mode == PDFModeVector
}

// Artifact is a finished export.
type Artifact struct {
	Name     string
	MIMEType string
	Data     []byte
}

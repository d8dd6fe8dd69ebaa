package offerletter

import "errors"

// Sentinel errors for library operations.
var (
	// Layout errors.
	ErrInvalidIndex = errors.New("section index out of range")
	ErrLayoutFixed  = errors.New("theme layout is fixed")
	ErrUnknownTheme = errors.New("unknown theme")

	// Export errors.
	ErrNoRenderTarget        = errors.New("letter markup has no render target")
	ErrConverterUnavailable  = errors.New("package converter unavailable")
	ErrRasterizerUnavailable = errors.New("rasterizer unavailable")
	ErrBrowserConnect        = errors.New("failed to connect to browser")
	ErrPageCreate            = errors.New("failed to create browser page")
	ErrPageLoad              = errors.New("failed to load page")
	ErrPDFGeneration         = errors.New("PDF generation failed")
	ErrScreenshot            = errors.New("letter screenshot failed")
	ErrDOCXGeneration        = errors.New("DOCX generation failed")
	ErrInvalidPDFMode        = errors.New("invalid PDF mode")
	ErrInvalidRasterSettings = errors.New("invalid raster settings")
	ErrLetterMarkup          = errors.New("letter markup failed")
	ErrStyleResolution       = errors.New("style resolution failed")
	ErrInternal              = errors.New("internal export error")

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")

	// Asset loading errors.
	ErrStyleNotFound    = errors.New("style not found")
	ErrThemeNotFound    = errors.New("theme style not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidAssetPath = errors.New("invalid asset path")
)

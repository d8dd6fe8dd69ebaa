package offerletter

import (
	"errors"

	"github.com/alnah/go-offerletter/internal/assets"
)

// AssetLoader defines the contract for loading letter style sheets and the
// letter template. Implementations may load from the filesystem, embedded
// assets, or any other backend.
type AssetLoader interface {
	// LoadStyle loads a CSS sheet by name (without .css extension).
	// Returns ErrStyleNotFound if the sheet doesn't exist.
	LoadStyle(name string) (string, error)

	// LoadTheme loads a theme sheet by theme name.
	// Returns ErrThemeNotFound if the theme has no sheet.
	LoadTheme(name string) (string, error)

	// LoadTemplate loads an HTML template by name.
	// Returns ErrTemplateNotFound if the template doesn't exist.
	LoadTemplate(name string) (string, error)
}

// NewAssetLoader creates an AssetLoader for the given base path.
// If basePath is empty, returns a loader using only embedded assets.
// If basePath is set, custom assets take precedence with fallback to embedded.
//
// The basePath directory may contain:
//   - styles/{name}.css for base sheets
//   - styles/themes/{theme}.css for theme sheets
//   - templates/{name}.html for the letter template
//
// Returns ErrInvalidAssetPath if basePath is set but not a readable directory.
func NewAssetLoader(basePath string) (AssetLoader, error) {
	resolver, err := assets.NewAssetResolver(basePath)
	if err != nil {
		return nil, convertAssetError(err)
	}
	return &assetLoaderAdapter{resolver: resolver}, nil
}

// assetLoaderAdapter wraps the internal resolver to return public errors.
type assetLoaderAdapter struct {
	resolver *assets.AssetResolver
}

func (a *assetLoaderAdapter) LoadStyle(name string) (string, error) {
	content, err := a.resolver.LoadStyle(name)
	return content, convertAssetError(err)
}

func (a *assetLoaderAdapter) LoadTheme(name string) (string, error) {
	content, err := a.resolver.LoadTheme(name)
	return content, convertAssetError(err)
}

func (a *assetLoaderAdapter) LoadTemplate(name string) (string, error) {
	content, err := a.resolver.LoadTemplate(name)
	return content, convertAssetError(err)
}

// convertAssetError maps internal asset errors to public errors.
func convertAssetError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, assets.ErrStyleNotFound):
		return wrapError(ErrStyleNotFound, err)
	case errors.Is(err, assets.ErrThemeNotFound):
		return wrapError(ErrThemeNotFound, err)
	case errors.Is(err, assets.ErrTemplateNotFound):
		return wrapError(ErrTemplateNotFound, err)
	case errors.Is(err, assets.ErrInvalidBasePath), errors.Is(err, assets.ErrPathTraversal):
		return wrapError(ErrInvalidAssetPath, err)
	case errors.Is(err, assets.ErrInvalidAssetName):
		return wrapError(ErrStyleNotFound, err)
	default:
		return err
	}
}

// wrapError returns an error that keeps the original message and matches
// the public sentinel with errors.Is.
func wrapError(sentinel, original error) error {
	return &wrappedAssetError{sentinel: sentinel, original: original}
}

type wrappedAssetError struct {
	sentinel error
	original error
}

func (e *wrappedAssetError) Error() string {
	return e.original.Error()
}

// Unwrap returns the public sentinel; internal errors stay hidden.
func (e *wrappedAssetError) Unwrap() error {
	return e.sentinel
}

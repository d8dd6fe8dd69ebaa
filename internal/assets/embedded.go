package assets

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed styles
var styles embed.FS

//go:embed templates
var templates embed.FS

// EmbeddedLoader loads assets compiled into the binary.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	return readEmbedded(styles, "styles/", name, ".css", ErrStyleNotFound)
}

func (e *EmbeddedLoader) LoadTheme(name string) (string, error) {
	return readEmbedded(styles, "styles/themes/", name, ".css", ErrThemeNotFound)
}

func (e *EmbeddedLoader) LoadTemplate(name string) (string, error) {
	return readEmbedded(templates, "templates/", name, ".html", ErrTemplateNotFound)
}

// ThemeNames lists the embedded theme sheets, sorted by name.
func (e *EmbeddedLoader) ThemeNames() ([]string, error) {
	matches, err := fs.Glob(styles, "styles/themes/*.css")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		base := m[len("styles/themes/"):]
		names = append(names, base[:len(base)-len(".css")])
	}
	return names, nil
}

func readEmbedded(fsys embed.FS, dir, name, ext string, notFound error) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	content, err := fsys.ReadFile(dir + name + ext)
	if err != nil {
		return "", fmt.Errorf("%w: %q", notFound, name)
	}
	return string(content), nil
}

var _ AssetLoader = (*EmbeddedLoader)(nil)

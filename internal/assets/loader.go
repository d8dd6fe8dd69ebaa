package assets

// AssetLoader loads style sheets and markup templates by name.
// Names carry no extension or path components.
type AssetLoader interface {
	// LoadStyle returns ErrStyleNotFound if the sheet doesn't exist.
	LoadStyle(name string) (string, error)

	// LoadTheme returns ErrThemeNotFound if the theme sheet doesn't exist.
	LoadTheme(name string) (string, error)

	// LoadTemplate returns ErrTemplateNotFound if the template doesn't exist.
	LoadTemplate(name string) (string, error)
}

package assets

// Names of the built-in assets.
const (
	BaseStyleName      = "base"
	LetterTemplateName = "letter"
)

var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads styles/{name}.css from the embedded set.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// LoadTheme loads styles/themes/{name}.css from the embedded set.
func LoadTheme(name string) (string, error) {
	return defaultLoader.LoadTheme(name)
}

// LoadTemplate loads templates/{name}.html from the embedded set.
func LoadTemplate(name string) (string, error) {
	return defaultLoader.LoadTemplate(name)
}

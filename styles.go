package offerletter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/go-offerletter/internal/assets"
)

// resolveStyles assembles the style sheet of doc from loader: base sheet,
// theme sheet, document palette and font, then page geometry. Unknown
// themes are an error; a missing theme sheet is not.
func resolveStyles(loader AssetLoader, doc Document, page *PageSettings) (string, error) {
	if !IsTheme(doc.Theme) {
		return "", fmt.Errorf("%w: %q", ErrUnknownTheme, doc.Theme)
	}

	base, err := loader.LoadStyle(assets.BaseStyleName)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStyleResolution, err)
	}
	theme, err := loader.LoadTheme(doc.Theme)
	if err != nil && !errors.Is(err, ErrThemeNotFound) {
		return "", fmt.Errorf("%w: %v", ErrStyleResolution, err)
	}

	var b strings.Builder
	b.Grow(len(base) + len(theme) + 512)
	b.WriteString(base)
	b.WriteString("\n")
	b.WriteString(theme)
	b.WriteString(buildRootVarsCSS(doc))
	b.WriteString(buildPageCSS(page))
	return b.String(), nil
}

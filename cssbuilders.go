package offerletter

import (
	"fmt"
	"regexp"
	"strings"
)

// genericFontFamily backs the letter font when the chosen face is missing.
const genericFontFamily = "Georgia, serif"

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// validHexColor returns c when it is #RGB or #RRGGBB, otherwise fallback.
func validHexColor(c, fallback string) string {
	c = strings.TrimSpace(c)
	if hexColorPattern.MatchString(c) {
		return c
	}
	return fallback
}

// buildRootVarsCSS overrides the palette and font variables of base.css.
func buildRootVarsCSS(doc Document) string {
	font := strings.TrimSpace(doc.FontFamily)
	if font == "" {
		font = DefaultFontFamily
	}
	return fmt.Sprintf(`
:root {
  --heading-color: %s;
  --body-color: %s;
  --accent-color: %s;
  --font-family: "%s", %s;
}
`,
		validHexColor(doc.HeadingColor, DefaultHeadingColor),
		validHexColor(doc.BodyColor, DefaultBodyColor),
		validHexColor(doc.AccentColor, DefaultAccentColor),
		escapeCSSString(font), genericFontFamily)
}

// escapeCSSString escapes a string for use inside a quoted CSS value.
// Newlines become CSS escapes and carriage returns are dropped.
func escapeCSSString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\A `)
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "<", `\3C `)
	return s
}

// buildPageCSS sets the printed page geometry and keeps letter sections
// from splitting across pages.
func buildPageCSS(page *PageSettings) string {
	if page == nil {
		page = DefaultPageSettings()
	}
	var buf strings.Builder

	fmt.Fprintf(&buf, `
@page {
  size: %s %s;
  margin: %.2fin;
}
`, pageSizeKeyword(page.Size), strings.ToLower(page.Orientation), page.Margin)

	buf.WriteString(`
@media print {
  .letter-header, .letter-signature, .letter-recipient {
    break-inside: avoid;
    page-break-inside: avoid;
  }
  .letter-body p, .letter-body li {
    orphans: 3;
    widows: 3;
  }
}
`)
	return buf.String()
}

func pageSizeKeyword(size string) string {
	switch strings.ToLower(size) {
	case PageSizeA4:
		return "A4"
	case PageSizeLegal:
		return "legal"
	default:
		return "letter"
	}
}

// buildRasterWidthCSS pins the render target to the printable width so the
// screenshot slices map one to one onto pages.
func buildRasterWidthCSS(widthPx int) string {
	return fmt.Sprintf(`
html, body { margin: 0; padding: 0; background: #ffffff; }
#letter-preview-content { width: %dpx; margin: 0; }
`, widthPx)
}

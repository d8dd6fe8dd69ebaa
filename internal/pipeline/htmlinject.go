package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// RenderTargetID is the id of the element holding the rendered letter.
const RenderTargetID = "letter-preview-content"

// ErrMarkupParse indicates markup could not be parsed for transformation.
var ErrMarkupParse = errors.New("markup parsing failed")

// editorOnlySelectors match nodes that exist only for on-screen editing.
const editorOnlySelectors = "[data-drag-handle], .drag-handle, [data-editor-only]"

// sanitizeCSS keeps CSS from closing its <style> element early.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// WrapDocument places a markup fragment in a minimal HTML5 shell with the
// style sheet embedded in the head.
func WrapDocument(fragment, css string) string {
	var b strings.Builder
	b.Grow(len(fragment) + len(css) + 128)
	b.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="UTF-8">`)
	if css != "" {
		b.WriteString("<style>")
		b.WriteString(sanitizeCSS(css))
		b.WriteString("</style>")
	}
	b.WriteString("</head><body>")
	b.WriteString(fragment)
	b.WriteString("</body></html>")
	return b.String()
}

// HasRenderTarget reports whether markup contains the letter element.
func HasRenderTarget(markup string) bool {
	parsed, err := parseMarkup(markup)
	if err != nil {
		return false
	}
	return parsed.document().Find("#"+RenderTargetID).Length() > 0
}

// StripEditorAffordances removes drag handles and editor-only nodes and
// drops contenteditable attributes.
func StripEditorAffordances(markup string) (string, error) {
	parsed, err := parseMarkup(markup)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMarkupParse, err)
	}
	doc := parsed.document()

	removed := doc.Find(editorOnlySelectors)
	editable := doc.Find("[contenteditable]")
	if removed.Length() == 0 && editable.Length() == 0 {
		return markup, nil
	}
	removed.Remove()
	editable.RemoveAttr("contenteditable")
	return parsed.render()
}

// MarkCrossOrigin requests anonymous CORS mode for every remaining external
// image so a rasterizing browser may read its pixels.
func MarkCrossOrigin(markup string) (string, error) {
	parsed, err := parseMarkup(markup)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMarkupParse, err)
	}

	changed := false
	parsed.document().Find("img[src]").Each(func(_ int, img *goquery.Selection) {
		src, _ := img.Attr("src")
		if !IsExternalImage(src) {
			return
		}
		if _, ok := img.Attr("crossorigin"); ok {
			return
		}
		img.SetAttr("crossorigin", "anonymous")
		changed = true
	})
	if !changed {
		return markup, nil
	}
	return parsed.render()
}

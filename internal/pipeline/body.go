package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrHTMLConversion indicates body conversion failed.
var ErrHTMLConversion = errors.New("body HTML conversion failed")

// BodyConverter turns resolved body text into an HTML fragment.
type BodyConverter interface {
	ToHTML(ctx context.Context, text string) (string, error)
}

// BodyRenderer converts Markdown with inline HTML and sanitizes the result.
type BodyRenderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewBodyRenderer creates a BodyRenderer. Newlines become <br> so perks
// lists typed one per line keep their shape.
func NewBodyRenderer() *BodyRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.Table,
			extension.Strikethrough,
			extension.Linkify,
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithUnsafe(), // raw HTML is sanitized below
		),
	)
	return &BodyRenderer{md: md, policy: bodyPolicy()}
}

func bodyPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowDataURIImages()
	p.AllowAttrs("class").Globally()
	p.AllowStyles(
		"color", "background-color", "font-weight", "font-style",
		"font-size", "text-decoration", "text-align",
	).Globally()
	p.AllowElements("u", "mark", "span")
	return p
}

// ToHTML converts text to a sanitized HTML fragment.
func (r *BodyRenderer) ToHTML(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if text == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}
	return r.policy.Sanitize(buf.String()), nil
}

var _ BodyConverter = (*BodyRenderer)(nil)

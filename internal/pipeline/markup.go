package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
)

// ErrLetterRender indicates the letter template failed to execute.
var ErrLetterRender = errors.New("letter template rendering failed")

// Layout kinds understood by the letter template.
const (
	LayoutFlow    = "flow"
	LayoutSidebar = "sidebar"
	LayoutBanner  = "banner"
)

// LetterView is the data the letter template renders. Image references
// must already be inline data URIs or http(s) URLs.
type LetterView struct {
	Theme         string
	Layout        string
	Sections      []string
	Editable      bool
	LogoAlignment string

	CompanyName    string
	CompanyAddress string
	CompanyLogo    string
	Contacts       []string

	Date             string
	CandidateName    string
	CandidateAddress string
	Subject          string
	Body             string // sanitized HTML fragment

	SignerName      string
	SignerTitle     string
	SignerSignature string
}

// templateView adapts LetterView to html/template: trusted body markup and
// image URLs whose scheme html/template would otherwise reject.
type templateView struct {
	LetterView
	Body            template.HTML
	CompanyLogo     template.URL
	SignerSignature template.URL
}

type sectionSlot struct {
	View *templateView
	Key  string
}

// LetterRenderer renders a LetterView through the letter template.
type LetterRenderer struct {
	tmpl *template.Template
}

// NewLetterRenderer parses the letter template.
func NewLetterRenderer(tmplContent string) (*LetterRenderer, error) {
	funcs := template.FuncMap{
		"slot": func(v *templateView, key string) sectionSlot {
			return sectionSlot{View: v, Key: key}
		},
	}
	tmpl, err := template.New("letter").Funcs(funcs).Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("parsing letter template: %w", err)
	}
	return &LetterRenderer{tmpl: tmpl}, nil
}

// Markup renders v to an HTML fragment.
func (r *LetterRenderer) Markup(ctx context.Context, v LetterView) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tv := &templateView{
		LetterView:      v,
		Body:            template.HTML(v.Body), // #nosec G203 -- sanitized by BodyRenderer
		CompanyLogo:     SafeImageURL(v.CompanyLogo),
		SignerSignature: SafeImageURL(v.SignerSignature),
	}
	if tv.Layout == "" {
		tv.Layout = LayoutFlow
	}
	if tv.LogoAlignment != "left" {
		tv.LogoAlignment = "right"
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, tv); err != nil {
		return "", fmt.Errorf("%w: %v", ErrLetterRender, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// SafeImageURL returns ref as a template URL when it is an inline image or
// an http(s)/file URL, and an empty URL otherwise.
func SafeImageURL(ref string) template.URL {
	switch {
	case ref == "":
		return ""
	case IsInlineImage(ref), IsExternalImage(ref), strings.HasPrefix(ref, "file://"):
		return template.URL(ref) // #nosec G203 -- scheme checked above
	default:
		return ""
	}
}

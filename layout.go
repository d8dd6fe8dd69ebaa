package offerletter

import (
	"fmt"

	"github.com/alnah/go-offerletter/internal/pipeline"
)

// Section is a top-level region of the letter.
type Section string

// Letter sections.
const (
	SectionHeader    Section = "header"
	SectionDate      Section = "date"
	SectionRecipient Section = "recipient"
	SectionSubject   Section = "subject"
	SectionBody      Section = "body"
	SectionSignature Section = "signature"
)

// DefaultSections is the canonical section order.
var DefaultSections = []Section{
	SectionHeader, SectionDate, SectionRecipient, SectionSubject, SectionBody, SectionSignature,
}

// Layout kinds.
const (
	LayoutFlow    = pipeline.LayoutFlow
	LayoutSidebar = pipeline.LayoutSidebar
	LayoutBanner  = pipeline.LayoutBanner
)

// Theme names.
const (
	ThemeClassic   = "classic"
	ThemeModern    = "modern"
	ThemeCreative  = "creative"
	ThemeRegal     = "regal"
	ThemeVibrant   = "vibrant"
	ThemeFormal    = "formal"
	ThemeTech      = "tech"
	ThemeCorporate = "corporate"
)

var themeLayouts = map[string]string{
	ThemeClassic:   LayoutFlow,
	ThemeModern:    LayoutFlow,
	ThemeRegal:     LayoutFlow,
	ThemeFormal:    LayoutFlow,
	ThemeCreative:  LayoutSidebar,
	ThemeTech:      LayoutSidebar,
	ThemeVibrant:   LayoutBanner,
	ThemeCorporate: LayoutBanner,
}

// Fixed layouts place the header in the sidebar or banner; the main column
// order never changes.
var fixedSections = map[string][]Section{
	LayoutSidebar: {SectionHeader, SectionDate, SectionRecipient, SectionSubject, SectionBody, SectionSignature},
	LayoutBanner:  {SectionHeader, SectionDate, SectionRecipient, SectionSubject, SectionBody, SectionSignature},
}

// Layout is the resolved arrangement of a document's sections.
type Layout struct {
	Kind     string
	Sections []Section
}

// Themes returns every known theme name in display order.
func Themes() []string {
	return []string{
		ThemeClassic, ThemeModern, ThemeCreative, ThemeRegal,
		ThemeVibrant, ThemeFormal, ThemeTech, ThemeCorporate,
	}
}

// IsTheme reports whether name is a known theme.
func IsTheme(name string) bool {
	_, ok := themeLayouts[name]
	return ok
}

// LayoutKind returns the layout kind of theme, or "" for unknown themes.
func LayoutKind(theme string) string {
	return themeLayouts[theme]
}

// SectionsFor returns the reorderable sections of theme: the full default
// order for flow themes and nil for fixed-layout or unknown themes.
func SectionsFor(theme string) []Section {
	if themeLayouts[theme] != LayoutFlow {
		return nil
	}
	return append([]Section(nil), DefaultSections...)
}

// Reorder moves the section at index from to index to (splice semantics)
// and returns the new order. doc is not modified.
func Reorder(doc Document, from, to int) ([]Section, error) {
	kind, ok := themeLayouts[doc.Theme]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, doc.Theme)
	}
	if kind != LayoutFlow {
		return nil, fmt.Errorf("%w: %s uses the %s layout", ErrLayoutFixed, doc.Theme, kind)
	}

	order := repairOrder(doc.ElementOrder)
	if from < 0 || from >= len(order) {
		return nil, fmt.Errorf("%w: from %d (have %d sections)", ErrInvalidIndex, from, len(order))
	}
	if to < 0 || to >= len(order) {
		return nil, fmt.Errorf("%w: to %d (have %d sections)", ErrInvalidIndex, to, len(order))
	}

	moved := order[from]
	order = append(order[:from], order[from+1:]...)
	order = append(order[:to], append([]Section{moved}, order[to:]...)...)
	return order, nil
}

// ResolveLayout returns the layout kind and section order used to render
// doc. Unknown themes render as flow.
func ResolveLayout(doc Document) Layout {
	kind, ok := themeLayouts[doc.Theme]
	if !ok {
		kind = LayoutFlow
	}
	if kind == LayoutFlow {
		return Layout{Kind: kind, Sections: repairOrder(doc.ElementOrder)}
	}
	return Layout{Kind: kind, Sections: append([]Section(nil), fixedSections[kind]...)}
}

// repairOrder keeps the first occurrence of each known section in the given
// order, dropping duplicates and unknown keys, then appends missing sections
// in default order. The result is a fresh slice.
func repairOrder(order []Section) []Section {
	seen := make(map[Section]bool, len(DefaultSections))
	known := make(map[Section]bool, len(DefaultSections))
	for _, s := range DefaultSections {
		known[s] = true
	}

	out := make([]Section, 0, len(DefaultSections))
	for _, s := range order {
		if !known[s] || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	for _, s := range DefaultSections {
		if !seen[s] {
			out = append(out, s)
		}
	}
	return out
}

func sectionStrings(sections []Section) []string {
	out := make([]string, len(sections))
	for i, s := range sections {
		out[i] = string(s)
	}
	return out
}

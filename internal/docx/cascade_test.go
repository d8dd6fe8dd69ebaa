package docx

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func parseBody(t *testing.T, body string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader("<html><body>" + body + "</body></html>"))
	if err != nil {
		t.Fatalf("html.Parse: %v", err)
	}
	return doc
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode && attr(n, "id") == id {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

func TestParseSelector(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw      string
		wantOK   bool
		wantSpec int
		pseudo   string
	}{
		{".letter", true, 10, ""},
		{".letter h1", true, 11, ""},
		{"#letter-preview-content", true, 100, ""},
		{".letter-header.logo-left", true, 20, ""},
		{"div > p", true, 2, ""},
		{".company-contact span + span::before", true, 12, "before"},
		{":root", true, 10, ""},
		{".letter *", true, 10, ""},
		{"a:hover", false, 0, ""},
		{"input[type=text]", false, 0, ""},
		{"> p", false, 0, ""},
		{"p::first-line", false, 0, ""},
		{"", false, 0, ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()

			sel, ok := parseSelector(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("parseSelector(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if sel.specificity != tt.wantSpec {
				t.Errorf("specificity = %d, want %d", sel.specificity, tt.wantSpec)
			}
			if sel.pseudo != tt.pseudo {
				t.Errorf("pseudo = %q, want %q", sel.pseudo, tt.pseudo)
			}
		})
	}
}

func TestSelectorMatches(t *testing.T) {
	t.Parallel()

	doc := parseBody(t, `<div class="letter layout-sidebar"><aside class="letter-sidebar">`+
		`<div class="company-name" id="name">Innovate</div></aside>`+
		`<main class="letter-main"><p id="first">a</p><p id="second">b</p></main></div>`)

	tests := []struct {
		selector string
		id       string
		want     bool
	}{
		{".layout-sidebar .letter-sidebar .company-name", "name", true},
		{".letter-main .company-name", "name", false},
		{"aside > .company-name", "name", true},
		{".letter > .company-name", "name", false},
		{"p + p", "second", true},
		{"p + p", "first", false},
		{"p ~ p", "second", true},
		{"main p", "first", true},
		{"#second", "second", true},
		{".letter *", "first", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.selector+"/"+tt.id, func(t *testing.T) {
			t.Parallel()

			sel, ok := parseSelector(tt.selector)
			if !ok {
				t.Fatalf("parseSelector(%q) failed", tt.selector)
			}
			n := findByID(doc, tt.id)
			if n == nil {
				t.Fatalf("no element with id %q", tt.id)
			}
			if got := sel.matches(n); got != tt.want {
				t.Errorf("matches = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDeclared_Precedence(t *testing.T) {
	t.Parallel()

	sheet := parseSheet(`
.subject { color: red; }
p { color: blue; }
#s { font-weight: 700; }
.subject { font-size: 12pt; }
.late { color: green !important; }
`)
	doc := parseBody(t, `<p id="s" class="subject late" style="color: black; font-size: 9pt">x</p>`)
	n := findByID(doc, "s")

	got := sheet.declared(n, "")
	if got["color"] != "green" {
		t.Errorf("color = %q, want important rule to win", got["color"])
	}
	if got["font-size"] != "9pt" {
		t.Errorf("font-size = %q, want inline style to win", got["font-size"])
	}
	if got["font-weight"] != "700" {
		t.Errorf("font-weight = %q, want 700", got["font-weight"])
	}
}

func TestResolveVars(t *testing.T) {
	t.Parallel()

	vars := map[string]string{
		"--accent": "#2d3c77",
		"--border": "2px solid var(--accent)",
	}
	tests := []struct {
		in, want string
	}{
		{"var(--accent)", "#2d3c77"},
		{"1px solid var(--accent)", "1px solid #2d3c77"},
		{"var(--missing, #fff)", "#fff"},
		{"var(--missing)", ""},
		{"var(--border)", "2px solid #2d3c77"},
		{"linear-gradient(180deg, var(--accent) 0%, var(--missing, #000) 100%)", "linear-gradient(180deg, #2d3c77 0%, #000 100%)"},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			if got := resolveVars(tt.in, vars); got != tt.want {
				t.Errorf("resolveVars(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"#2d3c77", "2D3C77", true},
		{"#fff", "FFFFFF", true},
		{"rgb(45, 60, 119)", "2D3C77", true},
		{"rgba(255,255,255,0.5)", "FFFFFF", true},
		{"white", "FFFFFF", true},
		{"linear-gradient(180deg, #2d3c77 0%, #1d1d1d 100%)", "2D3C77", true},
		{"transparent", "", false},
		{"", "", false},
		{"#12", "", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, ok := parseColor(tt.in)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("parseColor(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParseBorder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   *border
		wantOK bool
	}{
		{"2px solid #2d3c77", &border{style: "single", size: 12, color: "2D3C77"}, true},
		{"3px dashed red", &border{style: "dashed", size: 18, color: "FF0000"}, true},
		{"1pt solid", &border{style: "single", size: 8, color: "auto"}, true},
		{"0", nil, true},
		{"none", nil, true},
		{"", nil, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, ok := parseBorder(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("parseBorder(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("parseBorder(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("parseBorder(%q) = %+v, want %+v", tt.in, *got, *tt.want)
			}
		})
	}
}

func TestLengthPt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		parent float64
		want   float64
		wantOK bool
	}{
		{"11pt", 11, 11, true},
		{"16px", 11, 12, true},
		{"0.5in", 11, 36, true},
		{"2em", 10, 20, true},
		{"150%", 10, 15, true},
		{"0", 11, 0, true},
		{"12", 11, 0, false},
		{"auto", 11, 0, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, ok := lengthPt(tt.in, tt.parent)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("lengthPt(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFirstFamily(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{`"Merriweather", Georgia, serif`, "Merriweather"},
		{`'Open Sans', sans-serif`, "Open Sans"},
		{`Roboto`, "Roboto"},
		{`"Tom\"s Font", serif`, `Tom"s Font`},
		{``, ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			if got := firstFamily(tt.in); got != tt.want {
				t.Errorf("firstFamily(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDecodeDataURI(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		src      string
		wantMIME string
		wantData string
		wantOK   bool
	}{
		{"base64", "data:image/png;base64,aGk=", "image/png", "hi", true},
		{"percent encoded", "data:image/svg+xml,%3Csvg%3E", "image/svg+xml", "<svg>", true},
		{"bad base64", "data:image/png;base64,!!", "", "", false},
		{"no comma", "data:image/png;base64", "", "", false},
		{"not a data uri", "https://example.com/a.png", "", "", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mimeType, data, ok := decodeDataURI(tt.src)
			if ok != tt.wantOK || mimeType != tt.wantMIME || string(data) != tt.wantData {
				t.Errorf("decodeDataURI(%q) = (%q, %q, %v)", tt.src, mimeType, data, ok)
			}
		})
	}
}

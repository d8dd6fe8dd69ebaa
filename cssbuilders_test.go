package offerletter

import (
	"strings"
	"testing"
)

func TestBuildRootVarsCSS(t *testing.T) {
	t.Parallel()

	doc := NewDocument(fixedNow)
	doc.HeadingColor = "#112233"
	doc.BodyColor = "red" // not hex, falls back
	doc.AccentColor = "#abc"
	doc.FontFamily = "Lato"

	got := buildRootVarsCSS(doc)

	for _, want := range []string{
		"--heading-color: #112233;",
		"--body-color: " + DefaultBodyColor + ";",
		"--accent-color: #abc;",
		`--font-family: "Lato", Georgia, serif;`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("buildRootVarsCSS() missing %q in:\n%s", want, got)
		}
	}
}

func TestBuildRootVarsCSS_EmptyFont(t *testing.T) {
	t.Parallel()

	doc := NewDocument(fixedNow)
	doc.FontFamily = "   "
	if got := buildRootVarsCSS(doc); !strings.Contains(got, `"Merriweather"`) {
		t.Errorf("buildRootVarsCSS() = %s, want default font", got)
	}
}

func TestEscapeCSSString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input, want string
	}{
		{"Merriweather", "Merriweather"},
		{`Bad"Font`, `Bad\"Font`},
		{`back\slash`, `back\\slash`},
		{"line\nbreak", `line\A break`},
		{"cr\rlf", "crlf"},
		{"</style><script>", `\3C /style>\3C script>`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := escapeCSSString(tt.input); got != tt.want {
				t.Errorf("escapeCSSString(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestBuildPageCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		page *PageSettings
		want string
	}{
		{"nil is default", nil, "size: letter portrait;"},
		{"a4 landscape", &PageSettings{Size: "a4", Orientation: "landscape", Margin: 1}, "size: A4 landscape;"},
		{"legal", &PageSettings{Size: "legal", Orientation: "portrait", Margin: 0.75}, "margin: 0.75in;"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := buildPageCSS(tt.page)
			if !strings.Contains(got, tt.want) {
				t.Errorf("buildPageCSS() missing %q in:\n%s", tt.want, got)
			}
			if !strings.Contains(got, "break-inside: avoid") {
				t.Error("buildPageCSS() missing section break rules")
			}
		})
	}
}

func TestBuildRasterWidthCSS(t *testing.T) {
	t.Parallel()

	got := buildRasterWidthCSS(720)
	if !strings.Contains(got, "#letter-preview-content { width: 720px;") {
		t.Errorf("buildRasterWidthCSS() = %s", got)
	}
}

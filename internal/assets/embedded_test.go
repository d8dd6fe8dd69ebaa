package assets

import (
	"errors"
	"strings"
	"testing"
)

var letterThemes = []string{"classic", "corporate", "creative", "formal", "modern", "regal", "tech", "vibrant"}

func TestEmbeddedLoader_LoadStyle(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	tests := []struct {
		name        string
		styleName   string
		wantErr     error
		wantContain string
	}{
		{name: "base sheet", styleName: BaseStyleName, wantContain: "--accent-color"},
		{name: "nonexistent", styleName: "nonexistent-style-xyz", wantErr: ErrStyleNotFound},
		{name: "empty name", styleName: "", wantErr: ErrInvalidAssetName},
		{name: "path traversal", styleName: "../secret", wantErr: ErrInvalidAssetName},
		{name: "dotted name", styleName: "base.css", wantErr: ErrInvalidAssetName},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := loader.LoadStyle(tt.styleName)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("LoadStyle(%q) error = %v, want %v", tt.styleName, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadStyle(%q) unexpected error: %v", tt.styleName, err)
			}
			if !strings.Contains(got, tt.wantContain) {
				t.Errorf("LoadStyle(%q) should contain %q", tt.styleName, tt.wantContain)
			}
		})
	}
}

func TestEmbeddedLoader_LoadTheme(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	for _, theme := range letterThemes {
		theme := theme
		t.Run(theme, func(t *testing.T) {
			t.Parallel()

			got, err := loader.LoadTheme(theme)
			if err != nil {
				t.Fatalf("LoadTheme(%q) error: %v", theme, err)
			}
			if !strings.Contains(got, ".theme-"+theme) {
				t.Errorf("LoadTheme(%q) rules should be scoped to .theme-%s", theme, theme)
			}
		})
	}

	if _, err := loader.LoadTheme("neon"); !errors.Is(err, ErrThemeNotFound) {
		t.Errorf("LoadTheme(neon) error = %v, want ErrThemeNotFound", err)
	}
}

func TestEmbeddedLoader_LoadTemplate(t *testing.T) {
	t.Parallel()

	got, err := NewEmbeddedLoader().LoadTemplate(LetterTemplateName)
	if err != nil {
		t.Fatalf("LoadTemplate() error: %v", err)
	}
	if !strings.Contains(got, `id="letter-preview-content"`) {
		t.Error("letter template should carry the render target id")
	}

	if _, err := NewEmbeddedLoader().LoadTemplate("cover"); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("LoadTemplate(cover) error = %v, want ErrTemplateNotFound", err)
	}
}

func TestEmbeddedLoader_ThemeNames(t *testing.T) {
	t.Parallel()

	got, err := NewEmbeddedLoader().ThemeNames()
	if err != nil {
		t.Fatalf("ThemeNames() error: %v", err)
	}
	if strings.Join(got, ",") != strings.Join(letterThemes, ",") {
		t.Errorf("ThemeNames() = %v, want %v", got, letterThemes)
	}
}

func TestPackageLevelLoaders(t *testing.T) {
	t.Parallel()

	if _, err := LoadStyle(BaseStyleName); err != nil {
		t.Errorf("LoadStyle() error: %v", err)
	}
	if _, err := LoadTheme("classic"); err != nil {
		t.Errorf("LoadTheme() error: %v", err)
	}
	if _, err := LoadTemplate(LetterTemplateName); err != nil {
		t.Errorf("LoadTemplate() error: %v", err)
	}
}

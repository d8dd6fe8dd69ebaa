package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeAsset(t *testing.T, base string, rel string, content string) {
	t.Helper()

	path := filepath.Join(base, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func TestNewFilesystemLoader(t *testing.T) {
	t.Parallel()

	t.Run("valid directory", func(t *testing.T) {
		t.Parallel()

		if _, err := NewFilesystemLoader(t.TempDir()); err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}
	})

	t.Run("empty path", func(t *testing.T) {
		t.Parallel()

		if _, err := NewFilesystemLoader(""); !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("nonexistent directory", func(t *testing.T) {
		t.Parallel()

		if _, err := NewFilesystemLoader("/nonexistent/path/abc123xyz"); !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("file instead of directory", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeAsset(t, dir, "file.txt", "x")
		if _, err := NewFilesystemLoader(filepath.Join(dir, "file.txt")); !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("error = %v, want ErrInvalidBasePath", err)
		}
	})
}

func TestFilesystemLoader_Load(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeAsset(t, dir, "styles/base.css", "body { color: red; }")
	writeAsset(t, dir, "styles/themes/classic.css", ".theme-classic { color: blue; }")
	writeAsset(t, dir, "templates/letter.html", "<div id=\"letter-preview-content\"></div>")

	loader, err := NewFilesystemLoader(dir)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error: %v", err)
	}

	tests := []struct {
		name    string
		load    func() (string, error)
		want    string
		wantErr error
	}{
		{name: "style", load: func() (string, error) { return loader.LoadStyle("base") }, want: "body { color: red; }"},
		{name: "theme", load: func() (string, error) { return loader.LoadTheme("classic") }, want: ".theme-classic { color: blue; }"},
		{name: "template", load: func() (string, error) { return loader.LoadTemplate("letter") }, want: "<div id=\"letter-preview-content\"></div>"},
		{name: "missing style", load: func() (string, error) { return loader.LoadStyle("print") }, wantErr: ErrStyleNotFound},
		{name: "missing theme", load: func() (string, error) { return loader.LoadTheme("tech") }, wantErr: ErrThemeNotFound},
		{name: "missing template", load: func() (string, error) { return loader.LoadTemplate("cover") }, wantErr: ErrTemplateNotFound},
		{name: "invalid name", load: func() (string, error) { return loader.LoadTheme("../base") }, wantErr: ErrInvalidAssetName},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := tt.load()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFilesystemLoader_SymlinkEscape(t *testing.T) {
	t.Parallel()

	outside := t.TempDir()
	writeAsset(t, outside, "secret.css", "secret")

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "styles"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(outside, "secret.css"), filepath.Join(dir, "styles", "base.css")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	loader, err := NewFilesystemLoader(dir)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error: %v", err)
	}
	if _, err := loader.LoadStyle("base"); !errors.Is(err, ErrPathTraversal) {
		t.Errorf("LoadStyle() error = %v, want ErrPathTraversal", err)
	}
}

package fileutil_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alnah/go-offerletter/internal/fileutil"
)

func TestValidateExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		extension string
		wantErr   error
	}{
		{name: "html", extension: "html"},
		{name: "empty", extension: "", wantErr: fileutil.ErrExtensionEmpty},
		{name: "forward slash", extension: "../etc/passwd", wantErr: fileutil.ErrExtensionPathTraversal},
		{name: "backslash", extension: "..\\windows", wantErr: fileutil.ErrExtensionPathTraversal},
		{name: "null byte", extension: "html\x00exe", wantErr: fileutil.ErrExtensionPathTraversal},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := fileutil.ValidateExtension(tt.extension)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateExtension(%q) = %v, want %v", tt.extension, err, tt.wantErr)
			}
		})
	}
}

func TestWriteTempFile(t *testing.T) {
	t.Parallel()

	path, cleanup, err := fileutil.WriteTempFile("<html></html>", "html")
	if err != nil {
		t.Fatalf("WriteTempFile() error: %v", err)
	}
	if filepath.Ext(path) != ".html" {
		t.Errorf("extension = %q, want .html", filepath.Ext(path))
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading temp file: %v", err)
	}
	if string(got) != "<html></html>" {
		t.Errorf("content = %q, want %q", got, "<html></html>")
	}

	cleanup()
	if fileutil.FileExists(path) {
		t.Error("cleanup should remove the temp file")
	}
}

func TestWriteTempFile_InvalidExtension(t *testing.T) {
	t.Parallel()

	_, _, err := fileutil.WriteTempFile("x", "a/b")
	if !errors.Is(err, fileutil.ErrExtensionPathTraversal) {
		t.Errorf("WriteTempFile() error = %v, want ErrExtensionPathTraversal", err)
	}
}

func TestSanitizeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "spaces preserved", input: "John Doe", want: "John Doe"},
		{name: "forward slash", input: "A/B", want: "A_B"},
		{name: "backslash", input: `A\B`, want: "A_B"},
		{name: "newline", input: "A\nB", want: "A_B"},
		{name: "unicode kept", input: "Zoë Ångström", want: "Zoë Ångström"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.SanitizeName(tt.input); got != tt.want {
				t.Errorf("SanitizeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestWriteInDir(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "out", "letters")

	path, err := fileutil.WriteInDir(dir, "John Doe_Offer_Letter.pdf", []byte("%PDF"))
	if err != nil {
		t.Fatalf("WriteInDir() error: %v", err)
	}
	if path != filepath.Join(dir, "John Doe_Offer_Letter.pdf") {
		t.Errorf("path = %q", path)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() != 4 {
		t.Errorf("size = %d, want 4", info.Size())
	}

	if _, err := fileutil.WriteInDir(dir, "", nil); !errors.Is(err, fileutil.ErrNameEmpty) {
		t.Errorf("empty name error = %v, want ErrNameEmpty", err)
	}
	if _, err := fileutil.WriteInDir(dir, "../escape.pdf", nil); !errors.Is(err, fileutil.ErrNameNotBase) {
		t.Errorf("traversal error = %v, want ErrNameNotBase", err)
	}
}

// Package fileutil provides file and path helpers for exported artifacts.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
	ErrNameEmpty              = errors.New("file name cannot be empty")
	ErrNameNotBase            = errors.New("file name must not contain a directory")
)

// Permissions for artifact output.
const (
	DirPerm  os.FileMode = 0o750
	FilePerm os.FileMode = 0o644
)

// WriteTempFile writes content to a new temporary file with the given
// extension. The returned cleanup removes the file.
func WriteTempFile(content, extension string) (path string, cleanup func(), err error) {
	if err := ValidateExtension(extension); err != nil {
		return "", nil, err
	}

	f, err := os.CreateTemp("", "offerletter-*."+extension)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}
	path = f.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", err)
	}
	return path, cleanup, nil
}

// ValidateExtension rejects extensions that could escape the temp directory.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// SanitizeName replaces path separators and control characters with '_'.
// Spaces and other printable characters are preserved.
func SanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || unicode.IsControl(r) {
			return '_'
		}
		return r
	}, name)
}

// WriteInDir writes data to dir/name, creating dir when missing.
// name must be a bare file name.
func WriteInDir(dir, name string, data []byte) (string, error) {
	if name == "" {
		return "", ErrNameEmpty
	}
	if name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrNameNotBase, name)
	}
	if err := os.MkdirAll(dir, DirPerm); err != nil {
		return "", fmt.Errorf("creating directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, FilePerm); err != nil { // #nosec G306 -- artifacts are meant to be shared
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

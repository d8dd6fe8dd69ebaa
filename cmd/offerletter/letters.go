package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	offerletter "github.com/alnah/go-offerletter"
	"github.com/alnah/go-offerletter/internal/pipeline"
	"github.com/alnah/go-offerletter/internal/yamlutil"
)

// Sentinel errors for letter files.
var (
	ErrNoInput          = errors.New("no letter file specified")
	ErrInvalidExtension = errors.New("letter file must have .yaml, .yml or .json extension")
	ErrReadLetter       = errors.New("failed to read letter file")
	ErrParseLetter      = errors.New("failed to parse letter file")
	ErrReadImage        = errors.New("failed to read image file")
	ErrWriteOutput      = errors.New("failed to write output file")
	ErrNoLetters        = errors.New("no letter files found")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// defaultMaxImageBytes caps local images when the config sets no limit.
const defaultMaxImageBytes = 10 << 20

// discoverLetters expands args into letter files. Directories are walked
// recursively; files must carry a letter extension.
func discoverLetters(args []string) ([]string, error) {
	if len(args) == 0 {
		return nil, ErrNoInput
	}

	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if err := validateLetterExtension(arg); err != nil {
				return nil, err
			}
			files = append(files, arg)
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return fmt.Errorf("scanning %s: %w", path, err)
			}
			if d.IsDir() || validateLetterExtension(path) != nil {
				return nil
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoLetters, strings.Join(args, ", "))
	}
	return files, nil
}

// validateLetterExtension checks that path names a YAML or JSON file.
func validateLetterExtension(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return nil
	}
	return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
}

// loadLetter reads a letter file as a patch over a fresh document dated
// now. Local logo and signature files, relative to the letter, become
// inline references, and "auto" dates are resolved.
func loadLetter(path string, now time.Time, maxImageBytes int64) (offerletter.Document, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided letter path
	if err != nil {
		return offerletter.Document{}, fmt.Errorf("%w: %v", ErrReadLetter, err)
	}
	p, err := parseLetter(path, data)
	if err != nil {
		return offerletter.Document{}, err
	}
	return buildLetter(offerletter.NewDocument(now), p, filepath.Dir(path), now, maxImageBytes)
}

func parseLetter(path string, data []byte) (offerletter.Patch, error) {
	var p offerletter.Patch
	var err error
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = p.UnmarshalJSON(data)
	} else {
		err = p.UnmarshalYAML(data)
	}
	if err != nil {
		return offerletter.Patch{}, fmt.Errorf("%w: %s: %v", ErrParseLetter, path, err)
	}
	return p, nil
}

// buildLetter applies p to base and prepares the result for rendering.
func buildLetter(base offerletter.Document, p offerletter.Patch, dir string, now time.Time, maxImageBytes int64) (offerletter.Document, error) {
	if maxImageBytes <= 0 {
		maxImageBytes = defaultMaxImageBytes
	}
	doc := offerletter.ApplyPatch(base, p)

	var err error
	if doc.CompanyLogo, err = localImage(doc.CompanyLogo, dir, maxImageBytes); err != nil {
		return offerletter.Document{}, err
	}
	if doc.SignerSignature, err = localImage(doc.SignerSignature, dir, maxImageBytes); err != nil {
		return offerletter.Document{}, err
	}
	// Images referenced from the body resolve against the letter directory.
	if doc.Body, err = pipeline.EmbedLocalImages(doc.Body, dir, maxImageBytes); err != nil {
		return offerletter.Document{}, fmt.Errorf("%w: body: %v", ErrReadImage, err)
	}
	return offerletter.ResolveDates(doc, now)
}

// localImage turns a file reference into an inline one. Empty, inline and
// remote references are returned as is.
func localImage(ref, dir string, maxBytes int64) (string, error) {
	if ref == "" || offerletter.IsInlineImage(ref) || offerletter.IsExternalImage(ref) {
		return ref, nil
	}
	path := ref
	if !filepath.IsAbs(path) && dir != "" {
		path = filepath.Join(dir, ref)
	}
	uri, err := pipeline.LocalImageRef(path, maxBytes)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadImage, err)
	}
	return uri, nil
}

// encodeLetter serializes doc as YAML or, when asJSON is set, JSON.
func encodeLetter(doc offerletter.Document, asJSON bool) ([]byte, error) {
	if asJSON {
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
	return yamlutil.Marshal(doc)
}

// writeOutput writes data to path, or to stdout when path is empty.
func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return fmt.Errorf("%w: creating %s: %v", ErrWriteOutput, dir, err)
		}
	}
	// #nosec G306 -- letters and markup are meant to be readable
	if err := os.WriteFile(path, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	offerletter "github.com/alnah/go-offerletter"
	"github.com/alnah/go-offerletter/internal/assist"
	"github.com/alnah/go-offerletter/internal/config"
)

var fixedNow = time.Date(2025, 8, 4, 9, 30, 0, 0, time.UTC)

// fakeRasterizer prints a fixed PDF and never starts a browser.
type fakeRasterizer struct {
	mu      sync.Mutex
	printed int
	err     error
}

func (f *fakeRasterizer) Screenshot(context.Context, string, offerletter.ScreenshotOptions) ([]byte, error) {
	return nil, offerletter.ErrScreenshot
}

func (f *fakeRasterizer) PrintPDF(_ context.Context, _ string, _ *offerletter.PageSettings) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.printed++
	return []byte("%PDF-1.4 fake"), nil
}

func (f *fakeRasterizer) Close() error { return nil }

// fakeAssistant returns a canned patch.
type fakeAssistant struct {
	patch   offerletter.Patch
	err     error
	request string
	closed  bool
}

func (f *fakeAssistant) Generate(_ context.Context, request string) (offerletter.Patch, error) {
	f.request = request
	return f.patch, f.err
}

func (f *fakeAssistant) Close() error {
	f.closed = true
	return nil
}

// testEnv returns an environment with captured output, a fixed clock,
// the given variables and a fake rasterizer.
func testEnv(t *testing.T, vars map[string]string) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	raster := &fakeRasterizer{}
	env := &Environment{
		Now:    func() time.Time { return fixedNow },
		Stdout: &stdout,
		Stderr: &stderr,
		Getenv: func(k string) string { return vars[k] },
		Config: config.DefaultConfig(),
		NewExporter: func(opts ...offerletter.Option) (*offerletter.Exporter, error) {
			return offerletter.NewExporter(append(opts, offerletter.WithRasterizer(raster))...)
		},
		NewAssist: func(context.Context, string, string, ...assist.Option) (assistant, error) {
			t.Fatal("assist not expected")
			return nil, nil
		},
	}
	return env, &stdout, &stderr
}

// writeFile creates dir/name with content and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// writePNG creates a small PNG file and returns its path.
func writePNG(t *testing.T, dir, name string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return writeFile(t, dir, name, buf.String())
}

const sampleLetter = `candidateName: Sarah Lee
jobTitle: Senior Product Manager
offerType: Full-Time Employment
salary: 150000
salaryFrequency: annually
startDate: auto+14d
acceptanceDeadline: auto+7d
date: auto
theme: modern
`

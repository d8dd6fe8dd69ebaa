package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Page.Size != "letter" || cfg.Page.Orientation != "portrait" || cfg.Page.Margin != 0.5 {
		t.Errorf("Page = %+v, want letter/portrait/0.5", cfg.Page)
	}
	if cfg.PDF.Scale != 2 || cfg.PDF.JPEGQuality != 98 {
		t.Errorf("PDF = %+v, want scale 2 quality 98", cfg.PDF)
	}
	if !cfg.DOCX.Footer || !cfg.DOCX.PageNumber || !cfg.DOCX.CantSplitRows {
		t.Errorf("DOCX = %+v, want all enabled", cfg.DOCX)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(*Config)
		wantErr   error
		wantField string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "a4 landscape", mutate: func(c *Config) { c.Page.Size, c.Page.Orientation = "a4", "landscape" }},
		{name: "unknown page size", mutate: func(c *Config) { c.Page.Size = "tabloid" }, wantErr: ErrInvalidConfig, wantField: "page.size"},
		{name: "bad orientation", mutate: func(c *Config) { c.Page.Orientation = "sideways" }, wantErr: ErrInvalidConfig, wantField: "page.orientation"},
		{name: "negative margin", mutate: func(c *Config) { c.Page.Margin = -1 }, wantErr: ErrInvalidConfig, wantField: "page.margin"},
		{name: "margin too large", mutate: func(c *Config) { c.Page.Margin = 4 }, wantErr: ErrInvalidConfig, wantField: "page.margin"},
		{name: "bad pdf mode", mutate: func(c *Config) { c.PDF.Mode = "svg" }, wantErr: ErrInvalidConfig, wantField: "pdf.mode"},
		{name: "jpeg quality over 100", mutate: func(c *Config) { c.PDF.JPEGQuality = 101 }, wantErr: ErrInvalidConfig, wantField: "pdf.jpegQuality"},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "verbose" }, wantErr: ErrInvalidConfig, wantField: "log.level"},
		{name: "bad duration", mutate: func(c *Config) { c.Assets.FetchTimeout = "soon" }, wantErr: ErrInvalidConfig, wantField: "assets.fetchTimeout"},
		{name: "negative duration", mutate: func(c *Config) { c.Assist.Timeout = "-1s" }, wantErr: ErrInvalidConfig, wantField: "assist.timeout"},
		{name: "minio without endpoint", mutate: func(c *Config) { c.Storage.Kind = "minio"; c.Storage.MinIO.Bucket = "letters" }, wantErr: ErrInvalidConfig, wantField: "storage.minio.endpoint"},
		{name: "minio without bucket", mutate: func(c *Config) { c.Storage.Kind = "minio"; c.Storage.MinIO.Endpoint = "localhost:9000" }, wantErr: ErrInvalidConfig, wantField: "storage.minio.bucket"},
		{name: "bucket too long", mutate: func(c *Config) { c.Storage.MinIO.Bucket = strings.Repeat("b", MaxBucketLength+1) }, wantErr: ErrFieldTooLong, wantField: "storage.minio.bucket"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantField) {
				t.Errorf("Validate() error %q should name %s", err, tt.wantField)
			}
		})
	}
}

func TestParseDuration(t *testing.T) {
	t.Parallel()

	if d, err := ParseDuration(""); err != nil || d != 0 {
		t.Errorf("ParseDuration(\"\") = %v, %v; want 0, nil", d, err)
	}
	if d, err := ParseDuration("15s"); err != nil || d != 15*time.Second {
		t.Errorf("ParseDuration(15s) = %v, %v; want 15s, nil", d, err)
	}
	if _, err := ParseDuration("fast"); err == nil {
		t.Error("ParseDuration(fast) should fail")
	}
}

func TestLoadConfig_FilePath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "letters.yaml")
	content := `page:
  size: a4
pdf:
  mode: vector
log:
  format: json
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Page.Size != "a4" {
		t.Errorf("Page.Size = %q, want a4", cfg.Page.Size)
	}
	if cfg.Page.Margin != 0.5 {
		t.Errorf("Page.Margin = %v, want default 0.5 kept", cfg.Page.Margin)
	}
	if cfg.PDF.Mode != "vector" || cfg.PDF.JPEGQuality != 98 {
		t.Errorf("PDF = %+v, want vector with default quality", cfg.PDF)
	}
	if cfg.Log.Format != "json" || cfg.Log.Level != "info" {
		t.Errorf("Log = %+v, want json/info", cfg.Log)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
		return p
	}

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{name: "empty name", path: "", wantErr: ErrEmptyConfigName},
		{name: "missing file", path: filepath.Join(dir, "missing.yaml"), wantErr: ErrConfigNotFound},
		{name: "unknown key", path: write("typo.yaml", "page:\n  sise: a4\n"), wantErr: ErrConfigParse},
		{name: "invalid value", path: write("bad.yaml", "page:\n  size: tabloid\n"), wantErr: ErrInvalidConfig},
		{name: "unknown name", path: "no-such-config-name-xyz", wantErr: ErrConfigNotFound},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := LoadConfig(tt.path)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("LoadConfig(%q) error = %v, want %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

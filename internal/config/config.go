// Package config loads and validates the YAML configuration of the letter
// exporter and CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/alnah/go-offerletter/internal/fileutil"
	"github.com/alnah/go-offerletter/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidConfig   = errors.New("invalid config")
)

// Field length limits.
const (
	MaxPathLength      = 4096
	MaxURLLength       = 2048
	MaxModelLength     = 100
	MaxEnvNameLength   = 100
	MaxNamespaceLength = 64
	MaxBucketLength    = 63 // S3 bucket naming rule
)

// Config holds all configuration for letter export.
type Config struct {
	Page    PageConfig    `yaml:"page"`
	PDF     PDFConfig     `yaml:"pdf"`
	DOCX    DOCXConfig    `yaml:"docx"`
	Assets  AssetsConfig  `yaml:"assets"`
	Assist  AssistConfig  `yaml:"assist"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// PageConfig defines the page geometry shared by both export formats.
type PageConfig struct {
	Size        string  `yaml:"size" validate:"omitempty,oneof=letter a4 legal"`
	Orientation string  `yaml:"orientation" validate:"omitempty,oneof=portrait landscape"`
	Margin      float64 `yaml:"margin" validate:"gte=0,lte=3"` // inches
}

// PDFConfig defines the rasterized export.
type PDFConfig struct {
	Mode        string  `yaml:"mode" validate:"omitempty,oneof=raster vector"`
	Scale       float64 `yaml:"scale" validate:"omitempty,gte=1,lte=4"`
	JPEGQuality int     `yaml:"jpegQuality" validate:"omitempty,min=1,max=100"`
}

// DOCXConfig defines the word-processor export.
type DOCXConfig struct {
	Footer        bool `yaml:"footer"`
	PageNumber    bool `yaml:"pageNumber"`
	CantSplitRows bool `yaml:"cantSplitRows"`
}

// AssetsConfig defines style loading and image inlining.
type AssetsConfig struct {
	BasePath      string `yaml:"basePath"` // empty = embedded assets
	FetchTimeout  string `yaml:"fetchTimeout"`
	MaxImageBytes int64  `yaml:"maxImageBytes" validate:"gte=0"`
	Concurrency   int    `yaml:"concurrency" validate:"gte=0,lte=64"`
}

// AssistConfig defines the generative assist client.
type AssistConfig struct {
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"apiKeyEnv"`
	Timeout   string `yaml:"timeout"`
}

// StorageConfig defines where exported artifacts go.
type StorageConfig struct {
	Kind  string      `yaml:"kind" validate:"omitempty,oneof=dir minio"`
	Dir   string      `yaml:"dir"`
	MinIO MinIOConfig `yaml:"minio"`
}

// MinIOConfig defines the object storage sink.
type MinIOConfig struct {
	Endpoint   string `yaml:"endpoint"`
	Bucket     string `yaml:"bucket"`
	AccessKey  string `yaml:"accessKey"`
	SecretKey  string `yaml:"secretKey"`
	UseSSL     bool   `yaml:"useSSL"`
	Prefix     string `yaml:"prefix"` // object key prefix, e.g. "letters/"
	PresignTTL string `yaml:"presignTTL"`
}

// LogConfig defines structured logging.
type LogConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format" validate:"omitempty,oneof=text json"`
}

// MetricsConfig defines export metrics.
type MetricsConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Namespace    string `yaml:"namespace"`
	TextfilePath string `yaml:"textfilePath"` // Prometheus textfile collector output
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks enumerations, ranges, lengths and durations.
// Called by LoadConfig; available for configs built in code.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return translateValidation(err)
	}

	lengths := []struct {
		field string
		value string
		max   int
	}{
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"assist.model", c.Assist.Model, MaxModelLength},
		{"assist.apiKeyEnv", c.Assist.APIKeyEnv, MaxEnvNameLength},
		{"storage.dir", c.Storage.Dir, MaxPathLength},
		{"storage.minio.endpoint", c.Storage.MinIO.Endpoint, MaxURLLength},
		{"storage.minio.bucket", c.Storage.MinIO.Bucket, MaxBucketLength},
		{"storage.minio.prefix", c.Storage.MinIO.Prefix, MaxPathLength},
		{"metrics.namespace", c.Metrics.Namespace, MaxNamespaceLength},
		{"metrics.textfilePath", c.Metrics.TextfilePath, MaxPathLength},
	}
	for _, l := range lengths {
		if err := validateFieldLength(l.field, l.value, l.max); err != nil {
			return err
		}
	}

	durations := []struct {
		field string
		value string
	}{
		{"assets.fetchTimeout", c.Assets.FetchTimeout},
		{"assist.timeout", c.Assist.Timeout},
		{"storage.minio.presignTTL", c.Storage.MinIO.PresignTTL},
	}
	for _, d := range durations {
		if _, err := ParseDuration(d.value); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, d.field, err)
		}
	}

	if c.Storage.Kind == "minio" {
		if c.Storage.MinIO.Endpoint == "" {
			return fmt.Errorf("%w: storage.minio.endpoint: required when storage.kind is minio", ErrInvalidConfig)
		}
		if c.Storage.MinIO.Bucket == "" {
			return fmt.Errorf("%w: storage.minio.bucket: required when storage.kind is minio", ErrInvalidConfig)
		}
	}
	return nil
}

// translateValidation reports the first failing field by its YAML path.
func translateValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	fe := verrs[0]
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	if fe.Param() != "" {
		return fmt.Errorf("%w: %s: failed %s=%s (got %v)", ErrInvalidConfig, field, fe.Tag(), fe.Param(), fe.Value())
	}
	return fmt.Errorf("%w: %s: failed %s (got %v)", ErrInvalidConfig, field, fe.Tag(), fe.Value())
}

func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// ParseDuration parses a Go duration string; empty means zero (use default).
func ParseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", s)
	}
	return d, nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Page:    PageConfig{Size: "letter", Orientation: "portrait", Margin: 0.5},
		PDF:     PDFConfig{Mode: "raster", Scale: 2, JPEGQuality: 98},
		DOCX:    DOCXConfig{Footer: true, PageNumber: true, CantSplitRows: true},
		Assets:  AssetsConfig{FetchTimeout: "15s", MaxImageBytes: 10 << 20, Concurrency: 8},
		Assist:  AssistConfig{Model: "gemini-2.5-flash", APIKeyEnv: "GEMINI_API_KEY", Timeout: "60s"},
		Storage: StorageConfig{Kind: "dir", Dir: ".", MinIO: MinIOConfig{PresignTTL: "24h"}},
		Log:     LogConfig{Level: "info", Format: "text"},
		Metrics: MetricsConfig{Namespace: "offerletter"},
	}
}

// LoadConfig loads a config by file path or by name. Fields absent from
// the file keep their DefaultConfig value. A name is searched in the
// current directory, then in the user config directory.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !strings.ContainsAny(nameOrPath, "/\\") {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveConfigPath tries .yaml then .yml in ./ and ~/.config/go-offerletter/.
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	tried := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		local := name + ext
		if fileutil.FileExists(local) {
			return local, nil
		}
		tried = append(tried, local)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-offerletter", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			tried = append(tried, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}

package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-offerletter/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // OFFERLETTER_CONFIG: config file path
	Timeout    time.Duration // OFFERLETTER_TIMEOUT: export timeout
	Workers    int           // OFFERLETTER_WORKERS: parallel exporters

	OutputDir string // OFFERLETTER_OUTPUT_DIR: directory sink
	PDFMode   string // OFFERLETTER_PDF_MODE: raster or vector
	PageSize  string // OFFERLETTER_PAGE_SIZE: letter, a4, legal
	AssetPath string // OFFERLETTER_ASSET_PATH: style and template overrides
	LogLevel  string // OFFERLETTER_LOG_LEVEL: debug, info, warn, error

	MinIOAccessKey string // OFFERLETTER_MINIO_ACCESS_KEY
	MinIOSecretKey string // OFFERLETTER_MINIO_SECRET_KEY
}

// knownEnvVars lists valid OFFERLETTER_* environment variables.
var knownEnvVars = map[string]bool{
	"OFFERLETTER_CONFIG":           true,
	"OFFERLETTER_TIMEOUT":          true,
	"OFFERLETTER_WORKERS":          true,
	"OFFERLETTER_OUTPUT_DIR":       true,
	"OFFERLETTER_PDF_MODE":         true,
	"OFFERLETTER_PAGE_SIZE":        true,
	"OFFERLETTER_ASSET_PATH":       true,
	"OFFERLETTER_LOG_LEVEL":        true,
	"OFFERLETTER_MINIO_ACCESS_KEY": true,
	"OFFERLETTER_MINIO_SECRET_KEY": true,
}

// loadEnvConfig reads the recognized OFFERLETTER_* values through getenv.
// Malformed numbers and durations are ignored.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath:     getenv("OFFERLETTER_CONFIG"),
		OutputDir:      getenv("OFFERLETTER_OUTPUT_DIR"),
		PDFMode:        getenv("OFFERLETTER_PDF_MODE"),
		PageSize:       getenv("OFFERLETTER_PAGE_SIZE"),
		AssetPath:      getenv("OFFERLETTER_ASSET_PATH"),
		LogLevel:       getenv("OFFERLETTER_LOG_LEVEL"),
		MinIOAccessKey: getenv("OFFERLETTER_MINIO_ACCESS_KEY"),
		MinIOSecretKey: getenv("OFFERLETTER_MINIO_SECRET_KEY"),
	}

	if timeout := getenv("OFFERLETTER_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := getenv("OFFERLETTER_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars reports unrecognized OFFERLETTER_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "OFFERLETTER_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig overrides config values with the variables that are set.
// Priority: CLI flags > env vars > config file > defaults
// (CLI flags are applied later by each command).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.OutputDir != "" {
		cfg.Storage.Dir = env.OutputDir
	}
	if env.PDFMode != "" {
		cfg.PDF.Mode = env.PDFMode
	}
	if env.PageSize != "" {
		cfg.Page.Size = env.PageSize
	}
	if env.AssetPath != "" {
		cfg.Assets.BasePath = env.AssetPath
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}

	// Credentials stay out of config files.
	if env.MinIOAccessKey != "" {
		cfg.Storage.MinIO.AccessKey = env.MinIOAccessKey
	}
	if env.MinIOSecretKey != "" {
		cfg.Storage.MinIO.SecretKey = env.MinIOSecretKey
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	offerletter "github.com/alnah/go-offerletter"
	"github.com/alnah/go-offerletter/internal/config"
	"github.com/alnah/go-offerletter/internal/hints"
	"github.com/alnah/go-offerletter/internal/logger"
	"github.com/alnah/go-offerletter/internal/storage"
)

// Sink kinds.
const (
	sinkDir   = "dir"
	sinkMinIO = "minio"
)

// loadConfig builds the command configuration from the config file, the
// OFFERLETTER_* variables and the common flags, in increasing priority.
// The result is stored in env.Config.
func loadConfig(f *commonFlags, env *Environment) (*config.Config, *envConfig, error) {
	envCfg := loadEnvConfig(env.Getenv)

	path := f.config
	if path == "" {
		path = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			hint := ""
			if errors.Is(err, config.ErrConfigNotFound) {
				hint = hints.ForConfigNotFound(configSearchPaths(err))
			}
			return nil, nil, fmt.Errorf("loading config: %w%s", err, hint)
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)
	switch {
	case f.verbose:
		cfg.Log.Level = "debug"
	case f.quiet:
		cfg.Log.Level = "error"
	}
	if f.logFormat != "" {
		cfg.Log.Format = f.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	env.Config = cfg
	return cfg, envCfg, nil
}

// configSearchPaths extracts the "tried a, b" list of a not-found error.
func configSearchPaths(err error) []string {
	_, tried, ok := strings.Cut(err.Error(), "tried ")
	if !ok {
		return nil
	}
	return strings.Split(tried, ", ")
}

// newLogger returns the structured logger of a command, writing to stderr.
func newLogger(cfg *config.Config, env *Environment) *slog.Logger {
	return logger.New(env.Stderr, logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
}

// exporterOptions maps cfg onto exporter options.
func exporterOptions(cfg *config.Config, log *slog.Logger, timeout time.Duration) ([]offerletter.Option, error) {
	fetchTimeout, err := config.ParseDuration(cfg.Assets.FetchTimeout)
	if err != nil {
		return nil, fmt.Errorf("%w: assets.fetchTimeout: %v", config.ErrInvalidConfig, err)
	}

	opts := []offerletter.Option{
		offerletter.WithLogger(log),
		offerletter.WithPage(&offerletter.PageSettings{
			Size:        cfg.Page.Size,
			Orientation: cfg.Page.Orientation,
			Margin:      cfg.Page.Margin,
		}),
		offerletter.WithPDFMode(cfg.PDF.Mode),
		offerletter.WithRaster(offerletter.RasterSettings{
			Scale:       cfg.PDF.Scale,
			JPEGQuality: cfg.PDF.JPEGQuality,
		}),
		offerletter.WithDOCX(offerletter.DOCXSettings{
			Footer:        cfg.DOCX.Footer,
			PageNumber:    cfg.DOCX.PageNumber,
			CantSplitRows: cfg.DOCX.CantSplitRows,
		}),
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, offerletter.WithAssetPath(cfg.Assets.BasePath))
	}
	if fetchTimeout > 0 {
		opts = append(opts, offerletter.WithFetchTimeout(fetchTimeout))
	}
	if cfg.Assets.MaxImageBytes > 0 {
		opts = append(opts, offerletter.WithMaxImageBytes(cfg.Assets.MaxImageBytes))
	}
	if cfg.Assets.Concurrency > 0 {
		opts = append(opts, offerletter.WithInlineConcurrency(cfg.Assets.Concurrency))
	}
	if timeout > 0 {
		opts = append(opts, offerletter.WithTimeout(timeout))
	}
	return opts, nil
}

// newSink returns the artifact sink selected by cfg.Storage.Kind.
func newSink(cfg *config.Config) (storage.Sink, error) {
	switch cfg.Storage.Kind {
	case "", sinkDir:
		return storage.NewDirSink(cfg.Storage.Dir), nil
	case sinkMinIO:
		ttl, err := config.ParseDuration(cfg.Storage.MinIO.PresignTTL)
		if err != nil {
			return nil, fmt.Errorf("%w: storage.minio.presignTTL: %v", config.ErrInvalidConfig, err)
		}
		m := cfg.Storage.MinIO
		sink, err := storage.NewMinioSink(storage.MinioConfig{
			Endpoint:   m.Endpoint,
			Bucket:     m.Bucket,
			AccessKey:  m.AccessKey,
			SecretKey:  m.SecretKey,
			UseSSL:     m.UseSSL,
			Prefix:     m.Prefix,
			PresignTTL: ttl,
		})
		if err != nil {
			return nil, fmt.Errorf("%w%s", err, hints.ForStorage())
		}
		return sink, nil
	default:
		return nil, fmt.Errorf("%w: %q (must be %s or %s)", storage.ErrInvalidSink, cfg.Storage.Kind, sinkDir, sinkMinIO)
	}
}

// resolveTimeout picks the export timeout.
// Priority: flag > OFFERLETTER_TIMEOUT > library default (zero).
func resolveTimeout(flagValue string, envCfg *envConfig) (time.Duration, error) {
	if flagValue != "" {
		d, err := time.ParseDuration(flagValue)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimeout, flagValue)
		}
		if d <= 0 {
			return 0, fmt.Errorf("%w: must be positive, got %s", ErrInvalidTimeout, flagValue)
		}
		return d, nil
	}
	if envCfg != nil {
		return envCfg.Timeout, nil
	}
	return 0, nil
}

// withHint appends an actionable hint to err for the failures users can
// fix themselves.
func withHint(err error) error {
	if err == nil {
		return nil
	}
	var hint string
	switch {
	case errors.Is(err, offerletter.ErrBrowserConnect):
		hint = hints.ForBrowserConnect(os.Getenv)
	case errors.Is(err, offerletter.ErrUnknownTheme):
		hint = hints.ForThemeNotFound(offerletter.Themes())
	case errors.Is(err, offerletter.ErrLayoutFixed):
		hint = hints.ForFixedLayout()
	case errors.Is(err, storage.ErrStore):
		hint = hints.ForStorage()
	case errors.Is(err, ErrWriteOutput):
		hint = hints.ForOutputDirectory()
	case errors.Is(err, context.DeadlineExceeded):
		hint = hints.ForTimeout()
	}
	if hint == "" || strings.Contains(err.Error(), hint) {
		return err
	}
	return fmt.Errorf("%w%s", err, hint)
}

// Package logger builds the slog logger and carries per-export attributes
// through a context.
package logger

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

type contextKey string

// ExportIDKey is the context key of the current export run.
const ExportIDKey contextKey = "export_id"

// Config holds logger configuration.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// ParseLevel maps a level name to slog; unknown names mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New returns a logger writing to w in the configured format.
func New(w io.Writer, cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// WithExportID stores the export run id in ctx.
func WithExportID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ExportIDKey, id)
}

// ExportID returns the export run id stored in ctx, if any.
func ExportID(ctx context.Context) string {
	id, _ := ctx.Value(ExportIDKey).(string)
	return id
}

// FromContext returns base enriched with the attributes found in ctx.
// A nil base means slog.Default().
func FromContext(ctx context.Context, base *slog.Logger) *slog.Logger {
	if base == nil {
		base = slog.Default()
	}
	if id := ExportID(ctx); id != "" {
		return base.With(string(ExportIDKey), id)
	}
	return base
}

package main

import (
	"context"
	"io"
	"os"
	"time"

	offerletter "github.com/alnah/go-offerletter"
	"github.com/alnah/go-offerletter/internal/assist"
	"github.com/alnah/go-offerletter/internal/config"
)

// assistant drafts letter fields from a free-text request.
type assistant interface {
	Generate(ctx context.Context, request string) (offerletter.Patch, error)
	Close() error
}

// Compile-time interface check.
var _ assistant = (*assist.Client)(nil)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, configuration and the export and assist backends.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string
	Config *config.Config // Loaded once per command

	NewExporter func(opts ...offerletter.Option) (*offerletter.Exporter, error)
	NewAssist   func(ctx context.Context, apiKey, model string, opts ...assist.Option) (assistant, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:         time.Now,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		Getenv:      os.Getenv,
		Config:      config.DefaultConfig(),
		NewExporter: offerletter.NewExporter,
		NewAssist: func(ctx context.Context, apiKey, model string, opts ...assist.Option) (assistant, error) {
			c, err := assist.New(ctx, apiKey, model, opts...)
			if err != nil {
				return nil, err
			}
			return c, nil
		},
	}
}

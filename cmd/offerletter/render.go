package main

import (
	"context"
	"fmt"

	offerletter "github.com/alnah/go-offerletter"
	"github.com/alnah/go-offerletter/internal/pipeline"
)

// runRender writes the styled HTML of one letter.
func runRender(ctx context.Context, args []string, env *Environment) error {
	f, positional, err := parseRenderFlags(args, env.Stderr)
	if err != nil {
		return usageError(err)
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: render takes exactly one letter file", ErrNoInput)
	}
	if err := validateLetterExtension(positional[0]); err != nil {
		return err
	}

	cfg, _, err := loadConfig(&f.common, env)
	if err != nil {
		return err
	}
	if f.presentation.assetPath != "" {
		cfg.Assets.BasePath = f.presentation.assetPath
	}

	log := newLogger(cfg, env)
	opts, err := exporterOptions(cfg, log, 0)
	if err != nil {
		return err
	}
	// Rendering never needs the browser or the package converter.
	opts = append(opts, offerletter.WithRasterizer(nil), offerletter.WithPackageConverter(nil))
	exp, err := env.NewExporter(opts...)
	if err != nil {
		return err
	}
	defer func() { _ = exp.Close() }()

	doc, err := loadLetter(positional[0], env.Now(), cfg.Assets.MaxImageBytes)
	if err != nil {
		return err
	}
	if f.presentation.theme != "" {
		doc.Theme = f.presentation.theme
	}

	var markup string
	if f.editable {
		markup, err = exp.Markup(ctx, doc, true)
	} else {
		markup, err = exp.Snapshot(ctx, doc)
	}
	if err != nil {
		return withHint(err)
	}
	css, err := exp.ResolveStyles(doc)
	if err != nil {
		return withHint(err)
	}

	if err := writeOutput(f.output, []byte(pipeline.WrapDocument(markup, css)), env.Stdout); err != nil {
		return withHint(err)
	}
	if f.output != "" && !f.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", f.output)
	}
	return nil
}

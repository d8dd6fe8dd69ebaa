package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	offerletter "github.com/alnah/go-offerletter"
	"github.com/alnah/go-offerletter/internal/config"
	"github.com/alnah/go-offerletter/internal/metrics"
	"github.com/alnah/go-offerletter/internal/storage"
)

// Export formats.
const (
	formatPDF  = "pdf"
	formatDOCX = "docx"
	formatAll  = "all"
)

// Sentinel errors for export runs.
var (
	ErrInvalidFormat      = errors.New("invalid export format")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidTimeout     = errors.New("invalid timeout")
	ErrExporterInit       = errors.New("failed to initialize exporter")
)

// exportJob is one letter file exported in one format.
type exportJob struct {
	Path   string
	Format string
}

// exportResult holds the outcome of a single export.
type exportResult struct {
	Path     string
	Format   string
	Location string
	Err      error
	Duration time.Duration
}

// exportParams groups parameters shared across batch/job exports.
type exportParams struct {
	now           time.Time
	maxImageBytes int64
	theme         string
	sink          storage.Sink
	log           *slog.Logger
}

// runExport orchestrates a batch export.
func runExport(ctx context.Context, args []string, env *Environment) error {
	f, positional, err := parseExportFlags(args, env.Stderr)
	if err != nil {
		return usageError(err)
	}
	if err := validateWorkers(f.workers); err != nil {
		return err
	}
	formats, err := exportFormats(f.format)
	if err != nil {
		return err
	}
	if f.presentation.theme != "" && !offerletter.IsTheme(f.presentation.theme) {
		return fmt.Errorf("%w: %q", offerletter.ErrUnknownTheme, f.presentation.theme)
	}

	cfg, envCfg, err := loadConfig(&f.common, env)
	if err != nil {
		return err
	}
	mergeExportFlags(f, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	timeout, err := resolveTimeout(f.timeout, envCfg)
	if err != nil {
		return err
	}
	workers := f.workers
	if workers == 0 {
		workers = envCfg.Workers
	}

	paths, err := discoverLetters(positional)
	if err != nil {
		return err
	}

	log := newLogger(cfg, env)
	opts, err := exporterOptions(cfg, log, timeout)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	textfile := f.metricsFile
	if textfile == "" {
		textfile = cfg.Metrics.TextfilePath
	}
	if cfg.Metrics.Enabled || textfile != "" {
		opts = append(opts, offerletter.WithMetrics(offerletter.NewMetrics(reg, cfg.Metrics.Namespace)))
	}

	sink, err := newSink(cfg)
	if err != nil {
		return err
	}

	jobs := make([]exportJob, 0, len(paths)*len(formats))
	for _, p := range paths {
		for _, format := range formats {
			jobs = append(jobs, exportJob{Path: p, Format: format})
		}
	}

	size := offerletter.ResolvePoolSize(workers)
	log.Debug("starting export", "letters", len(paths), "jobs", len(jobs), "pool_size", size)
	pool := offerletter.NewExporterPool(size, func() (*offerletter.Exporter, error) {
		return env.NewExporter(opts...)
	})
	defer func() {
		if err := pool.Close(); err != nil {
			log.Warn("closing exporter pool", "error", err)
		}
	}()

	params := &exportParams{
		now:           env.Now(),
		maxImageBytes: cfg.Assets.MaxImageBytes,
		theme:         f.presentation.theme,
		sink:          sink,
		log:           log,
	}
	results := exportBatch(ctx, pool, jobs, params)
	failed, firstErr := printResults(results, f.common.quiet, f.common.verbose, env)

	if textfile != "" {
		if err := metrics.WriteTextfile(textfile, reg); err != nil {
			log.Warn("metrics textfile not written", "path", textfile, "error", err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d export(s) failed: %w", failed, firstErr)
	}
	return nil
}

// mergeExportFlags merges CLI flags into config. CLI values override
// config values.
func mergeExportFlags(f *exportFlags, cfg *config.Config) {
	if f.page.size != "" {
		cfg.Page.Size = f.page.size
	}
	if f.page.orientation != "" {
		cfg.Page.Orientation = f.page.orientation
	}
	if f.page.margin != marginSentinel {
		cfg.Page.Margin = f.page.margin
	}
	if f.pdfMode != "" {
		cfg.PDF.Mode = f.pdfMode
	}
	if f.presentation.assetPath != "" {
		cfg.Assets.BasePath = f.presentation.assetPath
	}
	if f.sink != "" {
		cfg.Storage.Kind = f.sink
	}
	if f.output != "" {
		cfg.Storage.Dir = f.output
	}
}

// exportFormats expands the --format value.
func exportFormats(value string) ([]string, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case formatPDF, "":
		return []string{formatPDF}, nil
	case formatDOCX:
		return []string{formatDOCX}, nil
	case formatAll:
		return []string{formatPDF, formatDOCX}, nil
	}
	return nil, fmt.Errorf("%w: %q (must be %s, %s or %s)", ErrInvalidFormat, value, formatPDF, formatDOCX, formatAll)
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > offerletter.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, offerletter.MaxPoolSize)
	}
	return nil
}

// exportBatch processes jobs concurrently using the exporter pool.
func exportBatch(ctx context.Context, pool *offerletter.ExporterPool, jobs []exportJob, params *exportParams) []exportResult {
	if len(jobs) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(jobs))
	results := make([]exportResult, len(jobs))
	var wg sync.WaitGroup
	queue := make(chan int, len(jobs))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			exp, err := pool.Acquire(ctx)
			if err != nil {
				// Exporter creation failed, mark remaining jobs as failed
				for idx := range queue {
					results[idx] = exportResult{
						Path:   jobs[idx].Path,
						Format: jobs[idx].Format,
						Err:    fmt.Errorf("%w: %w", ErrExporterInit, err),
					}
				}
				return
			}
			defer pool.Release(exp)

			for idx := range queue {
				if ctx.Err() != nil {
					results[idx] = exportResult{
						Path:   jobs[idx].Path,
						Format: jobs[idx].Format,
						Err:    ctx.Err(),
					}
					continue
				}
				results[idx] = exportOne(ctx, exp, jobs[idx], params)
			}
		}()
	}

	for i := range jobs {
		queue <- i
	}
	close(queue)

	wg.Wait()
	return results
}

// exportOne loads, exports and stores a single job.
func exportOne(ctx context.Context, exp *offerletter.Exporter, job exportJob, params *exportParams) exportResult {
	start := time.Now()
	result := exportResult{Path: job.Path, Format: job.Format}
	finish := func(err error) exportResult {
		result.Err = withHint(err)
		result.Duration = time.Since(start)
		return result
	}

	doc, err := loadLetter(job.Path, params.now, params.maxImageBytes)
	if err != nil {
		return finish(err)
	}
	if params.theme != "" {
		doc.Theme = params.theme
	}

	var art *offerletter.Artifact
	if job.Format == formatDOCX {
		art, err = exp.ExportDOCX(ctx, doc)
	} else {
		art, err = exp.ExportPDF(ctx, doc)
	}
	if err != nil {
		return finish(err)
	}

	location, err := params.sink.Put(ctx, art)
	if err != nil {
		return finish(err)
	}
	params.log.Debug("artifact stored", "letter", job.Path, "location", location)
	result.Location = location
	return finish(nil)
}

// printResults outputs export results and returns the number of failures
// with the first failure. Letters without a render target are reported as
// skipped, not failed.
func printResults(results []exportResult, quiet, verbose bool, env *Environment) (int, error) {
	var succeeded, skipped, failed int
	var firstErr error

	for _, r := range results {
		switch {
		case errors.Is(r.Err, offerletter.ErrNoRenderTarget):
			skipped++
			fmt.Fprintf(env.Stderr, "SKIPPED %s [%s]: %v\n", r.Path, r.Format, r.Err)
			continue
		case r.Err != nil:
			failed++
			if firstErr == nil {
				firstErr = r.Err
			}
			fmt.Fprintf(env.Stderr, "FAILED %s [%s]: %v\n", r.Path, r.Format, r.Err)
			continue
		}

		succeeded++
		if quiet {
			continue
		}
		if verbose {
			fmt.Fprintf(env.Stdout, "%s [%s] -> %s (%v)\n", r.Path, r.Format, r.Location, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.Location)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d skipped, %d failed\n", succeeded, skipped, failed)
	}
	return failed, firstErr
}

package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// marginSentinel detects if --margin was explicitly set.
// Since 0 is a valid margin, we use an out-of-range sentinel.
const marginSentinel = -1.0

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config    string
	quiet     bool
	verbose   bool
	logFormat string
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      float64
}

// presentationFlags override the letter's own presentation fields.
type presentationFlags struct {
	theme     string
	assetPath string
}

// exportFlags holds all flags for the export command.
type exportFlags struct {
	common       commonFlags
	output       string
	format       string
	workers      int
	timeout      string
	pdfMode      string
	sink         string
	metricsFile  string
	page         pageFlags
	presentation presentationFlags
}

// renderFlags holds flags for the render command.
type renderFlags struct {
	common       commonFlags
	output       string
	editable     bool
	presentation presentationFlags
}

// generateFlags holds flags for the generate command.
type generateFlags struct {
	common  commonFlags
	output  string
	base    string
	model   string
	timeout string
	json    bool
}

// reorderFlags holds flags for the reorder command.
type reorderFlags struct {
	common commonFlags
	output string
	from   int
	to     int
	json   bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing and debug logs")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: text, json")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: letter, a4, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", marginSentinel, "page margin in inches (0-3.0)")
}

// addPresentationFlags adds theme and asset flags to a FlagSet.
func addPresentationFlags(fs *flag.FlagSet, f *presentationFlags) {
	fs.StringVar(&f.theme, "theme", "", "override the letter theme")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
}

func newFlagSet(name string, usage func(io.Writer), stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }
	return fs
}

// parseExportFlags parses export command flags and returns positional args.
func parseExportFlags(args []string, stderr io.Writer) (*exportFlags, []string, error) {
	fs := newFlagSet("export", printExportUsage, stderr)
	f := &exportFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output directory (directory sink)")
	fs.StringVarP(&f.format, "format", "f", formatPDF, "export format: pdf, docx, all")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel exporters (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "export timeout (e.g., 30s, 2m)")
	fs.StringVar(&f.pdfMode, "pdf-mode", "", "PDF mode: raster, vector")
	fs.StringVar(&f.sink, "sink", "", "artifact sink: dir, minio")
	fs.StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile")

	addCommonFlags(fs, &f.common)
	addPageFlags(fs, &f.page)
	addPresentationFlags(fs, &f.presentation)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseRenderFlags parses render command flags and returns positional args.
func parseRenderFlags(args []string, stderr io.Writer) (*renderFlags, []string, error) {
	fs := newFlagSet("render", printRenderUsage, stderr)
	f := &renderFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output HTML file (default stdout)")
	fs.BoolVar(&f.editable, "editable", false, "keep editor affordances in the markup")

	addCommonFlags(fs, &f.common)
	addPresentationFlags(fs, &f.presentation)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseGenerateFlags parses generate command flags and returns the words
// of the request.
func parseGenerateFlags(args []string, stderr io.Writer) (*generateFlags, []string, error) {
	fs := newFlagSet("generate", printGenerateUsage, stderr)
	f := &generateFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output letter file (default stdout)")
	fs.StringVarP(&f.base, "base", "b", "", "letter file the generated fields are merged into")
	fs.StringVar(&f.model, "model", "", "model name")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "generation timeout (e.g., 30s, 2m)")
	fs.BoolVar(&f.json, "json", false, "write JSON instead of YAML")

	addCommonFlags(fs, &f.common)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseReorderFlags parses reorder command flags and returns positional args.
func parseReorderFlags(args []string, stderr io.Writer) (*reorderFlags, []string, error) {
	fs := newFlagSet("reorder", printReorderUsage, stderr)
	f := &reorderFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output letter file (default stdout)")
	fs.IntVar(&f.from, "from", -1, "index of the section to move")
	fs.IntVar(&f.to, "to", -1, "index to move the section to")
	fs.BoolVar(&f.json, "json", false, "write JSON instead of YAML")

	addCommonFlags(fs, &f.common)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

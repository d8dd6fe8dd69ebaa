package offerletter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alnah/go-offerletter/internal/assets"
	"github.com/alnah/go-offerletter/internal/docx"
	"github.com/alnah/go-offerletter/internal/fileutil"
	"github.com/alnah/go-offerletter/internal/logger"
	"github.com/alnah/go-offerletter/internal/metrics"
	"github.com/alnah/go-offerletter/internal/pipeline"
)

// PackageConverter turns a self-contained HTML document into a DOCX
// package.
type PackageConverter interface {
	Convert(ctx context.Context, htmlDoc string, opts PackageOptions) ([]byte, error)
}

// PackageOptions controls DOCX generation.
type PackageOptions struct {
	TableRowCantSplit bool
	Footer            bool
	FooterText        string
	PageNumber        bool
	Page              PageSettings
	Title             string
	// Logger receives per-image warnings.
	Logger *slog.Logger
}

// docxConverter adapts internal/docx to PackageConverter.
type docxConverter struct {
	conv *docx.Converter
}

// NewDOCXConverter returns the built-in DOCX backend.
func NewDOCXConverter() PackageConverter {
	return &docxConverter{conv: docx.NewConverter()}
}

func (d *docxConverter) Convert(ctx context.Context, htmlDoc string, opts PackageOptions) ([]byte, error) {
	return d.conv.Convert(ctx, htmlDoc, docx.Options{
		TableRowCantSplit: opts.TableRowCantSplit,
		Footer:            opts.Footer,
		FooterText:        opts.FooterText,
		PageNumber:        opts.PageNumber,
		Title:             opts.Title,
		Logger:            opts.Logger,
		Page: docx.PageSetup{
			Size:         strings.ToLower(opts.Page.Size),
			Landscape:    opts.Page.Landscape(),
			MarginInches: opts.Page.Margin,
		},
	})
}

// Compile-time interface checks.
var (
	_ PackageConverter       = (*docxConverter)(nil)
	_ pipeline.BodyConverter = (*pipeline.BodyRenderer)(nil)
)

// Exporter renders documents to markup and exports them as PDF and DOCX.
// Exports work on the document value they are given and may run
// concurrently.
type Exporter struct {
	cfg        exporterConfig
	loader     AssetLoader
	letter     *pipeline.LetterRenderer
	body       pipeline.BodyConverter
	inliner    *pipeline.AssetInliner
	converter  PackageConverter
	rasterizer Rasterizer
	logger     *slog.Logger
	metrics    *metrics.Recorder
}

// NewExporter creates an Exporter with default configuration.
// Returns error if settings are invalid or the letter template fails to
// load.
func NewExporter(opts ...Option) (*Exporter, error) {
	e := &Exporter{
		cfg:    defaultExporterConfig(),
		body:   pipeline.NewBodyRenderer(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := e.cfg.page.Validate(); err != nil {
		return nil, err
	}
	if !isValidPDFMode(e.cfg.pdfMode) {
		return nil, fmt.Errorf("%w: %q (must be %s or %s)", ErrInvalidPDFMode, e.cfg.pdfMode, PDFModeRaster, PDFModeVector)
	}
	if err := e.cfg.raster.Validate(); err != nil {
		return nil, err
	}

	if e.loader == nil {
		loader, err := NewAssetLoader(e.cfg.assetPath)
		if err != nil {
			return nil, err
		}
		e.loader = loader
	}
	tmpl, err := e.loader.LoadTemplate(assets.LetterTemplateName)
	if err != nil {
		return nil, fmt.Errorf("loading letter template: %w", err)
	}
	if e.letter, err = pipeline.NewLetterRenderer(tmpl); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLetterMarkup, err)
	}

	inlinerOpts := []pipeline.InlinerOption{
		pipeline.WithInlinerLogger(e.logger),
		pipeline.WithInlinerMetrics(e.metrics),
	}
	if e.cfg.httpClient != nil {
		inlinerOpts = append(inlinerOpts, pipeline.WithInlinerHTTPClient(e.cfg.httpClient))
	}
	if e.cfg.inlineConcurrency > 0 {
		inlinerOpts = append(inlinerOpts, pipeline.WithInlinerConcurrency(e.cfg.inlineConcurrency))
	}
	if e.cfg.maxImageBytes > 0 {
		inlinerOpts = append(inlinerOpts, pipeline.WithMaxImageBytes(e.cfg.maxImageBytes))
	}
	if e.cfg.fetchTimeout > 0 {
		inlinerOpts = append(inlinerOpts, pipeline.WithFetchTimeout(e.cfg.fetchTimeout))
	}
	e.inliner = pipeline.NewAssetInliner(inlinerOpts...)

	if !e.cfg.converterSet {
		e.converter = NewDOCXConverter()
	}
	// The browser itself starts on the first PDF export.
	if !e.cfg.rasterizerSet {
		e.rasterizer = NewRodRasterizer(e.cfg.timeout)
	}
	return e, nil
}

// Close releases the browser, if one was started.
func (e *Exporter) Close() error {
	if e.rasterizer != nil {
		return e.rasterizer.Close()
	}
	return nil
}

// Markup renders doc through the letter template. Editable markup carries
// the drag handles and contenteditable body used by an editor surface.
func (e *Exporter) Markup(ctx context.Context, doc Document, editable bool) (string, error) {
	bodyHTML, err := e.body.ToHTML(ctx, Render(doc))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLetterMarkup, err)
	}

	layout := ResolveLayout(doc)
	view := pipeline.LetterView{
		Theme:            doc.Theme,
		Layout:           layout.Kind,
		Sections:         sectionStrings(layout.Sections),
		Editable:         editable,
		LogoAlignment:    doc.LogoAlignment,
		CompanyName:      doc.CompanyName,
		CompanyAddress:   doc.CompanyAddress,
		CompanyLogo:      doc.CompanyLogo,
		Contacts:         doc.Contacts(),
		Date:             FormatLongDate(doc.Date),
		CandidateName:    doc.CandidateName,
		CandidateAddress: doc.CandidateAddress,
		Subject:          Subject(doc),
		Body:             bodyHTML,
		SignerName:       doc.SignerName,
		SignerTitle:      doc.SignerTitle,
		SignerSignature:  doc.SignerSignature,
	}
	markup, err := e.letter.Markup(ctx, view)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLetterMarkup, err)
	}
	return markup, nil
}

// Snapshot renders doc without editor affordances.
func (e *Exporter) Snapshot(ctx context.Context, doc Document) (string, error) {
	markup, err := e.Markup(ctx, doc, false)
	if err != nil {
		return "", err
	}
	clean, err := pipeline.StripEditorAffordances(markup)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLetterMarkup, err)
	}
	return clean, nil
}

// ResolveStyles returns the complete style sheet for doc.
func (e *Exporter) ResolveStyles(doc Document) (string, error) {
	return resolveStyles(e.loader, doc, e.cfg.page)
}

// Subject is the letter's subject line.
func Subject(doc Document) string {
	if strings.TrimSpace(doc.JobTitle) == "" {
		return "Offer of Employment"
	}
	return "Offer of Employment: " + doc.JobTitle
}

// ExportPDF renders doc to a paginated PDF.
func (e *Exporter) ExportPDF(ctx context.Context, doc Document) (*Artifact, error) {
	if e.rasterizer == nil {
		return nil, ErrRasterizerUnavailable
	}
	return e.export(ctx, "pdf", doc, func(ctx context.Context, log *slog.Logger, markup, css string) ([]byte, error) {
		if e.cfg.pdfMode == PDFModeVector {
			return e.rasterizer.PrintPDF(ctx, pipeline.WrapDocument(markup, css), e.cfg.page)
		}

		marked, err := pipeline.MarkCrossOrigin(markup)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLetterMarkup, err)
		}
		width := printableWidthPx(e.cfg.page)
		htmlDoc := pipeline.WrapDocument(marked, css+buildRasterWidthCSS(width))
		shot, err := e.rasterizer.Screenshot(ctx, htmlDoc, ScreenshotOptions{
			Selector: "#" + pipeline.RenderTargetID,
			WidthPx:  width,
			Scale:    e.cfg.raster.Scale,
		})
		if err != nil {
			return nil, err
		}
		out, err := paginate(ctx, shot, e.cfg.page, e.cfg.raster, Subject(doc))
		if err != nil {
			return nil, err
		}
		log.Debug("paginated letter", "pages", out.pages)
		return out.pdf, nil
	})
}

// ExportDOCX renders doc to a word-processor package.
func (e *Exporter) ExportDOCX(ctx context.Context, doc Document) (*Artifact, error) {
	if e.converter == nil {
		return nil, ErrConverterUnavailable
	}
	return e.export(ctx, "docx", doc, func(ctx context.Context, log *slog.Logger, markup, css string) ([]byte, error) {
		data, err := e.converter.Convert(ctx, pipeline.WrapDocument(markup, css), PackageOptions{
			TableRowCantSplit: e.cfg.docx.CantSplitRows,
			Footer:            e.cfg.docx.Footer,
			FooterText:        e.cfg.docx.FooterText,
			PageNumber:        e.cfg.docx.PageNumber,
			Page:              *e.cfg.page,
			Title:             Subject(doc),
			Logger:            log,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDOCXGeneration, err)
		}
		return data, nil
	})
}

type renderFunc func(ctx context.Context, log *slog.Logger, markup, css string) ([]byte, error)

// export runs the steps shared by both formats: snapshot, image inlining,
// styles, then render. Logo, signature and body images are all img
// sources in the snapshot, so one all-settled pass fetches each URL once.
func (e *Exporter) export(ctx context.Context, format string, doc Document, render renderFunc) (art *Artifact, err error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.timeout)
	defer cancel()
	ctx = logger.WithExportID(ctx, uuid.NewString())
	log := logger.FromContext(ctx, e.logger).With("format", format)

	start := time.Now()
	done := e.metrics.TrackInFlight(format)
	defer func() {
		// Recover from panics in browser or encoder code.
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrInternal, r)
			art = nil
		}
		done()
		outcome := metrics.OutcomeSuccess
		switch {
		case errors.Is(err, ErrNoRenderTarget):
			outcome = metrics.OutcomeSkipped
		case err != nil:
			outcome = metrics.OutcomeError
		}
		e.metrics.ObserveExport(format, outcome, time.Since(start))
		if err != nil && !errors.Is(err, ErrNoRenderTarget) {
			log.Error("export failed", "error", err)
		}
	}()

	work := doc.Clone()
	markup, err := e.Snapshot(ctx, work)
	if err != nil {
		return nil, err
	}
	if !pipeline.HasRenderTarget(markup) {
		log.Warn("letter markup has no render target", "target", pipeline.RenderTargetID)
		return nil, ErrNoRenderTarget
	}
	markup = e.inliner.InlineAll(ctx, markup)

	css, err := e.ResolveStyles(work)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := render(ctx, log, markup, css)
	if err != nil {
		return nil, err
	}

	name := Filename(doc.CandidateName, format)
	log.Info("export complete", "name", name, "bytes", len(data), "elapsed", time.Since(start))
	return &Artifact{Name: name, MIMEType: mimeTypeFor(format), Data: data}, nil
}

func mimeTypeFor(format string) string {
	if format == "docx" {
		return MIMETypeDOCX
	}
	return MIMETypePDF
}

// Filename returns "<candidate>_Offer_Letter.<ext>". An empty candidate
// becomes "Candidate"; separators and control characters become "_".
func Filename(candidate, ext string) string {
	name := strings.TrimSpace(candidate)
	if name == "" {
		name = "Candidate"
	}
	return fileutil.SanitizeName(name) + "_Offer_Letter." + strings.TrimPrefix(ext, ".")
}

package offerletter

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/alnah/go-offerletter/internal/metrics"
)

// Option configures an Exporter.
type Option func(*Exporter)

// exporterConfig holds internal configuration for Exporter.
type exporterConfig struct {
	timeout           time.Duration
	assetPath         string
	httpClient        *http.Client
	inlineConcurrency int
	maxImageBytes     int64
	fetchTimeout      time.Duration
	page              *PageSettings
	pdfMode           string
	raster            RasterSettings
	docx              DOCXSettings

	converterSet  bool
	rasterizerSet bool
}

// DOCXSettings controls the word-processor package.
type DOCXSettings struct {
	Footer        bool
	FooterText    string
	PageNumber    bool
	CantSplitRows bool
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 60 * time.Second

func defaultExporterConfig() exporterConfig {
	return exporterConfig{
		timeout: defaultTimeout,
		page:    DefaultPageSettings(),
		pdfMode: PDFModeRaster,
		raster:  RasterSettings{Scale: DefaultScale, JPEGQuality: DefaultJPEGQuality},
		docx:    DOCXSettings{Footer: true, PageNumber: true, CantSplitRows: true},
	}
}

// WithTimeout bounds each export.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("offerletter: WithTimeout duration must be positive")
	}
	return func(e *Exporter) {
		e.cfg.timeout = d
	}
}

// WithAssetPath loads styles and the letter template from dir, falling
// back to the embedded assets.
func WithAssetPath(dir string) Option {
	return func(e *Exporter) {
		e.cfg.assetPath = dir
	}
}

// WithAssetLoader sets a custom asset backend. It takes precedence over
// WithAssetPath.
func WithAssetLoader(l AssetLoader) Option {
	return func(e *Exporter) {
		e.loader = l
	}
}

// WithLogger sets the export logger. Default slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Exporter) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithHTTPClient sets the client used to fetch external images.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Exporter) {
		e.cfg.httpClient = c
	}
}

// WithInlineConcurrency caps parallel image fetches.
func WithInlineConcurrency(n int) Option {
	return func(e *Exporter) {
		e.cfg.inlineConcurrency = n
	}
}

// WithMaxImageBytes caps the size of one fetched image.
func WithMaxImageBytes(n int64) Option {
	return func(e *Exporter) {
		e.cfg.maxImageBytes = n
	}
}

// WithFetchTimeout bounds a single image fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(e *Exporter) {
		e.cfg.fetchTimeout = d
	}
}

// WithPackageConverter sets the DOCX backend. A nil converter makes
// ExportDOCX fail with ErrConverterUnavailable.
func WithPackageConverter(c PackageConverter) Option {
	return func(e *Exporter) {
		e.converter = c
		e.cfg.converterSet = true
	}
}

// WithRasterizer sets the browser backend. A nil rasterizer makes
// ExportPDF fail with ErrRasterizerUnavailable.
func WithRasterizer(r Rasterizer) Option {
	return func(e *Exporter) {
		e.rasterizer = r
		e.cfg.rasterizerSet = true
	}
}

// WithMetrics records exports on m.
func WithMetrics(m *Metrics) Option {
	return func(e *Exporter) {
		if m != nil {
			e.metrics = m.rec
		}
	}
}

// WithPage sets the page geometry of both formats.
func WithPage(p *PageSettings) Option {
	return func(e *Exporter) {
		if p != nil {
			e.cfg.page = p
		}
	}
}

// WithPDFMode selects PDFModeRaster or PDFModeVector.
func WithPDFMode(mode string) Option {
	return func(e *Exporter) {
		e.cfg.pdfMode = mode
	}
}

// WithRaster sets the raster-mode scale and JPEG quality.
func WithRaster(r RasterSettings) Option {
	return func(e *Exporter) {
		e.cfg.raster = r
	}
}

// WithDOCX sets the word-processor package settings.
func WithDOCX(s DOCXSettings) Option {
	return func(e *Exporter) {
		e.cfg.docx = s
	}
}

// Metrics holds the Prometheus collectors shared by exporters.
type Metrics struct {
	rec *metrics.Recorder
}

// NewMetrics registers the export collectors on reg under namespace.
// Register once per registry and share the result.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	return &Metrics{rec: metrics.New(reg, namespace)}
}

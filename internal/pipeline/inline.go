package pipeline

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-offerletter/internal/logger"
	"github.com/alnah/go-offerletter/internal/metrics"
)

// Inliner defaults.
const (
	DefaultInlineConcurrency = 8
	DefaultMaxImageBytes     = 10 << 20
	DefaultFetchTimeout      = 15 * time.Second
	DefaultUserAgent         = "Mozilla/5.0 (compatible; go-offerletter/1.0)"
)

// FetchError describes one image that could not be inlined.
type FetchError struct {
	URL     string
	Message string
	Cause   error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// IsInlineImage reports whether ref carries its bytes as a data URI.
func IsInlineImage(ref string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(ref)), "data:")
}

// IsExternalImage reports whether ref is a network URL.
func IsExternalImage(ref string) bool {
	lower := strings.ToLower(strings.TrimSpace(ref))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// DataURI encodes data as a base64 data URI of the given MIME type.
func DataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// InlinerOption configures an AssetInliner.
type InlinerOption func(*AssetInliner)

// WithInlinerHTTPClient sets the client used for image fetches.
func WithInlinerHTTPClient(c *http.Client) InlinerOption {
	return func(a *AssetInliner) {
		if c != nil {
			a.client = c
		}
	}
}

// WithInlinerConcurrency caps parallel fetches; n < 1 keeps the default.
func WithInlinerConcurrency(n int) InlinerOption {
	return func(a *AssetInliner) {
		if n > 0 {
			a.limit = n
		}
	}
}

// WithMaxImageBytes caps the size of a fetched image.
func WithMaxImageBytes(n int64) InlinerOption {
	return func(a *AssetInliner) {
		if n > 0 {
			a.maxBytes = n
		}
	}
}

// WithFetchTimeout bounds each image fetch.
func WithFetchTimeout(d time.Duration) InlinerOption {
	return func(a *AssetInliner) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithInlinerLogger sets the logger for per-image failures.
func WithInlinerLogger(l *slog.Logger) InlinerOption {
	return func(a *AssetInliner) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithInlinerMetrics records inlined and failed images.
func WithInlinerMetrics(m *metrics.Recorder) InlinerOption {
	return func(a *AssetInliner) {
		a.metrics = m
	}
}

// AssetInliner replaces external image references with data URIs.
// It is safe for concurrent use.
type AssetInliner struct {
	client   *http.Client
	limit    int
	maxBytes int64
	timeout  time.Duration
	logger   *slog.Logger
	metrics  *metrics.Recorder
}

// NewAssetInliner creates an AssetInliner with defaults.
func NewAssetInliner(opts ...InlinerOption) *AssetInliner {
	a := &AssetInliner{
		client:   http.DefaultClient,
		limit:    DefaultInlineConcurrency,
		maxBytes: DefaultMaxImageBytes,
		timeout:  DefaultFetchTimeout,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// InlineAll returns markup with every fetchable external img source
// replaced by a data URI. Images that fail keep their URL; the call itself
// never fails. Markup without external images is returned unchanged.
func (a *AssetInliner) InlineAll(ctx context.Context, markup string) string {
	log := logger.FromContext(ctx, a.logger)

	parsed, err := parseMarkup(markup)
	if err != nil {
		log.Warn("asset inlining skipped: markup not parseable", "error", err)
		return markup
	}
	doc := parsed.document()

	var urls []string
	seen := make(map[string]bool)
	doc.Find("img[src]").Each(func(_ int, img *goquery.Selection) {
		src, _ := img.Attr("src")
		src = strings.TrimSpace(src)
		if !IsExternalImage(src) || seen[src] {
			return
		}
		seen[src] = true
		urls = append(urls, src)
	})
	if len(urls) == 0 {
		return markup
	}

	inlined := a.fetchAll(ctx, log, urls)
	if len(inlined) == 0 {
		return markup
	}

	doc.Find("img[src]").Each(func(_ int, img *goquery.Selection) {
		src, _ := img.Attr("src")
		if uri, ok := inlined[strings.TrimSpace(src)]; ok {
			img.SetAttr("src", uri)
		}
	})

	out, err := parsed.render()
	if err != nil {
		log.Warn("asset inlining skipped: render failed", "error", err)
		return markup
	}
	return out
}

// fetchAll fetches every URL and waits for all of them to settle. Workers
// never return an error, so one failure cannot cancel the others.
func (a *AssetInliner) fetchAll(ctx context.Context, log *slog.Logger, urls []string) map[string]string {
	var (
		mu      sync.Mutex
		results = make(map[string]string, len(urls))
		g       errgroup.Group
	)
	g.SetLimit(a.limit)

	for _, u := range urls {
		u := u
		g.Go(func() error {
			uri, err := a.fetch(ctx, u)
			if err != nil {
				log.Warn("image left as external reference", "url", u, "error", err)
				a.metrics.AssetFailed()
				return nil
			}
			a.metrics.AssetInlined(len(uri))
			mu.Lock()
			results[u] = uri
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (a *AssetInliner) fetch(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{URL: url, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", DefaultUserAgent)
	req.Header.Set("Accept", "image/*")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: url, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", &FetchError{URL: url, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, a.maxBytes+1))
	if err != nil {
		return "", &FetchError{URL: url, Message: "failed to read response body", Cause: err}
	}
	if int64(len(data)) > a.maxBytes {
		return "", &FetchError{URL: url, Message: fmt.Sprintf("image exceeds %d bytes", a.maxBytes)}
	}

	mimeType := sniffImageType(resp.Header.Get("Content-Type"), data)
	if mimeType == "" {
		return "", &FetchError{URL: url, Message: "response is not an image"}
	}
	return DataURI(mimeType, data), nil
}

// mediaTypeOf strips parameters from a Content-Type value.
func mediaTypeOf(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return strings.ToLower(mt)
}

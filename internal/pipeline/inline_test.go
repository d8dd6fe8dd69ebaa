package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/alnah/go-offerletter/internal/logger"
	"github.com/alnah/go-offerletter/internal/metrics"
)

// pngBytes is a valid PNG signature followed by padding.
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 24)...)

func newImageServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/logo.png", func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(pngBytes)
	})
	mux.HandleFunc("/sniffed", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(pngBytes)
	})
	mux.HandleFunc("/page.html", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>not an image</html>"))
	})
	mux.HandleFunc("/big.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(append(pngBytes, make([]byte, 4096)...))
	})
	mux.HandleFunc("/slow.png", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestInliner(opts ...InlinerOption) *AssetInliner {
	return NewAssetInliner(append([]InlinerOption{WithInlinerLogger(logger.Discard())}, opts...)...)
}

func TestAssetInliner_InlineAll_FaultTolerant(t *testing.T) {
	t.Parallel()

	srv := newImageServer(t, nil)
	reg := prometheus.NewRegistry()
	inliner := newTestInliner(WithInlinerMetrics(metrics.New(reg, "test")))

	input := `<div><img src="` + srv.URL + `/logo.png"><img src="` + srv.URL + `/missing.png"></div>`
	got := inliner.InlineAll(context.Background(), input)

	if strings.Count(got, "data:image/png;base64,") != 1 {
		t.Errorf("want exactly one inline payload, got %s", got)
	}
	if !strings.Contains(got, srv.URL+"/missing.png") {
		t.Errorf("failed image should keep its URL, got %s", got)
	}
	if strings.Contains(got, srv.URL+"/logo.png") {
		t.Errorf("fetched image should no longer reference its URL, got %s", got)
	}
}

func TestAssetInliner_InlineAll_Idempotent(t *testing.T) {
	t.Parallel()

	inliner := newTestInliner()

	tests := []struct {
		name  string
		input string
	}{
		{name: "already inline", input: `<div><img src="data:image/png;base64,iVBORw0KGgo="  alt='x'></div>`},
		{name: "relative and file sources", input: `<p><img src="logo.png"><img src="file:///tmp/a.png"></p>`},
		{name: "no images", input: "<p>Dear John,</p>"},
		{name: "full document", input: `<!DOCTYPE html><html><head></head><body><img src="data:image/gif;base64,R0lG"></body></html>`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			once := inliner.InlineAll(context.Background(), tt.input)
			twice := inliner.InlineAll(context.Background(), once)
			if once != tt.input || twice != tt.input {
				t.Errorf("InlineAll() should return byte-identical markup\n in: %q\nout: %q", tt.input, twice)
			}
		})
	}
}

func TestAssetInliner_InlineAll_SecondPassStable(t *testing.T) {
	t.Parallel()

	srv := newImageServer(t, nil)
	inliner := newTestInliner()

	once := inliner.InlineAll(context.Background(), `<img src="`+srv.URL+`/logo.png">`)
	twice := inliner.InlineAll(context.Background(), once)
	if once != twice {
		t.Errorf("second pass changed markup:\n%q\n%q", once, twice)
	}
}

func TestAssetInliner_DeduplicatesFetches(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := newImageServer(t, &hits)
	inliner := newTestInliner()

	u := srv.URL + "/logo.png"
	got := inliner.InlineAll(context.Background(), `<img src="`+u+`"><img src="`+u+`"><img src="`+u+`">`)

	if hits.Load() != 1 {
		t.Errorf("server hits = %d, want 1", hits.Load())
	}
	if strings.Count(got, "data:image/png;base64,") != 3 {
		t.Errorf("every occurrence should be replaced: %s", got)
	}
}

func TestAssetInliner_Failures(t *testing.T) {
	t.Parallel()

	srv := newImageServer(t, nil)
	inliner := newTestInliner(WithMaxImageBytes(1024), WithFetchTimeout(100*time.Millisecond))

	tests := []struct {
		name    string
		path    string
		message string
	}{
		{name: "not found", path: "/missing.png", message: "HTTP status 404"},
		{name: "not an image", path: "/page.html", message: "not an image"},
		{name: "too large", path: "/big.png", message: "exceeds 1024 bytes"},
		{name: "timeout", path: "/slow.png", message: "HTTP request failed"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := inliner.fetch(context.Background(), srv.URL+tt.path)
			var fe *FetchError
			if !errors.As(err, &fe) {
				t.Fatalf("fetch() error = %v, want *FetchError", err)
			}
			if fe.URL != srv.URL+tt.path {
				t.Errorf("FetchError.URL = %q", fe.URL)
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("error %q should contain %q", err, tt.message)
			}
		})
	}
}

func TestAssetInliner_SniffsContentType(t *testing.T) {
	t.Parallel()

	srv := newImageServer(t, nil)
	got := newTestInliner().InlineAll(context.Background(), `<img src="`+srv.URL+`/sniffed">`)
	if !strings.Contains(got, "data:image/png;base64,") {
		t.Errorf("octet-stream PNG should be sniffed as image/png: %s", got)
	}
}

func TestAssetInliner_CancelledContextSettles(t *testing.T) {
	t.Parallel()

	srv := newImageServer(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	input := `<img src="` + srv.URL + `/logo.png">`
	if got := newTestInliner().InlineAll(ctx, input); got != input {
		t.Errorf("cancelled inlining should leave markup unchanged, got %q", got)
	}
}

func TestImageClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ref      string
		inline   bool
		external bool
	}{
		{"data:image/png;base64,AAAA", true, false},
		{"DATA:image/png;base64,AAAA", true, false},
		{"https://picsum.photos/200", false, true},
		{"http://example.com/a.png", false, true},
		{"logo.png", false, false},
		{"", false, false},
	}

	for _, tt := range tests {
		if got := IsInlineImage(tt.ref); got != tt.inline {
			t.Errorf("IsInlineImage(%q) = %v, want %v", tt.ref, got, tt.inline)
		}
		if got := IsExternalImage(tt.ref); got != tt.external {
			t.Errorf("IsExternalImage(%q) = %v, want %v", tt.ref, got, tt.external)
		}
	}
}

func TestFetchError(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := &FetchError{URL: "https://x.example/a.png", Message: "HTTP request failed", Cause: cause}
	if !errors.Is(err, cause) {
		t.Error("FetchError should unwrap to its cause")
	}
	if err.Error() != "fetch error for https://x.example/a.png: HTTP request failed: connection refused" {
		t.Errorf("Error() = %q", err.Error())
	}
}

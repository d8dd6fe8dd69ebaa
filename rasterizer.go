package offerletter

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-offerletter/internal/fileutil"
	"github.com/alnah/go-offerletter/internal/process"
)

// Rasterizer renders a self-contained HTML document in a browser.
type Rasterizer interface {
	// Screenshot captures the element matching opts.Selector as PNG.
	Screenshot(ctx context.Context, htmlDoc string, opts ScreenshotOptions) ([]byte, error)
	// PrintPDF prints the document with the browser's PDF backend.
	PrintPDF(ctx context.Context, htmlDoc string, page *PageSettings) ([]byte, error)
	// Close releases the browser.
	Close() error
}

// ScreenshotOptions configures an element capture.
type ScreenshotOptions struct {
	Selector string
	WidthPx  int     // CSS viewport width
	Scale    float64 // device scale factor
}

// Compile-time interface check.
var _ Rasterizer = (*rodRasterizer)(nil)

// defaultViewportHeight is the initial viewport; captures grow it to the
// element height.
const defaultViewportHeight = 1056

// rodRasterizer implements Rasterizer with go-rod. The browser is launched
// on first use; rod downloads Chromium when none is installed.
type rodRasterizer struct {
	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
	timeout  time.Duration
}

// NewRodRasterizer returns a headless Chrome rasterizer. Set ROD_BROWSER_BIN
// to use a pre-installed browser.
func NewRodRasterizer(timeout time.Duration) Rasterizer {
	return &rodRasterizer{timeout: timeout}
}

// ensureBrowser lazily connects to the browser.
func (r *rodRasterizer) ensureBrowser() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return r.browser, nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" || os.Getenv("ROD_NO_SANDBOX") == "1" {
		l = l.NoSandbox(true)
	}
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.launcher = l
	r.browser = browser
	return browser, nil
}

// Close releases browser resources and kills the browser process tree.
func (r *rodRasterizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	r.browser = nil

	if r.launcher != nil {
		// Renderer children can outlive the browser process.
		if killErr := process.KillTree(r.launcher.PID()); killErr != nil {
			r.launcher.Kill()
		}
		r.launcher.Cleanup()
		r.launcher = nil
	}
	return err
}

// open loads htmlDoc from a temp file into a new page. The caller closes
// the page and runs cleanup.
func (r *rodRasterizer) open(ctx context.Context, htmlDoc string) (*rod.Page, time.Duration, func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, nil, err
	}

	browser, err := r.ensureBrowser()
	if err != nil {
		return nil, 0, nil, err
	}

	path, cleanupFile, err := fileutil.WriteTempFile(htmlDoc, "html")
	if err != nil {
		return nil, 0, nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "file://" + path})
	if err != nil {
		cleanupFile()
		return nil, 0, nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	cleanup := func() {
		_ = page.Close()
		cleanupFile()
	}

	// Wait for page to load with timeout from context or default
	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			cleanup()
			return nil, 0, nil, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		cleanup()
		return nil, 0, nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	// Web fonts settle after load.
	if _, err := page.Timeout(timeout).Eval(`() => document.fonts.ready.then(() => true)`); err != nil {
		cleanup()
		return nil, 0, nil, fmt.Errorf("%w: waiting for fonts: %v", ErrPageLoad, err)
	}
	return page, timeout, cleanup, nil
}

// Screenshot captures one element at the requested device scale.
func (r *rodRasterizer) Screenshot(ctx context.Context, htmlDoc string, opts ScreenshotOptions) ([]byte, error) {
	page, timeout, cleanup, err := r.open(ctx, htmlDoc)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	scale := opts.Scale
	if scale <= 0 {
		scale = DefaultScale
	}
	viewport := &proto.EmulationSetDeviceMetricsOverride{
		Width:             opts.WidthPx,
		Height:            defaultViewportHeight,
		DeviceScaleFactor: scale,
	}
	if err := page.SetViewport(viewport); err != nil {
		return nil, fmt.Errorf("%w: setting viewport: %v", ErrScreenshot, err)
	}

	el, err := page.Timeout(timeout).Element(opts.Selector)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoRenderTarget, err)
	}
	shape, err := el.Shape()
	if err != nil {
		return nil, fmt.Errorf("%w: measuring element: %v", ErrScreenshot, err)
	}
	if box := shape.Box(); box != nil {
		viewport.Height = int(math.Ceil(box.Y + box.Height))
		if viewport.Height < defaultViewportHeight {
			viewport.Height = defaultViewportHeight
		}
		if err := page.SetViewport(viewport); err != nil {
			return nil, fmt.Errorf("%w: sizing viewport: %v", ErrScreenshot, err)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	png, err := el.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScreenshot, err)
	}
	return png, nil
}

// PrintPDF prints the document with the page geometry applied.
func (r *rodRasterizer) PrintPDF(ctx context.Context, htmlDoc string, page *PageSettings) ([]byte, error) {
	p, _, cleanup, err := r.open(ctx, htmlDoc)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := p.PDF(buildPDFOptions(page))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdfBuf, nil
}

// buildPDFOptions converts page settings to Chrome print options.
func buildPDFOptions(page *PageSettings) *proto.PagePrintToPDF {
	if page == nil {
		page = DefaultPageSettings()
	}
	w, h := page.pageInches()
	return &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(w),
		PaperHeight:     floatPtr(h),
		MarginTop:       floatPtr(page.Margin),
		MarginBottom:    floatPtr(page.Margin),
		MarginLeft:      floatPtr(page.Margin),
		MarginRight:     floatPtr(page.Margin),
		PrintBackground: true,
	}
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}

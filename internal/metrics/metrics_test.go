package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metrics:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if labels[lp.GetName()] != lp.GetValue() {
					continue metrics
				}
			}
			if c := m.GetCounter(); c != nil {
				return c.GetValue()
			}
			if g := m.GetGauge(); g != nil {
				return g.GetValue()
			}
		}
	}
	return 0
}

func TestRecorder_ObserveExport(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	r := New(reg, "offerletter")

	r.ObserveExport("pdf", OutcomeSuccess, 1200*time.Millisecond)
	r.ObserveExport("pdf", OutcomeSuccess, 800*time.Millisecond)
	r.ObserveExport("docx", OutcomeError, time.Second)

	if got := counterValue(t, reg, "offerletter_export_total", map[string]string{"format": "pdf", "outcome": "success"}); got != 2 {
		t.Errorf("pdf success = %v, want 2", got)
	}
	if got := counterValue(t, reg, "offerletter_export_total", map[string]string{"format": "docx", "outcome": "error"}); got != 1 {
		t.Errorf("docx error = %v, want 1", got)
	}
}

func TestRecorder_TrackInFlight(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	r := New(reg, "offerletter")

	done := r.TrackInFlight("docx")
	if got := counterValue(t, reg, "offerletter_export_in_progress", map[string]string{"format": "docx"}); got != 1 {
		t.Errorf("in progress = %v, want 1", got)
	}
	done()
	if got := counterValue(t, reg, "offerletter_export_in_progress", map[string]string{"format": "docx"}); got != 0 {
		t.Errorf("in progress after done = %v, want 0", got)
	}
}

func TestRecorder_Assets(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	r := New(reg, "offerletter")

	r.AssetInlined(100)
	r.AssetInlined(50)
	r.AssetFailed()

	if got := counterValue(t, reg, "offerletter_assets_fetch_total", map[string]string{"outcome": AssetInlined}); got != 2 {
		t.Errorf("inlined = %v, want 2", got)
	}
	if got := counterValue(t, reg, "offerletter_assets_fetch_total", map[string]string{"outcome": AssetFailed}); got != 1 {
		t.Errorf("failed = %v, want 1", got)
	}
	if got := counterValue(t, reg, "offerletter_assets_inlined_bytes_total", nil); got != 150 {
		t.Errorf("bytes = %v, want 150", got)
	}
}

func TestRecorder_NilIsNoop(t *testing.T) {
	t.Parallel()

	var r *Recorder
	r.ObserveExport("pdf", OutcomeSuccess, time.Second)
	r.AssetInlined(10)
	r.AssetFailed()
	r.TrackInFlight("pdf")()
}

func TestWriteTextfile(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	New(reg, "offerletter").ObserveExport("pdf", OutcomeSuccess, time.Second)

	path := filepath.Join(t.TempDir(), "offerletter.prom")
	if err := WriteTextfile(path, reg); err != nil {
		t.Fatalf("WriteTextfile() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "offerletter_export_total") {
		t.Errorf("textfile missing export counter:\n%s", data)
	}
}

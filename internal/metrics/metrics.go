// Package metrics records export and asset inlining activity with
// Prometheus collectors. A nil *Recorder records nothing.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Export outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeSkipped = "skipped"
)

// Asset outcomes.
const (
	AssetInlined = "inlined"
	AssetFailed  = "failed"
)

// Recorder owns the collectors of one registry.
type Recorder struct {
	exportsTotal    *prometheus.CounterVec
	exportDuration  *prometheus.HistogramVec
	exportsInFlight *prometheus.GaugeVec
	assetsTotal     *prometheus.CounterVec
	assetBytes      prometheus.Counter
}

// New registers the collectors on reg under namespace.
func New(reg prometheus.Registerer, namespace string) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		exportsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "export",
				Name:      "total",
				Help:      "Letter exports by format and outcome.",
			},
			[]string{"format", "outcome"},
		),
		exportDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "export",
				Name:      "duration_seconds",
				Help:      "Letter export latency by format.",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"format"},
		),
		exportsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "export",
				Name:      "in_progress",
				Help:      "Letter exports currently running.",
			},
			[]string{"format"},
		),
		assetsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "assets",
				Name:      "fetch_total",
				Help:      "External images processed during inlining, by outcome.",
			},
			[]string{"outcome"},
		),
		assetBytes: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "assets",
				Name:      "inlined_bytes_total",
				Help:      "Bytes of image data embedded into exports.",
			},
		),
	}
}

// ObserveExport records one finished export.
func (r *Recorder) ObserveExport(format, outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.exportsTotal.WithLabelValues(format, outcome).Inc()
	r.exportDuration.WithLabelValues(format).Observe(elapsed.Seconds())
}

// TrackInFlight increments the in-progress gauge and returns its decrement.
func (r *Recorder) TrackInFlight(format string) func() {
	if r == nil {
		return func() {}
	}
	g := r.exportsInFlight.WithLabelValues(format)
	g.Inc()
	return g.Dec
}

// AssetInlined records one embedded image of n bytes.
func (r *Recorder) AssetInlined(n int) {
	if r == nil {
		return
	}
	r.assetsTotal.WithLabelValues(AssetInlined).Inc()
	r.assetBytes.Add(float64(n))
}

// AssetFailed records one image left as an external reference.
func (r *Recorder) AssetFailed() {
	if r == nil {
		return
	}
	r.assetsTotal.WithLabelValues(AssetFailed).Inc()
}

// WriteTextfile writes every metric of g to path in the text exposition
// format, for the node exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}

// Package metrics exposes Prometheus metrics for telemetry extraction.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultNamespace = "zwift_ocr"

// Option applies a configuration option to the Recorder.
type Option func(*Recorder)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(r *Recorder) {
		if namespace != "" {
			r.namespace = namespace
		}
	}
}

// WithHistogramBuckets sets custom histogram buckets for latency metrics.
func WithHistogramBuckets(buckets []float64) Option {
	return func(r *Recorder) {
		if len(buckets) > 0 {
			r.buckets = buckets
		}
	}
}

// WithRegistry registers metrics on a caller-supplied registry instead of a
// fresh one.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(r *Recorder) {
		if registry != nil {
			r.registry = registry
		}
	}
}

// Recorder records extraction metrics. A nil *Recorder is valid and records
// nothing.
type Recorder struct {
	namespace string
	buckets   []float64
	registry  *prometheus.Registry

	extraction  *prometheus.HistogramVec
	poolWait    prometheus.Histogram
	fieldMisses *prometheus.CounterVec
}

// New creates a Recorder and registers its metrics.
func New(opts ...Option) *Recorder {
	r := &Recorder{
		namespace: defaultNamespace,
		buckets:   prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.registry == nil {
		r.registry = prometheus.NewRegistry()
	}

	r.extraction = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Name:      "extraction_seconds",
		Help:      "Time to extract telemetry from one screenshot.",
		Buckets:   r.buckets,
	}, []string{"mode"})
	r.poolWait = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Name:      "pool_wait_seconds",
		Help:      "Time spent waiting for a pooled OCR engine.",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
	})
	r.fieldMisses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "field_misses_total",
		Help:      "Fields that could not be recognized or parsed.",
	}, []string{"field"})

	r.registry.MustRegister(r.extraction, r.poolWait, r.fieldMisses)
	return r
}

// ObserveExtraction records one extraction in the given mode.
func (r *Recorder) ObserveExtraction(mode string, d time.Duration) {
	if r == nil {
		return
	}
	r.extraction.WithLabelValues(mode).Observe(d.Seconds())
}

// ObservePoolWait records time spent blocked on engine checkout.
func (r *Recorder) ObservePoolWait(d time.Duration) {
	if r == nil {
		return
	}
	r.poolWait.Observe(d.Seconds())
}

// FieldMiss counts a field left absent.
func (r *Recorder) FieldMiss(field string) {
	if r == nil {
		return
	}
	r.fieldMisses.WithLabelValues(field).Inc()
}

// Registry returns the registry holding the metrics.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

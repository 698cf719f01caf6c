// Package metrics exposes Prometheus metrics for content header decoding.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics recorded while loading content files.
//
// All Record methods are safe to call on a nil *Metrics, which records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	// Decode metrics
	DecodesTotal  *prometheus.CounterVec
	DecodeErrors  *prometheus.CounterVec
	Warnings      *prometheus.CounterVec
	ChapterCount  prometheus.Histogram
	AudioBytes    prometheus.Histogram
	DecodeLatency prometheus.Histogram

	// Hash verification metrics
	HashVerifications *prometheus.CounterVec
}

// New creates all metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		DecodesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tonie_header_decodes_total",
			Help: "Total number of content headers decoded, by result",
		}, []string{"result"}),
		DecodeErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tonie_header_decode_errors_total",
			Help: "Total number of failed header decodes, by error kind",
		}, []string{"kind"}),
		Warnings: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tonie_header_warnings_total",
			Help: "Total number of non-fatal warnings, by stage",
		}, []string{"stage"}),
		ChapterCount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "tonie_header_chapters",
			Help:    "Number of chapters per decoded header",
			Buckets: prometheus.LinearBuckets(0, 5, 12), // 0 to 55
		}),
		AudioBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "tonie_audio_length_bytes",
			Help:    "Declared audio payload length per decoded header",
			Buckets: prometheus.ExponentialBuckets(1<<20, 2, 10), // 1MB to ~512MB
		}),
		DecodeLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "tonie_header_load_duration_seconds",
			Help:    "Time spent reading and decoding a content header",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12), // 100µs to ~200ms
		}),

		HashVerifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tonie_hash_verifications_total",
			Help: "Total number of audio payload hash verifications, by result",
		}, []string{"result"}),
	}
}

// RecordDecode records one decode outcome. kind is the error kind label and
// is ignored when the decode succeeded.
func (m *Metrics) RecordDecode(ok bool, kind string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.DecodeLatency.Observe(elapsed.Seconds())
	if ok {
		m.DecodesTotal.WithLabelValues("ok").Inc()
		return
	}
	m.DecodesTotal.WithLabelValues("error").Inc()
	m.DecodeErrors.WithLabelValues(kind).Inc()
}

// RecordHeader records the shape of a successfully decoded header.
func (m *Metrics) RecordHeader(chapters int, audioLength uint32) {
	if m == nil {
		return
	}
	m.ChapterCount.Observe(float64(chapters))
	m.AudioBytes.Observe(float64(audioLength))
}

// RecordWarning increments the warning counter for a stage.
func (m *Metrics) RecordWarning(stage string) {
	if m == nil {
		return
	}
	m.Warnings.WithLabelValues(stage).Inc()
}

// RecordHashVerification records a hash verification result.
func (m *Metrics) RecordHashVerification(ok bool) {
	if m == nil {
		return
	}
	if ok {
		m.HashVerifications.WithLabelValues("match").Inc()
		return
	}
	m.HashVerifications.WithLabelValues("mismatch").Inc()
}

// WriteTextfile writes all metrics in the text exposition format to path,
// for pickup by a node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}

// Package metrics exposes Prometheus instruments for extraction and
// document processing.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds the process-wide collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	ExtractionsTotal     *prometheus.CounterVec
	FallbacksTotal       *prometheus.CounterVec
	ExtractionConfidence *prometheus.HistogramVec
	ModelDuration        prometheus.Histogram
	DocumentsTotal       *prometheus.CounterVec
	QueueDepth           prometheus.Gauge
}

// New registers the collectors on the default registry once and returns
// them.
//
// Metrics:
//   - licitaciones_extractions_total{method}
//   - licitaciones_extraction_fallbacks_total{reason}
//   - licitaciones_extraction_confidence{method}
//   - licitaciones_model_duration_seconds
//   - licitaciones_documents_total{outcome}
//   - licitaciones_queue_depth
func New() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			ExtractionsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "licitaciones_extractions_total",
					Help: "Records produced, by extraction method",
				},
				[]string{"method"},
			),
			FallbacksTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "licitaciones_extraction_fallbacks_total",
					Help: "Pattern fallbacks, by reason",
				},
				[]string{"reason"}, // "disabled", "model_error", "model_rejected", "low_confidence"
			),
			ExtractionConfidence: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "licitaciones_extraction_confidence",
					Help:    "Confidence score of produced records",
					Buckets: prometheus.LinearBuckets(10, 10, 10),
				},
				[]string{"method"},
			),
			ModelDuration: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "licitaciones_model_duration_seconds",
					Help:    "Duration of model-assisted extraction calls",
					Buckets: prometheus.ExponentialBuckets(0.25, 2, 8), // 250ms to ~32s
				},
			),
			DocumentsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "licitaciones_documents_total",
					Help: "Documents handled by the processor, by outcome",
				},
				[]string{"outcome"}, // "stored", "skipped_processed", "skipped_closed", "failed"
			),
			QueueDepth: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "licitaciones_queue_depth",
					Help: "Documents waiting in the processing queue",
				},
			),
		}
	})
	return globalMetrics
}

// RecordExtraction records a finished extraction.
func (m *Metrics) RecordExtraction(method string, confidence int) {
	if m == nil {
		return
	}
	m.ExtractionsTotal.WithLabelValues(method).Inc()
	m.ExtractionConfidence.WithLabelValues(method).Observe(float64(confidence))
}

// RecordFallback records why the pattern strategy ran.
func (m *Metrics) RecordFallback(reason string) {
	if m == nil {
		return
	}
	m.FallbacksTotal.WithLabelValues(reason).Inc()
}

// ObserveModel records the duration of one model call.
func (m *Metrics) ObserveModel(d time.Duration) {
	if m == nil {
		return
	}
	m.ModelDuration.Observe(d.Seconds())
}

// RecordDocument records a processor outcome.
func (m *Metrics) RecordDocument(outcome string) {
	if m == nil {
		return
	}
	m.DocumentsTotal.WithLabelValues(outcome).Inc()
}

// SetQueueDepth updates the queue gauge.
func (m *Metrics) SetQueueDepth(n int) {
	if m == nil {
		return
	}
	m.QueueDepth.Set(float64(n))
}

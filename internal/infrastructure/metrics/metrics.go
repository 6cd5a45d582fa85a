package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

// Petal API metrics - using explicit registration
var (
	// Request counters
	RequestsTotal *prometheus.CounterVec

	// Image operation counters
	GenerationsTotal *prometheus.CounterVec

	// Image operation duration histogram
	GenerationDuration *prometheus.HistogramVec

	// External provider latency
	ExternalProviderLatency *prometheus.HistogramVec

	// Batch item outcome counter
	BatchItemsTotal *prometheus.CounterVec
)

// init creates and registers all metrics with the default registry
func init() {
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "petal",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "status"},
	)

	GenerationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "petal",
			Subsystem: "images",
			Name:      "operations_total",
			Help:      "Total image operations by kind and model",
		},
		[]string{"operation", "model", "status"},
	)

	GenerationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "petal",
			Subsystem: "images",
			Name:      "operation_duration_seconds",
			Help:      "Image operation duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"operation", "model"},
	)

	ExternalProviderLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "petal",
			Subsystem: "images",
			Name:      "external_provider_latency_seconds",
			Help:      "External provider response time in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"provider"},
	)

	BatchItemsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "petal",
			Subsystem: "images",
			Name:      "batch_items_total",
			Help:      "Batch generation items by outcome",
		},
		[]string{"status"},
	)

	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(GenerationsTotal)
	prometheus.MustRegister(GenerationDuration)
	prometheus.MustRegister(ExternalProviderLatency)
	prometheus.MustRegister(BatchItemsTotal)
	log.Info().Msg("petal metrics registered with Prometheus")
}

// RecordRequest records an HTTP request
func RecordRequest(method, status string) {
	RequestsTotal.WithLabelValues(method, status).Inc()
}

// RecordOperation records an image operation
func RecordOperation(operation, model, status string, durationSec float64) {
	if model == "" {
		model = "unknown"
	}
	if status == "" {
		status = "unknown"
	}
	GenerationsTotal.WithLabelValues(operation, model, status).Inc()
	GenerationDuration.WithLabelValues(operation, model).Observe(durationSec)
}

// RecordExternalProviderLatency records external provider response time
func RecordExternalProviderLatency(provider string, durationSec float64) {
	ExternalProviderLatency.WithLabelValues(provider).Observe(durationSec)
}

// RecordBatchItem records a single batch item outcome
func RecordBatchItem(status string) {
	if status == "" {
		status = "unknown"
	}
	BatchItemsTotal.WithLabelValues(status).Inc()
}

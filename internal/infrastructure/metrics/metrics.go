package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stylist",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stylist",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint"},
	)

	// Ingestions by source and terminal status
	IngestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stylist",
			Subsystem: "ingest",
			Name:      "ingests_total",
			Help:      "Total ingestion pipeline runs",
		},
		[]string{"source", "status"},
	)

	// Per-stage duration of the ingestion pipeline
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stylist",
			Subsystem: "ingest",
			Name:      "stage_duration_seconds",
			Help:      "Ingestion stage duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"stage"},
	)

	// Candidates discovered by the page scraper
	ScrapeCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "stylist",
			Subsystem: "ingest",
			Name:      "scrape_candidates",
			Help:      "Image candidates found per scraped page",
			Buckets:   []float64{0, 1, 2, 3, 4, 5, 6},
		},
	)

	// Storage operations counter
	StorageOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stylist",
			Subsystem: "storage",
			Name:      "operations_total",
			Help:      "Total storage backend operations",
		},
		[]string{"backend", "operation", "status"},
	)

	// Stored bytes counter
	StoredBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stylist",
			Subsystem: "storage",
			Name:      "stored_bytes_total",
			Help:      "Total bytes written to storage",
		},
		[]string{"backend"},
	)

	// Classifier calls
	ClassifierCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stylist",
			Subsystem: "classifier",
			Name:      "calls_total",
			Help:      "Total classifier service calls",
		},
		[]string{"operation", "status"},
	)
)

// RecordRequest records an HTTP request.
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

// RecordIngest records a terminal pipeline outcome.
func RecordIngest(source, status string) {
	IngestsTotal.WithLabelValues(source, status).Inc()
}

// RecordStage records a pipeline stage duration.
func RecordStage(stage string, durationSec float64) {
	StageDuration.WithLabelValues(stage).Observe(durationSec)
}

// RecordStorageOperation records a storage backend operation.
func RecordStorageOperation(backend, operation, status string, bytes int64) {
	StorageOperationsTotal.WithLabelValues(backend, operation, status).Inc()
	if operation == "put" && status == "success" {
		StoredBytesTotal.WithLabelValues(backend).Add(float64(bytes))
	}
}

// RecordClassifierCall records a classifier service call.
func RecordClassifierCall(operation, status string) {
	ClassifierCallsTotal.WithLabelValues(operation, status).Inc()
}

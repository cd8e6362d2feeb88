package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ArtifactLoads counts artifact load attempts by artifact name and outcome.
	ArtifactLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_classifier_artifact_loads_total",
			Help: "Artifact load attempts by artifact name and status (ok, missing, error).",
		},
		[]string{"artifact", "status"},
	)

	// AxisPredictions counts per-axis prediction outcomes.
	AxisPredictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_classifier_axis_predictions_total",
			Help: "Per-axis prediction outcomes (ok, error, panic, unavailable).",
		},
		[]string{"axis", "outcome"},
	)

	// AxisLatency observes per-axis prediction latency in seconds.
	AxisLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "review_classifier_axis_latency_seconds",
			Help:    "Per-axis prediction latency in seconds.",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"axis"},
	)

	// ReviewAnalyses counts completed review analyses by status.
	ReviewAnalyses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_classifier_analyses_total",
			Help: "Completed review analyses by status (ok, cached, empty).",
		},
		[]string{"status"},
	)

	// BatchTexts observes the number of texts per batch request.
	BatchTexts = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "review_classifier_batch_texts",
			Help:    "Number of texts per batch classification request.",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
		},
	)

	// BatchDuration observes end-to-end batch processing time in seconds.
	BatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "review_classifier_batch_duration_seconds",
			Help:    "End-to-end batch classification duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)

	// BatchErrors counts batch request failures by reason.
	BatchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_classifier_batch_errors_total",
			Help: "Batch classification failures by reason.",
		},
		[]string{"reason"},
	)

	// RequestErrors counts API request failures by endpoint and reason.
	RequestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_classifier_request_errors_total",
			Help: "API request failures by endpoint and reason.",
		},
		[]string{"endpoint", "reason"},
	)

	// CacheOperations counts result cache lookups by outcome.
	CacheOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_classifier_cache_operations_total",
			Help: "Result cache lookups by outcome (hit, miss).",
		},
		[]string{"outcome"},
	)
)

// RecordArtifactLoad records one artifact load attempt.
func RecordArtifactLoad(artifact, status string) {
	ArtifactLoads.WithLabelValues(artifact, status).Inc()
}

// RecordAxisPrediction records the outcome of one axis prediction.
func RecordAxisPrediction(axis, outcome string) {
	AxisPredictions.WithLabelValues(axis, outcome).Inc()
}

// RecordAxisLatency records the latency of one axis prediction.
func RecordAxisLatency(axis string, seconds float64) {
	AxisLatency.WithLabelValues(axis).Observe(seconds)
}

// RecordAnalysis records one completed (or rejected) review analysis.
func RecordAnalysis(status string) {
	ReviewAnalyses.WithLabelValues(status).Inc()
}

// RecordBatchTexts records the size of one batch request.
func RecordBatchTexts(count int) {
	BatchTexts.Observe(float64(count))
}

// RecordBatchDuration records the duration of one batch request.
func RecordBatchDuration(seconds float64) {
	BatchDuration.Observe(seconds)
}

// RecordBatchError records one batch request failure.
func RecordBatchError(reason string) {
	BatchErrors.WithLabelValues(reason).Inc()
}

// RecordRequestError records one API request failure.
func RecordRequestError(endpoint, reason string) {
	RequestErrors.WithLabelValues(endpoint, reason).Inc()
}

// RecordCacheHit records a result cache hit.
func RecordCacheHit() {
	CacheOperations.WithLabelValues("hit").Inc()
}

// RecordCacheMiss records a result cache miss.
func RecordCacheMiss() {
	CacheOperations.WithLabelValues("miss").Inc()
}

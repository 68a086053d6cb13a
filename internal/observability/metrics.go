// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Normalization metrics
	EventsNormalized    prometheus.Counter
	RecordsRejected     *prometheus.CounterVec
	ValuesCoercedToZero prometheus.Counter

	// Feature extraction metrics
	WalletsExtracted   prometheus.Counter
	ExtractionDuration prometheus.Histogram

	// Calibration metrics
	NonFiniteCellsSanitized prometheus.Counter
	CalibrationDuration     prometheus.Histogram

	// Scoring metrics
	ScoresPublished  prometheus.Counter
	ReportsGenerated prometheus.Counter

	// Pipeline metrics
	PipelineRunsTotal *prometheus.CounterVec
	PipelineDuration  *prometheus.HistogramVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "wallet_credit_lab"
	}

	return &Metrics{
		EventsNormalized: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "normalization",
			Name:      "events_normalized_total",
			Help:      "Total number of raw records normalized into events",
		}),
		RecordsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "normalization",
			Name:      "records_rejected_total",
			Help:      "Total number of raw records rejected by reason",
		}, []string{"reason"}),
		ValuesCoercedToZero: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "normalization",
			Name:      "values_coerced_to_zero_total",
			Help:      "Total number of missing or unparseable amounts coerced to 0",
		}),

		WalletsExtracted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "features",
			Name:      "wallets_extracted_total",
			Help:      "Total number of wallet feature vectors computed",
		}),
		ExtractionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "features",
			Name:      "extraction_duration_seconds",
			Help:      "Feature extraction duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		NonFiniteCellsSanitized: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "calibration",
			Name:      "non_finite_cells_sanitized_total",
			Help:      "Total number of non-finite feature cells replaced with 0",
		}),
		CalibrationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "calibration",
			Name:      "duration_seconds",
			Help:      "Scaling plus regression fit duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		}),

		ScoresPublished: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "scores_published_total",
			Help:      "Total number of wallet score records published",
		}),
		ReportsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "reports_generated_total",
			Help:      "Total number of score reports generated",
		}),

		PipelineRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of pipeline runs by status",
		}, []string{"status"}),
		PipelineDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Pipeline execution duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}, []string{"stage"}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordEventsNormalized adds to the normalized-events counter.
func RecordEventsNormalized(n int) {
	DefaultMetrics.EventsNormalized.Add(float64(n))
}

// RecordWalletsExtracted adds to the extracted-wallets counter.
func RecordWalletsExtracted(n int) {
	DefaultMetrics.WalletsExtracted.Add(float64(n))
}

// RecordSanitizedCells adds to the sanitized-cells counter.
func RecordSanitizedCells(n int) {
	DefaultMetrics.NonFiniteCellsSanitized.Add(float64(n))
}

// RecordScoresPublished adds to the published-scores counter.
func RecordScoresPublished(n int) {
	DefaultMetrics.ScoresPublished.Add(float64(n))
}

// RecordPipelineRun records a pipeline run outcome and duration.
func RecordPipelineRun(status string, durationSeconds float64) {
	DefaultMetrics.PipelineRunsTotal.WithLabelValues(status).Inc()
	DefaultMetrics.PipelineDuration.WithLabelValues("total").Observe(durationSeconds)
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

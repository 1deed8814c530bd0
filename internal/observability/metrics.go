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
	// Ingestion metrics
	TransactionsLoaded  prometheus.Counter
	TransactionsSkipped prometheus.Counter
	TransactionsStored  prometheus.Counter

	// Scoring metrics
	WalletsScored      prometheus.Counter
	AnomaliesFlagged   prometheus.Counter
	FeaturesExtracted  prometheus.Counter
	ScoreDistribution  *prometheus.CounterVec

	// Pipeline metrics
	PipelineRunsTotal *prometheus.CounterVec
	PipelineDuration  *prometheus.HistogramVec
	ReportsGenerated  prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "defi_credit_lab"
	}

	return &Metrics{
		// Ingestion metrics
		TransactionsLoaded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "transactions_loaded_total",
			Help:      "Total number of transactions loaded from input",
		}),
		TransactionsSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "transactions_skipped_total",
			Help:      "Total number of input records skipped for missing wallet",
		}),
		TransactionsStored: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "transactions_stored_total",
			Help:      "Total number of transactions stored to database",
		}),

		// Scoring metrics
		WalletsScored: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "wallets_scored_total",
			Help:      "Total number of wallets scored",
		}),
		AnomaliesFlagged: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "anomalies_flagged_total",
			Help:      "Total number of wallets flagged as anomalous",
		}),
		FeaturesExtracted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "features_extracted_total",
			Help:      "Total number of wallet feature vectors extracted",
		}),
		ScoreDistribution: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "score_category_total",
			Help:      "Total number of wallets scored per category",
		}, []string{"category"}),

		// Pipeline metrics
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
			Help:      "Pipeline phase duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		}, []string{"phase"}),
		ReportsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "reports_generated_total",
			Help:      "Total number of reports generated",
		}),

		// Database metrics
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

// RecordTransactionsLoaded adds to the transactions loaded counter.
func RecordTransactionsLoaded(n int) {
	DefaultMetrics.TransactionsLoaded.Add(float64(n))
}

// RecordTransactionsSkipped adds to the skipped records counter.
func RecordTransactionsSkipped(n int) {
	DefaultMetrics.TransactionsSkipped.Add(float64(n))
}

// RecordWalletsScored adds to the wallets scored counter.
func RecordWalletsScored(n int) {
	DefaultMetrics.WalletsScored.Add(float64(n))
}

// RecordAnomaliesFlagged adds to the anomalies flagged counter.
func RecordAnomaliesFlagged(n int) {
	DefaultMetrics.AnomaliesFlagged.Add(float64(n))
}

// RecordScoreCategory increments the per-category score counter.
func RecordScoreCategory(category string) {
	DefaultMetrics.ScoreDistribution.WithLabelValues(category).Inc()
}

// ObservePipelinePhase records the duration of a pipeline phase in seconds.
func ObservePipelinePhase(phase string, seconds float64) {
	DefaultMetrics.PipelineDuration.WithLabelValues(phase).Observe(seconds)
}

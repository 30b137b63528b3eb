package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the service.
type Metrics struct {
	AnalysisRuns        prometheus.Counter
	AnalysisFailures    prometheus.Counter
	AnalysisDuration    prometheus.Histogram
	RowsKept            prometheus.Counter
	RowsDropped         *prometheus.CounterVec
	ImpressionsArchived prometheus.Counter
}

// New creates and registers all metrics on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		AnalysisRuns: factory.NewCounter(prometheus.CounterOpts{
			Name: "ctr_analysis_runs_total",
			Help: "Number of completed analysis runs",
		}),
		AnalysisFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "ctr_analysis_failures_total",
			Help: "Number of analysis runs that failed outright",
		}),
		AnalysisDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ctr_analysis_duration_seconds",
			Help:    "Wall time of a full analysis run",
			Buckets: prometheus.DefBuckets,
		}),
		RowsKept: factory.NewCounter(prometheus.CounterOpts{
			Name: "ctr_rows_kept_total",
			Help: "Rows that survived cleaning",
		}),
		RowsDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ctr_rows_dropped_total",
			Help: "Rows dropped during cleaning, by reason",
		}, []string{"reason"}),
		ImpressionsArchived: factory.NewCounter(prometheus.CounterOpts{
			Name: "ctr_impressions_archived_total",
			Help: "Impressions written to the archive",
		}),
	}
}

package infrastructure

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the Prometheus collectors the serve path records.
// The registry is per-process; handlers receive the struct rather
// than reaching for a global so tests can build their own.
type Metrics struct {
	Registry *prometheus.Registry

	PipelineRuns     prometheus.Counter
	PipelineDuration prometheus.Histogram
	QueryRequests    *prometheus.CounterVec
	QueryRows        prometheus.Histogram
}

// NewMetrics builds and registers the collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,
		PipelineRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "seasonality_pipeline_runs_total",
			Help: "Completed seasonality pipeline runs.",
		}),
		PipelineDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "seasonality_pipeline_duration_seconds",
			Help:    "Wall time of one pipeline run.",
			Buckets: prometheus.DefBuckets,
		}),
		QueryRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "seasonality_query_requests_total",
			Help: "Filter queries served, by outcome.",
		}, []string{"status"}),
		QueryRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "seasonality_query_result_rows",
			Help:    "Rows returned per filter query.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}

	reg.MustRegister(m.PipelineRuns, m.PipelineDuration, m.QueryRequests, m.QueryRows)
	return m
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for analysis runs.
type Metrics struct {
	// Per-funder grant retrieval latency by outcome ("ok", "failed")
	FunderFetchLatency *prometheus.HistogramVec

	// Funders excluded from runs by failure category
	FunderFailures *prometheus.CounterVec

	// Analysis runs by outcome ("computed", "cached", "shared", "rejected", "error")
	AnalysisRuns *prometheus.CounterVec

	// Full analysis latency, computed runs only
	AnalysisLatency prometheus.Histogram

	// Result cache lookups by result ("hit", "miss", "error")
	CacheLookups *prometheus.CounterVec

	// Bundled recipients per computed run
	BundledRecipients prometheus.Histogram

	// Graph builds by size
	GraphNodes prometheus.Histogram
}

// New creates Metrics registered with the default Prometheus registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates Metrics registered with reg. Tests pass a fresh
// registry so repeated construction does not collide.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FunderFetchLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "grantnet_funder_fetch_duration_seconds",
			Help:    "Duration of per-funder grant retrieval",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"outcome"}),

		FunderFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "grantnet_funder_failures_total",
			Help: "Funders excluded from an analysis run by failure category",
		}, []string{"category"}),

		AnalysisRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "grantnet_analysis_runs_total",
			Help: "Analysis requests by outcome",
		}, []string{"outcome"}),

		AnalysisLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "grantnet_analysis_duration_seconds",
			Help:    "Duration of computed analysis runs including retrieval",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),

		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "grantnet_result_cache_lookups_total",
			Help: "Result cache lookups by result",
		}, []string{"result"}),

		BundledRecipients: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "grantnet_bundled_recipients",
			Help:    "Bundled recipients found per computed run",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),

		GraphNodes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "grantnet_graph_nodes",
			Help:    "Nodes in each relationship graph build",
			Buckets: prometheus.ExponentialBuckets(10, 4, 8),
		}),
	}
}

// ObserveFunderFetch records one funder retrieval.
func (m *Metrics) ObserveFunderFetch(ok bool, d time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "failed"
	}
	m.FunderFetchLatency.WithLabelValues(outcome).Observe(d.Seconds())
}

// IncrementFunderFailure records a funder excluded from a run.
func (m *Metrics) IncrementFunderFailure(category string) {
	if m != nil {
		m.FunderFailures.WithLabelValues(category).Inc()
	}
}

// IncrementRun records an analysis request outcome.
func (m *Metrics) IncrementRun(outcome string) {
	if m != nil {
		m.AnalysisRuns.WithLabelValues(outcome).Inc()
	}
}

// ObserveAnalysis records a computed run.
func (m *Metrics) ObserveAnalysis(d time.Duration, bundled int) {
	if m == nil {
		return
	}
	m.AnalysisLatency.Observe(d.Seconds())
	m.BundledRecipients.Observe(float64(bundled))
}

// IncrementCacheLookup records a result cache lookup.
func (m *Metrics) IncrementCacheLookup(result string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(result).Inc()
	}
}

// ObserveGraph records the node count of a graph build.
func (m *Metrics) ObserveGraph(nodes int) {
	if m != nil {
		m.GraphNodes.Observe(float64(nodes))
	}
}

package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PromMetrics exports the cache counters to a Prometheus registry. The
// in-process Metrics snapshot stays the source for per-key data; these
// counters cover fleet-level dashboards and alerting.
type PromMetrics struct {
	hits             prometheus.Counter
	misses           prometheus.Counter
	invalidations    prometheus.Counter
	refreshes        prometheus.Counter
	refreshFailures  prometheus.Counter
	refreshesDropped prometheus.Counter
}

// NewPromMetrics registers the cache counters on reg. Passing
// prometheus.DefaultRegisterer wires the package-global registry.
func NewPromMetrics(reg prometheus.Registerer) *PromMetrics {
	auto := promauto.With(reg)

	return &PromMetrics{
		hits: auto.NewCounter(prometheus.CounterOpts{
			Name: "taskhive_cache_hits_total",
			Help: "Number of cache reads served from a live entry.",
		}),
		misses: auto.NewCounter(prometheus.CounterOpts{
			Name: "taskhive_cache_misses_total",
			Help: "Number of cache reads that required a factory call.",
		}),
		invalidations: auto.NewCounter(prometheus.CounterOpts{
			Name: "taskhive_cache_invalidations_total",
			Help: "Number of entries dropped by explicit invalidation.",
		}),
		refreshes: auto.NewCounter(prometheus.CounterOpts{
			Name: "taskhive_cache_refreshes_total",
			Help: "Number of background refreshes completed.",
		}),
		refreshFailures: auto.NewCounter(prometheus.CounterOpts{
			Name: "taskhive_cache_refresh_failures_total",
			Help: "Number of background refreshes that failed.",
		}),
		refreshesDropped: auto.NewCounter(prometheus.CounterOpts{
			Name: "taskhive_cache_refreshes_dropped_total",
			Help: "Number of refreshes dropped because the queue was full.",
		}),
	}
}

func (m *PromMetrics) recordHit() {
	if m != nil {
		m.hits.Inc()
	}
}

func (m *PromMetrics) recordMiss() {
	if m != nil {
		m.misses.Inc()
	}
}

func (m *PromMetrics) recordInvalidation(n int) {
	if m != nil {
		m.invalidations.Add(float64(n))
	}
}

func (m *PromMetrics) recordRefresh() {
	if m != nil {
		m.refreshes.Inc()
	}
}

func (m *PromMetrics) recordRefreshFailure() {
	if m != nil {
		m.refreshFailures.Inc()
	}
}

func (m *PromMetrics) recordRefreshDropped() {
	if m != nil {
		m.refreshesDropped.Inc()
	}
}

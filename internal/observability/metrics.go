package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "anyrite_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// EngagementMutations counts counter-bearing engagement mutations by type
	// and outcome. "noop" marks idempotent repeats (double like, unlike of a
	// never-liked article) that must not move a counter.
	EngagementMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "anyrite_engagement_mutations_total",
		Help: "Total number of engagement mutations by type and outcome",
	}, []string{"type", "outcome"})

	// CacheResults counts cache-aside lookups by result.
	CacheResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "anyrite_cache_results_total",
		Help: "Cache-aside lookups by result (hit/miss)",
	}, []string{"result"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

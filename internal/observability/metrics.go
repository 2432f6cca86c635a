package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "glimpse_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// FeedAssemblyDuration records end-to-end feed page assembly latency.
	FeedAssemblyDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "glimpse_feed_assembly_duration_seconds",
		Help:    "Feed page assembly latency in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// FeedPartialDegradations counts aggregation steps that degraded to
	// defaults instead of failing the page.
	FeedPartialDegradations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "glimpse_feed_partial_degradations_total",
		Help: "Total number of feed aggregation steps that degraded gracefully",
	}, []string{"step"})

	// ToggleOperations counts interaction toggles by relation, operation and outcome.
	ToggleOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "glimpse_toggle_operations_total",
		Help: "Total number of relation toggle operations",
	}, []string{"relation", "op", "outcome"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "glimpse_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// Package metrics declares the Prometheus collectors of the service. They
// register with the default registry and are served at /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "engagement_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// Derived counters
	Recomputes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engagement_recomputes_total",
			Help: "Total number of derived counter recomputations",
		},
		[]string{"target"}, // "content_reviews", "content_engagement", "review", "comment", "user"
	)

	RecomputeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engagement_recompute_errors_total",
			Help: "Total number of failed derived counter recomputations",
		},
		[]string{"target"},
	)

	UserCounterAdjustments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engagement_user_counter_adjustments_total",
			Help: "Total number of atomic user counter increments and decrements",
		},
		[]string{"counter", "direction"},
	)

	// Likes
	LikeToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engagement_like_toggles_total",
			Help: "Total number of like toggles",
		},
		[]string{"kind", "result"}, // result: "liked", "unliked"
	)

	// Feed
	FeedShortCircuits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engagement_feed_empty_follow_set_total",
			Help: "Feed requests answered without querying engagement collections",
		},
		[]string{"feed"},
	)

	// Search
	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "engagement_search_duration_seconds",
			Help:    "Duration of catalog search queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	SearchCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "engagement_search_cache_hits_total",
			Help: "Total number of search cache hits",
		},
	)

	SearchCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "engagement_search_cache_misses_total",
			Help: "Total number of search cache misses",
		},
	)
)

// RecordRequest records one HTTP request.
func RecordRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}

// RecordRecompute counts a recompute of target and its failure, if any.
func RecordRecompute(target string, err error) {
	Recomputes.WithLabelValues(target).Inc()
	if err != nil {
		RecomputeErrors.WithLabelValues(target).Inc()
	}
}

// RecordUserCounter counts an atomic user counter adjustment.
func RecordUserCounter(counter string, delta int64) {
	direction := "inc"
	if delta < 0 {
		direction = "dec"
	}
	UserCounterAdjustments.WithLabelValues(counter, direction).Inc()
}

// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every metric the service exports.
const Namespace = "nextup"

var (
	// CacheOperationsTotal tracks catalog cache operations.
	// Labels:
	//   - operation: get, set
	//   - status: hit, stale, miss, success, error
	//   - cache_type: redis, sqlite
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "cache_operations_total",
			Help:      "Total number of catalog cache operations",
		},
		[]string{"operation", "status", "cache_type"},
	)

	// UpstreamRequestsTotal tracks calls to the catalog API.
	// Labels:
	//   - endpoint: show, season, episode, search
	//   - status: success, not_found, error
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "upstream_requests_total",
			Help:      "Total number of catalog API requests",
		},
		[]string{"endpoint", "status"},
	)

	// RateLimitWaitSeconds observes how long callers waited for the upstream limiter.
	RateLimitWaitSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "ratelimit_wait_seconds",
			Help:      "Time spent waiting for the upstream rate limiter",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)

	// DBQueriesTotal tracks user store queries.
	// Labels:
	//   - query_type: select
	//   - table: users, followed_shows, user_stats
	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "db_queries_total",
			Help:      "Total number of database queries",
		},
		[]string{"query_type", "table"},
	)

	// SingleflightRequestsTotal tracks singleflight behavior.
	// Labels:
	//   - result: initiated (new execution), shared (reused result)
	SingleflightRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "singleflight_requests_total",
			Help:      "Total number of singleflight requests",
		},
		[]string{"result"},
	)

	// HTTPRequestsTotal tracks served pages.
	// Labels:
	//   - route: chi route pattern
	//   - status: HTTP status code
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"route", "status"},
	)

	// WarmTasksTotal tracks cache warm tasks.
	// Labels:
	//   - result: published, processed, failed, dropped
	WarmTasksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "warm_tasks_total",
			Help:      "Total number of cache warm tasks",
		},
		[]string{"result"},
	)
)

// Cache operation status constants.
const (
	CacheStatusHit     = "hit"
	CacheStatusStale   = "stale"
	CacheStatusMiss    = "miss"
	CacheStatusSuccess = "success"
	CacheStatusError   = "error"
)

// Cache operation type constants.
const (
	CacheOpGet = "get"
	CacheOpSet = "set"
)

// Cache type constants.
const (
	CacheTypeRedis  = "redis"
	CacheTypeSQLite = "sqlite"
)

// Upstream endpoint constants.
const (
	EndpointShow    = "show"
	EndpointSeason  = "season"
	EndpointEpisode = "episode"
	EndpointSearch  = "search"
)

// Upstream status constants.
const (
	UpstreamSuccess  = "success"
	UpstreamNotFound = "not_found"
	UpstreamError    = "error"
)

// DB query type constants.
const (
	DBQuerySelect = "select"
)

// Table name constants.
const (
	TableUsers         = "users"
	TableFollowedShows = "followed_shows"
	TableUserStats     = "user_stats"
)

// Singleflight result constants.
const (
	SingleflightInitiated = "initiated"
	SingleflightShared    = "shared"
)

// Warm task result constants.
const (
	WarmPublished = "published"
	WarmProcessed = "processed"
	WarmFailed    = "failed"
	WarmDropped   = "dropped"
)

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blogapi_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "blogapi_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	DatabaseOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blogapi_database_operations_total",
			Help: "Total number of database operations",
		},
		[]string{"operation", "collection", "outcome"},
	)

	DatabaseOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "blogapi_database_operation_duration_seconds",
			Help:    "Database operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "collection"},
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blogapi_events_published_total",
			Help: "Domain events handed to the message broker",
		},
		[]string{"subject", "outcome"},
	)

	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blogapi_cache_hits_total",
			Help: "Cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blogapi_cache_misses_total",
			Help: "Cache misses",
		},
	)
)

func RecordHttpRequest(method, route string, status int, duration time.Duration) {
	HttpRequestsTotal.WithLabelValues(method, route, statusClass(status)).Inc()
	HttpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordDatabaseOperation records one storage call; err decides the outcome label.
func RecordDatabaseOperation(operation, collection string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	DatabaseOperationsTotal.WithLabelValues(operation, collection, outcome).Inc()
	DatabaseOperationDuration.WithLabelValues(operation, collection).Observe(time.Since(start).Seconds())
}

func RecordEventPublished(subject string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	EventsPublished.WithLabelValues(subject, outcome).Inc()
}

func RecordCacheHit() {
	CacheHits.Inc()
}

func RecordCacheMiss() {
	CacheMisses.Inc()
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

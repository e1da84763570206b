// Package metrics holds the process-wide prometheus collectors.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Count of HTTP requests"},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latency of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"},
	)
	HTTPInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "http_requests_in_flight", Help: "Requests currently being served"},
	)

	RatingsSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "store_rating_ratings_submitted_total", Help: "Rating submissions by outcome"},
		[]string{"result"}, // created | updated
	)
	AggregateRecomputes = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "store_rating_aggregate_recomputes_total", Help: "Store aggregate recomputations"},
	)
	RoleBootstraps = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "store_rating_role_bootstraps_total", Help: "Roles assigned at first login"},
		[]string{"role"},
	)
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "store_rating_cache_lookups_total", Help: "Redis cache lookups by result"},
		[]string{"result"}, // hit | miss | error
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequests, HTTPLatency, HTTPInFlight,
		RatingsSubmitted, AggregateRecomputes, RoleBootstraps, CacheLookups,
	)
}

// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SuggestionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hypergigs_suggestion_duration_seconds",
			Help:    "Duration of member suggestion requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	CandidatesScored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hypergigs_candidates_scored_total",
			Help: "Total number of candidate profiles scored against a team",
		},
	)

	SuggestionsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hypergigs_suggestions_returned",
			Help:    "Number of suggestions returned per request",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
		},
	)

	SuggestionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hypergigs_suggestion_failures_total",
			Help: "Total number of failed member suggestion requests",
		},
		[]string{"kind"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hypergigs_http_requests_total",
			Help: "Total number of HTTP requests by route and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hypergigs_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hypergigs_cache_lookups_total",
			Help: "Cache lookups by key family and result",
		},
		[]string{"family", "result"},
	)
)

// ObserveSince records the seconds elapsed since start on h.
func ObserveSince(h prometheus.Observer, start time.Time) {
	h.Observe(time.Since(start).Seconds())
}

// Package metrics provides Prometheus metrics for the headlines pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fetch outcomes recorded by the gateway.
const (
	OutcomeSuccess   = "success"
	OutcomeTransport = "transport_error"
	OutcomeHTTP      = "http_error"
	OutcomeParse     = "parse_error"
	OutcomeAPIStatus = "api_status_error"
	OutcomeOther     = "other_error"
	OutcomeCancelled = "cancelled"
)

var (
	// HeadlinesFetchTotal counts top-headlines requests by country and outcome
	HeadlinesFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "headlines_fetch_total",
			Help: "Total number of top-headlines fetches",
		},
		[]string{"country", "outcome"},
	)

	// HeadlinesFetchDuration measures upstream round-trip time in seconds
	HeadlinesFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "headlines_fetch_duration_seconds",
			Help:    "Top-headlines fetch duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"country"},
	)

	// ArticlesFetchedTotal counts mapped articles per country
	ArticlesFetchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "headlines_articles_fetched_total",
			Help: "Total number of articles returned by successful fetches",
		},
		[]string{"country"},
	)

	// SelectionsPublishedTotal counts article selections forwarded to publishers
	SelectionsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "headlines_selections_published_total",
			Help: "Total number of article selection events by status",
		},
		[]string{"status"},
	)
)

// RecordFetch records one gateway fetch.
func RecordFetch(country, outcome string, duration time.Duration, articles int) {
	HeadlinesFetchTotal.WithLabelValues(country, outcome).Inc()
	HeadlinesFetchDuration.WithLabelValues(country).Observe(duration.Seconds())
	if outcome == OutcomeSuccess && articles > 0 {
		ArticlesFetchedTotal.WithLabelValues(country).Add(float64(articles))
	}
}

// RecordSelectionPublished records the result of fanning out one selection event.
func RecordSelectionPublished(success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	SelectionsPublishedTotal.WithLabelValues(status).Inc()
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// HTTPResponseSize measures HTTP response body size in bytes
	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// HTTPRequestsInFlight is the number of requests currently being served
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// RateLimitDecisionsTotal counts per-client rate limit decisions.
	RateLimitDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_rate_limit_decisions_total",
			Help: "Total number of rate limit decisions by result",
		},
		[]string{"result"},
	)
)

// Link validation metrics
var (
	// LinkValidationsTotal counts link checks by result and reason code.
	// result: valid, invalid, accepted_on_error
	LinkValidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "link_validations_total",
			Help: "Total number of article link validations",
		},
		[]string{"result", "reason"},
	)

	// LinkValidationDuration measures the time spent checking one link
	LinkValidationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "link_validation_duration_seconds",
			Help:    "Time taken to validate one article link",
			Buckets: []float64{0.05, 0.1, 0.2, 0.4, 0.8, 1.6, 3.2, 6.4, 12.8},
		},
	)
)

// Upstream search metrics
var (
	// UpstreamRequestsTotal counts upstream search calls by kind and result.
	// kind: category, latest, search. result: success, failure
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_search_requests_total",
			Help: "Total number of upstream news search requests",
		},
		[]string{"kind", "result"},
	)

	// UpstreamRequestDuration measures upstream search latency
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_search_duration_seconds",
			Help:    "Upstream news search request duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 16},
		},
		[]string{"kind"},
	)

	// UpstreamArticlesTotal counts mapped articles returned by the upstream
	UpstreamArticlesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_search_articles_total",
			Help: "Total number of articles mapped from upstream search responses",
		},
		[]string{"kind"},
	)
)

// Pipeline metrics
var (
	// PipelineRunsTotal counts orchestrator runs by entry point and outcome.
	PipelineRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_pipeline_runs_total",
			Help: "Total number of news pipeline runs",
		},
		[]string{"entry", "outcome"},
	)

	// PipelineDuration measures end-to-end pipeline latency by entry point.
	PipelineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "news_pipeline_duration_seconds",
			Help:    "News pipeline duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 4, 8, 16},
		},
		[]string{"entry"},
	)

	// FilterArticlesTotal counts batch filter decisions.
	// decision: kept, rejected
	FilterArticlesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_filter_articles_total",
			Help: "Total number of candidate articles kept or rejected by the batch filter",
		},
		[]string{"decision"},
	)

	// CacheLookupsTotal counts read-through cache lookups by kind and result.
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_cache_lookups_total",
			Help: "Total number of news result cache lookups",
		},
		[]string{"kind", "result"},
	)
)

// RecordHTTPRequest records an HTTP request with its metadata
func RecordHTTPRequest(method, path, status string, duration time.Duration, responseSize int) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())

	if responseSize > 0 {
		HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}

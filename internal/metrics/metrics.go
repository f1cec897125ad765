// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

// Package metrics exposes Prometheus instrumentation for Feedwise.
//
// Metric families:
//   - Source adapters: requests, absorbed errors by reason, latency
//   - Circuit breakers: state, requests, consecutive failures, transitions
//   - Result cache: hits, misses, entries
//   - Aggregation: fan-out duration, items produced, failed tasks, stale completions
//   - Preference store: persist errors, migrations, repairs
//   - HTTP API: requests, latency, in-flight requests, rate limit hits
//
// All collectors are registered on the default registry via promauto and
// served by promhttp at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Source Adapter Metrics
	SourceRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedwise_source_requests_total",
			Help: "Total number of upstream requests issued by source adapters",
		},
		[]string{"provider", "operation"},
	)

	SourceErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedwise_source_errors_total",
			Help: "Total number of upstream failures absorbed by source adapters",
		},
		[]string{"provider", "operation", "reason"}, // reason: rate_limited, forbidden, circuit_open, canceled, unknown
	)

	SourceDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feedwise_source_request_duration_seconds",
			Help:    "Duration of upstream requests in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "operation"},
	)

	SourceItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedwise_source_items_total",
			Help: "Total number of normalized items returned by source adapters",
		},
		[]string{"provider", "operation"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Result Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedwise_cache_hits_total",
			Help: "Total number of source result cache hits",
		},
		[]string{"provider"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedwise_cache_misses_total",
			Help: "Total number of source result cache misses",
		},
		[]string{"provider"},
	)

	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "feedwise_cache_entries",
			Help: "Current number of cached source results",
		},
	)

	// Aggregation Metrics
	AggregationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feedwise_aggregation_duration_seconds",
			Help:    "Duration of aggregator fan-outs in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation"}, // personalized, trending, load_more, search
	)

	AggregationItems = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feedwise_aggregation_items",
			Help:    "Number of items produced per aggregation",
			Buckets: []float64{0, 5, 10, 20, 40, 80, 160},
		},
		[]string{"operation"},
	)

	AggregationTaskFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedwise_aggregation_task_failures_total",
			Help: "Total number of fan-out tasks that settled with an error or panic",
		},
		[]string{"operation"},
	)

	AggregationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedwise_aggregation_failures_total",
			Help: "Total number of orchestration-level aggregation failures",
		},
		[]string{"operation"},
	)

	StaleCompletions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedwise_stale_completions_total",
			Help: "Total number of superseded request completions discarded by sessions",
		},
		[]string{"session"}, // feed, trending, search
	)

	// Preference Store Metrics
	PreferencePersistErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedwise_preference_persist_errors_total",
			Help: "Total number of failed preference writes",
		},
		[]string{"backend"},
	)

	PreferenceMigrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedwise_preference_migrations_total",
			Help: "Total number of preference blobs upgraded or repaired on load",
		},
		[]string{"kind"}, // v1, v2, repair, corrupt
	)

	PreferenceMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedwise_preference_mutations_total",
			Help: "Total number of preference mutations",
		},
		[]string{"operation"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of requests rejected by the API rate limiter",
		},
		[]string{"endpoint"},
	)
)

// RecordSourceRequest records one upstream call and its outcome.
// reason is empty on success.
func RecordSourceRequest(provider, operation string, duration time.Duration, items int, reason string) {
	SourceRequests.WithLabelValues(provider, operation).Inc()
	SourceDuration.WithLabelValues(provider, operation).Observe(duration.Seconds())
	if reason != "" {
		SourceErrors.WithLabelValues(provider, operation, reason).Inc()
		return
	}
	SourceItems.WithLabelValues(provider, operation).Add(float64(items))
}

// RecordAggregation records a completed fan-out.
func RecordAggregation(operation string, duration time.Duration, items, failedTasks int) {
	AggregationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	AggregationItems.WithLabelValues(operation).Observe(float64(items))
	if failedTasks > 0 {
		AggregationTaskFailures.WithLabelValues(operation).Add(float64(failedTasks))
	}
}

// RecordCacheLookup records a result cache hit or miss.
func RecordCacheLookup(provider string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(provider).Inc()
		return
	}
	CacheMisses.WithLabelValues(provider).Inc()
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
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
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
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
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Recommendation Tier Metrics
	RecommendTierRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_tier_requests_total",
			Help: "Recommendation tier attempts by outcome",
		},
		[]string{"tier", "result"}, // result: "served", "empty", "error"
	)

	RecommendTierDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_tier_duration_seconds",
			Help:    "Duration of a single recommendation tier attempt",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"tier"},
	)

	// Training Metrics
	TrainingRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_training_runs_total",
			Help: "Training runs by outcome",
		},
		[]string{"outcome"}, // success, insufficient_data, in_progress, failure
	)

	TrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_training_duration_seconds",
			Help:    "Duration of training runs that reached the builder",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 10), // 10ms .. ~43m
		},
	)

	TrainingActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_training_active",
			Help: "1 while a training run is executing",
		},
	)

	TrainingLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_training_last_success_timestamp",
			Help: "Unix timestamp of the last successful training run",
		},
	)

	// Snapshot Metrics
	SnapshotVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_snapshot_version",
			Help: "Version of the active similarity snapshot",
		},
	)

	SnapshotItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_snapshot_items",
			Help: "Number of items in the active similarity snapshot",
		},
	)

	// Retrain Trigger Metrics
	RetrainTriggers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_retrain_triggers_total",
			Help: "Retrain requests by source and result",
		},
		[]string{"source", "result"}, // source: "http", "nats", "schedule", "startup"
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache"},
	)

	CacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache"},
	)

	// Model event metrics (NATS fan-out between replicas)
	ModelEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_model_events_total",
			Help: "Model-activated events by direction and result",
		},
		[]string{"direction", "result"}, // direction: "published", "received"
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
)

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

// RecordRateLimitHit counts a request rejected by the HTTP rate limiter.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordRetrainTrigger counts a retrain request from source.
func RecordRetrainTrigger(source, result string) {
	RetrainTriggers.WithLabelValues(source, result).Inc()
}

// RecordModelEvent counts a published or received model event.
func RecordModelEvent(direction, result string) {
	ModelEvents.WithLabelValues(direction, result).Inc()
}

// RecordCacheLookup counts a cache hit or miss.
func RecordCacheLookup(cache string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cache).Inc()
		return
	}
	CacheMisses.WithLabelValues(cache).Inc()
}

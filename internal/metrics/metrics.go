// Microservices AI Platform - Intelligent Data Processing and Predictions
// Copyright 2026 Shibam (shibam-max)
// SPDX-License-Identifier: MIT
// https://github.com/shibam-max/microservices-ai-platform

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
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "prediction", "recommendation"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheWriteErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_write_errors_total",
			Help: "Total number of failed cache writes (value still served)",
		},
		[]string{"cache_type"},
	)

	CacheReadErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_read_errors_total",
			Help: "Total number of cache read errors degraded to misses",
		},
		[]string{"cache_type"},
	)

	// Store (Redis) Metrics
	StoreOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_operation_duration_seconds",
			Help:    "Duration of cache store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // "get", "set", "incr", "keys", "ping"
	)

	StoreOpErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_operation_errors_total",
			Help: "Total number of failed cache store operations",
		},
		[]string{"operation"},
	)

	// Model Computation Metrics
	ModelComputeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "model_compute_duration_seconds",
			Help:    "Duration of model computations (cache misses only)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"model"},
	)

	ModelComputeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_compute_errors_total",
			Help: "Total number of failed model computations",
		},
		[]string{"model"},
	)

	// Event Emitter Metrics
	EventQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "event_queue_depth",
			Help: "Current number of events waiting in the emitter queue",
		},
	)

	EventsQueued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_queued_total",
			Help: "Total number of events accepted into the emitter queue",
		},
		[]string{"event_type"},
	)

	EventsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_dropped_total",
			Help: "Total number of events rejected because the queue was full",
		},
		[]string{"event_type"},
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of events delivered to Kafka",
		},
		[]string{"topic"},
	)

	EventPublishErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_publish_errors_total",
			Help: "Total number of failed Kafka publishes",
		},
		[]string{"topic"},
	)

	EventPublishDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "event_publish_duration_seconds",
			Help:    "Duration of Kafka publish operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"topic"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Application Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordAPIRequest records metrics for a completed API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the active request gauge.
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordCacheHit records a cache hit for the given cache type.
func RecordCacheHit(cacheType string) {
	CacheHits.WithLabelValues(cacheType).Inc()
}

// RecordCacheMiss records a cache miss for the given cache type.
func RecordCacheMiss(cacheType string) {
	CacheMisses.WithLabelValues(cacheType).Inc()
}

// RecordStoreOp records a cache store operation with its duration and outcome.
func RecordStoreOp(operation string, duration time.Duration, err error) {
	StoreOpDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		StoreOpErrors.WithLabelValues(operation).Inc()
	}
}

// RecordModelCompute records a model computation with its duration and outcome.
func RecordModelCompute(model string, duration time.Duration, err error) {
	if err != nil {
		ModelComputeErrors.WithLabelValues(model).Inc()
		return
	}
	ModelComputeDuration.WithLabelValues(model).Observe(duration.Seconds())
}

// RecordEventQueued records an event accepted into the emitter queue.
func RecordEventQueued(eventType string) {
	EventsQueued.WithLabelValues(eventType).Inc()
}

// RecordEventDropped records an event rejected due to a full queue.
func RecordEventDropped(eventType string) {
	EventsDropped.WithLabelValues(eventType).Inc()
}

// RecordEventPublish records a Kafka publish attempt with its outcome.
func RecordEventPublish(topic string, duration time.Duration, err error) {
	EventPublishDuration.WithLabelValues(topic).Observe(duration.Seconds())
	if err != nil {
		EventPublishErrors.WithLabelValues(topic).Inc()
		return
	}
	EventsPublished.WithLabelValues(topic).Inc()
}

// UpdateEventQueueDepth updates the emitter queue depth gauge.
func UpdateEventQueueDepth(depth int) {
	EventQueueDepth.Set(float64(depth))
}

// RecordCircuitBreakerTransition records a circuit breaker state change.
// State encoding: 0=closed, 1=half-open, 2=open.
func RecordCircuitBreakerTransition(name, from, to string) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()

	var state float64
	switch to {
	case "half-open":
		state = 1
	case "open":
		state = 2
	}
	CircuitBreakerState.WithLabelValues(name).Set(state)
}

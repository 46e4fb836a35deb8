// Microservices AI Platform - Intelligent Data Processing and Predictions
// Copyright 2026 Shibam (shibam-max)
// SPDX-License-Identifier: MIT
// https://github.com/shibam-max/microservices-ai-platform

package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestRecordAPIRequest tests API request metric recording
func TestRecordAPIRequest(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		endpoint   string
		statusCode string
		duration   time.Duration
	}{
		{
			name:       "successful prediction",
			method:     "POST",
			endpoint:   "/api/v1/ml/predict",
			statusCode: "200",
			duration:   25 * time.Millisecond,
		},
		{
			name:       "validation failure",
			method:     "POST",
			endpoint:   "/api/v1/ml/predict",
			statusCode: "400",
			duration:   2 * time.Millisecond,
		},
		{
			name:       "unknown model",
			method:     "GET",
			endpoint:   "/api/v1/ml/models/bogus/info",
			statusCode: "404",
			duration:   1 * time.Millisecond,
		},
		{
			name:       "rate limited request",
			method:     "POST",
			endpoint:   "/api/v1/ml/recommend",
			statusCode: "429",
			duration:   1 * time.Millisecond,
		},
		{
			name:       "internal error",
			method:     "POST",
			endpoint:   "/api/v1/analytics/events/track",
			statusCode: "500",
			duration:   500 * time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Record the request - should not panic
			RecordAPIRequest(tt.method, tt.endpoint, tt.statusCode, tt.duration)
		})
	}
}

// TestTrackActiveRequest_RequestLifecycle simulates realistic request lifecycle
func TestTrackActiveRequest_RequestLifecycle(t *testing.T) {
	for i := 0; i < 10; i++ {
		TrackActiveRequest(true) // Request starts
	}
	for i := 0; i < 5; i++ {
		TrackActiveRequest(false) // Request ends
	}
	for i := 0; i < 3; i++ {
		TrackActiveRequest(true)
	}
	for i := 0; i < 8; i++ {
		TrackActiveRequest(false)
	}
}

// TestCacheMetrics tests cache hit/miss/error recording
func TestCacheMetrics(t *testing.T) {
	cacheTypes := []string{"prediction", "recommendation"}

	for _, cacheType := range cacheTypes {
		RecordCacheHit(cacheType)
		RecordCacheHit(cacheType)
		RecordCacheMiss(cacheType)
		CacheReadErrors.WithLabelValues(cacheType).Inc()
		CacheWriteErrors.WithLabelValues(cacheType).Inc()
	}
}

// TestRecordStoreOp tests store operation metric recording
func TestRecordStoreOp(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		duration  time.Duration
		err       error
	}{
		{"fast get", "get", 500 * time.Microsecond, nil},
		{"slow set", "set", 100 * time.Millisecond, nil},
		{"failed increment", "incr", 3 * time.Second, errors.New("context deadline exceeded")},
		{"keys scan", "keys", 10 * time.Millisecond, nil},
		{"failed ping", "ping", time.Second, errors.New("connection refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordStoreOp(tt.operation, tt.duration, tt.err)
		})
	}
}

// TestRecordModelCompute tests model computation metric recording
func TestRecordModelCompute(t *testing.T) {
	RecordModelCompute("classification_model", 5*time.Millisecond, nil)
	RecordModelCompute("regression_model", 10*time.Millisecond, nil)
	RecordModelCompute("sentiment_analyzer", time.Millisecond, nil)
	RecordModelCompute("classification_model", time.Millisecond, errors.New("model not found"))
}

// TestEventMetrics tests emitter queue and publish metric recording
func TestEventMetrics(t *testing.T) {
	RecordEventQueued("recommendation_served")
	RecordEventQueued("prediction_completed")
	RecordEventDropped("recommendation_served")

	RecordEventPublish("analytics-events", 5*time.Millisecond, nil)
	RecordEventPublish("ml-events", 10*time.Millisecond, nil)
	RecordEventPublish("analytics-events", time.Second, errors.New("broker unreachable"))

	depths := []int{0, 10, 1024, 0}
	for _, d := range depths {
		UpdateEventQueueDepth(d)
	}
}

// TestRecordCircuitBreakerTransition tests state gauge encoding
func TestRecordCircuitBreakerTransition(t *testing.T) {
	RecordCircuitBreakerTransition("redis", "closed", "open")
	if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues("redis")); got != 2 {
		t.Errorf("expected open state 2, got %v", got)
	}

	RecordCircuitBreakerTransition("redis", "open", "half-open")
	if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues("redis")); got != 1 {
		t.Errorf("expected half-open state 1, got %v", got)
	}

	RecordCircuitBreakerTransition("redis", "half-open", "closed")
	if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues("redis")); got != 0 {
		t.Errorf("expected closed state 0, got %v", got)
	}
}

// TestConcurrentMetricRecording tests thread safety of metric recording
func TestConcurrentMetricRecording(t *testing.T) {
	var wg sync.WaitGroup
	numGoroutines := 100
	operationsPerGoroutine := 50

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < operationsPerGoroutine; j++ {
				RecordAPIRequest("POST", "/api/v1/ml/predict", "200", time.Duration(j)*time.Millisecond)
				RecordCacheHit("prediction")
				RecordStoreOp("get", time.Millisecond, nil)
			}
		}()
	}

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < operationsPerGoroutine; j++ {
				TrackActiveRequest(true)
				TrackActiveRequest(false)
				RecordEventQueued("prediction_completed")
			}
		}()
	}

	wg.Wait()
}

// TestMetricsRegistration verifies all metrics are properly registered
func TestMetricsRegistration(t *testing.T) {
	metrics := []prometheus.Collector{
		APIRequestsTotal,
		APIRequestDuration,
		APIActiveRequests,
		APIRateLimitHits,
		CacheHits,
		CacheMisses,
		CacheWriteErrors,
		CacheReadErrors,
		StoreOpDuration,
		StoreOpErrors,
		ModelComputeDuration,
		ModelComputeErrors,
		EventQueueDepth,
		EventsQueued,
		EventsDropped,
		EventsPublished,
		EventPublishErrors,
		EventPublishDuration,
		CircuitBreakerState,
		CircuitBreakerTransitions,
		AppInfo,
		AppUptime,
	}

	for _, m := range metrics {
		ch := make(chan *prometheus.Desc, 10)
		m.Describe(ch)
		close(ch)

		count := 0
		for range ch {
			count++
		}
		if count == 0 {
			t.Errorf("Metric has no descriptors")
		}
	}
}

func BenchmarkRecordAPIRequest(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordAPIRequest("POST", "/api/v1/ml/predict", "200", 25*time.Millisecond)
	}
}

func BenchmarkRecordStoreOp(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordStoreOp("get", time.Millisecond, nil)
	}
}

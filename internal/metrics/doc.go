// Microservices AI Platform - Intelligent Data Processing and Predictions
// Copyright 2026 Shibam (shibam-max)
// SPDX-License-Identifier: MIT
// https://github.com/shibam-max/microservices-ai-platform

/*
Package metrics provides Prometheus metrics collection and export for observability.

This package instruments the service using the Prometheus client library, exposing
metrics for monitoring performance, errors, and system health.

# Overview

The package provides metrics for:
  - HTTP request latency and throughput
  - Cache hit/miss rates and degraded operations
  - Cache store (Redis) operation latency and errors
  - Model computation latency
  - Event emitter queue depth, drops, and Kafka publish outcomes
  - Circuit breaker state transitions

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8083/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: Active requests (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)
    Labels: endpoint

Cache Metrics:
  - cache_hits_total / cache_misses_total: Cache effectiveness (counters)
    Labels: cache_type (prediction, recommendation)
  - cache_read_errors_total: Read errors degraded to misses (counter)
  - cache_write_errors_total: Failed writes where the value was still served (counter)

Store Metrics:
  - store_operation_duration_seconds: Store operation latency (histogram)
    Labels: operation (get, set, incr, keys, ping)
  - store_operation_errors_total: Failed store operations (counter)

Model Metrics:
  - model_compute_duration_seconds: Computation latency on cache misses (histogram)
    Labels: model
  - model_compute_errors_total: Failed computations (counter)

Event Metrics:
  - event_queue_depth: Events waiting in the emitter queue (gauge)
  - events_queued_total / events_dropped_total: Queue admission outcomes (counters)
    Labels: event_type
  - events_published_total / event_publish_errors_total: Kafka delivery (counters)
    Labels: topic
  - event_publish_duration_seconds: Kafka publish latency (histogram)

Circuit Breaker Metrics:
  - circuit_breaker_state: Current state (gauge, 0=closed, 1=half-open, 2=open)
    Labels: name
  - circuit_breaker_transitions_total: State transitions (counter)
    Labels: name, from, to

# Usage

Metrics are recorded through package-level helpers so call sites stay terse:

	start := time.Now()
	result, err := store.Get(ctx, key)
	metrics.RecordStoreOp("get", time.Since(start), err)

All metrics are registered with the default Prometheus registry via promauto
at package initialization.
*/
package metrics

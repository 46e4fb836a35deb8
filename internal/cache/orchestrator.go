// Microservices AI Platform - Intelligent Data Processing and Predictions
// Copyright 2026 Shibam (shibam-max)
// SPDX-License-Identifier: MIT
// https://github.com/shibam-max/microservices-ai-platform

package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shibam-max/microservices-ai-platform/internal/logging"
	"github.com/shibam-max/microservices-ai-platform/internal/metrics"
)

// writeTimeout bounds the detached cache write after a computation finishes.
const writeTimeout = 5 * time.Second

// ComputeFunc produces the value for a cache miss. It must be safe to run
// even after the originating request is gone; the orchestrator hands it a
// context detached from caller cancellation.
type ComputeFunc func(ctx context.Context) ([]byte, error)

// Orchestrator implements the cache-aside read/compute/write cycle.
//
// Policy:
//   - Read errors degrade to a miss; the caller still gets a fresh value.
//   - Failed computations are never cached.
//   - Write errors are logged and the computed value is still returned.
//   - Concurrent misses on the same key each compute; last write wins. The
//     computations are deterministic for identical inputs, so duplicated
//     work is bounded waste, not an inconsistency.
//   - A cancelled caller never receives a result produced after
//     cancellation; the in-flight computation finishes in the background
//     and its result is cached for the next caller.
type Orchestrator struct {
	store Store
}

// NewOrchestrator creates an orchestrator over the given store.
func NewOrchestrator(store Store) *Orchestrator {
	return &Orchestrator{store: store}
}

type computeResult struct {
	data []byte
	err  error
}

// GetOrCompute returns the cached value for key, or runs compute and caches
// the result for ttl. The bool reports whether the value came from cache.
func (o *Orchestrator) GetOrCompute(ctx context.Context, key string, ttl time.Duration, compute ComputeFunc) ([]byte, bool, error) {
	cacheType := keyCacheType(key)

	value, found, err := o.store.Get(ctx, key)
	if err != nil {
		// Degraded read path: treat as a miss and recompute.
		logging.Warn().Err(err).Str("key", key).Msg("Cache read failed, degrading to miss")
		metrics.CacheReadErrors.WithLabelValues(cacheType).Inc()
	} else if found {
		metrics.RecordCacheHit(cacheType)
		return []byte(value), true, nil
	}
	metrics.RecordCacheMiss(cacheType)

	// Compute in its own goroutine. The buffered channel lets the goroutine
	// finish and cache its result even when the caller has gone away.
	resCh := make(chan computeResult, 1)
	go func() {
		data, err := compute(context.WithoutCancel(ctx))
		if err == nil {
			o.writeBack(key, cacheType, data, ttl)
		}
		resCh <- computeResult{data: data, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-resCh:
		if res.err != nil {
			return nil, false, fmt.Errorf("compute %s: %w", key, res.err)
		}
		return res.data, false, nil
	}
}

// writeBack stores a freshly computed value. Failures are logged and
// counted, never surfaced: the caller already has the value.
func (o *Orchestrator) writeBack(key, cacheType string, data []byte, ttl time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := o.store.Set(ctx, key, string(data), ttl); err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("Cache write failed, serving uncached value")
		metrics.CacheWriteErrors.WithLabelValues(cacheType).Inc()
	}
}

// keyCacheType extracts the metrics label from a cache key prefix,
// e.g. "prediction:model:abc" -> "prediction".
func keyCacheType(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return "other"
}

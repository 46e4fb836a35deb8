// Microservices AI Platform - Intelligent Data Processing and Predictions
// Copyright 2026 Shibam (shibam-max)
// SPDX-License-Identifier: MIT
// https://github.com/shibam-max/microservices-ai-platform

// Package cache implements the cache-aside pipeline: deterministic request
// fingerprinting, a pluggable TTL key-value store, and the orchestrator that
// ties reads, computation, and writes together.
//
// Two Store implementations exist: RedisStore (shared, production) and
// MemoryStore (in-process, development and tests). Both honor the same
// contract; the orchestrator and accountant never know which one they talk to.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable marks store errors caused by an unreachable or failing
// backend. Callers classify on this to decide between degrading and failing.
var ErrUnavailable = errors.New("cache store unavailable")

// Store is the TTL key-value contract backing the cache-aside pipeline and
// the usage counters.
//
// Semantics:
//   - Get on an absent or expired key returns ("", false, nil) — absence is
//     not an error.
//   - Set overwrites unconditionally and resets the TTL.
//   - Increment initializes missing keys at zero and returns the new value.
//     Counter keys do not expire.
//   - KeysWithPrefix returns the live (unexpired) keys matching the prefix.
//
// All operations carry bounded timeouts internally; a hung backend surfaces
// as an error rather than a stalled request.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Increment(ctx context.Context, key string, delta int64) (int64, error)
	KeysWithPrefix(ctx context.Context, prefix string) ([]string, error)
	Ping(ctx context.Context) error
	Close() error
}

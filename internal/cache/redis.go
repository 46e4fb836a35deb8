// Microservices AI Platform - Intelligent Data Processing and Predictions
// Copyright 2026 Shibam (shibam-max)
// SPDX-License-Identifier: MIT
// https://github.com/shibam-max/microservices-ai-platform

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/shibam-max/microservices-ai-platform/internal/config"
	"github.com/shibam-max/microservices-ai-platform/internal/logging"
	"github.com/shibam-max/microservices-ai-platform/internal/metrics"
)

// RedisStore implements Store on a shared Redis instance. Every operation
// runs through a circuit breaker and carries a per-operation timeout, so a
// slow or dead Redis degrades the pipeline instead of stalling it.
//
// The client dials lazily; construction never blocks on the network. Use
// Ping for an explicit connectivity probe.
type RedisStore struct {
	client    *redis.Client
	cb        *gobreaker.CircuitBreaker[any]
	opTimeout time.Duration
}

// NewRedisStore creates a Redis-backed store from configuration.
//
// Circuit breaker configuration:
// - Max 3 concurrent requests in half-open state
// - 1 minute measurement window
// - 30 second timeout before attempting recovery
// - Opens after 60% failure rate with minimum 10 requests
func NewRedisStore(cfg config.RedisConfig) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})

	cbName := "redis"
	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.6
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)
			logging.Warn().Str("from", fromStr).Str("to", toStr).Msg("Redis circuit breaker state transition")
			metrics.RecordCircuitBreakerTransition(name, fromStr, toStr)
		},
	})

	opTimeout := cfg.OpTimeout
	if opTimeout <= 0 {
		opTimeout = 3 * time.Second
	}

	return &RedisStore{
		client:    client,
		cb:        cb,
		opTimeout: opTimeout,
	}
}

// stateToString converts circuit breaker state to string for logging.
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// execute wraps a Redis call with the circuit breaker, a bounded timeout,
// and store metrics. Backend failures come back wrapped in ErrUnavailable.
func (s *RedisStore) execute(ctx context.Context, op string, fn func(ctx context.Context) (any, error)) (any, error) {
	opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	start := time.Now()
	result, err := s.cb.Execute(func() (any, error) {
		return fn(opCtx)
	})
	metrics.RecordStoreOp(op, time.Since(start), err)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: circuit breaker: %v", ErrUnavailable, err)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
	}
	return result, nil
}

// Get retrieves a value. Absent keys return ("", false, nil).
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	result, err := s.execute(ctx, "get", func(ctx context.Context) (any, error) {
		val, err := s.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return val, nil
	})
	if err != nil {
		return "", false, err
	}
	if result == nil {
		return "", false, nil
	}
	return result.(string), true, nil
}

// Set stores a value with the given TTL. A zero TTL means no expiry.
func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	_, err := s.execute(ctx, "set", func(ctx context.Context) (any, error) {
		return nil, s.client.Set(ctx, key, value, ttl).Err()
	})
	return err
}

// Increment atomically adds delta to a counter key, initializing missing
// keys at zero. Counter keys never expire.
func (s *RedisStore) Increment(ctx context.Context, key string, delta int64) (int64, error) {
	result, err := s.execute(ctx, "incr", func(ctx context.Context) (any, error) {
		return s.client.IncrBy(ctx, key, delta).Result()
	})
	if err != nil {
		return 0, err
	}
	return result.(int64), nil
}

// KeysWithPrefix scans for keys matching prefix. Uses SCAN, never KEYS, so
// large keyspaces do not block the server.
func (s *RedisStore) KeysWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	result, err := s.execute(ctx, "keys", func(ctx context.Context) (any, error) {
		var keys []string
		iter := s.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return nil, err
		}
		return keys, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]string), nil
}

// Ping verifies connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	_, err := s.execute(ctx, "ping", func(ctx context.Context) (any, error) {
		return nil, s.client.Ping(ctx).Err()
	})
	return err
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

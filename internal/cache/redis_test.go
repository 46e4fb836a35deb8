// Microservices AI Platform - Intelligent Data Processing and Predictions
// Copyright 2026 Shibam (shibam-max)
// SPDX-License-Identifier: MIT
// https://github.com/shibam-max/microservices-ai-platform

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/shibam-max/microservices-ai-platform/internal/config"
)

// No server needed: the breaker behavior is about the backend being gone.
// Round-trip coverage against a real Redis lives in the integration suite.
func TestRedisStoreBreakerOpensWhenUnreachable(t *testing.T) {
	store := NewRedisStore(config.RedisConfig{
		Addr:        "127.0.0.1:1",
		OpTimeout:   200 * time.Millisecond,
		DialTimeout: 100 * time.Millisecond,
	})
	defer store.Close()

	ctx := context.Background()

	// Every call must classify as unavailable, and enough consecutive
	// failures trip the breaker.
	for i := 0; i < 12; i++ {
		if err := store.Ping(ctx); !errors.Is(err, ErrUnavailable) {
			t.Fatalf("Ping %d: err = %v, want ErrUnavailable", i, err)
		}
	}
	if state := store.cb.State(); state != gobreaker.StateOpen {
		t.Fatalf("breaker state = %v, want open after repeated failures", state)
	}

	// Open breaker fails fast without touching the network.
	start := time.Now()
	err := store.Set(ctx, "k", "v", time.Minute)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Set with open breaker: err = %v, want ErrUnavailable", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("open-breaker call took %v, want fast failure", elapsed)
	}
}

func TestRedisStoreGetMissesWhenUnreachableBreakerClosed(t *testing.T) {
	store := NewRedisStore(config.RedisConfig{
		Addr:        "127.0.0.1:1",
		OpTimeout:   200 * time.Millisecond,
		DialTimeout: 100 * time.Millisecond,
	})
	defer store.Close()

	// With the breaker still closed, a dead backend surfaces as a wrapped
	// store error, never as a silent hit.
	value, found, err := store.Get(context.Background(), "k")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Get: err = %v, want ErrUnavailable", err)
	}
	if found || value != "" {
		t.Errorf("Get = (%q, %v), want empty miss on error", value, found)
	}

	if _, err := store.Increment(context.Background(), "counter", 1); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Increment: err = %v, want ErrUnavailable", err)
	}
	if _, err := store.KeysWithPrefix(context.Background(), "api_usage:"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("KeysWithPrefix: err = %v, want ErrUnavailable", err)
	}
}

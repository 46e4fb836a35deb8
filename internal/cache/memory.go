// Microservices AI Platform - Intelligent Data Processing and Predictions
// Copyright 2026 Shibam (shibam-max)
// SPDX-License-Identifier: MIT
// https://github.com/shibam-max/microservices-ai-platform

package cache

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// memEntry is a stored value with its expiry. A zero ExpiresAt means the
// entry never expires (counter keys).
type memEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore implements Store with an in-process TTL map. It backs
// CACHE_BACKEND=memory for development and gives tests a Store with an
// injectable clock.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memEntry
	now     func() time.Time
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memEntry),
		now:     time.Now,
	}
}

// SetClock replaces the store's time source. Tests use this to advance time
// past TTLs without sleeping.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Get retrieves a value, deleting it if expired. Absent and expired keys
// return ("", false, nil).
func (s *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	s.mu.RLock()
	entry, exists := s.entries[key]
	now := s.now()
	s.mu.RUnlock()

	if !exists {
		return "", false, nil
	}
	if !entry.expiresAt.IsZero() && now.After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return "", false, nil
	}
	return entry.value, true, nil
}

// Set stores a value with the given TTL, overwriting any existing entry.
// A zero TTL means no expiry.
func (s *MemoryStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = s.now().Add(ttl)
	}
	s.entries[key] = memEntry{value: value, expiresAt: expiresAt}
	return nil
}

// Increment adds delta to a counter key, initializing missing keys at zero.
// Counter keys never expire.
func (s *MemoryStore) Increment(ctx context.Context, key string, delta int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var current int64
	if entry, exists := s.entries[key]; exists {
		parsed, err := strconv.ParseInt(entry.value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("key %s holds non-numeric value", key)
		}
		current = parsed
	}

	current += delta
	s.entries[key] = memEntry{value: strconv.FormatInt(current, 10)}
	return current, nil
}

// KeysWithPrefix returns the live keys matching prefix.
func (s *MemoryStore) KeysWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	var keys []string
	for key, entry := range s.entries {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if !entry.expiresAt.IsZero() && now.After(entry.expiresAt) {
			continue
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// Ping always succeeds for the in-process store.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op for the in-process store.
func (s *MemoryStore) Close() error {
	return nil
}

// Len reports the number of entries, expired ones included. Test helper.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

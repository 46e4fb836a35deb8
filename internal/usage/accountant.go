// Microservices AI Platform - Intelligent Data Processing and Predictions
// Copyright 2026 Shibam (shibam-max)
// SPDX-License-Identifier: MIT
// https://github.com/shibam-max/microservices-ai-platform

// Package usage maintains the Redis-backed usage counters consumed by the
// analytics endpoints. Counter writes are best effort: a failing store is
// logged and swallowed so accounting never blocks or fails a request.
package usage

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shibam-max/microservices-ai-platform/internal/cache"
	"github.com/shibam-max/microservices-ai-platform/internal/logging"
)

// Counter key prefixes. Dates in daily counters are UTC calendar days
// (2006-01-02); a request near midnight lands on the UTC day, regardless of
// server timezone.
const (
	apiUsagePrefix   = "api_usage:"
	userUsagePrefix  = "user_usage:"
	dailyUsagePrefix = "daily_usage:"
	eventCountPrefix = "event_count:"

	dateLayout = "2006-01-02"
)

// EndpointCount is one endpoint's aggregate counter value.
type EndpointCount struct {
	Endpoint string
	Count    int64
}

// Accountant increments and reads the usage counter families.
type Accountant struct {
	store cache.Store
	now   func() time.Time
}

// NewAccountant creates an accountant over the given store.
func NewAccountant(store cache.Store) *Accountant {
	return &Accountant{store: store, now: time.Now}
}

// SetClock replaces the accountant's time source. Test helper.
func (a *Accountant) SetClock(now func() time.Time) {
	a.now = now
}

// Record increments the usage counters for one request: the global endpoint
// counter, the per-user counter when userID is non-empty, and the UTC daily
// counter. Store failures are logged and swallowed.
func (a *Accountant) Record(ctx context.Context, endpoint, userID string) {
	a.increment(ctx, apiUsagePrefix+endpoint)

	if userID != "" {
		a.increment(ctx, userUsagePrefix+userID+":"+endpoint)
	}

	date := a.now().UTC().Format(dateLayout)
	a.increment(ctx, dailyUsagePrefix+date+":"+endpoint)
}

// CountEvent increments the counter for a tracked event type.
func (a *Accountant) CountEvent(ctx context.Context, eventType string) {
	a.increment(ctx, eventCountPrefix+eventType)
}

// increment is the shared best-effort counter bump.
func (a *Accountant) increment(ctx context.Context, key string) {
	if _, err := a.store.Increment(ctx, key, 1); err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("Usage counter increment failed")
	}
}

// Stats returns the per-endpoint global counters, sorted descending by
// count. A store failure is returned to the caller; the usage endpoint
// reports it as a 500.
func (a *Accountant) Stats(ctx context.Context) ([]EndpointCount, error) {
	return a.countersWithPrefix(ctx, apiUsagePrefix)
}

// UserStats returns the per-endpoint counters for one user, sorted
// descending by count.
func (a *Accountant) UserStats(ctx context.Context, userID string) ([]EndpointCount, error) {
	return a.countersWithPrefix(ctx, userUsagePrefix+userID+":")
}

// DailyStats returns the per-endpoint counters for one UTC calendar day,
// sorted descending by count.
func (a *Accountant) DailyStats(ctx context.Context, day time.Time) ([]EndpointCount, error) {
	date := day.UTC().Format(dateLayout)
	return a.countersWithPrefix(ctx, dailyUsagePrefix+date+":")
}

// countersWithPrefix enumerates counter keys under prefix and reads their
// values. Keys that vanish between the scan and the read are skipped.
func (a *Accountant) countersWithPrefix(ctx context.Context, prefix string) ([]EndpointCount, error) {
	keys, err := a.store.KeysWithPrefix(ctx, prefix)
	if err != nil {
		return nil, err
	}

	counts := make([]EndpointCount, 0, len(keys))
	for _, key := range keys {
		value, found, err := a.store.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}
		count, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			logging.Warn().Str("key", key).Str("value", value).Msg("Skipping non-numeric usage counter")
			continue
		}
		counts = append(counts, EndpointCount{
			Endpoint: strings.TrimPrefix(key, prefix),
			Count:    count,
		})
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Endpoint < counts[j].Endpoint
	})

	return counts, nil
}

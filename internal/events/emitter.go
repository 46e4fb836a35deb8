// Microservices AI Platform - Intelligent Data Processing and Predictions
// Copyright 2026 Shibam (shibam-max)
// SPDX-License-Identifier: MIT
// https://github.com/shibam-max/microservices-ai-platform

package events

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/shibam-max/microservices-ai-platform/internal/config"
	"github.com/shibam-max/microservices-ai-platform/internal/logging"
	"github.com/shibam-max/microservices-ai-platform/internal/metrics"
)

// serviceName tags every emitted event with its origin.
const serviceName = "ai-ml-service"

// flushGrace bounds how long the emitter keeps publishing queued events
// after its context is cancelled.
const flushGrace = 5 * time.Second

// Event is one enriched analytics or ML event. Immutable once built.
type Event struct {
	Type      string         `json:"event_type"`
	Payload   map[string]any `json:"payload,omitempty"`
	Timestamp string         `json:"timestamp"`
	Service   string         `json:"service"`
}

// Emitter queues events for background delivery. The queue is bounded and
// drained by a fixed worker pool; when the queue is full the newest event
// is rejected so the request path never blocks on the broker.
type Emitter struct {
	publisher Publisher
	queue     chan Event
	workers   int
	limiter   *rate.Limiter
	now       func() time.Time
}

// NewEmitter creates an emitter over the given publisher. A publish rate
// of 0 means unlimited.
func NewEmitter(publisher Publisher, cfg config.EventsConfig) *Emitter {
	var limiter *rate.Limiter
	if cfg.PublishRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.PublishRate), 1)
	}
	return &Emitter{
		publisher: publisher,
		queue:     make(chan Event, cfg.QueueSize),
		workers:   cfg.Workers,
		limiter:   limiter,
		now:       time.Now,
	}
}

// SetClock replaces the emitter's time source. Test helper.
func (e *Emitter) SetClock(now func() time.Time) {
	e.now = now
}

// Emit enqueues an event for background delivery. It never blocks: when
// the queue is full the event is dropped, logged and counted, and Emit
// returns false.
func (e *Emitter) Emit(eventType string, payload map[string]any) bool {
	event := Event{
		Type:      eventType,
		Payload:   payload,
		Timestamp: e.now().UTC().Format(time.RFC3339),
		Service:   serviceName,
	}

	select {
	case e.queue <- event:
		metrics.RecordEventQueued(eventType)
		metrics.UpdateEventQueueDepth(len(e.queue))
		return true
	default:
		metrics.RecordEventDropped(eventType)
		logging.Warn().
			Str("event_type", eventType).
			Int("queue_size", cap(e.queue)).
			Msg("Event queue full, dropping event")
		return false
	}
}

// String identifies the service in supervisor log messages.
func (e *Emitter) String() string {
	return "event-emitter"
}

// QueueDepth returns the number of events currently waiting.
func (e *Emitter) QueueDepth() int {
	return len(e.queue)
}

// Serve runs the worker pool until ctx is cancelled, then flushes the
// remaining queue within a short grace window. Implements suture.Service.
func (e *Emitter) Serve(ctx context.Context) error {
	logging.Info().
		Int("workers", e.workers).
		Int("queue_size", cap(e.queue)).
		Msg("Event emitter started")

	var wg sync.WaitGroup
	for i := 0; i < e.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.work(ctx)
		}()
	}
	wg.Wait()

	e.flush()
	logging.Info().Msg("Event emitter stopped")
	return ctx.Err()
}

// work drains the queue until the context is cancelled.
func (e *Emitter) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-e.queue:
			e.deliver(ctx, event)
		}
	}
}

// flush publishes whatever is still queued after shutdown began, bounded
// by the grace window. Remaining events past the window are dropped.
func (e *Emitter) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), flushGrace)
	defer cancel()

	for {
		select {
		case event := <-e.queue:
			e.deliver(ctx, event)
			if ctx.Err() != nil {
				e.dropRemaining()
				return
			}
		default:
			return
		}
	}
}

// dropRemaining counts the events abandoned when the grace window expires.
func (e *Emitter) dropRemaining() {
	for {
		select {
		case event := <-e.queue:
			metrics.RecordEventDropped(event.Type)
		default:
			return
		}
	}
}

// deliver publishes one event. Failures are logged and counted, never
// retried; event delivery is best effort.
func (e *Emitter) deliver(ctx context.Context, event Event) {
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			metrics.RecordEventDropped(event.Type)
			return
		}
	}

	if err := e.publisher.Publish(ctx, event.Type, event); err != nil {
		logging.Warn().
			Err(err).
			Str("event_type", event.Type).
			Msg("Background event delivery failed")
	}
	metrics.UpdateEventQueueDepth(len(e.queue))
}

// Microservices AI Platform - Intelligent Data Processing and Predictions
// Copyright 2026 Shibam (shibam-max)
// SPDX-License-Identifier: MIT
// https://github.com/shibam-max/microservices-ai-platform

package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	kafka "github.com/segmentio/kafka-go"

	"github.com/shibam-max/microservices-ai-platform/internal/config"
)

// fakeWriter records written messages and optionally fails.
type fakeWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeWriter) messages() []kafka.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]kafka.Message(nil), f.msgs...)
}

func TestPublishWritesKeyedJSON(t *testing.T) {
	fw := &fakeWriter{}
	pub := NewKafkaPublisherWithWriter(fw, "analytics-events")

	err := pub.Publish(context.Background(), "user_action", map[string]string{"action": "click"})
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	msgs := fw.messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if string(msgs[0].Key) != "user_action" {
		t.Errorf("key = %q, want user_action", msgs[0].Key)
	}

	var decoded map[string]string
	if err := json.Unmarshal(msgs[0].Value, &decoded); err != nil {
		t.Fatalf("message value is not valid JSON: %v", err)
	}
	if decoded["action"] != "click" {
		t.Errorf("decoded payload = %v", decoded)
	}
}

func TestPublishPropagatesWriteError(t *testing.T) {
	writeErr := errors.New("broker down")
	pub := NewKafkaPublisherWithWriter(&fakeWriter{err: writeErr}, "analytics-events")

	err := pub.Publish(context.Background(), "user_action", map[string]string{"a": "b"})
	if !errors.Is(err, writeErr) {
		t.Errorf("expected wrapped write error, got %v", err)
	}
}

func TestPublishRejectsUnmarshalableValue(t *testing.T) {
	fw := &fakeWriter{}
	pub := NewKafkaPublisherWithWriter(fw, "analytics-events")

	if err := pub.Publish(context.Background(), "bad", func() {}); err == nil {
		t.Error("expected marshal error for func value")
	}
	if len(fw.messages()) != 0 {
		t.Error("nothing should be written when marshaling fails")
	}
}

func TestNewKafkaPublisherPerTopic(t *testing.T) {
	// Construction never dials, so real publishers are safe to build in
	// tests. Analytics and ML events each get their configured topic.
	cfg := config.KafkaConfig{
		Brokers:      []string{"localhost:9092"},
		EventsTopic:  "analytics-events",
		MLTopic:      "ml-events",
		WriteTimeout: time.Second,
	}

	analytics := NewKafkaPublisher(cfg, cfg.EventsTopic)
	defer analytics.Close()
	ml := NewKafkaPublisher(cfg, cfg.MLTopic)
	defer ml.Close()

	if analytics.topic != "analytics-events" {
		t.Errorf("analytics topic = %q, want analytics-events", analytics.topic)
	}
	if ml.topic != "ml-events" {
		t.Errorf("ml topic = %q, want ml-events", ml.topic)
	}
}

func TestPublisherClose(t *testing.T) {
	fw := &fakeWriter{}
	pub := NewKafkaPublisherWithWriter(fw, "analytics-events")

	if err := pub.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !fw.closed {
		t.Error("underlying writer was not closed")
	}
}

// Microservices AI Platform - Intelligent Data Processing and Predictions
// Copyright 2026 Shibam (shibam-max)
// SPDX-License-Identifier: MIT
// https://github.com/shibam-max/microservices-ai-platform

// Package events provides the Kafka event transport: a Publisher for
// synchronous writes, an Emitter that decouples the request path from the
// broker through a bounded queue, and a Consumer for the optional event
// processing mode.
package events

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	kafka "github.com/segmentio/kafka-go"

	"github.com/shibam-max/microservices-ai-platform/internal/config"
	"github.com/shibam-max/microservices-ai-platform/internal/logging"
	"github.com/shibam-max/microservices-ai-platform/internal/metrics"
)

// Writer is the subset of segmentio kafka.Writer the publisher needs.
// Extracting it keeps the publisher testable without a broker.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher delivers one event to the transport.
type Publisher interface {
	Publish(ctx context.Context, key string, value any) error
	Close() error
}

// KafkaPublisher is a thin Publisher over a kafka writer. Each publish is
// bounded by the configured write timeout so a slow broker cannot stall
// callers indefinitely.
type KafkaPublisher struct {
	writer       Writer
	topic        string
	writeTimeout time.Duration
}

// NewKafkaPublisher creates a publisher writing to the given topic with
// RequireAll acks.
func NewKafkaPublisher(cfg config.KafkaConfig, topic string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: cfg.WriteTimeout,
	}
	return &KafkaPublisher{writer: w, topic: topic, writeTimeout: cfg.WriteTimeout}
}

// NewKafkaPublisherWithWriter creates a publisher over an injected writer.
// Test constructor.
func NewKafkaPublisherWithWriter(w Writer, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: w, topic: topic, writeTimeout: 10 * time.Second}
}

// Publish marshals value to JSON and writes one message keyed by key.
func (p *KafkaPublisher) Publish(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", key, err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.writeTimeout)
	defer cancel()

	start := time.Now()
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: data,
	})
	metrics.RecordEventPublish(p.topic, time.Since(start), err)

	if err != nil {
		logging.Warn().
			Err(err).
			Str("topic", p.topic).
			Str("key", key).
			Msg("Kafka publish failed")
		return fmt.Errorf("publish to %s: %w", p.topic, err)
	}
	return nil
}

// Close closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

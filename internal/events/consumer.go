// Microservices AI Platform - Intelligent Data Processing and Predictions
// Copyright 2026 Shibam (shibam-max)
// SPDX-License-Identifier: MIT
// https://github.com/shibam-max/microservices-ai-platform

package events

import (
	"context"
	"time"

	kafka "github.com/segmentio/kafka-go"

	"github.com/shibam-max/microservices-ai-platform/internal/config"
	"github.com/shibam-max/microservices-ai-platform/internal/logging"
)

// handleTimeout bounds one handler invocation.
const handleTimeout = 10 * time.Second

// fetchBackoff is the pause after a transient fetch error.
const fetchBackoff = time.Second

// Handler processes one consumed message. Returning an error leaves the
// offset uncommitted so the message is redelivered.
type Handler func(ctx context.Context, key, value []byte) error

// Consumer reads the analytics event topic within a consumer group and
// commits offsets only after the handler succeeds.
type Consumer struct {
	reader  *kafka.Reader
	handler Handler
}

// NewConsumer creates a consumer for the configured events topic.
func NewConsumer(cfg config.KafkaConfig, handler Handler) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  cfg.Brokers,
			Topic:    cfg.EventsTopic,
			GroupID:  cfg.GroupID,
			MinBytes: 10e3,
			MaxBytes: 10e6,
		}),
		handler: handler,
	}
}

// Serve runs the fetch/handle/commit loop until ctx is cancelled.
// Implements suture.Service.
func (c *Consumer) Serve(ctx context.Context) error {
	cfg := c.reader.Config()
	logging.Info().
		Str("topic", cfg.Topic).
		Str("group_id", cfg.GroupID).
		Msg("Event consumer started")

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logging.Warn().Err(err).Msg("Event fetch failed, backing off")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(fetchBackoff):
			}
			continue
		}

		handleCtx, cancel := context.WithTimeout(ctx, handleTimeout)
		err = c.handler(handleCtx, msg.Key, msg.Value)
		cancel()

		if err != nil {
			// Uncommitted offsets are redelivered by the broker.
			logging.Warn().
				Err(err).
				Int64("offset", msg.Offset).
				Msg("Event handler failed, leaving offset uncommitted")
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			logging.Warn().Err(err).Int64("offset", msg.Offset).Msg("Offset commit failed")
		}
	}
}

// String identifies the service in supervisor log messages.
func (c *Consumer) String() string {
	return "event-consumer"
}

// Close disconnects the underlying reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}

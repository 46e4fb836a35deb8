// Microservices AI Platform - Intelligent Data Processing and Predictions
// Copyright 2026 Shibam (shibam-max)
// SPDX-License-Identifier: MIT
// https://github.com/shibam-max/microservices-ai-platform

// Package main is the entry point for the AI/ML service.
//
// The service exposes prediction, recommendation and sentiment endpoints
// backed by a cache-aside Redis layer, tracks usage counters, and emits
// analytics events to Kafka.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: environment variables over config file over defaults (Koanf v2)
//  2. Cache store: Redis, or the in-memory store for development
//  3. Kafka publisher and the buffered event emitter
//  4. ML model registry
//  5. Authentication: JWT or no-auth mode
//  6. HTTP server: chi route tree under /api/v1
//
// Long-lived components run under a suture supervisor tree with two
// layers: messaging (event emitter, optional consumer) and api (HTTP
// server). A crash in the event pipeline restarts only that layer.
//
// # Configuration
//
// See internal/config for the full variable list. The essentials:
//
//	export REDIS_ADDR=localhost:6379
//	export KAFKA_BROKERS=localhost:9092
//	export JWT_SECRET=$(openssl rand -base64 32)
//	./ai-ml-service
//
// Development without infrastructure:
//
//	export CACHE_BACKEND=memory
//	export AUTH_MODE=none
//	./ai-ml-service
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the HTTP server drains
// in-flight requests and the emitter flushes its queue before exit.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/shibam-max/microservices-ai-platform/internal/api"
	"github.com/shibam-max/microservices-ai-platform/internal/auth"
	"github.com/shibam-max/microservices-ai-platform/internal/cache"
	"github.com/shibam-max/microservices-ai-platform/internal/config"
	"github.com/shibam-max/microservices-ai-platform/internal/events"
	"github.com/shibam-max/microservices-ai-platform/internal/logging"
	"github.com/shibam-max/microservices-ai-platform/internal/metrics"
	"github.com/shibam-max/microservices-ai-platform/internal/ml"
	"github.com/shibam-max/microservices-ai-platform/internal/supervisor"
	"github.com/shibam-max/microservices-ai-platform/internal/usage"
)

func main() {
	// Load configuration first to get logging settings.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("cache_backend", cfg.Cache.Backend).
		Str("auth_mode", cfg.Security.AuthMode).
		Str("kafka_events_topic", cfg.Kafka.EventsTopic).
		Str("kafka_ml_topic", cfg.Kafka.MLTopic).
		Msg("Configuration loaded")

	metrics.AppInfo.WithLabelValues("1.0.0", runtime.Version()).Set(1)

	// Cache store. Redis in production; the in-memory store keeps
	// development and CI free of infrastructure.
	var store cache.Store
	switch cfg.Cache.Backend {
	case "memory":
		store = cache.NewMemoryStore()
		logging.Info().Msg("Using in-memory cache store")
	default:
		store = cache.NewRedisStore(cfg.Redis)
		if err := store.Ping(context.Background()); err != nil {
			logging.Warn().Err(err).Msg("Redis not reachable at startup (will retry per request)")
		} else {
			logging.Info().Str("addr", cfg.Redis.Addr).Msg("Connected to Redis")
		}
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing cache store")
		}
	}()

	// Two Kafka publishers: tracked analytics events go to the events
	// topic synchronously, background ML events (recommendations,
	// predictions) go to the ML topic through the buffered emitter.
	publisher := events.NewKafkaPublisher(cfg.Kafka, cfg.Kafka.EventsTopic)
	defer func() {
		if err := publisher.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing Kafka publisher")
		}
	}()
	mlPublisher := events.NewKafkaPublisher(cfg.Kafka, cfg.Kafka.MLTopic)
	defer func() {
		if err := mlPublisher.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing Kafka ML publisher")
		}
	}()
	emitter := events.NewEmitter(mlPublisher, cfg.Events)

	// ML model registry.
	mlService := ml.NewService()
	if err := mlService.LoadModels(context.Background()); err != nil {
		logging.Fatal().Err(err).Msg("Failed to load models")
	}
	logging.Info().Msg("Models loaded")

	accountant := usage.NewAccountant(store)
	orchestrator := cache.NewOrchestrator(store)

	authMiddleware, err := auth.NewMiddleware(cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize authentication")
	}

	handler := api.NewHandler(cfg, store, orchestrator, mlService, accountant, publisher, emitter)
	router := api.NewRouter(cfg, handler, authMiddleware)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	startTime := time.Now()
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				metrics.AppUptime.Set(time.Since(startTime).Seconds())
			}
		}
	}()

	// Bridge zerolog to slog for sutureslog.
	tree, err := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddMessagingService(emitter)
	if cfg.Events.Consumer {
		consumer := events.NewConsumer(cfg.Kafka, func(ctx context.Context, key, value []byte) error {
			accountant.CountEvent(ctx, string(key))
			return nil
		})
		tree.AddMessagingService(consumer)
		logging.Info().Str("group", cfg.Kafka.GroupID).Msg("Event consumer added to supervisor tree")
	}

	tree.AddAPIService(supervisor.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Drain the error channel until the supervisor finishes.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Service stopped gracefully")
}

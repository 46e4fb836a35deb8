// Microservices AI Platform - Intelligent Data Processing and Predictions
// Copyright 2026 Shibam (shibam-max)
// SPDX-License-Identifier: MIT
// https://github.com/shibam-max/microservices-ai-platform

// Package config provides centralized configuration for the AI/ML service.
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//  1. Built-in defaults
//  2. Optional YAML config file (config.yaml, or CONFIG_PATH)
//  3. Environment variables
//
// Config is immutable after Load() and safe for concurrent read access.
package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Redis    RedisConfig    `koanf:"redis"`
	Kafka    KafkaConfig    `koanf:"kafka"`
	Cache    CacheConfig    `koanf:"cache"`
	Events   EventsConfig   `koanf:"events"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - HTTP_HOST: Listen address (default: 0.0.0.0)
//   - HTTP_PORT: Listen port (default: 8083)
//   - SERVER_TIMEOUT: Read/write timeout (default: 30s)
//   - SERVER_SHUTDOWN_TIMEOUT: Graceful shutdown window (default: 10s)
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// RedisConfig holds cache store connection settings.
//
// Every Redis operation carries a bounded timeout (OpTimeout); a hung
// store surfaces as an error instead of stalling the request path.
//
// Environment Variables:
//   - REDIS_ADDR: host:port (default: localhost:6379)
//   - REDIS_PASSWORD: optional password
//   - REDIS_DB: database index (default: 0)
//   - REDIS_OP_TIMEOUT: per-operation timeout (default: 3s)
//   - REDIS_DIAL_TIMEOUT: connection timeout (default: 5s)
type RedisConfig struct {
	Addr        string        `koanf:"addr"`
	Password    string        `koanf:"password"`
	DB          int           `koanf:"db"`
	OpTimeout   time.Duration `koanf:"op_timeout"`
	DialTimeout time.Duration `koanf:"dial_timeout"`
}

// KafkaConfig holds event transport settings.
//
// Environment Variables:
//   - KAFKA_BROKERS: comma-separated bootstrap addresses (default: localhost:9092)
//   - KAFKA_TOPIC_EVENTS: analytics event topic (default: analytics-events)
//   - KAFKA_TOPIC_ML: ML event topic (default: ml-events)
//   - KAFKA_GROUP_ID: consumer group (default: ai-ml-service)
//   - KAFKA_WRITE_TIMEOUT: bounded publish timeout (default: 10s)
type KafkaConfig struct {
	Brokers      []string      `koanf:"brokers"`
	EventsTopic  string        `koanf:"events_topic"`
	MLTopic      string        `koanf:"ml_topic"`
	GroupID      string        `koanf:"group_id"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

// CacheConfig holds cache-aside pipeline settings.
//
// Backend selects the Store implementation: "redis" (shared, production)
// or "memory" (in-process, development and tests).
//
// Environment Variables:
//   - CACHE_BACKEND: redis or memory (default: redis)
//   - PREDICTION_CACHE_TTL: prediction entry TTL (default: 5m)
//   - RECOMMENDATION_CACHE_TTL: recommendation entry TTL (default: 1h)
type CacheConfig struct {
	Backend           string        `koanf:"backend"`
	PredictionTTL     time.Duration `koanf:"prediction_ttl"`
	RecommendationTTL time.Duration `koanf:"recommendation_ttl"`
}

// EventsConfig holds the background event emitter settings.
//
// The emitter is a bounded work queue drained by a fixed consumer pool.
// When the queue is full new events are rejected (dropped and counted),
// never blocking the request path.
//
// Environment Variables:
//   - EVENT_QUEUE_SIZE: queue capacity (default: 1024)
//   - EVENT_WORKERS: consumer pool size (default: 4)
//   - EVENT_PUBLISH_RATE: max publishes/second, 0 = unlimited (default: 0)
//   - EVENT_CONSUMER: run the analytics event consumer loop (default: false)
type EventsConfig struct {
	QueueSize   int     `koanf:"queue_size"`
	Workers     int     `koanf:"workers"`
	PublishRate float64 `koanf:"publish_rate"`
	Consumer    bool    `koanf:"consumer"`
}

// SecurityConfig holds authentication and rate limiting settings.
//
// Environment Variables:
//   - AUTH_MODE: jwt or none (default: jwt)
//   - JWT_SECRET: 32+ character HS256 signing secret (required for jwt mode)
//   - SESSION_TIMEOUT: token validity window (default: 24h)
//   - RATE_LIMIT_REQS: requests per window per client (default: 60)
//   - RATE_LIMIT_WINDOW: sliding window size (default: 1m)
//   - DISABLE_RATE_LIMIT: disable the rate gate (default: false, tests only)
//   - CORS_ORIGINS: comma-separated allowed origins (default: *)
type SecurityConfig struct {
	AuthMode          string        `koanf:"auth_mode"`
	JWTSecret         string        `koanf:"jwt_secret"`
	SessionTimeout    time.Duration `koanf:"session_timeout"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
//
// Environment Variables:
//   - LOG_LEVEL: debug, info, warn, error (default: info)
//   - LOG_FORMAT: json or console (default: json)
//   - LOG_CALLER: include caller info (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// minJWTSecretLength is the minimum accepted HS256 secret length.
const minJWTSecretLength = 32

// Validate checks the configuration for invalid or inconsistent values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server timeout must be positive, got %s", c.Server.Timeout)
	}

	switch c.Cache.Backend {
	case "redis", "memory":
	default:
		return fmt.Errorf("invalid cache backend %q (must be redis or memory)", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Redis.Addr == "" {
		return fmt.Errorf("REDIS_ADDR is required when cache backend is redis")
	}
	if c.Cache.PredictionTTL <= 0 {
		return fmt.Errorf("prediction cache TTL must be positive, got %s", c.Cache.PredictionTTL)
	}
	if c.Cache.RecommendationTTL <= 0 {
		return fmt.Errorf("recommendation cache TTL must be positive, got %s", c.Cache.RecommendationTTL)
	}

	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("at least one Kafka broker is required")
	}
	if c.Kafka.EventsTopic == "" {
		return fmt.Errorf("Kafka events topic is required")
	}

	if c.Events.QueueSize <= 0 {
		return fmt.Errorf("event queue size must be positive, got %d", c.Events.QueueSize)
	}
	if c.Events.Workers <= 0 {
		return fmt.Errorf("event worker count must be positive, got %d", c.Events.Workers)
	}

	switch c.Security.AuthMode {
	case "jwt":
		if len(c.Security.JWTSecret) < minJWTSecretLength {
			return fmt.Errorf("JWT_SECRET must be at least %d characters when AUTH_MODE=jwt", minJWTSecretLength)
		}
	case "none":
	default:
		return fmt.Errorf("invalid auth mode %q (must be jwt or none)", c.Security.AuthMode)
	}

	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs <= 0 {
			return fmt.Errorf("rate limit requests must be positive, got %d", c.Security.RateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("rate limit window must be positive, got %s", c.Security.RateLimitWindow)
		}
	}

	return nil
}

// Addr returns the server listen address in host:port form.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Microservices AI Platform - Intelligent Data Processing and Predictions
// Copyright 2026 Shibam (shibam-max)
// SPDX-License-Identifier: MIT
// https://github.com/shibam-max/microservices-ai-platform

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order
// of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/ai-ml-service/config.yaml",
}

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8083,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Redis: RedisConfig{
			Addr:        "localhost:6379",
			Password:    "",
			DB:          0,
			OpTimeout:   3 * time.Second,
			DialTimeout: 5 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:      []string{"localhost:9092"},
			EventsTopic:  "analytics-events",
			MLTopic:      "ml-events",
			GroupID:      "ai-ml-service",
			WriteTimeout: 10 * time.Second,
		},
		Cache: CacheConfig{
			Backend:           "redis",
			PredictionTTL:     5 * time.Minute,
			RecommendationTTL: time.Hour,
		},
		Events: EventsConfig{
			QueueSize:   1024,
			Workers:     4,
			PublishRate: 0, // Unlimited
			Consumer:    false,
		},
		Security: SecurityConfig{
			AuthMode:          "jwt",
			JWTSecret:         "",
			SessionTimeout:    24 * time.Hour,
			RateLimitReqs:     60,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in sensible defaults
//  2. Config File: optional YAML config file (if exists)
//  3. Environment Variables: override any setting
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: optional config file
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Comma-separated env values for slice fields
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file, honoring CONFIG_PATH first.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are config paths parsed as comma-separated slices when
// they arrive as strings from environment variables.
var sliceConfigPaths = []string{
	"kafka.brokers",
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}
		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - REDIS_ADDR -> redis.addr
//   - KAFKA_BROKERS -> kafka.brokers
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Server
		"http_host":               "server.host",
		"http_port":               "server.port",
		"server_timeout":          "server.timeout",
		"server_shutdown_timeout": "server.shutdown_timeout",

		// Redis cache store
		"redis_addr":         "redis.addr",
		"redis_password":     "redis.password",
		"redis_db":           "redis.db",
		"redis_op_timeout":   "redis.op_timeout",
		"redis_dial_timeout": "redis.dial_timeout",

		// Kafka event transport
		"kafka_brokers":       "kafka.brokers",
		"kafka_topic_events":  "kafka.events_topic",
		"kafka_topic_ml":      "kafka.ml_topic",
		"kafka_group_id":      "kafka.group_id",
		"kafka_write_timeout": "kafka.write_timeout",

		// Cache-aside pipeline
		"cache_backend":            "cache.backend",
		"prediction_cache_ttl":     "cache.prediction_ttl",
		"recommendation_cache_ttl": "cache.recommendation_ttl",

		// Event emitter
		"event_queue_size":   "events.queue_size",
		"event_workers":      "events.workers",
		"event_publish_rate": "events.publish_rate",
		"event_consumer":     "events.consumer",

		// Security
		"auth_mode":          "security.auth_mode",
		"jwt_secret":         "security.jwt_secret",
		"session_timeout":    "security.session_timeout",
		"rate_limit_reqs":    "security.rate_limit_reqs",
		"rate_limit_window":  "security.rate_limit_window",
		"disable_rate_limit": "security.rate_limit_disabled",
		"cors_origins":       "security.cors_origins",

		// Logging
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	// Unknown variables are dropped rather than guessed at; a typo in an
	// env var name should not silently create a config key.
	return ""
}

// Microservices AI Platform - Intelligent Data Processing and Predictions
// Copyright 2026 Shibam (shibam-max)
// SPDX-License-Identifier: MIT
// https://github.com/shibam-max/microservices-ai-platform

package api

import (
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/shibam-max/microservices-ai-platform/internal/logging"
)

// serviceVersion is reported by the health endpoints.
const serviceVersion = "1.0.0"

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeHealthJSON(w, http.StatusOK, map[string]any{
		"status":         "healthy",
		"service":        "ai-ml-service",
		"version":        serviceVersion,
		"uptime_seconds": time.Since(h.startTime).Seconds(),
		"timestamp":      h.now().UTC().Format(time.RFC3339),
	})
}

// HealthLive handles GET /health/live. Always 200 while the process
// accepts requests.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	writeHealthJSON(w, http.StatusOK, map[string]any{"status": "alive"})
}

// HealthReady handles GET /health/ready. Ready means the models are
// loaded and the cache store answers a ping.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	modelsLoaded := h.ml.Loaded()

	storeReady := true
	if err := h.store.Ping(r.Context()); err != nil {
		logging.Warn().Err(err).Msg("Readiness store ping failed")
		storeReady = false
	}

	status := http.StatusOK
	state := "ready"
	if !modelsLoaded || !storeReady {
		status = http.StatusServiceUnavailable
		state = "not_ready"
	}

	writeHealthJSON(w, status, map[string]any{
		"status":        state,
		"models_loaded": modelsLoaded,
		"store_ready":   storeReady,
	})
}

// writeHealthJSON writes a bare JSON object; health endpoints skip the
// response envelope so probes stay trivial to parse.
func writeHealthJSON(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error().Err(err).Msg("Failed to encode health response")
	}
}

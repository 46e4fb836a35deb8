// Microservices AI Platform - Intelligent Data Processing and Predictions
// Copyright 2026 Shibam (shibam-max)
// SPDX-License-Identifier: MIT
// https://github.com/shibam-max/microservices-ai-platform

package api

import (
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/shibam-max/microservices-ai-platform/internal/cache"
	"github.com/shibam-max/microservices-ai-platform/internal/config"
	"github.com/shibam-max/microservices-ai-platform/internal/events"
	"github.com/shibam-max/microservices-ai-platform/internal/logging"
	"github.com/shibam-max/microservices-ai-platform/internal/ml"
	"github.com/shibam-max/microservices-ai-platform/internal/usage"
)

// maxRequestBody caps request payload size at 1 MiB.
const maxRequestBody = 1 << 20

// Handler holds all HTTP handler dependencies. Built once at startup by
// the composition root.
type Handler struct {
	cfg          *config.Config
	store        cache.Store
	orchestrator *cache.Orchestrator
	ml           *ml.Service
	accountant   *usage.Accountant
	publisher    events.Publisher
	emitter      *events.Emitter
	startTime    time.Time
	now          func() time.Time
}

// NewHandler creates the handler with its dependency set.
func NewHandler(
	cfg *config.Config,
	store cache.Store,
	orchestrator *cache.Orchestrator,
	mlService *ml.Service,
	accountant *usage.Accountant,
	publisher events.Publisher,
	emitter *events.Emitter,
) *Handler {
	return &Handler{
		cfg:          cfg,
		store:        store,
		orchestrator: orchestrator,
		ml:           mlService,
		accountant:   accountant,
		publisher:    publisher,
		emitter:      emitter,
		startTime:    time.Now(),
		now:          time.Now,
	}
}

// SetClock replaces the handler's time source. Test helper.
func (h *Handler) SetClock(now func() time.Time) {
	h.now = now
}

// decodeJSON reads and decodes a JSON request body into dst. Returns
// false after writing a 400 response when the body is malformed.
func decodeJSON(rw *ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(nil, r.Body, maxRequestBody)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logging.Debug().Err(err).Msg("Request body decode failed")
		rw.BadRequest("Invalid JSON request body")
		return false
	}
	return true
}

// requestUserID resolves the user identity for usage accounting:
// authenticated identity first, then the identity claimed in the payload.
func requestUserID(r *http.Request, claimed string) string {
	if id := logging.UserIDFromContext(r.Context()); id != "" {
		return id
	}
	return claimed
}

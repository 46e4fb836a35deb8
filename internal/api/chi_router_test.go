// Microservices AI Platform - Intelligent Data Processing and Predictions
// Copyright 2026 Shibam (shibam-max)
// SPDX-License-Identifier: MIT
// https://github.com/shibam-max/microservices-ai-platform

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"github.com/shibam-max/microservices-ai-platform/internal/auth"
	"github.com/shibam-max/microservices-ai-platform/internal/cache"
	"github.com/shibam-max/microservices-ai-platform/internal/config"
	"github.com/shibam-max/microservices-ai-platform/internal/events"
	"github.com/shibam-max/microservices-ai-platform/internal/ml"
	"github.com/shibam-max/microservices-ai-platform/internal/usage"
)

// newSecuredServer wires the route tree with JWT auth and an optional
// rate limit.
func newSecuredServer(t *testing.T, security config.SecurityConfig) (http.Handler, *auth.JWTManager) {
	t.Helper()

	cfg := testConfig()
	cfg.Security = security

	store := cache.NewMemoryStore()
	mlService := ml.NewService()
	if err := mlService.LoadModels(context.Background()); err != nil {
		t.Fatalf("LoadModels failed: %v", err)
	}

	publisher := &fakePublisher{}
	handler := NewHandler(
		cfg,
		store,
		cache.NewOrchestrator(store),
		mlService,
		usage.NewAccountant(store),
		publisher,
		events.NewEmitter(publisher, cfg.Events),
	)

	authMW, err := auth.NewMiddleware(cfg.Security)
	if err != nil {
		t.Fatalf("NewMiddleware failed: %v", err)
	}

	manager, err := auth.NewJWTManager(cfg.Security)
	if err != nil {
		t.Fatalf("NewJWTManager failed: %v", err)
	}
	return NewRouter(cfg, handler, authMW).Setup(), manager
}

func jwtSecurityConfig() config.SecurityConfig {
	return config.SecurityConfig{
		AuthMode:          "jwt",
		JWTSecret:         "0123456789abcdef0123456789abcdef",
		SessionTimeout:    time.Hour,
		RateLimitDisabled: true,
		CORSOrigins:       []string{"*"},
	}
}

func TestRouterRejectsUnauthenticated(t *testing.T) {
	server, _ := newSecuredServer(t, jwtSecurityConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ml/models", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), ErrCodeUnauthorized) {
		t.Errorf("body = %s, want code %s", rec.Body.String(), ErrCodeUnauthorized)
	}
}

func TestRouterAcceptsValidToken(t *testing.T) {
	server, manager := newSecuredServer(t, jwtSecurityConfig())

	token, err := manager.GenerateToken("user123", "user")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ml/models", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body = %s", rec.Code, rec.Body.String())
	}
}

func TestRouterHealthBypassesAuth(t *testing.T) {
	server, _ := newSecuredServer(t, jwtSecurityConfig())

	for _, path := range []string{"/health", "/health/live", "/health/ready", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)
		if rec.Code == http.StatusUnauthorized {
			t.Errorf("%s: status = 401, must bypass auth", path)
		}
	}
}

func TestRouterRateLimit(t *testing.T) {
	security := jwtSecurityConfig()
	security.AuthMode = "none"
	security.RateLimitDisabled = false
	security.RateLimitReqs = 2
	security.RateLimitWindow = time.Minute
	server, _ := newSecuredServer(t, security)

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/ml/models", nil)
		req.RemoteAddr = "203.0.113.7:4711"
		last = httptest.NewRecorder()
		server.ServeHTTP(last, req)
	}

	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("third request: status = %d, want 429", last.Code)
	}
	if !strings.Contains(last.Body.String(), ErrCodeTooManyRequests) {
		t.Errorf("body = %s, want code %s", last.Body.String(), ErrCodeTooManyRequests)
	}

	// Health stays reachable while the API is throttled.
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	req.RemoteAddr = "203.0.113.7:4711"
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("/health/live during throttle: status = %d, want 200", rec.Code)
	}
}

func TestRouterRequestIDHeader(t *testing.T) {
	env := newTestEnv(t, nil)

	rec, _ := env.doJSON(t, http.MethodGet, "/api/v1/ml/models", nil)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("response missing X-Request-ID header")
	}
}

func TestRouterHealthEndpoints(t *testing.T) {
	env := newTestEnv(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("/health: status = %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode /health body: %v", err)
	}
	if body["status"] != "healthy" || body["service"] != "ai-ml-service" {
		t.Errorf("body = %+v", body)
	}

	req = httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec = httptest.NewRecorder()
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("/health/ready: status = %d", rec.Code)
	}
}

func TestRouterReadinessWithoutModels(t *testing.T) {
	cfg := testConfig()
	store := cache.NewMemoryStore()
	publisher := &fakePublisher{}

	// Models deliberately not loaded.
	handler := NewHandler(
		cfg,
		store,
		cache.NewOrchestrator(store),
		ml.NewService(),
		usage.NewAccountant(store),
		publisher,
		events.NewEmitter(publisher, cfg.Events),
	)
	authMW, err := auth.NewMiddleware(cfg.Security)
	if err != nil {
		t.Fatalf("NewMiddleware failed: %v", err)
	}
	server := NewRouter(cfg, handler, authMW).Setup()

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "not_ready" || body["models_loaded"] != false {
		t.Errorf("body = %+v", body)
	}
}

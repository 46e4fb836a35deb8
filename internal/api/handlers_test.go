// Microservices AI Platform - Intelligent Data Processing and Predictions
// Copyright 2026 Shibam (shibam-max)
// SPDX-License-Identifier: MIT
// https://github.com/shibam-max/microservices-ai-platform

package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
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

// fakePublisher records synchronous publishes and optionally fails.
type fakePublisher struct {
	mu        sync.Mutex
	published []publishedEvent
	err       error
}

type publishedEvent struct {
	key   string
	value any
}

func (f *fakePublisher) Publish(ctx context.Context, key string, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, publishedEvent{key: key, value: value})
	return nil
}

func (f *fakePublisher) Close() error { return nil }

func (f *fakePublisher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.published)
}

// failingKeysStore makes counter enumeration fail.
type failingKeysStore struct {
	*cache.MemoryStore
}

func (f *failingKeysStore) KeysWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	return nil, errors.New("store down")
}

// failingSetStore makes writes fail.
type failingSetStore struct {
	*cache.MemoryStore
}

func (f *failingSetStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return errors.New("store down")
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 8083, Timeout: 30 * time.Second},
		Cache: config.CacheConfig{
			Backend:           "memory",
			PredictionTTL:     5 * time.Minute,
			RecommendationTTL: time.Hour,
		},
		Events: config.EventsConfig{QueueSize: 16, Workers: 1},
		Security: config.SecurityConfig{
			AuthMode:          "none",
			RateLimitDisabled: true,
			CORSOrigins:       []string{"*"},
		},
	}
}

// testEnv bundles a fully wired handler over in-memory dependencies.
type testEnv struct {
	cfg       *config.Config
	store     cache.Store
	handler   *Handler
	publisher *fakePublisher
	emitter   *events.Emitter
	server    http.Handler
}

func newTestEnv(t *testing.T, store cache.Store) *testEnv {
	t.Helper()

	cfg := testConfig()
	if store == nil {
		store = cache.NewMemoryStore()
	}

	mlService := ml.NewService()
	if err := mlService.LoadModels(context.Background()); err != nil {
		t.Fatalf("LoadModels failed: %v", err)
	}

	publisher := &fakePublisher{}
	emitter := events.NewEmitter(publisher, cfg.Events)
	handler := NewHandler(
		cfg,
		store,
		cache.NewOrchestrator(store),
		mlService,
		usage.NewAccountant(store),
		publisher,
		emitter,
	)

	authMW, err := auth.NewMiddleware(cfg.Security)
	if err != nil {
		t.Fatalf("NewMiddleware failed: %v", err)
	}

	return &testEnv{
		cfg:       cfg,
		store:     store,
		handler:   handler,
		publisher: publisher,
		emitter:   emitter,
		server:    NewRouter(cfg, handler, authMW).Setup(),
	}
}

// envelope mirrors APIResponse with a raw Data payload for decoding.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
}

// doJSON performs a request against the route tree and decodes the
// envelope.
func (env *testEnv) doJSON(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, *envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, req)

	var env2 envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env2); err != nil {
			t.Fatalf("decode envelope from %q: %v", rec.Body.String(), err)
		}
	}
	return rec, &env2
}

// httptestRequest builds a request with a raw string body, for malformed
// payload cases the JSON helpers cannot express.
func httptestRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func serve(env *testEnv, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, req)
	return rec
}

func decodeData[T any](t *testing.T, env *envelope) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("decode data payload: %v", err)
	}
	return out
}

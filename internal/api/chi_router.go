// Microservices AI Platform - Intelligent Data Processing and Predictions
// Copyright 2026 Shibam (shibam-max)
// SPDX-License-Identifier: MIT
// https://github.com/shibam-max/microservices-ai-platform

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shibam-max/microservices-ai-platform/internal/auth"
	"github.com/shibam-max/microservices-ai-platform/internal/config"
	"github.com/shibam-max/microservices-ai-platform/internal/metrics"
	"github.com/shibam-max/microservices-ai-platform/internal/middleware"
)

// Router builds the chi route tree over the handler set.
type Router struct {
	cfg     *config.Config
	handler *Handler
	auth    *auth.Middleware
}

// NewRouter creates the router.
func NewRouter(cfg *config.Config, handler *Handler, authMiddleware *auth.Middleware) *Router {
	return &Router{
		cfg:     cfg,
		handler: handler,
		auth:    authMiddleware,
	}
}

// Setup configures all HTTP routes.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: rt.cfg.Security.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Health probes and metrics stay outside auth and the rate gate.
	r.Route("/health", func(r chi.Router) {
		r.Get("/", rt.handler.Health)
		r.Get("/live", rt.handler.HealthLive)
		r.Get("/ready", rt.handler.HealthReady)
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if !rt.cfg.Security.RateLimitDisabled {
			r.Use(rt.rateLimiter())
		}
		r.Use(middleware.PrometheusMetrics)
		r.Use(rt.auth.Authenticate)

		r.Route("/ml", func(r chi.Router) {
			r.Post("/predict", rt.handler.Predict)
			r.Post("/recommend", rt.handler.Recommend)
			r.Post("/sentiment", rt.handler.Sentiment)
			r.Get("/models", rt.handler.Models)
			r.Get("/models/{name}/info", rt.handler.ModelInfo)
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/usage", rt.handler.Usage)
			r.Get("/performance", rt.handler.Performance)
			r.Get("/models/performance", rt.handler.ModelPerformance)
			r.Get("/trends", rt.handler.Trends)
			r.Get("/dashboard", rt.handler.Dashboard)
			r.Post("/events/track", rt.handler.TrackEvent)
			r.Get("/health-check", rt.handler.AnalyticsHealthCheck)
		})
	})

	return r
}

// rateLimiter builds the per-client-IP rate gate. Rejections are counted
// and answered with the standard envelope.
func (rt *Router) rateLimiter() func(http.Handler) http.Handler {
	return httprate.Limit(
		rt.cfg.Security.RateLimitReqs,
		rt.cfg.Security.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.APIRateLimitHits.WithLabelValues(r.URL.Path).Inc()
			NewResponseWriter(w, r).Error(http.StatusTooManyRequests, ErrCodeTooManyRequests, "Rate limit exceeded")
		}),
	)
}

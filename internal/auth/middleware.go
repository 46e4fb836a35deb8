// Microservices AI Platform - Intelligent Data Processing and Predictions
// Copyright 2026 Shibam (shibam-max)
// SPDX-License-Identifier: MIT
// https://github.com/shibam-max/microservices-ai-platform

package auth

import (
	"net/http"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/shibam-max/microservices-ai-platform/internal/config"
	"github.com/shibam-max/microservices-ai-platform/internal/logging"
)

// Middleware authenticates requests by bearer token and places the user
// identity on the request context. In "none" mode every request passes
// through anonymously.
type Middleware struct {
	manager *JWTManager
	mode    string
}

// NewMiddleware creates the auth middleware for the configured mode.
// AUTH_MODE=none logs a startup warning; it is meant for development only.
func NewMiddleware(cfg config.SecurityConfig) (*Middleware, error) {
	if cfg.AuthMode == "none" {
		logging.Warn().Msg("Authentication disabled (AUTH_MODE=none), all requests are anonymous")
		return &Middleware{mode: "none"}, nil
	}

	manager, err := NewJWTManager(cfg)
	if err != nil {
		return nil, err
	}
	return &Middleware{manager: manager, mode: cfg.AuthMode}, nil
}

// Authenticate verifies the bearer token and stores the user ID in the
// request context. Requests without a valid token get 401.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.mode == "none" {
			next.ServeHTTP(w, r)
			return
		}

		token := extractBearer(r)
		if token == "" {
			unauthorized(w, "missing bearer token")
			return
		}

		claims, err := m.manager.ValidateToken(token)
		if err != nil {
			logging.Debug().Err(err).Msg("Token validation failed")
			unauthorized(w, "invalid or expired token")
			return
		}

		ctx := logging.ContextWithUserID(r.Context(), claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractBearer pulls the token out of the Authorization header.
func extractBearer(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// unauthorized writes the 401 error envelope.
func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error": map[string]any{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	})
}

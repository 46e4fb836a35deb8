// Microservices AI Platform - Intelligent Data Processing and Predictions
// Copyright 2026 Shibam (shibam-max)
// SPDX-License-Identifier: MIT
// https://github.com/shibam-max/microservices-ai-platform

package middleware

import (
	"net/http"

	"github.com/shibam-max/microservices-ai-platform/internal/logging"
)

// requestIDHeader is the header carrying the request ID in both
// directions.
const requestIDHeader = "X-Request-ID"

// RequestID attaches a unique ID to every request, honoring an ID set by
// an upstream proxy. The ID is echoed in the response header and placed
// on the context for log correlation and error envelopes.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = logging.GenerateRequestID()
		}

		w.Header().Set(requestIDHeader, requestID)
		ctx := logging.ContextWithRequestID(r.Context(), requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

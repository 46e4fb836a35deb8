// Microservices AI Platform - Intelligent Data Processing and Predictions
// Copyright 2026 Shibam (shibam-max)
// SPDX-License-Identifier: MIT
// https://github.com/shibam-max/microservices-ai-platform

// Package api provides the HTTP surface: handlers, routing and the
// standardized response envelope used by every endpoint.
package api

import (
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/shibam-max/microservices-ai-platform/internal/logging"
)

// APIResponse is the standardized response wrapper for all endpoints.
type APIResponse struct {
	// Success indicates whether the request was successful
	Success bool `json:"success"`

	// Data contains the response payload (null on error)
	Data any `json:"data,omitempty"`

	// Error contains error details (null on success)
	Error *APIError `json:"error,omitempty"`

	// Meta contains optional metadata about the response
	Meta *APIMeta `json:"meta,omitempty"`
}

// APIError represents an error response. Stack traces and internal
// details never appear here.
type APIError struct {
	// Code is a machine-readable error code
	Code string `json:"code"`

	// Message is a human-readable error message
	Message string `json:"message"`

	// Details contains additional error details (optional)
	Details any `json:"details,omitempty"`

	// RequestID is the request ID for tracing
	RequestID string `json:"request_id,omitempty"`
}

// APIMeta contains optional response metadata.
type APIMeta struct {
	RequestID  string    `json:"request_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	DurationMs int64     `json:"duration_ms,omitempty"`
}

// Error codes for API responses.
const (
	ErrCodeBadRequest        = "BAD_REQUEST"
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeTooManyRequests   = "TOO_MANY_REQUESTS"
	ErrCodeValidationFailed  = "VALIDATION_FAILED"
	ErrCodeComputationFailed = "COMPUTATION_FAILED"
	ErrCodePublishFailed     = "PUBLISH_FAILED"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// ResponseWriter provides methods for writing standardized API responses.
type ResponseWriter struct {
	w         http.ResponseWriter
	r         *http.Request
	startTime time.Time
}

// NewResponseWriter creates a response writer for one request.
func NewResponseWriter(w http.ResponseWriter, r *http.Request) *ResponseWriter {
	return &ResponseWriter{
		w:         w,
		r:         r,
		startTime: time.Now(),
	}
}

// Success writes a 200 response with the data payload.
func (rw *ResponseWriter) Success(data any) {
	response := APIResponse{
		Success: true,
		Data:    data,
		Meta: &APIMeta{
			RequestID:  logging.RequestIDFromContext(rw.r.Context()),
			Timestamp:  time.Now().UTC(),
			DurationMs: time.Since(rw.startTime).Milliseconds(),
		},
	}
	rw.writeJSON(http.StatusOK, response)
}

// Error writes an error response with the given status code.
func (rw *ResponseWriter) Error(statusCode int, code, message string) {
	rw.ErrorWithDetails(statusCode, code, message, nil)
}

// ErrorWithDetails writes an error response with additional details.
func (rw *ResponseWriter) ErrorWithDetails(statusCode int, code, message string, details any) {
	requestID := logging.RequestIDFromContext(rw.r.Context())

	response := APIResponse{
		Success: false,
		Error: &APIError{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: requestID,
		},
		Meta: &APIMeta{
			RequestID:  requestID,
			Timestamp:  time.Now().UTC(),
			DurationMs: time.Since(rw.startTime).Milliseconds(),
		},
	}
	rw.writeJSON(statusCode, response)
}

// BadRequest writes a 400 Bad Request error.
func (rw *ResponseWriter) BadRequest(message string) {
	rw.Error(http.StatusBadRequest, ErrCodeBadRequest, message)
}

// ValidationFailed writes a 400 error with validation details.
func (rw *ResponseWriter) ValidationFailed(message string, details any) {
	rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidationFailed, message, details)
}

// NotFound writes a 404 Not Found error.
func (rw *ResponseWriter) NotFound(message string) {
	rw.Error(http.StatusNotFound, ErrCodeNotFound, message)
}

// ComputationFailed writes a 500 error for failed model computations.
func (rw *ResponseWriter) ComputationFailed(err error) {
	logging.Error().Err(err).Msg("Model computation failed")
	rw.Error(http.StatusInternalServerError, ErrCodeComputationFailed, "Computation failed")
}

// PublishFailed writes a 500 error for failed synchronous event publishes.
func (rw *ResponseWriter) PublishFailed(err error) {
	logging.Error().Err(err).Msg("Event publish failed")
	rw.Error(http.StatusInternalServerError, ErrCodePublishFailed, "Failed to track event")
}

// InternalError writes a 500 Internal Server Error.
func (rw *ResponseWriter) InternalError(err error, message string) {
	logging.Error().Err(err).Msg(message)
	rw.Error(http.StatusInternalServerError, ErrCodeInternalError, message)
}

// writeJSON writes a JSON response with proper headers.
func (rw *ResponseWriter) writeJSON(statusCode int, data any) {
	rw.w.Header().Set("Content-Type", "application/json; charset=utf-8")
	rw.w.WriteHeader(statusCode)

	if err := json.NewEncoder(rw.w).Encode(data); err != nil {
		logging.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// Microservices AI Platform - Intelligent Data Processing and Predictions
// Copyright 2026 Shibam (shibam-max)
// SPDX-License-Identifier: MIT
// https://github.com/shibam-max/microservices-ai-platform

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"WARN", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"disabled", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestInitAndLog(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	Info().Str("component", "test").Msg("hello")

	out := buf.String()
	if !strings.Contains(out, `"component":"test"`) {
		t.Errorf("expected structured field in output, got %q", out)
	}
	if !strings.Contains(out, `"message":"hello"`) {
		t.Errorf("expected message in output, got %q", out)
	}
}

func TestRequestIDContext(t *testing.T) {
	ctx := context.Background()

	if got := RequestIDFromContext(ctx); got != "" {
		t.Errorf("expected empty request ID for fresh context, got %q", got)
	}

	ctx = ContextWithRequestID(ctx, "req-123")
	if got := RequestIDFromContext(ctx); got != "req-123" {
		t.Errorf("expected req-123, got %q", got)
	}
}

func TestUserIDContext(t *testing.T) {
	ctx := ContextWithUserID(context.Background(), "u1")
	if got := UserIDFromContext(ctx); got != "u1" {
		t.Errorf("expected u1, got %q", got)
	}
	if got := UserIDFromContext(context.Background()); got != "" {
		t.Errorf("expected empty user ID, got %q", got)
	}
}

func TestGenerateRequestID(t *testing.T) {
	a := GenerateRequestID()
	b := GenerateRequestID()
	if a == b {
		t.Error("expected unique request IDs")
	}
	if len(a) != 36 {
		t.Errorf("expected UUID format, got %q", a)
	}
}

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	slogger := slog.New(NewSlogHandler())
	slogger.Info("supervisor event", slog.String("service", "http-server"))

	out := buf.String()
	if !strings.Contains(out, `"service":"http-server"`) {
		t.Errorf("expected slog attribute in zerolog output, got %q", out)
	}
	if !strings.Contains(out, "supervisor event") {
		t.Errorf("expected message in output, got %q", out)
	}
}

func TestSlogHandlerEnabled(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	h := NewSlogHandler()
	if h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug should be disabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled at warn level")
	}
}

// Microservices AI Platform - Intelligent Data Processing and Predictions
// Copyright 2026 Shibam (shibam-max)
// SPDX-License-Identifier: MIT
// https://github.com/shibam-max/microservices-ai-platform

package validation

import (
	"errors"
	"fmt"
	"html"
	"math"
	"regexp"
	"strings"
)

const (
	// maxStringLength caps sanitized free-form strings.
	maxStringLength = 1000

	// maxFeatures caps the prediction feature vector length.
	maxFeatures = 1000

	// maxLogMessageLength caps sanitized log messages.
	maxLogMessageLength = 500
)

var (
	// ErrEmptyModelName is returned for an empty model name.
	ErrEmptyModelName = errors.New("model name cannot be empty")

	// ErrInvalidModelName is returned when a model name contains characters
	// outside [a-zA-Z0-9_-].
	ErrInvalidModelName = errors.New("invalid model name format")

	// ErrEmptyFeatures is returned for an empty feature vector.
	ErrEmptyFeatures = errors.New("features cannot be empty")

	// ErrNonFiniteFeature is returned when a feature is NaN or infinite.
	ErrNonFiniteFeature = errors.New("all features must be finite numbers")
)

// modelNamePattern restricts model names to alphanumerics, underscore, and
// hyphen, which also rules out path traversal.
var modelNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// dangerousChars are stripped from free-form input after HTML escaping.
var dangerousChars = regexp.MustCompile(`[<>"';\\]`)

// controlChars matches C0 and C1 control characters for log sanitization.
var controlChars = regexp.MustCompile(`[\x00-\x1f\x7f-\x9f]`)

// SanitizeString sanitizes free-form string input: HTML-escapes, strips
// dangerous characters, caps length, and trims surrounding whitespace.
func SanitizeString(value string) string {
	sanitized := html.EscapeString(value)
	sanitized = dangerousChars.ReplaceAllString(sanitized, "")

	if len(sanitized) > maxStringLength {
		sanitized = sanitized[:maxStringLength]
	}

	return strings.TrimSpace(sanitized)
}

// ValidateModelName checks that a model name is non-empty and restricted to
// safe characters.
func ValidateModelName(modelName string) error {
	if modelName == "" {
		return ErrEmptyModelName
	}
	if !modelNamePattern.MatchString(modelName) {
		return ErrInvalidModelName
	}
	return nil
}

// ValidateFeatures checks that a feature vector is non-empty, within the
// size cap, and contains only finite values.
func ValidateFeatures(features []float64) error {
	if len(features) == 0 {
		return ErrEmptyFeatures
	}
	if len(features) > maxFeatures {
		return fmt.Errorf("too many features (max %d, got %d)", maxFeatures, len(features))
	}
	for i, f := range features {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("feature %d: %w", i, ErrNonFiniteFeature)
		}
	}
	return nil
}

// SanitizeLogMessage prepares untrusted text for inclusion in log output:
// newlines become spaces, control characters are removed, and long messages
// are truncated with an ellipsis.
func SanitizeLogMessage(message string) string {
	sanitized := strings.NewReplacer("\r", " ", "\n", " ").Replace(message)
	sanitized = controlChars.ReplaceAllString(sanitized, "")

	if len(sanitized) > maxLogMessageLength {
		sanitized = sanitized[:maxLogMessageLength] + "..."
	}

	return sanitized
}

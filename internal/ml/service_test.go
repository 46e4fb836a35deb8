// Microservices AI Platform - Intelligent Data Processing and Predictions
// Copyright 2026 Shibam (shibam-max)
// SPDX-License-Identifier: MIT
// https://github.com/shibam-max/microservices-ai-platform

package ml

import (
	"context"
	"errors"
	"testing"
	"time"
)

func loadedService(t *testing.T) *Service {
	t.Helper()
	svc := NewService()
	if err := svc.LoadModels(context.Background()); err != nil {
		t.Fatalf("LoadModels failed: %v", err)
	}
	return svc
}

func TestPredictRequiresLoadedModels(t *testing.T) {
	svc := NewService()
	_, err := svc.Predict(context.Background(), "classification", []float64{1, 2, 3}, nil)
	if !errors.Is(err, ErrModelsNotLoaded) {
		t.Errorf("expected ErrModelsNotLoaded, got %v", err)
	}
}

func TestPredictUnknownModel(t *testing.T) {
	svc := loadedService(t)
	_, err := svc.Predict(context.Background(), "nonexistent", []float64{1}, nil)
	if !errors.Is(err, ErrModelNotFound) {
		t.Errorf("expected ErrModelNotFound, got %v", err)
	}
}

func TestPredictDeterministic(t *testing.T) {
	svc := loadedService(t)
	ctx := context.Background()
	features := []float64{1.5, -2.25, 3.0}

	for _, model := range []string{"classification", "regression"} {
		a, err := svc.Predict(ctx, model, features, nil)
		if err != nil {
			t.Fatalf("Predict(%s) failed: %v", model, err)
		}
		b, err := svc.Predict(ctx, model, features, nil)
		if err != nil {
			t.Fatalf("Predict(%s) failed: %v", model, err)
		}
		if a.Prediction != b.Prediction || a.Confidence != b.Confidence {
			t.Errorf("%s: identical inputs diverged: %+v vs %+v", model, a, b)
		}
	}
}

func TestPredictClassification(t *testing.T) {
	svc := loadedService(t)

	result, err := svc.Predict(context.Background(), "classification", []float64{1, 2, 3}, nil)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	class, ok := result.Prediction.(int)
	if !ok || class < 0 || class > 2 {
		t.Errorf("expected class in [0,2], got %v", result.Prediction)
	}
	if result.Confidence < 0.6 || result.Confidence > 0.95 {
		t.Errorf("confidence %v outside [0.6, 0.95]", result.Confidence)
	}
	if result.ModelVersion != "1.0.0" {
		t.Errorf("model version = %q", result.ModelVersion)
	}
	if result.FeaturesUsed != 3 {
		t.Errorf("features used = %d, want 3", result.FeaturesUsed)
	}
}

func TestPredictRegression(t *testing.T) {
	svc := loadedService(t)

	result, err := svc.Predict(context.Background(), "regression", []float64{0.5, 0.25}, nil)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	value, ok := result.Prediction.(float64)
	if !ok || value < 0 || value >= 1 {
		t.Errorf("expected value in [0,1), got %v", result.Prediction)
	}
	if result.Confidence != 0.85 {
		t.Errorf("regression confidence = %v, want 0.85", result.Confidence)
	}
}

func TestPredictCustomModels(t *testing.T) {
	svc := loadedService(t)
	ctx := context.Background()

	result, err := svc.Predict(ctx, "recommendation", []float64{1}, nil)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if result.Confidence != 0.90 {
		t.Errorf("recommendation confidence = %v, want 0.90", result.Confidence)
	}

	result, err = svc.Predict(ctx, "sentiment", []float64{1}, nil)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if result.Prediction != "positive" || result.Confidence != 0.90 {
		t.Errorf("sentiment prediction = (%v, %v)", result.Prediction, result.Confidence)
	}
}

func TestRecommend(t *testing.T) {
	svc := loadedService(t)

	items, err := svc.Recommend(context.Background(), "user-1", "product", 3, nil)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}

	first := items[0]
	if first.ItemID != "product_1" {
		t.Errorf("item_id = %q, want product_1", first.ItemID)
	}
	if first.Title != "Recommended Product 1" {
		t.Errorf("title = %q, want Recommended Product 1", first.Title)
	}
	if first.Score != 0.95 {
		t.Errorf("score = %v, want 0.95", first.Score)
	}
	if first.Category != "product" {
		t.Errorf("category = %q", first.Category)
	}
	if first.Reason != "Based on your preferences and similar users" {
		t.Errorf("reason = %q", first.Reason)
	}

	// Scores descend in 0.05 steps.
	if items[1].Score != 0.90 || items[2].Score != 0.85 {
		t.Errorf("scores = %v, %v; want 0.90, 0.85", items[1].Score, items[2].Score)
	}
}

func TestAnalyzeSentiment(t *testing.T) {
	svc := loadedService(t)
	ctx := context.Background()

	tests := []struct {
		name           string
		text           string
		wantSentiment  string
		wantConfidence float64
		wantJoy        float64
		wantSadness    float64
	}{
		{
			name:           "single positive word",
			text:           "This is a good product",
			wantSentiment:  "positive",
			wantConfidence: 0.7,
			wantJoy:        0.8,
			wantSadness:    0.2,
		},
		{
			name:           "multiple positive words",
			text:           "good great excellent amazing",
			wantSentiment:  "positive",
			wantConfidence: 0.9, // capped at 0.9
			wantJoy:        0.8,
			wantSadness:    0.2,
		},
		{
			name:           "negative",
			text:           "terrible and disappointing",
			wantSentiment:  "negative",
			wantConfidence: 0.8,
			wantJoy:        0.2,
			wantSadness:    0.8,
		},
		{
			name:           "neutral",
			text:           "the sky is blue",
			wantSentiment:  "neutral",
			wantConfidence: 0.7,
			wantJoy:        0.2,
			wantSadness:    0.2,
		},
		{
			name:           "balanced counts are neutral",
			text:           "good but terrible",
			wantSentiment:  "neutral",
			wantConfidence: 0.7,
			wantJoy:        0.2,
			wantSadness:    0.2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.AnalyzeSentiment(ctx, tt.text)
			if err != nil {
				t.Fatalf("AnalyzeSentiment failed: %v", err)
			}
			if result.Sentiment != tt.wantSentiment {
				t.Errorf("sentiment = %q, want %q", result.Sentiment, tt.wantSentiment)
			}
			if result.Confidence != tt.wantConfidence {
				t.Errorf("confidence = %v, want %v", result.Confidence, tt.wantConfidence)
			}
			if result.Emotions["joy"] != tt.wantJoy {
				t.Errorf("joy = %v, want %v", result.Emotions["joy"], tt.wantJoy)
			}
			if result.Emotions["sadness"] != tt.wantSadness {
				t.Errorf("sadness = %v, want %v", result.Emotions["sadness"], tt.wantSadness)
			}
			if result.Emotions["anger"] != 0.1 || result.Emotions["fear"] != 0.1 {
				t.Errorf("anger/fear = %v/%v, want 0.1/0.1", result.Emotions["anger"], result.Emotions["fear"])
			}
		})
	}
}

func TestModels(t *testing.T) {
	svc := loadedService(t)
	fixed := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	svc.SetClock(func() time.Time { return fixed })

	summaries := svc.Models()
	if len(summaries) != 4 {
		t.Fatalf("expected 4 models, got %d", len(summaries))
	}

	wantNames := []string{"classification", "recommendation", "regression", "sentiment"}
	for i, want := range wantNames {
		if summaries[i].Name != want {
			t.Errorf("models[%d] = %q, want %q", i, summaries[i].Name, want)
		}
		if summaries[i].Status != "active" || summaries[i].Version != "1.0.0" {
			t.Errorf("models[%d] = %+v", i, summaries[i])
		}
		if !summaries[i].LastUpdated.Equal(fixed) {
			t.Errorf("models[%d] last_updated = %v", i, summaries[i].LastUpdated)
		}
	}

	// Sentiment is reported as an NLP model.
	for _, s := range summaries {
		if s.Name == "sentiment" && s.Type != "nlp" {
			t.Errorf("sentiment type = %q, want nlp", s.Type)
		}
	}
}

func TestModelInfo(t *testing.T) {
	svc := loadedService(t)

	info, err := svc.ModelInfo("classification")
	if err != nil {
		t.Fatalf("ModelInfo failed: %v", err)
	}
	if info.Type != "classification" {
		t.Errorf("type = %q", info.Type)
	}
	if len(info.InputFeatures) != 3 || info.InputFeatures[0] != "feature_1" {
		t.Errorf("input features = %v", info.InputFeatures)
	}
	if info.PerformanceMetrics["accuracy"] != 0.92 ||
		info.PerformanceMetrics["precision"] != 0.89 ||
		info.PerformanceMetrics["recall"] != 0.91 {
		t.Errorf("performance metrics = %v", info.PerformanceMetrics)
	}
	if info.CreatedAt != "2024-01-01T00:00:00Z" {
		t.Errorf("created_at = %q", info.CreatedAt)
	}

	if _, err := svc.ModelInfo("nonexistent"); !errors.Is(err, ErrModelNotFound) {
		t.Errorf("expected ErrModelNotFound, got %v", err)
	}
}

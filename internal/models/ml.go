// Microservices AI Platform - Intelligent Data Processing and Predictions
// Copyright 2026 Shibam (shibam-max)
// SPDX-License-Identifier: MIT
// https://github.com/shibam-max/microservices-ai-platform

package models

import "time"

// PredictionRequest is the input for POST /api/v1/ml/predict.
type PredictionRequest struct {
	ModelName string         `json:"model_name" validate:"required"`
	Features  []float64      `json:"features" validate:"required"`
	UserID    string         `json:"user_id,omitempty"`
	Context   map[string]any `json:"context,omitempty"`
}

// PredictionResult is the model output before response assembly.
type PredictionResult struct {
	Prediction   any     `json:"prediction"`
	Confidence   float64 `json:"confidence"`
	ModelVersion string  `json:"model_version"`
	FeaturesUsed int     `json:"features_used"`
}

// PredictionResponse is the body for POST /api/v1/ml/predict.
type PredictionResponse struct {
	Prediction       any       `json:"prediction"`
	Confidence       float64   `json:"confidence"`
	ModelVersion     string    `json:"model_version"`
	ProcessingTimeMs float64   `json:"processing_time_ms"`
	Cached           bool      `json:"cached"`
	Timestamp        time.Time `json:"timestamp"`
}

// RecommendationRequest is the input for POST /api/v1/ml/recommend.
type RecommendationRequest struct {
	UserID             string         `json:"user_id" validate:"required"`
	ItemType           string         `json:"item_type" validate:"required"`
	NumRecommendations int            `json:"num_recommendations" validate:"omitempty,min=1,max=100"`
	Filters            map[string]any `json:"filters,omitempty"`
}

// RecommendationItem is a single scored recommendation.
type RecommendationItem struct {
	ItemID   string  `json:"item_id"`
	Title    string  `json:"title"`
	Score    float64 `json:"score"`
	Category string  `json:"category"`
	Reason   string  `json:"reason"`
}

// RecommendationResponse is the body for POST /api/v1/ml/recommend.
type RecommendationResponse struct {
	UserID          string               `json:"user_id"`
	Recommendations []RecommendationItem `json:"recommendations"`
	GeneratedAt     time.Time            `json:"generated_at"`
	Algorithm       string               `json:"algorithm"`
	Cached          bool                 `json:"cached"`
}

// SentimentRequest is the input for POST /api/v1/ml/sentiment.
type SentimentRequest struct {
	Text     string `json:"text" validate:"required"`
	Language string `json:"language,omitempty"`
}

// SentimentResult is the classifier output.
type SentimentResult struct {
	Sentiment  string             `json:"sentiment"` // "positive", "negative", "neutral"
	Confidence float64            `json:"confidence"`
	Emotions   map[string]float64 `json:"emotions"`
}

// SentimentResponse is the body for POST /api/v1/ml/sentiment.
type SentimentResponse struct {
	Text        string             `json:"text"`
	Sentiment   string             `json:"sentiment"`
	Confidence  float64            `json:"confidence"`
	Emotions    map[string]float64 `json:"emotions"`
	Language    string             `json:"language"`
	ProcessedAt time.Time          `json:"processed_at"`
}

// ModelSummary is a single entry in the GET /api/v1/ml/models listing.
type ModelSummary struct {
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Version     string    `json:"version"`
	Status      string    `json:"status"`
	LastUpdated time.Time `json:"last_updated"`
}

// ModelListResponse is the body for GET /api/v1/ml/models.
type ModelListResponse struct {
	Models      []ModelSummary `json:"models"`
	TotalCount  int            `json:"total_count"`
	RetrievedAt time.Time      `json:"retrieved_at"`
}

// ModelInfo is the body for GET /api/v1/ml/models/{name}/info.
type ModelInfo struct {
	Name               string             `json:"name"`
	Type               string             `json:"type"`
	Version            string             `json:"version"`
	Description        string             `json:"description"`
	InputFeatures      []string           `json:"input_features"`
	OutputFormat       string             `json:"output_format"`
	PerformanceMetrics map[string]float64 `json:"performance_metrics"`
	CreatedAt          string             `json:"created_at"`
	LastUpdated        time.Time          `json:"last_updated"`
}

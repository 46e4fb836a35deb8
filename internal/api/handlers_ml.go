// Microservices AI Platform - Intelligent Data Processing and Predictions
// Copyright 2026 Shibam (shibam-max)
// SPDX-License-Identifier: MIT
// https://github.com/shibam-max/microservices-ai-platform

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/go-chi/chi/v5"

	"github.com/shibam-max/microservices-ai-platform/internal/cache"
	"github.com/shibam-max/microservices-ai-platform/internal/ml"
	"github.com/shibam-max/microservices-ai-platform/internal/models"
	"github.com/shibam-max/microservices-ai-platform/internal/validation"
)

// defaultRecommendations is the item count when the request omits one.
const defaultRecommendations = 10

// Predict handles POST /api/v1/ml/predict. Results are cached by model
// name and feature fingerprint; repeated identical requests are served
// from the cache until the prediction TTL expires.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	start := time.Now()

	var req models.PredictionRequest
	if !decodeJSON(rw, r, &req) {
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationFailed(apiErr.Message, apiErr.Details)
		return
	}
	if err := validation.ValidateModelName(req.ModelName); err != nil {
		rw.ValidationFailed(err.Error(), nil)
		return
	}
	if err := validation.ValidateFeatures(req.Features); err != nil {
		rw.ValidationFailed(err.Error(), nil)
		return
	}

	h.accountant.Record(r.Context(), "predict", requestUserID(r, req.UserID))

	key := cache.PredictionKey(req.ModelName, req.Features)
	data, cached, err := h.orchestrator.GetOrCompute(r.Context(), key, h.cfg.Cache.PredictionTTL,
		func(ctx context.Context) ([]byte, error) {
			result, err := h.ml.Predict(ctx, req.ModelName, req.Features, req.Context)
			if err != nil {
				return nil, err
			}
			return json.Marshal(result)
		})
	if err != nil {
		if errors.Is(err, ml.ErrModelNotFound) {
			rw.NotFound("Model not found: " + req.ModelName)
			return
		}
		rw.ComputationFailed(err)
		return
	}

	var result models.PredictionResult
	if err := json.Unmarshal(data, &result); err != nil {
		rw.InternalError(err, "Failed to decode cached prediction")
		return
	}

	rw.Success(models.PredictionResponse{
		Prediction:       result.Prediction,
		Confidence:       result.Confidence,
		ModelVersion:     result.ModelVersion,
		ProcessingTimeMs: float64(time.Since(start).Microseconds()) / 1000,
		Cached:           cached,
		Timestamp:        h.now().UTC(),
	})
}

// Recommend handles POST /api/v1/ml/recommend. Recommendation lists are
// cached per user, item type and count. A recommendations_generated
// event is queued for background delivery; its outcome never affects
// the response.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req models.RecommendationRequest
	if !decodeJSON(rw, r, &req) {
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationFailed(apiErr.Message, apiErr.Details)
		return
	}
	if req.NumRecommendations == 0 {
		req.NumRecommendations = defaultRecommendations
	}

	h.accountant.Record(r.Context(), "recommend", requestUserID(r, req.UserID))

	key := cache.RecommendationKey(req.UserID, req.ItemType, req.NumRecommendations)
	data, cached, err := h.orchestrator.GetOrCompute(r.Context(), key, h.cfg.Cache.RecommendationTTL,
		func(ctx context.Context) ([]byte, error) {
			items, err := h.ml.Recommend(ctx, req.UserID, req.ItemType, req.NumRecommendations, req.Filters)
			if err != nil {
				return nil, err
			}
			return json.Marshal(items)
		})
	if err != nil {
		rw.ComputationFailed(err)
		return
	}

	var items []models.RecommendationItem
	if err := json.Unmarshal(data, &items); err != nil {
		rw.InternalError(err, "Failed to decode cached recommendations")
		return
	}

	h.emitter.Emit("recommendations_generated", map[string]any{
		"user_id":               req.UserID,
		"item_type":             req.ItemType,
		"recommendations_count": len(items),
	})

	rw.Success(models.RecommendationResponse{
		UserID:          req.UserID,
		Recommendations: items,
		GeneratedAt:     h.now().UTC(),
		Algorithm:       h.ml.Algorithm(),
		Cached:          cached,
	})
}

// Sentiment handles POST /api/v1/ml/sentiment. Sentiment analysis is
// cheap and text inputs rarely repeat, so results are not cached.
func (h *Handler) Sentiment(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req models.SentimentRequest
	if !decodeJSON(rw, r, &req) {
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationFailed(apiErr.Message, apiErr.Details)
		return
	}
	if req.Language == "" {
		req.Language = "en"
	}

	h.accountant.Record(r.Context(), "sentiment", requestUserID(r, ""))

	text := validation.SanitizeString(req.Text)
	result, err := h.ml.AnalyzeSentiment(r.Context(), text)
	if err != nil {
		rw.ComputationFailed(err)
		return
	}

	rw.Success(models.SentimentResponse{
		Text:        text,
		Sentiment:   result.Sentiment,
		Confidence:  result.Confidence,
		Emotions:    result.Emotions,
		Language:    req.Language,
		ProcessedAt: h.now().UTC(),
	})
}

// Models handles GET /api/v1/ml/models.
func (h *Handler) Models(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	summaries := h.ml.Models()
	rw.Success(models.ModelListResponse{
		Models:      summaries,
		TotalCount:  len(summaries),
		RetrievedAt: h.now().UTC(),
	})
}

// ModelInfo handles GET /api/v1/ml/models/{name}/info.
func (h *Handler) ModelInfo(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	name := chi.URLParam(r, "name")
	info, err := h.ml.ModelInfo(name)
	if err != nil {
		rw.NotFound("Model not found: " + name)
		return
	}
	rw.Success(info)
}

// Microservices AI Platform - Intelligent Data Processing and Predictions
// Copyright 2026 Shibam (shibam-max)
// SPDX-License-Identifier: MIT
// https://github.com/shibam-max/microservices-ai-platform

package api

import (
	"hash/fnv"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/shibam-max/microservices-ai-platform/internal/models"
	"github.com/shibam-max/microservices-ai-platform/internal/usage"
)

// usageDaysDefault is the analysis window when ?days= is omitted.
const usageDaysDefault = 7

// Representative service-level figures reported until real monitoring
// data is wired up.
const (
	stubAvgResponseTimeMs = 45.2
	stubCacheHitRate      = 0.78
	stubErrorRate         = 0.02
	stubActiveModels      = 4
)

// Usage handles GET /api/v1/analytics/usage. Counters are sorted
// descending by request volume; a failing store surfaces as a 500.
// ?user_id= narrows to one user's counters and ?date= (2006-01-02) to
// one UTC calendar day; unscoped requests return the global counters.
func (h *Handler) Usage(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	days := usageDaysDefault
	if v := r.URL.Query().Get("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 30 {
			rw.ValidationFailed("days must be an integer between 1 and 30", nil)
			return
		}
		days = parsed
	}

	var (
		stats []usage.EndpointCount
		err   error
	)
	switch {
	case r.URL.Query().Get("user_id") != "":
		stats, err = h.accountant.UserStats(r.Context(), r.URL.Query().Get("user_id"))
	case r.URL.Query().Get("date") != "":
		day, parseErr := time.Parse("2006-01-02", r.URL.Query().Get("date"))
		if parseErr != nil {
			rw.ValidationFailed("date must be formatted as 2006-01-02", nil)
			return
		}
		stats, err = h.accountant.DailyStats(r.Context(), day)
	default:
		stats, err = h.accountant.Stats(r.Context())
	}
	if err != nil {
		rw.InternalError(err, "Failed to read usage counters")
		return
	}

	entries := make([]models.EndpointUsage, 0, len(stats))
	for _, s := range stats {
		entries = append(entries, models.EndpointUsage{
			Endpoint:          s.Endpoint,
			RequestCount:      s.Count,
			LastAccessed:      h.now().UTC().Add(-time.Hour),
			AverageDailyUsage: float64(s.Count) / float64(days),
		})
	}
	rw.Success(entries)
}

// Performance handles GET /api/v1/analytics/performance. Total
// predictions come from the usage counters.
func (h *Handler) Performance(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	stats, err := h.accountant.Stats(r.Context())
	if err != nil {
		rw.InternalError(err, "Failed to read usage counters")
		return
	}

	var total int64
	for _, s := range stats {
		total += s.Count
	}

	rw.Success(models.PerformanceMetrics{
		TotalPredictions:    total,
		AverageResponseTime: stubAvgResponseTimeMs,
		CacheHitRate:        stubCacheHitRate,
		ErrorRate:           stubErrorRate,
		ActiveModels:        stubActiveModels,
		Timestamp:           h.now().UTC(),
	})
}

// ModelPerformance handles GET /api/v1/analytics/models/performance.
// With ?model= it returns that model's metrics; otherwise a map of all
// models with deterministic per-model variation.
func (h *Handler) ModelPerformance(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if name := r.URL.Query().Get("model"); name != "" {
		rw.Success(models.ModelPerformance{
			ModelName:        name,
			Accuracy:         0.92,
			Precision:        0.89,
			Recall:           0.91,
			F1Score:          0.90,
			InferenceTimeMs:  25.5,
			TotalPredictions: 1250,
		})
		return
	}

	all := make(map[string]models.ModelPerformance, 4)
	for _, name := range []string{"classification", "regression", "recommendation", "sentiment"} {
		v := nameHash(name)
		all[name] = models.ModelPerformance{
			ModelName:        name,
			Accuracy:         0.90 + float64(v%10)/100,
			InferenceTimeMs:  float64(20 + v%20),
			TotalPredictions: int64(1000 + v%1000),
		}
	}
	rw.Success(all)
}

// trendShape maps a period to its point count and interval.
var trendShapes = map[string]struct {
	points   int
	interval string
	step     time.Duration
}{
	"1h":  {points: 60, interval: "minute", step: time.Minute},
	"24h": {points: 24, interval: "hour", step: time.Hour},
	"7d":  {points: 7, interval: "day", step: 24 * time.Hour},
	"30d": {points: 30, interval: "day", step: 24 * time.Hour},
}

// Trends handles GET /api/v1/analytics/trends. The series is synthesized
// deterministically from the metric name until real time-series storage
// exists.
func (h *Handler) Trends(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	metric := r.URL.Query().Get("metric")
	if metric == "" {
		rw.ValidationFailed("metric query parameter is required", nil)
		return
	}

	period := r.URL.Query().Get("period")
	if period == "" {
		period = "24h"
	}
	shape, ok := trendShapes[period]
	if !ok {
		shape = trendShapes["30d"]
		period = "30d"
	}

	now := h.now().UTC()
	data := make([]models.TrendPoint, 0, shape.points)
	for i := 0; i < shape.points; i++ {
		// Deterministic variation in [-20, 30] around the base value.
		v := nameHash(metric + ":" + strconv.Itoa(i))
		data = append(data, models.TrendPoint{
			Timestamp: now.Add(-time.Duration(shape.points-i) * shape.step),
			Value:     100 + int64(v%51) - 20,
			Metric:    metric,
		})
	}

	rw.Success(models.TrendResponse{
		Metric:     metric,
		Period:     period,
		Interval:   shape.interval,
		DataPoints: len(data),
		Data:       data,
	})
}

// Dashboard handles GET /api/v1/analytics/dashboard.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	stats, err := h.accountant.Stats(r.Context())
	if err != nil {
		rw.InternalError(err, "Failed to read usage counters")
		return
	}

	var total int64
	for _, s := range stats {
		total += s.Count
	}

	top := make([]models.TopEndpoint, 0, 5)
	for i, s := range stats {
		if i == 5 {
			break
		}
		top = append(top, models.TopEndpoint{Endpoint: s.Endpoint, Requests: s.Count})
	}

	now := h.now().UTC()
	activity := make([]models.ActivityEntry, 0, 5)
	for i := 0; i < 5; i++ {
		activity = append(activity, models.ActivityEntry{
			Timestamp: now.Add(-time.Duration(i) * time.Minute),
			Activity:  "Prediction request processed",
			Status:    "success",
		})
	}

	rw.Success(models.DashboardResponse{
		Overview: models.DashboardOverview{
			TotalRequests:       total,
			ActiveModels:        stubActiveModels,
			CacheHitRate:        stubCacheHitRate,
			AverageResponseTime: stubAvgResponseTimeMs,
		},
		TopEndpoints: top,
		SystemHealth: map[string]float64{
			"cpu_usage":    65.2,
			"memory_usage": 78.5,
			"disk_usage":   45.1,
			"network_io":   125.6,
		},
		RecentActivity: activity,
		GeneratedAt:    now,
	})
}

// TrackEvent handles POST /api/v1/analytics/events/track. The event is
// enriched and published synchronously; a failed publish is a 500 so the
// caller knows the event was lost. The event counter only increments
// after a successful publish.
func (h *Handler) TrackEvent(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var event map[string]any
	if !decodeJSON(rw, r, &event) {
		return
	}
	if event == nil {
		event = map[string]any{}
	}

	eventType := "unknown"
	if v, ok := event["event_type"].(string); ok && v != "" {
		eventType = v
	}

	event["timestamp"] = h.now().UTC().Format(time.RFC3339)
	event["service"] = "ai-ml-service"

	if err := h.publisher.Publish(r.Context(), eventType, event); err != nil {
		rw.PublishFailed(err)
		return
	}

	h.accountant.CountEvent(r.Context(), eventType)

	rw.Success(models.TrackEventResponse{
		Status:  "success",
		Message: "Event tracked successfully",
		EventID: "evt_" + uuid.NewString(),
	})
}

// AnalyticsHealthCheck handles GET /api/v1/analytics/health-check with a
// cache store round-trip probe.
func (h *Handler) AnalyticsHealthCheck(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	storeStatus := "healthy"
	if err := h.store.Set(r.Context(), "health_check", "ok", time.Minute); err != nil {
		storeStatus = "unhealthy"
	} else {
		value, found, err := h.store.Get(r.Context(), "health_check")
		if err != nil {
			storeStatus = "unhealthy"
		} else if !found || value != "ok" {
			storeStatus = "degraded"
		}
	}

	overall := "healthy"
	if storeStatus != "healthy" {
		overall = "degraded"
	}

	rw.Success(models.HealthCheckResponse{
		Status: overall,
		Components: map[string]string{
			"cache_store":      storeStatus,
			"analytics_engine": "healthy",
		},
		Timestamp:     h.now().UTC(),
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	})
}

// nameHash folds a string into a small stable number for synthesized
// metric variation.
func nameHash(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}

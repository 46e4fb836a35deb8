// Microservices AI Platform - Intelligent Data Processing and Predictions
// Copyright 2026 Shibam (shibam-max)
// SPDX-License-Identifier: MIT
// https://github.com/shibam-max/microservices-ai-platform

package models

import "time"

// EndpointUsage is a single entry in GET /api/v1/analytics/usage, sorted
// descending by request count.
type EndpointUsage struct {
	Endpoint          string    `json:"endpoint"`
	RequestCount      int64     `json:"request_count"`
	LastAccessed      time.Time `json:"last_accessed"`
	AverageDailyUsage float64   `json:"average_daily_usage"`
}

// PerformanceMetrics is the body for GET /api/v1/analytics/performance.
// Total predictions come from the usage counters; the remaining fields are
// representative values until real monitoring is wired up.
type PerformanceMetrics struct {
	TotalPredictions    int64     `json:"total_predictions"`
	AverageResponseTime float64   `json:"average_response_time"`
	CacheHitRate        float64   `json:"cache_hit_rate"`
	ErrorRate           float64   `json:"error_rate"`
	ActiveModels        int       `json:"active_models"`
	Timestamp           time.Time `json:"timestamp"`
}

// ModelPerformance holds per-model quality metrics for
// GET /api/v1/analytics/models/performance.
type ModelPerformance struct {
	ModelName        string  `json:"model_name"`
	Accuracy         float64 `json:"accuracy"`
	Precision        float64 `json:"precision,omitempty"`
	Recall           float64 `json:"recall,omitempty"`
	F1Score          float64 `json:"f1_score,omitempty"`
	InferenceTimeMs  float64 `json:"inference_time_ms"`
	TotalPredictions int64   `json:"total_predictions"`
}

// TrendPoint is a single data point in a trend series.
type TrendPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     int64     `json:"value"`
	Metric    string    `json:"metric"`
}

// TrendResponse is the body for GET /api/v1/analytics/trends.
type TrendResponse struct {
	Metric     string       `json:"metric"`
	Period     string       `json:"period"`
	Interval   string       `json:"interval"`
	DataPoints int          `json:"data_points"`
	Data       []TrendPoint `json:"data"`
}

// DashboardOverview summarizes service activity for the dashboard.
type DashboardOverview struct {
	TotalRequests       int64   `json:"total_requests"`
	ActiveModels        int     `json:"active_models"`
	CacheHitRate        float64 `json:"cache_hit_rate"`
	AverageResponseTime float64 `json:"average_response_time"`
}

// TopEndpoint is a dashboard entry for a high-traffic endpoint.
type TopEndpoint struct {
	Endpoint string `json:"endpoint"`
	Requests int64  `json:"requests"`
}

// ActivityEntry is a recent-activity line on the dashboard.
type ActivityEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Activity  string    `json:"activity"`
	Status    string    `json:"status"`
}

// DashboardResponse is the body for GET /api/v1/analytics/dashboard.
type DashboardResponse struct {
	Overview       DashboardOverview  `json:"overview"`
	TopEndpoints   []TopEndpoint      `json:"top_endpoints"`
	SystemHealth   map[string]float64 `json:"system_health"`
	RecentActivity []ActivityEntry    `json:"recent_activity"`
	GeneratedAt    time.Time          `json:"generated_at"`
}

// TrackEventResponse is the body for POST /api/v1/analytics/events/track.
type TrackEventResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	EventID string `json:"event_id"`
}

// HealthCheckResponse is the body for GET /api/v1/analytics/health-check.
type HealthCheckResponse struct {
	Status        string            `json:"status"` // "healthy", "degraded", "unhealthy"
	Components    map[string]string `json:"components"`
	Timestamp     time.Time         `json:"timestamp"`
	UptimeSeconds float64           `json:"uptime_seconds"`
}

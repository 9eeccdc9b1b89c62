// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package models

import (
	"time"
)

// APIResponse is the envelope used by all HTTP endpoints.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"provenance": "realtime", "items": [...]},
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z", "query_time_ms": 4}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Common error codes:
//   - VALIDATION_ERROR: Invalid input parameters
//   - TRAINING_IN_PROGRESS: A retrain is already running
//   - INSUFFICIENT_DATA: No interactions to train on
//   - TRAINING_FAILED: Infrastructure failure during training
//   - RATE_LIMIT_EXCEEDED: Too many requests
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RecommendationItem is one recommended movie.
// Title and the other catalog fields are only set when details were requested.
type RecommendationItem struct {
	MovieID    string  `json:"movie_id"`
	Score      float64 `json:"score"`
	Provenance string  `json:"provenance"`
	Movie      *Movie  `json:"movie,omitempty"`
}

// RecommendationsResponse is the payload of GET /api/v1/recommendations/{userID}.
//
// Example:
//
//	{
//	  "user_id": 4,
//	  "category": "drama",
//	  "provenance": "realtime",
//	  "items": [{"movie_id": "tt0111161", "score": 13.7, "provenance": "realtime"}]
//	}
type RecommendationsResponse struct {
	UserID     int                  `json:"user_id"`
	Category   string               `json:"category,omitempty"`
	Provenance string               `json:"provenance,omitempty"`
	Items      []RecommendationItem `json:"items"`
	Warnings   []string             `json:"warnings,omitempty"`
}

// RetrainResponse is the payload of POST /api/v1/recommendations/retrain
// and of the NATS retrain reply.
type RetrainResponse struct {
	Success      bool    `json:"success"`
	Message      string  `json:"message"`
	RunID        string  `json:"run_id,omitempty"`
	Version      int64   `json:"version,omitempty"`
	Items        int     `json:"items,omitempty"`
	Users        int     `json:"users,omitempty"`
	Interactions int     `json:"interactions,omitempty"`
	DurationMS   float64 `json:"duration_ms"`
}

// ModelStatusResponse is the payload of GET /api/v1/recommendations/status.
type ModelStatusResponse struct {
	Loaded       bool       `json:"loaded"`
	Version      int64      `json:"version,omitempty"`
	Items        int        `json:"items"`
	Users        int        `json:"users"`
	Interactions int        `json:"interactions"`
	BuiltAt      *time.Time `json:"built_at,omitempty"`
	Training     bool       `json:"training"`
}

// HealthResponse is the payload of the health endpoints.
type HealthResponse struct {
	Status   string            `json:"status"`
	Checks   map[string]string `json:"checks,omitempty"`
	Uptime   string            `json:"uptime,omitempty"`
	Snapshot int64             `json:"snapshot_version,omitempty"`
}

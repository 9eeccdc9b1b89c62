// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/cinerec/internal/logging"
	"github.com/tomtom215/cinerec/internal/models"
	"github.com/tomtom215/cinerec/internal/recommend"
	"github.com/tomtom215/cinerec/internal/supervisor/services"
	"github.com/tomtom215/cinerec/internal/validation"
)

// Recommendations serves GET /api/v1/recommendations/{userID}.
//
// Query parameters:
//   - category: optional genre name
//   - limit: number of items; non-positive selects the default
//   - details: attach catalog metadata to each item
//
// The engine never fails a query. Tier failures surface as warnings and the
// response is always 200 with a (possibly empty) item list.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req, err := parseRecommendationsRequest(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, verr)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	result := h.recommender.GetRecommendations(ctx, req.UserID, req.Category, req.Limit)
	resp := models.NewRecommendationsResponse(result)

	if req.Details && h.catalog != nil && len(resp.Items) > 0 {
		movies, err := h.catalog.Movies(ctx, resp.MovieIDs())
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Int("user_id", req.UserID).Msg("Movie details unavailable")
			resp.Warnings = append(resp.Warnings, "details: catalog unavailable")
		} else {
			resp.AttachMovies(movies)
		}
	}

	logging.Ctx(ctx).Debug().
		Int("user_id", req.UserID).
		Str("category", sanitizeLogValue(req.Category)).
		Str("provenance", resp.Provenance).
		Int("items", len(resp.Items)).
		Msg("Served recommendations")

	respondSuccess(w, http.StatusOK, resp, start)
}

func parseRecommendationsRequest(r *http.Request) (RecommendationsRequest, error) {
	var req RecommendationsRequest

	userID, ok := userIDParam(r)
	if !ok {
		return req, errors.New("userID must be an integer")
	}
	limit, err := getIntParam(r, "limit", 0)
	if err != nil {
		return req, err
	}
	details, err := getBoolParam(r, "details")
	if err != nil {
		return req, err
	}

	req.UserID = userID
	req.Category = models.NormalizeGenre(r.URL.Query().Get("category"))
	req.Limit = limit
	req.Details = details
	return req, nil
}

// Retrain serves POST /api/v1/recommendations/retrain. The run executes on
// the training worker; this handler waits for its outcome.
//
// Status codes:
//   - 200: new snapshot activated
//   - 409: a run is already in progress or queued
//   - 422: not enough interactions to train
//   - 500: any other failure
func (h *Handler) Retrain(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.trainer == nil {
		respondError(w, http.StatusServiceUnavailable, "TRAINER_UNAVAILABLE", "Training worker is not running", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.retrainTimeout)
	defer cancel()

	result := h.trainer.Trigger(ctx, services.SourceHTTP)
	resp := models.NewRetrainResponse(&result)
	status := retrainStatus(&result)

	if status == http.StatusOK {
		logging.Ctx(ctx).Info().
			Str("run_id", result.RunID).
			Int64("version", result.Version).
			Msg("Retrain via API succeeded")
	} else {
		logging.Ctx(ctx).Warn().
			Int("status", status).
			Str("message", result.Message).
			Msg("Retrain via API did not activate a model")
	}

	respondJSON(w, status, &models.APIResponse{
		Status: envelopeStatus(status),
		Data:   resp,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

func retrainStatus(result *recommend.RetrainResult) int {
	switch result.Outcome() {
	case recommend.OutcomeSuccess:
		return http.StatusOK
	case recommend.OutcomeInProgress:
		return http.StatusConflict
	case recommend.OutcomeInsufficient:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// envelopeStatus is the APIResponse status for an HTTP status.
func envelopeStatus(status int) string {
	if status < http.StatusBadRequest {
		return "success"
	}
	return "error"
}

// ModelStatus serves GET /api/v1/recommendations/status.
func (h *Handler) ModelStatus(w http.ResponseWriter, _ *http.Request) {
	start := time.Now()

	st := h.recommender.Status()
	if h.trainer != nil && h.trainer.Training() {
		st.Training = true
	}
	respondSuccess(w, http.StatusOK, models.NewModelStatusResponse(&st), start)
}

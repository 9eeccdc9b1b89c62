// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/cinerec/internal/models"
	"github.com/tomtom215/cinerec/internal/validation"
)

// AddRating serves POST /api/v1/users/{userID}/ratings. A repeated rating
// of the same movie replaces the earlier one. New interactions reach the
// similarity model on the next retrain.
func (h *Handler) AddRating(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, ok := h.interactionUser(w, r)
	if !ok {
		return
	}

	var body RatingRequest
	if err := decodeBody(w, r, &body); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	rating := models.Rating{UserID: userID, MovieID: body.MovieID, Rating: body.Rating, CreatedAt: time.Now().UTC()}
	if verr := validation.ValidateStruct(&rating); verr != nil {
		respondValidationError(w, verr)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	if err := h.interactions.AddRating(ctx, &rating); err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to record rating", err)
		return
	}
	respondSuccess(w, http.StatusCreated, rating, start)
}

// AddFavorite serves POST /api/v1/users/{userID}/favorites.
func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, ok := h.interactionUser(w, r)
	if !ok {
		return
	}

	var body FavoriteRequest
	if err := decodeBody(w, r, &body); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	favorite := models.Favorite{UserID: userID, MovieID: body.MovieID, CreatedAt: time.Now().UTC()}
	if verr := validation.ValidateStruct(&favorite); verr != nil {
		respondValidationError(w, verr)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	if err := h.interactions.AddFavorite(ctx, &favorite); err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to record favorite", err)
		return
	}
	respondSuccess(w, http.StatusCreated, favorite, start)
}

// RemoveFavorite serves DELETE /api/v1/users/{userID}/favorites/{movieID}.
// Removing a favorite that does not exist succeeds.
func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.interactionUser(w, r)
	if !ok {
		return
	}

	favorite := models.Favorite{UserID: userID, MovieID: chi.URLParam(r, "movieID")}
	if verr := validation.ValidateStruct(&favorite); verr != nil {
		respondValidationError(w, verr)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	if err := h.interactions.RemoveFavorite(ctx, favorite.UserID, favorite.MovieID); err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to remove favorite", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// interactionUser resolves {userID} and checks the write path is wired.
func (h *Handler) interactionUser(w http.ResponseWriter, r *http.Request) (int, bool) {
	if h.interactions == nil {
		respondError(w, http.StatusServiceUnavailable, "INTERACTIONS_UNAVAILABLE", "Interaction store is not configured", nil)
		return 0, false
	}
	userID, ok := userIDParam(r)
	if !ok || userID < 1 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "userID must be a positive integer", nil)
		return 0, false
	}
	return userID, true
}

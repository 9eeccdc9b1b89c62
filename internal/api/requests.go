// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package api

// RecommendationsRequest is the parsed recommendation query. A non-positive
// Limit selects the engine default; larger limits are clamped by the engine.
type RecommendationsRequest struct {
	UserID   int    `validate:"required,min=1"`
	Category string `validate:"omitempty,genre"`
	Limit    int
	Details  bool
}

// RatingRequest is the body of POST /api/v1/users/{userID}/ratings.
type RatingRequest struct {
	MovieID string  `json:"movie_id" validate:"required,movieid"`
	Rating  float64 `json:"rating" validate:"required,min=1,max=10"`
}

// FavoriteRequest is the body of POST /api/v1/users/{userID}/favorites.
type FavoriteRequest struct {
	MovieID string `json:"movie_id" validate:"required,movieid"`
}

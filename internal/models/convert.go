// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package models

import (
	"time"

	"github.com/tomtom215/cinerec/internal/recommend"
)

// NewRetrainResponse converts an engine result to its wire form.
func NewRetrainResponse(r *recommend.RetrainResult) RetrainResponse {
	return RetrainResponse{
		Success:      r.Success,
		Message:      r.Message,
		RunID:        r.RunID,
		Version:      r.Version,
		Items:        r.Items,
		Users:        r.Users,
		Interactions: r.Interactions,
		DurationMS:   float64(r.Duration) / float64(time.Millisecond),
	}
}

// NewModelStatusResponse converts the engine status to its wire form.
func NewModelStatusResponse(s *recommend.Status) ModelStatusResponse {
	resp := ModelStatusResponse{
		Loaded:       s.Loaded,
		Version:      s.Version,
		Items:        s.Items,
		Users:        s.Users,
		Interactions: s.Interactions,
		Training:     s.Training,
	}
	if !s.BuiltAt.IsZero() {
		builtAt := s.BuiltAt
		resp.BuiltAt = &builtAt
	}
	return resp
}

// NewRecommendationsResponse converts an engine result. Items is never nil
// so clients always receive a JSON array.
func NewRecommendationsResponse(r *recommend.Result) RecommendationsResponse {
	resp := RecommendationsResponse{
		UserID:     r.UserID,
		Category:   r.Category,
		Provenance: r.Provenance.String(),
		Items:      make([]RecommendationItem, 0, len(r.Items)),
		Warnings:   r.Warnings,
	}
	for _, rec := range r.Items {
		resp.Items = append(resp.Items, RecommendationItem{
			MovieID:    rec.ItemID,
			Score:      rec.Score,
			Provenance: rec.Provenance.String(),
		})
	}
	return resp
}

// AttachMovies sets Movie on every item found in movies.
func (r *RecommendationsResponse) AttachMovies(movies map[string]*Movie) {
	for i := range r.Items {
		r.Items[i].Movie = movies[r.Items[i].MovieID]
	}
}

// MovieIDs returns the item IDs in ranking order.
func (r *RecommendationsResponse) MovieIDs() []string {
	ids := make([]string, len(r.Items))
	for i := range r.Items {
		ids[i] = r.Items[i].MovieID
	}
	return ids
}

// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package api

import (
	"context"
	"time"

	"github.com/tomtom215/cinerec/internal/models"
	"github.com/tomtom215/cinerec/internal/recommend"
)

// Recommender answers recommendation queries and reports model state.
// *recommend.Engine implements it.
type Recommender interface {
	GetRecommendations(ctx context.Context, userID int, category string, limit int) *recommend.Result
	Status() recommend.Status
}

// RetrainTrigger submits a run to the training worker.
// *services.RecommendService implements it.
type RetrainTrigger interface {
	Trigger(ctx context.Context, source string) recommend.RetrainResult
	Training() bool
}

// Catalog resolves movie metadata for ?details=true.
type Catalog interface {
	Movies(ctx context.Context, ids []string) (map[string]*models.Movie, error)
}

// InteractionWriter records user interactions.
type InteractionWriter interface {
	AddRating(ctx context.Context, r *models.Rating) error
	AddFavorite(ctx context.Context, f *models.Favorite) error
	RemoveFavorite(ctx context.Context, userID int, movieID string) error
}

// Pinger is a dependency checked by the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies are the collaborators of Handler. Catalog, Interactions and
// Checks are optional.
type Dependencies struct {
	Recommender  Recommender
	Trainer      RetrainTrigger
	Catalog      Catalog
	Interactions InteractionWriter

	// Checks maps a readiness check name to its probe, for example
	// "database" or "redis".
	Checks map[string]Pinger
}

// Handler serves the HTTP API.
type Handler struct {
	recommender  Recommender
	trainer      RetrainTrigger
	catalog      Catalog
	interactions InteractionWriter
	checks       map[string]Pinger

	startTime      time.Time
	requestTimeout time.Duration
	retrainTimeout time.Duration
}

// NewHandler creates a Handler. retrainTimeout bounds how long a retrain
// request waits for the worker; zero uses 30 minutes.
func NewHandler(deps Dependencies, retrainTimeout time.Duration) *Handler {
	if retrainTimeout <= 0 {
		retrainTimeout = 30 * time.Minute
	}
	return &Handler{
		recommender:    deps.Recommender,
		trainer:        deps.Trainer,
		catalog:        deps.Catalog,
		interactions:   deps.Interactions,
		checks:         deps.Checks,
		startTime:      time.Now(),
		requestTimeout: 10 * time.Second,
		retrainTimeout: retrainTimeout,
	}
}

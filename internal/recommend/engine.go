// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Note: This package has no dependencies on other internal packages. Storage,
// transport and metrics plug in through the interfaces in types.go.

// Training outcomes reported to the Observer.
const (
	OutcomeSuccess      = "success"
	OutcomeInsufficient = "insufficient_data"
	OutcomeInProgress   = "in_progress"
	OutcomeFailure      = "failure"
)

// Dependencies are the collaborators of an Engine.
type Dependencies struct {
	// Interactions is required.
	Interactions InteractionStore

	// Snapshots is required.
	Snapshots SnapshotStore

	// Precomputed enables the precomputed tier when set.
	Precomputed PrecomputedSource

	// Popularity enables the popularity tier when set.
	Popularity PopularitySource

	// Catalog scopes realtime candidates to a category when set.
	Catalog CategoryFilter

	// Observer receives engine events when set.
	Observer Observer
}

// Engine is the public facade: retraining and recommendation queries.
// It is safe for concurrent use.
type Engine struct {
	config       *Config
	manager      *Manager
	orchestrator *Orchestrator
	observer     Observer
	logger       zerolog.Logger
}

// RetrainResult reports the outcome of a retrain request.
type RetrainResult struct {
	Success      bool          `json:"success"`
	Message      string        `json:"message"`
	RunID        string        `json:"run_id"`
	Version      int64         `json:"version,omitempty"`
	Items        int           `json:"items,omitempty"`
	Users        int           `json:"users,omitempty"`
	Interactions int           `json:"interactions,omitempty"`
	Duration     time.Duration `json:"duration_ns"`

	// Err is the underlying error for failed runs; match it with errors.Is.
	Err error `json:"-"`
}

// Outcome maps the result to one of the Outcome* labels.
func (r RetrainResult) Outcome() string {
	switch {
	case r.Success:
		return OutcomeSuccess
	case errors.Is(r.Err, ErrTrainingInProgress):
		return OutcomeInProgress
	case errors.Is(r.Err, ErrInsufficientData):
		return OutcomeInsufficient
	default:
		return OutcomeFailure
	}
}

// Status describes the active model.
type Status struct {
	Loaded       bool      `json:"loaded"`
	Version      int64     `json:"version,omitempty"`
	Items        int       `json:"items"`
	Users        int       `json:"users"`
	Interactions int       `json:"interactions"`
	BuiltAt      time.Time `json:"built_at,omitempty"`
	Training     bool      `json:"training"`
}

// NewEngine creates the engine and its tier chain: precomputed (if
// configured), realtime, then popularity (if configured).
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, deps Dependencies, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if deps.Interactions == nil {
		return nil, errors.New("interaction store is required")
	}
	if deps.Snapshots == nil {
		return nil, errors.New("snapshot store is required")
	}

	observer := deps.Observer
	if observer == nil {
		observer = nopObserver{}
	}
	logger = logger.With().Str("component", "recommend").Logger()

	manager := NewManager(cfg, deps.Snapshots, deps.Interactions, observer, logger)

	tiers := make([]Tier, 0, 3)
	if deps.Precomputed != nil {
		tiers = append(tiers, NewPrecomputedTier(deps.Precomputed))
	}
	tiers = append(tiers, NewRealtimeTier(cfg, manager, deps.Interactions, deps.Catalog))
	if deps.Popularity != nil {
		tiers = append(tiers, NewPopularityTier(deps.Popularity))
	}

	return &Engine{
		config:       cfg,
		manager:      manager,
		orchestrator: NewOrchestrator(cfg, deps.Interactions, tiers, observer, logger),
		observer:     observer,
		logger:       logger,
	}, nil
}

// Load activates the most recent persisted snapshot, if any.
// See Manager.Load for the error contract.
func (e *Engine) Load(ctx context.Context) error {
	return e.manager.Load(ctx)
}

// Retrain trains and activates a new snapshot. It runs synchronously and is
// meant to be called from the training worker, never from request serving.
func (e *Engine) Retrain(ctx context.Context) RetrainResult {
	runID := uuid.New().String()
	logger := e.logger.With().Str("run_id", runID).Logger()
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, e.config.TrainTimeout)
	defer cancel()

	logger.Info().Msg("starting training run")
	snap, err := e.manager.TrainAndActivate(ctx)
	result := RetrainResult{RunID: runID, Duration: time.Since(start), Err: err}

	switch {
	case err == nil:
		result.Success = true
		result.Version = snap.Version
		result.Items = snap.ItemCount()
		result.Users = snap.UserCount
		result.Interactions = snap.InteractionCount
		result.Message = fmt.Sprintf("trained model v%d with %d movies from %d users",
			snap.Version, snap.ItemCount(), snap.UserCount)
		e.observer.ObserveTraining(OutcomeSuccess, result.Duration)
		logger.Info().
			Int64("version", snap.Version).
			Int("items", result.Items).
			Int("users", result.Users).
			Int("interactions", result.Interactions).
			Dur("duration", result.Duration).
			Msg("training complete, snapshot activated")

	case errors.Is(err, ErrTrainingInProgress):
		result.Message = "training already in progress, try again later"
		e.observer.ObserveTraining(OutcomeInProgress, result.Duration)
		logger.Info().Msg("training rejected, another run is in progress")

	case errors.Is(err, ErrInsufficientData):
		result.Message = "not enough interaction data to train"
		e.observer.ObserveTraining(OutcomeInsufficient, result.Duration)
		logger.Warn().Err(err).Msg("training skipped")

	default:
		result.Message = fmt.Sprintf("training failed: %v", err)
		e.observer.ObserveTraining(OutcomeFailure, result.Duration)
		logger.Error().Err(err).Dur("duration", result.Duration).Msg("training failed")
	}

	return result
}

// GetRecommendations is the recommendation query. It never fails; see
// Orchestrator.GetRecommendations.
func (e *Engine) GetRecommendations(ctx context.Context, userID int, category string, limit int) *Result {
	return e.orchestrator.GetRecommendations(ctx, userID, category, limit)
}

// Active returns the active snapshot, or nil.
func (e *Engine) Active() *Snapshot {
	return e.manager.Active()
}

// Training reports whether a training run is in flight.
func (e *Engine) Training() bool {
	return e.manager.Training()
}

// Status describes the active model and training state.
func (e *Engine) Status() Status {
	st := Status{Training: e.manager.Training()}
	snap := e.manager.Active()
	if snap == nil {
		return st
	}
	st.Loaded = true
	st.Version = snap.Version
	st.Items = snap.ItemCount()
	st.Users = snap.UserCount
	st.Interactions = snap.InteractionCount
	st.BuiltAt = snap.BuiltAt
	return st
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Manager owns the active snapshot. Readers get it through Active, which
// never blocks; training replaces it with a single atomic pointer swap.
type Manager struct {
	store      SnapshotStore
	source     InteractionStore
	aggregator *Aggregator
	builder    *Builder
	config     *Config
	observer   Observer
	logger     zerolog.Logger

	active   atomic.Pointer[Snapshot]
	trainMu  sync.Mutex
	training atomic.Bool
}

// NewManager creates a lifecycle manager. The manager starts with no active
// snapshot; call Load or TrainAndActivate to get one.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewManager(cfg *Config, store SnapshotStore, source InteractionStore, observer Observer, logger zerolog.Logger) *Manager {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Manager{
		store:      store,
		source:     source,
		aggregator: NewAggregator(cfg.FavoriteWeight),
		builder:    NewBuilder(cfg.Workers, logger),
		config:     cfg,
		observer:   observer,
		logger:     logger.With().Str("component", "model-lifecycle").Logger(),
	}
}

// Active returns the active snapshot, or nil if none is loaded.
func (m *Manager) Active() *Snapshot {
	return m.active.Load()
}

// Training reports whether a training run is in flight.
func (m *Manager) Training() bool {
	return m.training.Load()
}

// Load reads the most recent durable snapshot and activates it.
//
// A missing snapshot is not an error: the manager stays without a model.
// A corrupt snapshot leaves the manager without a model and returns an error
// wrapping ErrSnapshotCorrupt. Storage failures are returned as-is.
func (m *Manager) Load(ctx context.Context) error {
	if !m.trainMu.TryLock() {
		return ErrTrainingInProgress
	}
	defer m.trainMu.Unlock()

	snap, err := m.store.Load(ctx)
	switch {
	case errors.Is(err, ErrSnapshotNotFound):
		m.logger.Info().Msg("no persisted snapshot, starting without a model")
		return nil
	case errors.Is(err, ErrSnapshotCorrupt):
		m.logger.Error().Err(err).Msg("persisted snapshot is corrupt, starting without a model")
		return err
	case err != nil:
		m.logger.Error().Err(err).Msg("failed to read persisted snapshot")
		return fmt.Errorf("load snapshot: %w", err)
	}

	if err := snap.Validate(); err != nil {
		m.logger.Error().Err(err).Msg("persisted snapshot failed validation, starting without a model")
		return err
	}

	m.activate(snap)
	m.logger.Info().
		Int64("version", snap.Version).
		Int("items", snap.ItemCount()).
		Time("built_at", snap.BuiltAt).
		Msg("loaded persisted snapshot")
	return nil
}

// TrainAndActivate aggregates all interactions, builds a new snapshot,
// persists it and makes it active.
//
// Only one run may be in flight; a concurrent call fails immediately with
// ErrTrainingInProgress. If any step fails, including persistence, the
// previously active snapshot stays active.
func (m *Manager) TrainAndActivate(ctx context.Context) (*Snapshot, error) {
	if !m.trainMu.TryLock() {
		return nil, ErrTrainingInProgress
	}
	defer m.trainMu.Unlock()

	m.training.Store(true)
	m.observer.SetTraining(true)
	defer func() {
		m.training.Store(false)
		m.observer.SetTraining(false)
	}()

	matrix, err := m.loadMatrix(ctx)
	if err != nil {
		return nil, err
	}

	snap, err := m.builder.Build(ctx, matrix)
	if err != nil {
		return nil, fmt.Errorf("build snapshot: %w", err)
	}

	version, err := m.nextVersion(ctx)
	if err != nil {
		return nil, err
	}
	snap.Version = version

	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("validate snapshot: %w", err)
	}

	if err := m.store.Save(ctx, snap); err != nil {
		return nil, fmt.Errorf("persist snapshot: %w", err)
	}

	m.activate(snap)
	return snap, nil
}

// loadMatrix fetches all signals and aggregates them.
func (m *Manager) loadMatrix(ctx context.Context) (*InteractionMatrix, error) {
	ratings, err := m.source.Ratings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ratings: %w", err)
	}
	favorites, err := m.source.Favorites(ctx)
	if err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}

	m.logger.Info().
		Int("ratings", len(ratings)).
		Int("favorites", len(favorites)).
		Msg("loaded training data")

	matrix, err := m.aggregator.Aggregate(ratings, favorites)
	if err != nil {
		return nil, err
	}
	if matrix.Len() < m.config.MinInteractions {
		return nil, fmt.Errorf("%w: %d interactions, need %d",
			ErrInsufficientData, matrix.Len(), m.config.MinInteractions)
	}
	return matrix, nil
}

// nextVersion returns a version above both the active snapshot and anything
// the store already holds.
func (m *Manager) nextVersion(ctx context.Context) (int64, error) {
	var latest int64
	if cur := m.active.Load(); cur != nil {
		latest = cur.Version
	}
	if vs, ok := m.store.(VersionedStore); ok {
		stored, err := vs.LatestVersion(ctx)
		if err != nil {
			return 0, fmt.Errorf("read latest snapshot version: %w", err)
		}
		latest = max(latest, stored)
	}
	return latest + 1, nil
}

// activate swaps in a validated snapshot.
func (m *Manager) activate(snap *Snapshot) {
	m.active.Store(snap)
	m.observer.ObserveSnapshot(snap.Version, snap.ItemCount())
}

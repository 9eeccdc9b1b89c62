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
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestManager(store SnapshotStore, source InteractionStore) *Manager {
	return NewManager(testConfig(), store, source, nil, zerolog.Nop())
}

func TestManager_TrainAndActivate(t *testing.T) {
	t.Parallel()

	store := &mockSnapshotStore{}
	m := newTestManager(store, &mockInteractionStore{ratings: workedExample()})

	if m.Active() != nil {
		t.Fatal("new manager must start without a snapshot")
	}

	snap, err := m.TrainAndActivate(context.Background())
	if err != nil {
		t.Fatalf("TrainAndActivate() error = %v", err)
	}
	if snap.Version != 1 {
		t.Errorf("first version = %d, want 1", snap.Version)
	}
	if m.Active() != snap {
		t.Error("trained snapshot is not active")
	}
	if store.saves != 1 {
		t.Errorf("store saves = %d, want 1", store.saves)
	}

	next, err := m.TrainAndActivate(context.Background())
	if err != nil {
		t.Fatalf("second TrainAndActivate() error = %v", err)
	}
	if next.Version != 2 {
		t.Errorf("second version = %d, want 2", next.Version)
	}
}

func TestManager_InsufficientData(t *testing.T) {
	t.Parallel()

	m := newTestManager(&mockSnapshotStore{}, &mockInteractionStore{})
	if _, err := m.TrainAndActivate(context.Background()); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("TrainAndActivate() error = %v, want ErrInsufficientData", err)
	}
	if m.Active() != nil {
		t.Error("no snapshot must be active after insufficient data")
	}

	cfg := testConfig()
	cfg.MinInteractions = 100
	strict := NewManager(cfg, &mockSnapshotStore{}, &mockInteractionStore{ratings: workedExample()}, nil, zerolog.Nop())
	if _, err := strict.TrainAndActivate(context.Background()); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("below MinInteractions error = %v, want ErrInsufficientData", err)
	}
}

func TestManager_PersistFailureKeepsPrevious(t *testing.T) {
	t.Parallel()

	store := &mockSnapshotStore{}
	m := newTestManager(store, &mockInteractionStore{ratings: workedExample()})

	prev, err := m.TrainAndActivate(context.Background())
	if err != nil {
		t.Fatalf("TrainAndActivate() error = %v", err)
	}

	store.mu.Lock()
	store.saveErr = errors.New("disk full")
	store.mu.Unlock()

	if _, err := m.TrainAndActivate(context.Background()); err == nil {
		t.Fatal("TrainAndActivate() = nil error, want persistence failure")
	}
	if m.Active() != prev {
		t.Error("previous snapshot must stay active after a failed save")
	}
}

func TestManager_SourceFailure(t *testing.T) {
	t.Parallel()

	m := newTestManager(&mockSnapshotStore{}, &mockInteractionStore{ratingsErr: errors.New("connection refused")})
	_, err := m.TrainAndActivate(context.Background())
	if err == nil || errors.Is(err, ErrInsufficientData) {
		t.Errorf("TrainAndActivate() error = %v, want infrastructure error", err)
	}
}

func TestManager_ConcurrentTrainingRejected(t *testing.T) {
	t.Parallel()

	source := &mockInteractionStore{
		ratings: workedExample(),
		block:   make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	m := newTestManager(&mockSnapshotStore{}, source)

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = m.TrainAndActivate(context.Background())
	}()

	select {
	case <-source.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("first training run did not start")
	}

	if !m.Training() {
		t.Error("Training() = false while a run is in flight")
	}
	if _, err := m.TrainAndActivate(context.Background()); !errors.Is(err, ErrTrainingInProgress) {
		t.Errorf("concurrent TrainAndActivate() error = %v, want ErrTrainingInProgress", err)
	}
	if err := m.Load(context.Background()); !errors.Is(err, ErrTrainingInProgress) {
		t.Errorf("Load() during training error = %v, want ErrTrainingInProgress", err)
	}
	if m.Active() != nil {
		t.Error("readers must not see a snapshot before activation")
	}

	close(source.block)
	wg.Wait()

	if firstErr != nil {
		t.Fatalf("first TrainAndActivate() error = %v", firstErr)
	}
	if m.Training() {
		t.Error("Training() = true after the run finished")
	}
	if m.Active() == nil {
		t.Error("snapshot not active after the run finished")
	}
}

func TestManager_Load(t *testing.T) {
	t.Parallel()

	t.Run("missing snapshot is not an error", func(t *testing.T) {
		t.Parallel()
		m := newTestManager(&mockSnapshotStore{}, &mockInteractionStore{})
		if err := m.Load(context.Background()); err != nil {
			t.Errorf("Load() error = %v, want nil", err)
		}
		if m.Active() != nil {
			t.Error("Active() != nil after loading nothing")
		}
	})

	t.Run("corrupt snapshot leaves no model", func(t *testing.T) {
		t.Parallel()
		store := &mockSnapshotStore{loadErr: fmt.Errorf("decode: %w", ErrSnapshotCorrupt)}
		m := newTestManager(store, &mockInteractionStore{})
		if err := m.Load(context.Background()); !errors.Is(err, ErrSnapshotCorrupt) {
			t.Errorf("Load() error = %v, want ErrSnapshotCorrupt", err)
		}
		if m.Active() != nil {
			t.Error("Active() != nil after corrupt load")
		}
	})

	t.Run("structurally invalid snapshot is corrupt", func(t *testing.T) {
		t.Parallel()
		store := &mockSnapshotStore{snap: &Snapshot{Version: 1, Items: []string{"b", "a"}, Neighbors: make([][]Neighbor, 2)}}
		m := newTestManager(store, &mockInteractionStore{})
		if err := m.Load(context.Background()); !errors.Is(err, ErrSnapshotCorrupt) {
			t.Errorf("Load() error = %v, want ErrSnapshotCorrupt", err)
		}
		if m.Active() != nil {
			t.Error("Active() != nil after invalid load")
		}
	})

	t.Run("persisted snapshot is activated", func(t *testing.T) {
		t.Parallel()
		store := &mockSnapshotStore{}
		trainer := newTestManager(store, &mockInteractionStore{ratings: workedExample()})
		if _, err := trainer.TrainAndActivate(context.Background()); err != nil {
			t.Fatalf("TrainAndActivate() error = %v", err)
		}

		m := newTestManager(store, &mockInteractionStore{})
		if err := m.Load(context.Background()); err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if m.Active() == nil || m.Active().Version != 1 {
			t.Fatalf("Active() = %+v, want version 1", m.Active())
		}
		if m.Active().Similarity("1", "2") <= 0 {
			t.Error("loaded snapshot lost its index")
		}
	})
}

func TestManager_ReadersSeeWholeSnapshots(t *testing.T) {
	t.Parallel()

	m := newTestManager(&mockSnapshotStore{}, &mockInteractionStore{ratings: syntheticRatings(50, 30)})
	if _, err := m.TrainAndActivate(context.Background()); err != nil {
		t.Fatalf("TrainAndActivate() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ctx.Err() == nil {
				snap := m.Active()
				if len(snap.Items) != len(snap.Neighbors) || snap.index == nil {
					errs <- fmt.Errorf("partial snapshot v%d", snap.Version)
					return
				}
			}
		}()
	}

	for i := 0; i < 5; i++ {
		if _, err := m.TrainAndActivate(context.Background()); err != nil {
			t.Fatalf("TrainAndActivate() error = %v", err)
		}
	}
	cancel()
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import (
	"context"
	"errors"
	"math"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// recordingObserver captures tier events.
type recordingObserver struct {
	mu    sync.Mutex
	tiers []string
	errs  int
}

func (r *recordingObserver) ObserveTier(tier string, _ time.Duration, _ bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tiers = append(r.tiers, tier)
	if err != nil {
		r.errs++
	}
}
func (r *recordingObserver) ObserveTraining(string, time.Duration) {}
func (r *recordingObserver) ObserveSnapshot(int64, int)            {}
func (r *recordingObserver) SetTraining(bool)                      {}

// fixture wires an engine over the worked example with user 4 (D) holding
// seeds 1 and 2.
type fixture struct {
	engine      *Engine
	store       *mockInteractionStore
	precomputed *mockPrecomputed
	popularity  *mockPopularity
	observer    *recordingObserver
}

func newFixture(t *testing.T, train bool) *fixture {
	t.Helper()

	ratings := append(workedExample(), rating(4, "1", 10))
	f := &fixture{
		store: &mockInteractionStore{
			ratings:   ratings,
			favorites: []Signal{favorite(4, "2")},
			genres:    map[string]string{"1": "Drama", "2": "Drama", "3": "Comedy", "4": "Drama,Thriller", "5": "Comedy"},
		},
		precomputed: &mockPrecomputed{recs: map[int][]Recommendation{}},
		popularity: &mockPopularity{ranking: []Recommendation{
			{ItemID: "1", Score: 3}, {ItemID: "2", Score: 3}, {ItemID: "4", Score: 2}, {ItemID: "3", Score: 1}, {ItemID: "5", Score: 0.5},
		}},
		observer: &recordingObserver{},
	}

	engine, err := NewEngine(testConfig(), Dependencies{
		Interactions: f.store,
		Snapshots:    &mockSnapshotStore{},
		Precomputed:  f.precomputed,
		Popularity:   f.popularity,
		Catalog:      f.store,
		Observer:     f.observer,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	f.engine = engine

	if train {
		if res := engine.Retrain(context.Background()); !res.Success {
			t.Fatalf("Retrain() = %+v", res)
		}
	}
	return f
}

func TestOrchestrator_RealtimeExcludesSeen(t *testing.T) {
	t.Parallel()

	f := newFixture(t, true)
	res := f.engine.GetRecommendations(context.Background(), 4, "", 10)

	if res.Provenance != ProvenanceRealtime {
		t.Fatalf("Provenance = %q, want realtime (warnings %v)", res.Provenance, res.Warnings)
	}
	if ids := itemIDs(res.Items); !reflect.DeepEqual(ids, []string{"3", "4"}) {
		t.Errorf("items = %v, want [3 4]", ids)
	}
	for _, r := range res.Items {
		if r.Provenance != ProvenanceRealtime {
			t.Errorf("item %q provenance = %q", r.ItemID, r.Provenance)
		}
	}
}

func TestOrchestrator_PrecomputedFirstAndFiltered(t *testing.T) {
	t.Parallel()

	f := newFixture(t, true)
	f.precomputed.recs[4] = []Recommendation{
		{ItemID: "1", Score: 9}, // already rated
		{ItemID: "5", Score: 0.7},
		{ItemID: "3", Score: 0.7},
		{ItemID: "5", Score: 0.2},
		{ItemID: "x", Score: math.NaN()},
	}

	res := f.engine.GetRecommendations(context.Background(), 4, "", 10)
	if res.Provenance != ProvenancePrecomputed {
		t.Fatalf("Provenance = %q, want precomputed", res.Provenance)
	}
	want := []Recommendation{
		{ItemID: "3", Score: 0.7, Provenance: ProvenancePrecomputed},
		{ItemID: "5", Score: 0.7, Provenance: ProvenancePrecomputed},
	}
	if !reflect.DeepEqual(res.Items, want) {
		t.Errorf("items = %+v, want %+v", res.Items, want)
	}
}

func TestOrchestrator_PrecomputedFailureFallsThrough(t *testing.T) {
	t.Parallel()

	f := newFixture(t, true)
	f.precomputed.err = errors.New("redis: connection refused")

	res := f.engine.GetRecommendations(context.Background(), 4, "", 10)
	if res.Provenance != ProvenanceRealtime {
		t.Fatalf("Provenance = %q, want realtime", res.Provenance)
	}
	if len(res.Warnings) != 1 {
		t.Errorf("Warnings = %v, want one precomputed warning", res.Warnings)
	}
	if f.observer.errs != 1 {
		t.Errorf("observed tier errors = %d, want 1", f.observer.errs)
	}
}

func TestOrchestrator_ColdStartUsesPopularity(t *testing.T) {
	t.Parallel()

	f := newFixture(t, true)
	res := f.engine.GetRecommendations(context.Background(), 99, "", 3)

	if res.Provenance != ProvenancePopularity {
		t.Fatalf("Provenance = %q, want popularity", res.Provenance)
	}
	if ids := itemIDs(res.Items); !reflect.DeepEqual(ids, []string{"1", "2", "4"}) {
		t.Errorf("items = %v, want [1 2 4]", ids)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("cold start produced warnings %v", res.Warnings)
	}
}

func TestOrchestrator_NoSnapshotUsesPopularity(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false)
	res := f.engine.GetRecommendations(context.Background(), 4, "", 10)

	if res.Provenance != ProvenancePopularity {
		t.Fatalf("Provenance = %q, want popularity", res.Provenance)
	}
	for _, r := range res.Items {
		if r.ItemID == "1" || r.ItemID == "2" {
			t.Errorf("popularity result contains seen item %q", r.ItemID)
		}
	}
}

func TestOrchestrator_CategoryScopesRealtime(t *testing.T) {
	t.Parallel()

	f := newFixture(t, true)
	res := f.engine.GetRecommendations(context.Background(), 4, "Thriller", 10)

	if res.Provenance != ProvenancePopularity {
		// No Thriller seeds for user 4, so realtime has nothing to offer.
		t.Fatalf("Provenance = %q, want popularity", res.Provenance)
	}

	res = f.engine.GetRecommendations(context.Background(), 4, "Drama", 10)
	if res.Provenance != ProvenanceRealtime {
		t.Fatalf("Provenance = %q, want realtime", res.Provenance)
	}
	if ids := itemIDs(res.Items); !reflect.DeepEqual(ids, []string{"4"}) {
		t.Errorf("Drama items = %v, want [4]", ids)
	}
}

func TestOrchestrator_EmptyCatalog(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine(testConfig(), Dependencies{
		Interactions: &mockInteractionStore{},
		Snapshots:    &mockSnapshotStore{},
		Popularity:   &mockPopularity{},
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	if res := engine.Retrain(context.Background()); res.Success || !errors.Is(res.Err, ErrInsufficientData) {
		t.Errorf("Retrain() = %+v, want insufficient data", res)
	}

	res := engine.GetRecommendations(context.Background(), 1, "", 8)
	if res == nil || !res.Empty() || res.Items == nil {
		t.Fatalf("GetRecommendations() = %+v, want empty non-nil items", res)
	}
	if res.Provenance != "" {
		t.Errorf("Provenance = %q, want none", res.Provenance)
	}
}

func TestOrchestrator_AllTiersFailing(t *testing.T) {
	t.Parallel()

	f := newFixture(t, true)
	f.store.mu.Lock()
	f.store.userErr = errors.New("database unreachable")
	f.store.mu.Unlock()
	f.popularity.err = errors.New("database unreachable")
	f.precomputed.err = errors.New("redis unreachable")

	res := f.engine.GetRecommendations(context.Background(), 4, "", 5)
	if !res.Empty() {
		t.Errorf("items = %v, want empty", res.Items)
	}
	// history, precomputed and popularity fail; realtime has no seeds.
	if len(res.Warnings) != 3 {
		t.Errorf("Warnings = %v, want 3", res.Warnings)
	}
}

func TestOrchestrator_LimitAndOrdering(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false)
	f.popularity.ranking = []Recommendation{
		{ItemID: "c", Score: 1}, {ItemID: "a", Score: 1}, {ItemID: "b", Score: 2},
		{ItemID: "d", Score: 0.5}, {ItemID: "e", Score: 0.4},
	}

	res := f.engine.GetRecommendations(context.Background(), 99, "", 4)
	if ids := itemIDs(res.Items); !reflect.DeepEqual(ids, []string{"b", "a", "c", "d"}) {
		t.Errorf("items = %v, want [b a c d]", ids)
	}

	res = f.engine.GetRecommendations(context.Background(), 99, "", 0)
	if len(res.Items) != 5 {
		t.Errorf("default limit returned %d items, want 5", len(res.Items))
	}
	for i := 1; i < len(res.Items); i++ {
		if res.Items[i-1].Score < res.Items[i].Score {
			t.Errorf("items not sorted by score: %v", res.Items)
		}
	}
}

func TestOrchestrator_Deterministic(t *testing.T) {
	t.Parallel()

	f := newFixture(t, true)
	first := f.engine.GetRecommendations(context.Background(), 4, "", 10)
	for i := 0; i < 20; i++ {
		again := f.engine.GetRecommendations(context.Background(), 4, "", 10)
		if !reflect.DeepEqual(first.Items, again.Items) {
			t.Fatalf("call %d returned %v, want %v", i, again.Items, first.Items)
		}
	}
}

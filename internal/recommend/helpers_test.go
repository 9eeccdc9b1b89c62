// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import (
	"context"
	"strings"
	"sync"
)

// mockInteractionStore implements InteractionStore for testing.
type mockInteractionStore struct {
	mu        sync.Mutex
	ratings   []Signal
	favorites []Signal
	genres    map[string]string

	ratingsErr error
	userErr    error

	// block, when set, makes Ratings wait until it is closed.
	block   chan struct{}
	entered chan struct{}
}

func (m *mockInteractionStore) Ratings(ctx context.Context) ([]Signal, error) {
	if m.entered != nil {
		m.entered <- struct{}{}
	}
	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ratingsErr != nil {
		return nil, m.ratingsErr
	}
	return append([]Signal(nil), m.ratings...), nil
}

func (m *mockInteractionStore) Favorites(ctx context.Context) ([]Signal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Signal(nil), m.favorites...), nil
}

func (m *mockInteractionStore) UserRatings(ctx context.Context, userID int, category string) ([]Signal, error) {
	return m.user(false, userID, category)
}

func (m *mockInteractionStore) UserFavorites(ctx context.Context, userID int, category string) ([]Signal, error) {
	return m.user(true, userID, category)
}

func (m *mockInteractionStore) user(favorites bool, userID int, category string) ([]Signal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.userErr != nil {
		return nil, m.userErr
	}
	all := m.ratings
	if favorites {
		all = m.favorites
	}
	var out []Signal
	for _, s := range all {
		if s.UserID != userID {
			continue
		}
		if category != "" && !strings.Contains(m.genres[s.ItemID], category) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

// FilterCategory implements CategoryFilter using the same genre table.
func (m *mockInteractionStore) FilterCategory(ctx context.Context, items []string, category string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, id := range items {
		if strings.Contains(m.genres[id], category) {
			out = append(out, id)
		}
	}
	return out, nil
}

// mockSnapshotStore implements SnapshotStore for testing.
type mockSnapshotStore struct {
	mu      sync.Mutex
	snap    *Snapshot
	saveErr error
	loadErr error
	saves   int
}

func (m *mockSnapshotStore) Save(ctx context.Context, snap *Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.snap = snap
	m.saves++
	return nil
}

func (m *mockSnapshotStore) Load(ctx context.Context) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.snap == nil {
		return nil, ErrSnapshotNotFound
	}
	clone := *m.snap
	return &clone, nil
}

// mockPrecomputed implements PrecomputedSource for testing.
type mockPrecomputed struct {
	recs map[int][]Recommendation
	err  error
}

func (m *mockPrecomputed) Precomputed(ctx context.Context, userID int, category string, limit int) ([]Recommendation, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.recs[userID], nil
}

// mockPopularity implements PopularitySource for testing.
type mockPopularity struct {
	ranking []Recommendation
	err     error
	calls   int
	mu      sync.Mutex
}

func (m *mockPopularity) Popular(ctx context.Context, userID int, category string, limit int) ([]Recommendation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	out := append([]Recommendation(nil), m.ranking...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// rating builds a rating signal.
func rating(user int, item string, value float64) Signal {
	return Signal{UserID: user, ItemID: item, Value: value}
}

// favorite builds a favorite signal.
func favorite(user int, item string) Signal {
	return Signal{UserID: user, ItemID: item}
}

// workedExample returns the ratings of users A(1), B(2) and C(3) over items 1-4.
func workedExample() []Signal {
	return []Signal{
		rating(1, "1", 10), rating(1, "2", 10),
		rating(2, "1", 9), rating(2, "3", 2),
		rating(3, "2", 8), rating(3, "4", 9),
	}
}

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Workers = 2
	return cfg
}

func itemIDs(recs []Recommendation) []string {
	ids := make([]string, len(recs))
	for i := range recs {
		ids[i] = recs[i].ItemID
	}
	return ids
}

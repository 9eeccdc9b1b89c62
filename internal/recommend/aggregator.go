// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import (
	"math"
	"sort"
)

// InteractionMatrix is a sparse item x user matrix of merged interaction
// weights. Missing cells are zero.
type InteractionMatrix struct {
	rows  map[string]map[int]float64
	users map[int]struct{}
	cells int
}

func newInteractionMatrix() *InteractionMatrix {
	return &InteractionMatrix{
		rows:  make(map[string]map[int]float64),
		users: make(map[int]struct{}),
	}
}

// merge records weight for (user, item), keeping the maximum.
func (m *InteractionMatrix) merge(userID int, itemID string, weight float64) {
	row, ok := m.rows[itemID]
	if !ok {
		row = make(map[int]float64)
		m.rows[itemID] = row
	}
	current, exists := row[userID]
	if !exists {
		m.cells++
		m.users[userID] = struct{}{}
	}
	if !exists || weight > current {
		row[userID] = weight
	}
}

// Weight returns the interaction weight of a user for an item, or zero.
func (m *InteractionMatrix) Weight(itemID string, userID int) float64 {
	return m.rows[itemID][userID]
}

// Items returns the item IDs in ascending order.
func (m *InteractionMatrix) Items() []string {
	items := make([]string, 0, len(m.rows))
	for id := range m.rows {
		items = append(items, id)
	}
	sort.Strings(items)
	return items
}

// ItemCount returns the number of items with at least one interaction.
func (m *InteractionMatrix) ItemCount() int { return len(m.rows) }

// UserCount returns the number of users with at least one interaction.
func (m *InteractionMatrix) UserCount() int { return len(m.users) }

// Len returns the number of non-zero cells.
func (m *InteractionMatrix) Len() int { return m.cells }

// Interactions returns all cells ordered by item, then user.
func (m *InteractionMatrix) Interactions() []Interaction {
	out := make([]Interaction, 0, m.cells)
	for _, item := range m.Items() {
		row := m.rows[item]
		users := make([]int, 0, len(row))
		for u := range row {
			users = append(users, u)
		}
		sort.Ints(users)
		for _, u := range users {
			out = append(out, Interaction{UserID: u, ItemID: item, Weight: row[u]})
		}
	}
	return out
}

// Aggregator merges ratings and favorites into weighted interactions.
type Aggregator struct {
	favoriteWeight float64
}

// NewAggregator creates an aggregator that weights favorites with favoriteWeight.
func NewAggregator(favoriteWeight float64) *Aggregator {
	if favoriteWeight <= 0 || math.IsNaN(favoriteWeight) {
		favoriteWeight = DefaultFavoriteWeight
	}
	return &Aggregator{favoriteWeight: favoriteWeight}
}

// FavoriteWeight returns the weight a favorite contributes.
func (a *Aggregator) FavoriteWeight() float64 { return a.favoriteWeight }

// Aggregate groups signals by (user, item) and keeps the maximum weight.
// Ratings contribute their raw value and favorites the favorite weight.
// Ratings that are not finite and positive carry no affinity and are skipped.
// Returns ErrInsufficientData when nothing remains.
func (a *Aggregator) Aggregate(ratings, favorites []Signal) (*InteractionMatrix, error) {
	m := newInteractionMatrix()

	for i := range ratings {
		r := &ratings[i]
		if r.ItemID == "" || !validWeight(r.Value) {
			continue
		}
		m.merge(r.UserID, r.ItemID, r.Value)
	}
	for i := range favorites {
		f := &favorites[i]
		if f.ItemID == "" {
			continue
		}
		m.merge(f.UserID, f.ItemID, a.favoriteWeight)
	}

	if m.Len() == 0 {
		return nil, ErrInsufficientData
	}
	return m, nil
}

// Seeds selects one user's seed items: every favorite plus the top maxRatings
// ratings (by rating descending, then item ascending). Zero maxRatings keeps
// all ratings. Duplicates merge by maximum weight. The result is ordered by
// weight descending, then item ascending.
func (a *Aggregator) Seeds(ratings, favorites []Signal, maxRatings int) []Seed {
	top := make([]Signal, 0, len(ratings))
	for i := range ratings {
		if ratings[i].ItemID != "" && validWeight(ratings[i].Value) {
			top = append(top, ratings[i])
		}
	}
	sort.SliceStable(top, func(i, j int) bool {
		if top[i].Value != top[j].Value {
			return top[i].Value > top[j].Value
		}
		return top[i].ItemID < top[j].ItemID
	})
	if maxRatings > 0 && len(top) > maxRatings {
		top = top[:maxRatings]
	}

	weights := make(map[string]float64, len(top)+len(favorites))
	for i := range top {
		if w, ok := weights[top[i].ItemID]; !ok || top[i].Value > w {
			weights[top[i].ItemID] = top[i].Value
		}
	}
	for i := range favorites {
		if favorites[i].ItemID == "" {
			continue
		}
		if w, ok := weights[favorites[i].ItemID]; !ok || a.favoriteWeight > w {
			weights[favorites[i].ItemID] = a.favoriteWeight
		}
	}

	seeds := make([]Seed, 0, len(weights))
	for item, w := range weights {
		seeds = append(seeds, Seed{ItemID: item, Weight: w})
	}
	sort.Slice(seeds, func(i, j int) bool {
		if seeds[i].Weight != seeds[j].Weight {
			return seeds[i].Weight > seeds[j].Weight
		}
		return seeds[i].ItemID < seeds[j].ItemID
	})
	return seeds
}

// ItemSet returns the set of items present in the signals.
func ItemSet(signals ...[]Signal) map[string]struct{} {
	set := make(map[string]struct{})
	for _, group := range signals {
		for i := range group {
			if group[i].ItemID != "" {
				set[group[i].ItemID] = struct{}{}
			}
		}
	}
	return set
}

func validWeight(w float64) bool {
	return w > 0 && !math.IsInf(w, 0) && !math.IsNaN(w)
}

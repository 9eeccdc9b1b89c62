// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import (
	"context"
	"fmt"
)

// Query carries one recommendation request through the tier chain.
type Query struct {
	UserID   int
	Category string
	Limit    int

	// Ratings and Favorites hold the user's full, unfiltered history.
	Ratings   []Signal
	Favorites []Signal

	// Exclude is the set of items the user has already interacted with.
	Exclude map[string]struct{}
}

// Tier is one strategy in the fallback chain. Returning no items without an
// error means the tier has nothing to offer and the next one is tried.
type Tier interface {
	Provenance() Provenance
	Recommend(ctx context.Context, q *Query) ([]Recommendation, error)
}

// PrecomputedTier serves externally produced batch recommendations.
type PrecomputedTier struct {
	source PrecomputedSource
}

// NewPrecomputedTier creates the precomputed tier.
func NewPrecomputedTier(source PrecomputedSource) *PrecomputedTier {
	return &PrecomputedTier{source: source}
}

// Provenance returns ProvenancePrecomputed.
func (t *PrecomputedTier) Provenance() Provenance { return ProvenancePrecomputed }

// Recommend looks up the batch list for (user, category). Extra rows are
// requested so that filtering out already-seen items can still fill the limit.
func (t *PrecomputedTier) Recommend(ctx context.Context, q *Query) ([]Recommendation, error) {
	recs, err := t.source.Precomputed(ctx, q.UserID, q.Category, q.Limit+len(q.Exclude))
	if err != nil {
		return nil, fmt.Errorf("precomputed lookup: %w", err)
	}
	return recs, nil
}

// SnapshotProvider exposes the active snapshot.
type SnapshotProvider interface {
	Active() *Snapshot
}

// RealtimeTier scores the user's seeds against the active snapshot.
type RealtimeTier struct {
	snapshots     SnapshotProvider
	interactions  InteractionStore
	catalog       CategoryFilter
	aggregator    *Aggregator
	minSimilarity float64
	maxSeeds      int
	candidatePool int
}

// NewRealtimeTier creates the realtime tier. catalog may be nil, in which
// case category scoping applies to seeds only.
func NewRealtimeTier(cfg *Config, snapshots SnapshotProvider, interactions InteractionStore, catalog CategoryFilter) *RealtimeTier {
	return &RealtimeTier{
		snapshots:     snapshots,
		interactions:  interactions,
		catalog:       catalog,
		aggregator:    NewAggregator(cfg.FavoriteWeight),
		minSimilarity: cfg.MinSimilarity,
		maxSeeds:      cfg.MaxSeedRatings,
		candidatePool: cfg.CandidatePool,
	}
}

// Provenance returns ProvenanceRealtime.
func (t *RealtimeTier) Provenance() Provenance { return ProvenanceRealtime }

// Recommend returns nothing, without error, when there is no active snapshot
// or the user has no interactions.
func (t *RealtimeTier) Recommend(ctx context.Context, q *Query) ([]Recommendation, error) {
	snap := t.snapshots.Active()
	if snap.ItemCount() == 0 {
		return nil, nil
	}

	ratings, favorites := q.Ratings, q.Favorites
	if q.Category != "" {
		var err error
		if ratings, err = t.interactions.UserRatings(ctx, q.UserID, q.Category); err != nil {
			return nil, fmt.Errorf("load user ratings: %w", err)
		}
		if favorites, err = t.interactions.UserFavorites(ctx, q.UserID, q.Category); err != nil {
			return nil, fmt.Errorf("load user favorites: %w", err)
		}
	}

	seeds := t.aggregator.Seeds(ratings, favorites, t.maxSeeds)
	if len(seeds) == 0 {
		return nil, nil
	}

	pool := q.Limit
	if q.Category != "" && t.catalog != nil {
		pool = max(pool, t.candidatePool)
	}
	recs := Score(seeds, snap, q.Exclude, pool, t.minSimilarity)
	if len(recs) == 0 || q.Category == "" || t.catalog == nil {
		return recs, nil
	}

	return t.keepCategory(ctx, recs, q.Category)
}

// keepCategory drops candidates outside the category, preserving order.
func (t *RealtimeTier) keepCategory(ctx context.Context, recs []Recommendation, category string) ([]Recommendation, error) {
	ids := make([]string, len(recs))
	for i := range recs {
		ids[i] = recs[i].ItemID
	}
	kept, err := t.catalog.FilterCategory(ctx, ids, category)
	if err != nil {
		return nil, fmt.Errorf("filter category: %w", err)
	}
	allowed := make(map[string]struct{}, len(kept))
	for _, id := range kept {
		allowed[id] = struct{}{}
	}

	out := recs[:0]
	for _, r := range recs {
		if _, ok := allowed[r.ItemID]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// PopularityTier ranks the catalog by interaction volume.
type PopularityTier struct {
	source PopularitySource
}

// NewPopularityTier creates the popularity tier.
func NewPopularityTier(source PopularitySource) *PopularityTier {
	return &PopularityTier{source: source}
}

// Provenance returns ProvenancePopularity.
func (t *PopularityTier) Provenance() Provenance { return ProvenancePopularity }

// Recommend returns the most popular items the user has not interacted with.
func (t *PopularityTier) Recommend(ctx context.Context, q *Query) ([]Recommendation, error) {
	recs, err := t.source.Popular(ctx, q.UserID, q.Category, q.Limit+len(q.Exclude))
	if err != nil {
		return nil, fmt.Errorf("popularity lookup: %w", err)
	}
	return recs, nil
}

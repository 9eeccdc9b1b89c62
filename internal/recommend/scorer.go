// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import (
	"sort"
)

// Score ranks candidate items for one user against a snapshot.
//
// For every seed present in the snapshot, each neighbour whose similarity is
// strictly above minSimilarity, that is not the seed itself and not in
// exclude, gains similarity * seed weight. An item similar to several seeds
// therefore outranks one that is similar to a single seed.
//
// Results are ordered by score descending, then item ascending, and truncated
// to limit. Empty seeds, an empty snapshot or a non-positive limit yield nil.
func Score(seeds []Seed, snap *Snapshot, exclude map[string]struct{}, limit int, minSimilarity float64) []Recommendation {
	if len(seeds) == 0 || snap.ItemCount() == 0 || limit <= 0 {
		return nil
	}

	// Accumulate in item order so identical inputs sum identically.
	ordered := make([]Seed, len(seeds))
	copy(ordered, seeds)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].ItemID != ordered[j].ItemID {
			return ordered[i].ItemID < ordered[j].ItemID
		}
		return ordered[i].Weight > ordered[j].Weight
	})

	scores := make(map[int32]float64)
	for i, seed := range ordered {
		if i > 0 && ordered[i-1].ItemID == seed.ItemID {
			continue
		}
		seedIdx, ok := snap.IndexOf(seed.ItemID)
		if !ok {
			continue
		}
		for _, nb := range snap.Neighbors[seedIdx] {
			if nb.Similarity <= minSimilarity {
				// Rows are sorted by similarity descending.
				break
			}
			if nb.Index == seedIdx {
				continue
			}
			if _, skip := exclude[snap.Items[nb.Index]]; skip {
				continue
			}
			scores[nb.Index] += nb.Similarity * seed.Weight
		}
	}

	if len(scores) == 0 {
		return nil
	}

	ranked := make([]Recommendation, 0, len(scores))
	for idx, score := range scores {
		ranked = append(ranked, Recommendation{ItemID: snap.Items[idx], Score: score})
	}
	sortRecommendations(ranked)

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// sortRecommendations orders by score descending, then item ascending.
func sortRecommendations(recs []Recommendation) {
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].ItemID < recs[j].ItemID
	})
}

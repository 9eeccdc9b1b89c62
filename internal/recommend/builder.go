// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// maxItems bounds the model so neighbour indexes fit in int32.
const maxItems = math.MaxInt32

// Builder computes item x item cosine similarity snapshots.
type Builder struct {
	workers int
	logger  zerolog.Logger
}

// NewBuilder creates a builder that uses up to workers goroutines.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBuilder(workers int, logger zerolog.Logger) *Builder {
	if workers < 1 {
		workers = 1
	}
	return &Builder{
		workers: workers,
		logger:  logger.With().Str("component", "similarity-builder").Logger(),
	}
}

// entry is one weighted cell of a sparse vector.
type entry struct {
	pos    int32
	weight float64
}

// Build computes pairwise cosine similarity between all item rows of m.
// The returned snapshot has Version zero; the caller assigns it.
//
// Only co-rated pairs are visited: for each item the dot products are
// accumulated through the users that rated it. Users and items are visited
// in ascending order so the floating-point sums, and therefore the snapshot,
// are reproducible and symmetric.
func (b *Builder) Build(ctx context.Context, m *InteractionMatrix) (*Snapshot, error) {
	if m == nil || m.Len() == 0 {
		return nil, ErrInsufficientData
	}
	start := time.Now()

	items := m.Items()
	if len(items) > maxItems {
		return nil, fmt.Errorf("too many items for one model: %d", len(items))
	}

	users := make([]int, 0, m.UserCount())
	for u := range m.users {
		users = append(users, u)
	}
	sort.Ints(users)
	userPos := make(map[int]int32, len(users))
	for i, u := range users {
		userPos[u] = int32(i) //nolint:gosec // bounded by maxItems check on cells
	}

	// itemVecs[i] lists (user position, weight) ascending by user.
	// userVecs[u] lists (item position, weight) ascending by item.
	itemVecs := make([][]entry, len(items))
	userVecs := make([][]entry, len(users))
	norms := make([]float64, len(items))
	for i, item := range items {
		row := m.rows[item]
		vec := make([]entry, 0, len(row))
		for u, w := range row {
			vec = append(vec, entry{pos: userPos[u], weight: w})
		}
		sort.Slice(vec, func(a, c int) bool { return vec[a].pos < vec[c].pos })

		var sum float64
		for _, e := range vec {
			sum += e.weight * e.weight
			userVecs[e.pos] = append(userVecs[e.pos], entry{pos: int32(i), weight: e.weight}) //nolint:gosec // bounded by maxItems
		}
		itemVecs[i] = vec
		norms[i] = math.Sqrt(sum)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	neighbors := make([][]Neighbor, len(items))
	chunk := chunkSize(len(items), b.workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for lo := 0; lo < len(items); lo += chunk {
		hi := min(lo+chunk, len(items))
		g.Go(func() error {
			dots := make([]float64, len(items))
			touched := make([]int32, 0, 64)
			for i := lo; i < hi; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				neighbors[i] = b.row(int32(i), itemVecs, userVecs, norms, dots, touched[:0]) //nolint:gosec // bounded by maxItems
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("compute similarities: %w", err)
	}

	snap := &Snapshot{
		BuiltAt:          time.Now().UTC(),
		Items:            items,
		Neighbors:        neighbors,
		UserCount:        len(users),
		InteractionCount: m.Len(),
	}

	b.logger.Debug().
		Int("items", len(items)).
		Int("users", len(users)).
		Int("interactions", m.Len()).
		Dur("duration", time.Since(start)).
		Msg("built similarity matrix")

	return snap, nil
}

// row computes the similarity row of item i. dots must be all zero on entry
// and is left all zero on return.
func (b *Builder) row(i int32, itemVecs, userVecs [][]entry, norms, dots []float64, touched []int32) []Neighbor {
	if norms[i] == 0 {
		return nil
	}

	for _, iu := range itemVecs[i] {
		for _, uj := range userVecs[iu.pos] {
			if uj.pos == i {
				continue
			}
			if dots[uj.pos] == 0 {
				touched = append(touched, uj.pos)
			}
			dots[uj.pos] += iu.weight * uj.weight
		}
	}

	row := make([]Neighbor, 0, len(touched))
	for _, j := range touched {
		dot := dots[j]
		dots[j] = 0
		if norms[j] == 0 || dot == 0 {
			continue
		}
		sim := dot / (norms[i] * norms[j])
		if sim > 1 {
			sim = 1
		} else if sim < -1 {
			sim = -1
		}
		row = append(row, Neighbor{Index: j, Similarity: sim})
	}

	sort.Slice(row, func(a, c int) bool {
		if row[a].Similarity != row[c].Similarity {
			return row[a].Similarity > row[c].Similarity
		}
		return row[a].Index < row[c].Index
	})
	return row
}

// chunkSize splits n rows into roughly four chunks per worker.
func chunkSize(n, workers int) int {
	parts := workers * 4
	size := (n + parts - 1) / parts
	if size < 1 {
		size = 1
	}
	return size
}

// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import (
	"fmt"
	"math"
	"time"
)

// Neighbor is one non-zero entry of a similarity row.
type Neighbor struct {
	// Index is the position of the neighbour in Snapshot.Items.
	Index int32

	// Similarity is the cosine similarity in [-1, 1].
	Similarity float64
}

// Snapshot is an immutable, versioned similarity model.
//
// Items is sorted ascending, so ordering by index equals ordering by item ID.
// Neighbors[i] holds the non-zero off-diagonal similarities of Items[i],
// ordered by similarity descending, then index ascending. The matrix is
// symmetric. Exported fields exist for serialization only; a Snapshot must
// not be modified after Validate.
type Snapshot struct {
	Version          int64
	BuiltAt          time.Time
	Items            []string
	Neighbors        [][]Neighbor
	UserCount        int
	InteractionCount int

	index map[string]int32
}

// ItemCount returns the number of items in the model.
func (s *Snapshot) ItemCount() int {
	if s == nil {
		return 0
	}
	return len(s.Items)
}

// IndexOf returns the matrix position of an item.
func (s *Snapshot) IndexOf(itemID string) (int32, bool) {
	idx, ok := s.index[itemID]
	return idx, ok
}

// Row returns the similarity row of an item, or nil if it is not in the model.
func (s *Snapshot) Row(itemID string) []Neighbor {
	idx, ok := s.index[itemID]
	if !ok {
		return nil
	}
	return s.Neighbors[idx]
}

// Similarity returns the similarity of two items. The diagonal and unknown
// items yield zero.
func (s *Snapshot) Similarity(a, b string) float64 {
	bi, ok := s.index[b]
	if !ok || a == b {
		return 0
	}
	for _, n := range s.Row(a) {
		if n.Index == bi {
			return n.Similarity
		}
	}
	return 0
}

// Validate checks structural integrity and builds the item index.
// Every failure wraps ErrSnapshotCorrupt.
func (s *Snapshot) Validate() error {
	if len(s.Neighbors) != len(s.Items) {
		return fmt.Errorf("%w: %d rows for %d items", ErrSnapshotCorrupt, len(s.Neighbors), len(s.Items))
	}
	if s.Version < 1 {
		return fmt.Errorf("%w: invalid version %d", ErrSnapshotCorrupt, s.Version)
	}

	index := make(map[string]int32, len(s.Items))
	for i, item := range s.Items {
		if item == "" {
			return fmt.Errorf("%w: empty item id at %d", ErrSnapshotCorrupt, i)
		}
		if i > 0 && s.Items[i-1] >= item {
			return fmt.Errorf("%w: items not strictly ascending at %d", ErrSnapshotCorrupt, i)
		}
		index[item] = int32(i) //nolint:gosec // item count is bounded by int32 at build time
	}

	n := int32(len(s.Items)) //nolint:gosec // see above
	for i, row := range s.Neighbors {
		for _, nb := range row {
			if nb.Index < 0 || nb.Index >= n || int(nb.Index) == i {
				return fmt.Errorf("%w: row %d has neighbour index %d", ErrSnapshotCorrupt, i, nb.Index)
			}
			if math.IsNaN(nb.Similarity) || nb.Similarity < -1 || nb.Similarity > 1 {
				return fmt.Errorf("%w: row %d has similarity %f", ErrSnapshotCorrupt, i, nb.Similarity)
			}
		}
	}

	s.index = index
	return nil
}

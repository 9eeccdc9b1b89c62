// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import (
	"context"
	"time"
)

// Signal is a raw user-item reading from the interaction store.
type Signal struct {
	// UserID is the internal user identifier.
	UserID int `json:"user_id"`

	// ItemID is the catalog identifier of the movie (IMDb tconst).
	ItemID string `json:"item_id"`

	// Value is the raw rating (1-10). It is ignored for favorites,
	// which always contribute the configured favorite weight.
	Value float64 `json:"value"`

	// At is when the rating or favorite was recorded.
	At time.Time `json:"at"`
}

// Interaction is the merged affinity of one user for one item.
type Interaction struct {
	UserID int     `json:"user_id"`
	ItemID string  `json:"item_id"`
	Weight float64 `json:"weight"`
}

// Seed is one of a user's interacted items used as scoring input.
type Seed struct {
	ItemID string  `json:"item_id"`
	Weight float64 `json:"weight"`
}

// Provenance tags which tier produced a result.
type Provenance string

const (
	// ProvenancePrecomputed marks results read from the external batch table.
	ProvenancePrecomputed Provenance = "precomputed"
	// ProvenanceRealtime marks results scored online against the active snapshot.
	ProvenanceRealtime Provenance = "realtime"
	// ProvenancePopularity marks results from the popularity ranking.
	ProvenancePopularity Provenance = "popularity"
)

// String returns the provenance tag.
func (p Provenance) String() string {
	return string(p)
}

// Recommendation is a single scored item.
type Recommendation struct {
	ItemID     string     `json:"item_id"`
	Score      float64    `json:"score"`
	Provenance Provenance `json:"provenance"`
}

// Result is the answer to a recommendation query.
// Items are ordered by score descending, ties broken by ascending item ID.
type Result struct {
	UserID     int              `json:"user_id"`
	Category   string           `json:"category,omitempty"`
	Provenance Provenance       `json:"provenance,omitempty"`
	Items      []Recommendation `json:"items"`

	// Warnings lists infrastructure failures of tiers that were skipped.
	Warnings []string `json:"warnings,omitempty"`
}

// Empty reports whether the result holds no items.
func (r *Result) Empty() bool {
	return r == nil || len(r.Items) == 0
}

// InteractionStore is the read-only source of ratings and favorites.
// It is typically implemented by the database layer.
type InteractionStore interface {
	// Ratings returns every rating in the system.
	Ratings(ctx context.Context) ([]Signal, error)

	// Favorites returns every favorite in the system.
	Favorites(ctx context.Context) ([]Signal, error)

	// UserRatings returns one user's ratings, restricted to a category when
	// category is non-empty.
	UserRatings(ctx context.Context, userID int, category string) ([]Signal, error)

	// UserFavorites returns one user's favorites, restricted to a category when
	// category is non-empty.
	UserFavorites(ctx context.Context, userID int, category string) ([]Signal, error)
}

// SnapshotStore persists snapshots durably.
type SnapshotStore interface {
	// Save atomically replaces the stored snapshot. A failed Save must leave
	// the previously stored snapshot readable.
	Save(ctx context.Context, snap *Snapshot) error

	// Load returns the most recent snapshot. It returns ErrSnapshotNotFound
	// when nothing has been stored and ErrSnapshotCorrupt when decoding fails.
	Load(ctx context.Context) (*Snapshot, error)
}

// VersionedStore is implemented by snapshot stores that can report the
// highest version they hold, so versions stay monotonic across restarts.
type VersionedStore interface {
	LatestVersion(ctx context.Context) (int64, error)
}

// PrecomputedSource serves externally produced batch recommendations.
type PrecomputedSource interface {
	Precomputed(ctx context.Context, userID int, category string, limit int) ([]Recommendation, error)
}

// PopularitySource ranks catalog items by interaction volume, excluding
// items the user has already interacted with.
type PopularitySource interface {
	Popular(ctx context.Context, userID int, category string, limit int) ([]Recommendation, error)
}

// CategoryFilter keeps only the items that belong to a category.
type CategoryFilter interface {
	FilterCategory(ctx context.Context, items []string, category string) ([]string, error)
}

// Observer receives engine events, typically to record metrics.
// Implementations must be safe for concurrent use.
type Observer interface {
	ObserveTier(tier string, duration time.Duration, served bool, err error)
	ObserveTraining(outcome string, duration time.Duration)
	ObserveSnapshot(version int64, items int)
	SetTraining(active bool)
}

// nopObserver discards all events.
type nopObserver struct{}

func (nopObserver) ObserveTier(string, time.Duration, bool, error) {}
func (nopObserver) ObserveTraining(string, time.Duration)          {}
func (nopObserver) ObserveSnapshot(int64, int)                     {}
func (nopObserver) SetTraining(bool)                               {}

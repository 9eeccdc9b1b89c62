// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import (
	"fmt"
	"math"
	"runtime"
	"time"
)

const (
	// DefaultMinSimilarity is the noise floor for neighbours: only similarities
	// strictly above it contribute to a candidate's score.
	DefaultMinSimilarity = 0.1

	// DefaultFavoriteWeight is the interaction weight of a favorite.
	DefaultFavoriteWeight = 10.0

	// DefaultMaxSeedRatings is how many of a user's top ratings seed scoring.
	DefaultMaxSeedRatings = 20

	// DefaultLimit is the number of recommendations returned when none is requested.
	DefaultLimit = 8

	// DefaultMaxLimit caps the number of recommendations per request.
	DefaultMaxLimit = 100

	// DefaultCandidatePool is how many realtime candidates are scored before
	// category filtering and truncation.
	DefaultCandidatePool = 500
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// MinSimilarity is the neighbour similarity threshold (exclusive).
	// Default: 0.1.
	MinSimilarity float64 `json:"min_similarity"`

	// FavoriteWeight is the weight a favorite contributes to an interaction.
	// Default: 10.0.
	FavoriteWeight float64 `json:"favorite_weight"`

	// MaxSeedRatings limits the ratings used as seeds per request.
	// Favorites are always used. Zero means no limit.
	// Default: 20.
	MaxSeedRatings int `json:"max_seed_ratings"`

	// DefaultLimit is used when a request asks for zero or fewer items.
	// Default: 8.
	DefaultLimit int `json:"default_limit"`

	// MaxLimit caps the requested limit.
	// Default: 100.
	MaxLimit int `json:"max_limit"`

	// CandidatePool is the number of realtime candidates kept before
	// category filtering.
	// Default: 500.
	CandidatePool int `json:"candidate_pool"`

	// Workers is the number of goroutines used to build the similarity matrix.
	// Default: NumCPU-1, at least 1.
	Workers int `json:"workers"`

	// MinInteractions is the minimum number of merged interactions to train.
	// Default: 1.
	MinInteractions int `json:"min_interactions"`

	// TrainTimeout bounds a single training run.
	// Default: 30m.
	TrainTimeout time.Duration `json:"train_timeout"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	workers := runtime.NumCPU() - 1
	if workers < 1 {
		workers = 1
	}

	return &Config{
		MinSimilarity:   DefaultMinSimilarity,
		FavoriteWeight:  DefaultFavoriteWeight,
		MaxSeedRatings:  DefaultMaxSeedRatings,
		DefaultLimit:    DefaultLimit,
		MaxLimit:        DefaultMaxLimit,
		CandidatePool:   DefaultCandidatePool,
		Workers:         workers,
		MinInteractions: 1,
		TrainTimeout:    30 * time.Minute,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if math.IsNaN(c.MinSimilarity) || c.MinSimilarity < -1 || c.MinSimilarity >= 1 {
		return fmt.Errorf("min_similarity must be in [-1, 1), got %f", c.MinSimilarity)
	}
	if math.IsNaN(c.FavoriteWeight) || math.IsInf(c.FavoriteWeight, 0) || c.FavoriteWeight <= 0 {
		return fmt.Errorf("favorite_weight must be positive, got %f", c.FavoriteWeight)
	}
	if c.MaxSeedRatings < 0 {
		return fmt.Errorf("max_seed_ratings must be non-negative, got %d", c.MaxSeedRatings)
	}
	if c.DefaultLimit < 1 {
		return fmt.Errorf("default_limit must be positive, got %d", c.DefaultLimit)
	}
	if c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("max_limit must be >= default_limit, got %d < %d", c.MaxLimit, c.DefaultLimit)
	}
	if c.CandidatePool < c.MaxLimit {
		return fmt.Errorf("candidate_pool must be >= max_limit, got %d < %d", c.CandidatePool, c.MaxLimit)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.MinInteractions < 1 {
		return fmt.Errorf("min_interactions must be positive, got %d", c.MinInteractions)
	}
	if c.TrainTimeout <= 0 {
		return fmt.Errorf("train_timeout must be positive, got %v", c.TrainTimeout)
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// clampLimit applies the default and maximum limits to a requested limit.
func (c *Config) clampLimit(limit int) int {
	if limit <= 0 {
		return c.DefaultLimit
	}
	if limit > c.MaxLimit {
		return c.MaxLimit
	}
	return limit
}

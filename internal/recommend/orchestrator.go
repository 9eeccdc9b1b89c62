// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Orchestrator walks an ordered chain of tiers and returns the first
// non-empty result. It never returns an error: tier failures are logged,
// reported as warnings and the next tier is tried.
type Orchestrator struct {
	tiers        []Tier
	interactions InteractionStore
	config       *Config
	observer     Observer
	logger       zerolog.Logger
}

// NewOrchestrator creates an orchestrator over tiers, tried in order.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewOrchestrator(cfg *Config, interactions InteractionStore, tiers []Tier, observer Observer, logger zerolog.Logger) *Orchestrator {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Orchestrator{
		tiers:        tiers,
		interactions: interactions,
		config:       cfg,
		observer:     observer,
		logger:       logger.With().Str("component", "orchestrator").Logger(),
	}
}

// GetRecommendations returns up to limit items for the user. A non-positive
// limit uses the configured default. The result is empty only when no tier,
// including popularity, has anything to offer.
func (o *Orchestrator) GetRecommendations(ctx context.Context, userID int, category string, limit int) *Result {
	q := &Query{
		UserID:   userID,
		Category: strings.TrimSpace(category),
		Limit:    o.config.clampLimit(limit),
	}
	result := &Result{UserID: userID, Category: q.Category, Items: []Recommendation{}}
	logger := o.logger.With().Int("user_id", userID).Str("category", q.Category).Logger()

	if err := o.loadHistory(ctx, q); err != nil {
		logger.Warn().Err(err).Msg("failed to load user history")
		result.Warnings = append(result.Warnings, err.Error())
	}

	for _, tier := range o.tiers {
		name := tier.Provenance()
		start := time.Now()
		recs, err := tier.Recommend(ctx, q)
		if err != nil {
			o.observer.ObserveTier(name.String(), time.Since(start), false, err)
			logger.Warn().Err(err).Str("tier", name.String()).Msg("tier failed, falling back")
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %v", name, err))
			continue
		}

		recs = finalize(recs, q.Exclude, q.Limit, name)
		o.observer.ObserveTier(name.String(), time.Since(start), len(recs) > 0, nil)
		if len(recs) == 0 {
			logger.Debug().Str("tier", name.String()).Msg("tier produced no results")
			continue
		}

		result.Provenance = name
		result.Items = recs
		logger.Debug().
			Str("tier", name.String()).
			Int("returned", len(recs)).
			Msg("recommendations served")
		return result
	}

	logger.Debug().Msg("no tier produced results")
	return result
}

// loadHistory fills the query with the user's full history and exclusion set.
func (o *Orchestrator) loadHistory(ctx context.Context, q *Query) error {
	q.Exclude = map[string]struct{}{}

	ratings, err := o.interactions.UserRatings(ctx, q.UserID, "")
	if err != nil {
		return fmt.Errorf("load user ratings: %w", err)
	}
	favorites, err := o.interactions.UserFavorites(ctx, q.UserID, "")
	if err != nil {
		return fmt.Errorf("load user favorites: %w", err)
	}

	q.Ratings = ratings
	q.Favorites = favorites
	q.Exclude = ItemSet(ratings, favorites)
	return nil
}

// finalize enforces the result contract on a tier's output: excluded,
// duplicate and non-finite entries are dropped, the rest is sorted by score
// descending then item ascending, truncated and tagged.
func finalize(recs []Recommendation, exclude map[string]struct{}, limit int, provenance Provenance) []Recommendation {
	if len(recs) == 0 {
		return nil
	}

	best := make(map[string]int, len(recs))
	out := make([]Recommendation, 0, len(recs))
	for _, r := range recs {
		if r.ItemID == "" || math.IsNaN(r.Score) || math.IsInf(r.Score, 0) {
			continue
		}
		if _, skip := exclude[r.ItemID]; skip {
			continue
		}
		if i, seen := best[r.ItemID]; seen {
			if r.Score > out[i].Score {
				out[i].Score = r.Score
			}
			continue
		}
		best[r.ItemID] = len(out)
		out = append(out, Recommendation{ItemID: r.ItemID, Score: r.Score, Provenance: provenance})
	}

	sortRecommendations(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package precomputed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerec/internal/recommend"
)

// Named pairs a source with the name used in logs and errors.
type Named struct {
	Name   string
	Source recommend.PrecomputedSource
}

// Chain reads batch recommendations from the first source that has them.
// A failing source is logged and skipped. Chain fails only when every source
// failed.
type Chain struct {
	sources []Named
	logger  zerolog.Logger
}

// NewChain creates a chain over sources, consulted in order.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewChain(logger zerolog.Logger, sources ...Named) *Chain {
	return &Chain{sources: sources, logger: logger.With().Str("component", "precomputed").Logger()}
}

// Precomputed returns the first non-empty list. No items and no error means
// no source holds a list for (user, category).
func (c *Chain) Precomputed(ctx context.Context, userID int, category string, limit int) ([]recommend.Recommendation, error) {
	var errs []error
	for _, s := range c.sources {
		recs, err := s.Source.Precomputed(ctx, userID, category, limit)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			c.logger.Warn().Err(err).Str("source", s.Name).Int("user_id", userID).
				Msg("Precomputed source failed, trying next")
			errs = append(errs, fmt.Errorf("%s: %w", s.Name, err))
			continue
		}
		if len(recs) > 0 {
			return recs, nil
		}
	}
	if len(errs) == len(c.sources) && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return nil, nil
}

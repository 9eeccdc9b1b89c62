// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package cache

import (
	"context"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/cinerec/internal/metrics"
	"github.com/tomtom215/cinerec/internal/recommend"
)

// popularityCacheName labels cache metrics.
const popularityCacheName = "popularity"

// CachedPopularity memoizes a PopularitySource per (user, category, limit).
// Concurrent misses for the same key share one underlying query.
type CachedPopularity struct {
	source recommend.PopularitySource
	lru    *LRU[[]recommend.Recommendation]
	group  singleflight.Group
}

// NewCachedPopularity wraps source with an LRU of the given size and TTL.
func NewCachedPopularity(source recommend.PopularitySource, size int, ttl time.Duration) *CachedPopularity {
	return &CachedPopularity{
		source: source,
		lru:    NewLRU[[]recommend.Recommendation](size, ttl),
	}
}

// Popular returns the cached ranking or queries the source. Errors are not
// cached. Callers receive their own copy of the slice.
func (c *CachedPopularity) Popular(ctx context.Context, userID int, category string, limit int) ([]recommend.Recommendation, error) {
	key := popularityKey(userID, category, limit)

	if recs, ok := c.lru.Get(key); ok {
		metrics.RecordCacheLookup(popularityCacheName, true)
		return clone(recs), nil
	}
	metrics.RecordCacheLookup(popularityCacheName, false)

	v, err, _ := c.group.Do(key, func() (any, error) {
		recs, err := c.source.Popular(ctx, userID, category, limit)
		if err != nil {
			return nil, err
		}
		c.lru.Add(key, recs)
		metrics.CacheEntries.WithLabelValues(popularityCacheName).Set(float64(c.lru.Len()))
		return recs, nil
	})
	if err != nil {
		return nil, err
	}
	return clone(v.([]recommend.Recommendation)), nil
}

// Invalidate drops every cached ranking.
func (c *CachedPopularity) Invalidate() {
	c.lru.Clear()
	metrics.CacheEntries.WithLabelValues(popularityCacheName).Set(0)
}

func popularityKey(userID int, category string, limit int) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(userID))
	b.WriteByte('|')
	b.WriteString(strings.ToLower(strings.TrimSpace(category)))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(limit))
	return b.String()
}

func clone(recs []recommend.Recommendation) []recommend.Recommendation {
	if recs == nil {
		return nil
	}
	out := make([]recommend.Recommendation, len(recs))
	copy(out, recs)
	return out
}

// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

/*
Package cache provides in-memory caching for hot read paths.

# LRU

LRU[V] is a generic least-recently-used cache with a fixed TTL per entry:

	c := cache.NewLRU[[]string](256, 5*time.Minute)
	c.Add("key", []string{"tt0111161"})
	v, ok := c.Get("key")

# Popularity

The popularity ranking scans every interaction, so it is the most expensive
query on the fallback path. CachedPopularity memoizes it per
(user, category, limit) and collapses concurrent misses with singleflight:

	pop := cache.NewCachedPopularity(database.NewPopularityRanker(db, 1000), 256, 5*time.Minute)

Invalidate is called after a successful retrain so rankings reflect the same
interactions as the new snapshot.

# Thread Safety

All types are safe for concurrent use.
*/
package cache

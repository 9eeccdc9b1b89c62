// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package precomputed

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tomtom215/cinerec/internal/config"
	"github.com/tomtom215/cinerec/internal/models"
	"github.com/tomtom215/cinerec/internal/recommend"
)

// uncategorized is the key segment used when no category is given.
const uncategorized = "_"

// RedisSource serves batch recommendations from Redis sorted sets.
//
// Each (user, category) list is one ZSET at "{prefix}:{user}:{category}"
// whose members are movie IDs scored by recommendation strength.
type RedisSource struct {
	client *redis.Client
	prefix string
}

// NewRedisSource connects to Redis and verifies the connection.
func NewRedisSource(ctx context.Context, cfg *config.RedisConfig) (*RedisSource, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return NewRedisSourceWithClient(client, cfg.KeyPrefix), nil
}

// NewRedisSourceWithClient wraps an existing client.
func NewRedisSourceWithClient(client *redis.Client, prefix string) *RedisSource {
	if prefix == "" {
		prefix = "rec:precomputed"
	}
	return &RedisSource{client: client, prefix: prefix}
}

// Key returns the sorted-set key for (user, category).
func (s *RedisSource) Key(userID int, category string) string {
	segment := models.NormalizeGenre(category)
	if segment == "" {
		segment = uncategorized
	}
	return s.prefix + ":" + strconv.Itoa(userID) + ":" + segment
}

// Precomputed returns up to limit items for (user, category), highest score
// first, ties broken by ascending movie ID. A missing key yields no items.
func (s *RedisSource) Precomputed(ctx context.Context, userID int, category string, limit int) ([]recommend.Recommendation, error) {
	if limit <= 0 {
		return nil, nil
	}

	zs, err := s.client.ZRevRangeWithScores(ctx, s.Key(userID, category), 0, int64(limit-1)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis zrevrange: %w", err)
	}

	recs := make([]recommend.Recommendation, 0, len(zs))
	for _, z := range zs {
		id, ok := z.Member.(string)
		if !ok {
			continue
		}
		recs = append(recs, recommend.Recommendation{
			ItemID:     id,
			Score:      z.Score,
			Provenance: recommend.ProvenancePrecomputed,
		})
	}

	// ZREVRANGE orders equal scores by descending member.
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].ItemID < recs[j].ItemID
	})
	return recs, nil
}

// Put atomically replaces the list for (user, category). A positive ttl
// expires the list. Passing no recommendations deletes it.
func (s *RedisSource) Put(ctx context.Context, userID int, category string, recs []recommend.Recommendation, ttl time.Duration) error {
	key := s.Key(userID, category)

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(recs) == 0 {
			return nil
		}
		members := make([]redis.Z, len(recs))
		for i, r := range recs {
			members[i] = redis.Z{Score: r.Score, Member: r.ItemID}
		}
		pipe.ZAdd(ctx, key, members...)
		if ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis replace %s: %w", key, err)
	}
	return nil
}

// Ping checks the Redis connection.
func (s *RedisSource) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (s *RedisSource) Close() error {
	return s.client.Close()
}

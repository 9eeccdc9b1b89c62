// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

// Package recommend implements an item-based collaborative-filtering
// recommendation engine for the movie catalog.
//
// # Architecture
//
// The engine is split into small components that are wired together by
// NewEngine:
//
//   - Aggregator: merges explicit ratings (1-10) and favorites (fixed weight)
//     into one weighted interaction per (user, item), keeping the maximum.
//   - Builder: computes the item x item cosine similarity matrix from the
//     interaction matrix and produces an immutable Snapshot.
//   - Manager: owns the active Snapshot behind an atomic pointer, loads the
//     latest durable snapshot at startup and runs exclusive training.
//   - Score: ranks candidates for one user by accumulating
//     similarity * weight over the user's seed items.
//   - Orchestrator: the serving entry point. It walks an ordered chain of
//     tiers (precomputed, realtime, popularity) and returns the first
//     non-empty result tagged with its provenance.
//
// # Determinism
//
// Given the same interactions the Builder produces bit-for-bit identical
// snapshots: users and items are visited in sorted order, and parallel
// workers write into disjoint row slots.
//
// # Thread Safety
//
// Serving never blocks on training. Readers load the active snapshot once
// per request and keep using it even if a newer one is activated meanwhile.
// Only one training run may be in flight; a concurrent attempt fails with
// ErrTrainingInProgress.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), recommend.Dependencies{
//	    Interactions: db,
//	    Snapshots:    store,
//	    Popularity:   db,
//	}, logger)
//
//	_ = engine.Load(ctx)
//	result := engine.Retrain(ctx)
//	recs := engine.GetRecommendations(ctx, userID, "Comedy", 8)
package recommend

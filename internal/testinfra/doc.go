// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

// Package testinfra provides test infrastructure for integration testing with containers.
//
// This package uses testcontainers-go to manage Docker containers for integration tests,
// providing realistic backends for the precomputed recommendation cache (Redis) and the
// object-storage snapshot store (MinIO):
//
//	func TestRedisSource(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    redis, err := testinfra.NewRedisContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, redis)
//	    // connect to redis.Addr
//	}
//
// # CI Considerations
//
// These tests require Docker and network access and only build with the
// integration tag. Tests are skipped gracefully if Docker is unavailable.
package testinfra

// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultRedisImage is the Redis image used for integration tests.
	DefaultRedisImage = "redis:7-alpine"

	// DefaultRedisPort is the Redis port inside the container.
	DefaultRedisPort = "6379/tcp"
)

// RedisContainer is a running Redis instance for testing.
type RedisContainer struct {
	testcontainers.Container
	Addr string
}

// NewRedisContainer starts a Redis container.
//
// Example:
//
//	redis, err := testinfra.NewRedisContainer(ctx)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer testinfra.CleanupContainer(t, ctx, redis)
func NewRedisContainer(ctx context.Context) (*RedisContainer, error) {
	req := testcontainers.ContainerRequest{
		Image:        DefaultRedisImage,
		ExposedPorts: []string{DefaultRedisPort},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort(DefaultRedisPort),
			wait.ForLog("Ready to accept connections"),
		).WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("create redis container: %w", err)
	}

	addr, err := endpoint(ctx, container, DefaultRedisPort)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, err
	}

	return &RedisContainer{Container: container, Addr: addr}, nil
}

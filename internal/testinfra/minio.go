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
	// DefaultMinIOImage is the MinIO image used for integration tests.
	DefaultMinIOImage = "minio/minio:latest"

	// DefaultMinIOPort is the S3 API port inside the container.
	DefaultMinIOPort = "9000/tcp"

	// MinIOAccessKey and MinIOSecretKey are the root credentials of the test instance.
	MinIOAccessKey = "minioadmin"
	MinIOSecretKey = "minioadmin"
)

// MinIOContainer is a running MinIO instance for testing.
type MinIOContainer struct {
	testcontainers.Container
	Endpoint string
}

// NewMinIOContainer starts a single-node MinIO server.
func NewMinIOContainer(ctx context.Context) (*MinIOContainer, error) {
	req := testcontainers.ContainerRequest{
		Image:        DefaultMinIOImage,
		ExposedPorts: []string{DefaultMinIOPort},
		Cmd:          []string{"server", "/data"},
		Env: map[string]string{
			"MINIO_ROOT_USER":     MinIOAccessKey,
			"MINIO_ROOT_PASSWORD": MinIOSecretKey,
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort(DefaultMinIOPort),
			wait.ForHTTP("/minio/health/live").WithPort(DefaultMinIOPort),
		).WithStartupTimeout(90 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio container: %w", err)
	}

	addr, err := endpoint(ctx, container, DefaultMinIOPort)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, err
	}

	return &MinIOContainer{Container: container, Endpoint: addr}, nil
}

// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

//go:build integration

package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/cinerec/internal/recommend"
	"github.com/tomtom215/cinerec/internal/testinfra"
)

func TestS3Store_Integration(t *testing.T) {
	testinfra.SkipIfNoDocker(t)

	ctx := context.Background()
	minio, err := testinfra.NewMinIOContainer(ctx)
	if err != nil {
		t.Fatalf("start minio: %v", err)
	}
	defer testinfra.CleanupContainer(t, ctx, minio)

	store, err := NewS3Store(&S3Config{
		Endpoint:  minio.Endpoint,
		AccessKey: testinfra.MinIOAccessKey,
		SecretKey: testinfra.MinIOSecretKey,
		Bucket:    "cinerec-test",
		Prefix:    "models",
	})
	if err != nil {
		t.Fatalf("NewS3Store() error = %v", err)
	}
	if err := store.EnsureBucket(ctx); err != nil {
		t.Fatalf("EnsureBucket() error = %v", err)
	}

	if _, err := store.Load(ctx); !errors.Is(err, recommend.ErrSnapshotNotFound) {
		t.Fatalf("Load() on empty bucket error = %v, want ErrSnapshotNotFound", err)
	}

	for v := int64(1); v <= 2; v++ {
		if err := store.Save(ctx, testSnapshot(t, v)); err != nil {
			t.Fatalf("Save(v%d) error = %v", v, err)
		}
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Version != 2 {
		t.Errorf("Load() version = %d, want 2", got.Version)
	}
	if v, err := store.LatestVersion(ctx); err != nil || v != 2 {
		t.Errorf("LatestVersion() = %d, %v, want 2, nil", v, err)
	}
}

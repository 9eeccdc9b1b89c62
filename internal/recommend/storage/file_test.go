// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tomtom215/cinerec/internal/recommend"
)

func TestFileStore_SaveLoad(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, err := NewFileStore(t.TempDir(), 3)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	if _, err := store.Load(ctx); !errors.Is(err, recommend.ErrSnapshotNotFound) {
		t.Fatalf("Load() on empty store error = %v, want ErrSnapshotNotFound", err)
	}
	if v, err := store.LatestVersion(ctx); err != nil || v != 0 {
		t.Fatalf("LatestVersion() = %d, %v, want 0, nil", v, err)
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
	if v, _ := store.LatestVersion(ctx); v != 2 {
		t.Errorf("LatestVersion() = %d, want 2", v)
	}
}

func TestFileStore_Prune(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewFileStore(dir, 2)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	for v := int64(1); v <= 4; v++ {
		if err := store.Save(ctx, testSnapshot(t, v)); err != nil {
			t.Fatalf("Save(v%d) error = %v", v, err)
		}
	}

	metas, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(metas) != 2 || metas[0].Version != 4 || metas[1].Version != 3 {
		t.Errorf("List() = %+v, want versions [4 3]", metas)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temporary file %s left behind", e.Name())
		}
	}
}

func TestFileStore_CorruptLatest(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewFileStore(dir, 3)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	if err := store.Save(ctx, testSnapshot(t, 1)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "snapshot_v2.gob.zst"), []byte("partial write"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := store.Load(ctx); !errors.Is(err, recommend.ErrSnapshotCorrupt) {
		t.Errorf("Load() error = %v, want ErrSnapshotCorrupt", err)
	}
}

func TestFileStore_IgnoresForeignFiles(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	for _, name := range []string{"README", "snapshot_vX.gob.zst", "snapshot_v0.gob.zst", ".snapshot-123.tmp"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
	}

	store, err := NewFileStore(dir, 1)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	if _, err := store.Load(ctx); !errors.Is(err, recommend.ErrSnapshotNotFound) {
		t.Errorf("Load() error = %v, want ErrSnapshotNotFound", err)
	}
}

func TestParseFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want int64
		ok   bool
	}{
		{"snapshot_v1.gob.zst", 1, true},
		{"snapshot_v42.gob.zst", 42, true},
		{"snapshot_v.gob.zst", 0, false},
		{"snapshot_v-1.gob.zst", 0, false},
		{"snapshot_v3.gob.gz", 0, false},
		{"model_v3.gob.zst", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseFilename(tt.name)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseFilename(%q) = %d, %v, want %d, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

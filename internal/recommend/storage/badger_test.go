// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/cinerec/internal/recommend"
)

func newTestBadgerStore(t *testing.T) *BadgerStore {
	t.Helper()

	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("open in-memory badger: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewBadgerStoreFromDB(db)
}

func TestBadgerStore_SaveLoad(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestBadgerStore(t)

	if _, err := store.Load(ctx); !errors.Is(err, recommend.ErrSnapshotNotFound) {
		t.Fatalf("Load() on empty store error = %v, want ErrSnapshotNotFound", err)
	}
	if v, err := store.LatestVersion(ctx); err != nil || v != 0 {
		t.Fatalf("LatestVersion() = %d, %v, want 0, nil", v, err)
	}

	if err := store.Save(ctx, testSnapshot(t, 1)); err != nil {
		t.Fatalf("Save(v1) error = %v", err)
	}
	if err := store.Save(ctx, testSnapshot(t, 2)); err != nil {
		t.Fatalf("Save(v2) error = %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Version != 2 || got.ItemCount() != 4 {
		t.Errorf("Load() = v%d with %d items, want v2 with 4", got.Version, got.ItemCount())
	}

	meta, err := store.Metadata(ctx)
	if err != nil {
		t.Fatalf("Metadata() error = %v", err)
	}
	if meta.Version != 2 || meta.Items != 4 {
		t.Errorf("Metadata() = %+v", meta)
	}
	if v, _ := store.LatestVersion(ctx); v != 2 {
		t.Errorf("LatestVersion() = %d, want 2", v)
	}
	if err := store.Close(); err != nil {
		t.Errorf("Close() on shared db error = %v", err)
	}
}

func TestBadgerStore_Corrupt(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestBadgerStore(t)
	err := store.db.Update(func(txn *badger.Txn) error {
		return txn.Set(badgerSnapshotKey, []byte("not a snapshot"))
	})
	if err != nil {
		t.Fatalf("seed corrupt value: %v", err)
	}

	if _, err := store.Load(ctx); !errors.Is(err, recommend.ErrSnapshotCorrupt) {
		t.Errorf("Load() error = %v, want ErrSnapshotCorrupt", err)
	}
}

func TestBadgerStore_OnDisk(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewBadgerStore(dir)
	if err != nil {
		t.Fatalf("NewBadgerStore() error = %v", err)
	}
	if err := store.Save(ctx, testSnapshot(t, 5)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := NewBadgerStore(dir)
	if err != nil {
		t.Fatalf("reopen NewBadgerStore() error = %v", err)
	}
	defer func() { _ = reopened.Close() }()

	got, err := reopened.Load(ctx)
	if err != nil {
		t.Fatalf("Load() after reopen error = %v", err)
	}
	if got.Version != 5 {
		t.Errorf("Load() version = %d, want 5", got.Version)
	}
}

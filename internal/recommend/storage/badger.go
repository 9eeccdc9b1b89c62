// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/cinerec/internal/recommend"
)

var (
	badgerSnapshotKey = []byte("snapshot:latest")
	badgerMetaKey     = []byte("snapshot:meta")
)

// BadgerStore keeps the latest snapshot under a single key in BadgerDB.
// The snapshot and its metadata are replaced in one transaction.
type BadgerStore struct {
	db     *badger.DB
	ownsDB bool
}

// NewBadgerStore opens (or creates) a BadgerDB database at path.
func NewBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Suppress BadgerDB internal logs
	// Snapshots are large single values; keep them well under the value log size.
	opts.ValueLogFileSize = 512 << 20
	opts.SyncWrites = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for snapshots: %w", err)
	}
	return &BadgerStore{db: db, ownsDB: true}, nil
}

// NewBadgerStoreFromDB creates a store on an existing BadgerDB connection.
// Close does not close a shared connection.
func NewBadgerStoreFromDB(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// Save replaces the stored snapshot.
func (s *BadgerStore) Save(ctx context.Context, snap *recommend.Snapshot) error {
	data, err := Encode(snap)
	if err != nil {
		return err
	}
	meta, err := DecodeMetadata(data)
	if err != nil {
		return err
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal snapshot metadata: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(badgerSnapshotKey, data); err != nil {
			return err
		}
		return txn.Set(badgerMetaKey, metaJSON)
	})
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Load reads the stored snapshot.
func (s *BadgerStore) Load(ctx context.Context) (*recommend.Snapshot, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerSnapshotKey)
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, recommend.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return Decode(data)
}

// Metadata returns the stored snapshot's metadata.
func (s *BadgerStore) Metadata(ctx context.Context) (*Metadata, error) {
	var meta Metadata
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerMetaKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &meta)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, recommend.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot metadata: %w", err)
	}
	return &meta, nil
}

// LatestVersion returns the stored version, or zero when empty.
func (s *BadgerStore) LatestVersion(ctx context.Context) (int64, error) {
	meta, err := s.Metadata(ctx)
	if errors.Is(err, recommend.ErrSnapshotNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return meta.Version, nil
}

// Close closes the database if the store opened it.
func (s *BadgerStore) Close() error {
	if !s.ownsDB {
		return nil
	}
	return s.db.Close()
}

// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

// Package storage persists similarity snapshots durably.
//
// Three backends implement recommend.SnapshotStore:
//
//   - FileStore: versioned files on local disk, written to a temporary file
//     and renamed into place. The highest version is the latest.
//   - BadgerStore: a single key in an embedded Badger database, replaced
//     inside one transaction.
//   - S3Store: a single object in an S3-compatible bucket. PutObject replaces
//     the object atomically.
//
// # Storage Format
//
// All backends share one encoding:
//
//	envelope (gob):
//	  Format    codec format version
//	  Version   snapshot version
//	  BuiltAt   build time
//	  Items     item count
//	  Checksum  SHA-256 of the uncompressed payload
//	  Payload   zstd(gob(recommend.Snapshot))
//
// Any decoding failure, checksum mismatch or structural problem is reported
// as recommend.ErrSnapshotCorrupt.
//
// # Usage Example
//
//	store, err := storage.NewFileStore("/data/models", 3)
//	if err != nil {
//	    return err
//	}
//	if err := store.Save(ctx, snap); err != nil {
//	    return err
//	}
//	snap, err := store.Load(ctx) // latest version
package storage

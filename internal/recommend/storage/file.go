// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/tomtom215/cinerec/internal/recommend"
)

const (
	filePrefix = "snapshot_v"
	fileSuffix = ".gob.zst"
)

// FileStore keeps versioned snapshot files in a directory.
// The file with the highest version is the latest snapshot.
type FileStore struct {
	baseDir string
	retain  int
	mu      sync.Mutex
}

// NewFileStore creates a store in baseDir that keeps the newest retain
// versions (at least one).
func NewFileStore(baseDir string, retain int) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil { //nolint:gosec // 0750 is acceptable for model storage
		return nil, fmt.Errorf("create snapshot directory: %w", err)
	}
	if retain < 1 {
		retain = 1
	}
	return &FileStore{baseDir: baseDir, retain: retain}, nil
}

// Save writes the snapshot to a temporary file, syncs it and renames it into
// place, then prunes old versions. A crash before the rename leaves only a
// stray temporary file behind; the previous versions stay intact.
func (s *FileStore) Save(ctx context.Context, snap *recommend.Snapshot) error {
	data, err := Encode(snap)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeAtomic(s.path(snap.Version), data); err != nil {
		return err
	}
	s.prune()
	return nil
}

// writeAtomic writes data to path via a temporary file in the same directory.
func (s *FileStore) writeAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(s.baseDir, ".snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()         //nolint:errcheck // already failing
			_ = os.Remove(tmpName) //nolint:errcheck // best-effort cleanup
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename snapshot: %w", err)
	}
	return nil
}

// Load reads the highest version. It returns recommend.ErrSnapshotNotFound
// when the directory holds no snapshot.
func (s *FileStore) Load(ctx context.Context) (*recommend.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	versions, err := s.versions()
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, recommend.ErrSnapshotNotFound
	}

	data, err := os.ReadFile(s.path(versions[0]))
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return Decode(data)
}

// LatestVersion returns the highest stored version, or zero.
func (s *FileStore) LatestVersion(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	versions, err := s.versions()
	if err != nil || len(versions) == 0 {
		return 0, err
	}
	return versions[0], nil
}

// List returns metadata for every stored version, newest first.
// Unreadable files are skipped.
func (s *FileStore) List(ctx context.Context) ([]Metadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	versions, err := s.versions()
	if err != nil {
		return nil, err
	}

	out := make([]Metadata, 0, len(versions))
	for _, v := range versions {
		data, err := os.ReadFile(s.path(v))
		if err != nil {
			continue
		}
		meta, err := DecodeMetadata(data)
		if err != nil {
			continue
		}
		out = append(out, *meta)
	}
	return out, nil
}

// prune removes all but the newest retained versions.
func (s *FileStore) prune() {
	versions, err := s.versions()
	if err != nil {
		return
	}
	for _, v := range versions[min(s.retain, len(versions)):] {
		_ = os.Remove(s.path(v)) //nolint:errcheck // best-effort cleanup of old versions
	}
}

// versions lists stored versions in descending order.
func (s *FileStore) versions() ([]int64, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read snapshot directory: %w", err)
	}

	var versions []int64
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if v, ok := parseFilename(entry.Name()); ok {
			versions = append(versions, v)
		}
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i] > versions[j] })
	return versions, nil
}

// path returns the file path for a version.
func (s *FileStore) path(version int64) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%s%d%s", filePrefix, version, fileSuffix))
}

// parseFilename extracts the version from a name like "snapshot_v12.gob.zst".
func parseFilename(name string) (int64, bool) {
	if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
		return 0, false
	}
	v, err := strconv.ParseInt(name[len(filePrefix):len(name)-len(fileSuffix)], 10, 64)
	if err != nil || v < 1 {
		return 0, false
	}
	return v, true
}

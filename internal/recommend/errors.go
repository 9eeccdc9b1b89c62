// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import "errors"

var (
	// ErrInsufficientData is returned when there are no interactions to train on.
	// Callers keep serving the previous snapshot, if any.
	ErrInsufficientData = errors.New("insufficient interaction data")

	// ErrTrainingInProgress is returned when a training run is already in flight.
	ErrTrainingInProgress = errors.New("training already in progress")

	// ErrSnapshotCorrupt is returned when a persisted snapshot cannot be decoded
	// or fails its integrity checks.
	ErrSnapshotCorrupt = errors.New("snapshot corrupt")

	// ErrSnapshotNotFound is returned by snapshot stores that hold no snapshot yet.
	ErrSnapshotNotFound = errors.New("snapshot not found")
)

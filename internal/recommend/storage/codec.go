// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package storage

import (
	"bytes"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/tomtom215/cinerec/internal/recommend"
)

// formatVersion identifies the envelope layout.
const formatVersion = 1

// maxDecodedSize bounds decompression of a single snapshot.
const maxDecodedSize = 4 << 30

// Metadata describes a stored snapshot without decoding its payload.
type Metadata struct {
	Version   int64     `json:"version"`
	BuiltAt   time.Time `json:"built_at"`
	Items     int       `json:"items"`
	Checksum  string    `json:"checksum"`
	SizeBytes int64     `json:"size_bytes"`
}

// envelope is the serialized form shared by all backends.
type envelope struct {
	Format   int
	Version  int64
	BuiltAt  time.Time
	Items    int
	Checksum string
	Payload  []byte
}

// ZSTD encoder/decoder pools for efficiency
var (
	encoderPool sync.Pool
	decoderPool sync.Pool
)

func getEncoder() (*zstd.Encoder, error) {
	if v := encoderPool.Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}
	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

func getDecoder() (*zstd.Decoder, error) {
	if v := decoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxDecodedSize))
}

// Encode serializes a snapshot into the storage format.
func Encode(snap *recommend.Snapshot) ([]byte, error) {
	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(snap); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	sum := sha256.Sum256(raw.Bytes())

	enc, err := getEncoder()
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	payload := enc.EncodeAll(raw.Bytes(), nil)
	encoderPool.Put(enc)

	var out bytes.Buffer
	env := envelope{
		Format:   formatVersion,
		Version:  snap.Version,
		BuiltAt:  snap.BuiltAt,
		Items:    snap.ItemCount(),
		Checksum: hex.EncodeToString(sum[:]),
		Payload:  payload,
	}
	if err := gob.NewEncoder(&out).Encode(env); err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	return out.Bytes(), nil
}

// Decode parses and validates a stored snapshot. Every failure wraps
// recommend.ErrSnapshotCorrupt.
func Decode(data []byte) (*recommend.Snapshot, error) {
	env, err := decodeEnvelope(data)
	if err != nil {
		return nil, err
	}

	dec, err := getDecoder()
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	raw, err := dec.DecodeAll(env.Payload, nil)
	decoderPool.Put(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: decompress: %v", recommend.ErrSnapshotCorrupt, err)
	}

	sum := sha256.Sum256(raw)
	if got := hex.EncodeToString(sum[:]); got != env.Checksum {
		return nil, fmt.Errorf("%w: checksum mismatch: expected %s, got %s", recommend.ErrSnapshotCorrupt, env.Checksum, got)
	}

	var snap recommend.Snapshot
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&snap); err != nil {
		return nil, fmt.Errorf("%w: decode snapshot: %v", recommend.ErrSnapshotCorrupt, err)
	}
	if snap.Version != env.Version {
		return nil, fmt.Errorf("%w: envelope version %d, snapshot version %d", recommend.ErrSnapshotCorrupt, env.Version, snap.Version)
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return &snap, nil
}

// DecodeMetadata reads the envelope header only.
func DecodeMetadata(data []byte) (*Metadata, error) {
	env, err := decodeEnvelope(data)
	if err != nil {
		return nil, err
	}
	return &Metadata{
		Version:   env.Version,
		BuiltAt:   env.BuiltAt,
		Items:     env.Items,
		Checksum:  env.Checksum,
		SizeBytes: int64(len(data)),
	}, nil
}

func decodeEnvelope(data []byte) (*envelope, error) {
	var env envelope
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: read envelope: %v", recommend.ErrSnapshotCorrupt, err)
	}
	if env.Format != formatVersion {
		return nil, fmt.Errorf("%w: unsupported format %d", recommend.ErrSnapshotCorrupt, env.Format)
	}
	return &env, nil
}

// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/tomtom215/cinerec/internal/recommend"
)

// S3Config configures an S3-compatible snapshot store.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

// S3Store keeps the latest snapshot as a single object. PutObject replaces
// the object atomically, so readers see either the old or the new snapshot.
type S3Store struct {
	client *minio.Client
	bucket string
	key    string
}

// NewS3Store creates a store from configuration.
func NewS3Store(cfg *S3Config) (*S3Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}
	return NewS3StoreFromClient(client, cfg.Bucket, cfg.Prefix), nil
}

// NewS3StoreFromClient creates a store on an existing client.
func NewS3StoreFromClient(client *minio.Client, bucket, prefix string) *S3Store {
	return &S3Store{
		client: client,
		bucket: bucket,
		key:    path.Join(prefix, "snapshot"+fileSuffix),
	}
}

// EnsureBucket creates the bucket if it does not exist.
func (s *S3Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	return nil
}

// Save replaces the stored snapshot object.
func (s *S3Store) Save(ctx context.Context, snap *recommend.Snapshot) error {
	data, err := Encode(snap)
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, s.bucket, s.key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/octet-stream"})
	if err != nil {
		return fmt.Errorf("put snapshot object: %w", err)
	}
	return nil
}

// Load reads the stored snapshot object.
func (s *S3Store) Load(ctx context.Context) (*recommend.Snapshot, error) {
	data, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// LatestVersion returns the stored version, or zero when empty.
func (s *S3Store) LatestVersion(ctx context.Context) (int64, error) {
	data, err := s.read(ctx)
	if errors.Is(err, recommend.ErrSnapshotNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	meta, err := DecodeMetadata(data)
	if err != nil {
		// An unreadable object does not block training a replacement.
		return 0, nil //nolint:nilerr // corrupt objects are overwritten by the next save
	}
	return meta.Version, nil
}

func (s *S3Store) read(ctx context.Context) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.mapError(err)
	}
	defer func() { _ = obj.Close() }() //nolint:errcheck // error on close after read is not actionable

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, s.mapError(err)
	}
	return data, nil
}

func (s *S3Store) mapError(err error) error {
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.Code == "NotFound" {
		return recommend.ErrSnapshotNotFound
	}
	return fmt.Errorf("read snapshot object: %w", err)
}

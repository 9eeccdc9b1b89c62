// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package config

import (
	"testing"
	"time"
)

func TestRecommendConfig_EngineConfig(t *testing.T) {
	t.Parallel()

	rc := defaultConfig().Recommend
	rc.MinSimilarity = 0.25
	rc.FavoriteWeight = 4
	rc.Workers = 3
	rc.TrainTimeout = time.Minute

	cfg := rc.EngineConfig()
	if cfg.MinSimilarity != 0.25 || cfg.FavoriteWeight != 4 {
		t.Errorf("EngineConfig() constants = %v/%v, want 0.25/4", cfg.MinSimilarity, cfg.FavoriteWeight)
	}
	if cfg.Workers != 3 {
		t.Errorf("EngineConfig().Workers = %d, want 3", cfg.Workers)
	}
	if cfg.TrainTimeout != time.Minute {
		t.Errorf("EngineConfig().TrainTimeout = %v, want 1m", cfg.TrainTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("EngineConfig().Validate() error = %v", err)
	}

	rc.Workers = 0
	if got := rc.EngineConfig().Workers; got < 1 {
		t.Errorf("EngineConfig().Workers with 0 = %d, want >= 1", got)
	}
}

func TestValidateSnapshot(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "file default", mutate: func(*Config) {}},
		{name: "file without dir", mutate: func(c *Config) { c.Snapshot.Dir = "" }, wantErr: true},
		{name: "file retain zero", mutate: func(c *Config) { c.Snapshot.Retain = 0 }, wantErr: true},
		{name: "badger", mutate: func(c *Config) { c.Snapshot.Backend = SnapshotBackendBadger }},
		{
			name: "s3 complete",
			mutate: func(c *Config) {
				c.Snapshot.Backend = SnapshotBackendS3
				c.Snapshot.S3 = S3Config{Endpoint: "minio:9000", Bucket: "models", AccessKey: "a", SecretKey: "b"}
			},
		},
		{
			name: "s3 endpoint with scheme",
			mutate: func(c *Config) {
				c.Snapshot.Backend = SnapshotBackendS3
				c.Snapshot.S3 = S3Config{Endpoint: "http://minio:9000", Bucket: "models", AccessKey: "a", SecretKey: "b"}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultConfig()
			tt.mutate(cfg)
			if err := cfg.validateSnapshot(); (err != nil) != tt.wantErr {
				t.Errorf("validateSnapshot() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateSecurity_ProductionWildcard(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.Server.Environment = "production"
	if err := cfg.validateSecurity(); err == nil {
		t.Error("validateSecurity() accepted * CORS origin in production")
	}

	cfg.Security.CORSOrigins = []string{"https://cinerec.example"}
	if err := cfg.validateSecurity(); err != nil {
		t.Errorf("validateSecurity() error = %v", err)
	}
}

func TestNATSPort(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		want int
	}{
		{"nats://127.0.0.1:4333", 4333},
		{"nats://nats", 4222},
		{"::bad::", 4222},
	}
	for _, tt := range tests {
		n := NATSConfig{URL: tt.url}
		if got := n.NATSPort(); got != tt.want {
			t.Errorf("NATSPort(%q) = %d, want %d", tt.url, got, tt.want)
		}
	}
}

func TestHTTPWriteTimeout(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.Server.Timeout = 30 * time.Second
	cfg.Recommend.TrainTimeout = 10 * time.Minute
	cfg.Server.WriteTimeout = 0
	if got := cfg.HTTPWriteTimeout(); got != 10*time.Minute+30*time.Second {
		t.Errorf("derived HTTPWriteTimeout() = %v", got)
	}

	cfg.Server.WriteTimeout = 45 * time.Second
	if got := cfg.HTTPWriteTimeout(); got != 45*time.Second {
		t.Errorf("explicit HTTPWriteTimeout() = %v, want 45s", got)
	}
}

// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package eventprocessor

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/cinerec/internal/recommend"
)

// ModelActivated announces that a replica trained, persisted and activated
// a new snapshot. Replicas sharing the snapshot store reload on receipt.
type ModelActivated struct {
	EventID     string    `json:"event_id"`
	InstanceID  string    `json:"instance_id"`
	RunID       string    `json:"run_id"`
	Version     int64     `json:"version"`
	Items       int       `json:"items"`
	Users       int       `json:"users"`
	PublishedAt time.Time `json:"published_at"`
}

// NewModelActivated builds the event for a successful retrain.
func NewModelActivated(instanceID string, result *recommend.RetrainResult) *ModelActivated {
	return &ModelActivated{
		EventID:     uuid.New().String(),
		InstanceID:  instanceID,
		RunID:       result.RunID,
		Version:     result.Version,
		Items:       result.Items,
		Users:       result.Users,
		PublishedAt: time.Now().UTC(),
	}
}

// Validate checks required fields.
func (e *ModelActivated) Validate() error {
	if e.EventID == "" {
		return fmt.Errorf("event_id is required")
	}
	if e.InstanceID == "" {
		return fmt.Errorf("instance_id is required")
	}
	if e.Version <= 0 {
		return fmt.Errorf("version must be positive, got %d", e.Version)
	}
	return nil
}

// SerializeEvent marshals an event to JSON.
func SerializeEvent(event *ModelActivated) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return data, nil
}

// DeserializeEvent unmarshals and validates an event.
func DeserializeEvent(data []byte) (*ModelActivated, error) {
	var event ModelActivated
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	if err := event.Validate(); err != nil {
		return nil, fmt.Errorf("invalid event: %w", err)
	}
	return &event, nil
}

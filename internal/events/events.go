// Package events carries emission notifications over a message bus so that
// dashboards and exporters can react to new records without polling.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alfredjeanlab/carbon/internal/model"
)

// Event topic constants
const (
	TopicEmissionRecorded = "carbon.emission.recorded"
	TopicSyncExported     = "carbon.sync.exported"

	// TopicAll matches every carbon topic.
	TopicAll = "carbon.>"
)

// EmissionRecorded is published after an emission has been durably stored.
type EmissionRecorded struct {
	Emission *model.Emission `json:"emission"`
}

// SyncExported is published after a snapshot has been pushed to a destination.
type SyncExported struct {
	Destination string `json:"destination"`
	Emissions   int    `json:"emissions"`
}

// DecodeEmissionRecorded parses a payload published on TopicEmissionRecorded.
func DecodeEmissionRecorded(data []byte) (*EmissionRecorded, error) {
	var ev EmissionRecorded
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("decoding emission event: %w", err)
	}
	if ev.Emission == nil {
		return nil, fmt.Errorf("decoding emission event: missing emission")
	}
	return &ev, nil
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

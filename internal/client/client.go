// Package client provides a transport-agnostic interface for the carbon
// ledger and an HTTP/JSON implementation that talks to its REST API.
package client

import (
	"context"
	"time"

	"github.com/alfredjeanlab/carbon/internal/model"
)

// EmissionsClient is the interface the CLI commands, the simulator and the
// dashboard use to talk to the ledger server.
type EmissionsClient interface {
	RecordEmission(ctx context.Context, req *RecordRequest) (*RecordResponse, error)
	GetStats(ctx context.Context) (*model.Stats, error)
	GetLatestBadge(ctx context.Context) (*model.BadgeDescriptor, error)

	// Health
	Health(ctx context.Context) (string, error)

	// Lifecycle
	Close() error
}

// RecordRequest is the body of POST /record.
type RecordRequest struct {
	Repo        string  `json:"repo"`
	Owner       string  `json:"owner"`
	RunID       string  `json:"run_id"`
	CO2         float64 `json:"co2"`
	Duration    int64   `json:"duration"`
	MachineType string  `json:"machine_type"`
	Badge       string  `json:"badge"`
	Timestamp   string  `json:"timestamp"`
}

// NewRecordRequest builds a request from an emission, formatting the
// timestamp as RFC 3339 in UTC.
func NewRecordRequest(e *model.Emission) *RecordRequest {
	return &RecordRequest{
		Repo:        e.Repo,
		Owner:       e.Owner,
		RunID:       e.RunID,
		CO2:         e.CO2,
		Duration:    e.Duration,
		MachineType: e.MachineType,
		Badge:       string(e.Badge),
		Timestamp:   e.Timestamp.UTC().Format(time.RFC3339Nano),
	}
}

// RecordResponse is the success body of POST /record.
type RecordResponse struct {
	Status string `json:"status"`
	ID     int64  `json:"id"`
}

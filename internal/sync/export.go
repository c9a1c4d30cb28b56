package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/alfredjeanlab/carbon/internal/model"
	"github.com/alfredjeanlab/carbon/internal/store"
)

// FormatVersion is written in every export header.
const FormatVersion = "1"

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version       string    `json:"version"`
	Type          string    `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	EmissionCount int       `json:"emission_count"`
	TotalCO2      float64   `json:"total_co2"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string          `json:"type"`
	Data *model.Emission `json:"data"`
}

// ExportJSONL writes every emission in the store to w as JSONL: a header
// line followed by one "emission" line per record in id order.
func ExportJSONL(ctx context.Context, s store.Store, w io.Writer) (int, error) {
	emissions, err := s.ListEmissions(ctx)
	if err != nil {
		return 0, fmt.Errorf("list emissions: %w", err)
	}
	stats := model.ComputeStats(emissions)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:       FormatVersion,
		Type:          "header",
		Timestamp:     time.Now().UTC(),
		EmissionCount: len(emissions),
		TotalCO2:      stats.TotalCO2,
	}); err != nil {
		return 0, fmt.Errorf("encode header: %w", err)
	}

	for _, e := range emissions {
		if err := enc.Encode(record{Type: "emission", Data: e}); err != nil {
			return 0, fmt.Errorf("encode emission %d: %w", e.ID, err)
		}
	}

	return len(emissions), nil
}

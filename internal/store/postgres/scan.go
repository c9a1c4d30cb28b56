package postgres

import (
	"github.com/alfredjeanlab/carbon/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanEmission scans a single row into a model.Emission.
// The row must contain columns in the order defined by emissionColumns.
func scanEmission(row scannable) (*model.Emission, error) {
	var e model.Emission
	var badge string

	err := row.Scan(
		&e.ID,
		&e.Repo,
		&e.Owner,
		&e.RunID,
		&e.CO2,
		&e.Duration,
		&e.MachineType,
		&badge,
		&e.Timestamp,
	)
	if err != nil {
		return nil, err
	}

	e.Badge = model.Badge(badge)
	e.Timestamp = e.Timestamp.UTC()
	return &e, nil
}

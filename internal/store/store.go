package store

import (
	"context"
	"fmt"

	"github.com/alfredjeanlab/carbon/internal/model"
)

// Store defines the persistence interface for emissions.
// The emission set is append-only: there is no update or delete.
type Store interface {
	// AppendEmission stores e and sets e.ID to the assigned identifier.
	AppendEmission(ctx context.Context, e *model.Emission) error
	// ListEmissions returns every emission in insertion (id) order.
	ListEmissions(ctx context.Context) ([]*model.Emission, error)
	// LatestEmission returns the emission with the greatest timestamp,
	// ties broken by the greatest id, or nil when the store is empty.
	LatestEmission(ctx context.Context) (*model.Emission, error)
	// CountByBadge returns the number of emissions carrying badge.
	CountByBadge(ctx context.Context, badge model.Badge) (int, error)

	// Transaction support
	RunInTransaction(ctx context.Context, fn func(tx Store) error) error

	// Lifecycle
	Close() error
}

// StorageError wraps a failure of the underlying database.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Wrap returns err wrapped as a *StorageError, or nil when err is nil.
// Errors that already are storage errors are returned unchanged.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*StorageError); ok {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

package server

import (
	"context"
	"errors"
	"log/slog"

	"github.com/alfredjeanlab/carbon/internal/events"
	"github.com/alfredjeanlab/carbon/internal/model"
	"github.com/alfredjeanlab/carbon/internal/store"
)

// errNoData is returned when an ingestion request carries no fields at all.
var errNoData = inputError("No data provided")

// inputError indicates a request that could not be read as an emission.
// Transport layers map this to 400.
type inputError string

func (e inputError) Error() string { return string(e) }

// CarbonServer implements the emission ledger operations on top of a store.
type CarbonServer struct {
	store     store.Store
	publisher events.Publisher
	metrics   *Metrics
}

// NewCarbonServer returns a new CarbonServer backed by the given store and publisher.
func NewCarbonServer(s store.Store, p events.Publisher) *CarbonServer {
	if p == nil {
		p = &events.NoopPublisher{}
	}
	return &CarbonServer{
		store:     s,
		publisher: p,
		metrics:   NewMetrics(s),
	}
}

// Metrics exposes the server's Prometheus instruments.
func (s *CarbonServer) Metrics() *Metrics { return s.metrics }

// RecordEmission validates in and appends it to the store inside a
// transaction, so a failure leaves nothing behind. The stored emission, with
// its assigned ID, is returned.
func (s *CarbonServer) RecordEmission(ctx context.Context, in *model.EmissionInput) (*model.Emission, error) {
	if in.IsEmpty() {
		s.metrics.observeRejected("empty")
		return nil, errNoData
	}

	e, err := in.Build(model.DefaultInput)
	if err != nil {
		s.metrics.observeRejected("validation")
		slog.Warn("rejected emission", "error", err)
		return nil, err
	}

	err = s.store.RunInTransaction(ctx, func(tx store.Store) error {
		return tx.AppendEmission(ctx, e)
	})
	if err != nil {
		s.metrics.observeRejected("storage")
		slog.Error("failed to store emission", "repo", e.Repo, "run_id", e.RunID, "error", err)
		return nil, err
	}

	s.metrics.observeRecorded(e)
	s.publish(ctx, events.TopicEmissionRecorded, events.EmissionRecorded{Emission: e})
	return e, nil
}

// Stats aggregates every stored emission.
func (s *CarbonServer) Stats(ctx context.Context) (*model.Stats, error) {
	emissions, err := s.store.ListEmissions(ctx)
	if err != nil {
		return nil, err
	}
	return model.ComputeStats(emissions), nil
}

// LatestBadge returns the badge descriptor for the most recent emission.
func (s *CarbonServer) LatestBadge(ctx context.Context) (*model.BadgeDescriptor, error) {
	latest, err := s.store.LatestEmission(ctx)
	if err != nil {
		return nil, err
	}
	return model.NewBadgeDescriptor(latest), nil
}

// publish is best-effort; the emission is already committed.
func (s *CarbonServer) publish(ctx context.Context, topic string, event any) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		slog.Warn("failed to publish event", "topic", topic, "error", err)
	}
}

// isInputError reports whether err should be answered with 400.
func isInputError(err error) bool {
	var ie inputError
	return errors.As(err, &ie)
}

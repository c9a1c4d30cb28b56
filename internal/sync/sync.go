// Package sync backs up the emission ledger as JSONL to external destinations.
package sync

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alfredjeanlab/carbon/internal/events"
	"github.com/alfredjeanlab/carbon/internal/store"
)

// Destination is the interface for a sync target (S3, git, etc.).
type Destination interface {
	// Name identifies the destination in logs and events.
	Name() string
	// Write sends the JSONL payload to the destination.
	Write(ctx context.Context, data []byte) error
}

// Scheduler runs periodic syncs to one or more destinations.
type Scheduler struct {
	store        store.Store
	destinations []Destination
	interval     time.Duration
	logger       *slog.Logger
	publisher    events.Publisher

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a scheduler that exports from the store to the given
// destinations at the specified interval. publisher may be nil.
func NewScheduler(s store.Store, destinations []Destination, interval time.Duration, logger *slog.Logger, publisher events.Publisher) *Scheduler {
	if publisher == nil {
		publisher = &events.NoopPublisher{}
	}
	return &Scheduler{
		store:        s,
		destinations: destinations,
		interval:     interval,
		logger:       logger,
		publisher:    publisher,
	}
}

// Start begins periodic sync. It runs an initial sync immediately, then on
// each tick. A non-positive interval runs the initial sync only.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()
}

// Stop cancels the scheduler and waits for the current sync (if any) to finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context) {
	_ = s.RunOnce(ctx)
	if s.interval <= 0 {
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = s.RunOnce(ctx)
		}
	}
}

// RunOnce exports the store and writes the snapshot to every destination.
// A failing destination does not stop the others; all failures are returned
// joined.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	var buf bytes.Buffer
	count, err := ExportJSONL(ctx, s.store, &buf)
	if err != nil {
		s.logger.Error("sync export failed", "err", err)
		return err
	}
	data := buf.Bytes()

	var errs []error
	for _, dest := range s.destinations {
		if err := dest.Write(ctx, data); err != nil {
			s.logger.Error("sync destination write failed", "destination", dest.Name(), "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", dest.Name(), err))
			continue
		}
		ev := events.SyncExported{Destination: dest.Name(), Emissions: count}
		if err := s.publisher.Publish(ctx, events.TopicSyncExported, ev); err != nil {
			s.logger.Warn("failed to publish sync event", "destination", dest.Name(), "err", err)
		}
	}

	s.logger.Info("sync completed", "destinations", len(s.destinations), "emissions", count, "bytes", len(data))
	return errors.Join(errs...)
}

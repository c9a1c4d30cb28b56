package simulate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/alfredjeanlab/carbon/internal/client"
	"github.com/alfredjeanlab/carbon/internal/model"
)

// DefaultRuns and DefaultDelay match the interactive defaults of the demo.
const (
	DefaultRuns  = 20
	DefaultDelay = 500 * time.Millisecond
)

// ErrBackendUnavailable is returned when the preflight /stats call fails.
var ErrBackendUnavailable = errors.New("backend is not responding")

// Result summarizes a simulation.
type Result struct {
	Attempted int `json:"attempted"`
	Succeeded int `json:"succeeded"`
}

// Runner sends generated runs to a ledger server.
type Runner struct {
	client    client.EmissionsClient
	generator *Generator
	delay     time.Duration
	logger    *slog.Logger

	// OnResult, when set, is called after each attempt.
	OnResult func(e *model.Emission, err error)
}

// NewRunner creates a runner that waits delay between requests.
func NewRunner(c client.EmissionsClient, g *Generator, delay time.Duration, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{client: c, generator: g, delay: delay, logger: logger}
}

// Run checks that the server answers /stats, then records n runs. A run
// counts as succeeded when the server accepts it with 201 Created.
// Cancelling ctx stops early and returns the partial result with ctx's error.
func (r *Runner) Run(ctx context.Context, n int) (Result, error) {
	var res Result
	if _, err := r.client.GetStats(ctx); err != nil {
		return res, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	limit := rate.Inf
	if r.delay > 0 {
		limit = rate.Every(r.delay)
	}
	limiter := rate.NewLimiter(limit, 1)

	for i := 0; i < n; i++ {
		if err := limiter.Wait(ctx); err != nil {
			return res, err
		}

		e := r.generator.Next()
		res.Attempted++
		resp, err := r.client.RecordEmission(ctx, client.NewRecordRequest(e))
		if err == nil {
			e.ID = resp.ID
			res.Succeeded++
			r.logger.Info("recorded run", "repo", e.Repo, "co2", e.CO2, "badge", e.Badge)
		} else {
			r.logger.Warn("record failed", "repo", e.Repo, "err", err)
		}
		if r.OnResult != nil {
			r.OnResult(e, err)
		}
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
	}
	return res, nil
}

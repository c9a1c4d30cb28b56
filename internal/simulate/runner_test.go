package simulate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alfredjeanlab/carbon/internal/client"
	"github.com/alfredjeanlab/carbon/internal/model"
	"github.com/alfredjeanlab/carbon/internal/server"
	"github.com/alfredjeanlab/carbon/internal/store/sqlite"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newLedger(t *testing.T) *client.HTTPClient {
	t.Helper()
	st, err := sqlite.New(sqlite.MemoryPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	srv := httptest.NewServer(server.NewCarbonServer(st, nil).NewHTTPHandler(nil))
	t.Cleanup(srv.Close)
	return client.NewHTTPClient(srv.URL)
}

func TestRunner_Run(t *testing.T) {
	c := newLedger(t)
	var seen []*model.Emission
	r := NewRunner(c, NewGenerator(1, nil), 0, quietLogger())
	r.OnResult = func(e *model.Emission, err error) {
		if err != nil {
			t.Errorf("unexpected record error: %v", err)
		}
		seen = append(seen, e)
	}

	res, err := r.Run(context.Background(), 5)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res != (Result{Attempted: 5, Succeeded: 5}) {
		t.Fatalf("result = %+v", res)
	}

	stats, err := c.GetStats(context.Background())
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if len(stats.Emissions) != 5 {
		t.Fatalf("stored %d emissions, want 5", len(stats.Emissions))
	}
	for i, e := range stats.Emissions {
		if e.ID != seen[i].ID || e.RunID != seen[i].RunID || e.CO2 != seen[i].CO2 {
			t.Errorf("stored %+v, sent %+v", e, seen[i])
		}
	}
}

func TestRunner_Paced(t *testing.T) {
	c := newLedger(t)
	r := NewRunner(c, NewGenerator(1, nil), 40*time.Millisecond, quietLogger())

	start := time.Now()
	if _, err := r.Run(context.Background(), 3); err != nil {
		t.Fatalf("Run: %v", err)
	}
	// The first request goes out immediately, the next two wait.
	if elapsed := time.Since(start); elapsed < 70*time.Millisecond {
		t.Errorf("3 runs took %v, expected pacing of about 80ms", elapsed)
	}
}

func TestRunner_BackendDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	r := NewRunner(client.NewHTTPClient(url), NewGenerator(1, nil), 0, quietLogger())
	res, err := r.Run(context.Background(), 3)
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
	if res.Attempted != 0 {
		t.Errorf("nothing should be attempted, got %+v", res)
	}
}

func TestRunner_CountsOnlyAccepted(t *testing.T) {
	var posts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/stats" {
			_, _ = io.WriteString(w, `{"total_co2":0,"average_co2":0,"badge_counts":{},"emissions":[]}`)
			return
		}
		posts++
		if posts%2 == 0 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"error":"disk full"}`)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"status":"success","id":1}`)
	}))
	defer srv.Close()

	r := NewRunner(client.NewHTTPClient(srv.URL), NewGenerator(1, nil), 0, quietLogger())
	res, err := r.Run(context.Background(), 4)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res != (Result{Attempted: 4, Succeeded: 2}) {
		t.Fatalf("result = %+v", res)
	}
}

func TestRunner_Cancel(t *testing.T) {
	c := newLedger(t)
	ctx, cancel := context.WithCancel(context.Background())

	r := NewRunner(c, NewGenerator(1, nil), time.Hour, quietLogger())
	r.OnResult = func(*model.Emission, error) { cancel() }

	res, err := r.Run(ctx, 10)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if res.Attempted != 1 || res.Succeeded != 1 {
		t.Fatalf("result = %+v", res)
	}
}

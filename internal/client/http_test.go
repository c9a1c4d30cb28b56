package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alfredjeanlab/carbon/internal/model"
)

// testHandler captures the incoming request details and returns a canned response.
type testHandler struct {
	// captured from the request
	method      string
	path        string
	body        string
	contentType string

	// canned response
	statusCode   int
	responseBody string
}

func (h *testHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.method = r.Method
	h.path = r.URL.Path
	h.contentType = r.Header.Get("Content-Type")
	if r.Body != nil {
		data, _ := io.ReadAll(r.Body)
		h.body = string(data)
	}

	w.Header().Set("Content-Type", "application/json")
	if h.statusCode != 0 {
		w.WriteHeader(h.statusCode)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	if h.responseBody != "" {
		_, _ = w.Write([]byte(h.responseBody))
	}
}

// newTestClient creates an HTTPClient pointed at a test server with the given handler.
func newTestClient(h http.Handler) (*HTTPClient, *httptest.Server) {
	srv := httptest.NewServer(h)
	c := NewHTTPClient(srv.URL + "/")
	return c, srv
}

func TestHTTPClient_ImplementsEmissionsClient(t *testing.T) {
	var _ EmissionsClient = (*HTTPClient)(nil)
}

func TestNewHTTPClient_TrimsSlash(t *testing.T) {
	c := NewHTTPClient("http://localhost:5000///")
	if c.BaseURL() != "http://localhost:5000" {
		t.Fatalf("BaseURL = %q", c.BaseURL())
	}
}

func TestHTTPClient_RecordEmission(t *testing.T) {
	h := &testHandler{statusCode: http.StatusCreated, responseBody: `{"status":"success","id":42}`}
	c, srv := newTestClient(h)
	defer srv.Close()

	resp, err := c.RecordEmission(context.Background(), &RecordRequest{
		Repo: "api", Owner: "acme", RunID: "r1", CO2: 0.5, Duration: 90,
		MachineType: "ubuntu-latest", Badge: "Yellow", Timestamp: "2024-01-02T03:04:05Z",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != "success" || resp.ID != 42 {
		t.Fatalf("response = %+v", resp)
	}

	if h.method != http.MethodPost || h.path != "/record" {
		t.Errorf("request = %s %s", h.method, h.path)
	}
	if h.contentType != "application/json" {
		t.Errorf("Content-Type = %q", h.contentType)
	}
	var sent map[string]any
	if err := json.Unmarshal([]byte(h.body), &sent); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	for key, want := range map[string]any{
		"repo": "api", "owner": "acme", "run_id": "r1", "co2": 0.5, "duration": 90.0,
		"machine_type": "ubuntu-latest", "badge": "Yellow", "timestamp": "2024-01-02T03:04:05Z",
	} {
		if sent[key] != want {
			t.Errorf("body[%s] = %v, want %v", key, sent[key], want)
		}
	}
}

func TestHTTPClient_RecordEmission_Errors(t *testing.T) {
	for _, tc := range []struct {
		name     string
		status   int
		body     string
		wantCode int
		wantMsg  string
	}{
		{"NoData", http.StatusBadRequest, `{"error":"No data provided"}`, 400, "No data provided"},
		{"Validation", http.StatusInternalServerError, `{"error":"validation failed: timestamp: is required"}`, 500, "validation failed: timestamp: is required"},
		{"PlainText", http.StatusBadGateway, "upstream down\n", 502, "upstream down"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c, srv := newTestClient(&testHandler{statusCode: tc.status, responseBody: tc.body})
			defer srv.Close()

			_, err := c.RecordEmission(context.Background(), &RecordRequest{})
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %v", err)
			}
			if apiErr.StatusCode != tc.wantCode || apiErr.Message != tc.wantMsg {
				t.Errorf("got %d %q, want %d %q", apiErr.StatusCode, apiErr.Message, tc.wantCode, tc.wantMsg)
			}
		})
	}
}

func TestHTTPClient_GetStats(t *testing.T) {
	h := &testHandler{responseBody: `{
		"total_co2": 3.5,
		"average_co2": 1.75,
		"badge_counts": {"Green": 1, "Yellow": 1, "Red": 0},
		"emissions": [
			{"id": 1, "repo": "api", "owner": "acme", "run_id": "r1", "co2": 1.5, "duration": 60,
			 "machine_type": "ubuntu-latest", "badge": "Green", "timestamp": "2024-01-01T00:00:00Z"},
			{"id": 2, "repo": "web", "owner": "acme", "run_id": "r2", "co2": 2.0, "duration": 90,
			 "machine_type": "macos-latest", "badge": "Yellow", "timestamp": "2024-01-02T00:00:00Z"}
		]
	}`}
	c, srv := newTestClient(h)
	defer srv.Close()

	stats, err := c.GetStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.method != http.MethodGet || h.path != "/stats" {
		t.Errorf("request = %s %s", h.method, h.path)
	}
	if stats.TotalCO2 != 3.5 || stats.AverageCO2 != 1.75 {
		t.Errorf("totals = %v %v", stats.TotalCO2, stats.AverageCO2)
	}
	if stats.BadgeCounts[model.BadgeGreen] != 1 || stats.BadgeCounts[model.BadgeYellow] != 1 {
		t.Errorf("badge_counts = %v", stats.BadgeCounts)
	}
	if len(stats.Emissions) != 2 || stats.Emissions[1].MachineType != "macos-latest" {
		t.Fatalf("emissions = %+v", stats.Emissions)
	}
	want := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	if !stats.Emissions[1].Timestamp.Equal(want) {
		t.Errorf("timestamp = %v", stats.Emissions[1].Timestamp)
	}
}

func TestHTTPClient_GetStats_MissingCounts(t *testing.T) {
	c, srv := newTestClient(&testHandler{responseBody: `{"total_co2":0,"average_co2":0,"emissions":[]}`})
	defer srv.Close()

	stats, err := c.GetStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.BadgeCounts == nil {
		t.Fatal("BadgeCounts should never be nil")
	}
}

func TestHTTPClient_GetLatestBadge(t *testing.T) {
	h := &testHandler{responseBody: `{"schemaVersion":1,"label":"CO2","message":"Red","color":"red"}`}
	c, srv := newTestClient(h)
	defer srv.Close()

	badge, err := c.GetLatestBadge(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.path != "/latest_co2_badge" {
		t.Errorf("path = %q", h.path)
	}
	want := model.BadgeDescriptor{SchemaVersion: 1, Label: "CO2", Message: "Red", Color: "red"}
	if *badge != want {
		t.Errorf("badge = %+v", badge)
	}
}

func TestHTTPClient_Health(t *testing.T) {
	h := &testHandler{responseBody: `{"status":"ok"}`}
	c, srv := newTestClient(h)
	defer srv.Close()

	status, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != "ok" || h.path != "/health" {
		t.Errorf("status=%q path=%q", status, h.path)
	}
}

func TestHTTPClient_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPClient(url).GetStats(context.Background())
	if err == nil {
		t.Fatal("expected error for closed server")
	}
	if !strings.Contains(err.Error(), "performing request") {
		t.Errorf("error = %v", err)
	}
}

func TestHTTPClient_BadJSON(t *testing.T) {
	c, srv := newTestClient(&testHandler{responseBody: `not json`})
	defer srv.Close()

	if _, err := c.GetLatestBadge(context.Background()); err == nil || !strings.Contains(err.Error(), "decoding response") {
		t.Fatalf("expected decoding error, got %v", err)
	}
}

func TestNewRecordRequest(t *testing.T) {
	ts := time.Date(2024, 1, 2, 5, 4, 5, 0, time.FixedZone("X", 2*3600))
	req := NewRecordRequest(&model.Emission{
		Repo: "api", Owner: "acme", RunID: "r", CO2: 1, Duration: 2,
		MachineType: "m", Badge: model.BadgeRed, Timestamp: ts,
	})
	if req.Timestamp != "2024-01-02T03:04:05Z" {
		t.Errorf("Timestamp = %q", req.Timestamp)
	}
	if req.Badge != "Red" || req.RunID != "r" {
		t.Errorf("req = %+v", req)
	}
}

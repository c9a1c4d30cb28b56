package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/alfredjeanlab/carbon/internal/model"
)

// maxBodyBytes caps the size of an ingestion request body.
const maxBodyBytes = 1 << 20

// NewHTTPHandler returns an http.Handler with all routes registered and the
// standard middleware applied. corsOrigins lists the browser origins allowed
// to call the API; "*" allows any.
func (s *CarbonServer) NewHTTPHandler(corsOrigins []string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /record", s.handleRecord)
	mux.HandleFunc("GET /stats", s.handleStats)
	mux.HandleFunc("GET /latest_co2_badge", s.handleLatestBadge)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())

	var h http.Handler = mux
	h = CORSMiddleware(corsOrigins)(h)
	h = LoggingMiddleware(s.metrics, h)
	h = RecoveryMiddleware(h)
	return h
}

// handleRecord handles POST /record.
func (s *CarbonServer) handleRecord(w http.ResponseWriter, r *http.Request) {
	in, err := readEmissionInput(w, r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			s.metrics.observeRejected("too_large")
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		case isInputError(err):
			s.metrics.observeRejected("empty")
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			s.metrics.observeRejected("malformed")
			writeError(w, http.StatusBadRequest, "invalid JSON body")
		}
		return
	}

	e, err := s.RecordEmission(r.Context(), in)
	if err != nil {
		if isInputError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, recordResponse{Status: "success", ID: e.ID})
}

type recordResponse struct {
	Status string `json:"status"`
	ID     int64  `json:"id"`
}

// readEmissionInput decodes the request body. A blank body yields errNoData;
// null and {} decode to an empty input that RecordEmission rejects.
func readEmissionInput(w http.ResponseWriter, r *http.Request) (*model.EmissionInput, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errNoData
	}

	var in model.EmissionInput
	if err := json.Unmarshal(body, &in); err != nil {
		return nil, err
	}
	return &in, nil
}

// handleStats handles GET /stats.
func (s *CarbonServer) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.Stats(r.Context())
	if err != nil {
		slog.Error("failed to compute stats", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleLatestBadge handles GET /latest_co2_badge.
func (s *CarbonServer) handleLatestBadge(w http.ResponseWriter, r *http.Request) {
	badge, err := s.LatestBadge(r.Context())
	if err != nil {
		slog.Error("failed to load latest emission", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, badge)
}

// handleHealth handles GET /health.
func (s *CarbonServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

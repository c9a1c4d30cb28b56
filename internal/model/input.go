package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// EmissionInput is an ingestion payload as received on the wire. Each field is
// kept raw so that absent fields, nulls, numbers and numeric strings can be
// told apart before defaults are applied.
type EmissionInput struct {
	Repo        json.RawMessage `json:"repo,omitempty"`
	Owner       json.RawMessage `json:"owner,omitempty"`
	RunID       json.RawMessage `json:"run_id,omitempty"`
	CO2         json.RawMessage `json:"co2,omitempty"`
	Duration    json.RawMessage `json:"duration,omitempty"`
	MachineType json.RawMessage `json:"machine_type,omitempty"`
	Badge       json.RawMessage `json:"badge,omitempty"`
	Timestamp   json.RawMessage `json:"timestamp,omitempty"`
}

// InputDefaults holds the value each optional ingestion field takes when it
// is absent or null. Timestamp has no default.
type InputDefaults struct {
	Repo        string
	Owner       string
	RunID       string
	CO2         float64
	Duration    int64
	MachineType string
	Badge       Badge
}

// DefaultInput is applied by the ingestion endpoint.
var DefaultInput = InputDefaults{}

// IsEmpty reports whether no field was supplied at all (an empty or null body).
func (in *EmissionInput) IsEmpty() bool {
	if in == nil {
		return true
	}
	for _, raw := range in.fields() {
		if !isAbsent(raw) {
			return false
		}
	}
	return true
}

func (in *EmissionInput) fields() []json.RawMessage {
	return []json.RawMessage{in.Repo, in.Owner, in.RunID, in.CO2, in.Duration, in.MachineType, in.Badge, in.Timestamp}
}

// Build applies defaults, converts every field and returns the resulting
// emission (without an ID). All field problems are collected into a single
// *ValidationError.
func (in *EmissionInput) Build(d InputDefaults) (*Emission, error) {
	var ve ValidationError
	e := &Emission{}

	str := func(field string, raw json.RawMessage, def string) string {
		v, err := decodeString(raw, def)
		if err != nil {
			ve.Add(field, err.Error())
		}
		return v
	}

	e.Repo = str("repo", in.Repo, d.Repo)
	e.Owner = str("owner", in.Owner, d.Owner)
	e.RunID = str("run_id", in.RunID, d.RunID)
	e.MachineType = str("machine_type", in.MachineType, d.MachineType)
	e.Badge = Badge(str("badge", in.Badge, string(d.Badge)))

	co2, err := decodeFloat(in.CO2, d.CO2)
	if err != nil {
		ve.Add("co2", err.Error())
	}
	e.CO2 = co2

	duration, err := decodeInt(in.Duration, d.Duration)
	if err != nil {
		ve.Add("duration", err.Error())
	}
	e.Duration = duration

	if isAbsent(in.Timestamp) {
		ve.Add("timestamp", "is required")
	} else {
		s, err := decodeString(in.Timestamp, "")
		switch {
		case err != nil:
			ve.Add("timestamp", err.Error())
		case strings.TrimSpace(s) == "":
			ve.Add("timestamp", "is required")
		default:
			ts, err := ParseTimestamp(s)
			if err != nil {
				ve.Add("timestamp", err.Error())
			}
			e.Timestamp = ts
		}
	}

	if ve.HasErrors() {
		return nil, &ve
	}
	if err := ValidateEmission(e); err != nil {
		return nil, err
	}
	return e, nil
}

func isAbsent(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

func decodeString(raw json.RawMessage, def string) (string, error) {
	if isAbsent(raw) {
		return def, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("must be a string")
	}
	return s, nil
}

// decodeFloat accepts a JSON number or a string holding one.
func decodeFloat(raw json.RawMessage, def float64) (float64, error) {
	if isAbsent(raw) {
		return def, nil
	}
	text, err := numericText(raw)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("must be a number, got %s", raw)
	}
	return f, nil
}

// decodeInt accepts a JSON number, truncated toward zero, or a string holding
// an integer.
func decodeInt(raw json.RawMessage, def int64) (int64, error) {
	if isAbsent(raw) {
		return def, nil
	}
	t := bytes.TrimSpace(raw)
	if t[0] == '"' {
		var s string
		if err := json.Unmarshal(t, &s); err != nil {
			return 0, fmt.Errorf("must be an integer, got %s", raw)
		}
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("must be an integer, got %s", raw)
		}
		return n, nil
	}
	text, err := numericText(t)
	if err != nil {
		return 0, err
	}
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt64 {
		return 0, fmt.Errorf("must be an integer, got %s", raw)
	}
	return int64(math.Trunc(f)), nil
}

// numericText returns the textual number held by raw, unwrapping a JSON string.
func numericText(raw json.RawMessage) (string, error) {
	t := bytes.TrimSpace(raw)
	switch {
	case t[0] == '"':
		var s string
		if err := json.Unmarshal(t, &s); err != nil {
			return "", fmt.Errorf("must be a number, got %s", raw)
		}
		return strings.TrimSpace(s), nil
	case t[0] == '-' || (t[0] >= '0' && t[0] <= '9'):
		return string(t), nil
	}
	return "", fmt.Errorf("must be a number, got %s", raw)
}

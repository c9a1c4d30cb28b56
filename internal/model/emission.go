package model

import "time"

// Emission is the carbon footprint of a single CI/CD run.
// Emissions are append-only: once stored they are never updated or deleted.
type Emission struct {
	ID          int64     `json:"id"`
	Repo        string    `json:"repo"`
	Owner       string    `json:"owner"`
	RunID       string    `json:"run_id"`
	CO2         float64   `json:"co2"`      // kilograms
	Duration    int64     `json:"duration"` // seconds
	MachineType string    `json:"machine_type"`
	Badge       Badge     `json:"badge"`
	Timestamp   time.Time `json:"timestamp"`
}

// Badge is the coarse CO2-impact category of a run.
// Green, Yellow and Red are the well-known values, but any string is stored.
type Badge string

const (
	BadgeGreen  Badge = "Green"
	BadgeYellow Badge = "Yellow"
	BadgeRed    Badge = "Red"
)

// KnownBadges lists the badges reported by statistics, in display order.
var KnownBadges = []Badge{BadgeGreen, BadgeYellow, BadgeRed}

// String returns the string representation of the badge.
func (b Badge) String() string {
	return string(b)
}

// IsKnown reports whether b is one of Green, Yellow or Red.
func (b Badge) IsKnown() bool {
	switch b {
	case BadgeGreen, BadgeYellow, BadgeRed:
		return true
	}
	return false
}

// Shields.io color names.
const (
	ColorBrightGreen = "brightgreen"
	ColorYellow      = "yellow"
	ColorRed         = "red"
	ColorLightGrey   = "lightgrey"
)

// Color maps the badge to a shields.io color. Unknown badges are lightgrey.
func (b Badge) Color() string {
	switch b {
	case BadgeGreen:
		return ColorBrightGreen
	case BadgeYellow:
		return ColorYellow
	case BadgeRed:
		return ColorRed
	}
	return ColorLightGrey
}

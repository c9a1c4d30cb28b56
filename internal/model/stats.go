package model

// Stats is the aggregate view over every stored emission.
type Stats struct {
	TotalCO2    float64       `json:"total_co2"`
	AverageCO2  float64       `json:"average_co2"`
	BadgeCounts map[Badge]int `json:"badge_counts"`
	Emissions   []*Emission   `json:"emissions"`
}

// ComputeStats aggregates emissions in a single pass. Badge counts always
// contain an entry for each of KnownBadges; other badge values are not
// counted. The emissions slice is kept in the given order and is never nil.
func ComputeStats(emissions []*Emission) *Stats {
	stats := &Stats{
		BadgeCounts: make(map[Badge]int, len(KnownBadges)),
		Emissions:   emissions,
	}
	for _, b := range KnownBadges {
		stats.BadgeCounts[b] = 0
	}
	if stats.Emissions == nil {
		stats.Emissions = []*Emission{}
	}

	for _, e := range emissions {
		stats.TotalCO2 += e.CO2
		if e.Badge.IsKnown() {
			stats.BadgeCounts[e.Badge]++
		}
	}
	if n := len(emissions); n > 0 {
		stats.AverageCO2 = stats.TotalCO2 / float64(n)
	}
	return stats
}

// Shields.io endpoint constants.
const (
	BadgeSchemaVersion = 1
	BadgeLabel         = "CO2"
	BadgeNoData        = "No Data"
)

// BadgeDescriptor is the shields.io endpoint payload.
type BadgeDescriptor struct {
	SchemaVersion int    `json:"schemaVersion"`
	Label         string `json:"label"`
	Message       string `json:"message"`
	Color         string `json:"color"`
}

// NewBadgeDescriptor describes the latest emission. A nil emission yields
// the "No Data" descriptor.
func NewBadgeDescriptor(latest *Emission) *BadgeDescriptor {
	d := &BadgeDescriptor{
		SchemaVersion: BadgeSchemaVersion,
		Label:         BadgeLabel,
		Message:       BadgeNoData,
		Color:         ColorLightGrey,
	}
	if latest != nil {
		d.Message = string(latest.Badge)
		d.Color = latest.Badge.Color()
	}
	return d
}

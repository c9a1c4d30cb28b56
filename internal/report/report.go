// Package report derives the dashboard views from a /stats payload.
package report

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/alfredjeanlab/carbon/internal/model"
)

// RecentLimit is the number of builds shown in the recent-builds table.
const RecentLimit = 10

// DateLayout is the calendar-date format accepted by ParseDate.
const DateLayout = "2006-01-02"

// Metrics are the headline figures. They describe the whole ledger, not the
// filtered date range.
type Metrics struct {
	TotalCO2    float64 `json:"total_co2"`
	AverageCO2  float64 `json:"average_co2"`
	Builds      int     `json:"builds"`
	GreenBuilds int     `json:"green_builds"`
}

// BadgeShare is one slice of the build status breakdown.
type BadgeShare struct {
	Badge model.Badge `json:"badge"`
	Count int         `json:"count"`
	Share float64     `json:"share"` // fraction of all counted builds, 0 when none
}

// DailyTotal is the CO2 emitted on one UTC calendar day.
type DailyTotal struct {
	Date string  `json:"date"`
	CO2  float64 `json:"co2"`
}

// MachineTotal is the CO2 emitted by one machine type.
type MachineTotal struct {
	MachineType string  `json:"machine_type"`
	CO2         float64 `json:"co2"`
}

// DateRange is an inclusive range of UTC calendar dates. A zero bound is open.
type DateRange struct {
	From time.Time `json:"from,omitzero"`
	To   time.Time `json:"to,omitzero"`
}

// Contains reports whether t falls on a date within the range.
func (r DateRange) Contains(t time.Time) bool {
	d := dateOf(t)
	if !r.From.IsZero() && d.Before(dateOf(r.From)) {
		return false
	}
	if !r.To.IsZero() && d.After(dateOf(r.To)) {
		return false
	}
	return true
}

// Report is everything the dashboard renders.
type Report struct {
	Metrics  Metrics           `json:"metrics"`
	Badges   []BadgeShare      `json:"badges"`
	Range    DateRange         `json:"range"`
	Daily    []DailyTotal      `json:"daily"`
	Machines []MachineTotal    `json:"machines"`
	Recent   []*model.Emission `json:"recent"`
}

// Build computes a report. When r has open bounds they default to the
// earliest and latest emission dates.
func Build(stats *model.Stats, r DateRange) *Report {
	if lo, hi, ok := Bounds(stats.Emissions); ok {
		if r.From.IsZero() {
			r.From = lo
		}
		if r.To.IsZero() {
			r.To = hi
		}
	}
	filtered := FilterByDateRange(stats.Emissions, r)
	return &Report{
		Metrics:  ComputeMetrics(stats),
		Badges:   BadgeBreakdown(stats.BadgeCounts),
		Range:    r,
		Daily:    DailyTotals(filtered),
		Machines: ByMachineType(filtered),
		Recent:   Recent(filtered, RecentLimit),
	}
}

// ComputeMetrics reads the headline figures from stats.
func ComputeMetrics(stats *model.Stats) Metrics {
	return Metrics{
		TotalCO2:    stats.TotalCO2,
		AverageCO2:  stats.AverageCO2,
		Builds:      len(stats.Emissions),
		GreenBuilds: stats.BadgeCounts[model.BadgeGreen],
	}
}

// BadgeBreakdown lists the known badges in display order followed by any
// other reported badge in name order.
func BadgeBreakdown(counts map[model.Badge]int) []BadgeShare {
	var total int
	for _, n := range counts {
		total += n
	}

	badges := slices.Clone(model.KnownBadges)
	var others []model.Badge
	for b := range counts {
		if !b.IsKnown() {
			others = append(others, b)
		}
	}
	slices.Sort(others)
	badges = append(badges, others...)

	out := make([]BadgeShare, 0, len(badges))
	for _, b := range badges {
		s := BadgeShare{Badge: b, Count: counts[b]}
		if total > 0 {
			s.Share = float64(s.Count) / float64(total)
		}
		out = append(out, s)
	}
	return out
}

// FilterByDateRange keeps the emissions whose timestamp falls within r.
// Order is preserved.
func FilterByDateRange(emissions []*model.Emission, r DateRange) []*model.Emission {
	out := make([]*model.Emission, 0, len(emissions))
	for _, e := range emissions {
		if r.Contains(e.Timestamp) {
			out = append(out, e)
		}
	}
	return out
}

// DailyTotals sums CO2 per UTC calendar day in date order.
func DailyTotals(emissions []*model.Emission) []DailyTotal {
	sums := make(map[string]float64)
	for _, e := range emissions {
		sums[e.Timestamp.UTC().Format(DateLayout)] += e.CO2
	}
	out := make([]DailyTotal, 0, len(sums))
	for d, co2 := range sums {
		out = append(out, DailyTotal{Date: d, CO2: co2})
	}
	slices.SortFunc(out, func(a, b DailyTotal) int { return cmp.Compare(a.Date, b.Date) })
	return out
}

// ByMachineType sums CO2 per machine type in name order.
func ByMachineType(emissions []*model.Emission) []MachineTotal {
	sums := make(map[string]float64)
	for _, e := range emissions {
		sums[e.MachineType] += e.CO2
	}
	out := make([]MachineTotal, 0, len(sums))
	for m, co2 := range sums {
		out = append(out, MachineTotal{MachineType: m, CO2: co2})
	}
	slices.SortFunc(out, func(a, b MachineTotal) int { return cmp.Compare(a.MachineType, b.MachineType) })
	return out
}

// Recent returns up to n emissions, newest timestamp first. Equal timestamps
// put the higher id first.
func Recent(emissions []*model.Emission, n int) []*model.Emission {
	sorted := slices.Clone(emissions)
	slices.SortFunc(sorted, func(a, b *model.Emission) int {
		if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Bounds returns the first and last UTC dates present in emissions.
func Bounds(emissions []*model.Emission) (from, to time.Time, ok bool) {
	for i, e := range emissions {
		d := dateOf(e.Timestamp)
		if i == 0 || d.Before(from) {
			from = d
		}
		if i == 0 || d.After(to) {
			to = d
		}
	}
	return from, to, len(emissions) > 0
}

// ParseDate parses a YYYY-MM-DD calendar date as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

func dateOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

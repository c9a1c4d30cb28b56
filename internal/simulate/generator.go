// Package simulate produces synthetic CI runs and feeds them to a ledger
// server, for demos and dashboard testing.
package simulate

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/alfredjeanlab/carbon/internal/idgen"
	"github.com/alfredjeanlab/carbon/internal/model"
)

// Owner is the owner recorded on every simulated run.
const Owner = "carbon-cost-team"

// Repos are the repositories runs are drawn from.
var Repos = []string{"frontend-app", "backend-api", "mobile-app", "data-pipeline", "ml-service"}

// MachineFactor is the CO2 emitted per second of runtime, in kilograms.
type MachineFactor struct {
	MachineType string
	KgPerSecond float64
}

// MachineFactors lists the runner types and their emission rates.
var MachineFactors = []MachineFactor{
	{"ubuntu-latest", 0.0002},
	{"windows-latest", 0.0003},
	{"macos-latest", 0.00025},
}

// Duration bounds in seconds, inclusive.
const (
	MinDuration = 30
	MaxDuration = 900
)

// Badge thresholds in kilograms.
const (
	GreenBelow  = 0.5
	YellowBelow = 1.5
)

// Classify maps a CO2 amount to its badge.
func Classify(co2 float64) model.Badge {
	switch {
	case co2 < GreenBelow:
		return model.BadgeGreen
	case co2 < YellowBelow:
		return model.BadgeYellow
	default:
		return model.BadgeRed
	}
}

// Generator draws random runs.
type Generator struct {
	rng *rand.Rand
	now func() time.Time
}

// NewGenerator returns a generator seeded with seed, so equal seeds give
// equal sequences. now supplies the reference time and defaults to time.Now.
func NewGenerator(seed uint64, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		now: now,
	}
}

// Next returns a new run. The run id is random and independent of the seed.
func (g *Generator) Next() *model.Emission {
	repo := Repos[g.rng.IntN(len(Repos))]
	duration := int64(MinDuration + g.rng.IntN(MaxDuration-MinDuration+1))
	machine := MachineFactors[g.rng.IntN(len(MachineFactors))]
	co2 := math.Round(float64(duration)*machine.KgPerSecond*1000) / 1000

	ago := time.Duration(g.rng.IntN(8))*24*time.Hour +
		time.Duration(g.rng.IntN(25))*time.Hour +
		time.Duration(g.rng.IntN(61))*time.Minute

	return &model.Emission{
		Repo:        repo,
		Owner:       Owner,
		RunID:       idgen.MustRunID(idgen.PrefixSimulated),
		CO2:         co2,
		Duration:    duration,
		MachineType: machine.MachineType,
		Badge:       Classify(co2),
		Timestamp:   g.now().Add(-ago).UTC().Truncate(time.Second),
	}
}

package metrics

import (
	"math"

	"github.com/san-kum/mechsim/internal/system"
)

// EnergyDrift tracks the worst relative change in total mechanical energy
// over a run. Impulse solvers dissipate, so growth signals instability.
type EnergyDrift struct {
	name    string
	initial float64
	max     float64
	samples int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(sys *system.System) {
	energy := sys.Energy()

	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		e.max = math.Max(e.max, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.max
}

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.max = 0
	e.samples = 0
}

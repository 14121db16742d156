package sim

import "github.com/san-kum/particlesim/internal/dynamo"

// Metric accumulates a scalar over the frames of a run.
type Metric interface {
	Name() string
	Observe(x dynamo.State, t float64)
	Value() float64
	Reset()
}

// Observer is notified after every completed frame.
type Observer interface {
	OnStep(x dynamo.State, t float64)
}

// Config controls a batch run.
type Config struct {
	// Step is the fixed integration step.
	Step float64
	// Frame is the simulated time consumed by one Update call.
	Frame    float64
	Duration float64
}

// Result holds one state per frame, the initial state included.
type Result struct {
	States      []dynamo.State
	Times       []float64
	Metrics     map[string]float64
	EnergyDrift float64
	Steps       int
}

// Final returns the last recorded state.
func (r *Result) Final() dynamo.State {
	if len(r.States) == 0 {
		return dynamo.State{}
	}
	return r.States[len(r.States)-1]
}

package integrators

import "github.com/san-kum/particlesim/internal/dynamo"

// Trapezoidal is Heun's predictor-corrector method. It evaluates the
// derivative at the start of the step and at the Euler-predicted end point
// and averages the two.
type Trapezoidal struct{}

func NewTrapezoidal() *Trapezoidal {
	return &Trapezoidal{}
}

func (tr *Trapezoidal) Step(dyn dynamo.System, x dynamo.State, t, dt float64) (dynamo.State, error) {
	f0, err := dyn.Derive(x, t)
	if err != nil {
		return dynamo.State{}, err
	}

	f1, err := dyn.Derive(x.AddScaled(dt, f0), t+dt)
	if err != nil {
		return dynamo.State{}, err
	}

	return x.AddScaled(dt/2, f0.Add(f1)), nil
}

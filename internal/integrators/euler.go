package integrators

import "github.com/san-kum/particlesim/internal/dynamo"

// Euler is the explicit forward Euler method: x + dt*F(x, t).
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn dynamo.System, x dynamo.State, t, dt float64) (dynamo.State, error) {
	dx, err := dyn.Derive(x, t)
	if err != nil {
		return dynamo.State{}, err
	}
	return x.AddScaled(dt, dx), nil
}

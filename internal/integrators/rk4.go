package integrators

import "github.com/san-kum/particlesim/internal/dynamo"

// RK4 is the classic four-stage Runge-Kutta method.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, t, dt float64) (dynamo.State, error) {
	half := dt * 0.5

	k1, err := dyn.Derive(x, t)
	if err != nil {
		return dynamo.State{}, err
	}
	k2, err := dyn.Derive(x.AddScaled(half, k1), t+half)
	if err != nil {
		return dynamo.State{}, err
	}
	k3, err := dyn.Derive(x.AddScaled(half, k2), t+half)
	if err != nil {
		return dynamo.State{}, err
	}
	k4, err := dyn.Derive(x.AddScaled(dt, k3), t+dt)
	if err != nil {
		return dynamo.State{}, err
	}

	sum := k1.Add(k2.Scale(2)).Add(k3.Scale(2)).Add(k4)
	return x.AddScaled(dt/6.0, sum), nil
}

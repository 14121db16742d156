package physics

import (
	"fmt"

	"github.com/san-kum/particlesim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

// Simple moves one particle along a circle about the Z axis: the position
// derivative is (-y, x, 0) and velocity is left untouched.
type Simple struct{}

func NewSimple() *Simple {
	return &Simple{}
}

func (s *Simple) NumParticles() int { return 1 }

func (s *Simple) Derive(x dynamo.State, t float64) (dynamo.State, error) {
	if x.Len() != 1 {
		return dynamo.State{}, fmt.Errorf("%w: simple system has 1 particle, state has %d",
			dynamo.ErrDimensionMismatch, x.Len())
	}
	p := x.Positions[0]
	dx := dynamo.NewState(1)
	dx.Positions[0] = r3.Vec{X: -p.Y, Y: p.X}
	return dx, nil
}

// InitialState places the particle at (1, 0.5, 1).
func (s *Simple) InitialState() dynamo.State {
	x := dynamo.NewState(1)
	x.Positions[0] = r3.Vec{X: 1, Y: 0.5, Z: 1}
	x.Velocities[0] = r3.Vec{X: 1, Y: 2, Z: 3}
	return x
}

// Radius is the distance from the rotation axis, which the exact flow keeps
// constant.
func (s *Simple) Radius(x dynamo.State) float64 {
	p := x.Positions[0]
	return r3.Norm(r3.Vec{X: p.X, Y: p.Y})
}

package physics

import (
	"fmt"

	"github.com/san-kum/particlesim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

// Pendulum is a chain of particles joined by identical springs and hung
// from particle 0, which is fixed.
type Pendulum struct {
	*SpringSystem
	initial []r3.Vec
}

// DefaultPendulumPositions is the four particle zig-zag starting layout.
func DefaultPendulumPositions() []r3.Vec {
	return []r3.Vec{
		{X: 0.1, Y: 0.1, Z: 0.5},
		{X: 0.2, Y: 0.2, Z: 0.5},
		{X: 0.3, Y: 0.1, Z: 0.5},
		{X: 0.4, Y: 0.2, Z: 0.5},
	}
}

func NewPendulum(positions []r3.Vec, params SpringParams) (*Pendulum, error) {
	if len(positions) < 2 {
		return nil, fmt.Errorf("%w: pendulum needs at least 2 particles, got %d",
			dynamo.ErrParameterBounds, len(positions))
	}
	n := len(positions)
	ss, err := NewSpringSystem(n, Chain(n, params.Stiffness, params.RestLength), params, []int{0})
	if err != nil {
		return nil, err
	}
	return &Pendulum{
		SpringSystem: ss,
		initial:      append([]r3.Vec(nil), positions...),
	}, nil
}

// InitialState returns the starting layout at rest.
func (p *Pendulum) InitialState() dynamo.State {
	x := dynamo.NewState(len(p.initial))
	copy(x.Positions, p.initial)
	return x
}

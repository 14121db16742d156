package dynamo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// State is the paired position/velocity description of every particle.
// Positions[i] and Velocities[i] always describe the same particle and both
// slices have the same length.
type State struct {
	Positions  []r3.Vec `json:"positions"`
	Velocities []r3.Vec `json:"velocities"`
}

// NewState returns a zero state for n particles.
func NewState(n int) State {
	return State{
		Positions:  make([]r3.Vec, n),
		Velocities: make([]r3.Vec, n),
	}
}

// Len returns the number of particles.
func (s State) Len() int { return len(s.Positions) }

func (s State) Clone() State {
	c := NewState(s.Len())
	copy(c.Positions, s.Positions)
	copy(c.Velocities, s.Velocities)
	return c
}

func (s State) IsValid() bool {
	if len(s.Positions) != len(s.Velocities) {
		return false
	}
	for i := range s.Positions {
		if !finite(s.Positions[i]) || !finite(s.Velocities[i]) {
			return false
		}
	}
	return true
}

// Norm is the Euclidean norm over every component of the state.
func (s State) Norm() float64 {
	sum := 0.0
	for i := range s.Positions {
		sum += r3.Dot(s.Positions[i], s.Positions[i])
		sum += r3.Dot(s.Velocities[i], s.Velocities[i])
	}
	return math.Sqrt(sum)
}

// Add returns the element-wise sum s + other. It panics if the states
// hold different numbers of particles.
func (s State) Add(other State) State {
	mustMatch(s, other)
	result := NewState(s.Len())
	for i := range s.Positions {
		result.Positions[i] = r3.Add(s.Positions[i], other.Positions[i])
		result.Velocities[i] = r3.Add(s.Velocities[i], other.Velocities[i])
	}
	return result
}

// Scale returns factor * s for both positions and velocities.
func (s State) Scale(factor float64) State {
	result := NewState(s.Len())
	for i := range s.Positions {
		result.Positions[i] = r3.Scale(factor, s.Positions[i])
		result.Velocities[i] = r3.Scale(factor, s.Velocities[i])
	}
	return result
}

func (s State) Sub(other State) State {
	return s.Add(other.Scale(-1))
}

// AddScaled returns s + factor*other without an intermediate state. Like
// Add it panics on a particle count mismatch.
func (s State) AddScaled(factor float64, other State) State {
	mustMatch(s, other)
	result := NewState(s.Len())
	for i := range s.Positions {
		result.Positions[i] = r3.Add(s.Positions[i], r3.Scale(factor, other.Positions[i]))
		result.Velocities[i] = r3.Add(s.Velocities[i], r3.Scale(factor, other.Velocities[i]))
	}
	return result
}

func mustMatch(a, b State) {
	if a.Len() != b.Len() {
		panic(fmt.Sprintf("dynamo: state lengths do not match: %d and %d", a.Len(), b.Len()))
	}
}

func finite(v r3.Vec) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// System computes the time derivative of a state. The position slot of the
// result holds d(position)/dt and the velocity slot holds d(velocity)/dt.
type System interface {
	Derive(x State, t float64) (State, error)
	NumParticles() int
}

// Hamiltonian is implemented by systems that can report total energy.
type Hamiltonian interface {
	Energy(x State) float64
}

// Integrator advances a state by one step of size dt starting at time t.
type Integrator interface {
	Step(dyn System, x State, t, dt float64) (State, error)
}

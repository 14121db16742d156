package physics

import (
	"fmt"

	"github.com/san-kum/particlesim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	StandardGravity = 9.81
	DefaultMass     = 1.0
)

// parallelThreshold is the particle count above which per-particle force
// stages are split across goroutines.
const parallelThreshold = 512

// SpringParams are the physical constants shared by every particle of a
// spring system.
type SpringParams struct {
	Mass       float64
	Drag       float64
	Stiffness  float64
	RestLength float64
	// Gravity is an acceleration; the force on a particle is Mass*Gravity.
	Gravity r3.Vec
}

func DefaultSpringParams() SpringParams {
	return SpringParams{
		Mass:       DefaultMass,
		Drag:       0.5,
		Stiffness:  10,
		RestLength: 0.3,
		Gravity:    r3.Vec{Y: -StandardGravity},
	}
}

func (p SpringParams) Validate() error {
	if p.Mass <= 0 {
		return fmt.Errorf("%w: mass must be positive, got %v", dynamo.ErrParameterBounds, p.Mass)
	}
	if p.Drag < 0 {
		return fmt.Errorf("%w: drag must be non-negative, got %v", dynamo.ErrParameterBounds, p.Drag)
	}
	if p.Stiffness < 0 || p.RestLength < 0 {
		return fmt.Errorf("%w: stiffness and rest length must be non-negative", dynamo.ErrParameterBounds)
	}
	return nil
}

// SpringSystem accumulates gravity, drag, spring and wind forces over a
// fixed set of particles. Fixed particles never move.
type SpringSystem struct {
	n       int
	params  SpringParams
	springs []Spring
	fixed   []bool
	wind    *Wind
	windOn  bool
}

// NewSpringSystem validates the topology against n particles.
func NewSpringSystem(n int, springs []Spring, params SpringParams, fixed []int) (*SpringSystem, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: particle count must be positive, got %d", dynamo.ErrParameterBounds, n)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	for _, s := range springs {
		if err := s.Validate(n); err != nil {
			return nil, err
		}
	}

	ss := &SpringSystem{
		n:       n,
		params:  params,
		springs: append([]Spring(nil), springs...),
		fixed:   make([]bool, n),
	}
	for _, idx := range fixed {
		if idx < 0 || idx >= n {
			return nil, fmt.Errorf("%w: %d with %d particles", ErrFixedPointIndex, idx, n)
		}
		ss.fixed[idx] = true
	}
	return ss, nil
}

func (ss *SpringSystem) NumParticles() int { return ss.n }

// Springs returns a copy of the spring list.
func (ss *SpringSystem) Springs() []Spring {
	return append([]Spring(nil), ss.springs...)
}

func (ss *SpringSystem) Params() SpringParams { return ss.params }

func (ss *SpringSystem) IsFixed(i int) bool {
	return i >= 0 && i < ss.n && ss.fixed[i]
}

// FixedPoints lists the fixed particle indices in ascending order.
func (ss *SpringSystem) FixedPoints() []int {
	var out []int
	for i, f := range ss.fixed {
		if f {
			out = append(out, i)
		}
	}
	return out
}

// SetWind installs w. A nil w disables wind.
func (ss *SpringSystem) SetWind(w *Wind) {
	ss.wind = w
	ss.windOn = w != nil
}

func (ss *SpringSystem) ToggleWind() bool {
	if ss.wind != nil {
		ss.windOn = !ss.windOn
	}
	return ss.windOn
}

func (ss *SpringSystem) WindEnabled() bool { return ss.windOn }

// Forces returns the net force on every particle, fixed ones included.
func (ss *SpringSystem) Forces(x dynamo.State) ([]r3.Vec, error) {
	if x.Len() != ss.n || len(x.Velocities) != ss.n {
		return nil, fmt.Errorf("%w: state has %d particles, system has %d",
			dynamo.ErrDimensionMismatch, x.Len(), ss.n)
	}

	forces := make([]r3.Vec, ss.n)
	weight := r3.Scale(ss.params.Mass, ss.params.Gravity)
	drag := ss.params.Drag
	ss.each(func(start, end int) {
		for i := start; i < end; i++ {
			forces[i] = r3.Sub(weight, r3.Scale(drag, x.Velocities[i]))
		}
	})

	for _, s := range ss.springs {
		f, err := s.Force(x.Positions[s.Start], x.Positions[s.End])
		if err != nil {
			return nil, err
		}
		forces[s.Start] = r3.Add(forces[s.Start], f)
		forces[s.End] = r3.Sub(forces[s.End], f)
	}

	// gusts are drawn in index order so a seeded source replays exactly
	if ss.windOn && ss.wind != nil {
		for i := range forces {
			forces[i] = r3.Add(forces[i], ss.wind.Force())
		}
	}

	return forces, nil
}

func (ss *SpringSystem) Derive(x dynamo.State, t float64) (dynamo.State, error) {
	forces, err := ss.Forces(x)
	if err != nil {
		return dynamo.State{}, err
	}

	dx := dynamo.NewState(ss.n)
	invMass := 1 / ss.params.Mass
	ss.each(func(start, end int) {
		for i := start; i < end; i++ {
			if ss.fixed[i] {
				continue
			}
			dx.Positions[i] = x.Velocities[i]
			dx.Velocities[i] = r3.Scale(invMass, forces[i])
		}
	})
	return dx, nil
}

// Energy is kinetic plus gravitational plus elastic energy.
func (ss *SpringSystem) Energy(x dynamo.State) float64 {
	if x.Len() != ss.n {
		return 0
	}
	m := ss.params.Mass
	e := 0.0
	for i := 0; i < ss.n; i++ {
		v := x.Velocities[i]
		e += 0.5 * m * r3.Dot(v, v)
		e -= m * r3.Dot(ss.params.Gravity, x.Positions[i])
	}
	for _, s := range ss.springs {
		e += s.Potential(x.Positions[s.Start], x.Positions[s.End])
	}
	return e
}

// GetParams exposes the scalar parameters for reporting.
func (ss *SpringSystem) GetParams() map[string]float64 {
	return map[string]float64{
		"mass":        ss.params.Mass,
		"drag":        ss.params.Drag,
		"stiffness":   ss.params.Stiffness,
		"rest_length": ss.params.RestLength,
		"gravity":     r3.Norm(ss.params.Gravity),
	}
}

func (ss *SpringSystem) each(fn func(start, end int)) {
	if ss.n < parallelThreshold {
		fn(0, ss.n)
		return
	}
	dynamo.ParallelFor(ss.n, parallelThreshold/4, fn)
}

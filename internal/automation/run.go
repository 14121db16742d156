package automation

import (
	"context"
	"fmt"

	"github.com/san-kum/particlesim/internal/experiment"
	"github.com/san-kum/particlesim/internal/fluid"
	"github.com/san-kum/particlesim/internal/sim"
)

// ParticleActions applies commands to a particle experiment. Only wind
// toggles and resets mean anything there.
func ParticleActions(e *experiment.Experiment) func(Command) error {
	return func(c Command) error {
		switch c.Action {
		case ActionToggleWind:
			_, err := e.ToggleWind()
			return err
		case ActionReset:
			return e.Reset()
		}
		return fmt.Errorf("%w: %s on %s", ErrUnsupportedAction, c.Action, e.Scenario().Name)
	}
}

// FluidActions applies commands to a grid solver.
func FluidActions(f *fluid.Fluid) func(Command) error {
	return func(c Command) error {
		switch c.Action {
		case ActionReset:
			f.Reset()
			return nil
		case ActionForceY:
			return f.AddForceY(c.Y, c.X, c.Amount)
		case ActionForceX:
			return f.AddForceX(c.Y, c.X, c.Amount)
		case ActionSource:
			return f.AddSource(c.Y, c.X, c.Amount)
		}
		return fmt.Errorf("%w: %s on fluid", ErrUnsupportedAction, c.Action)
	}
}

// RunParticles runs e for its configured duration, firing script commands
// between frames.
func RunParticles(ctx context.Context, e *experiment.Experiment, s *Script) (*sim.Result, *Player, error) {
	p := NewPlayer(s, ParticleActions(e))
	if err := p.Advance(e.GetSimulator().Time()); err != nil {
		return nil, p, err
	}
	e.GetSimulator().AddObserver(p)

	result, err := e.Run(ctx)
	if err != nil {
		return result, p, err
	}
	return result, p, p.Err()
}

// RunFluid advances f by steps solver steps, firing script commands due
// before each step. The script clock is steps times the solver dt.
func RunFluid(ctx context.Context, f *fluid.Fluid, s *Script, steps int) (*Player, error) {
	p := NewPlayer(s, FluidActions(f))
	dt := f.Params().Dt
	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			return p, err
		}
		if err := p.Advance(float64(i) * dt); err != nil {
			return p, fmt.Errorf("step %d: %w", i, err)
		}
		f.Step()
	}
	return p, nil
}

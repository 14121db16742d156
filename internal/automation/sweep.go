package automation

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/particlesim/internal/config"
	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/experiment"
	"github.com/san-kum/particlesim/internal/sim"
)

var ErrUnknownParam = errors.New("automation: unknown sweep parameter")

// sweepParams maps sweepable names to the setting they write. Particle
// setters allocate a fresh value so copies of a config never share one.
var sweepParams = map[string]func(*config.Config, float64){
	"mass":        func(c *config.Config, v float64) { c.Particles.Mass = config.Float(v) },
	"drag":        func(c *config.Config, v float64) { c.Particles.Drag = config.Float(v) },
	"stiffness":   func(c *config.Config, v float64) { c.Particles.Stiffness = config.Float(v) },
	"rest_length": func(c *config.Config, v float64) { c.Particles.RestLength = config.Float(v) },
	"step":        func(c *config.Config, v float64) { c.Step = v },
}

// ApplyParam writes v to the named sweepable setting of cfg.
func ApplyParam(cfg *config.Config, name string, v float64) error {
	set, ok := sweepParams[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	set(cfg, v)
	return nil
}

// Params lists the sweepable setting names in sorted order.
func Params() []string {
	names := make([]string, 0, len(sweepParams))
	for name := range sweepParams {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParameterSweep runs one experiment per evenly spaced parameter value
type ParameterSweep struct {
	Param    string
	Min, Max float64
	NumSteps int
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue  float64
	FinalState  dynamo.State
	EnergyDrift float64
	MaxStrain   float64
	Stable      bool
}

// RunSweep runs every sweep point of base concurrently.
func RunSweep(ctx context.Context, base *config.Config, sweep ParameterSweep, reg *experiment.Registry) ([]SweepResult, error) {
	if _, ok := sweepParams[sweep.Param]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownParam, sweep.Param)
	}
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("%w: sweep needs at least one point", dynamo.ErrParameterBounds)
	}

	values := make([]float64, sweep.NumSteps)
	sims := make([]*sim.Simulator, sweep.NumSteps)
	for i := range values {
		values[i] = sweep.Min
		if sweep.NumSteps > 1 {
			values[i] += float64(i) * (sweep.Max - sweep.Min) / float64(sweep.NumSteps-1)
		}

		cfg := *base
		if err := ApplyParam(&cfg, sweep.Param, values[i]); err != nil {
			return nil, err
		}
		exp, err := experiment.New(&cfg, reg)
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.Param, values[i], err)
		}
		sims[i] = exp.GetSimulator()
	}

	runs, err := sim.NewEnsemble(sims...).Run(ctx, base.Duration, base.Frame)
	if err != nil {
		return nil, err
	}

	results := make([]SweepResult, len(runs))
	for i, r := range runs {
		results[i] = SweepResult{
			ParamValue:  values[i],
			FinalState:  r.Final(),
			EnergyDrift: r.Metrics["energy_drift"],
			MaxStrain:   r.Metrics["max_strain"],
			Stable:      r.Metrics["stability"] == 1,
		}
	}
	return results, nil
}

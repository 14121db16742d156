package experiment

import (
	"context"
	"errors"

	"github.com/san-kum/particlesim/internal/config"
	"github.com/san-kum/particlesim/internal/integrators"
	"github.com/san-kum/particlesim/internal/sim"
)

var ErrNoWind = errors.New("experiment: scenario has no wind")

// windToggler is implemented by systems that carry a wind source.
type windToggler interface {
	ToggleWind() bool
	WindEnabled() bool
}

// Experiment couples a configured scenario with its simulator.
type Experiment struct {
	cfg       *config.Config
	scenario  *Scenario
	simulator *sim.Simulator
}

// New validates cfg and builds the scenario, integrator and simulator it
// names, with the registry's default metrics attached.
func New(cfg *config.Config, reg *Registry) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	scenario, err := reg.Build(cfg)
	if err != nil {
		return nil, err
	}
	kind, err := cfg.IntegratorKind()
	if err != nil {
		return nil, err
	}
	integrator, err := integrators.New(kind)
	if err != nil {
		return nil, err
	}
	s, err := sim.New(scenario.System, integrator, scenario.Initial, cfg.Step)
	if err != nil {
		return nil, err
	}
	for _, m := range reg.DefaultMetrics(scenario) {
		s.AddMetric(m)
	}
	return &Experiment{cfg: cfg, scenario: scenario, simulator: s}, nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	return e.simulator.Run(ctx, e.cfg.Duration, e.cfg.Frame)
}

func (e *Experiment) Config() *config.Config { return e.cfg }
func (e *Experiment) Scenario() *Scenario    { return e.scenario }

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

// Reset puts the simulator back at the scenario's initial state. The clock
// keeps running.
func (e *Experiment) Reset() error {
	return e.simulator.SetState(e.scenario.Initial)
}

// ToggleWind flips the scenario's wind and reports whether it is now on.
func (e *Experiment) ToggleWind() (bool, error) {
	w, ok := e.scenario.System.(windToggler)
	if !ok {
		return false, ErrNoWind
	}
	return w.ToggleWind(), nil
}

func (e *Experiment) WindEnabled() bool {
	w, ok := e.scenario.System.(windToggler)
	return ok && w.WindEnabled()
}

package experiment

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/particlesim/internal/config"
	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/metrics"
	"github.com/san-kum/particlesim/internal/physics"
	"github.com/san-kum/particlesim/internal/sim"
)

var ErrUnknownScenario = errors.New("experiment: unknown scenario")

// Scenario is a particle system ready to simulate.
type Scenario struct {
	Name    string
	System  dynamo.System
	Initial dynamo.State
	// Springs is nil for systems without springs.
	Springs []physics.Spring
}

// Builder constructs a scenario from configuration.
type Builder func(cfg *config.Config) (*Scenario, error)

type Registry struct {
	scenarios map[string]Builder
}

func NewRegistry() *Registry {
	r := &Registry{scenarios: make(map[string]Builder)}
	r.Register("simple", buildSimple)
	r.Register("pendulum", buildPendulum)
	r.Register("cloth", buildCloth)
	return r
}

func (r *Registry) Register(name string, b Builder) {
	r.scenarios[name] = b
}

func (r *Registry) Build(cfg *config.Config) (*Scenario, error) {
	b, ok := r.scenarios[cfg.Scenario]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScenario, cfg.Scenario)
	}
	return b(cfg)
}

func (r *Registry) ListScenarios() []string {
	names := make([]string, 0, len(r.scenarios))
	for name := range r.scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns the metrics worth tracking for s.
func (r *Registry) DefaultMetrics(s *Scenario) []sim.Metric {
	ms := []sim.Metric{metrics.NewStability(100)}
	if _, ok := s.System.(dynamo.Hamiltonian); ok {
		ms = append(ms, metrics.NewEnergy(s.System), metrics.NewEnergyDrift(s.System))
	}
	if len(s.Springs) > 0 {
		ms = append(ms, metrics.NewMaxStrain(s.Springs))
	}
	return ms
}

func buildSimple(cfg *config.Config) (*Scenario, error) {
	s := physics.NewSimple()
	return &Scenario{Name: "simple", System: s, Initial: s.InitialState()}, nil
}

func buildPendulum(cfg *config.Config) (*Scenario, error) {
	p, err := physics.NewPendulum(cfg.PendulumPositions(), cfg.SpringParams(physics.DefaultSpringParams()))
	if err != nil {
		return nil, err
	}
	return &Scenario{Name: "pendulum", System: p, Initial: p.InitialState(), Springs: p.Springs()}, nil
}

func buildCloth(cfg *config.Config) (*Scenario, error) {
	c, err := physics.NewCloth(cfg.ClothParams(), cfg.SpringParams(physics.DefaultClothSpringParams()))
	if err != nil {
		return nil, err
	}
	c.SetWind(physics.NewSeededWind(cfg.Cloth.WindStrength, physics.WindAxis, cfg.Seed))
	if !cfg.Cloth.Wind {
		c.ToggleWind()
	}
	return &Scenario{Name: "cloth", System: c, Initial: c.InitialState(), Springs: c.Springs()}, nil
}

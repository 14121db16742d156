package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/san-kum/particlesim/internal/config"
	"github.com/san-kum/particlesim/internal/fluid"
	"github.com/san-kum/particlesim/internal/integrators"
	"github.com/san-kum/particlesim/internal/physics"
)

func TestListScenarios(t *testing.T) {
	got := NewRegistry().ListScenarios()
	if diff := cmp.Diff([]string{"cloth", "pendulum", "simple"}, got); diff != "" {
		t.Errorf("ListScenarios (-want +got):\n%s", diff)
	}
}

func TestBuild(t *testing.T) {
	tests := []struct {
		scenario  string
		particles int
		springs   int
		metrics   int
	}{
		{"simple", 1, 0, 1},
		{"pendulum", 4, 3, 4},
		{"cloth", 100, 2*10*9 + 2*9*9 + 2*10*8, 4},
	}

	reg := NewRegistry()
	for _, tt := range tests {
		t.Run(tt.scenario, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Scenario = tt.scenario
			s, err := reg.Build(cfg)
			if err != nil {
				t.Fatal(err)
			}
			if s.System.NumParticles() != tt.particles || s.Initial.Len() != tt.particles {
				t.Errorf("particles = %d/%d, want %d", s.System.NumParticles(), s.Initial.Len(), tt.particles)
			}
			if len(s.Springs) != tt.springs {
				t.Errorf("springs = %d, want %d", len(s.Springs), tt.springs)
			}
			if got := len(reg.DefaultMetrics(s)); got != tt.metrics {
				t.Errorf("metrics = %d, want %d", got, tt.metrics)
			}
		})
	}
}

func TestBuildUnknown(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Scenario = "nbody"
	if _, err := NewRegistry().Build(cfg); !errors.Is(err, ErrUnknownScenario) {
		t.Errorf("expected ErrUnknownScenario, got %v", err)
	}
}

func TestClothWindFollowsConfig(t *testing.T) {
	cfg := config.GetPreset("cloth", "windy")
	s, err := NewRegistry().Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !s.System.(*physics.Cloth).WindEnabled() {
		t.Error("windy preset should start with wind on")
	}

	cfg = config.GetPreset("cloth", "small")
	s, err = NewRegistry().Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if s.System.(*physics.Cloth).WindEnabled() {
		t.Error("small preset should start with wind off")
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Integrator = "verlet"
	if _, err := New(cfg, NewRegistry()); !errors.Is(err, integrators.ErrUnsupportedKind) {
		t.Errorf("expected ErrUnsupportedKind, got %v", err)
	}
}

func TestRun(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Duration = 0.5
	cfg.Frame = 0.05
	cfg.Step = 0.005

	e, err := New(cfg, NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	result, err := e.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(result.States) != 11 {
		t.Errorf("expected 11 states, got %d", len(result.States))
	}
	if result.Steps != 100 {
		t.Errorf("expected 100 steps, got %d", result.Steps)
	}
	for _, name := range []string{"stability", "energy", "energy_drift", "max_strain"} {
		if _, ok := result.Metrics[name]; !ok {
			t.Errorf("missing metric %s", name)
		}
	}
	if result.Metrics["stability"] != 1 {
		t.Errorf("stability = %v", result.Metrics["stability"])
	}
}

func TestResetAndWind(t *testing.T) {
	cfg := config.GetPreset("cloth", "small")
	e, err := New(cfg, NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	s := e.GetSimulator()
	if err := s.Update(0.1); err != nil {
		t.Fatal(err)
	}
	if err := e.Reset(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(e.Scenario().Initial, s.State()); diff != "" {
		t.Errorf("reset state (-want +got):\n%s", diff)
	}

	on, err := e.ToggleWind()
	if err != nil || !on {
		t.Errorf("ToggleWind() = %v, %v", on, err)
	}

	cfg = config.DefaultConfig()
	cfg.Scenario = "simple"
	e, err = New(cfg, NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.ToggleWind(); !errors.Is(err, ErrNoWind) {
		t.Errorf("expected ErrNoWind, got %v", err)
	}
}

func TestNewFluid(t *testing.T) {
	cfg := config.DefaultConfig()
	f, err := NewFluid(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if f.Density(15, 15) != 1 || f.Uy(15, 15) != 1 || f.Ux(15, 15) != 1 {
		t.Errorf("injection not applied: s=%v uy=%v ux=%v", f.Density(15, 15), f.Uy(15, 15), f.Ux(15, 15))
	}

	cfg.Fluid.Inject = []config.Injection{{Y: 40, X: 2, Source: 1}}
	if _, err := NewFluid(cfg); !errors.Is(err, fluid.ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
}

func TestNewMarkers(t *testing.T) {
	cfg := config.GetPreset("marker", "rain")
	s, err := NewMarkers(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if s.NumMarkers() != 16 {
		t.Errorf("expected 16 markers, got %d", s.NumMarkers())
	}
	if err := s.Update(0.1); err != nil {
		t.Fatal(err)
	}
}

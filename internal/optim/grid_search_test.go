package optim

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/san-kum/particlesim/internal/automation"
	"github.com/san-kum/particlesim/internal/config"
	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/experiment"
	"gonum.org/v1/gonum/spatial/r3"
)

// oscillator is x'' = -x along X. Under forward Euler its energy grows by
// 1+dt² per step, so drift over a fixed duration rises with the step size.
type oscillator struct{}

func (oscillator) NumParticles() int { return 1 }

func (oscillator) Derive(x dynamo.State, t float64) (dynamo.State, error) {
	dx := dynamo.NewState(1)
	dx.Positions[0] = x.Velocities[0]
	dx.Velocities[0] = r3.Scale(-1, x.Positions[0])
	return dx, nil
}

func (oscillator) Energy(x dynamo.State) float64 {
	p, v := x.Positions[0], x.Velocities[0]
	return 0.5 * (r3.Dot(p, p) + r3.Dot(v, v))
}

func setup() (*config.Config, *experiment.Registry) {
	reg := experiment.NewRegistry()
	reg.Register("oscillator", func(cfg *config.Config) (*experiment.Scenario, error) {
		x := dynamo.NewState(1)
		x.Positions[0] = r3.Vec{X: 1}
		return &experiment.Scenario{Name: "oscillator", System: oscillator{}, Initial: x}, nil
	})
	cfg := config.DefaultConfig()
	cfg.Scenario = "oscillator"
	cfg.Integrator = "euler"
	cfg.Duration = 1
	cfg.Frame = 0.1
	return cfg, reg
}

func TestGridSearchFindsSmallestDrift(t *testing.T) {
	base, reg := setup()
	g := NewGridSearch(
		[]string{"step", "mass"},
		[][]float64{{0.02, -0.01, 0.01, 0.005}, {1, 2}},
	)

	best, val, candidates, err := g.Search(context.Background(), base, reg, "energy_drift")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]float64{"step": 0.005, "mass": 1}, best); diff != "" {
		t.Errorf("best (-want +got):\n%s", diff)
	}
	if val <= 0 {
		t.Errorf("euler drift should be positive, got %v", val)
	}
	// The negative step fails validation and is skipped.
	if len(candidates) != 6 {
		t.Fatalf("expected 6 candidates, got %d", len(candidates))
	}
	for _, c := range candidates {
		if !c.Stable {
			t.Errorf("%v unstable", c.Params)
		}
		if c.Value < val {
			t.Errorf("%v beats best: %v < %v", c.Params, c.Value, val)
		}
	}
}

func TestGridSearchErrors(t *testing.T) {
	base, reg := setup()
	ctx := context.Background()

	tests := []struct {
		name   string
		search *GridSearch
		metric string
		want   error
	}{
		{"mismatched ranges", NewGridSearch([]string{"step"}, nil), "energy_drift", ErrBadRanges},
		{"no params", NewGridSearch(nil, nil), "energy_drift", ErrBadRanges},
		{"unknown param", NewGridSearch([]string{"colour"}, [][]float64{{1}}), "energy_drift", automation.ErrUnknownParam},
		{"unknown metric", NewGridSearch([]string{"step"}, [][]float64{{0.01}}), "nope", ErrUnknownMetric},
		{"nothing valid", NewGridSearch([]string{"step"}, [][]float64{{0, -1}}), "energy_drift", ErrNoCandidate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, _, err := tt.search.Search(ctx, base, reg, tt.metric); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

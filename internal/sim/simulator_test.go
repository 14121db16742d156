package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/integrators"
	"github.com/san-kum/particlesim/internal/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

// decay is x' = -x on the X coordinate of one particle.
type decay struct{}

func (decay) NumParticles() int { return 1 }

func (decay) Derive(x dynamo.State, t float64) (dynamo.State, error) {
	dx := dynamo.NewState(1)
	dx.Positions[0] = r3.Scale(-1, x.Positions[0])
	return dx, nil
}

// recorder is an Euler integrator that remembers every step size.
type recorder struct {
	sizes []float64
	fail  error
	nan   bool
}

func (r *recorder) Step(dyn dynamo.System, x dynamo.State, t, dt float64) (dynamo.State, error) {
	r.sizes = append(r.sizes, dt)
	if r.fail != nil {
		return dynamo.State{}, r.fail
	}
	next, err := integrators.NewEuler().Step(dyn, x, t, dt)
	if r.nan {
		next.Positions[0].X = math.NaN()
	}
	return next, err
}

func unit() dynamo.State {
	x := dynamo.NewState(1)
	x.Positions[0] = r3.Vec{X: 1}
	return x
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		x0   dynamo.State
		step float64
		want error
	}{
		{"zero step", unit(), 0, dynamo.ErrParameterBounds},
		{"negative step", unit(), -0.1, dynamo.ErrParameterBounds},
		{"nan step", unit(), math.NaN(), dynamo.ErrParameterBounds},
		{"wrong size", dynamo.NewState(3), 0.1, dynamo.ErrDimensionMismatch},
		{"invalid state", dynamo.State{Positions: []r3.Vec{{X: math.Inf(1)}}, Velocities: []r3.Vec{{}}}, 0.1, dynamo.ErrInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(decay{}, integrators.NewEuler(), tt.x0, tt.step)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestUpdateSplitsFrame(t *testing.T) {
	tests := []struct {
		name  string
		frame float64
		want  []float64
	}{
		{"exact multiple", 0.3, []float64{0.1, 0.1, 0.1}},
		{"with remainder", 0.35, []float64{0.1, 0.1, 0.1, 0.05}},
		{"shorter than step", 0.04, []float64{0.04}},
		{"empty frame", 0, nil},
	}

	approx := cmpopts.EquateApprox(0, 1e-12)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			s, err := New(decay{}, rec, unit(), 0.1)
			if err != nil {
				t.Fatal(err)
			}
			if err := s.Update(tt.frame); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, rec.sizes, approx, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("step sizes (-want +got):\n%s", diff)
			}
			if math.Abs(s.Time()-tt.frame) > 1e-12 {
				t.Errorf("Time() = %v, want %v", s.Time(), tt.frame)
			}
		})
	}
}

func TestUpdateNegativeFrame(t *testing.T) {
	s, _ := New(decay{}, integrators.NewEuler(), unit(), 0.1)
	if err := s.Update(-1); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("err = %v, want ErrParameterBounds", err)
	}
}

func TestUpdateWrapsErrors(t *testing.T) {
	boom := errors.New("boom")

	t.Run("integrator error", func(t *testing.T) {
		s, _ := New(decay{}, &recorder{fail: boom}, unit(), 0.1)
		err := s.Update(0.1)
		var simErr *dynamo.SimulationError
		if !errors.As(err, &simErr) {
			t.Fatalf("err = %v, want *SimulationError", err)
		}
		if !errors.Is(err, boom) {
			t.Errorf("err = %v does not wrap cause", err)
		}
	})

	t.Run("non-finite state", func(t *testing.T) {
		s, _ := New(decay{}, &recorder{nan: true}, unit(), 0.1)
		before := s.State()
		if err := s.Update(0.1); !errors.Is(err, dynamo.ErrInvalidState) {
			t.Errorf("err = %v, want ErrInvalidState", err)
		}
		if diff := cmp.Diff(before, s.State()); diff != "" {
			t.Errorf("state changed after failed step:\n%s", diff)
		}
	})
}

func TestStateIsCopied(t *testing.T) {
	s, _ := New(decay{}, integrators.NewEuler(), unit(), 0.1)
	x := s.State()
	x.Positions[0].X = 42
	if s.State().Positions[0].X != 1 {
		t.Error("State() exposed internal storage")
	}
	p := s.Positions()
	p[0].X = 42
	if s.Positions()[0].X != 1 {
		t.Error("Positions() exposed internal storage")
	}
}

func TestSetState(t *testing.T) {
	s, _ := New(decay{}, integrators.NewEuler(), unit(), 0.1)
	_ = s.Update(1)
	if err := s.SetState(unit()); err != nil {
		t.Fatal(err)
	}
	if s.State().Positions[0].X != 1 {
		t.Error("SetState did not replace the state")
	}
	if err := s.SetState(dynamo.NewState(2)); !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("err = %v, want ErrDimensionMismatch", err)
	}
}

type countMetric struct{ n int }

func (c *countMetric) Name() string                      { return "count" }
func (c *countMetric) Observe(x dynamo.State, t float64) { c.n++ }
func (c *countMetric) Value() float64                    { return float64(c.n) }
func (c *countMetric) Reset()                            { c.n = 0 }

type timeObserver struct{ times []float64 }

func (o *timeObserver) OnStep(x dynamo.State, t float64) { o.times = append(o.times, t) }

func TestRun(t *testing.T) {
	s, _ := New(decay{}, integrators.NewRK4(), unit(), 0.01)
	metric := &countMetric{}
	obs := &timeObserver{}
	s.AddMetric(metric)
	s.AddObserver(obs)

	result, err := s.Run(context.Background(), 1.0, 0.1)
	if err != nil {
		t.Fatal(err)
	}

	if len(result.States) != 11 || len(result.Times) != 11 {
		t.Fatalf("got %d states / %d times, want 11", len(result.States), len(result.Times))
	}
	if len(obs.times) != 10 {
		t.Errorf("observer saw %d frames, want 10", len(obs.times))
	}
	if result.Metrics["count"] != 11 {
		t.Errorf("count metric = %v, want 11", result.Metrics["count"])
	}
	if result.Steps != 100 {
		t.Errorf("Steps = %d, want 100", result.Steps)
	}
	if got, want := result.Final().Positions[0].X, math.Exp(-1); math.Abs(got-want) > 1e-8 {
		t.Errorf("final = %v, want %v", got, want)
	}
}

func TestRunPartialLastFrame(t *testing.T) {
	s, _ := New(decay{}, integrators.NewEuler(), unit(), 0.01)
	result, err := s.Run(context.Background(), 0.25, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0, 0.1, 0.2, 0.25}
	if diff := cmp.Diff(want, result.Times, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("times (-want +got):\n%s", diff)
	}
}

func TestRunCancelled(t *testing.T) {
	s, _ := New(decay{}, integrators.NewEuler(), unit(), 0.01)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.Run(ctx, 1, 0.1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if len(result.States) != 1 {
		t.Errorf("recorded %d states, want only the initial one", len(result.States))
	}
}

func TestRunRejectsBadArgs(t *testing.T) {
	s, _ := New(decay{}, integrators.NewEuler(), unit(), 0.01)
	if _, err := s.Run(context.Background(), 1, 0); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("zero frame: err = %v", err)
	}
	if _, err := s.Run(context.Background(), 0, 0.1); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("zero duration: err = %v", err)
	}
}

func TestFixedPointNeverMoves(t *testing.T) {
	p, err := physics.NewPendulum(physics.DefaultPendulumPositions(), physics.DefaultSpringParams())
	if err != nil {
		t.Fatal(err)
	}
	x0 := p.InitialState()

	for _, kind := range integrators.Kinds() {
		t.Run(kind.String(), func(t *testing.T) {
			integ, _ := integrators.New(kind)
			s, _ := New(p, integ, x0, 0.005)
			for i := 0; i < 50; i++ {
				if err := s.Update(1.0 / 60); err != nil {
					t.Fatal(err)
				}
				x := s.State()
				if x.Positions[0] != x0.Positions[0] || x.Velocities[0] != (r3.Vec{}) {
					t.Fatalf("frame %d: anchor at %v", i, x.Positions[0])
				}
			}
		})
	}
}

func TestEnsemble(t *testing.T) {
	var sims []*Simulator
	for _, kind := range integrators.Kinds() {
		integ, _ := integrators.New(kind)
		s, _ := New(decay{}, integ, unit(), 0.05)
		sims = append(sims, s)
	}

	results, err := NewEnsemble(sims...).Run(context.Background(), 1, 0.25)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}

	want := math.Exp(-1)
	errs := make([]float64, len(results))
	for i, r := range results {
		errs[i] = math.Abs(r.Final().Positions[0].X - want)
	}
	if !(errs[2] < errs[1] && errs[1] < errs[0]) {
		t.Errorf("errors not ordered euler > trapezoidal > rk4: %v", errs)
	}
}

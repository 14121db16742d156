package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/particlesim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

// stepEpsilon absorbs floating point error when splitting a frame into whole
// steps, so a frame of exactly N steps never produces a sliver step.
const stepEpsilon = 1e-9

// Simulator owns the current state of a particle system and advances it in
// fixed integration steps.
type Simulator struct {
	dyn        dynamo.System
	integrator dynamo.Integrator
	step       float64

	state dynamo.State
	t     float64
	steps int

	metrics   []Metric
	observers []Observer
}

// New returns a simulator at time zero with state x0.
func New(dyn dynamo.System, integrator dynamo.Integrator, x0 dynamo.State, step float64) (*Simulator, error) {
	if dyn == nil || integrator == nil {
		return nil, fmt.Errorf("%w: system and integrator are required", dynamo.ErrParameterBounds)
	}
	if step <= 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		return nil, fmt.Errorf("%w: step must be positive, got %v", dynamo.ErrParameterBounds, step)
	}
	if x0.Len() != dyn.NumParticles() {
		return nil, fmt.Errorf("%w: state has %d particles, system has %d",
			dynamo.ErrDimensionMismatch, x0.Len(), dyn.NumParticles())
	}
	if !x0.IsValid() {
		return nil, dynamo.ErrInvalidState
	}
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		step:       step,
		state:      x0.Clone(),
	}, nil
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) System() dynamo.System { return s.dyn }
func (s *Simulator) Time() float64         { return s.t }
func (s *Simulator) StepSize() float64     { return s.step }
func (s *Simulator) Steps() int            { return s.steps }

// State returns a copy of the current state.
func (s *Simulator) State() dynamo.State { return s.state.Clone() }

// Positions returns a copy of the current particle positions.
func (s *Simulator) Positions() []r3.Vec {
	return append([]r3.Vec(nil), s.state.Positions...)
}

// SetState replaces the current state, e.g. to reset a scenario. Time is
// left unchanged.
func (s *Simulator) SetState(x dynamo.State) error {
	if x.Len() != s.dyn.NumParticles() {
		return fmt.Errorf("%w: state has %d particles, system has %d",
			dynamo.ErrDimensionMismatch, x.Len(), s.dyn.NumParticles())
	}
	if !x.IsValid() {
		return dynamo.ErrInvalidState
	}
	s.state = x.Clone()
	return nil
}

// Update advances the state by dt: as many whole steps as fit, then one
// partial step for the remainder. On error the state is left at the last
// successful step.
func (s *Simulator) Update(dt float64) error {
	if dt < 0 || math.IsNaN(dt) {
		return fmt.Errorf("%w: frame time must be non-negative, got %v", dynamo.ErrParameterBounds, dt)
	}

	whole := int(math.Floor(dt/s.step + stepEpsilon))
	for i := 0; i < whole; i++ {
		if err := s.advance(s.step); err != nil {
			return err
		}
	}

	if rest := dt - float64(whole)*s.step; rest > stepEpsilon*s.step {
		return s.advance(rest)
	}
	return nil
}

func (s *Simulator) advance(h float64) error {
	next, err := s.integrator.Step(s.dyn, s.state, s.t, h)
	if err != nil {
		return &dynamo.SimulationError{Step: s.steps, Time: s.t, Wrapped: err}
	}
	if !next.IsValid() {
		return &dynamo.SimulationError{Step: s.steps, Time: s.t, Wrapped: dynamo.ErrInvalidState}
	}
	s.state = next
	s.t += h
	s.steps++
	return nil
}

// Run calls Update(frame) until duration is consumed, recording the state
// after every frame. The partial result is returned alongside any error.
func (s *Simulator) Run(ctx context.Context, duration, frame float64) (*Result, error) {
	if frame <= 0 {
		return nil, fmt.Errorf("%w: frame must be positive, got %v", dynamo.ErrParameterBounds, frame)
	}
	if duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive, got %v", dynamo.ErrParameterBounds, duration)
	}

	frames := int(math.Ceil(duration/frame - stepEpsilon))
	result := &Result{
		States:  make([]dynamo.State, 0, frames+1),
		Times:   make([]float64, 0, frames+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
		m.Observe(s.state, s.t)
	}

	start := s.t
	startSteps := s.steps
	initialEnergy := s.energy(s.state)
	result.States = append(result.States, s.State())
	result.Times = append(result.Times, s.t)

	var runErr error
	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
		}
		if runErr != nil {
			break
		}

		dt := math.Max(0, math.Min(frame, start+duration-s.t))
		if err := s.Update(dt); err != nil {
			runErr = err
			break
		}

		for _, m := range s.metrics {
			m.Observe(s.state, s.t)
		}
		for _, o := range s.observers {
			o.OnStep(s.state, s.t)
		}

		result.States = append(result.States, s.State())
		result.Times = append(result.Times, s.t)
	}

	result.Steps = s.steps - startSteps
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(s.energy(s.state)-initialEnergy) / math.Abs(initialEnergy)
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, runErr
}

func (s *Simulator) energy(x dynamo.State) float64 {
	if h, ok := s.dyn.(dynamo.Hamiltonian); ok {
		return h.Energy(x)
	}
	return 0
}

package macgrid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Marker is a massless particle carried by its own velocity.
type Marker struct {
	Position r2.Vec `json:"position"`
	Velocity r2.Vec `json:"velocity"`
}

// Advect moves the marker by one explicit Euler step.
func (m *Marker) Advect(dt float64) {
	m.Position = r2.Add(m.Position, r2.Scale(dt, m.Velocity))
}

// TopRow spaces n markers evenly across the top interior row of g, each
// starting with velocity v.
func TopRow(g *Grid, n int, v r2.Vec) []Marker {
	if n <= 0 {
		return nil
	}
	span := float64(g.sizeX-2) * g.cellSize
	y := (float64(g.sizeY) - 1.5) * g.cellSize
	markers := make([]Marker, n)
	for k := range markers {
		x := g.cellSize + (float64(k)+0.5)*span/float64(n)
		markers[k] = Marker{Position: r2.Vec{X: x, Y: y}, Velocity: v}
	}
	return markers
}

// System advances markers in fixed steps, bouncing any marker that would
// enter a solid cell back to where it was.
type System struct {
	grid    *Grid
	markers []Marker
	step    float64
	t       float64
}

func NewSystem(g *Grid, markers []Marker, step float64) (*System, error) {
	if step <= 0 || math.IsNaN(step) {
		return nil, fmt.Errorf("%w: step must be positive, got %v", ErrInvalidParam, step)
	}
	s := &System{grid: g, markers: append([]Marker(nil), markers...), step: step}
	g.Classify(s.markers)
	return s, nil
}

func (s *System) Grid() *Grid     { return s.grid }
func (s *System) Time() float64   { return s.t }
func (s *System) NumMarkers() int { return len(s.markers) }

// Markers returns a copy of the marker list.
func (s *System) Markers() []Marker {
	return append([]Marker(nil), s.markers...)
}

// Update reclassifies the grid from the current markers, advances them by
// dt in whole steps followed by one partial step, and reclassifies again so
// the grid matches the returned positions.
func (s *System) Update(dt float64) error {
	if dt < 0 || math.IsNaN(dt) {
		return fmt.Errorf("%w: frame time must be non-negative, got %v", ErrInvalidParam, dt)
	}
	s.grid.Classify(s.markers)

	whole := int(math.Floor(dt/s.step + 1e-9))
	for i := 0; i < whole; i++ {
		s.advance(s.step)
	}
	if rest := dt - float64(whole)*s.step; rest > 1e-9*s.step {
		s.advance(rest)
	}
	s.grid.Classify(s.markers)
	return nil
}

func (s *System) advance(h float64) {
	for i := range s.markers {
		m := &s.markers[i]
		prev := m.Position
		m.Advect(h)
		if s.grid.TypeAt(m.Position) == Solid {
			m.Position = prev
		}
	}
	s.t += h
}

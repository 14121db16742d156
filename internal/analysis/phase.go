package analysis

import (
	"strings"

	"github.com/san-kum/particlesim/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

// PhasePortrait holds position against velocity of one particle along one
// axis.
type PhasePortrait struct {
	Particle int
	Axis     Axis
	X, Y     []float64
}

func NewPhasePortrait(states []dynamo.State, particle int, axis Axis) (*PhasePortrait, error) {
	pos, err := Coordinate(states, particle, axis)
	if err != nil {
		return nil, err
	}
	vel, err := Velocity(states, particle, axis)
	if err != nil {
		return nil, err
	}
	return &PhasePortrait{Particle: particle, Axis: axis, X: pos, Y: vel}, nil
}

// ASCII plots the portrait on a width x height character grid with 10%
// padding and axes where they cross the visible area.
func (p *PhasePortrait) ASCII(width, height int) string {
	if p == nil || len(p.X) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := pad(floats.Min(p.X), floats.Max(p.X))
	minY, maxY := pad(floats.Min(p.Y), floats.Max(p.Y))
	col := func(x float64) int { return int((x - minX) / (maxX - minX) * float64(width-1)) }
	row := func(y float64) int { return height - 1 - int((y-minY)/(maxY-minY)*float64(height-1)) }

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	if minX <= 0 && maxX >= 0 {
		c := col(0)
		for r := range canvas {
			canvas[r][c] = '│'
		}
	}
	if minY <= 0 && maxY >= 0 {
		r := row(0)
		for c := range canvas[r] {
			canvas[r][c] = '─'
		}
	}
	for i := range p.X {
		r, c := row(p.Y[i]), col(p.X[i])
		if r >= 0 && r < height && c >= 0 && c < width {
			canvas[r][c] = '•'
		}
	}

	var sb strings.Builder
	for _, line := range canvas {
		sb.WriteString(string(line))
		sb.WriteRune('\n')
	}
	return sb.String()
}

func pad(lo, hi float64) (float64, float64) {
	span := hi - lo
	if span == 0 {
		span = 1
	}
	return lo - 0.1*span, hi + 0.1*span
}

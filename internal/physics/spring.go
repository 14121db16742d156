package physics

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrCoincidentEndpoints is returned when the two particles joined by a
	// spring occupy the same point, leaving the force direction undefined.
	ErrCoincidentEndpoints = errors.New("physics: spring endpoints coincide")
	ErrSpringIndex         = errors.New("physics: spring endpoint out of range")
	ErrFixedPointIndex     = errors.New("physics: fixed point index out of range")
)

// Spring is a Hookean link between particles Start and End.
type Spring struct {
	Stiffness  float64 `json:"stiffness" yaml:"stiffness"`
	RestLength float64 `json:"rest_length" yaml:"rest_length"`
	Start      int     `json:"start" yaml:"start"`
	End        int     `json:"end" yaml:"end"`
}

// Validate checks the endpoints against a system of n particles.
func (s Spring) Validate(n int) error {
	if s.Start < 0 || s.Start >= n || s.End < 0 || s.End >= n {
		return fmt.Errorf("%w: (%d, %d) with %d particles", ErrSpringIndex, s.Start, s.End, n)
	}
	if s.Start == s.End {
		return fmt.Errorf("%w: start and end are both %d", ErrSpringIndex, s.Start)
	}
	return nil
}

// Force returns the force the spring applies to its start particle when the
// endpoints are at a and b. The end particle receives the negation.
func (s Spring) Force(a, b r3.Vec) (r3.Vec, error) {
	d := r3.Sub(a, b)
	length := r3.Norm(d)
	if length == 0 {
		return r3.Vec{}, fmt.Errorf("%w: particles %d and %d", ErrCoincidentEndpoints, s.Start, s.End)
	}
	return r3.Scale(-s.Stiffness*(length-s.RestLength)/length, d), nil
}

// Potential is the elastic energy stored at endpoint positions a and b.
func (s Spring) Potential(a, b r3.Vec) float64 {
	stretch := r3.Norm(r3.Sub(a, b)) - s.RestLength
	return 0.5 * s.Stiffness * stretch * stretch
}

// Strain is the stretch relative to rest length. Zero-length springs report
// the absolute stretch.
func (s Spring) Strain(a, b r3.Vec) float64 {
	stretch := r3.Norm(r3.Sub(a, b)) - s.RestLength
	if s.RestLength == 0 {
		return stretch
	}
	return stretch / s.RestLength
}

// Chain links particles 0..n-1 with one spring per adjacent pair.
func Chain(n int, stiffness, restLength float64) []Spring {
	if n < 2 {
		return nil
	}
	springs := make([]Spring, 0, n-1)
	for i := 0; i < n-1; i++ {
		springs = append(springs, Spring{stiffness, restLength, i, i + 1})
	}
	return springs
}

// ClothIndex is the row-major particle index of (row, col).
func ClothIndex(cols, row, col int) int {
	return row*cols + col
}

// ClothTopology builds the structural, shear and flex springs of a rows x
// cols particle sheet. Every spring shares the same stiffness and rest
// length.
func ClothTopology(rows, cols int, stiffness, restLength float64) []Spring {
	var springs []Spring
	link := func(r0, c0, r1, c1 int) {
		springs = append(springs, Spring{
			Stiffness:  stiffness,
			RestLength: restLength,
			Start:      ClothIndex(cols, r0, c0),
			End:        ClothIndex(cols, r1, c1),
		})
	}

	// structural
	for r := 0; r < rows; r++ {
		for c := 0; c+1 < cols; c++ {
			link(r, c, r, c+1)
		}
	}
	for r := 0; r+1 < rows; r++ {
		for c := 0; c < cols; c++ {
			link(r, c, r+1, c)
		}
	}

	// shear
	for r := 0; r+1 < rows; r++ {
		for c := 0; c+1 < cols; c++ {
			link(r, c, r+1, c+1)
		}
	}
	for r := 1; r < rows; r++ {
		for c := 0; c+1 < cols; c++ {
			link(r, c, r-1, c+1)
		}
	}

	// flex
	for r := 0; r < rows; r++ {
		for c := 0; c+2 < cols; c++ {
			link(r, c, r, c+2)
		}
	}
	for r := 0; r+2 < rows; r++ {
		for c := 0; c < cols; c++ {
			link(r, c, r+2, c)
		}
	}

	return springs
}

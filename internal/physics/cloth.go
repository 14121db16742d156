package physics

import (
	"fmt"

	"github.com/san-kum/particlesim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

// ClothParams describes the sheet layout.
type ClothParams struct {
	Rows    int
	Cols    int
	Spacing float64
}

func DefaultClothParams() ClothParams {
	return ClothParams{Rows: 10, Cols: 10, Spacing: 1}
}

// DefaultClothSpringParams are the sheet's physical constants.
func DefaultClothSpringParams() SpringParams {
	return SpringParams{
		Mass:       DefaultMass,
		Drag:       5,
		Stiffness:  25,
		RestLength: 0.5,
		Gravity:    r3.Vec{Y: -StandardGravity},
	}
}

// Cloth is a rows x cols sheet pinned along its first row.
type Cloth struct {
	*SpringSystem
	layout ClothParams
}

func NewCloth(layout ClothParams, params SpringParams) (*Cloth, error) {
	if layout.Rows < 1 || layout.Cols < 1 {
		return nil, fmt.Errorf("%w: cloth must be at least 1x1, got %dx%d",
			dynamo.ErrParameterBounds, layout.Rows, layout.Cols)
	}
	if layout.Spacing <= 0 {
		return nil, fmt.Errorf("%w: spacing must be positive, got %v", dynamo.ErrParameterBounds, layout.Spacing)
	}

	n := layout.Rows * layout.Cols
	fixed := make([]int, layout.Cols)
	for c := range fixed {
		fixed[c] = c
	}

	springs := ClothTopology(layout.Rows, layout.Cols, params.Stiffness, params.RestLength)
	ss, err := NewSpringSystem(n, springs, params, fixed)
	if err != nil {
		return nil, err
	}
	return &Cloth{SpringSystem: ss, layout: layout}, nil
}

func (c *Cloth) Layout() ClothParams { return c.layout }

// Index is the particle index of (row, col).
func (c *Cloth) Index(row, col int) int {
	return ClothIndex(c.layout.Cols, row, col)
}

// InitialState lays the sheet out in the z=0.5 plane, row r at y=-r*spacing,
// at rest. It doubles as the reset layout.
func (c *Cloth) InitialState() dynamo.State {
	x := dynamo.NewState(c.NumParticles())
	s := c.layout.Spacing
	for r := 0; r < c.layout.Rows; r++ {
		for col := 0; col < c.layout.Cols; col++ {
			x.Positions[c.Index(r, col)] = r3.Vec{X: float64(col) * s, Y: -float64(r) * s, Z: 0.5}
		}
	}
	return x
}

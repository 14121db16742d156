package fluid

import (
	"errors"
	"fmt"
)

var (
	ErrGridTooSmall = errors.New("fluid: grid must be at least 3x3")
	ErrOutOfRange   = errors.New("fluid: position outside the grid")
	ErrInvalidParam = errors.New("fluid: invalid parameter")
	ErrSnapshotSize = errors.New("fluid: snapshot does not match grid size")
)

// Params fixes the grid size and solver constants at construction.
type Params struct {
	Rows        int     `json:"rows" yaml:"rows"`
	Cols        int     `json:"cols" yaml:"cols"`
	Dt          float64 `json:"dt" yaml:"dt"`
	Viscosity   float64 `json:"viscosity" yaml:"viscosity"`
	Diffusion   float64 `json:"diffusion" yaml:"diffusion"`
	Dissipation float64 `json:"dissipation" yaml:"dissipation"`
	Iterations  int     `json:"iterations" yaml:"iterations"`
}

func DefaultParams() Params {
	return Params{
		Rows:        30,
		Cols:        30,
		Dt:          0.1,
		Viscosity:   0.0001,
		Diffusion:   0.0001,
		Dissipation: 0.1,
		Iterations:  20,
	}
}

func (p Params) Validate() error {
	if p.Rows < 3 || p.Cols < 3 {
		return fmt.Errorf("%w: got %dx%d", ErrGridTooSmall, p.Rows, p.Cols)
	}
	if p.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %v", ErrInvalidParam, p.Dt)
	}
	if p.Viscosity < 0 || p.Diffusion < 0 || p.Dissipation < 0 {
		return fmt.Errorf("%w: viscosity, diffusion and dissipation must be non-negative", ErrInvalidParam)
	}
	if p.Iterations < 1 {
		return fmt.Errorf("%w: iterations must be at least 1, got %d", ErrInvalidParam, p.Iterations)
	}
	return nil
}

// Cells is the total cell count, border ring included.
func (p Params) Cells() int { return p.Rows * p.Cols }

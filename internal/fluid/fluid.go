package fluid

import "fmt"

// View is the read-only surface presentation code renders from.
type View interface {
	Rows() int
	Cols() int
	Uy(y, x int) float64
	Ux(y, x int) float64
	Density(y, x int) float64
}

type generation struct {
	uy, ux, s *Field
}

func newGeneration(rows, cols int) generation {
	return generation{
		uy: NewField(rows, cols),
		ux: NewField(rows, cols),
		s:  NewField(rows, cols),
	}
}

// Fluid is a stable fluids solver on a fixed rows x cols grid. Velocity is
// measured in cells per unit time. Two generations of fields alternate as
// the read side; the roles flip exactly once per Step.
type Fluid struct {
	p    Params
	gens [2]generation
	cur  int

	tmpY, tmpX, tmpS *Field
	pressure, div    *Field
	scratch          *Field

	steps int
}

func New(p Params) (*Fluid, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	r, c := p.Rows, p.Cols
	return &Fluid{
		p:        p,
		gens:     [2]generation{newGeneration(r, c), newGeneration(r, c)},
		tmpY:     NewField(r, c),
		tmpX:     NewField(r, c),
		tmpS:     NewField(r, c),
		pressure: NewField(r, c),
		div:      NewField(r, c),
		scratch:  NewField(r, c),
	}, nil
}

func (f *Fluid) Params() Params { return f.p }
func (f *Fluid) Rows() int      { return f.p.Rows }
func (f *Fluid) Cols() int      { return f.p.Cols }
func (f *Fluid) Steps() int     { return f.steps }

func (f *Fluid) Uy(y, x int) float64      { return f.gens[f.cur].uy.At(y, x) }
func (f *Fluid) Ux(y, x int) float64      { return f.gens[f.cur].ux.At(y, x) }
func (f *Fluid) Density(y, x int) float64 { return f.gens[f.cur].s.At(y, x) }

// VelocityY, VelocityX and DensityField expose the current generation. The
// fields are replaced by the next Step and must not be retained.
func (f *Fluid) VelocityY() *Field    { return f.gens[f.cur].uy }
func (f *Fluid) VelocityX() *Field    { return f.gens[f.cur].ux }
func (f *Fluid) DensityField() *Field { return f.gens[f.cur].s }

// SampleDensity bilinearly interpolates density at fractional coordinates.
func (f *Fluid) SampleDensity(y, x float64) (float64, error) {
	return f.gens[f.cur].s.Sample(y, x)
}

// AddForceY adds to the y velocity at (y, x). Cells on the boundary ring are
// owned by the boundary conditions and ignore injection.
func (f *Fluid) AddForceY(y, x int, amount float64) error {
	return f.inject(f.gens[f.cur].uy, y, x, amount)
}

func (f *Fluid) AddForceX(y, x int, amount float64) error {
	return f.inject(f.gens[f.cur].ux, y, x, amount)
}

// AddSource adds density at (y, x).
func (f *Fluid) AddSource(y, x int, amount float64) error {
	return f.inject(f.gens[f.cur].s, y, x, amount)
}

func (f *Fluid) inject(field *Field, y, x int, amount float64) error {
	if !field.Contains(y, x) {
		return fmt.Errorf("%w: cell (%d, %d) in %dx%d", ErrOutOfRange, y, x, f.p.Rows, f.p.Cols)
	}
	if field.Interior(y, x) {
		field.Add(y, x, amount)
	}
	return nil
}

// Step runs the velocity step then the scalar step, then swaps generations.
func (f *Fluid) Step() {
	c, n := &f.gens[f.cur], &f.gens[1-f.cur]
	iters := f.p.Iterations
	dt := f.p.Dt

	setBoundary(c.uy, BoundaryVertical)
	setBoundary(c.ux, BoundaryHorizontal)

	srcY, srcX := c.uy, c.ux
	if f.p.Viscosity > 0 {
		diffuse(f.tmpY, c.uy, f.scratch, f.p.Viscosity, dt, iters, BoundaryVertical)
		diffuse(f.tmpX, c.ux, f.scratch, f.p.Viscosity, dt, iters, BoundaryHorizontal)
		srcY, srcX = f.tmpY, f.tmpX
	}
	project(n.uy, n.ux, srcY, srcX, f.pressure, f.div, f.scratch, iters)

	advect(f.tmpY, n.uy, n.uy, n.ux, dt, BoundaryVertical)
	advect(f.tmpX, n.ux, n.uy, n.ux, dt, BoundaryHorizontal)
	project(n.uy, n.ux, f.tmpY, f.tmpX, f.pressure, f.div, f.scratch, iters)

	advect(f.tmpS, c.s, n.uy, n.ux, dt, BoundaryScalar)
	src := f.tmpS
	if f.p.Diffusion > 0 {
		diffuse(n.s, f.tmpS, f.scratch, f.p.Diffusion, dt, iters, BoundaryScalar)
		src = n.s
	}
	dissipate(n.s, src, f.p.Dissipation, dt)
	setBoundary(n.s, BoundaryScalar)

	f.cur = 1 - f.cur
	f.steps++
}

// StepN runs n steps.
func (f *Fluid) StepN(n int) {
	for i := 0; i < n; i++ {
		f.Step()
	}
}

// TotalDensity sums density over the interior.
func (f *Fluid) TotalDensity() float64 {
	return f.gens[f.cur].s.InteriorSum()
}

// MaxDivergence is the largest absolute velocity divergence over the
// interior of the current generation.
func (f *Fluid) MaxDivergence() float64 {
	g := f.gens[f.cur]
	return maxDivergence(g.uy, g.ux)
}

// Reset zeroes every field.
func (f *Fluid) Reset() {
	for _, g := range f.gens {
		g.uy.Fill(0)
		g.ux.Fill(0)
		g.s.Fill(0)
	}
	f.cur = 0
	f.steps = 0
}

// Snapshot is a copy of the current generation.
type Snapshot struct {
	Rows    int       `json:"rows"`
	Cols    int       `json:"cols"`
	Steps   int       `json:"steps"`
	Uy      []float64 `json:"uy"`
	Ux      []float64 `json:"ux"`
	Density []float64 `json:"density"`
}

func (f *Fluid) Snapshot() Snapshot {
	g := f.gens[f.cur]
	return Snapshot{
		Rows:    f.p.Rows,
		Cols:    f.p.Cols,
		Steps:   f.steps,
		Uy:      append([]float64(nil), g.uy.data...),
		Ux:      append([]float64(nil), g.ux.data...),
		Density: append([]float64(nil), g.s.data...),
	}
}

// Restore loads s into the current generation.
func (f *Fluid) Restore(s Snapshot) error {
	n := f.p.Cells()
	if s.Rows != f.p.Rows || s.Cols != f.p.Cols || len(s.Uy) != n || len(s.Ux) != n || len(s.Density) != n {
		return fmt.Errorf("%w: snapshot %dx%d, grid %dx%d", ErrSnapshotSize, s.Rows, s.Cols, f.p.Rows, f.p.Cols)
	}
	g := f.gens[f.cur]
	copy(g.uy.data, s.Uy)
	copy(g.ux.data, s.Ux)
	copy(g.s.data, s.Density)
	f.steps = s.Steps
	return nil
}

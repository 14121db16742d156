package fluid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Field is a rows x cols scalar grid stored row-major. Row 0, row rows-1,
// column 0 and column cols-1 form the boundary ring.
type Field struct {
	rows, cols int
	data       []float64
}

func NewField(rows, cols int) *Field {
	return &Field{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

func (f *Field) Rows() int { return f.rows }
func (f *Field) Cols() int { return f.cols }

func (f *Field) idx(y, x int) int { return y*f.cols + x }

func (f *Field) At(y, x int) float64     { return f.data[f.idx(y, x)] }
func (f *Field) Set(y, x int, v float64) { f.data[f.idx(y, x)] = v }
func (f *Field) Add(y, x int, v float64) { f.data[f.idx(y, x)] += v }

func (f *Field) Contains(y, x int) bool {
	return y >= 0 && y < f.rows && x >= 0 && x < f.cols
}

// Interior reports whether (y, x) is inside the boundary ring.
func (f *Field) Interior(y, x int) bool {
	return y > 0 && y < f.rows-1 && x > 0 && x < f.cols-1
}

// Data exposes the backing slice.
func (f *Field) Data() []float64 { return f.data }

func (f *Field) CopyFrom(src *Field) {
	copy(f.data, src.data)
}

func (f *Field) Fill(v float64) {
	for i := range f.data {
		f.data[i] = v
	}
}

func (f *Field) Clone() *Field {
	c := NewField(f.rows, f.cols)
	c.CopyFrom(f)
	return c
}

// InteriorSum adds up every cell inside the boundary ring.
func (f *Field) InteriorSum() float64 {
	sum := 0.0
	for y := 1; y < f.rows-1; y++ {
		row := f.data[f.idx(y, 1):f.idx(y, f.cols-1)]
		sum += floats.Sum(row)
	}
	return sum
}

// Min returns the smallest value anywhere in the field.
func (f *Field) Min() float64 { return floats.Min(f.data) }

// Sample bilinearly interpolates the field at fractional cell coordinates.
func (f *Field) Sample(y, x float64) (float64, error) {
	if math.IsNaN(y) || math.IsNaN(x) || y < 0 || x < 0 ||
		y > float64(f.rows-1) || x > float64(f.cols-1) {
		return 0, fmt.Errorf("%w: (%v, %v) in %dx%d", ErrOutOfRange, y, x, f.rows, f.cols)
	}
	return f.bilinear(y, x), nil
}

// bilinear assumes 0 <= y <= rows-1 and 0 <= x <= cols-1.
func (f *Field) bilinear(y, x float64) float64 {
	y0, x0 := int(math.Floor(y)), int(math.Floor(x))
	if y0 > f.rows-2 {
		y0 = f.rows - 2
	}
	if x0 > f.cols-2 {
		x0 = f.cols - 2
	}
	ty, tx := y-float64(y0), x-float64(x0)

	tl, tr := f.At(y0, x0), f.At(y0, x0+1)
	bl, br := f.At(y0+1, x0), f.At(y0+1, x0+1)

	left := (1-ty)*tl + ty*bl
	right := (1-ty)*tr + ty*br
	return (1-tx)*left + tx*right
}

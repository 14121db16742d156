package fluid

// Boundary selects how the ring of a field mirrors its interior neighbours.
type Boundary int

const (
	// BoundaryScalar copies the neighbour on every edge.
	BoundaryScalar Boundary = iota
	// BoundaryVertical negates on the top and bottom edges and copies on the
	// left and right. Used for the y velocity component.
	BoundaryVertical
	// BoundaryHorizontal negates on the left and right edges and copies on
	// the top and bottom. Used for the x velocity component.
	BoundaryHorizontal
)

func (b Boundary) String() string {
	switch b {
	case BoundaryScalar:
		return "scalar"
	case BoundaryVertical:
		return "vertical"
	case BoundaryHorizontal:
		return "horizontal"
	}
	return "unknown"
}

// setBoundary overwrites the ring of f from its interior. Corners become the
// average of their two edge neighbours.
func setBoundary(f *Field, b Boundary) {
	rows, cols := f.rows, f.cols

	lr, tb := 1.0, 1.0
	switch b {
	case BoundaryVertical:
		tb = -1
	case BoundaryHorizontal:
		lr = -1
	}

	for y := 1; y < rows-1; y++ {
		f.Set(y, 0, lr*f.At(y, 1))
		f.Set(y, cols-1, lr*f.At(y, cols-2))
	}
	for x := 1; x < cols-1; x++ {
		f.Set(0, x, tb*f.At(1, x))
		f.Set(rows-1, x, tb*f.At(rows-2, x))
	}

	f.Set(0, 0, 0.5*(f.At(0, 1)+f.At(1, 0)))
	f.Set(0, cols-1, 0.5*(f.At(0, cols-2)+f.At(1, cols-1)))
	f.Set(rows-1, 0, 0.5*(f.At(rows-1, 1)+f.At(rows-2, 0)))
	f.Set(rows-1, cols-1, 0.5*(f.At(rows-1, cols-2)+f.At(rows-2, cols-1)))
}

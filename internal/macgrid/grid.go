// Package macgrid tracks marker particles against a background grid whose
// cells are reclassified as solid, air or liquid every frame.
package macgrid

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

var (
	ErrGridTooSmall = errors.New("macgrid: grid must be at least 3x3")
	ErrInvalidParam = errors.New("macgrid: invalid parameter")
)

type CellType int

const (
	Solid CellType = iota
	Air
	Liquid
)

func (c CellType) String() string {
	switch c {
	case Solid:
		return "solid"
	case Air:
		return "air"
	case Liquid:
		return "liquid"
	}
	return fmt.Sprintf("CellType(%d)", int(c))
}

func (c CellType) glyph() byte {
	switch c {
	case Solid:
		return '#'
	case Liquid:
		return '~'
	}
	return '.'
}

// Grid is a sizeX x sizeY array of square cells of side cellSize. Cell (i, j)
// covers x in [i*cellSize, (i+1)*cellSize) and y likewise; j grows upward.
type Grid struct {
	sizeX, sizeY int
	cellSize     float64
	cells        []CellType
}

func NewGrid(sizeX, sizeY int, cellSize float64) (*Grid, error) {
	if sizeX < 3 || sizeY < 3 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrGridTooSmall, sizeX, sizeY)
	}
	if cellSize <= 0 || math.IsNaN(cellSize) {
		return nil, fmt.Errorf("%w: cell size must be positive, got %v", ErrInvalidParam, cellSize)
	}
	g := &Grid{sizeX: sizeX, sizeY: sizeY, cellSize: cellSize, cells: make([]CellType, sizeX*sizeY)}
	g.Classify(nil)
	return g, nil
}

func (g *Grid) SizeX() int           { return g.sizeX }
func (g *Grid) SizeY() int           { return g.sizeY }
func (g *Grid) CellSize() float64    { return g.cellSize }
func (g *Grid) IndexOf(i, j int) int { return g.sizeX*j + i }

// Width and Height are the domain extents in world units.
func (g *Grid) Width() float64  { return float64(g.sizeX) * g.cellSize }
func (g *Grid) Height() float64 { return float64(g.sizeY) * g.cellSize }

func (g *Grid) edge(i, j int) bool {
	return i == 0 || j == 0 || i == g.sizeX-1 || j == g.sizeY-1
}

// CellOf returns the cell containing p and whether it lies in the domain.
func (g *Grid) CellOf(p r2.Vec) (i, j int, ok bool) {
	if math.IsNaN(p.X) || math.IsNaN(p.Y) {
		return 0, 0, false
	}
	fi, fj := math.Floor(p.X/g.cellSize), math.Floor(p.Y/g.cellSize)
	if fi < 0 || fj < 0 || fi >= float64(g.sizeX) || fj >= float64(g.sizeY) {
		return 0, 0, false
	}
	return int(fi), int(fj), true
}

func (g *Grid) Cell(i, j int) CellType {
	if i < 0 || j < 0 || i >= g.sizeX || j >= g.sizeY {
		return Solid
	}
	return g.cells[g.IndexOf(i, j)]
}

// TypeAt classifies a world position. Anything outside the domain is solid.
func (g *Grid) TypeAt(p r2.Vec) CellType {
	i, j, ok := g.CellOf(p)
	if !ok {
		return Solid
	}
	return g.cells[g.IndexOf(i, j)]
}

// Classify rebuilds every cell tag: domain edges are solid, interior cells
// holding at least one marker are liquid and the rest are air.
func (g *Grid) Classify(markers []Marker) {
	for j := 0; j < g.sizeY; j++ {
		for i := 0; i < g.sizeX; i++ {
			t := Air
			if g.edge(i, j) {
				t = Solid
			}
			g.cells[g.IndexOf(i, j)] = t
		}
	}
	for _, m := range markers {
		i, j, ok := g.CellOf(m.Position)
		if !ok || g.edge(i, j) {
			continue
		}
		g.cells[g.IndexOf(i, j)] = Liquid
	}
}

// Count returns how many cells currently carry tag t.
func (g *Grid) Count(t CellType) int {
	n := 0
	for _, c := range g.cells {
		if c == t {
			n++
		}
	}
	return n
}

// Render draws the grid top row first, one glyph per cell.
func (g *Grid) Render() string {
	var b strings.Builder
	b.Grow((g.sizeX + 1) * g.sizeY)
	for j := g.sizeY - 1; j >= 0; j-- {
		for i := 0; i < g.sizeX; i++ {
			b.WriteByte(g.cells[g.IndexOf(i, j)].glyph())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

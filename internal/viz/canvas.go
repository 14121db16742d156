package viz

import (
	"strings"
)

const brailleBlank rune = 0x2800

// brailleDots maps the dot at [row][col] of a 2x4 cell to its bit in the
// Braille block.
var brailleDots = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of Braille characters addressed in dots. A canvas of
// cols x rows characters is 2*cols dots wide and 4*rows dots tall.
type Canvas struct {
	cols, rows int
	cells      []rune
}

func NewCanvas(cols, rows int) *Canvas {
	c := &Canvas{cols: cols, rows: rows, cells: make([]rune, cols*rows)}
	c.Clear()
	return c
}

func (c *Canvas) Cols() int      { return c.cols }
func (c *Canvas) Rows() int      { return c.rows }
func (c *Canvas) DotWidth() int  { return 2 * c.cols }
func (c *Canvas) DotHeight() int { return 4 * c.rows }

func (c *Canvas) cell(x, y int) (int, rune, bool) {
	if x < 0 || y < 0 || x >= c.DotWidth() || y >= c.DotHeight() {
		return 0, 0, false
	}
	return (y/4)*c.cols + x/2, brailleDots[y%4][x%2], true
}

// Set lights the dot at (x, y). Dots outside the canvas are ignored.
func (c *Canvas) Set(x, y int) {
	if i, bit, ok := c.cell(x, y); ok {
		c.cells[i] |= bit
	}
}

func (c *Canvas) IsSet(x, y int) bool {
	i, bit, ok := c.cell(x, y)
	return ok && c.cells[i]&bit != 0
}

func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = brailleBlank
	}
}

// Lit counts the lit dots.
func (c *Canvas) Lit() int {
	n := 0
	for _, r := range c.cells {
		for bits := r - brailleBlank; bits != 0; bits &= bits - 1 {
			n++
		}
	}
	return n
}

// Line draws from (x0, y0) to (x1, y1) with Bresenham's algorithm.
func (c *Canvas) Line(x0, y0, x1, y1 int) {
	dx, dy := absInt(x1-x0), -absInt(y1-y0)
	sx, sy := 1, 1
	if x1 < x0 {
		sx = -1
	}
	if y1 < y0 {
		sy = -1
	}
	err := dx + dy
	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for r := 0; r < c.rows; r++ {
		b.WriteString(string(c.cells[r*c.cols : (r+1)*c.cols]))
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

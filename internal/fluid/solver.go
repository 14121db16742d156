package fluid

import (
	"math"

	"github.com/san-kum/particlesim/internal/dynamo"
)

// parallelRows is the grid height from which sweeps are split by rows.
const parallelRows = 128

func forRows(rows int, fn func(y int)) {
	interior := rows - 2
	if rows < parallelRows {
		for y := 1; y < rows-1; y++ {
			fn(y)
		}
		return
	}
	dynamo.ParallelFor(interior, 16, func(start, end int) {
		for y := start + 1; y < end+1; y++ {
			fn(y)
		}
	})
}

// relax runs a fixed number of Jacobi sweeps of
//
//	x[c] = (x0[c] + a*(sum of the four neighbours of x at c)) / c
//
// starting from the current contents of dst. Sweeps alternate between dst
// and scratch and the bound is reapplied after each one. The result always
// ends up in dst. x0 must not alias dst or scratch.
func relax(dst, x0, scratch *Field, a, c float64, iterations int, b Boundary) {
	invC := 1 / c
	cur, next := dst, scratch
	cols := dst.cols
	for k := 0; k < iterations; k++ {
		src, out := cur, next
		forRows(dst.rows, func(y int) {
			for x := 1; x < cols-1; x++ {
				i := y*cols + x
				sum := src.data[i-cols] + src.data[i+cols] + src.data[i-1] + src.data[i+1]
				out.data[i] = (x0.data[i] + a*sum) * invC
			}
		})
		setBoundary(out, b)
		cur, next = next, cur
	}
	if cur != dst {
		dst.CopyFrom(cur)
	}
}

// diffuse solves (I - a*Laplacian) dst = src with a = dt*coef*cells.
func diffuse(dst, src, scratch *Field, coef, dt float64, iterations int, b Boundary) {
	a := dt * coef * float64(dst.rows*dst.cols)
	dst.CopyFrom(src)
	relax(dst, src, scratch, a, 1+4*a, iterations, b)
}

// divergence writes -0.5 times the central difference divergence of
// (uy, ux) into div at interior cells.
func divergence(div, uy, ux *Field) {
	cols := div.cols
	forRows(div.rows, func(y int) {
		for x := 1; x < cols-1; x++ {
			i := y*cols + x
			div.data[i] = -0.5 * (uy.data[i+cols] - uy.data[i-cols] + ux.data[i+1] - ux.data[i-1])
		}
	})
	setBoundary(div, BoundaryScalar)
}

// project writes the divergence-reduced version of (srcY, srcX) into
// (dstY, dstX). pressure, div and scratch are working storage. Central
// differences on the collocated grid leave the checkerboard pressure mode
// uncorrected, so a divergent source keeps a small residual however many
// iterations run.
func project(dstY, dstX, srcY, srcX, pressure, div, scratch *Field, iterations int) {
	divergence(div, srcY, srcX)
	pressure.Fill(0)
	relax(pressure, div, scratch, 1, 4, iterations, BoundaryScalar)

	cols := dstY.cols
	forRows(dstY.rows, func(y int) {
		for x := 1; x < cols-1; x++ {
			i := y*cols + x
			dstY.data[i] = srcY.data[i] - 0.5*(pressure.data[i+cols]-pressure.data[i-cols])
			dstX.data[i] = srcX.data[i] - 0.5*(pressure.data[i+1]-pressure.data[i-1])
		}
	})
	setBoundary(dstY, BoundaryVertical)
	setBoundary(dstX, BoundaryHorizontal)
}

// advect traces every interior cell back along (uy, ux) by dt and samples
// src there. Traced points are clamped to [1, dim-2]. dst must not alias src,
// uy or ux.
func advect(dst, src, uy, ux *Field, dt float64, b Boundary) {
	rows, cols := dst.rows, dst.cols
	maxY, maxX := float64(rows-2), float64(cols-2)
	forRows(rows, func(y int) {
		for x := 1; x < cols-1; x++ {
			i := y*cols + x
			py := float64(y) - dt*uy.data[i]
			px := float64(x) - dt*ux.data[i]
			if math.IsNaN(py) || math.IsNaN(px) {
				py, px = float64(y), float64(x)
			}
			py = math.Max(1, math.Min(maxY, py))
			px = math.Max(1, math.Min(maxX, px))
			dst.data[i] = src.bilinear(py, px)
		}
	})
	setBoundary(dst, b)
}

// dissipate divides every cell by 1 + dt*rate. dst may alias src.
func dissipate(dst, src *Field, rate, dt float64) {
	d := 1 + dt*rate
	for i, v := range src.data {
		dst.data[i] = v / d
	}
}

// maxDivergence is the largest absolute central difference divergence over
// the interior.
func maxDivergence(uy, ux *Field) float64 {
	cols := uy.cols
	m := 0.0
	for y := 1; y < uy.rows-1; y++ {
		for x := 1; x < cols-1; x++ {
			i := y*cols + x
			d := 0.5 * (uy.data[i+cols] - uy.data[i-cols] + ux.data[i+1] - ux.data[i-1])
			m = math.Max(m, math.Abs(d))
		}
	}
	return m
}

package viz

import (
	"math"

	"github.com/san-kum/particlesim/internal/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	axisX = r3.Vec{X: 1}
	axisY = r3.Vec{Y: 1}
)

// Camera is an orthographic view rotated by Yaw about Y then Pitch about X.
type Camera struct {
	Yaw, Pitch float64
	Zoom       float64
	centre     r3.Vec
	scale      float64
}

func NewCamera() *Camera {
	return &Camera{Zoom: 1, scale: 1}
}

func (c *Camera) Rotate(yaw, pitch float64) {
	c.Yaw += yaw
	c.Pitch += pitch
}

func (c *Camera) ZoomIn()  { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut() { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// Fit centres the bounding box of points and scales it to fill 90% of a
// w x h dot area.
func (c *Camera) Fit(points []r3.Vec, w, h int) {
	if len(points) == 0 {
		return
	}
	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		lo = r3.Vec{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y), Z: math.Min(lo.Z, p.Z)}
		hi = r3.Vec{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y), Z: math.Max(hi.Z, p.Z)}
	}
	c.centre = r3.Scale(0.5, r3.Add(lo, hi))
	extent := r3.Norm(r3.Sub(hi, lo))
	if extent == 0 {
		extent = 1
	}
	c.scale = 0.9 * float64(min(w, h)) / extent
}

// Project maps p to dot coordinates on a w x h area. ok is false for points
// that land outside it.
func (c *Camera) Project(p r3.Vec, w, h int) (x, y int, ok bool) {
	q := r3.Sub(p, c.centre)
	q = r3.Rotate(q, c.Yaw, axisY)
	q = r3.Rotate(q, c.Pitch, axisX)
	s := c.scale * c.Zoom
	x = w/2 + int(math.Round(q.X*s))
	y = h/2 - int(math.Round(q.Y*s))
	return x, y, x >= 0 && x < w && y >= 0 && y < h
}

// DrawParticles draws every spring as a line and every particle as a dot.
// Springs with an endpoint off screen are skipped.
func DrawParticles(cv *Canvas, cam *Camera, positions []r3.Vec, springs []physics.Spring) {
	w, h := cv.DotWidth(), cv.DotHeight()
	for _, s := range springs {
		if s.Start >= len(positions) || s.End >= len(positions) {
			continue
		}
		x0, y0, ok0 := cam.Project(positions[s.Start], w, h)
		x1, y1, ok1 := cam.Project(positions[s.End], w, h)
		if ok0 && ok1 {
			cv.Line(x0, y0, x1, y1)
		}
	}
	for _, p := range positions {
		if x, y, ok := cam.Project(p, w, h); ok {
			cv.Set(x, y)
		}
	}
}

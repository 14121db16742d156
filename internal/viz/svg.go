package viz

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/particlesim/internal/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

// WriteFrameSVG draws one particle frame as vector SVG: springs as lines
// and particles as dots, projected through cam onto a width x height image.
func WriteFrameSVG(w io.Writer, cam *Camera, positions []r3.Vec, springs []physics.Spring, width, height int) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g stroke="#00a8cc" stroke-width="1">
`, width, height, width, height)

	for _, s := range springs {
		if s.Start >= len(positions) || s.End >= len(positions) {
			continue
		}
		x0, y0, ok0 := cam.Project(positions[s.Start], width, height)
		x1, y1, ok1 := cam.Project(positions[s.End], width, height)
		if ok0 && ok1 {
			fmt.Fprintf(&sb, "<line x1=\"%d\" y1=\"%d\" x2=\"%d\" y2=\"%d\"/>\n", x0, y0, x1, y1)
		}
	}
	sb.WriteString("</g>\n<g fill=\"#ffd700\">\n")
	for _, p := range positions {
		if x, y, ok := cam.Project(p, width, height); ok {
			fmt.Fprintf(&sb, "<circle cx=\"%d\" cy=\"%d\" r=\"2\"/>\n", x, y)
		}
	}
	sb.WriteString("</g>\n</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/particlesim/internal/dynamo"
	"gonum.org/v1/gonum/stat"
)

// Separation is the state-space distance between two runs frame by frame.
// Both runs must record the same number of frames of equally sized states.
func Separation(a, b []dynamo.State) ([]float64, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("%w: %d frames against %d", dynamo.ErrDimensionMismatch, len(a), len(b))
	}
	out := make([]float64, len(a))
	for i := range a {
		if a[i].Len() != b[i].Len() {
			return nil, fmt.Errorf("%w: frame %d has %d and %d particles",
				dynamo.ErrDimensionMismatch, i, a[i].Len(), b[i].Len())
		}
		out[i] = a[i].Sub(b[i]).Norm()
	}
	return out, nil
}

// SeparationRate fits log(separation) against time by least squares and
// returns the slope. A positive rate means nearby runs diverge
// exponentially, as for a finite-time Lyapunov exponent. Frames with zero
// separation are skipped.
func SeparationRate(separation, times []float64) (float64, error) {
	if len(separation) != len(times) {
		return 0, fmt.Errorf("%w: %d separations for %d times", ErrTooShort, len(separation), len(times))
	}
	var xs, ys []float64
	for i, d := range separation {
		if d > 0 && !math.IsInf(d, 0) {
			xs = append(xs, times[i])
			ys = append(ys, math.Log(d))
		}
	}
	if len(xs) < 2 {
		return 0, fmt.Errorf("%w: %d usable frames", ErrTooShort, len(xs))
	}
	_, slope := stat.LinearRegression(xs, ys, nil, false)
	return slope, nil
}

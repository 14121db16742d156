package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Period estimates the oscillation period of samples taken at times as the
// mean spacing of upward crossings of the series mean. Crossing times are
// interpolated linearly between samples.
func Period(samples, times []float64) (float64, error) {
	if len(samples) != len(times) {
		return 0, fmt.Errorf("%w: %d samples for %d times", ErrTooShort, len(samples), len(times))
	}
	if len(samples) < 3 {
		return 0, fmt.Errorf("%w: need at least 3 samples, got %d", ErrTooShort, len(samples))
	}

	mean := stat.Mean(samples, nil)
	var crossings []float64
	for i := 1; i < len(samples); i++ {
		prev, curr := samples[i-1]-mean, samples[i]-mean
		if prev < 0 && curr >= 0 {
			frac := -prev / (curr - prev)
			crossings = append(crossings, times[i-1]+frac*(times[i]-times[i-1]))
		}
	}
	if len(crossings) < 2 {
		return 0, fmt.Errorf("%w: %d mean crossings", ErrTooShort, len(crossings))
	}
	return (crossings[len(crossings)-1] - crossings[0]) / float64(len(crossings)-1), nil
}

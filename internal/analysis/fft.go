package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"
)

// PowerSpectrum returns the magnitude of the first len(data)/2+1 frequency
// bins of data with its mean removed.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	mean := stat.Mean(data, nil)
	centred := make([]float64, len(data))
	for i, v := range data {
		centred[i] = v - mean
	}

	spectrum := fft.FFTReal(centred)
	ps := make([]float64, len(spectrum)/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency is the frequency of the strongest non-constant bin, in
// cycles per unit time for samples taken at sampleRate. It is zero for
// series with no oscillation.
func DominantFrequency(data []float64, sampleRate float64) float64 {
	ps := PowerSpectrum(data)
	best, bestPower := 0, 0.0
	for k := 1; k < len(ps); k++ {
		if ps[k] > bestPower {
			best, bestPower = k, ps[k]
		}
	}
	if best == 0 {
		return 0
	}
	return float64(best) * sampleRate / float64(len(data))
}

// Package analysis extracts scalar series from recorded particle runs and
// characterises them.
//
//   - [Coordinate]: one coordinate of one particle over a run
//   - [PowerSpectrum], [DominantFrequency]: FFT based frequency estimates
//   - [Period]: mean interval between upward mean crossings
//   - [Separation], [SeparationRate]: divergence of two runs of the same system
//   - [NewPhasePortrait]: position against velocity along one axis
//
// A pendulum chain recorded at 60 frames per second:
//
//	ys, _ := analysis.Coordinate(result.States, 3, analysis.AxisY)
//	f := analysis.DominantFrequency(ys, 60)
package analysis

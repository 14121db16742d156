package metrics

import (
	"github.com/san-kum/particlesim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

// Stability is the fraction of frames in which every particle stays within
// threshold of the origin and the state is finite.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(x dynamo.State, t float64) {
	s.samples++
	if !x.IsValid() {
		s.violations++
		return
	}
	for _, p := range x.Positions {
		if r3.Norm(p) > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

package metrics

import (
	"math"

	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/physics"
)

// MaxStrain tracks the largest |l-L|/L over all springs and frames.
type MaxStrain struct {
	name    string
	springs []physics.Spring
	max     float64
}

func NewMaxStrain(springs []physics.Spring) *MaxStrain {
	return &MaxStrain{
		name:    "max_strain",
		springs: springs,
	}
}

func (m *MaxStrain) Name() string { return m.name }

func (m *MaxStrain) Observe(x dynamo.State, t float64) {
	for _, s := range m.springs {
		if s.Start >= x.Len() || s.End >= x.Len() {
			continue
		}
		strain := s.Strain(x.Positions[s.Start], x.Positions[s.End])
		if math.IsNaN(strain) || math.IsInf(strain, 0) {
			continue
		}
		m.max = math.Max(m.max, math.Abs(strain))
	}
}

func (m *MaxStrain) Value() float64 { return m.max }

func (m *MaxStrain) Reset() { m.max = 0 }

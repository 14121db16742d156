package physics

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// Rand is the random source wind draws from. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

const DefaultWindStrength = 50.0

// WindAxis blows through the cloth plane.
var WindAxis = r3.Vec{Z: 1}

// Wind applies a random per-particle force along Axis with magnitude in
// (-Strength, Strength].
type Wind struct {
	Strength float64
	Axis     r3.Vec
	rng      Rand
}

// NewWind returns wind along axis. A nil rng is replaced by a source seeded
// with 1 so runs stay reproducible.
func NewWind(strength float64, axis r3.Vec, rng Rand) *Wind {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Wind{Strength: strength, Axis: axis, rng: rng}
}

// NewSeededWind is NewWind with a math/rand source seeded by seed.
func NewSeededWind(strength float64, axis r3.Vec, seed int64) *Wind {
	return NewWind(strength, axis, rand.New(rand.NewSource(seed)))
}

// Force draws the next gust.
func (w *Wind) Force() r3.Vec {
	return r3.Scale(w.Strength-2*w.Strength*w.rng.Float64(), w.Axis)
}

package physics

import (
	"math"
	"testing"

	"github.com/san-kum/particlesim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

type fixedRand []float64

func (f *fixedRand) Float64() float64 {
	v := (*f)[0]
	*f = (*f)[1:]
	return v
}

func TestWindForce(t *testing.T) {
	src := fixedRand{0, 0.5, 0.75}
	w := NewWind(50, r3.Vec{Z: 1}, &src)

	for _, want := range []float64{50, 0, -25} {
		if got := w.Force(); got != (r3.Vec{Z: want}) {
			t.Errorf("Force() = %v, want Z=%v", got, want)
		}
	}
}

func TestSeededWindReproducible(t *testing.T) {
	a := NewSeededWind(DefaultWindStrength, r3.Vec{Z: 1}, 42)
	b := NewSeededWind(DefaultWindStrength, r3.Vec{Z: 1}, 42)
	for i := 0; i < 100; i++ {
		fa, fb := a.Force(), b.Force()
		if fa != fb {
			t.Fatalf("draw %d differs: %v vs %v", i, fa, fb)
		}
		if math.Abs(fa.Z) > DefaultWindStrength || fa.X != 0 || fa.Y != 0 {
			t.Fatalf("draw %d out of range: %v", i, fa)
		}
	}
}

func TestClothWindToggle(t *testing.T) {
	cloth, _ := NewCloth(ClothParams{Rows: 2, Cols: 2, Spacing: 1}, DefaultClothSpringParams())
	if cloth.WindEnabled() {
		t.Fatal("wind should start disabled")
	}
	if cloth.ToggleWind() {
		t.Error("toggle without a wind source should stay off")
	}

	cloth.SetWind(NewSeededWind(DefaultWindStrength, r3.Vec{Z: 1}, 1))
	if !cloth.WindEnabled() {
		t.Error("SetWind should enable wind")
	}

	x := cloth.InitialState()
	calm := func() dynamo.State {
		cloth.SetWind(nil)
		dx, _ := cloth.Derive(x, 0)
		return dx
	}()
	cloth.SetWind(NewSeededWind(DefaultWindStrength, r3.Vec{Z: 1}, 1))
	gusty, _ := cloth.Derive(x, 0)

	// only the free row feels the wind, and only along Z
	for i := 2; i < 4; i++ {
		if gusty.Velocities[i].X != calm.Velocities[i].X || gusty.Velocities[i].Y != calm.Velocities[i].Y {
			t.Errorf("particle %d: wind changed X/Y", i)
		}
	}

	if cloth.ToggleWind() {
		t.Error("ToggleWind should turn wind off")
	}
	if !cloth.ToggleWind() {
		t.Error("ToggleWind should turn wind back on")
	}
}

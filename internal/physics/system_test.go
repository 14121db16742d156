package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/integrators"
	"gonum.org/v1/gonum/spatial/r3"
)

func weightless() SpringParams {
	return SpringParams{Mass: 1, Stiffness: 3, RestLength: 1}
}

func TestNewSpringSystemErrors(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		springs []Spring
		params  SpringParams
		fixed   []int
		want    error
	}{
		{"no particles", 0, nil, DefaultSpringParams(), nil, dynamo.ErrParameterBounds},
		{"zero mass", 2, nil, SpringParams{}, nil, dynamo.ErrParameterBounds},
		{"negative drag", 2, nil, SpringParams{Mass: 1, Drag: -1}, nil, dynamo.ErrParameterBounds},
		{"bad spring", 2, []Spring{{1, 1, 0, 2}}, DefaultSpringParams(), nil, ErrSpringIndex},
		{"bad fixed", 2, nil, DefaultSpringParams(), []int{2}, ErrFixedPointIndex},
		{"negative fixed", 2, nil, DefaultSpringParams(), []int{-1}, ErrFixedPointIndex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSpringSystem(tt.n, tt.springs, tt.params, tt.fixed)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSpringSystemNetForceZero(t *testing.T) {
	springs := []Spring{{Stiffness: 3, RestLength: 1, Start: 0, End: 1}}
	ss, err := NewSpringSystem(2, springs, weightless(), nil)
	if err != nil {
		t.Fatal(err)
	}

	x := dynamo.NewState(2)
	x.Positions[0] = r3.Vec{X: 0.2, Y: -0.1, Z: 0.3}
	x.Positions[1] = r3.Vec{X: 1.7, Y: 0.4, Z: -0.2}

	forces, err := ss.Forces(x)
	if err != nil {
		t.Fatal(err)
	}
	if sum := r3.Norm(r3.Add(forces[0], forces[1])); sum > 1e-12 {
		t.Errorf("net spring force = %v, want 0", sum)
	}
}

func TestSpringSystemDimensionMismatch(t *testing.T) {
	ss, _ := NewSpringSystem(3, nil, DefaultSpringParams(), nil)
	_, err := ss.Derive(dynamo.NewState(2), 0)
	if !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("err = %v, want ErrDimensionMismatch", err)
	}
}

func TestSpringSystemCoincident(t *testing.T) {
	ss, _ := NewSpringSystem(2, Chain(2, 1, 1), DefaultSpringParams(), nil)
	x := dynamo.NewState(2)
	_, err := ss.Derive(x, 0)
	if !errors.Is(err, ErrCoincidentEndpoints) {
		t.Errorf("err = %v, want ErrCoincidentEndpoints", err)
	}
}

func TestFixedPointsHaveZeroDerivative(t *testing.T) {
	cloth, err := NewCloth(ClothParams{Rows: 3, Cols: 4, Spacing: 1}, DefaultClothSpringParams())
	if err != nil {
		t.Fatal(err)
	}
	cloth.SetWind(NewSeededWind(DefaultWindStrength, r3.Vec{Z: 1}, 7))

	x := cloth.InitialState()
	for i := range x.Velocities {
		x.Velocities[i] = r3.Vec{X: 1, Y: 2, Z: 3}
	}

	dx, err := cloth.Derive(x, 0)
	if err != nil {
		t.Fatal(err)
	}
	for _, i := range cloth.FixedPoints() {
		if dx.Positions[i] != (r3.Vec{}) || dx.Velocities[i] != (r3.Vec{}) {
			t.Errorf("fixed particle %d has derivative %v / %v", i, dx.Positions[i], dx.Velocities[i])
		}
	}
	if got := len(cloth.FixedPoints()); got != 4 {
		t.Errorf("fixed points = %d, want 4", got)
	}
	free := cloth.Index(1, 0)
	if dx.Positions[free] != x.Velocities[free] {
		t.Errorf("free particle position slot = %v, want its velocity", dx.Positions[free])
	}
}

func TestPendulumEulerStep(t *testing.T) {
	const (
		k    = 10.0
		rest = 0.3
		dt   = 0.05
		g    = 9.81
	)
	p, err := NewPendulum(DefaultPendulumPositions(), DefaultSpringParams())
	if err != nil {
		t.Fatal(err)
	}
	x0 := p.InitialState()

	got, err := integrators.NewEuler().Step(p, x0, 0, dt)
	if err != nil {
		t.Fatal(err)
	}

	pos := DefaultPendulumPositions()
	hooke := func(a, b r3.Vec) r3.Vec {
		d := r3.Sub(a, b)
		l := math.Sqrt(d.X*d.X + d.Y*d.Y + d.Z*d.Z)
		return r3.Scale(-k*(l-rest)/l, d)
	}
	force := make([]r3.Vec, 4)
	for i := range force {
		force[i] = r3.Vec{Y: -g}
	}
	for i := 0; i < 3; i++ {
		f := hooke(pos[i], pos[i+1])
		force[i] = r3.Add(force[i], f)
		force[i+1] = r3.Sub(force[i+1], f)
	}

	want := dynamo.NewState(4)
	copy(want.Positions, pos)
	for i := 1; i < 4; i++ {
		want.Velocities[i] = r3.Scale(dt, force[i])
	}

	approx := cmp.Comparer(func(a, b float64) bool { return math.Abs(a-b) < 1e-12 })
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("Euler step mismatch (-want +got):\n%s", diff)
	}
	if got.Positions[0] != x0.Positions[0] || got.Velocities[0] != (r3.Vec{}) {
		t.Errorf("fixed particle moved to %v", got.Positions[0])
	}
}

func TestPendulumTooShort(t *testing.T) {
	_, err := NewPendulum([]r3.Vec{{}}, DefaultSpringParams())
	if !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("err = %v, want ErrParameterBounds", err)
	}
}

func TestSpringSystemEnergy(t *testing.T) {
	params := SpringParams{Mass: 2, Stiffness: 4, RestLength: 1, Gravity: r3.Vec{Y: -10}}
	ss, _ := NewSpringSystem(2, Chain(2, params.Stiffness, params.RestLength), params, nil)

	x := dynamo.NewState(2)
	x.Positions[0] = r3.Vec{Y: 1}
	x.Positions[1] = r3.Vec{X: 1.5, Y: 1}
	x.Velocities[1] = r3.Vec{Z: 3}

	// kinetic 0.5*2*9, potential 2*10*1 twice, elastic 0.5*4*0.25
	want := 9.0 + 40.0 + 0.5
	if got := ss.Energy(x); math.Abs(got-want) > 1e-12 {
		t.Errorf("Energy = %v, want %v", got, want)
	}
}

func TestDeriveDeterministic(t *testing.T) {
	p, _ := NewPendulum(DefaultPendulumPositions(), DefaultSpringParams())
	x := p.InitialState()
	a, _ := p.Derive(x, 0)
	b, _ := p.Derive(x, 0)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("Derive not deterministic:\n%s", diff)
	}
}

func TestLargeSystemParallelMatchesSerial(t *testing.T) {
	layout := ClothParams{Rows: 30, Cols: 30, Spacing: 0.5}
	cloth, err := NewCloth(layout, DefaultClothSpringParams())
	if err != nil {
		t.Fatal(err)
	}
	x := cloth.InitialState()
	for i := range x.Positions {
		x.Positions[i].Z += 0.01 * float64(i%7)
	}

	dx, err := cloth.Derive(x, 0)
	if err != nil {
		t.Fatal(err)
	}

	forces, _ := cloth.Forces(x)
	for i := range dx.Velocities {
		if cloth.IsFixed(i) {
			continue
		}
		want := r3.Scale(1/cloth.Params().Mass, forces[i])
		if dx.Velocities[i] != want {
			t.Fatalf("particle %d: %v != %v", i, dx.Velocities[i], want)
		}
	}
}

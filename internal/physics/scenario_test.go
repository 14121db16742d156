package physics

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/integrators"
	"gonum.org/v1/gonum/spatial/r3"
)

func advance(sys dynamo.System, integ dynamo.Integrator, x dynamo.State, steps int, dt float64) dynamo.State {
	for i := 0; i < steps; i++ {
		var err error
		x, err = integ.Step(sys, x, float64(i)*dt, dt)
		Expect(err).NotTo(HaveOccurred())
	}
	return x
}

var _ = Describe("Pendulum chain", func() {
	var (
		pendulum *Pendulum
		x0       dynamo.State
	)

	BeforeEach(func() {
		var err error
		pendulum, err = NewPendulum(DefaultPendulumPositions(), DefaultSpringParams())
		Expect(err).NotTo(HaveOccurred())
		x0 = pendulum.InitialState()
	})

	It("keeps the anchor in place under every integrator", func() {
		for _, kind := range integrators.Kinds() {
			integ, err := integrators.New(kind)
			Expect(err).NotTo(HaveOccurred())

			x := advance(pendulum, integ, x0, 200, 0.005)
			Expect(x.Positions[0]).To(Equal(x0.Positions[0]), kind.String())
			Expect(x.Velocities[0]).To(Equal(r3.Vec{}), kind.String())
			Expect(x.IsValid()).To(BeTrue())
		}
	})

	It("sags below its starting height under gravity", func() {
		integ := integrators.NewRK4()
		x := advance(pendulum, integ, x0, 400, 0.005)
		Expect(x.Positions[3].Y).To(BeNumerically("<", x0.Positions[3].Y))
	})

	It("loses energy through drag", func() {
		integ := integrators.NewRK4()
		e0 := pendulum.Energy(x0)
		x := advance(pendulum, integ, x0, 2000, 0.005)
		Expect(pendulum.Energy(x)).To(BeNumerically("<", e0))
	})
})

var _ = Describe("Single spring oscillator", func() {
	const amplitude = 0.1

	build := func() (*SpringSystem, dynamo.State) {
		params := SpringParams{Mass: 1, Stiffness: 1, RestLength: 1}
		ss, err := NewSpringSystem(2, Chain(2, 1, 1), params, []int{0})
		Expect(err).NotTo(HaveOccurred())
		x := dynamo.NewState(2)
		x.Positions[1] = r3.Vec{X: 1 + amplitude}
		return ss, x
	}

	errorAt := func(kind integrators.Kind, dt float64) float64 {
		ss, x := build()
		integ, _ := integrators.New(kind)
		steps := int(math.Round(1 / dt))
		x = advance(ss, integ, x, steps, dt)
		t := float64(steps) * dt
		want := 1 + amplitude*math.Cos(t)
		return math.Abs(x.Positions[1].X - want)
	}

	DescribeTable("converges at the expected order",
		func(kind integrators.Kind, dt, lo, hi float64) {
			ratio := errorAt(kind, dt) / errorAt(kind, dt/2)
			Expect(ratio).To(BeNumerically(">", lo))
			Expect(ratio).To(BeNumerically("<", hi))
		},
		Entry("euler", integrators.KindEuler, 0.02, 1.6, 2.4),
		Entry("trapezoidal", integrators.KindTrapezoidal, 0.02, 3.0, 5.0),
		Entry("rk4", integrators.KindRK4, 0.1, 12.0, 20.0),
	)

	It("orders the methods by accuracy", func() {
		euler := errorAt(integrators.KindEuler, 0.01)
		trap := errorAt(integrators.KindTrapezoidal, 0.01)
		rk4 := errorAt(integrators.KindRK4, 0.01)
		Expect(trap).To(BeNumerically("<", euler))
		Expect(rk4).To(BeNumerically("<", trap))
	})
})

var _ = Describe("Cloth", func() {
	var cloth *Cloth

	BeforeEach(func() {
		var err error
		cloth, err = NewCloth(ClothParams{Rows: 4, Cols: 4, Spacing: 0.5}, DefaultClothSpringParams())
		Expect(err).NotTo(HaveOccurred())
	})

	It("pins the whole first row", func() {
		Expect(cloth.FixedPoints()).To(Equal([]int{0, 1, 2, 3}))
		x := advance(cloth, integrators.NewTrapezoidal(), cloth.InitialState(), 100, 0.005)
		start := cloth.InitialState()
		for c := 0; c < 4; c++ {
			Expect(x.Positions[c]).To(Equal(start.Positions[c]))
		}
	})

	It("replays identical gusts for the same seed", func() {
		run := func() dynamo.State {
			cloth.SetWind(NewSeededWind(DefaultWindStrength, r3.Vec{Z: 1}, 99))
			return advance(cloth, integrators.NewEuler(), cloth.InitialState(), 50, 0.002)
		}
		Expect(run()).To(Equal(run()))
	})

	It("resets to the initial layout", func() {
		x := advance(cloth, integrators.NewEuler(), cloth.InitialState(), 20, 0.005)
		Expect(x).NotTo(Equal(cloth.InitialState()))
		Expect(cloth.InitialState().Positions[cloth.Index(3, 2)]).To(Equal(r3.Vec{X: 1, Y: -1.5, Z: 0.5}))
	})
})

package fluid

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// ringViolation returns a description of the first ring cell of f that does
// not follow bound, or "".
func ringViolation(f *Field, b Boundary) string {
	rows, cols := f.Rows(), f.Cols()
	lr, tb := 1.0, 1.0
	switch b {
	case BoundaryVertical:
		tb = -1
	case BoundaryHorizontal:
		lr = -1
	}
	for y := 1; y < rows-1; y++ {
		if f.At(y, 0) != lr*f.At(y, 1) || f.At(y, cols-1) != lr*f.At(y, cols-2) {
			return fmt.Sprintf("%s row %d", b, y)
		}
	}
	for x := 1; x < cols-1; x++ {
		if f.At(0, x) != tb*f.At(1, x) || f.At(rows-1, x) != tb*f.At(rows-2, x) {
			return fmt.Sprintf("%s column %d", b, x)
		}
	}
	corners := [][4]int{
		{0, 0, 0, 1}, {0, cols - 1, 0, cols - 2}, {rows - 1, 0, rows - 1, 1}, {rows - 1, cols - 1, rows - 1, cols - 2},
	}
	vert := [][2]int{{1, 0}, {1, cols - 1}, {rows - 2, 0}, {rows - 2, cols - 1}}
	for i, c := range corners {
		want := 0.5 * (f.At(c[2], c[3]) + f.At(vert[i][0], vert[i][1]))
		if f.At(c[0], c[1]) != want {
			return fmt.Sprintf("%s corner (%d, %d)", b, c[0], c[1])
		}
	}
	return ""
}

var _ = Describe("Fluid", func() {
	var f *Fluid

	BeforeEach(func() {
		var err error
		f, err = New(DefaultParams())
		Expect(err).NotTo(HaveOccurred())
	})

	Context("30x30 grid with a single injection", func() {
		DescribeTable("keeps the boundary ring and non-negative density for 24 steps",
			func(y, x int) {
				Expect(f.AddForceY(y, x, 1)).To(Succeed())
				Expect(f.AddForceX(y, x, 1)).To(Succeed())
				Expect(f.AddSource(y, x, 1)).To(Succeed())

				for i := 0; i < 24; i++ {
					f.Step()
					Expect(ringViolation(f.VelocityY(), BoundaryVertical)).To(BeEmpty(), "step %d", i)
					Expect(ringViolation(f.VelocityX(), BoundaryHorizontal)).To(BeEmpty(), "step %d", i)
					Expect(ringViolation(f.DensityField(), BoundaryScalar)).To(BeEmpty(), "step %d", i)
					Expect(f.DensityField().Min()).To(BeNumerically(">=", 0), "step %d", i)
				}
				Expect(f.Steps()).To(Equal(24))
			},
			Entry("at the corner cell", 0, 0),
			Entry("at an interior cell", 15, 15),
			Entry("next to the edge", 1, 28),
		)

		It("ignores injection on the ring", func() {
			Expect(f.AddSource(0, 0, 1)).To(Succeed())
			Expect(f.AddForceY(29, 4, 1)).To(Succeed())
			Expect(f.TotalDensity()).To(BeZero())
			Expect(f.Uy(29, 4)).To(BeZero())
		})

		It("spreads and decays an interior source", func() {
			Expect(f.AddSource(15, 15, 10)).To(Succeed())
			Expect(f.AddForceY(15, 15, 5)).To(Succeed())
			total := f.TotalDensity()
			for i := 0; i < 24; i++ {
				f.Step()
				next := f.TotalDensity()
				Expect(next).To(BeNumerically("<", total))
				total = next
			}
			Expect(f.Density(15, 15)).To(BeNumerically("<", 10))
			Expect(f.Density(15, 16)).To(BeNumerically(">", 0))
		})
	})

	It("rejects injection outside the grid", func() {
		Expect(f.AddSource(30, 0, 1)).To(MatchError(ErrOutOfRange))
		Expect(f.AddForceX(-1, 3, 1)).To(MatchError(ErrOutOfRange))
		Expect(f.AddForceY(3, 31, 1)).To(MatchError(ErrOutOfRange))
	})

	It("rejects grids too small for the boundary ring", func() {
		p := DefaultParams()
		p.Rows = 2
		_, err := New(p)
		Expect(err).To(MatchError(ErrGridTooSmall))
	})

	It("stays at rest with no input", func() {
		f.StepN(10)
		Expect(f.TotalDensity()).To(BeZero())
		Expect(f.MaxDivergence()).To(BeZero())
	})

	It("restores a snapshot and replays identically", func() {
		Expect(f.AddSource(10, 12, 3)).To(Succeed())
		Expect(f.AddForceX(10, 12, 2)).To(Succeed())
		f.StepN(5)
		snap := f.Snapshot()

		f.StepN(5)
		want := f.Snapshot()

		Expect(f.Restore(snap)).To(Succeed())
		Expect(f.Steps()).To(Equal(5))
		f.StepN(5)
		Expect(f.Snapshot()).To(Equal(want))
	})

	It("refuses a snapshot of another size", func() {
		p := DefaultParams()
		p.Rows = 10
		other, err := New(p)
		Expect(err).NotTo(HaveOccurred())
		Expect(f.Restore(other.Snapshot())).To(MatchError(ErrSnapshotSize))
	})

	It("resets to empty fields", func() {
		Expect(f.AddSource(5, 5, 1)).To(Succeed())
		f.StepN(3)
		f.Reset()
		Expect(f.TotalDensity()).To(BeZero())
		Expect(f.Steps()).To(BeZero())
	})
})

var _ = Describe("Params", func() {
	DescribeTable("Validate",
		func(mutate func(*Params), want error) {
			p := DefaultParams()
			mutate(&p)
			if want == nil {
				Expect(p.Validate()).To(Succeed())
				return
			}
			Expect(p.Validate()).To(MatchError(want))
		},
		Entry("defaults", func(p *Params) {}, nil),
		Entry("minimum grid", func(p *Params) { p.Rows, p.Cols = 3, 3 }, nil),
		Entry("narrow grid", func(p *Params) { p.Cols = 2 }, ErrGridTooSmall),
		Entry("zero dt", func(p *Params) { p.Dt = 0 }, ErrInvalidParam),
		Entry("negative viscosity", func(p *Params) { p.Viscosity = -1 }, ErrInvalidParam),
		Entry("no iterations", func(p *Params) { p.Iterations = 0 }, ErrInvalidParam),
	)
})

var _ = Describe("View", func() {
	It("is satisfied by Fluid", func() {
		f, err := New(DefaultParams())
		Expect(err).NotTo(HaveOccurred())
		var v View = f
		Expect(v.Rows()).To(Equal(30))
		Expect(v.Cols()).To(Equal(30))
	})
})

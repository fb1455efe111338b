package boundary_test

import (
	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/rodsim/internal/boundary"
	"github.com/san-kum/rodsim/internal/rod"
)

var _ = Describe("OneEndFixed", func() {
	var (
		position mgl64.Vec3
		director mgl64.Mat3
		bc       *boundary.OneEndFixed
		r        *rod.Rod
	)

	BeforeEach(func() {
		position = mgl64.Vec3{0.25, -1, 4}
		director = rod.RotationMatrix(1.1, mgl64.Vec3{0, 1, 1})
		bc = boundary.NewOneEndFixed(position, director)
		r = scrambledRod(4)
	})

	DescribeTable("pins the first pose exactly at any time",
		func(t float64) {
			bc.ConstrainValues(r, t)

			Expect(r.Position[0]).To(Equal(position))
			Expect(r.Directors[0]).To(Equal(director))
		},
		Entry("t=0", 0.0),
		Entry("t=0.5", 0.5),
		Entry("t=1e9", 1e9),
	)

	It("is idempotent", func() {
		bc.ConstrainValues(r, 1)
		once := r.Clone()
		bc.ConstrainValues(r, 2)
		bc.ConstrainValues(r, 3)
		Expect(r).To(Equal(once))
	})

	It("touches nothing but the first node and element", func() {
		before := r.Clone()
		bc.ConstrainValues(r, 1)
		bc.ConstrainRates(r, 1)

		Expect(r.Position[1:]).To(Equal(before.Position[1:]))
		Expect(r.Velocity[1:]).To(Equal(before.Velocity[1:]))
		Expect(r.Directors[1:]).To(Equal(before.Directors[1:]))
		Expect(r.Omega[1:]).To(Equal(before.Omega[1:]))
	})

	It("zeroes the first rates", func() {
		bc.ConstrainRates(r, 0.3)
		Expect(r.Velocity[0]).To(Equal(mgl64.Vec3{}))
		Expect(r.Omega[0]).To(Equal(mgl64.Vec3{}))
	})

	It("captures the current pose when built from a rod", func() {
		p, d := r.Start()
		fromRod := boundary.NewOneEndFixedFromRod(r)

		r.Position[0] = mgl64.Vec3{100, 100, 100}
		r.Directors[0] = mgl64.Ident3()
		fromRod.ConstrainValues(r, 0)

		Expect(r.Position[0]).To(Equal(p))
		Expect(r.Directors[0]).To(Equal(d))
	})
})

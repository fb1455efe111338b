package boundary_test

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/rodsim/internal/boundary"
	"github.com/san-kum/rodsim/internal/rod"
)

var _ = Describe("HelicalBuckling", func() {
	var (
		r      *rod.Rod
		bc     *boundary.HelicalBuckling
		params boundary.Params
	)

	BeforeEach(func() {
		var err error
		r, err = rod.NewStraight(10, mgl64.Vec3{}, mgl64.Vec3{0, 0, 1}, mgl64.Vec3{1, 0, 0}, 10)
		Expect(err).NotTo(HaveOccurred())
		params = boundary.Params{TwistingTime: 2, Slack: 2, Rotations: 1}
	})

	JustBeforeEach(func() {
		var err error
		bc, err = boundary.NewHelicalBucklingFromRod(r, params)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("construction", func() {
		It("derives the drive from the initial ends", func() {
			expectVec(bc.Direction(), mgl64.Vec3{0, 0, 1})
			expectVec(bc.ShrinkVelocity(), mgl64.Vec3{0, 0, 0.5})
			expectVec(bc.AngularVelocity(), mgl64.Vec3{0, 0, math.Pi / 2})
			Expect(bc.TwistingTime()).To(Equal(2.0))

			start, end := bc.FinalPositions()
			expectVec(start, mgl64.Vec3{0, 0, 1})
			expectVec(end, mgl64.Vec3{0, 0, 9})
		})

		It("turns each end by half the rotations in opposite senses", func() {
			halfTurn := mgl64.Diag3(mgl64.Vec3{-1, -1, 1})
			start, end := bc.FinalDirectors()
			expectMat(start, halfTurn)
			expectMat(end, halfTurn)
		})

		Context("with one rotation and no slack", func() {
			BeforeEach(func() {
				params = boundary.Params{TwistingTime: 2, Slack: 0, Rotations: 1}
			})

			It("keeps the end positions", func() {
				start, end := bc.FinalPositions()
				expectVec(start, r.Position[0])
				expectVec(end, r.Position[r.NumNodes()-1])
			})
		})

		Context("with two rotations on a tilted frame", func() {
			BeforeEach(func() {
				params = boundary.Params{TwistingTime: 1, Slack: 0.5, Rotations: 2}
				tilted := rod.RotationMatrix(0.4, mgl64.Vec3{1, 1, 0})
				for i := range r.Directors {
					r.Directors[i] = tilted
				}
			})

			It("returns each frame to its initial orientation", func() {
				start, end := bc.FinalDirectors()
				expectMat(start, r.Directors[0])
				expectMat(end, r.Directors[r.NumElements()-1])
			})
		})
	})

	Describe("drive phase", func() {
		It("prescribes closing, counter-rotating end rates", func() {
			bc.ConstrainRates(r, 1)

			last, lastElem := r.NumNodes()-1, r.NumElements()-1
			Expect(r.Velocity[0]).To(Equal(bc.ShrinkVelocity()))
			Expect(r.Omega[0]).To(Equal(bc.AngularVelocity()))
			Expect(r.Velocity[last]).To(Equal(bc.ShrinkVelocity().Mul(-1)))
			Expect(r.Omega[lastElem]).To(Equal(bc.AngularVelocity().Mul(-1)))
			Expect(r.Omega[0].Len()).To(BeNumerically("~", math.Pi/2, eps))
		})

		It("leaves poses free to deform", func() {
			r.Position[0] = mgl64.Vec3{0.3, 0.1, 0.2}
			before := r.Clone()
			bc.ConstrainValues(r, 1)
			Expect(r).To(Equal(before))
		})

		It("leaves interior nodes alone", func() {
			before := r.Clone()
			bc.ConstrainRates(r, 0.5)
			Expect(r.Velocity[1 : r.NumNodes()-1]).To(Equal(before.Velocity[1 : r.NumNodes()-1]))
			Expect(r.Omega[1 : r.NumElements()-1]).To(Equal(before.Omega[1 : r.NumElements()-1]))
		})

		It("includes the twisting time itself", func() {
			Expect(bc.Phase(2)).To(Equal(boundary.Driving))
			bc.ConstrainRates(r, 2)
			Expect(r.Velocity[0]).To(Equal(bc.ShrinkVelocity()))
		})
	})

	Describe("locked phase", func() {
		DescribeTable("holds the final pose with zero rates",
			func(t float64) {
				Expect(bc.Phase(t)).To(Equal(boundary.Locked))

				bc.ConstrainValues(r, t)
				bc.ConstrainRates(r, t)

				last, lastElem := r.NumNodes()-1, r.NumElements()-1
				start, end := bc.FinalPositions()
				startDir, endDir := bc.FinalDirectors()

				Expect(r.Position[0]).To(Equal(start))
				Expect(r.Position[last]).To(Equal(end))
				Expect(r.Directors[0]).To(Equal(startDir))
				Expect(r.Directors[lastElem]).To(Equal(endDir))

				for _, v := range []mgl64.Vec3{r.Velocity[0], r.Velocity[last], r.Omega[0], r.Omega[lastElem]} {
					Expect(v).To(Equal(mgl64.Vec3{}))
				}
				expectVec(r.Position[0], mgl64.Vec3{0, 0, 1})
				expectVec(r.Position[last], mgl64.Vec3{0, 0, 9})
			},
			Entry("just past the switch", 2+1e-12),
			Entry("t=3", 3.0),
			Entry("long after", 1e4),
		)
	})

	Describe("invalid input", func() {
		DescribeTable("rejects non-positive twisting time",
			func(T float64) {
				_, err := boundary.NewHelicalBucklingFromRod(r, boundary.Params{TwistingTime: T, Slack: 1, Rotations: 1})
				Expect(err).To(MatchError(boundary.ErrNonPositiveDuration))
			},
			Entry("zero", 0.0),
			Entry("negative", -1.0),
			Entry("NaN", math.NaN()),
		)

		It("rejects coincident ends", func() {
			_, err := boundary.NewHelicalBuckling(
				mgl64.Vec3{1, 1, 1}, mgl64.Vec3{1, 1, 1},
				mgl64.Ident3(), mgl64.Ident3(),
				boundary.Params{TwistingTime: 1, Slack: 0, Rotations: 1},
			)
			Expect(err).To(MatchError(boundary.ErrCoincidentEnds))
		})
	})
})

var _ = Describe("Phase", func() {
	It("names both regimes", func() {
		Expect(boundary.Driving.String()).To(Equal("driving"))
		Expect(boundary.Locked.String()).To(Equal("locked"))
		Expect(boundary.Phase(7).String()).To(Equal("unknown"))
	})
})

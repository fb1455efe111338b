package boundary_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/rodsim/internal/boundary"
)

var _ = Describe("Free", func() {
	DescribeTable("leaves every entry untouched",
		func(t float64) {
			r := scrambledRod(5)
			before := r.Clone()

			var bc boundary.Condition = boundary.Free{}
			bc.ConstrainValues(r, t)
			bc.ConstrainRates(r, t)

			Expect(r).To(Equal(before))
		},
		Entry("at start", 0.0),
		Entry("mid run", 3.7),
		Entry("late", 1e6),
	)
})

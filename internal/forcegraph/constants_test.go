package forcegraph_test

import (
	"reflect"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/graphsim/internal/forcegraph"
)

var _ = Describe("Constants", func() {
	DescribeTable("are float64 with their documented values",
		func(value any, want float64) {
			Expect(reflect.TypeOf(value).Kind()).To(Equal(reflect.Float64))
			Expect(value).To(Equal(want))
		},
		Entry("OriginFactor", forcegraph.OriginFactor, 2e4),
		Entry("OriginEpsilon", forcegraph.OriginEpsilon, 7000.0),
		Entry("OriginWeakDistance", forcegraph.OriginWeakDistance, 100.0),
		Entry("RepulsionFactor", forcegraph.RepulsionFactor, -300.0),
		Entry("RepulsionEpsilon", forcegraph.RepulsionEpsilon, 2.0),
		Entry("EdgeFactor", forcegraph.EdgeFactor, 0.1),
		Entry("EdgeLength", forcegraph.EdgeLength, 10.0),
		Entry("VelocityDampening", forcegraph.VelocityDampening, 0.4),
		Entry("CrossGroupMass", forcegraph.CrossGroupMass, 1000.0),
		Entry("DefaultTheta", forcegraph.DefaultTheta, 0.5),
	)

	It("can size a float64 spacing without conversion", func() {
		spacing := forcegraph.EdgeLength
		Expect(spacing / 4).To(Equal(2.5))
	})
})

package forcegraph_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/graphsim/internal/forcegraph"
)

var _ = Describe("Node", func() {
	Describe("Update", func() {
		It("applies acceleration, moves and dampens velocity", func() {
			n := forcegraph.Node{
				Location:     r3.Vec{X: 1},
				Velocity:     r3.Vec{Y: 2},
				Acceleration: r3.Vec{X: 1, Y: 1},
			}
			n.Update()

			Expect(n.Location).To(Equal(r3.Vec{X: 2, Y: 3}))
			Expect(n.Velocity.X).To(BeNumerically("~", 0.4, 1e-12))
			Expect(n.Velocity.Y).To(BeNumerically("~", 1.2, 1e-12))
		})

		It("always resets acceleration to zero", func() {
			for _, locked := range []bool{false, true} {
				n := forcegraph.Node{Acceleration: r3.Vec{X: 5, Y: -3, Z: 9}, Locked: locked}
				n.Update()
				Expect(n.Acceleration).To(Equal(r3.Vec{}))
			}
		})

		It("keeps a locked node's location and velocity across repeated calls", func() {
			n := forcegraph.Node{
				Location: r3.Vec{X: 3, Y: 4, Z: 5},
				Velocity: r3.Vec{X: 1},
				Locked:   true,
			}
			for i := 0; i < 5; i++ {
				n.Acceleration = r3.Vec{X: 10, Y: 10, Z: 10}
				n.Update()
				Expect(n.Location).To(Equal(r3.Vec{X: 3, Y: 4, Z: 5}))
				Expect(n.Velocity).To(Equal(r3.Vec{X: 1}))
			}
		})
	})

	Describe("Mass and Radius", func() {
		It("floors an isolated node's mass at 1", func() {
			n := forcegraph.Node{}
			Expect(n.Mass()).To(Equal(1.0))
			Expect(n.Radius()).To(BeNumerically("~", 0.8, 1e-12))
		})

		It("counts connected nodes", func() {
			w := forcegraph.NewWorld(forcegraph.WithSeed(1))
			hub := w.Add(forcegraph.Node{})
			for i := 0; i < 8; i++ {
				leaf := w.Add(forcegraph.Node{})
				_, err := w.Connect(hub, leaf)
				Expect(err).NotTo(HaveOccurred())
			}
			n, ok := w.Node(hub)
			Expect(ok).To(BeTrue())
			Expect(n.Mass()).To(Equal(8.0))
			Expect(n.Radius()).To(BeNumerically("~", 1.6, 1e-12))
		})
	})

	It("computes the radius for a mass", func() {
		Expect(forcegraph.RadiusForMass(1000)).To(BeNumerically("~", 8, 1e-9))
	})
})

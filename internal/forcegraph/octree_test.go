package forcegraph_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/graphsim/internal/forcegraph"
	"github.com/san-kum/graphsim/internal/vector"
)

// bruteForce sums exact pairwise repulsion on body i.
func bruteForce(locs []r3.Vec, masses []float64, i int) r3.Vec {
	var acc r3.Vec
	for j := range locs {
		if j == i {
			continue
		}
		delta := r3.Sub(locs[j], locs[i])
		d := r3.Norm(delta) + forcegraph.RepulsionEpsilon
		acc = r3.Add(acc, r3.Scale(forcegraph.RepulsionFactor*masses[i]*masses[j]/(d*d), r3.Unit(delta)))
	}
	return acc
}

var _ = Describe("Octree", func() {
	var dirs vector.Directions

	BeforeEach(func() {
		dirs = vector.NewDirections(11)
	})

	It("aggregates mass and center of mass", func() {
		tree := forcegraph.NewOctree(10, forcegraph.DefaultTheta, dirs)
		tree.Add(0, r3.Vec{X: -4}, 1)
		tree.Add(1, r3.Vec{X: 4}, 3)

		Expect(tree.Len()).To(Equal(2))
		Expect(tree.Mass()).To(Equal(4.0))
		Expect(tree.CenterOfMass().X).To(BeNumerically("~", 2, 1e-12))
		Expect(tree.HalfWidth()).To(Equal(10.0))
	})

	It("does not repel a node from itself", func() {
		tree := forcegraph.NewOctree(5, forcegraph.DefaultTheta, dirs)
		n := forcegraph.Node{Location: r3.Vec{X: 1, Y: 1, Z: 1}}
		tree.Add(0, n.Location, n.Mass())
		tree.Accelerate(0, &n)
		Expect(n.Acceleration).To(Equal(r3.Vec{}))
	})

	It("pushes two bodies apart with the documented force law", func() {
		tree := forcegraph.NewOctree(21, forcegraph.DefaultTheta, dirs)
		a := forcegraph.Node{Location: r3.Vec{X: -5}}
		b := forcegraph.Node{Location: r3.Vec{X: 5}}
		tree.Add(0, a.Location, 1)
		tree.Add(1, b.Location, 1)

		tree.Accelerate(0, &a)
		tree.Accelerate(1, &b)

		want := 300.0 / (12 * 12)
		Expect(a.Acceleration.X).To(BeNumerically("~", -want, 1e-12))
		Expect(b.Acceleration.X).To(BeNumerically("~", want, 1e-12))
	})

	It("adds to existing acceleration rather than overwriting it", func() {
		tree := forcegraph.NewOctree(21, forcegraph.DefaultTheta, dirs)
		a := forcegraph.Node{Location: r3.Vec{X: -5}, Acceleration: r3.Vec{Y: 7}}
		tree.Add(0, a.Location, 1)
		tree.Add(1, r3.Vec{X: 5}, 1)
		tree.Accelerate(0, &a)
		Expect(a.Acceleration.Y).To(Equal(7.0))
		Expect(a.Acceleration.X).To(BeNumerically("<", 0))
	})

	It("separates coincident bodies without NaN", func() {
		tree := forcegraph.NewOctree(0, forcegraph.DefaultTheta, dirs)
		nodes := make([]forcegraph.Node, 3)
		for i := range nodes {
			tree.Add(forcegraph.NodeID(i), r3.Vec{}, 1)
		}
		for i := range nodes {
			tree.Accelerate(forcegraph.NodeID(i), &nodes[i])
			Expect(vector.IsFinite(nodes[i].Acceleration)).To(BeTrue())
			// two neighbours at distance 0, each contributing 300/4 along a unit direction
			Expect(r3.Norm(nodes[i].Acceleration)).To(BeNumerically(">", 0))
			Expect(r3.Norm(nodes[i].Acceleration)).To(BeNumerically("<=", 150+1e-9))
		}
	})

	It("handles nearly coincident bodies without unbounded subdivision", func() {
		tree := forcegraph.NewOctree(1, forcegraph.DefaultTheta, dirs)
		tree.Add(0, r3.Vec{X: 0.5}, 1)
		tree.Add(1, r3.Vec{X: math.Nextafter(0.5, 1)}, 1)
		n := forcegraph.Node{Location: r3.Vec{X: 0.5}}
		tree.Accelerate(0, &n)
		Expect(vector.IsFinite(n.Acceleration)).To(BeTrue())
	})

	It("matches the exact sum when theta is zero", func() {
		rng := vector.NewSource(5)
		locs := make([]r3.Vec, 40)
		masses := make([]float64, len(locs))
		tree := forcegraph.NewOctree(210, 0, dirs)
		for i := range locs {
			locs[i] = r3.Scale(100, rng.InsideUnitSphere())
			masses[i] = float64(1 + i%4)
			tree.Add(forcegraph.NodeID(i), locs[i], masses[i])
		}
		for i := range locs {
			n := forcegraph.Node{Location: locs[i]}
			// Accelerate reads the node's own mass from its connectivity,
			// so only mass-1 bodies are compared here.
			if masses[i] != 1 {
				continue
			}
			tree.Accelerate(forcegraph.NodeID(i), &n)
			want := bruteForce(locs, masses, i)
			Expect(r3.Norm(r3.Sub(n.Acceleration, want))).To(BeNumerically("<", 1e-9))
		}
	})

	It("approximates the exact sum for a distant cluster", func() {
		rng := vector.NewSource(9)
		locs := make([]r3.Vec, 100)
		masses := make([]float64, len(locs))
		tree := forcegraph.NewOctree(2100, forcegraph.DefaultTheta, dirs)
		for i := range locs {
			locs[i] = r3.Add(r3.Vec{X: 1000}, r3.Scale(20, rng.InsideUnitSphere()))
			masses[i] = 1
			tree.Add(forcegraph.NodeID(i), locs[i], 1)
		}

		probe := forcegraph.NodeID(len(locs))
		n := forcegraph.Node{}
		tree.Accelerate(probe, &n)
		want := bruteForce(append(locs, r3.Vec{}), append(masses, 1), len(locs))

		Expect(want.X).To(BeNumerically("<", 0))
		Expect(r3.Norm(r3.Sub(n.Acceleration, want)) / r3.Norm(want)).To(BeNumerically("<", 0.02))
	})

	It("opens every cell that contains the query body, whatever theta", func() {
		locs := []r3.Vec{{X: -9, Y: -9, Z: -9}, {X: 9, Y: 9, Z: 9}, {X: 9.5, Y: 9, Z: 9}}
		masses := []float64{1, 1, 1}
		for _, theta := range []float64{0.5, 1, 2, 10} {
			tree := forcegraph.NewOctree(10, theta, dirs)
			for i, l := range locs {
				tree.Add(forcegraph.NodeID(i), l, masses[i])
			}
			n := forcegraph.Node{Location: locs[0]}
			tree.Accelerate(0, &n)

			want := bruteForce(locs, masses, 0)
			Expect(r3.Norm(r3.Sub(n.Acceleration, want))/r3.Norm(want)).To(BeNumerically("<", 0.02), "theta %g", theta)
		}
	})

	It("never lets a body repel itself through an enclosing cell", func() {
		tree := forcegraph.NewOctree(10, 100, dirs)
		tree.Add(0, r3.Vec{X: 9, Y: 9, Z: 9}, 1)
		tree.Add(1, r3.Vec{X: 9.5, Y: 9, Z: 9}, 1)
		n := forcegraph.Node{Location: r3.Vec{X: 9, Y: 9, Z: 9}}
		tree.Accelerate(0, &n)

		want := bruteForce([]r3.Vec{{X: 9, Y: 9, Z: 9}, {X: 9.5, Y: 9, Z: 9}}, []float64{1, 1}, 0)
		Expect(n.Acceleration.X).To(BeNumerically("~", want.X, 1e-12))
		Expect(n.Acceleration.Y).To(BeNumerically("~", 0, 1e-12))
	})
})

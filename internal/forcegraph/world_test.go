package forcegraph_test

import (
	"math"
	"sync"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/graphsim/internal/forcegraph"
	"github.com/san-kum/graphsim/internal/vector"
)

// forces runs one tick on a world whose nodes start at rest and returns the
// acceleration each node accumulated.
func forces(w *forcegraph.World) []r3.Vec {
	w.Update()
	snap := w.Snapshot()
	out := make([]r3.Vec, len(snap))
	for i, n := range snap {
		out[i] = n.Acceleration
	}
	return out
}

var _ = Describe("World", func() {
	var w *forcegraph.World

	BeforeEach(func() {
		w = forcegraph.NewWorld(forcegraph.WithSeed(42))
	})

	Describe("Connect", func() {
		It("records the link on both nodes", func() {
			ids := w.AddRange(make([]forcegraph.Node, 2))
			e, err := w.Connect(ids[0], ids[1])
			Expect(err).NotTo(HaveOccurred())
			Expect(e).To(Equal(forcegraph.Edge{A: ids[0], B: ids[1]}))

			a, _ := w.Node(ids[0])
			b, _ := w.Node(ids[1])
			Expect(a.IsConnectedTo(ids[1])).To(BeTrue())
			Expect(b.IsConnectedTo(ids[0])).To(BeTrue())
			Expect(w.EdgeCount()).To(Equal(1))
		})

		It("rejects self connections without changing anything", func() {
			id := w.Add(forcegraph.Node{})
			_, err := w.Connect(id, id)
			Expect(err).To(MatchError(forcegraph.ErrSelfConnection))
			Expect(w.EdgeCount()).To(BeZero())
			n, _ := w.Node(id)
			Expect(n.Degree()).To(BeZero())
		})

		It("rejects unknown nodes", func() {
			id := w.Add(forcegraph.Node{})
			_, err := w.Connect(id, 7)
			Expect(err).To(MatchError(forcegraph.ErrUnknownNode))
			_, err = w.Connect(-1, id)
			Expect(err).To(MatchError(forcegraph.ErrUnknownNode))
			Expect(w.EdgeCount()).To(BeZero())
		})

		It("returns the existing edge for an already connected pair", func() {
			ids := w.AddRange(make([]forcegraph.Node, 2))
			first, err := w.Connect(ids[0], ids[1])
			Expect(err).NotTo(HaveOccurred())
			again, err := w.Connect(ids[1], ids[0])
			Expect(err).NotTo(HaveOccurred())
			Expect(again).To(Equal(first))
			Expect(w.EdgeCount()).To(Equal(1))
		})

		It("appends duplicate edges when allowed but keeps connectivity a set", func() {
			w = forcegraph.NewWorld(forcegraph.WithSeed(1), forcegraph.WithDuplicateEdges(true))
			ids := w.AddRange(make([]forcegraph.Node, 2))
			for i := 0; i < 3; i++ {
				_, err := w.Connect(ids[0], ids[1])
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(w.EdgeCount()).To(Equal(3))
			n, _ := w.Node(ids[0])
			Expect(n.Mass()).To(Equal(1.0))
			Expect(n.Connected()).To(Equal([]forcegraph.NodeID{ids[1]}))
		})

		It("ignores connectivity carried on added nodes", func() {
			ids := w.AddRange(make([]forcegraph.Node, 2))
			_, err := w.Connect(ids[0], ids[1])
			Expect(err).NotTo(HaveOccurred())
			n, _ := w.Node(ids[0])
			id := w.Add(n)
			copied, _ := w.Node(id)
			Expect(copied.Degree()).To(BeZero())
		})
	})

	Describe("Update", func() {
		It("does nothing on an empty world", func() {
			w.Update()
			Expect(w.NodeCount()).To(BeZero())
			Expect(w.EdgeCount()).To(BeZero())
			Expect(w.Radius()).To(BeZero())
		})

		It("tracks the largest absolute coordinate as the radius", func() {
			w.AddRange([]forcegraph.Node{
				{Location: r3.Vec{X: 3, Y: -7, Z: 2}},
				{Location: r3.Vec{X: 1, Y: 1, Z: 1}},
			})
			w.Update()
			Expect(w.Radius()).To(Equal(7.0))
		})

		It("pushes two unconnected nodes apart", func() {
			w.AddRange([]forcegraph.Node{
				{Location: r3.Vec{X: -5}},
				{Location: r3.Vec{X: 5}},
			})
			acc := forces(w)
			Expect(acc[0].X).To(BeNumerically("<", 0))
			Expect(acc[1].X).To(BeNumerically(">", 0))
			Expect(acc[0].X).To(BeNumerically("~", -acc[1].X, 1e-12))
		})

		It("pushes a short spring apart", func() {
			ids := w.AddRange([]forcegraph.Node{
				{Location: r3.Vec{}},
				{Location: r3.Vec{X: 10}},
			})
			_, err := w.Connect(ids[0], ids[1])
			Expect(err).NotTo(HaveOccurred())

			acc := forces(w)
			Expect(acc[0].X).To(BeNumerically("<", 0))
			Expect(acc[1].X).To(BeNumerically(">", 0))
		})

		It("pulls a long spring together", func() {
			ids := w.AddRange([]forcegraph.Node{
				{Location: r3.Vec{}},
				{Location: r3.Vec{X: 200}},
			})
			_, err := w.Connect(ids[0], ids[1])
			Expect(err).NotTo(HaveOccurred())

			acc := forces(w)
			// spring 0.1*(200-11.6) toward the neighbour, repulsion ~0.007 away
			Expect(acc[0].X).To(BeNumerically("~", 18.84-300.0/(202*202), 1e-9))
			Expect(acc[1].X).To(BeNumerically("<", 0))
		})

		It("weakens springs across groups", func() {
			left := forcegraph.NewGroup("left", r3.Vec{})
			w = forcegraph.NewWorld(forcegraph.WithSeed(3), forcegraph.WithGroups(forcegraph.NewGroupTable(left)))
			ids := w.AddRange([]forcegraph.Node{
				{Location: r3.Vec{}, Group: left.ID()},
				{Location: r3.Vec{X: 200}},
			})
			_, err := w.Connect(ids[0], ids[1])
			Expect(err).NotTo(HaveOccurred())

			acc := forces(w)
			ideal := forcegraph.EdgeLength + forcegraph.RadiusForMass(forcegraph.CrossGroupMass) + forcegraph.RadiusForMass(1)
			want := forcegraph.EdgeFactor*(200-ideal)/forcegraph.CrossGroupMass - 300.0/(202*202)
			Expect(acc[0].X).To(BeNumerically("~", want, 1e-9))
		})

		It("attracts nodes toward the world origin", func() {
			w.Add(forcegraph.Node{Location: r3.Vec{X: 50}})
			acc := forces(w)
			want := forcegraph.OriginFactor * 0.5 / (50 + forcegraph.OriginEpsilon)
			Expect(acc[0].X).To(BeNumerically("~", -want, 1e-12))
			Expect(acc[0].Y).To(BeZero())
		})

		It("attracts grouped nodes toward their group origin", func() {
			g := forcegraph.NewGroup("east", r3.Vec{X: 100})
			w = forcegraph.NewWorld(forcegraph.WithSeed(3), forcegraph.WithGroups(forcegraph.NewGroupTable(g)))
			w.Add(forcegraph.Node{Location: r3.Vec{X: -1000}, Group: g.ID()})

			acc := forces(w)
			Expect(acc[0].X).To(BeNumerically("~", forcegraph.OriginFactor/(1100+forcegraph.OriginEpsilon), 1e-12))
		})

		It("scales group attraction per axis by the group factor", func() {
			g := forcegraph.NewGroup("flat", r3.Vec{})
			g.Factor = r3.Vec{X: 8, Y: 2, Z: 2}
			w = forcegraph.NewWorld(forcegraph.WithSeed(3), forcegraph.WithGroups(forcegraph.NewGroupTable(g)))
			w.Add(forcegraph.Node{Location: r3.Vec{X: -1000, Y: -1000}, Group: g.ID()})

			acc := forces(w)
			Expect(acc[0].X).To(BeNumerically(">", 0))
			Expect(acc[0].X / acc[0].Y).To(BeNumerically("~", 4, 1e-9))
		})

		It("follows group edits made between ticks", func() {
			g := forcegraph.NewGroup("moving", r3.Vec{X: 1000})
			table := forcegraph.NewGroupTable(g)
			w = forcegraph.NewWorld(forcegraph.WithSeed(3), forcegraph.WithGroups(table))
			id := w.Add(forcegraph.Node{Group: g.ID(), Locked: true})

			Expect(forces(w)[id].X).To(BeNumerically(">", 0))
			table.Update(g.ID(), func(g *forcegraph.Group) { g.Origin = r3.Vec{X: -1000} })
			Expect(forces(w)[id].X).To(BeNumerically("<", 0))
		})

		It("treats an unregistered group like no group for attraction", func() {
			w = forcegraph.NewWorld(forcegraph.WithSeed(3), forcegraph.WithGroups(forcegraph.NewGroupTable()))
			w.Add(forcegraph.Node{Location: r3.Vec{X: 50}, Group: uuid.New()})
			acc := forces(w)
			Expect(acc[0].X).To(BeNumerically("<", 0))
		})

		It("keeps locked nodes in place while they still repel", func() {
			ids := w.AddRange([]forcegraph.Node{
				{Location: r3.Vec{X: 1}, Locked: true},
				{Location: r3.Vec{X: 4}},
			})
			for i := 0; i < 20; i++ {
				w.Update()
			}
			locked, _ := w.Location(ids[0])
			free, _ := w.Location(ids[1])
			Expect(locked).To(Equal(r3.Vec{X: 1}))
			Expect(free.X).To(BeNumerically(">", 4))
		})

		It("separates coincident nodes without producing NaN", func() {
			w.AddRange(make([]forcegraph.Node, 5))
			for i := 0; i < 10; i++ {
				w.Update()
			}
			Expect(w.Valid()).To(BeTrue())
			Expect(w.Radius()).To(BeNumerically(">", 0))
		})

		It("is reproducible for a fixed seed", func() {
			build := func() *forcegraph.World {
				w := forcegraph.NewWorld(forcegraph.WithSeed(99), forcegraph.WithMinChunk(1))
				ids := w.AddRange(make([]forcegraph.Node, 6))
				for i := 1; i < len(ids); i++ {
					_, err := w.Connect(ids[i-1], ids[i])
					Expect(err).NotTo(HaveOccurred())
				}
				for i := 0; i < 30; i++ {
					w.Update()
				}
				return w
			}
			Expect(build().Snapshot()).To(Equal(build().Snapshot()))
		})

		It("is reproducible across parallel workers when nodes coincide", func() {
			build := func() []forcegraph.Node {
				w := forcegraph.NewWorld(forcegraph.WithSeed(5), forcegraph.WithMinChunk(1))
				ids := w.AddRange(make([]forcegraph.Node, 256))
				for i := 1; i < len(ids); i += 2 {
					_, err := w.Connect(ids[i-1], ids[i])
					Expect(err).NotTo(HaveOccurred())
				}
				for i := 0; i < 5; i++ {
					w.Update()
				}
				return w.Snapshot()
			}
			first := build()
			for i := 0; i < 3; i++ {
				Expect(build()).To(Equal(first))
			}
		})

		It("settles a chain into a finite, bounded layout", func() {
			w = forcegraph.NewWorld(forcegraph.WithSeed(8), forcegraph.WithMinChunk(4))
			src := vector.NewSource(8)
			nodes := make([]forcegraph.Node, 64)
			for i := range nodes {
				nodes[i].Location = r3.Add(src.InsideUnitSphere(), vector.One)
			}
			ids := w.AddRange(nodes)
			for i := 1; i < len(ids); i++ {
				_, err := w.Connect(ids[src.Intn(i)], ids[i])
				Expect(err).NotTo(HaveOccurred())
			}
			// spawned inside the unit sphere, the tree first overshoots to a
			// radius near 2000 before the origin pull draws it back
			for i := 0; i < 1000; i++ {
				w.Update()
			}
			Expect(w.Valid()).To(BeTrue())
			Expect(w.Radius()).To(BeNumerically("<", 1000))
			for id := range ids {
				v, _ := w.Velocity(forcegraph.NodeID(id))
				Expect(r3.Norm(v)).To(BeNumerically("<", 5))
			}
		})
	})

	Describe("host edits", func() {
		It("rejects edits to unknown nodes", func() {
			Expect(w.SetLocation(3, r3.Vec{})).To(MatchError(forcegraph.ErrUnknownNode))
			Expect(w.SetLocked(-1, true)).To(MatchError(forcegraph.ErrUnknownNode))
		})

		It("applies edits and batch edits", func() {
			ids := w.AddRange(make([]forcegraph.Node, 3))
			Expect(w.SetLocation(ids[0], r3.Vec{Z: 3})).To(Succeed())
			Expect(w.SetVelocity(ids[1], r3.Vec{Y: 1})).To(Succeed())
			g := uuid.New()
			w.Each(func(_ forcegraph.NodeID, n *forcegraph.Node) {
				n.Group = g
				n.Locked = true
			})

			loc, _ := w.Location(ids[0])
			vel, _ := w.Velocity(ids[1])
			Expect(loc).To(Equal(r3.Vec{Z: 3}))
			Expect(vel).To(Equal(r3.Vec{Y: 1}))
			for _, n := range w.Snapshot() {
				Expect(n.Group).To(Equal(g))
				Expect(n.Locked).To(BeTrue())
			}
		})

		It("reports non-finite state", func() {
			id := w.Add(forcegraph.Node{})
			Expect(w.Valid()).To(BeTrue())
			Expect(w.SetLocation(id, r3.Vec{X: math.NaN()})).To(Succeed())
			Expect(w.Valid()).To(BeFalse())
		})

		It("hands out copies", func() {
			ids := w.AddRange(make([]forcegraph.Node, 2))
			_, err := w.Connect(ids[0], ids[1])
			Expect(err).NotTo(HaveOccurred())

			n, _ := w.Node(ids[0])
			conn := n.Connected()
			conn[0] = 99
			again, _ := w.Node(ids[0])
			Expect(again.Connected()).To(Equal([]forcegraph.NodeID{ids[1]}))

			edges := w.Edges()
			edges[0].A = 5
			Expect(w.Edges()[0].A).To(Equal(ids[0]))
		})

		It("returns edge segments in edge order", func() {
			ids := w.AddRange([]forcegraph.Node{
				{Location: r3.Vec{X: 1}},
				{Location: r3.Vec{X: 2}},
				{Location: r3.Vec{X: 3}},
			})
			_, _ = w.Connect(ids[2], ids[0])
			_, _ = w.Connect(ids[0], ids[1])
			Expect(w.Segments()).To(Equal([][2]r3.Vec{
				{{X: 3}, {X: 1}},
				{{X: 1}, {X: 2}},
			}))
		})

		It("clears nodes and edges but not groups", func() {
			g := forcegraph.NewGroup("kept", r3.Vec{})
			table := forcegraph.NewGroupTable(g)
			w = forcegraph.NewWorld(forcegraph.WithGroups(table))
			ids := w.AddRange([]forcegraph.Node{{Location: r3.Vec{X: 9}}, {}})
			_, _ = w.Connect(ids[0], ids[1])
			w.Update()

			w.Clear()
			Expect(w.NodeCount()).To(BeZero())
			Expect(w.EdgeCount()).To(BeZero())
			Expect(w.Radius()).To(BeZero())
			Expect(w.Groups()).To(BeIdenticalTo(table))
			Expect(table.Len()).To(Equal(1))

			id := w.Add(forcegraph.Node{})
			Expect(id).To(Equal(forcegraph.NodeID(0)))
		})
	})

	It("is safe for concurrent edits and ticks", func() {
		w = forcegraph.NewWorld(forcegraph.WithSeed(5), forcegraph.WithMinChunk(2))
		var wg sync.WaitGroup
		for g := 0; g < 4; g++ {
			wg.Add(1)
			go func() {
				defer GinkgoRecover()
				defer wg.Done()
				for i := 0; i < 50; i++ {
					a := w.Add(forcegraph.Node{Location: r3.Vec{X: float64(i)}})
					b := w.Add(forcegraph.Node{Location: r3.Vec{Y: float64(i)}})
					_, err := w.Connect(a, b)
					Expect(err).NotTo(HaveOccurred())
					w.Update()
				}
			}()
		}
		wg.Wait()
		Expect(w.NodeCount()).To(Equal(400))
		Expect(w.EdgeCount()).To(Equal(200))
		Expect(w.Valid()).To(BeTrue())
	})
})

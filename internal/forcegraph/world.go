package forcegraph

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/graphsim/internal/dynamo"
	"github.com/san-kum/graphsim/internal/vector"
)

const defaultMinChunk = 64

// World holds the nodes and edges of a graph and advances their layout.
type World struct {
	mu        sync.Mutex
	nodes     []Node
	edges     []Edge
	edgeIndex map[[2]NodeID]int
	radius    float64

	groups          *GroupTable
	theta           float64
	allowDuplicates bool
	minChunk        int

	// fallback directions, re-derived every tick from ticks
	dirs   vector.Directions
	seeded bool
	ticks  uint64
}

func NewWorld(opts ...Option) *World {
	w := &World{
		edgeIndex: make(map[[2]NodeID]int),
		theta:     DefaultTheta,
		minChunk:  defaultMinChunk,
	}
	for _, opt := range opts {
		opt(w)
	}
	if !w.seeded {
		w.dirs = vector.NewDirections(time.Now().UnixNano())
	}
	return w
}

// Groups returns the table the world resolves group IDs against, or nil.
func (w *World) Groups() *GroupTable {
	return w.groups
}

// Add registers a node and returns its ID. Connectivity is not carried over;
// use Connect.
func (w *World) Add(n Node) NodeID {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.add(n)
}

// AddRange registers nodes in order and returns their IDs.
func (w *World) AddRange(nodes []Node) []NodeID {
	w.mu.Lock()
	defer w.mu.Unlock()
	ids := make([]NodeID, len(nodes))
	for i, n := range nodes {
		ids[i] = w.add(n)
	}
	return ids
}

func (w *World) add(n Node) NodeID {
	n.connected = nil
	w.nodes = append(w.nodes, n)
	return NodeID(len(w.nodes) - 1)
}

// Connect links a and b with a spring. Connecting a node to itself fails with
// ErrSelfConnection and leaves the world unchanged.
func (w *World) Connect(a, b NodeID) (Edge, error) {
	if a == b {
		return Edge{}, fmt.Errorf("connect %d: %w", a, ErrSelfConnection)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.valid(a) || !w.valid(b) {
		return Edge{}, fmt.Errorf("connect %d-%d: %w", a, b, ErrUnknownNode)
	}

	e := Edge{A: a, B: b}
	if i, ok := w.edgeIndex[e.key()]; ok && !w.allowDuplicates {
		return w.edges[i], nil
	}

	w.nodes[a].link(b)
	w.nodes[b].link(a)
	w.edges = append(w.edges, e)
	if _, ok := w.edgeIndex[e.key()]; !ok {
		w.edgeIndex[e.key()] = len(w.edges) - 1
	}
	return e, nil
}

func (w *World) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(w.nodes)
}

// Update advances the layout by one tick.
func (w *World) Update() {
	w.mu.Lock()
	defer w.mu.Unlock()

	groups := w.groups.snapshot()

	halfWidth := 0.0
	for i := range w.nodes {
		n := &w.nodes[i]
		n.Update()
		halfWidth = math.Max(halfWidth, vector.MaxAbs(n.Location))
	}
	w.radius = halfWidth

	w.ticks++
	dirs := w.dirs.Derive(w.ticks)

	tree := NewOctree(2.1*halfWidth, w.theta, dirs)
	for i := range w.nodes {
		n := &w.nodes[i]
		tree.Add(NodeID(i), n.Location, n.Mass())
	}

	dynamo.ParallelFor(len(w.nodes), w.minChunk, func(start, end int) {
		for i := start; i < end; i++ {
			w.accelerate(tree, NodeID(i), groups, dirs)
		}
	})
}

// accelerate gathers every force acting on node id. It writes only to that
// node's acceleration.
func (w *World) accelerate(tree *Octree, id NodeID, groups map[uuid.UUID]groupState, dirs vector.Directions) {
	n := &w.nodes[id]

	tree.Accelerate(id, n)

	origin, factor := vector.Zero, vector.One
	grouped := false
	if n.Group != uuid.Nil {
		if g, ok := groups[n.Group]; ok {
			origin, factor, grouped = g.origin, g.factor, true
		}
	}

	toOrigin := r3.Sub(origin, n.Location)
	if dist := r3.Norm(toOrigin); dist > 0 {
		coefficient := OriginFactor
		if dist < OriginWeakDistance {
			coefficient *= dist / OriginWeakDistance
		}
		acc := r3.Scale(coefficient/(dist+OriginEpsilon), vector.Unit(toOrigin, dirs, uint64(id), uint64(id)))
		if grouped {
			acc = vector.Mul(acc, factor)
		}
		n.Acceleration = r3.Add(n.Acceleration, acc)
	}

	for _, j := range n.connected {
		other := &w.nodes[j]
		displacement := r3.Sub(other.Location, n.Location)
		distance := r3.Norm(displacement)

		mass := n.Mass()
		if n.Group != other.Group {
			mass = CrossGroupMass
		}
		ideal := EdgeLength + RadiusForMass(mass) + other.Radius()

		spring := EdgeFactor * (distance - ideal) / mass
		n.Acceleration = r3.Add(n.Acceleration, r3.Scale(spring, vector.Unit(displacement, dirs, uint64(id), uint64(j))))
	}
}

// Clear removes every node and edge and resets the radius. The group table is
// left alone.
func (w *World) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nodes = nil
	w.edges = nil
	w.edgeIndex = make(map[[2]NodeID]int)
	w.radius = 0
}

func (w *World) NodeCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.nodes)
}

func (w *World) EdgeCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.edges)
}

// Radius is the largest absolute coordinate of any node after the last tick.
func (w *World) Radius() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.radius
}

// Node returns a copy of the node.
func (w *World) Node(id NodeID) (Node, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.valid(id) {
		return Node{}, false
	}
	return w.nodes[id].clone(), true
}

func (w *World) Location(id NodeID) (r3.Vec, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.valid(id) {
		return r3.Vec{}, false
	}
	return w.nodes[id].Location, true
}

func (w *World) Velocity(id NodeID) (r3.Vec, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.valid(id) {
		return r3.Vec{}, false
	}
	return w.nodes[id].Velocity, true
}

// Edges returns a copy of the edge list.
func (w *World) Edges() []Edge {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Edge, len(w.edges))
	copy(out, w.edges)
	return out
}

// Snapshot returns a copy of every node, indexed by NodeID.
func (w *World) Snapshot() []Node {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Node, len(w.nodes))
	for i := range w.nodes {
		out[i] = w.nodes[i].clone()
	}
	return out
}

// Segments returns the endpoint locations of every edge, in edge order.
func (w *World) Segments() [][2]r3.Vec {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([][2]r3.Vec, len(w.edges))
	for i, e := range w.edges {
		out[i] = [2]r3.Vec{w.nodes[e.A].Location, w.nodes[e.B].Location}
	}
	return out
}

// Valid reports whether every node's kinematics are finite.
func (w *World) Valid() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i := range w.nodes {
		n := &w.nodes[i]
		if !vector.IsFinite(n.Location) || !vector.IsFinite(n.Velocity) || !vector.IsFinite(n.Acceleration) {
			return false
		}
	}
	return true
}

func (w *World) SetLocation(id NodeID, v r3.Vec) error {
	return w.edit(id, func(n *Node) { n.Location = v })
}

func (w *World) SetVelocity(id NodeID, v r3.Vec) error {
	return w.edit(id, func(n *Node) { n.Velocity = v })
}

// SetGroup assigns the node to a group; uuid.Nil ungroups it.
func (w *World) SetGroup(id NodeID, group uuid.UUID) error {
	return w.edit(id, func(n *Node) { n.Group = group })
}

func (w *World) SetLocked(id NodeID, locked bool) error {
	return w.edit(id, func(n *Node) { n.Locked = locked })
}

func (w *World) edit(id NodeID, fn func(n *Node)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.valid(id) {
		return fmt.Errorf("node %d: %w", id, ErrUnknownNode)
	}
	fn(&w.nodes[id])
	return nil
}

// Each calls fn for every node with the world locked. fn may change a node's
// kinematics, group or lock state but must not call back into the world.
func (w *World) Each(fn func(id NodeID, n *Node)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i := range w.nodes {
		fn(NodeID(i), &w.nodes[i])
	}
}

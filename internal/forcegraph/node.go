package forcegraph

import (
	"math"
	"slices"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"
)

// NodeID addresses a node inside the World that holds it.
type NodeID int

// Node is a point mass in the graph.
type Node struct {
	Location     r3.Vec
	Velocity     r3.Vec
	Acceleration r3.Vec

	// Group is the ID of the node's group in the world's GroupTable, or
	// uuid.Nil for an ungrouped node.
	Group uuid.UUID

	// Locked freezes location and velocity. A locked node still repels and
	// attracts others.
	Locked bool

	connected []NodeID // sorted, no duplicates, never the node itself
}

// RadiusForMass returns the radius of a node with the given mass.
func RadiusForMass(mass float64) float64 {
	return 0.8 * math.Cbrt(mass)
}

// Mass is the number of connected nodes, at least 1.
func (n *Node) Mass() float64 {
	if len(n.connected) == 0 {
		return 1
	}
	return float64(len(n.connected))
}

func (n *Node) Radius() float64 {
	return RadiusForMass(n.Mass())
}

// IsConnectedTo reports whether other is in the node's connectivity set.
func (n *Node) IsConnectedTo(other NodeID) bool {
	_, ok := slices.BinarySearch(n.connected, other)
	return ok
}

// Connected returns a copy of the node's connectivity set in ascending order.
func (n *Node) Connected() []NodeID {
	return slices.Clone(n.connected)
}

// Degree is the size of the connectivity set.
func (n *Node) Degree() int {
	return len(n.connected)
}

// Update integrates one step: the accumulated acceleration is applied to
// velocity, velocity to location, and velocity is dampened. Acceleration is
// always cleared, even for locked nodes.
func (n *Node) Update() {
	if !n.Locked {
		n.Velocity = r3.Add(n.Velocity, n.Acceleration)
		n.Location = r3.Add(n.Location, n.Velocity)
		n.Velocity = r3.Scale(VelocityDampening, n.Velocity)
	}
	n.Acceleration = r3.Vec{}
}

// link adds other to the connectivity set. It reports whether the set changed.
func (n *Node) link(other NodeID) bool {
	i, ok := slices.BinarySearch(n.connected, other)
	if ok {
		return false
	}
	n.connected = slices.Insert(n.connected, i, other)
	return true
}

func (n Node) clone() Node {
	n.connected = slices.Clone(n.connected)
	return n
}

// Edge is an undirected spring between two distinct nodes.
type Edge struct {
	A, B NodeID
}

func (e Edge) key() [2]NodeID {
	if e.A < e.B {
		return [2]NodeID{e.A, e.B}
	}
	return [2]NodeID{e.B, e.A}
}

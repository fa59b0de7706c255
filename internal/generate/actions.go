package generate

import (
	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/graphsim/internal/forcegraph"
	"github.com/san-kum/graphsim/internal/vector"
)

// DefaultGroups returns three fresh groups spread along the x axis, each
// stretched eight to two along x.
func DefaultGroups() []*forcegraph.Group {
	specs := []struct {
		name   string
		origin r3.Vec
	}{
		{"Group1", r3.Vec{X: -100, Y: 50}},
		{"Group2", r3.Vec{Y: -50}},
		{"Group3", r3.Vec{X: 100, Y: 50}},
	}
	out := make([]*forcegraph.Group, len(specs))
	for i, s := range specs {
		g := forcegraph.NewGroup(s.name, s.origin)
		g.Factor = r3.Vec{X: 8, Y: 2, Z: 2}
		out[i] = g
	}
	return out
}

// AssignGroups puts every ungrouped node into one of groups chosen at random.
// Nodes that already have a group keep it. It returns the number of nodes
// assigned.
func AssignGroups(w *forcegraph.World, groups []*forcegraph.Group, src *vector.Source) int {
	if len(groups) == 0 {
		return 0
	}
	assigned := 0
	w.Each(func(_ forcegraph.NodeID, n *forcegraph.Node) {
		if n.Group != uuid.Nil {
			return
		}
		n.Group = groups[src.Intn(len(groups))].ID()
		assigned++
	})
	return assigned
}

// Ungroup clears the group of every node.
func Ungroup(w *forcegraph.World) {
	w.Each(func(_ forcegraph.NodeID, n *forcegraph.Node) {
		n.Group = uuid.Nil
	})
}

// LockRandom sets every node's lock state, locking each with probability
// fraction. It returns the number of locked nodes.
func LockRandom(w *forcegraph.World, fraction float64, src *vector.Source) int {
	locked := 0
	w.Each(func(_ forcegraph.NodeID, n *forcegraph.Node) {
		n.Locked = src.Float64() < fraction
		if n.Locked {
			locked++
		}
	})
	return locked
}

func UnlockAll(w *forcegraph.World) {
	w.Each(func(_ forcegraph.NodeID, n *forcegraph.Node) {
		n.Locked = false
	})
}

// Grow adds n nodes, each connected to an existing node picked at random. An
// empty or single-node world first gets a fresh anchor for each new node.
// New nodes spawn in the unit ball around (1, 1, 1).
func Grow(w *forcegraph.World, n int, src *vector.Source) error {
	for i := 0; i < n; i++ {
		var start forcegraph.NodeID
		if count := w.NodeCount(); count < 2 {
			start = w.Add(forcegraph.Node{Location: spawnLocation(src)})
		} else {
			start = forcegraph.NodeID(src.Intn(count - 1))
		}
		end := w.Add(forcegraph.Node{Location: spawnLocation(src)})
		if _, err := w.Connect(start, end); err != nil {
			return err
		}
	}
	return nil
}

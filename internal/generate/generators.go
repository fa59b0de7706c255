package generate

import (
	"github.com/san-kum/graphsim/internal/forcegraph"
	"github.com/san-kum/graphsim/internal/vector"
)

func addNodes(w *forcegraph.World, p Params, src *vector.Source) ([]forcegraph.NodeID, error) {
	locs, err := Place(p.Placement, p.Nodes, p.Seed, src)
	if err != nil {
		return nil, err
	}
	nodes := make([]forcegraph.Node, len(locs))
	for i, l := range locs {
		nodes[i].Location = l
	}
	return w.AddRange(nodes), nil
}

func connect(w *forcegraph.World, a, b forcegraph.NodeID) error {
	_, err := w.Connect(a, b)
	return err
}

// Tree links every node after the first to a random earlier node.
func Tree(w *forcegraph.World, p Params, src *vector.Source) error {
	ids, err := addNodes(w, p, src)
	if err != nil {
		return err
	}
	for i := 1; i < len(ids); i++ {
		if err := connect(w, ids[src.Intn(i)], ids[i]); err != nil {
			return err
		}
	}
	return nil
}

// Ring links the nodes into a single cycle.
func Ring(w *forcegraph.World, p Params, src *vector.Source) error {
	ids, err := addNodes(w, p, src)
	if err != nil {
		return err
	}
	if len(ids) < 2 {
		return nil
	}
	for i := 0; i < len(ids)-1; i++ {
		if err := connect(w, ids[i], ids[i+1]); err != nil {
			return err
		}
	}
	if len(ids) > 2 {
		return connect(w, ids[len(ids)-1], ids[0])
	}
	return nil
}

// Grid links the nodes as a 3D lattice, filled x first.
func Grid(w *forcegraph.World, p Params, src *vector.Source) error {
	ids, err := addNodes(w, p, src)
	if err != nil {
		return err
	}
	side := latticeSide(len(ids))
	for i := range ids {
		for _, step := range []int{1, side, side * side} {
			j := i + step
			if j >= len(ids) {
				continue
			}
			// +x neighbours must stay on the same row
			if step == 1 && (i+1)%side == 0 {
				continue
			}
			if step == side && (i/side)%side == side-1 {
				continue
			}
			if err := connect(w, ids[i], ids[j]); err != nil {
				return err
			}
		}
	}
	return nil
}

// Star links every node to the first.
func Star(w *forcegraph.World, p Params, src *vector.Source) error {
	ids, err := addNodes(w, p, src)
	if err != nil {
		return err
	}
	for i := 1; i < len(ids); i++ {
		if err := connect(w, ids[0], ids[i]); err != nil {
			return err
		}
	}
	return nil
}

// Random links each pair independently with p.Probability.
func Random(w *forcegraph.World, p Params, src *vector.Source) error {
	ids, err := addNodes(w, p, src)
	if err != nil {
		return err
	}
	for i := range ids {
		for j := i + 1; j < len(ids); j++ {
			if src.Float64() < p.Probability {
				if err := connect(w, ids[i], ids[j]); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Clusters splits the nodes round-robin into p.Clusters groups. Each cluster
// is a random spanning tree plus extra edges drawn with p.Probability, and
// the first nodes of consecutive clusters are bridged.
func Clusters(w *forcegraph.World, p Params, src *vector.Source) error {
	ids, err := addNodes(w, p, src)
	if err != nil {
		return err
	}
	k := p.Clusters
	if k < 1 {
		k = 1
	}
	if k > len(ids) {
		k = len(ids)
	}

	members := make([][]forcegraph.NodeID, k)
	for i, id := range ids {
		members[i%k] = append(members[i%k], id)
	}

	for _, m := range members {
		for i := 1; i < len(m); i++ {
			if err := connect(w, m[src.Intn(i)], m[i]); err != nil {
				return err
			}
		}
		for i := range m {
			for j := i + 1; j < len(m); j++ {
				if src.Float64() < p.Probability {
					if err := connect(w, m[i], m[j]); err != nil {
						return err
					}
				}
			}
		}
	}

	for c := 1; c < k; c++ {
		if err := connect(w, members[c-1][0], members[c][0]); err != nil {
			return err
		}
	}
	return nil
}

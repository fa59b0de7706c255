package forcegraph

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/graphsim/internal/vector"
)

// maxDepth bounds subdivision. Bodies that still share a cell at this depth
// (or in a zero-width tree) are kept together in one leaf.
const maxDepth = 48

type body struct {
	id       NodeID
	location r3.Vec
	mass     float64
}

// cell is a cube of the octree. Leaves hold bodies, internal cells hold up to
// eight children and the aggregate mass of everything below them.
type cell struct {
	center   r3.Vec
	half     float64
	depth    int
	mass     float64
	com      r3.Vec
	bodies   []body
	children [8]*cell
	leaf     bool
}

func newCell(center r3.Vec, half float64, depth int) *cell {
	return &cell{center: center, half: half, depth: depth, leaf: true}
}

// Octree approximates pairwise repulsion with the Barnes-Hut method.
type Octree struct {
	root  *cell
	theta float64
	dirs  vector.Directions
	count int
}

// NewOctree returns an empty tree spanning [-halfWidth, halfWidth] on every
// axis. Coincident bodies are pushed apart along dirs.At(query, other).
func NewOctree(halfWidth, theta float64, dirs vector.Directions) *Octree {
	if halfWidth < 0 {
		halfWidth = 0
	}
	return &Octree{
		root:  newCell(r3.Vec{}, halfWidth, 0),
		theta: theta,
		dirs:  dirs,
	}
}

// Len is the number of bodies inserted.
func (t *Octree) Len() int { return t.count }

// Mass is the total mass in the tree.
func (t *Octree) Mass() float64 { return t.root.mass }

// CenterOfMass is the mass-weighted mean location of all bodies.
func (t *Octree) CenterOfMass() r3.Vec { return t.root.com }

// HalfWidth is the half-width of the root cube.
func (t *Octree) HalfWidth() float64 { return t.root.half }

// Add inserts a body.
func (t *Octree) Add(id NodeID, location r3.Vec, mass float64) {
	t.insert(t.root, body{id: id, location: location, mass: mass})
	t.count++
}

func (t *Octree) insert(c *cell, b body) {
	if c.leaf && len(c.bodies) == 0 {
		c.bodies = append(c.bodies, b)
		c.mass = b.mass
		c.com = b.location
		return
	}

	total := c.mass + b.mass
	c.com = r3.Scale(1/total, r3.Add(r3.Scale(c.mass, c.com), r3.Scale(b.mass, b.location)))
	c.mass = total

	if c.leaf {
		if c.depth >= maxDepth || c.half <= 0 {
			c.bodies = append(c.bodies, b)
			return
		}
		occupants := c.bodies
		c.bodies = nil
		c.leaf = false
		for _, o := range occupants {
			t.insertChild(c, o)
		}
	}
	t.insertChild(c, b)
}

func (t *Octree) insertChild(c *cell, b body) {
	i := octant(c.center, b.location)
	if c.children[i] == nil {
		q := c.half / 2
		offset := r3.Vec{X: -q, Y: -q, Z: -q}
		if i&1 != 0 {
			offset.X = q
		}
		if i&2 != 0 {
			offset.Y = q
		}
		if i&4 != 0 {
			offset.Z = q
		}
		c.children[i] = newCell(r3.Add(c.center, offset), q, c.depth+1)
	}
	t.insert(c.children[i], b)
}

func octant(center, p r3.Vec) int {
	i := 0
	if p.X >= center.X {
		i |= 1
	}
	if p.Y >= center.Y {
		i |= 2
	}
	if p.Z >= center.Z {
		i |= 4
	}
	return i
}

// Accelerate adds the repulsion felt by node id from every other body in the
// tree to n.Acceleration.
func (t *Octree) Accelerate(id NodeID, n *Node) {
	if t.root.mass == 0 {
		return
	}
	acc := t.accelerate(t.root, id, n.Location, n.Mass())
	n.Acceleration = r3.Add(n.Acceleration, acc)
}

func (t *Octree) accelerate(c *cell, id NodeID, p r3.Vec, mass float64) r3.Vec {
	if c == nil || c.mass == 0 {
		return r3.Vec{}
	}

	if c.leaf {
		var acc r3.Vec
		for _, b := range c.bodies {
			if b.id == id {
				continue
			}
			acc = r3.Add(acc, t.repulsion(id, p, mass, b.id, b.location, b.mass))
		}
		return acc
	}

	// A cell containing p also contains p's own body and is always opened.
	if vector.MaxAbs(r3.Sub(p, c.center)) > c.half {
		d := r3.Norm(r3.Sub(c.com, p))
		if d > 0 && 2*c.half/d < t.theta {
			return t.repulsion(id, p, mass, pseudoBody, c.com, c.mass)
		}
	}

	var acc r3.Vec
	for _, child := range c.children {
		acc = r3.Add(acc, t.accelerate(child, id, p, mass))
	}
	return acc
}

// pseudoBody keys the fallback direction for a cell acting as one body.
const pseudoBody NodeID = -1

// repulsion is the push on body id of mass m at p from body other of mass mo
// at o.
func (t *Octree) repulsion(id NodeID, p r3.Vec, m float64, other NodeID, o r3.Vec, mo float64) r3.Vec {
	delta := r3.Sub(o, p)
	d := r3.Norm(delta) + RepulsionEpsilon
	return r3.Scale(RepulsionFactor*m*mo/(d*d), vector.Unit(delta, t.dirs, uint64(id), uint64(other)))
}

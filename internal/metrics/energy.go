package metrics

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/graphsim/internal/forcegraph"
)

// KineticEnergy is the total ½·m·|v|² over all nodes at the last observed
// tick. It falls toward zero as the layout settles.
type KineticEnergy struct {
	name  string
	world *forcegraph.World
	value float64
	peak  float64
}

func NewKineticEnergy(w *forcegraph.World) *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy", world: w}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(tick int) {
	total := 0.0
	e.world.Each(func(_ forcegraph.NodeID, n *forcegraph.Node) {
		total += 0.5 * n.Mass() * r3.Norm2(n.Velocity)
	})
	e.value = total
	if total > e.peak {
		e.peak = total
	}
}

func (e *KineticEnergy) Value() float64 { return e.value }

// Peak is the largest value seen since the last Reset.
func (e *KineticEnergy) Peak() float64 { return e.peak }

func (e *KineticEnergy) Reset() {
	e.value = 0
	e.peak = 0
}

// MaxSpeed is the largest node speed at the last observed tick.
type MaxSpeed struct {
	name  string
	world *forcegraph.World
	value float64
}

func NewMaxSpeed(w *forcegraph.World) *MaxSpeed {
	return &MaxSpeed{name: "max_speed", world: w}
}

func (m *MaxSpeed) Name() string { return m.name }

func (m *MaxSpeed) Observe(tick int) {
	best := 0.0
	m.world.Each(func(_ forcegraph.NodeID, n *forcegraph.Node) {
		if s := r3.Norm(n.Velocity); s > best {
			best = s
		}
	})
	m.value = best
}

func (m *MaxSpeed) Value() float64 { return m.value }

func (m *MaxSpeed) Reset() { m.value = 0 }

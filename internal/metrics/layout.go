package metrics

import (
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/graphsim/internal/dynamo"
	"github.com/san-kum/graphsim/internal/forcegraph"
)

// Radius reports the world's bounding radius.
type Radius struct {
	world *forcegraph.World
	value float64
}

func NewRadius(w *forcegraph.World) *Radius { return &Radius{world: w} }

func (r *Radius) Name() string { return "radius" }
func (r *Radius) Observe(tick int) { r.value = r.world.Radius() }
func (r *Radius) Value() float64 { return r.value }
func (r *Radius) Reset() { r.value = 0 }

func edgeLengths(w *forcegraph.World) []float64 {
	segs := w.Segments()
	out := make([]float64, len(segs))
	for i, s := range segs {
		out[i] = r3.Norm(r3.Sub(s[1], s[0]))
	}
	return out
}

// EdgeLength is the mean spring length.
type EdgeLength struct {
	world *forcegraph.World
	value float64
}

func NewEdgeLength(w *forcegraph.World) *EdgeLength { return &EdgeLength{world: w} }

func (e *EdgeLength) Name() string { return "edge_length" }

func (e *EdgeLength) Observe(tick int) {
	lengths := edgeLengths(e.world)
	if len(lengths) == 0 {
		e.value = 0
		return
	}
	e.value = stat.Mean(lengths, nil)
}

func (e *EdgeLength) Value() float64 { return e.value }
func (e *EdgeLength) Reset() { e.value = 0 }

// EdgeSpread is the standard deviation of spring lengths. A layout with
// uniform edges has a low spread.
type EdgeSpread struct {
	world *forcegraph.World
	value float64
}

func NewEdgeSpread(w *forcegraph.World) *EdgeSpread { return &EdgeSpread{world: w} }

func (e *EdgeSpread) Name() string { return "edge_spread" }

func (e *EdgeSpread) Observe(tick int) {
	lengths := edgeLengths(e.world)
	if len(lengths) < 2 {
		e.value = 0
		return
	}
	e.value = stat.StdDev(lengths, nil)
}

func (e *EdgeSpread) Value() float64 { return e.value }
func (e *EdgeSpread) Reset() { e.value = 0 }

// Defaults is the metric set recorded by graphsim runs.
func Defaults(w *forcegraph.World) []dynamo.Metric {
	return []dynamo.Metric{
		NewKineticEnergy(w),
		NewMaxSpeed(w),
		NewRadius(w),
		NewEdgeLength(w),
		NewEdgeSpread(w),
		NewStability(w, StabilityRadius),
	}
}

// StabilityRadius is the radius past which a layout counts as blown up.
const StabilityRadius = 1e6

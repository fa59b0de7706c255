package metrics

import (
	"github.com/san-kum/graphsim/internal/forcegraph"
)

// Stability is the fraction of observed ticks on which the world stayed
// finite and inside threshold of the origin.
type Stability struct {
	name       string
	world      *forcegraph.World
	threshold  float64
	violations int
	samples    int
}

func NewStability(w *forcegraph.World, threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		world:     w,
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(tick int) {
	s.samples++
	if !s.world.Valid() || s.world.Radius() > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

package vector

import (
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"
)

// Source is a seeded random source that is safe for concurrent use.
type Source struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewSource(seed int64) *Source {
	return &Source{rnd: rand.New(rand.NewSource(seed))}
}

// Float64 returns a number in [0, 1).
func (s *Source) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Float64()
}

// Intn returns a number in [0, n).
func (s *Source) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Intn(n)
}

// InsideUnitSphere returns a point uniformly distributed in the unit ball.
func (s *Source) InsideUnitSphere() r3.Vec {
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		v := r3.Vec{X: 2*s.rnd.Float64() - 1, Y: 2*s.rnd.Float64() - 1, Z: 2*s.rnd.Float64() - 1}
		if r3.Norm2(v) <= 1 {
			return v
		}
	}
}

package vector

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const golden = 0x9e3779b97f4a7c15

// mix is the splitmix64 finalizer.
func mix(z uint64) uint64 {
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Directions maps pairs of keys to pseudo-random unit vectors. A lookup is a
// pure function of the seed and the keys, so concurrent callers share one
// value without locking and get the same vectors in any call order.
type Directions struct {
	seed uint64
}

func NewDirections(seed int64) Directions {
	return Directions{seed: mix(uint64(seed))}
}

// Derive returns an independent family keyed additionally by k.
func (d Directions) Derive(k uint64) Directions {
	return Directions{seed: mix(d.seed + (k+1)*golden)}
}

// At returns the direction for the ordered pair (a, b). The result is
// uniformly distributed on the unit sphere.
func (d Directions) At(a, b uint64) r3.Vec {
	state := mix(mix(d.seed+(a+1)*golden) + (b+1)*golden)
	for {
		var c [3]float64
		for i := range c {
			state += golden
			c[i] = 2*float64(mix(state)>>11)/(1<<53) - 1
		}
		v := r3.Vec{X: c[0], Y: c[1], Z: c[2]}
		if n2 := r3.Norm2(v); n2 > 1e-18 && n2 <= 1 {
			return r3.Scale(1/math.Sqrt(n2), v)
		}
	}
}

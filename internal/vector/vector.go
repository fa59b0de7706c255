// Package vector holds the small amount of 3D arithmetic the layout engine needs
// on top of gonum's r3 package.
//
// The only behaviour that differs from [r3] is [Unit]: a zero displacement
// yields a pseudo-random unit vector instead of NaN, so coincident nodes are
// pushed apart in some direction rather than poisoning the simulation.
package vector

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Zero is the zero vector.
var Zero = r3.Vec{}

// One is (1, 1, 1), the neutral group factor.
var One = r3.Vec{X: 1, Y: 1, Z: 1}

// Unit returns the unit vector colinear to v. For the zero vector it returns
// dirs.At(a, b), so callers key the fallback by the pair of nodes involved.
func Unit(v r3.Vec, dirs Directions, a, b uint64) r3.Vec {
	if r3.Norm2(v) == 0 {
		return dirs.At(a, b)
	}
	return r3.Unit(v)
}

// MaxAbs returns the largest absolute coordinate of v.
func MaxAbs(v r3.Vec) float64 {
	return math.Max(math.Abs(v.X), math.Max(math.Abs(v.Y), math.Abs(v.Z)))
}

// Mul multiplies a and b component-wise.
func Mul(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: a.X * b.X, Y: a.Y * b.Y, Z: a.Z * b.Z}
}

// IsFinite reports whether every component of v is neither NaN nor infinite.
func IsFinite(v r3.Vec) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

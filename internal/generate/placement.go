package generate

import (
	"fmt"
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/graphsim/internal/forcegraph"
	"github.com/san-kum/graphsim/internal/vector"
)

const (
	PlacementSphere = "sphere"
	PlacementNoise  = "noise"
)

// noiseScale maps lattice coordinates into noise space.
const noiseScale = 0.15

// Placements lists the supported starting layouts.
func Placements() []string {
	return []string{PlacementSphere, PlacementNoise}
}

// Place returns n starting locations.
//
// sphere scatters nodes uniformly in the unit ball shifted by (1, 1, 1), the
// way nodes are spawned when a graph grows interactively. noise lays nodes
// on a cubic lattice with EdgeLength spacing and jitters every axis with
// simplex noise, which gives large graphs a less crowded first tick.
func Place(kind string, n int, seed int64, src *vector.Source) ([]r3.Vec, error) {
	out := make([]r3.Vec, n)
	switch kind {
	case "", PlacementSphere:
		for i := range out {
			out[i] = spawnLocation(src)
		}
	case PlacementNoise:
		noise := opensimplex.New(seed)
		side := latticeSide(n)
		spacing := forcegraph.EdgeLength
		for i := range out {
			p := latticePoint(i, side)
			x, y, z := p.X*noiseScale, p.Y*noiseScale, p.Z*noiseScale
			jitter := r3.Vec{
				X: noise.Eval3(x, y, z),
				Y: noise.Eval3(x+100, y+100, z),
				Z: noise.Eval3(x, y+50, z+50),
			}
			centred := r3.Sub(p, r3.Scale(float64(side-1)/2, vector.One))
			out[i] = r3.Add(r3.Scale(spacing, centred), r3.Scale(spacing/2, jitter))
		}
	default:
		return nil, fmt.Errorf("unknown placement: %s", kind)
	}
	return out, nil
}

func spawnLocation(src *vector.Source) r3.Vec {
	return r3.Add(src.InsideUnitSphere(), vector.One)
}

// latticeSide is the edge length of the smallest cube holding n points.
func latticeSide(n int) int {
	side := int(math.Round(math.Cbrt(float64(n))))
	for side*side*side < n {
		side++
	}
	if side < 1 {
		side = 1
	}
	return side
}

func latticePoint(i, side int) r3.Vec {
	return r3.Vec{
		X: float64(i % side),
		Y: float64((i / side) % side),
		Z: float64(i / (side * side)),
	}
}

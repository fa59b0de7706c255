package forcegraph

import "github.com/san-kum/graphsim/internal/vector"

// Option configures a World.
type Option func(*World)

// WithGroups sets the group table nodes are resolved against.
func WithGroups(t *GroupTable) Option {
	return func(w *World) { w.groups = t }
}

// WithTheta sets the Barnes-Hut opening threshold. Zero disables the
// approximation and visits every body.
func WithTheta(theta float64) Option {
	return func(w *World) {
		if theta >= 0 {
			w.theta = theta
		}
	}
}

// WithDuplicateEdges makes Connect append a new edge even when the pair is
// already connected. By default the existing edge is returned instead.
func WithDuplicateEdges(allow bool) Option {
	return func(w *World) { w.allowDuplicates = allow }
}

// WithSeed seeds the fallback directions used to separate coincident nodes.
func WithSeed(seed int64) Option {
	return func(w *World) {
		w.dirs = vector.NewDirections(seed)
		w.seeded = true
	}
}

// WithMinChunk sets the smallest number of nodes handed to one worker in the
// force phase.
func WithMinChunk(n int) Option {
	return func(w *World) {
		if n > 0 {
			w.minChunk = n
		}
	}
}

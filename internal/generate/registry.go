package generate

import (
	"fmt"
	"sort"

	"github.com/san-kum/graphsim/internal/forcegraph"
	"github.com/san-kum/graphsim/internal/vector"
)

// Params describes the graph a generator builds.
type Params struct {
	Nodes       int
	Probability float64 // edge probability for random and clusters
	Clusters    int
	Seed        int64
	Placement   string
}

// Generator adds nodes and edges to w. Every random choice is drawn from src.
type Generator func(w *forcegraph.World, p Params, src *vector.Source) error

type Registry struct {
	generators map[string]Generator
}

func NewRegistry() *Registry {
	r := &Registry{generators: make(map[string]Generator)}

	r.generators["tree"] = Tree
	r.generators["ring"] = Ring
	r.generators["grid"] = Grid
	r.generators["star"] = Star
	r.generators["random"] = Random
	r.generators["clusters"] = Clusters

	return r
}

func (r *Registry) Register(name string, g Generator) {
	r.generators[name] = g
}

func (r *Registry) Get(name string) (Generator, error) {
	g, ok := r.generators[name]
	if !ok {
		return nil, fmt.Errorf("unknown generator: %s", name)
	}
	return g, nil
}

// List returns the registered generator names in sorted order.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.generators))
	for name := range r.generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build runs the named generator against w with a source seeded from p.Seed.
func (r *Registry) Build(w *forcegraph.World, name string, p Params) error {
	g, err := r.Get(name)
	if err != nil {
		return err
	}
	if p.Nodes < 0 {
		return fmt.Errorf("generator %s: negative node count %d", name, p.Nodes)
	}
	if p.Probability < 0 || p.Probability > 1 {
		return fmt.Errorf("generator %s: probability %g outside [0, 1]", name, p.Probability)
	}
	if err := g(w, p, vector.NewSource(p.Seed)); err != nil {
		return fmt.Errorf("generator %s: %w", name, err)
	}
	return nil
}

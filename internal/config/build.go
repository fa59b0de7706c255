package config

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/graphsim/internal/dynamo"
	"github.com/san-kum/graphsim/internal/forcegraph"
	"github.com/san-kum/graphsim/internal/generate"
)

// SettleMetric is the metric compared against sim.settle_threshold.
const SettleMetric = "kinetic_energy"

func (c *Config) Params() generate.Params {
	return generate.Params{
		Nodes:       c.Graph.Nodes,
		Probability: c.Graph.Probability,
		Clusters:    c.Graph.Clusters,
		Seed:        c.Graph.Seed,
		Placement:   c.Graph.Placement,
	}
}

func (c *Config) RunConfig() dynamo.Config {
	cfg := dynamo.Config{
		Ticks:         c.Sim.Ticks,
		Duration:      c.Sim.Duration,
		ValidateState: c.Sim.Validate,
	}
	if c.Sim.SettleThreshold > 0 {
		cfg.SettleMetric = SettleMetric
		cfg.SettleThreshold = c.Sim.SettleThreshold
	}
	return cfg
}

// BuildGroups creates the configured groups. With no groups configured and
// assign_groups set, the three default groups are used.
func (c *Config) BuildGroups() []*forcegraph.Group {
	if len(c.Groups) == 0 {
		if c.AssignGroups {
			return generate.DefaultGroups()
		}
		return nil
	}
	out := make([]*forcegraph.Group, len(c.Groups))
	for i, g := range c.Groups {
		grp := forcegraph.NewGroup(g.Name, toVec(g.Origin))
		if len(g.Factor) == 3 {
			grp.Factor = toVec(g.Factor)
		}
		out[i] = grp
	}
	return out
}

func (c *Config) WorldOptions(groups *forcegraph.GroupTable) []forcegraph.Option {
	return []forcegraph.Option{
		forcegraph.WithGroups(groups),
		forcegraph.WithTheta(c.World.Theta),
		forcegraph.WithDuplicateEdges(c.World.AllowDuplicateEdges),
		forcegraph.WithSeed(c.Graph.Seed),
	}
}

func toVec(v []float64) r3.Vec {
	var out r3.Vec
	if len(v) > 0 {
		out.X = v[0]
	}
	if len(v) > 1 {
		out.Y = v[1]
	}
	if len(v) > 2 {
		out.Z = v[2]
	}
	return out
}

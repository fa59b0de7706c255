package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/graphsim/internal/generate"
)

const (
	DefaultGenerator   = "tree"
	DefaultNodes       = 200
	DefaultProbability = 0.05
	DefaultClusters    = 3
	DefaultPlacement   = "sphere"
	DefaultTicks       = 500
	DefaultTheta       = 0.5

	// EnvPrefix is prepended to upper-cased keys, so graph.nodes is read from
	// GRAPHSIM_GRAPH_NODES.
	EnvPrefix = "GRAPHSIM"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Graph        GraphConfig   `yaml:"graph" mapstructure:"graph"`
	Groups       []GroupConfig `yaml:"groups,omitempty" mapstructure:"groups"`
	AssignGroups bool          `yaml:"assign_groups" mapstructure:"assign_groups"`
	LockFraction float64       `yaml:"lock_fraction" mapstructure:"lock_fraction"`
	Sim          SimConfig     `yaml:"sim" mapstructure:"sim"`
	World        WorldConfig   `yaml:"world" mapstructure:"world"`
}

type GraphConfig struct {
	Generator   string  `yaml:"generator" mapstructure:"generator"`
	Nodes       int     `yaml:"nodes" mapstructure:"nodes"`
	Probability float64 `yaml:"probability" mapstructure:"probability"`
	Clusters    int     `yaml:"clusters" mapstructure:"clusters"`
	Seed        int64   `yaml:"seed" mapstructure:"seed"`
	Placement   string  `yaml:"placement" mapstructure:"placement"`
}

// GroupConfig is a group origin and per-axis factor. Origin and Factor hold
// three coordinates; an empty Factor means (1, 1, 1).
type GroupConfig struct {
	Name   string    `yaml:"name" mapstructure:"name"`
	Origin []float64 `yaml:"origin" mapstructure:"origin"`
	Factor []float64 `yaml:"factor,omitempty" mapstructure:"factor"`
}

type SimConfig struct {
	Ticks    int           `yaml:"ticks" mapstructure:"ticks"`
	Duration time.Duration `yaml:"duration" mapstructure:"duration"`
	Validate bool          `yaml:"validate" mapstructure:"validate"`
	// SettleThreshold ends a run once kinetic energy drops below it. Zero
	// disables early stopping.
	SettleThreshold float64 `yaml:"settle_threshold" mapstructure:"settle_threshold"`
}

type WorldConfig struct {
	Theta               float64 `yaml:"theta" mapstructure:"theta"`
	AllowDuplicateEdges bool    `yaml:"allow_duplicate_edges" mapstructure:"allow_duplicate_edges"`
}

func DefaultConfig() *Config {
	return &Config{
		Graph: GraphConfig{
			Generator:   DefaultGenerator,
			Nodes:       DefaultNodes,
			Probability: DefaultProbability,
			Clusters:    DefaultClusters,
			Seed:        1,
			Placement:   DefaultPlacement,
		},
		Sim: SimConfig{
			Ticks:    DefaultTicks,
			Validate: true,
		},
		World: WorldConfig{
			Theta: DefaultTheta,
		},
	}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Groups = nil
	for _, g := range c.Groups {
		out.Groups = append(out.Groups, GroupConfig{
			Name:   g.Name,
			Origin: append([]float64(nil), g.Origin...),
			Factor: append([]float64(nil), g.Factor...),
		})
	}
	return &out
}

// Load reads the YAML file at path on top of base and applies GRAPHSIM_*
// environment overrides. An empty path skips the file; a nil base means
// DefaultConfig.
func Load(path string, base *Config) (*Config, error) {
	if base == nil {
		base = DefaultConfig()
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, base)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("graph.generator", c.Graph.Generator)
	v.SetDefault("graph.nodes", c.Graph.Nodes)
	v.SetDefault("graph.probability", c.Graph.Probability)
	v.SetDefault("graph.clusters", c.Graph.Clusters)
	v.SetDefault("graph.seed", c.Graph.Seed)
	v.SetDefault("graph.placement", c.Graph.Placement)

	groups := make([]map[string]any, len(c.Groups))
	for i, g := range c.Groups {
		groups[i] = map[string]any{"name": g.Name, "origin": g.Origin, "factor": g.Factor}
	}
	v.SetDefault("groups", groups)
	v.SetDefault("assign_groups", c.AssignGroups)
	v.SetDefault("lock_fraction", c.LockFraction)

	v.SetDefault("sim.ticks", c.Sim.Ticks)
	v.SetDefault("sim.duration", c.Sim.Duration)
	v.SetDefault("sim.validate", c.Sim.Validate)
	v.SetDefault("sim.settle_threshold", c.Sim.SettleThreshold)

	v.SetDefault("world.theta", c.World.Theta)
	v.SetDefault("world.allow_duplicate_edges", c.World.AllowDuplicateEdges)
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports the first problem found, wrapped in ErrInvalid.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
	}

	g := c.Graph
	if g.Generator == "" {
		return invalid("graph.generator is empty")
	}
	if g.Nodes < 0 {
		return invalid("graph.nodes must not be negative, got %d", g.Nodes)
	}
	if g.Probability < 0 || g.Probability > 1 {
		return invalid("graph.probability must be in [0, 1], got %g", g.Probability)
	}
	if g.Clusters < 0 {
		return invalid("graph.clusters must not be negative, got %d", g.Clusters)
	}
	if g.Placement != "" && !slices.Contains(generate.Placements(), g.Placement) {
		return invalid("graph.placement must be sphere or noise, got %q", g.Placement)
	}

	for i, gr := range c.Groups {
		if gr.Name == "" {
			return invalid("groups[%d].name is empty", i)
		}
		if len(gr.Origin) != 3 {
			return invalid("groups[%d].origin needs 3 coordinates, got %d", i, len(gr.Origin))
		}
		if len(gr.Factor) != 0 && len(gr.Factor) != 3 {
			return invalid("groups[%d].factor needs 3 coordinates, got %d", i, len(gr.Factor))
		}
	}

	if c.LockFraction < 0 || c.LockFraction > 1 {
		return invalid("lock_fraction must be in [0, 1], got %g", c.LockFraction)
	}
	if c.Sim.Ticks < 0 || c.Sim.Duration < 0 {
		return invalid("sim.ticks and sim.duration must not be negative")
	}
	if c.Sim.Ticks == 0 && c.Sim.Duration == 0 {
		return invalid("one of sim.ticks and sim.duration must be set")
	}
	if c.Sim.SettleThreshold < 0 {
		return invalid("sim.settle_threshold must not be negative, got %g", c.Sim.SettleThreshold)
	}
	if c.World.Theta < 0 {
		return invalid("world.theta must not be negative, got %g", c.World.Theta)
	}
	return nil
}

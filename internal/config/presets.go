package config

import "time"

func preset(edit func(c *Config)) *Config {
	c := DefaultConfig()
	edit(c)
	return c
}

// Presets are complete configurations keyed by generator, then preset name.
var Presets = map[string]map[string]*Config{
	"tree": {
		"small": preset(func(c *Config) {
			c.Graph.Nodes = 100
		}),
		"large": preset(func(c *Config) {
			c.Graph.Nodes = 2000
			c.Graph.Placement = "noise"
			c.Sim.Ticks = 1000
			c.Sim.SettleThreshold = 1e-3
		}),
		"grouped": preset(func(c *Config) {
			c.Graph.Nodes = 500
			c.AssignGroups = true
			c.Sim.Ticks = 800
		}),
		"pinned": preset(func(c *Config) {
			c.Graph.Nodes = 300
			c.LockFraction = 0.5
		}),
		"timed": preset(func(c *Config) {
			c.Graph.Nodes = 1000
			c.Sim.Ticks = 0
			c.Sim.Duration = 3 * time.Second
		}),
	},
	"ring": {
		"small": preset(func(c *Config) {
			c.Graph.Generator = "ring"
			c.Graph.Nodes = 24
		}),
		"large": preset(func(c *Config) {
			c.Graph.Generator = "ring"
			c.Graph.Nodes = 500
			c.Sim.Ticks = 1500
		}),
	},
	"grid": {
		"cube": preset(func(c *Config) {
			c.Graph.Generator = "grid"
			c.Graph.Nodes = 125
			c.Graph.Placement = "noise"
		}),
		"large": preset(func(c *Config) {
			c.Graph.Generator = "grid"
			c.Graph.Nodes = 1000
			c.Graph.Placement = "noise"
			c.Sim.Ticks = 1000
		}),
	},
	"star": {
		"small": preset(func(c *Config) {
			c.Graph.Generator = "star"
			c.Graph.Nodes = 50
		}),
	},
	"random": {
		"sparse": preset(func(c *Config) {
			c.Graph.Generator = "random"
			c.Graph.Nodes = 200
			c.Graph.Probability = 0.01
		}),
		"dense": preset(func(c *Config) {
			c.Graph.Generator = "random"
			c.Graph.Nodes = 60
			c.Graph.Probability = 0.2
		}),
	},
	"clusters": {
		"three": preset(func(c *Config) {
			c.Graph.Generator = "clusters"
			c.Graph.Nodes = 300
			c.Graph.Clusters = 3
			c.AssignGroups = true
		}),
		"many": preset(func(c *Config) {
			c.Graph.Generator = "clusters"
			c.Graph.Nodes = 600
			c.Graph.Clusters = 12
			c.Sim.Ticks = 1000
		}),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(generator, name string) *Config {
	genPresets, ok := Presets[generator]
	if !ok {
		return nil
	}
	cfg, ok := genPresets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(generator string) []string {
	genPresets, ok := Presets[generator]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(genPresets))
	for name := range genPresets {
		names = append(names, name)
	}
	return names
}

package config

import "sort"

// Preset adjusts a default configuration.
type Preset func(c *Config)

var Presets = map[string]map[string]Preset{
	"simple": {
		"circle": func(c *Config) {
			c.Integrator, c.Step, c.Duration = "rk4", 0.01, 6.3
		},
		"euler_drift": func(c *Config) {
			c.Integrator, c.Step, c.Duration = "euler", 0.05, 6.3
		},
	},
	"pendulum": {
		"default": func(c *Config) {},
		"stiff": func(c *Config) {
			c.Particles.Stiffness = Float(80)
			c.Step = 0.001
		},
		"long": func(c *Config) {
			c.Pendulum.Positions = []Vec3{
				{0.1, 0.1, 0.5}, {0.2, 0.2, 0.5}, {0.3, 0.1, 0.5}, {0.4, 0.2, 0.5},
				{0.5, 0.1, 0.5}, {0.6, 0.2, 0.5}, {0.7, 0.1, 0.5}, {0.8, 0.2, 0.5},
			}
		},
		"weightless": func(c *Config) {
			c.Particles.Gravity = Vec3{}
		},
	},
	"cloth": {
		"small": func(c *Config) {
			c.Cloth.Rows, c.Cloth.Cols = 5, 5
			c.Integrator, c.Step = "trapezoidal", 0.002
		},
		"windy": func(c *Config) {
			c.Cloth.Wind = true
			c.Integrator, c.Step = "rk4", 0.002
		},
	},
	"fluid": {
		"smoke": func(c *Config) {
			c.Fluid.Viscosity, c.Fluid.Diffusion, c.Fluid.Dissipation = 0, 0.0001, 0.05
			c.Fluid.Steps = 100
		},
		"viscous": func(c *Config) {
			c.Fluid.Viscosity = 0.001
			c.Fluid.Steps = 60
		},
	},
	"marker": {
		"rain": func(c *Config) {
			c.Marker.Particles = 16
			c.Marker.Velocity = Vec2{X: 0, Y: -1}
		},
	},
}

// GetPreset returns a fresh configuration for scenario with the named preset
// applied, or nil if either is unknown.
func GetPreset(scenario, preset string) *Config {
	apply, ok := Presets[scenario][preset]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Scenario = scenario
	apply(cfg)
	return cfg
}

// ListPresets returns the preset names of scenario in sorted order.
func ListPresets(scenario string) []string {
	presets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

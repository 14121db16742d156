package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/san-kum/particlesim/internal/fluid"
	"github.com/san-kum/particlesim/internal/integrators"
	"github.com/san-kum/particlesim/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces every environment override.
const EnvPrefix = "PARTICLESIM_"

const (
	DefaultStep     = 0.005
	DefaultFrame    = 1.0 / 60
	DefaultDuration = 10.0
	DefaultSeed     = 1
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Scenario   string  `yaml:"scenario" env:"SCENARIO"`
	Integrator string  `yaml:"integrator" env:"INTEGRATOR"`
	Step       float64 `yaml:"step" env:"STEP"`
	Frame      float64 `yaml:"frame" env:"FRAME"`
	Duration   float64 `yaml:"duration" env:"DURATION"`
	Seed       int64   `yaml:"seed" env:"SEED"`

	Particles ParticleConfig `yaml:"particles" envPrefix:"PARTICLES_"`
	Pendulum  PendulumConfig `yaml:"pendulum"`
	Cloth     ClothConfig    `yaml:"cloth" envPrefix:"CLOTH_"`
	Fluid     FluidConfig    `yaml:"fluid" envPrefix:"FLUID_"`
	Marker    MarkerConfig   `yaml:"marker" envPrefix:"MARKER_"`
}

type Vec3 struct {
	X float64 `yaml:"x" env:"X"`
	Y float64 `yaml:"y" env:"Y"`
	Z float64 `yaml:"z" env:"Z"`
}

func (v Vec3) R3() r3.Vec { return r3.Vec{X: v.X, Y: v.Y, Z: v.Z} }

type Vec2 struct {
	X float64 `yaml:"x" env:"X"`
	Y float64 `yaml:"y" env:"Y"`
}

func (v Vec2) R2() r2.Vec { return r2.Vec{X: v.X, Y: v.Y} }

// ParticleConfig holds the constants shared by the spring scenarios. Unset
// scalars fall back to the scenario's own defaults; an explicit value,
// including 0, is used as given. Gravity is always taken as given.
type ParticleConfig struct {
	Mass       *float64 `yaml:"mass,omitempty" env:"MASS"`
	Drag       *float64 `yaml:"drag,omitempty" env:"DRAG"`
	Stiffness  *float64 `yaml:"stiffness,omitempty" env:"STIFFNESS"`
	RestLength *float64 `yaml:"rest_length,omitempty" env:"REST_LENGTH"`
	Gravity    Vec3     `yaml:"gravity" envPrefix:"GRAVITY_"`
}

// Float returns a pointer to v for setting a ParticleConfig scalar.
func Float(v float64) *float64 { return &v }

type PendulumConfig struct {
	Positions []Vec3 `yaml:"positions,omitempty"`
}

type ClothConfig struct {
	Rows         int     `yaml:"rows" env:"ROWS"`
	Cols         int     `yaml:"cols" env:"COLS"`
	Spacing      float64 `yaml:"spacing" env:"SPACING"`
	Wind         bool    `yaml:"wind" env:"WIND"`
	WindStrength float64 `yaml:"wind_strength" env:"WIND_STRENGTH"`
}

// Injection adds force and density at one cell before the first step.
type Injection struct {
	Y      int     `yaml:"y"`
	X      int     `yaml:"x"`
	ForceY float64 `yaml:"force_y"`
	ForceX float64 `yaml:"force_x"`
	Source float64 `yaml:"source"`
}

type FluidConfig struct {
	Rows        int         `yaml:"rows" env:"ROWS"`
	Cols        int         `yaml:"cols" env:"COLS"`
	Dt          float64     `yaml:"dt" env:"DT"`
	Viscosity   float64     `yaml:"viscosity" env:"VISCOSITY"`
	Diffusion   float64     `yaml:"diffusion" env:"DIFFUSION"`
	Dissipation float64     `yaml:"dissipation" env:"DISSIPATION"`
	Iterations  int         `yaml:"iterations" env:"ITERATIONS"`
	Steps       int         `yaml:"steps" env:"STEPS"`
	Inject      []Injection `yaml:"inject,omitempty"`
}

type MarkerConfig struct {
	SizeX     int     `yaml:"size_x" env:"SIZE_X"`
	SizeY     int     `yaml:"size_y" env:"SIZE_Y"`
	CellSize  float64 `yaml:"cell_size" env:"CELL_SIZE"`
	Particles int     `yaml:"particles" env:"PARTICLES"`
	Step      float64 `yaml:"step" env:"STEP"`
	Velocity  Vec2    `yaml:"velocity" envPrefix:"VELOCITY_"`
}

func DefaultConfig() *Config {
	fp := fluid.DefaultParams()
	return &Config{
		Scenario:   "pendulum",
		Integrator: "rk4",
		Step:       DefaultStep,
		Frame:      DefaultFrame,
		Duration:   DefaultDuration,
		Seed:       DefaultSeed,
		Particles: ParticleConfig{
			Gravity: Vec3{Y: -physics.StandardGravity},
		},
		Cloth: ClothConfig{
			Rows:         10,
			Cols:         10,
			Spacing:      1,
			WindStrength: physics.DefaultWindStrength,
		},
		Fluid: FluidConfig{
			Rows:        fp.Rows,
			Cols:        fp.Cols,
			Dt:          fp.Dt,
			Viscosity:   fp.Viscosity,
			Diffusion:   fp.Diffusion,
			Dissipation: fp.Dissipation,
			Iterations:  fp.Iterations,
			Steps:       24,
			Inject:      []Injection{{Y: 15, X: 15, ForceY: 1, ForceX: 1, Source: 1}},
		},
		Marker: MarkerConfig{
			SizeX:     10,
			SizeY:     10,
			CellSize:  0.3,
			Particles: 8,
			Step:      0.01,
			Velocity:  Vec2{X: 0.1, Y: -0.1},
		},
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := Overlay(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Overlay reads a YAML file over cfg. Keys missing from the file keep
// their current values.
func Overlay(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overlays PARTICLESIM_* environment variables on cfg. Unset
// variables leave the current values alone.
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if _, err := integrators.ParseKind(c.Integrator); err != nil {
		return err
	}
	if c.Step <= 0 {
		return fmt.Errorf("%w: step must be positive, got %v", ErrInvalidConfig, c.Step)
	}
	if c.Frame <= 0 {
		return fmt.Errorf("%w: frame must be positive, got %v", ErrInvalidConfig, c.Frame)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %v", ErrInvalidConfig, c.Duration)
	}
	if err := c.SpringParams(physics.DefaultSpringParams()).Validate(); err != nil {
		return err
	}
	if c.Cloth.Rows < 1 || c.Cloth.Cols < 1 || c.Cloth.Spacing <= 0 {
		return fmt.Errorf("%w: cloth needs positive rows, cols and spacing", ErrInvalidConfig)
	}
	if err := c.FluidParams().Validate(); err != nil {
		return err
	}
	if c.Fluid.Steps < 0 {
		return fmt.Errorf("%w: fluid steps must be non-negative", ErrInvalidConfig)
	}
	if c.Marker.SizeX < 3 || c.Marker.SizeY < 3 || c.Marker.CellSize <= 0 || c.Marker.Step <= 0 {
		return fmt.Errorf("%w: marker grid must be at least 3x3 with positive cell size and step", ErrInvalidConfig)
	}
	return nil
}

// IntegratorKind resolves the configured integrator name.
func (c *Config) IntegratorKind() (integrators.Kind, error) {
	return integrators.ParseKind(c.Integrator)
}

// SpringParams fills base with every particle setting that is set.
func (c *Config) SpringParams(base physics.SpringParams) physics.SpringParams {
	p := c.Particles
	if p.Mass != nil {
		base.Mass = *p.Mass
	}
	if p.Drag != nil {
		base.Drag = *p.Drag
	}
	if p.Stiffness != nil {
		base.Stiffness = *p.Stiffness
	}
	if p.RestLength != nil {
		base.RestLength = *p.RestLength
	}
	base.Gravity = p.Gravity.R3()
	return base
}

// PendulumPositions returns the configured layout or the default chain.
func (c *Config) PendulumPositions() []r3.Vec {
	if len(c.Pendulum.Positions) == 0 {
		return physics.DefaultPendulumPositions()
	}
	out := make([]r3.Vec, len(c.Pendulum.Positions))
	for i, v := range c.Pendulum.Positions {
		out[i] = v.R3()
	}
	return out
}

func (c *Config) ClothParams() physics.ClothParams {
	return physics.ClothParams{Rows: c.Cloth.Rows, Cols: c.Cloth.Cols, Spacing: c.Cloth.Spacing}
}

func (c *Config) FluidParams() fluid.Params {
	return fluid.Params{
		Rows:        c.Fluid.Rows,
		Cols:        c.Fluid.Cols,
		Dt:          c.Fluid.Dt,
		Viscosity:   c.Fluid.Viscosity,
		Diffusion:   c.Fluid.Diffusion,
		Dissipation: c.Fluid.Dissipation,
		Iterations:  c.Fluid.Iterations,
	}
}

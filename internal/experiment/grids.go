package experiment

import (
	"fmt"

	"github.com/san-kum/particlesim/internal/config"
	"github.com/san-kum/particlesim/internal/fluid"
	"github.com/san-kum/particlesim/internal/macgrid"
)

// NewFluid builds the configured grid solver and applies the configured
// injections before any step.
func NewFluid(cfg *config.Config) (*fluid.Fluid, error) {
	f, err := fluid.New(cfg.FluidParams())
	if err != nil {
		return nil, err
	}
	for i, in := range cfg.Fluid.Inject {
		if err := Inject(f, in); err != nil {
			return nil, fmt.Errorf("injection %d: %w", i, err)
		}
	}
	return f, nil
}

// Inject adds one injection's forces and density to f.
func Inject(f *fluid.Fluid, in config.Injection) error {
	if err := f.AddForceY(in.Y, in.X, in.ForceY); err != nil {
		return err
	}
	if err := f.AddForceX(in.Y, in.X, in.ForceX); err != nil {
		return err
	}
	return f.AddSource(in.Y, in.X, in.Source)
}

// NewMarkers builds the configured marker grid with markers spread along
// its top interior row.
func NewMarkers(cfg *config.Config) (*macgrid.System, error) {
	m := cfg.Marker
	g, err := macgrid.NewGrid(m.SizeX, m.SizeY, m.CellSize)
	if err != nil {
		return nil, err
	}
	return macgrid.NewSystem(g, macgrid.TopRow(g, m.Particles, m.Velocity.R2()), m.Step)
}

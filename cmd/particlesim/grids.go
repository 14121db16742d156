package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/particlesim/internal/automation"
	"github.com/san-kum/particlesim/internal/experiment"
	"github.com/san-kum/particlesim/internal/macgrid"
	"github.com/san-kum/particlesim/internal/storage"
	"github.com/san-kum/particlesim/internal/viz"
	"github.com/spf13/cobra"
)

func runFluid(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, "fluid")
	if err != nil {
		return err
	}
	f, err := experiment.NewFluid(cfg)
	if err != nil {
		return err
	}
	if resumeFile != "" {
		snap, err := storage.LoadFluidSnapshot(resumeFile)
		if err != nil {
			return err
		}
		if err := f.Restore(*snap); err != nil {
			return err
		}
	}

	var totals []float64
	if scriptFile != "" {
		script, err := automation.LoadScript(scriptFile)
		if err != nil {
			return err
		}
		player, err := automation.RunFluid(cmd.Context(), f, script, cfg.Fluid.Steps)
		if err != nil {
			return err
		}
		for _, c := range player.Fired() {
			logger.Printf("script %s: %s", script.Name, c)
		}
	} else {
		totals = append(totals, f.TotalDensity())
		for i := 0; i < cfg.Fluid.Steps; i++ {
			if err := cmd.Context().Err(); err != nil {
				return err
			}
			f.Step()
			totals = append(totals, f.TotalDensity())
		}
	}

	fmt.Print(viz.RenderDensity(f, viz.GetTheme(themeName).Ramp, -1, -1))
	centre, err := f.SampleDensity(float64(f.Rows()-1)/2, float64(f.Cols()-1)/2)
	if err != nil {
		return err
	}
	fmt.Printf("\nsteps: %d  total density: %.4f  centre: %.4f  max divergence: %.3g\n",
		f.Steps(), f.TotalDensity(), centre, f.MaxDivergence())
	if len(totals) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(totals,
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Caption("total density per step"),
		))
	}

	if snapshotFile != "" {
		if err := storage.SaveFluidSnapshot(snapshotFile, f.Snapshot()); err != nil {
			return err
		}
		fmt.Printf("snapshot written: %s\n", snapshotFile)
	}
	return nil
}

func runMarkers(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, "marker")
	if err != nil {
		return err
	}
	sys, err := experiment.NewMarkers(cfg)
	if err != nil {
		return err
	}
	for i := 0; i < markerFrames; i++ {
		if err := sys.Update(cfg.Frame); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}

	g := sys.Grid()
	fmt.Print(g.Render())
	fmt.Printf("\nt=%.3f markers=%d liquid=%d air=%d solid=%d\n",
		sys.Time(), sys.NumMarkers(),
		g.Count(macgrid.Liquid), g.Count(macgrid.Air), g.Count(macgrid.Solid))
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	theme := viz.GetTheme(themeName)

	var m tea.Model
	if args[0] == "fluid" {
		cfg, err := loadConfig(cmd, "fluid")
		if err != nil {
			return err
		}
		f, err := experiment.NewFluid(cfg)
		if err != nil {
			return err
		}
		m = viz.NewFluidModel(f, theme)
	} else {
		exp, err := newExperiment(cmd, args[0])
		if err != nil {
			return err
		}
		m = viz.NewParticleModel(args[0], exp.GetSimulator(), exp.Scenario().Springs, exp, exp.Config().Frame, theme)
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func writeSVG(cmd *cobra.Command, args []string) error {
	exp, err := newExperiment(cmd, args[0])
	if err != nil {
		return err
	}
	result, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}
	positions := result.Final().Positions

	cam := viz.NewCamera()
	cam.Fit(positions, svgWidth, svgHeight)

	out, err := os.Create(args[1])
	if err != nil {
		return err
	}
	defer out.Close()
	if err := viz.WriteFrameSVG(out, cam, positions, exp.Scenario().Springs, svgWidth, svgHeight); err != nil {
		return err
	}
	fmt.Printf("frame at t=%.3f written to %s\n", result.Times[len(result.Times)-1], args[1])
	return nil
}

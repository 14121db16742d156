package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/particlesim/internal/analysis"
	"github.com/san-kum/particlesim/internal/automation"
	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/experiment"
	"github.com/san-kum/particlesim/internal/integrators"
	"github.com/san-kum/particlesim/internal/optim"
	"github.com/san-kum/particlesim/internal/sim"
	"github.com/san-kum/particlesim/internal/storage"
	"github.com/spf13/cobra"
)

// loadSeries reads a stored run and picks out the selected coordinate.
func loadSeries(runID string) (*storage.RunMetadata, []dynamo.State, []float64, []float64, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	states, times, err := st.LoadStates(runID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if len(states) == 0 {
		return nil, nil, nil, nil, fmt.Errorf("no data in run %s", runID)
	}
	axis, err := analysis.ParseAxis(axisName)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	coord, err := analysis.Coordinate(states, particle, axis)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return meta, states, times, coord, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, states, _, coord, err := loadSeries(args[0])
	if err != nil {
		return err
	}
	axis, _ := analysis.ParseAxis(axisName)
	vel, err := analysis.Velocity(states, particle, axis)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(states))

	fmt.Println(asciigraph.Plot(coord,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("p%d %s vs time", particle, axis)),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(vel,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("p%d v%s vs time", particle, axis)),
	))
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, states, times, coord, err := loadSeries(args[0])
	if err != nil {
		return err
	}
	axis, _ := analysis.ParseAxis(axisName)

	fmt.Printf("analysis: %s\n", meta.ID)
	fmt.Printf("series: p%d %s, %d samples\n\n", particle, axis, len(coord))

	fmt.Printf("dominant frequency: %.4f Hz\n", analysis.DominantFrequency(coord, 1/meta.Frame))
	if period, err := analysis.Period(coord, times); err != nil {
		fmt.Printf("period: n/a (%v)\n", err)
	} else {
		fmt.Printf("period: %.4f s\n", period)
	}

	if spectrum := analysis.PowerSpectrum(coord); len(spectrum) > 2 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(spectrum[1:],
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum"),
		))
	}

	portrait, err := analysis.NewPhasePortrait(states, particle, axis)
	if err != nil {
		return err
	}
	fmt.Printf("\nphase portrait: %s against v%s\n", axis, axis)
	fmt.Println(portrait.ASCII(70, 20))
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	states, times, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	result := &sim.Result{
		States:      states,
		Times:       times,
		Metrics:     meta.Metrics,
		EnergyDrift: meta.EnergyDrift,
		Steps:       meta.Steps,
	}

	out := "-"
	if len(args) == 2 {
		out = args[1]
	}
	if err := storage.ExportJSONFile(out, storage.NewExportData(*meta, result)); err != nil {
		return err
	}
	if out != "-" {
		fmt.Printf("exported %d frames to %s\n", len(states), out)
	}
	return nil
}

// compareIntegrators runs the scenario once per integrator concurrently
// and measures how far each run strays from the rk4 run.
func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	reg := experiment.NewRegistry()

	kinds := integrators.Kinds()
	sims := make([]*sim.Simulator, len(kinds))
	ref := -1
	for i, k := range kinds {
		c := *cfg
		c.Integrator = k.String()
		exp, err := experiment.New(&c, reg)
		if err != nil {
			return err
		}
		sims[i] = exp.GetSimulator()
		if k == integrators.KindRK4 {
			ref = i
		}
	}

	results, err := sim.NewEnsemble(sims...).Run(cmd.Context(), cfg.Duration, cfg.Frame)
	if err != nil {
		return err
	}

	fmt.Printf("comparing integrators for %s (step=%.4f, duration=%.1fs)\n\n", cfg.Scenario, cfg.Step, cfg.Duration)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tSTEPS\tDRIFT\tSEPARATION\tRATE")
	for i, r := range results {
		if i == ref {
			fmt.Fprintf(w, "%s\t%d\t%.3g\t-\t-\n", kinds[i], r.Steps, r.EnergyDrift)
			continue
		}
		sep, err := analysis.Separation(r.States, results[ref].States)
		if err != nil {
			return err
		}
		rate := "-"
		if v, err := analysis.SeparationRate(sep, r.Times); err == nil {
			rate = fmt.Sprintf("%.3g", v)
		} else if !errors.Is(err, analysis.ErrTooShort) {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\t%.3g\t%.3g\t%s\n", kinds[i], r.Steps, r.EnergyDrift, sep[len(sep)-1], rate)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	sweep := automation.ParameterSweep{
		Param:    sweepParam,
		Min:      sweepMin,
		Max:      sweepMax,
		NumSteps: sweepSteps,
	}
	results, err := automation.RunSweep(cmd.Context(), cfg, sweep, experiment.NewRegistry())
	if err != nil {
		return err
	}

	fmt.Printf("sweep %s over %s (%d points)\n\n", sweep.Param, cfg.Scenario, len(results))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tDRIFT\tMAX_STRAIN\tSTABLE\n", sweep.Param)
	for _, r := range results {
		fmt.Fprintf(w, "%.4g\t%.3g\t%.3g\t%t\n", r.ParamValue, r.EnergyDrift, r.MaxStrain, r.Stable)
	}
	return w.Flush()
}

// parseGrid reads name=v1,v2,... entries into parallel name and value lists.
func parseGrid(entries []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(entries))
	ranges := make([][]float64, 0, len(entries))
	for _, e := range entries {
		name, list, ok := strings.Cut(e, "=")
		if !ok {
			return nil, nil, fmt.Errorf("grid entry %q: want name=v1,v2", e)
		}
		var values []float64
		for _, f := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("grid entry %q: %w", e, err)
			}
			values = append(values, v)
		}
		names = append(names, strings.TrimSpace(name))
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	names, ranges, err := parseGrid(gridEntries)
	if err != nil {
		return err
	}
	best, val, candidates, err := optim.NewGridSearch(names, ranges).
		Search(cmd.Context(), cfg, experiment.NewRegistry(), metricName)
	if err != nil {
		return err
	}

	fmt.Printf("evaluated %d combinations of %s on %s\n", len(candidates), strings.Join(names, ", "), cfg.Scenario)
	keys := make([]string, 0, len(best))
	for k := range best {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %s = %g\n", k, best[k])
	}
	fmt.Printf("%s: %.6g\n", metricName, val)
	return nil
}

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/san-kum/particlesim/internal/automation"
	"github.com/san-kum/particlesim/internal/config"
	"github.com/san-kum/particlesim/internal/experiment"
	"github.com/san-kum/particlesim/internal/sim"
	"github.com/san-kum/particlesim/internal/storage"
	"github.com/spf13/cobra"
)

var logger = log.New(os.Stderr, "particlesim: ", 0)

var (
	dataDir    string
	configFile string
	preset     string
	integrator string
	step       float64
	frame      float64
	duration   float64
	seed       int64
	// Scripted input and snapshots
	scriptFile   string
	snapshotFile string
	resumeFile   string
	// Series selection for plot, analyze and svg
	particle int
	axisName string
	// Parameter sweep
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	// Grid search
	gridEntries []string
	metricName  string
	// Grid commands
	fluidSteps   int
	markerFrames int
	themeName    string
	svgWidth     int
	svgHeight    int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "particlesim",
		Short:        "mass-spring and grid fluid simulation lab",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".particlesim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a particle scenario and store the result",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().StringVar(&scriptFile, "script", "", "automation script (yaml)")
	runCmd.Flags().StringVar(&snapshotFile, "snapshot", "", "write the final state to this file")
	runCmd.Flags().StringVar(&resumeFile, "resume", "", "start from a saved snapshot")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot one particle coordinate of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	addSeriesFlags(plotCmd)

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "spectrum, period and phase portrait of a particle coordinate",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	addSeriesFlags(analyzeCmd)

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id] [file]",
		Short: "export run data to JSON (stdout by default)",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  exportJSON,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [scenario]",
		Short: "run every integrator side by side against rk4",
		Args:  cobra.ExactArgs(1),
		RunE:  compareIntegrators,
	}
	addSimFlags(compareCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario]",
		Short: "sweep one particle parameter and report stability",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "stiffness",
		fmt.Sprintf("parameter (%s)", strings.Join(automation.Params(), ", ")))
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 1, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 20, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "n", 5, "number of values")

	optimizeCmd := &cobra.Command{
		Use:   "optimize [scenario]",
		Short: "grid search parameters for the lowest metric among stable runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runOptimize,
	}
	addSimFlags(optimizeCmd)
	optimizeCmd.Flags().StringArrayVar(&gridEntries, "grid", []string{"step=0.01,0.005,0.0025"}, "name=v1,v2,... (repeatable)")
	optimizeCmd.Flags().StringVar(&metricName, "metric", "energy_drift", "metric to minimize")

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list particle scenarios",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range experiment.NewRegistry().ListScenarios() {
				fmt.Println(name)
			}
		},
	}

	fluidCmd := &cobra.Command{
		Use:   "fluid",
		Short: "step the grid fluid solver and print the density field",
		Args:  cobra.NoArgs,
		RunE:  runFluid,
	}
	addConfigFlags(fluidCmd)
	fluidCmd.Flags().IntVar(&fluidSteps, "steps", 24, "solver steps")
	fluidCmd.Flags().StringVar(&scriptFile, "script", "", "automation script (yaml)")
	fluidCmd.Flags().StringVar(&snapshotFile, "snapshot", "", "write the final grid to this file")
	fluidCmd.Flags().StringVar(&resumeFile, "resume", "", "start from a saved grid snapshot")
	fluidCmd.Flags().StringVar(&themeName, "theme", "ocean", "density ramp theme")

	markerCmd := &cobra.Command{
		Use:   "marker",
		Short: "advect markers over the cell grid and print the classification",
		Args:  cobra.NoArgs,
		RunE:  runMarkers,
	}
	addConfigFlags(markerCmd)
	markerCmd.Flags().Float64Var(&frame, "frame", config.DefaultFrame, "frame time")
	markerCmd.Flags().IntVar(&markerFrames, "frames", 10, "frames to advance")

	liveCmd := &cobra.Command{
		Use:   "live [scenario|fluid]",
		Short: "interactive terminal view",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().StringVar(&themeName, "theme", "ocean", "color theme")

	svgCmd := &cobra.Command{
		Use:   "svg [scenario] [file]",
		Short: "run a scenario and draw its final frame as SVG",
		Args:  cobra.ExactArgs(2),
		RunE:  writeSVG,
	}
	addSimFlags(svgCmd)
	svgCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	svgCmd.Flags().IntVar(&svgHeight, "height", 600, "image height")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, analyzeCmd, exportJSONCmd, compareCmd, sweepCmd, optimizeCmd,
		presetsCmd, scenariosCmd, fluidCmd, markerCmd, liveCmd, svgCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Print(err)
		stop()
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

func addSimFlags(cmd *cobra.Command) {
	addConfigFlags(cmd)
	cmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator (euler, trapezoidal, rk4)")
	cmd.Flags().Float64Var(&step, "step", config.DefaultStep, "integration step")
	cmd.Flags().Float64Var(&frame, "frame", config.DefaultFrame, "simulated time per frame")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
}

func addSeriesFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&particle, "particle", 0, "particle index")
	cmd.Flags().StringVar(&axisName, "axis", "y", "coordinate axis (x, y, z)")
}

// loadConfig layers defaults, preset, config file, environment and
// explicitly set flags, in that order.
func loadConfig(cmd *cobra.Command, scenario string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(scenario, preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(scenario))
		}
	}
	if configFile != "" {
		if err := config.Overlay(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}
	cfg.Scenario = scenario

	flags := cmd.Flags()
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("step") {
		cfg.Step = step
	}
	if flags.Changed("frame") {
		cfg.Frame = frame
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("steps") {
		cfg.Fluid.Steps = fluidSteps
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newExperiment(cmd *cobra.Command, scenario string) (*experiment.Experiment, error) {
	cfg, err := loadConfig(cmd, scenario)
	if err != nil {
		return nil, err
	}
	return experiment.New(cfg, experiment.NewRegistry())
}

func runSimulation(cmd *cobra.Command, args []string) error {
	exp, err := newExperiment(cmd, args[0])
	if err != nil {
		return err
	}
	cfg := exp.Config()

	if resumeFile != "" {
		snap, err := storage.LoadParticleSnapshot(resumeFile)
		if err != nil {
			return err
		}
		if snap.Scenario != cfg.Scenario {
			return fmt.Errorf("snapshot %s is for scenario %s, not %s", resumeFile, snap.Scenario, cfg.Scenario)
		}
		if err := exp.GetSimulator().SetState(snap.State); err != nil {
			return err
		}
	}

	var result *sim.Result
	if scriptFile != "" {
		script, err := automation.LoadScript(scriptFile)
		if err != nil {
			return err
		}
		var player *automation.Player
		result, player, err = automation.RunParticles(cmd.Context(), exp, script)
		if err != nil {
			return err
		}
		for _, c := range player.Fired() {
			logger.Printf("script %s: %s", script.Name, c)
		}
	} else {
		result, err = exp.Run(cmd.Context())
		if err != nil {
			return err
		}
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	id, err := st.Save(storage.RunMetadata{
		Scenario:   cfg.Scenario,
		Seed:       cfg.Seed,
		Step:       cfg.Step,
		Frame:      cfg.Frame,
		Duration:   cfg.Duration,
		Integrator: cfg.Integrator,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("run saved: %s\n", id)
	fmt.Printf("steps: %d of %.4g, frames: %d\n", result.Steps, exp.GetSimulator().StepSize(), len(result.States))
	if p, ok := exp.Scenario().System.(interface{ GetParams() map[string]float64 }); ok {
		fmt.Println("parameters:")
		printValues(p.GetParams())
	}
	fmt.Println("metrics:")
	printValues(result.Metrics)

	if snapshotFile != "" {
		snap := storage.ParticleSnapshot{
			Scenario: cfg.Scenario,
			Time:     exp.GetSimulator().Time(),
			State:    result.Final(),
		}
		if err := storage.SaveParticleSnapshot(snapshotFile, snap); err != nil {
			return err
		}
		fmt.Printf("snapshot written: %s\n", snapshotFile)
	}
	return nil
}

func printValues(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, m[name])
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tDURATION\tSTEP\tINTEG\tSTEPS\tDRIFT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%d\t%.3g\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Step,
			run.Integrator,
			run.Steps,
			run.EnergyDrift,
		)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	scenarios := make([]string, 0, len(config.Presets))
	if len(args) == 1 {
		if _, ok := config.Presets[args[0]]; !ok {
			return fmt.Errorf("no presets for scenario %s", args[0])
		}
		scenarios = append(scenarios, args[0])
	} else {
		for name := range config.Presets {
			scenarios = append(scenarios, name)
		}
		sort.Strings(scenarios)
	}
	for _, s := range scenarios {
		fmt.Printf("%s:\n", s)
		for _, p := range config.ListPresets(s) {
			fmt.Printf("  %s\n", p)
		}
	}
	return nil
}

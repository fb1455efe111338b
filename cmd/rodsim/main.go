package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/rodsim/internal/automation"
	"github.com/san-kum/rodsim/internal/boundary"
	"github.com/san-kum/rodsim/internal/config"
	"github.com/san-kum/rodsim/internal/experiment"
	"github.com/san-kum/rodsim/internal/export"
	"github.com/san-kum/rodsim/internal/integrators"
	"github.com/san-kum/rodsim/internal/optim"
	"github.com/san-kum/rodsim/internal/sim"
	"github.com/san-kum/rodsim/internal/storage"
	"github.com/san-kum/rodsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	dt         float64
	duration   float64
	slack      float64
	rotations  float64
	twistTime  float64
	elements   int
	sample     int
	stepper    string
	damping    float64
	sweepList  string
	snapOut    string
	svgOut     string
	tuneParams []string
	tuneMetric string
	tuneTarget float64
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("rodsim: ")

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rodsim",
		Short: "rod boundary condition lab",
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".rodsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation with live visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addRunFlags(liveCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run one simulation per rotation count",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepList, "values", "1,2,4,8", "comma separated rotation counts")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "run a simulation and draw the final rod as svg",
		Args:  cobra.NoArgs,
		RunE:  runSnapshot,
	}
	addRunFlags(snapshotCmd)
	snapshotCmd.Flags().StringVarP(&snapOut, "out", "o", "rod.svg", "output file")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search boundary parameters for a target metric",
		Long:  "tune runs every combination of the given values and reports the one whose\n" +
			"metric lands closest to --target. Values are given as name=v1,v2,...",
		Args: cobra.NoArgs,
		RunE: runTune,
	}
	addRunFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&tuneParams, "grid", nil, "parameter grid, e.g. slack=1,2,3 (repeatable; one of "+strings.Join(optim.Params(), ", ")+")")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "end_to_end", "metric to match")
	tuneCmd.Flags().Float64Var(&tuneTarget, "target", 0, "target metric value")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot end-to-end distance of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export end-to-end distance of a run as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&svgOut, "out", "o", "", "output file (default stdout)")

	rootCmd.AddCommand(runCmd, liveCmd, sweepCmd, tuneCmd, snapshotCmd, scenarioCmd, presetsCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, exportSVGCmd)
	return rootCmd
}

func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.Float64Var(&dt, "dt", 0.01, "timestep")
	f.Float64Var(&duration, "time", 3, "duration")
	f.Float64Var(&slack, "slack", 2, "total end approach")
	f.Float64Var(&rotations, "rotations", 1, "total turns applied")
	f.Float64Var(&twistTime, "twist-time", 2, "length of the driving phase")
	f.IntVar(&elements, "elements", 50, "rod elements")
	f.IntVar(&sample, "sample", 10, "record every n steps")
	f.StringVar(&stepper, "stepper", "kinematic", "stepper ("+strings.Join(integrators.Names(), ", ")+")")
	f.Float64Var(&damping, "damping", 0, "rate decay for the damped stepper")
}

// resolveConfig layers defaults, then a preset, then a config file, then
// flags the user actually set.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		if preset != "" {
			log.Printf("--config overrides --preset %s", preset)
		}
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("slack") {
		cfg.Boundary.Slack = slack
	}
	if flags.Changed("rotations") {
		cfg.Boundary.Rotations = rotations
	}
	if flags.Changed("twist-time") {
		cfg.Boundary.TwistingTime = twistTime
	}
	if flags.Changed("elements") {
		cfg.Rod.Elements = elements
	}
	if flags.Changed("sample") {
		cfg.SampleEvery = sample
	}
	if flags.Changed("stepper") {
		cfg.Stepper = stepper
	}
	if flags.Changed("damping") {
		cfg.Damping = damping
	}

	if kind, err := boundary.ParseKind(cfg.Boundary.Kind); err == nil && kind != boundary.KindHelicalBuckling {
		for _, name := range []string{"slack", "rotations", "twist-time"} {
			if flags.Changed(name) {
				log.Printf("--%s has no effect on a %s rod", name, kind)
			}
		}
	}

	return cfg, cfg.Validate()
}

// signalContext is cancelled on interrupt so a long run still reports what
// it reached.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %s (%s, %d elements)...\n", cfg.Name(), cfg.Boundary.Kind, cfg.Rod.Elements)
	start := time.Now()

	result, runErr := exp.Run(ctx)
	if result == nil {
		return runErr
	}
	if runErr != nil {
		log.Printf("run stopped early: %v", runErr)
	}

	elapsed := time.Since(start)

	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}

	final := result.Final()
	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	if final.Phase != "" {
		fmt.Printf("final phase: %s\n", final.Phase)
	}
	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)

	return runErr
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}
	return viz.Run(cfg.Name(), exp.GetSimulator(), exp.SimConfig())
}

func parseFloats(list string) ([]float64, error) {
	parts := strings.Split(list, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: %w", p, err)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no values given")
	}
	return out, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	values, err := parseFloats(sweepList)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	results, err := experiment.SweepRotations(ctx, cfg, values)
	if err != nil {
		return err
	}

	fmt.Printf("%d runs in %v\n\n", len(results), time.Since(start))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ROTATIONS\tEND_TO_END\tTWIST\tMAX_END_SPEED\tPHASE")
	for _, r := range results {
		fmt.Fprintf(w, "%g\t%.6f\t%.4f\t%.6f\t%s\n",
			r.Rotations,
			r.Result.Metrics["end_to_end"],
			r.Result.Metrics["end_twist"],
			r.Result.Metrics["max_end_speed"],
			r.Result.Final().Phase,
		)
	}
	return w.Flush()
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if len(tuneParams) == 0 {
		return fmt.Errorf("at least one --grid is required")
	}

	names := make([]string, 0, len(tuneParams))
	ranges := make([][]float64, 0, len(tuneParams))
	for _, g := range tuneParams {
		name, list, ok := strings.Cut(g, "=")
		if !ok {
			return fmt.Errorf("invalid grid %q, expected name=v1,v2", g)
		}
		values, err := parseFloats(list)
		if err != nil {
			return fmt.Errorf("grid %s: %w", name, err)
		}
		names = append(names, strings.TrimSpace(name))
		ranges = append(ranges, values)
	}

	search, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	best, dist, err := search.Search(ctx, cfg, tuneMetric, tuneTarget)
	if err != nil {
		return err
	}

	fmt.Printf("best match for %s = %g (off by %.6g):\n", tuneMetric, tuneTarget, dist)
	for _, name := range names {
		fmt.Printf("  %s: %g\n", name, best[name])
	}
	return nil
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}
	a, _ := exp.Rod().Start()
	b, _ := exp.Rod().End()
	cam := viz.NewCamera(a, b)

	ctx, cancel := signalContext()
	defer cancel()
	if _, err := exp.Run(ctx); err != nil {
		return err
	}

	f, err := os.Create(snapOut)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := export.RodSVG(f, exp.Rod(), cam, 600, 600); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", snapOut)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunScenario(ctx, scenario, st)
	for i, r := range results {
		id := r.RunID
		if id == "" {
			id = "-"
		}
		fmt.Printf("step %d: %s end_to_end=%.6f twist=%.4f run=%s\n",
			i+1, r.Config.Name(), r.Result.Metrics["end_to_end"], r.Result.Metrics["end_twist"], id)
	}
	return err
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tBOUNDARY\tELEMENTS\tDT\tDURATION\tSTEPPER")
	for _, name := range config.ListPresets() {
		p := config.Presets[name]
		fmt.Fprintf(w, "%s\t%s\t%d\t%g\t%g\t%s\n", name, p.Boundary.Kind, p.Rod.Elements, p.Dt, p.Duration, p.Stepper)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tBOUNDARY\tTIME\tDURATION\tDT\tSTEPPER\tEND_TO_END")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%g\t%s\t%.4f\n",
			run.ID,
			run.Boundary,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Stepper,
			run.Metrics["end_to_end"],
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, []sim.Sample, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(samples) == 0 {
		return nil, nil, fmt.Errorf("run %s has no samples", runID)
	}
	return meta, samples, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("boundary: %s\n", meta.Boundary)
	fmt.Printf("samples: %d\n\n", len(samples))

	dist := make([]float64, len(samples))
	axial := make([]float64, len(samples))
	for i, s := range samples {
		dist[i] = s.EndToEnd()
		axial[i] = s.Start.Sub(samples[0].Start).Len()
	}

	fmt.Println(asciigraph.Plot(dist, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("end-to-end distance")))
	fmt.Println()
	fmt.Println(asciigraph.Plot(axial, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("start end displacement")))
	fmt.Println()

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}

	result := &sim.Result{Samples: samples, Metrics: meta.Metrics, StepsTaken: meta.Steps}
	cfg := &config.Config{
		Preset:   meta.Preset,
		Rod:      config.RodConfig{Elements: meta.Elements, Length: meta.Length},
		Boundary: config.BoundaryConfig{Kind: meta.Boundary, Params: meta.Params},
		Stepper:  meta.Stepper,
		Damping:  meta.Damping,
		Dt:       meta.Dt,
		Duration: meta.Duration,
	}
	return storage.ExportJSON(os.Stdout, cfg, result)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.WriteCSV(os.Stdout, samples)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}

	if svgOut == "" {
		return export.EndToEndSVG(os.Stdout, samples, 800, 400)
	}
	f, err := os.Create(svgOut)
	if err != nil {
		return err
	}
	defer f.Close()
	return export.EndToEndSVG(f, samples, 800, 400)
}

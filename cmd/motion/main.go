package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/motion/internal/analysis"
	"github.com/san-kum/motion/internal/config"
	"github.com/san-kum/motion/internal/export"
	"github.com/san-kum/motion/internal/logging"
	"github.com/san-kum/motion/internal/metrics"
	"github.com/san-kum/motion/internal/optim"
	"github.com/san-kum/motion/internal/sim"
	"github.com/san-kum/motion/internal/sink"
	"github.com/san-kum/motion/internal/spring"
	"github.com/san-kum/motion/internal/storage"
	"github.com/san-kum/motion/internal/viz"
)

var (
	settings config.Settings
	logger   logging.Logger = logging.Nop()

	dataDir  string
	logLevel string

	scenarioFile string
	intervalMs   float64
	jitterMs     float64
	duration     float64
	seed         int64
	noStop       bool
	jsonlPath    string

	plotKeyName string
	jsonOutPath string
	svgOutPath  string
	easeName    string

	benchRuns     int
	benchLimit    int
	benchJitterMs float64

	maxOvershoot float64
	gridSize     int

	livePreset  string
	metricsAddr string
	toStdout    bool
)

// main registers the motion commands and exits with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "motion",
		Short:         "spring animation driver lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			settings, err = config.LoadSettings()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("data") {
				settings.DataDir = dataDir
			}
			if cmd.Flags().Changed("log-level") {
				settings.LogLevel = logLevel
			}
			if cmd.Flags().Changed("metrics-addr") {
				settings.MetricsAddr = metricsAddr
			}
			l, err := logging.New(settings.LogLevel, os.Stderr)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "./runs", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "simulate a scenario and store the run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().StringVar(&jsonlPath, "jsonl", "", "also write frames as JSON lines to this file (- for stdout)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotKeyName, "key", "", "key to plot (default: all)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&jsonOutPath, "output", "o", "-", "output file (- for stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render a stored run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&svgOutPath, "output", "o", "run.svg", "output file")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "search stiffness and damping for a goal",
		RunE:  tuneSpring,
	}
	tuneCmd.Flags().StringVar(&easeName, "ease", "", "match this easing instead of settling fastest")
	tuneCmd.Flags().Float64Var(&maxOvershoot, "max-overshoot", 0.02, "largest overshoot allowed when settling fastest")
	tuneCmd.Flags().IntVar(&gridSize, "grid", 12, "grid points per parameter")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list scenario and spring presets",
		RunE:  listPresets,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [run_id]",
		Short: "compare a stored run with easing curves",
		Args:  cobra.ExactArgs(1),
		RunE:  compareRun,
	}
	compareCmd.Flags().StringVar(&plotKeyName, "key", "", "key to compare (default: first key)")
	compareCmd.Flags().StringVar(&easeName, "ease", "", "plot against this easing ("+strings.Join(analysis.EaseNames(), ", ")+")")

	benchCmd := &cobra.Command{
		Use:   "bench [preset]",
		Short: "simulate every preset, or one preset under many seeds",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScenarios,
	}
	benchCmd.Flags().IntVar(&benchRuns, "runs", 8, "seeds per preset")
	benchCmd.Flags().IntVar(&benchLimit, "parallel", 4, "concurrent runs")
	benchCmd.Flags().Float64Var(&benchJitterMs, "jitter", 4, "frame jitter in ms")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "drive a spring interactively in the terminal",
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&livePreset, "spring", "noWobble", "initial spring preset")
	liveCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")

	streamCmd := &cobra.Command{
		Use:   "stream [preset]",
		Short: "play a scenario in real time and publish frames over MQTT",
		Args:  cobra.MaximumNArgs(1),
		RunE:  streamScenario,
	}
	addScenarioFlags(streamCmd)
	streamCmd.Flags().BoolVar(&toStdout, "stdout", false, "write JSON lines to stdout instead of MQTT")
	streamCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportJSONCmd, exportSVGCmd, presetsCmd, compareCmd, tuneCmd, benchCmd, liveCmd, streamCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&scenarioFile, "file", "f", "", "scenario file (yaml)")
	cmd.Flags().Float64Var(&intervalMs, "interval", config.DefaultFrameIntervalMs, "frame interval in ms")
	cmd.Flags().Float64Var(&jitterMs, "jitter", 0, "frame jitter in ms")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "maximum duration in seconds")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().BoolVar(&noStop, "no-stop", false, "keep running after the animation rests")
}

// loadScenario resolves the preset argument or --file, then applies any
// frame timing flags that were set explicitly.
func loadScenario(cmd *cobra.Command, args []string) (sim.Scenario, sim.Config, error) {
	sc := config.DefaultScenario()
	switch {
	case scenarioFile != "":
		loaded, err := config.Load(scenarioFile)
		if err != nil {
			return sim.Scenario{}, sim.Config{}, err
		}
		sc = loaded
	case len(args) == 1:
		sc = config.GetPreset(args[0])
		if sc == nil {
			return sim.Scenario{}, sim.Config{}, fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
		}
	}

	flags := cmd.Flags()
	if flags.Changed("interval") {
		sc.FrameIntervalMs = intervalMs
	}
	if flags.Changed("jitter") {
		sc.JitterMs = jitterMs
	}
	if flags.Changed("time") {
		sc.Duration = duration
	}
	if flags.Changed("seed") || sc.Seed == 0 {
		sc.Seed = seed
	}
	if noStop {
		sc.StopAtRest = false
	}
	return sc.Build()
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(settings.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	s := sim.New()
	s.SetLogger(logger)
	for _, m := range metrics.ForScenario(sc) {
		s.AddMetric(m)
	}

	var rec *sink.Recorder
	if jsonlPath != "" {
		out := os.Stdout
		if jsonlPath != "-" {
			f, err := os.Create(jsonlPath)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		rec = sink.NewRecorder(sink.JSONLines(out))
		s.AddObserver(rec)
	}

	logger.Info("running scenario", "name", sc.Name, "keys", len(sc.Target), "events", len(sc.Events))
	start := time.Now()

	result, err := s.Run(cmd.Context(), sc, cfg)
	if err != nil {
		return err
	}
	if rec != nil && rec.Err() != nil {
		return fmt.Errorf("write frames: %w", rec.Err())
	}

	elapsed := time.Since(start)

	runID, err := st.Save(sc.Name, cfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d (host frames: %d, rests: %d)\n", len(result.Frames), result.HostFrames, len(result.Rests))
	fmt.Printf("final: %s\n", formatStyle(result.Final()))
	printMetrics(result.Metrics)
	return nil
}

func printMetrics(m map[string]float64) {
	if len(m) == 0 {
		return
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func formatStyle(s spring.PlainStyle) string {
	parts := make([]string, 0, len(s))
	for _, k := range s.Keys() {
		parts = append(parts, fmt.Sprintf("%s=%g", k, s[k]))
	}
	return strings.Join(parts, " ")
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(settings.DataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tFRAMES\tINTERVAL\tJITTER\tRESTS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%v\t%v\t%d\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.FrameInterval,
			run.Jitter,
			len(run.Rests),
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(settings.DataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	result, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(result.Frames) == 0 {
		return fmt.Errorf("run %s has no frames", runID)
	}

	fmt.Printf("run: %s (%s)\n\n", meta.ID, meta.Scenario)

	keys := result.Keys
	if plotKeyName != "" {
		keys = []string{plotKeyName}
	}
	for _, k := range keys {
		if _, ok := result.Frames[0][k]; !ok {
			return fmt.Errorf("run %s has no key %q (keys: %v)", runID, k, result.Keys)
		}
		fmt.Println(viz.PlotKey(result, k))
		fmt.Println()
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(settings.DataDir)
	if err := st.ExportJSON(args[0], jsonOutPath); err != nil {
		return err
	}
	if jsonOutPath != "-" && jsonOutPath != "" {
		fmt.Fprintf(os.Stderr, "exported to %s\n", jsonOutPath)
	}
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(settings.DataDir)
	result, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}

	file, err := os.Create(svgOutPath)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := export.RunToSVG(file, result, 800, 400); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", svgOutPath)
	return nil
}

func tuneSpring(cmd *cobra.Command, args []string) error {
	objective := optim.FastestSettle(maxOvershoot)
	goal := fmt.Sprintf("fastest settle with overshoot <= %.1f%%", 100*maxOvershoot)
	if easeName != "" {
		fn, err := analysis.Ease(easeName)
		if err != nil {
			return err
		}
		objective = optim.MatchEasing(fn)
		goal = "closest match to " + easeName
	}

	fmt.Printf("searching %dx%d grid for %s...\n", gridSize, gridSize, goal)
	start := time.Now()
	best, score, err := optim.TuneSpring(cmd.Context(), 100, gridSize, objective)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("stiffness: %.1f\ndamping: %.1f\nscore: %.4f\n", best.Stiffness, best.Damping, score)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SPRING\tSTIFFNESS\tDAMPING\tPRECISION")
	for _, name := range spring.PresetNames() {
		p, _ := spring.Preset(name)
		fmt.Fprintf(w, "%s\t%g\t%g\t%g\n", name, p.Stiffness, p.Damping, p.Precision)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "SCENARIO\tKEYS\tEVENTS\tINTERVAL\tJITTER")
	for _, name := range config.ListPresets() {
		sc := config.GetPreset(name)
		keys := make([]string, 0, len(sc.Style))
		for k := range sc.Style {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Fprintf(w, "%s\t%s\t%d\t%gms\t%gms\n", name, strings.Join(keys, ","), len(sc.Events), sc.FrameIntervalMs, sc.JitterMs)
	}
	return w.Flush()
}

func compareRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(settings.DataDir)
	result, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(result.Frames) < 2 {
		return fmt.Errorf("run %s has too few frames to compare", runID)
	}

	key := plotKeyName
	if key == "" {
		key = result.Keys[0]
	}
	values := result.Series(key)
	from, to := values[0], values[len(values)-1]

	if easeName != "" {
		fn, err := analysis.Ease(easeName)
		if err != nil {
			return err
		}
		c, err := analysis.CompareEasing(result.Times, values, from, to, fn)
		if err != nil {
			return err
		}

		t0, total := result.Times[0], result.Times[len(result.Times)-1]-result.Times[0]
		reference := make([]float64, len(values))
		for i, t := range result.Times {
			reference[i] = from + (to-from)*fn((t-t0)/total)
		}
		caption := fmt.Sprintf("%s vs %s: rms %.4f, max %.4f at %.0f%%", key, easeName, c.RMS, c.MaxDeviation, 100*c.MaxAt)
		fmt.Println(viz.PlotAgainst(values, reference, caption))
		return nil
	}

	ranked, err := analysis.BestFit(result.Times, values, from, to)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %g -> %g over %.3fs\n\n", key, from, to, result.Times[len(result.Times)-1])
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "EASING\tRMS\tMAX\tAT")
	for _, c := range ranked {
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.0f%%\n", c.Name, c.RMS, c.MaxDeviation, 100*c.MaxAt)
	}
	return w.Flush()
}

func benchScenarios(cmd *cobra.Command, args []string) error {
	newSim := func() *sim.Simulator {
		s := sim.New()
		s.SetLogger(logger)
		return s
	}

	if len(args) == 1 {
		return benchSeeds(cmd.Context(), args[0], newSim)
	}

	names := config.ListPresets()
	scenarios := make([]sim.Scenario, len(names))
	cfg := sim.DefaultConfig()
	cfg.Jitter = time.Duration(benchJitterMs * float64(time.Millisecond))
	for i, name := range names {
		sc, _, err := config.GetPreset(name).Build()
		if err != nil {
			return err
		}
		scenarios[i] = sc
	}

	start := time.Now()
	results, err := sim.RunAll(cmd.Context(), newSim, scenarios, cfg, benchLimit)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tFRAMES\tHOST\tRESTS\tLAST REST")
	for i, r := range results {
		last := "-"
		if len(r.Rests) > 0 {
			last = fmt.Sprintf("%.3fs", r.Rests[len(r.Rests)-1])
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\n", names[i], len(r.Frames), r.HostFrames, len(r.Rests), last)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d scenarios in %v\n", len(results), elapsed)
	return nil
}

func benchSeeds(ctx context.Context, name string, newSim func() *sim.Simulator) error {
	preset := config.GetPreset(name)
	if preset == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
	}
	sc, cfg, err := preset.Build()
	if err != nil {
		return err
	}
	cfg.Jitter = time.Duration(benchJitterMs * float64(time.Millisecond))

	ensemble := sim.NewEnsemble(func() *sim.Simulator {
		s := newSim()
		for _, m := range metrics.ForScenario(sc) {
			s.AddMetric(m)
		}
		return s
	}, benchRuns, 1)
	ensemble.SetLimit(benchLimit)

	start := time.Now()
	results, err := ensemble.Run(ctx, sc, cfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tFRAMES\tMEAN INTERVAL\tFINAL")
	worst := 0.0
	for i, r := range results {
		meanMs := 0.0
		if r.HostFrames > 0 {
			meanMs = 1000 * r.Times[len(r.Times)-1] / float64(r.HostFrames)
		}
		final := r.Final()
		for k, t := range sc.Target {
			if len(sc.Events) == 0 {
				worst = math.Max(worst, math.Abs(final[k]-t.Value()))
			}
		}
		fmt.Fprintf(w, "%d\t%d\t%.2fms\t%s\n", int64(i)+1, len(r.Frames), meanMs, formatStyle(final))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d runs in %v, worst final error %g\n", len(results), elapsed, worst)
	return nil
}

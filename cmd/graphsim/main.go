package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/graphsim/internal/config"
	"github.com/san-kum/graphsim/internal/dynamo"
	"github.com/san-kum/graphsim/internal/export"
	"github.com/san-kum/graphsim/internal/forcegraph"
	"github.com/san-kum/graphsim/internal/generate"
	"github.com/san-kum/graphsim/internal/logx"
	"github.com/san-kum/graphsim/internal/metrics"
	"github.com/san-kum/graphsim/internal/storage"
	"github.com/san-kum/graphsim/internal/vector"
	"github.com/san-kum/graphsim/internal/viz"
)

var (
	dataDir    string
	configFile string
	verbose    bool
	debug      bool
	quiet      bool

	preset       string
	nodes        int
	probability  float64
	clusters     int
	seed         int64
	placement    string
	ticks        int
	duration     time.Duration
	settle       float64
	theta        float64
	assignGroups bool
	lockFrac     float64
	duplicates   bool

	// plot / svg
	metricName string
	outFile    string
	svgWidth   int
	svgHeight  int
	positions  bool

	// bench
	benchSizes []int
	benchSeeds int

	// watch
	ticksPerFrame int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "graphsim",
		Short: "force-directed graph layout lab",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logx.Setup(os.Stderr, logx.LevelFromFlags(debug, verbose, quiet))
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".graphsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "info logging")
	rootCmd.PersistentFlags().BoolVar(&debug, "vv", false, "debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "errors only")

	runCmd := &cobra.Command{
		Use:   "run [generator]",
		Short: "generate a graph, lay it out and save the run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addGraphFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a run summary",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot metric history",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&metricName, "metric", "", "plot only this metric")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export metric history (or final positions) to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().BoolVar(&positions, "positions", false, "export final node positions instead of history")

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render the final layout (or a metric history) as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  svgRun,
	}
	svgCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")
	svgCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	svgCmd.Flags().IntVar(&svgHeight, "height", 800, "image height")
	svgCmd.Flags().StringVar(&metricName, "metric", "", "plot this metric's history instead of the layout")

	benchCmd := &cobra.Command{
		Use:   "bench [generator]",
		Short: "measure tick throughput over graph sizes",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchGenerator,
	}
	benchCmd.Flags().IntSliceVar(&benchSizes, "sizes", []int{100, 500, 1000, 2000}, "node counts")
	benchCmd.Flags().IntVar(&benchSeeds, "seeds", 4, "graphs per size, run concurrently")
	benchCmd.Flags().IntVar(&ticks, "ticks", 50, "ticks per graph")
	benchCmd.Flags().Float64Var(&theta, "theta", forcegraph.DefaultTheta, "Barnes-Hut opening threshold")
	benchCmd.Flags().Int64Var(&seed, "seed", 1, "first seed")

	presetsCmd := &cobra.Command{
		Use:   "presets [generator]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	watchCmd := &cobra.Command{
		Use:   "watch [generator]",
		Short: "tick a graph live in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  watchGraph,
	}
	addGraphFlags(watchCmd)
	watchCmd.Flags().IntVar(&ticksPerFrame, "ticks-per-frame", 1, "ticks between redraws")

	rootCmd.AddCommand(runCmd, listCmd, showCmd, plotCmd, exportJSONCmd, exportCSVCmd, svgCmd, benchCmd, presetsCmd, watchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addGraphFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().IntVar(&nodes, "nodes", config.DefaultNodes, "number of nodes")
	cmd.Flags().Float64Var(&probability, "p", config.DefaultProbability, "edge probability (random, clusters)")
	cmd.Flags().IntVar(&clusters, "clusters", config.DefaultClusters, "number of clusters")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().StringVar(&placement, "placement", config.DefaultPlacement, "starting layout: sphere or noise")
	cmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "maximum ticks")
	cmd.Flags().DurationVar(&duration, "time", 0, "wall-clock budget, e.g. 3s")
	cmd.Flags().Float64Var(&settle, "settle", 0, "stop once kinetic energy falls below this")
	cmd.Flags().Float64Var(&theta, "theta", config.DefaultTheta, "Barnes-Hut opening threshold")
	cmd.Flags().BoolVar(&assignGroups, "groups", false, "put nodes into random groups")
	cmd.Flags().Float64Var(&lockFrac, "lock", 0, "fraction of nodes to lock")
	cmd.Flags().BoolVar(&duplicates, "duplicate-edges", false, "append an edge for every Connect call")
}

// resolveConfig layers defaults, preset, config file, environment and flags,
// lowest to highest.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	generator := config.DefaultGenerator
	if len(args) > 0 {
		generator = args[0]
	}

	base := config.DefaultConfig()
	if preset != "" {
		p := config.GetPreset(generator, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(generator))
		}
		base = p
	}

	cfg, err := config.Load(configFile, base)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if len(args) > 0 {
		cfg.Graph.Generator = generator
	}

	flags := cmd.Flags()
	if flags.Changed("nodes") {
		cfg.Graph.Nodes = nodes
	}
	if flags.Changed("p") {
		cfg.Graph.Probability = probability
	}
	if flags.Changed("clusters") {
		cfg.Graph.Clusters = clusters
	}
	if flags.Changed("seed") {
		cfg.Graph.Seed = seed
	}
	if flags.Changed("placement") {
		cfg.Graph.Placement = placement
	}
	if flags.Changed("ticks") {
		cfg.Sim.Ticks = ticks
	}
	if flags.Changed("time") {
		cfg.Sim.Duration = duration
	}
	if flags.Changed("settle") {
		cfg.Sim.SettleThreshold = settle
	}
	if flags.Changed("theta") {
		cfg.World.Theta = theta
	}
	if flags.Changed("groups") {
		cfg.AssignGroups = assignGroups
	}
	if flags.Changed("lock") {
		cfg.LockFraction = lockFrac
	}
	if flags.Changed("duplicate-edges") {
		cfg.World.AllowDuplicateEdges = duplicates
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildWorld creates the world described by cfg. The same config always
// yields the same graph.
func buildWorld(cfg *config.Config) (*forcegraph.World, []*forcegraph.Group, error) {
	groups := cfg.BuildGroups()
	w := forcegraph.NewWorld(cfg.WorldOptions(forcegraph.NewGroupTable(groups...))...)

	if err := generate.NewRegistry().Build(w, cfg.Graph.Generator, cfg.Params()); err != nil {
		return nil, nil, err
	}

	// offset so group and lock picks do not replay the generator stream
	src := vector.NewSource(cfg.Graph.Seed + 1)
	if cfg.AssignGroups {
		generate.AssignGroups(w, groups, src)
	}
	if cfg.LockFraction > 0 {
		generate.LockRandom(w, cfg.LockFraction, src)
	}
	return w, groups, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	w, _, err := buildWorld(cfg)
	if err != nil {
		return err
	}

	sim := dynamo.New(w)
	for _, m := range metrics.Defaults(w) {
		sim.AddMetric(m)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("laying out %s graph (%d nodes, %d edges)...\n", cfg.Graph.Generator, w.NodeCount(), w.EdgeCount())

	result, err := sim.Run(ctx, cfg.RunConfig())
	if err != nil {
		return err
	}

	runID, err := st.Save(cfg, w, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", result.Elapsed.Round(time.Millisecond))
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d", result.TicksTaken)
	if result.Settled {
		fmt.Print(" (settled)")
	}
	fmt.Println()
	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}

	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
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
	fmt.Fprintln(w, "ID\tGENERATOR\tTIME\tNODES\tEDGES\tTICKS\tSETTLED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%v\n",
			run.ID,
			run.Generator,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Nodes,
			run.Edges,
			run.Ticks,
			run.Settled,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	rows := []viz.Row{
		{Label: "Generator", Value: meta.Generator},
		{Label: "Seed", Value: strconv.FormatInt(meta.Seed, 10)},
		{Label: "Time", Value: meta.Timestamp.Format(time.RFC3339)},
		{Label: "Nodes", Value: strconv.Itoa(meta.Nodes)},
		{Label: "Edges", Value: strconv.Itoa(meta.Edges)},
		{Label: "Ticks", Value: strconv.Itoa(meta.Ticks)},
		{Label: "Elapsed", Value: fmt.Sprintf("%.3fs", meta.ElapsedSec)},
		{Label: "Settled", Value: strconv.FormatBool(meta.Settled)},
		{Label: "Radius", Value: fmt.Sprintf("%.2f", meta.Radius)},
	}
	for _, name := range sortedKeys(meta.Metrics) {
		rows = append(rows, viz.Row{Label: name, Value: fmt.Sprintf("%.6g", meta.Metrics[name])})
	}
	fmt.Println(viz.Panel(meta.ID, rows))

	history, err := st.LoadHistory(meta.ID)
	if err == nil && len(history[config.SettleMetric]) > 0 {
		fmt.Println(viz.Separator(60))
		fmt.Println(viz.SparklineChart(history[config.SettleMetric], 60))
	}
	if s, ok := meta.Metrics["stability"]; ok {
		fmt.Printf("stability %s %.0f%%\n", viz.ProgressBar(s, 30), s*100)
	}
	for _, e := range meta.Errors {
		fmt.Printf("error: %s\n", e)
	}
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	history, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(history))
	for name := range history {
		if metricName == "" || name == metricName {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if len(names) == 0 || len(history[names[0]]) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("generator: %s\n", meta.Generator)
	fmt.Printf("ticks: %d\n\n", meta.Ticks)

	for _, name := range names {
		graph := asciigraph.Plot(history[name],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(strings.ReplaceAll(name, "_", " ")),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	return st.ExportJSON(os.Stdout, args[0])
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if _, err := st.Load(args[0]); err != nil {
		return err
	}

	path := st.HistoryPath(args[0])
	if positions {
		path = st.PositionsPath(args[0])
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(os.Stdout, f)
	return err
}

func svgRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	var svg string
	if metricName != "" {
		history, err := st.LoadHistory(runID)
		if err != nil {
			return err
		}
		series, ok := history[metricName]
		if !ok {
			return fmt.Errorf("run %s has no metric %q", runID, metricName)
		}
		svg = export.HistorySVG(series, svgWidth, svgHeight, "#00ccff")
	} else {
		w, err := restoreWorld(st, runID)
		if err != nil {
			return err
		}
		svg = export.WorldSVG(w, svgWidth, svgHeight)
	}

	if outFile == "" {
		fmt.Println(svg)
		return nil
	}
	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}

// restoreWorld regenerates a run's graph from its config and moves every node
// to its saved final position.
func restoreWorld(st *storage.Store, runID string) (*forcegraph.World, error) {
	cfg, err := st.LoadConfig(runID)
	if err != nil {
		return nil, err
	}
	w, _, err := buildWorld(cfg)
	if err != nil {
		return nil, err
	}
	records, err := st.LoadPositions(runID)
	if err != nil {
		return nil, err
	}
	if len(records) != w.NodeCount() {
		return nil, fmt.Errorf("run %s: saved %d positions for %d regenerated nodes", runID, len(records), w.NodeCount())
	}

	w.Each(func(id forcegraph.NodeID, n *forcegraph.Node) {
		r := records[id]
		n.Location = r.Location
		n.Velocity = r.Velocity
		n.Group = r.Group
		n.Locked = r.Locked
	})
	return w, nil
}

func benchGenerator(cmd *cobra.Command, args []string) error {
	generator := config.DefaultGenerator
	if len(args) > 0 {
		generator = args[0]
	}
	registry := generate.NewRegistry()
	if _, err := registry.Get(generator); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("benchmarking %s (theta %.2f, %d graphs x %d ticks per size)\n\n", generator, theta, benchSeeds, ticks)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NODES\tEDGES\tTICK MS\tSTDDEV\tTICKS/SEC")

	for _, size := range benchSizes {
		var edges atomic.Int64
		build := func(s int64) (dynamo.System, []dynamo.Metric, error) {
			world := forcegraph.NewWorld(forcegraph.WithSeed(s), forcegraph.WithTheta(theta))
			p := generate.Params{Nodes: size, Probability: config.DefaultProbability, Clusters: config.DefaultClusters, Seed: s}
			if err := registry.Build(world, generator, p); err != nil {
				return nil, nil, err
			}
			edges.Store(int64(world.EdgeCount()))
			return world, nil, nil
		}

		ens := dynamo.NewEnsemble(build, benchSeeds, seed)
		results, err := ens.Run(ctx, dynamo.Config{Ticks: ticks})
		if err != nil {
			return err
		}

		perTick := make([]float64, len(results))
		for i, r := range results {
			perTick[i] = r.Elapsed.Seconds() * 1000 / float64(max(r.TicksTaken, 1))
		}
		mean := stat.Mean(perTick, nil)
		spread := 0.0
		if len(perTick) > 1 {
			spread = stat.StdDev(perTick, nil)
		}

		fmt.Fprintf(w, "%d\t%d\t%.3f\t%.3f\t%.0f\n", size, edges.Load(), mean, spread, 1000/mean)
	}

	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	generators := generate.NewRegistry().List()
	if len(args) > 0 {
		generators = args
	}

	for _, gen := range generators {
		presets := config.ListPresets(gen)
		if len(presets) == 0 {
			if len(args) > 0 {
				fmt.Printf("no presets for generator: %s\n", gen)
			}
			continue
		}
		sort.Strings(presets)
		fmt.Printf("presets for %s:\n", gen)
		for _, p := range presets {
			fmt.Printf("  %s\n", p)
		}
	}
	return nil
}

func watchGraph(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	w, groups, err := buildWorld(cfg)
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		groups = generate.DefaultGroups()
		for _, g := range groups {
			w.Groups().Add(g)
		}
	}

	m := viz.NewMonitor(cfg.Graph.Generator, w, groups, cfg.Graph.Seed)
	m.SetTicksPerFrame(ticksPerFrame)

	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

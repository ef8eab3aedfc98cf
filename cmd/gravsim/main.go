package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/san-kum/gravsim/internal/catalog"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/optim"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	configFile    string
	preset        string
	bodies        string
	dt            float64
	seed          int64
	collisions    bool
	useKnown      bool
	showComets    bool
	partitions    int
	workers       int
	ticks         int
	rebalance     uint64
	cometsFile    string
	asteroidsFile string
	verbose       bool
	force         bool
	listLimit     int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "gravsim",
		Short:        "partitioned n-body gravity engine",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging to stderr")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a scenario headless and print statistics",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	addScenarioFlags(runCmd)

	watchCmd := &cobra.Command{
		Use:   "watch [scenario]",
		Short: "run a scenario with the live statistics dashboard",
		Args:  cobra.MaximumNArgs(1),
		RunE:  watchScenario,
	}
	addScenarioFlags(watchCmd)

	benchCmd := &cobra.Command{
		Use:   "bench [scenario]",
		Short: "time ticks across worker counts",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScenario,
	}
	addScenarioFlags(benchCmd)

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list available scenarios",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range experiment.NewRegistry().List() {
				fmt.Println(name)
			}
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list available presets for a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for scenario: %s\n", args[0])
				return nil
			}
			sort.Strings(presets)
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				cfg := config.GetPreset(args[0], p)
				fmt.Printf("  %-10s bodies=%d dt=%.3g ticks=%d\n", p, cfg.BodyCount, cfg.DeltaTime, cfg.Ticks)
			}
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage configuration files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}
	configInitCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd)

	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "show the comet and asteroid catalogs",
		RunE:  showCatalog,
	}
	catalogCmd.Flags().StringVar(&cometsFile, "comets-file", "", "comet catalog csv (default: embedded)")
	catalogCmd.Flags().StringVar(&asteroidsFile, "asteroids-file", "", "asteroid catalog csv (default: embedded)")
	catalogCmd.Flags().IntVar(&listLimit, "limit", 10, "records to list per catalog")

	rootCmd.AddCommand(runCmd, watchCmd, benchCmd, scenariosCmd, presetsCmd, configCmd, catalogCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&bodies, "bodies", fmt.Sprint(def.BodyCount), "number of random bodies")
	cmd.Flags().Float64Var(&dt, "dt", def.DeltaTime, "timestep")
	cmd.Flags().Int64Var(&seed, "seed", def.Seed, "random seed")
	cmd.Flags().BoolVar(&collisions, "collisions", def.CollisionsEnabled, "merge colliding bodies")
	cmd.Flags().BoolVar(&useKnown, "known", def.UseKnownCatalog, "take asteroids from the catalog instead of sampling them")
	cmd.Flags().BoolVar(&showComets, "comets", def.ShowComets, "include comets in the population view")
	cmd.Flags().IntVar(&partitions, "partitions", def.Partitions, "transient partitions (0: 2x cpus)")
	cmd.Flags().IntVar(&workers, "workers", def.Workers, "worker goroutines (0: cpus)")
	cmd.Flags().IntVar(&ticks, "ticks", def.Ticks, "ticks to run (0: until interrupted)")
	cmd.Flags().Uint64Var(&rebalance, "rebalance", def.RebalanceInterval, "rebalance partitions every n ticks")
	cmd.Flags().StringVar(&cometsFile, "comets-file", "", "comet catalog csv (default: embedded)")
	cmd.Flags().StringVar(&asteroidsFile, "asteroids-file", "", "asteroid catalog csv (default: embedded)")
}

// resolveConfig layers defaults, preset, config file and explicit flags, in
// that order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if len(args) > 0 {
		cfg.Scenario = args[0]
	}

	if preset != "" {
		p := config.GetPreset(cfg.Scenario, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Scenario))
		}
		c := *p
		cfg = &c
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if len(args) > 0 {
			cfg.Scenario = args[0]
		}
	}

	flags := cmd.Flags()
	if flags.Changed("bodies") {
		cfg.BodyCount = config.ParseBodyCount(bodies)
	}
	if flags.Changed("dt") {
		cfg.DeltaTime = dt
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("collisions") {
		cfg.CollisionsEnabled = collisions
	}
	if flags.Changed("known") {
		cfg.UseKnownCatalog = useKnown
	}
	if flags.Changed("comets") {
		cfg.ShowComets = showComets
	}
	if flags.Changed("partitions") {
		cfg.Partitions = partitions
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("ticks") {
		cfg.Ticks = ticks
	}
	if flags.Changed("rebalance") {
		cfg.RebalanceInterval = rebalance
	}
	if flags.Changed("comets-file") {
		cfg.CometsFile = cometsFile
	}
	if flags.Changed("asteroids-file") {
		cfg.AsteroidsFile = asteroidsFile
	}
	return cfg, nil
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	exp := experiment.New(cfg, newLogger())
	defer exp.Close()
	if err := exp.Setup(registry, registry.DefaultMetrics(physics.DefaultConstants())); err != nil {
		return err
	}

	history := viz.NewHistory(0)
	exp.Runner().AddObserver(history)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s: %d bodies, %d ticks (ctrl+c to stop)\n", cfg.Scenario, cfg.BodyCount, cfg.Ticks)
	res, err := exp.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	fmt.Println(viz.Report(res, history))
	return nil
}

func watchScenario(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	exp := experiment.New(cfg, slog.New(slog.DiscardHandler))
	defer exp.Close()
	if err := exp.Setup(registry, nil); err != nil {
		return err
	}
	build, err := registry.Get(cfg.Scenario)
	if err != nil {
		return err
	}

	reset := func(sys *sim.BodySystem) error {
		return build(sys, cfg, rand.New(rand.NewSource(cfg.Seed)))
	}
	return viz.RunDashboard(viz.NewDashboard(exp.System(), cfg.Scenario, cfg.ShowComets, reset))
}

func benchScenario(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("ticks") && configFile == "" && preset == "" {
		cfg.Ticks = 50
	}
	if cfg.Ticks == 0 {
		return fmt.Errorf("bench needs a finite tick count")
	}

	workerCounts := []float64{1}
	for w := 2; w < runtime.NumCPU(); w *= 2 {
		workerCounts = append(workerCounts, float64(w))
	}
	if n := runtime.NumCPU(); n > 1 {
		workerCounts = append(workerCounts, float64(n))
	}
	// partitions per worker
	spreads := []float64{1, 2, 4}
	if cmd.Flags().Changed("partitions") {
		spreads = []float64{0}
	}

	registry := experiment.NewRegistry()
	log := newLogger()
	grid := optim.NewGridSearch([]string{"workers", "spread"}, [][]float64{workerCounts, spreads})
	build := func(params map[string]float64) (*experiment.Experiment, error) {
		run := *cfg
		run.Workers = int(params["workers"])
		if params["spread"] > 0 {
			run.Partitions = int(params["workers"] * params["spread"])
		}
		exp := experiment.New(&run, log)
		if err := exp.Setup(registry, nil); err != nil {
			exp.Close()
			return nil, err
		}
		return exp, nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("benchmarking %s: %d bodies, %d ticks per run\n\n", cfg.Scenario, cfg.BodyCount, cfg.Ticks)
	trials, best, err := grid.Search(ctx, build, optim.AvgTickSeconds)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WORKERS\tPARTITIONS\tBODIES\tTICKS\tAVG TICK\tTICKS/SEC")
	for _, t := range trials {
		res := t.Result
		partitions := cfg.Partitions
		if t.Params["spread"] > 0 {
			partitions = int(t.Params["workers"] * t.Params["spread"])
		}
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%s\t%.1f\n", int(t.Params["workers"]), partitions,
			res.Final.Transients, res.Ticks, res.Final.Stats.AvgTick().Round(time.Microsecond),
			float64(res.Ticks)/res.Elapsed.Seconds())
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nfastest: %d workers, avg tick %s\n", int(best.Params["workers"]),
		time.Duration(best.Score*float64(time.Second)).Round(time.Microsecond))
	return nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := "gravsim.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.Save(path, config.DefaultConfig()); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func showCatalog(cmd *cobra.Command, args []string) error {
	cat, err := catalog.Load(cometsFile, asteroidsFile)
	if err != nil {
		return err
	}
	c := physics.DefaultConstants()

	fmt.Printf("comets: %d  asteroids: %d  skipped rows: %d\n\n", len(cat.Comets), len(cat.Asteroids), cat.Skipped)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tNAME\tE\tA (AU)\tNODE\tPERI\tMASS (kg)")
	list := func(kind string, records []catalog.Record) {
		for i, r := range records {
			if i >= listLimit {
				break
			}
			fmt.Fprintf(w, "%s\t%s\t%.4f\t%.3f\t%.1f\t%.1f\t%.3g\n", kind, r.Name,
				r.Eccentricity, r.SemiMajorAxisRatio, r.LongAscendingNode, r.ArgPeriapsis, r.Mass(c))
		}
	}
	list("comet", cat.Comets)
	list("asteroid", cat.Asteroids)
	return w.Flush()
}

package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/mechsim/internal/assembly"
	"github.com/san-kum/mechsim/internal/body"
	"github.com/san-kum/mechsim/internal/config"
	"github.com/san-kum/mechsim/internal/driver"
	"github.com/san-kum/mechsim/internal/export"
	"github.com/san-kum/mechsim/internal/metrics"
	"github.com/san-kum/mechsim/internal/povray"
	"github.com/san-kum/mechsim/internal/storage"
	"github.com/san-kum/mechsim/internal/system"
	"github.com/san-kum/mechsim/internal/viz"
)

var (
	dataDir    string
	verbose    bool
	dt         float64
	duration   float64
	iterations int
	recovery   float64
	envelope   float64
	margin     float64
	configFile string
	preset     string
	// render output
	templateFile string
	scriptFile   string
	dataBase     string
	pictureBase  string
	// live view
	frameRate int
	// svg export
	svgBody string
	svgAxes string
	svgOut  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mechsim",
		Short: "rigid-body mechanism simulation with POV-Ray export",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				if l, err := zap.NewDevelopment(); err == nil {
					driver.SetLogger(l)
				}
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".mechsim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	renderCmd := &cobra.Command{
		Use:   "render [mechanism]",
		Short: "simulate a mechanism and export POV-Ray frames",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRender,
	}
	addRunFlags(renderCmd)
	renderCmd.Flags().StringVar(&templateFile, "template", "", "POV scene template file")
	renderCmd.Flags().StringVar(&scriptFile, "script", "", "output master script path")
	renderCmd.Flags().StringVar(&dataBase, "data-filebase", "", "per-frame data file prefix")
	renderCmd.Flags().StringVar(&pictureBase, "picture-filebase", "", "rendered picture prefix")

	runCmd := &cobra.Command{
		Use:   "run [mechanism]",
		Short: "simulate a mechanism and store the trajectory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot body trajectories from a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
		},
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a body trajectory from a stored run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&svgBody, "body", "", "body name (default: first body)")
	exportSVGCmd.Flags().StringVar(&svgAxes, "axes", "xy", "projection plane: xy, xz or yz")
	exportSVGCmd.Flags().StringVarP(&svgOut, "output", "o", "", "output file (default: <run_id>.svg)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [file]",
		Short: "write a starter config file with the default run setup",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "mechsim.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			if err := config.Save(path, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}

	liveCmd := &cobra.Command{
		Use:   "live [mechanism]",
		Short: "run a mechanism with live terminal visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addRunFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	rootCmd.AddCommand(renderCmd, runCmd, listCmd, plotCmd, exportJSONCmd, exportSVGCmd, presetsCmd, initCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().IntVar(&iterations, "iterations", config.DefaultIterations, "solver iterations")
	cmd.Flags().Float64Var(&recovery, "recovery", config.DefaultRecovery, "max penetration recovery speed")
	cmd.Flags().Float64Var(&envelope, "envelope", config.DefaultEnvelope, "default collision envelope")
	cmd.Flags().Float64Var(&margin, "margin", config.DefaultMargin, "default collision margin")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// resolveConfig merges preset, config file and explicit flags, in that
// priority order (flags win).
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("iterations") {
		cfg.Solver.Iterations = iterations
	}
	if cmd.Flags().Changed("recovery") {
		cfg.Solver.MaxRecoverySpeed = recovery
	}
	if cmd.Flags().Changed("envelope") {
		cfg.Collision.Envelope = envelope
	}
	if cmd.Flags().Changed("margin") {
		cfg.Collision.Margin = margin
	}

	if len(args) > 0 {
		cfg.Mechanism = args[0]
	}
	if cfg.Mechanism == "" {
		return nil, fmt.Errorf("no mechanism file (pass one or use --preset/--config)")
	}

	return cfg, nil
}

// buildSystem creates the context, applies tolerances and solver settings,
// then loads the mechanism into it.
func buildSystem(cfg *config.Config) (*system.System, error) {
	// set before the loader constructs bodies
	body.SetDefaultEnvelope(cfg.Collision.Envelope)
	body.SetDefaultMargin(cfg.Collision.Margin)

	sys := system.New()
	sys.Gravity = cfg.GravityVec()
	sys.Settings = cfg.SolverSettings()

	items, err := assembly.Load(cfg.Mechanism)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if err := sys.Add(item); err != nil {
			return nil, err
		}
	}
	return sys, nil
}

func buildExporter(sys *system.System, cfg *config.Config) *povray.Exporter {
	r := cfg.Render

	exp := povray.New(sys)
	if templateFile != "" {
		r.Template = templateFile
	}
	if scriptFile != "" {
		r.OutputScript = scriptFile
	}
	if dataBase != "" {
		r.DataFilebase = dataBase
	}
	if pictureBase != "" {
		r.PictureFilebase = pictureBase
	}

	if r.Template != "" {
		exp.SetTemplateFile(r.Template)
	}
	exp.SetOutputScriptFile(r.OutputScript)
	exp.SetOutputDataFilebase(r.DataFilebase)
	exp.SetPictureFilebase(r.PictureFilebase)
	exp.SetCamera(r.Camera.LocationVec(), r.Camera.LookAtVec(), r.Camera.Angle)
	if len(r.AmbientLight) == 3 {
		exp.SetAmbientLight(body.Color{R: r.AmbientLight[0], G: r.AmbientLight[1], B: r.AmbientLight[2]})
	}
	for _, l := range r.Lights {
		c := body.Color{R: 1, G: 1, B: 1}
		if len(l.Color) == 3 {
			c = body.Color{R: l.Color[0], G: l.Color[1], B: l.Color[2]}
		}
		exp.AddLight(l.PositionVec(), c, l.Intensity)
	}
	exp.SetPictureSize(r.Width, r.Height)
	if r.CustomCommands != "" {
		exp.SetCustomCommands(r.CustomCommands)
	}
	exp.AddAll()
	return exp
}

func newDriver(sys *system.System) *driver.Driver {
	d := driver.New(sys)
	d.AddMetric(metrics.NewEnergyDrift())
	d.AddMetric(metrics.NewViolation())
	d.AddMetric(metrics.NewContacts())
	return d
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	sys, err := buildSystem(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("loading mechanism %s...\n", cfg.Mechanism)
	for _, b := range sys.Bodies() {
		fmt.Printf("  %s\n", b.Name)
	}

	exp := buildExporter(sys, cfg)
	if err := exp.ExportScript(); err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	d := newDriver(sys)
	d.SetExporter(exp)

	fmt.Printf("rendering %.2fs at dt=%.4fs...\n", cfg.Duration, cfg.Dt)
	start := time.Now()

	runCfg := driver.Config{Dt: cfg.Dt, Duration: cfg.Duration}
	result, err := d.Run(context.Background(), runCfg)
	if err != nil {
		return err
	}

	runID, err := st.Save(cfg.Mechanism, runCfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", result.Frames)
	fmt.Printf("render with: povray %s\n", exp.INIPath())
	printMetrics(result)
	return nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	sys, err := buildSystem(cfg)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	d := newDriver(sys)

	fmt.Printf("running %s...\n", cfg.Mechanism)
	start := time.Now()

	runCfg := driver.Config{Dt: cfg.Dt, Duration: cfg.Duration}
	result, err := d.Run(context.Background(), runCfg)
	if err != nil {
		return err
	}

	runID, err := st.Save(cfg.Mechanism, runCfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.Steps)
	printMetrics(result)
	return nil
}

func printMetrics(result *driver.Result) {
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}
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
	fmt.Fprintln(w, "ID\tMECHANISM\tTIME\tDURATION\tDT\tSTEPS\tFRAMES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%d\n",
			run.ID,
			run.Mechanism,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Steps,
			run.Frames,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("mechanism: %s\n", meta.Mechanism)
	fmt.Printf("samples: %d\n\n", len(states))

	axes := [3]string{"x", "y", "z"}
	for bi, name := range meta.Bodies {
		for axis := 0; axis < 3; axis++ {
			col := bi*3 + axis
			if col >= len(states[0]) {
				continue
			}
			data := make([]float64, len(states))
			for i := range states {
				data[i] = states[i][col]
			}

			graph := asciigraph.Plot(data,
				asciigraph.Height(8),
				asciigraph.Width(80),
				asciigraph.Caption(fmt.Sprintf("%s.%s vs time", name, axes[axis])),
			)
			fmt.Println(graph)
			fmt.Println()
		}
	}

	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) < 2 {
		return fmt.Errorf("not enough samples to plot")
	}

	bodyIndex := 0
	if svgBody != "" {
		bodyIndex = -1
		for i, name := range meta.Bodies {
			if name == svgBody {
				bodyIndex = i
				break
			}
		}
		if bodyIndex < 0 {
			return fmt.Errorf("unknown body %q", svgBody)
		}
	}

	planes := map[string][2]int{
		"xy": {export.AxisX, export.AxisY},
		"xz": {export.AxisX, export.AxisZ},
		"yz": {export.AxisY, export.AxisZ},
	}
	plane, ok := planes[svgAxes]
	if !ok {
		return fmt.Errorf("unknown projection %q (want xy, xz or yz)", svgAxes)
	}

	points, err := export.BodyTrajectory(states, bodyIndex, plane[0], plane[1])
	if err != nil {
		return err
	}

	svg := export.TrajectoryToSVG(points, 800, 600, "#00ff00")

	out := svgOut
	if out == "" {
		out = runID + ".svg"
	}
	if err := os.WriteFile(out, []byte(svg), 0o644); err != nil {
		return err
	}

	fmt.Printf("wrote %s (%s, %s plane, %d samples)\n", out, meta.Bodies[bodyIndex], svgAxes, len(points))
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	sys, err := buildSystem(cfg)
	if err != nil {
		return err
	}

	m := viz.NewModel(sys, cfg.Dt, cfg.Duration, cfg.Mechanism, frameRate)
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

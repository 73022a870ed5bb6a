// Package main provides the CLI entrypoint for pacer.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/pacer/internal/calendarui"
	"github.com/verte-zerg/pacer/internal/coach"
	"github.com/verte-zerg/pacer/internal/config"
	"github.com/verte-zerg/pacer/internal/export"
	"github.com/verte-zerg/pacer/internal/logger"
	"github.com/verte-zerg/pacer/internal/model"
	"github.com/verte-zerg/pacer/internal/override"
	"github.com/verte-zerg/pacer/internal/pace"
	"github.com/verte-zerg/pacer/internal/plan"
	"github.com/verte-zerg/pacer/internal/report"
	"github.com/verte-zerg/pacer/internal/schedule"
	"github.com/verte-zerg/pacer/internal/store"
	"github.com/verte-zerg/pacer/internal/vdot"
)

const (
	defaultPlan         = "10k-base"
	defaultBaseTime     = "00:25:00"
	defaultBaseDistance = "5km"
	defaultLogMode      = "dev"
	defaultLogLevel     = "warn"
)

var (
	globalPlan     string
	globalDriver   string
	globalDSN      string
	globalLogMode  string
	globalLogLevel string

	vdotTime     string
	vdotDistance string

	pacesSet          []string
	pacesReset        []string
	pacesResetAll     bool
	pacesAdjust       float64
	pacesBaseTime     string
	pacesBaseDistance string

	scheduleStart string
	scheduleNow   string

	raceSegments []string
	raceTemp     float64
	raceHumidity float64
	raceWind     float64

	exportLogs     string
	exportSchedule string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pacer",
		Short:         "Training paces and plan calendar for runners",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runCalendarCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&globalPlan, "plan", defaultPlan, "training plan path")
	flags.StringVar(&globalDriver, "driver", store.DriverSQLite, "store driver (sqlite|postgres)")
	flags.StringVar(&globalDSN, "dsn", "", "store DSN (default: XDG data path for sqlite)")
	flags.StringVar(&globalLogMode, "log-mode", defaultLogMode, "log format (dev|prod)")
	flags.StringVar(&globalLogLevel, "log-level", defaultLogLevel, "log level")

	rootCmd.AddCommand(newVdotCmd())
	rootCmd.AddCommand(newPacesCmd())
	rootCmd.AddCommand(newScheduleCmd())
	rootCmd.AddCommand(newProgressCmd())
	rootCmd.AddCommand(newRaceCmd())
	rootCmd.AddCommand(newPlansCmd())
	rootCmd.AddCommand(newLogCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// app bundles what every command needs once config is resolved.
type app struct {
	cfg     config.FileConfig
	log     *logger.Logger
	store   *store.Store
	tables  *vdot.Tables
	catalog *plan.Catalog
	plan    model.Plan
	svc     *coach.Service
}

func openApp(cmd *cobra.Command) (*app, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "plan", &globalPlan, fileCfg.Profile.Plan)
	applyStringConfig(cmd, "driver", &globalDriver, fileCfg.Store.Driver)
	applyStringConfig(cmd, "dsn", &globalDSN, fileCfg.Store.DSN)
	applyStringConfig(cmd, "log-mode", &globalLogMode, fileCfg.Log.Mode)
	applyStringConfig(cmd, "log-level", &globalLogLevel, fileCfg.Log.Level)

	log, err := logger.New(globalLogMode, globalLogLevel)
	if err != nil {
		return nil, err
	}

	tolerance := schedule.DefaultTolerance
	if v := fileCfg.Matching.DistanceTolerance; v != nil {
		if *v <= 0 || *v >= 1 {
			return nil, fmt.Errorf("matching.distance-tolerance must be between 0 and 1")
		}
		tolerance = *v
	}

	tables, err := vdot.Default()
	if err != nil {
		return nil, fmt.Errorf("failed to load reference tables: %w", err)
	}

	catalog, err := plan.Bundled()
	if err != nil {
		return nil, err
	}
	plansDir := config.DefaultPlansDir()
	if fileCfg.Profile.PlansDir != nil {
		plansDir = *fileCfg.Profile.PlansDir
	}
	if err := catalog.LoadDir(plansDir); err != nil {
		return nil, fmt.Errorf("failed to load plans: %w", err)
	}
	current, err := catalog.Get(globalPlan)
	if err != nil {
		return nil, fmt.Errorf("%w (see: pacer plans)", err)
	}

	dsn := globalDSN
	if dsn == "" && globalDriver == store.DriverSQLite {
		dsn = config.DefaultDBPath()
	}
	st, err := store.Open(globalDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	defaults := override.Settings{BaseTime: defaultBaseTime, BaseDistance: defaultBaseDistance}
	if v := fileCfg.Profile.BaseTime; v != nil {
		defaults.BaseTime = *v
	}
	if v := fileCfg.Profile.BaseDistance; v != nil {
		defaults.BaseDistance = vdot.NormalizeDistance(*v)
	}

	svc := coach.New(st, tables, current, coach.Options{
		Defaults: defaults,
		Matcher:  schedule.NewMatcher(tolerance, log),
		Logger:   log,
	})
	log.Debug("opened", "plan", current.Path, "driver", globalDriver)
	return &app{
		cfg:     fileCfg,
		log:     log,
		store:   st,
		tables:  tables,
		catalog: catalog,
		plan:    current,
		svc:     svc,
	}, nil
}

func (a *app) Close() {
	if cerr := a.store.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
	a.log.Sync()
}

func runCalendarCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	m := calendarui.NewModel(a.svc, time.Now)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newVdotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vdot",
		Short: "Show fitness index, race predictions and paces for a race result",
		Args:  cobra.NoArgs,
		RunE:  runVdotCmd,
	}
	cmd.Flags().StringVar(&vdotTime, "time", "", "race time (HH:MM:SS or MM:SS)")
	cmd.Flags().StringVar(&vdotDistance, "distance", "", "race distance (e.g. 5km, 10k, half)")
	return cmd
}

func runVdotCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	var derived override.Derived
	if vdotTime == "" && vdotDistance == "" {
		derived, err = a.svc.Derive(cmd.Context())
		if err != nil {
			return err
		}
	} else {
		if _, err := pace.ParseClock(vdotTime); err != nil {
			return fmt.Errorf("invalid --time: %w", err)
		}
		distance := vdotDistance
		if distance == "" {
			distance = defaultBaseDistance
		}
		derived = override.Derive(a.tables, override.Settings{BaseTime: vdotTime, BaseDistance: vdot.NormalizeDistance(distance)})
	}

	out := cmd.OutOrStdout()
	if err := report.RenderIndex(out, a.tables, derived); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if _, err := fmt.Fprintln(out, ""); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := report.RenderPaces(out, derived.Paces); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newPacesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paces",
		Short: "Show or customize training paces",
		Args:  cobra.NoArgs,
		RunE:  runPacesCmd,
	}
	cmd.Flags().StringArrayVar(&pacesSet, "set", nil, "custom pace as name=M:SS (repeatable)")
	cmd.Flags().StringArrayVar(&pacesReset, "reset", nil, "drop the custom value of a pace (repeatable)")
	cmd.Flags().BoolVar(&pacesResetAll, "reset-all", false, "drop every custom pace and the adjustment factor")
	cmd.Flags().Float64Var(&pacesAdjust, "adjust", 0, "scale every pace by a fitness factor (80-120, 100 = neutral)")
	cmd.Flags().StringVar(&pacesBaseTime, "base-time", "", "benchmark race time")
	cmd.Flags().StringVar(&pacesBaseDistance, "base-distance", "", "benchmark race distance")
	return cmd
}

func runPacesCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := cmd.Context()

	if cmd.Flags().Changed("base-time") || cmd.Flags().Changed("base-distance") {
		current, err := a.svc.Settings(ctx)
		if err != nil {
			return err
		}
		baseTime, baseDistance := current.BaseTime, current.BaseDistance
		if pacesBaseTime != "" {
			baseTime = pacesBaseTime
		}
		if pacesBaseDistance != "" {
			baseDistance = pacesBaseDistance
		}
		if _, err := a.svc.SetBase(ctx, baseTime, baseDistance); err != nil {
			return err
		}
	}
	if pacesResetAll {
		if _, err := a.svc.ResetAll(ctx); err != nil {
			return err
		}
	}
	for _, name := range pacesReset {
		if _, err := a.svc.ResetPace(ctx, name); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("adjust") {
		if _, err := a.svc.ApplyAdjustment(ctx, pacesAdjust); err != nil {
			return err
		}
	}
	for _, entry := range pacesSet {
		name, value, ok := strings.Cut(entry, "=")
		if !ok {
			return fmt.Errorf("invalid --set %q (expected name=M:SS)", entry)
		}
		if _, err := a.svc.SetPace(ctx, strings.TrimSpace(name), value); err != nil {
			return err
		}
	}

	derived, err := a.svc.Derive(ctx)
	if err != nil {
		return err
	}
	settings, err := a.svc.Settings(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "Base: %s over %s  Index: %d (%s)  Factor: %g\n\n",
		settings.BaseTime, settings.BaseDistance, derived.Index, derived.Label, settings.AdjustmentFactor); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := report.RenderPaces(out, derived.Paces); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print the dated plan with paces and completions",
		Args:  cobra.NoArgs,
		RunE:  runScheduleCmd,
	}
	cmd.Flags().StringVar(&scheduleStart, "start", "", "store a new plan start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&scheduleNow, "now", "", "render as of this date (YYYY-MM-DD)")
	return cmd
}

func runScheduleCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if scheduleStart != "" {
		if _, err := a.svc.SetStartDate(cmd.Context(), scheduleStart); err != nil {
			return fmt.Errorf("invalid --start value: %w", err)
		}
	}
	view, err := loadView(cmd.Context(), a, scheduleNow)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "%s, starting %s\n\n", a.plan.Name, view.Start.Format(schedule.DateLayout)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := report.RenderSchedule(out, view.Blocks, view); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func loadView(ctx context.Context, a *app, nowInput string) (coach.View, error) {
	now := time.Now()
	if nowInput != "" {
		parsed, err := schedule.ParseDate(nowInput, time.Local)
		if err != nil {
			return coach.View{}, fmt.Errorf("invalid --now value: %w", err)
		}
		now = parsed
	}
	return a.svc.View(ctx, now)
}

func newProgressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show planned versus logged volume per week",
		Args:  cobra.NoArgs,
		RunE:  runProgressCmd,
	}
}

func runProgressCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	view, err := loadView(cmd.Context(), a, "")
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if err := report.RenderProgress(out, view.Progress, report.TerminalWidth(), report.ShouldUseColor(out)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newRaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "race",
		Short: "Plan race splits adjusted for weather",
		Args:  cobra.NoArgs,
		RunE:  runRaceCmd,
	}
	cmd.Flags().StringArrayVar(&raceSegments, "segment", nil, "segment as km@M:SS (repeatable)")
	cmd.Flags().Float64Var(&raceTemp, "temp", 15, "temperature in Celsius")
	cmd.Flags().Float64Var(&raceHumidity, "humidity", 50, "relative humidity in percent")
	cmd.Flags().Float64Var(&raceWind, "wind", 0, "headwind in km/h")
	return cmd
}

func runRaceCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFloatConfig(cmd, "temp", &raceTemp, fileCfg.Weather.Temperature)
	applyFloatConfig(cmd, "humidity", &raceHumidity, fileCfg.Weather.Humidity)
	applyFloatConfig(cmd, "wind", &raceWind, fileCfg.Weather.Wind)

	if len(raceSegments) == 0 {
		return fmt.Errorf("at least one --segment is required")
	}
	if raceHumidity < 0 || raceHumidity > 100 {
		return fmt.Errorf("--humidity must be between 0 and 100")
	}
	if raceWind < 0 {
		return fmt.Errorf("--wind must be >= 0")
	}
	segments := make([]pace.Segment, 0, len(raceSegments))
	for _, raw := range raceSegments {
		seg, err := pace.ParseSegment(raw)
		if err != nil {
			return err
		}
		segments = append(segments, seg)
	}
	racePlan := pace.PlanRace(segments, pace.Conditions{TemperatureC: raceTemp, HumidityPct: raceHumidity, WindKmh: raceWind})
	if err := report.RenderRacePlan(cmd.OutOrStdout(), racePlan); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newPlansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plans",
		Short: "List available training plans",
		Args:  cobra.NoArgs,
		RunE:  runPlansCmd,
	}
}

func runPlansCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	if err := report.RenderPlans(cmd.OutOrStdout(), a.catalog.List(), a.plan.Path); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export workout logs and the schedule as Parquet",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportLogs, "logs", "", "output path for workout logs")
	cmd.Flags().StringVar(&exportSchedule, "schedule", "", "output path for the composed schedule")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	if exportLogs == "" && exportSchedule == "" {
		return fmt.Errorf("nothing to export: pass --logs and/or --schedule")
	}
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	view, err := loadView(cmd.Context(), a, "")
	if err != nil {
		return err
	}
	if exportLogs != "" {
		n, err := export.WriteLogs(exportLogs, view.Logs)
		if err != nil {
			return fmt.Errorf("failed to export logs: %w", err)
		}
		logErrf("Wrote %d logs to %s\n", n, exportLogs)
	}
	if exportSchedule != "" {
		n, err := export.WriteSchedule(exportSchedule, export.ScheduleRows(view.Blocks, view))
		if err != nil {
			return fmt.Errorf("failed to export schedule: %w", err)
		}
		logErrf("Wrote %d schedule rows to %s\n", n, exportSchedule)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# pacer configuration
# Uncomment a value to enable it. CLI flags override config values.

[profile]
# plan = %q               # Training plan path (see: pacer plans)
# base-time = %q          # Benchmark race time
# base-distance = %q      # Benchmark race distance
# plans-dir = ""          # Extra directory of plan YAML files

[matching]
# distance-tolerance = %.2f  # Relative distance slack when matching logs to plan days

[store]
# driver = %q             # sqlite or postgres
# dsn = ""                # Database path or postgres URL

[log]
# mode = %q               # dev or prod
# level = %q              # debug, info, warn, error

[weather]
# temperature = 15        # Race-day temperature (C)
# humidity = 50           # Relative humidity (%%)
# wind = 0                # Headwind (km/h)
`,
		defaultPlan,
		defaultBaseTime,
		defaultBaseDistance,
		schedule.DefaultTolerance,
		store.DriverSQLite,
		defaultLogMode,
		defaultLogLevel,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

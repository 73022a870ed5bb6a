package main

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/pacer/internal/fitimport"
	"github.com/verte-zerg/pacer/internal/model"
	"github.com/verte-zerg/pacer/internal/pace"
	"github.com/verte-zerg/pacer/internal/report"
	"github.com/verte-zerg/pacer/internal/schedule"
	"github.com/verte-zerg/pacer/internal/store"
)

var (
	logDate     string
	logTitle    string
	logType     string
	logDistance float64
	logDuration string
	logDay      int

	logSince string
	logUntil string
	logLimit int
	logAll   bool

	logLink bool
)

func newLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record and manage completed workouts",
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Record a workout",
		Args:  cobra.NoArgs,
		RunE:  runLogAddCmd,
	}
	addLogFields(addCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded workouts",
		Args:  cobra.NoArgs,
		RunE:  runLogListCmd,
	}
	listCmd.Flags().StringVar(&logSince, "since", "", "first date to include (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&logUntil, "until", "", "last date to include (YYYY-MM-DD)")
	listCmd.Flags().IntVar(&logLimit, "limit", 0, "maximum number of rows (0 = all)")
	listCmd.Flags().BoolVar(&logAll, "all", false, "include workouts from every plan")

	editCmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a recorded workout",
		Args:  cobra.ExactArgs(1),
		RunE:  runLogEditCmd,
	}
	addLogFields(editCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a recorded workout",
		Args:  cobra.ExactArgs(1),
		RunE:  runLogDeleteCmd,
	}

	importCmd := &cobra.Command{
		Use:   "import <file.fit>...",
		Short: "Import workouts from FIT activity files",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runLogImportCmd,
	}
	importCmd.Flags().BoolVar(&logLink, "link", true, "attribute imported workouts to the current plan")

	cmd.AddCommand(addCmd, listCmd, editCmd, deleteCmd, importCmd)
	return cmd
}

func addLogFields(cmd *cobra.Command) {
	cmd.Flags().StringVar(&logDate, "date", "", "workout date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&logTitle, "title", "", "workout title")
	cmd.Flags().StringVar(&logType, "type", "running", "activity type")
	cmd.Flags().Float64Var(&logDistance, "distance", 0, "distance in km")
	cmd.Flags().StringVar(&logDuration, "duration", "", "moving time (HH:MM:SS or MM:SS)")
	cmd.Flags().IntVar(&logDay, "day", -1, "plan day index this workout fulfils (-1 = none)")
}

func runLogAddCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	date := time.Now().Format(schedule.DateLayout)
	if logDate != "" {
		date, err = normalizeDate(logDate)
		if err != nil {
			return err
		}
	}
	log := model.WorkoutLog{
		Date:         date,
		Title:        logTitle,
		ActivityType: strings.ToLower(strings.TrimSpace(logType)),
		PlanPath:     a.plan.Path,
		Source:       model.SourceManual,
	}
	if err := applyLogFields(cmd, a.plan, &log); err != nil {
		return err
	}
	if log.Title == "" {
		log.Title = defaultTitle(log.ActivityType)
	}

	saved, err := a.store.InsertLog(cmd.Context(), log)
	if err != nil {
		return fmt.Errorf("failed to save workout: %w", err)
	}
	a.log.Info("workout logged", "id", saved.ID, "date", saved.Date)
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Logged %s (%s)\n", report.ShortID(saved.ID), saved.Date)
	return err
}

func runLogListCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	filter := model.LogFilter{Limit: logLimit}
	if !logAll {
		filter.PlanPath = a.plan.Path
	}
	if logSince != "" {
		if filter.Since, err = normalizeDate(logSince); err != nil {
			return err
		}
	}
	if logUntil != "" {
		if filter.Until, err = normalizeDate(logUntil); err != nil {
			return err
		}
	}
	logs, err := a.store.ListLogs(cmd.Context(), filter)
	if err != nil {
		return fmt.Errorf("failed to list workouts: %w", err)
	}
	if len(logs) == 0 {
		logErrln("No workouts recorded.")
		return nil
	}
	return report.RenderLogs(cmd.OutOrStdout(), logs)
}

func runLogEditCmd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := cmd.Context()

	id, err := resolveLogID(ctx, a.store, args[0])
	if err != nil {
		return err
	}
	log, err := a.store.GetLog(ctx, id)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("date") {
		if log.Date, err = normalizeDate(logDate); err != nil {
			return err
		}
	}
	if flags.Changed("title") {
		log.Title = logTitle
	}
	if flags.Changed("type") {
		log.ActivityType = strings.ToLower(strings.TrimSpace(logType))
	}
	if err := applyLogFields(cmd, a.plan, &log); err != nil {
		return err
	}
	saved, err := a.store.UpdateLog(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to update workout: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", report.ShortID(saved.ID))
	return err
}

func runLogDeleteCmd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := cmd.Context()

	id, err := resolveLogID(ctx, a.store, args[0])
	if err != nil {
		return err
	}
	if err := a.store.DeleteLog(ctx, id); err != nil {
		return fmt.Errorf("failed to delete workout: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", report.ShortID(id))
	return err
}

func runLogImportCmd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	imported := 0
	for _, path := range args {
		sum, err := fitimport.ReadFile(path)
		if err != nil {
			logErrf("skip %s: %v\n", path, err)
			continue
		}
		log := fitimport.ToLog(sum, time.Local)
		if logLink {
			log.PlanPath = a.plan.Path
		}
		saved, err := a.store.InsertLog(cmd.Context(), log)
		if err != nil {
			return fmt.Errorf("failed to save %s: %w", path, err)
		}
		a.log.Info("workout imported", "path", path, "id", saved.ID)
		imported++
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s  %.2f km\n",
			report.ShortID(saved.ID), saved.Date, saved.Title, saved.Distance); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if imported == 0 {
		return fmt.Errorf("no workouts imported")
	}
	return nil
}

// applyLogFields copies the distance, duration, and day flags that were set
// and recomputes the pace.
func applyLogFields(cmd *cobra.Command, p model.Plan, log *model.WorkoutLog) error {
	flags := cmd.Flags()
	if flags.Changed("distance") {
		if logDistance < 0 {
			return fmt.Errorf("--distance must be >= 0")
		}
		log.Distance = logDistance
	}
	if flags.Changed("duration") {
		seconds, err := pace.ParseClock(logDuration)
		if err != nil {
			return fmt.Errorf("invalid --duration: %w", err)
		}
		log.Duration = int64(seconds)
	}
	if flags.Changed("day") {
		switch {
		case logDay < 0:
			log.PlanDayIndex = nil
		case logDay >= len(p.Days):
			return fmt.Errorf("--day must be between 0 and %d", len(p.Days)-1)
		default:
			day := logDay
			log.PlanDayIndex = &day
			log.PlanPath = p.Path
		}
	}
	if log.ActivityType == "" {
		return fmt.Errorf("--type must not be empty")
	}
	log.Pace, _ = pace.PerKm(log.Duration, log.Distance)
	return nil
}

// defaultTitle capitalizes the first rune of an activity type.
func defaultTitle(activityType string) string {
	r, size := utf8.DecodeRuneInString(activityType)
	if r == utf8.RuneError {
		return activityType
	}
	return string(unicode.ToUpper(r)) + activityType[size:]
}

func normalizeDate(value string) (string, error) {
	t, err := schedule.ParseDate(value, time.Local)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", value, err)
	}
	return t.Format(schedule.DateLayout), nil
}

// resolveLogID accepts a full id or a unique prefix of one.
func resolveLogID(ctx context.Context, st *store.Store, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", fmt.Errorf("workout id is required")
	}
	logs, err := st.ListLogs(ctx, model.LogFilter{})
	if err != nil {
		return "", fmt.Errorf("failed to list workouts: %w", err)
	}
	return matchLogID(logs, prefix)
}

func matchLogID(logs []model.WorkoutLog, prefix string) (string, error) {
	var found []string
	for _, log := range logs {
		if log.ID == prefix {
			return log.ID, nil
		}
		if strings.HasPrefix(log.ID, prefix) {
			found = append(found, log.ID)
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("%w: %s", store.ErrLogNotFound, prefix)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("workout id %q is ambiguous (%d matches)", prefix, len(found))
	}
}

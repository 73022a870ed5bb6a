package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/verte-zerg/pacer/internal/model"
	"github.com/verte-zerg/pacer/internal/override"
	"github.com/verte-zerg/pacer/internal/pace"
	"github.com/verte-zerg/pacer/internal/schedule"
	"github.com/verte-zerg/pacer/internal/vdot"
)

// DaySource supplies paces and completion state for schedule rendering.
type DaySource interface {
	ActivityPace(act model.ScheduledActivity) string
	Completed(dayIndex int) bool
}

// RenderIndex prints the fitness index and race predictions for every tabulated distance.
func RenderIndex(w io.Writer, tables *vdot.Tables, derived override.Derived) error {
	if _, err := fmt.Fprintf(w, "Fitness index: %d (%s)\n", derived.Index, derived.Label); err != nil {
		return err
	}
	if !derived.Found {
		_, err := fmt.Fprintln(w, "No pace table for this index.")
		return err
	}
	predict := derived.Predictor(tables)
	rows := make([][]string, 0, len(tables.Distances()))
	for _, d := range tables.Distances() {
		km, ok := vdot.DistanceKm(d)
		if !ok {
			continue
		}
		t, ok := predict(km)
		if !ok {
			t = model.NotAvailable
		}
		rows = append(rows, []string{d, t})
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return writeTable(w, []string{"Distance", "Predicted"}, rows, map[int]bool{1: true})
}

// RenderPaces prints resolved paces; custom values are starred.
func RenderPaces(w io.Writer, paces []model.PaceSetting) error {
	if len(paces) == 0 {
		_, err := fmt.Fprintln(w, "No paces available.")
		return err
	}
	rows := make([][]string, 0, len(paces))
	for _, p := range paces {
		mark := ""
		if p.IsCustom {
			mark = "*"
		}
		rows = append(rows, []string{p.Name, p.Value + mark, p.Default, p.Description})
	}
	return writeTable(w, []string{"Pace", "Value", "Default", "Use"}, rows, map[int]bool{1: true, 2: true})
}

// RenderSchedule prints each weekly block as a table.
func RenderSchedule(w io.Writer, blocks []model.WeeklyBlock, src DaySource) error {
	if len(blocks) == 0 {
		_, err := fmt.Fprintln(w, "Plan has no days.")
		return err
	}
	for i, b := range blocks {
		if _, err := fmt.Fprintf(w, "Week %d (from %s)\n", i+1, b.WeekStart); err != nil {
			return err
		}
		if err := writeTable(w, []string{"", "Date", "Day", "Activity", "Distance", "Pace", "Done", "Note"},
			scheduleRows(b, src), map[int]bool{4: true, 5: true}); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, ""); err != nil {
			return err
		}
	}
	return nil
}

func scheduleRows(b model.WeeklyBlock, src DaySource) [][]string {
	var rows [][]string
	for _, d := range b.Days {
		marker := ""
		if d.IsToday {
			marker = ">"
		}
		done := ""
		if src.Completed(d.Index) {
			done = "yes"
		} else if d.IsPast {
			done = "-"
		}
		weekday := d.Time.Format("Mon")
		if len(d.Activities) == 0 {
			rows = append(rows, []string{marker, d.Date, weekday, model.ActivityRest, "", "", done, d.Note})
			continue
		}
		for j, act := range d.Activities {
			note := act.Note
			if note == "" && j == 0 {
				note = d.Note
			}
			paceCell := ""
			if act.Type != model.ActivityRest {
				paceCell = src.ActivityPace(act)
			}
			row := []string{marker, d.Date, weekday, act.Type, FormatDistance(act), paceCell, done, note}
			if j > 0 {
				row[0], row[1], row[2], row[6] = "", "", "", ""
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// FormatDistance renders an activity amount with its units, blank for rest.
func FormatDistance(act model.ScheduledActivity) string {
	if act.Distance <= 0 {
		return ""
	}
	units := act.Units
	if units == "" {
		units = model.UnitsKm
	}
	return strconv.FormatFloat(act.Distance, 'f', -1, 64) + " " + units
}

// RenderProgress prints the weekly summary table followed by volume charts.
func RenderProgress(w io.Writer, progress []schedule.WeekProgress, totalWidth int, useColor bool) error {
	if len(progress) == 0 {
		_, err := fmt.Fprintln(w, "No progress to show.")
		return err
	}
	rows := make([][]string, 0, len(progress))
	for _, p := range progress {
		rows = append(rows, []string{
			strconv.Itoa(p.Week),
			p.WeekStart,
			fmt.Sprintf("%.1f", p.PlannedKm),
			fmt.Sprintf("%.1f", p.LoggedKm),
			fmt.Sprintf("%d/%d", p.CompletedDays, p.PlannedDays),
		})
	}
	if err := writeTable(w, []string{"Week", "Start", "Planned km", "Logged km", "Days"}, rows,
		map[int]bool{0: true, 2: true, 3: true, 4: true}); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\nPlanned: [%s]\nLogged:  [%s]\n\n",
		Sparkline(schedule.PlannedSeries(progress)), Sparkline(schedule.LoggedSeries(progress))); err != nil {
		return err
	}
	return VolumeBars(w, progress, totalWidth, useColor)
}

// RenderRacePlan prints the per-segment splits of a race plan.
func RenderRacePlan(w io.Writer, plan pace.RacePlan) error {
	if _, err := fmt.Fprintf(w, "Conditions factor: %.3f\n", plan.Factor); err != nil {
		return err
	}
	rows := make([][]string, 0, len(plan.Splits))
	for _, s := range plan.Splits {
		split := pace.FormatClock(s.Seconds)
		if s.Invalid {
			split = model.NotAvailable
		}
		rows = append(rows, []string{
			strconv.Itoa(s.Index),
			strconv.FormatFloat(s.DistanceKm, 'f', -1, 64),
			s.BasePace,
			s.AdjustedPace,
			split,
			pace.FormatClock(s.Cumulative),
		})
	}
	if err := writeTable(w, []string{"#", "Km", "Base", "Adjusted", "Split", "Elapsed"}, rows,
		map[int]bool{0: true, 1: true, 2: true, 3: true, 4: true, 5: true}); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Total: %s for %s km\n", pace.FormatClock(plan.TotalSeconds),
		strconv.FormatFloat(plan.DistanceKm, 'f', -1, 64))
	return err
}

// RenderLogs prints workout logs with short ids.
func RenderLogs(w io.Writer, logs []model.WorkoutLog) error {
	if len(logs) == 0 {
		_, err := fmt.Fprintln(w, "No workouts logged.")
		return err
	}
	rows := make([][]string, 0, len(logs))
	for _, l := range logs {
		link := ""
		if l.PlanDayIndex != nil {
			link = fmt.Sprintf("%s#%d", l.PlanPath, *l.PlanDayIndex)
		}
		rows = append(rows, []string{
			ShortID(l.ID),
			l.Date,
			l.Title,
			l.ActivityType,
			fmt.Sprintf("%.2f", l.Distance),
			pace.FormatClock(int(l.Duration)),
			l.Pace,
			link,
			l.Source,
		})
	}
	return writeTable(w, []string{"ID", "Date", "Title", "Type", "Km", "Time", "Pace", "Plan day", "Source"}, rows,
		map[int]bool{4: true, 5: true, 6: true})
}

// ShortID trims a uuid to its first block.
func ShortID(id string) string {
	if head, _, ok := strings.Cut(id, "-"); ok {
		return head
	}
	return id
}

// RenderPlans lists available plans.
func RenderPlans(w io.Writer, plans []model.Plan, current string) error {
	rows := make([][]string, 0, len(plans))
	for _, p := range plans {
		mark := ""
		if p.Path == current {
			mark = "*"
		}
		weeks := (len(p.Days) + schedule.DaysPerWeek - 1) / schedule.DaysPerWeek
		rows = append(rows, []string{mark, p.Path, p.Name, strconv.Itoa(len(p.Days)), strconv.Itoa(weeks)})
	}
	return writeTable(w, []string{"", "Path", "Name", "Days", "Weeks"}, rows, map[int]bool{3: true, 4: true})
}

package schedule

import "github.com/verte-zerg/pacer/internal/model"

// WeekProgress summarizes planned against completed training for one block.
type WeekProgress struct {
	Week          int
	WeekStart     string
	PlannedKm     float64
	LoggedKm      float64
	PlannedDays   int
	CompletedDays int
}

// Summarize totals each block. A log matched on several days counts once, on
// the first day it matched.
func Summarize(blocks []model.WeeklyBlock, matches map[int][]model.WorkoutLog) []WeekProgress {
	seen := map[string]struct{}{}
	out := make([]WeekProgress, 0, len(blocks))
	for i, b := range blocks {
		wp := WeekProgress{Week: i + 1, WeekStart: b.WeekStart}
		for _, d := range b.Days {
			training := false
			for _, act := range d.Activities {
				if act.Type == model.ActivityRest {
					continue
				}
				training = true
				if act.Units == "" || act.Units == model.UnitsKm {
					wp.PlannedKm += act.Distance
				}
			}
			if training {
				wp.PlannedDays++
			}
			logs := matches[d.Index]
			if training && len(logs) > 0 {
				wp.CompletedDays++
			}
			for _, l := range logs {
				key := l.ID
				if key == "" {
					key = l.Date + "|" + l.Title
				}
				if _, ok := seen[key]; ok {
					continue
				}
				seen[key] = struct{}{}
				wp.LoggedKm += l.Distance
			}
		}
		out = append(out, wp)
	}
	return out
}

// LoggedSeries returns logged km per week, for plotting.
func LoggedSeries(progress []WeekProgress) []float64 {
	out := make([]float64, len(progress))
	for i, p := range progress {
		out[i] = p.LoggedKm
	}
	return out
}

// PlannedSeries returns planned km per week, for plotting.
func PlannedSeries(progress []WeekProgress) []float64 {
	out := make([]float64, len(progress))
	for i, p := range progress {
		out[i] = p.PlannedKm
	}
	return out
}

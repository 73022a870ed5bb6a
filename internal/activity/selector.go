// Package activity selects the display pace for scheduled activities.
package activity

import (
	"strings"

	"github.com/verte-zerg/pacer/internal/model"
)

// PredictFunc returns a formatted race time for a distance in km.
type PredictFunc func(distanceKm float64) (string, bool)

var paceByType = map[string]string{
	model.ActivityEasy:       "Easy Km",
	model.ActivityRecovery:   "Recovery Km",
	model.ActivityMarathon:   "Marathon Km",
	model.ActivityThreshold:  "Threshold Km",
	model.ActivityInterval:   "Interval Km",
	model.ActivityRepetition: "Repetition Km",
}

// PaceName returns the resolved pace name an activity type maps to.
func PaceName(activityType string) (string, bool) {
	name, ok := paceByType[strings.ToLower(strings.TrimSpace(activityType))]
	return name, ok
}

// Pace returns the display pace for act: a resolved pace value, a predicted
// race time for race activities, or N/A.
func Pace(act model.ScheduledActivity, paces []model.PaceSetting, predict PredictFunc) string {
	kind := strings.ToLower(strings.TrimSpace(act.Type))
	if kind == model.ActivityRace {
		if predict == nil || act.Distance <= 0 {
			return model.NotAvailable
		}
		if t, ok := predict(act.Distance); ok && t != "" {
			return t
		}
		return model.NotAvailable
	}
	name, ok := paceByType[kind]
	if !ok {
		return model.NotAvailable
	}
	for _, p := range paces {
		if p.Name == name {
			if p.Value == "" {
				return model.NotAvailable
			}
			return p.Value
		}
	}
	return model.NotAvailable
}

// SegmentPace is the derived pace for one interval series.
type SegmentPace struct {
	Workout int
	Series  int
	Sets    int
	Work    string
	Rest    string
	Pace    string
}

// SeriesPaces dispatches every embedded series through Pace, with the series
// distance replacing the activity distance when set.
func SeriesPaces(act model.ScheduledActivity, paces []model.PaceSetting, predict PredictFunc) []SegmentPace {
	var out []SegmentPace
	for wi, w := range act.Workouts {
		for si, s := range w.Series {
			seg := act
			seg.Workouts = nil
			if s.Distance > 0 {
				seg.Distance = s.Distance
			}
			out = append(out, SegmentPace{
				Workout: wi,
				Series:  si,
				Sets:    s.Sets,
				Work:    s.Work,
				Rest:    s.Rest,
				Pace:    Pace(seg, paces, predict),
			})
		}
	}
	return out
}

// Package model defines shared data structures.
package model

import "time"

// Activity types understood by the pace selector.
const (
	ActivityEasy       = "easy"
	ActivityRecovery   = "recovery"
	ActivityMarathon   = "marathon"
	ActivityThreshold  = "threshold"
	ActivityInterval   = "interval"
	ActivityRepetition = "repetition"
	ActivityRace       = "race"
	ActivityRest       = "rest"
)

// Distance units for scheduled activities.
const (
	UnitsKm  = "km"
	UnitsMin = "min"
)

// NotAvailable is displayed wherever a pace or prediction cannot be resolved.
const NotAvailable = "N/A"

// Series describes one repeated interval segment of a workout.
type Series struct {
	Sets     int     `yaml:"sets" json:"sets"`
	Work     string  `yaml:"work" json:"work"`
	Rest     string  `yaml:"rest,omitempty" json:"rest,omitempty"`
	Distance float64 `yaml:"distance,omitempty" json:"distance,omitempty"`
}

// Workout is a structured description attached to an activity.
type Workout struct {
	Note   string   `yaml:"note,omitempty" json:"note,omitempty"`
	Link   string   `yaml:"link,omitempty" json:"link,omitempty"`
	Series []Series `yaml:"series,omitempty" json:"series,omitempty"`
}

// ScheduledActivity is one prescribed unit of training for a day.
type ScheduledActivity struct {
	Type     string    `yaml:"type" json:"type"`
	Distance float64   `yaml:"distance" json:"distance"`
	Units    string    `yaml:"units" json:"units"`
	Note     string    `yaml:"note,omitempty" json:"note,omitempty"`
	Workouts []Workout `yaml:"workouts,omitempty" json:"workouts,omitempty"`
}

// TrainingDay is one positional entry of a plan.
type TrainingDay struct {
	Activities []ScheduledActivity `yaml:"activities" json:"activities"`
	Note       string              `yaml:"note,omitempty" json:"note,omitempty"`
}

// Plan is a prebuilt training program.
type Plan struct {
	Path string        `yaml:"path" json:"path"`
	Name string        `yaml:"name" json:"name"`
	Days []TrainingDay `yaml:"days" json:"days"`
}

// DayView is a calendar-dated plan day.
type DayView struct {
	Index      int
	Date       string
	Time       time.Time
	IsToday    bool
	IsPast     bool
	Note       string
	Activities []ScheduledActivity
}

// WeeklyBlock groups seven consecutive plan days.
type WeeklyBlock struct {
	WeekStart string
	Days      []DayView
}

// WorkoutLog is a completed workout record.
type WorkoutLog struct {
	ID           string
	Date         string
	Title        string
	ActivityType string
	Distance     float64
	Duration     int64
	Pace         string
	PlanPath     string
	PlanDayIndex *int
	Source       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Log sources.
const (
	SourceManual = "manual"
	SourceFIT    = "fit"
)

// PaceSetting is a resolved, display-ready pace entry.
type PaceSetting struct {
	Name        string
	Value       string
	Default     string
	IsCustom    bool
	Description string
}

// LogFilter narrows workout log listings.
type LogFilter struct {
	PlanPath string
	Since    string
	Until    string
	Limit    int
}

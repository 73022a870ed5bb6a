package schedule

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/pacer/internal/logger"
	"github.com/verte-zerg/pacer/internal/model"
)

// DefaultTolerance is the relative distance slack for completion matching.
const DefaultTolerance = 0.10

// Target identifies one plan day to match completions against.
type Target struct {
	Date       string
	Activities []model.ScheduledActivity
	PlanPath   string
	DayIndex   *int
}

// Matcher decides which workout logs complete a plan day.
type Matcher struct {
	Tolerance float64
	Location  *time.Location
	log       *logger.Logger
}

// NewMatcher builds a matcher. A non-positive tolerance uses DefaultTolerance.
func NewMatcher(tolerance float64, log *logger.Logger) *Matcher {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Matcher{Tolerance: tolerance, Location: time.Local, log: log}
}

// Match returns every log that completes the target day, in input order.
func (m *Matcher) Match(target Target, logs []model.WorkoutLog) []model.WorkoutLog {
	var out []model.WorkoutLog
	day, dayErr := ParseDate(target.Date, m.Location)
	if dayErr != nil {
		m.log.Warn("unparsable plan day date", "date", target.Date, "error", dayErr)
	}
	for _, entry := range logs {
		if linked(target, entry) {
			out = append(out, entry)
			continue
		}
		if dayErr != nil {
			continue
		}
		ok, err := m.matchByContent(day, target.Activities, entry)
		if err != nil {
			m.log.Warn("skipping workout log", "log_id", entry.ID, "date", entry.Date, "error", err)
			continue
		}
		if ok {
			out = append(out, entry)
		}
	}
	return out
}

// MatchDay matches logs against a composed day.
func (m *Matcher) MatchDay(day model.DayView, planPath string, logs []model.WorkoutLog) []model.WorkoutLog {
	index := day.Index
	return m.Match(Target{Date: day.Date, Activities: day.Activities, PlanPath: planPath, DayIndex: &index}, logs)
}

// MatchBlocks matches logs against every composed day, keyed by plan day index.
func (m *Matcher) MatchBlocks(blocks []model.WeeklyBlock, planPath string, logs []model.WorkoutLog) map[int][]model.WorkoutLog {
	out := map[int][]model.WorkoutLog{}
	for _, b := range blocks {
		for _, d := range b.Days {
			if matched := m.MatchDay(d, planPath, logs); len(matched) > 0 {
				out[d.Index] = matched
			}
		}
	}
	return out
}

func linked(target Target, entry model.WorkoutLog) bool {
	if target.PlanPath == "" || target.DayIndex == nil || entry.PlanDayIndex == nil {
		return false
	}
	return entry.PlanPath == target.PlanPath && *entry.PlanDayIndex == *target.DayIndex
}

func (m *Matcher) matchByContent(day time.Time, activities []model.ScheduledActivity, entry model.WorkoutLog) (bool, error) {
	logDay, err := ParseDate(entry.Date, m.Location)
	if err != nil {
		return false, err
	}
	if !logDay.Equal(day) {
		return false, nil
	}
	if math.IsNaN(entry.Distance) || math.IsInf(entry.Distance, 0) {
		return false, fmt.Errorf("invalid distance %v", entry.Distance)
	}
	logType := strings.ToLower(strings.TrimSpace(entry.ActivityType))
	for _, act := range activities {
		if logType != "" && logType == strings.ToLower(strings.TrimSpace(act.Type)) {
			return true, nil
		}
		if m.withinTolerance(act, entry) {
			return true, nil
		}
	}
	return false, nil
}

func (m *Matcher) withinTolerance(act model.ScheduledActivity, entry model.WorkoutLog) bool {
	planned := act.Distance
	if planned <= 0 || math.IsNaN(planned) {
		return false
	}
	actual := entry.Distance
	if act.Units == model.UnitsMin {
		actual = float64(entry.Duration) / 60
	}
	return math.Abs(actual-planned)/planned < m.Tolerance
}

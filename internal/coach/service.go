// Package coach ties persisted settings, the plan, and workout logs to the pace engine.
package coach

import (
	"context"
	"fmt"
	"time"

	"github.com/verte-zerg/pacer/internal/activity"
	"github.com/verte-zerg/pacer/internal/logger"
	"github.com/verte-zerg/pacer/internal/model"
	"github.com/verte-zerg/pacer/internal/override"
	"github.com/verte-zerg/pacer/internal/pace"
	"github.com/verte-zerg/pacer/internal/schedule"
	"github.com/verte-zerg/pacer/internal/vdot"
)

// Store is the persistence the service needs.
type Store interface {
	LoadSettings(ctx context.Context, planPath string) (map[string]string, error)
	SaveSettings(ctx context.Context, planPath string, values map[string]string) error
	ListLogs(ctx context.Context, filter model.LogFilter) ([]model.WorkoutLog, error)
}

// Options configures a Service.
type Options struct {
	// Defaults fill settings the user never stored, typically from the config file.
	Defaults override.Settings
	Matcher  *schedule.Matcher
	Logger   *logger.Logger
	Location *time.Location
}

// Service runs every settings change through a full recomputation.
type Service struct {
	store    Store
	tables   *vdot.Tables
	plan     model.Plan
	defaults override.Settings
	matcher  *schedule.Matcher
	log      *logger.Logger
	loc      *time.Location
}

// View is everything a screen needs for one moment in time.
type View struct {
	Plan     model.Plan
	Settings override.Settings
	Derived  override.Derived
	Start    time.Time
	Blocks   []model.WeeklyBlock
	Matches  map[int][]model.WorkoutLog
	Progress []schedule.WeekProgress
	Logs     []model.WorkoutLog

	predict activity.PredictFunc
}

// New builds a service bound to one plan.
func New(store Store, tables *vdot.Tables, plan model.Plan, opts Options) *Service {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	matcher := opts.Matcher
	if matcher == nil {
		matcher = schedule.NewMatcher(schedule.DefaultTolerance, log)
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	matcher.Location = loc
	return &Service{
		store:    store,
		tables:   tables,
		plan:     plan,
		defaults: opts.Defaults,
		matcher:  matcher,
		log:      log.With("plan", plan.Path),
		loc:      loc,
	}
}

// Plan returns the bound plan.
func (s *Service) Plan() model.Plan {
	return s.plan
}

// Tables returns the reference tables in use.
func (s *Service) Tables() *vdot.Tables {
	return s.tables
}

// Settings returns the stored settings with defaults applied.
func (s *Service) Settings(ctx context.Context) (override.Settings, error) {
	stored, err := s.load(ctx)
	if err != nil {
		return override.Settings{}, err
	}
	return stored.WithDefaults(s.defaults), nil
}

// Derive returns the recomputed paces for the current settings.
func (s *Service) Derive(ctx context.Context) (override.Derived, error) {
	effective, err := s.Settings(ctx)
	if err != nil {
		return override.Derived{}, err
	}
	return override.Derive(s.tables, effective), nil
}

// View composes the schedule as of now and matches logged workouts against it.
// Without a stored start date the plan starts today.
func (s *Service) View(ctx context.Context, now time.Time) (View, error) {
	effective, err := s.Settings(ctx)
	if err != nil {
		return View{}, err
	}
	now = now.In(s.loc)
	start := schedule.DateOnly(now)
	if effective.StartDate != "" {
		parsed, err := schedule.ParseDate(effective.StartDate, s.loc)
		if err != nil {
			s.log.Warn("ignoring stored start date", "start_date", effective.StartDate, "error", err)
		} else {
			start = parsed
		}
	}

	logs, err := s.store.ListLogs(ctx, model.LogFilter{})
	if err != nil {
		return View{}, fmt.Errorf("failed to list workout logs: %w", err)
	}

	derived := override.Derive(s.tables, effective)
	blocks := schedule.Compose(s.plan.Days, start, now)
	matches := s.matcher.MatchBlocks(blocks, s.plan.Path, logs)
	return View{
		Plan:     s.plan,
		Settings: effective,
		Derived:  derived,
		Start:    start,
		Blocks:   blocks,
		Matches:  matches,
		Progress: schedule.Summarize(blocks, matches),
		Logs:     logs,
		predict:  derived.Predictor(s.tables),
	}, nil
}

// ActivityPace returns the display pace of act under this view.
func (v View) ActivityPace(act model.ScheduledActivity) string {
	return activity.Pace(act, v.Derived.Paces, v.predict)
}

// SeriesPaces returns per-series paces of act under this view.
func (v View) SeriesPaces(act model.ScheduledActivity) []activity.SegmentPace {
	return activity.SeriesPaces(act, v.Derived.Paces, v.predict)
}

// DayMatches returns the logs completing the plan day at index.
func (v View) DayMatches(index int) []model.WorkoutLog {
	return v.Matches[index]
}

// Completed reports whether the plan day at index has at least one matching log.
func (v View) Completed(index int) bool {
	return len(v.Matches[index]) > 0
}

// SetBase stores a new benchmark race.
func (s *Service) SetBase(ctx context.Context, raceTime, distance string) (override.Derived, error) {
	if _, err := pace.ParseClock(raceTime); err != nil {
		return override.Derived{}, err
	}
	key := vdot.NormalizeDistance(distance)
	if !s.knownDistance(key) {
		return override.Derived{}, fmt.Errorf("unknown benchmark distance %q", distance)
	}
	return s.update(ctx, func(stored override.Settings, before override.Derived) (override.Settings, error) {
		stored.BaseTime = raceTime
		stored.BaseDistance = key
		after := override.Derive(s.tables, stored.WithDefaults(s.defaults))
		return override.Rebase(stored, before.Row, after.Row), nil
	})
}

// SetStartDate stores the calendar date of plan day 0.
func (s *Service) SetStartDate(ctx context.Context, date string) (override.Derived, error) {
	parsed, err := schedule.ParseDate(date, s.loc)
	if err != nil {
		return override.Derived{}, err
	}
	return s.update(ctx, func(stored override.Settings, _ override.Derived) (override.Settings, error) {
		stored.StartDate = parsed.Format(schedule.DateLayout)
		return stored, nil
	})
}

// SetPace stores a custom value for one pace. Invalid input leaves storage untouched.
func (s *Service) SetPace(ctx context.Context, name, value string) (override.Derived, error) {
	return s.update(ctx, func(stored override.Settings, _ override.Derived) (override.Settings, error) {
		return override.SetPace(stored, s.paceNames(), name, value)
	})
}

// ResetPace removes the custom value for one pace.
func (s *Service) ResetPace(ctx context.Context, name string) (override.Derived, error) {
	return s.update(ctx, func(stored override.Settings, _ override.Derived) (override.Settings, error) {
		return override.ResetPace(stored, name), nil
	})
}

// ResetAll removes every custom pace and the adjustment factor.
func (s *Service) ResetAll(ctx context.Context) (override.Derived, error) {
	return s.update(ctx, func(stored override.Settings, _ override.Derived) (override.Settings, error) {
		return override.ResetAll(stored), nil
	})
}

// ApplyAdjustment rewrites every pace as the table default scaled by factor.
func (s *Service) ApplyAdjustment(ctx context.Context, factor float64) (override.Derived, error) {
	if !pace.FactorInRange(factor) {
		return override.Derived{}, fmt.Errorf("adjustment factor %v outside %g-%g", factor, pace.MinFactor, pace.MaxFactor)
	}
	return s.update(ctx, func(stored override.Settings, derived override.Derived) (override.Settings, error) {
		return override.ApplyAdjustment(stored, derived.Row, factor), nil
	})
}

func (s *Service) update(ctx context.Context, fn func(stored override.Settings, derived override.Derived) (override.Settings, error)) (override.Derived, error) {
	stored, err := s.load(ctx)
	if err != nil {
		return override.Derived{}, err
	}
	before := override.Derive(s.tables, stored.WithDefaults(s.defaults))
	next, err := fn(stored.Clone(), before)
	if err != nil {
		return override.Derived{}, err
	}
	if err := s.store.SaveSettings(ctx, s.plan.Path, next.ToMap()); err != nil {
		return override.Derived{}, fmt.Errorf("failed to save settings: %w", err)
	}
	derived := override.Derive(s.tables, next.WithDefaults(s.defaults))
	s.log.Debug("settings updated", "index", derived.Index, "custom", len(next.Custom))
	return derived, nil
}

func (s *Service) load(ctx context.Context) (override.Settings, error) {
	m, err := s.store.LoadSettings(ctx, s.plan.Path)
	if err != nil {
		return override.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return override.FromMap(m), nil
}

func (s *Service) paceNames() []string {
	if s.tables == nil {
		return nil
	}
	return s.tables.PaceNames()
}

func (s *Service) knownDistance(key string) bool {
	if s.tables == nil {
		return false
	}
	for _, d := range s.tables.Distances() {
		if d == key {
			return true
		}
	}
	return false
}

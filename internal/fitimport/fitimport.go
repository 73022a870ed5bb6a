// Package fitimport turns FIT activity files into workout logs.
package fitimport

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/tormoder/fit"

	"github.com/verte-zerg/pacer/internal/model"
	"github.com/verte-zerg/pacer/internal/pace"
)

// Summary is the session-level data pulled from one activity file.
type Summary struct {
	Sport          string
	SubSport       string
	Start          time.Time
	TimerSeconds   float64
	DistanceMeters float64
}

// Decode reads the first session of a FIT activity.
func Decode(r io.Reader) (Summary, error) {
	decoded, err := fit.Decode(r)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to decode fit file: %w", err)
	}
	activity, err := decoded.Activity()
	if err != nil {
		return Summary{}, fmt.Errorf("activity FIT expected: %w", err)
	}
	if len(activity.Sessions) == 0 {
		return Summary{}, fmt.Errorf("activity file has no session message")
	}
	session := activity.Sessions[0]
	start := validTimeOrZero(session.StartTime)
	if start.IsZero() {
		start = validTimeOrZero(session.Timestamp)
	}
	return Summary{
		Sport:          fmt.Sprint(session.Sport),
		SubSport:       fmt.Sprint(session.SubSport),
		Start:          start,
		TimerSeconds:   safePositive(session.GetTotalTimerTimeScaled()),
		DistanceMeters: safePositive(session.GetTotalDistanceScaled()),
	}, nil
}

// ReadFile decodes the activity at path.
func ReadFile(path string) (Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return Summary{}, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close for read-only activity file.
			_ = cerr
		}
	}()
	sum, err := Decode(f)
	if err != nil {
		return Summary{}, fmt.Errorf("%s: %w", path, err)
	}
	return sum, nil
}

// ToLog converts a summary into an unsaved workout log dated in loc.
func ToLog(sum Summary, loc *time.Location) model.WorkoutLog {
	if loc == nil {
		loc = time.Local
	}
	km := math.Round(sum.DistanceMeters) / 1000
	seconds := int64(math.Round(sum.TimerSeconds))
	avg, _ := pace.PerKm(seconds, km)
	return model.WorkoutLog{
		Date:         sum.Start.In(loc).Format("2006-01-02"),
		Title:        Title(sum),
		ActivityType: ActivityType(sum.Sport),
		Distance:     km,
		Duration:     seconds,
		Pace:         avg,
		Source:       model.SourceFIT,
	}
}

// ActivityType maps a FIT sport name onto a log activity type.
func ActivityType(sport string) string {
	s := strings.ToLower(strings.TrimSpace(sport))
	switch s {
	case "", "invalid", "generic":
		return "other"
	}
	return s
}

// Title builds a readable label like "Running (Track)".
func Title(sum Summary) string {
	sport := strings.TrimSpace(sum.Sport)
	if sport == "" || strings.EqualFold(sport, "invalid") {
		sport = "Activity"
	}
	sub := strings.TrimSpace(sum.SubSport)
	switch strings.ToLower(sub) {
	case "", "generic", "invalid":
		return sport
	}
	return fmt.Sprintf("%s (%s)", sport, sub)
}

// validTimeOrZero maps unset FIT timestamps to the zero time.
func validTimeOrZero(t time.Time) time.Time {
	if t.IsZero() || fit.IsBaseTime(t) {
		return time.Time{}
	}
	return t
}

func safePositive(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	return v
}

// Package schedule projects plan days onto the calendar and matches completions.
package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/verte-zerg/pacer/internal/model"
)

// DaysPerWeek is the size of a weekly block.
const DaysPerWeek = 7

// DateLayout is the ISO calendar date layout used throughout.
const DateLayout = "2006-01-02"

// Compose dates days[i] as start+i and groups them positionally into blocks of seven.
// A trailing partial week becomes its own block.
func Compose(days []model.TrainingDay, start, now time.Time) []model.WeeklyBlock {
	if len(days) == 0 {
		return nil
	}
	loc := start.Location()
	first := DateOnly(start)
	today := DateOnly(now.In(loc))

	blocks := make([]model.WeeklyBlock, 0, (len(days)+DaysPerWeek-1)/DaysPerWeek)
	for i, day := range days {
		date := first.AddDate(0, 0, i)
		if i%DaysPerWeek == 0 {
			blocks = append(blocks, model.WeeklyBlock{
				WeekStart: date.Format(DateLayout),
				Days:      make([]model.DayView, 0, DaysPerWeek),
			})
		}
		view := model.DayView{
			Index:      i,
			Date:       date.Format(DateLayout),
			Time:       date,
			IsToday:    date.Equal(today),
			IsPast:     date.Before(today),
			Note:       day.Note,
			Activities: day.Activities,
		}
		last := &blocks[len(blocks)-1]
		last.Days = append(last.Days, view)
	}
	return blocks
}

// Flatten concatenates the days of every block in order.
func Flatten(blocks []model.WeeklyBlock) []model.DayView {
	var out []model.DayView
	for _, b := range blocks {
		out = append(out, b.Days...)
	}
	return out
}

// CurrentWeek returns the index of the block containing today, or -1.
func CurrentWeek(blocks []model.WeeklyBlock) int {
	for i, b := range blocks {
		for _, d := range b.Days {
			if d.IsToday {
				return i
			}
		}
	}
	return -1
}

// DateOnly truncates t to midnight in its own location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseDate reads "YYYY-MM-DD" or an RFC 3339 timestamp and keeps the calendar date.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.ParseInLocation(DateLayout, value, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
	}
	if len(value) > len(DateLayout) {
		if t, err := time.ParseInLocation(DateLayout, value[:len(DateLayout)], loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}

// Package pace parses, formats, and adjusts running paces and clock times.
package pace

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/verte-zerg/pacer/internal/model"
)

var (
	// ErrInvalidPace reports a pace that is not M:SS or MM:SS.
	ErrInvalidPace = errors.New("invalid pace")
	// ErrInvalidClock reports a clock time that cannot be parsed at all.
	ErrInvalidClock = errors.New("invalid clock time")
)

var pacePattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// ClockSeconds converts "hh:mm:ss" or "mm:ss" into seconds.
// Unparsable components count as zero; a single value is read as minutes.
func ClockSeconds(value string) int {
	parts := strings.Split(strings.TrimSpace(value), ":")
	nums := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			n = 0
		}
		nums[i] = n
	}
	switch len(nums) {
	case 1:
		return nums[0] * 60
	case 2:
		return nums[0]*60 + nums[1]
	default:
		n := len(nums)
		return nums[n-3]*3600 + nums[n-2]*60 + nums[n-1]
	}
}

// ParseClock is the strict form of ClockSeconds used for user input.
func ParseClock(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidClock)
	}
	parts := strings.Split(value, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, value)
	}
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidClock, value)
		}
	}
	return ClockSeconds(value), nil
}

// FormatClock renders seconds as H:MM:SS, or MM:SS below one hour.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// FormatHMS renders seconds as zero-padded HH:MM:SS.
func FormatHMS(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

// ParsePace validates a M:SS pace with an optional "/km" suffix and returns seconds.
func ParsePace(value string) (int, error) {
	trimmed := strings.TrimSpace(value)
	trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, "/km"))
	match := pacePattern.FindStringSubmatch(trimmed)
	if match == nil {
		return 0, fmt.Errorf("%w: %q (expected M:SS)", ErrInvalidPace, value)
	}
	minutes, _ := strconv.Atoi(match[1])
	seconds, _ := strconv.Atoi(match[2])
	if seconds >= 60 {
		return 0, fmt.Errorf("%w: %q (seconds must be below 60)", ErrInvalidPace, value)
	}
	return minutes*60 + seconds, nil
}

// FormatPace renders seconds as M:SS.
func FormatPace(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// NormalizePace validates a pace and returns its canonical M:SS form.
func NormalizePace(value string) (string, error) {
	secs, err := ParsePace(value)
	if err != nil {
		return "", err
	}
	return FormatPace(secs), nil
}

// PerKm returns the average pace of a run covering distanceKm in seconds.
func PerKm(seconds int64, distanceKm float64) (string, bool) {
	if seconds <= 0 || distanceKm <= 0 || math.IsNaN(distanceKm) || math.IsInf(distanceKm, 0) {
		return model.NotAvailable, false
	}
	return FormatPace(int(math.Round(float64(seconds) / distanceKm))), true
}

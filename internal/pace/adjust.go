package pace

import "math"

// Global adjustment factor bounds accepted by the CLI.
const (
	MinFactor     = 80.0
	MaxFactor     = 120.0
	NeutralFactor = 100.0
)

// AdjustSeconds scales a pace by 100/factor and rounds to the nearest second.
// A non-positive factor leaves the pace unchanged.
func AdjustSeconds(seconds int, factor float64) int {
	if factor <= 0 {
		return seconds
	}
	return int(math.Round(float64(seconds) * (NeutralFactor / factor)))
}

// Adjust applies AdjustSeconds to a M:SS pace string.
func Adjust(value string, factor float64) (string, error) {
	secs, err := ParsePace(value)
	if err != nil {
		return "", err
	}
	return FormatPace(AdjustSeconds(secs, factor)), nil
}

// FactorInRange reports whether factor lies within the documented bounds.
func FactorInRange(factor float64) bool {
	return factor >= MinFactor && factor <= MaxFactor
}

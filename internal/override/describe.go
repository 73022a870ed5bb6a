package override

import "strings"

var descriptions = map[string]string{
	"Recovery Km":     "Very relaxed jogging between hard days",
	"Easy Km":         "Conversational aerobic running for most weekly volume",
	"Marathon Km":     "Goal marathon race pace",
	"Threshold Km":    "Comfortably hard tempo sustainable for about an hour",
	"Interval Km":     "Hard 3-5 minute repeats near VO2max",
	"Repetition Km":   "Fast, short repeats with full recovery",
	"Interval 400m":   "Interval pace over 400m",
	"Repetition 400m": "Repetition pace over 400m",
	"Repetition 200m": "Repetition pace over 200m",
}

// Describe returns a short explanation for a pace name.
func Describe(name string) string {
	if d, ok := descriptions[name]; ok {
		return d
	}
	return strings.TrimSpace(name)
}

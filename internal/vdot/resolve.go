package vdot

import (
	"math"
	"strconv"
	"strings"

	"github.com/verte-zerg/pacer/internal/pace"
)

// distanceMatchTolerance is the relative slack for treating a distance as tabulated.
const distanceMatchTolerance = 0.05

var distanceAliases = map[string]string{
	"1500":          "1500m",
	"1.5km":         "1500m",
	"mile":          "1600m",
	"1mi":           "1600m",
	"1600":          "1600m",
	"3k":            "3km",
	"3000m":         "3km",
	"5k":            "5km",
	"5000m":         "5km",
	"10k":           "10km",
	"10000m":        "10km",
	"15k":           "15km",
	"21k":           "21km",
	"21.1km":        "21km",
	"half":          "21km",
	"half-marathon": "21km",
	"42k":           "42km",
	"42.2km":        "42km",
	"marathon":      "42km",
}

var knownDistanceKm = map[string]float64{
	"1500m": 1.5,
	"1600m": 1.6,
	"3km":   3,
	"5km":   5,
	"10km":  10,
	"15km":  15,
	"21km":  21.0975,
	"42km":  42.195,
}

// NormalizeDistance maps common spellings ("5K", "half") onto table keys.
func NormalizeDistance(key string) string {
	k := strings.ToLower(strings.TrimSpace(key))
	if alias, ok := distanceAliases[k]; ok {
		return alias
	}
	return k
}

// Resolve returns the fitness index whose tabulated time for distanceKey is nearest
// to raceTime. The first row wins ties. Unknown distances fall back to the first row.
func (t *Tables) Resolve(raceTime, distanceKey string) int {
	if len(t.rows) == 0 {
		return 0
	}
	key := NormalizeDistance(distanceKey)
	input := pace.ClockSeconds(raceTime)
	best := t.rows[0].Index
	bestDiff := -1
	for _, r := range t.rows {
		v, ok := r.Race[key]
		if !ok {
			continue
		}
		diff := pace.ClockSeconds(v) - input
		if diff < 0 {
			diff = -diff
		}
		if bestDiff < 0 || diff < bestDiff {
			bestDiff = diff
			best = r.Index
		}
	}
	return best
}

// PredictRace estimates the race time in seconds for distanceKm at the given index.
// Tabulated distances are read directly; others use log-space interpolation between
// the bracketing tabulated distances.
func (t *Tables) PredictRace(index int, distanceKm float64) (int, bool) {
	i, ok := t.byIndex[index]
	if !ok || distanceKm <= 0 {
		return 0, false
	}
	type distTime struct {
		km   float64
		secs float64
	}
	points := make([]distTime, 0, len(t.distances))
	for _, key := range t.distances {
		v, ok := t.rows[i].Race[key]
		if !ok {
			continue
		}
		km, ok := DistanceKm(key)
		if !ok {
			continue
		}
		points = append(points, distTime{km: km, secs: float64(pace.ClockSeconds(v))})
	}
	if len(points) == 0 {
		return 0, false
	}
	for _, p := range points {
		if math.Abs(distanceKm-p.km) <= p.km*distanceMatchTolerance {
			return int(math.Round(p.secs)), true
		}
	}
	if len(points) == 1 {
		return int(math.Round(points[0].secs * distanceKm / points[0].km)), true
	}

	lower, upper := points[len(points)-2], points[len(points)-1]
	for j, p := range points {
		if distanceKm <= p.km {
			if j == 0 {
				lower, upper = points[0], points[1]
			} else {
				lower, upper = points[j-1], p
			}
			break
		}
	}
	logDist := math.Log(distanceKm/lower.km) / math.Log(upper.km/lower.km)
	logTime := math.Log(lower.secs) + logDist*(math.Log(upper.secs)-math.Log(lower.secs))
	return int(math.Round(math.Exp(logTime))), true
}

// DistanceKm converts a distance key such as "5km" or "1500m" to kilometres.
func DistanceKm(key string) (float64, bool) {
	k := NormalizeDistance(key)
	if km, ok := knownDistanceKm[k]; ok {
		return km, true
	}
	switch {
	case strings.HasSuffix(k, "km"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(k, "km"), 64)
		return v, err == nil && v > 0
	case strings.HasSuffix(k, "m"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(k, "m"), 64)
		return v / 1000, err == nil && v > 0
	}
	return 0, false
}

// Label returns a coarse fitness level for an index.
func Label(index int) string {
	switch {
	case index >= 75:
		return "Elite"
	case index >= 65:
		return "Highly Competitive"
	case index >= 55:
		return "Competitive"
	case index >= 45:
		return "Advanced Recreational"
	case index >= 38:
		return "Intermediate"
	case index >= 30:
		return "Beginner"
	default:
		return "Novice"
	}
}

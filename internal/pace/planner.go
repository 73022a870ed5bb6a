package pace

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/verte-zerg/pacer/internal/model"
)

// Segment is one leg of a planned race.
type Segment struct {
	DistanceKm float64
	Pace       string
}

// Split is the planned outcome for one segment.
type Split struct {
	Index        int
	DistanceKm   float64
	BasePace     string
	AdjustedPace string
	Seconds      int
	Cumulative   int
	Invalid      bool
}

// RacePlan is the weather-adjusted plan for a list of segments.
type RacePlan struct {
	Factor       float64
	Splits       []Split
	DistanceKm   float64
	TotalSeconds int
}

// PlanRace applies the weather factor to every segment pace and sums the splits.
// Segments with an invalid pace contribute no time and are flagged.
func PlanRace(segments []Segment, cond Conditions) RacePlan {
	factor := cond.Factor()
	plan := RacePlan{Factor: factor, Splits: make([]Split, 0, len(segments))}
	cumulative := 0
	for i, seg := range segments {
		split := Split{Index: i + 1, DistanceKm: seg.DistanceKm, BasePace: seg.Pace}
		base, err := ParsePace(seg.Pace)
		if err != nil || seg.DistanceKm <= 0 {
			split.Invalid = true
			split.AdjustedPace = model.NotAvailable
			split.Cumulative = cumulative
			plan.Splits = append(plan.Splits, split)
			continue
		}
		adjusted := float64(base) * factor
		split.AdjustedPace = FormatPace(int(math.Round(adjusted)))
		split.Seconds = int(math.Round(adjusted * seg.DistanceKm))
		cumulative += split.Seconds
		split.Cumulative = cumulative
		plan.DistanceKm += seg.DistanceKm
		plan.Splits = append(plan.Splits, split)
	}
	plan.TotalSeconds = cumulative
	return plan
}

// ParseSegment reads "km@pace", e.g. "5@4:30" or "2.5@4:10/km".
func ParseSegment(value string) (Segment, error) {
	parts := strings.SplitN(strings.TrimSpace(value), "@", 2)
	if len(parts) != 2 {
		return Segment{}, fmt.Errorf("invalid segment %q (expected km@pace)", value)
	}
	km, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil || km <= 0 {
		return Segment{}, fmt.Errorf("invalid segment distance %q", parts[0])
	}
	normalized, err := NormalizePace(parts[1])
	if err != nil {
		return Segment{}, err
	}
	return Segment{DistanceKm: km, Pace: normalized}, nil
}

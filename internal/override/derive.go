package override

import (
	"github.com/verte-zerg/pacer/internal/model"
	"github.com/verte-zerg/pacer/internal/pace"
	"github.com/verte-zerg/pacer/internal/vdot"
)

// Derived is the full set of values computed from one Settings snapshot.
type Derived struct {
	Index int
	Label string
	Found bool
	Row   vdot.PaceRow
	Paces []model.PaceSetting
}

// Derive recomputes index, pace row, and resolved paces together.
// Missing tables or rows degrade to N/A paces.
func Derive(tables *vdot.Tables, s Settings) Derived {
	if tables == nil {
		return Derived{}
	}
	index := tables.Resolve(s.BaseTime, s.BaseDistance)
	row, found := tables.PaceTableFor(index)
	return Derived{
		Index: index,
		Label: vdot.Label(index),
		Found: found,
		Row:   row,
		Paces: Resolve(tables.PaceNames(), Layers{Base: row, Overrides: s.Custom}),
	}
}

// Predictor returns a race predictor bound to the derived index.
func (d Derived) Predictor(tables *vdot.Tables) func(distanceKm float64) (string, bool) {
	return func(distanceKm float64) (string, bool) {
		if tables == nil {
			return "", false
		}
		secs, ok := tables.PredictRace(d.Index, distanceKm)
		if !ok {
			return "", false
		}
		return pace.FormatClock(secs), true
	}
}

// Package override merges table-default paces with user customizations.
package override

import (
	"sort"
	"strconv"
	"strings"

	"github.com/verte-zerg/pacer/internal/pace"
)

// Keys of the persisted settings map.
const (
	KeyBaseTime         = "baseTime"
	KeyBaseDistance     = "baseDistance"
	KeyAdjustmentFactor = "adjustmentFactor"
	KeyStartDate        = "startDate"
	CustomPrefix        = "custom_"
)

// Settings is the full persisted customization state for one plan.
type Settings struct {
	BaseTime         string
	BaseDistance     string
	AdjustmentFactor float64
	StartDate        string
	Custom           map[string]string
}

// FromMap decodes the flat persisted map. Unknown keys are ignored and an
// unparsable adjustment factor reads as neutral.
func FromMap(m map[string]string) Settings {
	s := Settings{
		BaseTime:         strings.TrimSpace(m[KeyBaseTime]),
		BaseDistance:     strings.TrimSpace(m[KeyBaseDistance]),
		StartDate:        strings.TrimSpace(m[KeyStartDate]),
		AdjustmentFactor: pace.NeutralFactor,
		Custom:           map[string]string{},
	}
	if raw := strings.TrimSpace(m[KeyAdjustmentFactor]); raw != "" {
		if f, err := strconv.ParseFloat(raw, 64); err == nil && f > 0 {
			s.AdjustmentFactor = f
		}
	}
	for k, v := range m {
		if name, ok := strings.CutPrefix(k, CustomPrefix); ok && name != "" {
			s.Custom[name] = v
		}
	}
	return s
}

// ToMap encodes the settings into the flat persisted map.
func (s Settings) ToMap() map[string]string {
	m := make(map[string]string, len(s.Custom)+4)
	if s.BaseTime != "" {
		m[KeyBaseTime] = s.BaseTime
	}
	if s.BaseDistance != "" {
		m[KeyBaseDistance] = s.BaseDistance
	}
	if s.StartDate != "" {
		m[KeyStartDate] = s.StartDate
	}
	factor := s.AdjustmentFactor
	if factor <= 0 {
		factor = pace.NeutralFactor
	}
	m[KeyAdjustmentFactor] = strconv.FormatFloat(factor, 'f', -1, 64)
	for name, v := range s.Custom {
		m[CustomPrefix+name] = v
	}
	return m
}

// Clone returns a deep copy.
func (s Settings) Clone() Settings {
	out := s
	out.Custom = make(map[string]string, len(s.Custom))
	for k, v := range s.Custom {
		out.Custom[k] = v
	}
	return out
}

// WithDefaults fills blank fields from defaults.
func (s Settings) WithDefaults(defaults Settings) Settings {
	out := s.Clone()
	if out.BaseTime == "" {
		out.BaseTime = defaults.BaseTime
	}
	if out.BaseDistance == "" {
		out.BaseDistance = defaults.BaseDistance
	}
	if out.StartDate == "" {
		out.StartDate = defaults.StartDate
	}
	if out.AdjustmentFactor <= 0 {
		out.AdjustmentFactor = defaults.AdjustmentFactor
	}
	if out.AdjustmentFactor <= 0 {
		out.AdjustmentFactor = pace.NeutralFactor
	}
	return out
}

// CustomNames lists overridden pace names in sorted order.
func (s Settings) CustomNames() []string {
	names := make([]string, 0, len(s.Custom))
	for name := range s.Custom {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

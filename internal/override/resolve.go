package override

import (
	"errors"
	"fmt"

	"github.com/verte-zerg/pacer/internal/model"
	"github.com/verte-zerg/pacer/internal/pace"
	"github.com/verte-zerg/pacer/internal/vdot"
)

// ErrUnknownPace reports a pace name that the reference table does not define.
var ErrUnknownPace = errors.New("unknown pace")

// Layers is the two-level lookup behind every resolved pace.
type Layers struct {
	Base      vdot.PaceRow
	Overrides map[string]string
}

// Resolve merges the layers into display-ready settings, one per name in names.
// A valid override wins over the table default; invalid overrides are ignored.
func Resolve(names []string, layers Layers) []model.PaceSetting {
	out := make([]model.PaceSetting, 0, len(names))
	for _, name := range names {
		def, ok := layers.Base.Lookup(name)
		if !ok {
			def = model.NotAvailable
		}
		value := def
		if raw, ok := layers.Overrides[name]; ok {
			if normalized, err := pace.NormalizePace(raw); err == nil {
				value = normalized
			}
		}
		out = append(out, model.PaceSetting{
			Name:        name,
			Value:       value,
			Default:     def,
			IsCustom:    value != def,
			Description: Describe(name),
		})
	}
	return out
}

// SetPace stores a custom value for name. Invalid input leaves s untouched.
func SetPace(s Settings, names []string, name, value string) (Settings, error) {
	if !contains(names, name) {
		return s, fmt.Errorf("%w: %q", ErrUnknownPace, name)
	}
	normalized, err := pace.NormalizePace(value)
	if err != nil {
		return s, err
	}
	out := s.Clone()
	out.Custom[name] = normalized
	return out, nil
}

// ResetPace drops the custom value for name.
func ResetPace(s Settings, name string) Settings {
	out := s.Clone()
	delete(out.Custom, name)
	return out
}

// ResetAll drops every custom value and restores the neutral factor.
func ResetAll(s Settings) Settings {
	out := s.Clone()
	out.Custom = map[string]string{}
	out.AdjustmentFactor = pace.NeutralFactor
	return out
}

// ApplyAdjustment rewrites every custom value as the table default scaled by factor.
// Paces the factor leaves unchanged carry no override.
func ApplyAdjustment(s Settings, base vdot.PaceRow, factor float64) Settings {
	out := s.Clone()
	out.AdjustmentFactor = factor
	for _, p := range base.Paces {
		adjusted, err := pace.Adjust(p.Value, factor)
		if err != nil || adjusted == p.Value {
			delete(out.Custom, p.Name)
			continue
		}
		out.Custom[p.Name] = adjusted
	}
	return out
}

// Rebase carries the stored factor from the from row over to the to row.
// Custom values equal to what the factor produced on from are recomputed on to;
// values set by hand are kept. A neutral factor leaves s unchanged.
func Rebase(s Settings, from, to vdot.PaceRow) Settings {
	factor := s.AdjustmentFactor
	if factor <= 0 || factor == pace.NeutralFactor || to.Empty() {
		return s.Clone()
	}
	if from.Empty() {
		return ApplyAdjustment(s, to, factor)
	}
	out := s.Clone()
	for _, p := range to.Paces {
		if !factorDerived(s, from, p.Name, factor) {
			continue
		}
		adjusted, err := pace.Adjust(p.Value, factor)
		if err != nil || adjusted == p.Value {
			delete(out.Custom, p.Name)
			continue
		}
		out.Custom[p.Name] = adjusted
	}
	return out
}

// factorDerived reports whether the value stored for name is the one factor
// produced from the from row.
func factorDerived(s Settings, from vdot.PaceRow, name string, factor float64) bool {
	def, ok := from.Lookup(name)
	if !ok {
		_, custom := s.Custom[name]
		return !custom
	}
	adjusted, err := pace.Adjust(def, factor)
	if err != nil {
		adjusted = def
	}
	cur, custom := s.Custom[name]
	if !custom {
		return adjusted == def
	}
	return cur == adjusted
}

// Find returns the setting called name.
func Find(settings []model.PaceSetting, name string) (model.PaceSetting, bool) {
	for _, s := range settings {
		if s.Name == name {
			return s, true
		}
	}
	return model.PaceSetting{}, false
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

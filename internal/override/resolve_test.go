package override

import (
	"errors"
	"strings"
	"testing"

	"github.com/verte-zerg/pacer/internal/model"
	"github.com/verte-zerg/pacer/internal/pace"
	"github.com/verte-zerg/pacer/internal/vdot"
)

var testNames = []string{"Easy Km", "Threshold Km"}

func testRow() vdot.PaceRow {
	return vdot.PaceRow{Index: 50, Paces: []vdot.NamedPace{
		{Name: "Easy Km", Value: "5:30"},
		{Name: "Threshold Km", Value: "4:15"},
	}}
}

func TestResolvePrecedence(t *testing.T) {
	tests := []struct {
		name       string
		overrides  map[string]string
		wantValue  string
		wantCustom bool
	}{
		{"absent", nil, "5:30", false},
		{"valid", map[string]string{"Easy Km": "5:45"}, "5:45", true},
		{"valid with suffix", map[string]string{"Easy Km": "05:45/km"}, "5:45", true},
		{"invalid", map[string]string{"Easy Km": "fast"}, "5:30", false},
		{"equal to default", map[string]string{"Easy Km": "5:30"}, "5:30", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(testNames, Layers{Base: testRow(), Overrides: tt.overrides})
			easy, ok := Find(got, "Easy Km")
			if !ok {
				t.Fatalf("missing Easy Km")
			}
			if easy.Value != tt.wantValue || easy.IsCustom != tt.wantCustom || easy.Default != "5:30" {
				t.Fatalf("unexpected setting: %+v", easy)
			}
			threshold, _ := Find(got, "Threshold Km")
			if threshold.Value != "4:15" || threshold.IsCustom {
				t.Fatalf("unexpected threshold: %+v", threshold)
			}
		})
	}
}

func TestResolveMissingRow(t *testing.T) {
	got := Resolve(testNames, Layers{Base: vdot.PaceRow{}})
	if len(got) != 2 {
		t.Fatalf("expected 2 settings, got %d", len(got))
	}
	for _, s := range got {
		if s.Value != model.NotAvailable || s.IsCustom {
			t.Fatalf("expected N/A default, got %+v", s)
		}
		if s.Description == "" {
			t.Fatalf("expected description for %s", s.Name)
		}
	}
}

func TestSetPaceRejectsInvalid(t *testing.T) {
	s := Settings{Custom: map[string]string{"Easy Km": "5:40"}}
	out, err := SetPace(s, testNames, "Easy Km", "5:4")
	if !errors.Is(err, pace.ErrInvalidPace) {
		t.Fatalf("expected ErrInvalidPace, got %v", err)
	}
	if out.Custom["Easy Km"] != "5:40" {
		t.Fatalf("expected previous value kept, got %q", out.Custom["Easy Km"])
	}
	if _, err := SetPace(s, testNames, "Sprint", "3:00"); !errors.Is(err, ErrUnknownPace) {
		t.Fatalf("expected ErrUnknownPace, got %v", err)
	}
	out, err = SetPace(s, testNames, "Threshold Km", "4:05/km")
	if err != nil {
		t.Fatalf("set pace: %v", err)
	}
	if out.Custom["Threshold Km"] != "4:05" {
		t.Fatalf("expected normalized value, got %q", out.Custom["Threshold Km"])
	}
	if _, ok := s.Custom["Threshold Km"]; ok {
		t.Fatalf("expected input settings untouched")
	}
}

func TestResetPaceAndResetAll(t *testing.T) {
	s := Settings{AdjustmentFactor: 105, Custom: map[string]string{"Easy Km": "5:14", "Threshold Km": "4:03"}}
	one := ResetPace(s, "Easy Km")
	if _, ok := one.Custom["Easy Km"]; ok {
		t.Fatalf("expected Easy Km reset")
	}
	if one.AdjustmentFactor != 105 || one.Custom["Threshold Km"] != "4:03" {
		t.Fatalf("unexpected side effects: %+v", one)
	}
	all := ResetAll(s)
	if len(all.Custom) != 0 || all.AdjustmentFactor != 100 {
		t.Fatalf("expected full reset, got %+v", all)
	}
	resolved := Resolve(testNames, Layers{Base: testRow(), Overrides: all.Custom})
	for _, p := range resolved {
		if p.IsCustom || p.Value != p.Default {
			t.Fatalf("expected defaults after reset, got %+v", p)
		}
	}
}

func TestApplyAdjustment(t *testing.T) {
	s := Settings{Custom: map[string]string{"Easy Km": "6:00"}}
	out := ApplyAdjustment(s, testRow(), 105)
	if out.AdjustmentFactor != 105 {
		t.Fatalf("expected factor 105, got %v", out.AdjustmentFactor)
	}
	if out.Custom["Easy Km"] != "5:14" {
		t.Fatalf("expected Easy Km 5:14, got %q", out.Custom["Easy Km"])
	}
	if out.Custom["Threshold Km"] != "4:03" {
		t.Fatalf("expected Threshold Km 4:03, got %q", out.Custom["Threshold Km"])
	}
	neutral := ApplyAdjustment(out, testRow(), 100)
	if len(neutral.Custom) != 0 {
		t.Fatalf("expected neutral factor to clear overrides, got %v", neutral.Custom)
	}
}

func TestRebaseMovesFactorValues(t *testing.T) {
	slower := vdot.PaceRow{Index: 38, Paces: []vdot.NamedPace{
		{Name: "Easy Km", Value: "6:50"},
		{Name: "Threshold Km", Value: "5:20"},
	}}
	adjusted := ApplyAdjustment(Settings{}, testRow(), 105)
	adjusted.Custom["Threshold Km"] = "4:00"

	out := Rebase(adjusted, testRow(), slower)
	if out.Custom["Easy Km"] != "6:30" {
		t.Fatalf("expected Easy Km 6:30, got %q", out.Custom["Easy Km"])
	}
	if out.Custom["Threshold Km"] != "4:00" {
		t.Fatalf("expected hand-set Threshold Km kept, got %q", out.Custom["Threshold Km"])
	}
	if out.AdjustmentFactor != 105 {
		t.Fatalf("expected factor 105, got %v", out.AdjustmentFactor)
	}

	neutral := Settings{AdjustmentFactor: pace.NeutralFactor, Custom: map[string]string{"Easy Km": "5:00"}}
	if got := Rebase(neutral, testRow(), slower); got.Custom["Easy Km"] != "5:00" || len(got.Custom) != 1 {
		t.Fatalf("expected neutral settings untouched, got %v", got.Custom)
	}
}

func TestSettingsMapRoundTrip(t *testing.T) {
	m := map[string]string{
		KeyBaseTime:         "00:19:57",
		KeyBaseDistance:     "5km",
		KeyAdjustmentFactor: "97.5",
		KeyStartDate:        "2024-01-01",
		"custom_Easy Km":    "5:40",
		"custom_":           "ignored",
		"unrelated":         "x",
	}
	s := FromMap(m)
	if s.BaseTime != "00:19:57" || s.BaseDistance != "5km" || s.AdjustmentFactor != 97.5 || s.StartDate != "2024-01-01" {
		t.Fatalf("unexpected settings: %+v", s)
	}
	if len(s.Custom) != 1 || s.Custom["Easy Km"] != "5:40" {
		t.Fatalf("unexpected custom map: %v", s.Custom)
	}
	back := s.ToMap()
	if back["custom_Easy Km"] != "5:40" || back[KeyAdjustmentFactor] != "97.5" {
		t.Fatalf("unexpected encoded map: %v", back)
	}
	if _, ok := back["unrelated"]; ok {
		t.Fatalf("expected unrelated keys dropped")
	}
}

func TestFromMapBadFactor(t *testing.T) {
	s := FromMap(map[string]string{KeyAdjustmentFactor: "abc"})
	if s.AdjustmentFactor != 100 {
		t.Fatalf("expected neutral factor, got %v", s.AdjustmentFactor)
	}
}

func TestDeriveScenario(t *testing.T) {
	tables, err := vdot.Default()
	if err != nil {
		t.Fatalf("load tables: %v", err)
	}
	d := Derive(tables, Settings{BaseTime: "00:19:57", BaseDistance: "5km"})
	if !d.Found || d.Index != 50 {
		t.Fatalf("expected index 50, got %d (found=%v)", d.Index, d.Found)
	}
	easy, _ := Find(d.Paces, "Easy Km")
	if easy.Value != "5:30" || easy.IsCustom {
		t.Fatalf("unexpected easy pace: %+v", easy)
	}
	predict := d.Predictor(tables)
	if got, ok := predict(5); !ok || got != "19:57" {
		t.Fatalf("expected 19:57 prediction, got %q", got)
	}
}

func TestDeriveWithSyntheticTable(t *testing.T) {
	tables, err := vdot.Load(strings.NewReader(`
paces: ["Easy Km"]
rows:
  - index: 40
    race: {"5km": "00:24:00"}
    pace: {"Easy Km": "6:20"}
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	d := Derive(tables, Settings{BaseTime: "24:10", BaseDistance: "5km", Custom: map[string]string{"Easy Km": "6:00"}})
	if d.Index != 40 || len(d.Paces) != 1 || d.Paces[0].Value != "6:00" || !d.Paces[0].IsCustom {
		t.Fatalf("unexpected derived: %+v", d)
	}
	if empty := Derive(nil, Settings{}); len(empty.Paces) != 0 {
		t.Fatalf("expected empty derive for nil tables")
	}
}

package vdot

import (
	"strings"
	"testing"

	"github.com/verte-zerg/pacer/internal/pace"
)

const fixtureYAML = `
distances: ["5km", "10km"]
paces: ["Easy Km", "Threshold Km"]
rows:
  - index: 42
    race: {"5km": "00:22:00", "10km": "00:46:00"}
    pace: {"Easy Km": "6:00", "Threshold Km": "4:50"}
  - index: 40
    race: {"5km": "00:24:00", "10km": "00:50:00"}
    pace: {"Easy Km": "6:20", "Threshold Km": "5:05"}
  - index: 41
    race: {"5km": "00:23:00"}
    pace: {"Easy Km": "6:10"}
`

func loadFixture(t *testing.T) *Tables {
	t.Helper()
	tables, err := Load(strings.NewReader(fixtureYAML))
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	return tables
}

func loadDefaultTables(t *testing.T) *Tables {
	t.Helper()
	tables, err := Default()
	if err != nil {
		t.Fatalf("load default tables: %v", err)
	}
	return tables
}

func TestLoadSortsRows(t *testing.T) {
	tables := loadFixture(t)
	idx := tables.Indexes()
	if len(idx) != 3 || idx[0] != 40 || idx[2] != 42 {
		t.Fatalf("unexpected index order: %v", idx)
	}
}

func TestLoadRejectsDuplicateIndex(t *testing.T) {
	_, err := Load(strings.NewReader("rows:\n  - index: 40\n  - index: 40\n"))
	if err == nil {
		t.Fatalf("expected duplicate index error")
	}
}

func TestResolveNearest(t *testing.T) {
	tables := loadFixture(t)
	tests := []struct {
		name     string
		time     string
		distance string
		want     int
	}{
		{"exact", "00:23:00", "5km", 41},
		{"alias", "22:10", "5K", 42},
		{"tie keeps first row", "00:23:30", "5km", 40},
		{"sparse column skips rows", "00:47:00", "10km", 42},
		{"slower than table", "00:40:00", "5km", 40},
		{"unknown distance", "00:20:00", "marathon", 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tables.Resolve(tt.time, tt.distance); got != tt.want {
				t.Errorf("Resolve(%q, %q) = %d, want %d", tt.time, tt.distance, got, tt.want)
			}
		})
	}
}

func TestResolveEmptyTable(t *testing.T) {
	tables, err := Load(strings.NewReader(""))
	if err != nil {
		t.Fatalf("load empty: %v", err)
	}
	if got := tables.Resolve("00:20:00", "5km"); got != 0 {
		t.Fatalf("expected 0 for empty table, got %d", got)
	}
}

func TestResolveExactRowsInDefaultTable(t *testing.T) {
	tables := loadDefaultTables(t)
	for _, index := range tables.Indexes() {
		for _, key := range tables.Distances() {
			raceTime, ok := tables.RaceTime(index, key)
			if !ok {
				t.Fatalf("index %d missing %s", index, key)
			}
			if got := tables.Resolve(raceTime, key); got != index {
				t.Fatalf("Resolve(%s, %s) = %d, want %d", raceTime, key, got, index)
			}
		}
	}
}

func TestResolveMonotonic(t *testing.T) {
	tables := loadDefaultTables(t)
	for _, key := range tables.Distances() {
		prev := 0
		for secs := 60 * 60 * 5; secs >= 200; secs -= 17 {
			got := tables.Resolve(pace.FormatHMS(secs), key)
			if got < prev {
				t.Fatalf("%s: faster time %d resolved to %d after %d", key, secs, got, prev)
			}
			prev = got
		}
	}
}

func TestDefaultTableScenario(t *testing.T) {
	tables := loadDefaultTables(t)
	index := tables.Resolve("00:19:57", "5km")
	raceTime, _ := tables.RaceTime(index, "5km")
	if raceTime != "00:19:57" {
		t.Fatalf("expected row with 00:19:57, got %s at index %d", raceTime, index)
	}
	row, ok := tables.PaceTableFor(index)
	if !ok {
		t.Fatalf("expected pace row for %d", index)
	}
	easy, ok := row.Lookup("Easy Km")
	if !ok || easy != "5:30" {
		t.Fatalf("expected Easy Km 5:30, got %q", easy)
	}
	adjusted, err := pace.Adjust(easy, 105)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if adjusted != "5:14" {
		t.Fatalf("expected 5:14, got %s", adjusted)
	}
}

func TestDefaultTableOrdering(t *testing.T) {
	tables := loadDefaultTables(t)
	lo, hi, ok := tables.Range()
	if !ok || lo != 30 || hi != 85 {
		t.Fatalf("unexpected range %d-%d", lo, hi)
	}
	var prev PaceRow
	for i, index := range tables.Indexes() {
		raceSecs := 0
		for _, key := range tables.Distances() {
			v, _ := tables.RaceTime(index, key)
			secs := pace.ClockSeconds(v)
			if secs <= raceSecs {
				t.Fatalf("index %d: %s not slower than shorter distance", index, key)
			}
			raceSecs = secs
		}
		row, ok := tables.PaceTableFor(index)
		if !ok || len(row.Paces) != len(tables.PaceNames()) {
			t.Fatalf("index %d: incomplete pace row", index)
		}
		if i > 0 {
			for j, p := range row.Paces {
				cur, _ := pace.ParsePace(p.Value)
				before, _ := pace.ParsePace(prev.Paces[j].Value)
				if cur > before {
					t.Fatalf("index %d: %s slower than index %d", index, p.Name, prev.Index)
				}
			}
		}
		prev = row
	}
}

func TestPaceTableForMiss(t *testing.T) {
	tables := loadFixture(t)
	row, ok := tables.PaceTableFor(99)
	if ok || !row.Empty() {
		t.Fatalf("expected empty miss, got %+v", row)
	}
	row, ok = tables.PaceTableFor(41)
	if !ok || len(row.Paces) != 1 || row.Paces[0].Name != "Easy Km" {
		t.Fatalf("unexpected sparse row: %+v", row)
	}
}

func TestPredictRace(t *testing.T) {
	tables := loadDefaultTables(t)
	got, ok := tables.PredictRace(50, 5)
	if !ok || got != 1197 {
		t.Fatalf("expected 1197 for 5km, got %d (%v)", got, ok)
	}
	got, ok = tables.PredictRace(50, 21.1)
	if !ok || pace.FormatClock(got) != "1:31:36" {
		t.Fatalf("expected half marathon time, got %s", pace.FormatClock(got))
	}
	fiveK, _ := tables.PredictRace(50, 5)
	tenK, _ := tables.PredictRace(50, 10)
	eightK, ok := tables.PredictRace(50, 8)
	if !ok || eightK <= fiveK || eightK >= tenK {
		t.Fatalf("expected 8km between 5km and 10km, got %d", eightK)
	}
	ultra, ok := tables.PredictRace(50, 50)
	marathon, _ := tables.PredictRace(50, 42.195)
	if !ok || ultra <= marathon {
		t.Fatalf("expected extrapolated 50km beyond marathon, got %d", ultra)
	}
	if _, ok := tables.PredictRace(12, 5); ok {
		t.Fatalf("expected miss for unknown index")
	}
	if _, ok := tables.PredictRace(50, 0); ok {
		t.Fatalf("expected miss for zero distance")
	}
}

func TestDistanceKm(t *testing.T) {
	tests := map[string]float64{"5km": 5, "1500m": 1.5, "half": 21.0975, "800m": 0.8, "7.5km": 7.5}
	for key, want := range tests {
		got, ok := DistanceKm(key)
		if !ok || got != want {
			t.Errorf("DistanceKm(%q) = %v, %v; want %v", key, got, ok, want)
		}
	}
	if _, ok := DistanceKm("far"); ok {
		t.Errorf("expected unknown distance to fail")
	}
}

func TestLabel(t *testing.T) {
	if Label(50) != "Advanced Recreational" || Label(80) != "Elite" || Label(20) != "Novice" {
		t.Fatalf("unexpected labels")
	}
}

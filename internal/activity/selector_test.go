package activity

import (
	"fmt"
	"testing"

	"github.com/verte-zerg/pacer/internal/model"
)

var testPaces = []model.PaceSetting{
	{Name: "Easy Km", Value: "5:30", Default: "5:30"},
	{Name: "Threshold Km", Value: "4:10", Default: "4:15", IsCustom: true},
	{Name: "Interval Km", Value: "3:55", Default: "3:55"},
	{Name: "Marathon Km", Value: "", Default: ""},
}

func fakePredict(km float64) (string, bool) {
	if km == 5 {
		return "19:57", true
	}
	if km == 1 {
		return "03:34", true
	}
	return "", false
}

func TestPaceDispatch(t *testing.T) {
	tests := []struct {
		name string
		act  model.ScheduledActivity
		want string
	}{
		{"easy", model.ScheduledActivity{Type: "easy", Distance: 8, Units: "km"}, "5:30"},
		{"case insensitive", model.ScheduledActivity{Type: " Threshold ", Distance: 6}, "4:10"},
		{"missing pace", model.ScheduledActivity{Type: "recovery", Distance: 4}, "N/A"},
		{"empty value", model.ScheduledActivity{Type: "marathon", Distance: 10}, "N/A"},
		{"race", model.ScheduledActivity{Type: "race", Distance: 5}, "19:57"},
		{"race without prediction", model.ScheduledActivity{Type: "race", Distance: 7}, "N/A"},
		{"unknown", model.ScheduledActivity{Type: "swim", Distance: 2}, "N/A"},
		{"rest", model.ScheduledActivity{Type: "rest"}, "N/A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Pace(tt.act, testPaces, fakePredict); got != tt.want {
				t.Errorf("Pace(%+v) = %q, want %q", tt.act, got, tt.want)
			}
		})
	}
}

func TestPaceNilPredictor(t *testing.T) {
	if got := Pace(model.ScheduledActivity{Type: "race", Distance: 5}, nil, nil); got != "N/A" {
		t.Fatalf("expected N/A, got %q", got)
	}
}

func TestPaceIsPure(t *testing.T) {
	act := model.ScheduledActivity{Type: "interval", Distance: 6}
	first := Pace(act, testPaces, fakePredict)
	for i := 0; i < 5; i++ {
		if got := Pace(act, testPaces, fakePredict); got != first {
			t.Fatalf("call %d returned %q, want %q", i, got, first)
		}
	}
}

func TestSeriesPacesUseSegmentDistance(t *testing.T) {
	act := model.ScheduledActivity{
		Type:     "race",
		Distance: 10,
		Workouts: []model.Workout{{
			Note: "time trial",
			Series: []model.Series{
				{Sets: 1, Work: "5km", Distance: 5},
				{Sets: 2, Work: "1km", Rest: "2min", Distance: 1},
				{Sets: 1, Work: "rest of race"},
			},
		}},
	}
	segs := SeriesPaces(act, testPaces, fakePredict)
	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segs))
	}
	got := fmt.Sprint(segs[0].Pace, segs[1].Pace, segs[2].Pace)
	if got != fmt.Sprint("19:57", "03:34", "N/A") {
		t.Fatalf("unexpected segment paces: %s", got)
	}
	if segs[1].Rest != "2min" || segs[1].Sets != 2 {
		t.Fatalf("unexpected segment metadata: %+v", segs[1])
	}
}

func TestSeriesPacesForPaceTypes(t *testing.T) {
	act := model.ScheduledActivity{
		Type:     "interval",
		Distance: 8,
		Workouts: []model.Workout{{Series: []model.Series{{Sets: 5, Work: "1000m", Rest: "400m", Distance: 1}}}},
	}
	segs := SeriesPaces(act, testPaces, fakePredict)
	if len(segs) != 1 || segs[0].Pace != "3:55" {
		t.Fatalf("unexpected segments: %+v", segs)
	}
}

func TestPaceName(t *testing.T) {
	if name, ok := PaceName("Repetition"); !ok || name != "Repetition Km" {
		t.Fatalf("unexpected mapping: %q %v", name, ok)
	}
	if _, ok := PaceName("race"); ok {
		t.Fatalf("race should not map to a named pace")
	}
}

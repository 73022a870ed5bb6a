package calendarui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/pacer/internal/coach"
	"github.com/verte-zerg/pacer/internal/model"
	"github.com/verte-zerg/pacer/internal/vdot"
)

type memStore struct {
	settings map[string]string
}

func (m memStore) LoadSettings(context.Context, string) (map[string]string, error) {
	return m.settings, nil
}

func (m memStore) SaveSettings(context.Context, string, map[string]string) error {
	return nil
}

func (m memStore) ListLogs(context.Context, model.LogFilter) ([]model.WorkoutLog, error) {
	return []model.WorkoutLog{{ID: "a", Date: "2026-03-03", Title: "Morning", ActivityType: "easy", Distance: 6}}, nil
}

type failingSource struct{}

func (failingSource) View(context.Context, time.Time) (coach.View, error) {
	return coach.View{}, errors.New("store offline")
}

func newTestModel(t *testing.T) *Model {
	t.Helper()
	tables, err := vdot.Default()
	if err != nil {
		t.Fatalf("tables: %v", err)
	}
	days := make([]model.TrainingDay, 15)
	for i := range days {
		days[i] = model.TrainingDay{Activities: []model.ScheduledActivity{{Type: "easy", Distance: 6, Units: "km"}}}
	}
	plan := model.Plan{Path: "p", Name: "Three Weeks", Days: days}
	svc := coach.New(memStore{settings: map[string]string{
		"startDate":    "2026-03-02",
		"baseTime":     "00:19:57",
		"baseDistance": "5km",
	}}, tables, plan, coach.Options{Location: time.UTC})
	now := func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) }
	return NewModel(svc, now)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestWeekNavigation(t *testing.T) {
	m := newTestModel(t)
	if m.Week() != 1 {
		t.Fatalf("expected current week 1, got %d", m.Week())
	}
	steps := []struct {
		key  string
		want int
	}{
		{"n", 2},
		{"n", 2},
		{"p", 1},
		{"p", 0},
		{"p", 0},
		{"t", 1},
	}
	for _, step := range steps {
		m.Update(key(step.key))
		if m.Week() != step.want {
			t.Fatalf("after %q expected week %d, got %d", step.key, step.want, m.Week())
		}
	}
}

func TestTabNavigation(t *testing.T) {
	m := newTestModel(t)
	m.Update(key("right"))
	if m.ActiveTab() != tabPaces {
		t.Fatalf("expected paces tab, got %d", m.ActiveTab())
	}
	m.Update(key("left"))
	m.Update(key("left"))
	if m.ActiveTab() != tabProgress {
		t.Fatalf("expected wrap to progress tab, got %d", m.ActiveTab())
	}
	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Fatalf("expected quit command")
	}
}

func TestViewRendersWeek(t *testing.T) {
	m := newTestModel(t)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 60})
	out := m.View()
	for _, want := range []string{"Schedule", "Three Weeks", "Index: 50", "Week 2 of 3", "(today)", "5:30"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view:\n%s", want, out)
		}
	}

	m.Update(key("p"))
	out = m.View()
	if !strings.Contains(out, "done") || !strings.Contains(out, "missed") {
		t.Fatalf("expected completion markers in first week:\n%s", out)
	}
}

func TestLoadErrorShownInFooter(t *testing.T) {
	m := NewModel(failingSource{}, nil)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	if !strings.Contains(m.View(), "store offline") {
		t.Fatalf("expected error in footer:\n%s", m.View())
	}
}

func TestTruncateLine(t *testing.T) {
	if got := truncateLine("abcdefgh", 6); got != "abc..." {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := truncateLine("abc", 6); got != "abc" {
		t.Fatalf("unexpected truncation %q", got)
	}
}

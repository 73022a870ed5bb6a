package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/pacer/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "nested", "pacer.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	})
	return s
}

func TestSettingsRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	got, err := s.LoadSettings(ctx, "10k-base")
	if err != nil {
		t.Fatalf("load empty: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty settings, got %v", got)
	}

	first := map[string]string{"baseTime": "00:19:57", "custom_Easy Km": "5:20"}
	if err := s.SaveSettings(ctx, "10k-base", first); err != nil {
		t.Fatalf("save: %v", err)
	}
	second := map[string]string{"baseTime": "00:20:30"}
	if err := s.SaveSettings(ctx, "10k-base", second); err != nil {
		t.Fatalf("save again: %v", err)
	}
	if err := s.SaveSettings(ctx, "5k-starter", map[string]string{"baseTime": "00:25:00"}); err != nil {
		t.Fatalf("save other plan: %v", err)
	}

	got, err = s.LoadSettings(ctx, "10k-base")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got["baseTime"] != "00:20:30" {
		t.Fatalf("expected whole-map replace, got %v", got)
	}
}

func TestLogCRUD(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	fixed := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	idx := 3
	inserted, err := s.InsertLog(ctx, model.WorkoutLog{
		Date:         "2026-03-04",
		Title:        "Tempo",
		ActivityType: "threshold",
		Distance:     8,
		Duration:     2040,
		Pace:         "4:15",
		PlanPath:     "10k-base",
		PlanDayIndex: &idx,
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if inserted.ID == "" || inserted.Source != model.SourceManual || !inserted.CreatedAt.Equal(fixed) {
		t.Fatalf("unexpected inserted log: %+v", inserted)
	}
	if _, err := s.InsertLog(ctx, model.WorkoutLog{Date: "2026-03-02", Title: "Easy", ActivityType: "easy", Distance: 5, Source: model.SourceFIT}); err != nil {
		t.Fatalf("insert second: %v", err)
	}

	logs, err := s.ListLogs(ctx, model.LogFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(logs) != 2 || logs[0].Date != "2026-03-02" || logs[1].ID != inserted.ID {
		t.Fatalf("unexpected order: %+v", logs)
	}
	if logs[0].PlanDayIndex != nil || logs[1].PlanDayIndex == nil || *logs[1].PlanDayIndex != 3 {
		t.Fatalf("unexpected day index round trip: %+v", logs)
	}

	filtered, err := s.ListLogs(ctx, model.LogFilter{PlanPath: "10k-base", Since: "2026-03-03", Until: "2026-03-31"})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Title != "Tempo" {
		t.Fatalf("unexpected filtered logs: %+v", filtered)
	}
	limited, err := s.ListLogs(ctx, model.LogFilter{Limit: 1})
	if err != nil {
		t.Fatalf("limit: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected 1 log, got %d", len(limited))
	}

	later := fixed.Add(time.Hour)
	s.now = func() time.Time { return later }
	inserted.Distance = 9
	inserted.PlanDayIndex = nil
	updated, err := s.UpdateLog(ctx, inserted)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Distance != 9 || updated.PlanDayIndex != nil || !updated.UpdatedAt.Equal(later) || !updated.CreatedAt.Equal(fixed) {
		t.Fatalf("unexpected updated log: %+v", updated)
	}

	if err := s.DeleteLog(ctx, inserted.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteLog(ctx, inserted.ID); !errors.Is(err, ErrLogNotFound) {
		t.Fatalf("expected ErrLogNotFound, got %v", err)
	}
	if _, err := s.UpdateLog(ctx, inserted); !errors.Is(err, ErrLogNotFound) {
		t.Fatalf("expected ErrLogNotFound on update, got %v", err)
	}
	if _, err := s.GetLog(ctx, "missing"); !errors.Is(err, ErrLogNotFound) {
		t.Fatalf("expected ErrLogNotFound on get, got %v", err)
	}
}

func TestRebind(t *testing.T) {
	tests := []struct {
		driver string
		want   string
	}{
		{DriverSQLite, "a = ? AND b = ?"},
		{DriverPostgres, "a = $1 AND b = $2"},
	}
	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			s := &Store{driver: tt.driver}
			if got := s.rebind("a = ? AND b = ?"); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open("mysql", "x"); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

// Package store handles settings and workout log persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq" // PostgreSQL driver.

	"github.com/verte-zerg/pacer/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ErrLogNotFound reports an unknown workout log id.
var ErrLogNotFound = errors.New("workout log not found")

// Store wraps database access for settings and workout logs.
type Store struct {
	db     *sql.DB
	driver string
	now    func() time.Time
}

// Open opens the database for driver and applies migrations.
// For sqlite the dsn is a file path whose directory is created on demand.
func Open(driver, dsn string) (*Store, error) {
	if driver == "" {
		driver = DriverSQLite
	}
	switch driver {
	case DriverSQLite:
		if dsn != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
				return nil, err
			}
		}
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}
	store := &Store{db: db, driver: driver, now: time.Now}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS settings (
			plan_path TEXT NOT NULL,
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			PRIMARY KEY (plan_path, key)
		);`,
		`CREATE TABLE IF NOT EXISTS workout_logs (
			id TEXT PRIMARY KEY,
			date TEXT NOT NULL,
			title TEXT NOT NULL,
			activity_type TEXT NOT NULL,
			distance_km DOUBLE PRECISION NOT NULL,
			duration_s BIGINT NOT NULL,
			pace TEXT NOT NULL,
			plan_path TEXT NOT NULL,
			plan_day_index BIGINT,
			source TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_workout_logs_date ON workout_logs(date);`,
		`CREATE INDEX IF NOT EXISTS idx_workout_logs_plan ON workout_logs(plan_path);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
	}
	return nil
}

// rebind rewrites ? placeholders into $n for postgres.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// LoadSettings returns the persisted key/value map for a plan.
func (s *Store) LoadSettings(ctx context.Context, planPath string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT key, value FROM settings WHERE plan_path = ?`), planPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	result := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		result[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// SaveSettings replaces the whole settings map for a plan.
func (s *Store) SaveSettings(ctx context.Context, planPath string, values map[string]string) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, s.rebind(`DELETE FROM settings WHERE plan_path = ?`), planPath); err != nil {
		return err
	}
	if len(values) > 0 {
		stmt, perr := tx.PrepareContext(ctx, s.rebind(`INSERT INTO settings (plan_path, key, value) VALUES (?, ?, ?)`))
		if perr != nil {
			err = perr
			return err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for key, value := range values {
			if _, err = stmt.ExecContext(ctx, planPath, key, value); err != nil {
				return err
			}
		}
	}
	err = tx.Commit()
	return err
}

// InsertLog stores a new workout log and returns it with id and timestamps set.
func (s *Store) InsertLog(ctx context.Context, log model.WorkoutLog) (model.WorkoutLog, error) {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.Source == "" {
		log.Source = model.SourceManual
	}
	now := s.now().UTC()
	log.CreatedAt = now
	log.UpdatedAt = now
	_, err := s.db.ExecContext(ctx, s.rebind(
		`INSERT INTO workout_logs (id, date, title, activity_type, distance_km, duration_s, pace, plan_path, plan_day_index, source, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		log.ID,
		log.Date,
		log.Title,
		log.ActivityType,
		log.Distance,
		log.Duration,
		log.Pace,
		log.PlanPath,
		nullableIndex(log.PlanDayIndex),
		log.Source,
		now.Format(time.RFC3339Nano),
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return model.WorkoutLog{}, fmt.Errorf("failed to insert workout log: %w", err)
	}
	return log, nil
}

// UpdateLog overwrites the editable fields of an existing log.
func (s *Store) UpdateLog(ctx context.Context, log model.WorkoutLog) (model.WorkoutLog, error) {
	now := s.now().UTC()
	res, err := s.db.ExecContext(ctx, s.rebind(
		`UPDATE workout_logs SET date = ?, title = ?, activity_type = ?, distance_km = ?, duration_s = ?, pace = ?,
		 plan_path = ?, plan_day_index = ?, updated_at = ?
		 WHERE id = ?`),
		log.Date,
		log.Title,
		log.ActivityType,
		log.Distance,
		log.Duration,
		log.Pace,
		log.PlanPath,
		nullableIndex(log.PlanDayIndex),
		now.Format(time.RFC3339Nano),
		log.ID,
	)
	if err != nil {
		return model.WorkoutLog{}, fmt.Errorf("failed to update workout log: %w", err)
	}
	if err := expectOne(res, log.ID); err != nil {
		return model.WorkoutLog{}, err
	}
	return s.GetLog(ctx, log.ID)
}

// DeleteLog removes a log by id.
func (s *Store) DeleteLog(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM workout_logs WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete workout log: %w", err)
	}
	return expectOne(res, id)
}

// GetLog returns one log by id.
func (s *Store) GetLog(ctx context.Context, id string) (model.WorkoutLog, error) {
	logs, err := s.queryLogs(ctx, `WHERE id = ?`, []any{id}, 0)
	if err != nil {
		return model.WorkoutLog{}, err
	}
	if len(logs) == 0 {
		return model.WorkoutLog{}, fmt.Errorf("%w: %s", ErrLogNotFound, id)
	}
	return logs[0], nil
}

// ListLogs returns logs matching filter ordered by date.
func (s *Store) ListLogs(ctx context.Context, filter model.LogFilter) ([]model.WorkoutLog, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.PlanPath != "" {
		clauses = append(clauses, "plan_path = ?")
		args = append(args, filter.PlanPath)
	}
	if filter.Since != "" {
		clauses = append(clauses, "date >= ?")
		args = append(args, filter.Since)
	}
	if filter.Until != "" {
		clauses = append(clauses, "date <= ?")
		args = append(args, filter.Until)
	}
	return s.queryLogs(ctx, "WHERE "+strings.Join(clauses, " AND "), args, filter.Limit)
}

func (s *Store) queryLogs(ctx context.Context, where string, args []any, limit int) ([]model.WorkoutLog, error) {
	query := fmt.Sprintf(`SELECT id, date, title, activity_type, distance_km, duration_s, pace, plan_path, plan_day_index, source, created_at, updated_at
		FROM workout_logs
		%s
		ORDER BY date ASC, created_at ASC`, where)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var logs []model.WorkoutLog
	for rows.Next() {
		var log model.WorkoutLog
		var dayIndex sql.NullInt64
		var createdAt, updatedAt string
		if err := rows.Scan(&log.ID, &log.Date, &log.Title, &log.ActivityType, &log.Distance, &log.Duration,
			&log.Pace, &log.PlanPath, &dayIndex, &log.Source, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		if dayIndex.Valid {
			idx := int(dayIndex.Int64)
			log.PlanDayIndex = &idx
		}
		if log.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, err
		}
		if log.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

func nullableIndex(idx *int) sql.NullInt64 {
	if idx == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*idx), Valid: true}
}

func expectOne(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrLogNotFound, id)
	}
	return nil
}

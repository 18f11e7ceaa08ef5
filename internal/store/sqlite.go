package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/mailgroom/internal/pipeline"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// SaveRun inserts a run record. If the run has no ID, a new UUID is
// generated.
func (s *SQLiteStore) SaveRun(ctx context.Context, run RunRecord) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	steps, err := json.Marshal(run.Steps)
	if err != nil {
		return fmt.Errorf("marshaling steps for run %s: %w", run.ID, err)
	}

	actions, err := json.Marshal(run.Actions)
	if err != nil {
		return fmt.Errorf("marshaling actions for run %s: %w", run.ID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (
			id, started_at, source, steps,
			total_processed, total_remaining, steps_executed,
			actions, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UTC(), run.Source, string(steps),
		run.TotalProcessed, run.TotalRemaining, run.StepsExecuted,
		string(actions), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving run %s: %w", run.ID, err)
	}

	return nil
}

// GetRuns retrieves the most recent runs, newest first.
func (s *SQLiteStore) GetRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := "SELECT * FROM runs ORDER BY started_at DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// GetRunByID retrieves a single run by its ID. Returns nil when no run
// with that ID exists.
func (s *SQLiteStore) GetRunByID(ctx context.Context, id string) (*RunRecord, error) {
	rows, err := s.db.QueryxContext(ctx, "SELECT * FROM runs WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("querying run %s: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("getting run %s: %w", id, err)
		}
		return nil, nil
	}

	run, err := scanRun(rows)
	if err != nil {
		return nil, fmt.Errorf("getting run %s: %w", id, err)
	}

	return &run, nil
}

// scanRun scans a run row from a sqlx.Rows result set.
func scanRun(rows *sqlx.Rows) (RunRecord, error) {
	var (
		run       RunRecord
		startedAt time.Time
		steps     string
		actions   string
		createdAt time.Time
	)

	err := rows.Scan(
		&run.ID, &startedAt, &run.Source, &steps,
		&run.TotalProcessed, &run.TotalRemaining, &run.StepsExecuted,
		&actions, &createdAt,
	)
	if err != nil {
		return RunRecord{}, fmt.Errorf("scanning run row: %w", err)
	}

	run.StartedAt = startedAt

	if steps != "" {
		if err := json.Unmarshal([]byte(steps), &run.Steps); err != nil {
			return RunRecord{}, fmt.Errorf("unmarshaling run steps: %w", err)
		}
	}

	if actions != "" {
		var records []pipeline.ActionRecord
		if err := json.Unmarshal([]byte(actions), &records); err != nil {
			return RunRecord{}, fmt.Errorf("unmarshaling run actions: %w", err)
		}
		run.Actions = records
	}

	return run, nil
}

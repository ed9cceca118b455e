package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/amr-summary/internal/domain"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore opens the ledger at dbPath, creating the file and schema when missing.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db, dbPath: dbPath}, nil
}

// Path returns the database file of the store.
func (s *SQLiteStore) Path() string {
	return s.dbPath
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS summary_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL UNIQUE,
		summary_type TEXT NOT NULL,
		species TEXT DEFAULT '',
		samples TEXT NOT NULL DEFAULT '',
		outputs TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		rows_written INTEGER NOT NULL DEFAULT 0,
		error_code TEXT DEFAULT '',
		error TEXT DEFAULT '',
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_summary_runs_type ON summary_runs(summary_type);
	CREATE INDEX IF NOT EXISTS idx_summary_runs_started_at ON summary_runs(started_at);
	`

	_, err := db.Exec(schema)
	return err
}

// scanner is an interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

const selectRuns = `
	SELECT id, run_id, summary_type, species, samples, outputs, status,
		rows_written, error_code, error, started_at, finished_at
	FROM summary_runs`

func scanRun(s scanner) (*Run, error) {
	run := &Run{}
	var samples, outputs, status string

	err := s.Scan(
		&run.ID, &run.RunID, &run.SummaryType, &run.Species, &samples, &outputs, &status,
		&run.Rows, &run.ErrorCode, &run.Error, &run.StartedAt, &run.FinishedAt,
	)
	if err != nil {
		return nil, err
	}

	run.Samples = splitList(samples)
	run.Outputs = splitList(outputs)
	run.Status = domain.Status(status)
	return run, nil
}

// Record stores a finished run.
func (s *SQLiteStore) Record(ctx context.Context, run *Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO summary_runs (
			run_id, summary_type, species, samples, outputs, status,
			rows_written, error_code, error, started_at, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			summary_type = excluded.summary_type,
			species = excluded.species,
			samples = excluded.samples,
			outputs = excluded.outputs,
			status = excluded.status,
			rows_written = excluded.rows_written,
			error_code = excluded.error_code,
			error = excluded.error,
			started_at = excluded.started_at,
			finished_at = excluded.finished_at
	`,
		run.RunID,
		run.SummaryType,
		run.Species,
		joinList(run.Samples),
		joinList(run.Outputs),
		string(run.Status),
		run.Rows,
		run.ErrorCode,
		run.Error,
		run.StartedAt,
		run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert: %w", err)
	}

	err = s.db.QueryRowContext(ctx, "SELECT id FROM summary_runs WHERE run_id = ?", run.RunID).Scan(&run.ID)
	if err != nil {
		return fmt.Errorf("failed to get run ID: %w", err)
	}
	return nil
}

// Get returns the run with the given RunID.
func (s *SQLiteStore) Get(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, selectRuns+" WHERE run_id = ? LIMIT 1", runID)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan: %w", err)
	}
	return run, nil
}

// List returns runs, newest first.
func (s *SQLiteStore) List(ctx context.Context, limit, offset int) ([]*Run, error) {
	rows, err := s.db.QueryContext(ctx, selectRuns+" ORDER BY started_at DESC, id DESC LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	var result []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, run)
	}
	return result, rows.Err()
}

// Count returns the number of recorded runs.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM summary_runs").Scan(&count)
	return count, err
}

// Delete removes a run.
func (s *SQLiteStore) Delete(ctx context.Context, runID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM summary_runs WHERE run_id = ?", runID)
	return err
}

// ExportJSON writes every run to writer.
func (s *SQLiteStore) ExportJSON(ctx context.Context, writer io.Writer) error {
	return exportJSON(ctx, s, writer)
}

// ImportJSON reads runs written by ExportJSON.
func (s *SQLiteStore) ImportJSON(ctx context.Context, reader io.Reader) (int, int, error) {
	return importJSON(ctx, s, reader)
}

// Close closes the store and releases resources.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

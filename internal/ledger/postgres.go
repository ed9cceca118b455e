package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	_ "github.com/lib/pq"

	"github.com/amr-summary/internal/domain"
)

// PostgresStore implements the Store interface using PostgreSQL.
// The schema is created by the migrations in internal/database.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps an open connection.
func NewPostgresStore(db *sql.DB) (*PostgresStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// NewPostgresStoreFromURL opens a PostgreSQL ledger from a connection URL.
func NewPostgresStoreFromURL(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	store, err := NewPostgresStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

const pgSelectRuns = `
	SELECT id, run_id, summary_type, species, samples, outputs, status,
		rows_written, error_code, error, started_at, finished_at
	FROM summary_runs`

// Record stores a finished run, replacing a run with the same RunID.
func (s *PostgresStore) Record(ctx context.Context, run *Run) error {
	query := `
		INSERT INTO summary_runs (
			run_id, summary_type, species, samples, outputs, status,
			rows_written, error_code, error, started_at, finished_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (run_id) DO UPDATE SET
			summary_type = EXCLUDED.summary_type,
			species = EXCLUDED.species,
			samples = EXCLUDED.samples,
			outputs = EXCLUDED.outputs,
			status = EXCLUDED.status,
			rows_written = EXCLUDED.rows_written,
			error_code = EXCLUDED.error_code,
			error = EXCLUDED.error,
			started_at = EXCLUDED.started_at,
			finished_at = EXCLUDED.finished_at
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query,
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
	).Scan(&run.ID)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// Get returns the run with the given RunID.
func (s *PostgresStore) Get(ctx context.Context, runID string) (*Run, error) {
	run, err := scanPostgresRun(s.db.QueryRowContext(ctx, pgSelectRuns+" WHERE run_id = $1 LIMIT 1", runID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// List returns runs, newest first.
func (s *PostgresStore) List(ctx context.Context, limit, offset int) ([]*Run, error) {
	rows, err := s.db.QueryContext(ctx, pgSelectRuns+" ORDER BY started_at DESC, id DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var result []*Run
	for rows.Next() {
		run, err := scanPostgresRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, run)
	}
	return result, rows.Err()
}

func scanPostgresRun(s scanner) (*Run, error) {
	run := &Run{}
	var samples, outputs, status string
	var errorCode, errorText sql.NullString

	err := s.Scan(
		&run.ID, &run.RunID, &run.SummaryType, &run.Species, &samples, &outputs, &status,
		&run.Rows, &errorCode, &errorText, &run.StartedAt, &run.FinishedAt,
	)
	if err != nil {
		return nil, err
	}

	run.Samples = splitList(samples)
	run.Outputs = splitList(outputs)
	run.Status = domain.Status(status)
	run.ErrorCode = errorCode.String
	run.Error = errorText.String
	return run, nil
}

// Count returns the number of recorded runs.
func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM summary_runs").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return count, nil
}

// Delete removes a run.
func (s *PostgresStore) Delete(ctx context.Context, runID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM summary_runs WHERE run_id = $1", runID); err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	return nil
}

// ExportJSON writes every run to writer.
func (s *PostgresStore) ExportJSON(ctx context.Context, writer io.Writer) error {
	return exportJSON(ctx, s, writer)
}

// ImportJSON reads runs written by ExportJSON.
func (s *PostgresStore) ImportJSON(ctx context.Context, reader io.Reader) (int, int, error) {
	return importJSON(ctx, s, reader)
}

// Close closes the store and releases resources.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

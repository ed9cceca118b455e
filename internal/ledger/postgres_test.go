package ledger

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amr-summary/internal/domain"
)

var runColumns = []string{
	"id", "run_id", "summary_type", "species", "samples", "outputs", "status",
	"rows_written", "error_code", "error", "started_at", "finished_at",
}

func setupMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.ExpectPing()
	store, err := NewPostgresStore(db)
	require.NoError(t, err)
	return store, mock
}

func TestNewPostgresStore_NilDB(t *testing.T) {
	_, err := NewPostgresStore(nil)
	assert.Error(t, err)
}

func TestPostgresStore_Record(t *testing.T) {
	store, mock := setupMockStore(t)
	run := newRun("pointfinder", time.Now().UTC())

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO summary_runs")).
		WithArgs(run.RunID, "pointfinder", "escherichia_coli", "S1\nS2",
			"out/summary/amr_genes.csv\nout/summary/amr_phenotypes.csv", "written", 12, "", "",
			run.StartedAt, run.FinishedAt).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	require.NoError(t, store.Record(context.Background(), run))
	assert.Equal(t, int64(42), run.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Get(t *testing.T) {
	store, mock := setupMockStore(t)
	started := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM summary_runs WHERE run_id = \\$1").
		WithArgs("run-1").
		WillReturnRows(sqlmock.NewRows(runColumns).
			AddRow(7, "run-1", "iles", "salmonella", "S1", "", "skipped", 0, nil, nil, started, started.Add(time.Second)))

	got, err := store.Get(context.Background(), "run-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.StatusSkipped, got.Status)
	assert.Equal(t, []string{"S1"}, got.Samples)
	assert.Nil(t, got.Outputs)
	assert.Empty(t, got.ErrorCode)
	assert.Equal(t, time.Second, got.Duration())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetNotFound(t *testing.T) {
	store, mock := setupMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM summary_runs WHERE run_id = \\$1").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	got, err := store.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListCountDelete(t *testing.T) {
	store, mock := setupMockStore(t)
	started := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM summary_runs ORDER BY started_at DESC").
		WithArgs(20, 0).
		WillReturnRows(sqlmock.NewRows(runColumns).
			AddRow(2, "run-2", "resfinder", "escherichia_coli", "S1\nS2", "a.csv\nb.csv", "written", 8, "", "", started, started).
			AddRow(1, "run-1", "iles", "escherichia_coli", "S1\nS2", "", "failed", 0, domain.ErrMissingReport, "boom", started, started))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM summary_runs")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM summary_runs WHERE run_id = $1")).
		WithArgs("run-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ctx := context.Background()
	runs, err := store.List(ctx, 20, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, []string{"a.csv", "b.csv"}, runs[0].Outputs)
	assert.Equal(t, domain.ErrMissingReport, runs[1].ErrorCode)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, store.Delete(ctx, "run-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

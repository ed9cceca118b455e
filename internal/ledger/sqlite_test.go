package ledger

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amr-summary/internal/domain"
)

func createTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "ledger", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newRun(summaryType string, startedAt time.Time) *Run {
	return &Run{
		RunID:       uuid.NewString(),
		SummaryType: summaryType,
		Species:     "escherichia_coli",
		Samples:     []string{"S1", "S2"},
		Outputs:     []string{"out/summary/amr_genes.csv", "out/summary/amr_phenotypes.csv"},
		Status:      domain.StatusWritten,
		Rows:        12,
		StartedAt:   startedAt,
		FinishedAt:  startedAt.Add(250 * time.Millisecond),
	}
}

func TestNewSQLiteStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "ledger.db")

	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "Database file should exist")
	assert.Equal(t, dbPath, store.Path())
}

func TestSQLiteStore_RecordAndGet(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()
	run := newRun("resfinder", time.Now().UTC().Truncate(time.Second))

	require.NoError(t, store.Record(ctx, run))
	assert.NotZero(t, run.ID)

	got, err := store.Get(ctx, run.RunID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, run.SummaryType, got.SummaryType)
	assert.Equal(t, []string{"S1", "S2"}, got.Samples)
	assert.Equal(t, run.Outputs, got.Outputs)
	assert.Equal(t, domain.StatusWritten, got.Status)
	assert.Equal(t, 12, got.Rows)
	assert.True(t, run.StartedAt.Equal(got.StartedAt))
	assert.Equal(t, 250*time.Millisecond, got.Duration())
}

func TestSQLiteStore_RecordReplaces(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()
	run := newRun("iles", time.Now().UTC())
	require.NoError(t, store.Record(ctx, run))
	firstID := run.ID

	run.Status = domain.StatusFailed
	run.Outputs = nil
	run.ErrorCode = domain.ErrMissingReport
	run.Error = "report missing"
	require.NoError(t, store.Record(ctx, run))

	assert.Equal(t, firstID, run.ID)
	got, err := store.Get(ctx, run.RunID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, got.Status)
	assert.Empty(t, got.Outputs)
	assert.Equal(t, domain.ErrMissingReport, got.ErrorCode)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSQLiteStore_GetNotFound(t *testing.T) {
	store := createTestStore(t)

	got, err := store.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteStore_ListAndDelete(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)

	var runs []*Run
	for i, st := range []string{"resfinder", "pointfinder", "iles"} {
		r := newRun(st, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, store.Record(ctx, r))
		runs = append(runs, r)
	}

	all, err := store.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "iles", all[0].SummaryType, "newest run first")

	page, err := store.List(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "pointfinder", page[0].SummaryType)

	require.NoError(t, store.Delete(ctx, runs[0].RunID))
	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestSQLiteStore_ExportImport(t *testing.T) {
	ctx := context.Background()
	source := createTestStore(t)
	for _, st := range []string{"resfinder", "virulencefinder"} {
		require.NoError(t, source.Record(ctx, newRun(st, time.Now().UTC())))
	}

	var buf bytes.Buffer
	require.NoError(t, source.ExportJSON(ctx, &buf))
	assert.Contains(t, buf.String(), `"version": "1.0"`)
	assert.Contains(t, buf.String(), `"count": 2`)

	target := createTestStore(t)
	imported, skipped, err := target.ImportJSON(ctx, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 2, imported)
	assert.Equal(t, 0, skipped)

	imported, skipped, err = target.ImportJSON(ctx, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 0, imported)
	assert.Equal(t, 2, skipped)
}

func TestOpen(t *testing.T) {
	store, err := Open(domain.LedgerConfig{Driver: domain.LedgerSQLite, Path: filepath.Join(t.TempDir(), "l.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, store)
	store.Close()

	store, err = Open(domain.LedgerConfig{Driver: domain.LedgerNone})
	require.NoError(t, err)
	assert.NoError(t, store.Record(context.Background(), newRun("iles", time.Now())))
	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = Open(domain.LedgerConfig{Driver: domain.LedgerSQLite})
	assert.Error(t, err)
	_, err = Open(domain.LedgerConfig{Driver: domain.LedgerPostgres})
	assert.Error(t, err)
	_, err = Open(domain.LedgerConfig{Driver: "mongodb"})
	assert.Error(t, err)
}

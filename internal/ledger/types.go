// Package ledger records every summary run: what was summarized, for which samples, where
// the outputs went and how the run ended. It answers "which pipeline run produced this CSV".
package ledger

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/amr-summary/internal/domain"
)

// Run is one summary invocation.
type Run struct {
	ID          int64         `json:"id,omitempty"`
	RunID       string        `json:"run_id"`
	SummaryType string        `json:"summary_type"`
	Species     string        `json:"species,omitempty"`
	Samples     []string      `json:"samples"`
	Outputs     []string      `json:"outputs,omitempty"`
	Status      domain.Status `json:"status"`
	Rows        int           `json:"rows"`
	ErrorCode   string        `json:"error_code,omitempty"`
	Error       string        `json:"error,omitempty"`
	StartedAt   time.Time     `json:"started_at"`
	FinishedAt  time.Time     `json:"finished_at"`
}

// Duration returns how long the run took.
func (r *Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Store defines the interface for run ledger storage.
type Store interface {
	// Record stores a finished run. Recording a RunID that already exists replaces it.
	Record(ctx context.Context, run *Run) error

	// Get returns the run with the given RunID, or nil when there is none.
	Get(ctx context.Context, runID string) (*Run, error)

	// List returns runs, newest first.
	List(ctx context.Context, limit, offset int) ([]*Run, error)

	// Count returns the number of recorded runs.
	Count(ctx context.Context) (int64, error)

	// Delete removes a run.
	Delete(ctx context.Context, runID string) error

	// ExportJSON writes every run to writer.
	ExportJSON(ctx context.Context, writer io.Writer) error

	// ImportJSON reads runs written by ExportJSON. Runs already present are skipped.
	ImportJSON(ctx context.Context, reader io.Reader) (imported int, skipped int, err error)

	Close() error
}

// Export is the JSON export format.
type Export struct {
	Version    string    `json:"version"`
	ExportedAt time.Time `json:"exported_at"`
	Count      int       `json:"count"`
	Runs       []*Run    `json:"runs"`
}

const exportVersion = "1.0"

// maxExportLimit is the maximum number of runs exported at once.
const maxExportLimit = 1000000

// list columns are stored as newline-separated text in both backends
func joinList(items []string) string {
	return strings.Join(items, "\n")
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

package ledger

import (
	"context"
	"fmt"
	"io"

	"github.com/amr-summary/internal/domain"
)

// Open returns the store selected by cfg.
func Open(cfg domain.LedgerConfig) (Store, error) {
	switch cfg.Driver {
	case domain.LedgerSQLite, "":
		if cfg.Path == "" {
			return nil, fmt.Errorf("ledger path is required for the %s driver", domain.LedgerSQLite)
		}
		return NewSQLiteStore(cfg.Path)
	case domain.LedgerPostgres:
		if cfg.URL == "" {
			return nil, fmt.Errorf("ledger url is required for the %s driver", domain.LedgerPostgres)
		}
		return NewPostgresStoreFromURL(cfg.URL)
	case domain.LedgerNone:
		return NopStore{}, nil
	default:
		return nil, fmt.Errorf("unknown ledger driver %q", cfg.Driver)
	}
}

// NopStore discards runs. It backs the "none" ledger driver.
type NopStore struct{}

func (NopStore) Record(context.Context, *Run) error { return nil }
func (NopStore) Get(context.Context, string) (*Run, error) { return nil, nil }
func (NopStore) List(context.Context, int, int) ([]*Run, error) { return nil, nil }
func (NopStore) Count(context.Context) (int64, error) { return 0, nil }
func (NopStore) Delete(context.Context, string) error { return nil }
func (NopStore) ImportJSON(context.Context, io.Reader) (int, int, error) { return 0, 0, nil }
func (NopStore) Close() error { return nil }

// ExportJSON writes an empty export.
func (s NopStore) ExportJSON(ctx context.Context, writer io.Writer) error {
	return exportJSON(ctx, s, writer)
}

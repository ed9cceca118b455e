package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// Health reports the state of a PostgreSQL ledger.
type Health struct {
	ServerVersion string
	Latency       time.Duration
	// Migrated is false until the summary_runs table exists.
	Migrated bool
	Runs     int64
}

// CheckLedger connects to the ledger database and reports its reachability and schema state.
func CheckLedger(ctx context.Context, databaseURL string, logger *logrus.Logger) (*Health, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database url: %w", err)
	}
	poolConfig.MaxConns = 1
	poolConfig.MinConns = 0
	poolConfig.MaxConnLifetime = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	defer pool.Close()

	start := time.Now()
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	health := &Health{Latency: time.Since(start)}

	if err := pool.QueryRow(ctx, "SHOW server_version").Scan(&health.ServerVersion); err != nil {
		return nil, fmt.Errorf("reading server version: %w", err)
	}
	if err := pool.QueryRow(ctx, "SELECT to_regclass('public.summary_runs') IS NOT NULL").Scan(&health.Migrated); err != nil {
		return nil, fmt.Errorf("checking ledger schema: %w", err)
	}
	if health.Migrated {
		if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM summary_runs").Scan(&health.Runs); err != nil {
			return nil, fmt.Errorf("counting runs: %w", err)
		}
	}

	logger.WithFields(logrus.Fields{
		"host":           poolConfig.ConnConfig.Host,
		"database":       poolConfig.ConnConfig.Database,
		"server_version": health.ServerVersion,
		"latency":        health.Latency,
		"migrated":       health.Migrated,
	}).Debug("Ledger database reachable")

	return health, nil
}

package config

import (
	"os"
	"path/filepath"
)

// DataDirEnv overrides the directory holding the run ledger and exports.
const DataDirEnv = "AMR_SUMMARY_DATA_DIR"

// DataDir is the per-user directory for state that outlives a single run.
type DataDir string

// DefaultDataDir returns $AMR_SUMMARY_DATA_DIR, or ~/.amr-summary when unset.
func DefaultDataDir() DataDir {
	if v := os.Getenv(DataDirEnv); v != "" {
		return DataDir(v)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return DataDir(".amr-summary")
	}
	return DataDir(filepath.Join(homeDir, ".amr-summary"))
}

// LedgerPath returns the path of the SQLite run ledger.
func (d DataDir) LedgerPath() string {
	return filepath.Join(string(d), "ledger.db")
}

// ExportDir returns the directory for JSON ledger exports.
func (d DataDir) ExportDir() string {
	return filepath.Join(string(d), "exports")
}

// Ensure creates the data directory and its export directory.
func (d DataDir) Ensure() error {
	if err := os.MkdirAll(string(d), 0755); err != nil {
		return err
	}
	return os.MkdirAll(d.ExportDir(), 0755)
}

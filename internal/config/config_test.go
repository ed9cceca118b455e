package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amr-summary/internal/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config", "user_parameters.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewManager_ReadsRunParameters(t *testing.T) {
	path := writeConfig(t, `
species: escherichia_coli
out: /data/run42
logging:
  level: debug
  format: json
ledger:
  driver: none
`)

	m, err := NewManager(path, true)
	require.NoError(t, err)

	cfg := m.GetConfig()
	assert.Equal(t, "escherichia_coli", cfg.Species)
	assert.Equal(t, "/data/run42", cfg.OutputDir)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "stderr", cfg.Logging.Output)
	assert.Equal(t, domain.LedgerNone, cfg.Ledger.Driver)
	assert.Equal(t, filepath.Join("/data/run42", "summary"), m.SummaryDir())
	assert.Equal(t, path, m.ConfigFileUsed())
	assert.NoError(t, m.Validate())
}

func TestNewManager_LegacyOutputKey(t *testing.T) {
	path := writeConfig(t, "species: salmonella\noutput_dir: /data/legacy\n")

	m, err := NewManager(path, true)
	require.NoError(t, err)
	assert.Equal(t, "/data/legacy", m.GetConfig().OutputDir)
}

func TestNewManager_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	m, err := NewManager(missing, false)
	require.NoError(t, err)
	assert.Equal(t, domain.LedgerSQLite, m.GetConfig().Ledger.Driver)
	assert.Equal(t, "info", m.GetConfig().Logging.Level)

	_, err = NewManager(missing, true)
	assert.Error(t, err)
}

func TestNewManager_EnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, "species: campylobacter\nout: /data/file\n")
	t.Setenv("AMR_SUMMARY_SPECIES", "salmonella")
	t.Setenv("AMR_SUMMARY_LEDGER_DRIVER", "postgres")
	t.Setenv("AMR_SUMMARY_LEDGER_URL", "postgres://localhost/ledger")

	m, err := NewManager(path, true)
	require.NoError(t, err)

	cfg := m.GetConfig()
	assert.Equal(t, "salmonella", cfg.Species)
	assert.Equal(t, "/data/file", cfg.OutputDir)
	assert.Equal(t, domain.LedgerPostgres, cfg.Ledger.Driver)
	assert.NoError(t, m.Validate())
}

func TestManager_ApplyOverrides(t *testing.T) {
	path := writeConfig(t, "species: campylobacter\nout: /data/file\n")
	m, err := NewManager(path, true)
	require.NoError(t, err)

	m.ApplyOverrides("", "/data/flag")
	assert.Equal(t, "campylobacter", m.GetConfig().Species)
	assert.Equal(t, "/data/flag", m.GetConfig().OutputDir)

	m.ApplyOverrides("Escherichia coli", "")
	assert.Equal(t, "Escherichia coli", m.GetConfig().Species)
}

func TestManager_Validate(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		field string
	}{
		{"Missing output dir", "species: salmonella\n", "out"},
		{"Bad log level", "out: /o\nlogging:\n  level: loud\n", "logging.level"},
		{"Bad log format", "out: /o\nlogging:\n  format: xml\n", "logging.format"},
		{"Unknown ledger", "out: /o\nledger:\n  driver: mongodb\n", "ledger.driver"},
		{"Postgres without url", "out: /o\nledger:\n  driver: postgres\n", "ledger.url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewManager(writeConfig(t, tt.yaml), true)
			require.NoError(t, err)

			err = m.Validate()
			var validation *domain.ValidationError
			require.True(t, errors.As(err, &validation))
			assert.Equal(t, tt.field, validation.Field)
		})
	}
}

func TestManager_ValidateSpecies(t *testing.T) {
	m, err := NewManager(writeConfig(t, "out: /o\n"), true)
	require.NoError(t, err)
	assert.Error(t, m.ValidateSpecies())

	m.ApplyOverrides("salmonella", "")
	assert.NoError(t, m.ValidateSpecies())
}

func TestDataDir(t *testing.T) {
	t.Setenv(DataDirEnv, filepath.Join(t.TempDir(), "state"))

	d := DefaultDataDir()
	assert.Equal(t, filepath.Join(string(d), "ledger.db"), d.LedgerPath())

	require.NoError(t, d.Ensure())
	info, err := os.Stat(d.ExportDir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestDefaultDataDir_Home(t *testing.T) {
	t.Setenv(DataDirEnv, "")
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, DataDir(filepath.Join(home, ".amr-summary")), DefaultDataDir())
}

// Package config loads the run configuration with viper.
//
// The pipeline writes config/user_parameters.yaml before the summaries are built; it carries
// the species and the output directory. Environment variables (AMR_SUMMARY_*) and CLI flags
// override the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/amr-summary/internal/domain"
)

// DefaultConfigPath is where the pipeline writes the run parameters.
const DefaultConfigPath = "config/user_parameters.yaml"

// EnvPrefix is the prefix of environment variables read by the manager.
const EnvPrefix = "AMR_SUMMARY"

// legacyOutputKey is the output directory key used by older run parameter files.
const legacyOutputKey = "output_dir"

// Manager loads and validates the run configuration
type Manager struct {
	v          *viper.Viper
	configPath string
	config     *domain.Config
}

// NewManager loads configuration from path. A missing file is tolerated unless mustExist is
// set, so defaults, environment and flags alone can drive a run.
func NewManager(path string, mustExist bool) (*Manager, error) {
	m := &Manager{v: viper.New(), configPath: path}
	if err := m.loadConfig(mustExist); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

// loadConfig loads configuration from the file, environment and defaults
func (m *Manager) loadConfig(mustExist bool) error {
	v := m.v
	if m.configPath != "" {
		v.SetConfigFile(m.configPath)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	m.setDefaults()

	if m.configPath != "" {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			missing := errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
			if !missing || mustExist {
				return fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	config := &domain.Config{}
	if err := v.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}
	if config.OutputDir == "" {
		config.OutputDir = v.GetString(legacyOutputKey)
	}

	m.config = config
	return nil
}

// setDefaults sets default configuration values
func (m *Manager) setDefaults() {
	v := m.v

	// Bound explicitly so AMR_SUMMARY_SPECIES and AMR_SUMMARY_OUT reach Unmarshal
	v.SetDefault("species", "")
	v.SetDefault("out", "")
	v.SetDefault(legacyOutputKey, "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("ledger.driver", domain.LedgerSQLite)
	v.SetDefault("ledger.path", DefaultDataDir().LedgerPath())
	v.SetDefault("ledger.url", "")
}

// GetConfig returns the complete configuration
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// ConfigFileUsed returns the configuration file that was read, if any.
func (m *Manager) ConfigFileUsed() string {
	return m.v.ConfigFileUsed()
}

// ApplyOverrides replaces file values with non-empty command line values.
func (m *Manager) ApplyOverrides(species, outputDir string) {
	if species != "" {
		m.config.Species = species
	}
	if outputDir != "" {
		m.config.OutputDir = outputDir
	}
}

// SummaryDir returns the directory summary files are written to.
func (m *Manager) SummaryDir() string {
	return filepath.Join(m.config.OutputDir, domain.SummaryDirName)
}

// Validate validates the configuration
func (m *Manager) Validate() error {
	config := m.config

	if strings.TrimSpace(config.OutputDir) == "" {
		return domain.NewValidationError("out", "output directory is required", config.OutputDir)
	}

	validLogLevels := map[string]bool{
		"trace": true, "debug": true, "info": true, "warn": true, "warning": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		return domain.NewValidationError("logging.level", "invalid log level", config.Logging.Level)
	}

	switch strings.ToLower(config.Logging.Format) {
	case "json", "text":
	default:
		return domain.NewValidationError("logging.format", "must be json or text", config.Logging.Format)
	}

	switch config.Ledger.Driver {
	case domain.LedgerSQLite:
		if config.Ledger.Path == "" {
			return domain.NewValidationError("ledger.path", "required for the sqlite ledger", config.Ledger.Path)
		}
	case domain.LedgerPostgres:
		if config.Ledger.URL == "" {
			return domain.NewValidationError("ledger.url", "required for the postgres ledger", config.Ledger.URL)
		}
	case domain.LedgerNone:
	default:
		return domain.NewValidationError("ledger.driver", "must be sqlite, postgres or none", config.Ledger.Driver)
	}

	return nil
}

// ValidateSpecies checks that a species is configured. Only the lab summary needs one.
func (m *Manager) ValidateSpecies() error {
	if strings.TrimSpace(m.config.Species) == "" {
		return domain.NewValidationError("species", "species is required for this summary type", m.config.Species)
	}
	return nil
}

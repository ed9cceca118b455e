package domain

// Config represents the run configuration. It is loaded once per invocation and handed to
// the summarizer; builders never read configuration themselves.
type Config struct {
	Species   string        `mapstructure:"species"`
	OutputDir string        `mapstructure:"out"`
	Logging   LoggingConfig `mapstructure:"logging"`
	Ledger    LedgerConfig  `mapstructure:"ledger"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json", "text"
	Output string `mapstructure:"output"` // "stdout", "stderr" or a file path
}

// LedgerConfig selects where summary runs are recorded.
type LedgerConfig struct {
	Driver string `mapstructure:"driver"` // "sqlite", "postgres", "none"
	Path   string `mapstructure:"path"`   // SQLite database file
	URL    string `mapstructure:"url"`    // PostgreSQL connection URL
}

// Ledger drivers
const (
	LedgerSQLite   = "sqlite"
	LedgerPostgres = "postgres"
	LedgerNone     = "none"
)

// SummaryDirName is the directory created under the output dir for summary files.
const SummaryDirName = "summary"

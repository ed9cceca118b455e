package cli

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/amr-summary/internal/config"
	"github.com/amr-summary/internal/domain"
	"github.com/amr-summary/internal/ledger"
	"github.com/amr-summary/internal/logging"
)

// app is the per-invocation state built from the persistent flags.
type app struct {
	manager *config.Manager
	config  *domain.Config
	logger  *logrus.Logger
	closers []io.Closer
}

// load reads the run configuration and builds the logger. An explicit --config must exist;
// the default path may be absent.
func (o *rootOptions) load(cmd *cobra.Command) (*app, error) {
	mustExist := false
	if f := cmd.Flag("config"); f != nil {
		mustExist = f.Changed
	}

	manager, err := config.NewManager(o.configPath, mustExist)
	if err != nil {
		return nil, errors.WithHintf(err, "check that %s is readable YAML", o.configPath)
	}
	manager.ApplyOverrides(o.species, o.outputDir)

	cfg := manager.GetConfig()
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}

	logger, closer, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}

	return &app{
		manager: manager,
		config:  cfg,
		logger:  logger,
		closers: []io.Closer{closer},
	}, nil
}

// openLedger opens the configured run ledger. It is closed with the app.
func (a *app) openLedger() (ledger.Store, error) {
	store, err := ledger.Open(a.config.Ledger)
	if err != nil {
		return nil, errors.WithHint(
			errors.Wrap(err, "failed to open run ledger"),
			"set ledger.driver to none to run without a ledger")
	}
	a.closers = append(a.closers, store)
	return store, nil
}

// Close releases the ledger and the log file, newest first.
func (a *app) Close() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

package cli

import (
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/amr-summary/internal/database"
)

func newLedgerCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Manage the PostgreSQL ledger schema",
		Long: `Manage the PostgreSQL run ledger schema. The SQLite ledger creates its schema
on open and needs no migrations.

Examples:
  amr-summary ledger migrate            # Apply pending migrations
  amr-summary ledger migrate --down     # Roll back one migration
  amr-summary ledger status             # Check connectivity and schema`,
	}
	cmd.AddCommand(newLedgerMigrateCommand(root))
	cmd.AddCommand(newLedgerStatusCommand(root))
	return cmd
}

func newLedgerStatusCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check that the PostgreSQL ledger is reachable and migrated",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.load(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			url, err := ledgerURL(a)
			if err != nil {
				return err
			}
			health, err := database.CheckLedger(cmd.Context(), url, a.logger)
			if err != nil {
				return err
			}

			data := pterm.TableData{
				{"Server version", health.ServerVersion},
				{"Latency", health.Latency.Round(time.Microsecond).String()},
				{"Migrated", strconv.FormatBool(health.Migrated)},
				{"Runs", strconv.FormatInt(health.Runs, 10)},
			}
			if err := pterm.DefaultTable.WithData(data).Render(); err != nil {
				return err
			}
			if !health.Migrated {
				pterm.Warning.Println("Run amr-summary ledger migrate before recording runs")
			}
			return nil
		},
	}
}

func ledgerURL(a *app) (string, error) {
	if a.config.Ledger.URL == "" {
		return "", errors.WithHint(errors.New("ledger url is not configured"),
			"set ledger.url or AMR_SUMMARY_LEDGER_URL")
	}
	return a.config.Ledger.URL, nil
}

func newLedgerMigrateCommand(root *rootOptions) *cobra.Command {
	var down bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back ledger migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.load(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			url, err := ledgerURL(a)
			if err != nil {
				return err
			}

			runner, err := database.NewMigrationRunner(url, a.logger)
			if err != nil {
				return err
			}
			defer runner.Close()

			if down {
				err = runner.Down(cmd.Context())
			} else {
				err = runner.Up(cmd.Context())
			}
			if err != nil {
				return err
			}

			version, dirty, err := runner.Version()
			if err != nil {
				pterm.Success.Println("Ledger schema is empty")
				return nil
			}
			pterm.Success.Printfln("Ledger schema at version %d (dirty: %t)", version, dirty)
			return nil
		},
	}
	cmd.Flags().BoolVar(&down, "down", false, "Roll back one migration")
	return cmd
}

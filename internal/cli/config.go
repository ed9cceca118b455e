package cli

import (
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/amr-summary/internal/config"
	"github.com/amr-summary/internal/domain"
)

func newConfigCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or validate the run configuration",
		Long: `Show or validate the run configuration after the file, AMR_SUMMARY_* environment
variables and flags have been applied.

Examples:
  amr-summary config show
  amr-summary config validate --config config/user_parameters.yaml`,
	}
	cmd.AddCommand(newConfigShowCommand(root))
	cmd.AddCommand(newConfigValidateCommand(root))
	return cmd
}

func newConfigShowCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.load(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			cfg := a.config
			file := a.manager.ConfigFileUsed()
			if _, err := os.Stat(file); err != nil {
				file += " (not found, defaults in use)"
			}

			data := pterm.TableData{
				{"Config file", file},
				{"Species", cfg.Species},
				{"Lab summary panel", panelStatus(cfg.Species)},
				{"Output directory", cfg.OutputDir},
				{"Summary directory", a.manager.SummaryDir()},
				{"Log level", cfg.Logging.Level},
				{"Log format", cfg.Logging.Format},
				{"Log output", cfg.Logging.Output},
				{"Ledger driver", cfg.Ledger.Driver},
				{"Ledger", ledgerLocation(cfg.Ledger)},
				{"Data directory", dataDirStatus(config.DefaultDataDir())},
			}
			return pterm.DefaultTable.WithData(data).Render()
		},
	}
}

func newConfigValidateCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.load(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.manager.Validate(); err != nil {
				return err
			}
			if err := a.manager.ValidateSpecies(); err != nil {
				pterm.Warning.Println("No species configured; the iles summary will be skipped")
			}
			pterm.Success.Println("Configuration is valid")
			return nil
		},
	}
}

func panelStatus(species string) string {
	panel, err := domain.PanelForSpecies(species)
	if err != nil {
		return "none (iles summary skipped)"
	}
	return strings.Join(panel.Antimicrobials, ", ")
}

func ledgerLocation(cfg domain.LedgerConfig) string {
	switch cfg.Driver {
	case domain.LedgerPostgres:
		if cfg.URL == "" {
			return "-"
		}
		return "postgres (url set)"
	case domain.LedgerNone:
		return "-"
	default:
		return cfg.Path
	}
}

func dataDirStatus(dir config.DataDir) string {
	if _, err := os.Stat(string(dir)); err != nil {
		return string(dir) + " (not created yet)"
	}
	return string(dir)
}

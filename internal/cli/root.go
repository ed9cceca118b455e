// Package cli wires the amr-summary command tree.
package cli

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/amr-summary/internal/config"
)

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	species    string
	outputDir  string
	logLevel   string
}

// NewRootCommand builds the amr-summary command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "amr-summary",
		Short: "Aggregate per-sample AMR reports into cross-sample summaries",
		Long: `amr-summary - Aggregate per-sample antimicrobial resistance reports.

Reads the ResFinder, PointFinder, VirulenceFinder and AMRFinderPlus reports of each
sample directory and writes one CSV summary per report family. Every run is recorded
in a ledger so outputs can be traced back to the samples that produced them.

Available commands:
  summarize - Build the summaries of one summary type
  history   - Inspect, export and import recorded runs
  ledger    - Manage the PostgreSQL ledger schema
  config    - Show or validate the run configuration
  version   - Show version information

Examples:
  amr-summary summarize -t resfinder -i out/S1 -i out/S2 \
      --summary_resfinder out/summary/amr_genes.csv,out/summary/amr_phenotypes.csv
  amr-summary history --limit 10
  amr-summary config show`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", config.DefaultConfigPath, "Run parameters file (species, out)")
	flags.StringVar(&opts.species, "species", "", "Override the species from the run parameters")
	flags.StringVar(&opts.outputDir, "output-dir", "", "Override the output directory from the run parameters")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")

	root.AddCommand(newSummarizeCommand(opts))
	root.AddCommand(newHistoryCommand(opts))
	root.AddCommand(newLedgerCommand(opts))
	root.AddCommand(newConfigCommand(opts))
	root.AddCommand(newVersionCommand())

	return root
}

// Execute runs the command tree with args and returns the process exit code.
func Execute(ctx context.Context, args []string) int {
	root := NewRootCommand()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		printError(err)
		return 1
	}
	return 0
}

func printError(err error) {
	pterm.Error.Println(err.Error())
	for _, hint := range errors.GetAllHints(err) {
		pterm.Info.Println(hint)
	}
}

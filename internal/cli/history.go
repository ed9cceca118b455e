package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/amr-summary/internal/config"
	"github.com/amr-summary/internal/ledger"
)

func newHistoryCommand(root *rootOptions) *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded summary runs",
		Long: `List, inspect, export and import the runs recorded in the ledger.

Examples:
  amr-summary history                      # Last 20 runs
  amr-summary history show 5f0c...         # One run in detail
  amr-summary history export --file runs.json
  amr-summary history import runs.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(cmd, root, func(store ledger.Store) error {
				return listRuns(cmd, store, limit, offset)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of runs to show")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of runs to skip")

	cmd.AddCommand(newHistoryShowCommand(root))
	cmd.AddCommand(newHistoryExportCommand(root))
	cmd.AddCommand(newHistoryImportCommand(root))
	cmd.AddCommand(newHistoryDeleteCommand(root))
	return cmd
}

func newHistoryShowCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show RUN_ID",
		Short: "Show one recorded run by id or unique id prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(cmd, root, func(store ledger.Store) error {
				run, err := resolveRun(cmd.Context(), store, args[0])
				if err != nil {
					return err
				}
				printRun(run)
				return nil
			})
		},
	}
}

func newHistoryExportCommand(root *rootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every recorded run as JSON",
		Long: `Export every recorded run as JSON. Without --file the export is written to the
exports directory of the data directory; --file - writes to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(cmd, root, func(store ledger.Store) error {
				if file == "-" {
					return store.ExportJSON(cmd.Context(), cmd.OutOrStdout())
				}
				if file == "" {
					dataDir := config.DefaultDataDir()
					if err := dataDir.Ensure(); err != nil {
						return errors.Wrap(err, "failed to create data directory")
					}
					file = filepath.Join(dataDir.ExportDir(),
						fmt.Sprintf("ledger-%s.json", time.Now().UTC().Format("20060102-150405")))
				}

				f, err := os.Create(file)
				if err != nil {
					return errors.Wrapf(err, "failed to create %s", file)
				}
				defer f.Close()

				if err := store.ExportJSON(cmd.Context(), f); err != nil {
					return err
				}
				pterm.Success.Printfln("Ledger exported to %s", file)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Export file (- for stdout)")
	return cmd
}

func newHistoryImportCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import runs from a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(cmd, root, func(store ledger.Store) error {
				f, err := os.Open(args[0])
				if err != nil {
					return errors.Wrapf(err, "failed to open %s", args[0])
				}
				defer f.Close()

				imported, skipped, err := store.ImportJSON(cmd.Context(), f)
				if err != nil {
					return err
				}
				pterm.Success.Printfln("Imported %d runs (%d already present)", imported, skipped)
				return nil
			})
		},
	}
}

func newHistoryDeleteCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete RUN_ID",
		Short: "Delete a recorded run by id or unique id prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(cmd, root, func(store ledger.Store) error {
				run, err := resolveRun(cmd.Context(), store, args[0])
				if err != nil {
					return err
				}
				if err := store.Delete(cmd.Context(), run.RunID); err != nil {
					return err
				}
				pterm.Success.Printfln("Deleted run %s", run.RunID)
				return nil
			})
		},
	}
}

// withLedger loads the configuration, opens the ledger and runs fn against it.
func withLedger(cmd *cobra.Command, root *rootOptions, fn func(ledger.Store) error) error {
	a, err := root.load(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	store, err := a.openLedger()
	if err != nil {
		return err
	}
	return fn(store)
}

const resolvePageSize = 500

// resolveRun returns the run whose id is id or, failing that, the one run whose id starts
// with it.
func resolveRun(ctx context.Context, store ledger.Store, id string) (*ledger.Run, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("run id is empty")
	}
	run, err := store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if run != nil {
		return run, nil
	}

	var matches []*ledger.Run
	for offset := 0; ; offset += resolvePageSize {
		runs, err := store.List(ctx, resolvePageSize, offset)
		if err != nil {
			return nil, err
		}
		for _, r := range runs {
			if strings.HasPrefix(r.RunID, id) {
				matches = append(matches, r)
			}
		}
		if len(runs) < resolvePageSize {
			break
		}
	}

	switch len(matches) {
	case 0:
		return nil, errors.WithHint(errors.Newf("run %s not found", id), "list runs with amr-summary history")
	case 1:
		return matches[0], nil
	default:
		return nil, errors.WithHint(errors.Newf("run prefix %s matches %d runs", id, len(matches)),
			"use more characters of the run id")
	}
}

func listRuns(cmd *cobra.Command, store ledger.Store, limit, offset int) error {
	runs, err := store.List(cmd.Context(), limit, offset)
	if err != nil {
		return err
	}
	total, err := store.Count(cmd.Context())
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		pterm.Info.Println("No summary runs recorded")
		return nil
	}

	data := pterm.TableData{{"Run", "Type", "Status", "Samples", "Rows", "Started", "Duration"}}
	for _, run := range runs {
		data = append(data, []string{
			shortID(run.RunID),
			run.SummaryType,
			string(run.Status),
			strconv.Itoa(len(run.Samples)),
			strconv.Itoa(run.Rows),
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Duration().Round(time.Millisecond).String(),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}
	pterm.Printfln("Showing %d of %d runs", len(runs), total)
	return nil
}

func printRun(run *ledger.Run) {
	pterm.DefaultSection.Printfln("Run %s", run.RunID)

	data := pterm.TableData{
		{"Summary type", run.SummaryType},
		{"Species", run.Species},
		{"Status", string(run.Status)},
		{"Rows", strconv.Itoa(run.Rows)},
		{"Started", run.StartedAt.Local().Format(time.RFC3339)},
		{"Duration", run.Duration().Round(time.Millisecond).String()},
		{"Samples", strings.Join(run.Samples, ", ")},
		{"Outputs", strings.Join(run.Outputs, "\n")},
	}
	if run.ErrorCode != "" {
		data = append(data, []string{"Error", fmt.Sprintf("%s: %s", run.ErrorCode, run.Error)})
	}
	_ = pterm.DefaultTable.WithData(data).Render()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

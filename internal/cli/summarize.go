package cli

import (
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/amr-summary/internal/domain"
	"github.com/amr-summary/internal/service"
)

type summarizeOptions struct {
	inputs          []string
	summaryType     string
	resfinder       []string
	pointfinder     []string
	virulencefinder string
	amrfinderplus   string
	iles            string
}

func newSummarizeCommand(root *rootOptions) *cobra.Command {
	opts := &summarizeOptions{}

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Build the summaries of one summary type",
		Long: `Build the cross-sample summaries of one summary type.

Sample directories are given with --input (repeatable, comma separated) or as
arguments. Output files are used as given; the summary directory under the
configured output directory is created either way.

Summary types and their output flags:
  resfinder       --summary_resfinder GENES,PHENOTYPES
  pointfinder     --summary_pointfinder RESULTS,PREDICTIONS
  virulencefinder --summary_virulencefinder FILE
  amrfinderplus   --summary_amrfinderplus FILE
  iles            --summary_iles FILE

Examples:
  amr-summary summarize -t pointfinder -i out/S1,out/S2 \
      --summary_pointfinder out/summary/pointfinder_results.csv \
      --summary_pointfinder out/summary/pointfinder_prediction.csv
  amr-summary summarize -t iles --summary_iles out/summary/iles.csv out/S1 out/S2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummarize(cmd, root, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVarP(&opts.inputs, "input", "i", nil, "Sample result directories")
	flags.StringVarP(&opts.summaryType, "summary_type", "t", "", "Summary type: resfinder, pointfinder, amrfinderplus, virulencefinder or iles")
	flags.StringSliceVar(&opts.resfinder, "summary_resfinder", nil, "Gene and phenotype summary files")
	flags.StringSliceVar(&opts.pointfinder, "summary_pointfinder", nil, "Point mutation result and prediction summary files")
	flags.StringVar(&opts.virulencefinder, "summary_virulencefinder", "", "Virulence gene summary file")
	flags.StringVar(&opts.amrfinderplus, "summary_amrfinderplus", "", "AMRFinderPlus element summary file")
	flags.StringVar(&opts.iles, "summary_iles", "", "Lab information system summary file")
	_ = cmd.MarkFlagRequired("summary_type")

	return cmd
}

// outputs returns the output files given for summary type t.
func (o *summarizeOptions) outputs(t domain.SummaryType) []string {
	switch t {
	case domain.SummaryResFinder:
		return o.resfinder
	case domain.SummaryPointFinder:
		return o.pointfinder
	case domain.SummaryVirulenceFinder:
		return single(o.virulencefinder)
	case domain.SummaryAMRFinderPlus:
		return single(o.amrfinderplus)
	case domain.SummaryIles:
		return single(o.iles)
	default:
		return nil
	}
}

func single(path string) []string {
	if path == "" {
		return nil
	}
	return []string{path}
}

func runSummarize(cmd *cobra.Command, root *rootOptions, opts *summarizeOptions, args []string) error {
	summaryType, err := domain.ParseSummaryType(opts.summaryType)
	if err != nil {
		return errors.WithHintf(errors.Wrapf(err, "%q", opts.summaryType),
			"choose one of %v", domain.SummaryTypes)
	}

	inputs := append(append([]string{}, opts.inputs...), args...)
	if len(inputs) == 0 {
		return errors.WithHint(domain.ErrNoSamples, "pass sample directories with --input or as arguments")
	}

	a, err := root.load(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.manager.Validate(); err != nil {
		return errors.WithHintf(err, "set it in %s or with a flag", root.configPath)
	}
	if summaryType == domain.SummaryIles {
		if err := a.manager.ValidateSpecies(); err != nil {
			a.logger.WithError(err).Warn("No species configured, the lab summary will be skipped")
		}
	}

	store, err := a.openLedger()
	if err != nil {
		return err
	}

	summarizer := service.NewSummarizerService(a.logger, a.config, store)
	result, err := summarizer.Summarize(cmd.Context(), &service.SummarizeParams{
		SummaryType: summaryType,
		Inputs:      inputs,
		Outputs:     opts.outputs(summaryType),
	})
	if err != nil {
		return err
	}

	printSummarizeResult(result)
	return nil
}

func printSummarizeResult(result *service.SummarizeResult) {
	if result.Status == domain.StatusSkipped && len(result.Outputs) == 0 {
		pterm.Warning.Printfln("%s summary skipped (run %s)", result.SummaryType, result.RunID)
		return
	}

	pterm.Success.Printfln("%s summary written in %s (run %s)",
		result.SummaryType, result.Duration.Round(time.Millisecond), result.RunID)

	data := pterm.TableData{{"Operation", "Status", "Samples", "Rows", "Output"}}
	for _, op := range result.Operations {
		output := "-"
		if len(op.Outputs) > 0 {
			output = op.Outputs[0]
		}
		data = append(data, []string{
			op.Operation,
			string(op.Status),
			strconv.Itoa(op.Samples),
			strconv.Itoa(op.Rows),
			output,
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		pterm.Printfln("%d rows written", result.Rows)
	}
}

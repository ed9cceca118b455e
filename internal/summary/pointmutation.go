package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"

	"github.com/amr-summary/internal/domain"
	"github.com/amr-summary/internal/report"
)

// PointMutationSummaryBuilder aggregates PointFinder mutation calls and predictions across samples.
type PointMutationSummaryBuilder struct {
	logger *logrus.Logger
	// Schema is the expected PointFinder_results.txt header. When empty the header of the
	// first sample with a non-empty report is used.
	Schema []string
}

// NewPointMutationSummaryBuilder creates a new point mutation summary builder
func NewPointMutationSummaryBuilder(logger *logrus.Logger) *PointMutationSummaryBuilder {
	return &PointMutationSummaryBuilder{logger: logger}
}

// ResultSummary writes every mutation row of every sample to output with the sample name
// prepended. A sample without mutation rows contributes one row holding only its name.
func (b *PointMutationSummaryBuilder) ResultSummary(ctx context.Context, samples []domain.SampleReportSet, output string) (*Result, error) {
	if len(samples) == 0 {
		return nil, domain.ErrNoSamples
	}

	reports := make([]*report.PointMutationReport, 0, len(samples))
	for _, s := range samples {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := report.ReadPointMutationReport(s)
		if err != nil {
			return nil, errors.Wrap(err, "point mutation result summary")
		}
		reports = append(reports, r)
	}

	schema := b.Schema
	if schema == nil {
		schema = leaderHeader(reports)
	}
	if len(schema) == 0 {
		return nil, errors.WithHint(
			domain.NewMalformedReportError(reports[0].Sample, reports[0].Path, "missing header line"),
			"no sample has a PointFinder_results.txt header; check the PointFinder runs")
	}

	records := [][]string{prepend(SampleColumn, schema)}
	for _, r := range reports {
		if r.Header != nil && !equalColumns(schema, r.Header) {
			return nil, domain.NewSchemaMismatchError(r.Sample, r.Path, schema, r.Header)
		}
		if len(r.Rows) == 0 {
			records = append(records, prepend(r.Sample, make([]string, len(schema))))
			continue
		}
		for i, row := range r.Rows {
			if len(row) > len(schema) {
				return nil, domain.NewMalformedReportError(r.Sample, r.Path,
					fmt.Sprintf("row %d has %d columns, header has %d", i+1, len(row), len(schema)))
			}
			records = append(records, prepend(r.Sample, report.Pad(row, len(schema))))
		}
	}

	if err := writeRecords(output, records); err != nil {
		return nil, err
	}

	b.logger.WithFields(logrus.Fields{
		"output":  output,
		"samples": len(samples),
		"rows":    len(records) - 1,
	}).Info("Point mutation result summary written")

	return written(OpPointResult, output, len(samples), len(records)-1), nil
}

// leaderHeader returns the header of the first report that has one.
func leaderHeader(reports []*report.PointMutationReport) []string {
	for _, r := range reports {
		if len(r.Header) > 0 {
			return r.Header
		}
	}
	return nil
}

// PredictionSummary writes one row per sample holding the values of its
// PointFinder_prediction.txt. Columns are the union over all samples.
func (b *PointMutationSummaryBuilder) PredictionSummary(ctx context.Context, samples []domain.SampleReportSet, output string) (*Result, error) {
	if len(samples) == 0 {
		return nil, domain.ErrNoSamples
	}

	frame := NewFrame(SampleColumn)
	for _, s := range samples {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := report.ReadPredictionReport(s)
		if err != nil {
			return nil, errors.Wrap(err, "point mutation prediction summary")
		}
		frame.Append(prepend(SampleColumn, r.Header), prepend(s.Name, r.Values))
	}

	if err := writeRecords(output, frame.Records()); err != nil {
		return nil, err
	}

	b.logger.WithFields(logrus.Fields{
		"output":  output,
		"samples": len(samples),
	}).Info("Point mutation prediction summary written")

	return written(OpPointPrediction, output, len(samples), frame.Len()), nil
}

// MutationView builds the point-mutation side of the lab summary. Each sample yields one
// row keyed by samplename; every resistance becomes a lower-cased column holding the
// comma-joined mutations that confer it. Only columns naming a panel antimicrobial are kept.
func (b *PointMutationSummaryBuilder) MutationView(ctx context.Context, samples []domain.SampleReportSet, panel domain.AntimicrobialPanel) (*Frame, error) {
	frame := NewFrame(LabSampleColumn)
	for _, s := range samples {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		r, err := report.ReadPointMutationReport(s)
		if err != nil {
			return nil, errors.Wrap(err, "lab mutation view")
		}
		calls, err := r.Calls()
		if err != nil {
			return nil, err
		}

		var order []string
		mutations := make(map[string][]string)
		for _, call := range calls {
			for _, res := range call.Resistances {
				col := lower(res)
				if !panel.MatchesColumn(col) {
					continue
				}
				if _, ok := mutations[col]; !ok {
					order = append(order, col)
				}
				mutations[col] = append(mutations[col], call.Mutation)
			}
		}

		row := map[string]string{LabSampleColumn: s.Name}
		for _, col := range order {
			row[col] = strings.Join(mutations[col], ",")
		}
		frame.AppendRow(order, row)

		b.logger.WithFields(logrus.Fields{
			"sample":      s.Name,
			"mutations":   len(calls),
			"resistances": len(order),
		}).Debug("Collected point mutations for lab summary")
	}
	return frame, nil
}

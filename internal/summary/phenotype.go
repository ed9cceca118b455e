package summary

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"

	"github.com/amr-summary/internal/domain"
	"github.com/amr-summary/internal/report"
)

// PhenotypeSummaryBuilder aggregates ResFinder phenotype tables across samples.
type PhenotypeSummaryBuilder struct {
	logger    *logrus.Logger
	mutations *PointMutationSummaryBuilder
}

// NewPhenotypeSummaryBuilder creates a new phenotype summary builder
func NewPhenotypeSummaryBuilder(logger *logrus.Logger) *PhenotypeSummaryBuilder {
	return &PhenotypeSummaryBuilder{
		logger:    logger,
		mutations: NewPointMutationSummaryBuilder(logger),
	}
}

// InformationalHeader copies lines 8 to 16 of the first sample's phenotype report into
// output, one single-field CSV row per line. The output is created or truncated; Build
// appends the phenotype table after it.
func (b *PhenotypeSummaryBuilder) InformationalHeader(ctx context.Context, first domain.SampleReportSet, output string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r, err := report.ReadPhenotypeReport(first)
	if err != nil {
		return nil, errors.Wrap(err, "phenotype informational header")
	}
	lines, err := r.InformationalHeader()
	if err != nil {
		return nil, err
	}

	records := make([][]string, len(lines))
	for i, l := range lines {
		records[i] = []string{l}
	}
	if err := writeRecords(output, records); err != nil {
		return nil, err
	}

	b.logger.WithFields(logrus.Fields{
		"sample": first.Name,
		"output": output,
		"lines":  len(lines),
	}).Debug("Phenotype informational header written")

	return written(OpPhenotypeHeader, output, 1, len(records)), nil
}

// Build appends one row per sample to output: the sample name plus the Match value of
// every antimicrobial in that sample's table. Antimicrobials missing from a sample are
// left empty.
func (b *PhenotypeSummaryBuilder) Build(ctx context.Context, samples []domain.SampleReportSet, output string) (*Result, error) {
	if len(samples) == 0 {
		return nil, domain.ErrNoSamples
	}

	frame := NewFrame(SampleColumn)
	for _, s := range samples {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		r, err := report.ReadPhenotypeReport(s)
		if err != nil {
			return nil, errors.Wrap(err, "phenotype summary")
		}

		columns := []string{SampleColumn}
		values := []string{s.Name}
		for _, e := range r.Entries {
			columns = append(columns, e.Antimicrobial)
			values = append(values, e.Match)
		}
		frame.Append(columns, values)

		b.logger.WithFields(logrus.Fields{
			"sample":         s.Name,
			"antimicrobials": len(r.Entries),
		}).Debug("Collected phenotype report")
	}

	if err := appendRecords(output, frame.Records()); err != nil {
		return nil, err
	}

	b.logger.WithFields(logrus.Fields{
		"output":  output,
		"samples": len(samples),
		"columns": len(frame.Columns()),
	}).Info("Phenotype summary written")

	return written(OpPhenotype, output, len(samples), frame.Len()), nil
}

// labPhenotypeView builds the panel-filtered phenotype table of the lab summary: one row
// per sample, one lower-cased column per panel antimicrobial. Resistant calls are replaced
// by their genetic background.
func (b *PhenotypeSummaryBuilder) labPhenotypeView(ctx context.Context, samples []domain.SampleReportSet, panel domain.AntimicrobialPanel) (*Frame, error) {
	frame := NewFrame(LabSampleColumn)
	for _, s := range samples {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		r, err := report.ReadPhenotypeReport(s)
		if err != nil {
			return nil, errors.Wrap(err, "lab summary")
		}

		columns := []string{LabSampleColumn}
		values := []string{s.Name}
		for _, e := range r.Entries {
			if !panel.Contains(e.Antimicrobial) {
				continue
			}
			value := e.Phenotype
			if value == domain.PhenotypeResistant {
				value = e.GeneticBackground
			}
			columns = append(columns, lower(e.Antimicrobial))
			values = append(values, value)
		}
		frame.Append(columns, values)
	}
	return frame, nil
}

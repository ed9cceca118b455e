package summary

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"

	"github.com/amr-summary/internal/domain"
	"github.com/amr-summary/internal/report"
)

// GeneSummaryBuilder aggregates ResFinder gene-match tables across samples.
type GeneSummaryBuilder struct {
	logger *logrus.Logger
	// Schema is the expected truncated gene-report header. When empty the header of the
	// first sample is used.
	Schema []string
}

// NewGeneSummaryBuilder creates a new gene summary builder
func NewGeneSummaryBuilder(logger *logrus.Logger) *GeneSummaryBuilder {
	return &GeneSummaryBuilder{logger: logger}
}

// Build writes the gene summary for samples to output, creating or truncating it.
func (b *GeneSummaryBuilder) Build(ctx context.Context, samples []domain.SampleReportSet, output string) (*Result, error) {
	if len(samples) == 0 {
		return nil, domain.ErrNoSamples
	}

	var records [][]string
	schema := b.Schema
	for _, s := range samples {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		r, err := report.ReadGeneReport(s)
		if err != nil {
			return nil, errors.Wrap(err, "gene summary")
		}
		if schema == nil {
			schema = r.Header
		}
		if !equalColumns(schema, r.Header) {
			return nil, domain.NewSchemaMismatchError(s.Name, r.Path, schema, r.Header)
		}
		if records == nil {
			records = append(records, prepend(GeneSampleColumn, schema))
		}

		for _, row := range r.Rows {
			records = append(records, prepend(s.Name, row))
		}
		b.logger.WithFields(logrus.Fields{
			"sample": s.Name,
			"genes":  len(r.Rows),
		}).Debug("Collected gene report")
	}

	if err := writeRecords(output, records); err != nil {
		return nil, err
	}

	rows := len(records) - 1
	b.logger.WithFields(logrus.Fields{
		"output":  output,
		"samples": len(samples),
		"rows":    rows,
	}).Info("Gene summary written")

	return written(OpGene, output, len(samples), rows), nil
}

package summary

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"

	"github.com/amr-summary/internal/domain"
	"github.com/amr-summary/internal/report"
)

// ElementKind selects the self-describing TSV report aggregated by ElementSummaryBuilder.
type ElementKind string

const (
	KindVirulence  ElementKind = "virulence"
	KindAMRElement ElementKind = "amr_element"
)

type elementLayout struct {
	file      string
	operation string
	columns   []string
}

var elementLayouts = map[ElementKind]elementLayout{
	KindVirulence: {
		file:      domain.VirulenceReportFile,
		operation: OpVirulence,
		columns:   []string{"Virulence factor", "Identity", "Query / Template length", "Protein function"},
	},
	KindAMRElement: {
		file:      domain.AMRElementReportFile,
		operation: OpAMRElement,
		columns: []string{
			"Gene symbol", "Sequence name", "Element type", "Element subtype", "Class", "Subclass",
			"% Coverage of reference sequence", "% Identity to reference sequence",
		},
	},
}

// Columns returns the projected report columns of the kind, in output order.
func (k ElementKind) Columns() []string {
	l, ok := elementLayouts[k]
	if !ok {
		return nil
	}
	out := make([]string, len(l.columns))
	copy(out, l.columns)
	return out
}

// ElementSummaryBuilder aggregates VirulenceFinder and AMRFinderPlus tables across samples.
type ElementSummaryBuilder struct {
	logger *logrus.Logger
}

// NewElementSummaryBuilder creates a new element summary builder
func NewElementSummaryBuilder(logger *logrus.Logger) *ElementSummaryBuilder {
	return &ElementSummaryBuilder{logger: logger}
}

// Build projects the fixed columns of kind out of every sample's report, prepends the sample
// name and writes all rows to output. Columns absent from a report stay empty for its rows;
// a column present in any report header is written even when no report has rows.
func (b *ElementSummaryBuilder) Build(ctx context.Context, samples []domain.SampleReportSet, output string, kind ElementKind) (*Result, error) {
	layout, ok := elementLayouts[kind]
	if !ok {
		return nil, domain.NewValidationError("kind", fmt.Sprintf("unknown element kind %q", kind), kind)
	}
	if len(samples) == 0 {
		return nil, domain.ErrNoSamples
	}

	frame := NewFrame(SampleColumn)
	for _, s := range samples {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		table, err := report.ReadTSV(s, layout.file)
		if err != nil {
			return nil, errors.Wrapf(err, "%s summary", kind)
		}

		columns := []string{SampleColumn}
		positions := []int{-1}
		for _, c := range layout.columns {
			if i := table.Column(c); i >= 0 {
				columns = append(columns, c)
				positions = append(positions, i)
			}
		}
		frame.AddColumns(columns...)
		for _, row := range table.Rows {
			values := make([]string, len(positions))
			values[0] = s.Name
			for j, i := range positions[1:] {
				values[j+1] = row[i]
			}
			frame.Append(columns, values)
		}

		b.logger.WithFields(logrus.Fields{
			"sample":  s.Name,
			"kind":    kind,
			"rows":    len(table.Rows),
			"columns": len(columns) - 1,
		}).Debug("Collected element report")
	}

	frame.Project(prepend(SampleColumn, layout.columns))
	if err := writeRecords(output, frame.Records()); err != nil {
		return nil, err
	}

	b.logger.WithFields(logrus.Fields{
		"kind":    kind,
		"output":  output,
		"samples": len(samples),
		"rows":    frame.Len(),
	}).Info("Element summary written")

	return written(layout.operation, output, len(samples), frame.Len()), nil
}

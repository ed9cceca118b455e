package report

import (
	"fmt"
	"strings"

	"github.com/amr-summary/internal/domain"
)

const (
	mutationColumn   = 0
	resistanceColumn = 3
)

// PointMutationReport is a parsed PointFinder_results.txt.
// An empty file yields a report without header or rows.
type PointMutationReport struct {
	Sample string
	Path   string
	Header []string
	Rows   [][]string
}

// MutationCall pairs a mutation with the de-duplicated resistances attributed to it.
type MutationCall struct {
	Mutation    string
	Resistances []string
}

// ReadPointMutationReport reads PointFinder_results.txt of a sample.
func ReadPointMutationReport(sample domain.SampleReportSet) (*PointMutationReport, error) {
	lines, path, err := readLines(sample, domain.PointResultsFile)
	if err != nil {
		return nil, err
	}

	r := &PointMutationReport{Sample: sample.Name, Path: path}
	if len(lines) == 0 || isBlank(lines[0]) {
		return r, nil
	}
	r.Header = SplitFields(lines[0])
	for _, line := range lines[1:] {
		if isBlank(line) {
			continue
		}
		r.Rows = append(r.Rows, SplitFields(line))
	}
	return r, nil
}

// Calls returns the mutation calls of the report in file order.
func (r *PointMutationReport) Calls() ([]MutationCall, error) {
	calls := make([]MutationCall, 0, len(r.Rows))
	for i, row := range r.Rows {
		if len(row) <= resistanceColumn {
			return nil, domain.NewMalformedReportError(r.Sample, r.Path,
				fmt.Sprintf("row %d has %d columns, need at least %d", i+1, len(row), resistanceColumn+1))
		}
		calls = append(calls, MutationCall{
			Mutation:    row[mutationColumn],
			Resistances: SplitResistances(row[resistanceColumn]),
		})
	}
	return calls, nil
}

// SplitResistances splits a comma-separated resistance list, trimming each name and
// dropping repeats while keeping first-seen order.
func SplitResistances(field string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(field, ",") {
		name := strings.TrimSpace(part)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// PredictionReport is a parsed PointFinder_prediction.txt: one header line and one data line.
type PredictionReport struct {
	Sample string
	Path   string
	Header []string
	Values []string
}

// ReadPredictionReport reads PointFinder_prediction.txt of a sample. Only the first data
// line is used.
func ReadPredictionReport(sample domain.SampleReportSet) (*PredictionReport, error) {
	table, err := ReadTSV(sample, domain.PointPredictionFile)
	if err != nil {
		return nil, err
	}
	if len(table.Rows) == 0 {
		return nil, domain.NewMalformedReportError(sample.Name, table.Path, "expected a data line after the header")
	}
	return &PredictionReport{
		Sample: sample.Name,
		Path:   table.Path,
		Header: table.Header,
		Values: table.Rows[0],
	}, nil
}

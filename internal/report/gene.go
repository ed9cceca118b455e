package report

import (
	"github.com/amr-summary/internal/domain"
)

// GeneColumns is the number of leading ResFinder columns carried into the gene summary.
const GeneColumns = 4

// GeneReport is a ResFinder gene-match table truncated to its first GeneColumns columns.
type GeneReport struct {
	Sample string
	Path   string
	Header []string
	Rows   [][]string
}

// ReadGeneReport reads ResFinder_results_tab.txt of a sample.
func ReadGeneReport(sample domain.SampleReportSet) (*GeneReport, error) {
	lines, path, err := readLines(sample, domain.GeneReportFile)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 || isBlank(lines[0]) {
		return nil, domain.NewMalformedReportError(sample.Name, path, "missing header line")
	}

	r := &GeneReport{
		Sample: sample.Name,
		Path:   path,
		Header: truncate(SplitFields(lines[0]), GeneColumns),
	}
	for _, line := range lines[1:] {
		if isBlank(line) {
			continue
		}
		r.Rows = append(r.Rows, Pad(truncate(SplitFields(line), GeneColumns), len(r.Header)))
	}
	return r, nil
}

func truncate(fields []string, n int) []string {
	if len(fields) > n {
		return fields[:n]
	}
	return fields
}

// Package domain contains the core types shared by the AMR summary engine: samples, summary
// kinds, species and their antimicrobial panels, and the report error taxonomy.
//
// The engine consumes per-sample reports produced by ResFinder, PointFinder, VirulenceFinder and
// AMRFinderPlus and aggregates them into cross-sample CSV summaries.
package domain

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// SummaryType selects which family of summaries a run produces.
type SummaryType string

const (
	SummaryResFinder       SummaryType = "resfinder"
	SummaryPointFinder     SummaryType = "pointfinder"
	SummaryAMRFinderPlus   SummaryType = "amrfinderplus"
	SummaryVirulenceFinder SummaryType = "virulencefinder"
	SummaryIles            SummaryType = "iles"
)

// SummaryTypes lists every supported summary type in CLI order.
var SummaryTypes = []SummaryType{
	SummaryResFinder,
	SummaryPointFinder,
	SummaryAMRFinderPlus,
	SummaryVirulenceFinder,
	SummaryIles,
}

// Status is the outcome of a single summary operation.
type Status string

const (
	// StatusWritten means every output file of the operation was written.
	StatusWritten Status = "written"
	// StatusSkipped means the operation intentionally produced no output,
	// e.g. the lab summary for a species without an antimicrobial panel.
	StatusSkipped Status = "skipped"
	// StatusFailed is only recorded in the run ledger; operations return an error instead.
	StatusFailed Status = "failed"
)

// Upstream report file names inside a sample directory.
const (
	GeneReportFile       = "ResFinder_results_tab.txt"
	PhenotypeReportFile  = "pheno_table.txt"
	PointResultsFile     = "PointFinder_results.txt"
	PointPredictionFile  = "PointFinder_prediction.txt"
	VirulenceReportFile  = "results_tab.tsv"
	AMRElementReportFile = "amrfinder_result.txt"
)

// Validation errors for summary inputs
var (
	ErrNoSamples          = errors.New("at least one sample directory is required")
	ErrInvalidSummaryType = errors.New("invalid summary type")
	ErrMissingOutputPaths = errors.New("missing output file names for summary type")
)

// IsValid reports whether the summary type is one of the supported kinds.
func (t SummaryType) IsValid() bool {
	switch t {
	case SummaryResFinder, SummaryPointFinder, SummaryAMRFinderPlus, SummaryVirulenceFinder, SummaryIles:
		return true
	default:
		return false
	}
}

// OutputCount returns how many output file names the summary type needs.
func (t SummaryType) OutputCount() int {
	switch t {
	case SummaryResFinder, SummaryPointFinder:
		return 2
	case SummaryAMRFinderPlus, SummaryVirulenceFinder, SummaryIles:
		return 1
	default:
		return 0
	}
}

// ParseSummaryType converts user input into a SummaryType.
func ParseSummaryType(s string) (SummaryType, error) {
	t := SummaryType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", ErrInvalidSummaryType
	}
	return t, nil
}

// SampleReportSet is one sample: its name and the directory holding its tool reports.
type SampleReportSet struct {
	Name string
	Dir  string
}

// NewSampleReportSet derives the sample name from the last segment of dir.
// Quotes left over from shell expansion and trailing separators are ignored.
func NewSampleReportSet(dir string) SampleReportSet {
	cleaned := strings.Trim(strings.TrimSpace(dir), "'\"")
	cleaned = strings.TrimRight(cleaned, "/")
	return SampleReportSet{
		Name: filepath.Base(cleaned),
		Dir:  cleaned,
	}
}

// ReportPath returns the path of the named report file inside the sample directory.
func (s SampleReportSet) ReportPath(file string) string {
	return filepath.Join(s.Dir, file)
}

// SamplesFromPaths converts caller-supplied directories into samples, preserving order.
// Blank paths and paths without a sample name (the root, "." or "..") are rejected.
func SamplesFromPaths(paths []string) ([]SampleReportSet, error) {
	if len(paths) == 0 {
		return nil, ErrNoSamples
	}
	samples := make([]SampleReportSet, 0, len(paths))
	for i, p := range paths {
		s := NewSampleReportSet(p)
		switch s.Name {
		case ".", "..", string(filepath.Separator):
			return nil, NewValidationError("inputs",
				fmt.Sprintf("input %d (%q) does not name a sample directory", i+1, p), p)
		}
		samples = append(samples, s)
	}
	return samples, nil
}

// SampleNames returns the names of the samples in order.
func SampleNames(samples []SampleReportSet) []string {
	names := make([]string, len(samples))
	for i, s := range samples {
		names[i] = s.Name
	}
	return names
}

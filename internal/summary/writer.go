// Package summary aggregates per-sample AMR tool reports into cross-sample CSV summaries.
//
// Each builder is a single linear pass over the samples in caller order. Reports are read
// fully, transformed in memory and written in one go, so a failing sample leaves no
// half-written summary behind.
package summary

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/amr-summary/internal/domain"
)

// Column naming used by the summaries.
const (
	GeneSampleColumn = "Sample"
	SampleColumn     = "Samplename"
	LabSampleColumn  = "samplename"
)

// Operation names reported in Result.Operation and the run ledger.
const (
	OpGene            = "gene"
	OpPhenotypeHeader = "phenotype_header"
	OpPhenotype       = "phenotype"
	OpLab             = "lab"
	OpPointResult     = "point_result"
	OpPointPrediction = "point_prediction"
	OpVirulence       = "virulence"
	OpAMRElement      = "amr_element"
)

// Result describes what a summary operation did.
type Result struct {
	Operation string
	Status    domain.Status
	Outputs   []string
	Samples   int
	Rows      int
}

func written(op, output string, samples, rows int) *Result {
	return &Result{
		Operation: op,
		Status:    domain.StatusWritten,
		Outputs:   []string{output},
		Samples:   samples,
		Rows:      rows,
	}
}

// writeRecords creates or truncates path and writes the records as CSV.
func writeRecords(path string, records [][]string) error {
	return writeCSV(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, records)
}

// appendRecords appends the records to path, creating it when needed.
func appendRecords(path string, records [][]string) error {
	return writeCSV(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, records)
}

func writeCSV(path string, flag int, records [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory for %s: %w", path, err)
	}

	f, err := os.OpenFile(path, flag, 0644)
	if err != nil {
		return fmt.Errorf("failed to open summary %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		f.Close()
		return fmt.Errorf("failed to write summary %s: %w", path, err)
	}
	return f.Close()
}

func equalColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func prepend(value string, fields []string) []string {
	out := make([]string, 0, len(fields)+1)
	out = append(out, value)
	return append(out, fields...)
}

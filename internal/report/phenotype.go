package report

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/amr-summary/internal/domain"
)

// Layout of pheno_table.txt as written by ResFinder 4.
const (
	infoHeaderStart = 7  // first informational line, 0-indexed
	infoHeaderEnd   = 16 // exclusive
	// legacyBlockOffset is where the antimicrobial table starts when the report
	// carries no "Antimicrobial" header line.
	legacyBlockOffset = 17
	minPhenotypeCols  = 4
)

// PhenotypeEntry is one row of the antimicrobial table.
type PhenotypeEntry struct {
	Antimicrobial     string
	Class             string
	Phenotype         string // WGS-predicted phenotype
	Match             string
	GeneticBackground string
}

// PhenotypeReport is a parsed pheno_table.txt.
type PhenotypeReport struct {
	Sample  string
	Path    string
	Lines   []string
	Entries []PhenotypeEntry
}

// ReadPhenotypeReport reads pheno_table.txt of a sample and parses its antimicrobial table.
// Every line up to the first blank line is an entry, including lines starting with "#".
func ReadPhenotypeReport(sample domain.SampleReportSet) (*PhenotypeReport, error) {
	lines, path, err := readLines(sample, domain.PhenotypeReportFile)
	if err != nil {
		return nil, err
	}

	start, ok := antimicrobialBlockStart(lines)
	if !ok {
		return nil, errors.WithHint(
			domain.NewMalformedReportError(sample.Name, path, "antimicrobial table not found"),
			"the report layout may come from an unsupported ResFinder version")
	}

	r := &PhenotypeReport{Sample: sample.Name, Path: path, Lines: lines}
	for i := start; i < len(lines); i++ {
		line := lines[i]
		if isBlank(line) {
			break
		}
		fields := SplitFields(line)
		if len(fields) < minPhenotypeCols {
			return nil, domain.NewMalformedReportError(sample.Name, path,
				fmt.Sprintf("line %d has %d columns, need at least %d", i+1, len(fields), minPhenotypeCols))
		}
		fields = Pad(fields, 5)
		r.Entries = append(r.Entries, PhenotypeEntry{
			Antimicrobial:     fields[0],
			Class:             fields[1],
			Phenotype:         fields[2],
			Match:             fields[3],
			GeneticBackground: fields[4],
		})
	}
	return r, nil
}

// InformationalHeader returns lines 8 to 16 of the report, the free-text block that
// documents how to read the phenotype columns.
func (r *PhenotypeReport) InformationalHeader() ([]string, error) {
	if len(r.Lines) < infoHeaderEnd {
		return nil, domain.NewMalformedReportError(r.Sample, r.Path,
			fmt.Sprintf("expected at least %d lines, got %d", infoHeaderEnd, len(r.Lines)))
	}
	header := make([]string, infoHeaderEnd-infoHeaderStart)
	copy(header, r.Lines[infoHeaderStart:infoHeaderEnd])
	return header, nil
}

// antimicrobialBlockStart locates the first data line of the antimicrobial table.
// The table header ("# Antimicrobial\tClass\t...") marks the section when present;
// otherwise the fixed ResFinder offset is used.
func antimicrobialBlockStart(lines []string) (int, bool) {
	for i, line := range lines {
		if isBlockHeader(line) {
			return i + 1, true
		}
	}
	if len(lines) > legacyBlockOffset {
		return legacyBlockOffset, true
	}
	return 0, false
}

func isBlockHeader(line string) bool {
	first := SplitFields(line)[0]
	first = strings.TrimSpace(strings.TrimLeft(first, "#"))
	return strings.EqualFold(first, "Antimicrobial")
}

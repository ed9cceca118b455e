// Package report reads the per-sample text reports written by the upstream AMR tools.
//
// Readers return plain row/column data; they validate only what the summaries rely on
// (line counts, column counts, section boundaries) and report violations as
// domain.MalformedReportError. Unreadable files surface as domain.MissingReportError.
package report

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/amr-summary/internal/domain"
)

const maxLineLength = 4 * 1024 * 1024

// readLines reads a positional sample report fully and returns its lines without terminators.
// The returned slice may be shared with later reads of the same unchanged file and must
// not be modified.
func readLines(sample domain.SampleReportSet, file string) ([]string, string, error) {
	f, path, info, err := openReport(sample, file)
	if err != nil {
		return nil, path, err
	}
	defer f.Close()

	key := keyFor(path, info, formLines)
	if v, ok := cached(key); ok {
		return v.([]string), path, nil
	}

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineLength)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, path, domain.NewMissingReportError(sample.Name, path, err)
	}
	store(key, lines)
	return lines, path, nil
}

// openReport opens a sample report that must be a regular, readable file.
func openReport(sample domain.SampleReportSet, file string) (*os.File, string, os.FileInfo, error) {
	path := sample.ReportPath(file)

	f, err := os.Open(path)
	if err != nil {
		return nil, path, nil, errors.WithHintf(
			domain.NewMissingReportError(sample.Name, path, err),
			"check that the upstream tool produced %s for sample %s", file, sample.Name)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, path, nil, domain.NewMissingReportError(sample.Name, path, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, path, nil, domain.NewMissingReportError(sample.Name, path, fmt.Errorf("%s is a directory", path))
	}
	return f, path, info, nil
}

// SplitFields splits one report line on tabs.
func SplitFields(line string) []string {
	return strings.Split(line, "\t")
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// Pad returns fields extended with empty cells up to width.
func Pad(fields []string, width int) []string {
	if len(fields) >= width {
		return fields
	}
	padded := make([]string, width)
	copy(padded, fields)
	return padded
}

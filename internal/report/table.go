package report

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/liserjrqlxue/goUtil/textUtil"

	"github.com/amr-summary/internal/domain"
)

var blankLine = regexp.MustCompile(`^\s*$`)

// Table is a tab-separated report with a header row.
type Table struct {
	Sample string
	Path   string
	Header []string
	Rows   [][]string
}

// Column returns the index of the named header column, or -1.
func (t *Table) Column(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// ReadTSV reads a self-describing tab-separated report: one header line, then data rows
// keyed by header name. Blank lines are ignored and cells missing from a short row are
// empty. The table may be shared with later reads of the same unchanged file and must
// not be modified.
func ReadTSV(sample domain.SampleReportSet, file string) (*Table, error) {
	f, path, info, err := openReport(sample, file)
	if err != nil {
		return nil, err
	}
	f.Close()

	key := keyFor(path, info, formTable)
	if v, ok := cached(key); ok {
		return v.(*Table), nil
	}

	records, title, err := loadMapArray(path)
	if err != nil {
		return nil, domain.NewMalformedReportError(sample.Name, path, err.Error())
	}
	if len(title) == 0 || (len(title) == 1 && isBlank(title[0])) {
		return nil, domain.NewMalformedReportError(sample.Name, path, "missing header line")
	}

	table := &Table{
		Sample: sample.Name,
		Path:   path,
		Header: trimCells(title),
		Rows:   make([][]string, 0, len(records)),
	}
	for _, record := range records {
		row := make([]string, len(title))
		for i, h := range title {
			row[i] = strings.TrimRight(record[h], "\r")
		}
		table.Rows = append(table.Rows, row)
	}
	store(key, table)
	return table, nil
}

// loadMapArray reads path with textUtil, which panics on unreadable files and on rows
// wider than the title; those panics come back as errors.
func loadMapArray(path string) (records []map[string]string, title []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	records, title = textUtil.File2MapArray(path, "\t", blankLine)
	return records, title, nil
}

func trimCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.TrimRight(c, "\r")
	}
	return out
}

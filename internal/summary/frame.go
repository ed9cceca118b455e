package summary

import (
	"sort"
	"strings"
)

// Frame is a table whose columns are discovered while rows are added. Rows built from
// different samples may carry different column sets; the frame keeps the union in
// first-seen order and leaves cells empty where a row has no value.
type Frame struct {
	columns []string
	index   map[string]bool
	rows    []map[string]string
}

// NewFrame creates a frame with the given leading columns.
func NewFrame(columns ...string) *Frame {
	f := &Frame{index: make(map[string]bool)}
	for _, c := range columns {
		f.addColumn(c)
	}
	return f
}

func (f *Frame) addColumn(name string) {
	if f.index[name] {
		return
	}
	f.index[name] = true
	f.columns = append(f.columns, name)
}

// AddColumns adds the named columns without adding a row.
func (f *Frame) AddColumns(columns ...string) {
	for _, c := range columns {
		f.addColumn(c)
	}
}

// Append adds one row. columns and values are paired by position; a repeated column
// name keeps the last value.
func (f *Frame) Append(columns, values []string) {
	row := make(map[string]string, len(columns))
	for i, c := range columns {
		f.addColumn(c)
		if i < len(values) {
			row[c] = values[i]
		}
	}
	f.rows = append(f.rows, row)
}

// AppendRow adds a row given as a column → value map, adding columns in the order given by order.
func (f *Frame) AppendRow(order []string, row map[string]string) {
	for _, c := range order {
		f.addColumn(c)
	}
	cp := make(map[string]string, len(row))
	for k, v := range row {
		cp[k] = v
	}
	f.rows = append(f.rows, cp)
}

// Columns returns the column names in order.
func (f *Frame) Columns() []string {
	out := make([]string, len(f.columns))
	copy(out, f.columns)
	return out
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.rows)
}

// Value returns the cell at row i, column name.
func (f *Frame) Value(i int, name string) string {
	return f.rows[i][name]
}

// Set stores a cell, adding the column when it is new.
func (f *Frame) Set(i int, name, value string) {
	f.addColumn(name)
	f.rows[i][name] = value
}

// Map rewrites every non-key cell.
func (f *Frame) Map(key string, fn func(string) string) {
	for _, row := range f.rows {
		for c, v := range row {
			if c == key {
				continue
			}
			row[c] = fn(v)
		}
	}
}

// Reorder sets the column order to key first, the remaining columns sorted by name,
// then the trailing columns in the order given.
func (f *Frame) Reorder(key string, trailing ...string) {
	tail := make(map[string]bool, len(trailing))
	for _, t := range trailing {
		tail[t] = true
	}
	var middle []string
	for _, c := range f.columns {
		if c != key && !tail[c] {
			middle = append(middle, c)
		}
	}
	sort.Strings(middle)

	cols := append([]string{key}, middle...)
	for _, t := range trailing {
		if f.index[t] {
			cols = append(cols, t)
		}
	}
	f.columns = cols
}

// Project restricts the frame to the named columns that it has, in the given order.
func (f *Frame) Project(columns []string) {
	var cols []string
	for _, c := range columns {
		if f.index[c] {
			cols = append(cols, c)
		}
	}
	f.columns = cols
	f.index = make(map[string]bool, len(cols))
	for _, c := range cols {
		f.index[c] = true
	}
}

// Records renders the frame as CSV records, header first.
func (f *Frame) Records() [][]string {
	records := make([][]string, 0, len(f.rows)+1)
	records = append(records, f.Columns())
	for _, row := range f.rows {
		rec := make([]string, len(f.columns))
		for i, c := range f.columns {
			rec[i] = row[c]
		}
		records = append(records, rec)
	}
	return records
}

// InnerJoin combines rows of left and right that share the same key value. Columns present
// on both sides are merged into one, taking the first non-empty value with left first.
func InnerJoin(left, right *Frame, key string) *Frame {
	out := NewFrame(key)
	for _, c := range left.columns {
		out.addColumn(c)
	}
	for _, c := range right.columns {
		out.addColumn(c)
	}

	for _, l := range left.rows {
		for _, r := range right.rows {
			if l[key] != r[key] {
				continue
			}
			merged := make(map[string]string, len(l)+len(r))
			for c, v := range r {
				merged[c] = v
			}
			for c, v := range l {
				if strings.TrimSpace(v) != "" || merged[c] == "" {
					merged[c] = v
				}
			}
			out.rows = append(out.rows, merged)
		}
	}
	return out
}

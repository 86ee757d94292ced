// Package dataset loads delimited and spreadsheet survey exports into
// in-memory tables and validates their column contracts.
package dataset

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyDataset is returned when a source has no header line to read.
var ErrEmptyDataset = errors.New("dataset has no header")

// MissingColumnError reports a required column absent from a dataset header.
type MissingColumnError struct {
	Dataset string
	Column  string
	Header  []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("dataset %q is missing required column %q (found %d columns)", e.Dataset, e.Column, len(e.Header))
}

// Table is a header plus string rows, all padded to the header width.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string

	index map[string]int
}

// NewTable builds a table, trimming header names and padding short rows.
// When a column name repeats, lookups resolve to the first occurrence.
func NewTable(name string, header []string, rows [][]string) *Table {
	t := &Table{Name: name, Header: make([]string, len(header)), index: make(map[string]int, len(header))}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		t.Header[i] = h
		if _, dup := t.index[h]; !dup {
			t.index[h] = i
		}
	}
	t.Rows = make([][]string, 0, len(rows))
	for _, r := range rows {
		if len(r) < len(header) {
			tmp := make([]string, len(header))
			copy(tmp, r)
			r = tmp
		}
		t.Rows = append(t.Rows, r)
	}
	return t
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// Col returns the index of the named column.
func (t *Table) Col(name string) (int, bool) {
	i, ok := t.index[strings.TrimSpace(name)]
	return i, ok
}

// Require checks that every named column exists and returns their indices in
// the same order. The first absent column is reported as *MissingColumnError.
func (t *Table) Require(names ...string) ([]int, error) {
	out := make([]int, len(names))
	for i, n := range names {
		idx, ok := t.Col(n)
		if !ok {
			return nil, &MissingColumnError{Dataset: t.Name, Column: n, Header: t.Header}
		}
		out[i] = idx
	}
	return out, nil
}

// Cell returns the trimmed value at row r, column c.
func (t *Table) Cell(r, c int) string {
	if r < 0 || r >= len(t.Rows) || c < 0 || c >= len(t.Rows[r]) {
		return ""
	}
	return strings.TrimSpace(t.Rows[r][c])
}

// Column returns every trimmed value of column c.
func (t *Table) Column(c int) []string {
	out := make([]string, len(t.Rows))
	for r := range t.Rows {
		out[r] = t.Cell(r, c)
	}
	return out
}

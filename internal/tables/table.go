// Package tables provides header-indexed CSV tables and inner joins for
// count-table post-processing.
package tables

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// Table is an in-memory CSV table. The header names columns; row order is
// preserved from the source.
type Table struct {
	Header []string
	Rows   [][]string
	index  map[string]int
}

// New builds a table from a header and rows. Duplicate column names keep
// the first index.
func New(header []string, rows [][]string) *Table {
	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, ok := index[name]; !ok {
			index[name] = i
		}
	}
	return &Table{Header: header, Rows: rows, index: index}
}

// ReadFile loads a CSV file whose first row is the header.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("table %s is empty", path)
	}
	return New(records[0], records[1:]), nil
}

// WriteFile writes the table as CSV, header first.
func (t *Table) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(t.Header); err != nil {
		f.Close()
		return fmt.Errorf("write table header: %w", err)
	}
	if err := w.WriteAll(t.Rows); err != nil {
		f.Close()
		return fmt.Errorf("write table %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close table %s: %w", path, err)
	}
	return nil
}

// Column returns the index of the named column.
func (t *Table) Column(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// AppendColumn adds a column on the right. The number of values must
// match the number of rows.
func (t *Table) AppendColumn(name string, values []string) error {
	if len(values) != len(t.Rows) {
		return fmt.Errorf("column %s: %d values for %d rows", name, len(values), len(t.Rows))
	}
	if _, ok := t.index[name]; !ok {
		t.index[name] = len(t.Header)
	}
	t.Header = append(t.Header, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], values[i])
	}
	return nil
}

// Select returns a new table with only the named columns, in the given
// order.
func (t *Table) Select(names ...string) (*Table, error) {
	cols := make([]int, len(names))
	for i, name := range names {
		c, ok := t.Column(name)
		if !ok {
			return nil, fmt.Errorf("column %q not found", name)
		}
		cols[i] = c
	}

	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		out := make([]string, len(cols))
		for j, c := range cols {
			out[j] = row[c]
		}
		rows[i] = out
	}
	return New(append([]string(nil), names...), rows), nil
}

// FloatColumn parses a numeric column.
func (t *Table) FloatColumn(name string) ([]float64, error) {
	c, ok := t.Column(name)
	if !ok {
		return nil, fmt.Errorf("column %q not found", name)
	}

	values := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		v, err := strconv.ParseFloat(row[c], 64)
		if err != nil {
			return nil, fmt.Errorf("column %s row %d: %w", name, i+1, err)
		}
		values[i] = v
	}
	return values, nil
}

// SumFloat sums a numeric column.
func (t *Table) SumFloat(name string) (float64, error) {
	values, err := t.FloatColumn(name)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total, nil
}

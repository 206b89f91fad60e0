// Package dataset provides the tabular input side of a search: CSV loading
// with a header row, column access, feature-matrix extraction, naive random
// and partition-based train/test splits, and per-column summaries.
//
// Tables are read-only once loaded. Cells stay raw strings so numeric
// feature columns and label columns (spatial partitions, station ids) can
// coexist; numeric views are parsed on demand.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

//////
// Const, vars, types.
//////

// Table is an immutable tabular dataset: a header plus row-major records.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

//////
// Exported functionalities.
//////

// Load reads a CSV file with a header row into a Table.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return t, nil
}

// Read parses CSV from r. The first record is the header; every data row
// must have the same field count (enforced by the csv reader). Column names
// must be non-empty and unique.
func Read(r io.Reader) (*Table, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}

	if len(records) == 0 {
		return nil, errors.New("csv has no header row")
	}

	header := records[0]

	index := make(map[string]int, len(header))
	for i, name := range header {
		if name == "" {
			return nil, fmt.Errorf("empty column name at position %d", i)
		}

		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}

		index[name] = i
	}

	return &Table{columns: header, index: index, rows: records[1:]}, nil
}

//////
// Methods.
//////

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.rows) }

// Columns returns the column names in file order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)

	return out
}

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]

	return ok
}

// Column returns the raw string cells of a column.
func (t *Table) Column(name string) ([]string, error) {
	col, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("no such column %q", name)
	}

	out := make([]string, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[col]
	}

	return out, nil
}

// NumericColumn parses a column as float64 values. Parse failures name the
// column and the 1-based data row.
func (t *Table) NumericColumn(name string) ([]float64, error) {
	col, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("no such column %q", name)
	}

	out := make([]float64, len(t.rows))
	for i, row := range t.rows {
		v, err := strconv.ParseFloat(row[col], 64)
		if err != nil {
			return nil, fmt.Errorf("column %q row %d: %w", name, i+1, err)
		}

		out[i] = v
	}

	return out, nil
}

// Features builds the row-major feature matrix for the named columns, in the
// given column order. All named columns must parse as numeric.
func (t *Table) Features(names ...string) ([][]float64, error) {
	if len(names) == 0 {
		return nil, errors.New("no feature columns named")
	}

	cols := make([]int, len(names))
	for i, name := range names {
		col, ok := t.index[name]
		if !ok {
			return nil, fmt.Errorf("no such column %q", name)
		}

		cols[i] = col
	}

	out := make([][]float64, len(t.rows))
	for i, row := range t.rows {
		vec := make([]float64, len(cols))

		for j, col := range cols {
			v, err := strconv.ParseFloat(row[col], 64)
			if err != nil {
				return nil, fmt.Errorf("column %q row %d: %w", names[j], i+1, err)
			}

			vec[j] = v
		}

		out[i] = vec
	}

	return out, nil
}

// Select returns a new table containing the given rows, in the given order.
// The rows share backing storage with the source; tables are read-only so
// that sharing is safe.
func (t *Table) Select(rows []int) (*Table, error) {
	selected := make([][]string, len(rows))

	for i, r := range rows {
		if r < 0 || r >= len(t.rows) {
			return nil, fmt.Errorf("row %d out of range [0,%d)", r, len(t.rows))
		}

		selected[i] = t.rows[r]
	}

	return &Table{columns: t.columns, index: t.index, rows: selected}, nil
}

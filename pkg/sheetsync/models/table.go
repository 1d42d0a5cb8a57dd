package models

import (
	"errors"
	"fmt"
	"sort"
)

// ErrSchemaMismatch indicates a row whose keys differ from the table columns.
var ErrSchemaMismatch = errors.New("row does not match table schema")

// Row maps a dimension or metric name to its value.
type Row map[string]Value

// Table is an ordered sequence of rows sharing one schema.
// Transformations return new tables and leave the receiver untouched.
type Table struct {
	// Columns is the schema in display order.
	Columns []string
	// Rows holds the data rows.
	Rows []Row
}

// NewTable creates an empty table with the given columns.
func NewTable(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// Append adds a copy of r. Every column must be present and no extra keys
// are allowed.
func (t *Table) Append(r Row) error {
	if len(r) != len(t.Columns) {
		return fmt.Errorf("%w: got %d keys, want %d", ErrSchemaMismatch, len(r), len(t.Columns))
	}
	row := make(Row, len(t.Columns))
	for _, c := range t.Columns {
		v, ok := r[c]
		if !ok {
			return fmt.Errorf("%w: missing column %q", ErrSchemaMismatch, c)
		}
		row[c] = v
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// IsEmpty reports whether the table has no rows.
func (t *Table) IsEmpty() bool { return t.Len() == 0 }

// HasColumn reports whether name is part of the schema.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

func (t *Table) derive(rows []Row) *Table {
	return &Table{Columns: append([]string(nil), t.Columns...), Rows: rows}
}

// Filter returns the rows for which keep returns true.
func (t *Table) Filter(keep func(Row) bool) *Table {
	var rows []Row
	for _, r := range t.Rows {
		if keep(r) {
			rows = append(rows, r)
		}
	}
	return t.derive(rows)
}

// SortBy returns the rows stably ordered by column.
func (t *Table) SortBy(column string, desc bool) *Table {
	rows := append([]Row(nil), t.Rows...)
	sort.SliceStable(rows, func(i, j int) bool {
		c := rows[i][column].Compare(rows[j][column])
		if desc {
			return c > 0
		}
		return c < 0
	})
	return t.derive(rows)
}

// Head returns at most the first n rows.
func (t *Table) Head(n int) *Table {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	if n < 0 {
		n = 0
	}
	return t.derive(append([]Row(nil), t.Rows[:n]...))
}

// Map returns a table whose rows are produced by fn. fn receives a copy of
// each row and may change any existing column.
func (t *Table) Map(fn func(Row) Row) (*Table, error) {
	out := t.derive(nil)
	for _, r := range t.Rows {
		cp := make(Row, len(r))
		for k, v := range r {
			cp[k] = v
		}
		if err := out.Append(fn(cp)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Rename returns a table whose columns are renamed by names. Columns not in
// names keep their name.
func (t *Table) Rename(names map[string]string) *Table {
	cols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		if n, ok := names[c]; ok {
			cols[i] = n
		} else {
			cols[i] = c
		}
	}
	out := &Table{Columns: cols}
	for _, r := range t.Rows {
		row := make(Row, len(r))
		for i, c := range t.Columns {
			row[cols[i]] = r[c]
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

// Column returns the values of one column in row order.
func (t *Table) Column(name string) []Value {
	vals := make([]Value, 0, len(t.Rows))
	for _, r := range t.Rows {
		vals = append(vals, r[name])
	}
	return vals
}

// Sum adds the numeric values of a column.
func (t *Table) Sum(name string) float64 {
	var total float64
	for _, r := range t.Rows {
		total += r[name].Float()
	}
	return total
}

// Mean averages the non-empty values of a column. It is 0 for an empty column.
func (t *Table) Mean(name string) float64 {
	var total float64
	var n int
	for _, r := range t.Rows {
		v := r[name]
		if v.IsEmpty() {
			continue
		}
		total += v.Float()
		n++
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

// Records lays the table out as cells, one slice per row, in column order.
func (t *Table) Records() [][]Value {
	out := make([][]Value, 0, len(t.Rows))
	for _, r := range t.Rows {
		rec := make([]Value, len(t.Columns))
		for i, c := range t.Columns {
			rec[i] = r[c]
		}
		out = append(out, rec)
	}
	return out
}

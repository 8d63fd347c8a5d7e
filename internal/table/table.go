package table

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// CountColumn is the name of the column GroupBy appends.
const CountColumn = "count"

// Row is one record of a Table. Cells hold string, int or float64 values.
type Row []any

// Table is an in-memory relational table. Operations in this package never
// mutate their input; they return derived tables.
type Table struct {
	Columns []string
	Rows    []Row
}

// New creates an empty table with the given columns.
func New(columns ...string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols, Rows: []Row{}}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Index returns the position of column name, or -1.
func (t *Table) Index(name string) int {
	if t == nil {
		return -1
	}
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Has reports whether every named column exists.
func (t *Table) Has(names ...string) bool {
	for _, n := range names {
		if t.Index(n) < 0 {
			return false
		}
	}
	return true
}

// Append adds a row. The row length must match the column count.
func (t *Table) Append(cells ...any) {
	row := make(Row, len(t.Columns))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
}

// Clone returns a deep copy of the row slice and column header. Cells are
// scalar values so copying the rows is sufficient.
func (t *Table) Clone() *Table {
	out := New(t.Columns...)
	out.Rows = make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		cp := make(Row, len(r))
		copy(cp, r)
		out.Rows[i] = cp
	}
	return out
}

// Column returns the cells of the named column in row order.
func (t *Table) Column(name string) ([]any, error) {
	idx := t.Index(name)
	if idx < 0 {
		return nil, &MissingColumnError{Column: name}
	}
	out := make([]any, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[idx]
	}
	return out, nil
}

// Project returns a table restricted to the given columns, in that order.
func Project(t *Table, columns ...string) (*Table, error) {
	idxs, err := indexes(t, columns)
	if err != nil {
		return nil, err
	}
	out := New(columns...)
	out.Rows = make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		row := make(Row, len(idxs))
		for j, idx := range idxs {
			row[j] = r[idx]
		}
		out.Rows[i] = row
	}
	return out, nil
}

// Distinct returns the distinct text values of a column, sorted.
func Distinct(t *Table, column string) ([]string, error) {
	idx := t.Index(column)
	if idx < 0 {
		return nil, &MissingColumnError{Column: column}
	}
	seen := make(map[string]struct{})
	for _, r := range t.Rows {
		seen[Text(r[idx])] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}

// DistinctInts returns the distinct integer values of a column in ascending
// order. Non-integer cells are skipped.
func DistinctInts(t *Table, column string) ([]int, error) {
	idx := t.Index(column)
	if idx < 0 {
		return nil, &MissingColumnError{Column: column}
	}
	seen := make(map[int]struct{})
	for _, r := range t.Rows {
		if n, ok := AsInt(r[idx]); ok {
			seen[n] = struct{}{}
		}
	}
	out := make([]int, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Ints(out)
	return out, nil
}

// SortBy returns a copy of t stably sorted by column.
func SortBy(t *Table, column string, desc bool) (*Table, error) {
	idx := t.Index(column)
	if idx < 0 {
		return nil, &MissingColumnError{Column: column}
	}
	out := t.Clone()
	sort.SliceStable(out.Rows, func(i, j int) bool {
		c := Compare(out.Rows[i][idx], out.Rows[j][idx])
		if desc {
			return c > 0
		}
		return c < 0
	})
	return out, nil
}

// Text returns the string form of a cell.
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

// AsInt converts a cell to int when it holds an integral value.
func AsInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case float64:
		if x == float64(int(x)) {
			return int(x), true
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(x)); err == nil {
			return n, true
		}
	}
	return 0, false
}

// AsFloat converts a numeric cell, or a string holding a number, to float64.
func AsFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case float64:
		return x, true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// Compare orders two cells: numbers numerically, everything else by text.
// Numbers sort before text.
func Compare(a, b any) int {
	fa, na := number(a)
	fb, nb := number(b)
	switch {
	case na && nb:
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	case na:
		return -1
	case nb:
		return 1
	}
	return strings.Compare(Text(a), Text(b))
}

func number(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

func indexes(t *Table, columns []string) ([]int, error) {
	idxs := make([]int, len(columns))
	for i, c := range columns {
		idx := t.Index(c)
		if idx < 0 {
			return nil, &MissingColumnError{Column: c}
		}
		idxs[i] = idx
	}
	return idxs, nil
}

// MissingColumnError reports a reference to a column the table lacks.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing column %q", e.Column)
}

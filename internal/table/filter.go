package table

import (
	"sort"
	"strings"
)

// AllValue is the sentinel a user selects to disable filtering on a dimension.
const AllValue = "all"

// Selection is the set of values chosen in a multi-select filter, or the
// "all" sentinel. The zero value is an empty selection.
type Selection struct {
	all    bool
	values map[string]struct{}
}

// All returns the selection that matches every value.
func All() Selection { return Selection{all: true} }

// Select returns a selection of the given values.
func Select(values ...string) Selection {
	s := Selection{values: make(map[string]struct{}, len(values))}
	for _, v := range values {
		s.values[v] = struct{}{}
	}
	return s
}

// ParseSelection normalizes raw multi-select input. The "all" sentinel is
// recognized (case-insensitively) before anything else; blank entries are
// ignored.
func ParseSelection(raw []string) Selection {
	var vals []string
	for _, r := range raw {
		v := strings.TrimSpace(r)
		if v == "" {
			continue
		}
		if strings.EqualFold(v, AllValue) {
			return All()
		}
		vals = append(vals, v)
	}
	return Select(vals...)
}

// IsAll reports whether s is the "all" sentinel.
func (s Selection) IsAll() bool { return s.all }

// IsEmpty reports whether nothing is selected.
func (s Selection) IsEmpty() bool { return !s.all && len(s.values) == 0 }

// Contains reports whether v is selected.
func (s Selection) Contains(v string) bool {
	if s.all {
		return true
	}
	_, ok := s.values[v]
	return ok
}

// Values returns the selected values sorted; nil for the "all" sentinel.
func (s Selection) Values() []string {
	if s.all {
		return nil
	}
	out := make([]string, 0, len(s.values))
	for v := range s.values {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func (s Selection) String() string {
	if s.all {
		return AllValue
	}
	return strings.Join(s.Values(), ",")
}

// Predicate matches the cells of one column.
type Predicate struct {
	Column string
	match  func(v any) bool
}

// Equals matches cells equal to v (numbers compared numerically).
func Equals(column string, v any) Predicate {
	return Predicate{Column: column, match: func(c any) bool { return Compare(c, v) == 0 }}
}

// In matches cells whose text is in sel. In(column, All()) matches
// every row, exactly like having no predicate.
func In(column string, sel Selection) Predicate {
	if sel.IsAll() {
		return Predicate{Column: column}
	}
	return Predicate{Column: column, match: func(c any) bool { return sel.Contains(Text(c)) }}
}

// AtLeast matches numeric cells >= n.
func AtLeast(column string, n float64) Predicate {
	return Predicate{Column: column, match: func(c any) bool {
		f, ok := AsFloat(c)
		return ok && f >= n
	}}
}

// Filter returns the rows of t matching every predicate. Referencing a
// missing column is an error even for match-all predicates.
func Filter(t *Table, preds ...Predicate) (*Table, error) {
	type bound struct {
		idx   int
		match func(any) bool
	}
	var active []bound
	for _, p := range preds {
		idx := t.Index(p.Column)
		if idx < 0 {
			return nil, &MissingColumnError{Column: p.Column}
		}
		if p.match != nil {
			active = append(active, bound{idx: idx, match: p.match})
		}
	}
	out := New(t.Columns...)
	for _, r := range t.Rows {
		keep := true
		for _, b := range active {
			if !b.match(r[b.idx]) {
				keep = false
				break
			}
		}
		if keep {
			cp := make(Row, len(r))
			copy(cp, r)
			out.Rows = append(out.Rows, cp)
		}
	}
	return out, nil
}

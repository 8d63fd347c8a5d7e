package flow

import (
	"sort"

	"github.com/KaramelBytes/crimeflow/internal/table"
)

// Encode maps the labels found in the src and targ columns to dense integer
// codes. Both columns share one label space: the distinct union of their
// values, sorted by natural string order, gives labels, and a label's code
// is its position in that slice.
//
// The returned table is a copy of t with the src and targ cells replaced by
// their int code. Other columns and row order are unchanged.
func Encode(t *table.Table, src, targ string) (*table.Table, []string, error) {
	si, ti := t.Index(src), t.Index(targ)
	if si < 0 {
		return nil, nil, &ColumnError{Column: src, Role: "source"}
	}
	if ti < 0 {
		return nil, nil, &ColumnError{Column: targ, Role: "target"}
	}

	seen := make(map[string]struct{}, 2*len(t.Rows))
	for _, r := range t.Rows {
		seen[table.Text(r[si])] = struct{}{}
		seen[table.Text(r[ti])] = struct{}{}
	}
	labels := make([]string, 0, len(seen))
	for l := range seen {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	codes := make(map[string]int, len(labels))
	for i, l := range labels {
		codes[l] = i
	}

	out := t.Clone()
	for _, r := range out.Rows {
		code := codes[table.Text(r[si])]
		if ti != si {
			r[ti] = codes[table.Text(r[ti])]
		}
		r[si] = code
	}
	return out, labels, nil
}

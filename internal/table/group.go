package table

import (
	"sort"
	"strings"
)

// GroupBy counts occurrences of each unique combination of key columns.
// The result has the key columns followed by CountColumn, sorted ascending
// by the keys.
func GroupBy(t *Table, keys ...string) (*Table, error) {
	idxs, err := indexes(t, keys)
	if err != nil {
		return nil, err
	}

	type gAcc struct {
		key  Row
		size int
	}
	groups := map[string]*gAcc{}
	var order []*gAcc
	var sb strings.Builder
	for _, r := range t.Rows {
		sb.Reset()
		for _, idx := range idxs {
			// type prefix keeps 7 and "7" apart
			switch r[idx].(type) {
			case string:
				sb.WriteByte('s')
			default:
				sb.WriteByte('n')
			}
			sb.WriteString(Text(r[idx]))
			sb.WriteByte(0)
		}
		k := sb.String()
		ga := groups[k]
		if ga == nil {
			key := make(Row, len(idxs))
			for j, idx := range idxs {
				key[j] = r[idx]
			}
			ga = &gAcc{key: key}
			groups[k] = ga
			order = append(order, ga)
		}
		ga.size++
	}

	sort.SliceStable(order, func(i, j int) bool {
		for c := range idxs {
			if d := Compare(order[i].key[c], order[j].key[c]); d != 0 {
				return d < 0
			}
		}
		return false
	})

	out := New(append(append([]string{}, keys...), CountColumn)...)
	out.Rows = make([]Row, 0, len(order))
	for _, ga := range order {
		row := make(Row, 0, len(keys)+1)
		row = append(row, ga.key...)
		row = append(row, ga.size)
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

// Counts returns the x values and counts of a single-key GroupBy result.
func Counts(grouped *Table) ([]any, []int) {
	xs := make([]any, 0, grouped.Len())
	ys := make([]int, 0, grouped.Len())
	ci := grouped.Index(CountColumn)
	if ci < 0 {
		return xs, ys
	}
	for _, r := range grouped.Rows {
		xs = append(xs, r[0])
		n, _ := AsInt(r[ci])
		ys = append(ys, n)
	}
	return xs, ys
}

package flow

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/crimeflow/internal/table"
)

func pairs(rows ...table.Row) *table.Table {
	t := table.New("s", "t", "w")
	for _, r := range rows {
		t.Append(r...)
	}
	return t
}

func TestEncodeUnifiesLabels(t *testing.T) {
	in := pairs(table.Row{"A", "B", 1}, table.Row{"B", "A", 2})

	recoded, labels, err := Encode(in, "s", "t")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, labels)
	assert.Equal(t, []table.Row{{0, 1, 1}, {1, 0, 2}}, recoded.Rows)
	assert.Equal(t, []table.Row{{"A", "B", 1}, {"B", "A", 2}}, in.Rows, "input must not be mutated")
}

func TestEncodeDeterministicAndBijective(t *testing.T) {
	in := pairs(
		table.Row{"Washington St", "Larceny", 4},
		table.Row{"Gibson St", "Larceny", 1},
		table.Row{"Gibson St", "Vandalism", 3},
		table.Row{"Adams St", "Gibson St", 2},
	)
	r1, l1, err := Encode(in, "s", "t")
	require.NoError(t, err)
	r2, l2, err := Encode(in, "s", "t")
	require.NoError(t, err)
	assert.Equal(t, l1, l2)
	assert.Equal(t, r1, r2)

	seen := map[string]bool{}
	for _, l := range l1 {
		assert.False(t, seen[l], "duplicate label %q", l)
		seen[l] = true
	}
	assert.Equal(t, []string{"Adams St", "Gibson St", "Larceny", "Vandalism", "Washington St"}, l1)
	for _, r := range r1.Rows {
		for _, c := range r[:2] {
			code := c.(int)
			assert.GreaterOrEqual(t, code, 0)
			assert.Less(t, code, len(l1))
		}
	}
	// "Gibson St" is a source in two rows and a target in one: one code.
	assert.Equal(t, 1, r1.Rows[1][0])
	assert.Equal(t, 1, r1.Rows[3][1])
}

func TestEncodeEmptyTable(t *testing.T) {
	recoded, labels, err := Encode(pairs(), "s", "t")
	require.NoError(t, err)
	assert.Empty(t, labels)
	assert.Equal(t, 0, recoded.Len())
}

func TestEncodeMissingColumn(t *testing.T) {
	_, _, err := Encode(pairs(), "street", "t")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingColumn))
	var ce *ColumnError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "street", ce.Column)
	assert.Equal(t, "source", ce.Role)

	_, _, err = Encode(pairs(), "s", "offense")
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "target", ce.Role)
}

func TestEncodeStringifiesNonTextLabels(t *testing.T) {
	in := table.New("year", "offense")
	in.Append(2016, "Larceny")
	in.Append(2015, "Larceny")
	_, labels, err := Encode(in, "year", "offense")
	require.NoError(t, err)
	assert.Equal(t, []string{"2015", "2016", "Larceny"}, labels)
}

func TestBuildUnitWeights(t *testing.T) {
	in := pairs(table.Row{"x", "y", 5}, table.Row{"x", "z", 2}, table.Row{"y", "z", 9})
	g, err := Build(in, "s", "t")
	require.NoError(t, err)
	require.Len(t, g.Links, in.Len())
	for _, l := range g.Links {
		assert.Equal(t, 1.0, l.Weight)
	}
	assert.NoError(t, g.Validate())
}

func TestBuildWeighted(t *testing.T) {
	in := pairs(table.Row{"x", "y", 5}, table.Row{"x", "z", 2})
	g, err := Build(in, "s", "t", WithValues("w"))
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z"}, g.Labels())
	assert.Equal(t, []Link{
		{Source: 0, Target: 1, Weight: 5},
		{Source: 0, Target: 2, Weight: 2},
	}, g.Links)
}

func TestBuildEmptyValueColumnMeansUnitWeights(t *testing.T) {
	g, err := Build(pairs(table.Row{"x", "y", 5}), "s", "t", WithValues(""))
	require.NoError(t, err)
	assert.Equal(t, 1.0, g.Links[0].Weight)
}

func TestBuildEmptyInput(t *testing.T) {
	g, err := Build(pairs(), "s", "t")
	require.NoError(t, err)
	assert.NotNil(t, g.Nodes)
	assert.NotNil(t, g.Links)
	assert.Empty(t, g.Nodes)
	assert.Empty(t, g.Links)

	b, err := json.Marshal(g)
	require.NoError(t, err)
	assert.JSONEq(t, `{"nodes":[],"links":[]}`, string(b))
}

func TestBuildStyleOverride(t *testing.T) {
	g, err := Build(pairs(table.Row{"a", "b", 1}), "s", "t", WithPad(50))
	require.NoError(t, err)
	want := DefaultStyle()
	want.Pad = 50
	for _, n := range g.Nodes {
		assert.Equal(t, want, n.Style)
	}
	assert.Equal(t, 10.0, g.Nodes[0].Style.Thickness)
	assert.Equal(t, "black", g.Nodes[0].Style.LineColor)
	assert.Equal(t, 1.0, g.Nodes[0].Style.LineWidth)
}

func TestBuildPartialStyleMergesDefaults(t *testing.T) {
	g, err := Build(pairs(table.Row{"a", "b", 1}), "s", "t", WithStyle(Style{Pad: 50}))
	require.NoError(t, err)
	want := DefaultStyle()
	want.Pad = 50
	for _, n := range g.Nodes {
		assert.Equal(t, want, n.Style)
	}

	// a later per-field option can still set an explicit zero
	g, err = Build(pairs(table.Row{"a", "b", 1}), "s", "t",
		WithStyle(Style{LineColor: "gray"}), WithPad(0))
	require.NoError(t, err)
	assert.Equal(t, Style{Pad: 0, Thickness: 10, LineColor: "gray", LineWidth: 1}, g.Nodes[0].Style)
}

func TestBuildIndependentOverrides(t *testing.T) {
	g, err := Build(pairs(table.Row{"a", "b", 1}), "s", "t",
		WithThickness(20), WithLineColor("gray"), WithLineWidth(2))
	require.NoError(t, err)
	assert.Equal(t, Style{Pad: 100, Thickness: 20, LineColor: "gray", LineWidth: 2}, g.Nodes[1].Style)
	assert.Equal(t, 1, g.Nodes[1].Index)
	assert.Equal(t, "b", g.Nodes[1].Label)
}

func TestBuildMissingValueColumn(t *testing.T) {
	_, err := Build(pairs(table.Row{"a", "b", 1}), "s", "t", WithValues("count"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestBuildNonNumericWeight(t *testing.T) {
	_, err := Build(pairs(table.Row{"a", "b", 1}, table.Row{"a", "c", "many"}), "s", "t", WithValues("w"))
	var we *WeightError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, 1, we.Row)
}

func TestBuildSameSourceAndTargetColumn(t *testing.T) {
	g, err := Build(pairs(table.Row{"b", "x", 1}, table.Row{"a", "x", 1}), "s", "s")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, g.Labels())
	assert.Equal(t, Link{Source: 1, Target: 1, Weight: 1}, g.Links[0])
}

func TestValidateRejectsOutOfRange(t *testing.T) {
	g := &Graph{Nodes: []Node{{Index: 0, Label: "a"}}, Links: []Link{{Source: 0, Target: 3, Weight: 1}}}
	var le *LinkError
	require.ErrorAs(t, g.Validate(), &le)
	assert.Equal(t, 3, le.Code)
}

// Package flow builds renderer-agnostic flow (Sankey) graphs from tables of
// source/target category pairs.
package flow

import (
	"github.com/KaramelBytes/crimeflow/internal/table"
)

// Style holds node presentation hints.
type Style struct {
	// Pad is the spacing between nodes.
	Pad float64 `json:"pad" yaml:"pad" mapstructure:"pad"`
	// Thickness is the node thickness.
	Thickness float64 `json:"thickness" yaml:"thickness" mapstructure:"thickness"`
	// LineColor is the node border color.
	LineColor string `json:"line_color" yaml:"line_color" mapstructure:"line_color"`
	// LineWidth is the node border width.
	LineWidth float64 `json:"line_width" yaml:"line_width" mapstructure:"line_width"`
}

// DefaultStyle returns the node style used when a caller overrides nothing.
func DefaultStyle() Style {
	return Style{
		Pad:       100,
		Thickness: 10,
		LineColor: "black",
		LineWidth: 1,
	}
}

// Node is one category in a flow graph. Index equals the label's code.
type Node struct {
	Index int    `json:"index"`
	Label string `json:"label"`
	Style Style  `json:"style"`
}

// Link is a directed, weighted edge between two node indexes.
type Link struct {
	Source int     `json:"source"`
	Target int     `json:"target"`
	Weight float64 `json:"weight"`
}

// Graph is the result of Build. Nodes and Links are never nil.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// Labels returns node labels in index order.
func (g *Graph) Labels() []string {
	out := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		out[i] = n.Label
	}
	return out
}

// Validate checks that every link endpoint indexes into Nodes.
func (g *Graph) Validate() error {
	n := len(g.Nodes)
	for i, l := range g.Links {
		for _, c := range []int{l.Source, l.Target} {
			if c < 0 || c >= n {
				return &LinkError{Link: i, Code: c, Nodes: n}
			}
		}
	}
	return nil
}

type options struct {
	values string
	style  Style
}

// Option configures Build.
type Option func(*options)

// WithValues weights each link by the named column. Without it every link
// has weight 1.
func WithValues(column string) Option {
	return func(o *options) { o.values = column }
}

// WithStyle overlays the set fields of s onto the current style. Zero
// fields keep their current value; use the per-field options to set a
// field to zero.
func WithStyle(s Style) Option {
	return func(o *options) { o.style = o.style.merge(s) }
}

func (s Style) merge(over Style) Style {
	if over.Pad != 0 {
		s.Pad = over.Pad
	}
	if over.Thickness != 0 {
		s.Thickness = over.Thickness
	}
	if over.LineColor != "" {
		s.LineColor = over.LineColor
	}
	if over.LineWidth != 0 {
		s.LineWidth = over.LineWidth
	}
	return s
}

// WithPad overrides the node spacing.
func WithPad(v float64) Option {
	return func(o *options) { o.style.Pad = v }
}

// WithThickness overrides the node thickness.
func WithThickness(v float64) Option {
	return func(o *options) { o.style.Thickness = v }
}

// WithLineColor overrides the node border color.
func WithLineColor(c string) Option {
	return func(o *options) { o.style.LineColor = c }
}

// WithLineWidth overrides the node border width.
func WithLineWidth(v float64) Option {
	return func(o *options) { o.style.LineWidth = v }
}

// Build encodes the src and targ columns of t and returns the flow graph
// with one link per row and one node per distinct label.
//
// Weighting is all-or-nothing per call: when WithValues names a column every
// link takes its weight from that column, otherwise every link weighs 1.
// An empty table yields an empty graph, not an error.
func Build(t *table.Table, src, targ string, opts ...Option) (*Graph, error) {
	o := options{style: DefaultStyle()}
	for _, opt := range opts {
		opt(&o)
	}

	recoded, labels, err := Encode(t, src, targ)
	if err != nil {
		return nil, err
	}
	vi := -1
	if o.values != "" {
		if vi = recoded.Index(o.values); vi < 0 {
			return nil, &ColumnError{Column: o.values, Role: "value"}
		}
	}

	si, ti := recoded.Index(src), recoded.Index(targ)
	links := make([]Link, 0, recoded.Len())
	for i, r := range recoded.Rows {
		w := 1.0
		if vi >= 0 {
			f, ok := table.AsFloat(r[vi])
			if !ok {
				return nil, &WeightError{Row: i, Value: r[vi]}
			}
			w = f
		}
		links = append(links, Link{Source: r[si].(int), Target: r[ti].(int), Weight: w})
	}

	nodes := make([]Node, len(labels))
	for i, l := range labels {
		nodes[i] = Node{Index: i, Label: l, Style: o.style}
	}
	return &Graph{Nodes: nodes, Links: links}, nil
}

// Package chart turns aggregates and flow graphs into plotly figure
// descriptions. It is the only package that knows the renderer's schema.
package chart

import (
	"github.com/KaramelBytes/crimeflow/internal/flow"
)

// Figure is a plotly figure: traces plus layout.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is one plotly trace. Only the trace types of this package
// implement it.
type Trace interface {
	kind() string
}

// Layout holds the subset of plotly layout options the dashboard uses.
type Layout struct {
	Title  *Title  `json:"title,omitempty"`
	Height int     `json:"height,omitempty"`
	Margin *Margin `json:"margin,omitempty"`
	Mapbox *Mapbox `json:"mapbox,omitempty"`
	XAxis  *Axis   `json:"xaxis,omitempty"`
}

// Title is a figure heading.
type Title struct {
	Text    string  `json:"text"`
	X       float64 `json:"x"`
	XAnchor string  `json:"xanchor"`
}

// Margin is the plot margin in pixels.
type Margin struct {
	R int `json:"r"`
	T int `json:"t"`
	L int `json:"l"`
	B int `json:"b"`
}

// Mapbox configures the map tiles and viewport.
type Mapbox struct {
	Style  string  `json:"style"`
	Zoom   float64 `json:"zoom"`
	Center LatLon  `json:"center"`
}

// LatLon is a geographic coordinate.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Axis configures a plot axis.
type Axis struct {
	Type string `json:"type,omitempty"`
}

// Marker styles map points.
type Marker struct {
	Color string `json:"color,omitempty"`
	Size  int    `json:"size,omitempty"`
}

// ScatterMapbox is a geographic scatter trace.
type ScatterMapbox struct {
	Type      string    `json:"type"`
	Mode      string    `json:"mode"`
	Lat       []float64 `json:"lat"`
	Lon       []float64 `json:"lon"`
	HoverText []string  `json:"hovertext,omitempty"`
	Marker    Marker    `json:"marker"`
}

func (ScatterMapbox) kind() string { return "scattermapbox" }

// Bar is a bar trace.
type Bar struct {
	Type string `json:"type"`
	X    []any  `json:"x"`
	Y    []int  `json:"y"`
}

func (Bar) kind() string { return "bar" }

// Scatter is a line trace.
type Scatter struct {
	Type string `json:"type"`
	Mode string `json:"mode"`
	X    []any  `json:"x"`
	Y    []int  `json:"y"`
}

func (Scatter) kind() string { return "scatter" }

// Sankey is a flow trace built from a flow.Graph.
type Sankey struct {
	Type string     `json:"type"`
	Node SankeyNode `json:"node"`
	Link SankeyLink `json:"link"`
}

func (Sankey) kind() string { return "sankey" }

// SankeyNode holds node labels and their shared style.
type SankeyNode struct {
	Pad       float64  `json:"pad"`
	Thickness float64  `json:"thickness"`
	Line      NodeLine `json:"line"`
	Label     []string `json:"label"`
}

// NodeLine is the node border.
type NodeLine struct {
	Color string  `json:"color"`
	Width float64 `json:"width"`
}

// SankeyLink holds the links as parallel source, target and value arrays.
type SankeyLink struct {
	Source []int     `json:"source"`
	Target []int     `json:"target"`
	Value  []float64 `json:"value"`
}

func title(text string) *Title {
	return &Title{Text: text, X: 0.05, XAnchor: "left"}
}

// BarChart builds a bar figure.
func BarChart(x []any, y []int, heading string) Figure {
	return Figure{
		Data:   []Trace{Bar{Type: "bar", X: x, Y: y}},
		Layout: Layout{Title: title(heading)},
	}
}

// LineChart builds a single-series line figure. Category x values keep
// their given order.
func LineChart(x []any, y []int, heading string) Figure {
	fig := Figure{
		Data:   []Trace{Scatter{Type: "scatter", Mode: "lines", X: x, Y: y}},
		Layout: Layout{Title: title(heading)},
	}
	if len(x) > 0 {
		if _, ok := x[0].(string); ok {
			fig.Layout.XAxis = &Axis{Type: "category"}
		}
	}
	return fig
}

// SankeyChart converts a flow graph into a Sankey figure. plotly styles
// nodes per trace, so the first node's style applies to all; every node
// built by one flow.Build call shares it.
func SankeyChart(g *flow.Graph, heading string) Figure {
	style := flow.DefaultStyle()
	if len(g.Nodes) > 0 {
		style = g.Nodes[0].Style
	}
	link := SankeyLink{
		Source: make([]int, len(g.Links)),
		Target: make([]int, len(g.Links)),
		Value:  make([]float64, len(g.Links)),
	}
	for i, l := range g.Links {
		link.Source[i] = l.Source
		link.Target[i] = l.Target
		link.Value[i] = l.Weight
	}
	fig := Figure{
		Data: []Trace{Sankey{
			Type: "sankey",
			Node: SankeyNode{
				Pad:       style.Pad,
				Thickness: style.Thickness,
				Line:      NodeLine{Color: style.LineColor, Width: style.LineWidth},
				Label:     g.Labels(),
			},
			Link: link,
		}},
	}
	if heading != "" {
		fig.Layout.Title = title(heading)
	}
	return fig
}

// MapPoint is one incident on the map.
type MapPoint struct {
	Lat   float64
	Lon   float64
	Hover string
}

// MapOptions controls the geographic scatter figure.
type MapOptions struct {
	Color  string
	Zoom   float64
	Height int
	Style  string
	Center LatLon
}

// DefaultMapOptions mirrors the dashboard's map: fuchsia markers over
// open-street-map tiles centered on Boston.
func DefaultMapOptions() MapOptions {
	return MapOptions{
		Color:  "fuchsia",
		Zoom:   10,
		Height: 600,
		Style:  "open-street-map",
		Center: LatLon{Lat: 42.32, Lon: -71.08},
	}
}

// ScatterMap builds the incident map.
func ScatterMap(points []MapPoint, opt MapOptions) Figure {
	tr := ScatterMapbox{
		Type:      "scattermapbox",
		Mode:      "markers",
		Lat:       make([]float64, len(points)),
		Lon:       make([]float64, len(points)),
		HoverText: make([]string, len(points)),
		Marker:    Marker{Color: opt.Color},
	}
	for i, p := range points {
		tr.Lat[i] = p.Lat
		tr.Lon[i] = p.Lon
		tr.HoverText[i] = p.Hover
	}
	return Figure{
		Data: []Trace{tr},
		Layout: Layout{
			Height: opt.Height,
			Margin: &Margin{},
			Mapbox: &Mapbox{Style: opt.Style, Zoom: opt.Zoom, Center: opt.Center},
		},
	}
}

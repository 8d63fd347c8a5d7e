package chart

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strings"
)

// DefaultPlotlyURL is the plotly.js bundle standalone HTML pages load.
const DefaultPlotlyURL = "https://cdn.plot.ly/plotly-2.35.2.min.js"

// Format selects how Render encodes a figure.
type Format string

const (
	FormatJSON Format = "json"
	FormatHTML Format = "html"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatHTML, "browser":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("unsupported format: %s (use json|html)", s)
}

// Target describes where and how a figure is rendered. Callers always pass
// one explicitly.
type Target struct {
	Format    Format
	Title     string
	PlotlyURL string
}

// Ext returns the file extension for the target format.
func (t Target) Ext() string {
	if t.Format == FormatHTML {
		return ".html"
	}
	return ".json"
}

var pageTmpl = template.Must(template.New("figure").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="{{.PlotlyURL}}"></script>
</head>
<body>
<div id="figure"></div>
<script>
const fig = {{.Figure}};
Plotly.newPlot("figure", fig.data, fig.layout, {displayModeBar: false});
</script>
</body>
</html>
`))

// Render writes fig to w in the target's format.
func Render(w io.Writer, fig Figure, t Target) error {
	switch t.Format {
	case FormatHTML:
		raw, err := json.Marshal(fig)
		if err != nil {
			return fmt.Errorf("marshal figure: %w", err)
		}
		url := t.PlotlyURL
		if url == "" {
			url = DefaultPlotlyURL
		}
		data := struct {
			Title     string
			PlotlyURL string
			Figure    template.JS
		}{Title: t.Title, PlotlyURL: url, Figure: template.JS(raw)}
		if err := pageTmpl.Execute(w, data); err != nil {
			return fmt.Errorf("render html: %w", err)
		}
		return nil
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(fig); err != nil {
			return fmt.Errorf("encode figure: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format: %s", t.Format)
	}
}

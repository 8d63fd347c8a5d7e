// Package dashboard computes the six figures shown for one combination of
// filter values: the incident map, the yearly bar chart, three time-series
// line charts and the street-to-offense flow.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/crimeflow/internal/chart"
	"github.com/KaramelBytes/crimeflow/internal/dataset"
	"github.com/KaramelBytes/crimeflow/internal/flow"
	"github.com/KaramelBytes/crimeflow/internal/metrics"
	"github.com/KaramelBytes/crimeflow/internal/table"
)

// ErrEmptySelection is returned when a multi-select has been cleared. The
// caller should keep showing its previous figures.
var ErrEmptySelection = errors.New("empty selection")

// Figure titles.
const (
	TitleYearly  = "Yearly Number of Incidents by Offense Code Group"
	TitleMonthly = "Monthly Number of Incidents for Given Offense Code Group"
	TitleDaily   = "Daily Number of Incidents for Given Offense Code Group"
	TitleHourly  = "Hourly Number of Incidents for Given Offense Code Group"
)

// DefaultMinCount is the initial minimum link weight of the flow figure.
const DefaultMinCount = 10

// Weekdays is the display order of the daily chart.
var Weekdays = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

var requiredColumns = []string{
	dataset.ColIncidentNumber, dataset.ColOffenseCodeGroup, dataset.ColStreet,
	dataset.ColYear, dataset.ColMonth, dataset.ColDayOfWeek, dataset.ColHour,
	dataset.ColLat, dataset.ColLong,
}

// hoverColumns are shown under the incident number on the map.
var hoverColumns = []string{
	dataset.ColYear, dataset.ColOffenseCodeGroup, dataset.ColDistrict,
	dataset.ColReportingArea, dataset.ColOccurredOnDate, dataset.ColStreet,
}

// Settings are the presentation knobs of a dashboard.
type Settings struct {
	Map  chart.MapOptions
	Flow flow.Style
}

// DefaultSettings returns the stock map and flow styling.
func DefaultSettings() Settings {
	return Settings{Map: chart.DefaultMapOptions(), Flow: flow.DefaultStyle()}
}

// Filters is one interaction's widget state.
type Filters struct {
	Year     int
	Offenses table.Selection
	Streets  table.Selection
	MinCount int
}

// Options lists the values the filter widgets offer.
type Options struct {
	Years    []int    `json:"years"`
	Offenses []string `json:"offenses"`
	Streets  []string `json:"streets"`
}

// View is the set of figures for one interaction.
type View struct {
	Map     chart.Figure `json:"map"`
	Yearly  chart.Figure `json:"yearly"`
	Monthly chart.Figure `json:"monthly"`
	Daily   chart.Figure `json:"daily"`
	Hourly  chart.Figure `json:"hourly"`
	Flow    chart.Figure `json:"flow"`
}

// Figures returns the view's figures keyed by a short name, in display
// order.
func (v *View) Figures() []Named {
	return []Named{
		{"map", v.Map}, {"yearly", v.Yearly}, {"monthly", v.Monthly},
		{"daily", v.Daily}, {"hourly", v.Hourly}, {"flow", v.Flow},
	}
}

// Named pairs a figure with its short name.
type Named struct {
	Name   string
	Figure chart.Figure
}

// Dashboard renders views over a read-only base table.
type Dashboard struct {
	base     *table.Table
	settings Settings
	options  Options
}

// New validates base and precomputes the widget options. base must not be
// modified afterwards.
func New(base *table.Table, s Settings) (*Dashboard, error) {
	for _, c := range requiredColumns {
		if !base.Has(c) {
			return nil, fmt.Errorf("dashboard: %w", &table.MissingColumnError{Column: c})
		}
	}
	years, err := table.DistinctInts(base, dataset.ColYear)
	if err != nil {
		return nil, err
	}
	offenses, err := table.Distinct(base, dataset.ColOffenseCodeGroup)
	if err != nil {
		return nil, err
	}
	streets, err := table.Distinct(base, dataset.ColStreet)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		base:     base,
		settings: s,
		options:  Options{Years: years, Offenses: offenses, Streets: streets},
	}, nil
}

// Options returns the available filter values.
func (d *Dashboard) Options() Options { return d.options }

// Settings returns the presentation settings.
func (d *Dashboard) Settings() Settings { return d.settings }

func checkFilters(f Filters) error {
	if f.Offenses.IsEmpty() || f.Streets.IsEmpty() {
		metrics.EmptySelection()
		return ErrEmptySelection
	}
	if f.MinCount < 0 {
		return fmt.Errorf("min count must be >= 0, got %d", f.MinCount)
	}
	return nil
}

// Render computes all six figures for f. Figures are computed concurrently,
// each from its own filtered copy of the base table.
func (d *Dashboard) Render(ctx context.Context, f Filters) (*View, error) {
	if err := checkFilters(f); err != nil {
		return nil, err
	}
	year, err := table.Filter(d.base, table.Equals(dataset.ColYear, f.Year))
	if err != nil {
		return nil, err
	}

	v := &View{}
	g, ctx := errgroup.WithContext(ctx)
	run := func(name string, dst *chart.Figure, fn func() (chart.Figure, error)) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			fig, err := fn()
			if err != nil {
				return fmt.Errorf("%s figure: %w", name, err)
			}
			metrics.ObserveFigure(name, time.Since(start))
			*dst = fig
			return nil
		})
	}
	run("map", &v.Map, func() (chart.Figure, error) { return d.mapFigure(year, f.Offenses) })
	run("yearly", &v.Yearly, func() (chart.Figure, error) { return yearlyFigure(year) })
	run("monthly", &v.Monthly, func() (chart.Figure, error) {
		return seriesFigure(year, f.Offenses, dataset.ColMonth, TitleMonthly)
	})
	run("daily", &v.Daily, func() (chart.Figure, error) { return dailyFigure(year, f.Offenses) })
	run("hourly", &v.Hourly, func() (chart.Figure, error) {
		return seriesFigure(year, f.Offenses, dataset.ColHour, TitleHourly)
	})
	run("flow", &v.Flow, func() (chart.Figure, error) {
		gr, err := d.streetFlow(year, f.Streets, f.MinCount)
		if err != nil {
			return chart.Figure{}, err
		}
		return chart.SankeyChart(gr, ""), nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return v, nil
}

// Flow returns the street-to-offense flow model for f without rendering
// the other figures.
func (d *Dashboard) Flow(ctx context.Context, f Filters) (*flow.Graph, error) {
	if err := checkFilters(f); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	year, err := table.Filter(d.base, table.Equals(dataset.ColYear, f.Year))
	if err != nil {
		return nil, err
	}
	return d.streetFlow(year, f.Streets, f.MinCount)
}

// streetFlow groups the year's incidents on the selected streets by street
// and offense group, keeps combinations seen at least minCount times and
// builds a weighted flow model from them.
func (d *Dashboard) streetFlow(year *table.Table, streets table.Selection, minCount int) (*flow.Graph, error) {
	onStreets, err := table.Filter(year, table.In(dataset.ColStreet, streets))
	if err != nil {
		return nil, err
	}
	grouped, err := table.GroupBy(onStreets, dataset.ColStreet, dataset.ColOffenseCodeGroup)
	if err != nil {
		return nil, err
	}
	grouped, err = table.SortBy(grouped, table.CountColumn, true)
	if err != nil {
		return nil, err
	}
	grouped, err = table.Filter(grouped, table.AtLeast(table.CountColumn, float64(minCount)))
	if err != nil {
		return nil, err
	}
	gr, err := flow.Build(grouped, dataset.ColStreet, dataset.ColOffenseCodeGroup,
		flow.WithValues(table.CountColumn), flow.WithStyle(d.settings.Flow))
	if err == nil {
		err = gr.Validate()
	}
	if err != nil {
		metrics.ObserveFlow(0, err)
		return nil, err
	}
	metrics.ObserveFlow(len(gr.Nodes), nil)
	return gr, nil
}

package dashboard

import (
	"strings"

	"github.com/KaramelBytes/crimeflow/internal/chart"
	"github.com/KaramelBytes/crimeflow/internal/dataset"
	"github.com/KaramelBytes/crimeflow/internal/table"
)

func (d *Dashboard) mapFigure(year *table.Table, offenses table.Selection) (chart.Figure, error) {
	t, err := table.Filter(year, table.In(dataset.ColOffenseCodeGroup, offenses))
	if err != nil {
		return chart.Figure{}, err
	}
	hover := make([]string, 0, len(hoverColumns))
	for _, c := range hoverColumns {
		if t.Has(c) {
			hover = append(hover, c)
		}
	}
	t, err = table.Project(t, append([]string{dataset.ColIncidentNumber, dataset.ColLat, dataset.ColLong}, hover...)...)
	if err != nil {
		return chart.Figure{}, err
	}
	lats, err := t.Column(dataset.ColLat)
	if err != nil {
		return chart.Figure{}, err
	}
	lons, err := t.Column(dataset.ColLong)
	if err != nil {
		return chart.Figure{}, err
	}

	points := make([]chart.MapPoint, 0, t.Len())
	var sb strings.Builder
	for i, r := range t.Rows {
		lat, _ := table.AsFloat(lats[i])
		lon, _ := table.AsFloat(lons[i])
		sb.Reset()
		sb.WriteString("<b>")
		sb.WriteString(table.Text(r[0]))
		sb.WriteString("</b>")
		// hover cells follow the three leading columns
		for j, c := range hover {
			sb.WriteString("<br>")
			sb.WriteString(c)
			sb.WriteString("=")
			sb.WriteString(table.Text(r[3+j]))
		}
		points = append(points, chart.MapPoint{Lat: lat, Lon: lon, Hover: sb.String()})
	}
	return chart.ScatterMap(points, d.settings.Map), nil
}

// yearlyFigure counts every offense group in the year; the offense filter
// does not apply to it.
func yearlyFigure(year *table.Table) (chart.Figure, error) {
	grouped, err := table.GroupBy(year, dataset.ColOffenseCodeGroup)
	if err != nil {
		return chart.Figure{}, err
	}
	x, y := table.Counts(grouped)
	return chart.BarChart(x, y, TitleYearly), nil
}

func seriesFigure(year *table.Table, offenses table.Selection, column, heading string) (chart.Figure, error) {
	x, y, err := countsFor(year, offenses, column)
	if err != nil {
		return chart.Figure{}, err
	}
	return chart.LineChart(x, y, heading), nil
}

// dailyFigure orders weekdays Sunday first and reports days without
// incidents as zero.
func dailyFigure(year *table.Table, offenses table.Selection) (chart.Figure, error) {
	x, y, err := countsFor(year, offenses, dataset.ColDayOfWeek)
	if err != nil {
		return chart.Figure{}, err
	}
	byDay := make(map[string]int, len(x))
	for i, v := range x {
		byDay[table.Text(v)] = y[i]
	}
	days := make([]any, len(Weekdays))
	counts := make([]int, len(Weekdays))
	for i, day := range Weekdays {
		days[i] = day
		counts[i] = byDay[day]
	}
	return chart.LineChart(days, counts, TitleDaily), nil
}

func countsFor(year *table.Table, offenses table.Selection, column string) ([]any, []int, error) {
	t, err := table.Filter(year, table.In(dataset.ColOffenseCodeGroup, offenses))
	if err != nil {
		return nil, nil, err
	}
	grouped, err := table.GroupBy(t, column)
	if err != nil {
		return nil, nil, err
	}
	x, y := table.Counts(grouped)
	return x, y, nil
}

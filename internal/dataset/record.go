package dataset

import "github.com/KaramelBytes/crimeflow/internal/table"

// Column names of the unified incident table.
const (
	ColIncidentNumber     = "incident_number"
	ColOffenseCode        = "offense_code"
	ColOffenseCodeGroup   = "offense_code_group"
	ColOffenseDescription = "offense_description"
	ColDistrict           = "district"
	ColReportingArea      = "reporting_area"
	ColStreet             = "street"
	ColOccurredOnDate     = "occurred_on_date"
	ColYear               = "year"
	ColMonth              = "month"
	ColDayOfWeek          = "day_of_week"
	ColHour               = "hour"
	ColLat                = "lat"
	ColLong               = "long"
)

// Columns lists the unified table columns in order.
var Columns = []string{
	ColIncidentNumber, ColOffenseCode, ColOffenseCodeGroup, ColOffenseDescription,
	ColDistrict, ColReportingArea, ColStreet, ColOccurredOnDate,
	ColYear, ColMonth, ColDayOfWeek, ColHour, ColLat, ColLong,
}

// Record is one cleaned incident.
type Record struct {
	IncidentNumber     string
	OffenseCode        string
	OffenseCodeGroup   string
	OffenseDescription string
	District           string
	ReportingArea      string
	Street             string
	OccurredOnDate     string
	Year               int
	Month              int
	DayOfWeek          string
	Hour               int
	Lat                float64
	Long               float64
}

// ToTable converts records into the unified incident table.
func ToTable(recs []Record) *table.Table {
	t := table.New(Columns...)
	t.Rows = make([]table.Row, 0, len(recs))
	for _, r := range recs {
		t.Rows = append(t.Rows, table.Row{
			r.IncidentNumber, r.OffenseCode, r.OffenseCodeGroup, r.OffenseDescription,
			r.District, r.ReportingArea, r.Street, r.OccurredOnDate,
			r.Year, r.Month, r.DayOfWeek, r.Hour, r.Lat, r.Long,
		})
	}
	return t
}

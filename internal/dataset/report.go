package dataset

import (
	"fmt"
	"sort"
	"strings"
)

// Report summarizes an ingestion run.
type Report struct {
	Files    []FileStat
	RowsRead int
	RowsKept int

	// Rows dropped, by reason.
	MissingFields  int
	InvalidValues  int
	BadCoordinates int
	UnknownOffense int

	// Rows whose offense group was filled from the code lookup.
	Backfilled int

	Years       []CategoryCount
	TopOffenses []CategoryCount
	TopStreets  []CategoryCount
	Districts   int
}

// CategoryCount is a value and its frequency.
type CategoryCount struct {
	Value string
	Count int
}

// Dropped returns the total number of rows removed by cleaning.
func (r *Report) Dropped() int {
	return r.MissingFields + r.InvalidValues + r.BadCoordinates + r.UnknownOffense
}

func (r *Report) summarize(recs []Record) {
	years := map[string]int{}
	offenses := map[string]int{}
	streets := map[string]int{}
	districts := map[string]struct{}{}
	for _, rec := range recs {
		years[fmt.Sprint(rec.Year)]++
		offenses[rec.OffenseCodeGroup]++
		streets[rec.Street]++
		districts[rec.District] = struct{}{}
	}
	r.Years = tops(years, 0)
	sort.Slice(r.Years, func(i, j int) bool { return r.Years[i].Value < r.Years[j].Value })
	r.TopOffenses = tops(offenses, 10)
	r.TopStreets = tops(streets, 10)
	r.Districts = len(districts)
}

// tops sorts by count desc then value asc and keeps at most n (0 = all).
func tops(m map[string]int, n int) []CategoryCount {
	out := make([]CategoryCount, 0, len(m))
	for k, v := range m {
		out = append(out, CategoryCount{Value: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Value < out[j].Value
		}
		return out[i].Count > out[j].Count
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Markdown renders the report for terminals and summary files.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	for _, f := range r.Files {
		b.WriteString(fmt.Sprintf("File: %s (%d rows)\n", f.Name, f.Rows))
	}
	b.WriteString(fmt.Sprintf("Rows: %d read, %d kept\n", r.RowsRead, r.RowsKept))
	if r.Districts > 0 {
		b.WriteString(fmt.Sprintf("Districts: %d\n", r.Districts))
	}

	b.WriteString("\n[CLEANING]\n")
	b.WriteString(fmt.Sprintf("- missing street/lat/long/district: %d\n", r.MissingFields))
	b.WriteString(fmt.Sprintf("- invalid year/month/hour: %d\n", r.InvalidValues))
	b.WriteString(fmt.Sprintf("- invalid coordinates: %d\n", r.BadCoordinates))
	b.WriteString(fmt.Sprintf("- unknown offense code: %d\n", r.UnknownOffense))
	b.WriteString(fmt.Sprintf("- offense group backfilled: %d\n", r.Backfilled))

	if len(r.Years) > 0 {
		b.WriteString("\n[YEARS]\n")
		for _, y := range r.Years {
			b.WriteString(fmt.Sprintf("- %s: %d\n", y.Value, y.Count))
		}
	}
	writeTops(&b, "TOP OFFENSE GROUPS", r.TopOffenses)
	writeTops(&b, "TOP STREETS", r.TopStreets)
	return b.String()
}

func writeTops(b *strings.Builder, title string, cc []CategoryCount) {
	if len(cc) == 0 {
		return
	}
	b.WriteString("\n[" + title + "]\n")
	for i, c := range cc {
		b.WriteString(fmt.Sprintf("%d. %s (%d)\n", i+1, safeVal(c.Value), c.Count))
	}
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }

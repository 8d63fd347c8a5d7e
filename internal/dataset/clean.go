package dataset

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// minLat rejects the geocoding sentinels found in the extracts (e.g. -1 or
// zero latitudes); every valid Boston incident lies north of 42°.
const minLat = 42.0

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// clean applies the cleaning contract to raw rows, in order:
//  1. drop rows missing street, lat, long or district
//  2. title-case offense_code_group and street
//  3. drop rows with lat <= 42 or long == 0
//  4. backfill missing offense_code_group from a code→group lookup built
//     from the remaining rows, dropping rows whose code has no known group
func clean(raws []rawRecord) ([]Record, *Report) {
	rep := &Report{RowsRead: len(raws)}
	title := cases.Title(language.English)

	kept := make([]Record, 0, len(raws))
	for _, r := range raws {
		if r.street == "" || r.district == "" || r.lat == "" || r.long == "" {
			rep.MissingFields++
			continue
		}
		lat, errLat := strconv.ParseFloat(r.lat, 64)
		long, errLong := strconv.ParseFloat(r.long, 64)
		if errLat != nil || errLong != nil || !finite(lat) || !finite(long) {
			rep.MissingFields++
			continue
		}
		year, errY := strconv.Atoi(r.year)
		month, errM := strconv.Atoi(r.month)
		hour, errH := strconv.Atoi(r.hour)
		if errY != nil || errM != nil || errH != nil {
			rep.InvalidValues++
			continue
		}
		rec := Record{
			IncidentNumber:     r.incident,
			OffenseCode:        normalizeCode(r.code),
			OffenseDescription: r.description,
			District:           r.district,
			ReportingArea:      r.area,
			Street:             title.String(r.street),
			OccurredOnDate:     r.occurred,
			Year:               year,
			Month:              month,
			DayOfWeek:          title.String(r.dayOfWeek),
			Hour:               hour,
			Lat:                lat,
			Long:               long,
		}
		if r.group != "" {
			rec.OffenseCodeGroup = title.String(r.group)
		}
		if rec.Lat <= minLat || rec.Long == 0 {
			rep.BadCoordinates++
			continue
		}
		kept = append(kept, rec)
	}

	lookup := groupLookup(kept)
	out := kept[:0]
	for _, rec := range kept {
		if rec.OffenseCodeGroup == "" {
			g, ok := lookup[rec.OffenseCode]
			if !ok {
				rep.UnknownOffense++
				continue
			}
			rec.OffenseCodeGroup = g
			rep.Backfilled++
		}
		out = append(out, rec)
	}
	rep.RowsKept = len(out)
	rep.summarize(out)
	return out, rep
}

// groupLookup maps each offense code to the group it is most often filed
// under; ties go to the lexicographically smaller group.
func groupLookup(recs []Record) map[string]string {
	counts := map[string]map[string]int{}
	for _, r := range recs {
		if r.OffenseCodeGroup == "" || r.OffenseCode == "" {
			continue
		}
		m := counts[r.OffenseCode]
		if m == nil {
			m = map[string]int{}
			counts[r.OffenseCode] = m
		}
		m[r.OffenseCodeGroup]++
	}
	out := make(map[string]string, len(counts))
	for code, groups := range counts {
		names := make([]string, 0, len(groups))
		for g := range groups {
			names = append(names, g)
		}
		sort.Strings(names)
		best := names[0]
		for _, g := range names[1:] {
			if groups[g] > groups[best] {
				best = g
			}
		}
		out[code] = best
	}
	return out
}

// normalizeCode strips leading zeros from numeric codes so "03115" and
// "3115" from different extracts agree.
func normalizeCode(s string) string {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return strconv.Itoa(n)
	}
	return s
}

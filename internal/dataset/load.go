package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// required lists the columns every extract must carry. offense_code_group is
// optional: later extracts omit it and it is backfilled during cleaning.
var required = []string{
	ColOffenseCode, ColStreet, ColLat, ColLong, ColDistrict,
	ColYear, ColMonth, ColDayOfWeek, ColHour, ColIncidentNumber,
}

// Options controls ingestion.
type Options struct {
	// Delimiter for CSV. If 0, ',' is used unless the file ends in .tsv.
	Delimiter rune
	// MaxRowsPerFile limits rows read per file; 0 means unlimited.
	MaxRowsPerFile int
}

// DefaultOptions returns reasonable defaults for ingestion.
func DefaultOptions() Options {
	return Options{}
}

// rawRecord is one input row with columns normalized but values untouched.
type rawRecord struct {
	incident    string
	code        string
	group       string
	description string
	district    string
	area        string
	street      string
	occurred    string
	year        string
	month       string
	dayOfWeek   string
	hour        string
	lat         string
	long        string
}

// FileStat records how many data rows a file contributed.
type FileStat struct {
	Name string
	Rows int
}

// ResolvePaths expands glob patterns relative to dir into a sorted, deduped
// list of files. A literal (non-glob) pattern that does not exist is an error.
func ResolvePaths(dir string, patterns []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, p := range patterns {
		if dir != "" && !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", p, err)
		}
		if len(matches) == 0 {
			if !strings.ContainsAny(p, "*?[") {
				if _, err := os.Stat(p); err != nil {
					return nil, fmt.Errorf("source file: %w", err)
				}
				matches = []string{p}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	sort.Strings(files)
	return files, nil
}

// LoadFiles reads every file concurrently, concatenates the rows in path
// order and cleans them. Any unreadable or malformed file fails the load.
func LoadFiles(ctx context.Context, paths []string, opt Options) ([]Record, *Report, error) {
	if len(paths) == 0 {
		return nil, nil, ErrNoFiles
	}
	results := make([][]rawRecord, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			raws, err := readFile(gctx, p, opt)
			if err != nil {
				return err
			}
			results[i] = raws
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var all []rawRecord
	stats := make([]FileStat, len(paths))
	for i, p := range paths {
		stats[i] = FileStat{Name: filepath.Base(p), Rows: len(results[i])}
		all = append(all, results[i]...)
	}
	recs, rep := clean(all)
	rep.Files = stats
	return recs, rep, nil
}

func readFile(ctx context.Context, path string, opt Options) ([]rawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("source file %s: %w", path, err)
		}
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return readCSV(ctx, f, filepath.Base(path), delimiterFor(path, opt), opt.MaxRowsPerFile)
}

func delimiterFor(path string, opt Options) rune {
	if opt.Delimiter != 0 {
		return opt.Delimiter
	}
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}

func readCSV(ctx context.Context, rd io.Reader, name string, delim rune, maxRows int) ([]rawRecord, error) {
	r := csv.NewReader(rd)
	r.ReuseRecord = true
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = delim

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &SchemaError{File: name, Missing: required}
		}
		return nil, fmt.Errorf("%s: read header: %w", name, err)
	}
	idx := map[string]int{}
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	var missing []string
	for _, c := range required {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{File: name, Missing: missing}
	}

	get := func(rec []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var out []rawRecord
	for line := 2; ; line++ {
		if line%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%s: read row %d: %w", name, line, err)
		}
		if maxRows > 0 && len(out) >= maxRows {
			break
		}
		out = append(out, rawRecord{
			incident:    get(rec, ColIncidentNumber),
			code:        get(rec, ColOffenseCode),
			group:       get(rec, ColOffenseCodeGroup),
			description: get(rec, ColOffenseDescription),
			district:    get(rec, ColDistrict),
			area:        get(rec, ColReportingArea),
			street:      get(rec, ColStreet),
			occurred:    get(rec, ColOccurredOnDate),
			year:        get(rec, ColYear),
			month:       get(rec, ColMonth),
			dayOfWeek:   get(rec, ColDayOfWeek),
			hour:        get(rec, ColHour),
			lat:         get(rec, ColLat),
			long:        get(rec, ColLong),
		})
	}
	return out, nil
}

package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadCSV reads a CSV stream with a header row into a Table. Cells that
// parse as integers become int, other numbers float64, everything else a
// trimmed string.
func ReadCSV(rd io.Reader, delim rune) (*Table, error) {
	r := csv.NewReader(rd)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	if delim != 0 {
		r.Comma = delim
	}

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return New(), nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	t := New(cols...)
	for line := 2; ; line++ {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		row := make(Row, len(cols))
		for j := range cols {
			if j < len(rec) {
				row[j] = parseCell(rec[j])
			} else {
				row[j] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// ReadCSVFile opens path and reads it with ReadCSV. A .tsv suffix selects a
// tab delimiter.
func ReadCSVFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	var delim rune
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		delim = '\t'
	}
	return ReadCSV(f, delim)
}

func parseCell(s string) any {
	v := strings.TrimSpace(s)
	if v == "" {
		return ""
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return v
}

// ReadFile reads a .csv, .tsv or .xlsx file by extension. sheet selects
// the worksheet of a workbook and is ignored otherwise.
func ReadFile(path, sheet string) (*Table, error) {
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return ReadXLSX(path, sheet)
	}
	return ReadCSVFile(path)
}

package table

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strconv"
	"strings"
)

type xlsxWorkbook struct {
	Sheets []struct {
		Name    string `xml:"name,attr"`
		SheetID int    `xml:"sheetId,attr"`
		RID     string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	} `xml:"sheets>sheet"`
}

type xlsxRels struct {
	Rels []struct {
		ID     string `xml:"Id,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

// ReadXLSX reads one worksheet of an .xlsx workbook into a table. The first
// row is the header. An empty sheet name selects the first sheet.
func ReadXLSX(p, sheet string) (*Table, error) {
	zr, err := zip.OpenReader(p)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer zr.Close()

	target, err := sheetPath(&zr.Reader, sheet, filepath.Base(p))
	if err != nil {
		return nil, err
	}
	shared, err := sharedStrings(zipEntry(&zr.Reader, "xl/sharedStrings.xml"))
	if err != nil {
		return nil, fmt.Errorf("read shared strings: %w", err)
	}
	data := zipEntry(&zr.Reader, target)
	if data == nil {
		return nil, fmt.Errorf("xlsx %s: worksheet %s not found", filepath.Base(p), target)
	}

	rows := newRowReader(data, shared)
	header, ok := rows.next()
	if !ok {
		return New(), nil
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}
	t := New(header...)
	for {
		rec, ok := rows.next()
		if !ok {
			break
		}
		row := make(Row, len(header))
		for i := range row {
			if i < len(rec) {
				row[i] = parseCell(rec[i])
			} else {
				row[i] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// sheetPath resolves a sheet name to its zip entry through the workbook
// relationships.
func sheetPath(zr *zip.Reader, sheet, file string) (string, error) {
	var wb xlsxWorkbook
	if b := zipEntry(zr, "xl/workbook.xml"); b != nil {
		if err := xml.Unmarshal(b, &wb); err != nil {
			return "", fmt.Errorf("parse workbook: %w", err)
		}
	}
	var rels xlsxRels
	if b := zipEntry(zr, "xl/_rels/workbook.xml.rels"); b != nil {
		if err := xml.Unmarshal(b, &rels); err != nil {
			return "", fmt.Errorf("parse workbook rels: %w", err)
		}
	}
	targets := make(map[string]string, len(rels.Rels))
	for _, r := range rels.Rels {
		targets[r.ID] = r.Target
	}
	if len(wb.Sheets) == 0 {
		if sheet != "" {
			return "", fmt.Errorf("sheet %q not found in workbook %s", sheet, file)
		}
		return "xl/worksheets/sheet1.xml", nil
	}
	names := make([]string, len(wb.Sheets))
	for i, s := range wb.Sheets {
		names[i] = s.Name
		if sheet == "" && i > 0 {
			continue
		}
		if sheet != "" && !strings.EqualFold(s.Name, sheet) {
			continue
		}
		if tgt, ok := targets[s.RID]; ok {
			return relPath(tgt), nil
		}
		return fmt.Sprintf("xl/worksheets/sheet%d.xml", s.SheetID), nil
	}
	return "", fmt.Errorf("sheet %q not found in workbook %s (available: %s)", sheet, file, strings.Join(names, ", "))
}

// relPath turns a relationship target into a zip entry name. Targets are
// relative to xl/ unless they start with a slash.
func relPath(rel string) string {
	if strings.HasPrefix(rel, "/") {
		return strings.TrimPrefix(rel, "/")
	}
	if strings.HasPrefix(rel, "xl/") {
		return rel
	}
	return path.Join("xl", rel)
}

func zipEntry(zr *zip.Reader, name string) []byte {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil
		}
		defer rc.Close()
		b, err := io.ReadAll(rc)
		if err != nil {
			return nil
		}
		return b
	}
	return nil
}

func sharedStrings(data []byte) ([]string, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var sst struct {
		Items []struct {
			T    string `xml:"t"`
			Runs []struct {
				T string `xml:"t"`
			} `xml:"r"`
		} `xml:"si"`
	}
	if err := xml.Unmarshal(data, &sst); err != nil {
		return nil, err
	}
	out := make([]string, len(sst.Items))
	for i, si := range sst.Items {
		if len(si.Runs) == 0 {
			out[i] = si.T
			continue
		}
		var sb strings.Builder
		for _, r := range si.Runs {
			sb.WriteString(r.T)
		}
		out[i] = sb.String()
	}
	return out, nil
}

// rowReader streams worksheet rows; sheets can be large, so it decodes one
// <row> at a time.
type rowReader struct {
	dec    *xml.Decoder
	shared []string
}

type xlsxCell struct {
	Ref    string `xml:"r,attr"`
	Type   string `xml:"t,attr"`
	Value  string `xml:"v"`
	Inline string `xml:"is>t"`
}

func newRowReader(data []byte, shared []string) *rowReader {
	return &rowReader{dec: xml.NewDecoder(bytes.NewReader(data)), shared: shared}
}

func (r *rowReader) next() ([]string, bool) {
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return nil, false
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "row" {
			continue
		}
		var row struct {
			Cells []xlsxCell `xml:"c"`
		}
		if err := r.dec.DecodeElement(&row, &se); err != nil {
			return nil, false
		}
		var out []string
		for i, c := range row.Cells {
			col := i
			if c.Ref != "" {
				col = columnIndex(c.Ref)
			}
			for len(out) <= col {
				out = append(out, "")
			}
			out[col] = r.cellText(c)
		}
		return out, true
	}
}

func (r *rowReader) cellText(c xlsxCell) string {
	switch c.Type {
	case "s":
		idx, err := strconv.Atoi(c.Value)
		if err != nil || idx < 0 || idx >= len(r.shared) {
			return ""
		}
		return r.shared[idx]
	case "inlineStr":
		return c.Inline
	}
	return c.Value
}

// columnIndex maps a cell reference like "C12" to its 0-based column.
func columnIndex(ref string) int {
	idx := 0
	for i := 0; i < len(ref); i++ {
		c := ref[i]
		switch {
		case c >= 'A' && c <= 'Z':
			idx = idx*26 + int(c-'A'+1)
		case c >= 'a' && c <= 'z':
			idx = idx*26 + int(c-'a'+1)
		default:
			return idx - 1
		}
	}
	return idx - 1
}

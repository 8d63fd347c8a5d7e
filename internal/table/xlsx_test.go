package table

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeXLSX builds a minimal two-sheet workbook. The second sheet's
// relationship target uses an absolute path.
func writeXLSX(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "pairs.xlsx")
	f, err := os.Create(p)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	zw := zip.NewWriter(f)
	files := map[string]string{
		"xl/workbook.xml": `<?xml version="1.0" encoding="UTF-8"?>
<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
<sheets><sheet name="Pairs" sheetId="1" r:id="rId1"/><sheet name="Other" sheetId="2" r:id="rId2"/></sheets>
</workbook>`,
		"xl/_rels/workbook.xml.rels": `<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Target="worksheets/sheet1.xml"/>
<Relationship Id="rId2" Target="/xl/worksheets/sheet2.xml"/>
</Relationships>`,
		"xl/sharedStrings.xml": `<?xml version="1.0" encoding="UTF-8"?>
<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
<si><t>src</t></si><si><t>dst</t></si><si><t>n</t></si><si><t>x</t></si><si><r><t>y</t></r><r><t>z</t></r></si>
</sst>`,
		"xl/worksheets/sheet1.xml": `<?xml version="1.0" encoding="UTF-8"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>
<row r="1"><c r="A1" t="s"><v>0</v></c><c r="B1" t="s"><v>1</v></c><c r="C1" t="s"><v>2</v></c></row>
<row r="2"><c r="A2" t="s"><v>3</v></c><c r="B2" t="s"><v>4</v></c><c r="C2"><v>5</v></c></row>
<row r="3"><c r="A3" t="inlineStr"><is><t>w</t></is></c><c r="C3"><v>2.5</v></c></row>
</sheetData></worksheet>`,
		"xl/worksheets/sheet2.xml": `<?xml version="1.0" encoding="UTF-8"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>
<row r="1"><c r="A1" t="inlineStr"><is><t>only</t></is></c></row>
<row r="2"><c r="A2"><v>7</v></c></row>
</sheetData></worksheet>`,
	}
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return p
}

func TestReadXLSXFirstSheet(t *testing.T) {
	tb, err := ReadFile(writeXLSX(t), "")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if strings.Join(tb.Columns, ",") != "src,dst,n" {
		t.Fatalf("columns = %v", tb.Columns)
	}
	if tb.Len() != 2 {
		t.Fatalf("rows = %d", tb.Len())
	}
	if tb.Rows[0][0] != "x" || tb.Rows[0][1] != "yz" || tb.Rows[0][2] != 5 {
		t.Fatalf("row 0 = %v", tb.Rows[0])
	}
	// missing B3 becomes blank
	if tb.Rows[1][0] != "w" || tb.Rows[1][1] != "" || tb.Rows[1][2] != 2.5 {
		t.Fatalf("row 1 = %v", tb.Rows[1])
	}
}

func TestReadXLSXNamedSheet(t *testing.T) {
	p := writeXLSX(t)
	tb, err := ReadXLSX(p, "other")
	if err != nil {
		t.Fatalf("ReadXLSX: %v", err)
	}
	if tb.Columns[0] != "only" || tb.Rows[0][0] != 7 {
		t.Fatalf("unexpected table: %v %v", tb.Columns, tb.Rows)
	}
	if _, err := ReadXLSX(p, "missing"); err == nil || !strings.Contains(err.Error(), "available: Pairs, Other") {
		t.Fatalf("expected sheet-not-found error, got %v", err)
	}
}

func TestRelPath(t *testing.T) {
	for in, want := range map[string]string{
		"/xl/worksheets/sheet1.xml": "xl/worksheets/sheet1.xml",
		"xl/worksheets/sheet1.xml":  "xl/worksheets/sheet1.xml",
		"worksheets/sheet1.xml":     "xl/worksheets/sheet1.xml",
	} {
		if got := relPath(in); got != want {
			t.Fatalf("relPath(%q) = %q, want %q", in, got, want)
		}
	}
	if got := columnIndex("AB12"); got != 27 {
		t.Fatalf("columnIndex(AB12) = %d", got)
	}
}

package table

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func mustLoad(t *testing.T, s string) *Table {
	t.Helper()
	tbl, err := LoadBytes([]byte(s), LoadOptions{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return tbl
}

func TestLoadInfersColumnTypes(t *testing.T) {
	tbl := mustLoad(t, "id,score,name,code\n1,10.5,alice,007\n2,,bob,12\n3,-3,,x9\n")
	if tbl.NumRows() != 3 || tbl.NumCols() != 4 {
		t.Fatalf("shape = %dx%d, want 3x4", tbl.NumRows(), tbl.NumCols())
	}
	want := []ColumnType{ColumnNumeric, ColumnNumeric, ColumnText, ColumnText}
	for i, c := range tbl.Columns() {
		if c.Type != want[i] {
			t.Fatalf("column %q type = %s, want %s", c.Name, c.Type, want[i])
		}
	}
	if f, ok := tbl.Cell(0, 1).Float(); !ok || f != 10.5 {
		t.Fatalf("score[0] = %v", tbl.Cell(0, 1))
	}
	if !tbl.Cell(1, 1).IsMissing() {
		t.Fatalf("score[1] should be missing")
	}
	if !tbl.Cell(2, 2).IsMissing() {
		t.Fatalf("name[2] should be missing")
	}
	// numeric-looking text stays text once the column is text
	if s, ok := tbl.Cell(0, 3).Str(); !ok || s != "007" {
		t.Fatalf("code[0] = %#v", tbl.Cell(0, 3))
	}
}

func TestLoadNumericForms(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"42", 42, true},
		{"+7", 7, true},
		{"-0.5", -0.5, true},
		{".25", 0.25, true},
		{"3.", 3, true},
		{" 12 ", 12, true},
		{"1e3", 0, false},
		{"1,5", 0, false},
		{"1.000,0", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"0x10", 0, false},
		{"-", 0, false},
		{".", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseNumber(c.in)
		if ok != c.ok || (ok && got != c.want) {
			t.Fatalf("ParseNumber(%q) = %v, %v; want %v, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestLoadAllMissingColumnIsNumeric(t *testing.T) {
	tbl := mustLoad(t, "a,b\n1,\n2,\n")
	if tbl.Column(1).Type != ColumnNumeric {
		t.Fatalf("empty column type = %s, want numeric", tbl.Column(1).Type)
	}
	if got := tbl.MissingCounts(); got[0] != 0 || got[1] != 2 {
		t.Fatalf("missing counts = %v", got)
	}
}

func TestLoadPadsShortRows(t *testing.T) {
	tbl := mustLoad(t, "a,b,c\n1,2\n")
	if !tbl.Cell(0, 2).IsMissing() {
		t.Fatalf("padded cell should be missing, got %#v", tbl.Cell(0, 2))
	}
}

func TestLoadDuplicateHeaderNamesKept(t *testing.T) {
	tbl := mustLoad(t, "x,x\n1,hello\n")
	cols := tbl.Columns()
	if cols[0].Name != "x" || cols[1].Name != "x" {
		t.Fatalf("columns = %#v", cols)
	}
	if cols[0].Type != ColumnNumeric || cols[1].Type != ColumnText {
		t.Fatalf("types = %s,%s", cols[0].Type, cols[1].Type)
	}
	if tbl.ColumnIndex("x") != 0 {
		t.Fatalf("ColumnIndex should return first occurrence")
	}
}

func TestLoadParseErrors(t *testing.T) {
	cases := []struct {
		name   string
		in     string
		target error
	}{
		{"empty input", "", ErrNoColumns},
		{"blank lines only", "\n\n", ErrNoColumns},
		{"ragged row", "a,b\n1,2,3\n", ErrRaggedRow},
		{"unterminated quote", "a,b\n\"1,2\n", nil},
		{"bare quote", "a,b\n1,x\"y\n", nil},
	}
	for _, c := range cases {
		_, err := LoadBytes([]byte(c.in), LoadOptions{})
		if err == nil {
			t.Fatalf("%s: expected error", c.name)
		}
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Fatalf("%s: error %T is not *ParseError", c.name, err)
		}
		if c.target != nil && !errors.Is(err, c.target) {
			t.Fatalf("%s: error %v does not wrap %v", c.name, err, c.target)
		}
	}
}

func TestLoadRaggedRowReportsLine(t *testing.T) {
	_, err := LoadBytes([]byte("a,b\n1,2\n3,4,5\n"), LoadOptions{})
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if pe.Line != 3 {
		t.Fatalf("line = %d, want 3", pe.Line)
	}
}

func TestLoadStripsBOM(t *testing.T) {
	tbl := mustLoad(t, "\ufeffid,v\n1,2\n")
	if tbl.Column(0).Name != "id" {
		t.Fatalf("first column = %q", tbl.Column(0).Name)
	}
}

func TestLoadTabDelimiter(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "data.tsv")
	if err := os.WriteFile(p, []byte("a\tb\n1\thello, world\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tbl, err := LoadFile(p, LoadOptions{Comma: SniffDelimiter(p)})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s, _ := tbl.Cell(0, 1).Str(); s != "hello, world" {
		t.Fatalf("cell = %q", s)
	}
}

func TestExportRoundTrip(t *testing.T) {
	in := "id,price,label,note\n1,9.99,\"a, b\",\n2,,\"quote \"\"q\"\"\",x\n3,-0.5,plain,\n"
	tbl := mustLoad(t, in)
	b, err := Marshal(tbl, LoadOptions{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	back, err := LoadBytes(b, LoadOptions{})
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !tbl.Equal(back) {
		t.Fatalf("round trip mismatch:\n%s", string(b))
	}
	if !strings.HasPrefix(string(b), "id,price,label,note\n1,9.99,\"a, b\",\n") {
		t.Fatalf("unexpected export:\n%s", string(b))
	}
}

func TestExportSingleColumnMissingRow(t *testing.T) {
	tbl, err := New([]Column{{Name: "v", Type: ColumnNumeric}}, [][]Value{{Number(1)}, {Missing()}, {Number(3)}})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	b, err := Marshal(tbl, LoadOptions{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	back, err := LoadBytes(b, LoadOptions{})
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if back.NumRows() != 3 || !back.Cell(1, 0).IsMissing() {
		t.Fatalf("missing row lost:\n%s", string(b))
	}
}

func TestFormatNumber(t *testing.T) {
	cases := map[float64]string{
		0:         "0",
		20:        "20",
		25.5:      "25.5",
		-3:        "-3",
		1e21:      "1000000000000000000000",
		0.0000001: "0.0000001",
	}
	for in, want := range cases {
		if got := FormatNumber(in); got != want {
			t.Fatalf("FormatNumber(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestWriteFileAtomic(t *testing.T) {
	tbl := mustLoad(t, "a\n1\n")
	p := filepath.Join(t.TempDir(), DefaultExportName)
	if err := WriteFile(p, tbl, LoadOptions{}); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "a\n1\n" {
		t.Fatalf("content = %q", string(b))
	}
}

func TestNewRejectsBadShape(t *testing.T) {
	if _, err := New(nil, nil); !errors.Is(err, ErrNoColumns) {
		t.Fatalf("expected ErrNoColumns, got %v", err)
	}
	if _, err := New([]Column{{Name: "a"}}, [][]Value{{Number(1), Number(2)}}); err == nil {
		t.Fatalf("expected shape error")
	}
}

func TestValueEqual(t *testing.T) {
	if !Missing().Equal(Missing()) {
		t.Fatalf("missing should equal missing")
	}
	if Number(0).Equal(Text("0")) {
		t.Fatalf("number and text should differ")
	}
	if !Number(2).Equal(Number(2.0)) {
		t.Fatalf("numeric equality")
	}
	if Missing().Equal(Text("")) {
		t.Fatalf("missing should not equal empty text")
	}
}

func TestDescribeMarkdown(t *testing.T) {
	tb, err := LoadBytes([]byte("name,score\nann,10\nbob,\nann,30\n"), LoadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	s := Describe(tb, "people.csv", 2)
	if s.Rows != 3 || len(s.Samples) != 2 {
		t.Fatalf("rows=%d samples=%d", s.Rows, len(s.Samples))
	}
	score := s.Cols[1]
	if score.Missing != 1 || score.Min != 10 || score.Max != 30 || score.Mean != 20 {
		t.Fatalf("score stats: %+v", score)
	}
	if s.Cols[0].Unique != 2 {
		t.Fatalf("name unique = %d", s.Cols[0].Unique)
	}
	md := s.Markdown()
	for _, want := range []string{"[DATASET SUMMARY]", "File: people.csv", "- score: numeric (non-null 2, missing 1, 33.3%)", "[HEAD AND SAMPLE ROWS]", "| ann | 10 |"} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestExportSingleColumnEmptyHeader(t *testing.T) {
	tbl, err := New([]Column{{Name: "", Type: ColumnNumeric}}, [][]Value{{Number(1)}, {Number(2)}})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	b, err := Marshal(tbl, LoadOptions{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "\"\"\n1\n2\n" {
		t.Fatalf("export = %q", string(b))
	}
	back, err := LoadBytes(b, LoadOptions{})
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !tbl.Equal(back) {
		t.Fatalf("reload has %d rows, header %q", back.NumRows(), back.Column(0).Name)
	}
}

func TestLoadWhitespaceOnlyFieldIsMissing(t *testing.T) {
	tbl := mustLoad(t, "a,b\n1, \n  ,x\n\" \",y\n")
	if tbl.Column(0).Type != ColumnNumeric {
		t.Fatalf("a should stay numeric, got %s", tbl.Column(0).Type)
	}
	for _, rc := range [][2]int{{0, 1}, {1, 0}, {2, 0}} {
		if !tbl.Cell(rc[0], rc[1]).IsMissing() {
			t.Fatalf("cell %v = %#v, want missing", rc, tbl.Cell(rc[0], rc[1]))
		}
	}
	if got := tbl.MissingCounts(); got[0] != 2 || got[1] != 1 {
		t.Fatalf("missing counts = %v", got)
	}
}

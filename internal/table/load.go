package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrNoColumns is returned when the input has no header row.
	ErrNoColumns = errors.New("no columns")
	// ErrRaggedRow is returned when a record has more fields than the header.
	ErrRaggedRow = errors.New("record has more fields than header")
)

// ParseError reports malformed delimited input.
type ParseError struct {
	// Line is the 1-based input line where the problem was found; 0 when unknown.
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error on line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("parse error: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// LoadOptions controls the delimited-text dialect.
type LoadOptions struct {
	// Comma is the field delimiter. If 0, ',' is used.
	Comma rune
}

func (o LoadOptions) comma() rune {
	if o.Comma == 0 {
		return ','
	}
	return o.Comma
}

// numericRe accepts an optional sign, digits and an optional decimal point.
// Exponents, thousands separators and locale decimal commas are rejected.
var numericRe = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

// ParseNumber parses s as a locale-independent integer or decimal.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !numericRe.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// isMissing reports whether a raw field maps to the missing marker.
func isMissing(s string) bool { return strings.TrimSpace(s) == "" }

// Load parses delimited text with a header row into a Table. Empty fields
// become missing. Column types are inferred after all rows are read: a column
// is numeric when every non-missing field parses as a number, otherwise every
// field of the column is kept as text.
func Load(r io.Reader, opt LoadOptions) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = opt.comma()
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Err: ErrNoColumns}
		}
		return nil, wrapCSVError(err)
	}
	ncol := len(header)
	if ncol == 0 {
		return nil, &ParseError{Line: 1, Err: ErrNoColumns}
	}
	cols := make([]Column, ncol)
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		cols[i] = Column{Name: h}
	}

	var raw [][]string
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, wrapCSVError(err)
		}
		if len(rec) > ncol {
			line, _ := cr.FieldPos(0)
			return nil, &ParseError{Line: line, Err: fmt.Errorf("%w: got %d fields, header has %d", ErrRaggedRow, len(rec), ncol)}
		}
		if len(rec) < ncol {
			// pad short records with missing cells
			tmp := make([]string, ncol)
			copy(tmp, rec)
			rec = tmp
		}
		raw = append(raw, rec)
	}

	rows := make([][]Value, len(raw))
	for i := range rows {
		rows[i] = make([]Value, ncol)
	}
	for j := range cols {
		cols[j].Type = inferColumn(raw, j)
		for i, rec := range raw {
			s := rec[j]
			switch {
			case isMissing(s):
				rows[i][j] = Missing()
			case cols[j].Type == ColumnNumeric:
				f, _ := ParseNumber(s)
				rows[i][j] = Number(f)
			default:
				rows[i][j] = Text(s)
			}
		}
	}
	return New(cols, rows)
}

// inferColumn decides the type of column j. A column with no non-missing
// fields is numeric.
func inferColumn(raw [][]string, j int) ColumnType {
	for _, rec := range raw {
		s := rec[j]
		if isMissing(s) {
			continue
		}
		if _, ok := ParseNumber(s); !ok {
			return ColumnText
		}
	}
	return ColumnNumeric
}

// LoadBytes is Load over an in-memory buffer.
func LoadBytes(b []byte, opt LoadOptions) (*Table, error) {
	return Load(bytes.NewReader(b), opt)
}

// LoadFile opens path and loads it.
func LoadFile(path string, opt LoadOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return Load(f, opt)
}

// SniffDelimiter picks a delimiter from the file name: tab for .tsv, comma
// otherwise.
func SniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}

func wrapCSVError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Line: pe.Line, Err: pe.Err}
	}
	return &ParseError{Err: err}
}

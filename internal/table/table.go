// Package table holds the immutable tabular data model along with the
// delimited-text loader and exporter.
package table

import (
	"fmt"
	"math"
	"strconv"
)

// Kind tags the payload of a single cell.
type Kind int

const (
	// KindMissing marks an absent observation. It is distinct from zero and
	// from the empty string.
	KindMissing Kind = iota
	KindNumber
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is a single cell. The zero Value is missing.
type Value struct {
	kind Kind
	num  float64
	text string
}

// Missing returns the missing marker.
func Missing() Value { return Value{} }

// Number returns a numeric cell.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Text returns a text cell.
func Text(s string) Value { return Value{kind: KindText, text: s} }

func (v Value) Kind() Kind      { return v.kind }
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// Float returns the numeric payload; ok is false for non-numeric cells.
func (v Value) Float() (f float64, ok bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Str returns the text payload; ok is false for non-text cells.
func (v Value) Str() (s string, ok bool) {
	if v.kind != KindText {
		return "", false
	}
	return v.text, true
}

// Equal reports whether two cells hold the same kind and payload.
// Missing equals missing; numbers compare numerically.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == o.num
	case KindText:
		return v.text == o.text
	default:
		return true
	}
}

// String renders the cell the way it is exported: missing is empty and
// numbers use the shortest plain decimal form that parses back exactly.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return FormatNumber(v.num)
	case KindText:
		return v.text
	default:
		return ""
	}
}

// FormatNumber renders f without an exponent so the loader reads it back as
// the same number.
func FormatNumber(f float64) string {
	if f == 0 {
		// normalizes -0
		return "0"
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ColumnType is the inferred type of a column, decided once at load time.
type ColumnType int

const (
	ColumnNumeric ColumnType = iota
	ColumnText
)

func (t ColumnType) String() string {
	if t == ColumnNumeric {
		return "numeric"
	}
	return "text"
}

// Column describes one column of a Table.
type Column struct {
	Name string
	Type ColumnType
}

// Table is an ordered set of columns and an ordered set of rows. Every row
// has exactly one cell per column. A Table is never modified after New
// returns it; transformations build new tables.
type Table struct {
	cols []Column
	rows [][]Value
}

// New builds a Table from columns and rows. New takes ownership of rows:
// callers must not modify them afterwards.
func New(cols []Column, rows [][]Value) (*Table, error) {
	if len(cols) == 0 {
		return nil, ErrNoColumns
	}
	for i, r := range rows {
		if len(r) != len(cols) {
			return nil, fmt.Errorf("row %d has %d cells, want %d", i, len(r), len(cols))
		}
	}
	c := make([]Column, len(cols))
	copy(c, cols)
	return &Table{cols: c, rows: rows}, nil
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return len(t.rows) }

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.cols) }

// Columns returns a copy of the column list.
func (t *Table) Columns() []Column {
	out := make([]Column, len(t.cols))
	copy(out, t.cols)
	return out
}

// Column returns the column at index i.
func (t *Table) Column(i int) Column { return t.cols[i] }

// ColumnIndex returns the index of the first column named name, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.cols {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at (row, col).
func (t *Table) Cell(row, col int) Value { return t.rows[row][col] }

// Row returns a copy of row i.
func (t *Table) Row(i int) []Value {
	out := make([]Value, len(t.rows[i]))
	copy(out, t.rows[i])
	return out
}

// MissingCounts returns the number of missing cells per column, in column order.
func (t *Table) MissingCounts() []int {
	out := make([]int, len(t.cols))
	for _, r := range t.rows {
		for j, v := range r {
			if v.IsMissing() {
				out[j]++
			}
		}
	}
	return out
}

// Equal reports whether two tables have the same columns and the same cells
// in the same order.
func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}
	if len(t.cols) != len(o.cols) || len(t.rows) != len(o.rows) {
		return false
	}
	for i := range t.cols {
		if t.cols[i] != o.cols[i] {
			return false
		}
	}
	for i := range t.rows {
		for j := range t.rows[i] {
			if !t.rows[i][j].Equal(o.rows[i][j]) {
				return false
			}
		}
	}
	return true
}

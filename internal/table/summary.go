package table

import (
	"fmt"
	"math"
	"strings"
)

// Summary is a markdown-friendly description of a loaded table.
type Summary struct {
	Name    string
	Rows    int
	Cols    []ColumnSummary
	Samples [][]string
}

// ColumnSummary captures the inferred type and basic statistics per column.
type ColumnSummary struct {
	Name    string
	Type    ColumnType
	NonNull int
	Missing int
	// Numeric stats over non-missing cells; zero when NonNull is 0.
	Min  float64
	Max  float64
	Mean float64
	// Text columns: distinct non-missing values.
	Unique int
}

// Describe summarizes t. sampleRows limits the head rows kept; <= 0 means 5.
func Describe(t *Table, name string, sampleRows int) *Summary {
	if sampleRows <= 0 {
		sampleRows = 5
	}
	s := &Summary{Name: name, Rows: t.NumRows()}
	s.Cols = make([]ColumnSummary, t.NumCols())
	for j, c := range t.cols {
		cs := ColumnSummary{Name: c.Name, Type: c.Type, Min: math.Inf(1), Max: math.Inf(-1)}
		var sum float64
		var n int
		seen := map[string]struct{}{}
		for _, r := range t.rows {
			v := r[j]
			if v.IsMissing() {
				cs.Missing++
				continue
			}
			cs.NonNull++
			if f, ok := v.Float(); ok {
				n++
				sum += f
				if f < cs.Min {
					cs.Min = f
				}
				if f > cs.Max {
					cs.Max = f
				}
			}
			if c.Type == ColumnText {
				seen[v.String()] = struct{}{}
			}
		}
		if n > 0 {
			cs.Mean = sum / float64(n)
		} else {
			cs.Min, cs.Max = 0, 0
		}
		cs.Unique = len(seen)
		s.Cols[j] = cs
	}
	for i := 0; i < t.NumRows() && i < sampleRows; i++ {
		row := make([]string, t.NumCols())
		for j, v := range t.rows[i] {
			row[j] = v.String()
		}
		s.Samples = append(s.Samples, row)
	}
	return s
}

// Markdown renders a compact summary suitable for terminals or docs.
func (s *Summary) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if s.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", s.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", s.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(s.Cols)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range s.Cols {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %d, %.1f%%)", safeName(c.Name), c.Type, c.NonNull, c.Missing, missPct))
		switch {
		case c.Type == ColumnNumeric && c.NonNull > 0:
			b.WriteString(fmt.Sprintf("; min %.4g, max %.4g, mean %.4g", c.Min, c.Max, c.Mean))
		case c.Type == ColumnText:
			b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
		}
		b.WriteString("\n")
	}
	if len(s.Samples) > 0 {
		b.WriteString("\n[HEAD AND SAMPLE ROWS]\n")
		b.WriteString("| ")
		for i, c := range s.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(safeName(c.Name))
		}
		b.WriteString(" |\n| ")
		for i := range s.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString("---")
		}
		b.WriteString(" |\n")
		for _, row := range s.Samples {
			b.WriteString("| ")
			for i, val := range row {
				if i > 0 {
					b.WriteString(" | ")
				}
				if len(val) > 80 {
					val = val[:77] + "..."
				}
				b.WriteString(safeVal(val))
			}
			b.WriteString(" |\n")
		}
	}
	return b.String()
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }

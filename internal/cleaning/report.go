package cleaning

import (
	"fmt"
	"strings"

	"github.com/ValentinaAkpan/Datacleaner/internal/table"
)

// Status is the terminal state of a cleaning run.
type Status string

const (
	StatusCompleted Status = "Completed"
	// StatusAborted means DropRows would have emptied the table and
	// AllowEmptyResult was false. It is a warning, not an error.
	StatusAborted Status = "Aborted: would-empty-result"
)

// ColumnCount is a per-column missing-cell count.
type ColumnCount struct {
	Column  string `json:"column" yaml:"column"`
	Missing int    `json:"missing" yaml:"missing"`
}

// FillValue records the value written into a column's missing cells.
type FillValue struct {
	Column string  `json:"column" yaml:"column"`
	Value  float64 `json:"value" yaml:"value"`
	Cells  int     `json:"cells" yaml:"cells"`
}

// Report describes a single run. It is not carried across runs.
type Report struct {
	Status   Status   `json:"status" yaml:"status"`
	Strategy Strategy `json:"strategy" yaml:"strategy"`

	RowsIn                int `json:"rows_in" yaml:"rows_in"`
	RowsOut               int `json:"rows_out" yaml:"rows_out"`
	DuplicatesRemoved     int `json:"duplicates_removed" yaml:"duplicates_removed"`
	RowsDroppedForMissing int `json:"rows_dropped_for_missing" yaml:"rows_dropped_for_missing"`

	// MissingBefore is counted on the table entering the missing-value step.
	MissingBefore []ColumnCount `json:"missing_before" yaml:"missing_before"`
	// MissingAfter is nil when DropRows aborted.
	MissingAfter []ColumnCount `json:"missing_after,omitempty" yaml:"missing_after,omitempty"`

	// Fills lists mean/median/zero fill values per column that received one.
	Fills []FillValue `json:"fills,omitempty" yaml:"fills,omitempty"`
	// Unfilled names numeric columns whose mean/median was undefined.
	Unfilled []string `json:"unfilled,omitempty" yaml:"unfilled,omitempty"`
	Notes    []string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Aborted reports whether the DropRows guard fired.
func (r *Report) Aborted() bool { return r.Status == StatusAborted }

// MissingTotal sums a per-column count list.
func MissingTotal(counts []ColumnCount) int {
	n := 0
	for _, c := range counts {
		n += c.Missing
	}
	return n
}

// Markdown renders the report. Per-column counts, fill values and notes are
// only included when verbose is set.
func (r *Report) Markdown(verbose bool) string {
	var b strings.Builder
	b.WriteString("[CLEANING SUMMARY]\n")
	b.WriteString(fmt.Sprintf("Status: %s\n", r.Status))
	b.WriteString(fmt.Sprintf("Strategy: %s\n", r.Strategy))
	b.WriteString(fmt.Sprintf("Rows: %d -> %d\n", r.RowsIn, r.RowsOut))
	b.WriteString(fmt.Sprintf("Duplicates removed: %d\n", r.DuplicatesRemoved))
	b.WriteString(fmt.Sprintf("Rows dropped for missing values: %d\n", r.RowsDroppedForMissing))
	if r.Aborted() {
		b.WriteString("⚠ Every remaining row has a missing value; drop skipped to avoid an empty result (allow it with --allow-empty)\n")
	}
	if !verbose {
		return b.String()
	}

	b.WriteString("\n[MISSING VALUES]\n")
	for i, c := range r.MissingBefore {
		name := c.Column
		if strings.TrimSpace(name) == "" {
			name = "(unnamed)"
		}
		if i < len(r.MissingAfter) {
			b.WriteString(fmt.Sprintf("- %s: %d -> %d\n", name, c.Missing, r.MissingAfter[i].Missing))
		} else {
			b.WriteString(fmt.Sprintf("- %s: %d (not recounted)\n", name, c.Missing))
		}
	}
	if len(r.Fills) > 0 {
		b.WriteString("\n[FILL VALUES]\n")
		for _, f := range r.Fills {
			b.WriteString(fmt.Sprintf("- %s: %s (%d cells)\n", f.Column, table.FormatNumber(f.Value), f.Cells))
		}
	}
	if len(r.Notes) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, n := range r.Notes {
			b.WriteString("- ")
			b.WriteString(n)
			b.WriteString("\n")
		}
	}
	return b.String()
}

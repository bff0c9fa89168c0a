package cleaning

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ValentinaAkpan/Datacleaner/internal/table"
)

// Clean runs the fixed pipeline (duplicate removal, then missing-value
// handling) over t and returns a new table plus a report of the run.
//
// Clean never modifies t, so concurrent calls over the same table are safe.
// The same inputs always yield the same table and report. A DropRows run that
// would empty the table without AllowEmptyResult is not an error: the report
// status is StatusAborted and the table reflects only duplicate removal.
func Clean(t *table.Table, cfg Config) (*table.Table, *Report, error) {
	if t == nil {
		return nil, nil, errors.New("clean: nil table")
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	cols := t.Columns()
	rows := make([][]table.Value, t.NumRows())
	for i := range rows {
		rows[i] = t.Row(i)
	}
	rep := &Report{Status: StatusCompleted, Strategy: cfg.MissingStrategy, RowsIn: len(rows)}

	if cfg.RemoveDuplicates {
		rows = dropDuplicates(rows)
		rep.DuplicatesRemoved = rep.RowsIn - len(rows)
	}

	rep.MissingBefore = countMissing(cols, rows)
	var err error
	switch cfg.MissingStrategy {
	case StrategyNone:
	case StrategyFillZero:
		rows = fillZero(cols, rows, rep)
	case StrategyFillMean:
		rows, err = fillStat(cols, rows, rep, "mean", mean)
	case StrategyFillMedian:
		rows, err = fillStat(cols, rows, rep, "median", median)
	case StrategyDropRows:
		rows = dropMissing(rows, cfg.AllowEmptyResult, rep)
	}
	if err != nil {
		return nil, nil, err
	}
	if !rep.Aborted() {
		rep.MissingAfter = countMissing(cols, rows)
	}
	rep.RowsOut = len(rows)

	out, err := table.New(cols, rows)
	if err != nil {
		return nil, nil, fmt.Errorf("build cleaned table: %w", err)
	}
	return out, rep, nil
}

// dropDuplicates keeps the first occurrence of each distinct row in order.
func dropDuplicates(rows [][]table.Value) [][]table.Value {
	seen := make(map[string]struct{}, len(rows))
	out := make([][]table.Value, 0, len(rows))
	var b strings.Builder
	for _, r := range rows {
		k := rowKey(r, &b)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}

// rowKey encodes a row so that two rows share a key exactly when every cell
// is Equal. Each cell token is self-delimiting.
func rowKey(r []table.Value, b *strings.Builder) string {
	b.Reset()
	for _, v := range r {
		switch v.Kind() {
		case table.KindNumber:
			f, _ := v.Float()
			if f == 0 {
				f = 0 // -0 == 0
			}
			b.WriteByte('n')
			b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
		case table.KindText:
			s, _ := v.Str()
			b.WriteByte('t')
			b.WriteString(strconv.Itoa(len(s)))
			b.WriteByte(':')
			b.WriteString(s)
		default:
			b.WriteByte('m')
		}
		b.WriteByte('|')
	}
	return b.String()
}

func countMissing(cols []table.Column, rows [][]table.Value) []ColumnCount {
	out := make([]ColumnCount, len(cols))
	for j, c := range cols {
		out[j].Column = c.Name
	}
	for _, r := range rows {
		for j, v := range r {
			if v.IsMissing() {
				out[j].Missing++
			}
		}
	}
	return out
}

// fillZero writes numeric 0 into every missing cell, text columns included.
// Text columns end up holding mixed kinds; their type stays text.
func fillZero(cols []table.Column, rows [][]table.Value, rep *Report) [][]table.Value {
	cells := make([]int, len(cols))
	for _, r := range rows {
		for j, v := range r {
			if v.IsMissing() {
				r[j] = table.Number(0)
				cells[j]++
			}
		}
	}
	for j, c := range cols {
		if cells[j] == 0 {
			continue
		}
		rep.Fills = append(rep.Fills, FillValue{Column: c.Name, Value: 0, Cells: cells[j]})
		if c.Type == table.ColumnText {
			rep.Notes = append(rep.Notes, fmt.Sprintf("text column %q received numeric 0 in %d cells", c.Name, cells[j]))
		}
	}
	return rows
}

// fillStat fills missing cells of numeric columns with stat(non-missing values).
// Text columns are left alone. A numeric column with no non-missing values
// keeps its missing cells and is listed in rep.Unfilled.
func fillStat(cols []table.Column, rows [][]table.Value, rep *Report, label string, stat func([]float64) float64) ([][]table.Value, error) {
	for j, c := range cols {
		if c.Type != table.ColumnNumeric {
			continue
		}
		var vals []float64
		var holes []int
		for i, r := range rows {
			v := r[j]
			if v.IsMissing() {
				holes = append(holes, i)
				continue
			}
			f, ok := v.Float()
			if !ok {
				return nil, &ComputationError{Stage: StageMissingValues, Column: c.Name, Row: i, Err: fmt.Errorf("%w: %q", ErrNonNumeric, v.String())}
			}
			vals = append(vals, f)
		}
		if len(holes) == 0 {
			continue
		}
		if len(vals) == 0 {
			rep.Unfilled = append(rep.Unfilled, c.Name)
			rep.Notes = append(rep.Notes, fmt.Sprintf("column %q has no non-missing values; %s undefined, %d cells left missing", c.Name, label, len(holes)))
			continue
		}
		fill := stat(vals)
		for _, i := range holes {
			rows[i][j] = table.Number(fill)
		}
		rep.Fills = append(rep.Fills, FillValue{Column: c.Name, Value: fill, Cells: len(holes)})
	}
	return rows, nil
}

// mean is a running mean so that large finite inputs cannot overflow a sum.
func mean(vals []float64) float64 {
	var m float64
	for i, v := range vals {
		m += (v - m) / float64(i+1)
	}
	return m
}

// median of vals; for an even count, the mean of the two middle values.
func median(vals []float64) float64 {
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	n := len(cp)
	if n%2 == 1 {
		return cp[n/2]
	}
	return (cp[n/2-1] + cp[n/2]) / 2
}

// dropMissing removes rows holding any missing cell unless that would remove
// every row and allowEmpty is false, in which case rows are returned as-is and
// the report is marked aborted.
func dropMissing(rows [][]table.Value, allowEmpty bool, rep *Report) [][]table.Value {
	withMissing := 0
	for _, r := range rows {
		if hasMissing(r) {
			withMissing++
		}
	}
	if withMissing == len(rows) && !allowEmpty {
		rep.Status = StatusAborted
		rep.Notes = append(rep.Notes, fmt.Sprintf("dropping rows with missing values would leave 0 of %d rows; drop skipped", len(rows)))
		return rows
	}
	out := make([][]table.Value, 0, len(rows)-withMissing)
	for _, r := range rows {
		if !hasMissing(r) {
			out = append(out, r)
		}
	}
	rep.RowsDroppedForMissing = withMissing
	return out
}

func hasMissing(r []table.Value) bool {
	for _, v := range r {
		if v.IsMissing() {
			return true
		}
	}
	return false
}

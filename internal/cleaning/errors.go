package cleaning

import (
	"errors"
	"fmt"
)

// Stage names one pipeline step.
type Stage string

const (
	StageDuplicates    Stage = "duplicates"
	StageMissingValues Stage = "missing-values"
)

// ErrNonNumeric marks a non-numeric cell found in a column typed numeric.
var ErrNonNumeric = errors.New("non-numeric value in numeric column")

// ComputationError reports a violated table invariant during a stage. The
// run produces no table; callers keep whatever they had before.
type ComputationError struct {
	Stage  Stage
	Column string
	// Row is the 0-based row index within the table entering the stage.
	Row int
	Err error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("%s stage: column %q row %d: %v", e.Stage, e.Column, e.Row, e.Err)
}

func (e *ComputationError) Unwrap() error { return e.Err }

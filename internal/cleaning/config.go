// Package cleaning applies the duplicate-removal and missing-value pipeline to
// a loaded table and reports what changed.
package cleaning

import (
	"errors"
	"fmt"
	"strings"
)

// Strategy selects how missing cells are handled.
type Strategy int

const (
	StrategyNone Strategy = iota
	StrategyFillZero
	StrategyFillMean
	StrategyFillMedian
	StrategyDropRows
)

// ErrUnknownStrategy is returned by ParseStrategy for unrecognized names.
var ErrUnknownStrategy = errors.New("unknown missing-value strategy")

var strategyNames = map[Strategy]string{
	StrategyNone:       "none",
	StrategyFillZero:   "fill-zero",
	StrategyFillMean:   "fill-mean",
	StrategyFillMedian: "fill-median",
	StrategyDropRows:   "drop-rows",
}

func (s Strategy) String() string {
	if n, ok := strategyNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy accepts canonical names ("fill-mean") and the short forms
// used on the command line ("mean", "zero", "drop").
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return StrategyNone, nil
	case "zero", "fill-zero", "fillzero", "fill_zero":
		return StrategyFillZero, nil
	case "mean", "fill-mean", "fillmean", "fill_mean":
		return StrategyFillMean, nil
	case "median", "fill-median", "fillmedian", "fill_median":
		return StrategyFillMedian, nil
	case "drop", "drop-rows", "droprows", "drop_rows":
		return StrategyDropRows, nil
	default:
		return StrategyNone, fmt.Errorf("%w: %q (use none|zero|mean|median|drop)", ErrUnknownStrategy, s)
	}
}

func (s Strategy) MarshalText() ([]byte, error) {
	if _, ok := strategyNames[s]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStrategy, int(s))
	}
	return []byte(s.String()), nil
}

func (s *Strategy) UnmarshalText(b []byte) error {
	v, err := ParseStrategy(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Config is the immutable set of choices for one cleaning run.
type Config struct {
	RemoveDuplicates bool     `json:"remove_duplicates" yaml:"remove_duplicates"`
	MissingStrategy  Strategy `json:"missing_strategy" yaml:"missing_strategy"`
	// AllowEmptyResult lets DropRows remove every row.
	AllowEmptyResult bool `json:"allow_empty_result" yaml:"allow_empty_result"`
}

// Validate rejects strategies outside the closed set.
func (c Config) Validate() error {
	if _, ok := strategyNames[c.MissingStrategy]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownStrategy, int(c.MissingStrategy))
	}
	return nil
}

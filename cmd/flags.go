package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ValentinaAkpan/Datacleaner/internal/cleaning"
	"github.com/ValentinaAkpan/Datacleaner/internal/table"
	"github.com/spf13/cobra"
)

// cleanFlags are the cleaning choices shared by clean, clean-batch and
// session clean. Unset flags fall back to the loaded config.
type cleanFlags struct {
	removeDuplicates bool
	missing          string
	allowEmpty       bool
	diagnostics      bool
}

func (f *cleanFlags) register(c *cobra.Command) {
	c.Flags().BoolVar(&f.removeDuplicates, "remove-duplicates", false, "remove exact duplicate rows, keeping the first occurrence")
	c.Flags().StringVar(&f.missing, "missing", "", "missing-value strategy: none|zero|mean|median|drop (default from config)")
	c.Flags().BoolVar(&f.allowEmpty, "allow-empty", false, "allow --missing drop to remove every row")
	c.Flags().BoolVar(&f.diagnostics, "diagnostics", false, "show per-column missing counts, fill values and notes")
}

// resolve returns the cleaning config and whether diagnostics are shown.
func (f *cleanFlags) resolve(c *cobra.Command) (cleaning.Config, bool, error) {
	cc, err := cfg.CleaningConfig()
	if err != nil {
		return cleaning.Config{}, false, fmt.Errorf("config: %w", err)
	}
	verbose := cfg.ShowDiagnostics

	fl := c.Flags()
	if fl.Changed("remove-duplicates") {
		cc.RemoveDuplicates = f.removeDuplicates
	}
	if fl.Changed("missing") {
		s, err := cleaning.ParseStrategy(f.missing)
		if err != nil {
			return cleaning.Config{}, false, fmt.Errorf("--missing: %w", err)
		}
		cc.MissingStrategy = s
	}
	if fl.Changed("allow-empty") {
		cc.AllowEmptyResult = f.allowEmpty
	}
	if fl.Changed("diagnostics") {
		verbose = f.diagnostics
	}
	return cc, verbose, nil
}

// loadOptions picks the dialect for path: an explicit delimiter from flag or
// config wins, otherwise .tsv files use tabs.
func loadOptions(path string) (table.LoadOptions, error) {
	if cfg.Delimiter == "" {
		return table.LoadOptions{Comma: table.SniffDelimiter(path)}, nil
	}
	r, err := cfg.Comma()
	if err != nil {
		return table.LoadOptions{}, err
	}
	return table.LoadOptions{Comma: r}, nil
}

// expandInputs resolves globs and literal paths, dropping duplicates.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

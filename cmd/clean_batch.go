package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ValentinaAkpan/Datacleaner/internal/cleaning"
	"github.com/ValentinaAkpan/Datacleaner/internal/table"
	"github.com/ValentinaAkpan/Datacleaner/internal/utils"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	cbOpts    cleanFlags
	cbWorkers int
	cbOutDir  string
	cbQuiet   bool
)

type batchResult struct {
	source string
	dest   string
	report *cleaning.Report
}

var cleanBatchCmd = &cobra.Command{
	Use:   "clean-batch <files...>",
	Short: "Clean multiple CSV/TSV files concurrently",
	Long: `Clean-batch applies the same cleaning choices to every matched file and writes
<name>.cleaned<ext> next to each input, or into --out-dir. Any failed file fails
the whole batch.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		cc, verbose, err := cbOpts.resolve(cmd)
		if err != nil {
			return err
		}
		workers := cfg.BatchWorkers
		if cmd.Flags().Changed("workers") {
			workers = cbWorkers
		}
		if workers < 1 {
			return fmt.Errorf("--workers must be >= 1")
		}
		if cbOutDir != "" {
			if err := utils.EnsureDir(cbOutDir); err != nil {
				return fmt.Errorf("create out dir: %w", err)
			}
		}
		dests := batchDestinations(files, cbOutDir)
		if err := checkDestinations(files, dests); err != nil {
			return err
		}

		results := make([]batchResult, len(files))
		g, gctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(workers)
		for i := range files {
			i := i
			src, dest := files[i], dests[i]
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				rep, err := cleanOneFile(src, dest, cc)
				if err != nil {
					return fmt.Errorf("%s: %w", src, err)
				}
				results[i] = batchResult{source: src, dest: dest, report: rep}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return fmt.Errorf("clean batch: %w", err)
		}

		out := cmd.OutOrStdout()
		aborted := 0
		for i, r := range results {
			if r.report.Aborted() {
				aborted++
			}
			if cbQuiet {
				continue
			}
			fmt.Fprintf(out, "[%d/%d] %s: %d -> %d rows (%s)\n", i+1, len(results), filepath.Base(r.source), r.report.RowsIn, r.report.RowsOut, r.report.Status)
			if verbose {
				fmt.Fprint(out, r.report.Markdown(true))
			}
			fmt.Fprintf(out, "✓ Wrote %s\n", r.dest)
		}
		if aborted > 0 {
			fmt.Fprintf(out, "⚠ %d file(s) kept rows with missing values to avoid an empty result (allow it with --allow-empty)\n", aborted)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanBatchCmd)
	cbOpts.register(cleanBatchCmd)
	cleanBatchCmd.Flags().IntVar(&cbWorkers, "workers", 4, "files cleaned concurrently (default from config batch_workers)")
	cleanBatchCmd.Flags().StringVar(&cbOutDir, "out-dir", "", "directory for cleaned files (default: next to each input)")
	cleanBatchCmd.Flags().BoolVar(&cbQuiet, "quiet", false, "suppress per-file output")
}

func cleanOneFile(src, dest string, cc cleaning.Config) (*cleaning.Report, error) {
	opt, err := loadOptions(src)
	if err != nil {
		return nil, err
	}
	t, err := table.LoadFile(src, opt)
	if err != nil {
		return nil, err
	}
	out, rep, err := cleaning.Clean(t, cc)
	if err != nil {
		logComputationError(src, err)
		return nil, err
	}
	logReport(src, rep)
	if err := table.WriteFile(dest, out, opt); err != nil {
		return nil, fmt.Errorf("write cleaned data: %w", err)
	}
	return rep, nil
}

// batchDestinations names each output <base>.cleaned<ext>. Names that collide
// with another output or with any input get a numeric suffix, decided before
// any worker starts.
func batchDestinations(files []string, outDir string) []string {
	dests := make([]string, len(files))
	used := make(map[string]struct{}, 2*len(files))
	for _, src := range files {
		used[filepath.Clean(src)] = struct{}{}
	}
	for i, src := range files {
		dir := outDir
		if dir == "" {
			dir = filepath.Dir(src)
		}
		ext := filepath.Ext(src)
		if ext == "" {
			ext = ".csv"
		}
		base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
		dest := filepath.Join(dir, base+".cleaned"+ext)
		for idx := 2; ; idx++ {
			if _, taken := used[dest]; !taken {
				break
			}
			dest = filepath.Join(dir, fmt.Sprintf("%s__%d.cleaned%s", base, idx, ext))
		}
		used[dest] = struct{}{}
		dests[i] = dest
	}
	return dests
}

// checkDestinations catches inputs reachable under another spelling, such as
// a symlink or a relative path, that name matching cannot see.
func checkDestinations(files, dests []string) error {
	for _, dest := range dests {
		for _, src := range files {
			if sameFile(dest, src) {
				return fmt.Errorf("destination %s is also an input", dest)
			}
		}
	}
	return nil
}

package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ValentinaAkpan/Datacleaner/internal/cleaning"
	"github.com/ValentinaAkpan/Datacleaner/internal/table"
	"github.com/ValentinaAkpan/Datacleaner/internal/utils"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	cleanOpts   cleanFlags
	cleanOutput string
	cleanReport string
	cleanStdout bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean <file>",
	Short: "Clean a CSV/TSV file and write the result",
	Long: `Clean loads <file>, removes duplicate rows when requested, applies the
missing-value strategy and writes the cleaned table. By default the result is
written next to the input using the configured export name (cleaned_data.csv).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		cc, verbose, err := cleanOpts.resolve(cmd)
		if err != nil {
			return err
		}
		opt, err := loadOptions(path)
		if err != nil {
			return err
		}
		t, err := table.LoadFile(path, opt)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		out, rep, err := cleaning.Clean(t, cc)
		if err != nil {
			logComputationError(path, err)
			return err
		}
		logReport(path, rep)

		summaryTo := cmd.OutOrStdout()
		written := ""
		if cleanStdout {
			if err := table.Write(cmd.OutOrStdout(), out, opt); err != nil {
				return err
			}
			summaryTo = cmd.ErrOrStderr()
		} else {
			dest := cleanOutput
			if dest == "" {
				dest = filepath.Join(filepath.Dir(path), cfg.ExportName)
			}
			if sameFile(dest, path) {
				return fmt.Errorf("refusing to overwrite input %s; pass -o", path)
			}
			if err := table.WriteFile(dest, out, opt); err != nil {
				return fmt.Errorf("write cleaned data: %w", err)
			}
			written = dest
		}
		fmt.Fprint(summaryTo, rep.Markdown(verbose))
		if written != "" {
			fmt.Fprintf(summaryTo, "✓ Wrote cleaned data to %s\n", written)
		}

		if cleanReport != "" {
			if err := writeReport(cleanReport, rep); err != nil {
				return err
			}
			fmt.Fprintf(summaryTo, "✓ Wrote report to %s\n", cleanReport)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanOpts.register(cleanCmd)
	cleanCmd.Flags().StringVarP(&cleanOutput, "output", "o", "", "output CSV path (default: <input dir>/<export_name>)")
	cleanCmd.Flags().StringVar(&cleanReport, "report", "", "also write the cleaning report (.json, .yaml, .yml or .md)")
	cleanCmd.Flags().BoolVar(&cleanStdout, "stdout", false, "write the cleaned CSV to stdout; the summary goes to stderr")
}

// writeReport serializes rep according to the file extension.
func writeReport(path string, rep *cleaning.Report) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = utils.PrettyJSON(rep)
	case ".yaml", ".yml":
		data, err = yaml.Marshal(rep)
		if err != nil {
			err = fmt.Errorf("marshal yaml: %w", err)
		}
	case ".md":
		data = []byte(rep.Markdown(true))
	default:
		return fmt.Errorf("unsupported report format %q (use .json, .yaml or .md)", filepath.Ext(path))
	}
	if err != nil {
		return err
	}
	if err := utils.SafeWriteFile(path, data); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func logReport(source string, rep *cleaning.Report) {
	log := slog.With("source", source, "strategy", rep.Strategy.String())
	if rep.Aborted() {
		log.Warn("drop skipped: every row has a missing value", "status", rep.Status, "rows", rep.RowsOut)
		return
	}
	log.Info("cleaned",
		"status", rep.Status,
		"rows_in", rep.RowsIn,
		"rows", rep.RowsOut,
		"duplicates_removed", rep.DuplicatesRemoved,
		"rows_dropped", rep.RowsDroppedForMissing)
}

func logComputationError(source string, err error) {
	var ce *cleaning.ComputationError
	if errors.As(err, &ce) {
		slog.Error("cleaning failed", "source", source, "stage", ce.Stage, "column", ce.Column, "row", ce.Row, "error", ce.Err)
	}
}

func sameFile(a, b string) bool {
	ia, err := os.Stat(a)
	if err != nil {
		return false
	}
	ib, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ia, ib)
}

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/ValentinaAkpan/Datacleaner/internal/table"
	"github.com/spf13/cobra"
)

var inspectSampleRows int

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Show inferred column types, missing counts and sample rows",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		opt, err := loadOptions(path)
		if err != nil {
			return err
		}
		t, err := table.LoadFile(path, opt)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		fmt.Fprint(cmd.OutOrStdout(), table.Describe(t, filepath.Base(path), inspectSampleRows).Markdown())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().IntVar(&inspectSampleRows, "sample-rows", 5, "number of sample rows to include")
}

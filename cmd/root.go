package cmd

import (
	"fmt"
	"log/slog"
	"os"

	cfgpkg "github.com/ValentinaAkpan/Datacleaner/internal/config"
	"github.com/ValentinaAkpan/Datacleaner/internal/logging"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile   string
	debug     bool
	delimiter string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "datacleaner",
	Short: "DataCleaner CLI: remove duplicate rows and handle missing values in CSV files",
	Long: `DataCleaner loads a delimited text table, optionally removes exact duplicate rows,
applies one missing-value strategy (fill with zero, mean or median, or drop rows)
and writes the cleaned table back out as CSV.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.datacleaner/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&delimiter, "delimiter", "", "field delimiter: ',' | ';' | 'tab' (overrides config)")
}

func loadConfig(cmd *cobra.Command) error {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	// Apply CLI overrides if provided
	if cmd.Root().PersistentFlags().Changed("delimiter") {
		prev := c.Delimiter
		c.Delimiter = delimiter
		if _, err := c.Comma(); err != nil {
			c.Delimiter = prev
			return fmt.Errorf("--delimiter: %w", err)
		}
	}
	cfg = c

	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	logging.Setup(level, cfg.LogFormat, cmd.ErrOrStderr())
	slog.Debug("config loaded", "file", cfgFile, "sessions_dir", cfg.SessionsDir)
	return nil
}

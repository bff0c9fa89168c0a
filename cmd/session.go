package cmd

import (
	"fmt"
	"time"

	"github.com/ValentinaAkpan/Datacleaner/internal/session"
	"github.com/ValentinaAkpan/Datacleaner/internal/table"
	"github.com/ValentinaAkpan/Datacleaner/internal/utils"
	"github.com/spf13/cobra"
)

var (
	sessCleanOpts  cleanFlags
	sessExportOut  string
	sessExportStd  bool
	sessShowSample int
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Keep an uploaded table and re-run cleaning on it",
	Long: `A session stores the original table once and keeps the result of the latest
cleaning run beside it. Every run starts again from the original.`,
}

var sessionInitCmd = &cobra.Command{
	Use:   "init <name> <file>",
	Short: "Create a session from a CSV/TSV file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, src := args[0], args[1]
		dir, err := sessionDir(name)
		if err != nil {
			return err
		}
		opt, err := loadOptions(src)
		if err != nil {
			return err
		}
		s, err := session.Create(name, dir, src, opt)
		if err != nil {
			return err
		}
		t := s.Original()
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Session initialized: %s (%d rows, %d columns)\n", s.RootDir(), t.NumRows(), t.NumCols())
		return nil
	},
}

var sessionCleanCmd = &cobra.Command{
	Use:   "clean <name>",
	Short: "Clean the session's original table and keep the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession(args[0])
		if err != nil {
			return err
		}
		cc, verbose, err := sessCleanOpts.resolve(cmd)
		if err != nil {
			return err
		}
		rep, err := s.Apply(cc)
		if err != nil {
			logComputationError(s.Name, err)
			return err
		}
		if err := s.Save(); err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), rep.Markdown(verbose))
		return nil
	},
}

var sessionResetCmd = &cobra.Command{
	Use:   "reset <name>",
	Short: "Discard the cleaned table and keep the original",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession(args[0])
		if err != nil {
			return err
		}
		s.Reset()
		if err := s.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Session reset: %s\n", s.Name)
		return nil
	},
}

var sessionExportCmd = &cobra.Command{
	Use:   "export <name>",
	Short: "Write the session's cleaned table (or the original) as CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession(args[0])
		if err != nil {
			return err
		}
		if sessExportStd {
			return s.Export(cmd.OutOrStdout())
		}
		dest := sessExportOut
		if dest == "" {
			dest = cfg.ExportName
		}
		if err := s.ExportFile(dest); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d rows to %s (%s)\n", s.Cleaned().NumRows(), dest, table.ContentType)
		return nil
	},
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := session.List(cfg.SessionsDir)
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "(no sessions)")
			return nil
		}
		for _, n := range names {
			fmt.Fprintf(cmd.OutOrStdout(), "- %s\n", n)
		}
		return nil
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a session's tables and last cleaning report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Session: %s (%s)\n", s.Name, s.ID)
		fmt.Fprintf(out, "Source: %s\n", s.Source)
		fmt.Fprintf(out, "Updated: %s\n\n", s.UpdatedAt.Format(time.RFC3339))
		fmt.Fprint(out, table.Describe(s.Original(), "original", sessShowSample).Markdown())
		if !s.HasCleaned() || s.Report == nil {
			fmt.Fprintln(out, "\n(not cleaned)")
			return nil
		}
		fmt.Fprintln(out)
		fmt.Fprint(out, s.Report.Markdown(cfg.ShowDiagnostics))
		return nil
	},
}

func sessionDir(name string) (string, error) {
	if err := utils.EnsureDir(cfg.SessionsDir); err != nil {
		return "", fmt.Errorf("ensure sessions dir: %w", err)
	}
	return session.Dir(cfg.SessionsDir, name)
}

func loadSession(name string) (*session.Session, error) {
	dir, err := session.Dir(cfg.SessionsDir, name)
	if err != nil {
		return nil, err
	}
	return session.Load(dir)
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionInitCmd, sessionCleanCmd, sessionResetCmd, sessionExportCmd, sessionListCmd, sessionShowCmd)
	sessCleanOpts.register(sessionCleanCmd)
	sessionExportCmd.Flags().StringVarP(&sessExportOut, "output", "o", "", "output CSV path (default: ./<export_name>)")
	sessionExportCmd.Flags().BoolVar(&sessExportStd, "stdout", false, "write CSV to stdout")
	sessionShowCmd.Flags().IntVar(&sessShowSample, "sample-rows", 5, "number of sample rows to include")
}

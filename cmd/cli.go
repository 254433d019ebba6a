package cmd

import (
	"errors"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"vibeshield/internal/agentrules"
	"vibeshield/internal/app"
	"vibeshield/internal/version"
)

const (
	ExitClean   = 0
	ExitIssues  = 1
	ExitFailure = 2
)

// Execute runs the CLI with os.Args-style arguments (without the program name).
func Execute(args []string) error {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	return root.Execute()
}

// ExitCode maps an Execute error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitClean
	case errors.Is(err, app.ErrIssuesFound), errors.Is(err, agentrules.ErrAlreadyInstalled):
		return ExitIssues
	default:
		return ExitFailure
	}
}

// Reported reports whether err is an outcome already shown to the user rather
// than a failure main should print.
func Reported(err error) bool {
	return errors.Is(err, app.ErrIssuesFound) || errors.Is(err, agentrules.ErrAlreadyInstalled)
}

func newRootCmd() *cobra.Command {
	sf := &scanFlags{}
	root := &cobra.Command{
		Use:   "vibeshield [path]",
		Short: "Security scanner for vibe coders",
		Long: "vibeshield scans source files for hardcoded secrets, injection-prone code,\n" +
			"weak crypto and insecure configuration, and prints fix instructions an AI\n" +
			"coding agent can follow.",
		Example: "  vibeshield\n" +
			"  vibeshield scan ./src\n" +
			"  vibeshield scan . --format json --out report.json\n" +
			"  vibeshield init",
		Args:          cobra.MaximumNArgs(1),
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, sf, args)
		},
	}
	root.SetVersionTemplate(version.String() + "\n")
	sf.register(root)
	sf.registerReport(root)
	sf.registerTUI(root)

	root.AddCommand(
		newScanCmd(),
		newInitCmd(),
		newRulesCmd(),
		newWatchCmd(),
		newBadgeCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := io.WriteString(cmd.OutOrStdout(), version.String()+"\n")
			return err
		},
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func colorEnabled(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return isTerminal(w)
}

func scanRoot(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return "."
}

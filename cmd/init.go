package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"vibeshield/internal/agentrules"
	"vibeshield/internal/report"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [dir]",
		Short: "Create .cursorrules so AI agents run vibeshield before finishing a task",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			color := colorEnabled(out)
			fmt.Fprint(out, report.Banner(color))
			fmt.Fprintln(out, "Initializing vibeshield...")
			fmt.Fprintln(out)

			res, err := agentrules.Install(scanRoot(args))
			if errors.Is(err, agentrules.ErrAlreadyInstalled) {
				fmt.Fprintf(out, "✗ %s\n", err)
				return err
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ %s\n", res.Message)
			fmt.Fprintf(out, "  Path: %s\n\n", res.Path)
			fmt.Fprintln(out, "Your AI agent will now run vibeshield before completing tasks.")
			fmt.Fprintln(out, "Happy vibe coding!")
			return nil
		},
	}
}

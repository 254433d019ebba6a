package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"vibeshield/internal/app"
	"vibeshield/internal/badge"
	"vibeshield/internal/progress"
	"vibeshield/internal/safefile"
)

func newBadgeCmd() *cobra.Command {
	sf := &scanFlags{}
	var (
		shields bool
		style   string
		label   string
	)
	cmd := &cobra.Command{
		Use:   "badge [path]",
		Short: "Scan and render a grade badge (SVG or shields.io endpoint JSON)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			badgeStyle, err := badge.ParseStyle(style)
			if err != nil {
				return err
			}
			s, log, err := loadSettings(cmd, sf, args)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			opts := s.opts
			opts.Log = log
			opts.Progress = progress.NewLogSink(log)
			res, err := app.RunScan(cmd.Context(), opts)
			if err != nil {
				return err
			}

			b := badge.New(label, res.Summary.BySeverity)
			var data []byte
			if shields {
				data, err = b.ShieldsJSON()
				if err != nil {
					return err
				}
			} else {
				data = []byte(b.SVG(badgeStyle) + "\n")
			}

			if s.out == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := safefile.WriteFileAtomic(s.out, data, 0o644); err != nil {
				return fmt.Errorf("write badge %s: %w", s.out, err)
			}
			if !sf.quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "badge %s written to %s\n", b.Grade, s.out)
			}
			return nil
		},
	}
	sf.register(cmd)
	cmd.Flags().BoolVar(&shields, "shields", false, "Emit a shields.io endpoint JSON document instead of SVG")
	cmd.Flags().StringVar(&style, "style", "flat", "Badge style: flat|flat-square")
	cmd.Flags().StringVar(&label, "label", "vibeshield", "Badge label")
	return cmd
}

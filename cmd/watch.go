package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"vibeshield/internal/app"
	"vibeshield/internal/progress"
	"vibeshield/internal/report"
	"vibeshield/internal/watch"
)

func newWatchCmd() *cobra.Command {
	sf := &scanFlags{}
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Scan, then rescan whenever files change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, log, err := loadSettings(cmd, sf, args)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
			color := s.format == report.Human && s.out == "" && colorEnabled(stdout)

			opts := s.opts
			opts.Log = log
			opts.Progress = progress.NewLogSink(log)
			scanner, err := app.NewScanner(opts)
			if err != nil {
				return err
			}

			if !sf.quiet {
				fmt.Fprintf(stderr, "watching %s (ctrl+c to stop)\n", opts.Root)
			}
			return watch.Run(ctx, watch.Options{
				Root:        opts.Root,
				Debounce:    debounce,
				IgnorePaths: opts.SkipPaths,
				Log:         log,
			}, func(ctx context.Context) error {
				res, err := scanner.Scan(ctx)
				if err != nil {
					return err
				}
				if !sf.quiet {
					fmt.Fprintf(stderr, "--- scan at %s: %d issue(s) in %d file(s) ---\n",
						time.Now().Format("15:04:05"), len(res.Issues), res.Files)
				}
				return emitReport(stdout, stderr, s, true, color, res)
			})
		},
	}
	sf.register(cmd)
	sf.registerReport(cmd)
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Quiet period before a rescan")
	return cmd
}

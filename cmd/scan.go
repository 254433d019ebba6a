package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vibeshield/internal/app"
	"vibeshield/internal/config"
	"vibeshield/internal/logging"
	"vibeshield/internal/progress"
	"vibeshield/internal/report"
	"vibeshield/internal/tui"
)

type scanFlags struct {
	format       string
	out          string
	rulesFile    string
	workers      int
	maxFileBytes int64
	include      []string
	exclude      []string
	redact       bool
	tui          bool
	quiet        bool
	logLevel     string
}

// register adds the flags shared by every command that runs a scan.
func (f *scanFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.out, "out", "o", "", "Write the output to a file instead of stdout")
	fl.StringVar(&f.rulesFile, "rules", "", "YAML rule pack appended to the built-in rules")
	fl.IntVar(&f.workers, "workers", 0, "Files scanned in parallel (default number of CPUs)")
	fl.Int64Var(&f.maxFileBytes, "max-file-bytes", 0, "Skip files larger than this (default 1048576)")
	fl.StringSliceVar(&f.include, "include", nil, "Only scan paths matching these globs (repeatable or comma-separated)")
	fl.StringSliceVar(&f.exclude, "exclude", nil, "Skip paths matching these globs (repeatable or comma-separated)")
	fl.BoolVarP(&f.quiet, "quiet", "q", false, "Skip the banner and status lines")
	fl.StringVar(&f.logLevel, "log-level", "", "Log level on stderr: debug|info|warn|error (default warn)")
}

// registerReport adds the flags of commands that print a scan report.
func (f *scanFlags) registerReport(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.format, "format", "f", "", "Output format: human|agent|json|sarif|markdown (default human)")
	fl.BoolVar(&f.redact, "redact", false, "Mask matched secret text in the report")
}

func (f *scanFlags) registerTUI(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.tui, "tui", false, "Show an interactive progress view")
}

func newScanCmd() *cobra.Command {
	sf := &scanFlags{}
	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Scan a directory, file or .zip archive (default .)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, sf, args)
		},
	}
	sf.register(cmd)
	sf.registerReport(cmd)
	sf.registerTUI(cmd)
	return cmd
}

type scanSettings struct {
	format   report.Format
	out      string
	redact   bool
	logLevel string
	opts     app.ScanOptions
}

// resolveScanSettings layers explicitly set flags over the loaded config.
func resolveScanSettings(cmd *cobra.Command, f *scanFlags, args []string, cfg config.Config) (scanSettings, error) {
	changed := cmd.Flags().Changed

	s := scanSettings{
		out:      f.out,
		logLevel: cfg.LogLevel,
		opts: app.ScanOptions{
			Root:      scanRoot(args),
			RulesFile: cfg.RulesFile,
			Include:   cfg.Include,
			Exclude:   cfg.Exclude,
		},
	}
	if cfg.Workers != nil {
		s.opts.Workers = *cfg.Workers
	}
	if cfg.MaxFileBytes != nil {
		s.opts.MaxFileBytes = *cfg.MaxFileBytes
	}
	if cfg.Redact != nil {
		s.redact = *cfg.Redact
	}
	formatValue := cfg.Format

	if changed("format") {
		formatValue = f.format
	}
	if changed("rules") {
		s.opts.RulesFile = f.rulesFile
	}
	if changed("workers") {
		s.opts.Workers = f.workers
	}
	if changed("max-file-bytes") {
		s.opts.MaxFileBytes = f.maxFileBytes
	}
	if changed("include") {
		s.opts.Include = f.include
	}
	if changed("exclude") {
		s.opts.Exclude = f.exclude
	}
	if changed("redact") {
		s.redact = f.redact
	}
	if changed("log-level") {
		s.logLevel = f.logLevel
	}

	if s.out != "" {
		outAbs, err := filepath.Abs(s.out)
		if err != nil {
			return scanSettings{}, fmt.Errorf("resolve --out: %w", err)
		}
		s.opts.SkipPaths = []string{outAbs}
	}

	format, err := report.ParseFormat(formatValue)
	if err != nil {
		return scanSettings{}, err
	}
	s.format = format
	if s.opts.Workers < 0 {
		return scanSettings{}, errors.New("--workers must be >= 0")
	}
	if s.opts.MaxFileBytes < 0 {
		return scanSettings{}, errors.New("--max-file-bytes must be >= 0")
	}
	return s, nil
}

func loadSettings(cmd *cobra.Command, f *scanFlags, args []string) (scanSettings, *zap.SugaredLogger, error) {
	cfg, err := config.Load()
	if err != nil {
		return scanSettings{}, nil, err
	}
	s, err := resolveScanSettings(cmd, f, args, cfg)
	if err != nil {
		return scanSettings{}, nil, err
	}
	log, err := logging.New(s.logLevel)
	if err != nil {
		return scanSettings{}, nil, err
	}
	return s, log, nil
}

func runScan(cmd *cobra.Command, f *scanFlags, args []string) error {
	s, log, err := loadSettings(cmd, f, args)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	human := s.format == report.Human
	color := human && s.out == "" && colorEnabled(stdout)
	if human && s.out == "" && !f.quiet {
		fmt.Fprint(stdout, report.Banner(color))
		fmt.Fprintf(stdout, "Scanning %s...\n\n", s.opts.Root)
	}

	opts := s.opts
	opts.Log = log

	var res app.ScanResult
	switch {
	case f.tui && isTerminal(stdout) && isTerminal(os.Stdin):
		res, err = runScanWithTUI(ctx, opts)
	case f.tui:
		opts.Progress = progress.Multi(progress.NewLogSink(log), progress.NewPlainSink(stderr))
		res, err = app.RunScan(ctx, opts)
	default:
		opts.Progress = progress.NewLogSink(log)
		res, err = app.RunScan(ctx, opts)
	}
	if err != nil {
		return err
	}

	if err := emitReport(stdout, stderr, s, f.quiet, color, res); err != nil {
		return err
	}
	return res.Err()
}

func emitReport(stdout, stderr io.Writer, s scanSettings, quiet, color bool, res app.ScanResult) error {
	data, err := report.Render(s.format, report.Input{
		Issues:   res.Issues,
		Warnings: res.Warnings,
		Rules:    res.Rules,
	}, report.Options{Redact: s.redact, Color: color})
	if err != nil {
		return err
	}

	if s.out != "" {
		if err := report.Write(s.out, data); err != nil {
			return err
		}
		if !quiet {
			fmt.Fprintf(stderr, "report written to %s (%d issue(s))\n", s.out, len(res.Issues))
		}
		return nil
	}
	_, err = stdout.Write(data)
	return err
}

// runScanWithTUI runs the scan behind the progress view. Closing the view
// early cancels the scan.
func runScanWithTUI(ctx context.Context, opts app.ScanOptions) (app.ScanResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan progress.Event, 128)
	opts.Progress = progress.NewChannelSink(events)

	type runResult struct {
		res app.ScanResult
		err error
	}
	runDone := make(chan runResult, 1)
	go func() {
		defer close(events)
		res, err := app.RunScan(ctx, opts)
		runDone <- runResult{res: res, err: err}
	}()

	tuiErr := tui.Run(tui.Options{Events: events})
	cancel()
	go func() {
		for range events {
		}
	}()
	result := <-runDone
	if tuiErr != nil {
		return app.ScanResult{}, tuiErr
	}
	return result.res, result.err
}

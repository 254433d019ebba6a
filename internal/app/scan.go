package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"vibeshield/internal/aggregate"
	"vibeshield/internal/engine"
	"vibeshield/internal/intake"
	"vibeshield/internal/logging"
	"vibeshield/internal/model"
	"vibeshield/internal/progress"
	"vibeshield/internal/rules"
)

// ErrIssuesFound marks a scan that completed and detected at least one issue.
var ErrIssuesFound = errors.New("security issues found")

type ScanOptions struct {
	Root string
	// RulesFile is an optional rule pack appended to the built-ins.
	RulesFile string
	// Registry, when set, replaces the built-ins and RulesFile.
	Registry     *rules.Registry
	Workers      int
	MaxFileBytes int64
	Include      []string
	Exclude      []string
	// SkipPaths are files discovery never reads, such as the report output.
	SkipPaths []string
	Progress  progress.Sink
	Log       *zap.SugaredLogger
}

type ScanResult struct {
	Root            string
	Issues          []model.Issue
	Warnings        []string
	Summary         aggregate.Summary
	Rules           []rules.Rule
	Files           int
	SkippedFiles    int
	SkippedByReason map[string]int
	IncludedBytes   int64
	DurationMS      int64
}

// Err returns ErrIssuesFound when the scan detected anything.
func (r ScanResult) Err() error {
	if len(r.Issues) > 0 {
		return ErrIssuesFound
	}
	return nil
}

// Scanner holds a compiled registry so repeated scans (watch mode) pay the
// rule compilation once.
type Scanner struct {
	opts   ScanOptions
	reg    *rules.Registry
	sink   progress.Sink
	log    *zap.SugaredLogger
	engine *engine.Engine
}

// NewScanner builds the registry. Rule pack errors surface here, before any
// file is read.
func NewScanner(opts ScanOptions) (*Scanner, error) {
	log := opts.Log
	if log == nil {
		log = logging.Nop()
	}
	sink := opts.Progress
	if sink == nil {
		sink = progress.NoopSink{}
	}

	reg := opts.Registry
	if reg == nil {
		var err error
		reg, err = rules.Load(opts.RulesFile)
		if err != nil {
			return nil, fmt.Errorf("load rules: %w", err)
		}
	}
	log.Debugw("rules loaded", "count", reg.Len(), "pack", opts.RulesFile)

	s := &Scanner{opts: opts, reg: reg, sink: sink, log: log}
	s.engine = engine.New(reg,
		engine.WithWorkers(opts.Workers),
		engine.WithFileHook(func(path string, issues int) {
			sink.Emit(progress.Event{
				Type:       progress.EventFileScanned,
				Path:       path,
				IssueCount: issues,
			})
		}),
	)
	return s, nil
}

func (s *Scanner) Registry() *rules.Registry {
	return s.reg
}

// Scan discovers files under the configured root and scans them. Per-file
// problems become warnings on the result; err is only set for failures.
func (s *Scanner) Scan(ctx context.Context) (res ScanResult, err error) {
	started := time.Now().UTC()
	s.sink.Emit(progress.Event{
		Type: progress.EventScanStarted,
		At:   started,
		Root: strings.TrimSpace(s.opts.Root),
	})

	defer func() {
		status := "clean"
		errMsg := ""
		switch {
		case err != nil && errors.Is(err, context.Canceled):
			status = "canceled"
			errMsg = err.Error()
		case err != nil:
			status = "failed"
			errMsg = err.Error()
		case len(res.Issues) > 0:
			status = "issues"
		}
		res.DurationMS = time.Since(started).Milliseconds()
		s.sink.Emit(progress.Event{
			Type:       progress.EventScanFinished,
			At:         time.Now().UTC(),
			Status:     status,
			FileCount:  res.Files,
			IssueCount: len(res.Issues),
			DurationMS: res.DurationMS,
			Error:      errMsg,
		})
	}()

	collected, collectErr := intake.Collect(ctx, intake.Options{
		Root:         s.opts.Root,
		MaxFileBytes: s.opts.MaxFileBytes,
		Include:      s.opts.Include,
		Exclude:      s.opts.Exclude,
		SkipPaths:    s.opts.SkipPaths,
	})
	if collectErr != nil {
		err = fmt.Errorf("discover files: %w", collectErr)
		return
	}
	s.sink.Emit(progress.Event{
		Type:      progress.EventDiscoveryFinished,
		Root:      collected.Root,
		FileCount: len(collected.Files),
		Skipped:   collected.SkippedFiles,
	})
	s.log.Debugw("discovery finished",
		"root", collected.Root,
		"files", len(collected.Files),
		"bytes", collected.IncludedBytes,
		"skipped", collected.SkippedFiles,
		"skipped_by_reason", reasonsString(collected.SkippedByReason),
	)
	for _, w := range collected.Warnings {
		s.sink.Emit(progress.Event{Type: progress.EventScanWarning, Message: w})
	}

	scanned, scanErr := s.engine.Scan(ctx, collected.Files)
	if scanErr != nil {
		err = fmt.Errorf("scan: %w", scanErr)
		return
	}

	res = ScanResult{
		Root:            collected.Root,
		Issues:          scanned.Issues,
		Warnings:        append([]string{}, collected.Warnings...),
		Summary:         aggregate.Summarize(scanned.Issues),
		Rules:           s.reg.Rules(),
		Files:           scanned.Files,
		SkippedFiles:    collected.SkippedFiles,
		SkippedByReason: collected.SkippedByReason,
		IncludedBytes:   collected.IncludedBytes,
	}
	s.log.Infow("scan complete",
		"files", res.Files,
		"issues", res.Summary.Total,
		"critical", res.Summary.BySeverity.Critical,
		"high", res.Summary.BySeverity.High,
		"warnings", len(res.Warnings),
	)
	return
}

// RunScan builds a Scanner and runs it once.
func RunScan(ctx context.Context, opts ScanOptions) (ScanResult, error) {
	s, err := NewScanner(opts)
	if err != nil {
		return ScanResult{}, err
	}
	return s.Scan(ctx)
}

func reasonsString(m map[string]int) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, m[k]))
	}
	return strings.Join(parts, ",")
}

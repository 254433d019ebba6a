package engine

import (
	"context"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"vibeshield/internal/aggregate"
	"vibeshield/internal/model"
	"vibeshield/internal/rules"
)

// Engine applies every rule of a registry to every line of a file set.
// An Engine holds no per-scan state and is safe for concurrent use.
type Engine struct {
	reg      *rules.Registry
	rules    []rules.Rule
	workers  int
	fileHook func(path string, issues int)
}

type Option func(*Engine)

// WithWorkers bounds the number of files scanned at once. Values below one
// fall back to the number of CPUs.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// WithFileHook registers a callback run after each file is scanned. It may be
// called from several goroutines at once.
func WithFileHook(fn func(path string, issues int)) Option {
	return func(e *Engine) {
		e.fileHook = fn
	}
}

func New(reg *rules.Registry, opts ...Option) *Engine {
	e := &Engine{
		reg:   reg,
		rules: reg.Rules(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.workers < 1 {
		e.workers = runtime.NumCPU()
	}
	return e
}

func (e *Engine) Registry() *rules.Registry {
	return e.reg
}

type Result struct {
	Issues []model.Issue
	Files  int
}

// Scan scans files on a bounded worker pool and returns issues ordered by file
// path, then line, then registry order, then column. Cancellation is checked
// between files; a cancelled scan returns the context error and no issues.
func (e *Engine) Scan(ctx context.Context, files []model.SourceFile) (Result, error) {
	if len(files) == 0 {
		return Result{}, nil
	}

	perFile := make([][]model.Issue, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := range files {
		idx := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f := files[idx]
			perFile[idx] = e.ScanContent(f.Path, f.Content)
			if e.fileHook != nil {
				e.fileHook(f.Path, len(perFile[idx]))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	total := 0
	for _, issues := range perFile {
		total += len(issues)
	}
	merged := make([]model.Issue, 0, total)
	for _, issues := range perFile {
		merged = append(merged, issues...)
	}
	aggregate.Sort(merged, e.reg.Order)

	return Result{Issues: merged, Files: len(files)}, nil
}

// ScanContent scans a single file. Lines are split on \n, \r\n and lone \r
// and numbered from 1. Within a line, issues follow registry order and then
// column.
func (e *Engine) ScanContent(path, content string) []model.Issue {
	if content == "" {
		return nil
	}

	var issues []model.Issue
	for idx, line := range SplitLines(content) {
		if line == "" {
			continue
		}
		for _, rule := range e.rules {
			for _, m := range rule.FindAll(line) {
				issues = append(issues, model.Issue{
					File:        path,
					Line:        idx + 1,
					Column:      m.Offset + 1,
					RuleID:      rule.ID,
					RuleName:    rule.Name,
					Severity:    rule.Severity,
					FixPrompt:   rule.Fix,
					MatchedText: m.Text,
				})
			}
		}
	}
	return issues
}

// SplitLines splits content on \r\n, \n and lone \r. A trailing terminator
// does not produce an extra empty line.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	lines := strings.Split(content, "\n")
	if len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

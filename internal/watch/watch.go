package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"vibeshield/internal/intake"
	"vibeshield/internal/logging"
	"vibeshield/internal/safefile"
)

const DefaultDebounce = 300 * time.Millisecond

type Options struct {
	Root     string
	Debounce time.Duration
	// IgnorePaths are files whose changes never trigger a rescan, typically
	// the report the scan itself writes.
	IgnorePaths []string
	Log         *zap.SugaredLogger
}

// ScanFunc runs one full scan. Its error is logged and watching continues.
type ScanFunc func(ctx context.Context) error

// Run scans once, then rescans after each burst of file changes under Root
// until ctx is done. Scans never overlap.
func Run(ctx context.Context, opts Options, scan ScanFunc) error {
	if scan == nil {
		return errors.New("watch: scan func is required")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	log := opts.Log
	if log == nil {
		log = logging.Nop()
	}

	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return fmt.Errorf("resolve watch root: %w", err)
	}
	st, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("stat watch root: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch init failed: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// A single file is watched through its directory.
	onlyFile := ""
	if st.IsDir() {
		if err := addRecursive(watcher, root); err != nil {
			return fmt.Errorf("watch %s: %w", root, err)
		}
	} else {
		onlyFile = root
		if err := watcher.Add(filepath.Dir(root)); err != nil {
			return fmt.Errorf("watch %s: %w", root, err)
		}
	}

	ignored := make(map[string]struct{}, len(opts.IgnorePaths))
	for _, p := range opts.IgnorePaths {
		if abs, err := filepath.Abs(p); err == nil {
			ignored[abs] = struct{}{}
		}
	}

	runScan := func() {
		if err := scan(ctx); err != nil && ctx.Err() == nil {
			log.Errorw("scan failed", "error", err)
		}
	}
	runScan()

	trigger := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-trigger:
			log.Debugw("change detected, rescanning", "root", root)
			runScan()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if onlyFile != "" && ev.Name != onlyFile {
				continue
			}
			if ignoredPath(root, ev.Name) || ownWrite(ignored, ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := addRecursive(watcher, ev.Name); err != nil {
						log.Warnw("watch new directory failed", "path", ev.Name, "error", err)
					}
				}
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(opts.Debounce, func() {
				select {
				case trigger <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warnw("watch error", "error", err)
		}
	}
}

func addRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && intake.SkipDirName(d.Name()) {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

// ownWrite reports whether a change comes from writing an ignored file,
// either the file itself or its atomic-write temporary.
func ownWrite(ignored map[string]struct{}, path string) bool {
	if strings.HasPrefix(filepath.Base(path), safefile.TempPrefix) {
		return true
	}
	_, ok := ignored[filepath.Clean(path)]
	return ok
}

// ignoredPath reports whether a change lives under a directory discovery
// never descends into.
func ignoredPath(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	for _, part := range parts {
		if intake.SkipDirName(part) {
			return true
		}
	}
	return false
}

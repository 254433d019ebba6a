package intake

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"vibeshield/internal/model"
	"vibeshield/internal/safefile"
)

const DefaultMaxFileBytes int64 = 1 << 20

// sniffLen is how much of a file is checked for NUL bytes.
const sniffLen = 8000

type Options struct {
	// Root is a directory, a single file or a .zip archive.
	Root         string
	MaxFileBytes int64
	// Include, when set, keeps only paths matching one of the globs.
	Include []string
	Exclude []string
	// IgnoreFile defaults to .vibeshieldignore at the root.
	IgnoreFile string
	// SkipPaths are files never read, such as the report being written.
	SkipPaths []string
}

type Result struct {
	Root            string
	Files           []model.SourceFile
	Warnings        []string
	SkippedByReason map[string]int
	SkippedFiles    int
	IncludedBytes   int64
}

var skipDirNames = map[string]struct{}{
	".git": {}, ".hg": {}, ".svn": {}, ".vibeshield": {}, "node_modules": {}, "vendor": {}, "dist": {}, "build": {},
	".next": {}, ".nuxt": {}, "target": {}, "coverage": {}, "__pycache__": {}, ".venv": {}, "venv": {}, ".idea": {}, ".vscode": {},
}

var skipFileExts = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".ico": {}, ".svg": {}, ".webp": {}, ".pdf": {}, ".zip": {}, ".gz": {}, ".tar": {}, ".tgz": {},
	".mp3": {}, ".wav": {}, ".mp4": {}, ".mov": {}, ".avi": {}, ".woff": {}, ".woff2": {}, ".ttf": {}, ".eot": {},
	".exe": {}, ".dll": {}, ".so": {}, ".dylib": {}, ".class": {}, ".jar": {}, ".pyc": {}, ".wasm": {},
	".map": {}, ".lock": {},
}

var skipFileNames = map[string]struct{}{
	".DS_Store": {}, "package-lock.json": {}, "yarn.lock": {}, "pnpm-lock.yaml": {}, "go.sum": {},
}

// Collect discovers and reads the files to scan. Per-file problems become
// warnings; only an unusable root or bad options are errors. Files are sorted
// by path.
func Collect(ctx context.Context, opts Options) (Result, error) {
	if strings.TrimSpace(opts.Root) == "" {
		return Result{}, errors.New("scan root is required")
	}
	if opts.MaxFileBytes <= 0 {
		opts.MaxFileBytes = DefaultMaxFileBytes
	}
	if err := validateGlobs(opts.Include); err != nil {
		return Result{}, fmt.Errorf("include: %w", err)
	}
	if err := validateGlobs(opts.Exclude); err != nil {
		return Result{}, fmt.Errorf("exclude: %w", err)
	}

	rootAbs, err := filepath.Abs(opts.Root)
	if err != nil {
		return Result{}, fmt.Errorf("resolve scan root: %w", err)
	}
	st, err := os.Stat(rootAbs)
	if err != nil {
		return Result{}, fmt.Errorf("stat scan root: %w", err)
	}

	c := &collector{
		opts:      opts,
		skipPaths: absPathSet(opts.SkipPaths),
		res: Result{
			Root:            rootAbs,
			SkippedByReason: map[string]int{},
		},
	}

	switch {
	case st.IsDir():
		ignorePath := opts.IgnoreFile
		if ignorePath == "" {
			ignorePath = filepath.Join(rootAbs, IgnoreFileName)
		}
		ignore, err := LoadIgnoreFile(ignorePath)
		if err != nil {
			return Result{}, fmt.Errorf("load ignore file: %w", err)
		}
		c.ignore = ignore
		if err := c.walk(ctx, rootAbs); err != nil {
			return Result{}, err
		}
	case strings.EqualFold(filepath.Ext(rootAbs), ".zip"):
		if err := c.readZip(ctx, rootAbs); err != nil {
			return Result{}, err
		}
	default:
		// An explicitly named file skips the name and extension filters.
		c.readFile(rootAbs, filepath.ToSlash(opts.Root), st)
	}

	sort.Slice(c.res.Files, func(i, j int) bool {
		return c.res.Files[i].Path < c.res.Files[j].Path
	})
	return c.res, nil
}

type collector struct {
	opts      Options
	ignore    *IgnoreRules
	skipPaths map[string]struct{}
	res       Result
}

func (c *collector) skip(reason string) {
	c.res.SkippedByReason[reason]++
	c.res.SkippedFiles++
}

func (c *collector) warn(format string, args ...any) {
	c.res.Warnings = append(c.res.Warnings, fmt.Sprintf(format, args...))
}

func (c *collector) walk(ctx context.Context, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			rel, _ := filepath.Rel(root, path)
			c.warn("skipped %s: %v", filepath.ToSlash(rel), walkErr)
			c.skip("unreadable")
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		name := d.Name()

		if d.Type()&fs.ModeSymlink != 0 {
			c.skip("symlink")
			return nil
		}

		if d.IsDir() {
			if _, skip := skipDirNames[name]; skip {
				c.res.SkippedByReason["skip_dir"]++
				return filepath.SkipDir
			}
			if c.ignore.ShouldIgnore(rel, true) {
				c.res.SkippedByReason["ignore_file"]++
				return filepath.SkipDir
			}
			if matchesAny(c.opts.Exclude, rel) {
				c.res.SkippedByReason["exclude"]++
				return filepath.SkipDir
			}
			return nil
		}

		info, err := d.Info()
		if err != nil {
			c.warn("skipped %s: %v", rel, err)
			c.skip("unreadable")
			return nil
		}
		if !info.Mode().IsRegular() {
			c.skip("non_regular")
			return nil
		}
		if reason, skip := skipFile(name, rel); skip {
			c.skip(reason)
			return nil
		}
		if c.ignore.ShouldIgnore(rel, false) {
			c.skip("ignore_file")
			return nil
		}
		if reason, skip := c.filtered(rel); skip {
			c.skip(reason)
			return nil
		}

		if _, skip := c.skipPaths[filepath.Clean(path)]; skip {
			c.skip("output_file")
			return nil
		}

		c.readFile(path, rel, info)
		return nil
	})
}

func absPathSet(paths []string) map[string]struct{} {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			set[abs] = struct{}{}
		}
	}
	return set
}

func (c *collector) filtered(rel string) (string, bool) {
	if matchesAny(c.opts.Exclude, rel) {
		return "exclude", true
	}
	if len(c.opts.Include) > 0 && !matchesAny(c.opts.Include, rel) {
		return "not_included", true
	}
	return "", false
}

func (c *collector) readFile(path, rel string, info fs.FileInfo) {
	if info.Size() > c.opts.MaxFileBytes {
		c.warn("skipped %s: file exceeds max size (%d > %d bytes)", rel, info.Size(), c.opts.MaxFileBytes)
		c.skip("too_large")
		return
	}
	f, err := os.Open(path)
	if err != nil {
		c.warn("skipped %s: %v", rel, err)
		c.skip("unreadable")
		return
	}
	defer func() { _ = f.Close() }()
	c.add(rel, f)
}

// add reads one file body with the size cap applied, drops binaries and
// records the rest.
func (c *collector) add(rel string, r io.Reader) {
	data, err := io.ReadAll(io.LimitReader(r, c.opts.MaxFileBytes+1))
	if err != nil {
		c.warn("skipped %s: %v", rel, err)
		c.skip("unreadable")
		return
	}
	if int64(len(data)) > c.opts.MaxFileBytes {
		c.warn("skipped %s: file exceeds max size (%d bytes)", rel, c.opts.MaxFileBytes)
		c.skip("too_large")
		return
	}
	if len(data) == 0 {
		c.skip("empty")
		return
	}
	if isBinary(data) {
		c.skip("binary")
		return
	}
	c.res.Files = append(c.res.Files, model.SourceFile{Path: rel, Content: string(data)})
	c.res.IncludedBytes += int64(len(data))
}

func skipFile(name string, rel string) (reason string, skip bool) {
	if isSensitiveFileName(name) {
		return "env_file", true
	}
	if _, ok := skipFileNames[name]; ok {
		return "skip_name", true
	}
	if strings.HasPrefix(name, safefile.TempPrefix) {
		return "temp_file", true
	}
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := skipFileExts[ext]; ok {
		return "skip_ext", true
	}
	if strings.HasSuffix(strings.ToLower(name), ".min.js") {
		return "skip_ext", true
	}
	if hasSkippedDirComponent(rel) {
		return "skip_dir", true
	}
	return "", false
}

// isSensitiveFileName matches env files, the place secrets are supposed to
// live; flagging them would contradict every fix instruction.
func isSensitiveFileName(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return false
	}
	if name == ".env" || strings.HasPrefix(name, ".env.") {
		return !isEnvTemplate(name)
	}
	return false
}

// Example env files are committed on purpose and are scanned.
func isEnvTemplate(name string) bool {
	for _, suffix := range []string{".example", ".sample", ".template", ".dist"} {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

func hasSkippedDirComponent(rel string) bool {
	parts := strings.Split(filepath.ToSlash(strings.TrimSpace(rel)), "/")
	for _, part := range parts[:len(parts)-1] {
		if _, ok := skipDirNames[part]; ok {
			return true
		}
	}
	return false
}

func isBinary(data []byte) bool {
	if len(data) > sniffLen {
		data = data[:sniffLen]
	}
	return bytes.IndexByte(data, 0) >= 0
}

func validateGlobs(globs []string) error {
	for _, g := range globs {
		if !doublestar.ValidatePattern(filepath.ToSlash(g)) {
			return fmt.Errorf("invalid glob %q", g)
		}
	}
	return nil
}

// matchesAny reports whether rel matches a glob. Globs without a slash also
// match the base name, so "*.test.js" works at any depth.
func matchesAny(globs []string, rel string) bool {
	base := filepath.Base(rel)
	for _, g := range globs {
		g = filepath.ToSlash(strings.TrimSpace(g))
		if g == "" {
			continue
		}
		if ok, _ := doublestar.Match(g, rel); ok {
			return true
		}
		if !strings.Contains(g, "/") {
			if ok, _ := doublestar.Match(g, base); ok {
				return true
			}
		}
	}
	return false
}

// SkipDirName reports whether directories with this name are never scanned.
func SkipDirName(name string) bool {
	_, ok := skipDirNames[name]
	return ok
}

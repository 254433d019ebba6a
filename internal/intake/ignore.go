package intake

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const IgnoreFileName = ".vibeshieldignore"

// IgnoreRules holds gitignore-style patterns from a .vibeshieldignore file.
type IgnoreRules struct {
	patterns []ignorePattern
}

type ignorePattern struct {
	negated  bool
	dirOnly  bool
	glob     string
	original string
}

// LoadIgnoreFile reads and parses an ignore file. A missing file yields nil
// rules and no error.
func LoadIgnoreFile(path string) (*IgnoreRules, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return ParseIgnorePatterns(lines), nil
}

// ParseIgnorePatterns parses gitignore-style lines. Patterns doublestar cannot
// parse are dropped.
func ParseIgnorePatterns(lines []string) *IgnoreRules {
	rules := &IgnoreRules{}
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		p := ignorePattern{original: line}

		if strings.HasPrefix(line, "!") {
			p.negated = true
			line = line[1:]
		}
		if strings.HasSuffix(line, "/") {
			p.dirOnly = true
			line = strings.TrimSuffix(line, "/")
		}

		p.glob = toDoublestar(line)
		if p.glob == "" || !doublestar.ValidatePattern(p.glob) {
			continue
		}
		rules.patterns = append(rules.patterns, p)
	}
	return rules
}

// ShouldIgnore reports whether relPath is excluded. The last matching pattern
// wins. A nil receiver ignores nothing.
func (r *IgnoreRules) ShouldIgnore(relPath string, isDir bool) bool {
	if r == nil || len(r.patterns) == 0 {
		return false
	}
	relPath = filepath.ToSlash(strings.TrimSpace(relPath))
	if relPath == "" {
		return false
	}

	ignored := false
	for _, p := range r.patterns {
		if p.dirOnly && !isDir {
			continue
		}
		if ok, _ := doublestar.Match(p.glob, relPath); ok {
			ignored = !p.negated
		}
	}
	return ignored
}

func (r *IgnoreRules) Len() int {
	if r == nil {
		return 0
	}
	return len(r.patterns)
}

// toDoublestar anchors a gitignore pattern. Patterns without a slash match a
// basename at any depth; a leading slash anchors to the root.
func toDoublestar(glob string) string {
	glob = filepath.ToSlash(glob)
	if strings.HasPrefix(glob, "/") {
		return strings.TrimPrefix(glob, "/")
	}
	if !strings.Contains(glob, "/") {
		return "**/" + glob
	}
	return glob
}

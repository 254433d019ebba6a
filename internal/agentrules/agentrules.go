package agentrules

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"vibeshield/internal/safefile"
)

const FileName = ".cursorrules"

// Content is the block written into the agent rules file.
const Content = `# Vibe Shield Security Rules

Before marking a task as done, run ` + "`vibeshield`" + `. If issues are found, follow the [INSTRUCTION] provided in the output to fix them.

## Security Checklist
- [ ] No hardcoded secrets (API keys, passwords, tokens)
- [ ] No dangerous code execution (eval, shell injection)
- [ ] No SQL injection vulnerabilities (use parameterized queries)
- [ ] All secrets stored in environment variables
- [ ] HTTPS used for all external URLs
`

var ErrAlreadyInstalled = errors.New("Vibe Shield rules already exist in .cursorrules")

var markers = []string{"vibeshield", "vibe-shield", "Vibe Shield"}

type Result struct {
	Path    string
	Created bool
	Message string
}

// Install creates dir/.cursorrules or appends the rules block to an existing
// one. It refuses when the block (or an older variant) is already present.
func Install(dir string) (Result, error) {
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	path := filepath.Join(dir, FileName)
	res := Result{Path: path}

	info, err := os.Lstat(path)
	switch {
	case os.IsNotExist(err):
		if err := safefile.WriteFileAtomic(path, []byte(Content), 0o644); err != nil {
			return res, fmt.Errorf("failed to create %s: %w", FileName, err)
		}
		res.Created = true
		res.Message = FileName + " created successfully!"
		return res, nil
	case err != nil:
		return res, fmt.Errorf("failed to update %s: %w", FileName, err)
	case info.Mode()&os.ModeSymlink != 0:
		return res, fmt.Errorf("refusing symlinked %s: %s", FileName, path)
	}

	existing, err := os.ReadFile(path)
	if err != nil {
		return res, fmt.Errorf("failed to update %s: %w", FileName, err)
	}
	if Installed(string(existing)) {
		return res, ErrAlreadyInstalled
	}
	if err := safefile.AppendAtomic(path, []byte("\n\n"+Content), 0o644); err != nil {
		return res, fmt.Errorf("failed to update %s: %w", FileName, err)
	}
	res.Message = "Vibe Shield rules appended to existing " + FileName
	return res, nil
}

// Installed reports whether content already carries the rules block.
func Installed(content string) bool {
	for _, m := range markers {
		if strings.Contains(content, m) {
			return true
		}
	}
	return false
}

package report

import (
	"fmt"
	"strings"

	"vibeshield/internal/model"
	"vibeshield/internal/redact"
	"vibeshield/internal/rules"
	"vibeshield/internal/safefile"
)

type Format string

const (
	Human    Format = "human"
	Agent    Format = "agent"
	JSON     Format = "json"
	SARIF    Format = "sarif"
	Markdown Format = "markdown"
)

var Formats = []Format{Human, Agent, JSON, SARIF, Markdown}

func ParseFormat(raw string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(raw)))
	switch f {
	case "":
		return Human, nil
	case "md":
		return Markdown, nil
	case Human, Agent, JSON, SARIF, Markdown:
		return f, nil
	}
	names := make([]string, 0, len(Formats))
	for _, known := range Formats {
		names = append(names, string(known))
	}
	return "", fmt.Errorf("unknown format %q (want %s)", raw, strings.Join(names, "|"))
}

// Input is everything a formatter may need. Rules is only read by SARIF.
type Input struct {
	Issues   []model.Issue
	Warnings []string
	Rules    []rules.Rule
}

type Options struct {
	// Redact masks matched text and secrets in warnings.
	Redact bool
	// Color enables terminal styling for the human format.
	Color bool
}

func Render(format Format, in Input, opts Options) ([]byte, error) {
	issues, warnings := in.Issues, in.Warnings
	if opts.Redact {
		issues = redact.Issues(issues)
		warnings = redact.Strings(warnings)
	}

	switch format {
	case Human, "":
		return []byte(FormatHuman(issues, warnings, opts.Color)), nil
	case Agent:
		out := FormatAgentPrompt(issues, warnings)
		if out == "" {
			return []byte(FormatAgentWarnings(warnings)), nil
		}
		return []byte(out + "\n"), nil
	case JSON:
		return FormatJSON(issues, warnings)
	case SARIF:
		return FormatSARIF(issues, in.Rules)
	case Markdown:
		return []byte(RenderMarkdown(issues, warnings)), nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// Write persists a rendered report atomically with owner-only permissions.
func Write(path string, data []byte) error {
	if err := safefile.WriteFileAtomic(path, data, 0o600); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}

package report

import (
	"fmt"
	"strings"

	"vibeshield/internal/model"
	"vibeshield/internal/sanitize"
)

const agentFrame = "═══════════════════════════════════════════════════════════════"

// FormatAgentPrompt renders issues as numbered tasks an AI coding agent can
// work through. It returns "" when there are no issues, so callers can print
// it unconditionally.
func FormatAgentPrompt(issues []model.Issue, warnings []string) string {
	if len(issues) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(agentFrame + "\n")
	b.WriteString("  HEY AGENT, PLEASE FIX THE FOLLOWING SECURITY ISSUES:\n")
	b.WriteString(agentFrame + "\n")
	b.WriteString("\n")

	for i, issue := range issues {
		b.WriteString(fmt.Sprintf("[TASK %d] [%s] Fix %s in %s at line %d\n",
			i+1,
			strings.ToUpper(string(issue.Severity)),
			sanitize.TextInline(issue.RuleName),
			sanitize.PathInline(issue.File),
			issue.Line,
		))
		b.WriteString(fmt.Sprintf("[FOUND]: %s\n", sanitize.MatchInline(issue.MatchedText)))
		b.WriteString(fmt.Sprintf("[INSTRUCTION]: %s\n", sanitize.TextInline(issue.FixPrompt)))
		b.WriteString("\n")
	}

	b.WriteString(FormatAgentWarnings(warnings))
	if len(warnings) > 0 {
		b.WriteString("\n")
	}

	b.WriteString(agentFrame + "\n")
	b.WriteString(fmt.Sprintf("  Total issues: %d\n", len(issues)))
	b.WriteString(agentFrame)
	return b.String()
}

// FormatAgentWarnings renders only the warning lines, for runs that found no
// issues but still skipped files.
func FormatAgentWarnings(warnings []string) string {
	var b strings.Builder
	for _, w := range warnings {
		b.WriteString(fmt.Sprintf("[WARNING]: %s\n", sanitize.PathInline(w)))
	}
	return b.String()
}

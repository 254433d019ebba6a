package report

import (
	"fmt"
	"strings"

	"vibeshield/internal/aggregate"
	"vibeshield/internal/model"
)

func RenderMarkdown(issues []model.Issue, warnings []string) string {
	var b strings.Builder
	summary := aggregate.Summarize(issues)

	b.WriteString("# vibeshield Security Scan\n\n")
	b.WriteString("## Summary\n\n")
	if summary.Total == 0 {
		b.WriteString("No security issues detected.\n\n")
	} else {
		b.WriteString(fmt.Sprintf("Found **%d** issue(s).\n\n", summary.Total))
	}
	b.WriteString("| Severity | Count |\n")
	b.WriteString("|---|---|\n")
	for _, sev := range model.Severities {
		b.WriteString(fmt.Sprintf("| %s | %d |\n", sev, summary.BySeverity.Get(sev)))
	}
	b.WriteString("\n")

	if ranked := aggregate.RankedNames(issues); len(ranked) > 0 {
		b.WriteString("### By Type\n\n")
		for _, nc := range ranked {
			b.WriteString(fmt.Sprintf("- %s: %d\n", nc.Name, nc.Count))
		}
		b.WriteString("\n")
	}

	if len(warnings) > 0 {
		b.WriteString("## Warnings\n\n")
		for _, w := range warnings {
			b.WriteString(fmt.Sprintf("- %s\n", sanitizeInline(w)))
		}
		b.WriteString("\n")
	}

	if len(issues) == 0 {
		return b.String()
	}

	b.WriteString("## Issues\n\n")
	for i, issue := range issues {
		b.WriteString(fmt.Sprintf("### %d. [%s] %s\n\n", i+1, strings.ToUpper(string(issue.Severity)), issue.RuleName))
		b.WriteString(fmt.Sprintf("- Location: `%s:%d`\n", codeInline(issue.File), issue.Line))
		b.WriteString(fmt.Sprintf("- Rule: `%s`\n", issue.RuleID))
		b.WriteString(fmt.Sprintf("- Found: `%s`\n", codeInline(issue.MatchedText)))
		b.WriteString(fmt.Sprintf("- Fix: %s\n\n", sanitizeInline(issue.FixPrompt)))
	}
	return b.String()
}

func sanitizeInline(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}

// codeInline keeps text from closing its backtick span early.
func codeInline(s string) string {
	return strings.ReplaceAll(sanitizeInline(s), "`", "'")
}

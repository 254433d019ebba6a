package report

import (
	"encoding/json"
	"fmt"

	"vibeshield/internal/aggregate"
	"vibeshield/internal/model"
)

// Document is the machine-readable scan report.
type Document struct {
	Summary  aggregate.Summary `json:"summary"`
	Issues   []IssueRecord     `json:"issues"`
	Warnings []string          `json:"warnings"`
}

type IssueRecord struct {
	Severity model.Severity `json:"severity"`
	Type     string         `json:"type"`
	File     string         `json:"file"`
	Line     int            `json:"line"`
	Match    string         `json:"match"`
	Fix      string         `json:"fix"`
}

func BuildDocument(issues []model.Issue, warnings []string) Document {
	records := make([]IssueRecord, 0, len(issues))
	for _, issue := range issues {
		records = append(records, IssueRecord{
			Severity: issue.Severity,
			Type:     issue.RuleName,
			File:     issue.File,
			Line:     issue.Line,
			Match:    issue.MatchedText,
			Fix:      issue.FixPrompt,
		})
	}
	if warnings == nil {
		warnings = []string{}
	}
	return Document{
		Summary:  aggregate.Summarize(issues),
		Issues:   records,
		Warnings: warnings,
	}
}

// FormatJSON renders the report document. Output is stable for a given input
// order: struct fields keep declaration order and map keys are sorted.
func FormatJSON(issues []model.Issue, warnings []string) ([]byte, error) {
	b, err := json.MarshalIndent(BuildDocument(issues, warnings), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal scan report: %w", err)
	}
	return append(b, '\n'), nil
}

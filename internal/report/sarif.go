package report

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"vibeshield/internal/model"
	"vibeshield/internal/rules"
	"vibeshield/internal/version"
)

// SARIF v2.1.0, the subset GitHub code scanning reads.

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	InformationURI string      `json:"informationUri,omitempty"`
	Version        string      `json:"version"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string             `json:"id"`
	Name             string             `json:"name,omitempty"`
	ShortDescription sarifMessage       `json:"shortDescription"`
	Help             sarifMessage       `json:"help"`
	DefaultConfig    sarifDefaultConfig `json:"defaultConfiguration"`
	Properties       sarifRuleProps     `json:"properties"`
}

type sarifDefaultConfig struct {
	Level string `json:"level"`
}

type sarifRuleProps struct {
	Severity string   `json:"severity"`
	Tags     []string `json:"tags"`
}

type sarifResult struct {
	RuleID     string          `json:"ruleId"`
	RuleIndex  int             `json:"ruleIndex"`
	Level      string          `json:"level"`
	Message    sarifMessage    `json:"message"`
	Locations  []sarifLocation `json:"locations"`
	Properties sarifProperties `json:"properties"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn,omitempty"`
}

type sarifProperties struct {
	Severity string `json:"severity"`
	Match    string `json:"match"`
}

// FormatSARIF renders issues as a SARIF log. table supplies rule metadata; rules
// that produced no issue are still listed so code scanning can close alerts.
func FormatSARIF(issues []model.Issue, table []rules.Rule) ([]byte, error) {
	b, err := json.MarshalIndent(buildSARIF(issues, table), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal sarif report: %w", err)
	}
	return append(b, '\n'), nil
}

func buildSARIF(issues []model.Issue, table []rules.Rule) sarifLog {
	ruleIndex := map[string]int{}
	sarifRules := make([]sarifRule, 0, len(table))
	addRule := func(id, name, fix string, sev model.Severity) {
		if _, seen := ruleIndex[id]; seen {
			return
		}
		ruleIndex[id] = len(sarifRules)
		sarifRules = append(sarifRules, sarifRule{
			ID:               id,
			Name:             name,
			ShortDescription: sarifMessage{Text: name},
			Help:             sarifMessage{Text: fix},
			DefaultConfig:    sarifDefaultConfig{Level: mapSeverityToSARIF(sev)},
			Properties:       sarifRuleProps{Severity: string(sev), Tags: []string{"security"}},
		})
	}
	for _, r := range table {
		addRule(r.ID, r.Name, r.Fix, r.Severity)
	}

	results := make([]sarifResult, 0, len(issues))
	for _, issue := range issues {
		addRule(issue.RuleID, issue.RuleName, issue.FixPrompt, issue.Severity)
		results = append(results, sarifResult{
			RuleID:    issue.RuleID,
			RuleIndex: ruleIndex[issue.RuleID],
			Level:     mapSeverityToSARIF(issue.Severity),
			Message:   sarifMessage{Text: fmt.Sprintf("%s: %s", issue.RuleName, issue.FixPrompt)},
			Locations: []sarifLocation{{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{URI: filepath.ToSlash(issue.File)},
					Region:           sarifRegion{StartLine: issue.Line, StartColumn: issue.Column},
				},
			}},
			Properties: sarifProperties{
				Severity: string(issue.Severity),
				Match:    issue.MatchedText,
			},
		})
	}

	return sarifLog{
		Version: "2.1.0",
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/main/sarif-2.1/schema/sarif-schema-2.1.0.json",
		Runs: []sarifRun{{
			Tool: sarifTool{
				Driver: sarifDriver{
					Name:    "vibeshield",
					Version: version.Version,
					Rules:   sarifRules,
				},
			},
			Results: results,
		}},
	}
}

func mapSeverityToSARIF(sev model.Severity) string {
	switch sev {
	case model.SeverityCritical, model.SeverityHigh:
		return "error"
	case model.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}

package aggregate

import (
	"sort"

	"vibeshield/internal/model"
)

// SeverityCounts always carries all four levels. Field order fixes the JSON
// key order to critical, high, medium, low.
type SeverityCounts struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

func (c SeverityCounts) Total() int {
	return c.Critical + c.High + c.Medium + c.Low
}

func (c SeverityCounts) Get(sev model.Severity) int {
	switch sev {
	case model.SeverityCritical:
		return c.Critical
	case model.SeverityHigh:
		return c.High
	case model.SeverityMedium:
		return c.Medium
	case model.SeverityLow:
		return c.Low
	default:
		return 0
	}
}

// Highest returns the most severe level with a non-zero count.
func (c SeverityCounts) Highest() (model.Severity, bool) {
	for _, sev := range model.Severities {
		if c.Get(sev) > 0 {
			return sev, true
		}
	}
	return "", false
}

type Summary struct {
	Total      int            `json:"total"`
	BySeverity SeverityCounts `json:"bySeverity"`
	ByName     map[string]int `json:"byType"`
}

func BySeverity(issues []model.Issue) SeverityCounts {
	var c SeverityCounts
	for _, issue := range issues {
		switch issue.Severity {
		case model.SeverityCritical:
			c.Critical++
		case model.SeverityHigh:
			c.High++
		case model.SeverityMedium:
			c.Medium++
		case model.SeverityLow:
			c.Low++
		}
	}
	return c
}

// ByName counts issues per rule display name. Rules sharing a name share a
// bucket.
func ByName(issues []model.Issue) map[string]int {
	out := make(map[string]int)
	for _, issue := range issues {
		out[issue.RuleName]++
	}
	return out
}

func Summarize(issues []model.Issue) Summary {
	return Summary{
		Total:      len(issues),
		BySeverity: BySeverity(issues),
		ByName:     ByName(issues),
	}
}

type NameCount struct {
	Name     string
	Count    int
	Severity model.Severity
}

// RankedNames lists rule names by count, descending. Ties break on the most
// severe issue seen under that name and then on name.
func RankedNames(issues []model.Issue) []NameCount {
	idx := make(map[string]int)
	var out []NameCount
	for _, issue := range issues {
		i, ok := idx[issue.RuleName]
		if !ok {
			idx[issue.RuleName] = len(out)
			out = append(out, NameCount{Name: issue.RuleName, Severity: issue.Severity})
			i = len(out) - 1
		}
		out[i].Count++
		if issue.Severity.Rank() < out[i].Severity.Rank() {
			out[i].Severity = issue.Severity
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Count != out[b].Count {
			return out[a].Count > out[b].Count
		}
		if ra, rb := out[a].Severity.Rank(), out[b].Severity.Rank(); ra != rb {
			return ra < rb
		}
		return out[a].Name < out[b].Name
	})
	return out
}

// Sort orders issues by file path, line, rule order and column. order maps a
// rule id to its registry position; a nil order compares rule ids.
func Sort(issues []model.Issue, order func(ruleID string) int) {
	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.RuleID != b.RuleID {
			if order != nil {
				if oa, ob := order(a.RuleID), order(b.RuleID); oa != ob {
					return oa < ob
				}
			}
			return a.RuleID < b.RuleID
		}
		return a.Column < b.Column
	})
}

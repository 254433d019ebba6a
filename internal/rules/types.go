package rules

import (
	"regexp"

	"vibeshield/internal/model"
)

const APIVersion = "vibeshield/v1"

// Definition is the declarative form of a rule, as written in the built-in
// table or a YAML rule pack.
type Definition struct {
	ID              string         `yaml:"id" json:"id"`
	Name            string         `yaml:"name" json:"name"`
	Pattern         string         `yaml:"pattern" json:"pattern"`
	CaseInsensitive bool           `yaml:"case_insensitive,omitempty" json:"case_insensitive,omitempty"`
	Severity        model.Severity `yaml:"severity" json:"severity"`
	Fix             string         `yaml:"fix" json:"fix"`
}

// Rule is a compiled Definition. The zero value is not usable; rules are only
// produced by New.
type Rule struct {
	ID       string
	Name     string
	Severity model.Severity
	Fix      string

	re *regexp.Regexp
}

// Match is one occurrence of a rule within a single line.
type Match struct {
	// Offset is the byte offset of the whole match within the line.
	Offset int
	// Text is the first capture group when the pattern has one and it matched
	// something, otherwise the full matched span.
	Text string
}

func (r Rule) Pattern() string {
	if r.re == nil {
		return ""
	}
	return r.re.String()
}

// FindAll returns every non-overlapping match of the rule in line, left to
// right. It keeps no state between calls.
func (r Rule) FindAll(line string) []Match {
	if r.re == nil || line == "" {
		return nil
	}
	locs := r.re.FindAllStringSubmatchIndex(line, -1)
	if len(locs) == 0 {
		return nil
	}
	out := make([]Match, 0, len(locs))
	for _, loc := range locs {
		text := line[loc[0]:loc[1]]
		if len(loc) >= 4 && loc[2] >= 0 && loc[3] > loc[2] {
			text = line[loc[2]:loc[3]]
		}
		out = append(out, Match{Offset: loc[0], Text: text})
	}
	return out
}

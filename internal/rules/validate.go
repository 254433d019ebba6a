package rules

import (
	"errors"
	"regexp"
	"strings"

	"vibeshield/internal/model"
)

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{1,63}$`)

func NormalizeDefinition(def Definition) Definition {
	def.ID = strings.ToLower(strings.TrimSpace(def.ID))
	def.Name = strings.TrimSpace(def.Name)
	def.Severity = model.Severity(strings.ToLower(strings.TrimSpace(string(def.Severity))))
	def.Fix = strings.TrimSpace(def.Fix)
	return def
}

func ValidateDefinition(def Definition) error {
	var errs []string

	id := strings.TrimSpace(def.ID)
	if id == "" {
		errs = append(errs, "id is required")
	} else if !idPattern.MatchString(id) {
		errs = append(errs, "id must match ^[a-z0-9][a-z0-9_-]{1,63}$")
	}
	if strings.TrimSpace(def.Name) == "" {
		errs = append(errs, "name is required")
	} else if strings.ContainsAny(def.Name, "\r\n") {
		errs = append(errs, "name must be a single line")
	}
	if strings.TrimSpace(def.Pattern) == "" {
		errs = append(errs, "pattern is required")
	}
	if !def.Severity.Valid() {
		errs = append(errs, "severity must be critical|high|medium|low")
	}
	if strings.TrimSpace(def.Fix) == "" {
		errs = append(errs, "fix is required")
	} else if strings.ContainsAny(def.Fix, "\r\n") {
		// Fix text becomes one [INSTRUCTION] line of the agent transcript.
		errs = append(errs, "fix must be a single line (use a folded > scalar for long text)")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

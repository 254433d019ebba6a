package rules

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Registry is an ordered, read-only set of compiled rules. It is safe for
// concurrent use: nothing mutates it after New returns.
type Registry struct {
	rules []Rule
	index map[string]int
}

// New validates and compiles defs in order. Any invalid definition fails the
// whole registry; there is no partially loaded state.
func New(defs ...Definition) (*Registry, error) {
	if len(defs) == 0 {
		return nil, errors.New("registry requires at least one rule")
	}
	reg := &Registry{
		rules: make([]Rule, 0, len(defs)),
		index: make(map[string]int, len(defs)),
	}
	for i, def := range defs {
		def = NormalizeDefinition(def)
		if err := ValidateDefinition(def); err != nil {
			return nil, fmt.Errorf("rule[%d] %q: %w", i, def.ID, err)
		}
		if prev, dup := reg.index[def.ID]; dup {
			return nil, fmt.Errorf("rule[%d] %q: duplicate id (first defined at rule[%d])", i, def.ID, prev)
		}
		re, err := compilePattern(def)
		if err != nil {
			return nil, fmt.Errorf("rule[%d] %q: %w", i, def.ID, err)
		}
		reg.index[def.ID] = len(reg.rules)
		reg.rules = append(reg.rules, Rule{
			ID:       def.ID,
			Name:     def.Name,
			Severity: def.Severity,
			Fix:      def.Fix,
			re:       re,
		})
	}
	return reg, nil
}

// MustNew is New for tables fixed at compile time. A failure is a bug in the
// table, so it panics.
func MustNew(defs ...Definition) *Registry {
	reg, err := New(defs...)
	if err != nil {
		panic(fmt.Sprintf("rules: %v", err))
	}
	return reg
}

// Default builds the registry of built-in rules.
func Default() (*Registry, error) {
	return New(Builtins()...)
}

// Load builds the built-in registry and appends the rules from each rule pack
// file, in order.
func Load(packPaths ...string) (*Registry, error) {
	defs := Builtins()
	for _, path := range packPaths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		custom, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		defs = append(defs, custom...)
	}
	return New(defs...)
}

// Rules returns the rules in registry order. The slice is a copy.
func (r *Registry) Rules() []Rule {
	if r == nil {
		return nil
	}
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.rules)
}

func (r *Registry) Get(id string) (Rule, bool) {
	if r == nil {
		return Rule{}, false
	}
	idx, ok := r.index[strings.TrimSpace(id)]
	if !ok {
		return Rule{}, false
	}
	return r.rules[idx], true
}

// Order returns the registry position of a rule id, or Len() for unknown ids.
func (r *Registry) Order(id string) int {
	if r == nil {
		return 0
	}
	idx, ok := r.index[id]
	if !ok {
		return len(r.rules)
	}
	return idx
}

func compilePattern(def Definition) (*regexp.Regexp, error) {
	pattern := def.Pattern
	if def.CaseInsensitive {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile pattern: %w", err)
	}
	// A pattern that matches the empty string would report every blank line.
	if re.MatchString("") {
		return nil, fmt.Errorf("pattern %q matches an empty line", def.Pattern)
	}
	return re, nil
}

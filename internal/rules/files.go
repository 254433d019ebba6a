package rules

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// PackFile is the on-disk layout of a custom rule pack.
//
//	api_version: vibeshield/v1
//	rules:
//	  - id: internal-token
//	    name: Internal Service Token
//	    pattern: 'itk_[a-z0-9]{32}'
//	    severity: critical
//	    fix: Move the token to the secrets manager.
type PackFile struct {
	APIVersion string       `yaml:"api_version,omitempty"`
	Rules      []Definition `yaml:"rules"`
}

// LoadFile reads and validates a rule pack. Patterns are not compiled here;
// New does that when the pack joins a registry.
func LoadFile(path string) ([]Definition, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return nil, fmt.Errorf("read rule pack %s: %w", path, err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return nil, fmt.Errorf("refusing symlinked rule pack: %s", path)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("rule pack is a directory: %s", path)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule pack %s: %w", path, err)
	}
	return ParsePack(b, path)
}

// ParsePack decodes a rule pack document. name is only used in errors.
func ParsePack(data []byte, name string) ([]Definition, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("rule pack %s is empty", name)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var pack PackFile
	if err := dec.Decode(&pack); err != nil {
		return nil, fmt.Errorf("parse rule pack %s: %w", name, err)
	}
	if v := strings.TrimSpace(pack.APIVersion); v != "" && v != APIVersion {
		return nil, fmt.Errorf("rule pack %s: api_version must be %q", name, APIVersion)
	}
	if len(pack.Rules) == 0 {
		return nil, fmt.Errorf("rule pack %s defines no rules", name)
	}

	out := make([]Definition, 0, len(pack.Rules))
	for i, def := range pack.Rules {
		def = NormalizeDefinition(def)
		if err := ValidateDefinition(def); err != nil {
			return nil, fmt.Errorf("rule pack %s: rules[%d] %q: %w", name, i, def.ID, err)
		}
		out = append(out, def)
	}
	return out, nil
}

// Package rule loads pattern rules from YAML configuration files.
package rule

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dutchcyberguy/semgrep/internal/lang"
	"github.com/dutchcyberguy/semgrep/internal/types"
)

// Rule is one pattern with an optional fix template.
type Rule struct {
	ID       string `yaml:"id"`
	Language string `yaml:"language,omitempty"`
	Severity string `yaml:"severity,omitempty"`
	Message  string `yaml:"message"`
	Pattern  string `yaml:"pattern"`
	Fix      string `yaml:"fix,omitempty"`
}

// Config is the top-level shape of a rule file.
type Config struct {
	Rules []Rule `yaml:"rules"`
}

// Load reads and validates a rule file.
func Load(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	rules, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rules, nil
}

// Parse decodes rules from YAML and validates them.
func Parse(data []byte) ([]Rule, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	for i, r := range cfg.Rules {
		if r.ID == "" {
			return nil, fmt.Errorf("rule %d: missing id", i)
		}
		if r.Pattern == "" {
			return nil, fmt.Errorf("rule %q: missing pattern", r.ID)
		}
		if r.Message == "" {
			return nil, fmt.Errorf("rule %q: missing message", r.ID)
		}
		if _, err := lang.Parse(r.Language); err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.ID, err)
		}
		if _, err := types.ParseSeverity(r.Severity); err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.ID, err)
		}
	}
	return cfg.Rules, nil
}

// Lang returns the parsed language of the rule.
func (r Rule) Lang() lang.Language {
	l, _ := lang.Parse(r.Language)
	return l
}

// Sev returns the parsed severity of the rule.
func (r Rule) Sev() types.Severity {
	s, _ := types.ParseSeverity(r.Severity)
	return s
}

package review

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Pack is a rules file loaded from --rules: it can disable built-in rules,
// override their severities, and add custom rules.
type Pack struct {
	Disable           []string          `json:"disable,omitempty" yaml:"disable,omitempty"`
	SeverityOverrides map[string]string `json:"severityOverrides,omitempty" yaml:"severityOverrides,omitempty"`
	Rules             []PackRule        `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// PackRule is a user-supplied rule definition.
type PackRule struct {
	Type        string `json:"type" yaml:"type"`
	Category    string `json:"category" yaml:"category"`
	Pattern     string `json:"pattern" yaml:"pattern"`
	Severity    string `json:"severity" yaml:"severity"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Suggestion  string `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
}

// LoadPack loads a rules file from disk, JSON or YAML by extension.
// Returns nil Pack and nil error if path is empty.
func LoadPack(path string) (*Pack, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}

	var pack Pack
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &pack); err != nil {
			return nil, fmt.Errorf("parsing rules file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &pack); err != nil {
			return nil, fmt.Errorf("parsing rules file: %w", err)
		}
	}
	return &pack, nil
}

// Apply builds a new RuleSet from base with the pack applied: disabled types
// dropped, severity overrides applied, custom rules appended to their
// category. The base set is never modified.
func (p *Pack) Apply(base *RuleSet) (*RuleSet, error) {
	if p == nil {
		return base, nil
	}

	for typ, sev := range p.SeverityOverrides {
		if !validSeverity(Severity(sev)) {
			return nil, fmt.Errorf("rules file: unknown severity %q for %s", sev, typ)
		}
	}

	disabled := make(map[string]bool, len(p.Disable))
	for _, typ := range p.Disable {
		disabled[typ] = true
	}

	apply := func(rules []Rule) []Rule {
		kept := make([]Rule, 0, len(rules))
		for _, r := range rules {
			if disabled[r.Type] {
				continue
			}
			if sev, ok := p.SeverityOverrides[r.Type]; ok {
				r.Severity = Severity(sev)
			}
			kept = append(kept, r)
		}
		return kept
	}

	out := &RuleSet{
		Security:    apply(base.Security),
		Performance: apply(base.Performance),
		Quality:     apply(base.Quality),
		Removed:     base.Removed,
	}

	for _, pr := range p.Rules {
		rule, err := pr.compile()
		if err != nil {
			return nil, err
		}
		switch rule.Category {
		case CategorySecurity:
			out.Security = append(out.Security, rule)
		case CategoryPerformance:
			out.Performance = append(out.Performance, rule)
		case CategoryQuality:
			out.Quality = append(out.Quality, rule)
		}
	}
	return out, nil
}

func (pr PackRule) compile() (Rule, error) {
	if pr.Type == "" {
		return Rule{}, fmt.Errorf("rules file: rule missing type")
	}

	cat := Category(strings.ToLower(pr.Category))
	switch cat {
	case CategorySecurity, CategoryPerformance, CategoryQuality:
	default:
		return Rule{}, fmt.Errorf("rules file: unknown category %q for %s", pr.Category, pr.Type)
	}

	sev := Severity(strings.ToLower(pr.Severity))
	if !validSeverity(sev) {
		return Rule{}, fmt.Errorf("rules file: unknown severity %q for %s", pr.Severity, pr.Type)
	}

	re, err := regexp.Compile(pr.Pattern)
	if err != nil {
		return Rule{}, fmt.Errorf("rules file: bad pattern for %s: %w", pr.Type, err)
	}

	return Rule{
		Type:        pr.Type,
		Category:    cat,
		Severity:    sev,
		Pattern:     re,
		Description: pr.Description,
		Suggestion:  pr.Suggestion,
	}, nil
}

func validSeverity(s Severity) bool {
	return SeverityRank(s) > 0
}

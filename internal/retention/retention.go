// Package retention holds the Retention Class Code (RCC) catalog that the
// analysis pipeline classifies tables against.
package retention

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// RuleKind describes how a retention period is anchored.
type RuleKind string

const (
	// ActivePlus keeps records while active, plus N years.
	ActivePlus RuleKind = "active_plus"
	// CreationBased keeps records N years from creation.
	CreationBased RuleKind = "creation_based"
	// EventBased keeps records N years after a triggering event.
	EventBased RuleKind = "event_based"
)

type Rule struct {
	Years       int      `yaml:"years"`
	Kind        RuleKind `yaml:"kind"`
	Description string   `yaml:"description"`
	// LookupHints are column name tokens that tend to carry the retention
	// anchor for this class, e.g. "created_at" or "active_flag".
	LookupHints []string `yaml:"lookup_hints"`
}

// DefaultRules is the built-in RCC catalog.
func DefaultRules() map[string]Rule {
	return map[string]Rule{
		"CFA360": {
			Years:       10,
			Kind:        CreationBased,
			Description: "Financial statements and reports - 10 years from created date",
			LookupHints: []string{"creation_date", "document_date"},
		},
		"BNK460": {
			Years:       10,
			Kind:        CreationBased,
			Description: "Financial transactions - 10 years from created date",
			LookupHints: []string{"created_date", "created_at", "settlement_date"},
		},
		"LEG460": {
			Years:       10,
			Kind:        ActivePlus,
			Description: "Legal contracts - retain active + 10 years",
			LookupHints: []string{"active_flag", "created_at"},
		},
		"LEG120": {
			Years:       10,
			Kind:        CreationBased,
			Description: "Compliance documents - 10 years from created date",
			LookupHints: []string{"created_date", "created_at"},
		},
		"ADM150": {
			Years:       1,
			Kind:        CreationBased,
			Description: "Audit logs - 1 year from creation",
			LookupHints: []string{"created_at"},
		},
		"CFA340": {
			Years:       10,
			Kind:        CreationBased,
			Description: "Customer Personal Information - 10 years from created date",
			LookupHints: []string{"created_date", "created_at"},
		},
	}
}

// LoadRules reads a YAML catalog mapping RCC codes to rules, replacing the
// built-in set.
func LoadRules(path string) (map[string]Rule, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read retention rules: %w", err)
	}
	var rules map[string]Rule
	if err := yaml.Unmarshal(raw, &rules); err != nil {
		return nil, fmt.Errorf("parse retention rules: %w", err)
	}
	if len(rules) == 0 {
		return nil, fmt.Errorf("retention rules file %s defines no rules", path)
	}
	for code, rule := range rules {
		switch rule.Kind {
		case ActivePlus, CreationBased, EventBased:
		default:
			return nil, fmt.Errorf("rule %s: unknown kind %q", code, rule.Kind)
		}
		if rule.Years <= 0 {
			return nil, fmt.Errorf("rule %s: years must be positive", code)
		}
	}
	return rules, nil
}

// Manager answers catalog lookups for the analyzer.
type Manager struct {
	rules map[string]Rule
}

func NewManager() *Manager {
	return &Manager{rules: DefaultRules()}
}

func NewManagerWithRules(rules map[string]Rule) *Manager {
	return &Manager{rules: rules}
}

func (m *Manager) Rules() map[string]Rule { return m.rules }

func (m *Manager) Rule(code string) (Rule, bool) {
	r, ok := m.rules[code]
	return r, ok
}

// LookupHints returns the hint tokens for an RCC, or nil for unknown codes.
func (m *Manager) LookupHints(code string) []string {
	r, ok := m.rules[code]
	if !ok {
		return nil
	}
	return r.LookupHints
}

// Describe renders the catalog one rule per line for prompt injection.
func (m *Manager) Describe() string {
	codes := make([]string, 0, len(m.rules))
	for code := range m.rules {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	lines := make([]string, 0, len(codes))
	for _, code := range codes {
		r := m.rules[code]
		lines = append(lines, fmt.Sprintf("%s: %s (%s, %d years)", code, r.Description, r.Kind, r.Years))
	}
	return strings.Join(lines, "\n")
}

// Context phrases what the retention column search should look for, given
// the rule's kind.
func (m *Manager) Context(code string) string {
	r, ok := m.rules[code]
	if !ok {
		return ""
	}
	switch r.Kind {
	case ActivePlus:
		return "Find the column that indicates if the record is still active/current"
	case CreationBased:
		return "Find the column that records when this record was created"
	default:
		return "Find the column that tracks the timing of: " + r.Description
	}
}

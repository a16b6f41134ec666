// Package rules runs a library of named business rules against an
// assembled study and produces a reproducible report.
//
// Rules are registered by id and executed in id order, so two runs over
// the same study always produce byte-identical reports. A rule never
// aborts the run: it returns findings, and anything it cannot check is
// itself a finding.
package rules

import (
	"fmt"
	"sort"

	"github.com/trialmesh/usdm-timeline/internal/usdm"
)

// Level classifies a finding.
type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
)

// Finding is one problem a rule located.
type Finding struct {
	RuleID  string `json:"ruleId"`
	Level   Level  `json:"level"`
	Message string `json:"message"`
	Path    string `json:"path"`
}

// Rule is one named business rule.
type Rule interface {
	ID() string
	Description() string
	Check(study *usdm.Study) []Finding
}

// RuleResult is the outcome of one rule over one study.
type RuleResult struct {
	RuleID      string    `json:"ruleId"`
	Description string    `json:"description"`
	Passed      bool      `json:"passed"`
	Findings    []Finding `json:"findings"`
}

// Report is the outcome of a full registry run.
type Report struct {
	StudyID string       `json:"studyId"`
	Results []RuleResult `json:"results"`
	Errors  int          `json:"errors"`
}

// Registry holds rules keyed by id.
type Registry struct {
	rules map[string]Rule
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]Rule)}
}

// Register adds a rule. Duplicate ids are rejected: a silently replaced
// rule would make reports irreproducible across builds.
func (r *Registry) Register(rule Rule) error {
	if _, exists := r.rules[rule.ID()]; exists {
		return fmt.Errorf("rule %q already registered", rule.ID())
	}
	r.rules[rule.ID()] = rule
	return nil
}

// Rules returns the registered rules in id order.
func (r *Registry) Rules() []Rule {
	ids := make([]string, 0, len(r.rules))
	for id := range r.rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]Rule, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.rules[id])
	}
	return out
}

// Run executes every registered rule against the study, in id order.
func (r *Registry) Run(study *usdm.Study) Report {
	report := Report{StudyID: study.ID, Results: []RuleResult{}}
	for _, rule := range r.Rules() {
		findings := rule.Check(study)
		if findings == nil {
			findings = []Finding{}
		}
		result := RuleResult{
			RuleID:      rule.ID(),
			Description: rule.Description(),
			Passed:      len(findings) == 0,
			Findings:    findings,
		}
		for _, f := range findings {
			if f.Level == LevelError {
				report.Errors++
			}
		}
		report.Results = append(report.Results, result)
	}
	return report
}

// DefaultRegistry returns a registry pre-loaded with the built-in
// structural rules.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, rule := range BuiltinRules() {
		// Built-in ids are distinct by construction.
		_ = r.Register(rule)
	}
	return r
}

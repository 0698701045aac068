package subjects

import (
	"fmt"
	"strings"
)

// Type classifies how a subject contributes to aggregate ranking.
type Type string

const (
	TypeGeneral Type = "general"
	TypeApplied Type = "applied"
	TypeVETPass Type = "vet_pass"
)

// Rule is the accepted input format for a subject's raw result.
type Rule string

const (
	RuleNumeric Rule = "0-100"
	RuleGrade   Rule = "A-E"
	RulePass    Rule = "Pass"
	RuleUnknown Rule = ""
)

// Subject is one entry of the subject metadata table.
type Subject struct {
	Name        string  `yaml:"name" json:"name"`
	DisplayName string  `yaml:"display_name" json:"display_name"`
	Type        Type    `yaml:"type" json:"type"`
	Rule        Rule    `yaml:"rule" json:"rule"`
	Scaling     Scaling `yaml:"scaling" json:"-"`
}

// Scaling holds the parameters the local oracle uses for this subject.
// Exactly one of the three blocks is meaningful, matching the subject's rule.
type Scaling struct {
	Anchors    []Anchor           `yaml:"anchors,omitempty"`
	BandScores map[string]float64 `yaml:"band_scores,omitempty"`
	PassScore  *float64           `yaml:"pass_score,omitempty"`
}

// Anchor is one (raw, scaled) point of a piecewise-linear scaling curve.
type Anchor struct {
	Raw    float64 `yaml:"raw"`
	Scaled float64 `yaml:"scaled"`
}

// Table is an immutable lookup over the loaded subject metadata.
type Table struct {
	byName    map[string]*Subject
	byDisplay map[string]*Subject
	ordered   []*Subject
}

// NewTable indexes the given subjects. Canonical and display names must be
// unique after case folding.
func NewTable(list []Subject) (*Table, error) {
	t := &Table{
		byName:    make(map[string]*Subject, len(list)),
		byDisplay: make(map[string]*Subject, len(list)),
		ordered:   make([]*Subject, 0, len(list)),
	}
	for i := range list {
		s := list[i]
		if s.Name == "" {
			return nil, fmt.Errorf("subject %d: name required", i)
		}
		if s.DisplayName == "" {
			s.DisplayName = s.Name
		}
		switch s.Type {
		case TypeGeneral, TypeApplied, TypeVETPass:
		default:
			return nil, fmt.Errorf("subject %q: unknown type %q", s.Name, s.Type)
		}
		switch s.Rule {
		case RuleNumeric, RuleGrade, RulePass:
		default:
			return nil, fmt.Errorf("subject %q: unknown rule %q", s.Name, s.Rule)
		}
		nameKey := fold(s.Name)
		dispKey := fold(s.DisplayName)
		if _, dup := t.byName[nameKey]; dup {
			return nil, fmt.Errorf("duplicate subject name %q", s.Name)
		}
		if _, dup := t.byDisplay[dispKey]; dup {
			return nil, fmt.Errorf("duplicate display name %q", s.DisplayName)
		}
		sub := &s
		t.byName[nameKey] = sub
		t.byDisplay[dispKey] = sub
		t.ordered = append(t.ordered, sub)
	}
	return t, nil
}

// ByCanonicalName resolves a subject by its canonical name.
func (t *Table) ByCanonicalName(name string) (*Subject, bool) {
	s, ok := t.byName[fold(name)]
	return s, ok
}

// ByDisplayName resolves a subject by the name shown to students.
func (t *Table) ByDisplayName(name string) (*Subject, bool) {
	s, ok := t.byDisplay[fold(name)]
	return s, ok
}

// TypeOf returns the subject type for a canonical name.
func (t *Table) TypeOf(name string) (Type, bool) {
	s, ok := t.byName[fold(name)]
	if !ok {
		return "", false
	}
	return s.Type, true
}

// All returns subjects in table order.
func (t *Table) All() []*Subject {
	return t.ordered
}

// Len reports the number of subjects in the table.
func (t *Table) Len() int {
	return len(t.ordered)
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

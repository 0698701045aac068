package subjects

import (
	"os"
	"path/filepath"
	"testing"
)

func sampleSubjects() []Subject {
	return []Subject{
		{Name: "english", DisplayName: "English", Type: TypeGeneral, Rule: RuleNumeric},
		{Name: "essential_english", DisplayName: "Essential English", Type: TypeApplied, Rule: RuleGrade},
		{Name: "cert3_business", DisplayName: "Certificate III in Business", Type: TypeVETPass, Rule: RulePass},
	}
}

func TestNewTableLookups(t *testing.T) {
	table, err := NewTable(sampleSubjects())
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}

	if s, ok := table.ByCanonicalName("english"); !ok || s.DisplayName != "English" {
		t.Errorf("ByCanonicalName(english) = %v, %v", s, ok)
	}
	if s, ok := table.ByCanonicalName("  ENGLISH "); !ok || s.Name != "english" {
		t.Errorf("canonical lookup should fold case/space, got %v, %v", s, ok)
	}
	if s, ok := table.ByDisplayName("essential english"); !ok || s.Name != "essential_english" {
		t.Errorf("ByDisplayName = %v, %v", s, ok)
	}
	if _, ok := table.ByCanonicalName("latin"); ok {
		t.Error("expected miss for unknown subject")
	}
	if typ, ok := table.TypeOf("cert3_business"); !ok || typ != TypeVETPass {
		t.Errorf("TypeOf = %v, %v", typ, ok)
	}
	if table.Len() != 3 {
		t.Errorf("Len = %d, want 3", table.Len())
	}
}

func TestNewTableRejectsBadEntries(t *testing.T) {
	tests := []struct {
		name string
		list []Subject
	}{
		{"missing name", []Subject{{Type: TypeGeneral, Rule: RuleNumeric}}},
		{"unknown type", []Subject{{Name: "x", Type: "elective", Rule: RuleNumeric}}},
		{"unknown rule", []Subject{{Name: "x", Type: TypeGeneral, Rule: "1-7"}}},
		{"duplicate name", []Subject{
			{Name: "x", Type: TypeGeneral, Rule: RuleNumeric},
			{Name: "X", Type: TypeGeneral, Rule: RuleNumeric},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTable(tt.list); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subjects.yaml")
	content := `subjects:
  - name: english
    display_name: English
    type: general
    rule: "0-100"
    scaling:
      anchors:
        - { raw: 0, scaled: 0 }
        - { raw: 100, scaled: 95 }
  - name: essential_english
    display_name: Essential English
    type: applied
    rule: "A-E"
    scaling:
      band_scores: { A: 68, C: 48 }
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	table, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	s, ok := table.ByCanonicalName("english")
	if !ok {
		t.Fatal("english missing")
	}
	if len(s.Scaling.Anchors) != 2 || s.Scaling.Anchors[1].Scaled != 95 {
		t.Errorf("anchors = %+v", s.Scaling.Anchors)
	}
	e, _ := table.ByCanonicalName("essential_english")
	if e.Scaling.BandScores["A"] != 68 {
		t.Errorf("band scores = %+v", e.Scaling.BandScores)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load("/does/not/exist.yaml"); err == nil {
		t.Error("expected error for missing file")
	}

	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(empty, []byte("subjects: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(empty); err == nil {
		t.Error("expected error for empty table")
	}
}

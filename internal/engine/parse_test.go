package engine

import (
	"errors"
	"testing"

	"github.com/MirandaEdu/Tally/internal/subjects"
)

func TestParseNumeric(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "75", "75"},
		{"leading zeros", "075", "75"},
		{"whitespace", "  75 ", "75"},
		{"decimal", "75.5", "75.5"},
		{"trailing zero decimal", "75.50", "75.5"},
		{"zero", "0", "0"},
		{"hundred", "100", "100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input, subjects.RuleNumeric)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.input, err)
			}
			if !got.Present || got.Value != tt.want {
				t.Errorf("Parse(%q) = %+v, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseNumericIdempotent(t *testing.T) {
	for _, input := range []string{"0", "1", "42", "75.5", "99.25", "100"} {
		first, err := Parse(input, subjects.RuleNumeric)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", input, err)
		}
		second, err := Parse(first.Value, subjects.RuleNumeric)
		if err != nil {
			t.Fatalf("reparse of %q failed: %v", first.Value, err)
		}
		if !second.Equal(first) {
			t.Errorf("normalization not idempotent: %q -> %q -> %q", input, first.Value, second.Value)
		}
	}
}

func TestParseNumericInvalid(t *testing.T) {
	for _, input := range []string{"101", "-1", "abc", "75a", "NaN", "Inf", "-Inf", "1e9"} {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input, subjects.RuleNumeric)
			if !errors.Is(err, ErrInvalidResult) {
				t.Errorf("Parse(%q) error = %v, want ErrInvalidResult", input, err)
			}
		})
	}
}

func TestParseGrade(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a", "A"}, {"A", "A"}, {" c ", "C"}, {"e", "E"},
	}
	for _, tt := range tests {
		got, err := Parse(tt.input, subjects.RuleGrade)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", tt.input, err)
		}
		if got.Value != tt.want {
			t.Errorf("Parse(%q) = %q, want %q", tt.input, got.Value, tt.want)
		}
	}

	for _, input := range []string{"F", "AB", "1", "pass"} {
		if _, err := Parse(input, subjects.RuleGrade); !errors.Is(err, ErrInvalidResult) {
			t.Errorf("Parse(%q) error = %v, want ErrInvalidResult", input, err)
		}
	}
}

func TestParsePass(t *testing.T) {
	for _, input := range []string{"Pass", "pass", "PASS", " pAsS "} {
		got, err := Parse(input, subjects.RulePass)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", input, err)
		}
		if got.Value != "Pass" {
			t.Errorf("Parse(%q) = %q, want Pass", input, got.Value)
		}
	}
	if _, err := Parse("Fail", subjects.RulePass); !errors.Is(err, ErrInvalidResult) {
		t.Errorf("expected ErrInvalidResult for Fail")
	}
}

func TestParseBlankIsAbsentNotInvalid(t *testing.T) {
	for _, rule := range []subjects.Rule{subjects.RuleNumeric, subjects.RuleGrade, subjects.RulePass} {
		for _, input := range []string{"", "   ", "\t"} {
			got, err := Parse(input, rule)
			if err != nil {
				t.Errorf("Parse(%q, %q) error = %v, want nil", input, rule, err)
			}
			if got.Present {
				t.Errorf("Parse(%q, %q) = %+v, want absent", input, rule, got)
			}
		}
	}
}

func TestParseUnknownRule(t *testing.T) {
	if _, err := Parse("75", subjects.RuleUnknown); !errors.Is(err, ErrUnknownRule) {
		t.Errorf("expected ErrUnknownRule, got %v", err)
	}
}

func TestClampRowBounds(t *testing.T) {
	t.Run("numeric violation clamped", func(t *testing.T) {
		row := NewRow()
		row.Rule = subjects.RuleNumeric
		row.Raw = Some("75")
		row.Lower = Some("80") // above raw
		row.Upper = Some("70") // below raw

		got := ClampRowBounds(row)
		if got == row {
			t.Fatal("expected a new row for a clamped violation")
		}
		if got.Lower.Value != "75" || got.Upper.Value != "75" {
			t.Errorf("got bounds %q/%q, want 75/75", got.Lower.Value, got.Upper.Value)
		}
	})

	t.Run("consistent row passes through by pointer", func(t *testing.T) {
		row := NewRow()
		row.Rule = subjects.RuleNumeric
		row.Raw = Some("75")
		row.Lower = Some("70")
		row.Upper = Some("80")
		if got := ClampRowBounds(row); got != row {
			t.Error("expected the original row pointer when nothing changes")
		}
	})

	t.Run("grade ordering", func(t *testing.T) {
		row := NewRow()
		row.Rule = subjects.RuleGrade
		row.Raw = Some("C")
		row.Lower = Some("B") // B > C in grade order
		row.Upper = Some("A")

		got := ClampRowBounds(row)
		if got.Lower.Value != "C" {
			t.Errorf("lower = %q, want C", got.Lower.Value)
		}
		if got.Upper.Value != "A" {
			t.Errorf("upper = %q, want A untouched", got.Upper.Value)
		}
	})

	t.Run("missing fields untouched", func(t *testing.T) {
		row := NewRow()
		row.Rule = subjects.RuleNumeric
		row.Raw = Some("75")
		if got := ClampRowBounds(row); got != row {
			t.Error("expected passthrough when bounds absent")
		}
	})
}

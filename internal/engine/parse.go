package engine

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/MirandaEdu/Tally/internal/subjects"
)

// ErrInvalidResult marks input the rule rejects. Callers surface it as a
// validation flag; it is never fatal.
var ErrInvalidResult = errors.New("invalid result for validation rule")

// ErrUnknownRule marks a validation rule the parser does not recognise.
var ErrUnknownRule = errors.New("unknown validation rule")

// gradeRanks orders letter grades E < D < C < B < A.
var gradeRanks = map[string]int{"E": 0, "D": 1, "C": 2, "B": 3, "A": 4}

// Parse validates raw input against a rule and returns the canonical value.
// Whitespace-only input is Absent, which is valid and distinct from invalid
// input. Invalid input returns ErrInvalidResult; nothing panics.
func Parse(raw string, rule subjects.Rule) (Optional, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return None(), nil
	}

	switch rule {
	case subjects.RuleNumeric:
		n, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) || n < 0 || n > 100 {
			return None(), ErrInvalidResult
		}
		return Some(formatScore(n)), nil

	case subjects.RuleGrade:
		up := strings.ToUpper(trimmed)
		if _, ok := gradeRanks[up]; !ok {
			return None(), ErrInvalidResult
		}
		return Some(up), nil

	case subjects.RulePass:
		if !strings.EqualFold(trimmed, "Pass") {
			return None(), ErrInvalidResult
		}
		return Some("Pass"), nil

	default:
		return None(), ErrUnknownRule
	}
}

// ClampRowBounds resolves ordering violations in place of storing them:
// whenever raw, lower and upper are all present and parseable, lower is
// clamped up to raw and upper down to raw under the rule's ordering. The
// original row is returned untouched when nothing changes.
func ClampRowBounds(row *SubjectRow) *SubjectRow {
	if !row.Raw.Present || !row.Lower.Present || !row.Upper.Present {
		return row
	}
	lower, upper := row.Lower, row.Upper
	if cmp, ok := compareValues(row.Rule, lower.Value, row.Raw.Value); ok && cmp > 0 {
		lower = row.Raw
	}
	if cmp, ok := compareValues(row.Rule, upper.Value, row.Raw.Value); ok && cmp < 0 {
		upper = row.Raw
	}
	if lower.Equal(row.Lower) && upper.Equal(row.Upper) {
		return row
	}
	out := row.clone()
	out.Lower = lower
	out.Upper = upper
	return out
}

// compareValues orders two canonical values under a rule. The second return
// is false when the rule has no defined ordering for the inputs.
func compareValues(rule subjects.Rule, a, b string) (int, bool) {
	switch rule {
	case subjects.RuleNumeric:
		av, errA := strconv.ParseFloat(a, 64)
		bv, errB := strconv.ParseFloat(b, 64)
		if errA != nil || errB != nil {
			return 0, false
		}
		switch {
		case av < bv:
			return -1, true
		case av > bv:
			return 1, true
		}
		return 0, true
	case subjects.RuleGrade:
		ar, okA := gradeRanks[strings.ToUpper(a)]
		br, okB := gradeRanks[strings.ToUpper(b)]
		if !okA || !okB {
			return 0, false
		}
		return ar - br, true
	case subjects.RulePass:
		// single-value scale, everything compares equal
		return 0, true
	}
	return 0, false
}

// formatScore renders a score without trailing zeros, so "075" and "75.0"
// both canonicalise to "75".
func formatScore(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

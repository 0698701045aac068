package engine

import (
	"strconv"

	"github.com/MirandaEdu/Tally/internal/subjects"
)

// ApplyVariation derives lower/upper bounds for every row from its raw result
// and a symmetric numeric variation. Pure: a new slice is returned, and a row
// keeps its original pointer when no field actually changes, so callers can
// detect updates by pointer comparison.
func ApplyVariation(rows []*SubjectRow, variation float64) []*SubjectRow {
	out := make([]*SubjectRow, len(rows))
	for i, row := range rows {
		out[i] = applyRowVariation(row, variation)
	}
	return out
}

func applyRowVariation(row *SubjectRow, variation float64) *SubjectRow {
	if !row.Subject.Present || row.Rule == subjects.RuleUnknown {
		return row
	}

	var lower, upper Optional
	switch row.Rule {
	case subjects.RuleNumeric:
		if !row.Raw.Present {
			return row
		}
		n, err := strconv.ParseFloat(row.Raw.Value, 64)
		if err != nil || n < 0 || n > 100 {
			// no fabricated range around an invalid result
			return row
		}
		lower = Some(formatScore(clamp(n-variation, 0, 100)))
		upper = Some(formatScore(clamp(n+variation, 0, 100)))

	case subjects.RuleGrade, subjects.RulePass:
		// ordinal and binary scales have no numeric margin
		lower, upper = row.Raw, row.Raw

	default:
		return row
	}

	if lower.Equal(row.Lower) && upper.Equal(row.Upper) {
		return row
	}
	out := row.clone()
	out.Lower = lower
	out.Upper = upper
	return out
}

// Bounds is the single-value variant used for cohort ranking: it derives a
// clamped symmetric range from one raw value. Unlike ApplyVariation there is
// no prior state to preserve, so an unparsable or absent value yields no
// bounds at all.
func Bounds(raw Optional, rule subjects.Rule, variation float64) (Optional, Optional) {
	if !raw.Present {
		return None(), None()
	}
	switch rule {
	case subjects.RuleNumeric:
		n, err := strconv.ParseFloat(raw.Value, 64)
		if err != nil || n < 0 || n > 100 {
			return None(), None()
		}
		return Some(formatScore(clamp(n-variation, 0, 100))),
			Some(formatScore(clamp(n+variation, 0, 100)))
	case subjects.RuleGrade, subjects.RulePass:
		return raw, raw
	}
	return None(), None()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

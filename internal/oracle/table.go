package oracle

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/MirandaEdu/Tally/internal/subjects"
)

// TableOracle computes scaled scores from the per-subject scaling parameters
// carried by the subject table: piecewise-linear interpolation over anchor
// points for numeric subjects, band scores for letter grades, a fixed score
// for pass results. It backs offline mode and tests.
type TableOracle struct {
	table *subjects.Table
}

// NewTableOracle creates a local oracle over the given subject table.
func NewTableOracle(table *subjects.Table) *TableOracle {
	return &TableOracle{table: table}
}

// Scale computes the scaled score for one raw value.
func (o *TableOracle) Scale(_ context.Context, subject, value string) (float64, error) {
	meta, ok := o.table.ByCanonicalName(subject)
	if !ok {
		return 0, fmt.Errorf("unknown subject %q", subject)
	}

	switch meta.Rule {
	case subjects.RuleNumeric:
		n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0, fmt.Errorf("subject %q: not a number: %q", subject, value)
		}
		return interpolate(meta.Scaling.Anchors, n)

	case subjects.RuleGrade:
		band := strings.ToUpper(strings.TrimSpace(value))
		score, ok := meta.Scaling.BandScores[band]
		if !ok {
			return 0, fmt.Errorf("subject %q: no band score for %q", subject, value)
		}
		return score, nil

	case subjects.RulePass:
		if !strings.EqualFold(strings.TrimSpace(value), "Pass") {
			return 0, fmt.Errorf("subject %q: expected Pass, got %q", subject, value)
		}
		if meta.Scaling.PassScore == nil {
			return 0, fmt.Errorf("subject %q: no pass score configured", subject)
		}
		return *meta.Scaling.PassScore, nil
	}
	return 0, fmt.Errorf("subject %q: unsupported rule %q", subject, meta.Rule)
}

// interpolate evaluates a piecewise-linear curve at x, clamping to the end
// anchors outside the covered range.
func interpolate(anchors []subjects.Anchor, x float64) (float64, error) {
	if len(anchors) == 0 {
		return 0, fmt.Errorf("no scaling anchors configured")
	}
	pts := make([]subjects.Anchor, len(anchors))
	copy(pts, anchors)
	sort.Slice(pts, func(i, j int) bool { return pts[i].Raw < pts[j].Raw })

	if x <= pts[0].Raw {
		return pts[0].Scaled, nil
	}
	if x >= pts[len(pts)-1].Raw {
		return pts[len(pts)-1].Scaled, nil
	}
	for i := 1; i < len(pts); i++ {
		if x <= pts[i].Raw {
			lo, hi := pts[i-1], pts[i]
			if hi.Raw == lo.Raw {
				return lo.Scaled, nil
			}
			frac := (x - lo.Raw) / (hi.Raw - lo.Raw)
			return lo.Scaled + frac*(hi.Scaled-lo.Scaled), nil
		}
	}
	return pts[len(pts)-1].Scaled, nil
}

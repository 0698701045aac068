package engine

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"github.com/MirandaEdu/Tally/internal/subjects"
)

// Scaler is the scaling oracle: it forward-transforms a (subject, raw value)
// pair into a scaled score. A returned error excludes the affected row or
// segment; it is never treated as fatal by the engine.
type Scaler interface {
	Scale(ctx context.Context, subject, value string) (float64, error)
}

// MetadataLookup resolves subject metadata. Rows that resolve to nothing are
// skipped, not failed.
type MetadataLookup interface {
	ByDisplayName(name string) (*subjects.Subject, bool)
	ByCanonicalName(name string) (*subjects.Subject, bool)
	TypeOf(name string) (subjects.Type, bool)
}

// singlePointOffset widens a zero-width range so it still renders as a
// visible sliver instead of collapsing to nothing.
const singlePointOffset = 0.5

// ChartDatum is one bar of a comparison chart, offset against the shared axis.
type ChartDatum struct {
	Subject       string   `json:"subject"`
	Base          float64  `json:"base"`
	MiddleSegment *float64 `json:"middle,omitempty"`
	UpperSegment  *float64 `json:"upper,omitempty"`
	LowerValue    float64  `json:"lower_value"`
	MiddleValue   float64  `json:"middle_value"`
	UpperValue    float64  `json:"upper_value"`
}

// Chart is the shared, clipped coordinate system for a set of subject rows.
// An empty Data slice with axis [0,100] is the defined result for "nothing to
// chart", not an error.
type Chart struct {
	Data    []ChartDatum `json:"data"`
	AxisMin float64      `json:"axis_min"`
	AxisMax float64      `json:"axis_max"`
}

// ChartBuilder normalizes per-subject scaled-score ranges onto one axis.
type ChartBuilder struct {
	oracle Scaler
	lookup MetadataLookup
	logger *slog.Logger
}

// NewChartBuilder creates a ChartBuilder over the given oracle and lookup.
func NewChartBuilder(oracle Scaler, lookup MetadataLookup, logger *slog.Logger) *ChartBuilder {
	return &ChartBuilder{oracle: oracle, lookup: lookup, logger: logger}
}

// resolvedRow carries one row's scaled triple before offsets are computed.
type resolvedRow struct {
	subject string
	lower   float64
	middle  float64
	upper   float64
}

// Build resolves, scales and normalizes the rows.
//
// In skipMiddle mode a row needs valid lower and upper bounds and the middle
// marker coincides with the lower bound. In standard mode a missing bound
// defaults to the middle value and inconsistent oracle output is clamped so
// lower <= middle <= upper always holds. Any oracle error excludes only the
// affected row, so a single bad segment cannot corrupt the shared axis.
func (b *ChartBuilder) Build(ctx context.Context, rows []*SubjectRow, rangeMode, skipMiddle bool) Chart {
	resolved := make([]resolvedRow, 0, len(rows))

	for _, row := range rows {
		if !row.Subject.Present || !row.Raw.Present {
			continue
		}
		meta, ok := b.lookup.ByDisplayName(row.Subject.Value)
		if !ok {
			b.logger.Warn("unmapped subject skipped", "subject", row.Subject.Value)
			continue
		}

		rr := resolvedRow{subject: meta.DisplayName}

		var haveMiddle bool
		if !skipMiddle {
			score, err := b.oracle.Scale(ctx, meta.Name, row.Raw.Value)
			if err != nil {
				b.logger.Warn("scaling failed, row excluded",
					"subject", meta.Name, "value", row.Raw.Value, "error", err)
				continue
			}
			rr.middle = score
			haveMiddle = true
		}

		lower, haveLower, ok := b.scaleBound(ctx, meta.Name, row.Lower)
		if !ok {
			continue
		}
		upper, haveUpper, ok := b.scaleBound(ctx, meta.Name, row.Upper)
		if !ok {
			continue
		}

		if skipMiddle {
			if !haveLower || !haveUpper {
				continue
			}
			rr.lower, rr.upper = lower, upper
			rr.middle = lower
		} else {
			if !haveMiddle {
				continue
			}
			if !haveLower {
				lower = rr.middle
			}
			if !haveUpper {
				upper = rr.middle
			}
			// repair inconsistent oracle output
			if lower > rr.middle {
				lower = rr.middle
			}
			if upper < rr.middle {
				upper = rr.middle
			}
			rr.lower, rr.upper = lower, upper
		}

		resolved = append(resolved, rr)
	}

	if len(resolved) == 0 {
		return Chart{Data: []ChartDatum{}, AxisMin: 0, AxisMax: 100}
	}

	minLower, maxUpper := resolved[0].lower, resolved[0].upper
	for _, rr := range resolved[1:] {
		minLower = math.Min(minLower, rr.lower)
		maxUpper = math.Max(maxUpper, rr.upper)
	}

	axisMin := math.Max(0, math.Floor(minLower/10)*10)
	axisMax := math.Min(100, math.Ceil(maxUpper/10)*10)
	if axisMax < axisMin {
		axisMax = 100
	}
	width := axisMax - axisMin

	data := make([]ChartDatum, 0, len(resolved))
	for _, rr := range resolved {
		d := ChartDatum{
			Subject:     rr.subject,
			LowerValue:  rr.lower,
			MiddleValue: rr.middle,
			UpperValue:  rr.upper,
		}

		if !rangeMode {
			d.Base = clamp(rr.middle-axisMin, 0, width)
			data = append(data, d)
			continue
		}

		// Without a middle marker the band always carries the sliver, not
		// just when it collapses to a point.
		adjUpper := rr.upper
		if skipMiddle || rr.lower == rr.upper {
			adjUpper += singlePointOffset
		}

		d.Base = math.Max(0, rr.lower-axisMin)
		var midSeg, upSeg float64
		if skipMiddle {
			midSeg = 0
			upSeg = math.Max(0, adjUpper-rr.lower)
		} else {
			midSeg = math.Max(0, rr.middle-rr.lower)
			upSeg = math.Max(0, adjUpper-rr.middle)
		}

		// on overflow only the upper segment shrinks, never base or middle
		if over := d.Base + midSeg + upSeg - width; over > 0 {
			upSeg = math.Max(0, upSeg-over)
		}

		d.MiddleSegment = &midSeg
		d.UpperSegment = &upSeg
		data = append(data, d)
	}

	sort.SliceStable(data, func(i, j int) bool {
		return data[i].MiddleValue > data[j].MiddleValue
	})

	return Chart{Data: data, AxisMin: axisMin, AxisMax: axisMax}
}

// scaleBound scales an optional bound. The last return is false when the
// oracle rejected a present bound, which excludes the whole row.
func (b *ChartBuilder) scaleBound(ctx context.Context, subject string, v Optional) (float64, bool, bool) {
	if !v.Present {
		return 0, false, true
	}
	score, err := b.oracle.Scale(ctx, subject, v.Value)
	if err != nil {
		b.logger.Warn("scaling bound failed, row excluded",
			"subject", subject, "value", v.Value, "error", err)
		return 0, false, false
	}
	return score, true, true
}

package engine

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/MirandaEdu/Tally/internal/subjects"
)

// StudentResult is one cohort entry: a subject identifier and the raw result
// achieved in it.
type StudentResult struct {
	Subject string `json:"subject"`
	Result  string `json:"result"`
}

// Ranker orders cohort results by scaled score.
type Ranker struct {
	oracle Scaler
	lookup MetadataLookup
	logger *slog.Logger
}

// NewRanker creates a Ranker over the given oracle and lookup.
func NewRanker(oracle Scaler, lookup MetadataLookup, logger *slog.Logger) *Ranker {
	return &Ranker{oracle: oracle, lookup: lookup, logger: logger}
}

// Rank converts each result into a subject row with derived bounds and sorts
// descending by scaled score. A result whose oracle call failed or produced
// no score sorts below every scored result, keeping input order among its
// peers. Every output row gets a fresh identity.
func (k *Ranker) Rank(ctx context.Context, results []StudentResult, variation float64) []*SubjectRow {
	rows := make([]*SubjectRow, 0, len(results))
	scores := make([]float64, 0, len(results))

	for _, res := range results {
		row := NewRow()

		display := res.Subject
		rule := subjects.RuleUnknown
		subjectType := subjects.Type("")
		canonical := res.Subject

		if meta, ok := k.lookup.ByCanonicalName(res.Subject); ok {
			display = meta.DisplayName
			rule = meta.Rule
			subjectType = meta.Type
			canonical = meta.Name
		} else {
			k.logger.Warn("unmapped subject in cohort", "subject", res.Subject)
		}

		row.Subject = Some(display)
		row.Rule = rule
		if trimmed := strings.TrimSpace(res.Result); trimmed != "" {
			row.Raw = Some(trimmed)
		}

		if subjectType == subjects.TypeGeneral {
			row.Lower, row.Upper = Bounds(row.Raw, rule, variation)
		} else {
			row.Lower, row.Upper = row.Raw, row.Raw
		}

		score := math.Inf(-1)
		if row.Raw.Present {
			if s, err := k.oracle.Scale(ctx, canonical, row.Raw.Value); err == nil {
				score = s
			} else {
				k.logger.Warn("scaling failed, result ranked last",
					"subject", canonical, "value", row.Raw.Value, "error", err)
			}
		}

		rows = append(rows, row)
		scores = append(scores, score)
	}

	order := make([]int, len(rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})

	out := make([]*SubjectRow, len(rows))
	for i, idx := range order {
		out[i] = rows[idx]
	}
	return out
}

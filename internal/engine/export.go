package engine

import "github.com/google/uuid"

// ExportRow is the external projection of a SubjectRow: identity and
// validation rules are stripped, only display values remain.
type ExportRow struct {
	Subject     string   `json:"subject"`
	Result      string   `json:"result,omitempty"`
	Lower       string   `json:"lower,omitempty"`
	Upper       string   `json:"upper,omitempty"`
	ScaledScore *float64 `json:"scaled_score,omitempty"`
}

// ProjectForExport flattens rows for document output. Range bounds are nulled
// out when rangeMode is off, and a scaled score is attached when the caller
// supplies one for the row's identity.
func ProjectForExport(rows []*SubjectRow, scores map[uuid.UUID]float64, rangeMode bool) []ExportRow {
	out := make([]ExportRow, 0, len(rows))
	for _, row := range rows {
		er := ExportRow{
			Subject: row.Subject.Value,
			Result:  row.Raw.Value,
		}
		if rangeMode {
			er.Lower = row.Lower.Value
			er.Upper = row.Upper.Value
		}
		if score, ok := scores[row.ID]; ok {
			s := score
			er.ScaledScore = &s
		}
		out = append(out, er)
	}
	return out
}

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MirandaEdu/Tally/internal/engine"
	"github.com/MirandaEdu/Tally/internal/subjects"
)

type RowsHandler struct {
	maxRows int
}

func NewRowsHandler(maxRows int) *RowsHandler {
	return &RowsHandler{maxRows: maxRows}
}

type ParseRequest struct {
	Value string        `json:"value"`
	Rule  subjects.Rule `json:"rule"`
}

type ParseResponse struct {
	Normalized engine.Optional `json:"normalized"`
	Valid      bool            `json:"valid"`
}

// Parse handles POST /api/v1/rows/parse. Rejected input is a 422 with a
// validation flag, not a server failure.
func (h *RowsHandler) Parse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	normalized, err := engine.Parse(req.Value, req.Rule)
	switch {
	case errors.Is(err, engine.ErrUnknownRule):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown validation rule"})
		return
	case errors.Is(err, engine.ErrInvalidResult):
		parseRejections.Inc()
		writeJSON(w, http.StatusUnprocessableEntity, ParseResponse{Normalized: engine.None(), Valid: false})
		return
	}
	writeJSON(w, http.StatusOK, ParseResponse{Normalized: normalized, Valid: true})
}

type VariationRequest struct {
	Rows      []*engine.SubjectRow `json:"rows"`
	Variation float64              `json:"variation"`
}

type VariationResponse struct {
	Rows    []*engine.SubjectRow `json:"rows"`
	Changed int                  `json:"changed"`
}

// Variation handles POST /api/v1/rows/variation.
func (h *RowsHandler) Variation(w http.ResponseWriter, r *http.Request) {
	var req VariationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if len(req.Rows) > h.maxRows {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "too many rows"})
		return
	}
	if req.Variation < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "variation must be non-negative"})
		return
	}

	out := engine.ApplyVariation(req.Rows, req.Variation)
	changed := 0
	for i := range out {
		if out[i] != req.Rows[i] {
			changed++
		}
	}
	writeJSON(w, http.StatusOK, VariationResponse{Rows: out, Changed: changed})
}

package api

import (
	"encoding/json"
	"net/http"

	"github.com/MirandaEdu/Tally/internal/engine"
	"github.com/MirandaEdu/Tally/internal/events"
)

type RankingsHandler struct {
	ranker           *engine.Ranker
	events           events.Client
	defaultVariation float64
}

func NewRankingsHandler(rk *engine.Ranker, ev events.Client, defaultVariation float64) *RankingsHandler {
	return &RankingsHandler{ranker: rk, events: ev, defaultVariation: defaultVariation}
}

type RankingRequest struct {
	Results   []engine.StudentResult `json:"results"`
	Variation *float64               `json:"variation,omitempty"`
}

type RankingResponse struct {
	Rows []*engine.SubjectRow `json:"rows"`
}

// Compute handles POST /api/v1/rankings.
func (h *RankingsHandler) Compute(w http.ResponseWriter, r *http.Request) {
	var req RankingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if len(req.Results) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "results required"})
		return
	}

	variation := h.defaultVariation
	if req.Variation != nil {
		if *req.Variation < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "variation must be non-negative"})
			return
		}
		variation = *req.Variation
	}

	rows := h.ranker.Rank(r.Context(), req.Results, variation)

	rankingsComputed.Inc()
	if h.events != nil {
		_ = h.events.Publish(events.SubjectRankingComputed(), events.RankingComputedEvent{
			Results:   len(req.Results),
			Variation: variation,
		})
	}

	writeJSON(w, http.StatusOK, RankingResponse{Rows: rows})
}

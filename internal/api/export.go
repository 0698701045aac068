package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/MirandaEdu/Tally/internal/engine"
)

type ExportHandler struct{}

func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

type ExportRequest struct {
	Rows      []*engine.SubjectRow `json:"rows"`
	Scores    map[string]float64   `json:"scores,omitempty"`
	RangeMode bool                 `json:"range_mode"`
}

type ExportResponse struct {
	Rows []engine.ExportRow `json:"rows"`
}

// Project handles POST /api/v1/export: the document-ready projection of rows,
// keyed by row identity for score attachment.
func (h *ExportHandler) Project(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	scores := make(map[uuid.UUID]float64, len(req.Scores))
	for key, score := range req.Scores {
		id, err := uuid.Parse(key)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid row id in scores: " + key})
			return
		}
		scores[id] = score
	}

	writeJSON(w, http.StatusOK, ExportResponse{
		Rows: engine.ProjectForExport(req.Rows, scores, req.RangeMode),
	})
}

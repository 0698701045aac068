package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MirandaEdu/Tally/internal/subjects"
)

type SubjectsHandler struct {
	table *subjects.Table
}

func NewSubjectsHandler(t *subjects.Table) *SubjectsHandler {
	return &SubjectsHandler{table: t}
}

// List handles GET /api/v1/subjects.
func (h *SubjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.table.All())
}

// Get handles GET /api/v1/subjects/{name}, matching canonical name first and
// display name second.
func (h *SubjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	s, ok := h.table.ByCanonicalName(name)
	if !ok {
		s, ok = h.table.ByDisplayName(name)
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "subject not found"})
		return
	}
	writeJSON(w, http.StatusOK, s)
}

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MirandaEdu/Tally/internal/engine"
	"github.com/MirandaEdu/Tally/internal/events"
	"github.com/MirandaEdu/Tally/internal/store"
)

type ComparisonsHandler struct {
	store   store.Store
	events  events.Client
	maxRows int
}

func NewComparisonsHandler(s store.Store, ev events.Client, maxRows int) *ComparisonsHandler {
	return &ComparisonsHandler{store: s, events: ev, maxRows: maxRows}
}

type SaveComparisonRequest struct {
	Name      string               `json:"name"`
	Owner     string               `json:"owner,omitempty"`
	Variation float64              `json:"variation"`
	RangeMode bool                 `json:"range_mode"`
	Rows      []*engine.SubjectRow `json:"rows"`
}

// normalizeRows assigns identities to new rows and resolves bound-ordering
// violations before anything reaches the store.
func (h *ComparisonsHandler) normalizeRows(rows []*engine.SubjectRow) []*engine.SubjectRow {
	out := make([]*engine.SubjectRow, len(rows))
	for i, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		out[i] = engine.ClampRowBounds(row)
	}
	return out
}

// Create handles POST /api/v1/comparisons.
func (h *ComparisonsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req SaveComparisonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name required"})
		return
	}
	if len(req.Rows) > h.maxRows {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "too many rows"})
		return
	}

	c := &store.Comparison{
		Name:      req.Name,
		Owner:     req.Owner,
		Variation: req.Variation,
		RangeMode: req.RangeMode,
		Rows:      h.normalizeRows(req.Rows),
	}
	if err := h.store.CreateComparison(r.Context(), c); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if h.events != nil {
		_ = h.events.Publish(events.SubjectComparisonCreated(c.ID.String()), events.ComparisonEvent{
			ComparisonID: c.ID.String(),
			Name:         c.Name,
			Owner:        c.Owner,
			RowCount:     len(c.Rows),
			Variation:    c.Variation,
			RangeMode:    c.RangeMode,
		})
	}
	writeJSON(w, http.StatusCreated, c)
}

// Get handles GET /api/v1/comparisons/{id}.
func (h *ComparisonsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	c, err := h.store.GetComparison(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if c == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "comparison not found"})
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// List handles GET /api/v1/comparisons.
func (h *ComparisonsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	list, err := h.store.ListComparisons(r.Context(), limit, offset)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if list == nil {
		list = []*store.Comparison{}
	}
	writeJSON(w, http.StatusOK, list)
}

// Update handles PUT /api/v1/comparisons/{id}.
func (h *ComparisonsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	var req SaveComparisonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name required"})
		return
	}
	if len(req.Rows) > h.maxRows {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "too many rows"})
		return
	}

	c := &store.Comparison{
		ID:        id,
		Name:      req.Name,
		Owner:     req.Owner,
		Variation: req.Variation,
		RangeMode: req.RangeMode,
		Rows:      h.normalizeRows(req.Rows),
	}
	if err := h.store.UpdateComparison(r.Context(), c); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "comparison not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if h.events != nil {
		_ = h.events.Publish(events.SubjectComparisonUpdated(id.String()), events.ComparisonEvent{
			ComparisonID: id.String(),
			Name:         c.Name,
			Owner:        c.Owner,
			RowCount:     len(c.Rows),
			Variation:    c.Variation,
			RangeMode:    c.RangeMode,
		})
	}
	writeJSON(w, http.StatusOK, c)
}

// Delete handles DELETE /api/v1/comparisons/{id}.
func (h *ComparisonsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	if err := h.store.DeleteComparison(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "comparison not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if h.events != nil {
		_ = h.events.Publish(events.SubjectComparisonDeleted(id.String()), events.ComparisonEvent{
			ComparisonID: id.String(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Stats handles GET /api/v1/stats.
func (h *ComparisonsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.GetStats(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

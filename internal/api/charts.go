package api

import (
	"encoding/json"
	"net/http"

	"github.com/MirandaEdu/Tally/internal/engine"
	"github.com/MirandaEdu/Tally/internal/events"
)

type ChartsHandler struct {
	builder *engine.ChartBuilder
	events  events.Client
	maxRows int
}

func NewChartsHandler(b *engine.ChartBuilder, ev events.Client, maxRows int) *ChartsHandler {
	return &ChartsHandler{builder: b, events: ev, maxRows: maxRows}
}

type ChartRequest struct {
	Rows       []*engine.SubjectRow `json:"rows"`
	RangeMode  bool                 `json:"range_mode"`
	SkipMiddle bool                 `json:"skip_middle"`
}

// Prepare handles POST /api/v1/charts. Rows that cannot be scaled are left
// out of the response; callers detect that by comparing lengths.
func (h *ChartsHandler) Prepare(w http.ResponseWriter, r *http.Request) {
	var req ChartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if len(req.Rows) > h.maxRows {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "too many rows"})
		return
	}

	chart := h.builder.Build(r.Context(), req.Rows, req.RangeMode, req.SkipMiddle)

	chartsPrepared.Inc()
	if excluded := len(req.Rows) - len(chart.Data); excluded > 0 {
		chartRowsExcluded.Add(float64(excluded))
	}
	if h.events != nil {
		_ = h.events.Publish(events.SubjectChartPrepared(), events.ChartPreparedEvent{
			RowsIn:     len(req.Rows),
			RowsOut:    len(chart.Data),
			AxisMin:    chart.AxisMin,
			AxisMax:    chart.AxisMax,
			RangeMode:  req.RangeMode,
			SkipMiddle: req.SkipMiddle,
		})
	}

	writeJSON(w, http.StatusOK, chart)
}

package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MirandaEdu/Tally/internal/config"
	"github.com/MirandaEdu/Tally/internal/engine"
	"github.com/MirandaEdu/Tally/internal/events"
	"github.com/MirandaEdu/Tally/internal/store"
	"github.com/MirandaEdu/Tally/internal/subjects"
)

func NewRouter(s store.Store, ev events.Client, builder *engine.ChartBuilder, ranker *engine.Ranker, table *subjects.Table, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(120))

	rows := NewRowsHandler(cfg.Engine.MaxRows)
	charts := NewChartsHandler(builder, ev, cfg.Engine.MaxRows)
	rankings := NewRankingsHandler(ranker, ev, cfg.Engine.DefaultVariation)
	export := NewExportHandler()
	subj := NewSubjectsHandler(table)
	comparisons := NewComparisonsHandler(s, ev, cfg.Engine.MaxRows)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/rows/parse", rows.Parse)
		r.Post("/rows/variation", rows.Variation)
		r.Post("/charts", charts.Prepare)
		r.Post("/rankings", rankings.Compute)
		r.Post("/export", export.Project)

		r.Get("/subjects", subj.List)
		r.Get("/subjects/{name}", subj.Get)

		r.Post("/comparisons", comparisons.Create)
		r.Get("/comparisons", comparisons.List)
		r.Get("/comparisons/{id}", comparisons.Get)
		r.Put("/comparisons/{id}", comparisons.Update)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.Server.AdminToken))
			r.Delete("/comparisons/{id}", comparisons.Delete)
			r.Get("/stats", comparisons.Stats)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(runs *RunsHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(runs.logger))
	r.Use(RateLimitMiddleware(120))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/runs", runs.Create)
		r.Get("/runs", runs.List)
		r.Get("/runs/{id}", runs.Get)
		r.Get("/runs/{id}/results", runs.Results)
		r.Get("/runs/{id}/analysis", runs.Analysis)
		r.Get("/runs/{id}/results.csv", runs.ResultsCSV)
		r.Get("/runs/{id}/summary.md", runs.Summary)
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

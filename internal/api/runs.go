package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ls-cnr/q2s-experiment/internal/analysis"
	"github.com/ls-cnr/q2s-experiment/internal/report"
	"github.com/ls-cnr/q2s-experiment/internal/store"
	"github.com/ls-cnr/q2s-experiment/internal/sweep"
)

// RunsHandler exposes sweep runs over HTTP. Sweeps execute in the
// background against baseCtx, so they survive the request that started them.
type RunsHandler struct {
	store         store.Store
	runner        *sweep.Runner
	baseCtx       context.Context
	defaultSeed   int64
	randomRuns    int
	dimensionKeys []string
	logger        *slog.Logger
}

func NewRunsHandler(s store.Store, runner *sweep.Runner, baseCtx context.Context,
	defaultSeed int64, randomRuns int, dimensionKeys []string, logger *slog.Logger) *RunsHandler {
	return &RunsHandler{
		store:         s,
		runner:        runner,
		baseCtx:       baseCtx,
		defaultSeed:   defaultSeed,
		randomRuns:    randomRuns,
		dimensionKeys: dimensionKeys,
		logger:        logger,
	}
}

type CreateRunRequest struct {
	Seed *int64 `json:"seed,omitempty"`
}

func (h *RunsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRunRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
	}

	seed := h.defaultSeed
	if req.Seed != nil {
		seed = *req.Seed
	}

	run := &store.Run{
		Status:         store.StatusPending,
		Seed:           seed,
		RandomRuns:     h.randomRuns,
		TotalScenarios: h.runner.ScenarioCount(),
	}
	if err := h.store.CreateRun(r.Context(), run); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	// Execute mutates the run record as the sweep progresses; respond with a
	// snapshot taken before the background goroutine starts.
	accepted := *run
	go func() {
		if err := h.runner.Execute(h.baseCtx, run); err != nil {
			h.logger.Error("background sweep failed", "run_id", run.ID, "error", err)
		}
	}()

	writeJSON(w, http.StatusAccepted, accepted)
}

func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := store.RunFilter{}
	if s := r.URL.Query().Get("status"); s != "" {
		status := store.RunStatus(s)
		filter.Status = &status
	}

	runs, err := h.store.ListRuns(r.Context(), filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if runs == nil {
		runs = []*store.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (h *RunsHandler) Get(w http.ResponseWriter, r *http.Request) {
	run, ok := h.lookupRun(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (h *RunsHandler) Results(w http.ResponseWriter, r *http.Request) {
	run, ok := h.lookupRun(w, r)
	if !ok {
		return
	}

	results, err := h.store.GetResults(r.Context(), run.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *RunsHandler) Analysis(w http.ResponseWriter, r *http.Request) {
	run, ok := h.lookupRun(w, r)
	if !ok {
		return
	}

	results, err := h.store.GetResults(r.Context(), run.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	rep, err := analysis.Analyze(results)
	if err != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (h *RunsHandler) ResultsCSV(w http.ResponseWriter, r *http.Request) {
	run, ok := h.lookupRun(w, r)
	if !ok {
		return
	}

	results, err := h.store.GetResults(r.Context(), run.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="results.csv"`)
	if err := report.WriteResultsCSV(w, h.dimensionKeys, results); err != nil {
		h.logger.Error("failed to stream results csv", "run_id", run.ID, "error", err)
	}
}

func (h *RunsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	run, ok := h.lookupRun(w, r)
	if !ok {
		return
	}

	results, err := h.store.GetResults(r.Context(), run.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	rep, err := analysis.Analyze(results)
	if err != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "text/markdown")
	if err := report.WriteMarkdownSummary(w, rep); err != nil {
		h.logger.Error("failed to stream summary", "run_id", run.ID, "error", err)
	}
}

func (h *RunsHandler) lookupRun(w http.ResponseWriter, r *http.Request) (*store.Run, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid run id"})
		return nil, false
	}

	run, err := h.store.GetRun(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return nil, false
	}
	if run == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "run not found"})
		return nil, false
	}
	return run, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

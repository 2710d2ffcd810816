// Package sweep runs a full scenario sweep: every scenario in the space is
// evaluated by a bounded worker pool, results are persisted, and progress is
// published while the run is in flight.
package sweep

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ls-cnr/q2s-experiment/internal/analysis"
	"github.com/ls-cnr/q2s-experiment/internal/events"
	"github.com/ls-cnr/q2s-experiment/internal/report"
	"github.com/ls-cnr/q2s-experiment/internal/scenario"
	"github.com/ls-cnr/q2s-experiment/internal/store"
)

type Runner struct {
	store     store.Store
	events    events.Client // nil disables publishing
	evaluator *scenario.Evaluator
	scenarios []scenario.Scenario
	logger    *slog.Logger

	workers          int
	progressInterval time.Duration

	// Report output; empty reportDir disables file export.
	reportDir     string
	dimensionKeys []string
}

func NewRunner(s store.Store, ev events.Client, evaluator *scenario.Evaluator, scenarios []scenario.Scenario,
	workers int, progressInterval time.Duration, reportDir string, dimensionKeys []string, logger *slog.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	if progressInterval <= 0 {
		progressInterval = 2 * time.Second
	}
	return &Runner{
		store:            s,
		events:           ev,
		evaluator:        evaluator,
		scenarios:        scenarios,
		logger:           logger,
		workers:          workers,
		progressInterval: progressInterval,
		reportDir:        reportDir,
		dimensionKeys:    dimensionKeys,
	}
}

func (r *Runner) ScenarioCount() int { return len(r.scenarios) }

// Execute evaluates the whole scenario space for one run. Each scenario gets
// its own rng seeded from the run seed plus the scenario id, so results are
// reproducible regardless of worker scheduling. The run record is updated
// through its lifecycle; the error return covers evaluation and persistence
// failures after the run has been marked failed.
func (r *Runner) Execute(ctx context.Context, run *store.Run) error {
	start := time.Now()
	startedAt := start.UTC()
	run.Status = store.StatusRunning
	run.StartedAt = &startedAt
	run.TotalScenarios = len(r.scenarios)
	if err := r.store.UpdateRun(ctx, run); err != nil {
		return err
	}

	r.publish(events.SubjectRunStarted(run.ID.String()), events.RunStartedEvent{
		RunID:          run.ID.String(),
		TotalScenarios: run.TotalScenarios,
		Seed:           run.Seed,
		Timestamp:      startedAt,
	})
	r.logger.Info("sweep started",
		"run_id", run.ID,
		"scenarios", run.TotalScenarios,
		"workers", r.workers,
		"seed", run.Seed)

	var completed atomic.Int64
	progressDone := make(chan struct{})
	var progressWG sync.WaitGroup
	progressWG.Add(1)
	go func() {
		defer progressWG.Done()
		r.progressLoop(ctx, run, &completed, progressDone)
	}()

	results := make([]*scenario.Result, len(r.scenarios))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i := range r.scenarios {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sc := r.scenarios[i]
			rng := rand.New(rand.NewSource(run.Seed + int64(sc.ID)))
			res, err := r.evaluator.Evaluate(sc, rng)
			if err != nil {
				return err
			}
			results[i] = res
			if len(res.Diagnostics) > 0 {
				res.Diagnostics.Log(r.logger.With("run_id", run.ID, "scenario_id", sc.ID))
			}
			completed.Add(1)
			scenariosEvaluated.Inc()
			return nil
		})
	}

	err := g.Wait()
	// The progress loop reads run through a shared pointer; it must be gone
	// before the finalization below mutates the record.
	close(progressDone)
	progressWG.Wait()
	if err == nil {
		err = r.store.SaveResults(ctx, run.ID, results)
	}

	finishedAt := time.Now().UTC()
	run.CompletedScenarios = int(completed.Load())
	run.CompletedAt = &finishedAt

	if err != nil {
		run.Status = store.StatusFailed
		run.Error = err.Error()
		if updateErr := r.store.UpdateRun(ctx, run); updateErr != nil {
			r.logger.Error("failed to mark run failed", "run_id", run.ID, "error", updateErr)
		}
		r.publish(events.SubjectRunFailed(run.ID.String()), events.RunFailedEvent{
			RunID:     run.ID.String(),
			Error:     err.Error(),
			Timestamp: finishedAt,
		})
		runsTotal.WithLabelValues(string(store.StatusFailed)).Inc()
		r.logger.Error("sweep failed", "run_id", run.ID, "error", err)
		return err
	}

	run.Status = store.StatusCompleted
	if err := r.store.UpdateRun(ctx, run); err != nil {
		return err
	}

	r.writeReport(run, results)

	elapsed := time.Since(start)
	r.publish(events.SubjectRunCompleted(run.ID.String()), events.RunCompletedEvent{
		RunID:          run.ID.String(),
		TotalScenarios: run.TotalScenarios,
		DurationMs:     elapsed.Milliseconds(),
		Timestamp:      finishedAt,
	})
	runsTotal.WithLabelValues(string(store.StatusCompleted)).Inc()
	runDuration.Observe(elapsed.Seconds())
	r.logger.Info("sweep completed",
		"run_id", run.ID,
		"scenarios", run.TotalScenarios,
		"duration_ms", elapsed.Milliseconds())
	return nil
}

// writeReport exports the results CSV and markdown summary under the
// configured report directory. Export failures are logged, never fatal: the
// results are already persisted in the store.
func (r *Runner) writeReport(run *store.Run, results []*scenario.Result) {
	if r.reportDir == "" {
		return
	}
	rep, err := analysis.Analyze(results)
	if err != nil {
		r.logger.Warn("failed to analyze results for report", "run_id", run.ID, "error", err)
		return
	}
	if err := report.Save(r.reportDir, run.ID.String(), r.dimensionKeys, results, rep); err != nil {
		r.logger.Warn("failed to write report files", "run_id", run.ID, "error", err)
		return
	}
	r.logger.Info("report written", "run_id", run.ID, "dir", r.reportDir)
}

func (r *Runner) progressLoop(ctx context.Context, run *store.Run, completed *atomic.Int64, done <-chan struct{}) {
	ticker := time.NewTicker(r.progressInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			n := int(completed.Load())
			snapshot := *run
			snapshot.CompletedScenarios = n
			if err := r.store.UpdateRun(ctx, &snapshot); err != nil {
				r.logger.Warn("failed to update run progress", "run_id", run.ID, "error", err)
			}
			r.publish(events.SubjectRunProgress(run.ID.String()), events.RunProgressEvent{
				RunID:              run.ID.String(),
				CompletedScenarios: n,
				TotalScenarios:     run.TotalScenarios,
				Timestamp:          time.Now().UTC(),
			})
		}
	}
}

func (r *Runner) publish(subject string, payload interface{}) {
	if r.events == nil {
		return
	}
	if err := r.events.Publish(subject, payload); err != nil {
		r.logger.Warn("failed to publish event", "subject", subject, "error", err)
	}
}

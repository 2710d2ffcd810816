package sweep

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	scenariosEvaluated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "q2s_scenarios_evaluated_total",
		Help: "Number of scenarios evaluated across all runs.",
	})
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "q2s_runs_total",
		Help: "Number of sweep runs by final status.",
	}, []string{"status"})
	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "q2s_run_duration_seconds",
		Help:    "Wall-clock duration of completed sweep runs.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	})
)

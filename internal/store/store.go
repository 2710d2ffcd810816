package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ls-cnr/q2s-experiment/internal/scenario"
)

type RunStatus string

const (
	StatusPending   RunStatus = "pending"
	StatusRunning   RunStatus = "running"
	StatusCompleted RunStatus = "completed"
	StatusFailed    RunStatus = "failed"
)

// Run is one sweep over the configured scenario space.
type Run struct {
	ID     uuid.UUID `json:"run_id"`
	Status RunStatus `json:"status"`

	// Reproducibility
	Seed       int64 `json:"seed"`
	RandomRuns int   `json:"random_runs"`

	// Progress
	TotalScenarios     int `json:"total_scenarios"`
	CompletedScenarios int `json:"completed_scenarios"`

	Error string `json:"error,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type RunFilter struct {
	Status *RunStatus
	Limit  int
	Offset int
}

type Store interface {
	CreateRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, id uuid.UUID) (*Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]*Run, error)
	UpdateRun(ctx context.Context, run *Run) error

	SaveResults(ctx context.Context, runID uuid.UUID, results []*scenario.Result) error
	GetResults(ctx context.Context, runID uuid.UUID) ([]*scenario.Result, error)

	Close() error
}

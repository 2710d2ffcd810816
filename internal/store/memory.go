package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ls-cnr/q2s-experiment/internal/scenario"
)

// MemoryStore keeps runs and results in process memory. It backs the
// service when no database is configured and doubles as the test store.
type MemoryStore struct {
	mu      sync.RWMutex
	runs    map[uuid.UUID]*Run
	results map[uuid.UUID][]*scenario.Result
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		runs:    make(map[uuid.UUID]*Run),
		results: make(map[uuid.UUID][]*scenario.Result),
	}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) CreateRun(_ context.Context, run *Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	run.ID = uuid.New()
	now := time.Now().UTC()
	run.CreatedAt = now
	run.UpdatedAt = now

	stored := *run
	s.runs[run.ID] = &stored
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id uuid.UUID) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return nil, nil
	}
	copied := *run
	return &copied, nil
}

func (s *MemoryStore) ListRuns(_ context.Context, filter RunFilter) ([]*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var runs []*Run
	for _, run := range s.runs {
		if filter.Status != nil && run.Status != *filter.Status {
			continue
		}
		copied := *run
		runs = append(runs, &copied)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(runs) {
			return nil, nil
		}
		runs = runs[filter.Offset:]
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	if len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

func (s *MemoryStore) UpdateRun(_ context.Context, run *Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.runs[run.ID]
	if !ok {
		return nil
	}
	updated := *run
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	s.runs[run.ID] = &updated
	return nil
}

func (s *MemoryStore) SaveResults(_ context.Context, runID uuid.UUID, results []*scenario.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.results[runID] = append(s.results[runID], results...)
	return nil
}

func (s *MemoryStore) GetResults(_ context.Context, runID uuid.UUID) ([]*scenario.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*scenario.Result, len(s.results[runID]))
	copy(results, s.results[runID])
	sort.Slice(results, func(i, j int) bool {
		return results[i].ScenarioID < results[j].ScenarioID
	})
	return results, nil
}

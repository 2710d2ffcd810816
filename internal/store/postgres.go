package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ls-cnr/q2s-experiment/internal/scenario"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const runColumns = `run_id, status, seed, random_runs,
	total_scenarios, completed_scenarios, error,
	created_at, started_at, completed_at, updated_at`

func (s *PostgresStore) CreateRun(ctx context.Context, run *Run) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO q2s_runs (status, seed, random_runs, total_scenarios)
		VALUES ($1, $2, $3, $4)
		RETURNING run_id, created_at, updated_at`,
		run.Status, run.Seed, run.RandomRuns, run.TotalScenarios,
	).Scan(&run.ID, &run.CreatedAt, &run.UpdatedAt)
}

func (s *PostgresStore) GetRun(ctx context.Context, id uuid.UUID) (*Run, error) {
	r := &Run{}
	var runError sql.NullString
	err := s.pool.QueryRow(ctx, `
		SELECT `+runColumns+`
		FROM q2s_runs WHERE run_id = $1`, id,
	).Scan(
		&r.ID, &r.Status, &r.Seed, &r.RandomRuns,
		&r.TotalScenarios, &r.CompletedScenarios, &runError,
		&r.CreatedAt, &r.StartedAt, &r.CompletedAt, &r.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if runError.Valid {
		r.Error = runError.String
	}
	return r, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]*Run, error) {
	query := `SELECT ` + runColumns + ` FROM q2s_runs WHERE 1=1`
	args := []interface{}{}
	n := 0

	if filter.Status != nil {
		n++
		query += fmt.Sprintf(" AND status = $%d", n)
		args = append(args, string(*filter.Status))
	}

	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	n++
	query += fmt.Sprintf(" LIMIT $%d", n)
	args = append(args, limit)

	if filter.Offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r := &Run{}
		var runError sql.NullString
		if err := rows.Scan(
			&r.ID, &r.Status, &r.Seed, &r.RandomRuns,
			&r.TotalScenarios, &r.CompletedScenarios, &runError,
			&r.CreatedAt, &r.StartedAt, &r.CompletedAt, &r.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if runError.Valid {
			r.Error = runError.String
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (s *PostgresStore) UpdateRun(ctx context.Context, run *Run) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE q2s_runs SET
			status = $2, completed_scenarios = $3, error = $4,
			started_at = $5, completed_at = $6, updated_at = now()
		WHERE run_id = $1`,
		run.ID, run.Status, run.CompletedScenarios, run.Error,
		run.StartedAt, run.CompletedAt,
	)
	return err
}

// SaveResults batch-inserts scenario results for a run. The strategy
// outcomes and the scenario coordinates travel as JSON so the schema stays
// stable when the scenario space changes shape.
func (s *PostgresStore) SaveResults(ctx context.Context, runID uuid.UUID, results []*scenario.Result) error {
	batch := &pgx.Batch{}
	for _, res := range results {
		payload, err := json.Marshal(res)
		if err != nil {
			return fmt.Errorf("marshal result %d: %w", res.ScenarioID, err)
		}
		batch.Queue(`
			INSERT INTO q2s_results (run_id, scenario_id, alpha, severity, num_valid_plans, payload)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			runID, res.ScenarioID, res.Alpha, res.Severity, res.NumValidPlans, payload)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range results {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert results for run %s: %w", runID, err)
		}
	}
	return nil
}

func (s *PostgresStore) GetResults(ctx context.Context, runID uuid.UUID) ([]*scenario.Result, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT payload FROM q2s_results
		WHERE run_id = $1
		ORDER BY scenario_id ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*scenario.Result
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		res := &scenario.Result{}
		if err := json.Unmarshal(payload, res); err != nil {
			return nil, fmt.Errorf("unmarshal result for run %s: %w", runID, err)
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

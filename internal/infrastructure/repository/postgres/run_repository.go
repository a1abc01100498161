package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"contextlab/internal/core/domain"
)

type RunRepository struct {
	db *sql.DB
}

func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *RunRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082901)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS experiment_runs (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	mode TEXT NOT NULL,
	dataset TEXT NOT NULL,
	status TEXT NOT NULL,
	total_score INTEGER NOT NULL DEFAULT 0,
	max_score INTEGER NOT NULL DEFAULT 0,
	success_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
	total_tokens INTEGER NOT NULL DEFAULT 0,
	tokens_saved INTEGER NOT NULL DEFAULT 0,
	error_message TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS experiment_cases (
	run_id TEXT NOT NULL REFERENCES experiment_runs(id) ON DELETE CASCADE,
	case_index INTEGER NOT NULL,
	input TEXT NOT NULL,
	strategy TEXT NOT NULL,
	output TEXT NOT NULL,
	extraction JSONB,
	score INTEGER NOT NULL,
	reason TEXT,
	estimated_tokens INTEGER NOT NULL DEFAULT 0,
	prediction JSONB,
	PRIMARY KEY (run_id, case_index)
);

CREATE INDEX IF NOT EXISTS idx_experiment_runs_status ON experiment_runs(status);
CREATE INDEX IF NOT EXISTS idx_experiment_runs_created_at ON experiment_runs(created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *RunRepository) Create(ctx context.Context, run *domain.ExperimentRun) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO experiment_runs (
	id, name, mode, dataset, status, total_score, max_score, success_rate, total_tokens, tokens_saved, error_message, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
`,
		run.ID, run.Name, string(run.Mode), run.Dataset, string(run.Status),
		run.TotalScore, run.MaxScore, run.SuccessRate, run.TotalTokens, run.TokensSaved,
		run.Error, run.CreatedAt, run.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

func (r *RunRepository) GetByID(ctx context.Context, id string) (*domain.ExperimentRun, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, name, mode, dataset, status, total_score, max_score, success_rate, total_tokens, tokens_saved, error_message, created_at, updated_at
FROM experiment_runs
WHERE id = $1
`, id)

	var run domain.ExperimentRun
	var mode, status string

	err := row.Scan(
		&run.ID, &run.Name, &mode, &run.Dataset, &status,
		&run.TotalScore, &run.MaxScore, &run.SuccessRate, &run.TotalTokens, &run.TokensSaved,
		&run.Error, &run.CreatedAt, &run.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrRunNotFound, "get run", fmt.Errorf("id %s", id))
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}

	run.Mode = domain.RunMode(mode)
	run.Status = domain.RunStatus(status)
	return &run, nil
}

func (r *RunRepository) UpdateStatus(ctx context.Context, id string, status domain.RunStatus, errMessage string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE experiment_runs
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1
`, id, string(status), errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update run status: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return domain.WrapError(domain.ErrRunNotFound, "update run status", fmt.Errorf("id %s", id))
	}
	return nil
}

func (r *RunRepository) SaveSummary(ctx context.Context, id string, summary domain.RunSummary) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE experiment_runs
SET total_score = $2, max_score = $3, success_rate = $4, total_tokens = $5, tokens_saved = $6, updated_at = $7
WHERE id = $1
`, id, summary.TotalScore, summary.MaxScore, summary.SuccessRate, summary.TotalTokens, summary.TokensSaved, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save run summary: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return domain.WrapError(domain.ErrRunNotFound, "save run summary", fmt.Errorf("id %s", id))
	}
	return nil
}

func (r *RunRepository) AppendCases(ctx context.Context, runID string, cases []domain.CaseResult) error {
	if len(cases) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cases tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, c := range cases {
		extraction, err := nullableJSON(c.Extraction)
		if err != nil {
			return fmt.Errorf("marshal extraction: %w", err)
		}
		prediction, err := nullableJSON(c.Prediction)
		if err != nil {
			return fmt.Errorf("marshal prediction: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
INSERT INTO experiment_cases (
	run_id, case_index, input, strategy, output, extraction, score, reason, estimated_tokens, prediction
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
`,
			runID, c.CaseIndex, c.Input, string(c.Strategy), c.Output,
			extraction, c.Score, c.Reason, c.EstimatedTokens, prediction,
		); err != nil {
			return fmt.Errorf("insert case %d: %w", c.CaseIndex, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cases tx: %w", err)
	}
	return nil
}

func (r *RunRepository) ListCases(ctx context.Context, runID string) ([]domain.CaseResult, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT run_id, case_index, input, strategy, output, extraction, score, reason, estimated_tokens, prediction
FROM experiment_cases
WHERE run_id = $1
ORDER BY case_index
`, runID)
	if err != nil {
		return nil, fmt.Errorf("query cases: %w", err)
	}
	defer rows.Close()

	var out []domain.CaseResult
	for rows.Next() {
		var c domain.CaseResult
		var strategy string
		var extraction, prediction []byte

		if err := rows.Scan(
			&c.RunID, &c.CaseIndex, &c.Input, &strategy, &c.Output,
			&extraction, &c.Score, &c.Reason, &c.EstimatedTokens, &prediction,
		); err != nil {
			return nil, fmt.Errorf("scan case: %w", err)
		}
		c.Strategy = domain.Strategy(strategy)

		if len(extraction) > 0 {
			c.Extraction = &domain.Extraction{}
			if err := json.Unmarshal(extraction, c.Extraction); err != nil {
				return nil, fmt.Errorf("unmarshal extraction: %w", err)
			}
		}
		if len(prediction) > 0 {
			c.Prediction = &domain.Prediction{}
			if err := json.Unmarshal(prediction, c.Prediction); err != nil {
				return nil, fmt.Errorf("unmarshal prediction: %w", err)
			}
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cases: %w", err)
	}
	return out, nil
}

func nullableJSON(v any) (any, error) {
	switch t := v.(type) {
	case *domain.Extraction:
		if t == nil {
			return nil, nil
		}
	case *domain.Prediction:
		if t == nil {
			return nil, nil
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return data, nil
}

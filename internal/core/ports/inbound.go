package ports

import (
	"context"

	"contextlab/internal/core/domain"
)

// ExperimentScheduler creates a run record and hands it to the queue.
type ExperimentScheduler interface {
	Schedule(ctx context.Context, name string, mode domain.RunMode, dataset string) (*domain.ExperimentRun, error)
}

// ExperimentRunner executes a queued run to completion.
type ExperimentRunner interface {
	RunByID(ctx context.Context, runID string) error
}

// RunReader is the inbound read model for run state.
type RunReader interface {
	GetByID(ctx context.Context, id string) (*domain.ExperimentRun, error)
	ListCases(ctx context.Context, runID string) ([]domain.CaseResult, error)
}

// Advisor exposes the heuristic decision helpers without touching the
// model provider.
type Advisor interface {
	PredictStrategy(text string) domain.Prediction
	ClassifyTask(prompt string) domain.TaskRecommendation
	ScoreOutput(output string) (int, *domain.Extraction, string)
}

// StrategyComparer runs every strategy arm plus adaptive selection over a
// dataset and produces the comparison report.
type StrategyComparer interface {
	Compare(ctx context.Context, dataset string) (*domain.ComparisonReport, error)
}

package ports

import (
	"context"

	"contextlab/internal/core/domain"
)

// RunRepository persists and reads experiment run state.
type RunRepository interface {
	Create(ctx context.Context, run *domain.ExperimentRun) error
	GetByID(ctx context.Context, id string) (*domain.ExperimentRun, error)
	UpdateStatus(ctx context.Context, id string, status domain.RunStatus, errMessage string) error
	SaveSummary(ctx context.Context, id string, summary domain.RunSummary) error
	AppendCases(ctx context.Context, runID string, cases []domain.CaseResult) error
	ListCases(ctx context.Context, runID string) ([]domain.CaseResult, error)
}

// RunQueue publishes/consumes queued experiment runs.
type RunQueue interface {
	PublishRunQueued(ctx context.Context, runID string) error
	SubscribeRunQueued(ctx context.Context, handler func(context.Context, string) error) error
}

// CompletionClient submits a fully built prompt to the model provider and
// returns the raw reply text.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// DatasetSource resolves a dataset name to its review sentences.
type DatasetSource interface {
	Sentences(name string) ([]string, error)
}

// StrategyPredictor decides which prompt strategy to use for an input.
type StrategyPredictor interface {
	Predict(text string) domain.Prediction
}

// ReportSink persists generated comparison reports as files.
type ReportSink interface {
	WriteJSON(report *domain.ComparisonReport) (string, error)
	WriteXLSX(report *domain.ComparisonReport) (string, error)
}

package usecase

import (
	"context"
	"fmt"

	"contextlab/internal/core/domain"
	"contextlab/internal/core/ports"
	"contextlab/internal/prompt"
	"contextlab/internal/score"
)

type RunExperimentUseCase struct {
	repo      ports.RunRepository
	datasets  ports.DatasetSource
	llm       ports.CompletionClient
	predictor ports.StrategyPredictor
}

func NewRunExperimentUseCase(
	repo ports.RunRepository,
	datasets ports.DatasetSource,
	llm ports.CompletionClient,
	predictor ports.StrategyPredictor,
) *RunExperimentUseCase {
	return &RunExperimentUseCase{
		repo:      repo,
		datasets:  datasets,
		llm:       llm,
		predictor: predictor,
	}
}

// RunByID executes one queued experiment run: every dataset sentence is
// prompted, scored against the extraction schema and persisted.
func (uc *RunExperimentUseCase) RunByID(ctx context.Context, runID string) error {
	run, err := uc.repo.GetByID(ctx, runID)
	if err != nil {
		return fmt.Errorf("fetch run by id: %w", err)
	}

	if err := uc.repo.UpdateStatus(ctx, runID, domain.RunRunning, ""); err != nil {
		return fmt.Errorf("set status=running: %w", err)
	}

	cases, summary, err := uc.execute(ctx, run)
	if err != nil {
		if failErr := uc.markFailed(ctx, runID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.repo.AppendCases(ctx, runID, cases); err != nil {
		if failErr := uc.markFailed(ctx, runID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return fmt.Errorf("append cases: %w", err)
	}
	if err := uc.repo.SaveSummary(ctx, runID, summary); err != nil {
		return fmt.Errorf("save summary: %w", err)
	}
	if err := uc.repo.UpdateStatus(ctx, runID, domain.RunCompleted, ""); err != nil {
		return fmt.Errorf("set status=completed: %w", err)
	}
	return nil
}

func (uc *RunExperimentUseCase) execute(ctx context.Context, run *domain.ExperimentRun) ([]domain.CaseResult, domain.RunSummary, error) {
	sentences, err := uc.datasets.Sentences(run.Dataset)
	if err != nil {
		return nil, domain.RunSummary{}, fmt.Errorf("resolve dataset: %w", err)
	}

	pick := uc.picker(run.Mode)
	cases, summary, err := evaluateSentences(ctx, uc.llm, run.ID, sentences, pick)
	if err != nil {
		return nil, domain.RunSummary{}, err
	}
	return cases, summary, nil
}

// picker binds the run mode to a per-sentence strategy choice: a fixed
// strategy for plain runs, the heuristic predictor for smart runs.
func (uc *RunExperimentUseCase) picker(mode domain.RunMode) armPicker {
	if mode == domain.ModeSmart {
		return func(sentence string) (domain.Strategy, *domain.Prediction) {
			pred := uc.predictor.Predict(sentence)
			return pred.Strategy, &pred
		}
	}
	fixed := domain.Strategy(mode)
	return func(string) (domain.Strategy, *domain.Prediction) {
		return fixed, nil
	}
}

func (uc *RunExperimentUseCase) markFailed(ctx context.Context, runID string, runErr error) error {
	if runErr == nil {
		return nil
	}
	return uc.repo.UpdateStatus(ctx, runID, domain.RunFailed, runErr.Error())
}

// armPicker chooses the strategy for one sentence, returning the
// prediction when the choice was adaptive.
type armPicker func(sentence string) (domain.Strategy, *domain.Prediction)

func evaluateSentences(
	ctx context.Context,
	llm ports.CompletionClient,
	runID string,
	sentences []string,
	pick armPicker,
) ([]domain.CaseResult, domain.RunSummary, error) {
	var cases []domain.CaseResult
	var summary domain.RunSummary

	for i, sentence := range sentences {
		if err := ctx.Err(); err != nil {
			return nil, domain.RunSummary{}, err
		}

		strategy, prediction := pick(sentence)
		promptText := prompt.Build(strategy, sentence)
		estimated := prompt.EstimateTokens(promptText)

		output, err := llm.Complete(ctx, promptText)
		if err != nil {
			return nil, domain.RunSummary{}, fmt.Errorf("complete case %d: %w", i, err)
		}

		points, extraction, reason := score.Evaluate(output)

		cases = append(cases, domain.CaseResult{
			RunID:           runID,
			CaseIndex:       i,
			Input:           sentence,
			Strategy:        strategy,
			Output:          output,
			Extraction:      extraction,
			Score:           points,
			Reason:          reason,
			EstimatedTokens: estimated,
			Prediction:      prediction,
		})

		summary.TotalScore += points
		summary.MaxScore++
		summary.TotalTokens += estimated
		if prediction != nil && strategy == domain.StrategyRulesBased {
			summary.TokensSaved += domain.TokensSavedPerRulesPick
		}
	}

	if summary.MaxScore > 0 {
		summary.SuccessRate = float64(summary.TotalScore) / float64(summary.MaxScore)
	}
	return cases, summary, nil
}

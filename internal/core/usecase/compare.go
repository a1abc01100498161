package usecase

import (
	"context"
	"fmt"
	"time"

	"contextlab/internal/core/domain"
	"contextlab/internal/core/ports"
)

// CompareStrategiesUseCase evaluates every fixed strategy plus adaptive
// selection over one dataset and ranks the arms.
type CompareStrategiesUseCase struct {
	datasets  ports.DatasetSource
	llm       ports.CompletionClient
	predictor ports.StrategyPredictor
}

func NewCompareStrategiesUseCase(
	datasets ports.DatasetSource,
	llm ports.CompletionClient,
	predictor ports.StrategyPredictor,
) *CompareStrategiesUseCase {
	return &CompareStrategiesUseCase{
		datasets:  datasets,
		llm:       llm,
		predictor: predictor,
	}
}

func (uc *CompareStrategiesUseCase) Compare(ctx context.Context, dataset string) (*domain.ComparisonReport, error) {
	sentences, err := uc.datasets.Sentences(dataset)
	if err != nil {
		return nil, fmt.Errorf("resolve dataset: %w", err)
	}

	report := &domain.ComparisonReport{
		GeneratedAt: time.Now().UTC(),
		Dataset:     dataset,
	}

	for _, s := range domain.Strategies() {
		fixed := s
		row, err := uc.evaluateArm(ctx, string(s), sentences, func(string) (domain.Strategy, *domain.Prediction) {
			return fixed, nil
		})
		if err != nil {
			return nil, fmt.Errorf("evaluate %s arm: %w", s, err)
		}
		report.Rows = append(report.Rows, row)
	}

	smart, err := uc.evaluateArm(ctx, string(domain.ModeSmart), sentences, func(sentence string) (domain.Strategy, *domain.Prediction) {
		pred := uc.predictor.Predict(sentence)
		return pred.Strategy, &pred
	})
	if err != nil {
		return nil, fmt.Errorf("evaluate smart arm: %w", err)
	}
	report.Rows = append(report.Rows, smart)

	rankArms(report)
	return report, nil
}

func (uc *CompareStrategiesUseCase) evaluateArm(
	ctx context.Context,
	label string,
	sentences []string,
	pick armPicker,
) (domain.ComparisonRow, error) {
	cases, summary, err := evaluateSentences(ctx, uc.llm, "", sentences, pick)
	if err != nil {
		return domain.ComparisonRow{}, err
	}

	row := domain.ComparisonRow{
		Label:       label,
		SuccessRate: summary.SuccessRate,
		TotalScore:  summary.TotalScore,
		MaxScore:    summary.MaxScore,
		TotalTokens: summary.TotalTokens,
		Efficiency:  domain.Efficiency(summary.SuccessRate, summary.TotalTokens),
		Cases:       cases,
	}

	counts := make(map[domain.Strategy]int)
	adaptive := false
	for _, c := range cases {
		counts[c.Strategy]++
		if c.Prediction != nil {
			adaptive = true
		}
	}
	if adaptive {
		row.StrategyCounts = counts
	}
	return row, nil
}

// rankArms fills the report verdicts. Ties keep the earlier (cheaper)
// arm since Rows are ordered cheapest-first.
func rankArms(report *domain.ComparisonReport) {
	if len(report.Rows) == 0 {
		return
	}

	best := report.Rows[0]
	efficient := report.Rows[0]
	economical := report.Rows[0]
	for _, row := range report.Rows[1:] {
		if row.SuccessRate > best.SuccessRate {
			best = row
		}
		if row.Efficiency > efficient.Efficiency {
			efficient = row
		}
		if row.TotalTokens < economical.TotalTokens {
			economical = row
		}
	}

	report.BestAccuracy = best.Label
	report.BestEfficiency = efficient.Label
	report.MostEconomical = economical.Label
}

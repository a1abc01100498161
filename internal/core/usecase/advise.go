package usecase

import (
	"contextlab/internal/core/domain"
	"contextlab/internal/core/ports"
	"contextlab/internal/score"
	"contextlab/internal/strategy"
)

// AdviseUseCase exposes the heuristic helpers that need no model calls:
// strategy prediction, task classification and schema scoring.
type AdviseUseCase struct {
	predictor  ports.StrategyPredictor
	classifier *strategy.TaskClassifier
}

func NewAdviseUseCase(predictor ports.StrategyPredictor, classifier *strategy.TaskClassifier) *AdviseUseCase {
	return &AdviseUseCase{predictor: predictor, classifier: classifier}
}

func (uc *AdviseUseCase) PredictStrategy(text string) domain.Prediction {
	return uc.predictor.Predict(text)
}

func (uc *AdviseUseCase) ClassifyTask(prompt string) domain.TaskRecommendation {
	return uc.classifier.Recommend(prompt)
}

func (uc *AdviseUseCase) ScoreOutput(output string) (int, *domain.Extraction, string) {
	return score.Evaluate(output)
}

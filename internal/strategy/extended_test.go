package strategy

import (
	"testing"

	"contextlab/internal/core/domain"
)

func TestExtendedPredictReActPatternWins(t *testing.T) {
	p := NewExtendedPredictor()

	prediction := p.Predict("剛開始覺得還可以，慢慢發現問題，逐漸失去耐心，最終決定退貨")

	if prediction.Strategy != domain.StrategyReAct {
		t.Fatalf("expected react, got %s", prediction.Strategy)
	}
	if prediction.Confidence != 0.85 {
		t.Fatalf("expected pattern confidence 0.85, got %f", prediction.Confidence)
	}
}

func TestExtendedPredictCoTPattern(t *testing.T) {
	p := NewExtendedPredictor()

	prediction := p.Predict("原本覺得很棒，後來開始出問題，現在完全不想用了")

	if prediction.Strategy != domain.StrategyChainOfThought {
		t.Fatalf("expected cot, got %s", prediction.Strategy)
	}
}

func TestExtendedPredictPatternPrecedenceMostComplexFirst(t *testing.T) {
	p := NewExtendedPredictor()

	// Contains both a few_shot transition pattern and a react process
	// pattern; the react one must win.
	text := "整體來說不過還好，剛開始正常，慢慢變慢，逐漸卡頓，最終無法開機"
	prediction := p.Predict(text)

	if prediction.Strategy != domain.StrategyReAct {
		t.Fatalf("expected react to take precedence, got %s", prediction.Strategy)
	}
}

func TestExtendedPredictSimpleInputPicksRulesBased(t *testing.T) {
	p := NewExtendedPredictor()

	prediction := p.Predict("Good product")

	if prediction.Strategy != domain.StrategyRulesBased {
		t.Fatalf("expected rules_based, got %s", prediction.Strategy)
	}
	if prediction.Confidence < 0.6 || prediction.Confidence > 0.95 {
		t.Fatalf("confidence outside [0.6,0.95]: %f", prediction.Confidence)
	}
}

func TestExtendedConfidenceClamped(t *testing.T) {
	p := NewExtendedPredictor()

	// No ladder pattern, but plenty of complexity signals.
	text := "這支耳機還好不錯一般 decent okay fine，但是 however 藍牙 bluetooth battery firmware 因為 because 所以 therefore 相比 compared 最後 finally"
	prediction := p.Predict(text)

	if prediction.Confidence < 0.6 || prediction.Confidence > 0.95 {
		t.Fatalf("confidence outside [0.6,0.95]: %f", prediction.Confidence)
	}
}

package prompt

import (
	"strings"
	"testing"

	"contextlab/internal/core/domain"
)

func TestEveryStrategyEmbedsTheSentence(t *testing.T) {
	sentence := "The keyboard feels great, but the battery dies too fast."

	for _, s := range domain.Strategies() {
		out := Build(s, sentence)
		if !strings.Contains(out, sentence) {
			t.Fatalf("strategy %s prompt does not embed the sentence", s)
		}
	}
}

func TestPromptCostOrdering(t *testing.T) {
	sentence := "這支耳機音質不錯，但藍牙常常斷線。"

	baseline := EstimateTokens(Build(domain.StrategyBaseline, sentence))
	rules := EstimateTokens(Build(domain.StrategyRulesBased, sentence))
	fewShot := EstimateTokens(Build(domain.StrategyFewShot, sentence))

	if baseline >= rules {
		t.Fatalf("baseline (%d tokens) should be cheaper than rules (%d)", baseline, rules)
	}
	if rules >= fewShot {
		t.Fatalf("rules (%d tokens) should be cheaper than few-shot (%d)", rules, fewShot)
	}
}

func TestFewShotCarriesExamples(t *testing.T) {
	out := Build(domain.StrategyFewShot, "x")
	if strings.Count(out, "Output:") < 4 {
		t.Fatalf("few-shot prompt should carry worked examples plus the trailing slot")
	}
}

func TestReasoningPromptsAskForFinalAnswer(t *testing.T) {
	for _, s := range []domain.Strategy{domain.StrategyChainOfThought, domain.StrategyReAct} {
		out := Build(s, "x")
		if !strings.Contains(out, "Final Answer") {
			t.Fatalf("strategy %s prompt must request a Final Answer marker", s)
		}
	}
}

func TestEstimateTokensMixedText(t *testing.T) {
	if EstimateTokens("") != 0 {
		t.Fatalf("empty text should estimate zero tokens")
	}

	en := EstimateTokens("four plain english words")
	if en < 4 || en > 6 {
		t.Fatalf("unexpected english estimate: %d", en)
	}

	zh := EstimateTokens("藍牙斷線")
	if zh != 4 {
		t.Fatalf("expected 4 tokens for 4 CJK runes, got %d", zh)
	}
}

func TestCostUSD(t *testing.T) {
	got := CostUSD(1500, 0.03)
	if got < 0.0449 || got > 0.0451 {
		t.Fatalf("unexpected cost: %f", got)
	}
}

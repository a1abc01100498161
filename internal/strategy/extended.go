package strategy

import (
	"fmt"
	"regexp"

	"contextlab/internal/core/domain"
)

// ExtendedPredictor widens the selection to the full strategy ladder:
// rules_based, few_shot, chain-of-thought and ReAct. Pattern hits are
// checked from the most complex strategy down so a multi-step marker is
// never shadowed by a cheaper one.
type ExtendedPredictor struct {
	weights    Weights
	thresholds map[domain.Strategy]float64
	patterns   map[domain.Strategy][]*regexp.Regexp
}

func NewExtendedPredictor() *ExtendedPredictor {
	return &ExtendedPredictor{
		weights: Weights{
			Length:              0.15,
			Ambiguity:           0.25,
			MixedLanguage:       0.15,
			TechnicalTerms:      0.15,
			SentimentClarity:    0.15,
			ReasoningComplexity: 0.15,
		},
		thresholds: map[domain.Strategy]float64{
			domain.StrategyRulesBased:     0.3,
			domain.StrategyFewShot:        0.5,
			domain.StrategyChainOfThought: 0.7,
			domain.StrategyReAct:          0.8,
		},
		patterns: map[domain.Strategy][]*regexp.Regexp{
			domain.StrategyFewShot: {
				regexp.MustCompile(`但是.*不過.*還是`),
				regexp.MustCompile(`雖然.*可是.*然而`),
				regexp.MustCompile(`整體.*(?:不過|但是|可是)`),
			},
			domain.StrategyChainOfThought: {
				regexp.MustCompile(`一方面.*另一方面.*同時`),
				regexp.MustCompile(`原本.*後來.*現在`),
				regexp.MustCompile(`表面上.*實際上.*總的來說`),
			},
			domain.StrategyReAct: {
				regexp.MustCompile(`說是.*但其實.*不過.*最後`),
				regexp.MustCompile(`剛開始.*慢慢.*逐漸.*最終`),
				regexp.MustCompile(`理論上.*實踐中.*經過.*發現`),
			},
		},
	}
}

func (p *ExtendedPredictor) Predict(text string) domain.Prediction {
	features := ExtractFeatures(text, true)
	score := p.weights.apply(features)

	for _, s := range []domain.Strategy{domain.StrategyReAct, domain.StrategyChainOfThought, domain.StrategyFewShot} {
		if matched := matchPatterns(p.patterns[s], text); len(matched) > 0 {
			return domain.Prediction{
				Strategy:        s,
				Reason:          fmt.Sprintf("%s pattern: %s", s, matched[0]),
				Confidence:      0.85,
				ComplexityScore: score,
				Features:        features,
				MatchedPatterns: matched,
			}
		}
	}

	selected := domain.StrategyRulesBased
	reason := fmt.Sprintf("low complexity %.2f < %.2f", score, p.thresholds[domain.StrategyFewShot])
	switch {
	case score >= p.thresholds[domain.StrategyReAct]:
		selected = domain.StrategyReAct
		reason = fmt.Sprintf("very high complexity %.2f >= %.2f", score, p.thresholds[domain.StrategyReAct])
	case score >= p.thresholds[domain.StrategyChainOfThought]:
		selected = domain.StrategyChainOfThought
		reason = fmt.Sprintf("high complexity %.2f >= %.2f", score, p.thresholds[domain.StrategyChainOfThought])
	case score >= p.thresholds[domain.StrategyFewShot]:
		selected = domain.StrategyFewShot
		reason = fmt.Sprintf("medium complexity %.2f >= %.2f", score, p.thresholds[domain.StrategyFewShot])
	}

	return domain.Prediction{
		Strategy:        selected,
		Reason:          reason,
		Confidence:      clamp(score, 0.6, 0.95),
		ComplexityScore: score,
		Features:        features,
	}
}

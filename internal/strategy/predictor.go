package strategy

import (
	"fmt"
	"regexp"
	"strings"

	"contextlab/internal/core/domain"
)

// Weights blends the individual features into one complexity score.
type Weights struct {
	Length              float64
	Ambiguity           float64
	MixedLanguage       float64
	TechnicalTerms      float64
	SentimentClarity    float64
	ReasoningComplexity float64
}

func (w Weights) apply(f domain.FeatureSet) float64 {
	score := f.Length*w.Length +
		f.Ambiguity*w.Ambiguity +
		f.MixedLanguage*w.MixedLanguage +
		f.TechnicalTerms*w.TechnicalTerms +
		f.SentimentClarity*w.SentimentClarity +
		f.ReasoningComplexity*w.ReasoningComplexity
	return clamp01(score)
}

// Predictor is the two-way selector: rules_based for simple inputs,
// few_shot once the complexity score crosses the threshold or a known
// difficult pattern appears.
type Predictor struct {
	weights   Weights
	threshold float64
	difficult []*regexp.Regexp
}

const DefaultThreshold = 0.4

func NewPredictor() *Predictor {
	return &Predictor{
		weights: Weights{
			Length:           0.2,
			Ambiguity:        0.3,
			MixedLanguage:    0.2,
			TechnicalTerms:   0.15,
			SentimentClarity: 0.15,
		},
		threshold: DefaultThreshold,
		difficult: []*regexp.Regexp{
			regexp.MustCompile(`但是.*不過.*還是`),
			regexp.MustCompile(`雖然.*可是.*然而`),
			regexp.MustCompile(`一方面.*另一方面`),
			regexp.MustCompile(`整體.*(?:不過|但是|可是)`),
		},
	}
}

// WithThreshold overrides the complexity cutoff.
func (p *Predictor) WithThreshold(threshold float64) *Predictor {
	p.threshold = threshold
	return p
}

func (p *Predictor) Predict(text string) domain.Prediction {
	features := ExtractFeatures(text, false)
	score := p.weights.apply(features)
	matched := matchPatterns(p.difficult, text)

	switch {
	case len(matched) > 0:
		return domain.Prediction{
			Strategy:        domain.StrategyFewShot,
			Reason:          "difficult pattern: " + strings.Join(head(matched, 2), ", "),
			Confidence:      0.8,
			ComplexityScore: score,
			Features:        features,
			MatchedPatterns: matched,
		}
	case score > p.threshold:
		return domain.Prediction{
			Strategy:        domain.StrategyFewShot,
			Reason:          fmt.Sprintf("complexity %.2f > threshold %.2f", score, p.threshold),
			Confidence:      clamp01(score * 1.2),
			ComplexityScore: score,
			Features:        features,
		}
	default:
		confidence := 1.0 - score
		if confidence < 0.6 {
			confidence = 0.6
		}
		return domain.Prediction{
			Strategy:        domain.StrategyRulesBased,
			Reason:          fmt.Sprintf("complexity %.2f <= threshold %.2f", score, p.threshold),
			Confidence:      confidence,
			ComplexityScore: score,
			Features:        features,
		}
	}
}

func matchPatterns(patterns []*regexp.Regexp, text string) []string {
	var matched []string
	for _, p := range patterns {
		if p.MatchString(text) {
			matched = append(matched, p.String())
		}
	}
	return matched
}

func head(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

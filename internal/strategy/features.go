package strategy

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"contextlab/internal/core/domain"
)

// Lexical signals behind the complexity features. The word lists are
// bilingual because the review corpus mixes Traditional Chinese and
// English.
var (
	ambiguousWords  = []string{"還好", "不錯", "一般", "decent", "okay", "fine", "普通"}
	transitionWords = []string{"但是", "不過", "可是", "然而", "but", "however", "though", "although"}
	causalWords     = []string{"因為", "所以", "因此", "because", "therefore", "thus"}
	contrastWords   = []string{"相比", "比較", "compared", "versus", "against"}
	temporalWords   = []string{"剛開始", "後來", "最後", "最終", "initially", "eventually", "finally"}

	cjkPattern   = regexp.MustCompile(`[\x{4e00}-\x{9fff}]`)
	asciiPattern = regexp.MustCompile(`[a-zA-Z]`)

	technicalPatterns = []*regexp.Regexp{
		regexp.MustCompile(`藍牙|WiFi|RGB|DPI|Hz|續航|韌體`),
		regexp.MustCompile(`(?i)bluetooth|wireless|battery|firmware|latency|resolution`),
	}
)

const (
	lengthNorm     = 200.0
	ambiguityNorm  = 3.0
	technicalNorm  = 5.0
	transitionNorm = 2.0
	reasoningNorm  = 10.0

	mixedLanguageWeight = 0.3
)

// ExtractFeatures measures the complexity signals of a review sentence.
// withReasoning additionally fills the reasoning-complexity feature used
// by the extended predictor.
func ExtractFeatures(text string, withReasoning bool) domain.FeatureSet {
	features := domain.FeatureSet{
		Length:           clamp01(float64(utf8.RuneCountInString(text)) / lengthNorm),
		Ambiguity:        clamp01(float64(countPresent(text, ambiguousWords)) / ambiguityNorm),
		TechnicalTerms:   clamp01(float64(countTechnicalTerms(text)) / technicalNorm),
		SentimentClarity: clamp01(float64(countPresent(text, transitionWords)) / transitionNorm),
	}

	if cjkPattern.MatchString(text) && asciiPattern.MatchString(text) {
		features.MixedLanguage = mixedLanguageWeight
	}

	if withReasoning {
		features.ReasoningComplexity = reasoningComplexity(text)
	}

	return features
}

// reasoningComplexity counts causal, contrast and temporal markers; the
// more of them appear, the more multi-step the sentence is to analyze.
func reasoningComplexity(text string) float64 {
	total := countPresent(text, causalWords) +
		countPresent(text, contrastWords) +
		countPresent(text, temporalWords)
	return clamp01(float64(total) / reasoningNorm)
}

func countPresent(text string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			n++
		}
	}
	return n
}

func countTechnicalTerms(text string) int {
	n := 0
	for _, p := range technicalPatterns {
		n += len(p.FindAllString(text, -1))
	}
	return n
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

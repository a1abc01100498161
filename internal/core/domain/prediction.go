package domain

// FeatureSet holds the regex-derived complexity features of an input
// sentence. Every value stays in [0,1].
type FeatureSet struct {
	Length              float64 `json:"length"`
	Ambiguity           float64 `json:"ambiguity"`
	MixedLanguage       float64 `json:"mixed_language"`
	TechnicalTerms      float64 `json:"technical_terms"`
	SentimentClarity    float64 `json:"sentiment_clarity"`
	ReasoningComplexity float64 `json:"reasoning_complexity,omitempty"`
}

// Prediction is the outcome of the heuristic strategy selection for a
// single input sentence.
type Prediction struct {
	Strategy        Strategy   `json:"strategy"`
	Reason          string     `json:"reason"`
	Confidence      float64    `json:"confidence"`
	ComplexityScore float64    `json:"complexity_score"`
	Features        FeatureSet `json:"features"`
	MatchedPatterns []string   `json:"matched_patterns,omitempty"`
}

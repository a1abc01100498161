package domain

import "strings"

// Sentiment is the polarity label the model must assign to a review.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

func (s Sentiment) Valid() bool {
	switch Sentiment(strings.ToLower(string(s))) {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	default:
		return false
	}
}

// Extraction is the structured answer expected from the model for a
// single review sentence.
type Extraction struct {
	Sentiment Sentiment `json:"sentiment"`
	Product   string    `json:"product"`
	Issue     string    `json:"issue"`
}

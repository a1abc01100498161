package score

import (
	"strings"
	"testing"

	"contextlab/internal/core/domain"
)

func TestEvaluateWellFormedOutput(t *testing.T) {
	got, parsed, reason := Evaluate(`{"sentiment": "negative", "product": "headphones", "issue": "bluetooth connection"}`)

	if got != 1 {
		t.Fatalf("expected score 1, got %d (%s)", got, reason)
	}
	if parsed == nil || parsed.Product != "headphones" {
		t.Fatalf("unexpected extraction: %+v", parsed)
	}
	if parsed.Sentiment != domain.SentimentNegative {
		t.Fatalf("unexpected sentiment: %s", parsed.Sentiment)
	}
}

func TestEvaluateAcceptsEmptyIssue(t *testing.T) {
	got, _, reason := Evaluate(`{"sentiment": "positive", "product": "earbuds", "issue": ""}`)
	if got != 1 {
		t.Fatalf("expected score 1, got %d (%s)", got, reason)
	}
}

func TestEvaluateUppercaseSentimentIsValid(t *testing.T) {
	got, _, reason := Evaluate(`{"sentiment": "Negative", "product": "mouse", "issue": "double click"}`)
	if got != 1 {
		t.Fatalf("expected score 1, got %d (%s)", got, reason)
	}
}

func TestEvaluateRejectsExtraKeys(t *testing.T) {
	got, _, reason := Evaluate(`{"sentiment": "negative", "product": "camera", "issue": "slow focus", "note": "x"}`)
	if got != 0 {
		t.Fatalf("expected score 0 for extra key")
	}
	if !strings.Contains(reason, "wrong_keys") {
		t.Fatalf("expected wrong_keys reason, got %q", reason)
	}
}

func TestEvaluateRejectsInvalidSentiment(t *testing.T) {
	got, _, reason := Evaluate(`{"sentiment": "mixed", "product": "camera", "issue": ""}`)
	if got != 0 || !strings.Contains(reason, "invalid_sentiment") {
		t.Fatalf("expected invalid_sentiment, got score=%d reason=%q", got, reason)
	}
}

func TestEvaluateRejectsEmptyProduct(t *testing.T) {
	got, _, reason := Evaluate(`{"sentiment": "neutral", "product": "", "issue": ""}`)
	if got != 0 || !strings.Contains(reason, "empty_or_invalid_product") {
		t.Fatalf("expected empty product rejection, got score=%d reason=%q", got, reason)
	}
}

func TestEvaluateRejectsNonStringIssue(t *testing.T) {
	got, _, reason := Evaluate(`{"sentiment": "neutral", "product": "watch", "issue": null}`)
	if got != 0 || !strings.Contains(reason, "missing_or_invalid_issue") {
		t.Fatalf("expected issue rejection, got score=%d reason=%q", got, reason)
	}
}

func TestEvaluateGarbageScoresZero(t *testing.T) {
	got, parsed, reason := Evaluate("I could not process that request.")
	if got != 0 || parsed != nil {
		t.Fatalf("expected parse failure, got score=%d parsed=%+v", got, parsed)
	}
	if !strings.Contains(reason, "json parse error") {
		t.Fatalf("unexpected reason: %q", reason)
	}
}

func TestCleanStripsCodeFences(t *testing.T) {
	raw := "Here you go:\n```json\n{\"sentiment\": \"positive\", \"product\": \"keyboard\", \"issue\": \"\"}\n```\nHope that helps."

	got, _, reason := Evaluate(raw)
	if got != 1 {
		t.Fatalf("expected fenced output to score 1, got %d (%s)", got, reason)
	}
}

func TestCleanStripsChainOfThoughtPreamble(t *testing.T) {
	raw := `Let me think.
1. The product is a smartwatch.
2. Battery complaints dominate, so sentiment is negative.
Final Answer: {"sentiment": "negative", "product": "smartwatch", "issue": "battery life"}`

	got, parsed, reason := Evaluate(raw)
	if got != 1 {
		t.Fatalf("expected CoT output to score 1, got %d (%s)", got, reason)
	}
	if parsed.Product != "smartwatch" {
		t.Fatalf("unexpected product: %q", parsed.Product)
	}
}

func TestCleanUsesLastFinalAnswerMarker(t *testing.T) {
	raw := `Final Answer drafts below.
Not yet.
Final Answer: {"sentiment": "neutral", "product": "monitor", "issue": ""}`

	if got, _, reason := Evaluate(raw); got != 1 {
		t.Fatalf("expected last marker to win, got %d (%s)", got, reason)
	}
}

func TestCleanExtractsEmbeddedObject(t *testing.T) {
	cleaned := Clean(`The result is {"sentiment": "positive", "product": "laptop", "issue": ""} as requested.`)
	if !strings.HasPrefix(cleaned, "{") || !strings.HasSuffix(cleaned, "}") {
		t.Fatalf("expected bare object, got %q", cleaned)
	}
}

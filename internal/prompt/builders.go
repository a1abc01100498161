package prompt

import (
	"fmt"

	"contextlab/internal/core/domain"
)

// Build renders the full model input for a review sentence under the
// given strategy.
func Build(s domain.Strategy, sentence string) string {
	switch s {
	case domain.StrategyBaseline:
		return buildBaseline(sentence)
	case domain.StrategyRulesBased:
		return buildRulesBased(sentence)
	case domain.StrategyFewShot:
		return buildFewShot(sentence)
	case domain.StrategyChainOfThought:
		return buildChainOfThought(sentence)
	case domain.StrategyReAct:
		return buildReAct(sentence)
	default:
		return buildRulesBased(sentence)
	}
}

func buildBaseline(sentence string) string {
	return `Extract sentiment (positive/neutral/negative), product, and issue from the user sentence.
Return as JSON.

Sentence: ` + sentence
}

func buildRulesBased(sentence string) string {
	return `Task: Extract fields from the sentence.
Return ONLY a JSON object with these exact keys: sentiment, product, issue.

Rules:
- sentiment must be one of: positive, neutral, negative
- If product is not explicit, infer the most likely product noun (e.g., 'headphones', 'keyboard')
- issue should describe the problem mentioned, or be empty string if none
- Return ONLY valid JSON, no comments, no extra text, no markdown code blocks
- Use lowercase English for all field values

Sentence: ` + sentence
}

func buildFewShot(sentence string) string {
	return fmt.Sprintf(`You are a product review analyzer. Extract sentiment, product, and issue from reviews.

Rules:
- sentiment: must be "positive", "neutral", or "negative"
- product: infer the product type in lowercase English
- issue: describe the problem, or empty string if none
- Return ONLY valid JSON with keys: sentiment, product, issue
- No markdown, no extra text

Examples:

Input: "這台筆電螢幕很亮，但是散熱很吵。"
Output: {"sentiment": "negative", "product": "laptop", "issue": "noisy cooling"}

Input: "These earbuds are comfortable and the mic is clear."
Output: {"sentiment": "positive", "product": "earbuds", "issue": ""}

Input: "The mouse is lightweight but clicks feel mushy."
Output: {"sentiment": "negative", "product": "mouse", "issue": "mushy clicks"}

Now analyze this sentence:
Input: %q
Output:`, sentence)
}

func buildChainOfThought(sentence string) string {
	return fmt.Sprintf(`You are a product review analyzer. Work through the review step by step, then return the final answer as JSON with keys: sentiment, product, issue.

Steps:
1. Identify the product being reviewed.
2. Weigh the positive and negative language to settle the overall sentiment.
3. Pick out the specific problem mentioned, if any.

Review: %q

Walk through each step, then write "Final Answer:" followed by the JSON object only.`, sentence)
}

func buildReAct(sentence string) string {
	return fmt.Sprintf(`You are a product review analyzer using the ReAct format: Thought, Action, Observation, repeated until you can answer.

Task: extract sentiment, product, and issue from this review: %q

Thought 1: identify the product from keywords and context.
Action 1: scan the review for product nouns.
Observation 1: (your findings)

Thought 2: judge the overall sentiment from the positive and negative expressions.
Action 2: list sentiment-bearing phrases and weigh them.
Observation 2: (your findings)

Thought 3: isolate the concrete problem described, if any.
Action 3: look for complaints or failure descriptions.
Observation 3: (your findings)

Final Answer: the JSON object with keys sentiment, product, issue and nothing else.`, sentence)
}

package score

import (
	"encoding/json"
	"fmt"
	"strings"

	"contextlab/internal/core/domain"
)

// Evaluate checks cleaned model output against the review-extraction
// schema: exactly the keys sentiment/product/issue, a valid sentiment
// label, a non-empty product and a string issue. The score is binary.
func Evaluate(output string) (int, *domain.Extraction, string) {
	cleaned := Clean(output)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return 0, nil, fmt.Sprintf("json parse error: %v", err)
	}

	var reasons []string

	if !exactKeys(raw, "sentiment", "product", "issue") {
		reasons = append(reasons, fmt.Sprintf("wrong_keys: %s", keyList(raw)))
	}

	var parsed domain.Extraction
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return 0, nil, fmt.Sprintf("field type error: %v", err)
	}

	if !parsed.Sentiment.Valid() {
		reasons = append(reasons, fmt.Sprintf("invalid_sentiment: %q", parsed.Sentiment))
	}
	if strings.TrimSpace(parsed.Product) == "" {
		reasons = append(reasons, "empty_or_invalid_product")
	}
	if issueRaw, ok := raw["issue"]; !ok || !isJSONString(issueRaw) {
		reasons = append(reasons, "missing_or_invalid_issue")
	}

	if len(reasons) > 0 {
		return 0, &parsed, strings.Join(reasons, ", ")
	}
	return 1, &parsed, ""
}

func exactKeys(raw map[string]json.RawMessage, keys ...string) bool {
	if len(raw) != len(keys) {
		return false
	}
	for _, k := range keys {
		if _, ok := raw[k]; !ok {
			return false
		}
	}
	return true
}

func isJSONString(raw json.RawMessage) bool {
	// json.Unmarshal treats null as a no-op on *string, so reject it first.
	if strings.TrimSpace(string(raw)) == "null" {
		return false
	}
	var s string
	return json.Unmarshal(raw, &s) == nil
}

func keyList(raw map[string]json.RawMessage) string {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	return strings.Join(keys, ",")
}

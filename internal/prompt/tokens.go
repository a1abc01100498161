package prompt

import (
	"strings"
	"unicode"
)

// EstimateTokens approximates the token count of a prompt without a
// tokenizer dependency: CJK characters tokenize roughly one per rune,
// the rest roughly 1.3 tokens per whitespace-separated word.
func EstimateTokens(text string) int {
	cjk := 0
	var ascii strings.Builder
	for _, r := range text {
		if unicode.Is(unicode.Han, r) {
			cjk++
			continue
		}
		ascii.WriteRune(r)
	}

	words := len(strings.Fields(ascii.String()))
	return cjk + (words*13+9)/10
}

// CostUSD prices a token count at a per-thousand-token rate.
func CostUSD(tokens int, perThousand float64) float64 {
	return float64(tokens) / 1000.0 * perThousand
}

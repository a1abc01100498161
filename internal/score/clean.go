package score

import (
	"regexp"
	"strings"
)

var jsonObjectPattern = regexp.MustCompile(`\{[^{}]*"sentiment"[^{}]*\}`)

// Clean strips reasoning scaffolding from model output so only the JSON
// answer remains. CoT and ReAct replies bury the object behind a
// "Final Answer" marker and often wrap it in a fenced code block.
func Clean(text string) string {
	if idx := strings.LastIndex(text, "Final Answer"); idx >= 0 {
		text = text[idx+len("Final Answer"):]
	}

	if strings.Contains(text, "```") {
		var kept []string
		inBlock := false
		for _, line := range strings.Split(text, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), "```") {
				inBlock = !inBlock
				continue
			}
			if inBlock {
				kept = append(kept, line)
			}
		}
		text = strings.Join(kept, "\n")
	}

	if match := jsonObjectPattern.FindString(text); match != "" {
		text = match
	}

	return strings.TrimSpace(text)
}

package ai

import (
	"regexp"
	"strings"
)

var thinkPattern = regexp.MustCompile(`(?s)<think>(.*?)</think>`)

// SplitReasoning separates <think> segments from the visible answer.
// Segments are joined with a blank line; both parts are trimmed.
func SplitReasoning(raw string) (content, reasoning string) {
	matches := thinkPattern.FindAllStringSubmatch(raw, -1)
	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		parts = append(parts, m[1])
	}
	reasoning = strings.TrimSpace(strings.Join(parts, "\n\n"))
	content = strings.TrimSpace(thinkPattern.ReplaceAllString(raw, ""))
	return content, reasoning
}

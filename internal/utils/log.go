package utils

import "strings"

// TruncateForLog flattens s onto one line and shortens it to limit runes,
// appending an ellipsis when truncated. Prompts and model replies are
// multi-line, so previews would otherwise break console log output.
func TruncateForLog(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

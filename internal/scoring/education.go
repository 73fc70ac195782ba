package scoring

import (
	"regexp"
	"strings"
)

// NotSpecified is reported when no education can be found.
const NotSpecified = "Not specified"

var educationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:education|degree)\s*:?\s*(bachelor|master|phd|associate|diploma)s?\b`),
	regexp.MustCompile(`(?im)^([^\n]*\b(?:bachelors?|masters?|phd|doctorate|associate)\b[^\n]*)$`),
	regexp.MustCompile(`(?im)^([^\n]*\b(?:university|college|institute)\b[^\n]*)$`),
}

type educationLevel struct {
	pattern *regexp.Regexp
	score   int
}

// Highest level first: the first hit wins.
var educationLevels = []educationLevel{
	{regexp.MustCompile(`(?i)\bphd\b`), 20},
	{regexp.MustCompile(`(?i)\bdoctorate\b`), 20},
	{regexp.MustCompile(`(?i)\bmasters?\b`), 15},
	{regexp.MustCompile(`(?i)\bbachelors?\b`), 10},
	{regexp.MustCompile(`(?i)\bassociate\b`), 5},
	{regexp.MustCompile(`(?i)\bdiplomas?\b`), 3},
}

// ExtractEducation returns the first education label, degree line or
// institution line in text, truncated to limit runes.
func ExtractEducation(text string, limit int) string {
	for _, re := range educationPatterns {
		match := re.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		if value := strings.TrimSpace(match[1]); value != "" {
			return truncate(value, limit)
		}
	}
	return NotSpecified
}

// EducationScore maps the highest education level mentioned in text to
// points: doctorate 20, master 15, bachelor 10, associate 5, diploma 3.
func EducationScore(text string) int {
	for _, level := range educationLevels {
		if level.pattern.MatchString(text) {
			return level.score
		}
	}
	return 0
}

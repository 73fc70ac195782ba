package scoring

import (
	"regexp"
	"strings"
)

// UnknownCandidate is reported when no name can be found.
const UnknownCandidate = "Unknown Candidate"

// Limits holds the truncation and context sizes used by the extractors.
type Limits struct {
	NameLength        int `mapstructure:"name-length" validate:"gte=1"`
	RequirementWindow int `mapstructure:"requirement-window" validate:"gte=0"`
	EducationLength   int `mapstructure:"education-length" validate:"gte=1"`
}

// DefaultLimits returns the stock limits: 50-rune names, a 100-character
// requirement window and 150-rune education strings.
func DefaultLimits() Limits {
	return Limits{
		NameLength:        50,
		RequirementWindow: 100,
		EducationLength:   150,
	}
}

var nameLabel = regexp.MustCompile(`(?im)^\s*name\s*:\s*(\S[^\n]*)$`)

// ExtractCandidateName takes the first non-empty line. When that line is a
// "name:" label, the labelled value is returned instead.
func ExtractCandidateName(text string, limit int) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if match := nameLabel.FindStringSubmatch(line); match != nil {
			return truncate(strings.TrimSpace(match[1]), limit)
		}
		return truncate(line, limit)
	}
	return UnknownCandidate
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit]))
}

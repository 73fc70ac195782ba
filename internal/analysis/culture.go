package analysis

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/spigell/hr-assist/internal/scoring"
)

var cultureWord = regexp.MustCompile(`[a-z0-9]+`)

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {}, "you": {},
	"all": {}, "any": {}, "can": {}, "her": {}, "his": {}, "was": {}, "one": {},
	"our": {}, "out": {}, "has": {}, "have": {}, "had": {}, "with": {}, "this": {},
	"that": {}, "from": {}, "they": {}, "will": {}, "would": {}, "there": {},
	"their": {}, "what": {}, "about": {}, "which": {}, "when": {}, "who": {},
	"how": {}, "into": {}, "than": {}, "them": {}, "then": {}, "these": {},
	"those": {}, "been": {}, "were": {}, "being": {}, "its": {}, "also": {},
	"your": {}, "yours": {}, "ours": {}, "very": {}, "more": {},
	"most": {}, "such": {}, "each": {}, "where": {}, "while": {}, "value": {},
	"values": {}, "company": {}, "culture": {},
	"every": {}, "everyone": {}, "believe": {},
}

// CultureKeywords returns the significant words of a culture statement:
// lowercase, longer than two characters, not stop words, first occurrence
// order.
func CultureKeywords(statement string) []string {
	seen := make(map[string]struct{})
	var keywords []string
	for _, word := range cultureWord.FindAllString(strings.ToLower(statement), -1) {
		if len([]rune(word)) <= 2 {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		keywords = append(keywords, word)
	}
	return keywords
}

// CultureFit runs the manual culture fit analysis.
func (a *Analyzer) CultureFit(profile CandidateProfile, statement string) CultureFitResult {
	keywords := CultureKeywords(statement)

	candidateText := strings.ToLower(strings.Join([]string{
		profile.Name,
		strings.Join(profile.Skills, " "),
		profile.ExperienceSummary,
	}, " "))

	matches := 0
	for _, keyword := range keywords {
		if strings.Contains(candidateText, keyword) {
			matches++
		}
	}

	score := 0
	if len(keywords) > 0 {
		score = ClampScore(int(math.Round(100 * float64(matches) / float64(len(keywords)))))
	}

	name := strings.TrimSpace(profile.Name)
	if name == "" {
		name = scoring.UnknownCandidate
	}

	return CultureFitResult{
		CandidateName: name,
		FitScore:      score,
		Explanation:   fmt.Sprintf("Found %d out of %d culture keywords in candidate profile.", matches, len(keywords)),
		Mode:          ModeManual,
	}
}

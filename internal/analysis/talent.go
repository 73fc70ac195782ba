package analysis

import (
	"regexp"
	"sort"
	"strings"
)

var nonWord = regexp.MustCompile(`\W+`)

// QueryTokens splits a search query into lowercase word fragments.
func QueryTokens(query string) []string {
	var tokens []string
	for _, token := range nonWord.Split(strings.ToLower(query), -1) {
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// TalentSearch ranks candidates by how many query tokens appear in their
// skill list. Ties keep input order.
func (a *Analyzer) TalentSearch(query string, candidates []Candidate) []RankedCandidate {
	tokens := QueryTokens(query)

	ranked := make([]RankedCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		skills := strings.ToLower(strings.Join(candidate.Skills, " "))
		score := 0
		for _, token := range tokens {
			if strings.Contains(skills, token) {
				score++
			}
		}
		ranked = append(ranked, RankedCandidate{Candidate: candidate, Score: float64(score), Mode: ModeManual})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if limit := a.opts.SearchResults; limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

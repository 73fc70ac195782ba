package scoring

import (
	"regexp"
	"strings"
)

// Indicator is a soft-skill phrase with the weight it contributes.
type Indicator struct {
	Phrase string
	Family string
	Weight int
}

// IndicatorTable is an ordered, precompiled list of culture indicators.
type IndicatorTable struct {
	indicators []compiledIndicator
}

type compiledIndicator struct {
	Indicator
	pattern *regexp.Regexp
}

// NewIndicatorTable compiles indicators; blank phrases and non-positive
// weights are ignored.
func NewIndicatorTable(indicators []Indicator) *IndicatorTable {
	t := &IndicatorTable{}
	for _, ind := range indicators {
		phrase := strings.ToLower(strings.TrimSpace(ind.Phrase))
		if phrase == "" || ind.Weight <= 0 {
			continue
		}
		ind.Phrase = phrase
		t.indicators = append(t.indicators, compiledIndicator{
			Indicator: ind,
			pattern:   regexp.MustCompile(leftBoundary + regexp.QuoteMeta(phrase) + rightBoundary),
		})
	}
	return t
}

// ExtractCultureIndicators returns matched phrases in table order and the sum
// of their weights. The sum is unbounded; callers clamp it.
func ExtractCultureIndicators(text string, table *IndicatorTable) ([]string, int) {
	if table == nil {
		return nil, 0
	}
	lower := strings.ToLower(text)
	var matched []string
	score := 0
	for _, ind := range table.indicators {
		if ind.pattern.MatchString(lower) {
			matched = append(matched, ind.Phrase)
			score += ind.Weight
		}
	}
	return matched, score
}

// DefaultIndicators returns the built-in culture indicator table.
func DefaultIndicators() *IndicatorTable {
	return defaultIndicators
}

var defaultIndicators = NewIndicatorTable([]Indicator{
	{"team player", "teamwork", 3},
	{"teamwork", "teamwork", 3},
	{"collaboration", "teamwork", 3},
	{"collaborative", "teamwork", 3},
	{"team environment", "teamwork", 3},
	{"team-oriented", "teamwork", 3},
	{"group projects", "teamwork", 2},

	{"leadership", "leadership", 4},
	{"led", "leadership", 3},
	{"managed", "leadership", 3},
	{"mentored", "leadership", 3},
	{"supervised", "leadership", 3},
	{"team lead", "leadership", 4},
	{"project lead", "leadership", 4},
	{"senior developer", "leadership", 3},

	{"innovative", "innovation", 3},
	{"innovation", "innovation", 3},
	{"creative", "innovation", 3},
	{"creativity", "innovation", 3},
	{"problem solving", "innovation", 3},
	{"analytical", "innovation", 3},
	{"strategic thinking", "innovation", 3},

	{"communication", "communication", 3},
	{"presentation", "communication", 2},
	{"public speaking", "communication", 2},
	{"client facing", "communication", 2},
	{"stakeholder", "communication", 2},

	{"adaptable", "adaptability", 3},
	{"flexible", "adaptability", 3},
	{"quick learner", "adaptability", 3},
	{"continuous learning", "adaptability", 3},
	{"agile", "adaptability", 2},
	{"versatile", "adaptability", 2},

	{"dedicated", "work ethic", 2},
	{"committed", "work ethic", 2},
	{"hardworking", "work ethic", 2},
	{"reliable", "work ethic", 2},
	{"responsible", "work ethic", 2},
	{"accountable", "work ethic", 2},

	{"integrity", "values", 3},
	{"honest", "values", 2},
	{"ethical", "values", 2},
	{"transparent", "values", 2},
	{"customer focused", "values", 3},
	{"customer-centric", "values", 3},
	{"quality", "values", 2},

	{"certifications", "professional development", 2},
	{"professional development", "professional development", 3},
	{"training", "professional development", 2},
	{"mentoring", "professional development", 3},
	{"knowledge sharing", "professional development", 3},
})

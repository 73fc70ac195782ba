package scoring

import (
	"regexp"
	"strings"
)

// Requirement classifies how strongly a job description asks for a skill.
type Requirement int

const (
	Preferred Requirement = iota
	Mandatory
)

func (r Requirement) String() string {
	if r == Mandatory {
		return "mandatory"
	}
	return "preferred"
}

const (
	// MandatoryCap is the highest match strength a mandatory skill can reach.
	MandatoryCap = 3
	// PreferredCap is the highest match strength a preferred skill can reach.
	PreferredCap = 2

	presentPoints      = 1
	demonstratedPoints = 2
)

// mandatoryMarkers signal strict necessity around a skill mention.
var mandatoryMarkers = []string{"required", "must", "essential", "experience with", "strong"}

// A qualifying prefix may govern a short list: "experience with go, docker and k8s".
const (
	leftBoundary  = `(?:^|[^a-z0-9])`
	rightBoundary = `(?:$|[^a-z0-9])`
	listItems     = `(?:[a-z0-9.+#/-]+\s*(?:,|\band\b|&)\s*){0,5}`
)

var qualifyingPrefixes = []string{"experience with", "proficient in", "using"}

var qualifyingSuffixes = []string{"development"}

func newSynonymMatcher(synonym string) synonymMatcher {
	quoted := regexp.QuoteMeta(synonym)
	m := synonymMatcher{
		text:    synonym,
		present: regexp.MustCompile(leftBoundary + `(` + quoted + `)` + rightBoundary),
	}
	for _, prefix := range qualifyingPrefixes {
		m.demonstrated = append(m.demonstrated, regexp.MustCompile(
			leftBoundary+regexp.QuoteMeta(prefix)+`\s+`+listItems+quoted+rightBoundary,
		))
	}
	for _, suffix := range qualifyingSuffixes {
		m.demonstrated = append(m.demonstrated, regexp.MustCompile(
			leftBoundary+quoted+`\s+`+regexp.QuoteMeta(suffix)+rightBoundary,
		))
	}
	return m
}

// firstIndex returns the byte offset of the first bounded occurrence, or -1.
func (m synonymMatcher) firstIndex(lower string) int {
	loc := m.present.FindStringSubmatchIndex(lower)
	if loc == nil {
		return -1
	}
	return loc[2]
}

func (m synonymMatcher) points(lower string) int {
	points := 0
	if m.present.MatchString(lower) {
		points += presentPoints
	}
	for _, re := range m.demonstrated {
		if re.MatchString(lower) {
			points += demonstratedPoints
			break
		}
	}
	return points
}

// SkillMatch is a catalog skill found in text with its capped strength.
type SkillMatch struct {
	Skill       string
	Strength    int
	Requirement Requirement
}

// ClassifyRequirement inspects the window of characters around the first
// bounded occurrence of synonym in jobText.
func ClassifyRequirement(jobText, synonym string, window int) Requirement {
	synonym = strings.ToLower(strings.TrimSpace(synonym))
	if synonym == "" {
		return Preferred
	}
	lower := strings.ToLower(jobText)
	m := newSynonymMatcher(synonym)
	return classifyAt(lower, m.firstIndex(lower), window)
}

func classifyAt(lower string, pos, window int) Requirement {
	if pos < 0 {
		return Preferred
	}
	if window < 0 {
		window = 0
	}
	start := max(0, pos-window)
	end := min(len(lower), pos+window)
	context := lower[start:end]
	for _, marker := range mandatoryMarkers {
		if strings.Contains(context, marker) {
			return Mandatory
		}
	}
	return Preferred
}

// JobRequirements splits every catalog skill mentioned in jobText into
// mandatory and preferred lists, each deduplicated and in catalog order.
func JobRequirements(jobText string, catalog *Catalog, window int) (mandatory, preferred []string) {
	if catalog == nil {
		return nil, nil
	}
	lower := strings.ToLower(jobText)
	for _, skill := range catalog.skills {
		pos := -1
		for _, syn := range skill.synonyms {
			if idx := syn.firstIndex(lower); idx >= 0 && (pos < 0 || idx < pos) {
				pos = idx
			}
		}
		if pos < 0 {
			continue
		}
		if classifyAt(lower, pos, window) == Mandatory {
			mandatory = append(mandatory, skill.Name)
		} else {
			preferred = append(preferred, skill.Name)
		}
	}
	return mandatory, preferred
}

// MatchStrength scores how well text evidences a catalog skill: +1 for every
// bounded synonym, +2 when it appears inside a qualifying phrase, capped.
func MatchStrength(text string, catalog *Catalog, skill string, limit int) int {
	compiled, ok := catalog.lookup(skill)
	if !ok || limit <= 0 {
		return 0
	}
	return compiled.strength(strings.ToLower(text), limit)
}

func (s compiledSkill) strength(lower string, limit int) int {
	total := 0
	for _, syn := range s.synonyms {
		total += syn.points(lower)
		if total >= limit {
			return limit
		}
	}
	return total
}

// ExtractSkills returns every catalog skill evidenced by text. Skills that the
// requirements mark Mandatory are capped at MandatoryCap, all others at
// PreferredCap. Zero-strength skills are omitted.
func ExtractSkills(text string, catalog *Catalog, requirements map[string]Requirement) []SkillMatch {
	if catalog == nil {
		return nil
	}
	lower := strings.ToLower(text)
	var matches []SkillMatch
	for _, skill := range catalog.skills {
		req := requirements[skill.Name]
		limit := PreferredCap
		if req == Mandatory {
			limit = MandatoryCap
		}
		if strength := skill.strength(lower, limit); strength > 0 {
			matches = append(matches, SkillMatch{Skill: skill.Name, Strength: strength, Requirement: req})
		}
	}
	return matches
}

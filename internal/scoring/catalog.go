// Package scoring extracts structured hiring signals (skills, experience,
// education, culture indicators) from free text. Every function is pure and
// total: malformed or empty input degrades to zero values instead of failing.
package scoring

import (
	"regexp"
	"strings"
)

// Skill is a canonical skill name together with the surface forms that
// identify it in free text.
type Skill struct {
	Name     string
	Synonyms []string
}

// Catalog is an immutable, ordered set of skills with precompiled matchers.
// Order matters: it drives requirement and match listings.
type Catalog struct {
	skills []compiledSkill
}

type compiledSkill struct {
	Skill
	synonyms []synonymMatcher
}

type synonymMatcher struct {
	text         string
	present      *regexp.Regexp
	demonstrated []*regexp.Regexp
}

// NewCatalog compiles the provided skills. Empty names and synonyms are
// skipped; a skill without synonyms matches its own name.
func NewCatalog(skills []Skill) *Catalog {
	c := &Catalog{skills: make([]compiledSkill, 0, len(skills))}
	for _, skill := range skills {
		name := strings.ToLower(strings.TrimSpace(skill.Name))
		if name == "" {
			continue
		}

		synonyms := skill.Synonyms
		if len(synonyms) == 0 {
			synonyms = []string{name}
		}

		compiled := compiledSkill{Skill: Skill{Name: name}}
		for _, synonym := range synonyms {
			synonym = strings.ToLower(strings.TrimSpace(synonym))
			if synonym == "" {
				continue
			}
			compiled.Synonyms = append(compiled.Synonyms, synonym)
			compiled.synonyms = append(compiled.synonyms, newSynonymMatcher(synonym))
		}

		if len(compiled.synonyms) > 0 {
			c.skills = append(c.skills, compiled)
		}
	}
	return c
}

// Skills returns the canonical skills in catalog order.
func (c *Catalog) Skills() []Skill {
	if c == nil {
		return nil
	}
	out := make([]Skill, 0, len(c.skills))
	for _, s := range c.skills {
		out = append(out, Skill{Name: s.Name, Synonyms: append([]string(nil), s.Synonyms...)})
	}
	return out
}

// Len reports the number of skills in the catalog.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.skills)
}

func (c *Catalog) lookup(name string) (compiledSkill, bool) {
	if c == nil {
		return compiledSkill{}, false
	}
	name = strings.ToLower(strings.TrimSpace(name))
	for _, s := range c.skills {
		if s.Name == name {
			return s, true
		}
	}
	return compiledSkill{}, false
}

// DefaultCatalog returns the built-in technology catalog.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

var defaultCatalog = NewCatalog([]Skill{
	{Name: "javascript", Synonyms: []string{"js", "javascript", "ecmascript"}},
	{Name: "python", Synonyms: []string{"python", "py"}},
	{Name: "java", Synonyms: []string{"java"}},
	{Name: "react", Synonyms: []string{"react", "reactjs"}},
	{Name: "node.js", Synonyms: []string{"node", "nodejs", "node.js"}},
	{Name: "mongodb", Synonyms: []string{"mongodb", "mongo"}},
	{Name: "sql", Synonyms: []string{"sql", "mysql", "postgresql", "oracle"}},
	{Name: "aws", Synonyms: []string{"aws", "amazon web services"}},
	{Name: "docker", Synonyms: []string{"docker"}},
	{Name: "kubernetes", Synonyms: []string{"kubernetes", "k8s"}},
	{Name: "typescript", Synonyms: []string{"typescript", "ts"}},
	{Name: "vue", Synonyms: []string{"vue", "vuejs"}},
	{Name: "angular", Synonyms: []string{"angular"}},
	{Name: "php", Synonyms: []string{"php"}},
	{Name: "ruby", Synonyms: []string{"ruby"}},
	{Name: "c++", Synonyms: []string{"c++", "cpp"}},
	{Name: "c#", Synonyms: []string{"c#", "csharp"}},
	{Name: "go", Synonyms: []string{"go", "golang"}},
	{Name: "rust", Synonyms: []string{"rust"}},
	{Name: "scala", Synonyms: []string{"scala"}},
	{Name: "kotlin", Synonyms: []string{"kotlin"}},
	{Name: "express", Synonyms: []string{"express", "expressjs"}},
	{Name: "django", Synonyms: []string{"django"}},
	{Name: "flask", Synonyms: []string{"flask"}},
	{Name: "spring", Synonyms: []string{"spring", "spring boot"}},
	{Name: "mysql", Synonyms: []string{"mysql"}},
	{Name: "postgresql", Synonyms: []string{"postgresql", "postgres"}},
	{Name: "redis", Synonyms: []string{"redis"}},
	{Name: "graphql", Synonyms: []string{"graphql"}},
	{Name: "rest", Synonyms: []string{"rest", "restful"}},
	{Name: "api", Synonyms: []string{"api", "apis"}},
	{Name: "microservices", Synonyms: []string{"microservices"}},
	{Name: "ci/cd", Synonyms: []string{"ci/cd", "ci", "cd", "continuous integration", "continuous deployment"}},
	{Name: "jenkins", Synonyms: []string{"jenkins"}},
	{Name: "github", Synonyms: []string{"github", "git"}},
	{Name: "jira", Synonyms: []string{"jira"}},
	{Name: "agile", Synonyms: []string{"agile", "scrum", "kanban"}},
	{Name: "scrum", Synonyms: []string{"scrum"}},
	{Name: "html", Synonyms: []string{"html"}},
	{Name: "css", Synonyms: []string{"css"}},
	{Name: "sass", Synonyms: []string{"sass", "scss"}},
	{Name: "less", Synonyms: []string{"less"}},
	{Name: "webpack", Synonyms: []string{"webpack"}},
	{Name: "babel", Synonyms: []string{"babel"}},
	{Name: "eslint", Synonyms: []string{"eslint"}},
	{Name: "jest", Synonyms: []string{"jest"}},
	{Name: "mocha", Synonyms: []string{"mocha"}},
	{Name: "selenium", Synonyms: []string{"selenium"}},
	{Name: "git", Synonyms: []string{"git"}},
	{Name: "linux", Synonyms: []string{"linux"}},
	{Name: "windows", Synonyms: []string{"windows"}},
	{Name: "macos", Synonyms: []string{"macos", "mac"}},
	{Name: "azure", Synonyms: []string{"azure"}},
	{Name: "gcp", Synonyms: []string{"gcp", "google cloud"}},
	{Name: "firebase", Synonyms: []string{"firebase"}},
	{Name: "heroku", Synonyms: []string{"heroku"}},
})

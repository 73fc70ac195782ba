package scoring

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtractCandidateName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{name: "first line", input: "John Doe\nSoftware Developer", expect: "John Doe"},
		{name: "skips blank lines", input: "\n\n   Jane Smith  \nQA", expect: "Jane Smith"},
		{name: "first line before later label", input: "Curriculum Vitae\nName: Jane Doe\nEngineer", expect: "Curriculum Vitae"},
		{name: "labelled first line", input: "\nName: Alice Brown\nQA", expect: "Alice Brown"},
		{name: "empty label keeps line", input: "Name:\nAlice", expect: "Name:"},
		{name: "empty", input: "", expect: UnknownCandidate},
		{name: "whitespace only", input: " \n\t\n", expect: UnknownCandidate},
		{name: "truncated", input: strings.Repeat("a", 60), expect: strings.Repeat("a", 50)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ExtractCandidateName(tt.input, 50); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestJobRequirementsClassifiesMandatorySkills(t *testing.T) {
	mandatory, preferred := JobRequirements("Required: Experience with Python and Docker", DefaultCatalog(), 100)

	if !reflect.DeepEqual(mandatory, []string{"python", "docker"}) {
		t.Fatalf("unexpected mandatory skills: %v", mandatory)
	}
	if len(preferred) != 0 {
		t.Fatalf("expected no preferred skills, got %v", preferred)
	}
}

func TestJobRequirementsPreferredSkills(t *testing.T) {
	mandatory, preferred := JobRequirements("Nice to have: React and Redis.", DefaultCatalog(), 100)

	if len(mandatory) != 0 {
		t.Fatalf("expected no mandatory skills, got %v", mandatory)
	}
	if !reflect.DeepEqual(preferred, []string{"react", "redis"}) {
		t.Fatalf("unexpected preferred skills: %v", preferred)
	}
}

func TestClassifyRequirementWindow(t *testing.T) {
	t.Parallel()

	farAway := "required" + strings.Repeat(" ", 150) + "docker"

	tests := []struct {
		name    string
		job     string
		synonym string
		window  int
		expect  Requirement
	}{
		{name: "strong marker", job: "Strong Go skills", synonym: "go", window: 100, expect: Mandatory},
		{name: "bonus only", job: "We are hiring. Bonus: Kubernetes", synonym: "kubernetes", window: 100, expect: Preferred},
		{name: "marker outside window", job: farAway, synonym: "docker", window: 100, expect: Preferred},
		{name: "marker inside wider window", job: farAway, synonym: "docker", window: 200, expect: Mandatory},
		{name: "absent synonym", job: "Required: Java", synonym: "rust", window: 100, expect: Preferred},
		{name: "empty synonym", job: "Required: Java", synonym: " ", window: 100, expect: Preferred},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ClassifyRequirement(tt.job, tt.synonym, tt.window); got != tt.expect {
				t.Fatalf("expected %s, got %s", tt.expect, got)
			}
		})
	}
}

func TestMatchStrength(t *testing.T) {
	t.Parallel()

	resume := "5 years experience with Python, Docker certified"

	tests := []struct {
		name   string
		text   string
		skill  string
		limit  int
		expect int
	}{
		{name: "present and demonstrated", text: resume, skill: "python", limit: MandatoryCap, expect: 3},
		{name: "demonstrated through list", text: resume, skill: "docker", limit: MandatoryCap, expect: 3},
		{name: "preferred cap", text: resume, skill: "python", limit: PreferredCap, expect: 2},
		{name: "present only", text: "Docker certified", skill: "docker", limit: MandatoryCap, expect: 1},
		{name: "development suffix", text: "Years of React development.", skill: "react", limit: MandatoryCap, expect: 3},
		{name: "no partial words", text: "javascript expert", skill: "java", limit: MandatoryCap, expect: 0},
		{name: "unknown skill", text: resume, skill: "cobol", limit: MandatoryCap, expect: 0},
		{name: "empty text", text: "", skill: "python", limit: MandatoryCap, expect: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := MatchStrength(tt.text, DefaultCatalog(), tt.skill, tt.limit); got != tt.expect {
				t.Fatalf("expected %d, got %d", tt.expect, got)
			}
		})
	}
}

func TestExtractSkillsCapsByRequirement(t *testing.T) {
	requirements := map[string]Requirement{"python": Mandatory}

	matches := ExtractSkills("Experience with Python and Docker", DefaultCatalog(), requirements)

	expected := []SkillMatch{
		{Skill: "python", Strength: 3, Requirement: Mandatory},
		{Skill: "docker", Strength: 2, Requirement: Preferred},
	}
	if !reflect.DeepEqual(matches, expected) {
		t.Fatalf("unexpected matches: %+v", matches)
	}

	if got := ExtractSkills("", DefaultCatalog(), nil); len(got) != 0 {
		t.Fatalf("expected no matches for empty text, got %+v", got)
	}
}

func TestExtractYearsOfExperience(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		expect float64
	}{
		{input: "5 years experience with Go", expect: 5},
		{input: "3.5+ years of professional experience and 7 years in software", expect: 7},
		{input: "Experience: 10 years", expect: 10},
		{input: "2 years work at Acme", expect: 2},
		{input: "no numbers here", expect: 0},
		{input: "", expect: 0},
	}

	for _, tt := range tests {
		if got := ExtractYearsOfExperience(tt.input); got != tt.expect {
			t.Fatalf("%q: expected %v, got %v", tt.input, tt.expect, got)
		}
	}
}

func TestExtractRequiredYears(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		expect float64
	}{
		{input: "Minimum 5 years of Go", expect: 5},
		{input: "3+ years experience required", expect: 3},
		{input: "At least 2 years in fintech. Experience: 4 years", expect: 4},
		{input: "5 years experience with Go", expect: 0},
		{input: "", expect: 0},
	}

	for _, tt := range tests {
		if got := ExtractRequiredYears(tt.input); got != tt.expect {
			t.Fatalf("%q: expected %v, got %v", tt.input, tt.expect, got)
		}
	}
}

func TestExtractEducation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{name: "label", input: "Education: Bachelor of Science", expect: "Bachelor"},
		{name: "degree line", input: "John\nMaster of Science in CS, MIT\nGo", expect: "Master of Science in CS, MIT"},
		{name: "institution line", input: "Jane\nStanford University 2015", expect: "Stanford University 2015"},
		{name: "missing", input: "Go developer", expect: NotSpecified},
		{name: "verb is not a degree", input: "Mastered Kubernetes\nAssociated with open source", expect: NotSpecified},
		{name: "plural degree", input: "Jane\nMasters in Data Science", expect: "Masters in Data Science"},
		{name: "empty", input: "", expect: NotSpecified},
		{name: "truncated", input: "Bachelor " + strings.Repeat("x", 200), expect: "Bachelor " + strings.Repeat("x", 141)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ExtractEducation(tt.input, 150); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestEducationScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		expect int
	}{
		{input: "PhD and Master of Arts", expect: 20},
		{input: "Doctorate in physics", expect: 20},
		{input: "Masters degree", expect: 15},
		{input: "Bachelors degree", expect: 10},
		{input: "Associate degree", expect: 5},
		{input: "Diploma in IT", expect: 3},
		{input: "associated with open source", expect: 0},
		{input: "Mastered Kubernetes", expect: 0},
		{input: "", expect: 0},
	}

	for _, tt := range tests {
		if got := EducationScore(tt.input); got != tt.expect {
			t.Fatalf("%q: expected %d, got %d", tt.input, tt.expect, got)
		}
	}
}

func TestExtractCultureIndicators(t *testing.T) {
	matched, score := ExtractCultureIndicators("Team player who led projects and mentored juniors.", DefaultIndicators())

	if !reflect.DeepEqual(matched, []string{"team player", "led", "mentored"}) {
		t.Fatalf("unexpected indicators: %v", matched)
	}
	if score != 9 {
		t.Fatalf("expected raw score 9, got %d", score)
	}

	matched, score = ExtractCultureIndicators("skilled and enabled", DefaultIndicators())
	if len(matched) != 0 || score != 0 {
		t.Fatalf("expected no indicators inside other words, got %v (%d)", matched, score)
	}

	if matched, score = ExtractCultureIndicators("teamwork", nil); matched != nil || score != 0 {
		t.Fatalf("expected nil table to yield nothing")
	}
}

func TestNewCatalogSkipsBlankEntries(t *testing.T) {
	catalog := NewCatalog([]Skill{
		{Name: " "},
		{Name: "Go", Synonyms: []string{"", "golang"}},
		{Name: "Rust"},
	})

	skills := catalog.Skills()
	expected := []Skill{
		{Name: "go", Synonyms: []string{"golang"}},
		{Name: "rust", Synonyms: []string{"rust"}},
	}
	if !reflect.DeepEqual(skills, expected) {
		t.Fatalf("unexpected catalog: %+v", skills)
	}
}

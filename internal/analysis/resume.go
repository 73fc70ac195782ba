package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/spigell/hr-assist/internal/scoring"
)

// ResumeBreakdown holds the components of a manual resume fit score.
type ResumeBreakdown struct {
	Mandatory         []string
	Preferred         []string
	Matches           []scoring.SkillMatch
	MandatoryCoverage int
	PreferredCoverage int
	CandidateYears    float64
	RequiredYears     float64
	ExperienceScore   int
	EducationScore    int
	Indicators        []string
	CultureScore      int
}

// SkillScore is the combined mandatory and preferred coverage (at most 75).
func (b ResumeBreakdown) SkillScore() int {
	return b.MandatoryCoverage + b.PreferredCoverage
}

// Total is the clamped fit score.
func (b ResumeBreakdown) Total() int {
	return ClampScore(b.SkillScore() + b.ExperienceScore + b.EducationScore + b.CultureScore)
}

// ScoreResume computes every component of the resume fit score.
func (a *Analyzer) ScoreResume(resumeText, jobText string) ResumeBreakdown {
	var b ResumeBreakdown
	b.Mandatory, b.Preferred = scoring.JobRequirements(jobText, a.catalog, a.opts.Limits.RequirementWindow)

	requirements := make(map[string]scoring.Requirement, len(b.Mandatory)+len(b.Preferred))
	for _, skill := range b.Preferred {
		requirements[skill] = scoring.Preferred
	}
	for _, skill := range b.Mandatory {
		requirements[skill] = scoring.Mandatory
	}

	mandatorySum, preferredSum := 0, 0
	for _, match := range scoring.ExtractSkills(resumeText, a.catalog, requirements) {
		if _, asked := requirements[match.Skill]; !asked {
			continue
		}
		b.Matches = append(b.Matches, match)
		if match.Requirement == scoring.Mandatory {
			mandatorySum += match.Strength
		} else {
			preferredSum += match.Strength
		}
	}
	b.MandatoryCoverage = coverage(mandatorySum, len(b.Mandatory)*scoring.MandatoryCap, 50)
	b.PreferredCoverage = coverage(preferredSum, len(b.Preferred)*scoring.PreferredCap, 25)

	b.CandidateYears = scoring.ExtractYearsOfExperience(resumeText)
	b.RequiredYears = scoring.ExtractRequiredYears(jobText)
	b.ExperienceScore = ExperienceScore(b.CandidateYears, b.RequiredYears)

	b.EducationScore = scoring.EducationScore(resumeText)

	var raw int
	b.Indicators, raw = scoring.ExtractCultureIndicators(resumeText, a.indicators)
	b.CultureScore = min(a.opts.CultureCap, raw)

	return b
}

func coverage(sum, maximum, weight int) int {
	if maximum <= 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(maximum) * float64(weight)))
}

// ExperienceScore maps candidate years against required years. Without a
// stated requirement every year is worth two points, up to 20.
func ExperienceScore(candidateYears, requiredYears float64) int {
	if requiredYears <= 0 {
		return int(math.Round(math.Min(20, candidateYears*2)))
	}
	ratio := candidateYears / requiredYears
	switch {
	case ratio >= 1:
		return 30
	case ratio >= 0.8:
		return 25
	case ratio >= 0.6:
		return 15
	case ratio >= 0.4:
		return 5
	default:
		return 0
	}
}

// ResumeFit runs the manual resume-to-job analysis.
func (a *Analyzer) ResumeFit(resumeText, jobText string) ResumeFitResult {
	b := a.ScoreResume(resumeText, jobText)

	skills := make([]string, 0, len(b.Matches))
	mandatoryMatched := 0
	for _, match := range b.Matches {
		if match.Requirement == scoring.Mandatory {
			skills = append(skills, match.Skill)
			mandatoryMatched++
		}
	}
	for _, match := range b.Matches {
		if match.Requirement != scoring.Mandatory {
			skills = append(skills, match.Skill)
		}
	}
	preferredMatched := len(skills) - mandatoryMatched
	if a.opts.MaxSkills > 0 && len(skills) > a.opts.MaxSkills {
		skills = skills[:a.opts.MaxSkills]
	}

	education := scoring.ExtractEducation(resumeText, a.opts.Limits.EducationLength)

	summary := strings.TrimSpace(resumeText)
	if a.opts.SummaryLength > 0 {
		if runes := []rune(summary); len(runes) > a.opts.SummaryLength {
			summary = string(runes[:a.opts.SummaryLength])
		}
	}

	return ResumeFitResult{
		Name:              scoring.ExtractCandidateName(resumeText, a.opts.Limits.NameLength),
		Skills:            skills,
		ExperienceSummary: summary,
		Education:         education,
		FitScore:          b.Total(),
		Reason:            a.reason(b, skills, mandatoryMatched, preferredMatched, education),
		Mode:              ModeManual,
	}
}

func (a *Analyzer) reason(b ResumeBreakdown, skills []string, mandatoryMatched, preferredMatched int, education string) string {
	indicators := b.Indicators
	if len(indicators) > a.opts.ReasonIndicators {
		indicators = indicators[:a.opts.ReasonIndicators]
	}

	return fmt.Sprintf(
		"Skills matched: %s (mandatory %d of %d, preferred %d of %d). Experience: %s years (required: %s). Education: %s. Culture fit indicators: %s.",
		listOrNone(skills),
		mandatoryMatched, len(b.Mandatory),
		preferredMatched, len(b.Preferred),
		formatYears(b.CandidateYears), formatYears(b.RequiredYears),
		education,
		listOrNone(indicators),
	)
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

func formatYears(years float64) string {
	return fmt.Sprintf("%g", years)
}

package scoring

import (
	"regexp"
	"strconv"
)

const yearsNumber = `(\d+(?:\.\d+)?)`

var experiencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)` + yearsNumber + `\+?\s*years?\s*(?:of\s*)?(?:professional\s*)?experience`),
	regexp.MustCompile(`(?i)` + yearsNumber + `\+?\s*years?\s*in\s*(?:software|web|frontend|backend|full.?stack|development)`),
	regexp.MustCompile(`(?i)experience:?\s*` + yearsNumber + `\+?\s*years?`),
	regexp.MustCompile(`(?i)` + yearsNumber + `\s*years?\s*work`),
}

var requiredExperiencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)` + yearsNumber + `\+?\s*years?\s*(?:of\s*)?(?:professional\s*)?experience\s*(?:is\s*)?(?:required|preferred|minimum)`),
	regexp.MustCompile(`(?i)(?:minimum|at least)\s*(?:of\s*)?` + yearsNumber + `\+?\s*years?`),
	regexp.MustCompile(`(?i)experience:\s*` + yearsNumber + `\+?\s*years?`),
}

// ExtractYearsOfExperience returns the largest number of years the text
// claims, or 0 when it makes no such claim.
func ExtractYearsOfExperience(text string) float64 {
	return maxYears(text, experiencePatterns)
}

// ExtractRequiredYears returns the largest number of years a job description
// asks for, or 0 when it sets no requirement.
func ExtractRequiredYears(jobText string) float64 {
	return maxYears(jobText, requiredExperiencePatterns)
}

func maxYears(text string, patterns []*regexp.Regexp) float64 {
	best := 0.0
	for _, re := range patterns {
		for _, match := range re.FindAllStringSubmatch(text, -1) {
			years, err := strconv.ParseFloat(match[1], 64)
			if err != nil {
				continue
			}
			best = max(best, years)
		}
	}
	return best
}

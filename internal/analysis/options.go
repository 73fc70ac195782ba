package analysis

import "github.com/spigell/hr-assist/internal/scoring"

// Options tunes the manual analyzers.
type Options struct {
	Limits scoring.Limits `mapstructure:",squash"`

	// CultureCap bounds the culture contribution to a resume fit score.
	CultureCap int `mapstructure:"culture-cap" validate:"gte=0,lte=100"`
	// MaxSkills bounds the skills listed in a resume fit result.
	MaxSkills int `mapstructure:"max-skills" validate:"gte=1"`
	// ReasonIndicators is how many culture indicators the reason mentions.
	ReasonIndicators int `mapstructure:"reason-indicators" validate:"gte=0"`
	// SearchResults bounds the talent search result list.
	SearchResults int `mapstructure:"search-results" validate:"gte=1"`
	// SummaryLength truncates the experience summary; 0 keeps the full text.
	SummaryLength int `mapstructure:"summary-length" validate:"gte=0"`
}

func DefaultOptions() Options {
	return Options{
		Limits:           scoring.DefaultLimits(),
		CultureCap:       20,
		MaxSkills:        15,
		ReasonIndicators: 5,
		SearchResults:    10,
		SummaryLength:    0,
	}
}

package ai

import (
	"context"

	"github.com/spigell/hr-assist/internal/analysis"
)

// Analyzer is the remote arm of every analysis. Results carry
// analysis.ModeRemote.
type Analyzer interface {
	ResumeFit(ctx context.Context, resumeText, jobText string) (analysis.ResumeFitResult, error)
	CultureFit(ctx context.Context, profile analysis.CandidateProfile, statement string) (analysis.CultureFitResult, error)
	TalentSearch(ctx context.Context, query string, candidates []analysis.Candidate) ([]analysis.RankedCandidate, error)
}

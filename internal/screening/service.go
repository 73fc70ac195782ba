// Package screening exposes the analysis operations. Every call goes through
// the failover controller, which picks the remote or the manual arm.
package screening

import (
	"context"
	"fmt"
	"time"

	"github.com/spigell/hr-assist/internal/ai"
	"github.com/spigell/hr-assist/internal/analysis"
	"github.com/spigell/hr-assist/internal/failover"
	"github.com/spigell/hr-assist/internal/logger"
	"go.uber.org/zap"
)

// AnalysisRecorder counts finished analyses.
type AnalysisRecorder interface {
	RecordAnalysis(kind analysis.Kind, mode analysis.Mode)
}

type Deps struct {
	Controller *failover.Controller
	Manual     *analysis.Analyzer
	// Remote is nil when no provider is configured.
	Remote  ai.Analyzer
	Metrics AnalysisRecorder
	Logger  *zap.Logger
}

type Service struct {
	controller *failover.Controller
	manual     *analysis.Analyzer
	remote     ai.Analyzer
	metrics    AnalysisRecorder
	logger     *zap.Logger
}

func New(deps Deps) *Service {
	s := &Service{
		controller: deps.Controller,
		manual:     deps.Manual,
		remote:     deps.Remote,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
	}
	if s.controller == nil {
		s.controller = failover.New()
	}
	if s.manual == nil {
		s.manual = analysis.NewDefaultAnalyzer()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

func (s *Service) ResumeFit(ctx context.Context, req analysis.ResumeFitRequest) analysis.ResumeFitResult {
	started := time.Now()

	var remote func(context.Context) (analysis.ResumeFitResult, error)
	if s.remote != nil {
		remote = func(ctx context.Context) (analysis.ResumeFitResult, error) {
			return s.remote.ResumeFit(ctx, req.ResumeText, req.JobText)
		}
	}

	result, mode := failover.Run(ctx, s.controller, analysis.KindResumeFit, remote, func() analysis.ResumeFitResult {
		return s.manual.ResumeFit(req.ResumeText, req.JobText)
	})
	result.Mode = mode
	result.FitScore = analysis.ClampScore(result.FitScore)
	if result.Skills == nil {
		result.Skills = []string{}
	}

	s.completed(analysis.KindResumeFit, mode, started, zap.Int("fit_score", result.FitScore))
	return result
}

func (s *Service) CultureFit(ctx context.Context, req analysis.CultureFitRequest) analysis.CultureFitResult {
	started := time.Now()

	var remote func(context.Context) (analysis.CultureFitResult, error)
	if s.remote != nil {
		remote = func(ctx context.Context) (analysis.CultureFitResult, error) {
			return s.remote.CultureFit(ctx, req.Profile, req.CultureStatement)
		}
	}

	result, mode := failover.Run(ctx, s.controller, analysis.KindCultureFit, remote, func() analysis.CultureFitResult {
		return s.manual.CultureFit(req.Profile, req.CultureStatement)
	})
	result.Mode = mode
	result.FitScore = analysis.ClampScore(result.FitScore)

	s.completed(analysis.KindCultureFit, mode, started, zap.Int("fit_score", result.FitScore))
	return result
}

func (s *Service) TalentSearch(ctx context.Context, req analysis.TalentSearchRequest) analysis.TalentSearchResult {
	started := time.Now()

	// An empty pool has nothing to rank remotely.
	var remote func(context.Context) ([]analysis.RankedCandidate, error)
	if s.remote != nil && len(req.Candidates) > 0 {
		remote = func(ctx context.Context) ([]analysis.RankedCandidate, error) {
			return s.remote.TalentSearch(ctx, req.Query, req.Candidates)
		}
	}

	ranked, mode := failover.Run(ctx, s.controller, analysis.KindTalentSearch, remote, func() []analysis.RankedCandidate {
		return s.manual.TalentSearch(req.Query, req.Candidates)
	})
	if ranked == nil {
		ranked = []analysis.RankedCandidate{}
	}
	for i := range ranked {
		ranked[i].Mode = mode
	}

	s.completed(analysis.KindTalentSearch, mode, started, zap.Int("results", len(ranked)))
	return analysis.TalentSearchResult{Candidates: ranked, Mode: mode}
}

// Analyze dispatches any analysis request.
func (s *Service) Analyze(ctx context.Context, req analysis.Request) (analysis.Result, error) {
	switch r := req.(type) {
	case analysis.ResumeFitRequest:
		return s.ResumeFit(ctx, r), nil
	case *analysis.ResumeFitRequest:
		return s.ResumeFit(ctx, *r), nil
	case analysis.CultureFitRequest:
		return s.CultureFit(ctx, r), nil
	case *analysis.CultureFitRequest:
		return s.CultureFit(ctx, *r), nil
	case analysis.TalentSearchRequest:
		return s.TalentSearch(ctx, r), nil
	case *analysis.TalentSearchRequest:
		return s.TalentSearch(ctx, *r), nil
	default:
		return nil, fmt.Errorf("unsupported analysis request %T", req)
	}
}

func (s *Service) FailoverStatus() failover.Status {
	return s.controller.Status()
}

func (s *Service) ResetFailover() failover.Status {
	return s.controller.Reset()
}

// RemoteConfigured reports whether a remote arm is wired.
func (s *Service) RemoteConfigured() bool {
	return s.remote != nil
}

func (s *Service) completed(kind analysis.Kind, mode analysis.Mode, started time.Time, extra ...zap.Field) {
	if s.metrics != nil {
		s.metrics.RecordAnalysis(kind, mode)
	}
	fields := append(logger.AnalysisFields(string(kind), string(mode)), zap.Duration("elapsed", time.Since(started)))
	s.logger.Info("analysis completed", append(fields, extra...)...)
}

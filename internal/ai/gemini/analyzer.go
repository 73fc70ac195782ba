// Package gemini implements the remote analysis arm on top of the Google
// GenAI SDK.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/spigell/hr-assist/internal/ai"
	"github.com/spigell/hr-assist/internal/analysis"
	"github.com/spigell/hr-assist/internal/failover"
	"github.com/spigell/hr-assist/internal/logger"
	"github.com/spigell/hr-assist/internal/scoring"
	"go.uber.org/zap"
)

type invoker interface {
	Invoke(ctx context.Context, prompt string, decode func(raw string) error) (string, error)
}

// Options bounds what the remote arm sends and returns.
type Options struct {
	MaxSkills     int
	SearchResults int
	MaxInputRunes int
}

// Analyzer implements ai.Analyzer by prompting Gemini models through a gateway.
type Analyzer struct {
	gateway invoker
	opts    Options
	logger  *zap.Logger
}

var _ ai.Analyzer = (*Analyzer)(nil)

func NewAnalyzer(gateway invoker, opts Options, log *zap.Logger) *Analyzer {
	if opts.MaxSkills <= 0 {
		opts.MaxSkills = 15
	}
	if opts.SearchResults <= 0 {
		opts.SearchResults = 10
	}
	if opts.MaxInputRunes <= 0 {
		opts.MaxInputRunes = defaultMaxInputRunes
	}
	return &Analyzer{
		gateway: gateway,
		opts:    opts,
		logger:  logger.WithFields(log, zap.String(logger.FieldProvider, providerName)),
	}
}

func (a *Analyzer) ResumeFit(ctx context.Context, resumeText, jobText string) (analysis.ResumeFitResult, error) {
	prompt := renderPrompt(resumePrompt,
		"{{RESUME}}", sanitizeBlock(resumeText, a.opts.MaxInputRunes),
		"{{JOB}}", sanitizeBlock(jobText, a.opts.MaxInputRunes),
	)

	var payload resumePayload
	model, err := a.gateway.Invoke(ctx, prompt, func(raw string) error {
		payload = resumePayload{}
		return decodePayload("resume", resumeSchema, raw, &payload)
	})
	if err != nil {
		return analysis.ResumeFitResult{}, fmt.Errorf("remote resume fit: %w", err)
	}
	a.completed(analysis.KindResumeFit, model)

	name := strings.TrimSpace(payload.Name)
	if name == "" {
		name = scoring.UnknownCandidate
	}
	education := strings.TrimSpace(payload.Education)
	if education == "" {
		education = scoring.NotSpecified
	}

	return analysis.ResumeFitResult{
		Name:              name,
		Skills:            normalizeSkills(payload.Skills, a.opts.MaxSkills),
		ExperienceSummary: strings.TrimSpace(payload.ExperienceSummary),
		Education:         education,
		FitScore:          clampScore(payload.FitScore),
		Reason:            strings.TrimSpace(payload.Reason),
		Mode:              analysis.ModeRemote,
	}, nil
}

func (a *Analyzer) CultureFit(ctx context.Context, profile analysis.CandidateProfile, statement string) (analysis.CultureFitResult, error) {
	candidate, err := json.MarshalIndent(map[string]any{
		"name":               sanitizeLine(profile.Name, maxLineRunes),
		"skills":             sanitizeList(profile.Skills),
		"experience_summary": sanitizeLine(profile.ExperienceSummary, a.opts.MaxInputRunes),
	}, "", "  ")
	if err != nil {
		return analysis.CultureFitResult{}, fmt.Errorf("marshal candidate payload: %w", err)
	}

	prompt := renderPrompt(culturePrompt,
		"{{CANDIDATE}}", string(candidate),
		"{{CULTURE}}", sanitizeLine(statement, a.opts.MaxInputRunes),
	)

	var payload culturePayload
	model, err := a.gateway.Invoke(ctx, prompt, func(raw string) error {
		payload = culturePayload{}
		return decodePayload("culture", cultureSchema, raw, &payload)
	})
	if err != nil {
		return analysis.CultureFitResult{}, fmt.Errorf("remote culture fit: %w", err)
	}
	a.completed(analysis.KindCultureFit, model)

	name := strings.TrimSpace(payload.CandidateName)
	if name == "" {
		name = strings.TrimSpace(profile.Name)
	}
	if name == "" {
		name = scoring.UnknownCandidate
	}

	return analysis.CultureFitResult{
		CandidateName: name,
		FitScore:      clampScore(payload.FitScore),
		Explanation:   strings.TrimSpace(payload.Explanation),
		Mode:          analysis.ModeRemote,
	}, nil
}

type talentEntry struct {
	Index             int      `json:"index"`
	Name              string   `json:"name"`
	JobTitle          string   `json:"job_title,omitempty"`
	Skills            []string `json:"skills"`
	ExperienceSummary string   `json:"experience_summary,omitempty"`
	Location          string   `json:"location,omitempty"`
}

func (a *Analyzer) TalentSearch(ctx context.Context, query string, candidates []analysis.Candidate) ([]analysis.RankedCandidate, error) {
	if len(candidates) == 0 {
		return nil, failover.ErrRemoteUnavailable
	}

	entries := make([]talentEntry, 0, len(candidates))
	for i, c := range candidates {
		entries = append(entries, talentEntry{
			Index:             i,
			Name:              sanitizeLine(c.Name, maxLineRunes),
			JobTitle:          optionalLine(c.JobTitle),
			Skills:            sanitizeList(c.Skills),
			ExperienceSummary: optionalLine(c.ExperienceSummary),
			Location:          optionalLine(c.Location),
		})
	}
	list, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal candidates payload: %w", err)
	}

	prompt := renderPrompt(talentPrompt,
		"{{QUERY}}", sanitizeLine(query, maxLineRunes),
		"{{LIMIT}}", strconv.Itoa(a.opts.SearchResults),
		"{{CANDIDATES}}", string(list),
	)

	var ranked []analysis.RankedCandidate
	model, err := a.gateway.Invoke(ctx, prompt, func(raw string) error {
		var payload talentPayload
		if err := decodePayload("talent", talentSchema, raw, &payload); err != nil {
			return err
		}
		ranked = rankedFromPayload(payload, candidates)
		if len(ranked) == 0 {
			return fmt.Errorf("%w: talent reply ranks none of the %d listed candidates", ai.ErrMalformedResponse, len(candidates))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("remote talent search: %w", err)
	}
	a.completed(analysis.KindTalentSearch, model)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > a.opts.SearchResults {
		ranked = ranked[:a.opts.SearchResults]
	}
	return ranked, nil
}

// rankedFromPayload keeps the first ranking of every listed candidate and
// drops indexes outside the pool.
func rankedFromPayload(payload talentPayload, candidates []analysis.Candidate) []analysis.RankedCandidate {
	ranked := make([]analysis.RankedCandidate, 0, len(payload.Rankings))
	seen := make(map[int]struct{}, len(payload.Rankings))
	for _, r := range payload.Rankings {
		if r.Index < 0 || r.Index >= len(candidates) {
			continue
		}
		if _, dup := seen[r.Index]; dup {
			continue
		}
		seen[r.Index] = struct{}{}
		ranked = append(ranked, analysis.RankedCandidate{
			Candidate: candidates[r.Index],
			Score:     math.Min(100, math.Max(0, r.Score)),
			Mode:      analysis.ModeRemote,
		})
	}
	return ranked
}

func (a *Analyzer) completed(kind analysis.Kind, model string) {
	a.logger.Debug("remote analysis completed",
		append(logger.AnalysisFields(string(kind), string(analysis.ModeRemote)), zap.String(logger.FieldModel, model))...,
	)
}

func clampScore(score float64) int {
	if math.IsNaN(score) {
		return 0
	}
	return analysis.ClampScore(int(math.Round(math.Max(-1, math.Min(101, score)))))
}

func normalizeSkills(skills []string, limit int) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
		if len(out) == limit {
			break
		}
	}
	return out
}

func sanitizeList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if cleaned := optionalLine(item); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}

func optionalLine(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return sanitizeLine(s, maxLineRunes)
}

// Package analysis holds the request and result types shared by the remote and
// manual analysis arms, plus the deterministic manual analyzers.
package analysis

// Mode names the arm that produced a result.
type Mode string

const (
	ModeRemote Mode = "remote"
	ModeManual Mode = "manual"
)

// Kind identifies an analysis operation.
type Kind string

const (
	KindResumeFit    Kind = "resume"
	KindCultureFit   Kind = "culture"
	KindTalentSearch Kind = "talent"
)

// Kinds lists every analysis kind.
func Kinds() []Kind {
	return []Kind{KindResumeFit, KindCultureFit, KindTalentSearch}
}

// Request is one of ResumeFitRequest, CultureFitRequest or TalentSearchRequest.
type Request interface {
	Kind() Kind
}

type ResumeFitRequest struct {
	ResumeText string `json:"resume_text" validate:"required"`
	JobText    string `json:"job_text"`
}

func (ResumeFitRequest) Kind() Kind { return KindResumeFit }

type CultureFitRequest struct {
	Profile          CandidateProfile `json:"candidate"`
	CultureStatement string           `json:"culture_statement" validate:"required"`
}

func (CultureFitRequest) Kind() Kind { return KindCultureFit }

type TalentSearchRequest struct {
	Query      string      `json:"query" validate:"required"`
	Candidates []Candidate `json:"candidates" validate:"max=500,dive"`
}

func (TalentSearchRequest) Kind() Kind { return KindTalentSearch }

// CandidateProfile is the candidate view used for culture fit.
type CandidateProfile struct {
	Name              string   `json:"name"`
	Skills            []string `json:"skills"`
	ExperienceSummary string   `json:"experience_summary"`
}

// Candidate is an already-fetched candidate record.
type Candidate struct {
	ID                string   `json:"id,omitempty"`
	Name              string   `json:"name"`
	Email             string   `json:"email,omitempty" validate:"omitempty,email"`
	Skills            []string `json:"skills"`
	ExperienceSummary string   `json:"experience_summary,omitempty"`
	Education         string   `json:"education,omitempty"`
	Location          string   `json:"location,omitempty"`
	JobTitle          string   `json:"job_title,omitempty"`
	FitScore          int      `json:"fit_score,omitempty"`
}

// Profile returns the culture-fit view of the candidate.
func (c Candidate) Profile() CandidateProfile {
	return CandidateProfile{Name: c.Name, Skills: c.Skills, ExperienceSummary: c.ExperienceSummary}
}

// Result is implemented by every analysis result.
type Result interface {
	ResultMode() Mode
}

type ResumeFitResult struct {
	Name              string   `json:"name"`
	Skills            []string `json:"skills"`
	ExperienceSummary string   `json:"experience_summary"`
	Education         string   `json:"education"`
	FitScore          int      `json:"fit_score"`
	Reason            string   `json:"reason"`
	Mode              Mode     `json:"analysis_mode"`
}

func (r ResumeFitResult) ResultMode() Mode { return r.Mode }

type CultureFitResult struct {
	CandidateName string `json:"candidate_name"`
	FitScore      int    `json:"fit_score"`
	Explanation   string `json:"explanation"`
	Mode          Mode   `json:"analysis_mode"`
}

func (r CultureFitResult) ResultMode() Mode { return r.Mode }

type RankedCandidate struct {
	Candidate Candidate `json:"candidate"`
	Score     float64   `json:"score"`
	Mode      Mode      `json:"analysis_mode"`
}

// TalentSearchResult is the ranked list produced for one query.
type TalentSearchResult struct {
	Candidates []RankedCandidate `json:"candidates"`
	Mode       Mode              `json:"analysis_mode"`
}

func (r TalentSearchResult) ResultMode() Mode { return r.Mode }

// ClampScore bounds a fit score to [0, 100].
func ClampScore(score int) int {
	return min(100, max(0, score))
}

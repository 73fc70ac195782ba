package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/spigell/hr-assist/internal/analysis"
	"github.com/spigell/hr-assist/internal/failover"
	"github.com/spigell/hr-assist/internal/metrics"
	"github.com/spigell/hr-assist/internal/screening"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type failingRemote struct{}

func (failingRemote) ResumeFit(context.Context, string, string) (analysis.ResumeFitResult, error) {
	return analysis.ResumeFitResult{}, errors.New("boom")
}

func (failingRemote) CultureFit(context.Context, analysis.CandidateProfile, string) (analysis.CultureFitResult, error) {
	return analysis.CultureFitResult{}, errors.New("boom")
}

func (failingRemote) TalentSearch(context.Context, string, []analysis.Candidate) ([]analysis.RankedCandidate, error) {
	return nil, errors.New("boom")
}

type fixture struct {
	server   *Server
	recorder *metrics.Recorder
}

func newFixture(t *testing.T, deps screening.Deps) fixture {
	t.Helper()

	recorder := metrics.New()
	if deps.Controller == nil {
		deps.Controller = failover.New(failover.WithObserver(recorder))
	}
	deps.Metrics = recorder

	srv, err := New(DefaultConfig(), Deps{
		Service:        screening.New(deps),
		Metrics:        recorder,
		MetricsHandler: recorder.Handler(),
		Logger:         zap.NewNop(),
	})
	require.NoError(t, err)
	return fixture{server: srv, recorder: recorder}
}

func (f fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestNewRequiresService(t *testing.T) {
	_, err := New(DefaultConfig(), Deps{})
	require.Error(t, err)
}

func TestResumeAnalyze(t *testing.T) {
	f := newFixture(t, screening.Deps{})

	body := `{"resume_text":"Jane Doe\nSenior engineer with 6 years of experience in Python and Docker.\nBachelor of Science in Computer Science","job_text":"Requirements: 5+ years of experience with Python and Docker."}`
	rec := f.do(t, http.MethodPost, "/api/resume/analyze", body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	out := decodeBody(t, rec)
	assert.Equal(t, true, out["success"])
	result, ok := out["analysis"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "manual", result["analysis_mode"])
	assert.Equal(t, "Jane Doe", result["name"])
	score, ok := result["fit_score"].(float64)
	require.True(t, ok)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 100.0)
	assert.Contains(t, result["skills"], "python")
}

func TestResumeAnalyzeValidation(t *testing.T) {
	f := newFixture(t, screening.Deps{})

	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{name: "missing resume", body: `{"job_text":"Go"}`, status: http.StatusBadRequest, message: "resume_text is required"},
		{name: "empty body", body: ``, status: http.StatusBadRequest, message: "request body is empty"},
		{name: "malformed", body: `{"resume_text":`, status: http.StatusBadRequest, message: "invalid JSON body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/api/resume/analyze", tt.body)
			require.Equal(t, tt.status, rec.Code)
			out := decodeBody(t, rec)
			assert.Equal(t, false, out["success"])
			assert.Contains(t, out["message"], tt.message)
		})
	}
}

func TestRequestBodyLimit(t *testing.T) {
	recorder := metrics.New()
	cfg := DefaultConfig()
	cfg.MaxBodyBytes = 32
	srv, err := New(cfg, Deps{Service: screening.New(screening.Deps{}), Metrics: recorder})
	require.NoError(t, err)

	body := `{"resume_text":"` + strings.Repeat("a", 100) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/resume/analyze", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestCultureAnalyze(t *testing.T) {
	f := newFixture(t, screening.Deps{})

	body := `{"candidate":{"name":"Ann","skills":["collaboration"],"experience_summary":"Values innovation and ownership"},"culture_statement":"We value innovation, collaboration and ownership."}`
	rec := f.do(t, http.MethodPost, "/api/culture/analyze", body)

	require.Equal(t, http.StatusOK, rec.Code)
	out := decodeBody(t, rec)
	result := out["analysis"].(map[string]any)
	assert.Equal(t, "Ann", result["candidate_name"])
	assert.Equal(t, 100.0, result["fit_score"])
	assert.Equal(t, "manual", result["analysis_mode"])

	rec = f.do(t, http.MethodPost, "/api/culture/analyze", `{"candidate":{"name":"Ann"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["message"], "culture_statement is required")
}

func TestTalentSearch(t *testing.T) {
	f := newFixture(t, screening.Deps{})

	body := `{"query":"golang kubernetes","candidates":[
		{"id":"1","name":"A","skills":["Java"]},
		{"id":"2","name":"B","skills":["Golang","Kubernetes"],"experience_summary":"golang services"},
		{"id":"3","name":"C","skills":["Kubernetes"]}
	]}`
	rec := f.do(t, http.MethodPost, "/api/talent/search", body)

	require.Equal(t, http.StatusOK, rec.Code)
	out := decodeBody(t, rec)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "manual", out["analysis_mode"])

	candidates, ok := out["candidates"].([]any)
	require.True(t, ok)
	require.Len(t, candidates, 3)
	first := candidates[0].(map[string]any)["candidate"].(map[string]any)
	assert.Equal(t, "B", first["name"])
}

func TestTalentSearchValidation(t *testing.T) {
	f := newFixture(t, screening.Deps{})

	rec := f.do(t, http.MethodPost, "/api/talent/search", `{"query":"go","candidates":[{"name":"A","email":"not-an-email"}]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["message"], "candidates[0].email must be a valid email")

	rec = f.do(t, http.MethodPost, "/api/talent/search", `{"query":"go"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{}, decodeBody(t, rec)["candidates"])
}

func TestFailoverStatusAndReset(t *testing.T) {
	f := newFixture(t, screening.Deps{Remote: failingRemote{}})

	for range failover.DefaultThreshold {
		rec := f.do(t, http.MethodPost, "/api/resume/analyze", `{"resume_text":"Jane Doe"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "manual", decodeBody(t, rec)["analysis"].(map[string]any)["analysis_mode"])
	}

	rec := f.do(t, http.MethodGet, "/api/failover/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	status := decodeBody(t, rec)["status"].(map[string]any)
	assert.Equal(t, "disabled", status["mode"])
	assert.Equal(t, float64(failover.DefaultThreshold), status["consecutive_failures"])

	rec = f.do(t, http.MethodPost, "/api/failover/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	status = decodeBody(t, rec)["status"].(map[string]any)
	assert.Equal(t, "enabled", status["mode"])
	assert.Equal(t, 0.0, status["consecutive_failures"])
}

func TestMethodNotAllowed(t *testing.T) {
	f := newFixture(t, screening.Deps{})

	rec := f.do(t, http.MethodGet, "/api/resume/analyze", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestIDHeader(t *testing.T) {
	f := newFixture(t, screening.Deps{})

	rec := f.do(t, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec = httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(HeaderRequestID))
}

func TestHTTPMetrics(t *testing.T) {
	f := newFixture(t, screening.Deps{})

	f.do(t, http.MethodGet, "/healthz", "")
	f.do(t, http.MethodPost, "/api/resume/analyze", `{}`)

	rec := f.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `hr_assist_http_requests_total{method="GET",route="GET /healthz",status="200"} 1`)
	assert.Contains(t, body, `hr_assist_http_requests_total{method="POST",route="POST /api/resume/analyze",status="400"} 1`)

	count, err := testutil.GatherAndCount(f.recorder.Registry(), "hr_assist_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	f := newFixture(t, screening.Deps{})

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.server.Serve(ctx, listener) }()

	url := "http://" + listener.Addr().String()
	require.Eventually(t, func() bool {
		resp, err := http.Post(url+"/api/resume/analyze", "application/json", bytes.NewBufferString(`{"resume_text":"Jane Doe"}`))
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/spigell/hr-assist/internal/analysis"
	"github.com/spigell/hr-assist/internal/failover"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type analysisResponse struct {
	Success  bool `json:"success"`
	Analysis any  `json:"analysis"`
}

type talentResponse struct {
	Success    bool                       `json:"success"`
	Candidates []analysis.RankedCandidate `json:"candidates"`
	Mode       analysis.Mode              `json:"analysis_mode"`
}

type failoverResponse struct {
	Success bool            `json:"success"`
	Status  failover.Status `json:"status"`
}

func (s *Server) handleResumeFit(w http.ResponseWriter, r *http.Request) {
	var req analysis.ResumeFitRequest
	if !s.decode(w, r, &req) {
		return
	}
	result := s.deps.Service.ResumeFit(r.Context(), req)
	writeJSON(w, http.StatusOK, analysisResponse{Success: true, Analysis: result})
}

func (s *Server) handleCultureFit(w http.ResponseWriter, r *http.Request) {
	var req analysis.CultureFitRequest
	if !s.decode(w, r, &req) {
		return
	}
	result := s.deps.Service.CultureFit(r.Context(), req)
	writeJSON(w, http.StatusOK, analysisResponse{Success: true, Analysis: result})
}

func (s *Server) handleTalentSearch(w http.ResponseWriter, r *http.Request) {
	var req analysis.TalentSearchRequest
	if !s.decode(w, r, &req) {
		return
	}
	result := s.deps.Service.TalentSearch(r.Context(), req)
	writeJSON(w, http.StatusOK, talentResponse{Success: true, Candidates: result.Candidates, Mode: result.Mode})
}

func (s *Server) handleFailoverStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, failoverResponse{Success: true, Status: s.deps.Service.FailoverStatus()})
}

func (s *Server) handleFailoverReset(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, failoverResponse{Success: true, Status: s.deps.Service.ResetFailover()})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "status": "ok"})
}

// decode reads a JSON body into dst and validates it, writing a 400 response
// on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
		case errors.Is(err, io.EOF):
			writeError(w, http.StatusBadRequest, "request body is empty")
		default:
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err))
		}
		return false
	}

	if err := s.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, describeValidation(err))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Success: false, Message: message})
}

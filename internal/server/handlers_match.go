package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-parser/internal/types"
)

// handleMatch scores a completed resume against a job description and
// records the result.
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	resume, ok := s.loadResume(w, r)
	if !ok {
		return
	}
	if resume.Status != types.StatusCompleted || resume.Document == nil {
		s.errorResponse(w, &ErrNotReady{ID: resume.ID, Status: resume.Status})
		return
	}

	var req types.MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, &ErrValidation{Field: "body", Message: "invalid JSON"})
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, &ErrValidation{Field: "jobDescription", Message: err.Error()})
		return
	}

	results, err := s.matcher.Match(r.Context(), resume.Document, &req.JobDescription, req.Options)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	record := &types.MatchRecord{
		ID:           uuid.New(),
		ResumeID:     resume.ID,
		JobTitle:     req.JobDescription.Title,
		JobCompany:   req.JobDescription.Company,
		OverallScore: results.OverallScore,
		Results:      *results,
		CreatedAt:    time.Now(),
	}
	if err := s.store.CreateMatch(r.Context(), record); err != nil {
		s.errorResponse(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"matchId":         record.ID,
		"resumeId":        resume.ID,
		"jobTitle":        record.JobTitle,
		"matchingResults": results,
		"createdAt":       record.CreatedAt.Format(time.RFC3339),
	})
}

// handleListMatches returns the match history for a resume.
func (s *Server) handleListMatches(w http.ResponseWriter, r *http.Request) {
	resume, ok := s.loadResume(w, r)
	if !ok {
		return
	}

	matches, err := s.store.ListMatches(r.Context(), resume.ID)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if matches == nil {
		matches = []*types.MatchRecord{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"resumeId": resume.ID,
		"matches":  matches,
		"count":    len(matches),
	})
}

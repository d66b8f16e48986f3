package server

import (
	"net/http"

	"github.com/jonathan/resume-parser/internal/types"
)

// handleMarketAnalytics returns aggregate insights across the corpus.
// Supports timeframe (7d/30d/90d/365d) and industry query filters.
func (s *Server) handleMarketAnalytics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	result, err := s.analytics.Market(r.Context(), q.Get("timeframe"), q.Get("industry"))
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleResumeAnalytics returns quality analytics for one resume.
func (s *Server) handleResumeAnalytics(w http.ResponseWriter, r *http.Request) {
	resume, ok := s.loadResume(w, r)
	if !ok {
		return
	}
	if resume.Status != types.StatusCompleted || resume.Document == nil {
		s.errorResponse(w, &ErrNotReady{ID: resume.ID, Status: resume.Status})
		return
	}

	result, err := s.analytics.ForResume(resume)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-parser/internal/types"
)

const matchRequestBody = `{
	"jobDescription": {
		"title": "Senior Backend Engineer",
		"company": "Widget Co",
		"description": "Looking for a backend engineer with Go and PostgreSQL experience building distributed systems.",
		"experience": {"minimum": 5, "preferred": 8},
		"requirements": {
			"required": ["Go", "PostgreSQL"],
			"preferred": ["Kubernetes"]
		}
	},
	"options": {"detailedBreakdown": true, "suggestImprovements": true}
}`

func TestHandleMatch_Success(t *testing.T) {
	s := newTestServer(t)
	resume := seedCompletedResume(t, s)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes/"+resume.ID.String()+"/match",
		strings.NewReader(matchRequestBody))
	req.SetPathValue("id", resume.ID.String())
	w := httptest.NewRecorder()

	s.handleMatch(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeJSON(t, w)
	assert.NotEmpty(t, resp["matchId"])
	assert.Equal(t, resume.ID.String(), resp["resumeId"])
	assert.Equal(t, "Senior Backend Engineer", resp["jobTitle"])

	results, ok := resp["matchingResults"].(map[string]any)
	require.True(t, ok)
	assert.Greater(t, results["overallScore"].(float64), 70.0)
	assert.NotEmpty(t, results["recommendation"])
	assert.Contains(t, results, "categoryScores")

	// Match is persisted
	matches, err := s.store.ListMatches(context.Background(), resume.ID)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Senior Backend Engineer", matches[0].JobTitle)
}

func TestHandleMatch_MissingJobFields(t *testing.T) {
	s := newTestServer(t)
	resume := seedCompletedResume(t, s)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes/"+resume.ID.String()+"/match",
		strings.NewReader(`{"jobDescription": {"company": "Widget Co"}}`))
	req.SetPathValue("id", resume.ID.String())
	w := httptest.NewRecorder()

	s.handleMatch(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeJSON(t, w)
	assert.Equal(t, CodeValidation, resp["error"])
}

func TestHandleMatch_NotReady(t *testing.T) {
	s := newTestServer(t)
	resume := seedCompletedResume(t, s)
	resume.Status = types.StatusProcessing
	resume.Document = nil
	require.NoError(t, s.store.UpdateResume(context.Background(), resume))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes/"+resume.ID.String()+"/match",
		strings.NewReader(matchRequestBody))
	req.SetPathValue("id", resume.ID.String())
	w := httptest.NewRecorder()

	s.handleMatch(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandleMatch_ResumeNotFound(t *testing.T) {
	s := newTestServer(t)
	id := uuid.New()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes/"+id.String()+"/match",
		strings.NewReader(matchRequestBody))
	req.SetPathValue("id", id.String())
	w := httptest.NewRecorder()

	s.handleMatch(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleListMatches(t *testing.T) {
	s := newTestServer(t)
	resume := seedCompletedResume(t, s)

	// Run two matches first
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes/"+resume.ID.String()+"/match",
			strings.NewReader(matchRequestBody))
		req.SetPathValue("id", resume.ID.String())
		w := httptest.NewRecorder()
		s.handleMatch(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/resumes/"+resume.ID.String()+"/matches", nil)
	req.SetPathValue("id", resume.ID.String())
	w := httptest.NewRecorder()

	s.handleListMatches(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeJSON(t, w)
	assert.Equal(t, float64(2), resp["count"])
}

func TestHandleListMatches_Empty(t *testing.T) {
	s := newTestServer(t)
	resume := seedCompletedResume(t, s)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/resumes/"+resume.ID.String()+"/matches", nil)
	req.SetPathValue("id", resume.ID.String())
	w := httptest.NewRecorder()

	s.handleListMatches(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeJSON(t, w)
	assert.Equal(t, float64(0), resp["count"])
}

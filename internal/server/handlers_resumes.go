package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-parser/internal/extract"
	"github.com/jonathan/resume-parser/internal/parser"
	"github.com/jonathan/resume-parser/internal/store"
	"github.com/jonathan/resume-parser/internal/types"
)

// estimatedProcessingTime is the seconds estimate returned on upload.
const estimatedProcessingTime = 30

// handleUpload accepts a multipart resume upload and starts background
// processing. Responds 202 with the resume ID for polling.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	// Leave headroom for the multipart envelope and options field
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxFileSize+64*1024)

	if err := r.ParseMultipartForm(s.cfg.MaxFileSize + 64*1024); err != nil {
		s.errorResponse(w, &ErrFileTooLarge{Limit: s.cfg.MaxFileSize})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorResponse(w, &ErrValidation{Field: "file", Message: "file field is required"})
		return
	}
	defer file.Close()

	if header.Size > s.cfg.MaxFileSize {
		s.errorResponse(w, &ErrFileTooLarge{Size: header.Size, Limit: s.cfg.MaxFileSize})
		return
	}

	filename := extract.SanitizeFilename(header.Filename)
	if !extract.Supported(filename, s.cfg.AllowedExtensions) {
		s.errorResponse(w, &ErrUnsupportedFormat{Format: extract.Extension(filename)})
		return
	}

	var opts types.ParseOptions
	if raw := r.FormValue("options"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &opts); err != nil {
			s.errorResponse(w, &ErrValidation{Field: "options", Message: "options must be valid JSON"})
			return
		}
	}

	content, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, &ErrFileTooLarge{Limit: s.cfg.MaxFileSize})
		return
	}

	now := time.Now()
	resume := &types.Resume{
		ID:     uuid.New(),
		Status: types.StatusProcessing,
		Metadata: types.FileMetadata{
			FileName:   filename,
			FileSize:   header.Size,
			FileType:   extract.MIMEType(filename),
			UploadedAt: now,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateResume(r.Context(), resume); err != nil {
		s.errorResponse(w, err)
		return
	}

	s.parser.ProcessAsync(resume, content, opts)

	s.jsonResponse(w, http.StatusAccepted, map[string]any{
		"id":                      resume.ID,
		"status":                  resume.Status,
		"message":                 "Resume uploaded and queued for processing",
		"estimatedProcessingTime": estimatedProcessingTime,
	})
}

// handleListResumes returns stored resumes, optionally filtered by status.
func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	filter := listFilter(r)

	resumes, err := s.store.ListResumes(r.Context(), filter)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	// Listings omit raw text to keep responses small
	for _, resume := range resumes {
		resume.RawText = ""
	}
	if resumes == nil {
		resumes = []*types.Resume{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"resumes": resumes,
		"count":   len(resumes),
	})
}

// handleGetResume returns a single resume with its parsed document.
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	resume, ok := s.loadResume(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, resume)
}

// handleUpdateResume applies a shallow merge of document fields: each
// top-level field present in the request body replaces the stored one.
func (s *Server) handleUpdateResume(w http.ResponseWriter, r *http.Request) {
	resume, ok := s.loadResume(w, r)
	if !ok {
		return
	}
	if resume.Status != types.StatusCompleted || resume.Document == nil {
		s.errorResponse(w, &ErrNotReady{ID: resume.ID, Status: resume.Status})
		return
	}

	var patch map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.errorResponse(w, &ErrValidation{Field: "body", Message: "request body must be a JSON object"})
		return
	}

	if err := mergeDocument(resume.Document, patch); err != nil {
		s.errorResponse(w, err)
		return
	}

	resume.UpdatedAt = time.Now()
	if err := s.store.UpdateResume(r.Context(), resume); err != nil {
		s.errorResponse(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, resume)
}

// handleDeleteResume removes a resume and its match history.
func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	deleted, err := s.store.DeleteResume(r.Context(), id)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if !deleted {
		s.errorResponse(w, &ErrResumeNotFound{ID: id})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleResumeStatus reports processing progress for polling clients.
func (s *Server) handleResumeStatus(w http.ResponseWriter, r *http.Request) {
	resume, ok := s.loadResume(w, r)
	if !ok {
		return
	}

	body := map[string]any{
		"id":     resume.ID,
		"status": resume.Status,
	}

	switch resume.Status {
	case types.StatusProcessing:
		step := s.parser.CurrentStep(resume.ID)
		body["currentStep"] = step
		body["progress"] = stepProgress(step)
	case types.StatusCompleted:
		body["progress"] = 100
		body["processingTime"] = resume.Metadata.ProcessingTime
	case types.StatusFailed:
		body["progress"] = 100
		body["error"] = resume.Error
	}

	s.jsonResponse(w, http.StatusOK, body)
}

// stepProgress maps a pipeline step to an approximate percentage.
func stepProgress(step string) int {
	switch step {
	case parser.StepExtractingText:
		return 25
	case parser.StepAIAnalysis:
		return 55
	case parser.StepEnhancement:
		return 80
	case parser.StepFinalizing:
		return 95
	default:
		return 10
	}
}

// mergeDocument applies known top-level document fields from the patch.
// Unknown fields are rejected.
func mergeDocument(doc *types.ResumeDocument, patch map[string]json.RawMessage) error {
	targets := map[string]any{
		"name":            &doc.Name,
		"contact_info":    &doc.ContactInfo,
		"summary":         &doc.Summary,
		"work_experience": &doc.WorkExperience,
		"education":       &doc.Education,
		"projects":        &doc.Projects,
		"skills":          &doc.Skills,
		"tools":           &doc.Tools,
		"certifications":  &doc.Certifications,
	}

	for field, raw := range patch {
		target, ok := targets[field]
		if !ok {
			return &ErrValidation{Field: field, Message: "unknown field"}
		}
		if err := json.Unmarshal(raw, target); err != nil {
			return &ErrValidation{Field: field, Message: "invalid value"}
		}
	}
	return nil
}

// loadResume parses the path ID and fetches the resume, writing the
// error response itself when either step fails.
func (s *Server) loadResume(w http.ResponseWriter, r *http.Request) (*types.Resume, bool) {
	id, err := parseID(r)
	if err != nil {
		s.errorResponse(w, err)
		return nil, false
	}

	resume, err := s.store.GetResume(r.Context(), id)
	if err != nil {
		s.errorResponse(w, err)
		return nil, false
	}
	if resume == nil {
		s.errorResponse(w, &ErrResumeNotFound{ID: id})
		return nil, false
	}
	return resume, true
}

// listFilter builds a ResumeFilter from query parameters.
func listFilter(r *http.Request) store.ResumeFilter {
	q := r.URL.Query()
	filter := store.ResumeFilter{Status: q.Get("status")}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 {
		filter.Limit = n
	}
	if n, err := strconv.Atoi(q.Get("offset")); err == nil && n > 0 {
		filter.Offset = n
	}
	return filter
}

func parseID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: "id", Message: "must be a valid UUID"}
	}
	return id, nil
}

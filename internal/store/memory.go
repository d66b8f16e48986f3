package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/resume-parser/internal/types"
)

// MemoryStore is an in-process Store used when no database is configured
// and in tests. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	resumes map[uuid.UUID]*types.Resume
	matches map[uuid.UUID][]*types.MatchRecord
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		resumes: make(map[uuid.UUID]*types.Resume),
		matches: make(map[uuid.UUID][]*types.MatchRecord),
	}
}

// CreateResume stores a copy of the resume
func (s *MemoryStore) CreateResume(_ context.Context, resume *types.Resume) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resumes[resume.ID] = copyResume(resume)
	return nil
}

// GetResume returns a copy of the stored resume, or (nil, nil) when absent
func (s *MemoryStore) GetResume(_ context.Context, id uuid.UUID) (*types.Resume, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	resume, ok := s.resumes[id]
	if !ok {
		return nil, nil
	}
	return copyResume(resume), nil
}

// UpdateResume replaces the stored resume. Updating a missing resume is a
// no-op to match the SQL UPDATE semantics.
func (s *MemoryStore) UpdateResume(_ context.Context, resume *types.Resume) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.resumes[resume.ID]; !ok {
		return nil
	}
	s.resumes[resume.ID] = copyResume(resume)
	return nil
}

// DeleteResume removes a resume and its matches
func (s *MemoryStore) DeleteResume(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.resumes[id]; !ok {
		return false, nil
	}
	delete(s.resumes, id)
	delete(s.matches, id)
	return true, nil
}

// ListResumes returns resumes ordered by creation time, newest first
func (s *MemoryStore) ListResumes(_ context.Context, filter ResumeFilter) ([]*types.Resume, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*types.Resume, 0, len(s.resumes))
	for _, resume := range s.resumes {
		if filter.Status != "" && resume.Status != filter.Status {
			continue
		}
		all = append(all, resume)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if filter.Offset >= len(all) {
		return nil, nil
	}
	all = all[filter.Offset:]
	if limit := filter.limit(); len(all) > limit {
		all = all[:limit]
	}

	result := make([]*types.Resume, len(all))
	for i, resume := range all {
		result[i] = copyResume(resume)
	}
	return result, nil
}

// CreateMatch stores a match record for a resume
func (s *MemoryStore) CreateMatch(_ context.Context, match *types.MatchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := *match
	s.matches[match.ResumeID] = append([]*types.MatchRecord{&m}, s.matches[match.ResumeID]...)
	return nil
}

// ListMatches returns matches for a resume, newest first
func (s *MemoryStore) ListMatches(_ context.Context, resumeID uuid.UUID) ([]*types.MatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matches := s.matches[resumeID]
	result := make([]*types.MatchRecord, len(matches))
	for i, match := range matches {
		m := *match
		result[i] = &m
	}
	return result, nil
}

// Ping always succeeds for the in-memory store
func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// Close is a no-op
func (s *MemoryStore) Close() {}

// copyResume makes a shallow copy with fresh pointers for the nested
// structs so callers cannot mutate stored state.
func copyResume(r *types.Resume) *types.Resume {
	c := *r
	if r.Document != nil {
		doc := *r.Document
		c.Document = &doc
	}
	if r.Enhancements != nil {
		enh := *r.Enhancements
		c.Enhancements = &enh
	}
	if r.Confidence != nil {
		conf := *r.Confidence
		c.Confidence = &conf
	}
	return &c
}

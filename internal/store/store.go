// Package store provides persistence for parsed resumes and match results.
// Two implementations exist: PostgresStore backed by pgx, and MemoryStore
// for development and tests.
package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/jonathan/resume-parser/internal/types"
)

// ResumeFilter narrows ListResumes results.
type ResumeFilter struct {
	Status string // Filter by processing status, empty means all
	Limit  int    // Max results, 0 means default
	Offset int
}

// Store is the persistence interface for resumes and match records.
// Get methods return (nil, nil) when the record does not exist.
type Store interface {
	CreateResume(ctx context.Context, resume *types.Resume) error
	GetResume(ctx context.Context, id uuid.UUID) (*types.Resume, error)
	UpdateResume(ctx context.Context, resume *types.Resume) error
	DeleteResume(ctx context.Context, id uuid.UUID) (bool, error)
	ListResumes(ctx context.Context, filter ResumeFilter) ([]*types.Resume, error)

	CreateMatch(ctx context.Context, match *types.MatchRecord) error
	ListMatches(ctx context.Context, resumeID uuid.UUID) ([]*types.MatchRecord, error)

	Ping(ctx context.Context) error
	Close()
}

const defaultListLimit = 50

func (f ResumeFilter) limit() int {
	if f.Limit <= 0 {
		return defaultListLimit
	}
	return f.Limit
}

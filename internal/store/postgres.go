package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/resume-parser/internal/types"
)

// PostgresStore persists resumes and matches in PostgreSQL. Structured
// fields (document, enhancements, confidence, match results) are stored
// as JSONB columns.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database and ensures the
// schema exists.
func Connect(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS resumes (
			id UUID PRIMARY KEY,
			status TEXT NOT NULL,
			metadata JSONB NOT NULL,
			raw_text TEXT NOT NULL DEFAULT '',
			document JSONB,
			enhancements JSONB,
			confidence JSONB,
			error TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_resumes_status ON resumes (status);
		CREATE INDEX IF NOT EXISTS idx_resumes_created_at ON resumes (created_at DESC);

		CREATE TABLE IF NOT EXISTS matches (
			id UUID PRIMARY KEY,
			resume_id UUID NOT NULL REFERENCES resumes (id) ON DELETE CASCADE,
			job_title TEXT NOT NULL,
			job_company TEXT NOT NULL DEFAULT '',
			overall_score DOUBLE PRECISION NOT NULL,
			results JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_matches_resume_id ON matches (resume_id);
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ping verifies the database connection is alive
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// CreateResume inserts a new resume record
func (s *PostgresStore) CreateResume(ctx context.Context, resume *types.Resume) error {
	metadata, document, enhancements, confidence, err := marshalResumeFields(resume)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO resumes (id, status, metadata, raw_text, document, enhancements, confidence, error, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		resume.ID, resume.Status, metadata, resume.RawText, document, enhancements, confidence,
		resume.Error, resume.CreatedAt, resume.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create resume: %w", err)
	}
	return nil
}

// GetResume retrieves a resume by ID, returning (nil, nil) when not found
func (s *PostgresStore) GetResume(ctx context.Context, id uuid.UUID) (*types.Resume, error) {
	var (
		resume       types.Resume
		metadata     []byte
		document     []byte
		enhancements []byte
		confidence   []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, status, metadata, raw_text, document, enhancements, confidence, error, created_at, updated_at
		 FROM resumes WHERE id = $1`,
		id,
	).Scan(&resume.ID, &resume.Status, &metadata, &resume.RawText, &document,
		&enhancements, &confidence, &resume.Error, &resume.CreatedAt, &resume.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}

	if err := unmarshalResumeFields(&resume, metadata, document, enhancements, confidence); err != nil {
		return nil, err
	}
	return &resume, nil
}

// UpdateResume replaces the stored resume record
func (s *PostgresStore) UpdateResume(ctx context.Context, resume *types.Resume) error {
	metadata, document, enhancements, confidence, err := marshalResumeFields(resume)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx,
		`UPDATE resumes
		 SET status = $2, metadata = $3, raw_text = $4, document = $5,
		     enhancements = $6, confidence = $7, error = $8, updated_at = $9
		 WHERE id = $1`,
		resume.ID, resume.Status, metadata, resume.RawText, document, enhancements,
		confidence, resume.Error, resume.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update resume: %w", err)
	}
	return nil
}

// DeleteResume removes a resume and its matches, reporting whether it existed
func (s *PostgresStore) DeleteResume(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete resume: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListResumes returns resumes ordered by creation time, newest first
func (s *PostgresStore) ListResumes(ctx context.Context, filter ResumeFilter) ([]*types.Resume, error) {
	query := `SELECT id, status, metadata, raw_text, document, enhancements, confidence, error, created_at, updated_at
	          FROM resumes`
	args := []any{}
	if filter.Status != "" {
		query += ` WHERE status = $1`
		args = append(args, filter.Status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d OFFSET %d`, filter.limit(), filter.Offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	var resumes []*types.Resume
	for rows.Next() {
		var (
			resume       types.Resume
			metadata     []byte
			document     []byte
			enhancements []byte
			confidence   []byte
		)
		if err := rows.Scan(&resume.ID, &resume.Status, &metadata, &resume.RawText, &document,
			&enhancements, &confidence, &resume.Error, &resume.CreatedAt, &resume.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		if err := unmarshalResumeFields(&resume, metadata, document, enhancements, confidence); err != nil {
			return nil, err
		}
		resumes = append(resumes, &resume)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	return resumes, nil
}

// CreateMatch inserts a match record
func (s *PostgresStore) CreateMatch(ctx context.Context, match *types.MatchRecord) error {
	results, err := json.Marshal(match.Results)
	if err != nil {
		return fmt.Errorf("failed to marshal match results: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO matches (id, resume_id, job_title, job_company, overall_score, results, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		match.ID, match.ResumeID, match.JobTitle, match.JobCompany, match.OverallScore, results, match.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}
	return nil
}

// ListMatches returns matches for a resume, newest first
func (s *PostgresStore) ListMatches(ctx context.Context, resumeID uuid.UUID) ([]*types.MatchRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, resume_id, job_title, job_company, overall_score, results, created_at
		 FROM matches WHERE resume_id = $1 ORDER BY created_at DESC`,
		resumeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	var matches []*types.MatchRecord
	for rows.Next() {
		var match types.MatchRecord
		var results []byte
		if err := rows.Scan(&match.ID, &match.ResumeID, &match.JobTitle, &match.JobCompany,
			&match.OverallScore, &results, &match.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		if err := json.Unmarshal(results, &match.Results); err != nil {
			return nil, fmt.Errorf("failed to unmarshal match results: %w", err)
		}
		matches = append(matches, &match)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return matches, nil
}

func marshalResumeFields(resume *types.Resume) (metadata, document, enhancements, confidence []byte, err error) {
	metadata, err = json.Marshal(resume.Metadata)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if resume.Document != nil {
		document, err = json.Marshal(resume.Document)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("failed to marshal document: %w", err)
		}
	}
	if resume.Enhancements != nil {
		enhancements, err = json.Marshal(resume.Enhancements)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("failed to marshal enhancements: %w", err)
		}
	}
	if resume.Confidence != nil {
		confidence, err = json.Marshal(resume.Confidence)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("failed to marshal confidence: %w", err)
		}
	}
	return metadata, document, enhancements, confidence, nil
}

func unmarshalResumeFields(resume *types.Resume, metadata, document, enhancements, confidence []byte) error {
	if err := json.Unmarshal(metadata, &resume.Metadata); err != nil {
		return fmt.Errorf("failed to unmarshal metadata: %w", err)
	}
	if len(document) > 0 {
		resume.Document = &types.ResumeDocument{}
		if err := json.Unmarshal(document, resume.Document); err != nil {
			return fmt.Errorf("failed to unmarshal document: %w", err)
		}
	}
	if len(enhancements) > 0 {
		resume.Enhancements = &types.AIEnhancements{}
		if err := json.Unmarshal(enhancements, resume.Enhancements); err != nil {
			return fmt.Errorf("failed to unmarshal enhancements: %w", err)
		}
	}
	if len(confidence) > 0 {
		resume.Confidence = &types.ConfidenceScores{}
		if err := json.Unmarshal(confidence, resume.Confidence); err != nil {
			return fmt.Errorf("failed to unmarshal confidence: %w", err)
		}
	}
	return nil
}

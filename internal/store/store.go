// Package store provides PostgreSQL persistence for optimized resumes,
// analyses, auto-fix runs, and exported PDFs.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Kehn-Marv/Career-plus-sub001/internal/types"
)

// Store wraps a PostgreSQL connection pool
type Store struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close closes the connection pool
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// SaveOptimizedResume stores an optimized resume and returns its ID
func (s *Store) SaveOptimizedResume(ctx context.Context, runID uuid.UUID, resume *types.Resume) (uuid.UUID, error) {
	content, err := json.Marshal(resume)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal resume: %w", err)
	}

	var id uuid.UUID
	err = s.pool.QueryRow(ctx,
		`INSERT INTO optimized_resumes (run_id, content)
		 VALUES ($1, $2)
		 RETURNING id`,
		runID, content,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save optimized resume: %w", err)
	}
	return id, nil
}

// GetOptimizedResume retrieves an optimized resume by ID. Returns an error
// for malformed IDs; nil resume with no error when the row does not exist.
func (s *Store) GetOptimizedResume(ctx context.Context, id string) (*types.Resume, error) {
	resumeID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid resume id %q: %w", id, err)
	}

	var content []byte
	err = s.pool.QueryRow(ctx,
		`SELECT content FROM optimized_resumes WHERE id = $1`,
		resumeID,
	).Scan(&content)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get optimized resume: %w", err)
	}

	var resume types.Resume
	if err := json.Unmarshal(content, &resume); err != nil {
		return nil, fmt.Errorf("failed to unmarshal resume %s: %w", id, err)
	}
	return &resume, nil
}

// SaveAnalysis stores an analysis report (ats, bias, localization) for a
// resume and returns its ID
func (s *Store) SaveAnalysis(ctx context.Context, runID uuid.UUID, kind string, report any) (uuid.UUID, error) {
	content, err := json.Marshal(report)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal %s analysis: %w", kind, err)
	}

	var id uuid.UUID
	err = s.pool.QueryRow(ctx,
		`INSERT INTO analyses (run_id, kind, content)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (run_id, kind) DO UPDATE SET content = $3, created_at = NOW()
		 RETURNING id`,
		runID, kind, content,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save %s analysis: %w", kind, err)
	}
	return id, nil
}

// GetAnalysis retrieves an analysis report by run ID and kind. Returns nil
// when no such report exists.
func (s *Store) GetAnalysis(ctx context.Context, runID uuid.UUID, kind string) ([]byte, error) {
	var content []byte
	err := s.pool.QueryRow(ctx,
		`SELECT content FROM analyses WHERE run_id = $1 AND kind = $2`,
		runID, kind,
	).Scan(&content)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s analysis: %w", kind, err)
	}
	return content, nil
}

// PDFExport is a stored export artifact
type PDFExport struct {
	ID       uuid.UUID `json:"id"`
	ResumeID uuid.UUID `json:"resume_id"`
	Filename string    `json:"filename"`
	Blob     []byte    `json:"-"`
}

// SavePDFExport stores a generated PDF for an optimized resume
func (s *Store) SavePDFExport(ctx context.Context, resumeID uuid.UUID, filename string, blob []byte) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.pool.QueryRow(ctx,
		`INSERT INTO pdf_exports (resume_id, filename, blob)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (resume_id) DO UPDATE SET filename = $2, blob = $3, created_at = NOW()
		 RETURNING id`,
		resumeID, filename, blob,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save pdf export: %w", err)
	}
	return id, nil
}

// GetPDFExportByResumeID retrieves the stored PDF for an optimized resume.
// Returns nil when no export exists yet.
func (s *Store) GetPDFExportByResumeID(ctx context.Context, resumeID string) (*PDFExport, error) {
	id, err := uuid.Parse(resumeID)
	if err != nil {
		return nil, fmt.Errorf("invalid resume id %q: %w", resumeID, err)
	}

	var export PDFExport
	err = s.pool.QueryRow(ctx,
		`SELECT id, resume_id, filename, blob FROM pdf_exports WHERE resume_id = $1`,
		id,
	).Scan(&export.ID, &export.ResumeID, &export.Filename, &export.Blob)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get pdf export: %w", err)
	}
	return &export, nil
}

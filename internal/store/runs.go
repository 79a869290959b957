package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Run status constants
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// StepStatus constants
const (
	StepStatusPending    = "pending"
	StepStatusInProgress = "in_progress"
	StepStatusCompleted  = "completed"
	StepStatusFailed     = "failed"
	StepStatusSkipped    = "skipped"
)

// Run represents one auto-fix workflow execution
type Run struct {
	ID          uuid.UUID  `json:"id"`
	JobTitle    string     `json:"job_title"`
	Region      string     `json:"region"`
	TemplateID  string     `json:"template_id"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// RunStep represents a single step execution within an auto-fix run
type RunStep struct {
	ID           uuid.UUID  `json:"id"`
	RunID        uuid.UUID  `json:"run_id"`
	Step         string     `json:"step"`
	Status       string     `json:"status"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	DurationMs   *int       `json:"duration_ms,omitempty"`
	ErrorMessage *string    `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CreateRun creates a new auto-fix run record and returns its ID
func (s *Store) CreateRun(ctx context.Context, jobTitle, region, templateID string) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.pool.QueryRow(ctx,
		`INSERT INTO autofix_runs (job_title, region, template_id, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		jobTitle, region, templateID, RunStatusRunning,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// CompleteRun marks an auto-fix run as completed or failed
func (s *Store) CompleteRun(ctx context.Context, runID uuid.UUID, status string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE autofix_runs SET status = $1, completed_at = NOW() WHERE id = $2`,
		status, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// GetRun retrieves an auto-fix run by ID. Returns nil when not found.
func (s *Store) GetRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	var run Run
	err := s.pool.QueryRow(ctx,
		`SELECT id, job_title, region, template_id, status, created_at, completed_at
		 FROM autofix_runs WHERE id = $1`,
		runID,
	).Scan(&run.ID, &run.JobTitle, &run.Region, &run.TemplateID, &run.Status, &run.CreatedAt, &run.CompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// CreateRunStep inserts a pending step record for a run
func (s *Store) CreateRunStep(ctx context.Context, runID uuid.UUID, stepName string) (*RunStep, error) {
	var step RunStep
	err := s.pool.QueryRow(ctx,
		`INSERT INTO run_steps (run_id, step, status)
		 VALUES ($1, $2, $3)
		 RETURNING id, run_id, step, status, started_at, completed_at,
		           duration_ms, error_message, created_at, updated_at`,
		runID, stepName, StepStatusPending,
	).Scan(&step.ID, &step.RunID, &step.Step, &step.Status,
		&step.StartedAt, &step.CompletedAt, &step.DurationMs,
		&step.ErrorMessage, &step.CreatedAt, &step.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create run step: %w", err)
	}
	return &step, nil
}

// GetRunStep retrieves a run step by run_id and step name. Returns nil when
// not found.
func (s *Store) GetRunStep(ctx context.Context, runID uuid.UUID, stepName string) (*RunStep, error) {
	var step RunStep
	err := s.pool.QueryRow(ctx,
		`SELECT id, run_id, step, status, started_at, completed_at,
		        duration_ms, error_message, created_at, updated_at
		 FROM run_steps
		 WHERE run_id = $1 AND step = $2`,
		runID, stepName,
	).Scan(&step.ID, &step.RunID, &step.Step, &step.Status,
		&step.StartedAt, &step.CompletedAt, &step.DurationMs,
		&step.ErrorMessage, &step.CreatedAt, &step.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run step: %w", err)
	}
	return &step, nil
}

// ListRunSteps retrieves all steps for a run in creation order
func (s *Store) ListRunSteps(ctx context.Context, runID uuid.UUID) ([]RunStep, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, run_id, step, status, started_at, completed_at,
		        duration_ms, error_message, created_at, updated_at
		 FROM run_steps
		 WHERE run_id = $1
		 ORDER BY created_at`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list run steps: %w", err)
	}
	defer rows.Close()

	var steps []RunStep
	for rows.Next() {
		var step RunStep
		if err := rows.Scan(&step.ID, &step.RunID, &step.Step, &step.Status,
			&step.StartedAt, &step.CompletedAt, &step.DurationMs,
			&step.ErrorMessage, &step.CreatedAt, &step.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run step: %w", err)
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// UpdateRunStepStatus updates a step's status, stamping started_at on the
// transition to in_progress and completed_at plus duration on any terminal
// status.
func (s *Store) UpdateRunStepStatus(ctx context.Context, runID uuid.UUID, stepName, status string, errorMsg *string) error {
	now := time.Now()

	currentStep, err := s.GetRunStep(ctx, runID, stepName)
	if err != nil {
		return err
	}
	if currentStep == nil {
		return fmt.Errorf("step not found: %s", stepName)
	}

	var durationMs *int
	if status == StepStatusCompleted && currentStep.StartedAt != nil {
		dur := int(now.Sub(*currentStep.StartedAt).Milliseconds())
		durationMs = &dur
	}

	var startedAt *time.Time
	if status == StepStatusInProgress && currentStep.StartedAt == nil {
		startedAt = &now
	}

	var completedAt *time.Time
	if status == StepStatusCompleted || status == StepStatusFailed || status == StepStatusSkipped {
		completedAt = &now
	}

	_, err = s.pool.Exec(ctx,
		`UPDATE run_steps
		 SET status = $1, started_at = COALESCE($2, started_at), completed_at = $3,
		     duration_ms = $4, error_message = $5, updated_at = NOW()
		 WHERE run_id = $6 AND step = $7`,
		status, startedAt, completedAt, durationMs, errorMsg, runID, stepName,
	)
	if err != nil {
		return fmt.Errorf("failed to update run step status: %w", err)
	}
	return nil
}

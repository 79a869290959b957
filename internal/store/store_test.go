package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunStatusConstants(t *testing.T) {
	assert.Equal(t, "running", RunStatusRunning)
	assert.Equal(t, "completed", RunStatusCompleted)
	assert.Equal(t, "failed", RunStatusFailed)
}

func TestStepStatusConstants(t *testing.T) {
	assert.Equal(t, "pending", StepStatusPending)
	assert.Equal(t, "in_progress", StepStatusInProgress)
	assert.Equal(t, "completed", StepStatusCompleted)
	assert.Equal(t, "failed", StepStatusFailed)
	assert.Equal(t, "skipped", StepStatusSkipped)
}

func TestGetOptimizedResumeRejectsMalformedID(t *testing.T) {
	s := &Store{}

	_, err := s.GetOptimizedResume(context.Background(), "not-a-uuid")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid resume id")
}

func TestGetPDFExportRejectsMalformedID(t *testing.T) {
	s := &Store{}

	_, err := s.GetPDFExportByResumeID(context.Background(), "bogus")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid resume id")
}

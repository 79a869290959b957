// Package server provides the HTTP REST API for the Career+ backend.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Kehn-Marv/Career-plus-sub001/internal/autofix"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/localize"
)

// ErrRunNotFound indicates no run exists for the given ID.
type ErrRunNotFound struct {
	RunID string
}

func (e *ErrRunNotFound) Error() string {
	return fmt.Sprintf("run not found: %s", e.RunID)
}

// ErrResumeNotFound indicates no optimized resume exists for the given ID.
type ErrResumeNotFound struct {
	ResumeID string
}

func (e *ErrResumeNotFound) Error() string {
	return fmt.Sprintf("optimized resume not found: %s", e.ResumeID)
}

// ErrTemplateNotFound indicates an unknown template ID.
type ErrTemplateNotFound struct {
	TemplateID string
}

func (e *ErrTemplateNotFound) Error() string {
	return fmt.Sprintf("template not found: %s", e.TemplateID)
}

// ErrValidation indicates request validation failure.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Workflow errors map by their classified kind rather than by message.
func HTTPStatus(err error) int {
	var wErr *autofix.WorkflowError
	if errors.As(err, &wErr) {
		switch wErr.Kind {
		case autofix.KindPrecondition, autofix.KindValidation:
			return http.StatusUnprocessableEntity
		case autofix.KindNetwork:
			return http.StatusBadGateway
		default:
			return http.StatusInternalServerError
		}
	}

	var regionErr *localize.ErrUnsupportedRegion
	if errors.As(err, &regionErr) {
		return http.StatusBadRequest
	}
	if errors.Is(err, autofix.ErrAlreadyRunning) {
		return http.StatusConflict
	}

	switch err.(type) {
	case *ErrRunNotFound, *ErrResumeNotFound, *ErrTemplateNotFound:
		return http.StatusNotFound
	case *ErrValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

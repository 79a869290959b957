package autofix

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"

	"github.com/Kehn-Marv/Career-plus-sub001/internal/pdf"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/schemas"
)

// ErrorKind classifies workflow failures so callers can react without
// pattern-matching error strings.
type ErrorKind string

const (
	// KindPrecondition means a required input was missing (no resume, no
	// template). The user can fix this; it is not an operational failure.
	KindPrecondition ErrorKind = "precondition"
	// KindNetwork covers unreachable backends and timed-out calls.
	KindNetwork ErrorKind = "network"
	// KindAI covers model-call failures.
	KindAI ErrorKind = "ai"
	// KindValidation covers schema or content validation failures.
	KindValidation ErrorKind = "validation"
	// KindPDF covers render and print failures.
	KindPDF ErrorKind = "pdf"
	// KindStorage covers database failures.
	KindStorage ErrorKind = "storage"
)

// WorkflowError is a classified failure from one workflow step.
type WorkflowError struct {
	Kind ErrorKind
	Step string
	Err  error
}

func (e *WorkflowError) Error() string {
	return fmt.Sprintf("autofix step %s failed (%s): %v", e.Step, e.Kind, e.Err)
}

func (e *WorkflowError) Unwrap() error {
	return e.Err
}

// UserMessage renders the failure for display, with a hint for network
// failures that the backend may be unreachable.
func (e *WorkflowError) UserMessage() string {
	switch e.Kind {
	case KindPrecondition:
		return e.Err.Error()
	case KindNetwork:
		return "A network call failed. The optimization service may be unreachable; check your connection and try again."
	case KindAI:
		return "The AI service could not process your resume. Try again in a moment."
	case KindValidation:
		return "The optimized resume failed validation and was not saved."
	case KindPDF:
		return "PDF generation failed. Try a different template or retry the export."
	case KindStorage:
		return "Saving your results failed. Retry the operation."
	default:
		return e.Err.Error()
	}
}

// classify wraps err as a WorkflowError, inferring the kind from the error
// chain and falling back to the step's default kind.
func classify(step string, err error, fallback ErrorKind) *WorkflowError {
	var wErr *WorkflowError
	if errors.As(err, &wErr) {
		return wErr
	}

	kind := fallback

	var (
		netErr        *net.OpError
		urlErr        *url.Error
		validationErr *schemas.ValidationError
		schemaErr     *schemas.SchemaLoadError
		pdfErr        *pdf.GenerationError
	)
	switch {
	case errors.As(err, &netErr), errors.As(err, &urlErr),
		errors.Is(err, context.DeadlineExceeded):
		kind = KindNetwork
	case errors.As(err, &validationErr), errors.As(err, &schemaErr):
		kind = KindValidation
	case errors.As(err, &pdfErr):
		kind = KindPDF
	}

	return &WorkflowError{Kind: kind, Step: step, Err: err}
}

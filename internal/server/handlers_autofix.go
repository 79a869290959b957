package server

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/Kehn-Marv/Career-plus-sub001/internal/autofix"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/localize"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/types"
)

// AutoFixRequest starts a full optimization workflow.
type AutoFixRequest struct {
	Resume         *types.Resume `json:"resume" validate:"required"`
	JobDescription string        `json:"job_description" validate:"required"`
	JobTitle       string        `json:"job_title"`
	Region         string        `json:"region"`
	TemplateID     string        `json:"template_id"`
	Tone           string        `json:"tone"`
}

func (r *AutoFixRequest) workflowRequest() autofix.Request {
	return autofix.Request{
		Resume:         r.Resume,
		JobDescription: r.JobDescription,
		JobTitle:       r.JobTitle,
		Region:         localize.Region(r.Region),
		TemplateID:     r.TemplateID,
		Tone:           r.Tone,
	}
}

// newWorkflow builds a workflow wired to the server's collaborators. Each
// request gets its own workflow so concurrent requests don't contend on the
// run guard.
func (s *Server) newWorkflow() *autofix.Workflow {
	return autofix.NewWorkflow(s.store, s.llmClient, s.rewriter, s.pdfGen)
}

func (s *Server) handleAutoFix(w http.ResponseWriter, r *http.Request) {
	var req AutoFixRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	result, err := s.newWorkflow().Run(r.Context(), req.workflowRequest())
	if err != nil {
		status := HTTPStatus(err)
		if result != nil {
			s.jsonResponse(w, status, result)
			return
		}
		s.errorResponse(w, status, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// handleAutoFixStream runs the workflow while streaming progress snapshots
// as Server-Sent Events, ending with a complete or error event.
func (s *Server) handleAutoFixStream(w http.ResponseWriter, r *http.Request) {
	var req AutoFixRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	wf := s.newWorkflow()
	progress, cancel := wf.Subscribe()
	defer cancel()

	type runOutcome struct {
		result *autofix.Result
		err    error
	}
	done := make(chan runOutcome, 1)
	go func() {
		result, err := wf.Run(r.Context(), req.workflowRequest())
		done <- runOutcome{result: result, err: err}
	}()

	for {
		select {
		case snap := <-progress:
			if err := sse.WriteProgress(snap); err != nil {
				// Client went away; the workflow keeps running to completion
				// so the run record stays consistent.
				<-done
				return
			}
		case outcome := <-done:
			// Drain any snapshots queued before completion.
			for {
				select {
				case snap := <-progress:
					_ = sse.WriteProgress(snap)
					continue
				default:
				}
				break
			}
			if outcome.err != nil {
				sse.WriteError(outcome.err.Error())
				return
			}
			sse.WriteComplete(outcome.result)
			return
		case <-r.Context().Done():
			<-done
			return
		}
	}
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	runID, err := uuid.Parse(r.PathValue("run_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid run ID")
		return
	}

	run, err := s.store.GetRun(r.Context(), runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if run == nil {
		notFound := &ErrRunNotFound{RunID: runID.String()}
		s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, run)
}

func (s *Server) handleListRunSteps(w http.ResponseWriter, r *http.Request) {
	runID, err := uuid.Parse(r.PathValue("run_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid run ID")
		return
	}

	steps, err := s.store.ListRunSteps(r.Context(), runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"run_id": runID.String(),
		"steps":  steps,
	})
}

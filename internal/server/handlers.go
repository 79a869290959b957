package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Kehn-Marv/Career-plus-sub001/internal/ats"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/bias"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/insights"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/localize"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/types"
)

// decodeAndValidate decodes a JSON request body into dst and runs struct
// validation. It writes the error response itself and reports success.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("validation failed: %v", err))
		return false
	}
	return true
}

// AnalyzeATSRequest accepts either raw resume text or a structured resume.
type AnalyzeATSRequest struct {
	Text   string        `json:"text" validate:"required_without=Resume"`
	Resume *types.Resume `json:"resume"`
}

func (s *Server) handleAnalyzeATS(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeATSRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	text := req.Text
	if req.Resume != nil {
		text = resumeAnalysisText(req.Resume)
	}

	report := ats.Analyze(text)
	s.jsonResponse(w, http.StatusOK, report)
}

// AnalyzeBiasRequest accepts either raw text or a structured resume. The
// structured form yields per-category counts.
type AnalyzeBiasRequest struct {
	Text   string        `json:"text" validate:"required_without=Resume"`
	Resume *types.Resume `json:"resume"`
}

func (s *Server) handleAnalyzeBias(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeBiasRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	if req.Resume != nil {
		report := bias.GetDetailedReport(req.Resume)
		s.jsonResponse(w, http.StatusOK, report)
		return
	}

	report := bias.Analyze(req.Text)
	s.jsonResponse(w, http.StatusOK, report)
}

// LocalizeRequest applies regional conventions to a saved optimized resume.
type LocalizeRequest struct {
	ResumeID string `json:"resume_id" validate:"required,uuid"`
	Region   string `json:"region" validate:"required"`
}

func (s *Server) handleLocalize(w http.ResponseWriter, r *http.Request) {
	var req LocalizeRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	localized, err := s.localizer.ApplyLocalization(r.Context(), req.ResumeID, localize.Region(req.Region))
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if localized == nil {
		err := &ErrResumeNotFound{ResumeID: req.ResumeID}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, localized)
}

// LocalizeAdviceRequest asks for region-specific guidance on resume text.
type LocalizeAdviceRequest struct {
	Text   string `json:"text" validate:"required"`
	Region string `json:"region" validate:"required"`
}

func (s *Server) handleLocalizeAdvice(w http.ResponseWriter, r *http.Request) {
	var req LocalizeAdviceRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	advice, err := localize.GetAdvice(req.Text, localize.Region(req.Region))
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, advice)
}

// RewriteBatchRequest rewrites all experience bullets toward a job posting.
type RewriteBatchRequest struct {
	Resume         *types.Resume `json:"resume" validate:"required"`
	JobDescription string        `json:"job_description" validate:"required"`
	Tone           string        `json:"tone"`
}

func (s *Server) handleRewriteBatch(w http.ResponseWriter, r *http.Request) {
	var req RewriteBatchRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	batch, err := s.rewriter.RewriteResume(r.Context(), req.Resume, req.JobDescription, req.Tone)
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, fmt.Sprintf("rewrite failed: %v", err))
		return
	}

	s.jsonResponse(w, http.StatusOK, batch)
}

// GenerateInsightsRequest asks for personalized strengths, gaps, and
// recommendations against a job description.
type GenerateInsightsRequest struct {
	ResumeText      string                   `json:"resume_text" validate:"required"`
	JobDescription  string                   `json:"job_description" validate:"required"`
	KeywordAnalysis insights.KeywordAnalysis `json:"keyword_analysis"`
	Scores          insights.Scores          `json:"scores"`
}

func (s *Server) handleGenerateInsights(w http.ResponseWriter, r *http.Request) {
	var req GenerateInsightsRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	report, err := s.insights.Generate(r.Context(), req.ResumeText, req.JobDescription, req.KeywordAnalysis, req.Scores)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, report)
}

// resumeAnalysisText flattens a structured resume for the text-based checks.
func resumeAnalysisText(resume *types.Resume) string {
	var sections []string
	sections = append(sections, resume.Contact.Name)
	if resume.Contact.Email != "" {
		sections = append(sections, resume.Contact.Email)
	}
	if resume.Summary != "" {
		sections = append(sections, "Summary:", resume.Summary)
	}
	if len(resume.Experience) > 0 {
		sections = append(sections, "Experience:")
		for _, exp := range resume.Experience {
			sections = append(sections, fmt.Sprintf("%s, %s", exp.Title, exp.Company))
			sections = append(sections, exp.Description...)
		}
	}
	if len(resume.Skills) > 0 {
		sections = append(sections, "Skills:")
		sections = append(sections, resume.Skills...)
	}

	text := ""
	for i, s := range sections {
		if i > 0 {
			text += "\n"
		}
		text += s
	}
	return text
}

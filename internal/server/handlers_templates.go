package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Kehn-Marv/Career-plus-sub001/internal/pdf"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/store"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/templates"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/types"
)

func (s *Server) handleListTemplates(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"templates":   templates.GetAllTemplates(),
		"max_compare": templates.MaxCompare,
	})
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	def, ok := templates.GetTemplate(id)
	if !ok {
		notFound := &ErrTemplateNotFound{TemplateID: id}
		s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, def)
}

// TemplatePreviewRequest resolves a gallery selection into rendered previews.
// In compare mode at least two template IDs are required; in normal mode
// exactly one.
type TemplatePreviewRequest struct {
	Compare     bool          `json:"compare"`
	TemplateIDs []string      `json:"template_ids" validate:"required,min=1"`
	Resume      *types.Resume `json:"resume" validate:"required"`
}

// TemplatePreview is one rendered template in a preview response.
type TemplatePreview struct {
	Template templates.TemplateDefinition `json:"template"`
	HTML     string                       `json:"html"`
}

func (s *Server) handleTemplatePreview(w http.ResponseWriter, r *http.Request) {
	var req TemplatePreviewRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	// Replay the clicks through the gallery so mode rules hold: single
	// selection in normal mode, two-or-more bounded set in compare mode.
	gallery := templates.NewGallery()
	gallery.SetCompareMode(req.Compare)
	for _, id := range req.TemplateIDs {
		if err := gallery.Click(id); err != nil {
			s.errorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	preview, err := gallery.Preview()
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	previews := make([]TemplatePreview, 0, len(preview.Templates))
	for _, def := range preview.Templates {
		html, err := s.engine.Render(def.ID, req.Resume)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, fmt.Sprintf("render failed: %v", err))
			return
		}
		previews = append(previews, TemplatePreview{Template: def, HTML: html})
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"compare":  preview.Compare,
		"previews": previews,
	})
}

// handleExportPDF serves the stored PDF for an optimized resume, generating
// and storing it first if the workflow skipped that step.
func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	resumeID := r.PathValue("id")

	export, err := s.store.GetPDFExportByResumeID(r.Context(), resumeID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	if export == nil {
		resume, err := s.store.GetOptimizedResume(r.Context(), resumeID)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, err.Error())
			return
		}
		if resume == nil {
			notFound := &ErrResumeNotFound{ResumeID: resumeID}
			s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
			return
		}

		templateID := r.URL.Query().Get("template")
		if templateID == "" {
			templateID = "professional"
		}
		blob, err := s.pdfGen.GeneratePDF(r.Context(), resume, templateID)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, fmt.Sprintf("PDF generation failed: %v", err))
			return
		}

		region := r.URL.Query().Get("region")
		if region == "" {
			region = "US"
		}
		filename := pdf.ExportFilename(region, r.URL.Query().Get("job_title"), time.Now())
		export = &store.PDFExport{Filename: filename, Blob: blob}
		// Persist for subsequent downloads; a failure here only costs a
		// regeneration next time.
		if id, parseErr := uuid.Parse(resumeID); parseErr == nil {
			_, _ = s.store.SavePDFExport(r.Context(), id, filename, blob)
		}
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	_, _ = w.Write(export.Blob)
}

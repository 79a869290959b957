package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/Kehn-Marv/Career-plus-sub001/internal/localize"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/pdf"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/templates"
)

var (
	exportResume   string
	exportTemplate string
	exportRegion   string
	exportJobTitle string
	exportOut      string
	exportHTMLOnly bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a resume to PDF",
	Long: `Renders a resume through a gallery template and prints it to a
US Letter PDF via headless Chrome. Requires a Chrome or Chromium binary
on the PATH unless --html is given.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportResume, "resume", "r", "", "Path to resume JSON file (required)")
	exportCmd.Flags().StringVar(&exportTemplate, "template", "professional", "Template ID: professional, modern, compact, or academic")
	exportCmd.Flags().StringVar(&exportRegion, "region", "US", "Target region used in the export filename")
	exportCmd.Flags().StringVar(&exportJobTitle, "job-title", "", "Job title used in the export filename")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output path (default: generated filename in the current directory)")
	exportCmd.Flags().BoolVar(&exportHTMLOnly, "html", false, "Write the rendered HTML instead of printing a PDF")
	_ = exportCmd.MarkFlagRequired("resume")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	resume, err := loadResume(exportResume)
	if err != nil {
		return err
	}

	if _, ok := localize.GuidelinesFor(localize.Region(exportRegion)); !ok {
		return &localize.ErrUnsupportedRegion{Region: localize.Region(exportRegion)}
	}

	check := pdf.ValidateResumeForExport(resume)
	for _, w := range check.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	if !check.Valid {
		for _, e := range check.Errors {
			fmt.Fprintf(os.Stderr, "error: %s\n", e)
		}
		return fmt.Errorf("resume is not ready for export")
	}

	engine := templates.NewEngine()

	if exportHTMLOnly {
		html, err := engine.Render(exportTemplate, resume)
		if err != nil {
			return err
		}
		out := exportOut
		if out == "" {
			out = "resume.html"
		}
		if err := os.WriteFile(out, []byte(html), 0o644); err != nil {
			return fmt.Errorf("failed to write HTML: %w", err)
		}
		fmt.Printf("Wrote %s\n", out)
		return nil
	}

	generator := pdf.NewGenerator(engine)
	data, err := generator.GeneratePDF(cmd.Context(), resume, exportTemplate)
	if err != nil {
		return fmt.Errorf("PDF generation failed: %w", err)
	}

	out := exportOut
	if out == "" {
		out = pdf.ExportFilename(exportRegion, exportJobTitle, time.Now())
	}
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}

	fmt.Printf("Wrote %s (%d bytes)\n", out, len(data))
	return nil
}

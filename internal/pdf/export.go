package pdf

import (
	"fmt"
	"strings"
	"time"

	"github.com/Kehn-Marv/Career-plus-sub001/internal/types"
)

// ExportFilename builds the download name for an exported resume:
// Resume_<Region>_<JobTitle>_<Date>.pdf, with spaces in the job title
// replaced by underscores and the date formatted YYYY-MM-DD.
func ExportFilename(region, jobTitle string, date time.Time) string {
	title := strings.ReplaceAll(strings.TrimSpace(jobTitle), " ", "_")
	if title == "" {
		title = "Resume"
	}
	return fmt.Sprintf("Resume_%s_%s_%s.pdf", region, title, date.Format("2006-01-02"))
}

// ValidationResult reports whether a resume is exportable and why not.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// ValidateResumeForExport checks a resume for problems before rendering.
// Errors block the export; warnings do not.
func ValidateResumeForExport(resume *types.Resume) ValidationResult {
	var errs, warnings []string

	if resume == nil {
		return ValidationResult{Errors: []string{"no resume to export"}}
	}

	if strings.TrimSpace(resume.Contact.Name) == "" {
		errs = append(errs, "contact name is required")
	}
	if len(resume.Experience) == 0 {
		errs = append(errs, "at least one experience entry is required")
	}
	for i, exp := range resume.Experience {
		if len(exp.Description) == 0 {
			errs = append(errs, fmt.Sprintf("experience %d (%s) has no bullet points", i+1, exp.Title))
		}
	}

	if resume.Contact.Email == "" && resume.Contact.Phone == "" {
		warnings = append(warnings, "no email or phone number; recruiters cannot reach you")
	}
	if strings.TrimSpace(resume.Summary) == "" {
		warnings = append(warnings, "no professional summary")
	}
	if len(resume.Skills) == 0 {
		warnings = append(warnings, "no skills listed")
	}
	if resume.BulletCount() > 40 {
		warnings = append(warnings, "resume is very long and may exceed two pages")
	}

	return ValidationResult{
		Valid:    len(errs) == 0,
		Errors:   errs,
		Warnings: warnings,
	}
}

// EstimatePDFSize approximates the exported PDF size in bytes from the
// resume's text volume. Renders carry a fixed structural overhead plus the
// embedded text and font subset.
func EstimatePDFSize(resume *types.Resume) int {
	const (
		baseOverhead = 18 * 1024
		bytesPerChar = 6
		perEntryCost = 512
	)

	chars := len(resume.Summary) + len(resume.Contact.Name)
	entries := len(resume.Education) + len(resume.Certifications)
	for _, exp := range resume.Experience {
		entries++
		chars += len(exp.Title) + len(exp.Company)
		for _, bullet := range exp.Description {
			chars += len(bullet)
		}
	}
	for _, skill := range resume.Skills {
		chars += len(skill)
	}

	return baseOverhead + chars*bytesPerChar + entries*perEntryCost
}

// Package ats detects resume formatting and content problems that prevent
// applicant tracking systems from parsing a resume correctly.
package ats

import (
	"fmt"
	"regexp"
	"strings"
)

// Severity classifies how badly an issue degrades ATS parsing.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Issue is a single compatibility problem found in the resume text.
type Issue struct {
	ID          string   `json:"id"`
	Severity    Severity `json:"severity"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Suggestion  string   `json:"suggestion"`
}

// Report is the result of a full compatibility analysis.
type Report struct {
	Score  float64 `json:"ats_score"`
	Label  string  `json:"score_label"`
	Issues []Issue `json:"issues"`
}

var (
	markdownTableRe = regexp.MustCompile(`\|.*\|.*\|`)
	tabColumnsRe    = regexp.MustCompile(`\t.*\t.*\t`)
	wideSpacingRe   = regexp.MustCompile(`\s{10,}`)
	phoneRe         = regexp.MustCompile(`\d{3}[-.]?\d{3}[-.]?\d{4}`)
	slashDateRe     = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{2,4}`)
	isoDateRe       = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	monthYearRe     = regexp.MustCompile(`[A-Za-z]+\s+\d{4}`)
	blankRunsRe     = regexp.MustCompile(`\n\n\n+`)
	skillsSectionRe = regexp.MustCompile(`(?i:skills?:)((?s).+?)(\n\n|\n[A-Z]|$)`)
	bulletMarkerRe  = regexp.MustCompile(`[-•*]\s`)
	metricsRe       = regexp.MustCompile(`\d+%|\$\d+|\d+\+`)
)

// Analyze runs every compatibility check over the resume text and scores the result.
func Analyze(text string) Report {
	var issues []Issue
	issues = append(issues, checkTables(text)...)
	issues = append(issues, checkSpecialCharacters(text)...)
	issues = append(issues, checkContactPlacement(text)...)
	issues = append(issues, checkFormatting(text)...)
	issues = append(issues, checkSections(text)...)
	issues = append(issues, checkKeywords(text)...)

	score := Score(issues)
	return Report{
		Score:  score,
		Label:  ScoreLabel(score),
		Issues: issues,
	}
}

// Score starts at 100 and deducts per issue severity, clamped to [0, 100].
func Score(issues []Issue) float64 {
	score := 100.0
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityCritical:
			score -= 15
		case SeverityWarning:
			score -= 8
		case SeverityInfo:
			score -= 3
		}
	}
	if score < 0 {
		return 0
	}
	return score
}

// ScoreLabel maps a score to the label shown next to it.
func ScoreLabel(score float64) string {
	switch {
	case score >= 80:
		return "ATS-Friendly"
	case score >= 60:
		return "Needs Minor Fixes"
	default:
		return "Needs Major Fixes"
	}
}

func checkTables(text string) []Issue {
	hasTable := markdownTableRe.MatchString(text) || tabColumnsRe.MatchString(text)
	if !hasTable {
		for _, line := range strings.Split(text, "\n") {
			if wideSpacingRe.MatchString(line) {
				hasTable = true
				break
			}
		}
	}
	if !hasTable {
		return nil
	}
	return []Issue{{
		ID:          "ats-table-usage",
		Severity:    SeverityCritical,
		Title:       "Table Formatting Detected",
		Description: "Your resume appears to use tables or columns, which many ATS systems cannot parse correctly.",
		Suggestion:  "Convert tables to simple bullet points or linear text format. Use standard sections with clear headings instead of multi-column layouts.",
	}}
}

func checkSpecialCharacters(text string) []Issue {
	problematic := []struct {
		char string
		name string
	}{
		{"•", "bullet points"},
		{"→", "arrows"},
		{"★", "stars"},
		{"◆", "diamonds"},
		{"§", "section symbols"},
		{"©", "copyright symbols"},
		{"®", "registered symbols"},
		{"™", "trademark symbols"},
	}

	var found []string
	for _, p := range problematic {
		if strings.Contains(text, p.char) {
			found = append(found, p.name)
		}
	}
	if len(found) == 0 {
		return nil
	}
	return []Issue{{
		ID:          "ats-special-chars",
		Severity:    SeverityWarning,
		Title:       "Special Characters Detected",
		Description: fmt.Sprintf("Your resume contains special characters (%s) that may not be recognized by ATS systems.", strings.Join(found, ", ")),
		Suggestion:  "Replace special characters with standard ASCII characters. Use hyphens (-) for bullet points and asterisks (*) for emphasis.",
	}}
}

// checkContactPlacement flags resumes whose first lines carry no email or
// phone number; contact info buried in a header or footer is invisible to
// most parsers.
func checkContactPlacement(text string) []Issue {
	lines := strings.Split(text, "\n")
	if len(lines) > 5 {
		lines = lines[:5]
	}
	top := strings.ToLower(strings.Join(lines, " "))

	if strings.Contains(top, "@") || phoneRe.MatchString(top) {
		return nil
	}
	return []Issue{{
		ID:          "ats-missing-contact",
		Severity:    SeverityCritical,
		Title:       "Contact Information Not Found",
		Description: "Contact information should be clearly visible in the main body of your resume, not in headers or footers.",
		Suggestion:  "Place your name, phone number, email, and location at the top of your resume in the main document body. Avoid using headers or footers for critical information.",
	}}
}

func checkFormatting(text string) []Issue {
	var issues []Issue

	dateFormats := 0
	for _, re := range []*regexp.Regexp{slashDateRe, isoDateRe, monthYearRe} {
		if re.MatchString(text) {
			dateFormats++
		}
	}
	if dateFormats > 1 {
		issues = append(issues, Issue{
			ID:          "ats-inconsistent-dates",
			Severity:    SeverityWarning,
			Title:       "Inconsistent Date Formatting",
			Description: "Your resume uses multiple date formats, which can confuse ATS parsers.",
			Suggestion:  "Use a consistent date format throughout your resume. Recommended: 'Month YYYY' (e.g., 'January 2023') or 'MM/YYYY'.",
		})
	}

	if blankRunsRe.MatchString(text) {
		issues = append(issues, Issue{
			ID:          "ats-excessive-breaks",
			Severity:    SeverityInfo,
			Title:       "Excessive Line Breaks",
			Description: "Multiple consecutive blank lines can disrupt ATS parsing.",
			Suggestion:  "Use single blank lines to separate sections. Remove excessive whitespace.",
		})
	}

	return issues
}

func checkSections(text string) []Issue {
	lower := strings.ToLower(text)

	sections := []struct {
		name     string
		keywords []string
	}{
		{"Experience", []string{"experience", "work history", "employment", "professional experience"}},
		{"Education", []string{"education", "academic", "degree", "university", "college"}},
		{"Skills", []string{"skills", "technical skills", "competencies", "expertise"}},
	}

	var missing []string
	for _, section := range sections {
		found := false
		for _, kw := range section.keywords {
			if strings.Contains(lower, kw) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, section.name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return []Issue{{
		ID:          "ats-missing-sections",
		Severity:    SeverityWarning,
		Title:       "Missing Standard Sections",
		Description: fmt.Sprintf("Your resume is missing standard sections: %s. ATS systems look for these sections.", strings.Join(missing, ", ")),
		Suggestion:  "Include clearly labeled sections for Experience, Education, and Skills. Use standard section headers that ATS systems recognize.",
	}}
}

func checkKeywords(text string) []Issue {
	var issues []Issue
	lower := strings.ToLower(text)

	if m := skillsSectionRe.FindStringSubmatch(text); m != nil {
		if !bulletMarkerRe.MatchString(m[1]) {
			issues = append(issues, Issue{
				ID:          "ats-skills-format",
				Severity:    SeverityInfo,
				Title:       "Skills Section Formatting",
				Description: "Your skills section would be more ATS-friendly with bullet points.",
				Suggestion:  "Format your skills as a bulleted list. This helps ATS systems identify and extract individual skills more accurately.",
			})
		}
	}

	actionVerbs := []string{
		"led", "managed", "developed", "created", "implemented",
		"designed", "improved", "increased", "reduced", "achieved",
	}
	hasVerb := false
	for _, verb := range actionVerbs {
		if strings.Contains(lower, verb) {
			hasVerb = true
			break
		}
	}
	if !hasVerb {
		issues = append(issues, Issue{
			ID:          "ats-action-verbs",
			Severity:    SeverityInfo,
			Title:       "Limited Action Verbs",
			Description: "Your resume could benefit from more strong action verbs, which ATS systems often look for.",
			Suggestion:  "Start your bullet points with strong action verbs like 'Led,' 'Managed,' 'Developed,' 'Implemented,' etc.",
		})
	}

	if !metricsRe.MatchString(text) {
		issues = append(issues, Issue{
			ID:          "ats-quantifiable-achievements",
			Severity:    SeverityInfo,
			Title:       "Missing Quantifiable Achievements",
			Description: "Your resume lacks quantifiable metrics, which both ATS and recruiters value.",
			Suggestion:  "Add specific numbers, percentages, or dollar amounts to demonstrate your impact (e.g., 'Increased sales by 25%', 'Managed team of 10').",
		})
	}

	return issues
}

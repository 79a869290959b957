// Package localize adapts resume formatting and terminology to regional
// hiring conventions (US, UK, EU, APAC).
package localize

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/Kehn-Marv/Career-plus-sub001/internal/types"
)

// TermChange is a single terminology substitution recommended for a region.
type TermChange struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Reason string `json:"reason"`
}

// Advice bundles the recommendations for localizing a resume to a region.
type Advice struct {
	Recommendations    []string     `json:"recommendations"`
	FormatChanges      []string     `json:"format_changes"`
	TerminologyChanges []TermChange `json:"terminology_changes"`
	TargetRegion       Region       `json:"target_region"`
	DateFormat         string       `json:"date_format"`
	CulturalNotes      []string     `json:"cultural_notes"`
}

// LocalizedResume is a resume after regional terminology substitution.
type LocalizedResume struct {
	ResumeID       string        `json:"resume_id"`
	Region         Region        `json:"region"`
	Resume         *types.Resume `json:"resume"`
	AppliedChanges []TermChange  `json:"applied_changes"`
	DateFormat     string        `json:"date_format"`
}

// ResumeLoader loads a previously optimized resume by ID.
type ResumeLoader interface {
	GetOptimizedResume(ctx context.Context, id string) (*types.Resume, error)
}

// ErrUnsupportedRegion is returned for regions outside US/UK/EU/APAC.
type ErrUnsupportedRegion struct {
	Region Region
}

func (e *ErrUnsupportedRegion) Error() string {
	return fmt.Sprintf("unsupported region: %s", e.Region)
}

// GetAdvice inspects the resume text and produces region-specific
// recommendations, format changes, and terminology substitutions.
func GetAdvice(resumeText string, region Region) (*Advice, error) {
	guidelines, ok := GuidelinesFor(region)
	if !ok {
		return nil, &ErrUnsupportedRegion{Region: region}
	}

	lower := strings.ToLower(resumeText)

	var termChanges []TermChange
	for _, pair := range guidelines.Terminology {
		if strings.Contains(lower, strings.ToLower(pair.From)) {
			termChanges = append(termChanges, TermChange{
				From:   pair.From,
				To:     pair.To,
				Reason: fmt.Sprintf("Use '%s' in %s resumes", pair.To, region),
			})
		}
	}

	var recommendations []string
	switch region {
	case RegionUS:
		if containsAny(lower, "photo", "picture", "image") {
			recommendations = append(recommendations, "Remove photo - not standard in US resumes and may introduce bias")
		}
		if containsAny(lower, "age", "born", "date of birth") {
			recommendations = append(recommendations, "Remove age/date of birth - illegal to request in US")
		}
		if containsAny(lower, "marital", "married", "single") {
			recommendations = append(recommendations, "Remove marital status - not relevant in US resumes")
		}
	case RegionUK:
		recommendations = append(recommendations,
			"Consider adding 'References available upon request' at the end",
			"Use British English spelling (e.g., 'organised' not 'organized')")
	case RegionEU:
		recommendations = append(recommendations,
			"Consider using Europass CV format for EU applications",
			"Emphasize language skills - multilingualism is highly valued")
		if !strings.Contains(lower, "language") {
			recommendations = append(recommendations, "Add a dedicated 'Language Skills' section")
		}
	case RegionAPAC:
		recommendations = append(recommendations,
			"Include professional photo (headshot, business attire)",
			"List education before work experience if applying in East Asia")
		if !strings.Contains(lower, "objective") {
			recommendations = append(recommendations, "Consider adding a 'Career Objective' section at the top")
		}
		recommendations = append(recommendations, "Include personal particulars: DOB, nationality, marital status")
	}

	for i, note := range guidelines.CulturalNotes {
		if i >= 2 {
			break
		}
		recommendations = append(recommendations, "Cultural tip: "+note)
	}
	recommendations = append(recommendations, fmt.Sprintf("Use %s date format consistently", guidelines.DateFormat))

	formatChanges := make([]string, len(guidelines.Format))
	copy(formatChanges, guidelines.Format)

	return &Advice{
		Recommendations:    recommendations,
		FormatChanges:      formatChanges,
		TerminologyChanges: termChanges,
		TargetRegion:       region,
		DateFormat:         guidelines.DateFormat,
		CulturalNotes:      guidelines.CulturalNotes,
	}, nil
}

// Localizer applies regional terminology to stored resumes.
type Localizer struct {
	loader ResumeLoader
}

// NewLocalizer wires the localizer to a resume store.
func NewLocalizer(loader ResumeLoader) *Localizer {
	return &Localizer{loader: loader}
}

// ApplyLocalization loads the optimized resume and substitutes regional
// terminology across its summary, bullets, and skills.
func (l *Localizer) ApplyLocalization(ctx context.Context, optimizedResumeID string, region Region) (*LocalizedResume, error) {
	guidelines, ok := GuidelinesFor(region)
	if !ok {
		return nil, &ErrUnsupportedRegion{Region: region}
	}

	resume, err := l.loader.GetOptimizedResume(ctx, optimizedResumeID)
	if err != nil {
		return nil, fmt.Errorf("loading optimized resume %s: %w", optimizedResumeID, err)
	}
	if resume == nil {
		// Missing rows surface as (nil, nil) from the store.
		return nil, nil
	}

	localized, applied := ApplyTerminology(resume, guidelines.Terminology)
	changes := make([]TermChange, 0, len(applied))
	for _, pair := range applied {
		changes = append(changes, TermChange{
			From:   pair.From,
			To:     pair.To,
			Reason: fmt.Sprintf("Use '%s' in %s resumes", pair.To, region),
		})
	}

	return &LocalizedResume{
		ResumeID:       optimizedResumeID,
		Region:         region,
		Resume:         localized,
		AppliedChanges: changes,
		DateFormat:     guidelines.DateFormat,
	}, nil
}

// ApplyTerminology substitutes each term pair across the resume's text fields
// and reports which pairs actually changed something. Matching is whole-word
// and case-insensitive; replacements keep the target's casing.
func ApplyTerminology(resume *types.Resume, pairs []TermPair) (*types.Resume, []TermPair) {
	localized := *resume
	var applied []TermPair

	for _, pair := range pairs {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(pair.From) + `\b`)
		changed := false

		replace := func(s string) string {
			if re.MatchString(s) {
				changed = true
				return re.ReplaceAllString(s, pair.To)
			}
			return s
		}

		localized.Summary = replace(localized.Summary)

		experience := make([]types.Experience, len(localized.Experience))
		for i, exp := range localized.Experience {
			exp.Title = replace(exp.Title)
			bullets := make([]string, len(exp.Description))
			for j, bullet := range exp.Description {
				bullets[j] = replace(bullet)
			}
			exp.Description = bullets
			experience[i] = exp
		}
		localized.Experience = experience

		skills := make([]string, len(localized.Skills))
		for i, skill := range localized.Skills {
			skills[i] = replace(skill)
		}
		localized.Skills = skills

		if changed {
			applied = append(applied, pair)
		}
	}

	return &localized, applied
}

func containsAny(text string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// Package bias identifies potentially biased language in resume text and
// suggests neutral alternatives.
package bias

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/Kehn-Marv/Career-plus-sub001/internal/types"
)

// Detection is a single biased phrase found in the text.
type Detection struct {
	Original   string   `json:"original"`
	Suggestion string   `json:"suggestion"`
	Reason     string   `json:"reason"`
	Category   Category `json:"category"`
	Confidence float64  `json:"confidence"`
	Context    string   `json:"context"`
}

// Report holds the detections and overall score for a piece of text.
type Report struct {
	BiasedPhrases []Detection `json:"biased_phrases"`
	BiasScore     float64     `json:"bias_score"`
}

// DetailedReport aggregates detections per category for display.
type DetailedReport struct {
	OverallScore   float64          `json:"overall_score"`
	DetectedIssues []Detection      `json:"detected_issues"`
	Categories     map[Category]int `json:"categories"`
}

var phraseRegexps = compilePatterns()

type compiledPattern struct {
	phrase   string
	category Category
	info     pattern
	re       *regexp.Regexp
}

func compilePatterns() []compiledPattern {
	var compiled []compiledPattern
	for category, patterns := range biasPatterns {
		for phrase, info := range patterns {
			re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(phrase) + `\b`)
			compiled = append(compiled, compiledPattern{
				phrase:   phrase,
				category: category,
				info:     info,
				re:       re,
			})
		}
	}
	// Deterministic match order across runs.
	sort.Slice(compiled, func(i, j int) bool {
		if compiled[i].category != compiled[j].category {
			return compiled[i].category < compiled[j].category
		}
		return compiled[i].phrase < compiled[j].phrase
	})
	return compiled
}

// Detect finds biased phrases in text, de-duplicated and ordered by position.
func Detect(text string) []Detection {
	type positioned struct {
		Detection
		position int
	}

	var detected []positioned
	for _, cp := range phraseRegexps {
		for _, loc := range cp.re.FindAllStringIndex(text, -1) {
			start, end := loc[0], loc[1]
			contextStart := start - 30
			if contextStart < 0 {
				contextStart = 0
			}
			contextEnd := end + 30
			if contextEnd > len(text) {
				contextEnd = len(text)
			}
			detected = append(detected, positioned{
				Detection: Detection{
					Original:   text[start:end],
					Suggestion: cp.info.Suggestion,
					Reason:     cp.info.Reason,
					Category:   cp.category,
					Confidence: cp.info.Confidence,
					Context:    strings.TrimSpace(text[contextStart:contextEnd]),
				},
				position: start,
			})
		}
	}

	type dedupKey struct {
		original   string
		suggestion string
	}
	seen := make(map[dedupKey]bool)
	var unique []positioned
	for _, d := range detected {
		key := dedupKey{strings.ToLower(d.Original), d.Suggestion}
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, d)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].position < unique[j].position
	})

	result := make([]Detection, len(unique))
	for i, d := range unique {
		result[i] = d.Detection
	}
	return result
}

// Score weighs detections by category and normalizes per 1000 characters of
// text, capped at 100.
func Score(detections []Detection, textLength int) float64 {
	if len(detections) == 0 || textLength == 0 {
		return 0
	}

	totalWeight := 0.0
	for _, d := range detections {
		weight, ok := categoryWeights[d.Category]
		if !ok {
			weight = 2.0
		}
		totalWeight += weight
	}

	normalized := totalWeight / (float64(textLength) / 1000) * 10
	return math.Min(100, normalized)
}

// Analyze runs detection and scoring over text.
func Analyze(text string) Report {
	detections := Detect(text)
	score := Score(detections, len(text))
	return Report{
		BiasedPhrases: detections,
		BiasScore:     math.Round(score*100) / 100,
	}
}

// GetDetailedReport analyzes every text field of the resume and groups the
// findings per category.
func GetDetailedReport(resume *types.Resume) DetailedReport {
	report := Analyze(resumeText(resume))

	categories := make(map[Category]int)
	for _, d := range report.BiasedPhrases {
		categories[d.Category]++
	}

	return DetailedReport{
		OverallScore:   report.BiasScore,
		DetectedIssues: report.BiasedPhrases,
		Categories:     categories,
	}
}

// ApplyBiasFixes returns a copy of the resume with every detected phrase
// replaced by its suggestion. Phrases whose suggestion is the remove marker
// are deleted.
func ApplyBiasFixes(resume *types.Resume, report DetailedReport) *types.Resume {
	fixed := *resume
	fixed.Summary = fixText(resume.Summary, report.DetectedIssues)

	fixed.Experience = make([]types.Experience, len(resume.Experience))
	for i, exp := range resume.Experience {
		fixedExp := exp
		fixedExp.Description = make([]string, len(exp.Description))
		for j, bullet := range exp.Description {
			fixedExp.Description[j] = fixText(bullet, report.DetectedIssues)
		}
		fixed.Experience[i] = fixedExp
	}

	fixed.Skills = make([]string, len(resume.Skills))
	for i, skill := range resume.Skills {
		fixed.Skills[i] = fixText(skill, report.DetectedIssues)
	}

	return &fixed
}

func fixText(text string, detections []Detection) string {
	for _, d := range detections {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(d.Original) + `\b`)
		if d.Suggestion == RemoveMarker {
			text = re.ReplaceAllString(text, "")
			continue
		}
		text = re.ReplaceAllString(text, d.Suggestion)
	}
	// Collapse doubled spaces left by removals.
	return strings.Join(strings.Fields(text), " ")
}

func resumeText(resume *types.Resume) string {
	var b strings.Builder
	b.WriteString(resume.Summary)
	for _, exp := range resume.Experience {
		b.WriteString("\n")
		b.WriteString(exp.Title)
		for _, bullet := range exp.Description {
			b.WriteString("\n")
			b.WriteString(bullet)
		}
	}
	for _, skill := range resume.Skills {
		b.WriteString("\n")
		b.WriteString(skill)
	}
	return b.String()
}

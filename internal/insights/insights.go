// Package insights produces personalized strengths, gaps, and recommendations
// for a resume against a job description. The LLM path is tried first; every
// section degrades to rule-based output when the model is unavailable or
// returns nothing usable.
package insights

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Kehn-Marv/Career-plus-sub001/internal/llm"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/prompts"
)

const (
	maxItems = 5
	// Prompt context caps keep the per-call token spend small.
	maxJobChars    = 400
	maxResumeChars = 500
	minStrengthLen = 15
	minRecLen      = 20
)

// KeywordAnalysis carries the keyword-match results the caller computed.
type KeywordAnalysis struct {
	MatchedKeywords []string `json:"matched_keywords"`
	MissingKeywords []string `json:"missing_keywords"`
}

// Scores are the caller's precomputed analysis scores, each in [0,100].
type Scores struct {
	Keyword  float64 `json:"keyword"`
	Semantic float64 `json:"semantic"`
	Format   float64 `json:"format"`
	ATS      float64 `json:"ats"`
}

// Recommendation is one actionable improvement with a weighted impact.
type Recommendation struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	Priority      string `json:"priority"`
	SuggestedText string `json:"suggestedText"`
	Explanation   string `json:"explanation"`
	Impact        int    `json:"impact"`
	Applied       bool   `json:"applied"`
}

// Report is the full insights payload.
type Report struct {
	Strengths       []string         `json:"strengths"`
	Gaps            []string         `json:"gaps"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Generator builds insight reports. A nil client skips straight to the
// rule-based path.
type Generator struct {
	client llm.Client
}

// NewGenerator wires the generator to an LLM client.
func NewGenerator(client llm.Client) *Generator {
	return &Generator{client: client}
}

// Generate produces strengths, gaps, and recommendations for the resume.
func (g *Generator) Generate(ctx context.Context, resumeText, jobDescription string, keywords KeywordAnalysis, scores Scores) (*Report, error) {
	if strings.TrimSpace(resumeText) == "" || strings.TrimSpace(jobDescription) == "" {
		return nil, fmt.Errorf("resume text and job description are required")
	}

	strengths := g.strengths(ctx, resumeText, jobDescription, keywords, scores)
	gaps := g.gaps(ctx, resumeText, jobDescription, keywords, scores)
	recs := g.recommendations(ctx, resumeText, jobDescription, keywords, scores, gaps)

	return &Report{Strengths: strengths, Gaps: gaps, Recommendations: recs}, nil
}

func (g *Generator) strengths(ctx context.Context, resumeText, jobDescription string, keywords KeywordAnalysis, scores Scores) []string {
	if g.client != nil {
		prompt := prompts.Format(prompts.MustGet("insights.json", "insights-strengths"), map[string]string{
			"JobDescription":  truncate(jobDescription, maxJobChars),
			"ResumeText":      truncate(resumeText, maxResumeChars),
			"MatchedKeywords": strings.Join(head(keywords.MatchedKeywords, 5), ", "),
			"KeywordScore":    fmt.Sprintf("%.0f", scores.Keyword),
		})
		if response, err := g.client.GenerateContent(ctx, prompt, llm.TierStandard, llm.RewriteOptions()); err == nil {
			if parsed := parseBulletLines(response, minStrengthLen); len(parsed) > 0 {
				return head(parsed, maxItems)
			}
		}
	}

	var strengths []string
	if len(keywords.MatchedKeywords) >= 5 {
		strengths = append(strengths, "Strong match in key areas: "+strings.Join(head(keywords.MatchedKeywords, 3), ", "))
	}
	switch {
	case scores.Keyword > 70:
		strengths = append(strengths, fmt.Sprintf("Excellent keyword alignment (%.0f%% match with job requirements)", scores.Keyword))
	case scores.Keyword > 50:
		strengths = append(strengths, fmt.Sprintf("Good keyword coverage (%.0f%% match with job requirements)", scores.Keyword))
	}
	if scores.Format > 80 {
		strengths = append(strengths, "Well-structured, ATS-optimized resume format")
	}
	if len(strengths) == 0 {
		strengths = append(strengths, "Relevant experience for the role")
	}
	return head(strengths, maxItems)
}

func (g *Generator) gaps(ctx context.Context, resumeText, jobDescription string, keywords KeywordAnalysis, scores Scores) []string {
	if g.client != nil {
		prompt := prompts.Format(prompts.MustGet("insights.json", "insights-gaps"), map[string]string{
			"JobDescription":  truncate(jobDescription, maxJobChars),
			"ResumeText":      truncate(resumeText, maxResumeChars),
			"MissingKeywords": strings.Join(head(keywords.MissingKeywords, 8), ", "),
			"KeywordScore":    fmt.Sprintf("%.0f", scores.Keyword),
		})
		if response, err := g.client.GenerateContent(ctx, prompt, llm.TierStandard, llm.RewriteOptions()); err == nil {
			if parsed := parseBulletLines(response, minStrengthLen); len(parsed) > 0 {
				return head(parsed, maxItems)
			}
		}
	}

	var gaps []string
	if missing := meaningfulKeywords(keywords.MissingKeywords, 5); len(missing) > 0 {
		gaps = append(gaps, "Missing key skills: "+strings.Join(missing, ", "))
	}
	if scores.Keyword < 50 {
		gaps = append(gaps, "Resume lacks many keywords from the job description")
	}
	if len(gaps) == 0 {
		gaps = append(gaps, "Consider tailoring resume more specifically to this job description")
	}
	return head(gaps, maxItems)
}

func (g *Generator) recommendations(ctx context.Context, resumeText, jobDescription string, keywords KeywordAnalysis, scores Scores, gaps []string) []Recommendation {
	if g.client != nil {
		var gapLines strings.Builder
		for _, gap := range head(gaps, 3) {
			fmt.Fprintf(&gapLines, "- %s\n", gap)
		}
		prompt := prompts.Format(prompts.MustGet("insights.json", "insights-recommendations"), map[string]string{
			"JobDescription": truncate(jobDescription, 350),
			"Gaps":           strings.TrimRight(gapLines.String(), "\n"),
		})
		if response, err := g.client.GenerateContent(ctx, prompt, llm.TierStandard, llm.RewriteOptions()); err == nil {
			if recs := parseRecommendations(response); len(recs) > 0 {
				return head(recs, maxItems)
			}
		}
	}

	return ruleBasedRecommendations(resumeText, jobDescription, keywords, scores)
}

// parseRecommendations turns numbered or bulleted model output into
// recommendation entries, graded high to low by position.
func parseRecommendations(response string) []Recommendation {
	var recs []Recommendation
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		first, _ := utf8.DecodeRuneInString(line)
		if !unicode.IsDigit(first) && first != '-' && first != '•' {
			continue
		}
		text := strings.TrimSpace(strings.TrimLeft(line, "0123456789.-•* "))
		if len(text) <= minRecLen {
			continue
		}

		priority, impact := "low", 5
		switch {
		case len(recs) < 2:
			priority, impact = "high", 15
		case len(recs) < 4:
			priority, impact = "medium", 10
		}
		recs = append(recs, Recommendation{
			ID:            fmt.Sprintf("ai-rec-%d", len(recs)+1),
			Type:          "content",
			Priority:      priority,
			SuggestedText: truncate(text, 250),
			Explanation:   "AI-generated personalized recommendation",
			Impact:        impact,
		})
	}
	return recs
}

func ruleBasedRecommendations(resumeText, jobDescription string, keywords KeywordAnalysis, scores Scores) []Recommendation {
	var recs []Recommendation
	add := func(recType, priority, suggested, explanation string, impact int) {
		recs = append(recs, Recommendation{
			ID:            fmt.Sprintf("rec-%d", len(recs)+1),
			Type:          recType,
			Priority:      priority,
			SuggestedText: suggested,
			Explanation:   explanation,
			Impact:        impact,
		})
	}

	if missing := meaningfulKeywords(keywords.MissingKeywords, 5); len(missing) > 0 {
		add("keyword", "high",
			"Add these important keywords to your resume: "+strings.Join(missing, ", "),
			"These keywords appear frequently in the job description but are missing from your resume.", 20)
	}

	if scores.Semantic < 70 {
		add("content", "high",
			"Rephrase your experience using terminology from the job description",
			"Your resume uses different language than the job posting. Mirror the job description's phrasing to improve relevance.", 15)
	}

	if !strings.ContainsAny(truncate(resumeText, 1000), "0123456789") || strings.Count(resumeText, "%") < 2 {
		add("content", "medium",
			"Add quantifiable metrics to your achievements "+metricExample(jobDescription),
			"Numbers and metrics make your accomplishments more concrete and measurable.", 12)
	}

	if scores.Format < 80 {
		add("format", "medium",
			"Improve resume formatting for better ATS compatibility",
			"Use standard section headers (Experience, Education, Skills), avoid tables/columns, and use simple formatting.", 10)
	}

	if len(keywords.MissingKeywords) > 5 {
		add("content", "medium",
			"Tailor your experience bullet points to highlight skills mentioned in the job description",
			"Review each bullet point and add relevant keywords where they naturally fit your actual experience.", 15)
	}

	return head(recs, maxItems)
}

// metricExample picks achievement examples matching the role type implied by
// the job description.
func metricExample(jobDescription string) string {
	lower := strings.ToLower(jobDescription)
	switch {
	case containsAny(lower, "developer", "engineer", "programmer", "software", "technical"):
		return "e.g., 'Reduced API response time by 40%', 'Improved code coverage to 85%', 'Optimized database queries reducing load time by 50%'"
	case containsAny(lower, "manager", "lead", "director", "supervisor"):
		return "e.g., 'Led team of 8 engineers', 'Increased team velocity by 35%', 'Reduced sprint cycle time by 2 days'"
	default:
		return "e.g., 'Improved process efficiency by 30%', 'Reduced costs by $50K annually', 'Managed portfolio of 15+ projects'"
	}
}

var keywordStopwords = map[string]bool{
	"with": true, "and": true, "the": true, "for": true, "from": true,
	"that": true, "this": true, "work": true, "using": true, "experience": true,
	"including": true,
}

// meaningfulKeywords filters out filler words that keyword extraction lets
// through.
func meaningfulKeywords(keywords []string, limit int) []string {
	var out []string
	for _, kw := range keywords {
		if len(kw) > 3 && !keywordStopwords[strings.ToLower(kw)] {
			out = append(out, kw)
		}
		if len(out) == limit {
			break
		}
	}
	return out
}

func parseBulletLines(response string, minLen int) []string {
	var out []string
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		first, _ := utf8.DecodeRuneInString(line)
		if first != '-' && first != '•' && first != '*' {
			continue
		}
		item := strings.TrimSpace(strings.TrimLeft(line, "-•* "))
		if len(item) > minLen {
			out = append(out, item)
		}
	}
	return out
}

func containsAny(text string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

package insights

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kehn-Marv/Career-plus-sub001/internal/llm"
)

type fakeClient struct {
	responses map[string]string
	err       error
}

func (f *fakeClient) GenerateContent(_ context.Context, prompt string, _ llm.ModelTier, _ llm.Options) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	for marker, response := range f.responses {
		if strings.Contains(prompt, marker) {
			return response, nil
		}
	}
	return "", nil
}

func (f *fakeClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier, opts llm.Options) (string, error) {
	return f.GenerateContent(ctx, prompt, tier, opts)
}

func (f *fakeClient) GetModel(llm.ModelTier) string { return "fake" }
func (f *fakeClient) Close() error                  { return nil }

const (
	resumeText = "Built billing services in Go. Maintained PostgreSQL clusters. Improved deploy times."
	jobText    = "Senior software engineer: Go, Kubernetes, PostgreSQL, and distributed systems."
)

func TestGenerateRequiresInput(t *testing.T) {
	g := NewGenerator(nil)

	_, err := g.Generate(context.Background(), "", jobText, KeywordAnalysis{}, Scores{})
	require.Error(t, err)

	_, err = g.Generate(context.Background(), resumeText, "  ", KeywordAnalysis{}, Scores{})
	require.Error(t, err)
}

func TestGenerateModelPath(t *testing.T) {
	client := &fakeClient{responses: map[string]string{
		"strengths":       "- Deep PostgreSQL operations experience across production clusters\n- Shipped Go services end to end",
		"gaps":            "- No Kubernetes experience appears anywhere on the resume\nignored commentary line",
		"recommendations": "1. Add a bullet describing container orchestration work with concrete outcomes\n2. Quantify the deploy-time improvement with before and after numbers\n3. Mirror the posting's distributed-systems terminology in the summary",
	}}
	g := NewGenerator(client)

	report, err := g.Generate(context.Background(), resumeText, jobText, KeywordAnalysis{}, Scores{Keyword: 64})
	require.NoError(t, err)

	require.Len(t, report.Strengths, 2)
	assert.Equal(t, "Deep PostgreSQL operations experience across production clusters", report.Strengths[0])
	require.Len(t, report.Gaps, 1)

	require.Len(t, report.Recommendations, 3)
	assert.Equal(t, "ai-rec-1", report.Recommendations[0].ID)
	assert.Equal(t, "high", report.Recommendations[0].Priority)
	assert.Equal(t, 15, report.Recommendations[0].Impact)
	assert.Equal(t, "medium", report.Recommendations[2].Priority)
	assert.Equal(t, 10, report.Recommendations[2].Impact)
}

func TestGenerateFallsBackWhenModelFails(t *testing.T) {
	g := NewGenerator(&fakeClient{err: errors.New("quota exceeded")})

	report, err := g.Generate(context.Background(), resumeText, jobText, KeywordAnalysis{
		MatchedKeywords: []string{"Go", "PostgreSQL", "billing", "deploys", "services"},
		MissingKeywords: []string{"Kubernetes", "distributed systems", "with", "the"},
	}, Scores{Keyword: 72, Semantic: 40, Format: 60})
	require.NoError(t, err)

	assert.Contains(t, report.Strengths[0], "Strong match in key areas")
	assert.Contains(t, report.Strengths[1], "Excellent keyword alignment (72%")
	assert.Contains(t, report.Gaps[0], "Missing key skills: Kubernetes, distributed systems")

	require.NotEmpty(t, report.Recommendations)
	assert.Equal(t, "keyword", report.Recommendations[0].Type)
	assert.Equal(t, "high", report.Recommendations[0].Priority)
	assert.Equal(t, 20, report.Recommendations[0].Impact)
}

func TestGenerateRuleBasedWithoutClient(t *testing.T) {
	g := NewGenerator(nil)

	report, err := g.Generate(context.Background(), resumeText, jobText, KeywordAnalysis{}, Scores{Keyword: 30})
	require.NoError(t, err)

	assert.Equal(t, []string{"Relevant experience for the role"}, report.Strengths)
	assert.Contains(t, report.Gaps, "Resume lacks many keywords from the job description")
}

func TestRuleBasedRecommendationsMetricExamples(t *testing.T) {
	recs := ruleBasedRecommendations("no numbers here", "Operations manager leading a regional supervisor group", KeywordAnalysis{}, Scores{Semantic: 90, Format: 90})

	require.Len(t, recs, 1)
	assert.Contains(t, recs[0].SuggestedText, "Led team of 8 engineers")
	assert.Equal(t, "medium", recs[0].Priority)
}

func TestMeaningfulKeywordsFiltersFiller(t *testing.T) {
	out := meaningfulKeywords([]string{"with", "the", "Terraform", "experience", "gRPC-gateway"}, 5)
	assert.Equal(t, []string{"Terraform", "gRPC-gateway"}, out)
}

func TestParseRecommendationsSkipsShortLines(t *testing.T) {
	recs := parseRecommendations("1. Too short\n2. This recommendation is comfortably beyond the minimum length")
	require.Len(t, recs, 1)
	assert.Equal(t, "ai-rec-1", recs[0].ID)
}

package bias

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kehn-Marv/Career-plus-sub001/internal/types"
)

func TestDetectGenderedTitle(t *testing.T) {
	detections := Detect("Served as chairman of the steering committee")

	require.Len(t, detections, 1)
	assert.Equal(t, "chairman", detections[0].Original)
	assert.Equal(t, "chairperson", detections[0].Suggestion)
	assert.Equal(t, CategoryGender, detections[0].Category)
	assert.Equal(t, 1.0, detections[0].Confidence)
	assert.Contains(t, detections[0].Context, "steering committee")
}

func TestDetectPreservesOriginalCase(t *testing.T) {
	detections := Detect("Chairman of the board")

	require.Len(t, detections, 1)
	assert.Equal(t, "Chairman", detections[0].Original)
}

func TestDetectWordBoundaries(t *testing.T) {
	// "young" inside "Youngstown" must not match.
	assert.Empty(t, Detect("Based in Youngstown, Ohio"))
	assert.NotEmpty(t, Detect("A young and driven professional"))
}

func TestDetectDeduplicates(t *testing.T) {
	detections := Detect("guys and more guys and even more guys")

	require.Len(t, detections, 1)
	assert.Equal(t, "guys", detections[0].Original)
}

func TestDetectOrderedByPosition(t *testing.T) {
	detections := Detect("An aggressive salesman with youthful energy")

	require.Len(t, detections, 3)
	assert.Equal(t, "aggressive", detections[0].Original)
	assert.Equal(t, "salesman", detections[1].Original)
	assert.Equal(t, "youthful", detections[2].Original)
}

func TestDetectCleanText(t *testing.T) {
	assert.Empty(t, Detect("Led a team of engineers to deliver the platform on schedule"))
}

func TestScoreWeighting(t *testing.T) {
	detections := []Detection{
		{Category: CategoryMaritalStatus}, // weight 4.0
		{Category: CategoryOther},         // weight 2.0
	}
	// 6.0 / (1200/1000) * 10 = 50
	assert.InDelta(t, 50.0, Score(detections, 1200), 0.001)
}

func TestScoreCappedAt100(t *testing.T) {
	var detections []Detection
	for i := 0; i < 20; i++ {
		detections = append(detections, Detection{Category: CategoryRace})
	}
	assert.Equal(t, 100.0, Score(detections, 100))
}

func TestScoreEmptyInput(t *testing.T) {
	assert.Equal(t, 0.0, Score(nil, 500))
	assert.Equal(t, 0.0, Score([]Detection{{Category: CategoryAge}}, 0))
}

func TestAnalyzeRoundsScore(t *testing.T) {
	report := Analyze("A young chairman " + strings.Repeat("x", 500))

	assert.Len(t, report.BiasedPhrases, 2)
	assert.Greater(t, report.BiasScore, 0.0)
	// Two decimal places.
	assert.Equal(t, report.BiasScore, float64(int(report.BiasScore*100))/100)
}

func TestGetDetailedReport(t *testing.T) {
	resume := &types.Resume{
		Summary: "Energetic salesman with a youthful outlook",
		Experience: []types.Experience{
			{Title: "Sales Lead", Description: []string{"Managed aggressive growth targets"}},
		},
	}

	report := GetDetailedReport(resume)

	assert.Greater(t, report.OverallScore, 0.0)
	assert.Len(t, report.DetectedIssues, 3)
	assert.Equal(t, 1, report.Categories[CategoryGender])
	assert.Equal(t, 1, report.Categories[CategoryAge])
	assert.Equal(t, 1, report.Categories[CategoryOther])
}

func TestApplyBiasFixesReplacesPhrases(t *testing.T) {
	resume := &types.Resume{
		Summary: "Experienced salesman and team leader",
		Experience: []types.Experience{
			{Title: "Lead", Description: []string{"Coordinated manpower planning for the region"}},
		},
	}

	report := GetDetailedReport(resume)
	fixed := ApplyBiasFixes(resume, report)

	assert.Equal(t, "Experienced salesperson and team leader", fixed.Summary)
	assert.Equal(t, "Coordinated workforce planning for the region", fixed.Experience[0].Description[0])
	// Original untouched.
	assert.Contains(t, resume.Summary, "salesman")
}

func TestApplyBiasFixesRemoveMarker(t *testing.T) {
	resume := &types.Resume{
		Summary: "Married professional seeking new challenges",
	}

	report := GetDetailedReport(resume)
	fixed := ApplyBiasFixes(resume, report)

	assert.Equal(t, "professional seeking new challenges", fixed.Summary)
}

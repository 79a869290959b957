package localize

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kehn-Marv/Career-plus-sub001/internal/types"
)

func TestGetAdviceUnsupportedRegion(t *testing.T) {
	_, err := GetAdvice("some resume", Region("MARS"))

	var unsupported *ErrUnsupportedRegion
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, Region("MARS"), unsupported.Region)
}

func TestGetAdviceTerminologyDetection(t *testing.T) {
	advice, err := GetAdvice("Organised the team programme whilst on holiday", RegionUS)
	require.NoError(t, err)

	froms := make([]string, 0, len(advice.TerminologyChanges))
	for _, tc := range advice.TerminologyChanges {
		froms = append(froms, tc.From)
	}
	assert.Contains(t, froms, "Organised")
	assert.Contains(t, froms, "Programme")
	assert.Contains(t, froms, "Whilst")
	assert.Contains(t, froms, "Holiday")
}

func TestGetAdviceUSRecommendations(t *testing.T) {
	advice, err := GetAdvice("Includes photo. Married. Date of birth: 1990", RegionUS)
	require.NoError(t, err)

	joined := ""
	for _, r := range advice.Recommendations {
		joined += r + "\n"
	}
	assert.Contains(t, joined, "Remove photo")
	assert.Contains(t, joined, "Remove age/date of birth")
	assert.Contains(t, joined, "Remove marital status")
	assert.Contains(t, joined, "MM/DD/YYYY or Month YYYY date format")
}

func TestGetAdviceEULanguageSection(t *testing.T) {
	advice, err := GetAdvice("Experienced engineer", RegionEU)
	require.NoError(t, err)
	joined := ""
	for _, r := range advice.Recommendations {
		joined += r + "\n"
	}
	assert.Contains(t, joined, "Language Skills")

	advice, err = GetAdvice("Languages: German (C1)", RegionEU)
	require.NoError(t, err)
	joined = ""
	for _, r := range advice.Recommendations {
		joined += r + "\n"
	}
	assert.NotContains(t, joined, "Add a dedicated 'Language Skills' section")
}

func TestGetAdviceIncludesCulturalTips(t *testing.T) {
	advice, err := GetAdvice("resume text", RegionUK)
	require.NoError(t, err)

	tips := 0
	for _, r := range advice.Recommendations {
		if len(r) > 13 && r[:13] == "Cultural tip:" {
			tips++
		}
	}
	assert.Equal(t, 2, tips)
	assert.NotEmpty(t, advice.FormatChanges)
	assert.Equal(t, RegionUK, advice.TargetRegion)
}

func TestApplyTerminology(t *testing.T) {
	resume := &types.Resume{
		Summary: "Organised team events whilst managing the programme",
		Experience: []types.Experience{
			{Title: "Manager", Description: []string{"Covered colleagues on holiday"}},
		},
		Skills: []string{"Programme management"},
	}

	guidelines, ok := GuidelinesFor(RegionUS)
	require.True(t, ok)

	localized, applied := ApplyTerminology(resume, guidelines.Terminology)

	assert.Equal(t, "Organized team events While managing the Program", localized.Summary)
	assert.Equal(t, "Covered colleagues on Vacation", localized.Experience[0].Description[0])
	assert.Equal(t, "Program management", localized.Skills[0])
	assert.NotEmpty(t, applied)

	// Original untouched.
	assert.Contains(t, resume.Summary, "Organised")
}

func TestApplyTerminologyWholeWordsOnly(t *testing.T) {
	resume := &types.Resume{Summary: "Delivered the Breakdown report"}

	localized, applied := ApplyTerminology(resume, []TermPair{{"Break", "Pause"}})

	assert.Equal(t, "Delivered the Breakdown report", localized.Summary)
	assert.Empty(t, applied)
}

type stubLoader struct {
	resume *types.Resume
	err    error
}

func (s *stubLoader) GetOptimizedResume(_ context.Context, _ string) (*types.Resume, error) {
	return s.resume, s.err
}

func TestApplyLocalization(t *testing.T) {
	loader := &stubLoader{resume: &types.Resume{
		Summary: "Organized the vacation coverage rota",
	}}
	localizer := NewLocalizer(loader)

	result, err := localizer.ApplyLocalization(context.Background(), "resume-1", RegionUK)
	require.NoError(t, err)

	assert.Equal(t, "resume-1", result.ResumeID)
	assert.Equal(t, RegionUK, result.Region)
	assert.Equal(t, "Organised the Holiday coverage rota", result.Resume.Summary)
	assert.Equal(t, "DD/MM/YYYY or Month YYYY", result.DateFormat)
	assert.NotEmpty(t, result.AppliedChanges)
}

func TestApplyLocalizationLoadError(t *testing.T) {
	loader := &stubLoader{err: errors.New("not found")}
	localizer := NewLocalizer(loader)

	_, err := localizer.ApplyLocalization(context.Background(), "missing", RegionUS)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestApplyLocalizationMissingResume(t *testing.T) {
	// The store reports a missing row as (nil, nil).
	localizer := NewLocalizer(&stubLoader{})

	result, err := localizer.ApplyLocalization(context.Background(), "missing", RegionUK)
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestApplyLocalizationUnsupportedRegion(t *testing.T) {
	localizer := NewLocalizer(&stubLoader{})

	_, err := localizer.ApplyLocalization(context.Background(), "id", Region("XX"))
	var unsupported *ErrUnsupportedRegion
	assert.ErrorAs(t, err, &unsupported)
}

package autofix

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Kehn-Marv/Career-plus-sub001/internal/llm"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/prompts"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/schemas"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/types"
)

// OptimizeContent asks the model for a fully optimized resume, applying the
// given issues and recommendations, and validates the result against the
// resume schema before returning it. The candidate's contact block is carried
// over from the input; the model is never trusted to reproduce it.
func OptimizeContent(ctx context.Context, client llm.Client, resume *types.Resume, jobDescription string, issues, recommendations []string) (*types.Resume, error) {
	prompt, err := buildOptimizePrompt(resume, jobDescription, issues, recommendations)
	if err != nil {
		return nil, err
	}

	response, err := client.GenerateJSON(ctx, prompt, llm.TierAdvanced, llm.DefaultOptions())
	if err != nil {
		return nil, &WorkflowError{Kind: KindAI, Step: StepOptimizeContent, Err: err}
	}

	cleaned := llm.CleanJSONBlock(response)

	var optimized types.Resume
	if err := json.Unmarshal([]byte(cleaned), &optimized); err != nil {
		return nil, &WorkflowError{
			Kind: KindValidation,
			Step: StepOptimizeContent,
			Err:  fmt.Errorf("parsing optimized resume: %w", err),
		}
	}
	optimized.Contact = resume.Contact

	canonical, err := json.Marshal(&optimized)
	if err != nil {
		return nil, fmt.Errorf("marshaling optimized resume: %w", err)
	}
	if err := schemas.ValidateOptimizedResume(string(canonical)); err != nil {
		return nil, &WorkflowError{Kind: KindValidation, Step: StepOptimizeContent, Err: err}
	}

	return &optimized, nil
}

func buildOptimizePrompt(resume *types.Resume, jobDescription string, issues, recommendations []string) (string, error) {
	intro, err := prompts.Get("optimize.json", "optimize-resume-intro")
	if err != nil {
		return "", err
	}
	instructions, err := prompts.Get("optimize.json", "optimize-resume-instructions")
	if err != nil {
		return "", err
	}

	resumeJSON, err := json.MarshalIndent(resume, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling resume for prompt: %w", err)
	}

	formatted := prompts.Format(intro, map[string]string{
		"ResumeJSON":      string(resumeJSON),
		"JobDescription":  jobDescription,
		"Issues":          bulletList(issues),
		"Recommendations": bulletList(recommendations),
	})
	return formatted + instructions, nil
}

func bulletList(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	var b strings.Builder
	for _, item := range items {
		b.WriteString("- ")
		b.WriteString(item)
		b.WriteString("\n")
	}
	return b.String()
}

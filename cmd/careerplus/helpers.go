package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Kehn-Marv/Career-plus-sub001/internal/ingest"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/types"
)

// loadResume reads and parses a structured resume JSON file.
func loadResume(path string) (*types.Resume, error) {
	if path == "" {
		return nil, fmt.Errorf("--resume is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume file: %w", err)
	}

	var resume types.Resume
	if err := json.Unmarshal(data, &resume); err != nil {
		return nil, fmt.Errorf("failed to parse resume JSON: %w", err)
	}

	return &resume, nil
}

// resumeToText flattens a structured resume into plain text for the
// text-based analyzers.
func resumeToText(resume *types.Resume) (string, error) {
	if resume == nil {
		return "", fmt.Errorf("resume is empty")
	}

	var sections []string
	sections = append(sections, resume.Contact.Name)
	if resume.Contact.Email != "" {
		sections = append(sections, resume.Contact.Email)
	}
	if resume.Summary != "" {
		sections = append(sections, "Summary:", resume.Summary)
	}
	for _, exp := range resume.Experience {
		sections = append(sections, fmt.Sprintf("%s, %s", exp.Title, exp.Company))
		sections = append(sections, exp.Description...)
	}
	if len(resume.Skills) > 0 {
		sections = append(sections, "Skills:")
		sections = append(sections, resume.Skills...)
	}

	return strings.Join(sections, "\n"), nil
}

// loadJobDescription resolves the job posting text from a file or a URL.
// Exactly one of jobPath and jobURL must be set.
func loadJobDescription(ctx context.Context, jobPath, jobURL string) (string, error) {
	switch {
	case jobPath != "" && jobURL != "":
		return "", fmt.Errorf("--job and --job-url are mutually exclusive; provide only one")
	case jobPath != "":
		data, err := os.ReadFile(jobPath)
		if err != nil {
			return "", fmt.Errorf("failed to read job file: %w", err)
		}
		text, err := ingest.ExtractText(string(data))
		if err != nil {
			return "", fmt.Errorf("failed to extract job text: %w", err)
		}
		return text, nil
	case jobURL != "":
		text, err := ingest.FetchJobPosting(ctx, jobURL)
		if err != nil {
			return "", fmt.Errorf("failed to fetch job posting: %w", err)
		}
		return text, nil
	default:
		return "", fmt.Errorf("either --job or --job-url must be provided")
	}
}

// resolveAPIKey returns the flag value or falls back to GEMINI_API_KEY.
func resolveAPIKey(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
}

// resolveDatabaseURL returns the flag value or falls back to DATABASE_URL.
func resolveDatabaseURL(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url, nil
	}
	return "", fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
}

// writeJSON marshals v with indentation and writes it to path, or to stdout
// when path is empty.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	if path == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

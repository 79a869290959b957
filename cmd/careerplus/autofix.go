package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Kehn-Marv/Career-plus-sub001/internal/autofix"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/config"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/llm"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/localize"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/observability"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/pdf"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/rewrite"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/store"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/templates"
)

var autofixCmd = &cobra.Command{
	Use:   "autofix",
	Short: "Run the full optimization workflow end-to-end",
	Long: `Analyzes the resume for ATS compatibility and biased language, rewrites
experience bullets toward the job posting, optimizes the content, and exports
a region-localized PDF.

Configuration can be loaded from a JSON file using --config. Command-line
arguments override config file values.`,
	RunE: runAutoFix,
}

var (
	autofixConfigPath  string
	autofixResume      string
	autofixJob         string
	autofixJobURL      string
	autofixJobTitle    string
	autofixRegion      string
	autofixTemplate    string
	autofixTone        string
	autofixAPIKey      string
	autofixDatabaseURL string
	autofixSkipPDF     bool
	autofixVerbose     bool
)

func init() {
	autofixCmd.Flags().StringVar(&autofixConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	autofixCmd.Flags().StringVarP(&autofixResume, "resume", "r", "", "Path to structured resume JSON file")
	autofixCmd.Flags().StringVarP(&autofixJob, "job", "j", "", "Path to job posting text file (mutually exclusive with --job-url)")
	autofixCmd.Flags().StringVar(&autofixJobURL, "job-url", "", "URL to fetch job posting from (mutually exclusive with --job)")
	autofixCmd.Flags().StringVar(&autofixJobTitle, "job-title", "", "Target job title, used in the export filename")
	autofixCmd.Flags().StringVar(&autofixRegion, "region", "", "Target region: US, UK, EU, or APAC")
	autofixCmd.Flags().StringVarP(&autofixTemplate, "template", "t", "", "Resume template ID")
	autofixCmd.Flags().StringVar(&autofixTone, "tone", "", "Rewrite tone")
	autofixCmd.Flags().StringVar(&autofixAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	autofixCmd.Flags().StringVar(&autofixDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	autofixCmd.Flags().BoolVar(&autofixSkipPDF, "skip-pdf", false, "Skip PDF generation (no Chrome required)")
	autofixCmd.Flags().BoolVarP(&autofixVerbose, "verbose", "v", false, "Print step-by-step progress")

	rootCmd.AddCommand(autofixCmd)
}

func runAutoFix(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	var cfg config.Config
	if autofixConfigPath != "" {
		loadedCfg, err := config.LoadConfig(autofixConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := loadedCfg.Validate(); err != nil {
			return err
		}
		cfg = *loadedCfg
		if autofixVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", autofixConfigPath)
		}
	}

	// Command-line args take priority; only override when the flag was set.
	if cmd.Flags().Changed("resume") {
		cfg.Resume = autofixResume
	}
	if cmd.Flags().Changed("job") {
		cfg.Job = autofixJob
	}
	if cmd.Flags().Changed("job-url") {
		cfg.JobURL = autofixJobURL
	}
	if cmd.Flags().Changed("job-title") {
		cfg.JobTitle = autofixJobTitle
	}
	if cmd.Flags().Changed("region") {
		cfg.Region = autofixRegion
	}
	if cmd.Flags().Changed("template") {
		cfg.Template = autofixTemplate
	}
	if cmd.Flags().Changed("tone") {
		cfg.Tone = autofixTone
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = autofixAPIKey
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = autofixDatabaseURL
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = autofixVerbose
	}

	cfg = cfg.MergeWithDefaults(config.Config{
		Region:   "US",
		Template: "professional",
		Tone:     "professional",
	})

	resume, err := loadResume(cfg.Resume)
	if err != nil {
		return err
	}
	jobDescription, err := loadJobDescription(ctx, cfg.Job, cfg.JobURL)
	if err != nil {
		return err
	}

	apiKey, err := resolveAPIKey(cfg.APIKey)
	if err != nil {
		return err
	}
	databaseURL, err := resolveDatabaseURL(cfg.DatabaseURL)
	if err != nil {
		return err
	}

	st, err := store.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer st.Close()

	client, err := llm.NewClient(ctx, nil, apiKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer client.Close() //nolint:errcheck

	var pdfGen autofix.PDFGenerator
	if !autofixSkipPDF {
		pdfGen = pdf.NewGenerator(templates.NewEngine())
	}

	wf := autofix.NewWorkflow(st, client, rewrite.NewRewriter(client), pdfGen)

	printer := observability.NewPrinter(os.Stdout)
	if cfg.Verbose {
		progress, cancel := wf.Subscribe()
		defer cancel()
		go func() {
			seen := make(map[string]autofix.StepState)
			for snap := range progress {
				for _, step := range snap.Steps {
					if seen[step.Name] != step.State {
						seen[step.Name] = step.State
						printer.PrintStepUpdate(step)
					}
				}
			}
		}()
	}

	result, err := wf.Run(ctx, autofix.Request{
		Resume:         resume,
		JobDescription: jobDescription,
		JobTitle:       cfg.JobTitle,
		Region:         localize.Region(cfg.Region),
		TemplateID:     cfg.Template,
		Tone:           cfg.Tone,
	})
	if result != nil {
		printer.PrintWorkflowResult(result)
	}
	return err
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Kehn-Marv/Career-plus-sub001/internal/ats"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/bias"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/localize"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/observability"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run local resume analyses",
	Long:  "Runs ATS compatibility, bias, and localization analyses on a resume without calling any external service.",
}

var (
	analyzeResume string
	analyzeText   string
	analyzeRegion string
	analyzeOut    string
	analyzeHuman  bool
)

var analyzeATSCmd = &cobra.Command{
	Use:   "ats",
	Short: "Check ATS parsing compatibility",
	RunE:  runAnalyzeATS,
}

var analyzeBiasCmd = &cobra.Command{
	Use:   "bias",
	Short: "Detect biased or exclusionary language",
	RunE:  runAnalyzeBias,
}

var analyzeLocalizeCmd = &cobra.Command{
	Use:   "localize",
	Short: "Get region-specific resume guidance",
	RunE:  runAnalyzeLocalize,
}

func init() {
	for _, c := range []*cobra.Command{analyzeATSCmd, analyzeBiasCmd, analyzeLocalizeCmd} {
		c.Flags().StringVarP(&analyzeResume, "resume", "r", "", "Path to structured resume JSON file")
		c.Flags().StringVar(&analyzeText, "text", "", "Path to plain-text resume file (alternative to --resume)")
		c.Flags().StringVarP(&analyzeOut, "out", "o", "", "Path to output JSON file (default: stdout)")
		c.Flags().BoolVar(&analyzeHuman, "pretty", false, "Print a human-readable summary instead of JSON")
		analyzeCmd.AddCommand(c)
	}
	analyzeLocalizeCmd.Flags().StringVar(&analyzeRegion, "region", "US", "Target region: US, UK, EU, or APAC")

	rootCmd.AddCommand(analyzeCmd)
}

// analysisText resolves the resume content for the text-based analyses.
func analysisText() (string, error) {
	switch {
	case analyzeText != "" && analyzeResume != "":
		return "", fmt.Errorf("--resume and --text are mutually exclusive; provide only one")
	case analyzeText != "":
		data, err := os.ReadFile(analyzeText)
		if err != nil {
			return "", fmt.Errorf("failed to read text file: %w", err)
		}
		return string(data), nil
	case analyzeResume != "":
		resume, err := loadResume(analyzeResume)
		if err != nil {
			return "", err
		}
		text, err := resumeToText(resume)
		if err != nil {
			return "", err
		}
		return text, nil
	default:
		return "", fmt.Errorf("either --resume or --text must be provided")
	}
}

func runAnalyzeATS(_ *cobra.Command, _ []string) error {
	text, err := analysisText()
	if err != nil {
		return err
	}

	report := ats.Analyze(text)
	if analyzeHuman {
		observability.NewPrinter(os.Stdout).PrintATSReport(&report)
		return nil
	}
	return writeJSON(analyzeOut, report)
}

func runAnalyzeBias(_ *cobra.Command, _ []string) error {
	if analyzeResume != "" && analyzeText != "" {
		return fmt.Errorf("--resume and --text are mutually exclusive; provide only one")
	}
	if analyzeResume != "" {
		resume, err := loadResume(analyzeResume)
		if err != nil {
			return err
		}
		report := bias.GetDetailedReport(resume)
		if analyzeHuman {
			observability.NewPrinter(os.Stdout).PrintBiasReport(&report)
			return nil
		}
		return writeJSON(analyzeOut, report)
	}

	text, err := analysisText()
	if err != nil {
		return err
	}
	return writeJSON(analyzeOut, bias.Analyze(text))
}

func runAnalyzeLocalize(_ *cobra.Command, _ []string) error {
	text, err := analysisText()
	if err != nil {
		return err
	}

	advice, err := localize.GetAdvice(text, localize.Region(analyzeRegion))
	if err != nil {
		return err
	}

	if analyzeHuman {
		observability.NewPrinter(os.Stdout).PrintAdvice(advice)
		return nil
	}
	return writeJSON(analyzeOut, advice)
}

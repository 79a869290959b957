// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/Kehn-Marv/Career-plus-sub001/internal/ats"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/autofix"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/bias"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/localize"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintATSReport outputs a human-readable summary of the compatibility scan.
func (p *Printer) PrintATSReport(report *ats.Report) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Score:  %.0f/100 (%s)\n", report.Score, report.Label))

	if len(report.Issues) > 0 {
		sb.WriteString(fmt.Sprintf("\nIssues found: %d\n", len(report.Issues)))
		count := min(len(report.Issues), maxItemsToShow)
		for i := 0; i < count; i++ {
			issue := report.Issues[i]
			sb.WriteString(fmt.Sprintf("  • [%s] %s\n", issue.Severity, issue.Title))
		}
		if len(report.Issues) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(report.Issues)-maxItemsToShow))
		}
	} else {
		sb.WriteString("\nNo compatibility issues found.")
	}

	p.printBox("ATS COMPATIBILITY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintBiasReport outputs detected bias issues grouped by category.
func (p *Printer) PrintBiasReport(report *bias.DetailedReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Bias score: %.1f/100 (lower is better)\n", report.OverallScore))

	if len(report.DetectedIssues) > 0 {
		sb.WriteString(fmt.Sprintf("\nFlagged phrases: %d\n", len(report.DetectedIssues)))
		count := min(len(report.DetectedIssues), maxItemsToShow)
		for i := 0; i < count; i++ {
			d := report.DetectedIssues[i]
			sb.WriteString(fmt.Sprintf("  • %q -> %q\n", d.Original, d.Suggestion))
		}
		if len(report.DetectedIssues) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(report.DetectedIssues)-maxItemsToShow))
		}
	} else {
		sb.WriteString("\nNo biased language detected.")
	}

	p.printBox("BIAS ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRewriteBatch outputs a summary of proposed bullet rewrites.
func (p *Printer) PrintRewriteBatch(batch *types.RewriteBatch) {
	if batch == nil || len(batch.Results) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Rewritten %d of %d bullets:\n\n", batch.SuccessCount(), len(batch.Results)))

	count := min(len(batch.Results), maxItemsToShow)
	for i := 0; i < count; i++ {
		r := batch.Results[i]
		text := r.Rewritten
		if !r.Success {
			text = "(failed) " + r.Original
		}
		if len(text) > 50 {
			text = text[:47] + "..."
		}
		sb.WriteString(fmt.Sprintf("• %s\n", text))
		if len(r.Changes) > 0 {
			changes := strings.Join(r.Changes, ", ")
			if len(changes) > 40 {
				changes = changes[:37] + "..."
			}
			sb.WriteString(fmt.Sprintf("  [%s]\n", changes))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(batch.Results) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more bullets", len(batch.Results)-maxItemsToShow))
	}

	p.printBox("PROPOSED REWRITES", sb.String())
}

// PrintAdvice outputs region-specific localization guidance.
func (p *Printer) PrintAdvice(advice *localize.Advice) {
	if advice == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Region: %s\n", advice.TargetRegion))

	if len(advice.Recommendations) > 0 {
		sb.WriteString("\nRecommendations:\n")
		count := min(len(advice.Recommendations), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", advice.Recommendations[i]))
		}
		if len(advice.Recommendations) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(advice.Recommendations)-maxItemsToShow))
		}
	}

	p.printBox("LOCALIZATION ADVICE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintStepUpdate writes a one-line progress update for a workflow step.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintStepUpdate(step autofix.ProgressStep) {
	switch step.State {
	case autofix.StepInProgress:
		fmt.Fprintf(p.out, "→ %s...\n", step.Description)
	case autofix.StepCompleted:
		fmt.Fprintf(p.out, "✓ %s (%dms)\n", step.Description, step.DurationMs)
	case autofix.StepFailed:
		fmt.Fprintf(p.out, "✗ %s: %s\n", step.Description, step.Error)
	case autofix.StepSkipped:
		fmt.Fprintf(p.out, "- %s (skipped)\n", step.Description)
	}
}

// PrintWorkflowResult outputs the outcome of a full optimization run.
func (p *Printer) PrintWorkflowResult(result *autofix.Result) {
	if result == nil {
		return
	}

	var sb strings.Builder
	if result.Success {
		sb.WriteString("Status: completed\n")
	} else {
		sb.WriteString(fmt.Sprintf("Status: failed\n%s\n", result.ErrorMessage))
	}
	if result.OptimizedResumeID != "" {
		sb.WriteString(fmt.Sprintf("Resume ID: %s\n", result.OptimizedResumeID))
	}
	if result.PDFFilename != "" {
		sb.WriteString(fmt.Sprintf("PDF: %s\n", result.PDFFilename))
	}
	if len(result.AppliedFixes) > 0 {
		sb.WriteString("\nApplied fixes:\n")
		count := min(len(result.AppliedFixes), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", result.AppliedFixes[i]))
		}
		if len(result.AppliedFixes) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.AppliedFixes)-maxItemsToShow))
		}
	}

	p.printBox("AUTO-FIX RESULT", strings.TrimSuffix(sb.String(), "\n"))
}

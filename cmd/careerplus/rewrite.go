package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Kehn-Marv/Career-plus-sub001/internal/llm"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/observability"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/review"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/rewrite"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/types"
)

var (
	rewriteResume string
	rewriteJob    string
	rewriteJobURL string
	rewriteTone   string
	rewriteOut    string
	rewriteAPIKey string
	rewriteHuman  bool
	rewriteReview bool
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite",
	Short: "Rewrite resume bullets for a job description",
	Long: `Rewrites each experience bullet to better match a job description.

With --review, each proposed rewrite is presented one at a time for an
accept/skip decision, and only the accepted rewrites are applied to the
resume written to --out.`,
	RunE: runRewrite,
}

func init() {
	rewriteCmd.Flags().StringVarP(&rewriteResume, "resume", "r", "", "Path to resume JSON file (required)")
	rewriteCmd.Flags().StringVarP(&rewriteJob, "job", "j", "", "Path to job description text file")
	rewriteCmd.Flags().StringVar(&rewriteJobURL, "job-url", "", "URL of a job posting to fetch")
	rewriteCmd.Flags().StringVarP(&rewriteTone, "tone", "t", "professional", "Rewrite tone: professional, confident, or concise")
	rewriteCmd.Flags().StringVarP(&rewriteOut, "out", "o", "", "Path to output file (default: stdout)")
	rewriteCmd.Flags().StringVar(&rewriteAPIKey, "api-key", "", "Gemini API key (default: GEMINI_API_KEY env var)")
	rewriteCmd.Flags().BoolVar(&rewriteHuman, "pretty", false, "Print a human-readable summary instead of JSON")
	rewriteCmd.Flags().BoolVar(&rewriteReview, "review", false, "Review each rewrite interactively before applying")
	_ = rewriteCmd.MarkFlagRequired("resume")

	rootCmd.AddCommand(rewriteCmd)
}

func runRewrite(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	resume, err := loadResume(rewriteResume)
	if err != nil {
		return err
	}
	jobDescription, err := loadJobDescription(ctx, rewriteJob, rewriteJobURL)
	if err != nil {
		return err
	}
	apiKey, err := resolveAPIKey(rewriteAPIKey)
	if err != nil {
		return err
	}

	client, err := llm.NewClient(ctx, nil, apiKey)
	if err != nil {
		return fmt.Errorf("failed to create AI client: %w", err)
	}
	defer client.Close()

	rewriter := rewrite.NewRewriter(client)
	batch, err := rewriter.RewriteResume(ctx, resume, jobDescription, rewriteTone)
	if err != nil {
		return fmt.Errorf("rewrite failed: %w", err)
	}

	if rewriteReview {
		return reviewBatch(resume, batch)
	}

	if rewriteHuman {
		observability.NewPrinter(os.Stdout).PrintRewriteBatch(batch)
		return nil
	}
	return writeJSON(rewriteOut, batch)
}

// reviewBatch walks the proposed rewrites one at a time on stdin and applies
// only the accepted ones to the resume.
func reviewBatch(resume *types.Resume, batch *types.RewriteBatch) error {
	session := review.NewSession(batch.Results, estimateImprovement(batch), review.Hooks{
		OnComplete: func(s review.Summary) {
			fmt.Printf("\nReview complete: %d accepted, %d skipped (+%d of a possible %d points)\n",
				s.Accepted, s.Skipped, s.ScoreDelta, s.MaxScoreGain)
		},
	})

	if session.State() == review.StateEmpty {
		fmt.Println("No successful rewrites to review.")
		return nil
	}

	fmt.Printf("Reviewing %d proposed rewrites. Commands: (a)ccept, (s)kip, (n)ext, (p)revious, accept-(A)ll, (q)uit\n", session.Total())

	reader := bufio.NewReader(os.Stdin)
	for session.State() == review.StateReviewing {
		printReviewItem(session)

		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("failed to read input: %w", err)
		}

		switch strings.TrimSpace(line) {
		case "a", "accept":
			session.Accept()
		case "s", "skip":
			session.Skip()
		case "n", "next":
			session.Next()
		case "p", "prev", "previous":
			session.Previous()
		case "A", "all":
			session.AcceptAll()
		case "q", "quit":
			fmt.Println("Review abandoned; no changes applied.")
			return nil
		default:
			fmt.Println("Unknown command. Use a, s, n, p, A, or q.")
		}

		if err == io.EOF {
			fmt.Println("\nInput closed; review abandoned.")
			return nil
		}
	}

	updated := applyAccepted(resume, session.AcceptedItems())
	return writeJSON(rewriteOut, updated)
}

func printReviewItem(session *review.Session) {
	item, ok := session.Current()
	if !ok {
		return
	}

	status := "undecided"
	if session.IsAccepted(item.ID) {
		status = "accepted"
	} else if session.IsSkipped(item.ID) {
		status = "skipped"
	}

	fmt.Printf("\n[%d/%d] %s (%d%% reviewed)\n", session.CurrentIndex()+1, session.Total(), status, session.Percentage())
	fmt.Printf("  before: %s\n", item.Original)
	fmt.Printf("  after:  %s\n", item.Rewritten)
	if len(item.Changes) > 0 {
		fmt.Printf("  changes: %s\n", strings.Join(item.Changes, ", "))
	}
}

// estimateImprovement is the maximum score gain if every proposal is
// accepted. Two points per improved bullet, capped at 20.
func estimateImprovement(batch *types.RewriteBatch) int {
	gain := batch.SuccessCount() * 2
	if gain > 20 {
		gain = 20
	}
	return gain
}

// applyAccepted returns a copy of the resume with the accepted rewrites
// substituted into their experience bullets.
func applyAccepted(resume *types.Resume, accepted []types.BulletRewriteResult) *types.Resume {
	updated := *resume
	updated.Experience = make([]types.Experience, len(resume.Experience))
	for i, exp := range resume.Experience {
		updated.Experience[i] = exp
		updated.Experience[i].Description = append([]string(nil), exp.Description...)
	}

	for _, r := range accepted {
		if r.ExperienceIndex < 0 || r.ExperienceIndex >= len(updated.Experience) {
			continue
		}
		desc := updated.Experience[r.ExperienceIndex].Description
		if r.BulletIndex < 0 || r.BulletIndex >= len(desc) {
			continue
		}
		desc[r.BulletIndex] = r.Rewritten
	}

	return &updated
}

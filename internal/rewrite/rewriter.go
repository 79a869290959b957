// Package rewrite generates improved resume bullets in small batches through
// the LLM client and reports what changed per bullet.
package rewrite

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Kehn-Marv/Career-plus-sub001/internal/llm"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/prompts"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/types"
)

const (
	batchSize = 3
	// Job descriptions are truncated before prompting to keep batches cheap.
	maxJobContextChars = 350
	// Parsed lines shorter than this are treated as noise, not bullets.
	minBulletLength = 20
)

// Bullet locates one description line inside a resume.
type Bullet struct {
	ExperienceIndex int
	BulletIndex     int
	Text            string
}

// CollectBullets flattens a resume's experience descriptions into an indexed
// bullet list.
func CollectBullets(resume *types.Resume) []Bullet {
	var bullets []Bullet
	for i, exp := range resume.Experience {
		for j, text := range exp.Description {
			bullets = append(bullets, Bullet{
				ExperienceIndex: i,
				BulletIndex:     j,
				Text:            text,
			})
		}
	}
	return bullets
}

// Rewriter batches bullets through the LLM.
type Rewriter struct {
	client llm.Client
}

// NewRewriter creates a rewriter backed by the given LLM client.
func NewRewriter(client llm.Client) *Rewriter {
	return &Rewriter{client: client}
}

// RewriteResume rewrites every experience bullet in the resume.
func (r *Rewriter) RewriteResume(ctx context.Context, resume *types.Resume, jobDescription, tone string) (*types.RewriteBatch, error) {
	return r.RewriteBullets(ctx, CollectBullets(resume), jobDescription, tone)
}

// RewriteBullets processes bullets in batches of three. A batch that fails
// falls back to the original text with Success=false; other batches are
// unaffected.
func (r *Rewriter) RewriteBullets(ctx context.Context, bullets []Bullet, jobDescription, tone string) (*types.RewriteBatch, error) {
	if tone == "" {
		tone = "professional"
	}

	results := make([]types.BulletRewriteResult, 0, len(bullets))
	for start := 0; start < len(bullets); start += batchSize {
		end := start + batchSize
		if end > len(bullets) {
			end = len(bullets)
		}
		batch := bullets[start:end]

		rewritten, err := r.rewriteBatch(ctx, batch, jobDescription, tone)
		if err != nil {
			for _, bullet := range batch {
				results = append(results, types.BulletRewriteResult{
					ID:              uuid.NewString(),
					Original:        bullet.Text,
					Rewritten:       bullet.Text,
					Changes:         []string{"Error: Could not rewrite"},
					ExperienceIndex: bullet.ExperienceIndex,
					BulletIndex:     bullet.BulletIndex,
					Success:         false,
					Error:           err.Error(),
				})
			}
			continue
		}
		results = append(results, rewritten...)
	}

	return &types.RewriteBatch{Results: results}, nil
}

func (r *Rewriter) rewriteBatch(ctx context.Context, batch []Bullet, jobDescription, tone string) ([]types.BulletRewriteResult, error) {
	prompt, err := buildPrompt(batch, jobDescription, tone)
	if err != nil {
		return nil, err
	}

	response, err := r.client.GenerateContent(ctx, prompt, llm.TierLite, llm.RewriteOptions())
	if err != nil {
		return nil, fmt.Errorf("rewriting batch: %w", err)
	}

	texts := make([]string, len(batch))
	for i, bullet := range batch {
		texts[i] = bullet.Text
	}
	parsed := ParseRewrittenBullets(response, texts)

	results := make([]types.BulletRewriteResult, len(batch))
	for i, bullet := range batch {
		results[i] = types.BulletRewriteResult{
			ID:              uuid.NewString(),
			Original:        bullet.Text,
			Rewritten:       parsed[i],
			Changes:         IdentifyChanges(bullet.Text, parsed[i]),
			ExperienceIndex: bullet.ExperienceIndex,
			BulletIndex:     bullet.BulletIndex,
			Success:         true,
		}
	}
	return results, nil
}

func buildPrompt(batch []Bullet, jobDescription, tone string) (string, error) {
	var numbered strings.Builder
	for i, bullet := range batch {
		fmt.Fprintf(&numbered, "%d. %s\n", i+1, bullet.Text)
	}

	if len(jobDescription) > maxJobContextChars {
		jobDescription = jobDescription[:maxJobContextChars]
	}

	intro, err := prompts.Get("rewrite.json", "rewrite-batch-intro")
	if err != nil {
		return "", err
	}
	instructions, err := prompts.Get("rewrite.json", "rewrite-batch-instructions")
	if err != nil {
		return "", err
	}

	return prompts.Format(intro, map[string]string{
		"Tone":       tone,
		"JobContext": jobDescription,
		"Bullets":    strings.TrimRight(numbered.String(), "\n"),
	}) + instructions, nil
}

// ParseRewrittenBullets extracts numbered or bulleted lines from the model
// response. Short of a full set, missing slots are padded with the originals;
// extras beyond the original count are dropped.
func ParseRewrittenBullets(response string, originals []string) []string {
	var rewritten []string
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		first, _ := utf8.DecodeRuneInString(line)
		if !(first >= '0' && first <= '9') && first != '-' && first != '•' {
			continue
		}
		bullet := strings.TrimSpace(strings.TrimLeft(line, "0123456789.-•* "))
		if len(bullet) > minBulletLength {
			rewritten = append(rewritten, bullet)
		}
	}

	for len(rewritten) < len(originals) {
		rewritten = append(rewritten, originals[len(rewritten)])
	}
	return rewritten[:len(originals)]
}

var numberRe = regexp.MustCompile(`\d+`)

var actionVerbs = []string{
	"led", "managed", "developed", "created", "implemented",
	"designed", "improved", "increased", "reduced", "achieved",
	"optimized", "streamlined", "spearheaded", "orchestrated",
}

var impactWords = []string{
	"increased", "reduced", "improved", "enhanced", "optimized",
	"achieved", "delivered", "generated", "saved",
}

var specificityWords = []string{
	"specific", "particular", "detailed", "comprehensive", "extensive",
}

// IdentifyChanges compares an original bullet to its rewrite and names up to
// three improvements.
func IdentifyChanges(original, rewritten string) []string {
	var changes []string

	origLower := strings.ToLower(original)
	newLower := strings.ToLower(rewritten)

	origVerb := leadingActionVerb(origLower)
	newVerb := leadingActionVerb(newLower)
	switch {
	case origVerb == "" && newVerb != "":
		changes = append(changes, "Added strong action verb")
	case origVerb != "" && newVerb != "" && origVerb != newVerb:
		changes = append(changes, "Improved action verb")
	}

	origNums := numberRe.FindAllString(original, -1)
	newNums := numberRe.FindAllString(rewritten, -1)
	switch {
	case len(origNums) == 0 && len(newNums) > 0:
		changes = append(changes, "Added quantifiable metrics")
	case len(newNums) > len(origNums):
		changes = append(changes, "Added more metrics")
	}

	if !containsAny(origLower, impactWords) && containsAny(newLower, impactWords) {
		changes = append(changes, "Emphasized results and impact")
	}

	origLen := float64(len(original))
	newLen := float64(len(rewritten))
	switch {
	case newLen < origLen*0.85:
		changes = append(changes, "Made more concise")
	case newLen > origLen*1.15:
		changes = append(changes, "Added more detail")
	}

	if containsAny(newLower, specificityWords) {
		changes = append(changes, "Increased specificity")
	}

	if len(changes) == 0 {
		changes = append(changes, "Enhanced clarity and professionalism")
	}
	if len(changes) > 3 {
		changes = changes[:3]
	}
	return changes
}

func leadingActionVerb(lower string) string {
	for _, verb := range actionVerbs {
		if strings.HasPrefix(lower, verb) {
			return verb
		}
	}
	return ""
}

func containsAny(text string, words []string) bool {
	for _, word := range words {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}

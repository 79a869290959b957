package types

// BulletRewriteResult represents one AI-proposed bullet replacement.
// ExperienceIndex and BulletIndex locate the bullet inside the resume so an
// accepted rewrite can be applied in place. Immutable once produced.
type BulletRewriteResult struct {
	ID              string   `json:"id"`
	Original        string   `json:"original"`
	Rewritten       string   `json:"rewritten"`
	Changes         []string `json:"changes,omitempty"`
	ExperienceIndex int      `json:"experience_index"`
	BulletIndex     int      `json:"bullet_index"`
	Success         bool     `json:"success"`
	Error           string   `json:"error,omitempty"`
}

// RewriteBatch represents a collection of rewrite results (wrapper for API responses)
type RewriteBatch struct {
	Results []BulletRewriteResult `json:"results"`
}

// SuccessCount returns the number of results that succeeded
func (b *RewriteBatch) SuccessCount() int {
	count := 0
	for _, r := range b.Results {
		if r.Success {
			count++
		}
	}
	return count
}

// Package review implements the accept/skip walk over a batch of AI-proposed
// bullet rewrites. A session tracks which proposals the user accepted or
// skipped and reports the cumulative decision through hooks.
package review

import (
	"math"

	"github.com/Kehn-Marv/Career-plus-sub001/internal/types"
)

// State names the phase a review session is in.
type State string

const (
	// StateEmpty means the batch carried no successful rewrites to review.
	StateEmpty State = "empty"
	// StateReviewing means at least one item has not been decided yet.
	StateReviewing State = "reviewing"
	// StateComplete means every item has been accepted or skipped.
	StateComplete State = "complete"
)

// Summary is handed to the completion hook when the last item is decided.
type Summary struct {
	Total        int `json:"total"`
	Accepted     int `json:"accepted"`
	Skipped      int `json:"skipped"`
	ScoreDelta   int `json:"score_delta"`
	MaxScoreGain int `json:"max_score_gain"`
}

// Hooks are invoked synchronously as decisions are made. Nil hooks are
// skipped.
type Hooks struct {
	OnAccept    func(id string)
	OnSkip      func(id string)
	OnAcceptAll func(ids []string)
	OnComplete  func(Summary)
}

// Session walks an ordered batch of successful rewrite results. Only results
// with Success=true are reviewable; failed ones are dropped at construction.
// Accepted and skipped sets are always disjoint.
type Session struct {
	items                []types.BulletRewriteResult
	currentIndex         int
	accepted             map[string]bool
	skipped              map[string]bool
	estimatedImprovement int
	hooks                Hooks
	completed            bool
}

// NewSession builds a session over the successful results of a batch.
// estimatedImprovement is the maximum score gain if every item is accepted.
func NewSession(results []types.BulletRewriteResult, estimatedImprovement int, hooks Hooks) *Session {
	s := &Session{
		estimatedImprovement: estimatedImprovement,
		hooks:                hooks,
	}
	s.load(results)
	return s
}

// Reset discards all session state and starts over with a new batch.
func (s *Session) Reset(results []types.BulletRewriteResult) {
	s.completed = false
	s.load(results)
}

func (s *Session) load(results []types.BulletRewriteResult) {
	s.items = s.items[:0]
	for _, r := range results {
		if r.Success {
			s.items = append(s.items, r)
		}
	}
	s.currentIndex = 0
	s.accepted = make(map[string]bool)
	s.skipped = make(map[string]bool)
}

// State reports the current phase.
func (s *Session) State() State {
	switch {
	case len(s.items) == 0:
		return StateEmpty
	case s.ReviewedCount() == len(s.items):
		return StateComplete
	default:
		return StateReviewing
	}
}

// Total is the number of reviewable items.
func (s *Session) Total() int { return len(s.items) }

// CurrentIndex is the position of the item being shown.
func (s *Session) CurrentIndex() int { return s.currentIndex }

// Current returns the item under review, or false in the empty state.
func (s *Session) Current() (types.BulletRewriteResult, bool) {
	if len(s.items) == 0 {
		return types.BulletRewriteResult{}, false
	}
	return s.items[s.currentIndex], true
}

// ReviewedCount is the number of items with a decision.
func (s *Session) ReviewedCount() int { return len(s.accepted) + len(s.skipped) }

// AcceptedCount is the number of accepted items.
func (s *Session) AcceptedCount() int { return len(s.accepted) }

// SkippedCount is the number of skipped items.
func (s *Session) SkippedCount() int { return len(s.skipped) }

// IsAccepted reports whether the given item id was accepted.
func (s *Session) IsAccepted(id string) bool { return s.accepted[id] }

// IsSkipped reports whether the given item id was skipped.
func (s *Session) IsSkipped(id string) bool { return s.skipped[id] }

// Accept records the current item as accepted and advances. Re-deciding an
// item previously skipped moves it to the accepted set. The accept hook fires
// before the terminal check; completing the batch fires the completion hook
// exactly once.
func (s *Session) Accept() {
	s.decide(s.accepted, s.skipped, s.hooks.OnAccept)
}

// Skip records the current item as skipped and advances.
func (s *Session) Skip() {
	s.decide(s.skipped, s.accepted, s.hooks.OnSkip)
}

func (s *Session) decide(into, outOf map[string]bool, hook func(string)) {
	item, ok := s.Current()
	if !ok {
		return
	}

	delete(outOf, item.ID)
	into[item.ID] = true

	if hook != nil {
		hook(item.ID)
	}

	if s.ReviewedCount() == len(s.items) {
		s.complete()
		return
	}

	// Index moves by array order, not to the first unreviewed item.
	if s.currentIndex < len(s.items)-1 {
		s.currentIndex++
	}
}

// AcceptAll accepts every item in one operation, regardless of prior partial
// progress, and completes the session. Per-item hooks are not fired; the bulk
// hook receives every id in order.
func (s *Session) AcceptAll() {
	if len(s.items) == 0 {
		return
	}

	ids := make([]string, len(s.items))
	for i, item := range s.items {
		ids[i] = item.ID
		delete(s.skipped, item.ID)
		s.accepted[item.ID] = true
	}

	if s.hooks.OnAcceptAll != nil {
		s.hooks.OnAcceptAll(ids)
	}
	s.complete()
}

func (s *Session) complete() {
	if s.completed {
		return
	}
	s.completed = true
	if s.hooks.OnComplete != nil {
		s.hooks.OnComplete(s.Summary())
	}
}

// Previous moves back one item without touching decisions. No-op at index 0.
func (s *Session) Previous() {
	if s.currentIndex > 0 {
		s.currentIndex--
	}
}

// Next moves forward one item without touching decisions. No-op at the last
// index.
func (s *Session) Next() {
	if s.currentIndex < len(s.items)-1 {
		s.currentIndex++
	}
}

// Percentage is the reviewed share of the batch, rounded to the nearest
// integer.
func (s *Session) Percentage() int {
	if len(s.items) == 0 {
		return 0
	}
	return int(math.Round(float64(s.ReviewedCount()) / float64(len(s.items)) * 100))
}

// ScoreDelta estimates the score gain from the accepted items: the accepted
// share of the batch scaled by the maximum possible improvement.
func (s *Session) ScoreDelta() int {
	if len(s.items) == 0 {
		return 0
	}
	return int(math.Round(float64(len(s.accepted)) / float64(len(s.items)) * float64(s.estimatedImprovement)))
}

// Summary snapshots the cumulative decision.
func (s *Session) Summary() Summary {
	return Summary{
		Total:        len(s.items),
		Accepted:     len(s.accepted),
		Skipped:      len(s.skipped),
		ScoreDelta:   s.ScoreDelta(),
		MaxScoreGain: s.estimatedImprovement,
	}
}

// AcceptedItems returns the accepted results in batch order, for applying to
// the resume.
func (s *Session) AcceptedItems() []types.BulletRewriteResult {
	var out []types.BulletRewriteResult
	for _, item := range s.items {
		if s.accepted[item.ID] {
			out = append(out, item)
		}
	}
	return out
}

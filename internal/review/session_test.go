package review

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kehn-Marv/Career-plus-sub001/internal/types"
)

func makeResults(successful, failed int) []types.BulletRewriteResult {
	var results []types.BulletRewriteResult
	for i := 0; i < successful; i++ {
		results = append(results, types.BulletRewriteResult{
			ID:        fmt.Sprintf("ok-%d", i),
			Original:  fmt.Sprintf("original %d", i),
			Rewritten: fmt.Sprintf("rewritten %d", i),
			Success:   true,
		})
	}
	for i := 0; i < failed; i++ {
		results = append(results, types.BulletRewriteResult{
			ID:      fmt.Sprintf("bad-%d", i),
			Success: false,
			Error:   "model unavailable",
		})
	}
	return results
}

func TestSessionFiltersFailedResults(t *testing.T) {
	s := NewSession(makeResults(2, 3), 30, Hooks{})

	assert.Equal(t, 2, s.Total())
	assert.Equal(t, StateReviewing, s.State())

	current, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "ok-0", current.ID)
}

func TestSessionEmptyState(t *testing.T) {
	s := NewSession(makeResults(0, 4), 30, Hooks{})

	assert.Equal(t, StateEmpty, s.State())
	assert.Equal(t, 0, s.Total())
	_, ok := s.Current()
	assert.False(t, ok)

	// Decisions and navigation are no-ops in the empty state.
	s.Accept()
	s.Skip()
	s.AcceptAll()
	s.Next()
	s.Previous()
	assert.Equal(t, StateEmpty, s.State())
	assert.Equal(t, 0, s.Percentage())
	assert.Equal(t, 0, s.ScoreDelta())
}

func TestAcceptAdvancesAndFiresHook(t *testing.T) {
	var accepted []string
	s := NewSession(makeResults(3, 0), 30, Hooks{
		OnAccept: func(id string) { accepted = append(accepted, id) },
	})

	s.Accept()

	assert.Equal(t, []string{"ok-0"}, accepted)
	assert.Equal(t, 1, s.CurrentIndex())
	assert.True(t, s.IsAccepted("ok-0"))
	assert.Equal(t, StateReviewing, s.State())
}

func TestReviewEveryItemCompletesOnce(t *testing.T) {
	completions := 0
	var summary Summary
	s := NewSession(makeResults(3, 0), 30, Hooks{
		OnComplete: func(sum Summary) {
			completions++
			summary = sum
		},
	})

	s.Accept()
	s.Skip()
	s.Accept()

	assert.Equal(t, StateComplete, s.State())
	assert.Equal(t, 3, s.ReviewedCount())
	assert.Equal(t, 1, completions)
	assert.Equal(t, 2, summary.Accepted)
	assert.Equal(t, 1, summary.Skipped)
}

func TestExampleScenarioTwoAcceptedDelta20(t *testing.T) {
	// Batch of 3, max improvement 30: accept, skip, accept.
	s := NewSession(makeResults(3, 0), 30, Hooks{})

	s.Accept()
	s.Skip()
	s.Accept()

	assert.Equal(t, 2, s.AcceptedCount())
	assert.Equal(t, 20, s.ScoreDelta())
	assert.Equal(t, 100, s.Percentage())
}

func TestAcceptAllFromPartialProgress(t *testing.T) {
	var bulk []string
	completions := 0
	s := NewSession(makeResults(4, 1), 25, Hooks{
		OnAcceptAll: func(ids []string) { bulk = ids },
		OnComplete:  func(Summary) { completions++ },
	})

	s.Accept()
	s.Skip()
	s.AcceptAll()

	assert.Equal(t, StateComplete, s.State())
	assert.Equal(t, 4, s.AcceptedCount())
	assert.Equal(t, 0, s.SkippedCount())
	assert.Equal(t, []string{"ok-0", "ok-1", "ok-2", "ok-3"}, bulk)
	assert.Equal(t, 1, completions)
	assert.Equal(t, 25, s.ScoreDelta())
}

func TestAcceptAllSkipsPerItemHooks(t *testing.T) {
	perItem := 0
	s := NewSession(makeResults(3, 0), 30, Hooks{
		OnAccept: func(string) { perItem++ },
	})

	s.AcceptAll()

	assert.Zero(t, perItem)
	assert.Equal(t, 3, s.AcceptedCount())
}

func TestPercentageMonotonicAndRounded(t *testing.T) {
	s := NewSession(makeResults(3, 0), 30, Hooks{})

	assert.Equal(t, 0, s.Percentage())
	s.Accept()
	assert.Equal(t, 33, s.Percentage())
	s.Skip()
	assert.Equal(t, 67, s.Percentage())
	s.Accept()
	assert.Equal(t, 100, s.Percentage())
}

func TestNavigationClampedAtBounds(t *testing.T) {
	s := NewSession(makeResults(3, 0), 30, Hooks{})

	s.Previous()
	assert.Equal(t, 0, s.CurrentIndex())

	s.Next()
	s.Next()
	assert.Equal(t, 2, s.CurrentIndex())
	s.Next()
	assert.Equal(t, 2, s.CurrentIndex())

	// Navigation never touches decisions.
	assert.Equal(t, 0, s.ReviewedCount())
}

func TestRevisitDoesNotChangeDecision(t *testing.T) {
	s := NewSession(makeResults(3, 0), 30, Hooks{})

	s.Accept()
	s.Previous()

	current, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "ok-0", current.ID)
	assert.True(t, s.IsAccepted("ok-0"))
	assert.Equal(t, 1, s.ReviewedCount())
}

func TestRedecidingMovesBetweenSets(t *testing.T) {
	s := NewSession(makeResults(3, 0), 30, Hooks{})

	s.Accept()
	s.Previous()
	s.Skip()

	assert.False(t, s.IsAccepted("ok-0"))
	assert.True(t, s.IsSkipped("ok-0"))
	assert.Equal(t, 1, s.ReviewedCount())
}

func TestAcceptAtLastIndexWithEarlierUnreviewed(t *testing.T) {
	s := NewSession(makeResults(3, 0), 30, Hooks{})

	s.Next()
	s.Next()
	s.Accept()

	// Index clamps at the end; earlier items remain undecided.
	assert.Equal(t, 2, s.CurrentIndex())
	assert.Equal(t, StateReviewing, s.State())
	assert.Equal(t, 1, s.ReviewedCount())
}

func TestResetDiscardsMidReviewState(t *testing.T) {
	completions := 0
	s := NewSession(makeResults(3, 0), 30, Hooks{
		OnComplete: func(Summary) { completions++ },
	})

	s.Accept()
	s.Skip()

	s.Reset(makeResults(2, 0))

	assert.Equal(t, 0, s.CurrentIndex())
	assert.Equal(t, 0, s.ReviewedCount())
	assert.Equal(t, 2, s.Total())
	assert.Equal(t, StateReviewing, s.State())

	// New batch can complete even though the old one never did.
	s.Accept()
	s.Accept()
	assert.Equal(t, 1, completions)
}

func TestAcceptedItemsInBatchOrder(t *testing.T) {
	s := NewSession(makeResults(3, 0), 30, Hooks{})

	s.Next()
	s.Next()
	s.Accept() // ok-2
	s.Previous()
	s.Previous()
	s.Accept() // ok-0

	items := s.AcceptedItems()
	require.Len(t, items, 2)
	assert.Equal(t, "ok-0", items[0].ID)
	assert.Equal(t, "ok-2", items[1].ID)
}

func TestSummarySnapshot(t *testing.T) {
	s := NewSession(makeResults(4, 0), 40, Hooks{})

	s.Accept()
	s.Accept()
	s.Skip()

	sum := s.Summary()
	assert.Equal(t, 4, sum.Total)
	assert.Equal(t, 2, sum.Accepted)
	assert.Equal(t, 1, sum.Skipped)
	assert.Equal(t, 20, sum.ScoreDelta)
	assert.Equal(t, 40, sum.MaxScoreGain)
}

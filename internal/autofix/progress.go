package autofix

import (
	"sync"
	"time"
)

// StepState is the lifecycle of one workflow step.
type StepState string

const (
	StepPending    StepState = "pending"
	StepInProgress StepState = "in_progress"
	StepCompleted  StepState = "completed"
	StepFailed     StepState = "failed"
	StepSkipped    StepState = "skipped"
)

// ProgressStep is one entry in the workflow's progress report.
type ProgressStep struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	State       StepState `json:"state"`
	StartedAt   time.Time `json:"started_at,omitempty"`
	CompletedAt time.Time `json:"completed_at,omitempty"`
	DurationMs  int64     `json:"duration_ms,omitempty"`
	Error       string    `json:"error,omitempty"`
}

// Progress is a point-in-time snapshot of a running workflow.
type Progress struct {
	IsRunning              bool           `json:"is_running"`
	Steps                  []ProgressStep `json:"steps"`
	CurrentStep            string         `json:"current_step"`
	Percentage             int            `json:"percentage"`
	EstimatedTimeRemaining int            `json:"estimated_time_remaining_seconds"`
}

// stepEstimates is the per-step time budget in seconds used for the
// remaining-time estimate. Model calls dominate.
var stepEstimates = map[string]int{
	StepLoadAnalysis:    1,
	StepAnalyzeATS:      2,
	StepAnalyzeBias:     2,
	StepRewriteBullets:  15,
	StepOptimizeContent: 20,
	StepApplyFixes:      1,
	StepSaveResume:      2,
	StepGeneratePDF:     8,
}

// progressTracker records step transitions and fans snapshots out to
// subscribers. Safe for concurrent use.
type progressTracker struct {
	mu      sync.Mutex
	running bool
	steps   []ProgressStep
	current string
	subs    map[chan Progress]struct{}
}

func newProgressTracker(stepNames []string) *progressTracker {
	steps := make([]ProgressStep, len(stepNames))
	for i, name := range stepNames {
		steps[i] = ProgressStep{
			Name:        name,
			Description: stepDescriptions[name],
			State:       StepPending,
		}
	}
	return &progressTracker{
		steps: steps,
		subs:  make(map[chan Progress]struct{}),
	}
}

// Subscribe returns a channel that receives a snapshot after every step
// transition. The caller must call the returned cancel function when done.
func (t *progressTracker) Subscribe() (<-chan Progress, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ch := make(chan Progress, 16)
	t.subs[ch] = struct{}{}
	cancel := func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if _, ok := t.subs[ch]; ok {
			delete(t.subs, ch)
			close(ch)
		}
	}
	return ch, cancel
}

func (t *progressTracker) start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = true
	for i := range t.steps {
		t.steps[i] = ProgressStep{
			Name:        t.steps[i].Name,
			Description: t.steps[i].Description,
			State:       StepPending,
		}
	}
	t.current = ""
	t.broadcastLocked()
}

func (t *progressTracker) stepStarted(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s := t.findLocked(name); s != nil {
		s.State = StepInProgress
		s.StartedAt = time.Now()
	}
	t.current = name
	t.broadcastLocked()
}

func (t *progressTracker) stepCompleted(name string) {
	t.setTerminal(name, StepCompleted, "")
}

func (t *progressTracker) stepFailed(name string, errMsg string) {
	t.setTerminal(name, StepFailed, errMsg)
}

func (t *progressTracker) stepSkipped(name string) {
	t.setTerminal(name, StepSkipped, "")
}

func (t *progressTracker) finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
	t.current = ""
	t.broadcastLocked()
}

func (t *progressTracker) setTerminal(name string, state StepState, errMsg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s := t.findLocked(name); s != nil {
		s.State = state
		s.CompletedAt = time.Now()
		if !s.StartedAt.IsZero() {
			s.DurationMs = s.CompletedAt.Sub(s.StartedAt).Milliseconds()
		}
		s.Error = errMsg
	}
	t.broadcastLocked()
}

func (t *progressTracker) findLocked(name string) *ProgressStep {
	for i := range t.steps {
		if t.steps[i].Name == name {
			return &t.steps[i]
		}
	}
	return nil
}

// Snapshot returns the current progress. Percentage counts steps that have
// reached a terminal state; the estimate sums the budgets of the rest.
func (t *progressTracker) Snapshot() Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *progressTracker) snapshotLocked() Progress {
	steps := make([]ProgressStep, len(t.steps))
	copy(steps, t.steps)

	done := 0
	remaining := 0
	for _, s := range steps {
		switch s.State {
		case StepCompleted, StepFailed, StepSkipped:
			done++
		default:
			remaining += stepEstimates[s.Name]
		}
	}
	pct := 0
	if len(steps) > 0 {
		pct = done * 100 / len(steps)
	}
	return Progress{
		IsRunning:              t.running,
		Steps:                  steps,
		CurrentStep:            t.current,
		Percentage:             pct,
		EstimatedTimeRemaining: remaining,
	}
}

func (t *progressTracker) broadcastLocked() {
	snap := t.snapshotLocked()
	for ch := range t.subs {
		select {
		case ch <- snap:
		default:
			// Slow subscriber; drop the update rather than block the workflow.
		}
	}
}

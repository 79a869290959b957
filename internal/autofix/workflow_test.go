package autofix

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kehn-Marv/Career-plus-sub001/internal/llm"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/localize"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/store"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/types"
)

type fakeStore struct {
	mu          sync.Mutex
	runID       uuid.UUID
	runStatus   string
	stepStatus  map[string]string
	savedResume *types.Resume
	resumeID    uuid.UUID
	pdfFilename string
	analyses    map[string]any

	createRunErr  error
	saveResumeErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		runID:      uuid.New(),
		resumeID:   uuid.New(),
		stepStatus: make(map[string]string),
		analyses:   make(map[string]any),
	}
}

func (f *fakeStore) CreateRun(_ context.Context, _, _, _ string) (uuid.UUID, error) {
	if f.createRunErr != nil {
		return uuid.Nil, f.createRunErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runStatus = store.RunStatusRunning
	return f.runID, nil
}

func (f *fakeStore) CompleteRun(_ context.Context, _ uuid.UUID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runStatus = status
	return nil
}

func (f *fakeStore) CreateRunStep(_ context.Context, _ uuid.UUID, stepName string) (*store.RunStep, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stepStatus[stepName] = store.StepStatusPending
	return &store.RunStep{Step: stepName, Status: store.StepStatusPending}, nil
}

func (f *fakeStore) UpdateRunStepStatus(_ context.Context, _ uuid.UUID, stepName, status string, _ *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stepStatus[stepName] = status
	return nil
}

func (f *fakeStore) SaveOptimizedResume(_ context.Context, _ uuid.UUID, resume *types.Resume) (uuid.UUID, error) {
	if f.saveResumeErr != nil {
		return uuid.Nil, f.saveResumeErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.savedResume = resume
	return f.resumeID, nil
}

func (f *fakeStore) SaveAnalysis(_ context.Context, _ uuid.UUID, kind string, report any) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.analyses[kind] = report
	return uuid.New(), nil
}

func (f *fakeStore) SavePDFExport(_ context.Context, _ uuid.UUID, filename string, _ []byte) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pdfFilename = filename
	return uuid.New(), nil
}

type fakeClient struct {
	jsonResponse string
	jsonErr      error
}

func (f *fakeClient) GenerateContent(_ context.Context, _ string, _ llm.ModelTier, _ llm.Options) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeClient) GenerateJSON(_ context.Context, _ string, _ llm.ModelTier, _ llm.Options) (string, error) {
	return f.jsonResponse, f.jsonErr
}

func (f *fakeClient) GetModel(llm.ModelTier) string { return "fake" }
func (f *fakeClient) Close() error                  { return nil }

type fakeRewriter struct {
	batch   *types.RewriteBatch
	err     error
	calls   int
	started chan struct{}
	release chan struct{}
}

func (f *fakeRewriter) RewriteResume(ctx context.Context, _ *types.Resume, _, _ string) (*types.RewriteBatch, error) {
	f.calls++
	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.batch, f.err
}

type fakePDF struct {
	blob []byte
	err  error
}

func (f *fakePDF) GeneratePDF(_ context.Context, _ *types.Resume, _ string) ([]byte, error) {
	return f.blob, f.err
}

func testResume() *types.Resume {
	return &types.Resume{
		Contact: types.ContactInfo{Name: "Jane Doe", Email: "jane@example.com", Phone: "555-0100"},
		Summary: "Software engineer with a track record of shipping reliable services.",
		Experience: []types.Experience{
			{
				Title:   "Software Engineer",
				Company: "Acme Corp",
				Dates:   "2020-2024",
				Description: []string{
					"Responsible for maintaining backend services for the platform",
					"Worked on improving the deployment pipeline for the whole team",
				},
			},
		},
		Skills: []string{"Go", "PostgreSQL"},
	}
}

const optimizedJSON = `{
  "summary": "Results-driven software engineer who ships reliable services.",
  "experience": [
    {
      "title": "Software Engineer",
      "company": "Acme Corp",
      "dates": "2020-2024",
      "description": [
        "Maintained backend services handling production traffic for the platform",
        "Improved the deployment pipeline, reducing release time by 40%"
      ]
    }
  ],
  "skills": ["Go", "PostgreSQL"]
}`

func successfulBatch() *types.RewriteBatch {
	return &types.RewriteBatch{Results: []types.BulletRewriteResult{
		{
			ID:              "r1",
			Original:        "Responsible for maintaining backend services for the platform",
			Rewritten:       "Maintained backend services handling production traffic for the platform",
			ExperienceIndex: 0,
			BulletIndex:     0,
			Success:         true,
		},
		{
			ID:              "r2",
			Original:        "Worked on improving the deployment pipeline for the whole team",
			Rewritten:       "Improved the deployment pipeline, reducing release time by 40%",
			ExperienceIndex: 0,
			BulletIndex:     1,
			Success:         true,
		},
	}}
}

func defaultRequest() Request {
	return Request{
		Resume:         testResume(),
		JobDescription: "We need a backend engineer comfortable with Go and PostgreSQL.",
		JobTitle:       "Backend Engineer",
		Region:         localize.RegionUS,
		TemplateID:     "professional",
	}
}

func TestWorkflowSuccess(t *testing.T) {
	st := newFakeStore()
	wf := NewWorkflow(st, &fakeClient{jsonResponse: optimizedJSON},
		&fakeRewriter{batch: successfulBatch()}, &fakePDF{blob: []byte("%PDF-1.4")})

	assert.Equal(t, StateIdle, wf.State())

	result, err := wf.Run(context.Background(), defaultRequest())
	require.NoError(t, err)
	require.True(t, result.Success)

	assert.Equal(t, StateDone, wf.State())
	assert.Equal(t, st.resumeID.String(), result.OptimizedResumeID)
	assert.NotNil(t, result.ATSReport)
	assert.NotNil(t, result.BiasReport)
	assert.Equal(t, 2, result.Rewrites.SuccessCount())
	assert.NotEmpty(t, result.AppliedFixes)

	assert.Equal(t, store.RunStatusCompleted, st.runStatus)
	for _, name := range stepOrder {
		assert.Equal(t, store.StepStatusCompleted, st.stepStatus[name], name)
	}
	assert.Contains(t, st.analyses, "ats")
	assert.Contains(t, st.analyses, "bias")

	require.NotNil(t, st.savedResume)
	assert.Equal(t, "Jane Doe", st.savedResume.Contact.Name)
	assert.Contains(t, st.savedResume.Experience[0].Description[1], "40%")

	assert.Contains(t, st.pdfFilename, "Resume_US_Backend_Engineer_")
	assert.Equal(t, st.pdfFilename, result.PDFFilename)
}

func TestWorkflowSkipsPDFWithoutGenerator(t *testing.T) {
	st := newFakeStore()
	wf := NewWorkflow(st, &fakeClient{jsonResponse: optimizedJSON},
		&fakeRewriter{batch: successfulBatch()}, nil)

	result, err := wf.Run(context.Background(), defaultRequest())
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Empty(t, result.PDFFilename)
	assert.Equal(t, store.StepStatusSkipped, st.stepStatus[StepGeneratePDF])
}

func TestWorkflowRejectsConcurrentRun(t *testing.T) {
	st := newFakeStore()
	rw := &fakeRewriter{
		batch:   successfulBatch(),
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	wf := NewWorkflow(st, &fakeClient{jsonResponse: optimizedJSON}, rw, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = wf.Run(context.Background(), defaultRequest())
	}()

	<-rw.started
	assert.Equal(t, StateRunning, wf.State())

	_, err := wf.Run(context.Background(), defaultRequest())
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	close(rw.release)
	<-done
	assert.Equal(t, StateDone, wf.State())
}

func TestWorkflowPreconditionFailures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Request)
	}{
		{"missing resume", func(r *Request) { r.Resume = nil }},
		{"no experience", func(r *Request) { r.Resume.Experience = nil }},
		{"missing job description", func(r *Request) { r.JobDescription = "  " }},
		{"unsupported region", func(r *Request) { r.Region = "MARS" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := newFakeStore()
			wf := NewWorkflow(st, &fakeClient{jsonResponse: optimizedJSON},
				&fakeRewriter{batch: successfulBatch()}, nil)

			req := defaultRequest()
			tc.mutate(&req)

			result, err := wf.Run(context.Background(), req)
			require.Error(t, err)
			assert.False(t, result.Success)

			var wErr *WorkflowError
			require.ErrorAs(t, err, &wErr)
			assert.Equal(t, KindPrecondition, wErr.Kind)
			assert.Equal(t, StepLoadAnalysis, wErr.Step)

			assert.Equal(t, StateFailed, wf.State())
			assert.Equal(t, store.RunStatusFailed, st.runStatus)
		})
	}
}

func TestWorkflowRejectsBadTemplateBeforeModelCalls(t *testing.T) {
	cases := []struct {
		name       string
		templateID string
	}{
		{"empty template", ""},
		{"unknown template", "neon"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := newFakeStore()
			rw := &fakeRewriter{batch: successfulBatch()}
			wf := NewWorkflow(st, &fakeClient{jsonResponse: optimizedJSON}, rw, &fakePDF{})

			req := defaultRequest()
			req.TemplateID = tc.templateID

			result, err := wf.Run(context.Background(), req)
			require.Error(t, err)
			assert.False(t, result.Success)

			var wErr *WorkflowError
			require.ErrorAs(t, err, &wErr)
			assert.Equal(t, KindPrecondition, wErr.Kind)
			assert.Equal(t, StepLoadAnalysis, wErr.Step)
			assert.Zero(t, rw.calls)
		})
	}
}

func TestWorkflowClassifiesNetworkError(t *testing.T) {
	st := newFakeStore()
	netErr := &url.Error{Op: "Post", URL: "https://api.example.com", Err: errors.New("connection refused")}
	wf := NewWorkflow(st, &fakeClient{jsonResponse: optimizedJSON},
		&fakeRewriter{err: netErr}, nil)

	result, err := wf.Run(context.Background(), defaultRequest())
	require.Error(t, err)

	var wErr *WorkflowError
	require.ErrorAs(t, err, &wErr)
	assert.Equal(t, KindNetwork, wErr.Kind)
	assert.Equal(t, StepRewriteBullets, wErr.Step)
	assert.Contains(t, result.ErrorMessage, "unreachable")
	assert.Equal(t, store.StepStatusFailed, st.stepStatus[StepRewriteBullets])
}

func TestWorkflowClassifiesAIError(t *testing.T) {
	st := newFakeStore()
	wf := NewWorkflow(st, &fakeClient{jsonResponse: optimizedJSON},
		&fakeRewriter{err: errors.New("model returned no candidates")}, nil)

	_, err := wf.Run(context.Background(), defaultRequest())
	var wErr *WorkflowError
	require.ErrorAs(t, err, &wErr)
	assert.Equal(t, KindAI, wErr.Kind)
}

func TestWorkflowRejectsInvalidOptimizedJSON(t *testing.T) {
	st := newFakeStore()
	wf := NewWorkflow(st, &fakeClient{jsonResponse: "not json at all"},
		&fakeRewriter{batch: successfulBatch()}, nil)

	_, err := wf.Run(context.Background(), defaultRequest())
	var wErr *WorkflowError
	require.ErrorAs(t, err, &wErr)
	assert.Equal(t, KindValidation, wErr.Kind)
	assert.Equal(t, StepOptimizeContent, wErr.Step)
	assert.Equal(t, store.StepStatusFailed, st.stepStatus[StepOptimizeContent])
}

func TestWorkflowCanRerunAfterFailure(t *testing.T) {
	st := newFakeStore()
	rw := &fakeRewriter{err: errors.New("transient failure")}
	wf := NewWorkflow(st, &fakeClient{jsonResponse: optimizedJSON}, rw, nil)

	_, err := wf.Run(context.Background(), defaultRequest())
	require.Error(t, err)
	assert.Equal(t, StateFailed, wf.State())

	rw.err = nil
	rw.batch = successfulBatch()
	result, err := wf.Run(context.Background(), defaultRequest())
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, StateDone, wf.State())
}

func TestWorkflowStorageFailureMarksRunFailed(t *testing.T) {
	st := newFakeStore()
	st.saveResumeErr = errors.New("connection reset")
	wf := NewWorkflow(st, &fakeClient{jsonResponse: optimizedJSON},
		&fakeRewriter{batch: successfulBatch()}, nil)

	_, err := wf.Run(context.Background(), defaultRequest())
	var wErr *WorkflowError
	require.ErrorAs(t, err, &wErr)
	assert.Equal(t, KindStorage, wErr.Kind)
	assert.Equal(t, StepSaveResume, wErr.Step)
	assert.Equal(t, store.RunStatusFailed, st.runStatus)
}

func TestApplyRewritesIgnoresFailuresAndBadIndexes(t *testing.T) {
	resume := testResume()
	batch := &types.RewriteBatch{Results: []types.BulletRewriteResult{
		{Rewritten: "Should not appear", ExperienceIndex: 0, BulletIndex: 0, Success: false},
		{Rewritten: "Out of range", ExperienceIndex: 5, BulletIndex: 0, Success: true},
		{Rewritten: "Also out of range", ExperienceIndex: 0, BulletIndex: 9, Success: true},
		{Rewritten: "Applied rewrite with real metrics", ExperienceIndex: 0, BulletIndex: 1, Success: true},
	}}

	out := applyRewrites(resume, batch)

	assert.Equal(t, resume.Experience[0].Description[0], out.Experience[0].Description[0])
	assert.Equal(t, "Applied rewrite with real metrics", out.Experience[0].Description[1])
	// The input resume is never mutated.
	assert.Equal(t, "Worked on improving the deployment pipeline for the whole team",
		resume.Experience[0].Description[1])
}

func TestProgressTrackerPercentageAndEstimate(t *testing.T) {
	tr := newProgressTracker(stepOrder)
	tr.start()

	snap := tr.Snapshot()
	assert.True(t, snap.IsRunning)
	assert.Equal(t, 0, snap.Percentage)
	assert.Positive(t, snap.EstimatedTimeRemaining)

	tr.stepStarted(StepLoadAnalysis)
	assert.Equal(t, StepLoadAnalysis, tr.Snapshot().CurrentStep)

	tr.stepCompleted(StepLoadAnalysis)
	tr.stepCompleted(StepAnalyzeATS)
	snap = tr.Snapshot()
	assert.Equal(t, 25, snap.Percentage)

	for _, name := range stepOrder[2:] {
		tr.stepCompleted(name)
	}
	tr.finish()
	snap = tr.Snapshot()
	assert.False(t, snap.IsRunning)
	assert.Equal(t, 100, snap.Percentage)
	assert.Zero(t, snap.EstimatedTimeRemaining)
}

func TestProgressSubscriberReceivesUpdates(t *testing.T) {
	tr := newProgressTracker(stepOrder)
	ch, cancel := tr.Subscribe()
	defer cancel()

	tr.start()
	tr.stepStarted(StepLoadAnalysis)
	tr.stepCompleted(StepLoadAnalysis)

	var last Progress
	timeout := time.After(time.Second)
	for i := 0; i < 3; i++ {
		select {
		case last = <-ch:
		case <-timeout:
			t.Fatal("timed out waiting for progress updates")
		}
	}
	assert.Equal(t, StepCompleted, last.Steps[0].State)
}

func TestWorkflowErrorUserMessages(t *testing.T) {
	base := errors.New("boom")
	assert.Contains(t, (&WorkflowError{Kind: KindNetwork, Err: base}).UserMessage(), "unreachable")
	assert.Contains(t, (&WorkflowError{Kind: KindPDF, Err: base}).UserMessage(), "PDF")
	assert.Contains(t, (&WorkflowError{Kind: KindValidation, Err: base}).UserMessage(), "validation")
	assert.Equal(t, "boom", (&WorkflowError{Kind: KindPrecondition, Err: base}).UserMessage())
}

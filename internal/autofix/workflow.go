package autofix

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Kehn-Marv/Career-plus-sub001/internal/ats"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/bias"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/llm"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/localize"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/pdf"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/store"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/templates"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/types"
)

// Workflow step names. These double as run-step rows in storage.
const (
	StepLoadAnalysis    = "load_analysis"
	StepAnalyzeATS      = "analyze_ats"
	StepAnalyzeBias     = "analyze_bias"
	StepRewriteBullets  = "rewrite_bullets"
	StepOptimizeContent = "optimize_content"
	StepApplyFixes      = "apply_fixes"
	StepSaveResume      = "save_resume"
	StepGeneratePDF     = "generate_pdf"
)

var stepOrder = []string{
	StepLoadAnalysis,
	StepAnalyzeATS,
	StepAnalyzeBias,
	StepRewriteBullets,
	StepOptimizeContent,
	StepApplyFixes,
	StepSaveResume,
	StepGeneratePDF,
}

var stepDescriptions = map[string]string{
	StepLoadAnalysis:    "Loading resume and job context",
	StepAnalyzeATS:      "Checking ATS compatibility",
	StepAnalyzeBias:     "Scanning for biased language",
	StepRewriteBullets:  "Rewriting experience bullets",
	StepOptimizeContent: "Optimizing resume content",
	StepApplyFixes:      "Applying fixes",
	StepSaveResume:      "Saving optimized resume",
	StepGeneratePDF:     "Generating PDF",
}

// State is the workflow lifecycle guard. A workflow only starts from Idle,
// Done, or Failed; a second start while Running is rejected.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StateDone    State = "done"
	StateFailed  State = "failed"
)

// ErrAlreadyRunning is returned when Run is called on a running workflow.
var ErrAlreadyRunning = errors.New("autofix workflow is already running")

// RunStore is the persistence surface the workflow needs. *store.Store
// satisfies it.
type RunStore interface {
	CreateRun(ctx context.Context, jobTitle, region, templateID string) (uuid.UUID, error)
	CompleteRun(ctx context.Context, runID uuid.UUID, status string) error
	CreateRunStep(ctx context.Context, runID uuid.UUID, stepName string) (*store.RunStep, error)
	UpdateRunStepStatus(ctx context.Context, runID uuid.UUID, stepName, status string, errorMsg *string) error
	SaveOptimizedResume(ctx context.Context, runID uuid.UUID, resume *types.Resume) (uuid.UUID, error)
	SaveAnalysis(ctx context.Context, runID uuid.UUID, kind string, report any) (uuid.UUID, error)
	SavePDFExport(ctx context.Context, resumeID uuid.UUID, filename string, blob []byte) (uuid.UUID, error)
}

// BulletRewriter rewrites a resume's experience bullets. *rewrite.Rewriter
// satisfies it.
type BulletRewriter interface {
	RewriteResume(ctx context.Context, resume *types.Resume, jobDescription, tone string) (*types.RewriteBatch, error)
}

// PDFGenerator renders a resume to a PDF document. *pdf.Generator satisfies it.
type PDFGenerator interface {
	GeneratePDF(ctx context.Context, resume *types.Resume, templateID string) ([]byte, error)
}

// Request carries the inputs for one workflow run.
type Request struct {
	Resume         *types.Resume
	JobDescription string
	JobTitle       string
	Region         localize.Region
	TemplateID     string
	Tone           string
}

// Result is the outcome of a workflow run.
type Result struct {
	Success           bool                 `json:"success"`
	RunID             string               `json:"run_id"`
	AppliedFixes      []string             `json:"applied_fixes"`
	OptimizedResumeID string               `json:"optimized_resume_id,omitempty"`
	PDFFilename       string               `json:"pdf_filename,omitempty"`
	ATSReport         *ats.Report          `json:"ats_report,omitempty"`
	BiasReport        *bias.DetailedReport `json:"bias_report,omitempty"`
	Rewrites          *types.RewriteBatch  `json:"rewrites,omitempty"`
	Error             *WorkflowError       `json:"-"`
	ErrorMessage      string               `json:"error,omitempty"`
}

// Workflow orchestrates the full Auto-Fix pipeline: analysis, rewriting,
// optimization, persistence, and PDF export. All collaborators are injected.
type Workflow struct {
	store    RunStore
	client   llm.Client
	rewriter BulletRewriter
	pdfGen   PDFGenerator

	mu      sync.Mutex
	state   State
	tracker *progressTracker
}

// NewWorkflow wires a workflow from its collaborators. pdfGen may be nil, in
// which case the PDF step is skipped.
func NewWorkflow(st RunStore, client llm.Client, rewriter BulletRewriter, pdfGen PDFGenerator) *Workflow {
	return &Workflow{
		store:    st,
		client:   client,
		rewriter: rewriter,
		pdfGen:   pdfGen,
		state:    StateIdle,
		tracker:  newProgressTracker(stepOrder),
	}
}

// State returns the current lifecycle state.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Progress returns a snapshot of step progress.
func (w *Workflow) Progress() Progress {
	return w.tracker.Snapshot()
}

// Subscribe streams progress snapshots until the cancel function is called.
func (w *Workflow) Subscribe() (<-chan Progress, func()) {
	return w.tracker.Subscribe()
}

// Run executes the workflow. It returns ErrAlreadyRunning if a run is in
// flight; a finished workflow (Done or Failed) may be run again.
func (w *Workflow) Run(ctx context.Context, req Request) (*Result, error) {
	w.mu.Lock()
	if w.state == StateRunning {
		w.mu.Unlock()
		return nil, ErrAlreadyRunning
	}
	w.state = StateRunning
	w.mu.Unlock()

	w.tracker.start()
	result, err := w.run(ctx, req)
	w.tracker.finish()

	w.mu.Lock()
	if result.Success {
		w.state = StateDone
	} else {
		w.state = StateFailed
	}
	w.mu.Unlock()

	return result, err
}

func (w *Workflow) run(ctx context.Context, req Request) (*Result, error) {
	result := &Result{}

	region := req.Region
	if region == "" {
		region = localize.RegionUS
	}

	runID, err := w.store.CreateRun(ctx, req.JobTitle, string(region), req.TemplateID)
	if err != nil {
		return w.fail(ctx, result, uuid.Nil, classify(StepLoadAnalysis, err, KindStorage))
	}
	result.RunID = runID.String()

	for _, name := range stepOrder {
		if _, err := w.store.CreateRunStep(ctx, runID, name); err != nil {
			return w.fail(ctx, result, runID, classify(name, err, KindStorage))
		}
	}

	// load_analysis: validate preconditions before any model call.
	w.stepStart(ctx, runID, StepLoadAnalysis)
	if err := w.checkPreconditions(req); err != nil {
		return w.fail(ctx, result, runID, w.stepFail(ctx, runID, StepLoadAnalysis, err, KindPrecondition))
	}
	w.stepDone(ctx, runID, StepLoadAnalysis)

	// analyze_ats and analyze_bias are independent; run them concurrently.
	resumeText := resumePlainText(req.Resume)
	var (
		atsReport  ats.Report
		biasReport bias.DetailedReport
	)
	g, gctx := errgroup.WithContext(ctx)
	w.stepStart(ctx, runID, StepAnalyzeATS)
	w.stepStart(ctx, runID, StepAnalyzeBias)
	g.Go(func() error {
		atsReport = ats.Analyze(resumeText)
		if _, err := w.store.SaveAnalysis(gctx, runID, "ats", atsReport); err != nil {
			return &WorkflowError{Kind: KindStorage, Step: StepAnalyzeATS, Err: err}
		}
		return nil
	})
	g.Go(func() error {
		biasReport = bias.GetDetailedReport(req.Resume)
		if _, err := w.store.SaveAnalysis(gctx, runID, "bias", biasReport); err != nil {
			return &WorkflowError{Kind: KindStorage, Step: StepAnalyzeBias, Err: err}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		wErr := classify(StepAnalyzeATS, err, KindStorage)
		w.stepFailBoth(ctx, runID, wErr)
		return w.fail(ctx, result, runID, wErr)
	}
	result.ATSReport = &atsReport
	result.BiasReport = &biasReport
	w.stepDone(ctx, runID, StepAnalyzeATS)
	w.stepDone(ctx, runID, StepAnalyzeBias)

	// rewrite_bullets
	w.stepStart(ctx, runID, StepRewriteBullets)
	rewrites, err := w.rewriter.RewriteResume(ctx, req.Resume, req.JobDescription, req.Tone)
	if err != nil {
		return w.fail(ctx, result, runID, w.stepFail(ctx, runID, StepRewriteBullets, err, KindAI))
	}
	result.Rewrites = rewrites
	w.stepDone(ctx, runID, StepRewriteBullets)

	// optimize_content
	w.stepStart(ctx, runID, StepOptimizeContent)
	withRewrites := applyRewrites(req.Resume, rewrites)
	optimized, err := OptimizeContent(ctx, w.client, withRewrites, req.JobDescription,
		issueSummaries(atsReport), recommendationSummaries(atsReport, biasReport))
	if err != nil {
		return w.fail(ctx, result, runID, w.stepFail(ctx, runID, StepOptimizeContent, err, KindAI))
	}
	w.stepDone(ctx, runID, StepOptimizeContent)

	// apply_fixes: bias fixes and region terminology on top of the optimized content.
	w.stepStart(ctx, runID, StepApplyFixes)
	fixed := bias.ApplyBiasFixes(optimized, bias.GetDetailedReport(optimized))
	guidelines, ok := localize.GuidelinesFor(region)
	if !ok {
		err := &localize.ErrUnsupportedRegion{Region: region}
		return w.fail(ctx, result, runID, w.stepFail(ctx, runID, StepApplyFixes, err, KindPrecondition))
	}
	localized, applied := localize.ApplyTerminology(fixed, guidelines.Terminology)
	result.AppliedFixes = describeFixes(rewrites, biasReport, applied)
	w.stepDone(ctx, runID, StepApplyFixes)

	// save_resume
	w.stepStart(ctx, runID, StepSaveResume)
	resumeID, err := w.store.SaveOptimizedResume(ctx, runID, localized)
	if err != nil {
		return w.fail(ctx, result, runID, w.stepFail(ctx, runID, StepSaveResume, err, KindStorage))
	}
	result.OptimizedResumeID = resumeID.String()
	w.stepDone(ctx, runID, StepSaveResume)

	// generate_pdf
	if w.pdfGen == nil {
		w.tracker.stepSkipped(StepGeneratePDF)
		w.updateStepStore(ctx, runID, StepGeneratePDF, store.StepStatusSkipped, nil)
	} else {
		w.stepStart(ctx, runID, StepGeneratePDF)
		blob, err := w.pdfGen.GeneratePDF(ctx, localized, req.TemplateID)
		if err != nil {
			return w.fail(ctx, result, runID, w.stepFail(ctx, runID, StepGeneratePDF, err, KindPDF))
		}
		filename := pdf.ExportFilename(string(region), req.JobTitle, time.Now())
		if _, err := w.store.SavePDFExport(ctx, resumeID, filename, blob); err != nil {
			return w.fail(ctx, result, runID, w.stepFail(ctx, runID, StepGeneratePDF, err, KindStorage))
		}
		result.PDFFilename = filename
		w.stepDone(ctx, runID, StepGeneratePDF)
	}

	if err := w.store.CompleteRun(ctx, runID, store.RunStatusCompleted); err != nil {
		return w.fail(ctx, result, runID, classify(StepSaveResume, err, KindStorage))
	}

	result.Success = true
	return result, nil
}

func (w *Workflow) fail(ctx context.Context, result *Result, runID uuid.UUID, wErr *WorkflowError) (*Result, error) {
	result.Success = false
	result.Error = wErr
	result.ErrorMessage = wErr.UserMessage()
	if runID != uuid.Nil {
		// Best effort; the run is already failing.
		_ = w.store.CompleteRun(ctx, runID, store.RunStatusFailed)
	}
	return result, wErr
}

func (w *Workflow) stepStart(ctx context.Context, runID uuid.UUID, name string) {
	w.tracker.stepStarted(name)
	w.updateStepStore(ctx, runID, name, store.StepStatusInProgress, nil)
}

func (w *Workflow) stepDone(ctx context.Context, runID uuid.UUID, name string) {
	w.tracker.stepCompleted(name)
	w.updateStepStore(ctx, runID, name, store.StepStatusCompleted, nil)
}

func (w *Workflow) stepFail(ctx context.Context, runID uuid.UUID, name string, err error, fallback ErrorKind) *WorkflowError {
	wErr := classify(name, err, fallback)
	msg := wErr.Error()
	w.tracker.stepFailed(name, msg)
	w.updateStepStore(ctx, runID, name, store.StepStatusFailed, &msg)
	return wErr
}

// stepFailBoth marks whichever of the two parallel analysis steps failed and
// completes the other.
func (w *Workflow) stepFailBoth(ctx context.Context, runID uuid.UUID, wErr *WorkflowError) {
	msg := wErr.Error()
	for _, name := range []string{StepAnalyzeATS, StepAnalyzeBias} {
		if name == wErr.Step {
			w.tracker.stepFailed(name, msg)
			w.updateStepStore(ctx, runID, name, store.StepStatusFailed, &msg)
		} else {
			w.tracker.stepCompleted(name)
			w.updateStepStore(ctx, runID, name, store.StepStatusCompleted, nil)
		}
	}
}

func (w *Workflow) updateStepStore(ctx context.Context, runID uuid.UUID, name, status string, errMsg *string) {
	// Progress reporting must not take the workflow down.
	_ = w.store.UpdateRunStepStatus(ctx, runID, name, status, errMsg)
}

func (w *Workflow) checkPreconditions(req Request) error {
	if req.Resume == nil {
		return errors.New("no resume provided")
	}
	if len(req.Resume.Experience) == 0 {
		return errors.New("resume has no experience entries")
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		return errors.New("no job description provided")
	}
	if req.Region != "" {
		if _, ok := localize.GuidelinesFor(req.Region); !ok {
			return &localize.ErrUnsupportedRegion{Region: req.Region}
		}
	}
	// The template is only consumed by generate_pdf, but an unusable one must
	// fail here, before any model call is paid for.
	if w.pdfGen != nil {
		if strings.TrimSpace(req.TemplateID) == "" {
			return errors.New("no template selected")
		}
		if _, ok := templates.GetTemplate(req.TemplateID); !ok {
			return fmt.Errorf("unknown template: %s", req.TemplateID)
		}
	}
	return nil
}

// applyRewrites returns a copy of resume with every successful rewrite
// applied in place of its original bullet.
func applyRewrites(resume *types.Resume, batch *types.RewriteBatch) *types.Resume {
	out := *resume
	out.Experience = make([]types.Experience, len(resume.Experience))
	for i, exp := range resume.Experience {
		out.Experience[i] = exp
		out.Experience[i].Description = append([]string(nil), exp.Description...)
	}
	for _, r := range batch.Results {
		if !r.Success {
			continue
		}
		if r.ExperienceIndex < 0 || r.ExperienceIndex >= len(out.Experience) {
			continue
		}
		bullets := out.Experience[r.ExperienceIndex].Description
		if r.BulletIndex < 0 || r.BulletIndex >= len(bullets) {
			continue
		}
		bullets[r.BulletIndex] = r.Rewritten
	}
	return &out
}

func issueSummaries(report ats.Report) []string {
	out := make([]string, 0, len(report.Issues))
	for _, issue := range report.Issues {
		out = append(out, fmt.Sprintf("[%s] %s: %s", issue.Severity, issue.Title, issue.Description))
	}
	return out
}

func recommendationSummaries(atsReport ats.Report, biasReport bias.DetailedReport) []string {
	out := make([]string, 0, len(atsReport.Issues)+len(biasReport.DetectedIssues))
	for _, issue := range atsReport.Issues {
		if issue.Suggestion != "" {
			out = append(out, issue.Suggestion)
		}
	}
	for _, d := range biasReport.DetectedIssues {
		out = append(out, fmt.Sprintf("Replace %q with %q (%s)", d.Original, d.Suggestion, d.Reason))
	}
	return out
}

func describeFixes(rewrites *types.RewriteBatch, biasReport bias.DetailedReport, terms []localize.TermPair) []string {
	fixes := []string{}
	if n := rewrites.SuccessCount(); n > 0 {
		fixes = append(fixes, fmt.Sprintf("Rewrote %d experience bullets", n))
	}
	if n := len(biasReport.DetectedIssues); n > 0 {
		fixes = append(fixes, fmt.Sprintf("Neutralized %d biased phrases", n))
	}
	for _, t := range terms {
		fixes = append(fixes, fmt.Sprintf("Replaced %q with %q", t.From, t.To))
	}
	return fixes
}

// resumePlainText flattens a resume into the plain-text form the ATS
// compatibility checks operate on.
func resumePlainText(r *types.Resume) string {
	if r == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(r.Contact.Name)
	b.WriteString("\n")
	if r.Contact.Email != "" {
		b.WriteString(r.Contact.Email)
		b.WriteString("\n")
	}
	if r.Contact.Phone != "" {
		b.WriteString(r.Contact.Phone)
		b.WriteString("\n")
	}
	if r.Summary != "" {
		b.WriteString("\nSummary:\n")
		b.WriteString(r.Summary)
		b.WriteString("\n")
	}
	if len(r.Experience) > 0 {
		b.WriteString("\nExperience:\n")
		for _, exp := range r.Experience {
			fmt.Fprintf(&b, "%s, %s", exp.Title, exp.Company)
			if exp.Dates != "" {
				fmt.Fprintf(&b, " (%s)", exp.Dates)
			}
			b.WriteString("\n")
			for _, d := range exp.Description {
				b.WriteString("- ")
				b.WriteString(d)
				b.WriteString("\n")
			}
		}
	}
	if len(r.Education) > 0 {
		b.WriteString("\nEducation:\n")
		for _, edu := range r.Education {
			fmt.Fprintf(&b, "%s, %s\n", edu.Degree, edu.Institution)
		}
	}
	if len(r.Skills) > 0 {
		b.WriteString("\nSkills: ")
		b.WriteString(strings.Join(r.Skills, ", "))
		b.WriteString("\n")
	}
	return b.String()
}

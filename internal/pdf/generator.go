// Package pdf renders resumes to US Letter PDFs through a headless browser
// and handles export naming and pre-export validation.
package pdf

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/Kehn-Marv/Career-plus-sub001/internal/templates"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/types"
)

// US Letter dimensions in inches.
const (
	PaperWidthInches  = 8.5
	PaperHeightInches = 11.0
)

// DefaultTimeout bounds a single PDF render.
const DefaultTimeout = 60 * time.Second

// GenerationError represents a failed PDF render.
type GenerationError struct {
	Message string
	Cause   error
}

func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("pdf generation error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("pdf generation error: %s", e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Generator renders resumes through the template engine into PDF bytes.
// Requires Chrome/Chromium to be installed on the system.
type Generator struct {
	engine  *templates.Engine
	timeout time.Duration
}

// NewGenerator creates a PDF generator over the given template engine.
func NewGenerator(engine *templates.Engine) *Generator {
	return &Generator{engine: engine, timeout: DefaultTimeout}
}

// GeneratePDF renders the resume with the named template and prints it to a
// US Letter PDF.
func (g *Generator) GeneratePDF(ctx context.Context, resume *types.Resume, templateID string) ([]byte, error) {
	html, err := g.engine.Render(templateID, resume)
	if err != nil {
		return nil, &GenerationError{Message: "failed to render resume HTML", Cause: err}
	}
	return g.printHTML(ctx, html)
}

func (g *Generator) printHTML(ctx context.Context, html string) ([]byte, error) {
	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, g.timeout)
	defer cancel()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPaperWidth(PaperWidthInches).
				WithPaperHeight(PaperHeightInches).
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, &GenerationError{Message: "browser print failed", Cause: err}
	}

	return pdf, nil
}

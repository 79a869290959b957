// Package ingest turns uploaded resumes and job postings into plain text.
// HTML input is stripped to its main content; anything else passes through
// with whitespace normalization.
package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout bounds job-posting fetches.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent identifies fetch requests from this service.
const DefaultUserAgent = "Mozilla/5.0 (compatible; CareerPlus/1.0)"

// MaxFetchBytes caps how much of a job posting body is read. Postings are a
// few hundred KB at most; anything larger is not a posting.
const MaxFetchBytes = 5 << 20

// Error describes a failed ingestion with its source attached.
type Error struct {
	Source  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("ingest error for %s: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("ingest error for %s: %s", e.Source, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ExtractText converts an uploaded document to normalized plain text. HTML is
// detected by sniffing the content; everything else is treated as plain text.
func ExtractText(content string) (string, error) {
	if looksLikeHTML(content) {
		return ExtractHTMLText(content)
	}
	return normalizeWhitespace(content), nil
}

// ExtractHTMLText parses HTML and returns the text of its main content,
// dropping navigation, scripts, and other page chrome.
func ExtractHTMLText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	doc.Find("nav, footer, header, script, style, noscript, .ad, .advertisement, .sidebar, .cookie-banner, .popup").Remove()

	var main *goquery.Selection
	for _, selector := range contentSelectors() {
		if selection := doc.Find(selector); selection.Length() > 0 {
			main = selection.First()
			break
		}
	}
	if main == nil {
		main = doc.Find("body")
	}

	return normalizeWhitespace(main.Text()), nil
}

// FetchJobPosting downloads a job posting URL and extracts its description
// text.
func FetchJobPosting(ctx context.Context, postingURL string) (string, error) {
	parsed, err := url.Parse(postingURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", &Error{Source: postingURL, Message: "invalid URL", Cause: err}
	}

	client := &http.Client{Timeout: DefaultTimeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, postingURL, nil)
	if err != nil {
		return "", &Error{Source: postingURL, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", DefaultUserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", &Error{Source: postingURL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", &Error{Source: postingURL, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" &&
		!strings.Contains(ct, "text/html") && !strings.Contains(ct, "text/plain") {
		return "", &Error{Source: postingURL, Message: fmt.Sprintf("unsupported content type %q", ct)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxFetchBytes+1))
	if err != nil {
		return "", &Error{Source: postingURL, Message: "failed to read response body", Cause: err}
	}
	if len(body) > MaxFetchBytes {
		return "", &Error{Source: postingURL, Message: "response body exceeds size limit"}
	}

	text, err := extractWithSelectors(string(body), jobPostingSelectors())
	if err != nil {
		return "", &Error{Source: postingURL, Message: "failed to extract posting text", Cause: err}
	}
	return text, nil
}

func extractWithSelectors(html string, selectors []string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	doc.Find("nav, footer, header, script, style, noscript").Remove()

	var main *goquery.Selection
	for _, selector := range selectors {
		if selection := doc.Find(selector); selection.Length() > 0 {
			main = selection.First()
			break
		}
	}
	if main == nil {
		main = doc.Find("body")
	}

	return normalizeWhitespace(main.Text()), nil
}

func contentSelectors() []string {
	return []string{
		"main",
		"article",
		".resume",
		".content",
		"#content",
	}
}

func jobPostingSelectors() []string {
	return []string{
		".job-description",
		".job-content",
		"#job-description",
		".posting-content",
		".job-details",
		"[data-testid='job-description']",
		"main",
		"article",
		".content",
		"#content",
	}
}

func looksLikeHTML(content string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(content))
	return strings.HasPrefix(trimmed, "<!doctype html") ||
		strings.HasPrefix(trimmed, "<html") ||
		strings.Contains(trimmed, "<body")
}

func normalizeWhitespace(text string) string {
	var cleaned []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}

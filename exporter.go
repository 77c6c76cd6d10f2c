package site2pdf

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/alnah/go-site2pdf/internal/browser"
	"github.com/alnah/go-site2pdf/internal/pipeline"
)

// Exporter loads site pages in a headless browser and merges them into one
// PDF. Create with NewExporter, call Export, and Close when done.
// An Exporter is not safe for concurrent use.
type Exporter struct {
	cfg     exporterConfig
	backend browser.Backend
	closed  bool
}

// exporterConfig holds internal configuration for Exporter.
type exporterConfig struct {
	timeout    time.Duration
	idleWindow time.Duration
	engine     string
	browserBin string
	noSandbox  bool
}

// NewExporter creates an Exporter. The browser is not started until the
// first Export.
func NewExporter(opts ...Option) (*Exporter, error) {
	e := &Exporter{
		cfg: exporterConfig{
			timeout:    defaultTimeout,
			idleWindow: browser.DefaultIdleWindow,
			engine:     browser.EngineRod,
			browserBin: os.Getenv("ROD_BROWSER_BIN"),
			noSandbox:  os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("CI") == "true",
		},
	}

	for _, opt := range opts {
		opt(e)
	}

	// Backend may already be injected by tests.
	if e.backend == nil {
		b, err := browser.New(e.cfg.engine, browser.Options{
			Timeout:    e.cfg.timeout,
			IdleWindow: e.cfg.idleWindow,
			BrowserBin: e.cfg.browserBin,
			NoSandbox:  e.cfg.noSandbox,
		})
		if err != nil {
			return nil, err
		}
		e.backend = b
	}

	return e, nil
}

// Export loads every URL in order, strips page chrome, assembles the
// fragments into one document and prints it.
// The context is used for cancellation. Recovers from internal panics to
// prevent crashes from propagating to callers.
func (e *Exporter) Export(ctx context.Context, input Input) (result *ExportResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if e.closed {
		return nil, ErrClosed
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	urls, duplicates := dedupeURLs(input.URLs)
	selectors := input.Strip
	if selectors == nil {
		selectors = pipeline.DefaultStripSelectors
	}

	res := &ExportResult{Duplicates: duplicates}
	fragments := make([]string, 0, len(urls))
	var lastErr error

	for i, rawURL := range urls {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fragment, page := e.exportPage(ctx, i, rawURL, selectors)
		res.Pages = append(res.Pages, page)
		if input.Progress != nil {
			input.Progress(page, len(urls))
		}

		if page.Err != nil {
			if !input.ContinueOnError || ctx.Err() != nil {
				return nil, page.Err
			}
			lastErr = page.Err
			continue
		}
		fragments = append(fragments, fragment)
	}

	if len(fragments) == 0 {
		return nil, fmt.Errorf("%w (%d pages): %w", ErrAllPagesFailed, len(urls), lastErr)
	}

	doc := pipeline.Assemble(fragments, input.CSS)
	res.HTML = []byte(doc)

	if input.HTMLOnly {
		return res, nil
	}

	pdfBytes, err := e.backend.RenderPDF(ctx, doc, input.Page.pdfOptions())
	if err != nil {
		return nil, fmt.Errorf("rendering PDF: %w", err)
	}

	res.PDF = pdfBytes
	return res, nil
}

// exportPage fetches one page and turns its body into a fragment ready for
// assembly. Failures are reported through PageResult.Err as a *PageError.
func (e *Exporter) exportPage(ctx context.Context, index int, rawURL string, selectors []string) (string, PageResult) {
	start := time.Now()
	page := PageResult{Index: index, URL: rawURL}

	fail := func(err error) (string, PageResult) {
		page.Duration = time.Since(start)
		page.Err = &PageError{Index: index, URL: rawURL, Err: err}
		return "", page
	}

	body, err := e.backend.Fetch(ctx, rawURL)
	if err != nil {
		return fail(err)
	}

	fragment, err := pipeline.StripElements(body, selectors)
	if err != nil {
		return fail(fmt.Errorf("%w: stripping elements: %v", ErrExtract, err))
	}

	fragment, err = pipeline.RewriteRelativeURLs(fragment, rawURL)
	if err != nil {
		return fail(fmt.Errorf("%w: rewriting URLs: %v", ErrExtract, err))
	}

	page.Duration = time.Since(start)
	page.Bytes = len(fragment)
	return fragment, page
}

// Close releases the browser. Safe to call more than once.
func (e *Exporter) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	if e.backend != nil {
		return e.backend.Close()
	}
	return nil
}

// validateInput checks that required fields are present and valid.
//
// This is a TRUST BOUNDARY for direct library users who build Input manually.
// CLI users have their input validated earlier by Config.Validate() at config load time.
func validateInput(input Input) error {
	if len(input.URLs) == 0 {
		return ErrNoURLs
	}
	for _, raw := range input.URLs {
		if err := validateURL(raw); err != nil {
			return err
		}
	}
	for _, sel := range input.Strip {
		if !pipeline.ValidSelector(sel) {
			return fmt.Errorf("%w: %q", ErrInvalidSelector, sel)
		}
	}
	return input.Page.Validate()
}

// validateURL accepts absolute http, https and file URLs.
func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidURL, raw, err)
	}
	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return fmt.Errorf("%w: %q has no host", ErrInvalidURL, raw)
		}
	case "file":
	default:
		return fmt.Errorf("%w: %q (scheme must be http, https or file)", ErrInvalidURL, raw)
	}
	return nil
}

// dedupeURLs keeps the first occurrence of each URL, preserving order.
func dedupeURLs(urls []string) (unique, duplicates []string) {
	seen := make(map[string]struct{}, len(urls))
	unique = make([]string, 0, len(urls))
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			duplicates = append(duplicates, u)
			continue
		}
		seen[u] = struct{}{}
		unique = append(unique, u)
	}
	return unique, duplicates
}

// Package browser drives headless Chrome for the two browser-bound stages of
// an export: capturing a page's body markup and printing a document to PDF.
//
// Two backends implement Backend: Rod (go-rod, the default) and Chromedp.
// Both launch Chrome lazily on first use and release it in Close.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Engine names accepted by New.
const (
	EngineRod      = "rod"
	EngineChromedp = "chromedp"
)

// Defaults applied when Options leaves a field zero.
const (
	DefaultTimeout    = 30 * time.Second
	DefaultIdleWindow = 500 * time.Millisecond
)

// Sentinel errors for browser operations.
var (
	ErrConnect       = errors.New("failed to connect to browser")
	ErrPageCreate    = errors.New("failed to create browser page")
	ErrPageLoad      = errors.New("failed to load page")
	ErrExtract       = errors.New("failed to extract page content")
	ErrPDFGeneration = errors.New("PDF generation failed")
	ErrUnknownEngine = errors.New("unknown browser engine")
)

// Backend loads pages and renders PDFs. Implementations are not safe for
// concurrent use; an export drives one page at a time.
type Backend interface {
	// Fetch navigates to rawURL, waits for network idle and returns
	// document.body.innerHTML.
	Fetch(ctx context.Context, rawURL string) (string, error)

	// RenderPDF loads htmlContent in a fresh page and prints it.
	RenderPDF(ctx context.Context, htmlContent string, opts PDFOptions) ([]byte, error)

	// Close shuts the browser down. Close is idempotent.
	Close() error
}

// Options configures a backend.
type Options struct {
	Timeout    time.Duration // per page operation; 0 = DefaultTimeout
	IdleWindow time.Duration // quiet period that counts as network idle; 0 = DefaultIdleWindow
	BrowserBin string        // Chrome executable; empty = auto-detect or download
	NoSandbox  bool          // required when running as root in containers
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.IdleWindow <= 0 {
		o.IdleWindow = DefaultIdleWindow
	}
	return o
}

// PDFOptions holds print parameters in inches. Orientation is already
// applied to PaperWidth/PaperHeight.
type PDFOptions struct {
	PaperWidth      float64
	PaperHeight     float64
	Margin          float64
	PrintBackground bool
}

// New returns the backend registered under engine ("" selects rod).
func New(engine string, opts Options) (Backend, error) {
	switch strings.ToLower(engine) {
	case "", EngineRod:
		return NewRod(opts), nil
	case EngineChromedp:
		return NewChromedp(opts), nil
	default:
		return nil, fmt.Errorf("%w: %q (must be %s or %s)", ErrUnknownEngine, engine, EngineRod, EngineChromedp)
	}
}

// bodyHTMLJS reads the rendered body markup.
const bodyHTMLJS = `() => document.body ? document.body.innerHTML : ""`

// checkStatus rejects non-2xx document responses. Zero means the backend saw
// no HTTP response (file:// URLs) and is accepted.
func checkStatus(rawURL string, status int) error {
	if status == 0 || (status >= 200 && status < 300) {
		return nil
	}
	return fmt.Errorf("%w: %s: HTTP %d", ErrPageLoad, rawURL, status)
}

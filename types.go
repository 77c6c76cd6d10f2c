package site2pdf

import (
	"fmt"
	"strings"
	"time"

	"github.com/alnah/go-site2pdf/internal/browser"
)

// Page size constants.
const (
	PageSizeA4     = "a4"
	PageSizeLetter = "letter"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.0
	MaxMargin     = 3.0
	DefaultMargin = 0.4
)

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size            string  // "a4", "letter", "legal"
	Orientation     string  // "portrait", "landscape"
	Margin          float64 // inches, applied to all sides
	PrintBackground bool    // render background colors and images
}

// DefaultPageSettings returns A4 portrait with backgrounds enabled.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:            PageSizeA4,
		Orientation:     OrientationPortrait,
		Margin:          DefaultMargin,
		PrintBackground: true,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	if !isValidPageSize(p.Size) {
		return fmt.Errorf("%w: %q (must be a4, letter or legal)", ErrInvalidPageSize, p.Size)
	}

	if !isValidOrientation(p.Orientation) {
		return fmt.Errorf("%w: %q (must be portrait or landscape)", ErrInvalidOrientation, p.Orientation)
	}

	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}

	return nil
}

// isValidPageSize checks if size is a known page size (case-insensitive).
func isValidPageSize(size string) bool {
	switch strings.ToLower(size) {
	case PageSizeA4, PageSizeLetter, PageSizeLegal:
		return true
	default:
		return false
	}
}

// isValidOrientation checks if orientation is valid (case-insensitive).
func isValidOrientation(orientation string) bool {
	switch strings.ToLower(orientation) {
	case OrientationPortrait, OrientationLandscape:
		return true
	default:
		return false
	}
}

// dimensions returns paper width and height in inches for the size,
// swapped for landscape.
func (p *PageSettings) dimensions() (width, height float64) {
	switch strings.ToLower(p.Size) {
	case PageSizeLetter:
		width, height = 8.5, 11.0
	case PageSizeLegal:
		width, height = 8.5, 14.0
	default:
		width, height = 8.27, 11.69
	}
	if strings.EqualFold(p.Orientation, OrientationLandscape) {
		width, height = height, width
	}
	return width, height
}

// pdfOptions converts page settings to backend print options.
func (p *PageSettings) pdfOptions() browser.PDFOptions {
	if p == nil {
		p = DefaultPageSettings()
	}
	width, height := p.dimensions()
	return browser.PDFOptions{
		PaperWidth:      width,
		PaperHeight:     height,
		Margin:          p.Margin,
		PrintBackground: p.PrintBackground,
	}
}

// Input is the per-export request.
type Input struct {
	// URLs are loaded in order; each becomes one section of the PDF.
	// Duplicates are dropped (first occurrence wins).
	URLs []string

	// Strip lists CSS selectors removed from every page before assembly.
	// nil selects the defaults (nav, footer); an empty non-nil slice keeps
	// everything.
	Strip []string

	// CSS is appended after the built-in document style.
	CSS string

	// Page settings (optional, nil = A4 portrait with backgrounds).
	Page *PageSettings

	// ContinueOnError skips pages that fail to load instead of aborting.
	// The export still fails if no page succeeds.
	ContinueOnError bool

	// HTMLOnly skips PDF rendering and returns only the assembled document.
	HTMLOnly bool

	// Progress, if set, is called after each page is processed.
	Progress ProgressFunc
}

// ProgressFunc receives the outcome of each page as it completes.
type ProgressFunc func(page PageResult, total int)

// PageResult describes one processed page.
type PageResult struct {
	Index    int
	URL      string
	Bytes    int // size of the captured fragment after stripping
	Duration time.Duration
	Err      error // nil on success
}

// ExportResult contains the output of an export.
type ExportResult struct {
	HTML       []byte       // assembled document
	PDF        []byte       // nil when Input.HTMLOnly is set
	Pages      []PageResult // one entry per processed URL, in order
	Duplicates []string     // URLs dropped because they appeared earlier
}

// Failed returns the pages that were skipped because of an error.
func (r *ExportResult) Failed() []PageResult {
	var failed []PageResult
	for _, p := range r.Pages {
		if p.Err != nil {
			failed = append(failed, p)
		}
	}
	return failed
}

// Option configures an Exporter.
type Option func(*Exporter)

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the per-page timeout for loading and printing.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("site2pdf: WithTimeout duration must be positive")
	}
	return func(e *Exporter) {
		e.cfg.timeout = d
	}
}

// WithIdleWindow sets how long the network must stay quiet before a page
// counts as loaded. Panics if d <= 0.
func WithIdleWindow(d time.Duration) Option {
	if d <= 0 {
		panic("site2pdf: WithIdleWindow duration must be positive")
	}
	return func(e *Exporter) {
		e.cfg.idleWindow = d
	}
}

// WithEngine selects the browser backend: "rod" (default) or "chromedp".
func WithEngine(name string) Option {
	return func(e *Exporter) {
		e.cfg.engine = name
	}
}

// WithBrowserBin sets the Chrome executable. Overrides ROD_BROWSER_BIN.
func WithBrowserBin(path string) Option {
	return func(e *Exporter) {
		e.cfg.browserBin = path
	}
}

// WithNoSandbox disables the Chrome sandbox. Overrides ROD_NO_SANDBOX and CI.
func WithNoSandbox(noSandbox bool) Option {
	return func(e *Exporter) {
		e.cfg.noSandbox = noSandbox
	}
}

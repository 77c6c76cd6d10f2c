package site2pdf

import (
	"errors"
	"fmt"

	"github.com/alnah/go-site2pdf/internal/browser"
)

// Sentinel errors for library operations.
var (
	ErrNoURLs         = errors.New("no URLs to export")
	ErrInvalidURL     = errors.New("invalid URL")
	ErrAllPagesFailed = errors.New("every page failed to load")
	ErrClosed         = errors.New("exporter is closed")

	// Browser errors, shared with the browser backends so errors.Is works
	// across the package boundary.
	ErrBrowserConnect = browser.ErrConnect
	ErrPageCreate     = browser.ErrPageCreate
	ErrPageLoad       = browser.ErrPageLoad
	ErrExtract        = browser.ErrExtract
	ErrPDFGeneration  = browser.ErrPDFGeneration
	ErrInvalidEngine  = browser.ErrUnknownEngine

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")

	// Strip validation errors.
	ErrInvalidSelector = errors.New("invalid CSS selector")
)

// PageError reports a failure while processing one URL of the list.
type PageError struct {
	Index int    // position in the deduplicated URL list
	URL   string // page that failed
	Err   error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("page %d (%s): %v", e.Index+1, e.URL, e.Err)
}

func (e *PageError) Unwrap() error {
	return e.Err
}

package main

import (
	"errors"
	"os"

	site2pdf "github.com/alnah/go-site2pdf"
	"github.com/alnah/go-site2pdf/internal/config"
	"github.com/alnah/go-site2pdf/internal/logging"
)

// Exit codes for site2pdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful export
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, site2pdf.ErrBrowserConnect) ||
		errors.Is(err, site2pdf.ErrPageCreate) ||
		errors.Is(err, site2pdf.ErrPageLoad) ||
		errors.Is(err, site2pdf.ErrExtract) ||
		errors.Is(err, site2pdf.ErrPDFGeneration) ||
		errors.Is(err, site2pdf.ErrAllPagesFailed) {
		return ExitBrowser
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidField) ||
		errors.Is(err, logging.ErrInvalidFormat) ||
		errors.Is(err, site2pdf.ErrNoURLs) ||
		errors.Is(err, site2pdf.ErrInvalidURL) ||
		errors.Is(err, site2pdf.ErrInvalidEngine) ||
		errors.Is(err, site2pdf.ErrInvalidSelector) ||
		errors.Is(err, site2pdf.ErrInvalidPageSize) ||
		errors.Is(err, site2pdf.ErrInvalidOrientation) ||
		errors.Is(err, site2pdf.ErrInvalidMargin) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadCSS) ||
		errors.Is(err, ErrWriteOutput) {
		return ExitIO
	}

	return ExitGeneral
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	site2pdf "github.com/alnah/go-site2pdf"
	"github.com/alnah/go-site2pdf/internal/config"
	"github.com/alnah/go-site2pdf/internal/logging"
)

// ---------------------------------------------------------------------------
// TestExitCodeFor - Error to Exit Code Mapping
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"generic", errors.New("boom"), ExitGeneral},
		{"canceled", context.Canceled, ExitGeneral},

		{"browser connect", fmt.Errorf("%w: launch", site2pdf.ErrBrowserConnect), ExitBrowser},
		{"page create", site2pdf.ErrPageCreate, ExitBrowser},
		{"page load in PageError", &site2pdf.PageError{URL: "http://x/", Err: site2pdf.ErrPageLoad}, ExitBrowser},
		{"extract", site2pdf.ErrExtract, ExitBrowser},
		{"pdf generation", fmt.Errorf("rendering PDF: %w", site2pdf.ErrPDFGeneration), ExitBrowser},
		{"all pages failed", site2pdf.ErrAllPagesFailed, ExitBrowser},

		{"usage", fmt.Errorf("%w: unknown flag", ErrUsage), ExitUsage},
		{"config not found", &config.NotFoundError{Paths: []string{"a.yaml"}}, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"invalid field", config.ErrInvalidField, ExitUsage},
		{"field too long", config.ErrFieldTooLong, ExitUsage},
		{"log format", logging.ErrInvalidFormat, ExitUsage},
		{"no urls", site2pdf.ErrNoURLs, ExitUsage},
		{"invalid url", site2pdf.ErrInvalidURL, ExitUsage},
		{"invalid engine", site2pdf.ErrInvalidEngine, ExitUsage},
		{"invalid selector", site2pdf.ErrInvalidSelector, ExitUsage},
		{"page size", site2pdf.ErrInvalidPageSize, ExitUsage},
		{"orientation", site2pdf.ErrInvalidOrientation, ExitUsage},
		{"margin", site2pdf.ErrInvalidMargin, ExitUsage},

		{"not exist", fmt.Errorf("open: %w", os.ErrNotExist), ExitIO},
		{"permission", os.ErrPermission, ExitIO},
		{"read css", ErrReadCSS, ExitIO},
		{"write output", fmt.Errorf("%w: out.pdf", ErrWriteOutput), ExitIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

package main

import (
	"context"
	"io"
	"os"
	"time"

	site2pdf "github.com/alnah/go-site2pdf"
)

// Exporter is the interface for the export service.
type Exporter interface {
	Export(ctx context.Context, input site2pdf.Input) (*site2pdf.ExportResult, error)
	Close() error
}

// Compile-time interface implementation check.
var _ Exporter = (*site2pdf.Exporter)(nil)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, process environment, and the exporter factory.
type Environment struct {
	Now         func() time.Time
	Stdout      io.Writer
	Stderr      io.Writer
	Getenv      func(string) string
	Environ     func() []string
	NewExporter func(opts ...site2pdf.Option) (Exporter, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:     time.Now,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Getenv:  os.Getenv,
		Environ: os.Environ,
		NewExporter: func(opts ...site2pdf.Option) (Exporter, error) {
			return site2pdf.NewExporter(opts...)
		},
	}
}

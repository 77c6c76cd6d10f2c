package main

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	site2pdf "github.com/alnah/go-site2pdf"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Mock exporter and environment
// ---------------------------------------------------------------------------

// mockExporter records the input and options it was built with.
type mockExporter struct {
	mu         sync.Mutex
	result     *site2pdf.ExportResult
	err        error
	inputs     []site2pdf.Input
	optCount   int
	closeCalls int
}

func (m *mockExporter) Export(_ context.Context, input site2pdf.Input) (*site2pdf.ExportResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inputs = append(m.inputs, input)
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		for i, u := range input.URLs {
			if input.Progress != nil {
				input.Progress(site2pdf.PageResult{Index: i, URL: u, Bytes: 10}, len(input.URLs))
			}
		}
		return m.result, nil
	}
	return &site2pdf.ExportResult{
		HTML: []byte("<!DOCTYPE html><html><body>mock</body></html>"),
		PDF:  []byte("%PDF-1.4 mock"),
	}, nil
}

func (m *mockExporter) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeCalls++
	return nil
}

func (m *mockExporter) lastInput(t *testing.T) site2pdf.Input {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.inputs) == 0 {
		t.Fatal("Export was not called")
	}
	return m.inputs[len(m.inputs)-1]
}

// testEnv bundles an Environment with its captured output.
type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	mock   *mockExporter
}

// newTestEnv returns an environment whose process environment is vars only.
func newTestEnv(vars map[string]string) *testEnv {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	mock := &mockExporter{}
	te := &testEnv{stdout: stdout, stderr: stderr, mock: mock}

	te.Environment = &Environment{
		Now:    func() time.Time { return time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC) },
		Stdout: stdout,
		Stderr: stderr,
		Getenv: func(k string) string { return vars[k] },
		Environ: func() []string {
			out := make([]string, 0, len(vars))
			for k, v := range vars {
				out = append(out, k+"="+v)
			}
			return out
		},
		NewExporter: func(opts ...site2pdf.Option) (Exporter, error) {
			mock.mu.Lock()
			mock.optCount = len(opts)
			mock.mu.Unlock()
			return mock, nil
		},
	}
	return te
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

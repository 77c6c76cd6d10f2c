package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/alnah/go-site2pdf/internal/config"
)

// ---------------------------------------------------------------------------
// TestLoadEnvConfig
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Parallel()

	vars := map[string]string{
		"SITE2PDF_CONFIG":     "site",
		"SITE2PDF_OUTPUT":     "out.pdf",
		"SITE2PDF_TIMEOUT":    "1m",
		"SITE2PDF_ENGINE":     "chromedp",
		"SITE2PDF_PAGE_SIZE":  "letter",
		"SITE2PDF_URLS":       " http://a/ ,, http://b/ ",
		"SITE2PDF_LOG_FORMAT": "json",
	}
	got := loadEnvConfig(func(k string) string { return vars[k] })

	if got.ConfigPath != "site" || got.Output != "out.pdf" || got.Timeout != "1m" ||
		got.Engine != "chromedp" || got.PageSize != "letter" || got.LogFormat != "json" {
		t.Errorf("loadEnvConfig() = %+v", got)
	}
	if strings.Join(got.URLs, " ") != "http://a/ http://b/" {
		t.Errorf("URLs = %q, want two trimmed entries", got.URLs)
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	t.Run("empty env leaves config untouched", func(t *testing.T) {
		t.Parallel()
		cfg := config.DefaultConfig()
		applyEnvConfig(&envConfig{}, cfg)

		want := config.DefaultConfig()
		if cfg.Output != want.Output || cfg.Engine != want.Engine || cfg.Page.Size != want.Page.Size || len(cfg.URLs) != 1 {
			t.Errorf("config changed: %+v", cfg)
		}
	})

	t.Run("set values override", func(t *testing.T) {
		t.Parallel()
		cfg := config.DefaultConfig()
		cfg.Output = "from-file.pdf"
		applyEnvConfig(&envConfig{
			Output:    "from-env.pdf",
			Timeout:   "10s",
			Engine:    "chromedp",
			PageSize:  "legal",
			URLs:      []string{"http://a/"},
			LogFormat: "json",
		}, cfg)

		if cfg.Output != "from-env.pdf" || cfg.Timeout != "10s" || cfg.Engine != "chromedp" ||
			cfg.Page.Size != "legal" || cfg.Log.Format != "json" {
			t.Errorf("config = %+v", cfg)
		}
		if len(cfg.URLs) != 1 || cfg.URLs[0] != "http://a/" {
			t.Errorf("URLs = %v", cfg.URLs)
		}
	})
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	warnUnknownEnvVars([]string{
		"SITE2PDF_OUTPUT=x.pdf",
		"SITE2PDF_OUPUT=typo.pdf",
		"HOME=/root",
		"SITE2PDF_URL=http://a/",
	}, logger)

	out := buf.String()
	if !strings.Contains(out, "SITE2PDF_OUPUT") || !strings.Contains(out, "SITE2PDF_URL\"") {
		t.Errorf("missing warnings: %s", out)
	}
	if strings.Contains(out, "SITE2PDF_OUTPUT\"") || strings.Contains(out, "HOME") {
		t.Errorf("unexpected warning: %s", out)
	}
	if got := strings.Count(out, "\n"); got != 2 {
		t.Errorf("warnings = %d, want 2", got)
	}
}

package main

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/alnah/go-site2pdf/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string   // SITE2PDF_CONFIG: config file name or path
	Output     string   // SITE2PDF_OUTPUT: PDF output path
	Timeout    string   // SITE2PDF_TIMEOUT: per-page timeout
	Engine     string   // SITE2PDF_ENGINE: rod or chromedp
	PageSize   string   // SITE2PDF_PAGE_SIZE: a4, letter, legal
	URLs       []string // SITE2PDF_URLS: comma-separated URL list
	LogFormat  string   // SITE2PDF_LOG_FORMAT: console or json
}

// knownEnvVars lists valid SITE2PDF_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"SITE2PDF_CONFIG":     true,
	"SITE2PDF_OUTPUT":     true,
	"SITE2PDF_TIMEOUT":    true,
	"SITE2PDF_ENGINE":     true,
	"SITE2PDF_PAGE_SIZE":  true,
	"SITE2PDF_URLS":       true,
	"SITE2PDF_LOG_FORMAT": true,
	"SITE2PDF_CONTAINER":  true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig(getenv func(string) string) *envConfig {
	return &envConfig{
		ConfigPath: getenv("SITE2PDF_CONFIG"),
		Output:     getenv("SITE2PDF_OUTPUT"),
		Timeout:    getenv("SITE2PDF_TIMEOUT"),
		Engine:     getenv("SITE2PDF_ENGINE"),
		PageSize:   getenv("SITE2PDF_PAGE_SIZE"),
		URLs:       splitList(getenv("SITE2PDF_URLS")),
		LogFormat:  getenv("SITE2PDF_LOG_FORMAT"),
	}
}

// splitList splits a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// warnUnknownEnvVars logs warnings for unrecognized SITE2PDF_* variables.
// Helps catch typos like SITE2PDF_OUPUT instead of SITE2PDF_OUTPUT.
func warnUnknownEnvVars(environ []string, logger zerolog.Logger) {
	for _, env := range environ {
		if strings.HasPrefix(env, "SITE2PDF_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				logger.Warn().Str("variable", name).Msg("unknown environment variable (typo?)")
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Set variables override the config file; CLI flags are applied later via
// mergeFlags, giving: CLI flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Output != "" {
		cfg.Output = env.Output
	}
	if env.Timeout != "" {
		cfg.Timeout = env.Timeout
	}
	if env.Engine != "" {
		cfg.Engine = env.Engine
	}
	if env.PageSize != "" {
		cfg.Page.Size = env.PageSize
	}
	if len(env.URLs) > 0 {
		cfg.URLs = env.URLs
	}
	if env.LogFormat != "" {
		cfg.Log.Format = env.LogFormat
	}
}

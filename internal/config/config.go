package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-site2pdf/internal/fileutil"
	"github.com/alnah/go-site2pdf/internal/pipeline"
	"github.com/alnah/go-site2pdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidField    = errors.New("invalid config value")
)

// NotFoundError lists the locations searched for a config name.
type NotFoundError struct {
	Paths []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v: tried %s", ErrConfigNotFound, strings.Join(e.Paths, ", "))
}

func (e *NotFoundError) Unwrap() error {
	return ErrConfigNotFound
}

// Field length limits.
const (
	MaxURLLength      = 2048 // Browser limit
	MaxURLCount       = 5000
	MaxPathLength     = 4096
	MaxSelectorLength = 200
	MaxPageSizeLength = 10 // "letter", "a4", "legal"
	MaxOrientLength   = 10 // "portrait", "landscape"
)

// Defaults target a local Hugo docs server.
const (
	DefaultURL    = "http://localhost:1313/docs/"
	DefaultOutput = "complete-hugo-site.pdf"
	DefaultEngine = "rod"
	DefaultMargin = 0.4 // inches
)

// Config holds all configuration for a site export.
type Config struct {
	URLs            []string    `yaml:"urls"`
	Output          string      `yaml:"output"`
	Engine          string      `yaml:"engine"`     // "rod" (default) or "chromedp"
	Timeout         string      `yaml:"timeout"`    // per-page duration, e.g. "30s"
	IdleWindow      string      `yaml:"idleWindow"` // quiet period for network idle, e.g. "500ms"
	ContinueOnError bool        `yaml:"continueOnError"`
	CSS             string      `yaml:"css"` // extra CSS: file path or inline rules
	Strip           StripConfig `yaml:"strip"`
	Page            PageConfig  `yaml:"page"`
	Log             LogConfig   `yaml:"log"`
}

// StripConfig defines which page chrome is removed before assembly.
type StripConfig struct {
	Selectors []string `yaml:"selectors"` // CSS selectors; empty = keep everything
}

// PageConfig defines PDF page settings.
type PageConfig struct {
	Size            string  `yaml:"size"`            // "a4" (default), "letter", "legal"
	Orientation     string  `yaml:"orientation"`     // "portrait" (default), "landscape"
	Margin          float64 `yaml:"margin"`          // inches, all sides
	PrintBackground *bool   `yaml:"printBackground"` // nil = true
}

// LogConfig defines CLI logging.
type LogConfig struct {
	Format string `yaml:"format"` // "console" (default) or "json"
	File   string `yaml:"file"`   // optional rotated log file
}

// Validate checks URLs, durations, selectors and field lengths.
// Page size/orientation/margin semantics are validated by the exporter.
func (c *Config) Validate() error {
	if len(c.URLs) > MaxURLCount {
		return fmt.Errorf("%w: urls (%d entries, max %d)", ErrFieldTooLong, len(c.URLs), MaxURLCount)
	}
	for i, raw := range c.URLs {
		field := fmt.Sprintf("urls[%d]", i)
		if err := validateFieldLength(field, raw, MaxURLLength); err != nil {
			return err
		}
		if err := ValidateURL(raw); err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
	}

	if err := validateFieldLength("output", c.Output, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("css", c.CSS, MaxPathLength*4); err != nil {
		return err
	}
	if err := validateFieldLength("log.file", c.Log.File, MaxPathLength); err != nil {
		return err
	}

	switch strings.ToLower(c.Engine) {
	case "", "rod", "chromedp":
	default:
		return fmt.Errorf("%w: engine %q (must be rod or chromedp)", ErrInvalidField, c.Engine)
	}

	switch strings.ToLower(c.Log.Format) {
	case "", "console", "json":
	default:
		return fmt.Errorf("%w: log.format %q (must be console or json)", ErrInvalidField, c.Log.Format)
	}

	if _, err := ParseDuration("timeout", c.Timeout); err != nil {
		return err
	}
	if _, err := ParseDuration("idleWindow", c.IdleWindow); err != nil {
		return err
	}

	for i, sel := range c.Strip.Selectors {
		field := fmt.Sprintf("strip.selectors[%d]", i)
		if err := validateFieldLength(field, sel, MaxSelectorLength); err != nil {
			return err
		}
		if !pipeline.ValidSelector(sel) {
			return fmt.Errorf("%w: %s %q is not a valid CSS selector", ErrInvalidField, field, sel)
		}
	}

	if err := validateFieldLength("page.size", c.Page.Size, MaxPageSizeLength); err != nil {
		return err
	}
	if err := validateFieldLength("page.orientation", c.Page.Orientation, MaxOrientLength); err != nil {
		return err
	}

	return nil
}

// ValidateURL accepts absolute http(s) and file URLs.
func ValidateURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidField, raw, err)
	}
	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return fmt.Errorf("%w: %q has no host", ErrInvalidField, raw)
		}
	case "file":
	default:
		return fmt.Errorf("%w: %q must be an http, https or file URL", ErrInvalidField, raw)
	}
	return nil
}

// ParseDuration parses an optional duration field. Empty means zero.
func ParseDuration(field, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q: %v", ErrInvalidField, field, value, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: %s must not be negative, got %s", ErrInvalidField, field, value)
	}
	return d, nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the stock export: one local
// Hugo docs page, nav and footer stripped, A4 with backgrounds.
func DefaultConfig() *Config {
	return &Config{
		URLs:   []string{DefaultURL},
		Output: DefaultOutput,
		Engine: DefaultEngine,
		Strip: StripConfig{
			Selectors: append([]string(nil), pipeline.DefaultStripSelectors...),
		},
		Page: PageConfig{
			Size:        "a4",
			Orientation: "portrait",
			Margin:      DefaultMargin,
		},
	}
}

// PrintBackgroundOrDefault resolves the optional flag (nil = true).
func (p PageConfig) PrintBackgroundOrDefault() bool {
	if p.PrintBackground == nil {
		return true
	}
	return *p.PrintBackground
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Keys missing from the file keep their DefaultConfig values.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-site2pdf/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-site2pdf", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", &NotFoundError{Paths: triedPaths}
}

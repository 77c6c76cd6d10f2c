package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"

	site2pdf "github.com/alnah/go-site2pdf"
	"github.com/alnah/go-site2pdf/internal/config"
	"github.com/alnah/go-site2pdf/internal/fileutil"
	"github.com/alnah/go-site2pdf/internal/logging"
	"github.com/alnah/go-site2pdf/internal/yamlutil"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage       = errors.New("invalid usage")
	ErrReadCSS     = errors.New("failed to read CSS file")
	ErrWriteOutput = errors.New("failed to write output file")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// successMessage is the single line printed on stdout after a PDF export.
const successMessage = "Complete website exported to PDF: %s\n"

// runExport loads configuration, exports the site and writes the outputs.
func runExport(ctx context.Context, args []string, env *Environment) error {
	flags, positional, fs, err := parseExportFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	envCfg := loadEnvConfig(env.Getenv)

	cfg, err := loadConfig(flags.common.config, envCfg.ConfigPath)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(fs, flags, positional, cfg)

	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, logCloser, err := logging.New(logging.Options{
		Format:  cfg.Log.Format,
		Level:   logging.LevelFor(flags.common.quiet, flags.common.verbose),
		File:    cfg.Log.File,
		NoColor: env.Getenv("NO_COLOR") != "",
		Writer:  env.Stderr,
	})
	if err != nil {
		return err
	}
	defer func() { _ = logCloser.Close() }()

	warnUnknownEnvVars(env.Environ(), logger)

	if flags.outputMode.printConfig {
		data, err := yamlutil.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
		_, err = env.Stdout.Write(data)
		return err
	}

	input, err := buildInput(cfg, flags)
	if err != nil {
		return err
	}
	input.Progress = func(p site2pdf.PageResult, total int) {
		if p.Err != nil {
			if input.ContinueOnError {
				logger.Warn().Err(p.Err).Str("url", p.URL).Msg("page skipped")
			}
			return
		}
		logger.Info().
			Str("url", p.URL).
			Int("page", p.Index+1).
			Int("total", total).
			Int("bytes", p.Bytes).
			Dur("took", p.Duration).
			Msg("page captured")
	}

	opts, err := buildExporterOptions(cfg, flags, fs)
	if err != nil {
		return err
	}

	exp, err := env.NewExporter(opts...)
	if err != nil {
		return err
	}
	defer func() {
		if err := exp.Close(); err != nil {
			logger.Warn().Err(err).Msg("closing browser")
		}
	}()

	logger.Debug().
		Strs("urls", cfg.URLs).
		Str("engine", cfg.Engine).
		Str("output", cfg.Output).
		Msg("starting export")

	start := env.Now()
	result, err := exp.Export(ctx, input)
	if err != nil {
		return err
	}

	for _, dup := range result.Duplicates {
		logger.Warn().Str("url", dup).Msg("duplicate URL skipped")
	}

	if err := writeOutputs(cfg.Output, result, flags.outputMode); err != nil {
		return err
	}

	logger.Debug().
		Dur("elapsed", env.Now().Sub(start)).
		Int("pages", len(result.Pages)).
		Int("failed", len(result.Failed())).
		Msg("export finished")

	if flags.outputMode.htmlOnly {
		fmt.Fprintf(env.Stdout, "HTML written: %s\n", fileutil.ReplaceExt(cfg.Output, ".html"))
		return nil
	}
	fmt.Fprintf(env.Stdout, successMessage, cfg.Output)
	return nil
}

// loadConfig loads the config named by the flag, falling back to
// SITE2PDF_CONFIG, or returns defaults when neither is set.
func loadConfig(flagValue, envValue string) (*config.Config, error) {
	name := flagValue
	if name == "" {
		name = envValue
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags applies explicitly set CLI flags and positional URLs to config
// (CLI wins).
func mergeFlags(fs *flag.FlagSet, flags *exportFlags, positional []string, cfg *config.Config) {
	if len(positional) > 0 {
		cfg.URLs = positional
	}
	if flags.output != "" {
		cfg.Output = flags.output
	}
	if flags.css != "" {
		cfg.CSS = flags.css
	}
	if flags.continueOnError {
		cfg.ContinueOnError = true
	}

	// Browser
	if flags.browser.engine != "" {
		cfg.Engine = flags.browser.engine
	}
	if flags.browser.timeout != "" {
		cfg.Timeout = flags.browser.timeout
	}
	if flags.browser.idleWindow != "" {
		cfg.IdleWindow = flags.browser.idleWindow
	}

	// Page
	if flags.page.size != "" {
		cfg.Page.Size = flags.page.size
	}
	if flags.page.orientation != "" {
		cfg.Page.Orientation = flags.page.orientation
	}
	if fs.Changed("margin") {
		cfg.Page.Margin = flags.page.margin
	}
	if flags.page.noBackground {
		printBackground := false
		cfg.Page.PrintBackground = &printBackground
	}

	// Strip
	if flags.strip.none {
		cfg.Strip.Selectors = []string{}
	} else if len(flags.strip.selectors) > 0 {
		cfg.Strip.Selectors = flags.strip.selectors
	}

	// Logging
	if flags.log.format != "" {
		cfg.Log.Format = flags.log.format
	}
	if flags.log.file != "" {
		cfg.Log.File = flags.log.file
	}
}

// buildInput converts the merged config into an export request.
func buildInput(cfg *config.Config, flags *exportFlags) (site2pdf.Input, error) {
	css, err := resolveCSS(cfg.CSS)
	if err != nil {
		return site2pdf.Input{}, err
	}

	selectors := cfg.Strip.Selectors
	if selectors == nil {
		selectors = []string{}
	}

	return site2pdf.Input{
		URLs:  cfg.URLs,
		Strip: selectors,
		CSS:   css,
		Page: &site2pdf.PageSettings{
			Size:            cfg.Page.Size,
			Orientation:     cfg.Page.Orientation,
			Margin:          cfg.Page.Margin,
			PrintBackground: cfg.Page.PrintBackgroundOrDefault(),
		},
		ContinueOnError: cfg.ContinueOnError,
		HTMLOnly:        flags.outputMode.htmlOnly,
	}, nil
}

// resolveCSS returns inline rules as-is and reads anything else as a file.
func resolveCSS(value string) (string, error) {
	if value == "" || strings.Contains(value, "{") {
		return value, nil
	}
	data, err := os.ReadFile(value) // #nosec G304 -- user-provided path
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrReadCSS, value, err)
	}
	return string(data), nil
}

// buildExporterOptions maps config and browser flags to library options.
// Zero durations keep the library defaults.
func buildExporterOptions(cfg *config.Config, flags *exportFlags, fs *flag.FlagSet) ([]site2pdf.Option, error) {
	opts := []site2pdf.Option{site2pdf.WithEngine(cfg.Engine)}

	timeout, err := config.ParseDuration("timeout", cfg.Timeout)
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		opts = append(opts, site2pdf.WithTimeout(timeout))
	}

	idle, err := config.ParseDuration("idleWindow", cfg.IdleWindow)
	if err != nil {
		return nil, err
	}
	if idle > 0 {
		opts = append(opts, site2pdf.WithIdleWindow(idle))
	}

	if flags.browser.bin != "" {
		opts = append(opts, site2pdf.WithBrowserBin(flags.browser.bin))
	}
	if fs.Changed("no-sandbox") {
		opts = append(opts, site2pdf.WithNoSandbox(flags.browser.noSandbox))
	}

	return opts, nil
}

// writeOutputs writes the PDF and, when requested, the assembled HTML.
// Files are replaced atomically so a failed run leaves earlier output intact.
func writeOutputs(output string, result *site2pdf.ExportResult, mode outputFlags) error {
	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteOutput, err)
		}
	}

	if mode.html || mode.htmlOnly {
		htmlPath := fileutil.ReplaceExt(output, ".html")
		if err := fileutil.WriteFileAtomic(htmlPath, result.HTML, filePermissions); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrWriteOutput, htmlPath, err)
		}
	}

	if mode.htmlOnly {
		return nil
	}

	if err := fileutil.WriteFileAtomic(output, result.PDF, filePermissions); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteOutput, output, err)
	}
	return nil
}

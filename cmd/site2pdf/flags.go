package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// browserFlags holds browser engine and timing flags.
type browserFlags struct {
	engine     string
	bin        string
	noSandbox  bool
	timeout    string
	idleWindow string
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size         string
	orientation  string
	margin       float64
	noBackground bool
}

// stripFlags holds flags selecting the elements removed from each page.
type stripFlags struct {
	selectors []string
	none      bool
}

// logFlags holds logging flags.
type logFlags struct {
	format string
	file   string
}

// outputFlags holds output mode flags for debugging.
type outputFlags struct {
	html        bool // Output HTML alongside PDF
	htmlOnly    bool // Output HTML only, skip PDF
	printConfig bool // Print the effective config and exit
}

// exportFlags holds all flags for the export command.
type exportFlags struct {
	common          commonFlags
	output          string
	css             string
	continueOnError bool
	browser         browserFlags
	page            pageFlags
	strip           stripFlags
	log             logFlags
	outputMode      outputFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed progress")
}

// addBrowserFlags adds browser flags to a FlagSet.
func addBrowserFlags(fs *flag.FlagSet, f *browserFlags) {
	fs.StringVarP(&f.engine, "engine", "e", "", "browser engine: rod, chromedp")
	fs.StringVar(&f.bin, "browser-bin", "", "Chrome executable (default: $ROD_BROWSER_BIN or auto)")
	fs.BoolVar(&f.noSandbox, "no-sandbox", false, "disable the Chrome sandbox (containers, CI)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-page timeout (e.g., 30s, 2m)")
	fs.StringVar(&f.idleWindow, "idle-window", "", "network quiet period before capture (e.g., 500ms)")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: a4, letter, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in inches (0-3.0)")
	fs.BoolVar(&f.noBackground, "no-background", false, "do not print background colors and images")
}

// addStripFlags adds element stripping flags to a FlagSet.
func addStripFlags(fs *flag.FlagSet, f *stripFlags) {
	fs.StringSliceVarP(&f.selectors, "strip", "s", nil, "CSS selectors removed from each page (default: nav,footer)")
	fs.BoolVar(&f.none, "no-strip", false, "keep every element")
}

// addLogFlags adds logging flags to a FlagSet.
func addLogFlags(fs *flag.FlagSet, f *logFlags) {
	fs.StringVar(&f.format, "log-format", "", "log format: console, json")
	fs.StringVar(&f.file, "log-file", "", "also write JSON logs to a rotated file")
}

// addOutputFlags adds output mode flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.BoolVar(&f.html, "html", false, "output HTML alongside PDF")
	fs.BoolVar(&f.htmlOnly, "html-only", false, "output HTML only, skip PDF")
	fs.BoolVar(&f.printConfig, "print-config", false, "print the effective config as YAML and exit")
}

// parseExportFlags parses export command flags and returns positional args.
// The FlagSet is returned so callers can tell explicit flags from defaults.
func parseExportFlags(args []string, usage io.Writer) (*exportFlags, []string, *flag.FlagSet, error) {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(usage)
	f := &exportFlags{}

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output PDF path")
	fs.StringVar(&f.css, "css", "", "extra CSS: file path or inline rules")
	fs.BoolVar(&f.continueOnError, "continue-on-error", false, "skip pages that fail to load")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addBrowserFlags(fs, &f.browser)
	addPageFlags(fs, &f.page)
	addStripFlags(fs, &f.strip)
	addLogFlags(fs, &f.log)
	addOutputFlags(fs, &f.outputMode)

	fs.Usage = func() { printExportUsage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, nil, err
	}

	return f, fs.Args(), fs, nil
}

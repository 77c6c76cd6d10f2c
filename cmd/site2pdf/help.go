package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: site2pdf [command] [flags] [urls...]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  export     Export site pages to one PDF (default)")
	fmt.Fprintln(w, "  doctor     Check browser and environment setup")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'site2pdf help <command>' for details on a specific command.")
}

// printExportUsage prints usage for the export command.
func printExportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: site2pdf export [urls...] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Load each URL in order, drop navigation and footer, and merge the")
	fmt.Fprintln(w, "pages into one PDF. Each page after the first starts on a new sheet.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  urls    Pages to export (default: http://localhost:1313/docs/)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output PDF (default: complete-hugo-site.pdf)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --css <s>             Extra CSS: file path or inline rules")
	fmt.Fprintln(w, "      --continue-on-error   Skip pages that fail to load")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Browser:")
	fmt.Fprintln(w, "  -e, --engine <s>          Engine: rod (default), chromedp")
	fmt.Fprintln(w, "  -t, --timeout <d>         Per-page timeout (default: 30s)")
	fmt.Fprintln(w, "      --idle-window <d>     Network quiet period (default: 500ms)")
	fmt.Fprintln(w, "      --browser-bin <path>  Chrome executable")
	fmt.Fprintln(w, "      --no-sandbox          Disable the Chrome sandbox")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "  -p, --page-size <s>       Page size: a4 (default), letter, legal")
	fmt.Fprintln(w, "      --orientation <s>     Orientation: portrait, landscape")
	fmt.Fprintln(w, "      --margin <f>          Margin in inches (0-3.0)")
	fmt.Fprintln(w, "      --no-background       Do not print backgrounds")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Content:")
	fmt.Fprintln(w, "  -s, --strip <sel,...>     Selectors to remove (default: nav,footer)")
	fmt.Fprintln(w, "      --no-strip            Keep every element")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Debug:")
	fmt.Fprintln(w, "      --html                Write HTML alongside PDF")
	fmt.Fprintln(w, "      --html-only           Write HTML only, skip PDF")
	fmt.Fprintln(w, "      --print-config        Print the effective config and exit")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed progress")
	fmt.Fprintln(w, "      --log-format <s>      Log format: console, json")
	fmt.Fprintln(w, "      --log-file <path>     Also write JSON logs to a rotated file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  SITE2PDF_CONFIG, SITE2PDF_OUTPUT, SITE2PDF_TIMEOUT, SITE2PDF_ENGINE,")
	fmt.Fprintln(w, "  SITE2PDF_PAGE_SIZE, SITE2PDF_URLS (comma-separated), SITE2PDF_LOG_FORMAT")
	fmt.Fprintln(w, "  ROD_BROWSER_BIN, ROD_NO_SANDBOX=1")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: site2pdf doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check Chrome, sandbox settings, the temp directory, and whether")
	fmt.Fprintln(w, "the first configured URL answers.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "export":
		printExportUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: site2pdf version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: site2pdf help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"go.uber.org/automaxprocs/maxprocs"

	site2pdf "github.com/alnah/go-site2pdf"
	"github.com/alnah/go-site2pdf/internal/config"
	"github.com/alnah/go-site2pdf/internal/fileutil"
	"github.com/alnah/go-site2pdf/internal/hints"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	verbose := slices.Contains(os.Args[1:], "--verbose") || slices.Contains(os.Args[1:], "-v")

	// Configure GOMAXPROCS with conditional logging
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain dispatches to a command and returns the process exit code.
func runMain(args []string, env *Environment) int {
	ctx, stop := notifyContext(context.Background())
	defer stop()

	cmd, rest := splitCommand(args[1:])

	switch cmd {
	case "export":
		err := runExport(ctx, rest, env)
		if err != nil {
			fmt.Fprintln(env.Stderr, formatError(err))
		}
		return exitCodeFor(err)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "version":
		fmt.Fprintf(env.Stdout, "site2pdf %s\n", Version)
		return ExitSuccess
	case "help":
		runHelp(rest, env)
		return ExitSuccess
	default:
		fmt.Fprintf(env.Stderr, "unknown command: %s\n\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}
}

// isCommand reports whether arg names a subcommand.
func isCommand(arg string) bool {
	switch arg {
	case "export", "doctor", "version", "help":
		return true
	default:
		return false
	}
}

// splitCommand returns the command and its arguments. No arguments, a flag
// or a URL in first position all mean "export".
func splitCommand(args []string) (string, []string) {
	if len(args) == 0 {
		return "export", nil
	}

	first := args[0]
	switch {
	case isCommand(first):
		return first, args[1:]
	case first == "-h" || first == "--help":
		return "help", nil
	case strings.HasPrefix(first, "-"), fileutil.IsURL(first), strings.HasPrefix(first, "file://"):
		return "export", args
	default:
		return first, args[1:]
	}
}

// formatError renders err with an actionable hint when one applies.
func formatError(err error) string {
	msg := "error: " + err.Error()

	var notFound *config.NotFoundError
	var pageErr *site2pdf.PageError

	switch {
	case errors.As(err, &notFound):
		msg += hints.ForConfigNotFound(notFound.Paths)
	case errors.Is(err, site2pdf.ErrBrowserConnect):
		msg += hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "deadline exceeded"):
		msg += hints.ForTimeout()
	case errors.As(err, &pageErr) && errors.Is(err, site2pdf.ErrPageLoad):
		msg += hints.ForPageLoad(pageErr.URL)
	case errors.Is(err, ErrWriteOutput):
		msg += hints.ForOutputPath()
	}

	return msg
}

// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"net/url"
	"os"
	"strings"

	"github.com/alnah/go-site2pdf/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser launch or connection errors.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}
	hints = append(hints, "run 'site2pdf doctor' to check the setup")

	return formatHints(hints)
}

// ForPageLoad returns a hint for a page that could not be loaded.
// Local development servers get a more specific suggestion.
func ForPageLoad(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err == nil {
		host := u.Hostname()
		if host == "localhost" || host == "127.0.0.1" || host == "::1" {
			return format("is the site running? start it with 'hugo server' or check the port in " + u.Host)
		}
	}
	return format("check the URL is reachable, or use --continue-on-error to skip failing pages")
}

// ForTimeout returns a hint about increasing the timeout for slow pages.
func ForTimeout() string {
	return format("for slow pages, raise --timeout or lower --idle-window")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config and creating a config in ~/.config/go-site2pdf/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-site2pdf") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputPath returns hints for output write errors.
func ForOutputPath() string {
	return format("check the output directory exists and is writable")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}

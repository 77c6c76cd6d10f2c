package main

// Notes:
// - Tests go through runDoctorCmd() with an injected Getenv, so container and
//   CI detection run in parallel without touching the process environment.
// - Chrome detection depends on system state and is only checked for
//   consistency between status and exit code.
// - The site probe runs against httptest servers.

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"runtime"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_JSONOutput - JSON output format and structure
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_JSONOutput(t *testing.T) {
	t.Parallel()

	env := newTestEnv(nil)
	exitCode := runDoctorCmd([]string{"--json", "--url", "file:///tmp/index.html"}, env.Environment)

	var result doctorResult
	if err := json.Unmarshal(env.stdout.Bytes(), &result); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput was: %s", err, env.stdout.String())
	}

	validStatuses := map[string]bool{"ready": true, "warnings": true, "errors": true}
	if !validStatuses[result.Status] {
		t.Errorf("Invalid status %q, expected ready/warnings/errors", result.Status)
	}
	if result.Status == "errors" && exitCode != ExitGeneral {
		t.Errorf("Expected exit code %d for errors status, got %d", ExitGeneral, exitCode)
	}
	if result.Status != "errors" && exitCode != ExitSuccess {
		t.Errorf("Expected exit code %d for non-error status, got %d", ExitSuccess, exitCode)
	}
	if result.Env.OS != runtime.GOOS || result.Env.Arch != runtime.GOARCH {
		t.Errorf("platform = %s/%s, want %s/%s", result.Env.OS, result.Env.Arch, runtime.GOOS, runtime.GOARCH)
	}
	if result.Site.URL != "file:///tmp/index.html" {
		t.Errorf("Site.URL = %q", result.Site.URL)
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_HumanOutput - Human-readable output format
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_HumanOutput(t *testing.T) {
	t.Parallel()

	env := newTestEnv(nil)
	runDoctorCmd([]string{"--url", "file:///tmp/index.html"}, env.Environment)

	out := env.stdout.String()
	for _, section := range []string{"site2pdf doctor", "Chrome/Chromium", "Environment", "System", "Site", "Status:"} {
		if !strings.Contains(out, section) {
			t.Errorf("output missing %q:\n%s", section, out)
		}
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_Container - Container and CI detection
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_Container(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		vars        map[string]string
		wantHint    string
		wantWarning bool
	}{
		{"explicit override", map[string]string{"SITE2PDF_CONTAINER": "1"}, "SITE2PDF_CONTAINER=1", true},
		{"sandbox disabled", map[string]string{"SITE2PDF_CONTAINER": "1", "ROD_NO_SANDBOX": "1"}, "SITE2PDF_CONTAINER=1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(tt.vars)
			runDoctorCmd([]string{"--json", "--url", "file:///x"}, env.Environment)

			var result doctorResult
			if err := json.Unmarshal(env.stdout.Bytes(), &result); err != nil {
				t.Fatalf("Invalid JSON: %v", err)
			}
			if !result.Env.Container || result.Env.ContainerHint != tt.wantHint {
				t.Errorf("container = %v (%q), want true (%q)", result.Env.Container, result.Env.ContainerHint, tt.wantHint)
			}

			hasWarning := false
			for _, w := range result.Warnings {
				if strings.Contains(w, "ROD_NO_SANDBOX") {
					hasWarning = true
				}
			}
			if hasWarning != tt.wantWarning {
				t.Errorf("sandbox warning = %v, want %v (warnings: %v)", hasWarning, tt.wantWarning, result.Warnings)
			}
		})
	}

	t.Run("ci detected", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(map[string]string{"GITHUB_ACTIONS": "true"})
		runDoctorCmd([]string{"--json", "--url", "file:///x"}, env.Environment)

		var result doctorResult
		if err := json.Unmarshal(env.stdout.Bytes(), &result); err != nil {
			t.Fatalf("Invalid JSON: %v", err)
		}
		if !result.Env.CI {
			t.Error("CI = false, want true")
		}
	})
}

// ---------------------------------------------------------------------------
// TestIsContainer - Container signals from the environment
// ---------------------------------------------------------------------------

func TestIsContainer(t *testing.T) {
	t.Parallel()

	if _, err := os.Stat("/.dockerenv"); err == nil {
		t.Skip("running inside Docker; /.dockerenv takes precedence")
	}

	tests := []struct {
		name     string
		vars     map[string]string
		want     bool
		wantHint string
	}{
		{"none", nil, false, ""},
		{"override", map[string]string{"SITE2PDF_CONTAINER": "1"}, true, "SITE2PDF_CONTAINER=1"},
		{"override not 1", map[string]string{"SITE2PDF_CONTAINER": "yes"}, false, ""},
		{"podman", map[string]string{"container": "podman"}, true, "container=podman"},
		{"kubernetes", map[string]string{"KUBERNETES_SERVICE_HOST": "10.0.0.1"}, true, "KUBERNETES_SERVICE_HOST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, hint := isContainer(func(k string) string { return tt.vars[k] })
			if got != tt.want || hint != tt.wantHint {
				t.Errorf("isContainer() = (%v, %q), want (%v, %q)", got, hint, tt.want, tt.wantHint)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestCheckSite - Reachability Probe
// ---------------------------------------------------------------------------

func TestCheckSite(t *testing.T) {
	t.Parallel()

	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(ok.Close)

	missing := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(missing.Close)

	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL + "/docs/"
	closed.Close()

	tests := []struct {
		name          string
		url           string
		wantReachable bool
		wantStatus    int
		wantWarning   string
	}{
		{"reachable", ok.URL + "/docs/", true, 200, ""},
		{"404", missing.URL + "/docs/", false, 404, "HTTP 404"},
		{"server down", closedURL, false, 0, "hugo server"},
		{"file url skipped", "file:///tmp/a.html", false, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := &doctorResult{}
			checkSite(result, tt.url)

			if result.Site.Reachable != tt.wantReachable {
				t.Errorf("Reachable = %v, want %v", result.Site.Reachable, tt.wantReachable)
			}
			if result.Site.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", result.Site.StatusCode, tt.wantStatus)
			}
			if tt.wantWarning == "" {
				if len(result.Warnings) != 0 {
					t.Errorf("Warnings = %v, want none", result.Warnings)
				}
				return
			}
			if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], tt.wantWarning) {
				t.Errorf("Warnings = %v, want one containing %q", result.Warnings, tt.wantWarning)
			}
		})
	}
}

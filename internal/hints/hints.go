// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"path/filepath"
	"strings"

	"github.com/alnah/go-offerletter/internal/fileutil"
)

// IsInContainer reports whether /.dockerenv exists. Replaced in tests.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ciVars are set by the common CI runners.
var ciVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

// ForBrowserConnect explains what a PDF export needs when Chrome cannot be
// started. DOCX export is always offered as the browserless route.
func ForBrowserConnect(getenv func(string) string) string {
	hints := []string{"PDF export needs Chrome or Chromium, DOCX does not (--format docx)"}
	if getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "point ROD_BROWSER_BIN at an installed browser")
	}
	if getenv("ROD_NO_SANDBOX") != "1" && (IsInContainer() || getenv("container") != "" || anySet(getenv, ciVars)) {
		hints = append(hints, "set ROD_NO_SANDBOX=1 when exporting from a container or CI job")
	}
	return formatHints(hints)
}

func anySet(getenv func(string) string, names []string) bool {
	for _, n := range names {
		if getenv(n) != "" {
			return true
		}
	}
	return false
}

// ForTimeout suggests a longer budget for letters with slow remote images.
func ForTimeout() string {
	return format("remote logos and body images count against the export budget; raise it with --timeout")
}

// ForConfigNotFound points at --config, or at the per-user location among
// the searched paths where letter defaults can be saved.
func ForConfigNotFound(searched []string) string {
	for _, p := range searched {
		if strings.Contains(filepath.ToSlash(p), "/.config/go-offerletter/") {
			return format("pass --config <path>, or save your defaults to " + p)
		}
	}
	return format("pass --config <path> to a YAML config file")
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForThemeNotFound lists the valid themes.
func ForThemeNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForFixedLayout explains why sections cannot move.
func ForFixedLayout() string {
	return format("sidebar and banner themes have a fixed arrangement; switch to classic, modern, regal or formal")
}

// ForAssistKey names the variable holding the assist API key.
func ForAssistKey(envName string) string {
	if envName == "" {
		return ""
	}
	return format("export " + envName + " or add it to .env")
}

// ForStorage returns hints for bucket upload errors.
func ForStorage() string {
	return format("check storage.minio endpoint, bucket and credentials")
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

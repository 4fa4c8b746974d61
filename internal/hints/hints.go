// Package hints provides actionable error hints for common build failures.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-easyapply/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser connection errors.
// Detects CI/Docker environment and suggests relevant environment variables.
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

	return formatHints(hints)
}

// ForConfigNotFound suggests creating a config file in the project directory.
func ForConfigNotFound(projectDir string) string {
	return format("create " + filepath.Join(projectDir, "application.yaml") + " with at least theme.name")
}

// ForInvalidConfig reminds the required shape of the config file.
func ForInvalidConfig() string {
	return format("application.yaml needs theme: {name: <theme>}; theme_dir and build_pdf are reserved")
}

// ForThemeNotFound suggests where the theme directory is expected.
func ForThemeNotFound(name string) string {
	if name == "" {
		return ""
	}
	return format("expected themes/" + name + "/templates in the project or its parent directory")
}

// ForTemplateNotFound lists the templates available in the theme.
func ForTemplateNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForMissingTools returns install hints for absent SVG optimizers.
func ForMissingTools(missing []string) string {
	var hints []string
	for _, name := range missing {
		switch name {
		case "svgo":
			hints = append(hints, "npm install -g svgo")
		case "scour":
			hints = append(hints, "pip install scour")
		}
	}
	return formatHints(hints)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}

package theme

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alnah/go-easyapply/internal/fileutil"
)

// TemplatesDir is the subdirectory of a theme holding its templates.
const TemplatesDir = "templates"

// ValidateName checks that a theme name is a single, non-hidden path segment.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidThemeName)
	}
	if strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") || strings.ContainsRune(name, 0) {
		return fmt.Errorf("%w: %q", ErrInvalidThemeName, name)
	}
	return nil
}

// SearchPaths returns the directories Find checks for a theme, in order.
func SearchPaths(buildDir, name string) []string {
	roots := Roots(buildDir)
	paths := make([]string, len(roots))
	for i, r := range roots {
		paths[i] = filepath.Join(r, name)
	}
	return paths
}

// Roots returns the themes directories searched for buildDir, in order.
func Roots(buildDir string) []string {
	return []string{
		filepath.Join(buildDir, "themes"),
		filepath.Join(filepath.Dir(filepath.Clean(buildDir)), "themes"),
	}
}

// Find returns the root of theme name, looking in buildDir/themes first and
// then in the parent of buildDir. The first existing directory wins.
func Find(buildDir, name string) (string, bool) {
	if ValidateName(name) != nil {
		return "", false
	}
	for _, dir := range SearchPaths(buildDir, name) {
		if fileutil.DirExists(dir) {
			abs, err := filepath.Abs(dir)
			if err != nil {
				return dir, true
			}
			return abs, true
		}
	}
	return "", false
}

// notFound describes a failed Find.
func notFound(buildDir, name string) error {
	if err := ValidateName(name); err != nil {
		return fmt.Errorf("%w: %w", ErrThemeNotFound, err)
	}
	return fmt.Errorf("%w: %q (searched %s)", ErrThemeNotFound, name, strings.Join(SearchPaths(buildDir, name), ", "))
}

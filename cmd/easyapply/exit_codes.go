package main

import (
	"errors"
	"os"

	easyapply "github.com/alnah/go-easyapply"
)

// Exit codes for the easyapply CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful build
	ExitGeneral = 1 // Template or unexpected error
	ExitUsage   = 2 // Invalid flags, config, theme or template
	ExitIO      = 3 // Missing resource, unwritable output, network
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, easyapply.ErrBrowserConnect) ||
		errors.Is(err, easyapply.ErrPDFRender) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, easyapply.ErrOutput) ||
		errors.Is(err, easyapply.ErrResourceNotFound) ||
		errors.Is(err, easyapply.ErrNetwork) {
		return ExitIO
	}

	// Usage/config errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidLogLevel) ||
		errors.Is(err, easyapply.ErrConfigNotFound) ||
		errors.Is(err, easyapply.ErrConfigParse) ||
		errors.Is(err, easyapply.ErrInvalidConfig) ||
		errors.Is(err, easyapply.ErrThemeNotFound) ||
		errors.Is(err, easyapply.ErrTemplateNotFound) {
		return ExitUsage
	}

	return ExitGeneral
}

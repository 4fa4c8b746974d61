package easyapply

import (
	"errors"
	"fmt"

	"github.com/alnah/go-easyapply/internal/config"
	"github.com/alnah/go-easyapply/internal/ops"
	"github.com/alnah/go-easyapply/internal/theme"
)

// Sentinel errors for build operations. Errors from internal packages are
// re-exported so callers only import this package.
var (
	ErrConfigNotFound = config.ErrConfigNotFound
	ErrConfigParse    = config.ErrConfigParse
	ErrInvalidConfig  = config.ErrInvalidConfig

	ErrThemeNotFound    = theme.ErrThemeNotFound
	ErrTemplateNotFound = theme.ErrTemplateNotFound

	ErrInvalidDate          = ops.ErrInvalidDate
	ErrInvalidURL           = ops.ErrInvalidURL
	ErrMalformedSVG         = ops.ErrMalformedSVG
	ErrConflictingAttribute = ops.ErrConflictingAttribute
	ErrUnknownMimeType      = ops.ErrUnknownMimeType
	ErrResourceNotFound     = ops.ErrResourceNotFound
	ErrNetwork              = ops.ErrNetwork
	ErrExternalTool         = ops.ErrExternalTool

	ErrRender         = errors.New("template rendering failed")
	ErrPDFRender      = errors.New("PDF rendering failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrOutput         = errors.New("failed to write output")
)

// RenderError is a template execution failure. It matches ErrRender and
// whatever caused it.
type RenderError struct {
	Template string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("rendering %s: %v", e.Template, e.Err)
}

func (e *RenderError) Unwrap() []error { return []error{ErrRender, e.Err} }

// StageError names the build stage and artifact that failed.
type StageError struct {
	Stage    string // "render" or "materialize"
	Document string
	Artifact string
	Err      error
}

func (e *StageError) Error() string {
	if e.Artifact == "" {
		return fmt.Sprintf("%s %s: %v", e.Stage, e.Document, e.Err)
	}
	return fmt.Sprintf("%s %s (%s): %v", e.Stage, e.Document, e.Artifact, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

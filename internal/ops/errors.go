package ops

import (
	"errors"

	"github.com/alnah/go-easyapply/internal/cache"
	"github.com/alnah/go-easyapply/internal/dateutil"
)

// Sentinel errors for template operations.
var (
	ErrInvalidURL           = errors.New("invalid URL")
	ErrMalformedSVG         = errors.New("malformed SVG")
	ErrConflictingAttribute = errors.New("conflicting attributes")
	ErrInvalidAttributes    = errors.New("attributes must be name/value pairs")
	ErrUnknownMimeType      = errors.New("unknown mime type")
	ErrResourceNotFound     = errors.New("resource not found")
	ErrNetwork              = errors.New("network error")
	ErrBibliography         = errors.New("bibliography error")
	ErrRasterize            = errors.New("rasterize failed")
)

// Errors owned by lower layers, re-exported so callers need one import.
var (
	ErrInvalidDate  = dateutil.ErrInvalidDate
	ErrExternalTool = cache.ErrExternalTool
)

package theme

import "errors"

// Sentinel errors for theme resolution.
var (
	// ErrThemeNotFound indicates no themes/<name> directory exists in the search path.
	ErrThemeNotFound = errors.New("theme not found")

	// ErrTemplateNotFound indicates the template file is missing or lies outside
	// the theme's templates directory.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrInvalidThemeName indicates a theme name with path separators or a leading dot.
	ErrInvalidThemeName = errors.New("invalid theme name")

	// ErrTemplateParse indicates template source the engine could not compile.
	ErrTemplateParse = errors.New("template parse error")
)

package easyapply

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"

	"github.com/alnah/go-easyapply/internal/ops"
	"github.com/alnah/go-easyapply/internal/theme"
)

// Keys injected into every render. The config loader rejects user data
// that sets the first two.
const (
	keyThemeDir = "theme_dir"
	keyBuildPDF = "build_pdf"
	keyDocument = "document"
)

// RenderContext is the data handed to one template execution.
type RenderContext struct {
	Data     map[string]any // validated config tree
	BuildPDF bool
	Document map[string]any // override block of a named document, or nil
}

// Renderer renders theme templates of one project and writes the results.
// Create with NewRenderer, and Close when done.
type Renderer struct {
	projectDir string
	resolver   *theme.Resolver
	pdf        PDFRasterizer
	logger     *slog.Logger
	owned      bool
}

// NewRenderer creates a Renderer for the project in projectDir. Relative
// resources and theme lookups resolve against it.
func NewRenderer(projectDir string, opts ...Option) (*Renderer, error) {
	s := newSettings(opts)
	r, err := newRenderer(projectDir, s)
	if err != nil {
		return nil, err
	}
	r.owned = true
	return r, nil
}

func newRenderer(projectDir string, s settings) (*Renderer, error) {
	abs, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, fmt.Errorf("resolving project directory: %w", err)
	}

	libOpts := []ops.Option{
		ops.WithCache(s.store),
		ops.WithLocator(s.locator),
		ops.WithBaseDir(abs),
		ops.WithLogger(s.logger),
	}
	if s.httpClient != nil {
		libOpts = append(libOpts, ops.WithHTTPClient(s.httpClient))
	}
	lib := ops.New(libOpts...)

	return &Renderer{
		projectDir: abs,
		resolver:   theme.NewResolver(lib, theme.WithLogger(s.logger)),
		pdf:        s.rasterizer,
		logger:     s.logger,
	}, nil
}

// ProjectDir returns the absolute project directory.
func (r *Renderer) ProjectDir() string { return r.projectDir }

// RenderOne executes templateName of themeName with rc and returns the HTML.
// ErrThemeNotFound and ErrTemplateNotFound are returned as is; execution
// failures are a *RenderError.
func (r *Renderer) RenderOne(ctx context.Context, themeName, templateName string, rc RenderContext) (string, error) {
	tpl, err := r.resolver.LoadTemplate(r.projectDir, themeName, templateName)
	if err != nil {
		if errors.Is(err, theme.ErrTemplateParse) {
			return "", &RenderError{Template: templateName, Err: err}
		}
		return "", err
	}
	root, _ := theme.Find(r.projectDir, themeName)

	data := maps.Clone(rc.Data)
	if data == nil {
		data = make(map[string]any, 3)
	}
	data[keyThemeDir] = root
	data[keyBuildPDF] = rc.BuildPDF
	if rc.Document != nil {
		data[keyDocument] = rc.Document
	}

	out, err := tpl.Execute(ctx, data)
	if err != nil {
		return "", &RenderError{Template: templateName, Err: err}
	}
	r.logger.Debug("template rendered", "theme", themeName, "template", templateName, "bytes", len(out))
	return out, nil
}

// Invalidate drops compiled templates so the next render rereads the theme.
func (r *Renderer) Invalidate() {
	r.resolver.Invalidate()
}

// Close releases the PDF rasterizer. Renderers owned by a Builder leave it
// to Builder.Close.
func (r *Renderer) Close() error {
	if r.owned && r.pdf != nil {
		return r.pdf.Close()
	}
	return nil
}

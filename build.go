package easyapply

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/alnah/go-easyapply/internal/config"
	"github.com/alnah/go-easyapply/internal/fileutil"
)

// BuildOptions describes one build.
type BuildOptions struct {
	ProjectDir string // holds application.yaml; defaults to "."
	OutputDir  string // defaults to ProjectDir
	PDF        bool
	Debug      bool // keep the HTML given to the browser beside each PDF
}

// Artifact is one written output file.
type Artifact struct {
	Document string
	Template string
	Path     string
}

// BuildResult lists what a build produced.
type BuildResult struct {
	ConfigPath string
	Theme      string
	Artifacts  []Artifact
}

// Builder runs builds. One Builder can serve several projects; the asset
// cache, tool lookups and the browser are shared between them.
// Create with NewBuilder, and Close when done.
type Builder struct {
	s      settings
	logger *slog.Logger

	mu       sync.Mutex // guards renderer
	renderer *Renderer

	buildMu sync.Mutex // serializes watch rebuilds
}

// NewBuilder creates a Builder.
func NewBuilder(opts ...Option) *Builder {
	s := newSettings(opts)
	return &Builder{s: s, logger: s.logger}
}

// Close releases the browser, if one was launched.
func (b *Builder) Close() error {
	return b.s.rasterizer.Close()
}

// job is one document to render.
type job struct {
	name     string
	template string
	output   string // file name without extension
	override map[string]any
}

// plan lists the documents of cfg in build order: the declared documents,
// or else one per default theme template.
func plan(cfg *config.Config) []job {
	if len(cfg.Documents) > 0 {
		jobs := make([]job, 0, len(cfg.Documents))
		for _, d := range cfg.Documents {
			jobs = append(jobs, job{name: d.Name, template: d.Template, output: d.Name, override: d.Override})
		}
		return jobs
	}

	jobs := make([]job, 0, len(cfg.ThemeTemplates))
	for _, tpl := range cfg.ThemeTemplates {
		base := fileutil.ReplaceExt(filepath.Base(tpl), "")
		jobs = append(jobs, job{name: base, template: tpl, output: base})
	}
	return jobs
}

func (o BuildOptions) normalize() (BuildOptions, error) {
	if o.ProjectDir == "" {
		o.ProjectDir = "."
	}
	dir, err := filepath.Abs(o.ProjectDir)
	if err != nil {
		return o, fmt.Errorf("resolving project directory: %w", err)
	}
	o.ProjectDir = dir

	if o.OutputDir == "" {
		o.OutputDir = dir
	}
	out, err := filepath.Abs(o.OutputDir)
	if err != nil {
		return o, fmt.Errorf("resolving output directory: %w", err)
	}
	o.OutputDir = out
	return o, nil
}

// Build loads the project config and renders every document, one after the
// other. The first failing document aborts the build; the error is a
// *StageError naming the stage and artifact.
func (b *Builder) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	opts, err := opts.normalize()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(opts.ProjectDir)
	if err != nil {
		return nil, err
	}

	r, err := b.rendererFor(opts.ProjectDir)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(opts.OutputDir, 0o750); err != nil {
		return nil, fmt.Errorf("%w: creating %s: %v", ErrOutput, opts.OutputDir, err)
	}

	ext := ".html"
	if opts.PDF {
		ext = ".pdf"
	}

	result := &BuildResult{ConfigPath: cfg.Path, Theme: cfg.ThemeName}
	for _, j := range plan(cfg) {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		html, err := r.RenderOne(ctx, cfg.ThemeName, j.template, RenderContext{
			Data:     cfg.Data,
			BuildPDF: opts.PDF,
			Document: j.override,
		})
		if err != nil {
			return result, &StageError{Stage: "render", Document: j.name, Err: err}
		}

		dest := filepath.Join(opts.OutputDir, j.output+ext)
		if err := r.Materialize(ctx, html, dest, opts.PDF, opts.Debug); err != nil {
			return result, &StageError{Stage: "materialize", Document: j.name, Artifact: dest, Err: err}
		}

		b.logger.Info("document written", "document", j.name, "template", j.template, "path", dest)
		result.Artifacts = append(result.Artifacts, Artifact{Document: j.name, Template: j.template, Path: dest})
	}

	stats := b.s.store.Stats()
	b.logger.Debug("build finished", "documents", len(result.Artifacts), "cache_hits", stats.Hits, "cache_misses", stats.Misses)
	return result, nil
}

// rendererFor returns the renderer of projectDir, replacing the previous one
// when the project changes.
func (b *Builder) rendererFor(projectDir string) (*Renderer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.renderer != nil && b.renderer.projectDir == projectDir {
		return b.renderer, nil
	}
	r, err := newRenderer(projectDir, b.s)
	if err != nil {
		return nil, err
	}
	b.renderer = r
	return r, nil
}

// invalidate drops compiled templates of the current project.
func (b *Builder) invalidate() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.renderer != nil {
		b.renderer.Invalidate()
	}
}

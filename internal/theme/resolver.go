package theme

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/alnah/go-easyapply/internal/fileutil"
	"github.com/alnah/go-easyapply/internal/ops"
)

// Resolver finds themes and memoizes one Environment per templates directory.
// Safe for concurrent use.
type Resolver struct {
	lib    *ops.Library
	logger *slog.Logger

	mu   sync.Mutex
	envs map[string]*Environment
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewResolver creates a Resolver whose environments call into lib.
func NewResolver(lib *ops.Library, opts ...Option) *Resolver {
	r := &Resolver{
		lib:    lib,
		logger: slog.Default(),
		envs:   make(map[string]*Environment),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.lib == nil {
		r.lib = ops.New(ops.WithLogger(r.logger))
	}
	return r
}

// Environment returns the environment for templatesDir, creating it on first use.
func (r *Resolver) Environment(templatesDir string) (*Environment, error) {
	abs, err := filepath.Abs(templatesDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateNotFound, err)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if env, ok := r.envs[abs]; ok {
		return env, nil
	}
	if !fileutil.DirExists(abs) {
		return nil, fmt.Errorf("%w: no templates directory at %s", ErrTemplateNotFound, abs)
	}
	env, err := newEnvironment(abs, r.lib, r.logger)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("template environment created", "dir", abs)
	r.envs[abs] = env
	return env, nil
}

// LoadTemplate finds themeName from buildDir and loads templateName from its
// templates directory.
func (r *Resolver) LoadTemplate(buildDir, themeName, templateName string) (*Template, error) {
	root, ok := Find(buildDir, themeName)
	if !ok {
		return nil, notFound(buildDir, themeName)
	}
	env, err := r.Environment(filepath.Join(root, TemplatesDir))
	if err != nil {
		return nil, err
	}
	return env.Template(templateName)
}

// Invalidate forgets every environment and its compiled templates.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.envs)
}

package theme

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/alnah/go-easyapply/internal/fileutil"
	"github.com/alnah/go-easyapply/internal/ops"
)

// Environment compiles and runs the templates of one templates directory.
// Safe for concurrent use.
type Environment struct {
	dir    string
	set    *pongo2.TemplateSet
	lib    *ops.Library
	logger *slog.Logger

	mu       sync.Mutex
	compiled map[string]*pongo2.Template // by source SHA-256
}

func newEnvironment(dir string, lib *ops.Library, logger *slog.Logger) (*Environment, error) {
	if err := registerFilters(); err != nil {
		return nil, err
	}
	loader, err := pongo2.NewLocalFileSystemLoader(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateNotFound, err)
	}
	return &Environment{
		dir:      dir,
		set:      pongo2.NewSet(dir, loader),
		lib:      lib,
		logger:   logger,
		compiled: make(map[string]*pongo2.Template),
	}, nil
}

// Dir returns the absolute templates directory.
func (e *Environment) Dir() string { return e.dir }

// Template loads name, a path relative to the templates directory.
func (e *Environment) Template(name string) (*Template, error) {
	path, err := e.resolve(name)
	if err != nil {
		return nil, err
	}

	src, err := os.ReadFile(path) // #nosec G304 -- path contained in templates dir
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q in %s", ErrTemplateNotFound, name, e.dir)
		}
		return nil, fmt.Errorf("reading template %q: %w", name, err)
	}

	tpl, err := e.compile(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTemplateParse, name, err)
	}
	return &Template{Name: name, Path: path, env: e, tpl: tpl}, nil
}

// compile returns the template for src, compiling it on first sight.
func (e *Environment) compile(src []byte) (*pongo2.Template, error) {
	sum := sha256.Sum256(src)
	key := hex.EncodeToString(sum[:])

	e.mu.Lock()
	defer e.mu.Unlock()

	if tpl, ok := e.compiled[key]; ok {
		return tpl, nil
	}
	tpl, err := e.set.FromBytes(src)
	if err != nil {
		return nil, err
	}
	e.compiled[key] = tpl
	return tpl, nil
}

// resolve maps name to a file inside the templates directory, following
// symlinks before the containment check.
func (e *Environment) resolve(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrTemplateNotFound)
	}
	path := filepath.Join(e.dir, name)
	if real, err := filepath.EvalSymlinks(path); err == nil {
		path = real
	}
	if path == e.dir || !fileutil.IsPathUnderDir(path, e.dir) {
		return "", fmt.Errorf("%w: %q escapes %s", ErrTemplateNotFound, name, e.dir)
	}
	if !fileutil.FileExists(path) {
		return "", fmt.Errorf("%w: %q in %s", ErrTemplateNotFound, name, e.dir)
	}
	return path, nil
}

// Template is a compiled template ready to execute.
type Template struct {
	Name string
	Path string

	env *Environment
	tpl *pongo2.Template
}

// Execute renders the template with data. Operation functions are bound to
// ctx for this call; keys in data shadow them.
func (t *Template) Execute(ctx context.Context, data map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	st := &callState{}
	pctx := functions(ctx, t.env.lib, st)
	for k, v := range data {
		// pongo2 refuses the whole context on such a key; templates could
		// not name it anyway.
		if !isIdentifier(k) {
			t.env.logger.Debug("key not reachable from templates", "key", k, "template", t.Name)
			continue
		}
		pctx[k] = v
	}

	out, err := t.tpl.Execute(pctx)
	if err != nil {
		if opErr := st.first(); opErr != nil {
			return "", &ExecError{Engine: err, Op: opErr}
		}
		if opErr := filterCause(err); opErr != nil {
			return "", &ExecError{Engine: err, Op: opErr}
		}
		return "", err
	}
	return out, nil
}

// filterCause returns the operation error behind a failed filter call.
// pongo2.Error does not unwrap, so it is dug out by hand.
func filterCause(err error) error {
	var pe *pongo2.Error
	for errors.As(err, &pe) {
		if name, ok := strings.CutPrefix(pe.Sender, "filter:"); ok && isFilter(name) {
			return pe.OrigError
		}
		if pe.OrigError == nil || pe.OrigError == err {
			return nil
		}
		err = pe.OrigError
	}
	return nil
}

// isIdentifier matches the context keys pongo2 accepts.
func isIdentifier(key string) bool {
	if key == "" {
		return false
	}
	for _, r := range key {
		if r != '_' && (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// ExecError is a template failure caused by an operation. It matches both
// the engine error and the operation's sentinel with errors.Is.
type ExecError struct {
	Engine error
	Op     error
}

func (e *ExecError) Error() string   { return e.Engine.Error() }
func (e *ExecError) Unwrap() []error { return []error{e.Engine, e.Op} }

// Package tools discovers optional external binaries (SVG minifiers) and runs
// them over stdin/stdout.
package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
)

var (
	// ErrToolUnavailable indicates a tool that is not installed on PATH.
	ErrToolUnavailable = errors.New("tool unavailable")

	// ErrToolFailed indicates a tool that started but did not complete successfully.
	ErrToolFailed = errors.New("tool failed")
)

// Known tool names.
const (
	SVGO  = "svgo"
	Scour = "scour"
)

// Tool is an optional external program that transforms its input.
type Tool interface {
	Name() string
	Available() bool
	Run(ctx context.Context, input []byte) ([]byte, error)
}

// defaultArgs holds the stdin/stdout invocation of each known tool.
var defaultArgs = map[string][]string{
	SVGO: {"--input", "-", "--output", "-", "--multipass"},
	Scour: {
		"--set-precision=8",
		"--enable-id-stripping",
		"--shorten-ids",
		"--create-groups",
		"--renderer-workaround",
		"--strip-xml-prolog",
		"--remove-titles",
		"--remove-descriptions",
		"--enable-viewboxing",
		"--strip-xml-space",
		"--no-line-breaks",
	},
}

// LookPathFunc resolves an executable name to a path.
type LookPathFunc func(name string) (string, error)

// Locator finds tools on PATH once per name and remembers the answer.
// Safe for concurrent use.
type Locator struct {
	mu       sync.Mutex
	found    map[string]Tool
	lookPath LookPathFunc
	logger   *slog.Logger
}

// Option configures a Locator.
type Option func(*Locator)

// WithLogger sets the logger used to report missing tools.
func WithLogger(l *slog.Logger) Option {
	return func(loc *Locator) {
		if l != nil {
			loc.logger = l
		}
	}
}

// WithLookPath replaces exec.LookPath.
func WithLookPath(fn LookPathFunc) Option {
	return func(loc *Locator) {
		if fn != nil {
			loc.lookPath = fn
		}
	}
}

// WithTool registers a tool directly, bypassing PATH lookup for its name.
func WithTool(t Tool) Option {
	return func(loc *Locator) {
		loc.found[t.Name()] = t
	}
}

// NewLocator creates a Locator.
func NewLocator(opts ...Option) *Locator {
	loc := &Locator{
		found:    make(map[string]Tool),
		lookPath: exec.LookPath,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(loc)
	}
	return loc
}

// Locate returns the tool registered under name. A missing binary is logged
// once and yields a Tool whose Available reports false.
func (l *Locator) Locate(name string) Tool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if t, ok := l.found[name]; ok {
		return t
	}

	path, err := l.lookPath(name)
	var t Tool
	if err != nil {
		l.logger.Warn("optional tool not found on PATH", "tool", name)
		t = unavailable(name)
	} else {
		l.logger.Debug("tool located", "tool", name, "path", path)
		t = &execTool{name: name, path: path, args: defaultArgs[name]}
	}
	l.found[name] = t
	return t
}

// execTool runs a binary with input on stdin and returns stdout.
type execTool struct {
	name string
	path string
	args []string
}

func (t *execTool) Name() string    { return t.name }
func (t *execTool) Available() bool { return true }

// Path returns the resolved executable path.
func (t *execTool) Path() string { return t.path }

func (t *execTool) Run(ctx context.Context, input []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, t.path, t.args...)
	cmd.Stdin = bytes.NewReader(input)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("%w: %s: %v", ErrToolFailed, t.name, err)
		}
		return nil, fmt.Errorf("%w: %s: %v: %s", ErrToolFailed, t.name, err, msg)
	}
	return stdout.Bytes(), nil
}

type unavailable string

func (u unavailable) Name() string    { return string(u) }
func (u unavailable) Available() bool { return false }

func (u unavailable) Run(context.Context, []byte) ([]byte, error) {
	return nil, fmt.Errorf("%w: %s", ErrToolUnavailable, string(u))
}

// Unavailable returns a Tool that reports itself missing.
func Unavailable(name string) Tool { return unavailable(name) }

// Compile-time interface checks.
var (
	_ Tool = (*execTool)(nil)
	_ Tool = unavailable("")
)

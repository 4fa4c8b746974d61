// Package ops is the library of content operations exposed to templates:
// date formatting, URL and contact normalization, SVG editing and
// optimization, image and script embedding, bibliography formatting and
// resource loading.
//
// Pure operations are package functions. Operations that touch the
// filesystem, the network, external tools or the cache hang off a Library,
// which is constructed explicitly and shared by every template environment
// of a build.
package ops

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alnah/go-easyapply/internal/cache"
	"github.com/alnah/go-easyapply/internal/dateutil"
	"github.com/alnah/go-easyapply/internal/tools"
)

const (
	// DefaultHTTPTimeout bounds remote resource fetches.
	DefaultHTTPTimeout = 30 * time.Second

	// MaxResourceSize caps remote and local resource reads (10MB).
	MaxResourceSize int64 = 10 << 20
)

// Library carries the collaborators of the stateful operations.
// Safe for concurrent use.
type Library struct {
	cache   *cache.Store
	locator *tools.Locator
	client  *http.Client
	baseDir string
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Library.
type Option func(*Library)

// WithCache sets the store used for optimized SVG and bibliography output.
func WithCache(s *cache.Store) Option {
	return func(l *Library) {
		if s != nil {
			l.cache = s
		}
	}
}

// WithLocator sets how external optimizers are found.
func WithLocator(loc *tools.Locator) Option {
	return func(l *Library) {
		if loc != nil {
			l.locator = loc
		}
	}
}

// WithHTTPClient sets the client for http(s) resources.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Library) {
		if c != nil {
			l.client = c
		}
	}
}

// WithBaseDir sets the directory relative resource paths resolve against.
func WithBaseDir(dir string) Option {
	return func(l *Library) {
		l.baseDir = dir
	}
}

// WithLogger sets the logger.
func WithLogger(lg *slog.Logger) Option {
	return func(l *Library) {
		if lg != nil {
			l.logger = lg
		}
	}
}

// WithClock replaces time.Now for today().
func WithClock(now func() time.Time) Option {
	return func(l *Library) {
		if now != nil {
			l.now = now
		}
	}
}

// New creates a Library. Without options it caches under cache.DefaultDir,
// looks tools up on PATH and resolves relative paths against the working
// directory.
func New(opts ...Option) *Library {
	l := &Library{
		client: &http.Client{Timeout: DefaultHTTPTimeout},
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.cache == nil {
		l.cache = cache.New(cache.DefaultDir(), cache.WithLogger(l.logger))
	}
	if l.locator == nil {
		l.locator = tools.NewLocator(tools.WithLogger(l.logger))
	}
	return l
}

// BaseDir returns the directory relative resources resolve against.
func (l *Library) BaseDir() string { return l.baseDir }

// Cache returns the store backing cached operations.
func (l *Library) Cache() *cache.Store { return l.cache }

// Today formats the current date with a strftime or token pattern.
// "auto" and "auto:FORMAT" as understood by dateutil.ResolveDate are accepted
// too; an empty pattern means "auto".
func (l *Library) Today(pattern string) (string, error) {
	now := l.now()
	switch {
	case pattern == "":
		return dateutil.ResolveDate("auto", now)
	case strings.HasPrefix(strings.ToLower(pattern), "auto"):
		return dateutil.ResolveDate(pattern, now)
	default:
		return FormatDate(now, pattern)
	}
}

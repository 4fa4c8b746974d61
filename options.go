package easyapply

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/alnah/go-easyapply/internal/cache"
	"github.com/alnah/go-easyapply/internal/tools"
)

// Option configures a Builder or a Renderer.
type Option func(*settings)

type settings struct {
	logger     *slog.Logger
	cacheDir   string
	timeout    time.Duration
	httpClient *http.Client
	rasterizer PDFRasterizer
	lookPath   tools.LookPathFunc

	// Filled by fill; shared by every renderer of a builder.
	store   *cache.Store
	locator *tools.Locator
}

// defaultTimeout bounds one page load in the browser.
const defaultTimeout = 30 * time.Second

// WithLogger sets the logger used by the build and the content operations.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCacheDir sets the asset cache root. Defaults to cache.DefaultDir().
func WithCacheDir(dir string) Option {
	return func(s *settings) {
		s.cacheDir = dir
	}
}

// WithTimeout sets the page load timeout of the PDF rasterizer.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("easyapply: WithTimeout duration must be positive")
	}
	return func(s *settings) {
		s.timeout = d
	}
}

// WithHTTPClient sets the client used to fetch remote resources.
func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) {
		s.httpClient = c
	}
}

// WithRasterizer replaces the headless Chrome rasterizer.
func WithRasterizer(r PDFRasterizer) Option {
	return func(s *settings) {
		s.rasterizer = r
	}
}

func newSettings(opts []Option) settings {
	s := settings{
		logger:  slog.Default(),
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(&s)
	}
	s.fill()
	return s
}

func (s *settings) fill() {
	if s.cacheDir == "" {
		s.cacheDir = cache.DefaultDir()
	}
	if s.store == nil {
		s.store = cache.New(s.cacheDir, cache.WithLogger(s.logger))
	}
	if s.locator == nil {
		locOpts := []tools.Option{tools.WithLogger(s.logger)}
		if s.lookPath != nil {
			locOpts = append(locOpts, tools.WithLookPath(s.lookPath))
		}
		s.locator = tools.NewLocator(locOpts...)
	}
	if s.rasterizer == nil {
		s.rasterizer = newRodRasterizer(s.timeout, s.logger)
	}
}

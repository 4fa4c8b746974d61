// Package cache memoizes the output of slow, deterministic transformations
// (SVG optimization, bibliography rendering, rasterization) on disk.
//
// Entries live at <root>/<namespace>/<sha256(input) in hex>. Writes go through
// a temp file and a rename so concurrent processes never observe a partial
// entry. Within one process, concurrent misses on the same key run the
// computation once.
package cache

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
	"regexp"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/alnah/go-easyapply/internal/fileutil"
)

// EnvDir overrides the default cache root.
const EnvDir = "EASYAPPLY_CACHE_DIR"

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

var (
	// ErrExternalTool wraps any failure of a computation passed to GetOrCompute.
	ErrExternalTool = errors.New("external tool failed")

	// ErrInvalidNamespace indicates a namespace that is not a single safe path segment.
	ErrInvalidNamespace = errors.New("invalid cache namespace")
)

var namespacePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Func produces the value stored for an input on a cache miss.
type Func func(ctx context.Context, input []byte) ([]byte, error)

// Stats counts lookups since the Store was created.
type Stats struct {
	Hits   int64
	Misses int64
}

// Store is a content-addressed on-disk cache. Safe for concurrent use.
type Store struct {
	root   string
	logger *slog.Logger
	group  singleflight.Group
	hits   atomic.Int64
	misses atomic.Int64
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for cache diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Store rooted at root. The directory is created lazily.
func New(root string, opts ...Option) *Store {
	s := &Store{root: root, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultDir returns $EASYAPPLY_CACHE_DIR, or easyapply-cache under the
// system temp directory.
func DefaultDir() string {
	if dir := os.Getenv(EnvDir); dir != "" {
		return dir
	}
	return filepath.Join(os.TempDir(), "easyapply-cache")
}

// Root returns the cache root directory.
func (s *Store) Root() string { return s.root }

// Key returns the hex SHA-256 digest used to address input.
func Key(input []byte) string {
	sum := sha256.Sum256(input)
	return hex.EncodeToString(sum[:])
}

// Path returns where the entry for input lives in namespace.
func (s *Store) Path(namespace string, input []byte) string {
	return filepath.Join(s.root, namespace, Key(input))
}

// GetOrCompute returns the cached value for input in namespace, computing and
// storing it with fn on a miss. Failed computations are not cached. A cache
// that cannot be written degrades to an uncached result.
func (s *Store) GetOrCompute(ctx context.Context, namespace string, input []byte, fn Func) ([]byte, error) {
	if !namespacePattern.MatchString(namespace) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidNamespace, namespace)
	}

	path := s.Path(namespace, input)
	if data, err := os.ReadFile(path); err == nil {
		s.hits.Add(1)
		return data, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("cache read failed", "path", path, "error", err)
	}

	v, err, _ := s.group.Do(path, func() (any, error) {
		// Another caller may have filled the entry while we waited.
		if data, err := os.ReadFile(path); err == nil {
			s.hits.Add(1)
			return data, nil
		}
		s.misses.Add(1)

		out, err := fn(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrExternalTool, namespace, err)
		}
		if err := s.store(path, out); err != nil {
			s.logger.Warn("cache write failed", "path", path, "error", err)
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Stats returns the current hit and miss counters.
func (s *Store) Stats() Stats {
	return Stats{Hits: s.hits.Load(), Misses: s.misses.Load()}
}

func (s *Store) store(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(path, data, filePerm)
}

package easyapply

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/alnah/go-easyapply/internal/config"
	"github.com/alnah/go-easyapply/internal/theme"
)

// Watch builds once, then rebuilds on every change to the config file or to
// the theme directory, until ctx is cancelled. Build failures are logged and
// do not stop the watch. It returns after the watcher is closed and its
// event loop has exited.
func (b *Builder) Watch(ctx context.Context, opts BuildOptions) error {
	opts, err := opts.normalize()
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}

	w := &watchLoop{b: b, opts: opts, watcher: watcher, themesDirs: theme.Roots(opts.ProjectDir)}
	if err := watcher.Add(opts.ProjectDir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watching %s: %w", opts.ProjectDir, err)
	}
	// Until the theme is found, any change under a themes directory may
	// make it appear.
	for _, dir := range w.themesDirs {
		if fi, err := os.Stat(dir); err == nil && fi.IsDir() {
			w.addDirs(dir)
		}
	}

	w.rebuild(ctx)

	done := make(chan struct{})
	go func() {
		defer close(done)
		w.run(ctx)
	}()

	<-ctx.Done()
	err = watcher.Close()
	<-done
	b.logger.Info("watch stopped")
	return err
}

type watchLoop struct {
	b       *Builder
	opts    BuildOptions
	watcher *fsnotify.Watcher

	themesDirs []string // searched for the theme while themeRoot is unknown
	themeRoot  string   // watched theme directory, once known
}

func (w *watchLoop) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(ctx, ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.b.logger.Warn("watcher error", "error", err)
		}
	}
}

func (w *watchLoop) handle(ctx context.Context, ev fsnotify.Event) {
	if !w.relevant(ev.Name) {
		return
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			w.addDirs(ev.Name)
		}
	}
	w.b.logger.Debug("change detected", "path", ev.Name, "op", ev.Op.String())
	w.rebuild(ctx)
}

// relevant reports whether a change at path affects the build: the config
// file itself, or any non-temporary file under the theme. While no theme has
// been found, anything under a themes directory counts.
func (w *watchLoop) relevant(path string) bool {
	if isTempFile(path) {
		return false
	}
	if filepath.Dir(path) == w.opts.ProjectDir && slices.Contains(config.FileNames, filepath.Base(path)) {
		return true
	}
	if w.themeRoot != "" {
		return isUnder(path, w.themeRoot)
	}
	for _, dir := range w.themesDirs {
		if path == dir || isUnder(path, dir) {
			return true
		}
	}
	return false
}

func isUnder(path, dir string) bool {
	return strings.HasPrefix(path, dir+string(filepath.Separator))
}

// rebuild invalidates templates and runs a full build under the builder's
// lock. The theme directory is (re)registered afterwards since the config
// may now name another theme.
func (w *watchLoop) rebuild(ctx context.Context) {
	w.b.buildMu.Lock()
	defer w.b.buildMu.Unlock()

	if ctx.Err() != nil {
		return
	}

	w.b.invalidate()
	res, err := w.b.Build(ctx, w.opts)
	switch {
	case ctx.Err() != nil:
		return
	case err != nil:
		w.b.logger.Error("build failed", "error", err)
	default:
		w.b.logger.Info("build succeeded", "documents", len(res.Artifacts))
	}
	w.trackTheme()
}

// trackTheme watches the theme named by the current config.
func (w *watchLoop) trackTheme() {
	cfg, err := config.Load(w.opts.ProjectDir)
	if err != nil {
		return
	}
	root, ok := theme.Find(w.opts.ProjectDir, cfg.ThemeName)
	if !ok || root == w.themeRoot {
		return
	}
	if real, err := filepath.EvalSymlinks(root); err == nil {
		root = real
	}
	w.themeRoot = root
	w.addDirs(root)
	w.b.logger.Debug("watching theme", "dir", root)
}

func (w *watchLoop) addDirs(root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := w.watcher.Add(path); err != nil {
				w.b.logger.Warn("watch add failed", "dir", path, "error", err)
			}
		}
		return nil
	})
}

// isTempFile matches hidden files and editor swap, backup and lock files.
func isTempFile(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."),
		strings.HasSuffix(base, "~"),
		strings.HasSuffix(base, ".swp"),
		strings.HasSuffix(base, ".swx"),
		strings.HasSuffix(base, ".tmp"),
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"),
		base == "Thumbs.db":
		return true
	}
	return false
}

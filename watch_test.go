package easyapply

// Notes:
// - Watch tests poll the output with a deadline because fsnotify delivers
//   events asynchronously. They do not run in parallel to keep the number of
//   open inotify watches low.

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-easyapply/internal/theme"
)

// waitFor polls path until its content contains want.
func waitFor(t *testing.T, path, want string) {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if data, err := os.ReadFile(path); err == nil && strings.Contains(string(data), want) {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	data, _ := os.ReadFile(path)
	t.Fatalf("%s never contained %q (last content %q)", path, want, data)
}

// ---------------------------------------------------------------------------
// TestWatch - Rebuild on change
// ---------------------------------------------------------------------------

func TestWatch(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"application.yaml":                 janeConfig,
		"themes/classic/templates/cv.html": "<p>v1 {{ cv.name }}</p>",
	})
	out := filepath.Join(dir, "out")
	cvOut := filepath.Join(out, "cv.html")

	b := NewBuilder(testOptions(t, &fakeRasterizer{})...)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- b.Watch(ctx, BuildOptions{ProjectDir: dir, OutputDir: out}) }()

	waitFor(t, cvOut, "v1 Jane Doe")

	// Template edit.
	writeFile(t, filepath.Join(dir, "themes", "classic", "templates", "cv.html"), "<p>v2 {{ cv.name }}</p>")
	waitFor(t, cvOut, "v2 Jane Doe")

	// A broken config is logged and the watch keeps going.
	writeFile(t, filepath.Join(dir, "application.yaml"), "theme: [\n")
	time.Sleep(100 * time.Millisecond)
	writeFile(t, filepath.Join(dir, "application.yaml"), strings.Replace(janeConfig, "Jane Doe", "Jane Roe", 1))
	waitFor(t, cvOut, "v2 Jane Roe")

	// Files created in new theme subdirectories are picked up.
	writeFile(t, filepath.Join(dir, "themes", "classic", "templates", "parts", "name.html"), "{{ cv.name }}")
	writeFile(t, filepath.Join(dir, "themes", "classic", "templates", "cv.html"), `<p>v3 {% include "parts/name.html" %}</p>`)
	waitFor(t, cvOut, "v3 Jane Roe")

	cancel()
	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Watch() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch() did not return after cancel")
	}
}

func TestWatch_InitialFailureKeepsWatching(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"application.yaml": janeConfig,
	})

	b := NewBuilder(testOptions(t, &fakeRasterizer{})...)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- b.Watch(ctx, BuildOptions{ProjectDir: dir}) }()

	// The theme does not exist yet; the config edit triggers a rebuild that
	// finds it.
	time.Sleep(100 * time.Millisecond)
	writeFile(t, filepath.Join(dir, "themes", "classic", "templates", "cv.html"), "<p>{{ cv.name }}</p>")
	writeFile(t, filepath.Join(dir, "application.yaml"), janeConfig+"# touched\n")
	waitFor(t, filepath.Join(dir, "cv.html"), "Jane Doe")

	cancel()
	if err := <-errc; err != nil {
		t.Errorf("Watch() error = %v", err)
	}
}

func TestWatch_ThemeCreatedLater(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"application.yaml": janeConfig,
	})

	b := NewBuilder(testOptions(t, &fakeRasterizer{})...)
	defer b.Close()
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- b.Watch(ctx, BuildOptions{ProjectDir: dir}) }()

	// Only the theme appears; the config is never touched.
	time.Sleep(100 * time.Millisecond)
	writeFile(t, filepath.Join(dir, "themes", "classic", "templates", "cv.html"), "<p>{{ cv.name }}</p>")
	waitFor(t, filepath.Join(dir, "cv.html"), "Jane Doe")

	cancel()
	if err := <-errc; err != nil {
		t.Errorf("Watch() error = %v", err)
	}
}

func TestWatchLoop_Relevant(t *testing.T) {
	t.Parallel()

	project := filepath.Join(string(filepath.Separator), "work", "jane")
	w := &watchLoop{
		opts:       BuildOptions{ProjectDir: project},
		themesDirs: theme.Roots(project),
	}

	tests := []struct {
		name      string
		themeRoot string
		path      string
		want      bool
	}{
		{name: "config file", path: filepath.Join(project, "application.yaml"), want: true},
		{name: "output file", path: filepath.Join(project, "cv.html"), want: false},
		{name: "themes dir created", path: filepath.Join(project, "themes"), want: true},
		{name: "parent themes before theme found", path: filepath.Join(project, "..", "themes", "classic", "x.html"), want: true},
		{name: "sibling project", path: filepath.Join(project, "..", "john", "cv.html"), want: false},
		{name: "template before theme found", path: filepath.Join(project, "themes", "classic", "templates", "cv.html"), want: true},
		{name: "swap file before theme found", path: filepath.Join(project, "themes", ".cv.html.swp"), want: false},
		{
			name:      "template in theme",
			themeRoot: filepath.Join(project, "themes", "classic"),
			path:      filepath.Join(project, "themes", "classic", "templates", "cv.html"),
			want:      true,
		},
		{
			name:      "other theme once found",
			themeRoot: filepath.Join(project, "themes", "classic"),
			path:      filepath.Join(project, "themes", "modern", "templates", "cv.html"),
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			wl := *w
			wl.themeRoot = tt.themeRoot
			if got := wl.relevant(tt.path); got != tt.want {
				t.Errorf("relevant(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestIsTempFile - Ignored editor files
// ---------------------------------------------------------------------------

func TestIsTempFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want bool
	}{
		{"/t/cv.html", false},
		{"/t/application.yaml", false},
		{"/t/.cv.html.swp", true},
		{"/t/cv.html~", true},
		{"/t/#cv.html#", true},
		{"/t/.#cv.html", true},
		{"/t/.cv.html.tmp-123", true},
		{"/t/4913.tmp", true},
		{"/t/Thumbs.db", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			if got := isTempFile(tt.path); got != tt.want {
				t.Errorf("isTempFile(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

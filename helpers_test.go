package easyapply

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// fakeRasterizer records the HTML it is asked to print and returns pdf.
type fakeRasterizer struct {
	mu     sync.Mutex
	pdf    []byte
	err    error
	pages  []string
	closed bool
}

func (f *fakeRasterizer) RenderFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages = append(f.pages, string(data))
	if f.err != nil {
		return nil, f.err
	}
	return f.pdf, nil
}

func (f *fakeRasterizer) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeRasterizer) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pages)
}

// minimalPDF returns a one-page PDF with a correct cross-reference table.
func minimalPDF() []byte {
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << >> >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

// noTools makes every external tool unavailable.
func noTools(s *settings) {
	s.lookPath = func(string) (string, error) { return "", errors.New("not found") }
}

func testOptions(t *testing.T, r PDFRasterizer) []Option {
	t.Helper()
	return []Option{
		WithLogger(slog.New(slog.DiscardHandler)),
		WithCacheDir(t.TempDir()),
		WithRasterizer(r),
		noTools,
	}
}

// writeProject creates files (slash-separated relative paths) under a new
// temp dir and returns it.
func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		writeFile(t, filepath.Join(dir, filepath.FromSlash(name)), content)
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	return string(data)
}

const janeConfig = `theme:
  name: classic
cv:
  name: Jane Doe
  email: jane@example.com
  phone: +1 (555) 010-0000
`

const cvTemplate = `<html><body>
<h1>{{ cv.name }}</h1>
<a href="{{ cv.email|href_email }}">mail</a>
<a href="{{ cv.phone|href_phone }}">call</a>
<img src="photo.png">
<p id="mode">{% if build_pdf %}pdf{% else %}html{% endif %}</p>
<p id="theme">{{ theme_dir }}</p>
</body></html>`

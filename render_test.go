package easyapply

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRenderOne - Injected fields
// ---------------------------------------------------------------------------

func TestRenderOne(t *testing.T) {
	t.Parallel()

	dir := writeProject(t, map[string]string{
		"themes/classic/templates/cv.html": "{{ cv.name }}|{{ build_pdf }}|{{ document.lang }}|{{ theme_dir }}",
	})
	r, err := NewRenderer(dir, testOptions(t, &fakeRasterizer{})...)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	defer r.Close()

	data := map[string]any{"cv": map[string]any{"name": "Jane Doe"}}
	got, err := r.RenderOne(context.Background(), "classic", "cv.html", RenderContext{
		Data:     data,
		BuildPDF: true,
		Document: map[string]any{"lang": "fr"},
	})
	if err != nil {
		t.Fatalf("RenderOne() error = %v", err)
	}

	want := "Jane Doe|True|fr|" + filepath.Join(dir, "themes", "classic")
	if got != want {
		t.Errorf("RenderOne() = %q, want %q", got, want)
	}
	if _, ok := data[keyThemeDir]; ok {
		t.Error("RenderOne() mutated the caller's data")
	}
}

func TestRenderOne_NilData(t *testing.T) {
	t.Parallel()

	dir := writeProject(t, map[string]string{
		"themes/classic/templates/cv.html": "{% if build_pdf %}pdf{% else %}html{% endif %}",
	})
	r, err := NewRenderer(dir, testOptions(t, &fakeRasterizer{})...)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}

	got, err := r.RenderOne(context.Background(), "classic", "cv.html", RenderContext{})
	if err != nil {
		t.Fatalf("RenderOne() error = %v", err)
	}
	if got != "html" {
		t.Errorf("RenderOne() = %q, want html", got)
	}
}

func TestRenderError(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := error(&RenderError{Template: "cv.html", Err: cause})

	if !errors.Is(err, ErrRender) {
		t.Error("RenderError does not match ErrRender")
	}
	if !errors.Is(err, cause) {
		t.Error("RenderError does not match its cause")
	}
	if !strings.Contains(err.Error(), "cv.html") {
		t.Errorf("Error() = %q, want template name", err.Error())
	}
}

// ---------------------------------------------------------------------------
// TestMaterialize - Output writing
// ---------------------------------------------------------------------------

func TestMaterialize_HTML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fake := &fakeRasterizer{}
	r, err := NewRenderer(dir, testOptions(t, fake)...)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}

	dest := filepath.Join(dir, "cv.html")
	if err := r.Materialize(context.Background(), "<p>x</p>", dest, false, true); err != nil {
		t.Fatalf("Materialize() error = %v", err)
	}
	if got := readFile(t, dest); got != "<p>x</p>" {
		t.Errorf("content = %q", got)
	}
	if fake.calls() != 0 {
		t.Error("HTML materialization called the rasterizer")
	}
	if _, err := os.Stat(dest + ".html"); !os.IsNotExist(err) {
		t.Error("debug companion written for HTML output")
	}
}

func TestMaterialize_MissingOutputDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	r, err := NewRenderer(dir, testOptions(t, &fakeRasterizer{})...)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}

	err = r.Materialize(context.Background(), "x", filepath.Join(dir, "missing", "cv.html"), false, false)
	if !errors.Is(err, ErrOutput) {
		t.Errorf("Materialize() error = %v, want ErrOutput", err)
	}
}

func TestMaterialize_Cancelled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	r, err := NewRenderer(dir, testOptions(t, &fakeRasterizer{pdf: minimalPDF()})...)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = r.Materialize(ctx, "<p>x</p>", filepath.Join(dir, "cv.pdf"), true, false)
	if !errors.Is(err, ErrPDFRender) || !errors.Is(err, context.Canceled) {
		t.Errorf("Materialize() error = %v, want ErrPDFRender wrapping context.Canceled", err)
	}
}

func TestVerifyPDF(t *testing.T) {
	t.Parallel()

	pages, err := verifyPDF(minimalPDF())
	if err != nil {
		t.Fatalf("verifyPDF() error = %v", err)
	}
	if pages != 1 {
		t.Errorf("pages = %d, want 1", pages)
	}

	if _, err := verifyPDF([]byte("%PDF-1.4\ngarbage")); err == nil {
		t.Error("verifyPDF(garbage) succeeded, want error")
	}
}

// ---------------------------------------------------------------------------
// TestRodRasterizer - Behavior without a browser
// ---------------------------------------------------------------------------

func TestRodRasterizer_CancelledBeforeLaunch(t *testing.T) {
	t.Parallel()

	r := newRodRasterizer(defaultTimeout, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.RenderFile(ctx, "/nonexistent.html"); !errors.Is(err, context.Canceled) {
		t.Errorf("RenderFile() error = %v, want context.Canceled", err)
	}
	if r.browser != nil {
		t.Error("browser launched for a cancelled context")
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close() without browser error = %v", err)
	}
}

package ops

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alnah/go-easyapply/internal/tools"
)

// SVGO minifies svg with svgo, caching the result. Without svgo the input is
// returned unchanged.
func (l *Library) SVGO(ctx context.Context, svg string) (string, error) {
	return l.optimizeWith(ctx, svg, tools.SVGO)
}

// Scour minifies svg with scour, caching the result. Without scour the input
// is returned unchanged.
func (l *Library) Scour(ctx context.Context, svg string) (string, error) {
	return l.optimizeWith(ctx, svg, tools.Scour)
}

// OptimizeSVG runs svgo then scour, skipping whichever is missing. The cache
// namespace records which tools took part, so installing a tool later does
// not serve results produced without it.
func (l *Library) OptimizeSVG(ctx context.Context, svg string) (string, error) {
	var chain []tools.Tool
	namespace := "svg"
	for _, name := range []string{tools.SVGO, tools.Scour} {
		if t := l.locator.Locate(name); t.Available() {
			chain = append(chain, t)
			namespace += "-" + name
		}
	}
	if len(chain) == 0 {
		l.logger.Warn("no SVG optimizer available, embedding SVG as is")
		return svg, nil
	}

	out, err := l.cache.GetOrCompute(ctx, namespace, []byte(svg), func(ctx context.Context, in []byte) ([]byte, error) {
		for _, t := range chain {
			var err error
			if in, err = t.Run(ctx, in); err != nil {
				return nil, err
			}
		}
		return in, nil
	})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// EmbedSVG loads, optimizes and returns the SVG at uri with attrs set on
// its root element.
func (l *Library) EmbedSVG(ctx context.Context, uri string, attrs []Attribute) (string, error) {
	svg, err := l.ReadText(ctx, uri)
	if err != nil {
		return "", err
	}
	optimized, err := l.OptimizeSVG(ctx, svg)
	if err != nil {
		return "", err
	}
	return AddAttributes(optimized, attrs)
}

// RenderBibFile formats the BibTeX file at path, caching the HTML by file content.
func (l *Library) RenderBibFile(ctx context.Context, path string) (string, error) {
	resolved := l.ResolvePath(path)
	src, err := os.ReadFile(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrResourceNotFound, resolved)
		}
		return "", fmt.Errorf("reading %s: %w", filepath.Base(resolved), err)
	}

	out, err := l.cache.GetOrCompute(ctx, "bib", src, func(_ context.Context, in []byte) ([]byte, error) {
		html, err := RenderBibliography(string(in))
		if err != nil {
			return nil, err
		}
		return []byte(html), nil
	})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (l *Library) optimizeWith(ctx context.Context, svg, name string) (string, error) {
	tool := l.locator.Locate(name)
	if !tool.Available() {
		l.logger.Warn("SVG optimizer unavailable, returning input unchanged", "tool", name)
		return svg, nil
	}
	out, err := l.cache.GetOrCompute(ctx, name, []byte(svg), tool.Run)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

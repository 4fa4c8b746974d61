package theme

import (
	"context"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/alnah/go-easyapply/internal/ops"
)

// callState remembers the first operation error of one execution, so the
// sentinel survives pongo2's own error wrapping.
type callState struct {
	mu  sync.Mutex
	err error
}

func (s *callState) fail(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
	return err
}

func (s *callState) first() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// fn is the calling convention handed to pongo2.
type fn = func(args ...*pongo2.Value) (*pongo2.Value, error)

// functions returns every operation as a callable bound to lib and ctx.
func functions(ctx context.Context, lib *ops.Library, st *callState) pongo2.Context {
	wrap := func(f fn) fn {
		return func(args ...*pongo2.Value) (*pongo2.Value, error) {
			out, err := f(args...)
			if err != nil {
				return nil, st.fail(err)
			}
			return out, nil
		}
	}
	text := func(s string, err error) (*pongo2.Value, error) {
		if err != nil {
			return nil, err
		}
		return pongo2.AsValue(s), nil
	}
	markup := func(s string, err error) (*pongo2.Value, error) {
		if err != nil {
			return nil, err
		}
		return pongo2.AsSafeValue(s), nil
	}

	funcs := pongo2.Context{
		"read_text": func(args ...*pongo2.Value) (*pongo2.Value, error) {
			return text(lib.ReadText(ctx, textOf(argAt(args, 0))))
		},
		"read_bytes": func(args ...*pongo2.Value) (*pongo2.Value, error) {
			b, err := lib.ReadBytes(ctx, textOf(argAt(args, 0)))
			if err != nil {
				return nil, err
			}
			return pongo2.AsValue(b), nil
		},
		"embed_js_file": func(args ...*pongo2.Value) (*pongo2.Value, error) {
			return markup(lib.EmbedJSFile(ctx, textOf(argAt(args, 0))))
		},
		"embed_image": func(args ...*pongo2.Value) (*pongo2.Value, error) {
			ext := "png"
			if v := argAt(args, 1); v != nil {
				ext = textOf(v)
			}
			var rest []*pongo2.Value
			if len(args) > 2 {
				rest = args[2:]
			}
			attrs, err := attrsOf(rest)
			if err != nil {
				return nil, err
			}
			return markup(ops.EmbedImage(textOf(argAt(args, 0)), ext, attrs))
		},
		"embed_image_file": func(args ...*pongo2.Value) (*pongo2.Value, error) {
			attrs, err := attrsOf(tail(args))
			if err != nil {
				return nil, err
			}
			return markup(lib.EmbedImageFile(ctx, textOf(argAt(args, 0)), attrs))
		},
		"add_attributes": func(args ...*pongo2.Value) (*pongo2.Value, error) {
			attrs, err := attrsOf(tail(args))
			if err != nil {
				return nil, err
			}
			return markup(ops.AddAttributes(textOf(argAt(args, 0)), attrs))
		},
		"svgo": func(args ...*pongo2.Value) (*pongo2.Value, error) {
			return markup(lib.SVGO(ctx, textOf(argAt(args, 0))))
		},
		"scour": func(args ...*pongo2.Value) (*pongo2.Value, error) {
			return markup(lib.Scour(ctx, textOf(argAt(args, 0))))
		},
		"optimize_svg": func(args ...*pongo2.Value) (*pongo2.Value, error) {
			return markup(lib.OptimizeSVG(ctx, textOf(argAt(args, 0))))
		},
		"embed_svg": func(args ...*pongo2.Value) (*pongo2.Value, error) {
			attrs, err := attrsOf(tail(args))
			if err != nil {
				return nil, err
			}
			return markup(lib.EmbedSVG(ctx, textOf(argAt(args, 0)), attrs))
		},
		"render_bibfile": func(args ...*pongo2.Value) (*pongo2.Value, error) {
			return markup(lib.RenderBibFile(ctx, textOf(argAt(args, 0))))
		},
		"rasterize": func(args ...*pongo2.Value) (*pongo2.Value, error) {
			dpi := float64(ops.DefaultDPI)
			if v := argAt(args, 1); v != nil {
				dpi = v.Float()
			}
			png, err := ops.Rasterize(bytesOf(argAt(args, 0)), dpi)
			if err != nil {
				return nil, err
			}
			return pongo2.AsValue(png), nil
		},
		"today": func(args ...*pongo2.Value) (*pongo2.Value, error) {
			return text(lib.Today(textOf(argAt(args, 0))))
		},
	}

	for name, op := range filters {
		funcs[name] = func(args ...*pongo2.Value) (*pongo2.Value, error) {
			return op(ctx, argAt(args, 0), argAt(args, 1))
		}
	}

	for name, f := range funcs {
		funcs[name] = wrap(f.(fn))
	}
	return funcs
}

// tail returns args after the first.
func tail(args []*pongo2.Value) []*pongo2.Value {
	if len(args) < 2 {
		return nil
	}
	return args[1:]
}

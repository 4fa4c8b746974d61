package theme

import (
	"context"
	"fmt"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/alnah/go-easyapply/internal/markup"
	"github.com/alnah/go-easyapply/internal/ops"
)

// opFunc is a pure operation usable both as a filter and as a function.
type opFunc func(ctx context.Context, in, param *pongo2.Value) (*pongo2.Value, error)

var sharedMarkdown = sync.OnceValue(markup.NewMarkdown)

// filters lists the pure operations by template name.
var filters = map[string]opFunc{
	"strip_url_protocol": stringOp(ops.StripURLProtocol),
	"github_username":    stringOp(ops.GitHubUsername),
	"href_phone":         safeOp(ops.HrefPhone),
	"href_email":         safeOp(ops.HrefEmail),
	"embed_js":           safeOp(ops.EmbedJS),

	"parse_date": func(_ context.Context, in, _ *pongo2.Value) (*pongo2.Value, error) {
		t, err := dateOf(in)
		if err != nil {
			return nil, err
		}
		return pongo2.AsValue(t), nil
	},
	"format_date": func(_ context.Context, in, param *pongo2.Value) (*pongo2.Value, error) {
		t, err := dateOf(in)
		if err != nil {
			return nil, err
		}
		s, err := ops.FormatDate(t, textOf(param))
		if err != nil {
			return nil, err
		}
		return pongo2.AsValue(s), nil
	},
	"day_suffix": func(_ context.Context, in, _ *pongo2.Value) (*pongo2.Value, error) {
		t, err := dateOf(in)
		if err != nil {
			return nil, err
		}
		return pongo2.AsValue(ops.DaySuffix(t)), nil
	},

	"set_fill": func(_ context.Context, in, param *pongo2.Value) (*pongo2.Value, error) {
		s, err := ops.SetFill(textOf(in), textOf(param))
		return safeResult(s, err)
	},
	"set_stroke": func(_ context.Context, in, param *pongo2.Value) (*pongo2.Value, error) {
		s, err := ops.SetStroke(textOf(in), textOf(param))
		return safeResult(s, err)
	},

	"bibtex": func(_ context.Context, in, _ *pongo2.Value) (*pongo2.Value, error) {
		s, err := ops.RenderBibliography(textOf(in))
		return safeResult(s, err)
	},
	"b64encode": func(_ context.Context, in, _ *pongo2.Value) (*pongo2.Value, error) {
		return pongo2.AsValue(ops.B64Encode(bytesOf(in))), nil
	},
	"split_paragraphs": func(_ context.Context, in, _ *pongo2.Value) (*pongo2.Value, error) {
		return pongo2.AsValue(ops.SplitParagraphs(textOf(in))), nil
	},
	"markdown": func(ctx context.Context, in, _ *pongo2.Value) (*pongo2.Value, error) {
		s, err := sharedMarkdown().ToHTML(ctx, textOf(in))
		return safeResult(s, err)
	},
}

// filterForms are operations that are registered as filters only; their
// callable forms, in functions, take several arguments.
var filterForms = map[string]opFunc{
	"add_attributes": func(_ context.Context, in, param *pongo2.Value) (*pongo2.Value, error) {
		attrs, err := attrsFromParam(param)
		if err != nil {
			return nil, err
		}
		return safeResult(ops.AddAttributes(textOf(in), attrs))
	},
	"embed_image": func(_ context.Context, in, param *pongo2.Value) (*pongo2.Value, error) {
		ext := textOf(param)
		if ext == "" {
			ext = "png"
		}
		return safeResult(ops.EmbedImage(textOf(in), ext, nil))
	},
	"rasterize": func(_ context.Context, in, param *pongo2.Value) (*pongo2.Value, error) {
		dpi := float64(ops.DefaultDPI)
		if param != nil && !param.IsNil() {
			dpi = param.Float()
		}
		png, err := ops.Rasterize(bytesOf(in), dpi)
		if err != nil {
			return nil, err
		}
		return pongo2.AsValue(png), nil
	},
}

// isFilter reports whether name is one of the filters registered here.
func isFilter(name string) bool {
	_, pure := filters[name]
	_, form := filterForms[name]
	return pure || form
}

// registerFilters installs the pure operations as pongo2 filters. pongo2
// keeps filters in a process-wide table, so this runs once. Autoescaping is
// turned off: operations emit markup meant to be inserted verbatim.
var registerFilters = sync.OnceValue(func() error {
	pongo2.SetAutoescape(false)
	for _, set := range []map[string]opFunc{filters, filterForms} {
		for name, fn := range set {
			if err := pongo2.RegisterFilter(name, asFilter(name, fn)); err != nil {
				return fmt.Errorf("registering filter %s: %w", name, err)
			}
		}
	}
	return nil
})

func asFilter(name string, fn opFunc) pongo2.FilterFunction {
	return func(in, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		out, err := fn(context.Background(), in, param)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return out, nil
	}
}

func stringOp(fn func(string) (string, error)) opFunc {
	return func(_ context.Context, in, _ *pongo2.Value) (*pongo2.Value, error) {
		s, err := fn(textOf(in))
		if err != nil {
			return nil, err
		}
		return pongo2.AsValue(s), nil
	}
}

func safeOp(fn func(string) string) opFunc {
	return func(_ context.Context, in, _ *pongo2.Value) (*pongo2.Value, error) {
		return pongo2.AsSafeValue(fn(textOf(in))), nil
	}
}

func safeResult(s string, err error) (*pongo2.Value, error) {
	if err != nil {
		return nil, err
	}
	return pongo2.AsSafeValue(s), nil
}

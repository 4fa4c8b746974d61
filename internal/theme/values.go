package theme

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/flosch/pongo2/v6"

	"github.com/alnah/go-easyapply/internal/ops"
)

// textOf returns v as a string; nil values are empty.
func textOf(v *pongo2.Value) string {
	if v == nil || v.IsNil() {
		return ""
	}
	return v.String()
}

// bytesOf returns v as raw bytes, keeping []byte from read_bytes intact.
func bytesOf(v *pongo2.Value) []byte {
	if v == nil || v.IsNil() {
		return nil
	}
	if b, ok := v.Interface().([]byte); ok {
		return b
	}
	return []byte(v.String())
}

// dateOf accepts a parsed date or anything ops.ParseDateValue understands.
func dateOf(v *pongo2.Value) (time.Time, error) {
	if v == nil || v.IsNil() {
		return time.Time{}, fmt.Errorf("%w: missing value", ops.ErrInvalidDate)
	}
	return ops.ParseDateValue(v.Interface())
}

// attrsOf reads flat name/value pairs.
func attrsOf(vals []*pongo2.Value) ([]ops.Attribute, error) {
	pairs := make([]string, len(vals))
	for i, v := range vals {
		pairs[i] = textOf(v)
	}
	return ops.AttributesFromPairs(pairs...)
}

// attrsFromParam reads the single parameter of the add_attributes filter:
// either a mapping (applied in key order) or "name=value,name=value".
func attrsFromParam(param *pongo2.Value) ([]ops.Attribute, error) {
	if param == nil || param.IsNil() {
		return nil, nil
	}
	if m, ok := param.Interface().(map[string]any); ok {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		attrs := make([]ops.Attribute, 0, len(keys))
		for _, k := range keys {
			attrs = append(attrs, ops.Attribute{Name: k, Value: fmt.Sprint(m[k])})
		}
		return attrs, nil
	}

	var attrs []ops.Attribute
	for _, part := range strings.Split(param.String(), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, ok := strings.Cut(part, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%w: %q is not name=value", ops.ErrInvalidAttributes, part)
		}
		attrs = append(attrs, ops.Attribute{Name: strings.TrimSpace(name), Value: strings.TrimSpace(value)})
	}
	return attrs, nil
}

// argAt returns vals[i] or nil.
func argAt(vals []*pongo2.Value, i int) *pongo2.Value {
	if i < len(vals) {
		return vals[i]
	}
	return nil
}

// Package yamlutil wraps YAML parsing to isolate the external dependency.
// Callers get plain Go trees (maps, slices, scalars) and never import the
// YAML library directly.
package yamlutil

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxInputSize limits YAML input to prevent memory exhaustion (default 1MB).
var MaxInputSize = 1 << 20

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
	ErrNotMapping     = errors.New("yamlutil: top level must be a mapping")
)

// MapItem is one key/value pair of an ordered mapping.
type MapItem struct {
	Key   string
	Value any
}

func validateInput(data []byte, v any) error {
	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

// Unmarshal decodes data into v.
func Unmarshal(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// ParseTree decodes a YAML document whose top level is a mapping.
// Nested mappings decode to map[string]any and sequences to []any.
func ParseTree(data []byte) (map[string]any, error) {
	var raw any
	if err := Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return map[string]any{}, nil
	}
	tree, ok := normalize(raw).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotMapping, raw)
	}
	return tree, nil
}

// OrderedKeys returns the entries of the mapping stored under key in the
// top-level document, in declaration order. Returns nil when the key is
// absent or null.
func OrderedKeys(data []byte, key string) ([]MapItem, error) {
	var doc yaml.MapSlice
	if err := validateInput(data, &doc); err != nil {
		return nil, err
	}
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	for _, item := range doc {
		if fmt.Sprint(item.Key) != key {
			continue
		}
		if item.Value == nil {
			return nil, nil
		}
		nested, ok := item.Value.(yaml.MapSlice)
		if !ok {
			return nil, fmt.Errorf("%w: %q is %T", ErrNotMapping, key, item.Value)
		}
		items := make([]MapItem, 0, len(nested))
		for _, n := range nested {
			items = append(items, MapItem{Key: fmt.Sprint(n.Key), Value: normalize(n.Value)})
		}
		return items, nil
	}
	return nil, nil
}

// normalize converts map[any]any and yaml.MapSlice values into map[string]any
// so templates can address every key by name.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalize(val)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case yaml.MapSlice:
		out := make(map[string]any, len(t))
		for _, item := range t {
			out[fmt.Sprint(item.Key)] = normalize(item.Value)
		}
		return out
	case []any:
		for i, val := range t {
			t[i] = normalize(val)
		}
		return t
	default:
		return v
	}
}

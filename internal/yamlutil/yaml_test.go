package yamlutil_test

// Notes:
// - ParseTree on a document that is only a comment returns an empty tree
//   rather than an error; the caller decides whether that is valid.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-easyapply/internal/yamlutil"
)

type testConfig struct {
	Name    string `yaml:"name"`
	Count   int    `yaml:"count"`
	Enabled bool   `yaml:"enabled"`
}

// ---------------------------------------------------------------------------
// TestUnmarshal - Parses YAML into Go structs
// ---------------------------------------------------------------------------

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
	}{
		{name: "valid YAML", data: []byte("name: test\ncount: 42\nenabled: true"), dest: &testConfig{}},
		{name: "nil data", data: nil, dest: &testConfig{}, wantErr: yamlutil.ErrNilData},
		{name: "empty data", data: []byte{}, dest: &testConfig{}, wantErr: yamlutil.ErrNilData},
		{name: "nil destination", data: []byte("name: test"), dest: nil, wantErr: yamlutil.ErrNilDestination},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.Unmarshal(tt.data, tt.dest)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Unmarshal() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal() unexpected error: %v", err)
			}
			cfg := tt.dest.(*testConfig)
			if cfg.Name != "test" || cfg.Count != 42 || !cfg.Enabled {
				t.Errorf("Unmarshal() = %+v", cfg)
			}
		})
	}
}

func TestUnmarshal_InputTooLarge(t *testing.T) {
	t.Parallel()

	data := []byte("name: " + strings.Repeat("x", yamlutil.MaxInputSize))
	err := yamlutil.Unmarshal(data, &testConfig{})
	if !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Errorf("Unmarshal() error = %v, want ErrInputTooLarge", err)
	}
}

// ---------------------------------------------------------------------------
// TestParseTree - Generic tree decoding
// ---------------------------------------------------------------------------

func TestParseTree(t *testing.T) {
	t.Parallel()

	t.Run("nested mappings and sequences", func(t *testing.T) {
		t.Parallel()

		tree, err := yamlutil.ParseTree([]byte("theme:\n  name: plain\ncv:\n  name: Jane Doe\n  skills:\n    - Go\n    - SQL\n"))
		if err != nil {
			t.Fatalf("ParseTree() error = %v", err)
		}
		theme, ok := tree["theme"].(map[string]any)
		if !ok {
			t.Fatalf("theme = %T, want map[string]any", tree["theme"])
		}
		if theme["name"] != "plain" {
			t.Errorf("theme.name = %v, want plain", theme["name"])
		}
		cv := tree["cv"].(map[string]any)
		skills, ok := cv["skills"].([]any)
		if !ok || len(skills) != 2 || skills[0] != "Go" {
			t.Errorf("cv.skills = %#v, want [Go SQL]", cv["skills"])
		}
	})

	t.Run("top-level sequence is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := yamlutil.ParseTree([]byte("- a\n- b\n"))
		if !errors.Is(err, yamlutil.ErrNotMapping) {
			t.Errorf("ParseTree() error = %v, want ErrNotMapping", err)
		}
	})

	t.Run("malformed input is wrapped", func(t *testing.T) {
		t.Parallel()

		_, err := yamlutil.ParseTree([]byte("name: [unclosed"))
		if err == nil || !strings.Contains(err.Error(), "yamlutil:") {
			t.Errorf("ParseTree() error = %v, want yamlutil-prefixed error", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestOrderedKeys - Declaration order of a nested mapping
// ---------------------------------------------------------------------------

func TestOrderedKeys(t *testing.T) {
	t.Parallel()

	data := []byte("documents:\n  letter:\n    template: letter.html\n  cv: {}\n  appendix:\n")
	items, err := yamlutil.OrderedKeys(data, "documents")
	if err != nil {
		t.Fatalf("OrderedKeys() error = %v", err)
	}

	want := []string{"letter", "cv", "appendix"}
	if len(items) != len(want) {
		t.Fatalf("OrderedKeys() returned %d items, want %d", len(items), len(want))
	}
	for i, key := range want {
		if items[i].Key != key {
			t.Errorf("items[%d].Key = %q, want %q", i, items[i].Key, key)
		}
	}
	block, ok := items[0].Value.(map[string]any)
	if !ok || block["template"] != "letter.html" {
		t.Errorf("items[0].Value = %#v, want template override", items[0].Value)
	}

	missing, err := yamlutil.OrderedKeys(data, "absent")
	if err != nil || missing != nil {
		t.Errorf("OrderedKeys(absent) = %v, %v; want nil, nil", missing, err)
	}
}

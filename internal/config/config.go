// Package config loads and validates the project description
// (application.yaml) that drives a build.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/alnah/go-easyapply/internal/fileutil"
	"github.com/alnah/go-easyapply/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
	ErrInvalidConfig  = errors.New("invalid config")
)

// FileNames lists the accepted config file names, in lookup order.
var FileNames = []string{"application.yaml", "application.yml"}

// ReservedKeys are injected into every render and cannot be set by users.
var ReservedKeys = []string{"theme_dir", "build_pdf"}

// DefaultTemplates is rendered when neither documents nor theme.templates is set.
var DefaultTemplates = []string{"cv.html"}

// Document is one output declared under documents.
type Document struct {
	Name     string
	Template string         // defaults to <Name>.html
	Override map[string]any // the document's block, exposed as "document"
}

// Config is a validated project description. It must not be mutated.
type Config struct {
	Path           string
	Dir            string
	ThemeName      string
	ThemeTemplates []string
	Documents      []Document // declaration order; empty when not declared
	Data           map[string]any
}

// Load reads and validates the config file in dir.
func Load(dir string) (*Config, error) {
	path, err := resolveConfigPath(dir)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) // #nosec G304 -- fixed file names in the project dir
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return Parse(path, data)
}

// Parse validates config content read from path.
func Parse(path string, data []byte) (*Config, error) {
	tree, err := yamlutil.ParseTree(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
	}
	if err := Validate(tree); err != nil {
		return nil, err
	}

	themeMap := tree["theme"].(map[string]any)
	cfg := &Config{
		Path:           path,
		Dir:            filepath.Dir(path),
		ThemeName:      themeMap["name"].(string),
		ThemeTemplates: DefaultTemplates,
		Data:           tree,
	}
	if raw, ok := themeMap["templates"]; ok {
		cfg.ThemeTemplates = toStrings(raw)
	}

	if _, ok := tree["documents"]; ok {
		items, err := yamlutil.OrderedKeys(data, "documents")
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
		}
		for _, item := range items {
			cfg.Documents = append(cfg.Documents, newDocument(item))
		}
	}

	return cfg, nil
}

// Validate checks a parsed tree. It has no side effects.
func Validate(tree map[string]any) error {
	for _, key := range ReservedKeys {
		if _, ok := tree[key]; ok {
			return fmt.Errorf("%w: %q is reserved and set by the build", ErrInvalidConfig, key)
		}
	}

	raw, ok := tree["theme"]
	if !ok {
		return fmt.Errorf("%w: missing theme", ErrInvalidConfig)
	}
	themeMap, ok := raw.(map[string]any)
	if !ok {
		return fmt.Errorf("%w: theme must be a mapping", ErrInvalidConfig)
	}
	name, ok := themeMap["name"].(string)
	if !ok || strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: missing theme.name", ErrInvalidConfig)
	}
	if templates, ok := themeMap["templates"]; ok {
		if err := validateTemplates(templates); err != nil {
			return err
		}
	}

	if raw, ok := tree["documents"]; ok {
		docs, ok := raw.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: documents must be a mapping", ErrInvalidConfig)
		}
		for name, entry := range docs {
			if err := validateDocument(name, entry); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateTemplates(raw any) error {
	list, ok := raw.([]any)
	if !ok {
		return fmt.Errorf("%w: theme.templates must be a list", ErrInvalidConfig)
	}
	for i, v := range list {
		if s, ok := v.(string); !ok || s == "" {
			return fmt.Errorf("%w: theme.templates[%d] must be a file name", ErrInvalidConfig, i)
		}
	}
	return nil
}

func validateDocument(name string, entry any) error {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("%w: invalid document name %q", ErrInvalidConfig, name)
	}
	if entry == nil {
		return nil
	}
	block, ok := entry.(map[string]any)
	if !ok {
		return fmt.Errorf("%w: documents.%s must be a mapping", ErrInvalidConfig, name)
	}
	if tpl, ok := block["template"]; ok {
		if s, ok := tpl.(string); !ok || s == "" {
			return fmt.Errorf("%w: documents.%s.template must be a file name", ErrInvalidConfig, name)
		}
	}
	return nil
}

func newDocument(item yamlutil.MapItem) Document {
	doc := Document{
		Name:     item.Key,
		Template: item.Key + ".html",
		Override: map[string]any{},
	}
	if block, ok := item.Value.(map[string]any); ok {
		doc.Override = block
		if tpl, ok := block["template"].(string); ok {
			doc.Template = tpl
		}
	}
	return doc
}

func toStrings(raw any) []string {
	list, _ := raw.([]any)
	out := make([]string, 0, len(list))
	for _, v := range list {
		out = append(out, v.(string))
	}
	return out
}

// resolveConfigPath returns the first config file present in dir.
func resolveConfigPath(dir string) (string, error) {
	tried := make([]string, 0, len(FileNames))
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if fileutil.FileExists(path) {
			return path, nil
		}
		tried = append(tried, path)
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}

// LoadEnv loads dir/.env into the process environment when present.
// Variables already set are left alone.
func LoadEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if !fileutil.FileExists(path) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

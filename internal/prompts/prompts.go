// Package prompts provides embedded YAML prompt templates with user override
// support. Templates are loaded with resolution order:
// 1. User override: promptsDir/{name}.yaml
// 2. Embedded default: internal/prompts/{name}.yaml
package prompts

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed *.yaml
var fs embed.FS

// Template is a loaded prompt template. Placeholders use {{name}} syntax.
type Template struct {
	Description string  `yaml:"description"`
	Prompt      string  `yaml:"prompt"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// Get loads a template by name, preferring a user override file in promptsDir
// over the embedded default.
func Get(name string, promptsDir string) (*Template, error) {
	if promptsDir != "" {
		userPath := filepath.Join(promptsDir, name+".yaml")
		if data, err := os.ReadFile(userPath); err == nil {
			return parseTemplate(data)
		}
	}

	data, err := fs.ReadFile(name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("prompt template '%s' not found (checked user override and embedded)", name)
	}
	return parseTemplate(data)
}

// Render substitutes {{name}} placeholders with the given values. Unknown
// placeholders are left intact so a malformed override fails visibly.
func (t *Template) Render(vars map[string]string) string {
	out := t.Prompt
	for key, value := range vars {
		out = strings.ReplaceAll(out, "{{"+key+"}}", value)
	}
	return out
}

// ListEmbedded returns the names of all embedded templates.
func ListEmbedded() ([]string, error) {
	entries, err := fs.ReadDir(".")
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() && strings.HasSuffix(name, ".yaml") {
			names = append(names, strings.TrimSuffix(name, ".yaml"))
		}
	}
	return names, nil
}

func parseTemplate(data []byte) (*Template, error) {
	var t Template
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse prompt template: %w", err)
	}
	if t.Prompt == "" {
		return nil, fmt.Errorf("prompt template has no prompt body")
	}
	return &t, nil
}

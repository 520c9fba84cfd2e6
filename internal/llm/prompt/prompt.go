package prompt

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config describes a prompt definition loaded from YAML.
type Config struct {
	Slug           string `yaml:"slug"`
	Description    string `yaml:"description,omitempty"`
	SystemTemplate string `yaml:"system_template"`
	UserTemplate   string `yaml:"user_template,omitempty"`
}

// Prompt wraps a validated prompt configuration with its source.
type Prompt struct {
	Config Config
	Source string
}

// Load parses and validates a prompt definition from YAML bytes.
func Load(source string, data []byte) (*Prompt, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse prompt %s: %w", source, err)
	}

	if strings.TrimSpace(config.Slug) == "" {
		return nil, fmt.Errorf("prompt %s missing slug", source)
	}
	if strings.TrimSpace(config.SystemTemplate) == "" {
		return nil, fmt.Errorf("prompt %s missing system_template", source)
	}

	return &Prompt{Config: config, Source: source}, nil
}

// Registry holds prompts by slug.
type Registry map[string]*Prompt

// NewRegistry builds a registry from the given prompts. Duplicate slugs are rejected.
func NewRegistry(prompts []*Prompt) (Registry, error) {
	registry := make(Registry, len(prompts))
	for _, p := range prompts {
		if p == nil {
			continue
		}
		if _, exists := registry[p.Config.Slug]; exists {
			return nil, fmt.Errorf("duplicate prompt slug: %s", p.Config.Slug)
		}
		registry[p.Config.Slug] = p
	}
	return registry, nil
}

// Get returns the prompt for a slug.
func (r Registry) Get(slug string) (*Prompt, error) {
	p, ok := r[strings.TrimSpace(slug)]
	if !ok {
		return nil, fmt.Errorf("unknown prompt: %s", slug)
	}
	return p, nil
}

// Render substitutes {{key}} variables into the system and user templates.
func (p *Prompt) Render(vars map[string]string) (system, user string) {
	if p == nil {
		return "", ""
	}
	return applyVars(p.Config.SystemTemplate, vars), applyVars(p.Config.UserTemplate, vars)
}

func applyVars(template string, vars map[string]string) string {
	result := template
	for key, value := range vars {
		result = strings.ReplaceAll(result, "{{"+key+"}}", value)
	}
	return result
}

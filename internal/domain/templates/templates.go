// Package templates holds the named flower prompt templates used by the
// flower generation endpoints.
package templates

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var embeddedTemplates []byte

const cacheKey = "flower-templates"

var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z][a-zA-Z0-9_]*)\}`)

// Template is one named prompt with {variable} placeholders.
type Template struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Prompt      string `yaml:"prompt" json:"prompt"`
}

type templateFile struct {
	Templates []Template `yaml:"templates"`
}

// Registry loads templates from the embedded set or an operator-supplied
// YAML file. File-backed templates are cached with a TTL so edits are picked
// up without a restart.
type Registry struct {
	path  string
	cache *gocache.Cache
	log   zerolog.Logger
}

// NewRegistry builds a registry. path may be empty to use the embedded set.
func NewRegistry(path string, ttl time.Duration, log zerolog.Logger) (*Registry, error) {
	registry := &Registry{
		path:  strings.TrimSpace(path),
		cache: gocache.New(ttl, 2*ttl),
		log:   log.With().Str("component", "template-registry").Logger(),
	}

	// Fail fast on a broken template source instead of at first request.
	if _, err := registry.load(); err != nil {
		return nil, err
	}
	return registry, nil
}

// List returns every known template in file order.
func (r *Registry) List() ([]Template, error) {
	return r.load()
}

// Resolve substitutes the caller's variables into the named template.
// A placeholder with no supplied value is an error; extra variables are
// ignored.
func (r *Registry) Resolve(id string, variables map[string]string) (string, error) {
	all, err := r.load()
	if err != nil {
		return "", err
	}

	var found *Template
	for i := range all {
		if all[i].ID == id {
			found = &all[i]
			break
		}
	}
	if found == nil {
		return "", fmt.Errorf("unknown template %q", id)
	}

	var missing []string
	prompt := placeholderPattern.ReplaceAllStringFunc(found.Prompt, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		value, ok := variables[name]
		if !ok || strings.TrimSpace(value) == "" {
			missing = append(missing, name)
			return match
		}
		return value
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("template %q is missing variables: %s", id, strings.Join(missing, ", "))
	}

	return prompt, nil
}

func (r *Registry) load() ([]Template, error) {
	if cached, ok := r.cache.Get(cacheKey); ok {
		return cached.([]Template), nil
	}

	raw := embeddedTemplates
	if r.path != "" {
		data, err := os.ReadFile(r.path)
		if err != nil {
			return nil, fmt.Errorf("read templates file %s: %w", r.path, err)
		}
		raw = data
	}

	var parsed templateFile
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	if len(parsed.Templates) == 0 {
		return nil, fmt.Errorf("no templates defined")
	}
	seen := make(map[string]struct{}, len(parsed.Templates))
	for _, tpl := range parsed.Templates {
		if strings.TrimSpace(tpl.ID) == "" || strings.TrimSpace(tpl.Prompt) == "" {
			return nil, fmt.Errorf("template entries need both an id and a prompt")
		}
		if _, dup := seen[tpl.ID]; dup {
			return nil, fmt.Errorf("duplicate template id %q", tpl.ID)
		}
		seen[tpl.ID] = struct{}{}
	}

	r.cache.Set(cacheKey, parsed.Templates, gocache.DefaultExpiration)
	r.log.Debug().Int("count", len(parsed.Templates)).Msg("templates loaded")
	return parsed.Templates, nil
}

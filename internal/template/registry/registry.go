// Package registry provides the catalog of scaffold files keyed by path.
package registry

import (
	"errors"
	"fmt"

	"github.com/tacogips/autopilot/internal/template/content"
	"github.com/tacogips/autopilot/internal/template/model"
)

// ErrUnknownTemplate is returned when a path is not in the catalog.
var ErrUnknownTemplate = errors.New("unknown template")

// Registry is an immutable, ordered set of templates.
type Registry struct {
	templates []model.Template
	index     map[string]int
}

// New builds a registry from templates, keeping their order.
// Empty or duplicate paths, unknown categories and nil generators are rejected.
func New(templates ...model.Template) (*Registry, error) {
	r := &Registry{
		templates: make([]model.Template, 0, len(templates)),
		index:     make(map[string]int, len(templates)),
	}

	for _, t := range templates {
		if t.Path == "" {
			return nil, errors.New("template path must not be empty")
		}
		if _, dup := r.index[t.Path]; dup {
			return nil, fmt.Errorf("duplicate template path %q", t.Path)
		}
		if !t.Category.Valid() {
			return nil, fmt.Errorf("template %q: unknown category %q", t.Path, t.Category)
		}
		if t.Generate == nil {
			return nil, fmt.Errorf("template %q: missing content generator", t.Path)
		}
		r.index[t.Path] = len(r.templates)
		r.templates = append(r.templates, t)
	}

	return r, nil
}

// Default returns the registry of built-in scaffold files.
func Default() *Registry {
	r, err := New(content.Builtin()...)
	if err != nil {
		panic(fmt.Sprintf("built-in catalog is invalid: %v", err))
	}
	return r
}

// ListAll returns every descriptor in catalog order.
func (r *Registry) ListAll() []model.TemplateDescriptor {
	out := make([]model.TemplateDescriptor, len(r.templates))
	for i, t := range r.templates {
		out[i] = t.TemplateDescriptor
	}
	return out
}

// FilterCritical returns the critical descriptors in catalog order.
func (r *Registry) FilterCritical() []model.TemplateDescriptor {
	var out []model.TemplateDescriptor
	for _, t := range r.templates {
		if t.Critical {
			out = append(out, t.TemplateDescriptor)
		}
	}
	return out
}

// Paths returns every path in catalog order.
func (r *Registry) Paths() []string {
	out := make([]string, len(r.templates))
	for i, t := range r.templates {
		out[i] = t.Path
	}
	return out
}

// Lookup returns the descriptor for path.
func (r *Registry) Lookup(path string) (model.TemplateDescriptor, bool) {
	i, ok := r.index[path]
	if !ok {
		return model.TemplateDescriptor{}, false
	}
	return r.templates[i].TemplateDescriptor, true
}

// Generate renders the content for path.
func (r *Registry) Generate(path string, opts model.RenderOptions) (string, error) {
	i, ok := r.index[path]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTemplate, path)
	}
	out, err := r.templates[i].Generate(opts)
	if err != nil {
		return "", fmt.Errorf("generating %s: %w", path, err)
	}
	return out, nil
}

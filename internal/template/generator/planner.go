// Package generator plans and writes scaffold files into a repository.
package generator

import (
	"github.com/tacogips/autopilot/internal/debug"
	"github.com/tacogips/autopilot/internal/template/model"
)

// Catalog renders content for scaffold paths.
type Catalog interface {
	Lookup(path string) (model.TemplateDescriptor, bool)
	Generate(path string, opts model.RenderOptions) (string, error)
}

// WritePlanEntry is one file to be written.
type WritePlanEntry struct {
	// Path is slash-separated and relative to the repository root.
	Path string
	// AlreadyExists is true when the file existed at planning time.
	AlreadyExists bool
	// Content is the rendered file content.
	Content string
}

// WritePlan is the ordered set of files and directories a sync will touch.
type WritePlan struct {
	Entries []WritePlanEntry
	// Directories are missing parent directories in first-seen order.
	Directories []string
}

// Paths returns the entry paths in plan order.
func (p *WritePlan) Paths() []string {
	out := make([]string, len(p.Entries))
	for i, e := range p.Entries {
		out[i] = e.Path
	}
	return out
}

// ExistingCount returns how many planned files already exist.
func (p *WritePlan) ExistingCount() int {
	n := 0
	for _, e := range p.Entries {
		if e.AlreadyExists {
			n++
		}
	}
	return n
}

// Planner turns a selection into a WritePlan without touching the filesystem.
type Planner struct {
	catalog Catalog
	exists  func(path string) bool
}

// NewPlanner creates a Planner. exists is queried with slash-separated
// paths relative to the repository root.
func NewPlanner(catalog Catalog, exists func(path string) bool) *Planner {
	return &Planner{catalog: catalog, exists: exists}
}

// Plan renders every selected path in the given order. Duplicates collapse
// to their first occurrence. Any invalid or unknown path aborts planning.
func (p *Planner) Plan(selected []string, opts model.RenderOptions) (*WritePlan, error) {
	debug.Debug("[generator] Planning %d selected files", len(selected))

	plan := &WritePlan{
		Entries:     make([]WritePlanEntry, 0, len(selected)),
		Directories: []string{},
	}
	seenPaths := make(map[string]bool, len(selected))
	seenDirs := make(map[string]bool)

	for _, path := range selected {
		if seenPaths[path] {
			continue
		}
		seenPaths[path] = true

		if err := ValidatePath(path); err != nil {
			return nil, err
		}

		content, err := p.catalog.Generate(path, opts)
		if err != nil {
			return nil, newGeneratorError(GeneratorRenderFailed, "failed to render", path, err)
		}

		for _, dir := range parentDirs(path) {
			if seenDirs[dir] {
				continue
			}
			seenDirs[dir] = true
			if !p.exists(dir) {
				plan.Directories = append(plan.Directories, dir)
			}
		}

		exists := p.exists(path)
		debug.Debug("[generator] Planned %s (exists=%v, size=%d)", path, exists, len(content))
		plan.Entries = append(plan.Entries, WritePlanEntry{
			Path:          path,
			AlreadyExists: exists,
			Content:       content,
		})
	}

	return plan, nil
}

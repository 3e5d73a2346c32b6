package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tacogips/autopilot/internal/template/content"
	"github.com/tacogips/autopilot/internal/template/model"
)

func fixed(s string) model.ContentGenerator {
	return func(model.RenderOptions) (string, error) { return s, nil }
}

func entry(path string, critical bool) model.Template {
	return model.Template{
		TemplateDescriptor: model.TemplateDescriptor{
			Path:        path,
			DisplayName: path,
			Category:    model.CategoryAgent,
			Critical:    critical,
		},
		Generate: fixed("content of " + path),
	}
}

func TestNewRejectsInvalidCatalogs(t *testing.T) {
	tests := []struct {
		name      string
		templates []model.Template
	}{
		{name: "duplicate path", templates: []model.Template{entry("a.md", false), entry("a.md", true)}},
		{name: "empty path", templates: []model.Template{entry("", false)}},
		{name: "nil generator", templates: []model.Template{{TemplateDescriptor: model.TemplateDescriptor{Path: "a.md", Category: model.CategoryAgent}}}},
		{name: "unknown category", templates: []model.Template{{TemplateDescriptor: model.TemplateDescriptor{Path: "a.md", Category: "misc"}, Generate: fixed("")}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.templates...)
			assert.Error(t, err)
		})
	}
}

func TestRegistryOrderAndLookup(t *testing.T) {
	r, err := New(entry("b.md", false), entry("a.md", true), entry("c.md", true))
	require.NoError(t, err)

	assert.Equal(t, []string{"b.md", "a.md", "c.md"}, r.Paths())
	assert.Len(t, r.ListAll(), 3)

	critical := r.FilterCritical()
	require.Len(t, critical, 2)
	assert.Equal(t, "a.md", critical[0].Path)
	assert.Equal(t, "c.md", critical[1].Path)

	d, ok := r.Lookup("c.md")
	assert.True(t, ok)
	assert.True(t, d.Critical)

	_, ok = r.Lookup("missing.md")
	assert.False(t, ok)
}

func TestGenerate(t *testing.T) {
	r, err := New(entry("a.md", false))
	require.NoError(t, err)

	out, err := r.Generate("a.md", model.RenderOptions{})
	require.NoError(t, err)
	assert.Equal(t, "content of a.md", out)

	_, err = r.Generate("nope.md", model.RenderOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownTemplate))
}

func TestGenerateWrapsGeneratorError(t *testing.T) {
	boom := errors.New("boom")
	r, err := New(model.Template{
		TemplateDescriptor: model.TemplateDescriptor{Path: "x.json", Category: model.CategoryConfiguration},
		Generate:           func(model.RenderOptions) (string, error) { return "", boom },
	})
	require.NoError(t, err)

	_, err = r.Generate("x.json", model.RenderOptions{})
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "x.json")
}

func TestDefault(t *testing.T) {
	r := Default()

	all := r.ListAll()
	require.Len(t, all, 14)
	assert.Equal(t, content.PathVSCodeSettings, all[0].Path)

	critical := r.FilterCritical()
	require.NotEmpty(t, critical)
	assert.Less(t, len(critical), len(all))
	for _, d := range critical {
		assert.True(t, d.Critical)
	}

	for _, path := range r.Paths() {
		out, err := r.Generate(path, model.RenderOptions{Owner: "octo", Repo: "hello"})
		require.NoError(t, err, path)
		assert.NotEmpty(t, out, path)
	}
}

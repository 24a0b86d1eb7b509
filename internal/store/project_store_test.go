package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iflowkit/iflowkit-scaffold/internal/models"
)

const sampleProject = `version: 1
template: ./template
variables:
  repository:
    owner: foo
    name: baz
    url: https://github.com/foo/baz
  package:
    description: foo baz
  ci:
    codeclimate: true
    coveralls: false
endpoints:
  github: https://git.example.com/api/v3
`

func writeProject(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "iflowkit-scaffold.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestProjectStore_Read(t *testing.T) {
	path := writeProject(t, sampleProject)

	cfg, err := NewProjectStore(path, nil).Read()

	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "./template", cfg.Template)
	assert.Equal(t, "https://git.example.com/api/v3", cfg.Endpoints.GitHub)
	owner, ok := cfg.Lookup("repository.owner")
	assert.True(t, ok)
	assert.Equal(t, "foo", owner)
	enabled, _ := cfg.Lookup("ci.codeclimate")
	assert.Equal(t, true, enabled)
}

func TestProjectStore_ReadRejectsInvalid(t *testing.T) {
	tests := map[string]struct {
		content string
		want    string
	}{
		"missing version":  {"template: x\n", "version"},
		"future version":   {"version: 2\ntemplate: x\n", "must be one of"},
		"missing template": {"version: 1\n", "template"},
		"unknown field":    {"version: 1\ntemplate: x\nextra: 1\n", "field extra not found"},
		"bad endpoint":     {"version: 1\ntemplate: x\nendpoints:\n  coveralls: /api\n", "endpoints.coveralls"},
		"bad owner":        {"version: 1\ntemplate: x\nvariables:\n  repository:\n    owner: foo/bar\n", "repository.owner"},
		"relative url":     {"version: 1\ntemplate: x\nvariables:\n  repository:\n    url: foo/baz\n", "repository.url"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewProjectStore(writeProject(t, tt.content), nil).Read()
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestProjectStore_ReadOptional(t *testing.T) {
	cfg, err := NewProjectStore(filepath.Join(t.TempDir(), "missing.yaml"), nil).ReadOptional()
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestProjectStore_WriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "iflowkit-scaffold.yaml")
	s := NewProjectStore(path, nil)
	cfg := models.ProjectConfig{
		Version:  models.CurrentProjectSchemaVersion,
		Template: "/templates/go",
		Variables: map[string]any{
			"repository": map[string]any{"owner": "foo", "name": "baz"},
		},
	}

	require.NoError(t, s.Write(cfg, false))
	assert.ErrorIs(t, s.Write(cfg, false), ErrProjectExists)
	require.NoError(t, s.Write(cfg, true))

	got, err := s.Read()
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestProjectStore_TemplatePath(t *testing.T) {
	s := NewProjectStore(filepath.Join("/work", "proj", "iflowkit-scaffold.yaml"), nil)

	assert.Equal(t, filepath.Join("/work", "proj", "template"), s.TemplatePath(models.ProjectConfig{Template: "./template"}))
	assert.Equal(t, "/templates/go", s.TemplatePath(models.ProjectConfig{Template: "/templates/go"}))
	assert.Equal(t, "", s.TemplatePath(models.ProjectConfig{}))
}

func TestProjectStore_RoundTripKeepsRelativeTemplate(t *testing.T) {
	path := writeProject(t, sampleProject)
	s := NewProjectStore(path, nil)

	cfg, err := s.Read()
	require.NoError(t, err)
	require.NoError(t, s.Write(cfg, true))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "template: ./template")
}

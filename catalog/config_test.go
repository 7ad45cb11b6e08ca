package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const configYAML = `
types:
  - id: project
    fullName: Project
    indexName: facet-project
    attributes:
      - { id: schema, fullName: Schema, kind: STRING, filterable: true }
  - id: experiment
    fullName: Experiment
    indexName: facet-experiment
  - id: dataset
    fullName: Dataset
    indexName: facet-dataset
  - id: datafile
    fullName: Datafile
    indexName: facet-datafile
schemas:
  - id: "14"
    name: Default Project
    type: project
    parameters:
      - { id: "20", fullName: Project Purpose, kind: STRING }
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, configYAML))
	require.NoError(t, err)

	cat, err := cfg.Build()
	require.NoError(t, err)

	assert.Equal(t, "facet-project", cat.Type(TypeProject).IndexName)
	require.NotNil(t, cat.Schema("14"))
	assert.Equal(t, "Default Project", cat.Schema("14").Name)
}

func TestLoadConfig_Invalid(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "types:\n  - id: project\n    fullName: Project\n"))
	require.ErrorContains(t, err, "indexName required")

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	require.ErrorContains(t, err, "reading file")
}

func TestConfigValidate_BadKind(t *testing.T) {
	cfg := Config{Types: []Type{{
		ID: TypeProject, FullName: "Project", IndexName: "p",
		Attributes: []Attribute{{ID: "name", Kind: "TEXT"}},
	}}}
	require.ErrorContains(t, cfg.Validate(), "invalid data type")
}

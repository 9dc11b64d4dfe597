package skills

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/ats-scorer/internal/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	assert.NotEmpty(t, c.Version())

	cats := c.Categories()
	require.Len(t, cats, 5)
	names := make([]string, len(cats))
	for i, cat := range cats {
		names[i] = cat.Name
	}
	assert.Equal(t, []string{"programming_languages", "web_technologies", "databases", "cloud_platforms", "tools"}, names)
	assert.Contains(t, cats[0].Skills, "c++")
	assert.Contains(t, cats[0].Skills, "c#")
	assert.Contains(t, cats[1].Skills, "ruby on rails")
	assert.Contains(t, cats[3].Skills, "kubernetes")
	assert.Len(t, cats[0].Skills, 17)
}

func TestNewCatalog_NormalizesSkills(t *testing.T) {
	c, err := NewCatalog("v1", []Category{
		{Name: "tools", Skills: []string{" Git ", "git", "JIRA", ""}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"git", "jira"}, c.Categories()[0].Skills)
}

func TestNewCatalog_DuplicateCategory(t *testing.T) {
	_, err := NewCatalog("v1", []Category{
		{Name: "tools", Skills: []string{"git"}},
		{Name: "tools", Skills: []string{"jira"}},
	})
	assert.Error(t, err)
}

func TestCatalog_CategoriesReturnsCopy(t *testing.T) {
	c := DefaultCatalog()
	cats := c.Categories()
	cats[0].Skills[0] = "mutated"
	assert.NotEqual(t, "mutated", c.Categories()[0].Skills[0])
}

func TestParseCatalog_SchemaViolation(t *testing.T) {
	_, err := ParseCatalog([]byte(`{"version": "v1", "categories": []}`), "json")
	require.Error(t, err)

	var validationErr *schemas.ValidationError
	assert.True(t, errors.As(err, &validationErr))
}

func TestParseCatalog_MalformedYAML(t *testing.T) {
	_, err := ParseCatalog([]byte("version: [unclosed"), "yaml")
	assert.Error(t, err)
}

func TestLoadCatalog_YAMLAndJSON(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`version: fixture
categories:
  - name: databases
    skills: [Redis, postgresql]
`), 0o644))

	c, err := LoadCatalog(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "fixture", c.Version())
	assert.Equal(t, []string{"redis", "postgresql"}, c.Categories()[0].Skills)

	jsonPath := filepath.Join(dir, "catalog.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"version": "j", "categories": [{"name": "tools", "skills": ["git"]}]}`), 0o644))

	c, err = LoadCatalog(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "j", c.Version())
}

func TestLoadCatalog_MissingFile(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

// Package skills detects skills and keywords in résumés and job descriptions.
package skills

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/ats-scorer/internal/schemas"
	"go.yaml.in/yaml/v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Category is a named group of canonical skill strings
type Category struct {
	Name   string   `json:"name"`
	Skills []string `json:"skills"`
}

// Catalog is the static skill vocabulary. It is immutable after construction.
type Catalog struct {
	version    string
	categories []Category
}

type catalogFile struct {
	Version    string     `json:"version"`
	Categories []Category `json:"categories"`
}

// DefaultCatalog returns the built-in catalog
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultCatalogYAML, "yaml")
	if err != nil {
		panic(fmt.Sprintf("embedded skill catalog is invalid: %v", err))
	}
	return c
}

// LoadCatalog reads a catalog from a YAML or JSON file
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	format := "yaml"
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = "json"
	}

	c, err := ParseCatalog(data, format)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	return c, nil
}

// ParseCatalog decodes, schema-validates and normalizes a catalog.
// format is "yaml" or "json".
func ParseCatalog(data []byte, format string) (*Catalog, error) {
	jsonData := data
	if format == "yaml" {
		var raw interface{}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
		}
		var err error
		jsonData, err = json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to convert catalog YAML: %w", err)
		}
	}

	if err := schemas.Validate(schemas.Catalog, jsonData); err != nil {
		return nil, err
	}

	var file catalogFile
	if err := json.Unmarshal(jsonData, &file); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return NewCatalog(file.Version, file.Categories)
}

// NewCatalog builds a catalog from categories. Skill strings are trimmed,
// lower-cased and de-duplicated within each category, keeping first occurrence.
func NewCatalog(version string, categories []Category) (*Catalog, error) {
	seenCategories := make(map[string]bool, len(categories))
	out := make([]Category, 0, len(categories))

	for _, cat := range categories {
		name := strings.TrimSpace(cat.Name)
		if name == "" {
			return nil, fmt.Errorf("catalog category name is empty")
		}
		if seenCategories[name] {
			return nil, fmt.Errorf("duplicate catalog category %q", name)
		}
		seenCategories[name] = true

		seen := make(map[string]bool, len(cat.Skills))
		normalized := make([]string, 0, len(cat.Skills))
		for _, s := range cat.Skills {
			s = strings.ToLower(strings.TrimSpace(s))
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			normalized = append(normalized, s)
		}
		out = append(out, Category{Name: name, Skills: normalized})
	}

	return &Catalog{version: version, categories: out}, nil
}

// Version returns the catalog version label
func (c *Catalog) Version() string {
	return c.version
}

// Categories returns a copy of the categories in catalog order
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	for i, cat := range c.categories {
		out[i] = Category{Name: cat.Name, Skills: append([]string{}, cat.Skills...)}
	}
	return out
}

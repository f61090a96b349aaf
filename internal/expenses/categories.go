package expenses

import (
	"bytes"
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed categories.yaml
var categoriesFS embed.FS

// Category is one entry of the built-in expense category catalog.
type Category struct {
	ID    string `yaml:"id" json:"id"`
	Title string `yaml:"title" json:"title"`
}

type categoryCatalog struct {
	Categories []Category `yaml:"categories"`
}

// LoadCategories parses the embedded category catalog. Unknown YAML fields
// are rejected to catch typos in the manifest.
func LoadCategories() ([]Category, error) {
	data, err := categoriesFS.ReadFile("categories.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read category catalog: %w", err)
	}

	var catalog categoryCatalog
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&catalog); err != nil {
		return nil, fmt.Errorf("failed to parse category catalog: %w", err)
	}

	for _, cat := range catalog.Categories {
		if cat.ID == "" || cat.Title == "" {
			return nil, fmt.Errorf("category catalog entry missing id or title")
		}
	}

	return catalog.Categories, nil
}

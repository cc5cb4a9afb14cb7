package catalog

import (
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
)

// Fixture is a seed document. Shelves and authors are plain attribute
// mappings. A book mapping may also name its shelf by label under "shelf"
// and its authors by name under "authors".
type Fixture struct {
	Shelves []map[string]any `yaml:"shelves"`
	Authors []map[string]any `yaml:"authors"`
	Books   []map[string]any `yaml:"books"`
}

// ReadFixture decodes a YAML (or JSON) seed document.
func ReadFixture(r io.Reader) (*Fixture, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	var fx Fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("failed to decode fixture: %w", err)
	}
	return &fx, nil
}

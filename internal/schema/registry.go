package schema

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed schemas/*.graphql
var schemaFS embed.FS

// Schema represents a DefraDB collection schema.
type Schema struct {
	Name string // collection name, e.g. "CatalogOverlay"
	SDL  string
}

// collections lists the collections restyle needs, in creation order.
var collections = []string{
	"CatalogOverlay",
	"TransformMetric",
}

// All returns every schema with its SDL loaded from the embedded files.
func All() ([]Schema, error) {
	out := make([]Schema, 0, len(collections))
	for _, name := range collections {
		s, err := load(name)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Get returns a single schema by collection name.
func Get(name string) (*Schema, error) {
	for _, n := range collections {
		if n == name {
			s, err := load(n)
			if err != nil {
				return nil, err
			}
			return &s, nil
		}
	}
	return nil, fmt.Errorf("schema not found: %s", name)
}

func load(name string) (Schema, error) {
	content, err := schemaFS.ReadFile("schemas/" + strings.ToLower(name) + ".graphql")
	if err != nil {
		return Schema{}, fmt.Errorf("failed to read schema %s: %w", name, err)
	}
	return Schema{Name: name, SDL: string(content)}, nil
}

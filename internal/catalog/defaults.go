package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// DefaultSource supplies the bundled, read-only default catalog.
// Implementations must be deterministic and side-effect free.
type DefaultSource interface {
	ReadDefaults() ([]DefaultCategory, error)
}

type embeddedDefaults struct{}

// EmbeddedDefaults returns the default set compiled into the binary.
func EmbeddedDefaults() DefaultSource {
	return embeddedDefaults{}
}

func (embeddedDefaults) ReadDefaults() ([]DefaultCategory, error) {
	return ParseDefaults(defaultsYAML)
}

// ParseDefaults decodes a YAML list of categories in the bundled format.
func ParseDefaults(data []byte) ([]DefaultCategory, error) {
	var cats []DefaultCategory
	if err := yaml.Unmarshal(data, &cats); err != nil {
		return nil, fmt.Errorf("failed to parse default catalog: %w", err)
	}
	seen := make(map[string]bool, len(cats))
	for _, c := range cats {
		if c.Name == "" {
			return nil, fmt.Errorf("default catalog: %w: empty name", ErrInvalidName)
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("default catalog: %w: %q", ErrDuplicateName, c.Name)
		}
		seen[c.Name] = true
	}
	return cats, nil
}

// StaticDefaults serves a fixed list. Useful for tests and embedders.
type StaticDefaults []DefaultCategory

func (s StaticDefaults) ReadDefaults() ([]DefaultCategory, error) {
	out := make([]DefaultCategory, len(s))
	for i, c := range s {
		prompts := make([]DefaultPrompt, len(c.Prompts))
		copy(prompts, c.Prompts)
		out[i] = DefaultCategory{Name: c.Name, Prompts: prompts}
	}
	return out, nil
}

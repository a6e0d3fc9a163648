// Package catalog manages the categorized prompt list used to restyle photos.
//
// The catalog merges two sources:
//   - A bundled default set that ships with the binary and is never modified
//   - A user overlay persisted as a single opaque blob through a BlobStore
//
// On first use the defaults are migrated into overlay form and written out.
// From then on the overlay is the sole source of truth and every edit is
// persisted before the call returns.
package catalog

// Prompt is a single transformation instruction.
type Prompt struct {
	Label string `json:"label" yaml:"label" toml:"label"`
	Body  string `json:"body" yaml:"body" toml:"body"`
}

// Category groups prompts under a unique name.
// Prompt order is display order.
type Category struct {
	Name    string   `json:"name" yaml:"name" toml:"name"`
	Prompts []Prompt `json:"prompts" yaml:"prompts" toml:"prompts"`
}

// Catalog is the ordered list of categories shown to the user.
type Catalog struct {
	Categories []Category `json:"categories" yaml:"categories" toml:"categories"`
}

// Category returns the category with the given name.
// Names are compared exactly.
func (c *Catalog) Category(name string) (*Category, bool) {
	for i := range c.Categories {
		if c.Categories[i].Name == name {
			return &c.Categories[i], true
		}
	}
	return nil, false
}

// Names returns the category names in display order.
func (c Catalog) Names() []string {
	names := make([]string, len(c.Categories))
	for i, cat := range c.Categories {
		names[i] = cat.Name
	}
	return names
}

// PromptCount returns the total number of prompts across all categories.
func (c Catalog) PromptCount() int {
	n := 0
	for _, cat := range c.Categories {
		n += len(cat.Prompts)
	}
	return n
}

// Clone returns a deep copy. Mutating the copy never affects c.
func (c Catalog) Clone() Catalog {
	out := Catalog{Categories: make([]Category, len(c.Categories))}
	for i, cat := range c.Categories {
		prompts := make([]Prompt, len(cat.Prompts))
		copy(prompts, cat.Prompts)
		out.Categories[i] = Category{Name: cat.Name, Prompts: prompts}
	}
	return out
}

// DefaultPrompt is a prompt as shipped in the bundled default set.
type DefaultPrompt struct {
	Label string `yaml:"label" json:"label"`
	Body  string `yaml:"body" json:"body"`
}

// DefaultCategory is a category as shipped in the bundled default set.
type DefaultCategory struct {
	Name    string          `yaml:"category" json:"category"`
	Prompts []DefaultPrompt `yaml:"prompts" json:"prompts"`
}

// Source identifies where the cached catalog came from.
type Source string

const (
	SourceNone     Source = ""
	SourceOverlay  Source = "overlay"
	SourceDefaults Source = "defaults"
	SourceFallback Source = "fallback"
)

// Status describes the store's cache for diagnostics.
type Status struct {
	Loaded     bool   `json:"loaded"`
	Source     Source `json:"source"`
	Categories int    `json:"categories"`
	Prompts    int    `json:"prompts"`
	Err        string `json:"error,omitempty"`
}

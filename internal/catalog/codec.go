package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// FormatV1 marks a blob as being in overlay form.
// A blob carrying this marker is never migrated again.
const FormatV1 = "restyle.catalog/v1"

//go:embed overlay.schema.json
var overlaySchemaJSON []byte

var overlaySchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("overlay.schema.json", bytes.NewReader(overlaySchemaJSON)); err != nil {
		return nil, fmt.Errorf("failed to load overlay schema: %w", err)
	}
	schema, err := compiler.Compile("overlay.schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile overlay schema: %w", err)
	}
	return schema, nil
})

// overlayDoc is the persisted shape of the catalog.
type overlayDoc struct {
	Format     string     `json:"format"`
	Categories []Category `json:"categories"`
}

// Migrate converts the bundled default shape into a catalog.
// It preserves category order, prompt order and text exactly.
func Migrate(defaults []DefaultCategory) Catalog {
	out := Catalog{Categories: make([]Category, 0, len(defaults))}
	for _, d := range defaults {
		prompts := make([]Prompt, 0, len(d.Prompts))
		for _, p := range d.Prompts {
			prompts = append(prompts, Prompt{Label: p.Label, Body: p.Body})
		}
		out.Categories = append(out.Categories, Category{Name: d.Name, Prompts: prompts})
	}
	return out
}

// Encode serializes a catalog into an overlay blob.
func Encode(c Catalog) (string, error) {
	doc := overlayDoc{Format: FormatV1, Categories: make([]Category, len(c.Categories))}
	for i, cat := range c.Categories {
		if cat.Prompts == nil {
			cat.Prompts = []Prompt{}
		}
		doc.Categories[i] = cat
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("failed to encode catalog: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// Decode parses an overlay blob. The blob must already be in overlay form;
// use MigrateBlob first for anything that may predate it.
func Decode(blob string) (Catalog, error) {
	var raw any
	if err := json.Unmarshal([]byte(blob), &raw); err != nil {
		return Catalog{}, fmt.Errorf("%w: invalid JSON: %v", ErrStorageRead, err)
	}

	schema, err := overlaySchema()
	if err != nil {
		return Catalog{}, err
	}
	if err := schema.Validate(raw); err != nil {
		return Catalog{}, fmt.Errorf("%w: overlay does not match schema: %v", ErrStorageRead, err)
	}

	var doc overlayDoc
	if err := json.Unmarshal([]byte(blob), &doc); err != nil {
		return Catalog{}, fmt.Errorf("%w: %v", ErrStorageRead, err)
	}

	seen := make(map[string]bool, len(doc.Categories))
	for _, cat := range doc.Categories {
		if seen[cat.Name] {
			return Catalog{}, fmt.Errorf("%w: duplicate category %q", ErrStorageRead, cat.Name)
		}
		seen[cat.Name] = true
	}
	return Catalog{Categories: doc.Categories}, nil
}

// MigrateBlob brings a persisted blob into overlay form.
//
// A blob already marked with FormatV1 is returned unchanged with changed=false,
// so running MigrateBlob on its own output is a no-op. An unmarked blob holding
// a list in the bundled default shape is converted. Anything else is reported
// as ErrStorageRead.
func MigrateBlob(blob string) (migrated string, changed bool, err error) {
	trimmed := strings.TrimSpace(blob)
	if trimmed == "" {
		return "", false, fmt.Errorf("%w: empty overlay", ErrStorageRead)
	}

	switch trimmed[0] {
	case '{':
		var probe struct {
			Format *string `json:"format"`
		}
		if err := json.Unmarshal([]byte(trimmed), &probe); err != nil {
			return "", false, fmt.Errorf("%w: invalid JSON: %v", ErrStorageRead, err)
		}
		if probe.Format == nil {
			return "", false, fmt.Errorf("%w: overlay has no format marker", ErrStorageRead)
		}
		if *probe.Format != FormatV1 {
			return "", false, fmt.Errorf("%w: unsupported overlay format %q", ErrStorageRead, *probe.Format)
		}
		return blob, false, nil

	case '[':
		var legacy []DefaultCategory
		if err := json.Unmarshal([]byte(trimmed), &legacy); err != nil {
			return "", false, fmt.Errorf("%w: invalid legacy overlay: %v", ErrStorageRead, err)
		}
		seen := make(map[string]bool, len(legacy))
		for _, c := range legacy {
			if c.Name == "" || seen[c.Name] {
				return "", false, fmt.Errorf("%w: legacy overlay has empty or duplicate category %q", ErrStorageRead, c.Name)
			}
			seen[c.Name] = true
		}
		out, err := Encode(Migrate(legacy))
		if err != nil {
			return "", false, err
		}
		return out, true, nil
	}

	return "", false, fmt.Errorf("%w: unrecognized overlay", ErrStorageRead)
}

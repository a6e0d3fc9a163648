package catalog

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEmbeddedDefaults(t *testing.T) {
	defaults, err := EmbeddedDefaults().ReadDefaults()
	if err != nil {
		t.Fatalf("ReadDefaults failed: %v", err)
	}
	if len(defaults) != 12 {
		t.Errorf("expected 12 categories, got %d", len(defaults))
	}

	c := Migrate(defaults)
	if c.PromptCount() < 80 {
		t.Errorf("expected at least 80 prompts, got %d", c.PromptCount())
	}
	if _, ok := c.Category("Cartoon"); !ok {
		t.Error("expected a Cartoon category")
	}
	for _, cat := range c.Categories {
		for i, p := range cat.Prompts {
			if p.Label == "" || p.Body == "" {
				t.Errorf("%s[%d] has empty label or body", cat.Name, i)
			}
		}
	}

	again, _ := EmbeddedDefaults().ReadDefaults()
	if diff := cmp.Diff(defaults, again); diff != "" {
		t.Errorf("defaults not deterministic (-first +second):\n%s", diff)
	}
}

func TestParseDefaults_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{name: "duplicate", yaml: "- category: A\n- category: A\n", wantErr: ErrDuplicateName},
		{name: "empty name", yaml: "- prompts: []\n", wantErr: ErrInvalidName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseDefaults([]byte(tt.yaml)); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	if _, err := ParseDefaults([]byte("{not: [a list")); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestMigrate_PreservesOrderAndText(t *testing.T) {
	defaults := []DefaultCategory{
		{Name: "B", Prompts: []DefaultPrompt{{Label: "2", Body: " two "}, {Label: "1", Body: "one"}}},
		{Name: "A", Prompts: nil},
	}
	want := Catalog{Categories: []Category{
		{Name: "B", Prompts: []Prompt{{Label: "2", Body: " two "}, {Label: "1", Body: "one"}}},
		{Name: "A", Prompts: []Prompt{}},
	}}
	if diff := cmp.Diff(want, Migrate(defaults)); diff != "" {
		t.Errorf("Migrate mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeDecode(t *testing.T) {
	defaults, _ := EmbeddedDefaults().ReadDefaults()
	want := Migrate(defaults)
	want.Categories = append(want.Categories, Category{Name: "Symbols <&>", Prompts: []Prompt{
		{Label: "unicode", Body: "café ☕ \"quoted\"\ttab"},
	}})

	blob, err := Encode(want)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	got, err := Decode(blob)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEncode_NilPromptsBecomeEmptyList(t *testing.T) {
	blob, err := Encode(Catalog{Categories: []Category{{Name: "Empty"}}})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if _, err := Decode(blob); err != nil {
		t.Errorf("encoded empty category does not validate: %v\n%s", err, blob)
	}
}

func TestMigrateBlob(t *testing.T) {
	current, _ := Encode(Catalog{Categories: []Category{{Name: "X", Prompts: []Prompt{}}}})

	tests := []struct {
		name        string
		blob        string
		wantChanged bool
		wantErr     bool
	}{
		{name: "current format", blob: current, wantChanged: false},
		{name: "legacy list", blob: `[{"category":"L","prompts":[{"label":"a","body":"b"}]}]`, wantChanged: true},
		{name: "legacy empty list", blob: `[]`, wantChanged: true},
		{name: "legacy duplicate", blob: `[{"category":"L"},{"category":"L"}]`, wantErr: true},
		{name: "future format", blob: `{"format":"restyle.catalog/v2","categories":[]}`, wantErr: true},
		{name: "empty", blob: "   ", wantErr: true},
		{name: "garbage", blob: "hello", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, changed, err := MigrateBlob(tt.blob)
			if tt.wantErr {
				if !errors.Is(err, ErrStorageRead) {
					t.Fatalf("expected ErrStorageRead, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("MigrateBlob failed: %v", err)
			}
			if changed != tt.wantChanged {
				t.Errorf("changed = %v, want %v", changed, tt.wantChanged)
			}
			if !changed && out != tt.blob {
				t.Errorf("unchanged blob was rewritten")
			}

			// Migrating the output again is a no-op.
			again, changedAgain, err := MigrateBlob(out)
			if err != nil {
				t.Fatalf("second MigrateBlob failed: %v", err)
			}
			if changedAgain || again != out {
				t.Errorf("migration is not idempotent")
			}
			if _, err := Decode(out); err != nil {
				t.Errorf("migrated blob does not decode: %v", err)
			}
		})
	}
}

func TestCatalogClone(t *testing.T) {
	orig := Catalog{Categories: []Category{{Name: "A", Prompts: []Prompt{{Label: "l", Body: "b"}}}}}
	cp := orig.Clone()
	cp.Categories[0].Prompts[0].Body = "changed"
	cp.Categories[0].Prompts = append(cp.Categories[0].Prompts, Prompt{})
	cp.Categories[0].Name = "B"

	if orig.Categories[0].Name != "A" || orig.Categories[0].Prompts[0].Body != "b" || len(orig.Categories[0].Prompts) != 1 {
		t.Errorf("clone shares state with original: %+v", orig)
	}
}

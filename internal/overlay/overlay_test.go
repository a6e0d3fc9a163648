package overlay

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackzampolin/restyle/internal/catalog"
	"github.com/jackzampolin/restyle/internal/config"
	"github.com/jackzampolin/restyle/internal/defra"
	"github.com/jackzampolin/restyle/internal/home"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// checkBlobStore runs the behavior every backend must share.
func checkBlobStore(t *testing.T, s catalog.BlobStore) {
	t.Helper()
	ctx := t.Context()

	if _, ok, err := s.ReadBlob(ctx); err != nil || ok {
		t.Fatalf("empty store: ok=%v err=%v, want ok=false err=nil", ok, err)
	}

	blobs := []string{
		`{"format":"restyle.catalog/v1","categories":[]}`,
		"line one\nline two\ttab \"quotes\" café ☕",
		"",
	}
	for _, want := range blobs {
		if err := s.WriteBlob(ctx, want); err != nil {
			t.Fatalf("WriteBlob failed: %v", err)
		}
		got, ok, err := s.ReadBlob(ctx)
		if err != nil || !ok {
			t.Fatalf("ReadBlob after write: ok=%v err=%v", ok, err)
		}
		if got != want {
			t.Errorf("ReadBlob = %q, want %q", got, want)
		}
	}
}

func TestMemoryStore(t *testing.T) {
	checkBlobStore(t, NewMemoryStore())

	m := NewMemoryStore()
	m.QuarantineBlob(t.Context(), "bad")
	if q := m.Quarantined(); len(q) != 1 || q[0] != "bad" {
		t.Errorf("unexpected quarantine: %v", q)
	}
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "catalog.json")
	checkBlobStore(t, NewFileStore(path))

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestFileStore_Quarantine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")
	fs := NewFileStore(path)
	fs.now = func() time.Time { return time.Unix(1700000000, 0) }

	if err := fs.WriteBlob(t.Context(), "live"); err != nil {
		t.Fatalf("WriteBlob failed: %v", err)
	}
	if err := fs.QuarantineBlob(t.Context(), "{{corrupt"); err != nil {
		t.Fatalf("QuarantineBlob failed: %v", err)
	}

	data, err := os.ReadFile(path + ".corrupt-1700000000")
	if err != nil {
		t.Fatalf("quarantine file missing: %v", err)
	}
	if string(data) != "{{corrupt" {
		t.Errorf("quarantine content = %q", data)
	}
	live, _, _ := fs.ReadBlob(t.Context())
	if live != "live" {
		t.Errorf("quarantine touched the live overlay: %q", live)
	}
}

func TestFileStore_ReadError(t *testing.T) {
	// A directory where the file should be cannot be read as a blob.
	dir := t.TempDir()
	if _, _, err := NewFileStore(dir).ReadBlob(t.Context()); err == nil {
		t.Error("expected error reading a directory")
	}
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "db", "restyle.db"))
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	defer s.Close()

	checkBlobStore(t, s)
}

func TestSQLiteStore_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "restyle.db")
	ctx := t.Context()

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	if err := s.WriteBlob(ctx, "persisted"); err != nil {
		t.Fatalf("WriteBlob failed: %v", err)
	}
	s.now = func() time.Time { return time.Unix(42, 0) }
	if err := s.QuarantineBlob(ctx, "bad"); err != nil {
		t.Fatalf("QuarantineBlob failed: %v", err)
	}
	s.Close()

	reopened, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	got, ok, err := reopened.ReadBlob(ctx)
	if err != nil || !ok || got != "persisted" {
		t.Errorf("ReadBlob after reopen = %q ok=%v err=%v", got, ok, err)
	}
	keys, err := reopened.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if len(keys) != 2 || keys[0] != "catalog" || keys[1] != "catalog.corrupt.42" {
		t.Errorf("unexpected keys: %v", keys)
	}
}

// fakeDefra is a minimal CatalogOverlay collection behind the GraphQL endpoint.
type fakeDefra struct {
	mu      sync.Mutex
	docs    map[string]string
	queries []string
}

func (f *fakeDefra) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req defra.GQLRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
			return
		}

		f.mu.Lock()
		defer f.mu.Unlock()
		f.queries = append(f.queries, req.Query)

		var data map[string]any
		switch {
		case strings.HasPrefix(req.Query, "query("):
			key, _ := req.Variables["v0"].(string)
			docs := []any{}
			if blob, ok := f.docs[key]; ok {
				docs = append(docs, map[string]any{"_docID": "bae-" + key, "blob": blob})
			}
			data = map[string]any{Collection: docs}
		case strings.Contains(req.Query, "upsert_"+Collection):
			f.docs["catalog"] = extractBlob(t, req.Query, "update: ")
			data = map[string]any{"upsert_" + Collection: []any{map[string]any{"_docID": "bae-catalog"}}}
		case strings.Contains(req.Query, "create_"+Collection):
			f.docs["quarantined"] = extractBlob(t, req.Query, "input: ")
			data = map[string]any{"create_" + Collection: []any{map[string]any{"_docID": "bae-q"}}}
		default:
			t.Errorf("unexpected query: %s", req.Query)
		}
		json.NewEncoder(w).Encode(map[string]any{"data": data})
	}
}

// extractBlob pulls the blob string literal out of a generated mutation.
func extractBlob(t *testing.T, query, after string) string {
	t.Helper()
	i := strings.Index(query, after)
	if i < 0 {
		t.Fatalf("no %q in %s", after, query)
	}
	rest := query[i+len(after):]
	j := strings.Index(rest, "blob: ")
	if j < 0 {
		t.Fatalf("no blob in %s", rest)
	}
	dec := json.NewDecoder(strings.NewReader(rest[j+len("blob: "):]))
	var blob string
	if err := dec.Decode(&blob); err != nil {
		t.Fatalf("failed to decode blob literal: %v", err)
	}
	return blob
}

func TestDefraStore(t *testing.T) {
	fake := &fakeDefra{docs: map[string]string{}}
	server := httptest.NewServer(fake.handler(t))
	defer server.Close()

	store := NewDefraStore(defra.NewClient(server.URL))
	checkBlobStore(t, store)

	if err := store.QuarantineBlob(t.Context(), "bad \"blob\""); err != nil {
		t.Fatalf("QuarantineBlob failed: %v", err)
	}
	if fake.docs["quarantined"] != "bad \"blob\"" {
		t.Errorf("quarantined blob = %q", fake.docs["quarantined"])
	}
}

func TestDefraStore_GraphQLError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"collection not found"}]}`))
	}))
	defer server.Close()

	store := NewDefraStore(defra.NewClient(server.URL))
	if _, _, err := store.ReadBlob(t.Context()); err == nil || !strings.Contains(err.Error(), "collection not found") {
		t.Errorf("expected graphql error, got %v", err)
	}
	if err := store.WriteBlob(t.Context(), "x"); err == nil {
		t.Error("expected write error")
	}
}

func TestOpen(t *testing.T) {
	h, _ := home.New(t.TempDir())
	cfg := config.DefaultConfig()

	for _, backend := range []string{config.BackendFile, config.BackendSQLite, config.BackendMemory} {
		t.Run(backend, func(t *testing.T) {
			cfg.Storage.Backend = backend
			b, err := Open(t.Context(), OptionsFromConfig(cfg, h), quietLogger())
			if err != nil {
				t.Fatalf("Open failed: %v", err)
			}
			defer b.Close()

			if b.Name != backend {
				t.Errorf("Name = %q, want %q", b.Name, backend)
			}
			if _, ok := b.Store.(catalog.Quarantiner); !ok {
				t.Errorf("%s backend does not support quarantine", backend)
			}
			checkBlobStore(t, b.Store)
		})
	}

	t.Run("file path defaults to home", func(t *testing.T) {
		cfg.Storage.Backend = config.BackendFile
		b, _ := Open(t.Context(), OptionsFromConfig(cfg, h), quietLogger())
		if b.FilePath != h.CatalogPath() {
			t.Errorf("FilePath = %q, want %q", b.FilePath, h.CatalogPath())
		}
	})

	t.Run("defra without client", func(t *testing.T) {
		if _, err := Open(t.Context(), Options{Backend: config.BackendDefra}, quietLogger()); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("defra registers schema", func(t *testing.T) {
		var schemaCalls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/v0/schema" {
				schemaCalls.Add(1)
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		b, err := Open(t.Context(), Options{Backend: config.BackendDefra, Defra: defra.NewClient(server.URL)}, quietLogger())
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		if b.Name != config.BackendDefra || schemaCalls.Load() != 1 {
			t.Errorf("name=%q schemaCalls=%d", b.Name, schemaCalls.Load())
		}
	})

	t.Run("unknown backend", func(t *testing.T) {
		if _, err := Open(t.Context(), Options{Backend: "tape"}, quietLogger()); err == nil {
			t.Error("expected error")
		}
	})
}

// The catalog must survive a process restart on every durable backend.
func TestCatalogDurability(t *testing.T) {
	dir := t.TempDir()
	backends := map[string]func(t *testing.T) (catalog.BlobStore, func()){
		"file": func(t *testing.T) (catalog.BlobStore, func()) {
			return NewFileStore(filepath.Join(dir, "catalog.json")), func() {}
		},
		"sqlite": func(t *testing.T) (catalog.BlobStore, func()) {
			s, err := OpenSQLite(filepath.Join(dir, "restyle.db"))
			if err != nil {
				t.Fatalf("OpenSQLite failed: %v", err)
			}
			return s, func() { s.Close() }
		},
	}

	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := t.Context()

			blobs, closeFn := open(t)
			first := catalog.NewStore(catalog.EmbeddedDefaults(), blobs, catalog.WithLogger(quietLogger()))
			if err := first.UpdatePrompt(ctx, "Anime", 0, "Ghibli Remix", "A new body"); err != nil {
				t.Fatalf("UpdatePrompt failed: %v", err)
			}
			closeFn()

			// Simulated restart: new backend handle, new store.
			blobs, closeFn = open(t)
			defer closeFn()
			second := catalog.NewStore(catalog.EmbeddedDefaults(), blobs, catalog.WithLogger(quietLogger()))
			p, err := second.Prompt(ctx, "Anime", 0)
			if err != nil {
				t.Fatalf("Prompt failed: %v", err)
			}
			if p.Label != "Ghibli Remix" || p.Body != "A new body" {
				t.Errorf("edit did not survive restart: %+v", p)
			}
		})
	}
}

func TestFileCorruptionIsQuarantined(t *testing.T) {
	ctx := t.Context()
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte("not json at all"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	s := catalog.NewStore(catalog.EmbeddedDefaults(), NewFileStore(path), catalog.WithLogger(quietLogger()))
	c, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(c.Categories) != 12 {
		t.Errorf("expected default categories, got %d", len(c.Categories))
	}

	matches, _ := filepath.Glob(path + ".corrupt-*")
	if len(matches) != 1 {
		t.Fatalf("expected one quarantine file, got %v", matches)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "not json at all" {
		t.Errorf("corrupt overlay was overwritten on load")
	}
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")

	own := NewFileStore(path)
	var calls atomic.Int32
	w, err := NewWatcher(own, func() { calls.Add(1) }, quietLogger())
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	w.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	go w.Run(ctx)

	// Unrelated files are ignored.
	os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644)
	time.Sleep(100 * time.Millisecond)
	if calls.Load() != 0 {
		t.Fatalf("watcher fired for unrelated file")
	}

	// Writes made through the watched store are its own.
	if err := own.WriteBlob(ctx, "mine"); err != nil {
		t.Fatalf("WriteBlob failed: %v", err)
	}
	time.Sleep(150 * time.Millisecond)
	if calls.Load() != 0 {
		t.Fatalf("watcher fired for the store's own write")
	}

	if err := NewFileStore(path).WriteBlob(ctx, "new"); err != nil {
		t.Fatalf("WriteBlob failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && calls.Load() == 0 {
		time.Sleep(20 * time.Millisecond)
	}
	if calls.Load() == 0 {
		t.Error("watcher did not fire after overlay rewrite")
	}
}

package schema

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/jackzampolin/restyle/internal/defra"
)

func TestAll(t *testing.T) {
	schemas, err := All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(schemas) != len(collections) {
		t.Fatalf("expected %d schemas, got %d", len(collections), len(schemas))
	}
	for _, s := range schemas {
		if !strings.Contains(s.SDL, "type "+s.Name+" {") {
			t.Errorf("%s SDL missing type definition: %s", s.Name, s.SDL)
		}
	}
}

func TestGet(t *testing.T) {
	t.Run("existing schema", func(t *testing.T) {
		s, err := Get("CatalogOverlay")
		if err != nil {
			t.Fatalf("Get error = %v", err)
		}
		if s.SDL == "" {
			t.Error("SDL is empty")
		}
	})

	t.Run("unknown schema", func(t *testing.T) {
		if _, err := Get("Job"); err == nil {
			t.Error("expected error for unknown schema")
		}
	})
}

func TestInitialize(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
	}{
		{name: "registered", status: http.StatusOK},
		{name: "already exists", status: http.StatusBadRequest, body: "collection already exists. Name: CatalogOverlay"},
		{name: "syntax error", status: http.StatusBadRequest, body: "invalid schema syntax", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/v0/schema" {
					t.Errorf("unexpected path: %s", r.URL.Path)
				}
				calls.Add(1)
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			err := Initialize(t.Context(), defra.NewClient(server.URL), logger)
			if (err != nil) != tt.wantErr {
				t.Errorf("Initialize() error = %v, wantErr %v", err, tt.wantErr)
			}
			want := int32(len(collections))
			if tt.wantErr {
				want = 1 // stops at the first failure
			}
			if calls.Load() != want {
				t.Errorf("expected %d schema requests, got %d", want, calls.Load())
			}
		})
	}
}

func TestIsAlreadyExistsError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"already exists", errWithMsg("collection already exists. Name: CatalogOverlay"), true},
		{"other error", errWithMsg("invalid syntax"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isAlreadyExistsError(tt.err); got != tt.want {
				t.Errorf("isAlreadyExistsError() = %v, want %v", got, tt.want)
			}
		})
	}
}

type errWithMsg string

func (e errWithMsg) Error() string { return string(e) }

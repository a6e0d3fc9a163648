package defra

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// gqlServer answers every GraphQL request with body and records the last request.
func gqlServer(t *testing.T, body string, last *GQLRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v0/graphql" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if last != nil {
			if err := json.NewDecoder(r.Body).Decode(last); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{"healthy", http.StatusOK, false},
		{"unavailable", http.StatusServiceUnavailable, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/health-check" {
					t.Errorf("unexpected path: %s", r.URL.Path)
				}
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			err := NewClient(srv.URL).HealthCheck(t.Context())
			if (err != nil) != tt.wantErr {
				t.Fatalf("HealthCheck() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrUnhealthy) {
				t.Errorf("expected ErrUnhealthy, got %v", err)
			}
		})
	}
}

func TestHealthCheckUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if err := NewClient(url).HealthCheck(t.Context()); !errors.Is(err, ErrUnhealthy) {
		t.Fatalf("expected ErrUnhealthy, got %v", err)
	}
}

func TestNewClientTrimsSlash(t *testing.T) {
	c := NewClient("http://localhost:9181/")
	if c.URL() != "http://localhost:9181" {
		t.Errorf("URL() = %q", c.URL())
	}
}

func TestExecute(t *testing.T) {
	var req GQLRequest
	srv := gqlServer(t, `{"data":{"Thing":[{"_docID":"a"},{"_docID":"b"}]}}`, &req)

	resp, err := NewClient(srv.URL).Execute(t.Context(), "query { Thing { _docID } }", map[string]any{"v0": "x"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if req.Query != "query { Thing { _docID } }" {
		t.Errorf("query = %q", req.Query)
	}
	if req.Variables["v0"] != "x" {
		t.Errorf("variables = %v", req.Variables)
	}
	if resp.Error() != "" {
		t.Errorf("unexpected error %q", resp.Error())
	}
	docs := resp.Docs("Thing")
	if len(docs) != 2 || docs[1]["_docID"] != "b" {
		t.Errorf("Docs() = %v", docs)
	}
	if resp.Docs("Missing") != nil {
		t.Error("expected nil docs for missing key")
	}
}

func TestExecuteErrors(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("boom"))
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL).Execute(t.Context(), "{}", nil)
		if err == nil || !strings.Contains(err.Error(), "boom") {
			t.Fatalf("expected server error, got %v", err)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer srv.Close()

		if _, err := NewClient(srv.URL).Execute(t.Context(), "{}", nil); err == nil {
			t.Fatal("expected error for empty response")
		}
	})

	t.Run("graphql error", func(t *testing.T) {
		srv := gqlServer(t, `{"errors":[{"message":"bad field"}]}`, nil)

		resp, err := NewClient(srv.URL).Execute(t.Context(), "{}", nil)
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if resp.Error() != "bad field" {
			t.Errorf("Error() = %q", resp.Error())
		}
	})
}

func TestAddSchema(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v0/schema" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		b, _ := io.ReadAll(r.Body)
		got = string(b)
		if strings.Contains(got, "Broken") {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte("parse error"))
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if err := c.AddSchema(t.Context(), "type Thing { name: String }"); err != nil {
		t.Fatalf("AddSchema() error = %v", err)
	}
	if got != "type Thing { name: String }" {
		t.Errorf("schema body = %q", got)
	}

	err := c.AddSchema(t.Context(), "type Broken {")
	if err == nil || !strings.Contains(err.Error(), "parse error") {
		t.Fatalf("expected schema error, got %v", err)
	}
}

func TestCreate(t *testing.T) {
	var req GQLRequest
	srv := gqlServer(t, `{"data":{"create_Thing":[{"_docID":"bae-1"}]}}`, &req)

	id, err := NewClient(srv.URL).Create(t.Context(), "Thing", map[string]any{"name": "a", "count": 2})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if id != "bae-1" {
		t.Errorf("id = %q", id)
	}
	want := `mutation { create_Thing(input: {count: 2, name: "a"}) { _docID } }`
	if req.Query != want {
		t.Errorf("query mismatch (-want +got):\n%s", cmp.Diff(want, req.Query))
	}
}

func TestCreateGraphQLError(t *testing.T) {
	srv := gqlServer(t, `{"errors":[{"message":"no such collection"}]}`, nil)

	_, err := NewClient(srv.URL).Create(t.Context(), "Thing", map[string]any{"name": "a"})
	if err == nil || !strings.Contains(err.Error(), "no such collection") {
		t.Fatalf("expected create error, got %v", err)
	}
}

func TestUpsert(t *testing.T) {
	var req GQLRequest
	srv := gqlServer(t, `{"data":{"upsert_Thing":[{"_docID":"bae-2"}]}}`, &req)

	id, err := NewClient(srv.URL).Upsert(t.Context(), "Thing",
		map[string]any{"key": map[string]any{"_eq": "k"}},
		map[string]any{"key": "k", "blob": "v"},
		map[string]any{"blob": "v"},
	)
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if id != "bae-2" {
		t.Errorf("id = %q", id)
	}
	want := `mutation { upsert_Thing(filter: {key: {_eq: "k"}}, create: {blob: "v", key: "k"}, update: {blob: "v"}) { _docID } }`
	if req.Query != want {
		t.Errorf("query mismatch (-want +got):\n%s", cmp.Diff(want, req.Query))
	}
}

func TestValueToGraphQL(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"string", "hi", `"hi"`},
		{"escaped string", "a \"q\"\nb", `"a \"q\"\nb"`},
		{"int", 3, "3"},
		{"int64", int64(4), "4"},
		{"float", 1.5, "1.5"},
		{"bool", true, "true"},
		{"list", []any{"a", 1}, `["a", 1]`},
		{"nested", map[string]any{"b": 1, "a": "x"}, `{a: "x", b: 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := valueToGraphQL(tt.in)
			if err != nil {
				t.Fatalf("valueToGraphQL() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("valueToGraphQL() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestQueryBuilder(t *testing.T) {
	tests := []struct {
		name     string
		build    func() *QueryBuilder
		want     string
		wantVars map[string]any
	}{
		{
			name:     "bare",
			build:    func() *QueryBuilder { return NewQuery("Thing") },
			want:     "{ Thing { _docID } }",
			wantVars: map[string]any{},
		},
		{
			name: "filter fields limit",
			build: func() *QueryBuilder {
				return NewQuery("Thing").Filter("key", "k").Filter("n", 2).Fields("_docID", "blob").Limit(1)
			},
			want:     "query($v0: String, $v1: Int) { Thing(filter: {key: {_eq: $v0}, n: {_eq: $v1}}, limit: 1) { _docID blob } }",
			wantVars: map[string]any{"v0": "k", "v1": 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, vars := tt.build().Build()
			if got != tt.want {
				t.Errorf("Build() mismatch (-want +got):\n%s", cmp.Diff(tt.want, got))
			}
			if diff := cmp.Diff(tt.wantVars, vars); diff != "" {
				t.Errorf("vars mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestQueryBuilderExecute(t *testing.T) {
	var req GQLRequest
	srv := gqlServer(t, `{"data":{"Thing":[{"_docID":"x","blob":"{}"}]}}`, &req)

	resp, err := NewQuery("Thing").Filter("key", "k").Fields("blob").Execute(t.Context(), NewClient(srv.URL))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if req.Variables["v0"] != "k" {
		t.Errorf("variables = %v", req.Variables)
	}
	if docs := resp.Docs("Thing"); len(docs) != 1 || docs[0]["blob"] != "{}" {
		t.Errorf("Docs() = %v", docs)
	}
}

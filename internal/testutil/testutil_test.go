package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSanitizeName(t *testing.T) {
	tests := map[string]string{
		"TestServer/defra_backend": "TestServer-defra-backend",
		"a b.c":                    "abc",
		strings.Repeat("x", 40):    strings.Repeat("x", 30),
	}
	for in, want := range tests {
		if got := sanitizeName(in); got != want {
			t.Errorf("sanitizeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUniqueContainerName(t *testing.T) {
	a := UniqueContainerName(t, "defra")
	b := UniqueContainerName(t, "defra")
	if a == b {
		t.Errorf("names not unique: %s", a)
	}
	if !strings.HasPrefix(a, "restyle-test-defra-TestUniqueContainerName-") {
		t.Errorf("unexpected name %s", a)
	}
}

func TestWaitForOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	if err := WaitForOK(srv.URL, time.Second); err != nil {
		t.Fatalf("WaitForOK() error = %v", err)
	}

	port, err := FindFreePort()
	if err != nil {
		t.Fatal(err)
	}
	if err := WaitForOK("http://127.0.0.1:"+port, 600*time.Millisecond); err == nil {
		t.Error("expected timeout for closed port")
	}
}

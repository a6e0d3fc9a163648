package endpoints

import (
	"io/fs"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/restyle/internal/api"
	"github.com/jackzampolin/restyle/web"
)

// StaticEndpoint serves the embedded catalog browser.
// Unknown paths fall back to index.html.
type StaticEndpoint struct{}

var _ api.Endpoint = (*StaticEndpoint)(nil)

func (e *StaticEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/{path...}", e.handler
}

func (e *StaticEndpoint) RequiresCatalog() bool { return false }

// Command returns nil; there is nothing to call from the CLI.
func (e *StaticEndpoint) Command(_ func() string) *cobra.Command {
	return nil
}

func (e *StaticEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	distFS, err := web.DistFS()
	if err != nil {
		http.Error(w, "frontend not available", http.StatusInternalServerError)
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/")
	if name != "" {
		if f, err := distFS.Open(name); err == nil {
			f.Close()
			http.FileServer(http.FS(distFS)).ServeHTTP(w, r)
			return
		}
	}

	index, err := fs.ReadFile(distFS, "index.html")
	if err != nil {
		http.Error(w, "frontend not available", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(index)
}

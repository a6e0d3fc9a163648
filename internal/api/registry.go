package api

import (
	"net/http"
	"strings"

	"github.com/spf13/cobra"
)

// Registry holds all registered endpoints.
type Registry struct {
	endpoints []Endpoint
}

// NewRegistry creates a new endpoint registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds endpoints to the registry.
func (r *Registry) Register(eps ...Endpoint) {
	r.endpoints = append(r.endpoints, eps...)
}

// RegisterRoutes registers all endpoint HTTP routes with the given mux.
// ready wraps handlers whose endpoint requires the catalog.
func (r *Registry) RegisterRoutes(mux *http.ServeMux, ready func(http.HandlerFunc) http.HandlerFunc) {
	for _, ep := range r.endpoints {
		method, path, handler := ep.Route()
		if ep.RequiresCatalog() && ready != nil {
			handler = ready(handler)
		}
		mux.HandleFunc(method+" "+path, handler)
	}
}

// BuildCommands returns the "api" command tree. Commands whose Use begins
// with a group word ("catalog list") are nested under that group.
func (r *Registry) BuildCommands(getServerURL func() string) *cobra.Command {
	apiCmd := &cobra.Command{
		Use:   "api",
		Short: "Commands that call the running server",
		Long: `API commands call the running restyle server via HTTP.

These commands require a running server (restyle serve).
Use --server to specify a custom server URL.

Examples:
  restyle api health
  restyle api catalog list
  restyle api prompt add Cartoon "Muppets" "Redraw everyone as a Muppet"
  restyle api transform ./me.jpg Cartoon 0`,
	}

	groups := map[string]*cobra.Command{}
	for _, ep := range r.endpoints {
		cmd := ep.Command(getServerURL)
		if cmd == nil {
			continue
		}
		group, rest, nested := strings.Cut(cmd.Use, " ")
		if !nested || !isGroup(group) {
			apiCmd.AddCommand(cmd)
			continue
		}
		parent, ok := groups[group]
		if !ok {
			parent = &cobra.Command{Use: group, Short: groupShort[group]}
			groups[group] = parent
			apiCmd.AddCommand(parent)
		}
		cmd.Use = rest
		parent.AddCommand(cmd)
	}

	return apiCmd
}

var groupShort = map[string]string{
	"catalog":  "Inspect and reset the prompt catalog",
	"category": "Manage catalog categories",
	"prompt":   "Manage prompts within a category",
	"metrics":  "Inspect transform history and latency",
}

func isGroup(word string) bool {
	_, ok := groupShort[word]
	return ok
}

// Endpoints returns all registered endpoints.
func (r *Registry) Endpoints() []Endpoint {
	return r.endpoints
}

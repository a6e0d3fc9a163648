// Package api pairs each HTTP route of the restyle server with the CLI
// command that calls it.
package api

import (
	"net/http"

	"github.com/spf13/cobra"
)

// Endpoint defines both an HTTP route and its corresponding CLI command.
type Endpoint interface {
	// Route returns the HTTP method, path, and handler for this endpoint.
	Route() (method, path string, handler http.HandlerFunc)

	// RequiresCatalog reports whether the handler needs the catalog store.
	// Such routes answer 503 until the overlay backend has been opened.
	RequiresCatalog() bool

	// Command returns a Cobra command that calls this endpoint via HTTP.
	// getServerURL is evaluated when the command runs, after flags are parsed.
	Command(getServerURL func() string) *cobra.Command
}

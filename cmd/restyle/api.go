package main

import (
	"github.com/jackzampolin/restyle/internal/api"
	"github.com/jackzampolin/restyle/internal/server/endpoints"
)

var serverURL string

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

func init() {
	registry := api.NewRegistry()
	registry.Register(endpoints.All(endpoints.Config{})...)

	apiCmd := registry.BuildCommands(getServerURL)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8080", "Server URL",
	)

	rootCmd.AddCommand(apiCmd)
}

package endpoints

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/restyle/internal/api"
	"github.com/jackzampolin/restyle/internal/catalog"
	"github.com/jackzampolin/restyle/internal/defra"
	"github.com/jackzampolin/restyle/internal/svcctx"
)

// HealthResponse is the response for health check endpoints.
type HealthResponse struct {
	Status  string `json:"status"`
	Catalog string `json:"catalog,omitempty"`
	Defra   string `json:"defra,omitempty"`
}

// HealthEndpoint handles GET /health.
type HealthEndpoint struct{}

func (e *HealthEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/health", e.handler
}

func (e *HealthEndpoint) RequiresCatalog() bool { return false }

// handler godoc
//
//	@Summary	Liveness check
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	HealthResponse
//	@Router		/health [get]
func (e *HealthEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (e *HealthEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp HealthResponse
			if err := client.Get(cmd.Context(), "/health", &resp); err != nil {
				return err
			}
			fmt.Printf("Status: %s\n", resp.Status)
			return nil
		},
	}
}

// ReadyEndpoint handles GET /ready.
type ReadyEndpoint struct{}

func (e *ReadyEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/ready", e.handler
}

func (e *ReadyEndpoint) RequiresCatalog() bool { return false }

// handler godoc
//
//	@Summary		Readiness check
//	@Description	Ready once the catalog loads. With the defra backend DefraDB must also be healthy.
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Failure		503	{object}	HealthResponse
//	@Router			/ready [get]
func (e *ReadyEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Catalog: "ok"}
	status := http.StatusOK

	store := svcctx.CatalogFrom(r.Context())
	if store == nil {
		resp.Catalog = "not_initialized"
		status = http.StatusServiceUnavailable
	} else if _, err := store.Load(r.Context()); err != nil {
		resp.Catalog = "unavailable"
		status = http.StatusServiceUnavailable
	}

	if client := svcctx.DefraClientFrom(r.Context()); client != nil {
		resp.Defra = "ok"
		if err := client.HealthCheck(r.Context()); err != nil {
			resp.Defra = "unhealthy"
			status = http.StatusServiceUnavailable
		}
	}

	if status != http.StatusOK {
		resp.Status = "degraded"
	}
	writeJSON(w, status, resp)
}

func (e *ReadyEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "ready",
		Short: "Check server readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp HealthResponse
			if err := client.Get(cmd.Context(), "/ready", &resp); err != nil {
				return err
			}
			fmt.Printf("Status:  %s\n", resp.Status)
			fmt.Printf("Catalog: %s\n", resp.Catalog)
			if resp.Defra != "" {
				fmt.Printf("Defra:   %s\n", resp.Defra)
			}
			return nil
		},
	}
}

// StatusResponse is the detailed status response.
type StatusResponse struct {
	Server    string         `json:"server"`
	Backend   string         `json:"backend"`
	Catalog   catalog.Status `json:"catalog"`
	Transform string         `json:"transform"`
	Defra     *DefraStatus   `json:"defra,omitempty"`
}

// DefraStatus shows DefraDB container and health status.
type DefraStatus struct {
	Container string `json:"container,omitempty"`
	Health    string `json:"health"`
	URL       string `json:"url"`
}

// StatusEndpoint handles GET /status.
type StatusEndpoint struct {
	// DefraManager is set when the server manages the DefraDB container.
	DefraManager *defra.DockerManager
}

func (e *StatusEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/status", e.handler
}

func (e *StatusEndpoint) RequiresCatalog() bool { return false }

// handler godoc
//
//	@Summary		Server status
//	@Description	Catalog cache state, overlay backend and DefraDB health
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	StatusResponse
//	@Router			/status [get]
func (e *StatusEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{Server: "running", Transform: "disabled"}

	svc := svcctx.ServicesFrom(r.Context())
	if svc == nil {
		resp.Server = "starting"
		writeJSON(w, http.StatusOK, resp)
		return
	}

	resp.Backend = svc.Backend
	if svc.Catalog != nil {
		resp.Catalog = svc.Catalog.Status()
	}
	if svc.Transformer != nil {
		resp.Transform = "enabled"
	}

	if svc.DefraClient != nil {
		resp.Defra = &DefraStatus{URL: svc.DefraClient.URL(), Health: "healthy"}
		if err := svc.DefraClient.HealthCheck(r.Context()); err != nil {
			resp.Defra.Health = "unhealthy"
		}
		if e.DefraManager != nil {
			if st, err := e.DefraManager.Status(r.Context()); err != nil {
				resp.Defra.Container = "error"
			} else {
				resp.Defra.Container = string(st)
			}
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *StatusEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Get detailed server status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp StatusResponse
			if err := client.Get(cmd.Context(), "/status", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

package endpoints

import (
	"github.com/jackzampolin/restyle/internal/api"
	"github.com/jackzampolin/restyle/internal/defra"
)

// Config holds dependencies needed by some endpoints.
type Config struct {
	// DefraManager is set when the server runs the DefraDB container itself.
	DefraManager *defra.DockerManager
}

// All returns all endpoint instances.
func All(cfg Config) []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&ReadyEndpoint{},
		&StatusEndpoint{DefraManager: cfg.DefraManager},

		// Catalog endpoints
		&GetCatalogEndpoint{},
		&ResetCatalogEndpoint{},
		&AddCategoryEndpoint{},
		&DeleteCategoryEndpoint{},

		// Prompt endpoints
		&GetPromptEndpoint{},
		&AddPromptEndpoint{},
		&UpdatePromptEndpoint{},
		&DeletePromptEndpoint{},

		&TransformEndpoint{},

		// Transform metrics
		&ListMetricsEndpoint{},
		&MetricsSummaryEndpoint{},

		// Swagger/OpenAPI endpoints
		&SwaggerEndpoint{},
		&SwaggerUIEndpoint{},

		// Static files (catch-all, must be last)
		&StaticEndpoint{},
	}
}

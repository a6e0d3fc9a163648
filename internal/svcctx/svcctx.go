// Package svcctx carries the server's services through request contexts.
// It is separate from server to avoid import cycles with endpoints.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/jackzampolin/restyle/internal/catalog"
	"github.com/jackzampolin/restyle/internal/defra"
	"github.com/jackzampolin/restyle/internal/home"
	"github.com/jackzampolin/restyle/internal/metrics"
	"github.com/jackzampolin/restyle/internal/transform"
)

// Transformer performs a photo transformation. *transform.Client satisfies it.
type Transformer interface {
	Transform(ctx context.Context, req transform.Request) (*transform.Result, error)
}

// Services holds all core services that flow through context.
// Components extract what they need via the individual extractors.
type Services struct {
	Catalog     *catalog.Store
	Transformer Transformer
	// Backend names the overlay backend in use (file, sqlite, defra, memory).
	Backend     string
	DefraClient *defra.Client
	Metrics     *metrics.Recorder
	Logger      *slog.Logger
	Home        *home.Dir
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// CatalogFrom extracts the catalog store from context.
func CatalogFrom(ctx context.Context) *catalog.Store {
	if s := ServicesFrom(ctx); s != nil {
		return s.Catalog
	}
	return nil
}

// TransformerFrom extracts the image transformer from context.
func TransformerFrom(ctx context.Context) Transformer {
	if s := ServicesFrom(ctx); s != nil {
		return s.Transformer
	}
	return nil
}

// DefraClientFrom extracts the DefraDB client from context.
// It is nil unless the defra backend is in use.
func DefraClientFrom(ctx context.Context) *defra.Client {
	if s := ServicesFrom(ctx); s != nil {
		return s.DefraClient
	}
	return nil
}

// MetricsFrom extracts the transform metrics recorder from context.
func MetricsFrom(ctx context.Context) *metrics.Recorder {
	if s := ServicesFrom(ctx); s != nil {
		return s.Metrics
	}
	return nil
}

// LoggerFrom extracts the logger from context, falling back to the default.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil && s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// HomeFrom extracts the home directory from context.
func HomeFrom(ctx context.Context) *home.Dir {
	if s := ServicesFrom(ctx); s != nil {
		return s.Home
	}
	return nil
}

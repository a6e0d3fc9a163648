package schema

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackzampolin/restyle/internal/defra"
)

// Initialize registers the overlay collections with DefraDB.
// Collections that already exist are left alone, so it runs on every start.
func Initialize(ctx context.Context, client *defra.Client, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	schemas, err := All()
	if err != nil {
		return fmt.Errorf("failed to load schemas: %w", err)
	}

	for _, s := range schemas {
		if err := applySchema(ctx, client, s, logger); err != nil {
			return err
		}
	}

	return nil
}

func applySchema(ctx context.Context, client *defra.Client, s Schema, logger *slog.Logger) error {
	err := client.AddSchema(ctx, s.SDL)
	if err != nil {
		if isAlreadyExistsError(err) {
			logger.Debug("collection already registered", "name", s.Name)
			return nil
		}
		return fmt.Errorf("failed to add schema %s: %w", s.Name, err)
	}

	logger.Info("registered collection", "name", s.Name)
	return nil
}

// DefraDB reports this only in the HTTP response body.
func isAlreadyExistsError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "already exists")
}

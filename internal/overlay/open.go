package overlay

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackzampolin/restyle/internal/catalog"
	"github.com/jackzampolin/restyle/internal/config"
	"github.com/jackzampolin/restyle/internal/defra"
	"github.com/jackzampolin/restyle/internal/home"
	"github.com/jackzampolin/restyle/internal/schema"
)

// Options selects and configures a backend.
type Options struct {
	Backend    string
	FilePath   string
	SQLitePath string
	// Defra must be set for the defra backend. The caller owns the
	// DefraDB lifecycle.
	Defra *defra.Client
}

// OptionsFromConfig fills unset paths from the home directory.
func OptionsFromConfig(cfg *config.Config, h *home.Dir) Options {
	opts := Options{
		Backend:    cfg.Storage.Backend,
		FilePath:   cfg.Storage.File,
		SQLitePath: cfg.Storage.SQLitePath,
	}
	if opts.FilePath == "" {
		opts.FilePath = h.CatalogPath()
	}
	if opts.SQLitePath == "" {
		opts.SQLitePath = h.DatabasePath()
	}
	return opts
}

// Backend is an opened overlay store.
type Backend struct {
	Store catalog.BlobStore
	Name  string
	// FilePath and File are set for the file backend so callers can watch it.
	FilePath string
	File     *FileStore

	closer func() error
}

// Close releases backend resources.
func (b *Backend) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer()
}

// Open creates the configured backend.
func Open(ctx context.Context, opts Options, logger *slog.Logger) (*Backend, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch opts.Backend {
	case config.BackendFile, "":
		logger.Debug("using file overlay", "path", opts.FilePath)
		fs := NewFileStore(opts.FilePath)
		return &Backend{Store: fs, Name: config.BackendFile, FilePath: opts.FilePath, File: fs}, nil

	case config.BackendSQLite:
		s, err := OpenSQLite(opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.Debug("using sqlite overlay", "path", opts.SQLitePath)
		return &Backend{Store: s, Name: config.BackendSQLite, closer: s.Close}, nil

	case config.BackendDefra:
		if opts.Defra == nil {
			return nil, fmt.Errorf("defra backend requires a DefraDB client")
		}
		if err := schema.Initialize(ctx, opts.Defra, logger); err != nil {
			return nil, fmt.Errorf("failed to initialize overlay schema: %w", err)
		}
		logger.Debug("using defra overlay", "url", opts.Defra.URL())
		return &Backend{Store: NewDefraStore(opts.Defra), Name: config.BackendDefra}, nil

	case config.BackendMemory:
		return &Backend{Store: NewMemoryStore(), Name: config.BackendMemory}, nil
	}

	return nil, fmt.Errorf("unknown overlay backend %q", opts.Backend)
}

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackzampolin/restyle/docs"
	"github.com/jackzampolin/restyle/internal/api"
	"github.com/jackzampolin/restyle/internal/catalog"
	"github.com/jackzampolin/restyle/internal/config"
	"github.com/jackzampolin/restyle/internal/defra"
	"github.com/jackzampolin/restyle/internal/home"
	"github.com/jackzampolin/restyle/internal/metrics"
	"github.com/jackzampolin/restyle/internal/overlay"
	"github.com/jackzampolin/restyle/internal/server/endpoints"
	"github.com/jackzampolin/restyle/internal/svcctx"
	"github.com/jackzampolin/restyle/internal/transform"
)

// Server is the restyle HTTP server.
// With the defra backend it also runs the DefraDB container, starting it
// on server start and stopping it on shutdown.
type Server struct {
	httpServer   *http.Server
	defraManager *defra.DockerManager
	defraClient  *defra.Client
	backend      *overlay.Backend
	store        *catalog.Store
	metrics      *metrics.Recorder
	configMgr    *config.Manager
	home         *home.Dir
	logger       *slog.Logger
	backendName  string

	// services is swapped whole when the config reloads.
	services atomic.Pointer[svcctx.Services]

	endpointRegistry *api.Registry

	ready chan struct{}
	addr  atomic.Value // string, set once listening

	mu      sync.RWMutex
	running bool
}

// Config holds server configuration.
type Config struct {
	// Host and Port override the server section of the config file.
	// Port "0" picks a free port; see Addr.
	Host string
	Port string
	// Backend overrides storage.backend, e.g. "memory" for an ephemeral run.
	Backend string
	// Home is the restyle home directory (required).
	Home *home.Dir
	// ConfigManager provides configuration with hot-reload support (required).
	ConfigManager *config.Manager
	// Logger is the structured logger to use.
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.ConfigManager == nil {
		return nil, errors.New("server requires a config manager")
	}
	if cfg.Home == nil {
		return nil, errors.New("server requires a home directory")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	c := cfg.ConfigManager.Get()
	if cfg.Host == "" {
		cfg.Host = c.Server.Host
	}
	if cfg.Port == "" {
		cfg.Port = c.Server.Port
	}
	if cfg.Backend == "" {
		cfg.Backend = c.Storage.Backend
	}

	s := &Server{
		configMgr:   cfg.ConfigManager,
		home:        cfg.Home,
		logger:      cfg.Logger,
		backendName: cfg.Backend,
		ready:       make(chan struct{}),
	}

	// The container is only ours to manage when no external URL is given.
	if cfg.Backend == config.BackendDefra && c.Defra.URL == "" {
		if err := os.MkdirAll(cfg.Home.DefraDataPath(), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create defra data directory: %w", err)
		}
		dm, err := defra.NewDockerManager(defra.DockerConfig{
			ContainerName: c.Defra.ContainerName,
			Image:         c.Defra.Image,
			HostPort:      c.Defra.Port,
			DataPath:      cfg.Home.DefraDataPath(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create defra manager: %w", err)
		}
		s.defraManager = dm
	}

	s.endpointRegistry = api.NewRegistry()
	s.endpointRegistry.Register(endpoints.All(endpoints.Config{DefraManager: s.defraManager})...)

	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireCatalog)

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      s.withServices(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // transforms wait on the image API
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Start opens the catalog and serves HTTP.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	if err := acquirePidFile(s.home.PidPath()); err != nil {
		s.setNotRunning()
		return err
	}

	if err := s.openCatalog(ctx); err != nil {
		_ = s.shutdown()
		return err
	}

	cfg := s.configMgr.Get()
	s.services.Store(s.buildServices(cfg))
	s.configMgr.OnChange(func(c *config.Config) {
		s.services.Store(s.buildServices(c))
		s.logger.Info("services rebuilt from config")
	})

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	if s.backend.File != nil && cfg.Storage.Watch {
		w, err := overlay.NewWatcher(s.backend.File, s.store.Invalidate, s.logger)
		if err != nil {
			s.logger.Warn("overlay watch disabled", "error", err)
		} else {
			go w.Run(watchCtx)
		}
	}

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		_ = s.shutdown()
		return fmt.Errorf("failed to listen: %w", err)
	}
	s.addr.Store(ln.Addr().String())
	docs.SwaggerInfo.Host = ln.Addr().String()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	close(s.ready)

	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			_ = s.shutdown()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// openCatalog brings up the overlay backend and warms the catalog cache.
func (s *Server) openCatalog(ctx context.Context) error {
	cfg := s.configMgr.Get()
	opts := overlay.OptionsFromConfig(cfg, s.home)
	opts.Backend = s.backendName

	if opts.Backend == config.BackendDefra {
		client, err := s.startDefra(ctx, cfg)
		if err != nil {
			return err
		}
		opts.Defra = client
	}

	backend, err := overlay.Open(ctx, opts, s.logger)
	if err != nil {
		return fmt.Errorf("failed to open overlay: %w", err)
	}
	s.backend = backend

	s.store = catalog.NewStore(catalog.EmbeddedDefaults(), backend.Store, catalog.WithLogger(s.logger))
	if _, err := s.store.Load(ctx); err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	s.metrics = metrics.NewRecorder(s.defraClient, metrics.DefaultLimit, s.logger)
	if n, err := s.metrics.Restore(ctx); err != nil {
		s.logger.Warn("failed to restore transform metrics", "error", err)
	} else if n > 0 {
		s.logger.Info("restored transform metrics", "count", n)
	}

	st := s.store.Status()
	s.logger.Info("catalog ready",
		"backend", backend.Name,
		"source", st.Source,
		"categories", st.Categories,
		"prompts", st.Prompts)
	return nil
}

func (s *Server) startDefra(ctx context.Context, cfg *config.Config) (*defra.Client, error) {
	url := cfg.Defra.URL
	if s.defraManager != nil {
		s.logger.Info("starting DefraDB")
		if err := s.defraManager.Start(ctx); err != nil {
			return nil, fmt.Errorf("failed to start DefraDB: %w", err)
		}
		url = s.defraManager.URL()
	}

	client := defra.NewClient(url)
	if err := client.HealthCheck(ctx); err != nil {
		return nil, fmt.Errorf("DefraDB health check failed: %w", err)
	}
	s.defraClient = client
	s.logger.Info("DefraDB is ready", "url", url)
	return client, nil
}

// buildServices assembles request services for cfg. Transform is left
// disabled when no API key resolves.
func (s *Server) buildServices(cfg *config.Config) *svcctx.Services {
	svc := &svcctx.Services{
		Catalog:     s.store,
		Backend:     s.backend.Name,
		DefraClient: s.defraClient,
		Metrics:     s.metrics,
		Logger:      s.logger,
		Home:        s.home,
	}

	key := cfg.ResolvedAPIKey()
	if key == "" {
		s.logger.Warn("no OpenAI API key configured, transform disabled")
		return svc
	}
	svc.Transformer = transform.New(transform.Config{
		APIKey:     key,
		BaseURL:    cfg.OpenAI.BaseURL,
		Model:      cfg.OpenAI.Model,
		Size:       cfg.OpenAI.Size,
		Timeout:    time.Duration(cfg.OpenAI.TimeoutSeconds) * time.Second,
		MaxRetries: cfg.OpenAI.MaxRetries,
		OutputDir:  s.home.OutputsDir(),
		Logger:     s.logger,
	}, s.store)
	return svc
}

// shutdown performs graceful shutdown of the HTTP server, the overlay
// backend and DefraDB.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	if s.backend != nil {
		if err := s.backend.Close(); err != nil {
			s.logger.Error("overlay close error", "error", err)
		}
	}

	if s.defraManager != nil {
		s.logger.Info("stopping DefraDB")
		if err := s.defraManager.Stop(shutdownCtx); err != nil {
			s.logger.Error("DefraDB stop error", "error", err)
		}
		if err := s.defraManager.Close(); err != nil {
			s.logger.Error("DefraDB manager close error", "error", err)
		}
	}

	removePidFile(s.home.PidPath())
	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Ready is closed once the server accepts connections.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the listen address. Once Ready is closed it is the bound
// address, which resolves port "0".
func (s *Server) Addr() string {
	if a, ok := s.addr.Load().(string); ok {
		return a
	}
	return s.httpServer.Addr
}

// Catalog returns the catalog store, or nil before Start.
func (s *Server) Catalog() *catalog.Store {
	return s.store
}

// Metrics returns the transform metrics recorder, or nil before Start.
func (s *Server) Metrics() *metrics.Recorder {
	return s.metrics
}

// DefraClient returns the DefraDB client.
// Returns nil unless the defra backend is in use and started.
func (s *Server) DefraClient() *defra.Client {
	return s.defraClient
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc := s.services.Load(); svc != nil {
			ctx = svcctx.WithServices(ctx, svc)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireCatalog is middleware that answers 503 until the catalog is open.
func (s *Server) requireCatalog(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc := s.services.Load(); svc == nil || svc.Catalog == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":"catalog not ready"}`))
			return
		}
		next(w, r)
	}
}

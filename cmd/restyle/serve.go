package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/restyle/internal/config"
	"github.com/jackzampolin/restyle/internal/server"
)

var (
	serveHost      string
	servePort      string
	serveEphemeral bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the restyle server",
	Long: `Start the restyle HTTP server.

The server loads the prompt catalog from the configured storage backend
(file, sqlite, defra or memory) and serves the catalog API, the transform
endpoint, Swagger docs and the web UI. With the defra backend the DefraDB
container is started too, and stopped again on shutdown.

The config file is watched; edits to the OpenAI section take effect
without a restart.

Examples:
  restyle serve                    # Start on the configured port (8080)
  restyle serve --port 3000        # Start on custom port
  restyle serve --host 0.0.0.0     # Bind to all interfaces
  restyle serve --ephemeral        # Keep catalog edits in memory only`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		h, err := getHome()
		if err != nil {
			return err
		}

		cfgMgr, err := loadConfig(h)
		if err != nil {
			return err
		}
		cfg := cfgMgr.Get()

		level, err := config.ParseLevel(cfg.Log.Level)
		if err != nil {
			return err
		}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		}))
		cfgMgr.SetLogger(logger)
		cfgMgr.WatchConfig()

		var backend string
		if serveEphemeral {
			backend = config.BackendMemory
			logger.Warn("ephemeral mode, catalog edits are lost on exit")
		}

		srv, err := server.New(server.Config{
			Host:          serveHost,
			Port:          servePort,
			Backend:       backend,
			Home:          h,
			ConfigManager: cfgMgr,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Blocks until shutdown.
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default: server.host from config)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (default: server.port from config)")
	serveCmd.Flags().BoolVar(&serveEphemeral, "ephemeral", false, "Use the in-memory overlay regardless of storage.backend")

	rootCmd.AddCommand(serveCmd)
}

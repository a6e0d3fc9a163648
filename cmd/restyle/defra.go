package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/restyle/internal/defra"
)

var defraCmd = &cobra.Command{
	Use:   "defra",
	Short: "Manage the DefraDB container",
	Long: `Manage the DefraDB container used by the defra storage backend.

'restyle serve' starts and stops the container on its own when
storage.backend is defra. These commands manage it by hand. Data is
persisted to ~/.restyle/defradb/.

Examples:
  restyle defra start   # Start the DefraDB container
  restyle defra stop    # Stop the container (data preserved)
  restyle defra status  # Check container status
  restyle defra logs    # View container logs`,
}

var defraStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the DefraDB container",
	Long: `Start the DefraDB container.

If the container doesn't exist, it will be created and started.
If it exists but is stopped, it will be started.
If it's already running, this is a no-op.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := getDockerManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		fmt.Println("Starting DefraDB...")
		if err := mgr.Start(cmd.Context()); err != nil {
			return fmt.Errorf("failed to start DefraDB: %w", err)
		}

		fmt.Printf("DefraDB is running at %s\n", mgr.URL())
		return nil
	},
}

var defraStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the DefraDB container",
	Long: `Stop the DefraDB container.

This stops the container but preserves data. Use 'restyle defra start'
to restart it later.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := getDockerManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		fmt.Println("Stopping DefraDB...")
		if err := mgr.Stop(cmd.Context()); err != nil {
			return fmt.Errorf("failed to stop DefraDB: %w", err)
		}

		fmt.Println("DefraDB stopped")
		return nil
	},
}

var defraStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show DefraDB container status",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		mgr, err := getDockerManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		status, err := mgr.Status(ctx)
		if err != nil {
			return fmt.Errorf("failed to get status: %w", err)
		}

		switch status {
		case defra.StatusRunning:
			fmt.Printf("Status: %s\n", status)
			fmt.Printf("URL: %s\n", mgr.URL())

			client := defra.NewClient(mgr.URL())
			if err := client.HealthCheck(ctx); err != nil {
				fmt.Printf("Health: unhealthy (%v)\n", err)
			} else {
				fmt.Println("Health: healthy")
			}
		case defra.StatusStopped:
			fmt.Printf("Status: %s (use 'restyle defra start' to start)\n", status)
		case defra.StatusNotFound:
			fmt.Printf("Status: %s (use 'restyle defra start' to create)\n", status)
		default:
			fmt.Printf("Status: %s\n", status)
		}

		return nil
	},
}

var logsTail string

var defraLogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show DefraDB container logs",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := getDockerManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		logs, err := mgr.Logs(cmd.Context(), logsTail)
		if err != nil {
			return fmt.Errorf("failed to get logs: %w", err)
		}

		fmt.Print(logs)
		return nil
	},
}

var defraRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove the DefraDB container",
	Long: `Remove the DefraDB container.

This stops and removes the container. Data in ~/.restyle/defradb/
is NOT deleted, only the container is removed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := getDockerManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		fmt.Println("Removing DefraDB container...")
		if err := mgr.Remove(cmd.Context()); err != nil {
			return fmt.Errorf("failed to remove container: %w", err)
		}

		fmt.Println("DefraDB container removed (data preserved)")
		return nil
	},
}

var defraWaitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait for DefraDB to be ready",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := getDockerManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		timeout, _ := cmd.Flags().GetDuration("timeout")
		fmt.Printf("Waiting for DefraDB (timeout: %s)...\n", timeout)

		if err := mgr.WaitReady(cmd.Context(), timeout); err != nil {
			return fmt.Errorf("DefraDB not ready: %w", err)
		}

		fmt.Println("DefraDB is ready")
		return nil
	},
}

func init() {
	defraCmd.AddCommand(defraStartCmd)
	defraCmd.AddCommand(defraStopCmd)
	defraCmd.AddCommand(defraStatusCmd)
	defraCmd.AddCommand(defraLogsCmd)
	defraCmd.AddCommand(defraRemoveCmd)
	defraCmd.AddCommand(defraWaitCmd)

	defraLogsCmd.Flags().StringVar(&logsTail, "tail", "100", "Number of lines to show from the end")
	defraWaitCmd.Flags().Duration("timeout", 30*time.Second, "Timeout waiting for DefraDB")

	rootCmd.AddCommand(defraCmd)
}

// getDockerManager creates a DockerManager from the defra config section.
func getDockerManager() (*defra.DockerManager, error) {
	h, err := getHome()
	if err != nil {
		return nil, err
	}
	cfgMgr, err := loadConfig(h)
	if err != nil {
		return nil, err
	}
	dc := cfgMgr.Get().Defra

	if err := os.MkdirAll(h.DefraDataPath(), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return defra.NewDockerManager(defra.DockerConfig{
		ContainerName: dc.ContainerName,
		Image:         dc.Image,
		HostPort:      dc.Port,
		DataPath:      h.DefraDataPath(),
	})
}
